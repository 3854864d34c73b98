package packs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/deloreyj/conversa/internal/domain"
	"github.com/deloreyj/conversa/internal/pkg/logger"
)

var ErrPackNotFound = errors.New("flashcard pack not found")

// slugAttempts caps how many disambiguated slugs Create tries before giving
// up on a pathological title.
const slugAttempts = 5

type PackRepo interface {
	Create(ctx context.Context, tx *gorm.DB, pack *domain.FlashcardPack) (*domain.FlashcardPack, error)
	GetByID(ctx context.Context, tx *gorm.DB, packID uuid.UUID) (*domain.FlashcardPack, error)
	GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*domain.FlashcardPack, error)
	List(ctx context.Context, tx *gorm.DB, ownerID string) ([]*domain.FlashcardPack, error)
	AppendCards(ctx context.Context, tx *gorm.DB, packID uuid.UUID, cards []domain.Card) (*domain.FlashcardPack, error)
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, packIDs []uuid.UUID) error
}

type packRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPackRepo(db *gorm.DB, baseLog *logger.Logger) PackRepo {
	repoLog := baseLog.With("repo", "PackRepo")
	return &packRepo{db: db, log: repoLog}
}

// Create inserts the pack. On a slug collision it retries with a short random
// suffix so two packs with the same title can coexist.
func (r *packRepo) Create(ctx context.Context, tx *gorm.DB, pack *domain.FlashcardPack) (*domain.FlashcardPack, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if pack == nil {
		return nil, errors.New("nil pack")
	}

	base := pack.Slug
	var lastErr error
	for attempt := 0; attempt < slugAttempts; attempt++ {
		if attempt > 0 {
			pack.Slug = fmt.Sprintf("%s-%s", base, uuid.NewString()[:8])
		}
		// Savepoint per attempt so a duplicate-key failure does not
		// poison an enclosing transaction.
		err := transaction.WithContext(ctx).Transaction(func(inner *gorm.DB) error {
			return inner.Create(pack).Error
		})
		if err == nil {
			return pack, nil
		}
		lastErr = err
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		r.log.Warn("slug already taken, retrying with suffix", "slug", pack.Slug)
	}
	return nil, lastErr
}

func (r *packRepo) GetByID(ctx context.Context, tx *gorm.DB, packID uuid.UUID) (*domain.FlashcardPack, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result domain.FlashcardPack
	if err := transaction.WithContext(ctx).
		Where("id = ?", packID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPackNotFound
		}
		return nil, err
	}
	return &result, nil
}

func (r *packRepo) GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*domain.FlashcardPack, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result domain.FlashcardPack
	if err := transaction.WithContext(ctx).
		Where("slug = ?", slug).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPackNotFound
		}
		return nil, err
	}
	return &result, nil
}

// List returns public packs plus the owner's private ones, newest first.
func (r *packRepo) List(ctx context.Context, tx *gorm.DB, ownerID string) ([]*domain.FlashcardPack, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.FlashcardPack
	q := transaction.WithContext(ctx).Order("created_at DESC")
	if ownerID != "" {
		q = q.Where("visibility = ? OR owner_id = ?", domain.VisibilityPublic, ownerID)
	} else {
		q = q.Where("visibility = ?", domain.VisibilityPublic)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// AppendCards merges the new cards into the stored array inside a
// transaction. The re-read takes a row lock so concurrent appends serialize
// instead of overwriting each other's merge.
func (r *packRepo) AppendCards(ctx context.Context, tx *gorm.DB, packID uuid.UUID, cards []domain.Card) (*domain.FlashcardPack, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var updated *domain.FlashcardPack
	err := transaction.WithContext(ctx).Transaction(func(inner *gorm.DB) error {
		var pack domain.FlashcardPack
		if err := inner.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", packID).
			First(&pack).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPackNotFound
			}
			return err
		}

		merged := append(pack.DecodeCards(), cards...)
		raw, err := json.Marshal(merged)
		if err != nil {
			return err
		}
		pack.Cards = raw

		if err := inner.Model(&pack).
			Update("cards", pack.Cards).Error; err != nil {
			return err
		}
		updated = &pack
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *packRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, packIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(packIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", packIDs).
		Delete(&domain.FlashcardPack{}).Error; err != nil {
		return err
	}
	return nil
}
