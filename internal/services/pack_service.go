package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/deloreyj/conversa/internal/data/repos/packs"
	"github.com/deloreyj/conversa/internal/domain"
	"github.com/deloreyj/conversa/internal/generation"
	"github.com/deloreyj/conversa/internal/pkg/ctxutil"
	"github.com/deloreyj/conversa/internal/pkg/logger"
)

type PackService interface {
	List(ctx context.Context, ownerID string) ([]*domain.FlashcardPack, error)
	GetByID(ctx context.Context, packID uuid.UUID) (*domain.FlashcardPack, error)
	GetBySlug(ctx context.Context, slug string) (*domain.FlashcardPack, error)
	StartAppend(ctx context.Context, packID uuid.UUID, count int, customPrompt string) (string, error)
	Delete(ctx context.Context, packID uuid.UUID) error
}

type packService struct {
	db     *gorm.DB
	log    *logger.Logger
	repo   packs.PackRepo
	runner GenerationService
}

func NewPackService(db *gorm.DB, baseLog *logger.Logger, repo packs.PackRepo, runner GenerationService) PackService {
	return &packService{
		db:     db,
		log:    baseLog.With("service", "PackService"),
		repo:   repo,
		runner: runner,
	}
}

func (s *packService) List(ctx context.Context, ownerID string) ([]*domain.FlashcardPack, error) {
	return s.repo.List(ctxutil.Default(ctx), nil, ownerID)
}

func (s *packService) GetByID(ctx context.Context, packID uuid.UUID) (*domain.FlashcardPack, error) {
	return s.repo.GetByID(ctxutil.Default(ctx), nil, packID)
}

func (s *packService) GetBySlug(ctx context.Context, slug string) (*domain.FlashcardPack, error) {
	return s.repo.GetBySlug(ctxutil.Default(ctx), nil, slug)
}

// StartAppend loads the pack, snapshots its current cards and summary into
// the kickoff payload, and starts an append run. The snapshot is what the
// augmentation model sees; cards added concurrently are still safe because
// the merge step re-reads the row.
func (s *packService) StartAppend(ctx context.Context, packID uuid.UUID, count int, customPrompt string) (string, error) {
	ctx = ctxutil.Default(ctx)
	pack, err := s.repo.GetByID(ctx, nil, packID)
	if err != nil {
		return "", err
	}

	cards := pack.DecodeCards()
	payload := generation.Payload{
		PackID:        pack.ID.String(),
		ExistingCards: cards,
		PackSummary: &domain.PackSummary{
			Title:       pack.Title,
			Description: pack.Description,
			Category:    pack.Category,
			Difficulty:  pack.Difficulty,
		},
		AdditionalCards: count,
		CustomPrompt:    customPrompt,
	}
	return s.runner.Start(ctx, payload)
}

func (s *packService) Delete(ctx context.Context, packID uuid.UUID) error {
	return s.repo.SoftDeleteByIDs(ctxutil.Default(ctx), nil, []uuid.UUID{packID})
}
