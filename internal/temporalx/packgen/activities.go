package packgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.temporal.io/sdk/temporal"
	"gorm.io/gorm"

	"github.com/deloreyj/conversa/internal/clients/openai"
	"github.com/deloreyj/conversa/internal/data/repos/packs"
	"github.com/deloreyj/conversa/internal/domain"
	"github.com/deloreyj/conversa/internal/generation"
	"github.com/deloreyj/conversa/internal/pkg/logger"
)

type Activities struct {
	Log   *logger.Logger
	DB    *gorm.DB
	Packs packs.PackRepo

	enhancer  *generation.Enhancer
	generator *generation.Generator
	augmenter *generation.Augmenter
}

func NewActivities(log *logger.Logger, ai openai.Client, db *gorm.DB, packRepo packs.PackRepo) *Activities {
	return &Activities{
		Log:       log,
		DB:        db,
		Packs:     packRepo,
		enhancer:  generation.NewEnhancer(log, ai),
		generator: generation.NewGenerator(log, ai),
		augmenter: generation.NewAugmenter(log, ai),
	}
}

// ResolveRequest classifies the raw payload. Rejections here are permanent:
// retrying cannot make an ambiguous payload unambiguous.
func (a *Activities) ResolveRequest(ctx context.Context, payload generation.Payload) (generation.Request, error) {
	req, err := generation.Resolve(payload)
	if err != nil {
		switch {
		case errors.Is(err, generation.ErrAmbiguousRequest):
			return generation.Request{}, temporal.NewNonRetryableApplicationError(
				err.Error(), ErrTypeAmbiguousRequest, err)
		case errors.Is(err, generation.ErrPromptTooLong):
			return generation.Request{}, temporal.NewNonRetryableApplicationError(
				err.Error(), ErrTypeValidationFailed, err)
		default:
			return generation.Request{}, err
		}
	}
	return req, nil
}

func (a *Activities) EnhancePrompt(ctx context.Context, userPrompt string) (string, error) {
	return a.enhancer.Enhance(ctx, userPrompt)
}

// GeneratePack runs the draft/validate/regenerate machine. A double
// validation failure is permanent; transient model or parse failures surface
// as retryable errors and the activity policy re-runs the whole attempt.
func (a *Activities) GeneratePack(ctx context.Context, enhancedPrompt string) (generation.GeneratedPack, error) {
	pack, err := a.generator.Generate(ctx, enhancedPrompt)
	if err != nil {
		if verrs, ok := generation.AsValidationErrors(err); ok {
			return generation.GeneratedPack{}, temporal.NewNonRetryableApplicationError(
				verrs.Error(), ErrTypeValidationFailed, err)
		}
		return generation.GeneratedPack{}, err
	}
	return *pack, nil
}

// AugmentCards has no feedback loop; any failure, including a malformed
// batch, is retryable under the step's backoff policy.
func (a *Activities) AugmentCards(ctx context.Context, in AugmentInput) ([]domain.Card, error) {
	return a.augmenter.Augment(ctx, in.Existing, in.Summary, in.Count, in.CustomPrompt)
}

func (a *Activities) SavePack(ctx context.Context, in SaveInput) (SavedPack, error) {
	rawCards, err := json.Marshal(in.Pack.Cards)
	if err != nil {
		return SavedPack{}, temporal.NewNonRetryableApplicationError(
			fmt.Sprintf("encode cards: %v", err), ErrTypePersistenceFailed, err)
	}

	row := &domain.FlashcardPack{
		Slug:             generation.Slugify(in.Pack.Title),
		Title:            in.Pack.Title,
		Description:      in.Pack.Description,
		Emoji:            in.Pack.Emoji,
		Category:         in.Pack.Category,
		Difficulty:       in.Pack.Difficulty,
		EstimatedMinutes: in.Pack.EstimatedMinutes,
		Cards:            rawCards,
		OwnerID:          in.OwnerID,
		Visibility:       in.Visibility,
	}

	created, err := a.Packs.Create(ctx, nil, row)
	if err != nil {
		return SavedPack{}, temporal.NewNonRetryableApplicationError(
			fmt.Sprintf("save pack: %v", err), ErrTypePersistenceFailed, err)
	}

	a.Log.Info("saved flashcard pack", "pack_id", created.ID, "slug", created.Slug, "cards", len(in.Pack.Cards))
	return SavedPack{PackID: created.ID.String(), Slug: created.Slug}, nil
}

func (a *Activities) MergeCards(ctx context.Context, in MergeInput) (MergeResult, error) {
	packID, err := uuid.Parse(in.PackID)
	if err != nil {
		return MergeResult{}, temporal.NewNonRetryableApplicationError(
			fmt.Sprintf("invalid pack id %q", in.PackID), ErrTypePersistenceFailed, err)
	}

	updated, err := a.Packs.AppendCards(ctx, nil, packID, in.Cards)
	if err != nil {
		return MergeResult{}, temporal.NewNonRetryableApplicationError(
			fmt.Sprintf("merge cards: %v", err), ErrTypePersistenceFailed, err)
	}

	total := len(updated.DecodeCards())
	a.Log.Info("merged cards into pack", "pack_id", in.PackID, "added", len(in.Cards), "total", total)
	return MergeResult{TotalCards: total, Added: len(in.Cards)}, nil
}
