package generation

import (
	"context"
	"strings"
	"time"

	"github.com/deloreyj/conversa/internal/clients/openai"
	"github.com/deloreyj/conversa/internal/domain"
	"github.com/deloreyj/conversa/internal/pkg/logger"
)

const augmentTemperature = 0.3

// Augmenter generates additional cards for an existing pack. There is no
// validation-feedback loop here; a malformed batch fails the call and the
// caller's retry policy covers it.
type Augmenter struct {
	log *logger.Logger
	ai  openai.Client
	now func() time.Time
}

func NewAugmenter(log *logger.Logger, ai openai.Client) *Augmenter {
	return &Augmenter{log: log, ai: ai, now: time.Now}
}

func (a *Augmenter) Augment(ctx context.Context, existing []domain.Card, summary domain.PackSummary, count int, customPrompt string) ([]domain.Card, error) {
	if count <= 0 {
		count = DefaultAppendCount
	}

	model, _ := a.ai.Models()
	out, err := a.ai.Complete(ctx, openai.CompletionRequest{
		Model: model,
		Messages: []openai.Message{
			{Role: "system", Content: augmentSystemPrompt(existing, summary, count)},
			{Role: "user", Content: augmentUserPrompt(summary, count, customPrompt)},
		},
		Temperature: augmentTemperature,
	})
	if err != nil {
		return nil, err
	}

	obj, err := ParseObject(StripCodeFences(out))
	if err != nil {
		return nil, err
	}
	cards, verrs := DecodeCardBatch(obj)
	if len(verrs) > 0 {
		return nil, verrs
	}

	fresh := dedupAgainst(existing, cards)
	if len(fresh) < len(cards) {
		a.log.Warn("dropped duplicate cards from augmentation batch", "count", len(cards)-len(fresh))
	}
	return AssignCardIDs(fresh, a.now()), nil
}

// dedupAgainst drops generated cards whose Portuguese side already appears in
// the pack, compared case-insensitively after trimming.
func dedupAgainst(existing []domain.Card, generated []domain.Card) []domain.Card {
	seen := make(map[string]struct{}, len(existing))
	for _, c := range existing {
		seen[cardKey(c)] = struct{}{}
	}
	out := make([]domain.Card, 0, len(generated))
	for _, c := range generated {
		k := cardKey(c)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, c)
	}
	return out
}

func cardKey(c domain.Card) string {
	return strings.ToLower(strings.TrimSpace(c.Portuguese))
}
