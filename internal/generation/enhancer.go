package generation

import (
	"context"
	"strings"

	"github.com/deloreyj/conversa/internal/clients/openai"
	"github.com/deloreyj/conversa/internal/pkg/logger"
)

// Enhancer rewrites a raw user prompt into a detailed generation prompt with
// a single completion call against the lightweight model.
type Enhancer struct {
	log *logger.Logger
	ai  openai.Client
}

func NewEnhancer(log *logger.Logger, ai openai.Client) *Enhancer {
	return &Enhancer{log: log, ai: ai}
}

func (e *Enhancer) Enhance(ctx context.Context, userPrompt string) (string, error) {
	_, enhanceModel := e.ai.Models()
	out, err := e.ai.Complete(ctx, openai.CompletionRequest{
		Model: enhanceModel,
		Messages: []openai.Message{
			{Role: "system", Content: enhanceSystemPrompt},
			{Role: "user", Content: enhanceUserPrompt(userPrompt)},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}
	enhanced := strings.TrimSpace(out)
	if enhanced == "" {
		return "", openai.ErrEmptyCompletion
	}
	e.log.Debug("enhanced prompt", "chars", len(enhanced))
	return enhanced, nil
}
