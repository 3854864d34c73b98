package generation

import (
	"context"
	"time"

	"github.com/deloreyj/conversa/internal/clients/openai"
	"github.com/deloreyj/conversa/internal/pkg/logger"
)

const (
	draftTemperature      = 0.1
	regenerateTemperature = 0.05
)

type genState int

const (
	stateDraft genState = iota
	stateValidate
	stateRegenerate
	stateValidateRetry
	stateAccept
	stateFail
)

// Generator produces a full flashcard pack from an enhanced prompt. A draft
// that fails schema validation gets exactly one regeneration attempt carrying
// the violation list back to the model; a second failure surfaces the FIRST
// attempt's errors, since those describe the model's unprompted behavior.
type Generator struct {
	log *logger.Logger
	ai  openai.Client
	now func() time.Time
}

func NewGenerator(log *logger.Logger, ai openai.Client) *Generator {
	return &Generator{log: log, ai: ai, now: time.Now}
}

func (g *Generator) Generate(ctx context.Context, enhancedPrompt string) (*GeneratedPack, error) {
	var (
		state     = stateDraft
		pack      *GeneratedPack
		verrs     ValidationErrors
		firstErrs ValidationErrors
	)

	for {
		switch state {
		case stateDraft:
			obj, err := g.draft(ctx, enhancedPrompt, "", draftTemperature)
			if err != nil {
				return nil, err
			}
			pack, verrs = DecodePack(obj)
			state = stateValidate

		case stateValidate:
			if len(verrs) == 0 {
				state = stateAccept
				break
			}
			firstErrs = verrs
			g.log.Warn("pack draft failed validation, regenerating once", "errors", firstErrs.Error())
			state = stateRegenerate

		case stateRegenerate:
			obj, err := g.draft(ctx, enhancedPrompt, firstErrs.Error(), regenerateTemperature)
			if err != nil {
				// The regeneration already consumed the one feedback pass;
				// report why it was needed rather than how it broke.
				g.log.Error("regeneration attempt failed", "error", err)
				return nil, firstErrs
			}
			pack, verrs = DecodePack(obj)
			state = stateValidateRetry

		case stateValidateRetry:
			if len(verrs) == 0 {
				state = stateAccept
			} else {
				state = stateFail
			}

		case stateAccept:
			pack.Cards = AssignCardIDs(pack.Cards, g.now())
			return pack, nil

		case stateFail:
			return nil, firstErrs
		}
	}
}

// draft runs one completion call and extracts the JSON object from it.
func (g *Generator) draft(ctx context.Context, enhancedPrompt, feedback string, temperature float64) (map[string]any, error) {
	model, _ := g.ai.Models()
	out, err := g.ai.Complete(ctx, openai.CompletionRequest{
		Model: model,
		Messages: []openai.Message{
			{Role: "system", Content: generateSystemPrompt(enhancedPrompt, feedback)},
			{Role: "user", Content: enhancedPrompt},
		},
		Temperature: temperature,
		JSONOnly:    true,
	})
	if err != nil {
		return nil, err
	}
	return ParseObject(out)
}
