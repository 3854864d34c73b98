package generation

import "github.com/deloreyj/conversa/internal/domain"

// GeneratedPack is the model's output after schema validation, before
// persistence. Card ids are assigned here, never by the model.
type GeneratedPack struct {
	Title            string        `json:"title"`
	Description      string        `json:"description"`
	Emoji            string        `json:"emoji"`
	Category         string        `json:"category"`
	Difficulty       string        `json:"difficulty"`
	EstimatedMinutes int           `json:"estimatedMinutes"`
	Cards            []domain.Card `json:"cards"`
}
