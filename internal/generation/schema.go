package generation

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/deloreyj/conversa/internal/domain"
)

const (
	maxTitleLen       = 100
	maxDescriptionLen = 500
	maxEmojiLen       = 10
	minEstimatedMin   = 1
	maxEstimatedMin   = 120
	minPackCards      = 10
	maxPackCards      = 100
)

// DecodePack validates a parsed model response against the pack schema and
// decodes it. The returned error list is ordered by field and is what gets
// appended to the regeneration prompt, so messages stay short and concrete.
// A non-empty error list means the pack must not be used.
func DecodePack(obj map[string]any) (*GeneratedPack, ValidationErrors) {
	var errs ValidationErrors
	p := &GeneratedPack{}

	p.Title = stringField(obj, "title", 1, maxTitleLen, &errs)
	p.Description = stringField(obj, "description", 1, maxDescriptionLen, &errs)
	p.Emoji = stringField(obj, "emoji", 1, maxEmojiLen, &errs)
	p.Category = stringField(obj, "category", 1, 0, &errs)

	p.Difficulty = stringField(obj, "difficulty", 1, 0, &errs)
	switch p.Difficulty {
	case "", domain.DifficultyBeginner, domain.DifficultyIntermediate, domain.DifficultyAdvanced:
	default:
		errs = append(errs, FieldError{
			Path:    "difficulty",
			Message: "must be one of beginner, intermediate, advanced",
		})
	}

	p.EstimatedMinutes = intField(obj, "estimatedMinutes", minEstimatedMin, maxEstimatedMin, &errs)

	rawCards, ok := obj["cards"].([]any)
	if !ok {
		errs = append(errs, FieldError{Path: "cards", Message: "must be an array"})
		return p, errs
	}
	if len(rawCards) < minPackCards || len(rawCards) > maxPackCards {
		errs = append(errs, FieldError{
			Path:    "cards",
			Message: fmt.Sprintf("must contain between %d and %d cards, got %d", minPackCards, maxPackCards, len(rawCards)),
		})
	}
	p.Cards = decodeCards(rawCards, &errs)

	return p, errs
}

// DecodeCardBatch validates a bare {"cards":[...]} response from the append
// path. Bounds are intentionally looser than the new-pack schema: only the
// three-field card shape is enforced.
func DecodeCardBatch(obj map[string]any) ([]domain.Card, ValidationErrors) {
	var errs ValidationErrors
	rawCards, ok := obj["cards"].([]any)
	if !ok {
		errs = append(errs, FieldError{Path: "cards", Message: "must be an array"})
		return nil, errs
	}
	if len(rawCards) == 0 {
		errs = append(errs, FieldError{Path: "cards", Message: "must not be empty"})
		return nil, errs
	}
	cards := decodeCards(rawCards, &errs)
	return cards, errs
}

func decodeCards(rawCards []any, errs *ValidationErrors) []domain.Card {
	cards := make([]domain.Card, 0, len(rawCards))
	for i, rc := range rawCards {
		cm, ok := rc.(map[string]any)
		if !ok {
			*errs = append(*errs, FieldError{
				Path:    fmt.Sprintf("cards[%d]", i),
				Message: "must be an object",
			})
			continue
		}
		card := domain.Card{}
		card.Portuguese = cardField(cm, i, "portuguese", errs)
		card.English = cardField(cm, i, "english", errs)
		card.Phonetic = cardField(cm, i, "phonetic", errs)
		cards = append(cards, card)
	}
	return cards
}

func cardField(cm map[string]any, index int, key string, errs *ValidationErrors) string {
	path := fmt.Sprintf("cards[%d].%s", index, key)
	v, ok := cm[key]
	if !ok {
		*errs = append(*errs, FieldError{Path: path, Message: "is required"})
		return ""
	}
	s, ok := v.(string)
	if !ok {
		*errs = append(*errs, FieldError{Path: path, Message: "must be a string"})
		return ""
	}
	if s == "" {
		*errs = append(*errs, FieldError{Path: path, Message: "must not be empty"})
	}
	return s
}

// stringField reads a required string, enforcing rune-length bounds. maxLen 0
// means unbounded.
func stringField(obj map[string]any, key string, minLen, maxLen int, errs *ValidationErrors) string {
	v, ok := obj[key]
	if !ok {
		*errs = append(*errs, FieldError{Path: key, Message: "is required"})
		return ""
	}
	s, ok := v.(string)
	if !ok {
		*errs = append(*errs, FieldError{Path: key, Message: "must be a string"})
		return ""
	}
	n := utf8.RuneCountInString(s)
	if n < minLen {
		*errs = append(*errs, FieldError{Path: key, Message: "must not be empty"})
	}
	if maxLen > 0 && n > maxLen {
		*errs = append(*errs, FieldError{
			Path:    key,
			Message: fmt.Sprintf("must be at most %d characters, got %d", maxLen, n),
		})
	}
	return s
}

func intField(obj map[string]any, key string, min, max int, errs *ValidationErrors) int {
	v, ok := obj[key]
	if !ok {
		*errs = append(*errs, FieldError{Path: key, Message: "is required"})
		return 0
	}
	f, ok := v.(float64)
	if !ok {
		*errs = append(*errs, FieldError{Path: key, Message: "must be a number"})
		return 0
	}
	n := int(math.Round(f))
	if n < min || n > max {
		*errs = append(*errs, FieldError{
			Path:    key,
			Message: fmt.Sprintf("must be between %d and %d, got %d", min, max, n),
		})
	}
	return n
}
