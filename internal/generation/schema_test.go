package generation

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func validPackJSON(numCards int) map[string]any {
	cards := make([]any, 0, numCards)
	for i := 0; i < numCards; i++ {
		cards = append(cards, map[string]any{
			"portuguese": fmt.Sprintf("frase %d", i),
			"english":    fmt.Sprintf("phrase %d", i),
			"phonetic":   fmt.Sprintf("FRAH-zeh %d", i),
		})
	}
	return map[string]any{
		"title":            "Café Vocabulary",
		"description":      "Ordering at a Lisbon café",
		"emoji":            "☕",
		"category":         "situations",
		"difficulty":       "beginner",
		"estimatedMinutes": float64(15),
		"cards":            cards,
	}
}

func TestDecodePackValid(t *testing.T) {
	pack, errs := DecodePack(validPackJSON(12))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if pack.Title != "Café Vocabulary" || pack.EstimatedMinutes != 15 {
		t.Fatalf("decoded pack wrong: %+v", pack)
	}
	if len(pack.Cards) != 12 {
		t.Fatalf("cards = %d", len(pack.Cards))
	}
	for _, c := range pack.Cards {
		if c.ID != "" {
			t.Fatalf("decode must not assign ids, got %q", c.ID)
		}
	}
}

func TestDecodePackMissingFields(t *testing.T) {
	_, errs := DecodePack(map[string]any{})
	if len(errs) == 0 {
		t.Fatal("expected errors for empty object")
	}
	paths := map[string]bool{}
	for _, fe := range errs {
		paths[fe.Path] = true
	}
	for _, want := range []string{"title", "description", "emoji", "category", "difficulty", "estimatedMinutes", "cards"} {
		if !paths[want] {
			t.Fatalf("missing error for %q in %v", want, errs)
		}
	}
}

func TestDecodePackBounds(t *testing.T) {
	obj := validPackJSON(12)
	obj["title"] = strings.Repeat("x", 101)
	obj["estimatedMinutes"] = float64(121)
	obj["difficulty"] = "expert"
	_, errs := DecodePack(obj)

	wantSubstrings := map[string]string{
		"title":            "at most 100",
		"estimatedMinutes": "between 1 and 120",
		"difficulty":       "must be one of",
	}
	for path, substr := range wantSubstrings {
		found := false
		for _, fe := range errs {
			if fe.Path == path && strings.Contains(fe.Message, substr) {
				found = true
			}
		}
		if !found {
			t.Fatalf("missing %q error mentioning %q, got %v", path, substr, errs)
		}
	}
}

func TestDecodePackTitleLengthIsRuneCounted(t *testing.T) {
	obj := validPackJSON(12)
	obj["title"] = strings.Repeat("ã", 100)
	if _, errs := DecodePack(obj); len(errs) != 0 {
		t.Fatalf("100 multibyte runes should pass, got %v", errs)
	}
}

func TestDecodePackCardCount(t *testing.T) {
	if _, errs := DecodePack(validPackJSON(9)); len(errs) == 0 {
		t.Fatal("9 cards should fail")
	}
	if _, errs := DecodePack(validPackJSON(10)); len(errs) != 0 {
		t.Fatalf("10 cards should pass, got %v", errs)
	}
	if _, errs := DecodePack(validPackJSON(100)); len(errs) != 0 {
		t.Fatalf("100 cards should pass, got %v", errs)
	}
	if _, errs := DecodePack(validPackJSON(101)); len(errs) == 0 {
		t.Fatal("101 cards should fail")
	}
}

func TestDecodePackCardFieldPaths(t *testing.T) {
	obj := validPackJSON(12)
	cards := obj["cards"].([]any)
	cards[3] = map[string]any{"portuguese": "", "english": "ok"}
	_, errs := DecodePack(obj)

	paths := map[string]bool{}
	for _, fe := range errs {
		paths[fe.Path] = true
	}
	if !paths["cards[3].portuguese"] || !paths["cards[3].phonetic"] {
		t.Fatalf("expected card-indexed paths, got %v", errs)
	}
}

func TestDecodePackCardsNotArray(t *testing.T) {
	obj := validPackJSON(12)
	obj["cards"] = "lots of cards"
	_, errs := DecodePack(obj)
	if len(errs) == 0 || errs[len(errs)-1].Path != "cards" {
		t.Fatalf("expected trailing cards error, got %v", errs)
	}
}

func TestDecodeCardBatch(t *testing.T) {
	raw := `{"cards": [{"portuguese": "praia", "english": "beach", "phonetic": "PRY-ah"}]}`
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	cards, errs := DecodeCardBatch(obj)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(cards) != 1 || cards[0].Portuguese != "praia" {
		t.Fatalf("cards = %+v", cards)
	}
}

func TestDecodeCardBatchEmpty(t *testing.T) {
	if _, errs := DecodeCardBatch(map[string]any{"cards": []any{}}); len(errs) == 0 {
		t.Fatal("empty batch should fail")
	}
	if _, errs := DecodeCardBatch(map[string]any{}); len(errs) == 0 {
		t.Fatal("missing cards should fail")
	}
}

func TestValidationErrorsRendering(t *testing.T) {
	v := ValidationErrors{
		{Path: "title", Message: "is required"},
		{Path: "cards[0].english", Message: "must not be empty"},
	}
	got := v.Error()
	if got != "title: is required, cards[0].english: must not be empty" {
		t.Fatalf("rendered %q", got)
	}
}
