package generation

import (
	"fmt"
	"testing"
	"time"

	"github.com/deloreyj/conversa/internal/domain"
)

func TestAssignCardIDs(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	cards := []domain.Card{
		{Portuguese: "um"},
		{Portuguese: "dois"},
		{Portuguese: "três"},
	}
	out := AssignCardIDs(cards, now)

	for i, c := range out {
		want := fmt.Sprintf("1700000000123-%d", i)
		if c.ID != want {
			t.Fatalf("card %d id = %q, want %q", i, c.ID, want)
		}
	}
	if cards[0].ID != "" {
		t.Fatal("input slice must not be mutated")
	}

	// Same clock, same ids.
	again := AssignCardIDs(cards, now)
	for i := range out {
		if out[i].ID != again[i].ID {
			t.Fatalf("ids not deterministic at %d: %q vs %q", i, out[i].ID, again[i].ID)
		}
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Saudações & Cumprimentos":  "saudacoes--cumprimentos",
		"Café da Manhã":             "cafe-da-manha",
		"  Verbos   Irregulares  ":  "verbos-irregulares",
		"Ações do Dia-a-Dia":        "acoes-do-dia-a-dia",
		"100 Frases Úteis":          "100-frases-uteis",
		"Pões, Pães e Preposições!": "poes-paes-e-preposicoes",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}

	// Deterministic.
	if Slugify("Café da Manhã") != Slugify("Café da Manhã") {
		t.Fatal("slugify must be deterministic")
	}
}
