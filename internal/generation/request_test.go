package generation

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/deloreyj/conversa/internal/domain"
)

func TestResolveNewPack(t *testing.T) {
	req, err := Resolve(Payload{UserPrompt: "  ordering coffee in Lisbon  "})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if req.Mode != ModeNewPack {
		t.Fatalf("mode = %q", req.Mode)
	}
	if req.New == nil || req.Append != nil {
		t.Fatalf("expected only the new-pack variant populated")
	}
	if req.New.UserPrompt != "ordering coffee in Lisbon" {
		t.Fatalf("prompt not trimmed: %q", req.New.UserPrompt)
	}
	if req.New.OwnerID != DefaultOwnerID {
		t.Fatalf("owner = %q, want %q", req.New.OwnerID, DefaultOwnerID)
	}
	if req.New.Visibility != domain.VisibilityPublic {
		t.Fatalf("visibility = %q", req.New.Visibility)
	}
}

func TestResolveNewPackPrivate(t *testing.T) {
	req, err := Resolve(Payload{UserPrompt: "verbs", OwnerID: "user-9", Visibility: "private"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if req.New.OwnerID != "user-9" || req.New.Visibility != domain.VisibilityPrivate {
		t.Fatalf("got owner=%q visibility=%q", req.New.OwnerID, req.New.Visibility)
	}
}

func TestResolvePromptTooLong(t *testing.T) {
	_, err := Resolve(Payload{UserPrompt: strings.Repeat("a", 1001)})
	if !errors.Is(err, ErrPromptTooLong) {
		t.Fatalf("expected ErrPromptTooLong, got %v", err)
	}

	if _, err := Resolve(Payload{UserPrompt: strings.Repeat("a", 1000)}); err != nil {
		t.Fatalf("1000 chars should pass: %v", err)
	}
}

func TestResolveAppendCards(t *testing.T) {
	req, err := Resolve(Payload{
		PackID:        "5f9f0a1e-0000-0000-0000-000000000000",
		ExistingCards: []domain.Card{},
		PackSummary:   &domain.PackSummary{Title: "Greetings"},
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if req.Mode != ModeAppendCards {
		t.Fatalf("mode = %q", req.Mode)
	}
	if req.Append.CountHint != DefaultAppendCount {
		t.Fatalf("count = %d, want default %d", req.Append.CountHint, DefaultAppendCount)
	}
}

func TestResolvePromptWinsOverAppendFields(t *testing.T) {
	req, err := Resolve(Payload{
		UserPrompt:    "beach vocabulary",
		PackID:        "5f9f0a1e-0000-0000-0000-000000000000",
		ExistingCards: []domain.Card{},
		PackSummary:   &domain.PackSummary{Title: "Greetings"},
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if req.Mode != ModeNewPack {
		t.Fatalf("a payload with a prompt must take the new-pack path, got %q", req.Mode)
	}
}

func TestResolveAppendSurvivesSerialization(t *testing.T) {
	// A zero-card pack still forms a complete append triple, and that must
	// hold after the payload round-trips through JSON on its way to the
	// resolve step.
	raw, err := json.Marshal(Payload{
		PackID:        "5f9f0a1e-0000-0000-0000-000000000000",
		ExistingCards: []domain.Card{},
		PackSummary:   &domain.PackSummary{Title: "Greetings"},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded Payload
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	req, err := Resolve(decoded)
	if err != nil {
		t.Fatalf("resolve after round trip: %v", err)
	}
	if req.Mode != ModeAppendCards {
		t.Fatalf("mode = %q, want %q", req.Mode, ModeAppendCards)
	}
	if req.Append.ExistingCards == nil || len(req.Append.ExistingCards) != 0 {
		t.Fatalf("existing cards = %#v, want empty non-nil slice", req.Append.ExistingCards)
	}
}

func TestResolveAmbiguous(t *testing.T) {
	cases := []Payload{
		{},
		{UserPrompt: "   "},
		{PackID: "5f9f0a1e-0000-0000-0000-000000000000"},
		{PackID: "5f9f0a1e-0000-0000-0000-000000000000", ExistingCards: []domain.Card{}},
		{PackID: "5f9f0a1e-0000-0000-0000-000000000000", PackSummary: &domain.PackSummary{}},
		{ExistingCards: []domain.Card{}, PackSummary: &domain.PackSummary{}},
	}
	for i, p := range cases {
		if _, err := Resolve(p); !errors.Is(err, ErrAmbiguousRequest) {
			t.Fatalf("case %d: expected ErrAmbiguousRequest, got %v", i, err)
		}
	}
}
