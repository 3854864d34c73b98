package generation

import (
	"strings"

	"github.com/deloreyj/conversa/internal/domain"
)

type Mode string

const (
	ModeNewPack     Mode = "new_pack"
	ModeAppendCards Mode = "append_cards"
)

const (
	// DefaultOwnerID is used when a kickoff carries no owner, matching the
	// shared "all" bucket the seeded packs live under.
	DefaultOwnerID = "all"

	// DefaultAppendCount is the batch size when an append request gives no hint.
	DefaultAppendCount = 5

	maxPromptLen = 1000
)

// Payload is the raw inbound shape: one entry point accepts both structurally
// different requests, so every field is optional here and Resolve classifies.
type Payload struct {
	UserPrompt string `json:"userPrompt,omitempty"`
	OwnerID    string `json:"ownerId,omitempty"`
	Visibility string `json:"visibility,omitempty"`

	PackID string `json:"packId,omitempty"`
	// ExistingCards must survive serialization even when empty: a zero-card
	// pack's snapshot still completes the append triple.
	ExistingCards   []domain.Card       `json:"existingCards"`
	PackSummary     *domain.PackSummary `json:"packSummary,omitempty"`
	AdditionalCards int                 `json:"additionalCards,omitempty"`
	CustomPrompt    string              `json:"customPrompt,omitempty"`
}

type NewPackRequest struct {
	UserPrompt string `json:"user_prompt"`
	OwnerID    string `json:"owner_id"`
	Visibility string `json:"visibility"`
}

type AppendCardsRequest struct {
	PackID        string             `json:"pack_id"`
	ExistingCards []domain.Card      `json:"existing_cards"`
	PackSummary   domain.PackSummary `json:"pack_summary"`
	CountHint     int                `json:"count_hint"`
	CustomPrompt  string             `json:"custom_prompt,omitempty"`
}

// Request is the resolved, unambiguous variant. Exactly one of New/Append is
// populated, selected by Mode.
type Request struct {
	Mode   Mode                `json:"mode"`
	New    *NewPackRequest     `json:"new,omitempty"`
	Append *AppendCardsRequest `json:"append,omitempty"`
}

// Resolve classifies a raw payload into exactly one request variant. A
// non-empty user prompt selects the new-pack path; otherwise a complete
// {packId, existingCards, packSummary} triple selects the append path. Anything
// else is rejected with ErrAmbiguousRequest before any step runs.
func Resolve(p Payload) (Request, error) {
	prompt := strings.TrimSpace(p.UserPrompt)
	if prompt != "" {
		if len(prompt) > maxPromptLen {
			return Request{}, ErrPromptTooLong
		}
		owner := strings.TrimSpace(p.OwnerID)
		if owner == "" {
			owner = DefaultOwnerID
		}
		visibility := strings.TrimSpace(p.Visibility)
		if visibility != domain.VisibilityPrivate {
			visibility = domain.VisibilityPublic
		}
		return Request{
			Mode: ModeNewPack,
			New: &NewPackRequest{
				UserPrompt: prompt,
				OwnerID:    owner,
				Visibility: visibility,
			},
		}, nil
	}

	packID := strings.TrimSpace(p.PackID)
	if packID != "" && p.ExistingCards != nil && p.PackSummary != nil {
		count := p.AdditionalCards
		if count <= 0 {
			count = DefaultAppendCount
		}
		return Request{
			Mode: ModeAppendCards,
			Append: &AppendCardsRequest{
				PackID:        packID,
				ExistingCards: p.ExistingCards,
				PackSummary:   *p.PackSummary,
				CountHint:     count,
				CustomPrompt:  strings.TrimSpace(p.CustomPrompt),
			},
		}, nil
	}

	return Request{}, ErrAmbiguousRequest
}
