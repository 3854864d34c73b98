package packgen

import (
	"github.com/deloreyj/conversa/internal/domain"
	"github.com/deloreyj/conversa/internal/generation"
)

const (
	WorkflowName = "pack_generation"

	ActivityResolveRequest = "resolve_request"
	ActivityEnhancePrompt  = "enhance_prompt"
	ActivityGeneratePack   = "generate_pack"
	ActivityAugmentCards   = "augment_cards"
	ActivitySavePack       = "save_pack"
	ActivityMergeCards     = "merge_cards"
)

// Application error types. Errors carrying one of these are permanent and
// must not be retried by any activity policy.
const (
	ErrTypeAmbiguousRequest  = "ambiguous_request"
	ErrTypeValidationFailed  = "validation_failed"
	ErrTypePersistenceFailed = "persistence_failed"
)

// Input wraps the raw request payload; the workflow's first step resolves it
// into one of the two modes.
type Input struct {
	Payload generation.Payload `json:"payload"`
}

type SaveInput struct {
	OwnerID    string                   `json:"owner_id"`
	Visibility string                   `json:"visibility"`
	Pack       generation.GeneratedPack `json:"pack"`
}

type SavedPack struct {
	PackID string `json:"pack_id"`
	Slug   string `json:"slug"`
}

type AugmentInput struct {
	PackID       string             `json:"pack_id"`
	Existing     []domain.Card      `json:"existing"`
	Summary      domain.PackSummary `json:"summary"`
	Count        int                `json:"count"`
	CustomPrompt string             `json:"custom_prompt,omitempty"`
}

type MergeInput struct {
	PackID string        `json:"pack_id"`
	Cards  []domain.Card `json:"cards"`
}

type MergeResult struct {
	TotalCards int `json:"total_cards"`
	Added      int `json:"added"`
}

// Result is the workflow's terminal output for either mode.
type Result struct {
	Mode             generation.Mode `json:"mode"`
	PackID           string          `json:"pack_id"`
	Slug             string          `json:"slug,omitempty"`
	Title            string          `json:"title,omitempty"`
	EstimatedMinutes int             `json:"estimated_minutes,omitempty"`
	CardsAdded       int             `json:"cards_added"`
	TotalCards       int             `json:"total_cards,omitempty"`
}
