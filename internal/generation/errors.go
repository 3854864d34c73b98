package generation

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAmbiguousRequest means the inbound payload satisfies neither the
	// new-pack variant nor the append-cards variant.
	ErrAmbiguousRequest = errors.New("ambiguous generation request: need a userPrompt or a {packId, existingCards, packSummary} triple")

	// ErrPromptTooLong means the user prompt exceeds the 1000 character bound.
	ErrPromptTooLong = errors.New("user prompt exceeds 1000 characters")

	// ErrNoJSONFound means the model response contained no balanced JSON object.
	ErrNoJSONFound = errors.New("no JSON object found in model response")
)

// JSONParseError wraps a JSON syntax failure on text that did contain a
// brace-delimited object. Kept distinct from ErrNoJSONFound and from schema
// validation so callers can route each kind differently.
type JSONParseError struct {
	Err error
}

func (e *JSONParseError) Error() string {
	return fmt.Sprintf("failed to parse model response as JSON: %v", e.Err)
}

func (e *JSONParseError) Unwrap() error { return e.Err }

// FieldError is one schema violation: a field path plus a human-readable
// message, e.g. {Path: "cards[3].portuguese", Message: "must not be empty"}.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationErrors is the ordered list of schema violations for one generated
// pack. Its rendering is fed back to the model verbatim on the single
// regeneration attempt.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.Path+": "+fe.Message)
	}
	return strings.Join(parts, ", ")
}

// AsValidationErrors unwraps err into ValidationErrors when it is one.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var v ValidationErrors
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
