package generation

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/deloreyj/conversa/internal/clients/openai"
	"github.com/deloreyj/conversa/internal/pkg/logger"
)

// fakeAI replays canned completions and records every request it saw.
type fakeAI struct {
	responses []string
	errs      []error
	calls     []openai.CompletionRequest
}

func (f *fakeAI) Complete(_ context.Context, req openai.CompletionRequest) (string, error) {
	i := len(f.calls)
	f.calls = append(f.calls, req)
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	if err != nil {
		return "", err
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return "", openai.ErrEmptyCompletion
}

func (f *fakeAI) Models() (string, string) { return "gpt-4o", "gpt-4o-mini" }

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func mustJSON(t *testing.T, obj map[string]any) string {
	t.Helper()
	b, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}

func newTestGenerator(t *testing.T, ai openai.Client) *Generator {
	g := NewGenerator(testLogger(t), ai)
	g.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return g
}

func TestGeneratorFirstAttemptValid(t *testing.T) {
	ai := &fakeAI{responses: []string{mustJSON(t, validPackJSON(12))}}
	g := newTestGenerator(t, ai)

	pack, err := g.Generate(context.Background(), "coffee vocabulary")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(ai.calls) != 1 {
		t.Fatalf("expected exactly 1 model call, got %d", len(ai.calls))
	}
	if pack.Cards[0].ID != "1700000000000-0" {
		t.Fatalf("card id = %q", pack.Cards[0].ID)
	}

	req := ai.calls[0]
	if req.Temperature != draftTemperature {
		t.Fatalf("draft temperature = %v", req.Temperature)
	}
	if !req.JSONOnly {
		t.Fatal("draft must request json-only output")
	}
	if strings.Contains(req.Messages[0].Content, "validation errors") {
		t.Fatal("first draft must carry no feedback")
	}
}

func TestGeneratorRegeneratesOnceWithFeedback(t *testing.T) {
	bad := validPackJSON(12)
	bad["difficulty"] = "expert"
	ai := &fakeAI{responses: []string{
		mustJSON(t, bad),
		mustJSON(t, validPackJSON(12)),
	}}
	g := newTestGenerator(t, ai)

	pack, err := g.Generate(context.Background(), "coffee vocabulary")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if pack.Title == "" {
		t.Fatal("expected decoded pack from second attempt")
	}
	if len(ai.calls) != 2 {
		t.Fatalf("expected exactly 2 model calls, got %d", len(ai.calls))
	}

	retry := ai.calls[1]
	if retry.Temperature != regenerateTemperature {
		t.Fatalf("retry temperature = %v", retry.Temperature)
	}
	sys := retry.Messages[0].Content
	if !strings.Contains(sys, "difficulty: must be one of") {
		t.Fatalf("retry prompt missing violation list:\n%s", sys)
	}
}

func TestGeneratorSecondFailureSurfacesFirstErrors(t *testing.T) {
	firstBad := validPackJSON(12)
	firstBad["difficulty"] = "expert"
	secondBad := validPackJSON(12)
	delete(secondBad, "title")

	ai := &fakeAI{responses: []string{
		mustJSON(t, firstBad),
		mustJSON(t, secondBad),
	}}
	g := newTestGenerator(t, ai)

	_, err := g.Generate(context.Background(), "coffee vocabulary")
	if err == nil {
		t.Fatal("expected failure")
	}
	if len(ai.calls) != 2 {
		t.Fatalf("expected exactly 2 model calls, got %d", len(ai.calls))
	}

	verrs, ok := AsValidationErrors(err)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if !strings.Contains(verrs.Error(), "difficulty") {
		t.Fatalf("expected FIRST attempt's errors, got %q", verrs.Error())
	}
	if strings.Contains(verrs.Error(), "title") {
		t.Fatalf("second attempt's errors leaked: %q", verrs.Error())
	}
}

func TestGeneratorRetryTransportFailureSurfacesFirstErrors(t *testing.T) {
	bad := validPackJSON(12)
	bad["difficulty"] = "expert"
	ai := &fakeAI{
		responses: []string{mustJSON(t, bad), ""},
		errs:      []error{nil, errors.New("connection reset")},
	}
	g := newTestGenerator(t, ai)

	_, err := g.Generate(context.Background(), "coffee vocabulary")
	if _, ok := AsValidationErrors(err); !ok {
		t.Fatalf("expected the original validation errors, got %v", err)
	}
}

func TestGeneratorMalformedDraftIsRetryable(t *testing.T) {
	ai := &fakeAI{responses: []string{"I cannot produce JSON today"}}
	g := newTestGenerator(t, ai)

	_, err := g.Generate(context.Background(), "coffee vocabulary")
	if !errors.Is(err, ErrNoJSONFound) {
		t.Fatalf("expected ErrNoJSONFound passthrough, got %v", err)
	}
	if _, ok := AsValidationErrors(err); ok {
		t.Fatal("parse failures must not be classified as validation failures")
	}
	if len(ai.calls) != 1 {
		t.Fatalf("draft parse failure must not consume the regeneration, got %d calls", len(ai.calls))
	}
}

func TestEnhancer(t *testing.T) {
	ai := &fakeAI{responses: []string{"  Detailed prompt about café vocabulary.  "}}
	e := NewEnhancer(testLogger(t), ai)

	out, err := e.Enhance(context.Background(), "coffee words")
	if err != nil {
		t.Fatalf("enhance: %v", err)
	}
	if out != "Detailed prompt about café vocabulary." {
		t.Fatalf("out = %q", out)
	}

	req := ai.calls[0]
	if req.Model != "gpt-4o-mini" {
		t.Fatalf("enhancement must use the lightweight model, got %q", req.Model)
	}
	if !strings.Contains(req.Messages[1].Content, "coffee words") {
		t.Fatalf("user prompt missing from request: %q", req.Messages[1].Content)
	}
}

func TestEnhancerEmptyCompletion(t *testing.T) {
	ai := &fakeAI{responses: []string{"   "}}
	e := NewEnhancer(testLogger(t), ai)
	if _, err := e.Enhance(context.Background(), "x"); !errors.Is(err, openai.ErrEmptyCompletion) {
		t.Fatalf("expected ErrEmptyCompletion, got %v", err)
	}
}
