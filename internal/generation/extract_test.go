package generation

import (
	"errors"
	"testing"
)

func TestStripCodeFences(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"a\":1}\n```":  `{"a":1}`,
		"```\n{\"a\":1}\n```":      `{"a":1}`,
		"  {\"a\":1}  ":            `{"a":1}`,
		"no fences here":           "no fences here",
		"```JSON\n{\"a\": 2}\n```": `{"a": 2}`,
	}
	for in, want := range cases {
		if got := StripCodeFences(in); got != want {
			t.Fatalf("StripCodeFences(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExtractJSONObjectWithSurroundingProse(t *testing.T) {
	in := `Here is your pack:
{"title": "Test", "note": "has a } inside a string"}
Hope that helps!`
	got, err := ExtractJSONObject(in)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	want := `{"title": "Test", "note": "has a } inside a string"}`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestExtractJSONObjectNested(t *testing.T) {
	in := `x {"a": {"b": [1, 2, {"c": "}"}]}} trailing`
	got, err := ExtractJSONObject(in)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got != `{"a": {"b": [1, 2, {"c": "}"}]}}` {
		t.Fatalf("got %q", got)
	}
}

func TestExtractJSONObjectEscapedQuote(t *testing.T) {
	in := `{"a": "quote \" and brace }"}`
	got, err := ExtractJSONObject(in)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got != in {
		t.Fatalf("got %q", got)
	}
}

func TestExtractJSONObjectMissing(t *testing.T) {
	for _, in := range []string{"no json at all", "", "unclosed {\"a\": 1"} {
		if _, err := ExtractJSONObject(in); !errors.Is(err, ErrNoJSONFound) {
			t.Fatalf("ExtractJSONObject(%q): expected ErrNoJSONFound, got %v", in, err)
		}
	}
}

func TestParseObjectDistinguishesFailures(t *testing.T) {
	if _, err := ParseObject("nothing here"); !errors.Is(err, ErrNoJSONFound) {
		t.Fatalf("expected ErrNoJSONFound, got %v", err)
	}

	_, err := ParseObject(`{"a": invalid}`)
	var jpe *JSONParseError
	if !errors.As(err, &jpe) {
		t.Fatalf("expected JSONParseError, got %v", err)
	}

	obj, err := ParseObject("```json\n{\"a\": 1}\n```")
	if err != nil {
		t.Fatalf("parse fenced: %v", err)
	}
	if obj["a"] != float64(1) {
		t.Fatalf("obj = %v", obj)
	}
}
