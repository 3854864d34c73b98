package generation

import (
	"encoding/json"
	"strings"
)

// StripCodeFences removes a markdown code fence wrapper (``` or ```json) when
// the whole response is fenced. Models asked for bare JSON still fence it
// often enough that the append path has to tolerate it.
func StripCodeFences(s string) string {
	out := strings.TrimSpace(s)
	if !strings.HasPrefix(out, "```") {
		return out
	}
	out = strings.TrimPrefix(out, "```")
	if idx := strings.Index(out, "\n"); idx >= 0 {
		// Drop the info string ("json", "JSON", ...) on the opening fence line.
		first := strings.TrimSpace(out[:idx])
		if first == "" || !strings.ContainsAny(first, "{}") {
			out = out[idx+1:]
		}
	}
	out = strings.TrimSuffix(strings.TrimSpace(out), "```")
	return strings.TrimSpace(out)
}

// ExtractJSONObject returns the first balanced brace-delimited object in s.
// The scan is string- and escape-aware so braces inside JSON strings do not
// unbalance it. Returns ErrNoJSONFound when no complete object exists.
func ExtractJSONObject(s string) (string, error) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", ErrNoJSONFound
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}
	return "", ErrNoJSONFound
}

// ParseObject extracts and decodes the first JSON object in raw model text,
// distinguishing "no object at all" from "object present but malformed".
func ParseObject(raw string) (map[string]any, error) {
	text, err := ExtractJSONObject(StripCodeFences(raw))
	if err != nil {
		return nil, err
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return nil, &JSONParseError{Err: err}
	}
	return obj, nil
}
