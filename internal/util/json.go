package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoJSONObject is returned when a response holds no {...} span
var ErrNoJSONObject = errors.New("no JSON object found in model output")

// ExtractJSON returns the span between the first '{' and the last '}' (inclusive).
// Nested or sequential objects are not separated: text such as `{"a":1} and {"b":2}`
// yields the whole span, which will not parse.
func ExtractJSON(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return "", ErrNoJSONObject
	}
	return s[start : end+1], nil
}

// DecodeJSON extracts the candidate object from s and unmarshals it into v
func DecodeJSON(s string, v any) error {
	candidate, err := ExtractJSON(s)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(candidate), v); err != nil {
		return fmt.Errorf("failed to parse extracted JSON: %w", err)
	}
	return nil
}

// ExtractOrFallback decodes the embedded object into a T.
// On any failure it returns fallback and false; it never returns a partially decoded value.
func ExtractOrFallback[T any](s string, fallback T) (T, bool) {
	var v T
	if err := DecodeJSON(s, &v); err != nil {
		return fallback, false
	}
	return v, true
}
