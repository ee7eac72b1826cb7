package flow

import "testing"

func TestDiagnose(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", "empty reply"},
		{"Sorry, I can't help with that.", "refusal: sorry, i can't help with that"},
		{"As an AI language model I must decline", "refusal: as an ai"},
		{"Here is a plain answer.", "no JSON object"},
		{`{"title":"X","sections":[`, "truncated JSON object"},
		{`} oops {`, "braces out of order"},
		{`{"a":1} and also {"b":2}`, "invalid JSON object"},
	}

	for _, tt := range tests {
		if got := diagnose(tt.raw); got != tt.want {
			t.Errorf("diagnose(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
