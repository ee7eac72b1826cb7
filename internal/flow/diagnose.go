package flow

import (
	"strings"
)

// Phrases models use when declining a request
var refusalPatterns = []string{
	"i'm sorry, but i can't help with that",
	"sorry, i can't help with that",
	"i cannot help with that",
	"i can't assist with that",
	"i'm unable to help with that",
	"i apologize, but i cannot",
	"i'm not able to assist",
	"i cannot provide",
	"i cannot generate",
	"i'm sorry, i cannot",
	"i'm sorry, but i cannot",
	"as an ai",
}

// diagnose names the likely reason a reply could not be decoded, for logs only
func diagnose(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "empty reply"
	}

	lower := strings.ToLower(trimmed)
	for _, pattern := range refusalPatterns {
		if strings.Contains(lower, pattern) {
			return "refusal: " + pattern
		}
	}

	open := strings.Index(trimmed, "{")
	closing := strings.LastIndex(trimmed, "}")
	switch {
	case open < 0:
		return "no JSON object"
	case closing < 0:
		// Ran out of tokens mid-object
		return "truncated JSON object"
	case closing < open:
		return "braces out of order"
	}
	return "invalid JSON object"
}
