package prompt

import (
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// fallbackEncoding is used for models tiktoken has no mapping for
const fallbackEncoding = "cl100k_base"

// TokenCounter counts the tokens a piece of text costs the model
type TokenCounter interface {
	Count(text string) int
}

// EstimateCounter approximates tokens as one per four runes
type EstimateCounter struct{}

// Count returns ceil(runes/4)
func (EstimateCounter) Count(text string) int {
	return (utf8.RuneCountInString(text) + 3) / 4
}

// TiktokenCounter counts tokens with the model's BPE encoding
type TiktokenCounter struct {
	enc *tiktoken.Tiktoken
}

// NewTiktokenCounter loads the encoding for model, falling back to cl100k_base
// for model names tiktoken does not know.
func NewTiktokenCounter(model string) (*TiktokenCounter, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding(fallbackEncoding)
		if err != nil {
			return nil, fmt.Errorf("failed to load token encoding: %w", err)
		}
	}
	return &TiktokenCounter{enc: enc}, nil
}

// Count returns the exact token count of text
func (c *TiktokenCounter) Count(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}

// NewCounter returns a tiktoken counter for model, or the rune estimate when
// the encoding cannot be loaded (it is fetched on first use).
func NewCounter(model string, logger *slog.Logger) TokenCounter {
	counter, err := NewTiktokenCounter(model)
	if err != nil {
		logger.Warn("Token encoding unavailable, using estimate", "model", model, "error", err)
		return EstimateCounter{}
	}
	return counter
}
