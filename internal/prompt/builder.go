// Package prompt renders the instruction text sent to the model for each intent.
package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lamim/reqflow/internal/config"
	"github.com/lamim/reqflow/internal/util"
	"github.com/lamim/reqflow/pkg/models"
)

var (
	// ErrPromptTooLarge is returned when a prompt exceeds model.max_prompt_tokens
	// even with all droppable history removed.
	ErrPromptTooLarge = errors.New("prompt exceeds token budget")
	// ErrUnknownIntent is returned for an intent with no configuration
	ErrUnknownIntent = errors.New("unknown intent")
)

// Input is everything a template may reference
type Input struct {
	Document        string
	DocumentType    string
	History         []models.Exchange
	CurrentQuestion string
	UserResponse    string
}

// Prompt is a rendered request ready for the completion client
type Prompt struct {
	Intent      string
	System      string
	User        string
	Temperature float64
	MaxTokens   int
	Tokens      int // System + User, as counted by the builder's TokenCounter
	HistoryUsed int // Exchanges that made it into the prompt
}

// Builder renders prompts from intent configuration. It holds no mutable state.
type Builder struct {
	cfg       *config.Config
	maxTokens int
	counter   TokenCounter
}

// NewBuilder creates a builder over cfg's intents and token budget.
// A nil counter uses EstimateCounter.
func NewBuilder(cfg *config.Config, counter TokenCounter) *Builder {
	if counter == nil {
		counter = EstimateCounter{}
	}
	return &Builder{
		cfg:       cfg,
		maxTokens: cfg.Model.MaxPromptTokens,
		counter:   counter,
	}
}

// Build renders the prompt for intent. Identical inputs always yield identical output.
func (b *Builder) Build(intent string, in Input) (*Prompt, error) {
	ic, ok := b.cfg.Intent(intent)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownIntent, intent)
	}

	if in.DocumentType == "" {
		in.DocumentType = DefaultDocumentType(intent)
	}

	history := CapHistory(in.History, ic.HistoryLimit)

	for {
		user, err := util.RenderTemplate(ic.Template, templateData(intent, in, history))
		if err != nil {
			return nil, fmt.Errorf("failed to render %s template: %w", intent, err)
		}

		tokens := b.counter.Count(ic.SystemPrompt) + b.counter.Count(user)
		if b.maxTokens <= 0 || tokens <= b.maxTokens {
			return &Prompt{
				Intent:      intent,
				System:      ic.SystemPrompt,
				User:        user,
				Temperature: ic.Temperature,
				MaxTokens:   ic.MaxOutputTokens,
				Tokens:      tokens,
				HistoryUsed: len(history),
			}, nil
		}

		if len(history) == 0 {
			return nil, fmt.Errorf("%w: %d tokens, budget %d", ErrPromptTooLarge, tokens, b.maxTokens)
		}
		// Oldest exchange goes first
		history = history[1:]
	}
}

func templateData(intent string, in Input, history []models.Exchange) map[string]interface{} {
	return map[string]interface{}{
		"Document":        in.Document,
		"DocumentType":    in.DocumentType,
		"History":         FormatHistory(history, historySeparator(intent)),
		"CurrentQuestion": in.CurrentQuestion,
		"UserResponse":    in.UserResponse,
	}
}

// DefaultDocumentType is the label used when a request names no document type
func DefaultDocumentType(intent string) string {
	switch intent {
	case config.IntentCreateFlow:
		return "Requirements"
	case config.IntentExtractDecisions:
		return "Unknown"
	default:
		return ""
	}
}

// CapHistory keeps the last limit exchanges; a negative or zero limit keeps all
func CapHistory(history []models.Exchange, limit int) []models.Exchange {
	if limit > 0 && len(history) > limit {
		return history[len(history)-limit:]
	}
	return history
}

// FormatHistory renders exchanges as "Q: ...\nA: ..." blocks joined by sep
func FormatHistory(history []models.Exchange, sep string) string {
	parts := make([]string, 0, len(history))
	for _, ex := range history {
		parts = append(parts, "Q: "+ex.Question+"\nA: "+ex.Response)
	}
	return strings.Join(parts, sep)
}

func historySeparator(intent string) string {
	if intent == config.IntentProcessResponse {
		return "\n"
	}
	return "\n\n"
}
