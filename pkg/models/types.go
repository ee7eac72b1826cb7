package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// QuestionType represents the kind of answer a question expects
type QuestionType string

const (
	// QuestionTypeText is a free-form single line answer
	QuestionTypeText QuestionType = "text"
	// QuestionTypeSelect picks exactly one of the options
	QuestionTypeSelect QuestionType = "select"
	// QuestionTypeMultiSelect picks any number of the options
	QuestionTypeMultiSelect QuestionType = "multiselect"
	// QuestionTypeYesNo is a boolean answer
	QuestionTypeYesNo QuestionType = "yesno"
	// QuestionTypeEmail is an email address
	QuestionTypeEmail QuestionType = "email"
	// QuestionTypeTextarea is a free-form multi-line answer
	QuestionTypeTextarea QuestionType = "textarea"
)

// Valid reports whether t is one of the recognized question types
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeText, QuestionTypeSelect, QuestionTypeMultiSelect,
		QuestionTypeYesNo, QuestionTypeEmail, QuestionTypeTextarea:
		return true
	}
	return false
}

// ConversationFlow is the set of sections and questions produced from a requirements document
type ConversationFlow struct {
	Title       string    `json:"title" jsonschema:"required"`
	Description string    `json:"description,omitempty"`
	Sections    []Section `json:"sections" jsonschema:"required"`
}

// Section groups related questions
type Section struct {
	ID        string     `json:"id" jsonschema:"required"`
	Title     string     `json:"title" jsonschema:"required"`
	Questions []Question `json:"questions" jsonschema:"required"`
}

// Question is a single conversational question
type Question struct {
	ID       string       `json:"id" jsonschema:"required"`
	Text     string       `json:"text" jsonschema:"required"`
	Type     QuestionType `json:"type" jsonschema:"required,enum=text,enum=select,enum=multiselect,enum=yesno,enum=email,enum=textarea"`
	Options  []string     `json:"options,omitempty"`
	Default  any          `json:"default,omitempty"`
	Required bool         `json:"required,omitempty"`
	FollowUp string       `json:"follow_up,omitempty"`
}

// Normalize fills empty identifiers with positional ones and defaults empty types to text.
// A positional ID already taken by a sibling moves on to the next free number.
func (f *ConversationFlow) Normalize() {
	sectionIDs := make(map[string]bool, len(f.Sections))
	for _, s := range f.Sections {
		if strings.TrimSpace(s.ID) != "" {
			sectionIDs[s.ID] = true
		}
	}

	for i := range f.Sections {
		s := &f.Sections[i]
		if strings.TrimSpace(s.ID) == "" {
			s.ID = nextFreeID(sectionIDs, "section", i+1)
		}

		questionIDs := make(map[string]bool, len(s.Questions))
		for _, q := range s.Questions {
			if strings.TrimSpace(q.ID) != "" {
				questionIDs[q.ID] = true
			}
		}
		for j := range s.Questions {
			q := &s.Questions[j]
			if strings.TrimSpace(q.ID) == "" {
				q.ID = nextFreeID(questionIDs, "question", j+1)
			}
			if q.Type == "" {
				q.Type = QuestionTypeText
			}
		}
	}
}

// nextFreeID returns prefix_n, or the first larger n not in used, and marks it used
func nextFreeID(used map[string]bool, prefix string, n int) string {
	id := fmt.Sprintf("%s_%d", prefix, n)
	for used[id] {
		n++
		id = fmt.Sprintf("%s_%d", prefix, n)
	}
	used[id] = true
	return id
}

// Validate checks identifier uniqueness and question types
func (f *ConversationFlow) Validate() error {
	sectionIDs := make(map[string]bool, len(f.Sections))
	for _, s := range f.Sections {
		if s.ID == "" {
			return fmt.Errorf("section %q has an empty id", s.Title)
		}
		if sectionIDs[s.ID] {
			return fmt.Errorf("duplicate section id %q", s.ID)
		}
		sectionIDs[s.ID] = true

		questionIDs := make(map[string]bool, len(s.Questions))
		for _, q := range s.Questions {
			if q.ID == "" {
				return fmt.Errorf("section %q has a question with an empty id", s.ID)
			}
			if questionIDs[q.ID] {
				return fmt.Errorf("duplicate question id %q in section %q", q.ID, s.ID)
			}
			questionIDs[q.ID] = true

			if !q.Type.Valid() {
				return fmt.Errorf("question %q has unsupported type %q", q.ID, q.Type)
			}
		}
	}
	return nil
}

// QuestionCount returns the total number of questions across all sections
func (f *ConversationFlow) QuestionCount() int {
	n := 0
	for _, s := range f.Sections {
		n += len(s.Questions)
	}
	return n
}

// Exchange is one question/response pair of caller-supplied history
type Exchange struct {
	Question string `json:"question"`
	Response string `json:"response"`
}

// Decisions maps a decision key to its value.
// Non-string values from the model are flattened to strings on decode.
type Decisions map[string]string

// UnmarshalJSON accepts any JSON object and stringifies its values
func (d *Decisions) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(Decisions, len(raw))
	for key, value := range raw {
		s, err := flattenValue(value)
		if err != nil {
			return fmt.Errorf("decision %q: %w", key, err)
		}
		out[key] = s
	}
	*d = out
	return nil
}

func flattenValue(value json.RawMessage) (string, error) {
	var v any
	if err := json.Unmarshal(value, &v); err != nil {
		return "", err
	}

	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			b, err := json.Marshal(item)
			if err != nil {
				return "", err
			}
			s, err := flattenValue(b)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, ", "), nil
	default:
		return strings.TrimSpace(string(value)), nil
	}
}

// ExtractedDecisions holds the structured decisions recovered from a conversation
type ExtractedDecisions struct {
	Decisions Decisions `json:"decisions"`
	Summary   string    `json:"summary"`
}

// ProcessedResponse is the model's reading of a single user answer
type ProcessedResponse struct {
	NextQuestion    string    `json:"next_question"`
	ExtractedInfo   Decisions `json:"extracted_info"`
	IsComplete      bool      `json:"is_complete"`
	ConfidenceScore float64   `json:"confidence_score"`
}

// ChatTurn is a single message of a sample conversation
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ConversionRecord is one line of a batch conversion output file
type ConversionRecord struct {
	Source       string            `json:"source"`
	DocumentType string            `json:"document_type,omitempty"`
	Flow         *ConversationFlow `json:"conversation_flow,omitempty"`
	AIUsed       bool              `json:"ai_used"`
	FallbackUsed bool              `json:"fallback_used"`
	Error        string            `json:"error,omitempty"`
}
