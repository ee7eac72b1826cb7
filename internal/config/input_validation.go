package config

import (
	"errors"
	"fmt"
	"net/url"
	"unicode"

	"github.com/lamim/reqflow/internal/util"
)

const (
	// MaxModelNameLength is the maximum allowed length for model names
	MaxModelNameLength = 100

	// MaxTemplateSize is the maximum allowed size for template content
	MaxTemplateSize = 50 * 1024 // 50KB
)

// ErrDocumentTooLarge is returned by ValidateDocument for oversized input
var ErrDocumentTooLarge = errors.New("document exceeds maximum size")

// ValidateInputs performs additional validation on user-controllable fields
func (c *Config) ValidateInputs() error {
	if err := validateModelName(c.Model.ModelName); err != nil {
		return err
	}

	if err := validateBaseURL(c.Model.BaseURL, "model.base_url"); err != nil {
		return err
	}
	if err := validateBaseURL(c.Server.PublicBaseURL, "server.public_base_url"); err != nil {
		return err
	}

	if err := c.validateTemplates(); err != nil {
		return err
	}

	return nil
}

// ValidateDocument checks a caller-supplied document before it is embedded in a prompt
func ValidateDocument(doc string, maxBytes int) error {
	if maxBytes > 0 && len(doc) > maxBytes {
		return fmt.Errorf("%w of %d bytes (got %d)", ErrDocumentTooLarge, maxBytes, len(doc))
	}
	if containsControlChars(doc) {
		return fmt.Errorf("document contains invalid control characters")
	}
	return nil
}

// validateModelName checks model name for security issues
func validateModelName(modelName string) error {
	if len(modelName) > MaxModelNameLength {
		return fmt.Errorf("model.model_name exceeds maximum length of %d (got %d)",
			MaxModelNameLength, len(modelName))
	}

	if containsControlChars(modelName) {
		return fmt.Errorf("model.model_name contains invalid control characters")
	}

	return nil
}

// validateBaseURL checks that a URL is properly formatted and uses http(s)
func validateBaseURL(baseURL, field string) error {
	u, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("%s is invalid: %w", field, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https scheme (got %s)", field, u.Scheme)
	}

	if u.Host == "" {
		return fmt.Errorf("%s must have a host", field)
	}

	return nil
}

// validateTemplates checks template sizes and that each one parses
func (c *Config) validateTemplates() error {
	for _, name := range IntentNames() {
		ic := c.Intents[name]
		if len(ic.Template) > MaxTemplateSize {
			return fmt.Errorf("intents.%s.template exceeds maximum size of %d bytes (got %d)",
				name, MaxTemplateSize, len(ic.Template))
		}
		if len(ic.SystemPrompt) > MaxTemplateSize {
			return fmt.Errorf("intents.%s.system_prompt exceeds maximum size of %d bytes (got %d)",
				name, MaxTemplateSize, len(ic.SystemPrompt))
		}
		if err := util.ValidateTemplate(ic.Template); err != nil {
			return fmt.Errorf("intents.%s.template: %w", name, err)
		}
	}

	return nil
}

// containsControlChars checks if a string contains control characters
// (excluding newlines, tabs, and carriage returns which are acceptable)
func containsControlChars(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r' {
			return true
		}
	}
	return false
}
