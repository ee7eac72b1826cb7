package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig            `toml:"server"`
	Model   ModelConfig             `toml:"model"`
	Intents map[string]IntentConfig `toml:"intents"`
	Logging LoggingConfig           `toml:"logging"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host                   string   `toml:"host"`
	Port                   int      `toml:"port"`
	PublicBaseURL          string   `toml:"public_base_url"`  // Used to build shareable links (default: http://localhost:<port>)
	CORSOrigins            []string `toml:"cors_origins"`     // Allowed origins (default: ["*"])
	ReadTimeoutSeconds     int      `toml:"read_timeout_seconds"`
	ShutdownTimeoutSeconds int      `toml:"shutdown_timeout_seconds"`
	MaxDocumentBytes       int      `toml:"max_document_bytes"` // Request document size cap (default: 256KB)
}

// ModelConfig represents the upstream chat completion endpoint
type ModelConfig struct {
	BaseURL            string `toml:"base_url"`
	ModelName          string `toml:"model_name"`
	HTTPTimeoutSeconds int    `toml:"http_timeout_seconds"` // Upper bound for a single completion call (default 60)
	MaxPromptTokens    int    `toml:"max_prompt_tokens"`    // Prompt token budget, 0 = unbounded
	UseJSONMode        bool   `toml:"use_json_mode"`        // Send response_format=json_object
}

// IntentConfig holds the instruction text and sampling settings for one kind of request
type IntentConfig struct {
	SystemPrompt    string  `toml:"system_prompt"`
	Template        string  `toml:"template"`
	Temperature     float64 `toml:"temperature"`
	MaxOutputTokens int     `toml:"max_output_tokens"`
	HistoryLimit    int     `toml:"history_limit"` // Last N exchanges kept, -1 = all, 0 = intent default
}

// LoggingConfig holds log output settings
type LoggingConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // text or json
	File   string `toml:"file"`   // Optional JSON log file
}

// Secrets holds sensitive credentials loaded from environment variables
type Secrets struct {
	APIKeys map[string]string
}

const (
	// MaxPort is the highest valid TCP port
	MaxPort = 65535
	// MaxOutputTokens is the upper bound accepted for any intent
	MaxOutputTokens = 32768
)

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > MaxPort {
		return fmt.Errorf("server.port must be between 1 and %d (got %d)", MaxPort, c.Server.Port)
	}
	if c.Server.MaxDocumentBytes < 1 {
		return fmt.Errorf("server.max_document_bytes must be at least 1")
	}

	if c.Model.BaseURL == "" {
		return fmt.Errorf("model.base_url is required")
	}
	if c.Model.ModelName == "" {
		return fmt.Errorf("model.model_name is required")
	}
	if c.Model.HTTPTimeoutSeconds < 1 {
		return fmt.Errorf("model.http_timeout_seconds must be at least 1")
	}
	if c.Model.MaxPromptTokens < 0 {
		return fmt.Errorf("model.max_prompt_tokens must not be negative")
	}

	for _, name := range IntentNames() {
		ic, ok := c.Intents[name]
		if !ok {
			return fmt.Errorf("intents.%s is required", name)
		}
		if err := validateIntentConfig(name, ic); err != nil {
			return err
		}
	}

	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json (got %s)", c.Logging.Format)
	}
	if _, err := ParseLogLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}

	return nil
}

func validateIntentConfig(name string, ic IntentConfig) error {
	if strings.TrimSpace(ic.Template) == "" {
		return fmt.Errorf("intents.%s.template is required", name)
	}
	if ic.Temperature < 0 || ic.Temperature > 2 {
		return fmt.Errorf("intents.%s.temperature must be between 0 and 2", name)
	}
	if ic.MaxOutputTokens < 1 {
		return fmt.Errorf("intents.%s.max_output_tokens must be at least 1", name)
	}
	if ic.MaxOutputTokens > MaxOutputTokens {
		return fmt.Errorf("intents.%s.max_output_tokens must not exceed %d (got %d)", name, MaxOutputTokens, ic.MaxOutputTokens)
	}
	if ic.HistoryLimit < -1 {
		return fmt.Errorf("intents.%s.history_limit must be -1 or greater", name)
	}
	return nil
}

// Intent returns the configuration for a named intent
func (c *Config) Intent(name string) (IntentConfig, bool) {
	ic, ok := c.Intents[name]
	return ic, ok
}

// Addr returns the host:port listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// LoadSecrets loads sensitive credentials from environment variables
func LoadSecrets() (*Secrets, error) {
	secrets := &Secrets{
		APIKeys: make(map[string]string),
	}

	// Generic key for any OpenAI-compatible provider
	if key := strings.TrimSpace(os.Getenv("API_KEY")); key != "" {
		secrets.APIKeys["generic"] = key
	}
	if key := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); key != "" {
		secrets.APIKeys["openai"] = key
	}

	return secrets, nil
}

// GetAPIKey returns the API key for a given base URL
func (s *Secrets) GetAPIKey(baseURL string) string {
	if s == nil {
		return ""
	}
	if strings.Contains(baseURL, "openai.com") {
		if key := s.APIKeys["openai"]; key != "" {
			return key
		}
	}
	if key := s.APIKeys["generic"]; key != "" {
		return key
	}
	// A non-OpenAI endpoint may still be configured with OPENAI_API_KEY only
	return s.APIKeys["openai"]
}

// ConfiguredProviders lists the providers with a key, sorted
func (s *Secrets) ConfiguredProviders() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.APIKeys))
	for name, key := range s.APIKeys {
		if key != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
