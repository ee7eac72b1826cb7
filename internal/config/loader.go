package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const (
	// DefaultBaseURL is the OpenAI API root
	DefaultBaseURL = "https://api.openai.com/v1"
	// DefaultModelName is the chat model used when none is configured
	DefaultModelName = "gpt-4"
	// DefaultHTTPTimeoutSeconds bounds a single completion call
	DefaultHTTPTimeoutSeconds = 60
	// DefaultPort is the HTTP listen port
	DefaultPort = 8001
	// DefaultMaxDocumentBytes caps a single requirements document
	DefaultMaxDocumentBytes = 256 * 1024
)

// Load reads and parses the configuration file and environment variables.
// An empty path yields the built-in defaults.
func Load(configPath string) (*Config, *Secrets, error) {
	var cfg Config
	var zeroTemps []string

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, nil, fmt.Errorf("failed to parse config file: %w", err)
		}

		zeroTemps, err = explicitZeroTemperatures(data)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyDefaults(&cfg)

	// temperature = 0 is a valid setting, so restore it after defaulting
	for _, name := range zeroTemps {
		ic := cfg.Intents[name]
		ic.Temperature = 0
		cfg.Intents[name] = ic
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.ValidateInputs(); err != nil {
		return nil, nil, fmt.Errorf("input validation failed: %w", err)
	}

	secrets, err := LoadSecrets()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load secrets: %w", err)
	}

	return &cfg, secrets, nil
}

// Default returns a fully populated configuration
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

// explicitZeroTemperatures lists the intents whose file sets temperature to 0
func explicitZeroTemperatures(data []byte) ([]string, error) {
	var raw struct {
		Intents map[string]map[string]any `toml:"intents"`
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	var names []string
	for name, keys := range raw.Intents {
		v, ok := keys["temperature"]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case float64:
			if t == 0 {
				names = append(names, name)
			}
		case int64:
			if t == 0 {
				names = append(names, name)
			}
		}
	}
	return names, nil
}

// applyDefaults sets default values for optional configuration fields.
// Zero values mean "use the default"; Load restores an explicit intent temperature of 0.
func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Server.PublicBaseURL == "" {
		cfg.Server.PublicBaseURL = fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	}
	cfg.Server.PublicBaseURL = strings.TrimRight(cfg.Server.PublicBaseURL, "/")
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{"*"}
	}
	if cfg.Server.ReadTimeoutSeconds == 0 {
		cfg.Server.ReadTimeoutSeconds = 30
	}
	if cfg.Server.ShutdownTimeoutSeconds == 0 {
		cfg.Server.ShutdownTimeoutSeconds = 10
	}
	if cfg.Server.MaxDocumentBytes == 0 {
		cfg.Server.MaxDocumentBytes = DefaultMaxDocumentBytes
	}

	if cfg.Model.BaseURL == "" {
		cfg.Model.BaseURL = DefaultBaseURL
	}
	if cfg.Model.ModelName == "" {
		cfg.Model.ModelName = DefaultModelName
	}
	if cfg.Model.HTTPTimeoutSeconds == 0 {
		cfg.Model.HTTPTimeoutSeconds = DefaultHTTPTimeoutSeconds
	}

	if cfg.Intents == nil {
		cfg.Intents = make(map[string]IntentConfig)
	}
	for name, def := range DefaultIntents() {
		ic, ok := cfg.Intents[name]
		if !ok {
			cfg.Intents[name] = def
			continue
		}
		if ic.SystemPrompt == "" {
			ic.SystemPrompt = def.SystemPrompt
		}
		if ic.Template == "" {
			ic.Template = def.Template
		}
		if ic.Temperature == 0 {
			ic.Temperature = def.Temperature
		}
		if ic.MaxOutputTokens == 0 {
			ic.MaxOutputTokens = def.MaxOutputTokens
		}
		if ic.HistoryLimit == 0 {
			ic.HistoryLimit = def.HistoryLimit
		}
		cfg.Intents[name] = ic
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
}

// ParseLogLevel maps a level name to a slog.Level
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}
