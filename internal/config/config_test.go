package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
	if err := cfg.ValidateInputs(); err != nil {
		t.Fatalf("Default().ValidateInputs() error = %v", err)
	}

	if cfg.Model.ModelName != "gpt-4" {
		t.Errorf("Expected default model gpt-4, got %s", cfg.Model.ModelName)
	}
	if cfg.Model.HTTPTimeoutSeconds != 60 {
		t.Errorf("Expected default timeout 60, got %d", cfg.Model.HTTPTimeoutSeconds)
	}
	if cfg.Server.PublicBaseURL != "http://localhost:8001" {
		t.Errorf("Expected default public base URL, got %s", cfg.Server.PublicBaseURL)
	}

	process := cfg.Intents[IntentProcessResponse]
	if process.HistoryLimit != 5 {
		t.Errorf("Expected process_response history limit 5, got %d", process.HistoryLimit)
	}
	if process.Temperature != 0.5 || process.MaxOutputTokens != 1000 {
		t.Errorf("Unexpected process_response sampling: %+v", process)
	}
	extract := cfg.Intents[IntentExtractDecisions]
	if extract.Temperature != 0.3 || extract.MaxOutputTokens != 1500 {
		t.Errorf("Unexpected extract_decisions sampling: %+v", extract)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing base url",
			mutate:  func(c *Config) { c.Model.BaseURL = "" },
			wantErr: "model.base_url is required",
		},
		{
			name:    "missing model name",
			mutate:  func(c *Config) { c.Model.ModelName = "" },
			wantErr: "model.model_name is required",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Model.HTTPTimeoutSeconds = 0 },
			wantErr: "http_timeout_seconds",
		},
		{
			name:    "bad port",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "server.port",
		},
		{
			name:    "missing intent",
			mutate:  func(c *Config) { delete(c.Intents, IntentExtractDecisions) },
			wantErr: "intents.extract_decisions is required",
		},
		{
			name: "temperature out of range",
			mutate: func(c *Config) {
				ic := c.Intents[IntentCreateFlow]
				ic.Temperature = 2.5
				c.Intents[IntentCreateFlow] = ic
			},
			wantErr: "intents.create_flow.temperature",
		},
		{
			name: "empty template",
			mutate: func(c *Config) {
				ic := c.Intents[IntentProcessResponse]
				ic.Template = "  "
				c.Intents[IntentProcessResponse] = ic
			},
			wantErr: "intents.process_response.template is required",
		},
		{
			name: "history limit below -1",
			mutate: func(c *Config) {
				ic := c.Intents[IntentProcessResponse]
				ic.HistoryLimit = -2
				c.Intents[IntentProcessResponse] = ic
			},
			wantErr: "history_limit",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "logging.format",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "loud" },
			wantErr: "logging.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("API_KEY", "")

	cfg, secrets, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if cfg.Model.BaseURL != DefaultBaseURL {
		t.Errorf("Expected default base URL, got %s", cfg.Model.BaseURL)
	}
	if key := secrets.GetAPIKey(cfg.Model.BaseURL); key != "" {
		t.Errorf("Expected no API key, got %q", key)
	}
}

func TestLoad_TOMLOverridesAndDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("API_KEY", "")

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
port = 9090
cors_origins = ["http://localhost:5173"]

[model]
base_url = "http://localhost:11434/v1"
model_name = "llama3"
http_timeout_seconds = 15

[intents.create_flow]
temperature = 0.2
template = "Flow for {{.DocumentType}}: {{.Document}}"

[logging]
level = "debug"
format = "json"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, secrets, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Server.PublicBaseURL != "http://localhost:9090" {
		t.Errorf("Expected public base URL to follow port, got %s", cfg.Server.PublicBaseURL)
	}
	if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "http://localhost:5173" {
		t.Errorf("Unexpected CORS origins: %v", cfg.Server.CORSOrigins)
	}
	if cfg.Model.HTTPTimeoutSeconds != 15 {
		t.Errorf("Expected timeout 15, got %d", cfg.Model.HTTPTimeoutSeconds)
	}

	flow := cfg.Intents[IntentCreateFlow]
	if flow.Temperature != 0.2 {
		t.Errorf("Expected overridden temperature 0.2, got %v", flow.Temperature)
	}
	if flow.MaxOutputTokens != 3000 {
		t.Errorf("Expected default max tokens 3000, got %d", flow.MaxOutputTokens)
	}
	if flow.SystemPrompt != GetDefaultFlowSystemPrompt() {
		t.Errorf("Expected default system prompt to be filled in")
	}
	if _, ok := cfg.Intents[IntentProcessResponse]; !ok {
		t.Errorf("Expected missing intents to be filled from defaults")
	}

	// Local endpoint still falls back to the OpenAI key
	if key := secrets.GetAPIKey(cfg.Model.BaseURL); key != "sk-test" {
		t.Errorf("Expected sk-test, got %q", key)
	}
}

func TestLoad_ExplicitZeroTemperature(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[intents.extract_decisions]
temperature = 0

[intents.process_response]
temperature = 0.0
max_output_tokens = 800

[intents.create_flow]
max_output_tokens = 2000
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		intent string
		want   float64
	}{
		{IntentExtractDecisions, 0},
		{IntentProcessResponse, 0},
		{IntentCreateFlow, 0.7},
		{IntentConvertDocument, 0.7},
	}
	for _, tt := range tests {
		if got := cfg.Intents[tt.intent].Temperature; got != tt.want {
			t.Errorf("%s temperature = %v, want %v", tt.intent, got, tt.want)
		}
	}
	if got := cfg.Intents[IntentExtractDecisions].MaxOutputTokens; got != 1500 {
		t.Errorf("Expected default max tokens 1500, got %d", got)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, _, err := Load(filepath.Join(dir, "missing.toml")); err == nil ||
		!strings.Contains(err.Error(), "failed to read config file") {
		t.Errorf("Expected read error, got %v", err)
	}

	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("[model\nbase_url="), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := Load(bad); err == nil || !strings.Contains(err.Error(), "failed to parse config file") {
		t.Errorf("Expected parse error, got %v", err)
	}

	invalid := filepath.Join(dir, "invalid.toml")
	if err := os.WriteFile(invalid, []byte("[model]\nbase_url = \"ftp://example.com\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := Load(invalid); err == nil || !strings.Contains(err.Error(), "input validation failed") {
		t.Errorf("Expected input validation error, got %v", err)
	}
}

func TestLoadSecrets(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", " test-key-123 ")
	t.Setenv("API_KEY", "generic-key")

	secrets, err := LoadSecrets()
	if err != nil {
		t.Fatalf("LoadSecrets() error = %v", err)
	}

	if secrets.APIKeys["openai"] != "test-key-123" {
		t.Errorf("Expected OpenAI key to be trimmed, got %q", secrets.APIKeys["openai"])
	}
	if secrets.APIKeys["generic"] != "generic-key" {
		t.Errorf("Expected generic key, got %q", secrets.APIKeys["generic"])
	}

	providers := secrets.ConfiguredProviders()
	if len(providers) != 2 || providers[0] != "generic" || providers[1] != "openai" {
		t.Errorf("Unexpected providers: %v", providers)
	}
}

func TestGetAPIKey(t *testing.T) {
	tests := []struct {
		name    string
		keys    map[string]string
		baseURL string
		want    string
	}{
		{
			name:    "openai url prefers openai key",
			keys:    map[string]string{"openai": "openai-key", "generic": "generic-key"},
			baseURL: "https://api.openai.com/v1",
			want:    "openai-key",
		},
		{
			name:    "other url prefers generic key",
			keys:    map[string]string{"openai": "openai-key", "generic": "generic-key"},
			baseURL: "https://openrouter.ai/api/v1",
			want:    "generic-key",
		},
		{
			name:    "other url falls back to openai key",
			keys:    map[string]string{"openai": "openai-key"},
			baseURL: "http://localhost:8080/v1",
			want:    "openai-key",
		},
		{
			name:    "no keys",
			keys:    map[string]string{},
			baseURL: "https://api.openai.com/v1",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			secrets := &Secrets{APIKeys: tt.keys}
			if got := secrets.GetAPIKey(tt.baseURL); got != tt.want {
				t.Errorf("GetAPIKey() = %v, want %v", got, tt.want)
			}
		})
	}

	var nilSecrets *Secrets
	if got := nilSecrets.GetAPIKey("https://api.openai.com/v1"); got != "" {
		t.Errorf("nil Secrets GetAPIKey() = %q, want empty", got)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"trace", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLogLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLogLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
