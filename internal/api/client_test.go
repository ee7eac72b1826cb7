package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lamim/reqflow/internal/config"
)

const okBody = `{
	"id": "test-123",
	"object": "chat.completion",
	"created": 1234567890,
	"model": "test-model",
	"choices": [{
		"index": 0,
		"message": {"role": "assistant", "content": "Test response"},
		"finish_reason": "stop"
	}],
	"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
}`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testModel(baseURL string) config.ModelConfig {
	return config.ModelConfig{
		BaseURL:            baseURL,
		ModelName:          "test-model",
		HTTPTimeoutSeconds: 5,
	}
}

func TestChatCompletion_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("Expected path /v1/chat/completions, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Expected Authorization header 'Bearer test-key', got '%s'", r.Header.Get("Authorization"))
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Expected Content-Type 'application/json', got '%s'", r.Header.Get("Content-Type"))
		}

		var req ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("Expected model test-model, got %s", req.Model)
		}
		if req.Temperature != 0.3 || req.MaxTokens != 1500 {
			t.Errorf("Expected temperature 0.3 / max_tokens 1500, got %v / %d", req.Temperature, req.MaxTokens)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Errorf("Unexpected messages: %+v", req.Messages)
		}
		if req.ResponseFormat != nil {
			t.Errorf("Expected no response_format, got %+v", req.ResponseFormat)
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(okBody))
	}))
	defer server.Close()

	client := NewClient(testLogger())

	// Trailing slash must not produce a double slash
	content, err := client.Complete(
		context.Background(),
		testModel(server.URL+"/v1/"),
		"test-key",
		"You are helpful.",
		"Test message",
		CompletionOptions{Temperature: 0.3, MaxTokens: 1500},
	)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if content != "Test response" {
		t.Errorf("Expected content 'Test response', got '%s'", content)
	}
}

func TestChatCompletion_JSONModeAndNoKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "" {
			t.Errorf("Expected no Authorization header, got %q", auth)
		}
		var req ChatCompletionRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.ResponseFormat == nil || req.ResponseFormat.Type != "json_object" {
			t.Errorf("Expected json_object response format, got %+v", req.ResponseFormat)
		}
		if len(req.Messages) != 1 {
			t.Errorf("Expected only the user message when system is empty, got %d", len(req.Messages))
		}
		_, _ = w.Write([]byte(okBody))
	}))
	defer server.Close()

	modelCfg := testModel(server.URL)
	modelCfg.UseJSONMode = true

	client := NewClient(testLogger())
	if _, err := client.Complete(context.Background(), modelCfg, "", "", "hi", CompletionOptions{}); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
}

func TestChatCompletion_NoRetryOnServerError(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "Server error", "type": "server_error", "code": 500}}`))
	}))
	defer server.Close()

	client := NewClient(testLogger())
	_, err := client.ChatCompletion(context.Background(), testModel(server.URL), "k",
		[]Message{{Role: "user", Content: "test"}}, CompletionOptions{})

	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if got := atomic.LoadInt32(&attempts); got != 1 {
		t.Errorf("Expected exactly 1 attempt, got %d", got)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", apiErr.StatusCode)
	}
	if apiErr.Message != "Server error" || apiErr.Type != "server_error" || apiErr.Code != "500" {
		t.Errorf("Unexpected error fields: %+v", apiErr)
	}
	if StatusCode(err) != http.StatusInternalServerError {
		t.Errorf("StatusCode(err) = %d, want 500", StatusCode(err))
	}
	if IsTimeout(err) {
		t.Error("Server error must not be reported as timeout")
	}
}

func TestChatCompletion_ErrorBodies(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantMsg  string
		wantCode string
	}{
		{
			name:     "openai style",
			status:   http.StatusUnauthorized,
			body:     `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`,
			wantMsg:  "Incorrect API key provided",
			wantCode: "invalid_api_key",
		},
		{
			name:    "detail style",
			status:  http.StatusTooManyRequests,
			body:    `{"detail":"Rate limit reached"}`,
			wantMsg: "Rate limit reached",
		},
		{
			name:    "plain text",
			status:  http.StatusBadGateway,
			body:    "upstream unavailable",
			wantMsg: "API request failed with status 502: upstream unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(testLogger())
			_, err := client.ChatCompletion(context.Background(), testModel(server.URL), "k",
				[]Message{{Role: "user", Content: "x"}}, CompletionOptions{})

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("Expected *APIError, got %T (%v)", err, err)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, tt.status)
			}
			if apiErr.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", apiErr.Message, tt.wantMsg)
			}
			if apiErr.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", apiErr.Code, tt.wantCode)
			}
		})
	}
}

func TestChatCompletion_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"x","choices":[]}`))
	}))
	defer server.Close()

	client := NewClient(testLogger())
	_, err := client.ChatCompletion(context.Background(), testModel(server.URL), "k",
		[]Message{{Role: "user", Content: "x"}}, CompletionOptions{})
	if err == nil || !strings.Contains(err.Error(), "no choices") {
		t.Errorf("Expected no choices error, got %v", err)
	}
}

func TestChatCompletion_NonJSONSuccessBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body>gateway login</body></html>"))
	}))
	defer server.Close()

	client := NewClient(testLogger())
	_, err := client.ChatCompletion(context.Background(), testModel(server.URL), "k",
		[]Message{{Role: "user", Content: "x"}}, CompletionOptions{})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", apiErr.StatusCode)
	}
	if !strings.Contains(apiErr.Message, "invalid response body") {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestChatCompletion_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	client := NewClient(testLogger())
	start := time.Now()
	_, err := client.ChatCompletion(ctx, testModel(server.URL), "k",
		[]Message{{Role: "user", Content: "x"}}, CompletionOptions{})

	if !IsTimeout(err) {
		t.Fatalf("Expected timeout error, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("Timeout took too long: %s", elapsed)
	}
	if StatusCode(err) != 0 {
		t.Errorf("Expected no status on timeout, got %d", StatusCode(err))
	}
}

func TestChatCompletion_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(testLogger())
	_, err := client.ChatCompletion(context.Background(), testModel(url), "k",
		[]Message{{Role: "user", Content: "x"}}, CompletionOptions{})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %T (%v)", err, err)
	}
	if apiErr.StatusCode != 0 || apiErr.Timeout {
		t.Errorf("Expected network failure without status, got %+v", apiErr)
	}
	if !strings.Contains(apiErr.Error(), "request failed") {
		t.Errorf("Unexpected error text: %v", apiErr)
	}
}

func TestAPIError_Error(t *testing.T) {
	withStatus := &APIError{Message: "boom", StatusCode: 503}
	if got := withStatus.Error(); got != "API error (status 503): boom" {
		t.Errorf("Error() = %q", got)
	}
	noStatus := &APIError{Message: "boom"}
	if got := noStatus.Error(); got != "API error: boom" {
		t.Errorf("Error() = %q", got)
	}
}
