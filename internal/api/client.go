package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/lamim/reqflow/internal/config"
)

const (
	// DefaultHTTPTimeout applies when the model config carries no timeout
	DefaultHTTPTimeout = 60 * time.Second
	// maxErrorBodyPreview bounds how much of an unparseable error body ends up in an APIError
	maxErrorBodyPreview = 512
)

// Client handles HTTP requests to OpenAI-compatible API endpoints.
// Each call is attempted exactly once.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new API client
func NewClient(logger *slog.Logger) *Client {
	return &Client{
		// Per-call deadlines come from the context; no client-wide timeout
		httpClient: &http.Client{},
		logger:     logger.With("component", "api"),
	}
}

// CompletionOptions carries per-request sampling settings
type CompletionOptions struct {
	Temperature float64
	MaxTokens   int
}

// ChatCompletion sends a chat completion request to the configured model
func (c *Client) ChatCompletion(
	ctx context.Context,
	modelCfg config.ModelConfig,
	apiKey string,
	messages []Message,
	opts CompletionOptions,
) (*ChatCompletionResponse, error) {
	timeout := DefaultHTTPTimeout
	if modelCfg.HTTPTimeoutSeconds > 0 {
		timeout = time.Duration(modelCfg.HTTPTimeoutSeconds) * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := ChatCompletionRequest{
		Model:       modelCfg.ModelName,
		Messages:    messages,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}
	if modelCfg.UseJSONMode {
		req.ResponseFormat = &ResponseFormat{Type: "json_object"}
	}

	resp, err := c.doRequest(ctx, modelCfg.BaseURL, apiKey, req)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, &APIError{
				Message: fmt.Sprintf("request timed out after %s", timeout),
				Timeout: true,
			}
		}
		return nil, err
	}
	return resp, nil
}

// Complete sends a system/user prompt pair and returns the first choice's content
func (c *Client) Complete(
	ctx context.Context,
	modelCfg config.ModelConfig,
	apiKey string,
	system, user string,
	opts CompletionOptions,
) (string, error) {
	messages := make([]Message, 0, 2)
	if system != "" {
		messages = append(messages, Message{Role: "system", Content: system})
	}
	messages = append(messages, Message{Role: "user", Content: user})

	resp, err := c.ChatCompletion(ctx, modelCfg, apiKey, messages, opts)
	if err != nil {
		return "", err
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *Client) doRequest(
	ctx context.Context,
	baseURL string,
	apiKey string,
	req ChatCompletionRequest,
) (*ChatCompletionResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := strings.TrimRight(baseURL, "/") + "/chat/completions"

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+apiKey)
		c.logger.Debug("API request", "endpoint", endpoint, "model", req.Model, "has_key", true)
	} else {
		c.logger.Warn("API request without key", "endpoint", endpoint)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &APIError{
			Message: fmt.Sprintf("request failed: %v", err),
			cause:   err,
		}
	}
	defer func() {
		if err := httpResp.Body.Close(); err != nil {
			c.logger.Warn("Failed to close response body", "error", err)
		}
	}()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &APIError{
			Message:    fmt.Sprintf("failed to read response: %v", err),
			StatusCode: httpResp.StatusCode,
			cause:      err,
		}
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, parseErrorBody(httpResp.StatusCode, respBody)
	}

	var resp ChatCompletionResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, &APIError{
			Message:    fmt.Sprintf("invalid response body: %v", err),
			StatusCode: httpResp.StatusCode,
			cause:      err,
		}
	}

	if len(resp.Choices) == 0 {
		return nil, &APIError{
			Message:    "no choices returned in response",
			StatusCode: httpResp.StatusCode,
		}
	}

	return &resp, nil
}

// parseErrorBody builds an APIError from an OpenAI-style error payload.
// Providers disagree on whether error.code is a string or a number, so fields are read loosely.
func parseErrorBody(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	if gjson.ValidBytes(body) {
		result := gjson.ParseBytes(body)
		if msg := result.Get("error.message"); msg.Exists() && msg.String() != "" {
			apiErr.Message = msg.String()
			apiErr.Type = result.Get("error.type").String()
			apiErr.Code = result.Get("error.code").String()
			return apiErr
		}
		// Some gateways use {"message": "..."} or {"detail": "..."}
		for _, path := range []string{"message", "detail"} {
			if msg := result.Get(path); msg.Type == gjson.String && msg.String() != "" {
				apiErr.Message = msg.String()
				return apiErr
			}
		}
	}

	preview := strings.TrimSpace(string(body))
	if len(preview) > maxErrorBodyPreview {
		preview = preview[:maxErrorBodyPreview] + "..."
	}
	apiErr.Message = fmt.Sprintf("API request failed with status %d: %s", status, preview)
	return apiErr
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// APIError represents a failed upstream call
type APIError struct {
	Message    string
	StatusCode int // 0 when no HTTP response was received
	Type       string
	Code       string
	Timeout    bool
	cause      error
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error: %s", e.Message)
}

func (e *APIError) Unwrap() error {
	return e.cause
}

// IsTimeout reports whether err is an upstream timeout
func IsTimeout(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Timeout
}

// StatusCode returns the upstream HTTP status carried by err, or 0
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
