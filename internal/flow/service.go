// Package flow runs the build-prompt, complete, extract pipeline for each intent.
package flow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lamim/reqflow/internal/api"
	"github.com/lamim/reqflow/internal/config"
	"github.com/lamim/reqflow/internal/demo"
	"github.com/lamim/reqflow/internal/metrics"
	"github.com/lamim/reqflow/internal/prompt"
	"github.com/lamim/reqflow/internal/util"
	"github.com/lamim/reqflow/pkg/models"
)

// NotConfiguredMessage is reported to callers when no API key is set
const NotConfiguredMessage = "OpenAI not configured"

var (
	// ErrNotConfigured means no API key is available; no request was sent
	ErrNotConfigured = errors.New(NotConfiguredMessage)
	// ErrMalformedOutput means the model reply held no usable JSON object
	ErrMalformedOutput = errors.New("model output held no usable JSON object")
)

// Completer sends one prompt to the model and returns its reply text
type Completer interface {
	Complete(ctx context.Context, modelCfg config.ModelConfig, apiKey, system, user string, opts api.CompletionOptions) (string, error)
}

// Result is the outcome of one pipeline run. Value is always usable:
// it is either decoded from the model reply or the intent's fallback.
type Result[T any] struct {
	Value        T
	AIUsed       bool   // a completion request was sent and answered
	FallbackUsed bool   // Value is the fallback
	Raw          string // model reply, empty when AIUsed is false
	Recovered    error  // ErrNotConfigured or the decode failure that triggered the fallback
}

// NotConfigured reports whether the fallback was used because no key is set
func (r *Result[T]) NotConfigured() bool {
	return errors.Is(r.Recovered, ErrNotConfigured)
}

// Service converts documents and conversations through the model
type Service struct {
	cfg       *config.Config
	apiKey    string
	builder   *prompt.Builder
	completer Completer
	metrics   *metrics.Collector
	logger    *slog.Logger
}

// NewService creates a flow service. The API key is resolved once from secrets.
func NewService(
	cfg *config.Config,
	secrets *config.Secrets,
	builder *prompt.Builder,
	completer Completer,
	collector *metrics.Collector,
	logger *slog.Logger,
) *Service {
	return &Service{
		cfg:       cfg,
		apiKey:    secrets.GetAPIKey(cfg.Model.BaseURL),
		builder:   builder,
		completer: completer,
		metrics:   collector,
		logger:    logger.With("component", "flow"),
	}
}

// Configured reports whether an API key is available
func (s *Service) Configured() bool {
	return s.apiKey != ""
}

// CreateFlow converts any requirements document into a conversation flow
func (s *Service) CreateFlow(ctx context.Context, document, documentType string) (*Result[models.ConversationFlow], error) {
	if documentType == "" {
		documentType = prompt.DefaultDocumentType(config.IntentCreateFlow)
	}
	in := prompt.Input{Document: document, DocumentType: documentType}
	return run(ctx, s, config.IntentCreateFlow, in, GenericFlow(documentType), decodeFlow)
}

// ConvertDocument converts a document with the highway-program instructions.
// An empty document converts the built-in Adopt-A-Highway template.
func (s *Service) ConvertDocument(ctx context.Context, document string) (*Result[models.ConversationFlow], error) {
	in := prompt.Input{Document: defaultDocument(document)}
	return run(ctx, s, config.IntentConvertDocument, in, HighwayFlow(), decodeFlow)
}

// ProcessResponse reads one user answer and proposes the next question
func (s *Service) ProcessResponse(
	ctx context.Context,
	history []models.Exchange,
	currentQuestion, userResponse string,
) (*Result[models.ProcessedResponse], error) {
	in := prompt.Input{
		History:         history,
		CurrentQuestion: currentQuestion,
		UserResponse:    userResponse,
	}
	return run(ctx, s, config.IntentProcessResponse, in, ProcessFallback(), decodeProcessed)
}

// ExtractDecisions summarizes the decisions made in a conversation
func (s *Service) ExtractDecisions(
	ctx context.Context,
	history []models.Exchange,
	documentType string,
) (*Result[models.ExtractedDecisions], error) {
	if documentType == "" {
		documentType = prompt.DefaultDocumentType(config.IntentExtractDecisions)
	}
	in := prompt.Input{History: history, DocumentType: documentType}
	return run(ctx, s, config.IntentExtractDecisions, in, DecisionsFallback(documentType), decodeDecisions)
}

// Prompt renders the prompt an intent would send, with the same defaults, without calling the model
func (s *Service) Prompt(intent string, in prompt.Input) (*prompt.Prompt, error) {
	if intent == config.IntentConvertDocument {
		in.Document = defaultDocument(in.Document)
	}
	return s.builder.Build(intent, in)
}

func defaultDocument(document string) string {
	if strings.TrimSpace(document) == "" {
		return demo.AdoptAHighwayTemplate
	}
	return document
}

func run[T any](
	ctx context.Context,
	s *Service,
	intent string,
	in prompt.Input,
	fallback T,
	decode func(string) (T, error),
) (*Result[T], error) {
	if !s.Configured() {
		s.logger.Warn("API key not configured, returning fallback", "intent", intent)
		s.metrics.RecordExtraction(intent, metrics.OutcomeNotConfigured)
		return &Result[T]{Value: fallback, FallbackUsed: true, Recovered: ErrNotConfigured}, nil
	}

	p, err := s.builder.Build(intent, in)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordPromptTokens(intent, p.Tokens)

	s.logger.Debug("Sending prompt",
		"intent", intent,
		"tokens", p.Tokens,
		"history_used", p.HistoryUsed,
		"temperature", p.Temperature,
		"max_tokens", p.MaxTokens)

	start := time.Now()
	raw, err := s.completer.Complete(ctx, s.cfg.Model, s.apiKey, p.System, p.User, api.CompletionOptions{
		Temperature: p.Temperature,
		MaxTokens:   p.MaxTokens,
	})
	duration := time.Since(start)
	if err != nil {
		status := "error"
		if api.IsTimeout(err) {
			status = "timeout"
		}
		s.metrics.RecordUpstreamRequest(s.cfg.Model.ModelName, duration, status)
		s.metrics.RecordExtraction(intent, metrics.OutcomeUpstreamError)
		s.logger.Error("Completion failed", "intent", intent, "duration", duration, "error", err)
		return nil, fmt.Errorf("failed to complete %s: %w", intent, err)
	}
	s.metrics.RecordUpstreamRequest(s.cfg.Model.ModelName, duration, "success")

	s.logger.Debug("Received model response",
		"intent", intent,
		"length", len(raw),
		"preview", util.TruncateString(raw, 200))

	value, err := decode(raw)
	if err != nil {
		s.logger.Warn("Model output unusable, returning fallback",
			"intent", intent,
			"reason", diagnose(raw),
			"error", err,
			"preview", util.TruncateString(raw, 200))
		s.metrics.RecordExtraction(intent, metrics.OutcomeFallback)
		return &Result[T]{Value: fallback, AIUsed: true, FallbackUsed: true, Raw: raw, Recovered: err}, nil
	}

	s.metrics.RecordExtraction(intent, metrics.OutcomeParsed)
	return &Result[T]{Value: value, AIUsed: true, Raw: raw}, nil
}

func decodeFlow(raw string) (models.ConversationFlow, error) {
	var flow models.ConversationFlow
	if err := util.DecodeJSON(raw, &flow); err != nil {
		return flow, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	if flow.Title == "" && len(flow.Sections) == 0 {
		return flow, fmt.Errorf("%w: object has neither title nor sections", ErrMalformedOutput)
	}
	if flow.Sections == nil {
		flow.Sections = []models.Section{}
	}
	flow.Normalize()
	if err := flow.Validate(); err != nil {
		return flow, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return flow, nil
}

func decodeProcessed(raw string) (models.ProcessedResponse, error) {
	resp, ok := util.ExtractOrFallback(raw, models.ProcessedResponse{})
	if !ok {
		return resp, ErrMalformedOutput
	}
	if resp.NextQuestion == "" && !resp.IsComplete {
		return resp, fmt.Errorf("%w: no next_question", ErrMalformedOutput)
	}
	if resp.ExtractedInfo == nil {
		resp.ExtractedInfo = models.Decisions{}
	}
	return resp, nil
}

func decodeDecisions(raw string) (models.ExtractedDecisions, error) {
	decisions, ok := util.ExtractOrFallback(raw, models.ExtractedDecisions{})
	if !ok {
		return decisions, ErrMalformedOutput
	}
	if decisions.Decisions == nil && decisions.Summary == "" {
		return decisions, fmt.Errorf("%w: object has neither decisions nor summary", ErrMalformedOutput)
	}
	if decisions.Decisions == nil {
		decisions.Decisions = models.Decisions{}
	}
	return decisions, nil
}
