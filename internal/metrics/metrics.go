package metrics

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Extraction outcomes
const (
	OutcomeParsed        = "parsed"
	OutcomeFallback      = "fallback"
	OutcomeNotConfigured = "not_configured"
	OutcomeUpstreamError = "upstream_error"
)

var (
	// HTTP metrics
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reqflow_http_requests_total",
			Help: "Total HTTP requests by route and status code",
		},
		[]string{"route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reqflow_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds by route",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 15), // 5ms to ~80s
		},
		[]string{"route"},
	)

	// Upstream metrics
	upstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reqflow_upstream_request_duration_seconds",
			Help:    "Chat completion duration in seconds by model",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 0.1s to ~100s
		},
		[]string{"model", "status"}, // status: "success", "error", "timeout"
	)

	// Pipeline metrics
	extractions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reqflow_extraction_total",
			Help: "Model output extractions by intent and outcome",
		},
		[]string{"intent", "outcome"},
	)

	promptTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reqflow_prompt_tokens",
			Help:    "Prompt size in tokens by intent",
			Buckets: prometheus.ExponentialBuckets(64, 2, 10), // 64 to ~32k
		},
		[]string{"intent"},
	)

	// Batch metrics
	activeWorkers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reqflow_batch_active_workers",
			Help: "Number of batch conversion workers currently running",
		},
	)

	documentsConverted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reqflow_batch_documents_total",
			Help: "Documents processed by batch conversion",
		},
		[]string{"status"}, // "success" or "error"
	)
)

// Collector provides convenience methods for recording metrics
type Collector struct {
	logger *slog.Logger
}

// NewCollector creates a new metrics collector
func NewCollector(logger *slog.Logger) *Collector {
	return &Collector{
		logger: logger,
	}
}

// RecordHTTPRequest records one served request
func (c *Collector) RecordHTTPRequest(route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordUpstreamRequest records a chat completion call
func (c *Collector) RecordUpstreamRequest(model string, duration time.Duration, status string) {
	upstreamRequestDuration.WithLabelValues(model, status).Observe(duration.Seconds())
}

// RecordExtraction counts how a model response was turned into a result
func (c *Collector) RecordExtraction(intent, outcome string) {
	extractions.WithLabelValues(intent, outcome).Inc()
}

// RecordPromptTokens records the size of a rendered prompt
func (c *Collector) RecordPromptTokens(intent string, tokens int) {
	promptTokens.WithLabelValues(intent).Observe(float64(tokens))
}

// SetActiveWorkers sets the number of running batch workers
func (c *Collector) SetActiveWorkers(count int) {
	activeWorkers.Set(float64(count))
}

// IncrementConverted counts one batch document
func (c *Collector) IncrementConverted(success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	documentsConverted.WithLabelValues(status).Inc()
}
