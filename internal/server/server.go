// Package server exposes the flow service over HTTP with gin.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lamim/reqflow/internal/config"
	"github.com/lamim/reqflow/internal/flow"
	"github.com/lamim/reqflow/internal/metrics"
)

// ServiceName is reported by /health
const ServiceName = "reqflow"

// Server routes HTTP requests to the flow service
type Server struct {
	cfg     *config.Config
	flows   *flow.Service
	metrics *metrics.Collector
	logger  *slog.Logger
	version string
	now     func() time.Time
	router  *gin.Engine
}

// New creates a server with all routes registered
func New(cfg *config.Config, flows *flow.Service, collector *metrics.Collector, logger *slog.Logger, version string) *Server {
	s := &Server{
		cfg:     cfg,
		flows:   flows,
		metrics: collector,
		logger:  logger.With("component", "server"),
		version: version,
		now:     time.Now,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), s.accessLog(), s.cors())

	r.GET("/", s.handleRoot)
	r.GET("/health", s.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/shared/:share_id", s.handleShared)

	ai := r.Group("/ai")
	ai.GET("/schema", s.handleSchema)
	ai.POST("/create-flow", s.handleCreateFlow)
	ai.POST("/convert-document", s.handleConvertDocument)
	ai.POST("/process-response", s.handleProcessResponse)
	ai.POST("/extract-decisions", s.handleExtractDecisions)
	ai.POST("/create-shareable-link", s.handleCreateShareableLink)
	ai.GET("/demo", s.handleDemo)
	ai.POST("/demo-conversation", s.handleDemoConversation)
	ai.GET("/conversation-sample", s.handleConversationSample)
	ai.POST("/simulate-conversation", s.handleSimulateConversation)

	return r
}

// endpoints lists the public routes for the root document
func (s *Server) endpoints() []string {
	var out []string
	for _, route := range s.router.Routes() {
		if route.Path == "/" {
			continue
		}
		out = append(out, route.Method+" "+route.Path)
	}
	return out
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: time.Duration(s.cfg.Server.ReadTimeoutSeconds) * time.Second,
		ReadTimeout:       time.Duration(s.cfg.Server.ReadTimeoutSeconds) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening",
			"addr", srv.Addr,
			"model", s.cfg.Model.ModelName,
			"openai_configured", s.flows.Configured())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(s.cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}
