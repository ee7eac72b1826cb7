package writer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// multiHandler wraps multiple handlers to write to multiple destinations
type multiHandler struct {
	handlers []slog.Handler
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, r.Level) {
			continue
		}
		if err := handler.Handle(ctx, r.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithAttrs(attrs)
	}
	return &multiHandler{handlers: handlers}
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithGroup(name)
	}
	return &multiHandler{handlers: handlers}
}

// SetupLogger creates a logger writing to console in the given format ("text" or "json"),
// plus JSON lines to logPath when it is non-empty. The returned file is nil when no
// log file was opened; the caller closes it.
func SetupLogger(console io.Writer, logLevel slog.Level, format, logPath string) (*slog.Logger, *os.File, error) {
	opts := &slog.HandlerOptions{Level: logLevel}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "", "text":
		handler = slog.NewTextHandler(console, opts)
	case "json":
		handler = slog.NewJSONHandler(console, opts)
	default:
		return nil, nil, fmt.Errorf("unsupported log format %q", format)
	}

	if logPath == "" {
		return slog.New(handler), nil, nil
	}

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := slog.New(&multiHandler{
		handlers: []slog.Handler{handler, slog.NewJSONHandler(logFile, opts)},
	})

	return logger, logFile, nil
}
