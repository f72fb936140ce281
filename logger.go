package bookbridge

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with bookbridge-specific helpers.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses a text handler to stderr at info level.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// LogMatch logs a catalog match pass.
func (l *Logger) LogMatch(ctx context.Context, candidates, seeds int) {
	if seeds == 0 {
		l.WarnContext(ctx, "no candidates matched the catalog",
			"candidates", candidates,
		)
		return
	}
	l.DebugContext(ctx, "candidates matched",
		"candidates", candidates,
		"seeds", seeds,
	)
}

// LogRerank logs a rerank pass.
func (l *Logger) LogRerank(ctx context.Context, seeds, results int) {
	l.DebugContext(ctx, "rerank completed",
		"seeds", seeds,
		"results", results,
	)
}

// LogResolve logs a metadata resolution pass.
func (l *Logger) LogResolve(ctx context.Context, ids, missing int) {
	if missing > 0 {
		l.DebugContext(ctx, "metadata resolved with defaults",
			"ids", ids,
			"missing", missing,
		)
		return
	}
	l.DebugContext(ctx, "metadata resolved",
		"ids", ids,
	)
}

// LogRefresh logs a forced asset refresh.
func (l *Logger) LogRefresh(ctx context.Context, err error) {
	if err != nil {
		l.ErrorContext(ctx, "asset refresh failed",
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "assets refreshed")
}
