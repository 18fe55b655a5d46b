package logger

import (
	"log/slog"
	"os"
)

// New creates a JSON-formatted logger with optional context extractors.
func New(extractors ...ContextExtractor) *slog.Logger {
	log := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return slog.New(NewLogHandlerDecorator(log, extractors...))
}

// NewComponent creates a logger with a component attribute on every entry,
// for easy filtering of one subsystem's logs.
func NewComponent(component string, extractors ...ContextExtractor) *slog.Logger {
	return New(extractors...).With(slog.String("component", component))
}
