package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/storefront/pkg/logger"
)

type reqIDKey struct{}

func reqIDExtractor(ctx context.Context) (slog.Attr, bool) {
	if id, ok := ctx.Value(reqIDKey{}).(string); ok && id != "" {
		return slog.String("request_id", id), true
	}
	return slog.Attr{}, false
}

func decorated(extractors ...logger.ContextExtractor) (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	h := slog.NewJSONHandler(&buf, nil)
	return slog.New(logger.NewLogHandlerDecorator(h, extractors...)), &buf
}

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestLogHandlerDecorator(t *testing.T) {
	t.Parallel()

	t.Run("injects context attributes", func(t *testing.T) {
		t.Parallel()

		log, buf := decorated(reqIDExtractor)
		ctx := context.WithValue(context.Background(), reqIDKey{}, "req-42")
		log.InfoContext(ctx, "hello")

		entry := lastEntry(t, buf)
		require.Equal(t, "req-42", entry["request_id"])
		require.Equal(t, "hello", entry["msg"])
	})

	t.Run("no attribute when the context lacks a value", func(t *testing.T) {
		t.Parallel()

		log, buf := decorated(reqIDExtractor)
		log.InfoContext(context.Background(), "hello")

		entry := lastEntry(t, buf)
		require.NotContains(t, entry, "request_id")
	})

	t.Run("nil extractors are filtered", func(t *testing.T) {
		t.Parallel()

		log, buf := decorated(nil, reqIDExtractor, nil)
		ctx := context.WithValue(context.Background(), reqIDKey{}, "req-1")
		log.InfoContext(ctx, "hello")

		require.Equal(t, "req-1", lastEntry(t, buf)["request_id"])
	})

	t.Run("extraction survives With", func(t *testing.T) {
		t.Parallel()

		log, buf := decorated(reqIDExtractor)
		log = log.With(slog.String("component", "catalog"))
		ctx := context.WithValue(context.Background(), reqIDKey{}, "req-7")
		log.InfoContext(ctx, "hello")

		entry := lastEntry(t, buf)
		require.Equal(t, "catalog", entry["component"])
		require.Equal(t, "req-7", entry["request_id"])
	})
}
