package handler_test

import (
	"context"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/storefront/internal/handler"
)

func TestRequestIDExtractor(t *testing.T) {
	t.Parallel()

	t.Run("surfaces the chi request id", func(t *testing.T) {
		t.Parallel()

		ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "srv-1/42")
		attr, ok := handler.RequestIDExtractor(ctx)
		require.True(t, ok)
		require.Equal(t, "request_id", attr.Key)
		require.Equal(t, "srv-1/42", attr.Value.String())
	})

	t.Run("nothing without a request id", func(t *testing.T) {
		t.Parallel()

		_, ok := handler.RequestIDExtractor(context.Background())
		require.False(t, ok)
	})
}
