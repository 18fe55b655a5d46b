// Package logger provides structured logging with context extraction.
//
// It extends log/slog with automatic context-based attribute injection:
// request-scoped values (request IDs, user IDs) are pulled from context
// on every log call, so they never have to be threaded by hand.
//
//	requestIDExtractor := func(ctx context.Context) (slog.Attr, bool) {
//		if reqID, ok := ctx.Value(requestIDKey{}).(string); ok && reqID != "" {
//			return slog.String("request_id", reqID), true
//		}
//		return slog.Attr{}, false
//	}
//
//	log := logger.New(requestIDExtractor)
//	log.InfoContext(ctx, "request processed", slog.Int("status", 200))
//	// {"level":"INFO","msg":"request processed","status":200,"request_id":"abc-123"}
//
// [NewComponent] stamps a component name on every entry; [NewNope]
// returns a discard-all logger for tests and unset defaults.
// [LogHandlerDecorator] can wrap any slog.Handler to add the same
// extraction behavior to custom handlers.
package logger
