package http

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/trace"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	loggerKey
)

// RequestIDLogMiddleware puts the request ID, and a logger tagged with it,
// into the user context. Services called with c.UserContext() then log
// under the same request, and under the active trace when there is one.
func RequestIDLogMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid, _ := c.Locals("requestid").(string)
		if rid == "" {
			return c.Next()
		}

		ctx := c.UserContext()
		attrs := []any{"request_id", rid}
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			attrs = append(attrs, "trace_id", sc.TraceID().String())
		}
		ctx = context.WithValue(ctx, requestIDKey, rid)
		ctx = context.WithValue(ctx, loggerKey, slog.Default().With(attrs...))
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// LoggerFromCtx returns the request logger, or the default logger outside
// a request.
func LoggerFromCtx(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

func RequestIDFromCtx(ctx context.Context) string {
	rid, _ := ctx.Value(requestIDKey).(string)
	return rid
}
