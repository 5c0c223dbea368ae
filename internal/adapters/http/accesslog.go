package http

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

// quietPaths are polled by probes and scrapers and only logged on failure.
var quietPaths = map[string]bool{
	"/metrics":   true,
	"/v1/health": true,
	"/v1/ready":  true,
}

// AccessLogMiddleware logs one structured line per request: method, path,
// status, latency, bytes sent and request ID.
func AccessLogMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		method := c.Method()
		path := c.Path()

		err := c.Next()

		status := responseStatus(c, err)
		if quietPaths[path] && status < 400 && err == nil {
			return err
		}

		requestID, _ := c.Locals("requestid").(string)
		if requestID == "" {
			requestID = c.Get(fiber.HeaderXRequestID, "unknown")
		}

		attrs := []slog.Attr{
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.Int("bytes_out", len(c.Response().Body())),
			slog.String("request_id", requestID),
		}
		if q := string(c.Request().URI().QueryString()); q != "" {
			attrs = append(attrs, slog.String("query", q))
		}

		level := slog.LevelInfo
		switch {
		case err != nil:
			attrs = append(attrs, slog.String("error", err.Error()))
			level = slog.LevelError
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}

		slog.LogAttrs(c.UserContext(), level, method+" "+path, attrs...)
		return err
	}
}

// responseStatus reports the status the error handler will write for err.
// The handler runs after the middleware chain unwinds, so the response still
// carries the default 200 when err is non-nil.
func responseStatus(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}
