package http

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ETagMiddleware tags successful GET responses and answers 304 when the
// client already holds the same representation. Handlers that know their
// version (rendered documents) set a strong ETag themselves; everything else
// gets a weak one derived from the body.
func ETagMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := c.Next(); err != nil {
			return err
		}
		if c.Method() != fiber.MethodGet || c.Response().StatusCode() != fiber.StatusOK {
			return nil
		}

		etag := string(c.Response().Header.Peek(fiber.HeaderETag))
		if etag == "" {
			body := c.Response().Body()
			if len(body) == 0 {
				return nil
			}
			h := sha256.Sum256(body)
			etag = `W/"` + hex.EncodeToString(h[:8]) + `"`
			c.Set(fiber.HeaderETag, etag)
		}

		if etagMatches(c.Get(fiber.HeaderIfNoneMatch), etag) {
			c.Status(fiber.StatusNotModified)
			c.Response().ResetBody()
		}
		return nil
	}
}

// etagMatches applies the weak comparison of RFC 9110 to an If-None-Match
// header value.
func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	want := strings.TrimPrefix(etag, "W/")
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == want {
			return true
		}
	}
	return false
}
