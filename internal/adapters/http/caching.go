package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// cacheRule maps a path to a Cache-Control value. exact rules match the
// whole path, the others match a prefix. The first match wins.
type cacheRule struct {
	path  string
	exact bool
	value string
}

var cacheRules = []cacheRule{
	{path: "/v1/health", exact: true, value: "public, max-age=10"},
	{path: "/v1/ready", exact: true, value: "public, max-age=10"},
	{path: "/", exact: true, value: "no-cache"},
	{path: "/metrics", exact: true, value: "no-cache"},
	{path: "/v1/dataset", exact: true, value: "no-cache"},
	{path: "/graphql", exact: true, value: "private, max-age=0"},
	{path: "/v1/airports/nearby", value: "public, max-age=60"},
	// Documents carry the dataset version in their ETag, so clients must
	// revalidate once a reload may have happened.
	{path: "/v1/chart.", value: "public, max-age=300, must-revalidate"},
	{path: "/v1/map.", value: "public, max-age=300, must-revalidate"},
	{path: "/v1/", value: "public, max-age=300"},
}

func cacheControlFor(path string) string {
	for _, r := range cacheRules {
		if (r.exact && path == r.path) || (!r.exact && strings.HasPrefix(path, r.path)) {
			return r.value
		}
	}
	return ""
}

// CachingMiddleware sets Cache-Control on successful GET responses unless
// the handler already did. Errors are never cached.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != fiber.MethodGet || len(c.Response().Header.Peek(fiber.HeaderCacheControl)) > 0 {
			return err
		}
		if status := c.Response().StatusCode(); status >= fiber.StatusBadRequest {
			c.Set(fiber.HeaderCacheControl, "no-store")
			return err
		}
		if v := cacheControlFor(c.Path()); v != "" {
			c.Set(fiber.HeaderCacheControl, v)
		}
		return err
	}
}
