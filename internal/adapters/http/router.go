package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/routemap/internal/pkg/metrics"
)

// reloadTimeout covers fetching both datasets, which can be slow remotely.
const reloadTimeout = 2 * time.Minute

// SetupRoutes registers the host page, REST, GraphQL and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP. Hover traffic goes
	// over the socket and is not counted.
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/ws" || c.Path() == "/metrics"
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())

	app.Get("/", IndexHandler(deps))

	// Health & readiness (no timeout, fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	withTimeout := func(h fiber.Handler) fiber.Handler {
		return timeout.NewWithContext(h, deps.timeout())
	}

	v1 := app.Group("/v1")
	v1.Get("/chart.svg", withTimeout(ChartSVGHandler(deps)))
	v1.Get("/chart.png", withTimeout(ChartPNGHandler(deps)))
	v1.Get("/map.svg", withTimeout(MapSVGHandler(deps)))
	v1.Get("/map.pdf", withTimeout(MapPDFHandler(deps)))
	v1.Get("/airlines", withTimeout(ListAirlinesHandler(deps)))
	v1.Get("/airlines/:id", withTimeout(GetAirlineHandler(deps)))
	v1.Get("/airlines/:id/routes", withTimeout(AirlineRoutesHandler(deps)))
	v1.Get("/airlines/:id/lines", withTimeout(AirlineLinesHandler(deps)))
	v1.Get("/airports", withTimeout(ListAirportsHandler(deps)))
	v1.Get("/airports/nearby", withTimeout(NearbyAirportsHandler(deps)))
	v1.Get("/dataset", withTimeout(DatasetStatusHandler(deps)))
	v1.Post("/dataset/reload", timeout.NewWithContext(ReloadDatasetHandler(deps), reloadTimeout))

	app.Post("/graphql", withTimeout(GraphQLHandler(deps)))

	SetupDocs(app, deps.SpecPath)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.Viz)))
}
