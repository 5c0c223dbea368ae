package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/routemap/internal/adapters/export"
	"github.com/samirrijal/routemap/internal/core/domain"
)

const (
	contentTypeSVG = "image/svg+xml"
	contentTypePNG = "image/png"
	contentTypePDF = "application/pdf"
)

// ChartSVGHandler serves the airline bar chart.
func ChartSVGHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status, err := deps.Viz.Status()
		if err != nil {
			return errFromService(c, err)
		}
		data, err := deps.Viz.ChartSVG(c.UserContext())
		if err != nil {
			return errFromService(c, err)
		}
		c.Set("ETag", versionETag(status.Version, "chart"))
		c.Set(fiber.HeaderContentType, contentTypeSVG)
		return c.Send(data)
	}
}

// MapSVGHandler serves the world map, optionally with the route lines of
// one airline drawn on it.
func MapSVGHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status, err := deps.Viz.Status()
		if err != nil {
			return errFromService(c, err)
		}
		airline := c.Query("airline")
		if airline != "" {
			if _, err := deps.Viz.Airline(airline); err != nil {
				return errFromService(c, err)
			}
		}
		data, err := deps.Viz.MapSVG(c.UserContext(), airline)
		if err != nil {
			return errFromService(c, err)
		}
		c.Set("ETag", versionETag(status.Version, "map-"+airline))
		c.Set(fiber.HeaderContentType, contentTypeSVG)
		return c.Send(data)
	}
}

// ChartPNGHandler exports the top airlines as a PNG bar chart.
func ChartPNGHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		top := c.QueryInt("top", 20)
		if top <= 0 || top > 50 {
			return errBadRequest(c, "top must be between 1 and 50")
		}
		airlines, err := deps.Viz.Airlines()
		if err != nil {
			return errFromService(c, err)
		}
		data, err := export.ChartPNG(airlines, top, deps.Viz.ChartConfig())
		if errors.Is(err, export.ErrNoAirlines) {
			return errNotFound(c, "no airlines to draw")
		}
		if err != nil {
			return errFromService(c, err)
		}
		c.Set(fiber.HeaderContentType, contentTypePNG)
		return c.Send(data)
	}
}

// MapPDFHandler exports the world map as a single page PDF.
func MapPDFHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		state, err := deps.Viz.State()
		if err != nil {
			return errFromService(c, err)
		}
		airports, err := deps.Viz.Airports()
		if err != nil {
			return errFromService(c, err)
		}

		var lines []domain.RouteLine
		if airline := c.Query("airline"); airline != "" {
			if _, err := deps.Viz.Airline(airline); err != nil {
				return errFromService(c, err)
			}
			if lines, err = deps.Viz.RouteLines(c.UserContext(), airline); err != nil {
				return errFromService(c, err)
			}
		}

		data, err := export.MapPDF(state, airports, lines, deps.Viz.MapConfig())
		if err != nil {
			return errFromService(c, err)
		}
		c.Set(fiber.HeaderContentType, contentTypePDF)
		c.Set(fiber.HeaderContentDisposition, `inline; filename="routemap.pdf"`)
		return c.Send(data)
	}
}

// ListAirlinesHandler returns airlines ranked by route count.
func ListAirlinesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		airlines, err := deps.Viz.Airlines()
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(paginate(c, airlines))
	}
}

// GetAirlineHandler returns one airline aggregate.
func GetAirlineHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		airline, err := deps.Viz.Airline(c.Params("id"))
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(airline)
	}
}

// AirlineRoutesHandler returns the raw routes flown by one airline.
func AirlineRoutesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		routes, err := deps.Viz.RoutesByAirline(c.Params("id"))
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(paginate(c, routes))
	}
}

// AirlineLinesHandler returns the projected route lines of one airline.
func AirlineLinesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := deps.Viz.Airline(id); err != nil {
			return errFromService(c, err)
		}
		lines, err := deps.Viz.RouteLines(c.UserContext(), id)
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(lines)
	}
}

// ListAirportsHandler returns every airport in first-seen order.
func ListAirportsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		airports, err := deps.Viz.Airports()
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(paginate(c, airports))
	}
}

// NearbyAirportsHandler returns the airports closest to a point. With a
// radius (meters) it returns every airport inside it instead of the k nearest.
func NearbyAirportsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat, err := strconv.ParseFloat(c.Query("lat"), 64)
		if err != nil {
			return errBadRequest(c, "lat is required")
		}
		lon, err := strconv.ParseFloat(c.Query("lon"), 64)
		if err != nil {
			return errBadRequest(c, "lon is required")
		}
		p := domain.GeoPoint{Lat: lat, Lon: lon}
		if !p.Valid() || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			return errBadRequest(c, "lat must be in [-90, 90] and lon in [-180, 180]")
		}

		if c.Query("radius") != "" {
			radius := c.QueryFloat("radius", 0)
			if radius <= 0 || radius > 20_000_000 {
				return errBadRequest(c, "radius must be between 1 and 20000000 meters")
			}
			airports, err := deps.Viz.AirportsWithin(p, radius)
			if err != nil {
				return errFromService(c, err)
			}
			return c.JSON(airports)
		}

		k := c.QueryInt("k", 10)
		if k <= 0 || k > 50 {
			return errBadRequest(c, "k must be between 1 and 50")
		}
		airports, err := deps.Viz.NearbyAirports(p, k)
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(airports)
	}
}

// DatasetStatusHandler describes the loaded dataset.
func DatasetStatusHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status, err := deps.Viz.Status()
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(status)
	}
}

// ReloadDatasetHandler loads both datasets again. On failure the previous
// dataset stays active and the caller gets 502.
func ReloadDatasetHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status, err := deps.Viz.Reload(c.UserContext())
		if err != nil {
			LoggerFromCtx(c.UserContext()).Error("dataset reload failed", "error", err)
			return errBadGateway(c, err.Error())
		}
		return c.JSON(status)
	}
}

func versionETag(version, document string) string {
	return `"` + version + "-" + document + `"`
}
