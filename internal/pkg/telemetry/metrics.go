package telemetry

// Span and attribute names used for instrumentation.
const (
	TracerName = "github.com/samirrijal/routemap"

	SpanDatasetLoad   = "dataset.load"
	SpanRenderChart   = "render.chart"
	SpanRenderMap     = "render.map"
	SpanSelection     = "selection.diff"
	SpanRouteLines    = "routes.lines"
	SpanRefreshSource = "refresh.fingerprint"

	AttrDatasetVersion = "routemap.dataset.version"
	AttrRouteCount     = "routemap.dataset.routes"
	AttrAirlineID      = "routemap.airline.id"
	AttrLineCount      = "routemap.lines"
)
