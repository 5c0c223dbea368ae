package http

import (
	"bytes"
	"html/template"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/routemap/internal/render"
)

// pageData fills the host page template.
type pageData struct {
	ChartID      string
	MapID        string
	ChartWidth   float64
	ChartHeight  float64
	MapWidth     float64
	MapHeight    float64
	RouteStroke  string
	RouteOpacity float64
}

// The page holds the two mount points, pulls both documents in and keeps the
// route layer in sync with the diffs the hover socket sends back.
var pageTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>Airline routes</title>
  <style>
    body { font-family: sans-serif; margin: 0; display: flex; align-items: flex-start; }
    #{{.ChartID}} { flex: none; width: {{.ChartWidth}}px; height: {{.ChartHeight}}px; }
    #{{.MapID}} { flex: none; width: {{.MapWidth}}px; height: {{.MapHeight}}px; }
    .bar { cursor: pointer; }
  </style>
</head>
<body>
  <div id="{{.ChartID}}"></div>
  <div id="{{.MapID}}"></div>
  <script>
  (function () {
    const SVG_NS = "http://www.w3.org/2000/svg";
    const chart = document.getElementById({{.ChartID}});
    const map = document.getElementById({{.MapID}});
    const proto = location.protocol === "https:" ? "wss:" : "ws:";
    const socket = new WebSocket(proto + "//" + location.host + "/ws");

    function send(msg) {
      if (socket.readyState === WebSocket.OPEN) socket.send(JSON.stringify(msg));
    }

    function applyDiff(diff) {
      const layer = map.querySelector("#routes");
      if (!layer) return;
      (diff.removed || []).forEach(function (id) {
        const el = layer.querySelector("#route-" + CSS.escape(id));
        if (el) el.remove();
      });
      (diff.added || []).forEach(function (l) {
        const line = document.createElementNS(SVG_NS, "line");
        line.setAttribute("id", "route-" + l.id);
        line.setAttribute("data-route-id", l.id);
        line.setAttribute("x1", l.x1);
        line.setAttribute("y1", l.y1);
        line.setAttribute("x2", l.x2);
        line.setAttribute("y2", l.y2);
        line.setAttribute("stroke", {{.RouteStroke}});
        line.setAttribute("opacity", {{.RouteOpacity}});
        layer.appendChild(line);
      });
      (diff.highlights || []).forEach(function (h) {
        const bar = chart.querySelector("#bar-" + CSS.escape(h.airline_id));
        if (bar) bar.setAttribute("fill", h.fill);
      });
    }

    socket.onmessage = function (ev) {
      const msg = JSON.parse(ev.data);
      if (msg.type === "lines") applyDiff(msg);
      else if (msg.type === "error") console.warn(msg.message);
    };

    Promise.all([
      fetch("/v1/chart.svg").then(function (r) { return r.text(); }),
      fetch("/v1/map.svg").then(function (r) { return r.text(); }),
    ]).then(function (docs) {
      chart.innerHTML = docs[0];
      map.innerHTML = docs[1];
      chart.querySelectorAll(".bar").forEach(function (bar) {
        bar.addEventListener("mouseenter", function () {
          send({ action: "enter", airline: bar.dataset.airlineId });
        });
        bar.addEventListener("mouseleave", function () {
          send({ action: "leave" });
        });
      });
    });
  })();
  </script>
</body>
</html>
`))

// IndexHandler serves the host page. It renders even before a dataset is
// loaded; the documents it fetches answer 503 until then.
func IndexHandler(deps *Dependencies) fiber.Handler {
	chart := render.DefaultChartConfig()
	world := render.DefaultMapConfig()
	if deps.Viz != nil {
		chart = deps.Viz.ChartConfig()
		world = deps.Viz.MapConfig()
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, pageData{
		ChartID:      render.ChartMountID,
		MapID:        render.MapMountID,
		ChartWidth:   chart.Width,
		ChartHeight:  chart.Height,
		MapWidth:     world.Width,
		MapHeight:    world.Height,
		RouteStroke:  world.RouteStroke,
		RouteOpacity: world.RouteOpacity,
	}); err != nil {
		panic("index page template: " + err.Error())
	}
	page := buf.Bytes()

	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.Send(page)
	}
}
