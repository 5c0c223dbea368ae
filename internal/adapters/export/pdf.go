package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/samirrijal/routemap/internal/core/domain"
	"github.com/samirrijal/routemap/internal/render"
)

// MapPDF draws the world map on a single page sized like the SVG surface,
// one point per pixel. Route lines are drawn above airports, airports above
// countries.
func MapPDF(state *domain.State, airports []domain.AirportAggregate, lines []domain.RouteLine, cfg render.MapConfig) ([]byte, error) {
	proj := state.Projection
	if proj == nil {
		proj = cfg.Projection()
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: cfg.Width, Ht: cfg.Height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	setFill(pdf, cfg.LandFill)
	setDraw(pdf, cfg.BorderStroke)
	pdf.SetLineWidth(0.5)
	if state.Boundaries != nil {
		for _, f := range state.Boundaries.Features {
			for _, ring := range render.ProjectRings(f.Geometry, proj) {
				if len(ring) < 3 {
					continue
				}
				pts := make([]gofpdf.PointType, len(ring))
				for i, p := range ring {
					pts[i] = gofpdf.PointType{X: p.X, Y: p.Y}
				}
				pdf.Polygon(pts, "FD")
			}
		}
	}

	setFill(pdf, cfg.AirportFill)
	for _, a := range airports {
		p := proj.Project(a.Location())
		if !p.Finite() {
			continue
		}
		pdf.Circle(p.X, p.Y, cfg.AirportRadius, "F")
	}

	setDraw(pdf, cfg.RouteStroke)
	pdf.SetAlpha(cfg.RouteOpacity, "Normal")
	for _, l := range lines {
		pdf.Line(l.X1, l.Y1, l.X2, l.Y2)
	}
	pdf.SetAlpha(1, "Normal")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func setFill(pdf *gofpdf.Fpdf, hex string) {
	c := Color(hex)
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}

func setDraw(pdf *gofpdf.Fpdf, hex string) {
	c := Color(hex)
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}
