package render

import (
	"github.com/samirrijal/routemap/internal/render/svg"
)

const (
	tickSize    = 6
	tickPadding = 3
	// half-pixel offset keeps one-pixel strokes crisp
	axisOffset = 0.5
)

func axisGroup(transform string, anchor string) *svg.Group {
	return &svg.Group{
		Class:      "axis",
		Transform:  transform,
		Fill:       "none",
		FontSize:   "10",
		FontFamily: "sans-serif",
		TextAnchor: anchor,
	}
}

// BottomAxis draws a horizontal axis for a linear scale with roughly
// count ticks below the domain line.
func BottomAxis(scale *LinearScale, count int, transform string) *svg.Group {
	g := axisGroup(transform, "middle")
	r0, r1 := scale.r0, scale.r1
	g.Add(&svg.Path{
		Class:  "domain",
		Stroke: "currentColor",
		D: "M" + svg.FormatNum(r0+axisOffset) + "," + svg.FormatNum(tickSize) +
			"V" + svg.FormatNum(axisOffset) +
			"H" + svg.FormatNum(r1+axisOffset) +
			"V" + svg.FormatNum(tickSize),
	})
	format := scale.TickFormat(count)
	for _, v := range scale.Ticks(count) {
		tick := &svg.Group{Class: "tick", Transform: svg.Translate(scale.Scale(v)+axisOffset, 0)}
		tick.Add(
			&svg.Line{Stroke: "currentColor", Y2: tickSize},
			&svg.Text{Fill: "currentColor", Y: svg.NumPtr(tickSize + tickPadding), DY: "0.71em", Content: format(v)},
		)
		g.Add(tick)
	}
	return g
}

// LeftAxis draws a vertical axis for a band scale with one tick centred on
// every band.
func LeftAxis(scale *BandScale, transform string) *svg.Group {
	g := axisGroup(transform, "end")
	r0, r1 := scale.r0, scale.r1
	g.Add(&svg.Path{
		Class:  "domain",
		Stroke: "currentColor",
		D: "M" + svg.FormatNum(-tickSize) + "," + svg.FormatNum(r0+axisOffset) +
			"H" + svg.FormatNum(axisOffset) +
			"V" + svg.FormatNum(r1+axisOffset) +
			"H" + svg.FormatNum(-tickSize),
	})
	half := scale.Bandwidth() / 2
	for _, name := range scale.Domain() {
		pos, _ := scale.Position(name)
		tick := &svg.Group{Class: "tick", Transform: svg.Translate(0, pos+half+axisOffset)}
		tick.Add(
			&svg.Line{Stroke: "currentColor", X2: -tickSize},
			&svg.Text{Fill: "currentColor", X: svg.NumPtr(-(tickSize + tickPadding)), DY: "0.32em", Content: name},
		)
		g.Add(tick)
	}
	return g
}
