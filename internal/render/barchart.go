package render

import (
	"fmt"

	"github.com/samirrijal/routemap/internal/core/domain"
	"github.com/samirrijal/routemap/internal/render/svg"
)

// ChartMountID is the id of the bar chart mount point in the host page.
const ChartMountID = "AirlinesChart"

// Margin separates the plotting body from the axis labels.
type Margin struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// ChartConfig sizes and colors the bar chart.
type ChartConfig struct {
	Width     float64
	Height    float64
	Margin    Margin
	Padding   float64
	Ticks     int
	BarFill   string
	HoverFill string
}

// DefaultChartConfig returns the stock 400x600 chart.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:     400,
		Height:    600,
		Margin:    Margin{Top: 10, Right: 10, Bottom: 50, Left: 130},
		Padding:   0.2,
		Ticks:     5,
		BarFill:   "#2a5599",
		HoverFill: "#992a5b",
	}
}

// BodyWidth is the width left for bars.
func (c ChartConfig) BodyWidth() float64 { return c.Width - c.Margin.Left - c.Margin.Right }

// BodyHeight is the height left for bars.
func (c ChartConfig) BodyHeight() float64 { return c.Height - c.Margin.Top - c.Margin.Bottom }

// ChartScales are the two scales of the bar chart.
type ChartScales struct {
	X *LinearScale
	Y *BandScale
}

// NewChartScales builds the count and name scales for a ranked airline list.
func NewChartScales(airlines []domain.AirlineAggregate, cfg ChartConfig) ChartScales {
	maxCount := 0
	names := make([]string, 0, len(airlines))
	for _, a := range airlines {
		if a.Count > maxCount {
			maxCount = a.Count
		}
		names = append(names, a.AirlineName)
	}
	return ChartScales{
		X: NewLinearScale(0, float64(maxCount), 0, cfg.BodyWidth()),
		Y: NewBandScale(names, 0, cfg.BodyHeight(), cfg.Padding),
	}
}

// Bar is one laid-out bar, in body coordinates.
type Bar struct {
	AirlineID   string
	AirlineName string
	Count       int
	X           float64
	Y           float64
	Width       float64
	Height      float64
}

// LayoutBars positions one bar per airline.
func LayoutBars(airlines []domain.AirlineAggregate, scales ChartScales) []Bar {
	bars := make([]Bar, 0, len(airlines))
	for _, a := range airlines {
		y, _ := scales.Y.Position(a.AirlineName)
		bars = append(bars, Bar{
			AirlineID:   a.AirlineID,
			AirlineName: a.AirlineName,
			Count:       a.Count,
			Y:           y,
			Width:       scales.X.Scale(float64(a.Count)),
			Height:      scales.Y.Bandwidth(),
		})
	}
	return bars
}

// BarChart renders the ranked airlines as a horizontal bar chart.
func BarChart(airlines []domain.AirlineAggregate, cfg ChartConfig) *svg.Document {
	scales := NewChartScales(airlines, cfg)
	doc := svg.NewDocument(cfg.Width, cfg.Height)

	body := &svg.Group{Class: "bars", Transform: svg.Translate(cfg.Margin.Left, cfg.Margin.Top)}
	for _, bar := range LayoutBars(airlines, scales) {
		body.Add(&svg.Rect{
			ID:          "bar-" + bar.AirlineID,
			Class:       "bar",
			X:           svg.Num(bar.X),
			Y:           svg.Num(bar.Y),
			Width:       svg.Num(bar.Width),
			Height:      svg.Num(bar.Height),
			Fill:        cfg.BarFill,
			AirlineID:   bar.AirlineID,
			AirlineName: bar.AirlineName,
			Title:       &svg.Title{Content: fmt.Sprintf("%s: %d routes", bar.AirlineName, bar.Count)},
		})
	}

	doc.Add(
		body,
		BottomAxis(scales.X, cfg.Ticks, svg.Translate(cfg.Margin.Left, cfg.Height-cfg.Margin.Bottom)),
		LeftAxis(scales.Y, svg.Translate(cfg.Margin.Left, cfg.Margin.Top)),
	)
	return doc
}
