// Package export renders the chart and the map into raster and print
// formats.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/samirrijal/routemap/internal/core/domain"
	"github.com/samirrijal/routemap/internal/render"
)

const (
	pngWidth  = 1024
	pngHeight = 512
	// horizontal room go-chart keeps for the y axis and padding
	pngGutter = 160
	maxBars   = 50
)

// ErrNoAirlines is returned when there is nothing to chart.
var ErrNoAirlines = errors.New("no airlines to chart")

// ChartPNG draws the top airlines by route count as a PNG bar chart.
func ChartPNG(airlines []domain.AirlineAggregate, top int, cfg render.ChartConfig) ([]byte, error) {
	if top <= 0 || top > maxBars {
		top = 20
	}
	if len(airlines) > top {
		airlines = airlines[:top]
	}
	if len(airlines) == 0 {
		return nil, ErrNoAirlines
	}

	fill := Color(cfg.BarFill)
	bars := make([]chart.Value, 0, len(airlines))
	for _, a := range airlines {
		bars = append(bars, chart.Value{
			Value: float64(a.Count),
			Label: a.AirlineName,
			Style: chart.Style{FillColor: fill, StrokeColor: fill, StrokeWidth: 1},
		})
	}

	barWidth := max(2, int(float64(pngWidth-pngGutter)/(float64(len(bars))*1.5)))
	graph := chart.BarChart{
		Title:      fmt.Sprintf("Top %d airlines by routes", len(bars)),
		Width:      pngWidth,
		Height:     pngHeight,
		BarWidth:   barWidth,
		BarSpacing: max(1, barWidth/2),
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		Bars:       bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render png: %w", err)
	}
	return buf.Bytes(), nil
}

// Color parses a "#rrggbb" or "#rgb" fill into a drawing color.
func Color(hex string) drawing.Color {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	return drawing.ColorFromHex(hex)
}
