package domain

import "math"

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether both components are finite numbers.
func (p GeoPoint) Valid() bool {
	return !math.IsNaN(p.Lat) && !math.IsNaN(p.Lon) &&
		!math.IsInf(p.Lat, 0) && !math.IsInf(p.Lon, 0)
}

// ScreenPoint is a position on a drawing surface, in pixels.
type ScreenPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Finite reports whether the point can be written into a document.
func (p ScreenPoint) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) &&
		!math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Projection maps geographic coordinates onto a drawing surface.
type Projection interface {
	Project(p GeoPoint) ScreenPoint
}
