package domain

import (
	"time"

	geojson "github.com/paulmach/go.geojson"
)

// State is everything one load produced. It is built once and never
// mutated; a reload replaces the whole value.
type State struct {
	Version       string
	LoadedAt      time.Time
	Routes        []Route
	Boundaries    *geojson.FeatureCollection
	Projection    Projection
	MalformedRows int
}

// CountryCount returns the number of boundary features.
func (s *State) CountryCount() int {
	if s.Boundaries == nil {
		return 0
	}
	return len(s.Boundaries.Features)
}
