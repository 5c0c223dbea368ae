package geospatial

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceMeters(t *testing.T) {
	// JFK to LHR
	d := DistanceMeters(40.6398, -73.7789, 51.4706, -0.4619)
	assert.InDelta(t, 5_550_000, d, 50_000)

	assert.Zero(t, DistanceMeters(10, 10, 10, 10))
	assert.InDelta(t, math.Pi*EarthRadiusMeters, DistanceMeters(0, 0, 0, 180), 1)
	assert.True(t, math.IsNaN(DistanceMeters(math.NaN(), 0, 0, 0)))
}

func TestAround(t *testing.T) {
	b := Around(0, 0, metersPerDegree)
	assert.InDelta(t, -1, b.MinLat, 1e-9)
	assert.InDelta(t, 1, b.MaxLat, 1e-9)
	assert.InDelta(t, -1, b.MinLon, 1e-9)
	assert.InDelta(t, 1, b.MaxLon, 1e-9)

	dLat, dLon := b.Span()
	assert.InDelta(t, 2, dLat, 1e-9)
	assert.InDelta(t, 2, dLon, 1e-9)
}

func TestAroundClampsAtPoleAndAntimeridian(t *testing.T) {
	polar := Around(89.5, 10, 2*metersPerDegree)
	assert.Equal(t, 90.0, polar.MaxLat)
	assert.Equal(t, -180.0, polar.MinLon)
	assert.Equal(t, 180.0, polar.MaxLon)

	dateline := Around(0, 179.5, metersPerDegree)
	assert.Equal(t, -180.0, dateline.MinLon)
	assert.Equal(t, 180.0, dateline.MaxLon)
	assert.InDelta(t, -1, dateline.MinLat, 1e-9)
}
