package spatial

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/routemap/internal/core/domain"
)

var airports = []domain.AirportAggregate{
	{AirportID: "3797", Airport: "JFK", Latitude: 40.6398, Longitude: -73.7789},
	{AirportID: "507", Airport: "LHR", Latitude: 51.4706, Longitude: -0.4619},
	{AirportID: "1382", Airport: "CDG", Latitude: 49.0128, Longitude: 2.55},
	{AirportID: "2359", Airport: "HND", Latitude: 35.5523, Longitude: 139.78},
	{AirportID: "bad", Airport: "???", Latitude: math.NaN(), Longitude: 0},
}

func TestAirportIndex_Nearest(t *testing.T) {
	idx := NewAirportIndex()
	idx.Rebuild(airports)
	assert.Equal(t, 4, idx.Len())

	got := idx.Nearest(domain.GeoPoint{Lat: 51.5, Lon: -0.12}, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "LHR", got[0].Airport)
	assert.Equal(t, "CDG", got[1].Airport)
}

func TestAirportIndex_NearestMoreThanIndexed(t *testing.T) {
	idx := NewAirportIndex()
	idx.Rebuild(airports)
	got := idx.Nearest(domain.GeoPoint{Lat: 0, Lon: 0}, 10)
	assert.Len(t, got, 4)
}

func TestAirportIndex_Within(t *testing.T) {
	idx := NewAirportIndex()
	idx.Rebuild(airports)

	got := idx.Within(domain.GeoPoint{Lat: 51.5, Lon: -0.12}, 400_000)
	require.Len(t, got, 2)
	assert.Equal(t, "LHR", got[0].Airport)

	assert.Empty(t, idx.Within(domain.GeoPoint{Lat: 0, Lon: 0}, 1000))
}

func TestAirportIndex_Empty(t *testing.T) {
	idx := NewAirportIndex()
	assert.Empty(t, idx.Nearest(domain.GeoPoint{Lat: 1, Lon: 1}, 3))
	assert.Nil(t, idx.Nearest(domain.GeoPoint{Lat: 1, Lon: 1}, 0))
}

func TestAirportIndex_NearestAcrossAntimeridian(t *testing.T) {
	idx := NewAirportIndex()
	idx.Rebuild([]domain.AirportAggregate{
		{AirportID: "EAST", Latitude: 0, Longitude: -179.99},
		{AirportID: "W170", Latitude: 0, Longitude: 170},
		{AirportID: "W171", Latitude: 0, Longitude: 171},
	})

	got := idx.Nearest(domain.GeoPoint{Lat: 0, Lon: 179.99}, 1)
	require.Len(t, got, 1)
	assert.Equal(t, "EAST", got[0].AirportID)

	got = idx.Nearest(domain.GeoPoint{Lat: 0, Lon: 179.99}, 3)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"EAST", "W171", "W170"},
		[]string{got[0].AirportID, got[1].AirportID, got[2].AirportID})
}

func TestAirportIndex_NearestAtHighLatitude(t *testing.T) {
	idx := NewAirportIndex()
	// At 80N one degree of longitude is about 19 km, so the airport 3 degrees
	// of longitude away is closer than the one 1 degree of latitude away.
	idx.Rebuild([]domain.AirportAggregate{
		{AirportID: "SOUTH", Latitude: 79, Longitude: 10},
		{AirportID: "EAST", Latitude: 80, Longitude: 13},
	})

	got := idx.Nearest(domain.GeoPoint{Lat: 80, Lon: 10}, 1)
	require.Len(t, got, 1)
	assert.Equal(t, "EAST", got[0].AirportID)
}
