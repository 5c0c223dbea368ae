package domain

import (
	"errors"
	"time"
)

var (
	// ErrNotLoaded is returned while no dataset has been loaded yet.
	ErrNotLoaded = errors.New("dataset not loaded")
	// ErrNotFound is returned when a requested airline or airport is unknown.
	ErrNotFound = errors.New("not found")
)

// Route is one flight leg as it appears in the routes dataset.
type Route struct {
	ID              string  `json:"id"`
	AirlineID       string  `json:"airline_id"`
	AirlineName     string  `json:"airline_name"`
	SourceAirportID string  `json:"source_airport_id"`
	SourceAirport   string  `json:"source_airport"`
	SourceCity      string  `json:"source_city"`
	SourceCountry   string  `json:"source_country"`
	SourceLatitude  float64 `json:"source_latitude"`
	SourceLongitude float64 `json:"source_longitude"`
	DestAirportID   string  `json:"dest_airport_id"`
	DestAirport     string  `json:"dest_airport"`
	DestCity        string  `json:"dest_city"`
	DestCountry     string  `json:"dest_country"`
	DestLatitude    float64 `json:"dest_latitude"`
	DestLongitude   float64 `json:"dest_longitude"`
}

// Source returns the departure coordinate of the route.
func (r Route) Source() GeoPoint {
	return GeoPoint{Lat: r.SourceLatitude, Lon: r.SourceLongitude}
}

// Dest returns the arrival coordinate of the route.
func (r Route) Dest() GeoPoint {
	return GeoPoint{Lat: r.DestLatitude, Lon: r.DestLongitude}
}

// AirlineAggregate is the number of routes flown by one airline.
type AirlineAggregate struct {
	AirlineID   string `json:"airline_id"`
	AirlineName string `json:"airline_name"`
	Count       int    `json:"count"`
}

// AirportAggregate is one airport with the number of routes touching it,
// counted once per role (source or destination).
type AirportAggregate struct {
	AirportID string  `json:"airport_id"`
	Airport   string  `json:"airport"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
	Count     int     `json:"count"`
}

// Location returns the airport coordinate.
func (a AirportAggregate) Location() GeoPoint {
	return GeoPoint{Lat: a.Latitude, Lon: a.Longitude}
}

// RouteLine is a route projected onto the map surface.
type RouteLine struct {
	RouteID   string  `json:"id"`
	AirlineID string  `json:"airline_id"`
	X1        float64 `json:"x1"`
	Y1        float64 `json:"y1"`
	X2        float64 `json:"x2"`
	Y2        float64 `json:"y2"`
}

// Highlight tells the client which bar to recolor and with what fill.
type Highlight struct {
	AirlineID string `json:"airline_id"`
	Fill      string `json:"fill"`
}

// LineDiff is the change to apply to the drawn route lines after a
// selection change. Lines present both before and after are left alone.
type LineDiff struct {
	Selected   string      `json:"selected"`
	Added      []RouteLine `json:"added"`
	Removed    []string    `json:"removed"`
	Highlights []Highlight `json:"highlights,omitempty"`
}

// DatasetStatus summarizes the loaded dataset.
type DatasetStatus struct {
	Version       string    `json:"version"`
	LoadedAt      time.Time `json:"loaded_at"`
	Routes        int       `json:"routes"`
	Airlines      int       `json:"airlines"`
	Airports      int       `json:"airports"`
	Countries     int       `json:"countries"`
	MalformedRows int       `json:"malformed_rows"`
}
