package domain

import (
	"encoding/json"
	"math"
)

// Coord is a coordinate in JSON form. Values that are not finite numbers,
// such as the NaN an unparsable dataset cell becomes, are written as null
// and read back as NaN.
type Coord float64

func (c Coord) MarshalJSON() ([]byte, error) {
	f := float64(c)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

func (c *Coord) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = Coord(math.NaN())
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*c = Coord(f)
	return nil
}

// Finite returns the coordinate, or nil when it is not a finite number.
func (c Coord) Finite() *float64 {
	f := float64(c)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// The aliases drop the methods below so the wrappers can embed the plain
// fields; the coordinate fields of the wrapper sit at a shallower depth and
// replace the float ones.
type (
	routeJSON   Route
	airportJSON AirportAggregate
)

func (r Route) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		routeJSON
		SourceLatitude  Coord `json:"source_latitude"`
		SourceLongitude Coord `json:"source_longitude"`
		DestLatitude    Coord `json:"dest_latitude"`
		DestLongitude   Coord `json:"dest_longitude"`
	}{
		routeJSON:       routeJSON(r),
		SourceLatitude:  Coord(r.SourceLatitude),
		SourceLongitude: Coord(r.SourceLongitude),
		DestLatitude:    Coord(r.DestLatitude),
		DestLongitude:   Coord(r.DestLongitude),
	})
}

func (r *Route) UnmarshalJSON(data []byte) error {
	v := struct {
		*routeJSON
		SourceLatitude  Coord `json:"source_latitude"`
		SourceLongitude Coord `json:"source_longitude"`
		DestLatitude    Coord `json:"dest_latitude"`
		DestLongitude   Coord `json:"dest_longitude"`
	}{
		routeJSON:       (*routeJSON)(r),
		SourceLatitude:  Coord(r.SourceLatitude),
		SourceLongitude: Coord(r.SourceLongitude),
		DestLatitude:    Coord(r.DestLatitude),
		DestLongitude:   Coord(r.DestLongitude),
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	r.SourceLatitude = float64(v.SourceLatitude)
	r.SourceLongitude = float64(v.SourceLongitude)
	r.DestLatitude = float64(v.DestLatitude)
	r.DestLongitude = float64(v.DestLongitude)
	return nil
}

func (a AirportAggregate) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		airportJSON
		Latitude  Coord `json:"latitude"`
		Longitude Coord `json:"longitude"`
	}{
		airportJSON: airportJSON(a),
		Latitude:    Coord(a.Latitude),
		Longitude:   Coord(a.Longitude),
	})
}

func (a *AirportAggregate) UnmarshalJSON(data []byte) error {
	v := struct {
		*airportJSON
		Latitude  Coord `json:"latitude"`
		Longitude Coord `json:"longitude"`
	}{
		airportJSON: (*airportJSON)(a),
		Latitude:    Coord(a.Latitude),
		Longitude:   Coord(a.Longitude),
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	a.Latitude = float64(v.Latitude)
	a.Longitude = float64(v.Longitude)
	return nil
}
