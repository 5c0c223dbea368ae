package usecases

import (
	"github.com/iancoleman/orderedmap"

	"github.com/samirrijal/routemap/internal/core/domain"
)

// GroupByAirport collects the distinct airports touched by routes. Every
// route adds one to its destination and one to its source, so a route whose
// endpoints are the same airport counts twice for it. Airports are returned
// in the order they were first seen, destination before source.
func GroupByAirport(routes []domain.Route) []domain.AirportAggregate {
	fold := orderedmap.New()
	touch := func(id, name, city, country string, lat, lon float64) {
		if v, ok := fold.Get(id); ok {
			v.(*domain.AirportAggregate).Count++
			return
		}
		fold.Set(id, &domain.AirportAggregate{
			AirportID: id,
			Airport:   name,
			Latitude:  lat,
			Longitude: lon,
			City:      city,
			Country:   country,
			Count:     1,
		})
	}

	for _, r := range routes {
		touch(r.DestAirportID, r.DestAirport, r.DestCity, r.DestCountry, r.DestLatitude, r.DestLongitude)
		touch(r.SourceAirportID, r.SourceAirport, r.SourceCity, r.SourceCountry, r.SourceLatitude, r.SourceLongitude)
	}

	keys := fold.Keys()
	out := make([]domain.AirportAggregate, 0, len(keys))
	for _, k := range keys {
		v, _ := fold.Get(k)
		out = append(out, *v.(*domain.AirportAggregate))
	}
	return out
}
