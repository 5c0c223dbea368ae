package usecases

import (
	"sort"

	"github.com/iancoleman/orderedmap"

	"github.com/samirrijal/routemap/internal/core/domain"
)

// GroupByAirline counts routes per airline and ranks the airlines by count,
// busiest first. Airlines with equal counts keep the order in which they
// first appear in routes, and the first name seen for an id is kept.
func GroupByAirline(routes []domain.Route) []domain.AirlineAggregate {
	fold := orderedmap.New()
	for _, r := range routes {
		if v, ok := fold.Get(r.AirlineID); ok {
			v.(*domain.AirlineAggregate).Count++
			continue
		}
		fold.Set(r.AirlineID, &domain.AirlineAggregate{
			AirlineID:   r.AirlineID,
			AirlineName: r.AirlineName,
			Count:       1,
		})
	}

	out := make([]domain.AirlineAggregate, 0, len(fold.Keys()))
	for _, k := range fold.Keys() {
		v, _ := fold.Get(k)
		out = append(out, *v.(*domain.AirlineAggregate))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}
