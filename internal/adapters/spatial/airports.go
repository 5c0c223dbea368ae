// Package spatial indexes airports for proximity queries.
package spatial

import (
	"sort"
	"sync"

	"github.com/dhconnelly/rtreego"

	"github.com/samirrijal/routemap/internal/core/domain"
	"github.com/samirrijal/routemap/internal/pkg/geospatial"
)

const (
	dimensions  = 2
	minChildren = 25
	maxChildren = 50
	tolerance   = 1e-6
)

type airportItem struct {
	airport domain.AirportAggregate
	rect    *rtreego.Rect
}

func (a *airportItem) Bounds() *rtreego.Rect { return a.rect }

// AirportIndex implements ports.AirportIndex with an R-tree keyed on
// (lat, lon). Results are ranked by great-circle distance.
type AirportIndex struct {
	mu   sync.RWMutex
	tree *rtreego.Rtree
	size int
}

// NewAirportIndex creates an empty index.
func NewAirportIndex() *AirportIndex {
	return &AirportIndex{tree: rtreego.NewTree(dimensions, minChildren, maxChildren)}
}

// Rebuild replaces the indexed airports. Airports without valid
// coordinates are left out.
func (idx *AirportIndex) Rebuild(airports []domain.AirportAggregate) {
	items := make([]rtreego.Spatial, 0, len(airports))
	for _, a := range airports {
		if !a.Location().Valid() {
			continue
		}
		p := rtreego.Point{a.Latitude, a.Longitude}
		items = append(items, &airportItem{airport: a, rect: p.ToRect(tolerance)})
	}
	tree := rtreego.NewTree(dimensions, minChildren, maxChildren, items...)

	idx.mu.Lock()
	idx.tree = tree
	idx.size = len(items)
	idx.mu.Unlock()
}

// Len returns the number of indexed airports.
func (idx *AirportIndex) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.size
}

// Nearest returns up to k airports closest to p, nearest first.
//
// The tree is planar in (lat, lon), so its k nearest neighbours are not the k
// nearest on the sphere near the antimeridian or the poles. They do bound
// the answer: no true neighbour is farther than the farthest of them, so a
// Within search at that radius finds every candidate.
func (idx *AirportIndex) Nearest(p domain.GeoPoint, k int) []domain.AirportAggregate {
	if k <= 0 || !p.Valid() {
		return nil
	}
	idx.mu.RLock()
	seeds := idx.tree.NearestNeighbors(k, rtreego.Point{p.Lat, p.Lon})
	idx.mu.RUnlock()

	ranked := rank(p, seeds)
	if len(ranked) == 0 {
		return nil
	}
	far := ranked[len(ranked)-1]
	radius := geospatial.DistanceMeters(p.Lat, p.Lon, far.Latitude, far.Longitude)

	out := idx.Within(p, radius+1)
	if len(out) > k {
		out = out[:k]
	}
	return out
}

// Within returns the airports no farther than radiusMeters from p, nearest
// first.
func (idx *AirportIndex) Within(p domain.GeoPoint, radiusMeters float64) []domain.AirportAggregate {
	if radiusMeters <= 0 || !p.Valid() {
		return nil
	}
	box := geospatial.Around(p.Lat, p.Lon, radiusMeters)
	dLat, dLon := box.Span()
	bounds, err := rtreego.NewRect(rtreego.Point{box.MinLat, box.MinLon}, []float64{dLat, dLon})
	if err != nil {
		return nil
	}

	idx.mu.RLock()
	candidates := idx.tree.SearchIntersect(bounds)
	idx.mu.RUnlock()

	out := rank(p, candidates)
	n := sort.Search(len(out), func(i int) bool {
		return geospatial.DistanceMeters(p.Lat, p.Lon, out[i].Latitude, out[i].Longitude) > radiusMeters
	})
	return out[:n]
}

func rank(p domain.GeoPoint, candidates []rtreego.Spatial) []domain.AirportAggregate {
	type scored struct {
		airport  domain.AirportAggregate
		distance float64
	}
	results := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		item, ok := c.(*airportItem)
		if !ok || item == nil {
			continue
		}
		results = append(results, scored{
			airport:  item.airport,
			distance: geospatial.DistanceMeters(p.Lat, p.Lon, item.airport.Latitude, item.airport.Longitude),
		})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].distance < results[j].distance })

	out := make([]domain.AirportAggregate, len(results))
	for i, r := range results {
		out[i] = r.airport
	}
	return out
}
