package proximity

import (
	"sort"

	"github.com/kailas-cloud/platefinder/internal/domain/geo"
	"github.com/kailas-cloud/platefinder/internal/domain/restaurant"
)

// DefaultMaxDistanceKm applies when the caller sets no radius.
const DefaultMaxDistanceKm = 50.0

// Apply attaches distances from origin and, when origin is set, drops
// restaurants that are unlocated or farther than maxDistanceKm and sorts the
// rest by ascending distance. Ties keep their input order.
//
// With a nil origin every restaurant passes through in input order without a
// distance. A non-positive maxDistanceKm means DefaultMaxDistanceKm.
func Apply(restaurants []restaurant.Restaurant, origin *geo.Point, maxDistanceKm float64) []restaurant.Enriched {
	if origin == nil {
		out := make([]restaurant.Enriched, len(restaurants))
		for i := range restaurants {
			out[i] = restaurant.Enrich(restaurants[i])
		}
		return out
	}

	if maxDistanceKm <= 0 {
		maxDistanceKm = DefaultMaxDistanceKm
	}

	out := make([]restaurant.Enriched, 0, len(restaurants))
	for i := range restaurants {
		loc := restaurants[i].Location()
		if loc == nil {
			continue
		}
		d := geo.Between(*origin, loc.Point)
		if d > maxDistanceKm {
			continue
		}
		out = append(out, restaurant.Enrich(restaurants[i]).WithDistance(d))
	}

	sort.SliceStable(out, func(a, b int) bool {
		return *out[a].DistanceKm() < *out[b].DistanceKm()
	})
	return out
}
