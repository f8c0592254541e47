package cuisine

import (
	"strings"

	"github.com/kailas-cloud/platefinder/internal/domain"
	"github.com/kailas-cloud/platefinder/internal/domain/restaurant"
)

// Match flattens containers one level and keeps restaurants whose cuisine
// list contains keyword as a case-insensitive substring. The keyword is
// matched literally, so "ital" matches "Italian". Output keeps container
// order, then nested order.
func Match(containers []restaurant.Container, keyword string) ([]restaurant.Restaurant, error) {
	kw := strings.TrimSpace(keyword)
	if kw == "" {
		return nil, domain.NewInvalidArgument("cuisine", "is required")
	}

	var out []restaurant.Restaurant
	for i := range containers {
		for j := range containers[i].Restaurants {
			r := containers[i].Restaurants[j]
			if r.ServesCuisine(kw) {
				out = append(out, r)
			}
		}
	}
	return out, nil
}
