package restaurant

import (
	"strings"

	"github.com/kailas-cloud/platefinder/internal/domain/geo"
)

// Field names addressable by search predicates.
const (
	FieldName            = "name"
	FieldCuisines        = "cuisines"
	FieldPriceRange      = "price_range"
	FieldAggregateRating = "user_rating.aggregate_rating"
)

// Location is where a restaurant sits. Coordinates are always numeric;
// records with unparseable coordinates carry no Location at all.
type Location struct {
	Point    geo.Point
	Address  string
	Locality string
	City     string
}

// Rating is the aggregated user rating.
type Rating struct {
	Aggregate float64
	Text      string
	Votes     int
}

// Details holds descriptive fields shown on the detail view only.
type Details struct {
	URL               string
	Thumb             string
	MenuURL           string
	Currency          string
	AverageCostForTwo int
}

// Restaurant is an immutable snapshot of a stored restaurant entry.
type Restaurant struct {
	id            string
	name          string
	cuisines      string
	location      *Location
	rating        *Rating
	priceRange    int
	featuredImage string
	details       Details
}

// Reconstruct creates a Restaurant from storage without validation.
func Reconstruct(
	id, name, cuisines string,
	location *Location, rating *Rating,
	priceRange int, featuredImage string,
	details Details,
) Restaurant {
	return Restaurant{
		id: id, name: name, cuisines: cuisines,
		location: location, rating: rating,
		priceRange: priceRange, featuredImage: featuredImage,
		details: details,
	}
}

// ID returns the opaque external identifier.
func (r *Restaurant) ID() string { return r.id }

// Name returns the display name.
func (r *Restaurant) Name() string { return r.name }

// Cuisines returns the comma-delimited cuisine list.
func (r *Restaurant) Cuisines() string { return r.cuisines }

// Location returns the location, nil when unknown.
func (r *Restaurant) Location() *Location { return r.location }

// Rating returns the user rating, nil when unrated.
func (r *Restaurant) Rating() *Rating { return r.rating }

// PriceRange returns the price tier.
func (r *Restaurant) PriceRange() int { return r.priceRange }

// FeaturedImage returns the featured image URL (may be empty).
func (r *Restaurant) FeaturedImage() string { return r.featuredImage }

// Details returns the descriptive detail fields.
func (r *Restaurant) Details() Details { return r.details }

// Text returns a text field by predicate field name.
func (r *Restaurant) Text(field string) (string, bool) {
	switch field {
	case FieldName:
		return r.name, true
	case FieldCuisines:
		return r.cuisines, true
	default:
		return "", false
	}
}

// Numeric returns a numeric field by predicate field name.
// Reports false when the field is unknown or the record lacks it.
func (r *Restaurant) Numeric(field string) (float64, bool) {
	switch field {
	case FieldPriceRange:
		return float64(r.priceRange), true
	case FieldAggregateRating:
		if r.rating == nil {
			return 0, false
		}
		return r.rating.Aggregate, true
	default:
		return 0, false
	}
}

// ServesCuisine reports whether the cuisine list contains keyword as a
// case-insensitive substring.
func (r *Restaurant) ServesCuisine(keyword string) bool {
	return ContainsFold(r.cuisines, keyword)
}

// ContainsFold reports whether substr is within s, ignoring case.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// Container is one storage document holding many restaurant entries.
type Container struct {
	ID          string
	Restaurants []Restaurant
}

// Flatten unwinds containers into a single sequence, preserving container
// order and then nested order.
func Flatten(containers []Container) []Restaurant {
	n := 0
	for i := range containers {
		n += len(containers[i].Restaurants)
	}
	out := make([]Restaurant, 0, n)
	for i := range containers {
		out = append(out, containers[i].Restaurants...)
	}
	return out
}

// Enriched is a restaurant with a per-request computed distance.
type Enriched struct {
	Restaurant
	distanceKm *float64
}

// Enrich wraps a restaurant without a distance.
func Enrich(r Restaurant) Enriched {
	return Enriched{Restaurant: r}
}

// WithDistance returns a copy carrying distanceKm.
func (e Enriched) WithDistance(km float64) Enriched {
	e.distanceKm = &km
	return e
}

// DistanceKm returns the distance to the request origin, nil when unknown.
func (e *Enriched) DistanceKm() *float64 { return e.distanceKm }
