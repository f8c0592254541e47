package platefinder

import (
	"github.com/kailas-cloud/platefinder/internal/domain/restaurant"
	"github.com/kailas-cloud/platefinder/internal/domain/search/page"
)

// Point is a WGS84 coordinate in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

// Location is where a restaurant sits.
type Location struct {
	Lat      float64
	Lon      float64
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

// Restaurant is a restaurant as returned by the client.
type Restaurant struct {
	ID                string
	Name              string
	Cuisines          string
	Location          *Location // nil when coordinates are unknown
	Rating            *Rating
	PriceRange        int
	FeaturedImage     string
	Thumb             string
	URL               string
	MenuURL           string
	Currency          string
	AverageCostForTwo int
	DistanceKm        *float64 // set by ByCuisine when Near is given
}

// Page is one page of restaurants.
type Page struct {
	Restaurants  []Restaurant
	TotalResults int
	CurrentPage  int
	TotalPages   int
}

// CuisineQuery describes a cuisine search. Zero MaxDistanceKm, Page and
// Limit select the client defaults.
type CuisineQuery struct {
	Cuisine       string
	Near          *Point
	MaxDistanceKm float64
	Page          int
	Limit         int
}

// ImageQuery describes an image search over a local image file.
// PriceRange bounds are inclusive.
type ImageQuery struct {
	ImagePath  string
	PriceRange *[2]int
	MinRating  *float64
	Page       int
	Limit      int
}

// ImageResult is the outcome of an image search. Matched is false when no
// restaurant matched the image labels.
type ImageResult struct {
	Tags    []string
	Matched bool
	Page    Page
}

// --- converters ---

func fromDomain(r *restaurant.Restaurant) Restaurant {
	d := r.Details()
	out := Restaurant{
		ID:                r.ID(),
		Name:              r.Name(),
		Cuisines:          r.Cuisines(),
		PriceRange:        r.PriceRange(),
		FeaturedImage:     r.FeaturedImage(),
		Thumb:             d.Thumb,
		URL:               d.URL,
		MenuURL:           d.MenuURL,
		Currency:          d.Currency,
		AverageCostForTwo: d.AverageCostForTwo,
	}
	if loc := r.Location(); loc != nil {
		out.Location = &Location{
			Lat:      loc.Point.Latitude,
			Lon:      loc.Point.Longitude,
			Address:  loc.Address,
			Locality: loc.Locality,
			City:     loc.City,
		}
	}
	if rt := r.Rating(); rt != nil {
		out.Rating = &Rating{Aggregate: rt.Aggregate, Text: rt.Text, Votes: rt.Votes}
	}
	return out
}

func fromEnriched(e *restaurant.Enriched) Restaurant {
	out := fromDomain(&e.Restaurant)
	if d := e.DistanceKm(); d != nil {
		km := *d
		out.DistanceKm = &km
	}
	return out
}

func restaurantPage(p page.Page[restaurant.Restaurant]) Page {
	out := Page{
		Restaurants:  make([]Restaurant, len(p.Items)),
		TotalResults: p.TotalResults,
		CurrentPage:  p.CurrentPage,
		TotalPages:   p.TotalPages,
	}
	for i := range p.Items {
		out.Restaurants[i] = fromDomain(&p.Items[i])
	}
	return out
}

func enrichedPage(p page.Page[restaurant.Enriched]) Page {
	out := Page{
		Restaurants:  make([]Restaurant, len(p.Items)),
		TotalResults: p.TotalResults,
		CurrentPage:  p.CurrentPage,
		TotalPages:   p.TotalPages,
	}
	for i := range p.Items {
		out.Restaurants[i] = fromEnriched(&p.Items[i])
	}
	return out
}
