package chi

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/platefinder/internal/domain"
	"github.com/kailas-cloud/platefinder/internal/domain/geo"
)

// cuisineParams are the query parameters of GET /restaurants-by-cuisine.
type cuisineParams struct {
	Cuisine     string
	Page        *int
	Limit       *int
	Latitude    *float64
	Longitude   *float64
	MaxDistance *float64
}

// pageParams are the pagination query parameters shared by list endpoints.
type pageParams struct {
	Page  *int
	Limit *int
}

// imageParams are the query parameters of POST /api/analyze-image.
type imageParams struct {
	pageParams
	PriceRange *string
	Rating     *string
}

// bindQuery binds a single form-style query parameter into dest. Binding
// failures surface as InvalidArgumentError naming the parameter.
func bindQuery(q url.Values, name string, required bool, dest any) error {
	if err := runtime.BindQueryParameter("form", true, required, name, q, dest); err != nil {
		if required && q.Get(name) == "" {
			return domain.NewInvalidArgument(name, "is required")
		}
		return domain.NewInvalidArgument(name, "malformed value")
	}
	return nil
}

func bindPageParams(q url.Values) (pageParams, error) {
	var p pageParams
	if err := bindQuery(q, "page", false, &p.Page); err != nil {
		return p, err
	}
	if err := bindQuery(q, "limit", false, &p.Limit); err != nil {
		return p, err
	}
	return p, nil
}

func bindCuisineParams(r *http.Request) (cuisineParams, error) {
	q := r.URL.Query()
	var p cuisineParams

	if err := bindQuery(q, "cuisine", true, &p.Cuisine); err != nil {
		return p, err
	}
	p.Cuisine = strings.TrimSpace(p.Cuisine)
	if p.Cuisine == "" {
		return p, domain.NewInvalidArgument("cuisine", "is required")
	}
	pp, err := bindPageParams(q)
	if err != nil {
		return p, err
	}
	p.Page, p.Limit = pp.Page, pp.Limit

	for _, b := range []struct {
		name string
		dest **float64
	}{
		{"latitude", &p.Latitude},
		{"longitude", &p.Longitude},
		{"maxDistance", &p.MaxDistance},
	} {
		if err := bindQuery(q, b.name, false, b.dest); err != nil {
			return p, err
		}
	}
	return p, nil
}

// origin returns the request origin. A lone latitude or longitude means no
// origin at all.
func (p cuisineParams) origin() (*geo.Point, error) {
	if p.Latitude == nil || p.Longitude == nil {
		return nil, nil
	}
	if !geo.ValidateCoordinates(*p.Latitude, *p.Longitude) {
		return nil, domain.NewInvalidArgument("latitude/longitude", "out of range")
	}
	return &geo.Point{Latitude: *p.Latitude, Longitude: *p.Longitude}, nil
}

func bindImageParams(r *http.Request) (imageParams, error) {
	q := r.URL.Query()
	var p imageParams

	pp, err := bindPageParams(q)
	if err != nil {
		return p, err
	}
	p.pageParams = pp

	if err := bindQuery(q, "priceRange", false, &p.PriceRange); err != nil {
		return p, err
	}
	if err := bindQuery(q, "rating", false, &p.Rating); err != nil {
		return p, err
	}
	return p, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
