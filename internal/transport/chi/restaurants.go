package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	searchuc "github.com/kailas-cloud/platefinder/internal/usecase/search"
)

// RestaurantsByCuisine handles GET /restaurants-by-cuisine.
func (s *Server) RestaurantsByCuisine(w http.ResponseWriter, r *http.Request) {
	params, err := bindCuisineParams(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	origin, err := params.origin()
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	p, err := s.search.ByCuisine(r.Context(), searchuc.CuisineQuery{
		Cuisine:       params.Cuisine,
		Origin:        origin,
		MaxDistanceKm: deref(params.MaxDistance),
		Page:          deref(params.Page),
		Limit:         deref(params.Limit),
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, enrichedPageToDTO(&p))
}

// ListRestaurants handles GET /restaurants.
func (s *Server) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	params, err := bindPageParams(r.URL.Query())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	p, err := s.search.List(r.Context(), deref(params.Page), deref(params.Limit))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, restaurantPageToDTO(&p))
}

// GetRestaurant handles GET /restaurant/{id}.
func (s *Server) GetRestaurant(w http.ResponseWriter, r *http.Request) {
	rest, err := s.search.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, detailToDTO(&rest))
}
