package chi

import (
	"github.com/kailas-cloud/platefinder/internal/domain/restaurant"
	"github.com/kailas-cloud/platefinder/internal/domain/search/page"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

type locationDTO struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
	Locality  string  `json:"locality,omitempty"`
	City      string  `json:"city,omitempty"`
}

type ratingDTO struct {
	AggregateRating float64 `json:"aggregate_rating"`
	RatingText      string  `json:"rating_text,omitempty"`
	Votes           int     `json:"votes"`
}

// restaurantSummary is the projection returned by list endpoints.
type restaurantSummary struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Cuisines      string       `json:"cuisines"`
	Location      *locationDTO `json:"location,omitempty"`
	UserRating    *ratingDTO   `json:"user_rating,omitempty"`
	FeaturedImage string       `json:"featured_image,omitempty"`
	Distance      *float64     `json:"distance,omitempty"`
}

// restaurantDetail is the full record.
type restaurantDetail struct {
	ID                string       `json:"id"`
	Name              string       `json:"name"`
	Cuisines          string       `json:"cuisines"`
	Location          *locationDTO `json:"location,omitempty"`
	UserRating        *ratingDTO   `json:"user_rating,omitempty"`
	PriceRange        int          `json:"price_range"`
	FeaturedImage     string       `json:"featured_image,omitempty"`
	Thumb             string       `json:"thumb,omitempty"`
	URL               string       `json:"url,omitempty"`
	MenuURL           string       `json:"menu_url,omitempty"`
	Currency          string       `json:"currency,omitempty"`
	AverageCostForTwo int          `json:"average_cost_for_two,omitempty"`
}

type pageResponse struct {
	TotalResults int                 `json:"total_results"`
	CurrentPage  int                 `json:"current_page"`
	TotalPages   int                 `json:"total_pages"`
	Data         []restaurantSummary `json:"data"`
}

type imageMatchResponse struct {
	Success     bool               `json:"success"`
	SearchTags  []string           `json:"searchTags"`
	Result      []restaurantDetail `json:"result"`
	TotalPages  int                `json:"totalPages"`
	CurrentPage int                `json:"currentPage"`
}

type imageMessageResponse struct {
	Success    bool     `json:"success"`
	SearchTags []string `json:"searchTags"`
	Message    string   `json:"message"`
}

type imageErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func locationToDTO(l *restaurant.Location) *locationDTO {
	if l == nil {
		return nil
	}
	return &locationDTO{
		Latitude:  l.Point.Latitude,
		Longitude: l.Point.Longitude,
		Address:   l.Address,
		Locality:  l.Locality,
		City:      l.City,
	}
}

func ratingToDTO(r *restaurant.Rating) *ratingDTO {
	if r == nil {
		return nil
	}
	return &ratingDTO{
		AggregateRating: r.Aggregate,
		RatingText:      r.Text,
		Votes:           r.Votes,
	}
}

func summaryToDTO(r *restaurant.Restaurant) restaurantSummary {
	return restaurantSummary{
		ID:            r.ID(),
		Name:          r.Name(),
		Cuisines:      r.Cuisines(),
		Location:      locationToDTO(r.Location()),
		UserRating:    ratingToDTO(r.Rating()),
		FeaturedImage: r.FeaturedImage(),
	}
}

func enrichedToDTO(e *restaurant.Enriched) restaurantSummary {
	s := summaryToDTO(&e.Restaurant)
	s.Distance = e.DistanceKm()
	return s
}

func detailToDTO(r *restaurant.Restaurant) restaurantDetail {
	d := r.Details()
	return restaurantDetail{
		ID:                r.ID(),
		Name:              r.Name(),
		Cuisines:          r.Cuisines(),
		Location:          locationToDTO(r.Location()),
		UserRating:        ratingToDTO(r.Rating()),
		PriceRange:        r.PriceRange(),
		FeaturedImage:     r.FeaturedImage(),
		Thumb:             d.Thumb,
		URL:               d.URL,
		MenuURL:           d.MenuURL,
		Currency:          d.Currency,
		AverageCostForTwo: d.AverageCostForTwo,
	}
}

func enrichedPageToDTO(p *page.Page[restaurant.Enriched]) pageResponse {
	data := make([]restaurantSummary, len(p.Items))
	for i := range p.Items {
		data[i] = enrichedToDTO(&p.Items[i])
	}
	return pageResponse{
		TotalResults: p.TotalResults,
		CurrentPage:  p.CurrentPage,
		TotalPages:   p.TotalPages,
		Data:         data,
	}
}

func restaurantPageToDTO(p *page.Page[restaurant.Restaurant]) pageResponse {
	data := make([]restaurantSummary, len(p.Items))
	for i := range p.Items {
		data[i] = summaryToDTO(&p.Items[i])
	}
	return pageResponse{
		TotalResults: p.TotalResults,
		CurrentPage:  p.CurrentPage,
		TotalPages:   p.TotalPages,
		Data:         data,
	}
}
