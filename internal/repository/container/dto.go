package container

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kailas-cloud/platefinder/internal/domain/geo"
	"github.com/kailas-cloud/platefinder/internal/domain/restaurant"
)

// containerDTO is the stored document: one container wrapping many entries.
type containerDTO struct {
	ID          flexString `json:"id"`
	Restaurants []entryDTO `json:"restaurants"`
}

type entryDTO struct {
	Restaurant restaurantDTO `json:"restaurant"`
}

type restaurantDTO struct {
	ID                flexString   `json:"id"`
	Name              string       `json:"name"`
	Cuisines          string       `json:"cuisines"`
	Location          *locationDTO `json:"location"`
	UserRating        *ratingDTO   `json:"user_rating"`
	PriceRange        flexNumber   `json:"price_range"`
	FeaturedImage     string       `json:"featured_image"`
	Thumb             string       `json:"thumb"`
	URL               string       `json:"url"`
	MenuURL           string       `json:"menu_url"`
	Currency          string       `json:"currency"`
	AverageCostForTwo flexNumber   `json:"average_cost_for_two"`
}

type locationDTO struct {
	Latitude  flexNumber `json:"latitude"`
	Longitude flexNumber `json:"longitude"`
	Address   string     `json:"address"`
	Locality  string     `json:"locality"`
	City      string     `json:"city"`
}

type ratingDTO struct {
	AggregateRating flexNumber `json:"aggregate_rating"`
	RatingText      string     `json:"rating_text"`
	Votes           flexNumber `json:"votes"`
}

// flexNumber accepts a JSON number or a numeric string.
type flexNumber struct {
	raw any
}

func (n *flexNumber) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		n.raw = nil
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	n.raw = v
	return nil
}

// Float reports the value and whether it is present and numeric.
func (n flexNumber) Float() (float64, bool) {
	if n.raw == nil {
		return 0, false
	}
	return geo.ToFloat(n.raw)
}

// Int truncates the value toward zero; non-numeric values yield 0.
func (n flexNumber) Int() int {
	f, ok := n.Float()
	if !ok {
		return 0
	}
	return int(f)
}

// flexString accepts a JSON string or number.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*s = flexString(num.String())
	return nil
}

// decodeContainer parses one stored document. fallbackID is used when the
// document carries no id of its own.
func decodeContainer(fallbackID string, data []byte) (restaurant.Container, error) {
	var dto containerDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return restaurant.Container{}, fmt.Errorf("decode container %s: %w", fallbackID, err)
	}
	return dto.toDomain(fallbackID), nil
}

func (c *containerDTO) toDomain(fallbackID string) restaurant.Container {
	id := strings.TrimSpace(string(c.ID))
	if id == "" {
		id = fallbackID
	}
	out := restaurant.Container{
		ID:          id,
		Restaurants: make([]restaurant.Restaurant, 0, len(c.Restaurants)),
	}
	for i := range c.Restaurants {
		out.Restaurants = append(out.Restaurants, c.Restaurants[i].Restaurant.toDomain())
	}
	return out
}

func (r *restaurantDTO) toDomain() restaurant.Restaurant {
	return restaurant.Reconstruct(
		string(r.ID), r.Name, r.Cuisines,
		r.Location.toDomain(), r.UserRating.toDomain(),
		r.PriceRange.Int(), r.FeaturedImage,
		restaurant.Details{
			URL:               r.URL,
			Thumb:             r.Thumb,
			MenuURL:           r.MenuURL,
			Currency:          r.Currency,
			AverageCostForTwo: r.AverageCostForTwo.Int(),
		},
	)
}

// toDomain drops the location entirely when either coordinate is not numeric.
func (l *locationDTO) toDomain() *restaurant.Location {
	if l == nil {
		return nil
	}
	lat, ok := l.Latitude.Float()
	if !ok {
		return nil
	}
	lon, ok := l.Longitude.Float()
	if !ok {
		return nil
	}
	return &restaurant.Location{
		Point:    geo.Point{Latitude: lat, Longitude: lon},
		Address:  l.Address,
		Locality: l.Locality,
		City:     l.City,
	}
}

func (r *ratingDTO) toDomain() *restaurant.Rating {
	if r == nil {
		return nil
	}
	agg, ok := r.AggregateRating.Float()
	if !ok {
		return nil
	}
	return &restaurant.Rating{
		Aggregate: agg,
		Text:      r.RatingText,
		Votes:     r.Votes.Int(),
	}
}
