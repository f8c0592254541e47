package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/platefinder/internal/domain"
	"github.com/kailas-cloud/platefinder/internal/domain/restaurant"
)

// MaxRating is the upper bound of the aggregate rating scale.
const MaxRating = 5.0

// SearchFilters are the user-supplied structured filters of an image search.
type SearchFilters struct {
	priceRange *[2]int
	minRating  *float64
}

// ParseSearchFilters parses raw query values. Empty strings mean "absent".
// priceRange is "low,high" (inclusive); rating is a minimum aggregate rating.
func ParseSearchFilters(priceRange, rating string) (SearchFilters, error) {
	var f SearchFilters

	if strings.TrimSpace(priceRange) != "" {
		pr, err := parsePriceRange(priceRange)
		if err != nil {
			return SearchFilters{}, err
		}
		f.priceRange = &pr
	}

	if strings.TrimSpace(rating) != "" {
		r, err := strconv.ParseFloat(strings.TrimSpace(rating), 64)
		if err != nil {
			return SearchFilters{}, domain.NewInvalidArgument("rating", "must be a number")
		}
		if r < 0 || r > MaxRating {
			return SearchFilters{}, domain.NewInvalidArgument("rating",
				fmt.Sprintf("must be between 0 and %g", MaxRating))
		}
		f.minRating = &r
	}

	return f, nil
}

// NewSearchFilters creates filters from already-typed values (nil = absent).
func NewSearchFilters(priceRange *[2]int, minRating *float64) SearchFilters {
	return SearchFilters{priceRange: priceRange, minRating: minRating}
}

func parsePriceRange(raw string) ([2]int, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return [2]int{}, domain.NewInvalidArgument("priceRange",
			fmt.Sprintf("expected two comma-separated values, got %d", len(parts)))
	}
	var out [2]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return [2]int{}, domain.NewInvalidArgument("priceRange", fmt.Sprintf("%q is not an integer", p))
		}
		out[i] = v
	}
	if out[0] > out[1] {
		return [2]int{}, domain.NewInvalidArgument("priceRange", "low bound exceeds high bound")
	}
	return out, nil
}

// PriceRange returns the inclusive price tier bounds, nil when absent.
func (f SearchFilters) PriceRange() *[2]int { return f.priceRange }

// MinRating returns the minimum aggregate rating, nil when absent.
func (f SearchFilters) MinRating() *float64 { return f.minRating }

// IsEmpty reports whether no structured filter was supplied.
func (f SearchFilters) IsEmpty() bool {
	return f.priceRange == nil && f.minRating == nil
}

// Conditions translates the filters into conjunctive range conditions,
// omitting clauses for absent filters.
func (f SearchFilters) Conditions() []Condition {
	var out []Condition

	if f.priceRange != nil {
		low := float64(f.priceRange[0])
		high := float64(f.priceRange[1])
		r := Range{gte: &low, lte: &high}
		out = append(out, Condition{key: restaurant.FieldPriceRange, rangeExpr: &r})
	}

	if f.minRating != nil {
		floor := *f.minRating
		r := Range{gte: &floor}
		out = append(out, Condition{key: restaurant.FieldAggregateRating, rangeExpr: &r})
	}

	return out
}

// Combine builds AND(structured filters, OR(tag conditions)). Structured
// filters always narrow; tag conditions broaden within that narrowing.
func Combine(f SearchFilters, tagConditions []Condition) (Expression, error) {
	return NewExpression(f.Conditions(), tagConditions, nil)
}
