package geo

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// EarthRadiusKm is the mean radius of Earth used for Haversine distance.
const EarthRadiusKm = 6371.0

// Point is a WGS 84 coordinate in degrees.
type Point struct {
	Latitude  float64
	Longitude float64
}

// NewPoint coerces latitude and longitude to a Point.
// Reports false if either value is not numeric.
func NewPoint(lat, lon any) (Point, bool) {
	la, ok := ToFloat(lat)
	if !ok {
		return Point{}, false
	}
	lo, ok := ToFloat(lon)
	if !ok {
		return Point{}, false
	}
	return Point{Latitude: la, Longitude: lo}, true
}

// HaversineKm returns the great-circle distance in kilometers between two
// points specified by latitude and longitude in degrees.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	lat1r := lat1 * math.Pi / 180
	lat2r := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// Between returns the distance in kilometers between two points.
func Between(a, b Point) float64 {
	return HaversineKm(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}

// Distance coerces all four coordinates to float64 and returns the
// great-circle distance in kilometers. Reports false when any input fails
// numeric coercion; callers treat that as "distance unknown".
func Distance(lat1, lon1, lat2, lon2 any) (float64, bool) {
	a, ok := NewPoint(lat1, lon1)
	if !ok {
		return 0, false
	}
	b, ok := NewPoint(lat2, lon2)
	if !ok {
		return 0, false
	}
	return Between(a, b), true
}

// ToFloat coerces numbers, numeric strings and json.Number to float64.
// NaN and infinities are rejected.
func ToFloat(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ValidateCoordinates checks that latitude is in [-90,90] and longitude in [-180,180].
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
