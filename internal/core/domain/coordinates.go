package domain

import (
	"fmt"
	"math"
)

// Coordinates represents a geographic point.
type Coordinates struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// ValidCoordinates rejects NaN/Inf, out-of-range values and the 0,0 null island
// that providers emit when they have no fix.
func ValidCoordinates(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return false
	}
	if lat == 0 && lng == 0 {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// Round4 rounds a coordinate to 4 decimal places (~11 m).
func Round4(v float64) float64 {
	r := math.Round(v*1e4) / 1e4
	if r == 0 {
		return 0 // drop negative zero so keys stay stable
	}
	return r
}

// GridKey is the rounded "lat,lng" cell a coordinate falls into.
func GridKey(lat, lng float64) string {
	return fmt.Sprintf("%.4f,%.4f", Round4(lat), Round4(lng))
}
