// Package geo estimates delivery distances between storefronts and customers.
package geo

import "math"

const (
	// EarthRadiusKm is the mean Earth radius used by the haversine formula.
	EarthRadiusKm = 6371.0
	// FallbackDistanceKm stands in when either endpoint has no coordinates.
	FallbackDistanceKm = 3.0
)

// Point is a latitude/longitude pair in decimal degrees.
type Point struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lng float64 `json:"lng" validate:"min=-180,max=180"`
}

// Valid reports whether p is a finite coordinate on the globe.
func (p Point) Valid() bool {
	return !math.IsNaN(p.Lat) && !math.IsNaN(p.Lng) &&
		p.Lat >= -90 && p.Lat <= 90 &&
		p.Lng >= -180 && p.Lng <= 180
}

// DistanceKm returns the great-circle distance between a and b, rounded to
// the nearest whole kilometre.
func DistanceKm(a, b Point) float64 {
	return math.Round(haversineKm(a, b))
}

func haversineKm(a, b Point) float64 {
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLng*sinLng
	// Rounding can push h a hair outside [0,1], where Sqrt returns NaN.
	h = math.Min(1, math.Max(0, h))
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Estimate returns DistanceKm when both points are known and valid, and
// fallbackKm otherwise.
func Estimate(origin, destination *Point, fallbackKm float64) float64 {
	if origin == nil || destination == nil || !origin.Valid() || !destination.Valid() {
		return fallbackKm
	}
	return DistanceKm(*origin, *destination)
}
