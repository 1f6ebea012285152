// Package geo provides the great-circle distance math used for GPS route
// tracking: the Haversine formula plus route-length helpers.
package geo

import (
	"math"

	"alcyxob/greensteps-app/internal/domain"
)

// EarthRadiusKm is the mean Earth radius in kilometers.
const EarthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance in kilometers between two
// coordinates given in decimal degrees. It is numerically stable for
// near-identical points (returns ~0, never NaN).
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := degreesToRadians(lat1)
	lat2Rad := degreesToRadians(lat2)
	deltaLat := degreesToRadians(lat2 - lat1)
	deltaLon := degreesToRadians(lon2 - lon1)

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	// Clamp against floating point drift pushing a just above 1.
	if a > 1 {
		a = 1
	}
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// RouteDistanceKm sums the consecutive-pair haversine distances of a route.
// Fewer than two points yields 0.
func RouteDistanceKm(route []domain.RoutePoint) float64 {
	if len(route) < 2 {
		return 0
	}
	var total float64
	for i := 1; i < len(route); i++ {
		prev, curr := route[i-1], route[i]
		total += HaversineKm(prev.Latitude, prev.Longitude, curr.Latitude, curr.Longitude)
	}
	return total
}

// DistanceAccumulator incrementally tracks the length of a growing route so
// each new fix costs O(1) instead of re-walking the whole route. The result
// matches RouteDistanceKm over the same points up to floating point rounding.
type DistanceAccumulator struct {
	last    domain.RoutePoint
	hasLast bool
	totalKm float64
}

// Add extends the route with the next fix and returns the updated total.
func (d *DistanceAccumulator) Add(p domain.RoutePoint) float64 {
	if d.hasLast {
		d.totalKm += HaversineKm(d.last.Latitude, d.last.Longitude, p.Latitude, p.Longitude)
	}
	d.last = p
	d.hasLast = true
	return d.totalKm
}

// TotalKm returns the accumulated route length.
func (d *DistanceAccumulator) TotalKm() float64 {
	return d.totalKm
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
