// Package geo holds the great-circle math shared by ingestion and the
// tracking view.
package geo

import (
	"math"
	"time"

	"github.com/medcourier/tracking/internal/core/domain"
)

// EarthRadiusMiles is the mean Earth radius used for all distances.
const EarthRadiusMiles = 3959.0

// MetersPerMile converts metric thresholds into miles.
const MetersPerMile = 1609.344

// DistanceMiles returns the haversine distance between two points in miles.
func DistanceMiles(a, b domain.Coordinates) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)

	h := math.Pow(math.Sin(dLat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dLng/2), 2)
	// Rounding can push h marginally above 1 for antipodal points.
	h = math.Min(1, h)
	return 2 * EarthRadiusMiles * math.Asin(math.Sqrt(h))
}

// ElapsedHours converts the gap between two instants to hours, flooring the
// gap at one second so near-simultaneous reports do not divide by zero.
func ElapsedHours(from, to time.Time) float64 {
	seconds := to.Sub(from).Seconds()
	return math.Max(1, seconds) / 3600
}

// TravelTime returns the time needed to cover miles at mph. ok is false when
// the speed does not allow an estimate.
func TravelTime(miles, mph float64) (d time.Duration, ok bool) {
	if mph <= 0 || math.IsNaN(mph) || math.IsInf(mph, 0) || miles < 0 {
		return 0, false
	}
	hours := miles / mph
	return time.Duration(hours * float64(time.Hour)), true
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
