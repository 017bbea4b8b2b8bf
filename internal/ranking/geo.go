package ranking

import (
	"math"

	"github.com/amora-app/discovery/internal/db"
)

const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance between two points in km.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// WithinDistance reports whether candidate is within maxKm of the requester.
// If either side has no coordinates the distance is unknown and the candidate
// passes through rather than being excluded.
func WithinDistance(requester, candidate *db.User, maxKm int) bool {
	if !requester.HasLocation() || !candidate.HasLocation() {
		return true
	}
	dist := HaversineKm(*requester.Latitude, *requester.Longitude, *candidate.Latitude, *candidate.Longitude)
	return dist <= float64(maxKm)
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
