package geo

import "busmap.londonbus.dev/internal/models"

// Classify buckets a distance in kilometers into a proximity tier.
// Thresholds are evaluated in order: below 1 km is near, 1 to 3 km inclusive is medium,
// anything above 3 km is far.
func Classify(distanceKm float64) models.Tier {
	switch {
	case distanceKm < 1:
		return models.TierNear
	case distanceKm <= 3:
		return models.TierMedium
	default:
		return models.TierFar
	}
}

// Distances computes the great-circle distance from every marker to the fixed point.
// The result is index-aligned with markers.
func Distances(markers []models.Marker, fixed models.FixedPoint) []float64 {
	out := make([]float64, len(markers))
	for i, m := range markers {
		out[i] = DistanceKm(m.Latitude, m.Longitude, fixed.Latitude, fixed.Longitude)
	}
	return out
}
