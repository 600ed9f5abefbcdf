package geo

import (
	"fmt"

	"github.com/golang/geo/s2"
)

// BoundingBox defines the corners of a lat/lon box
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// LondonBoundingBox is the geofence for the London metropolitan area.
var LondonBoundingBox = BoundingBox{
	MinLat: 51.2867602,
	MaxLat: 51.6918741,
	MinLon: -0.510375,
	MaxLon: 0.3340155,
}

// Contains checks whether the given latitude and longitude are within the bounding box.
// Both ends are inclusive.
func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// Admits is the geofence predicate over a possibly absent coordinate pair.
// A geocode that returned nothing has nil coordinates and is always rejected.
func (b BoundingBox) Admits(lat, lon *float64) bool {
	if lat == nil || lon == nil {
		return false
	}
	return b.Contains(*lat, *lon)
}

// IsValidLatLon returns true if the given latitude and longitude values
// fall within the valid geographic coordinate bounds.
//
// Latitude must be between -90 and 90 degrees, and longitude must be
// between -180 and 180 degrees.
func IsValidLatLon(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// earthRadiusInKilometers is the mean Earth radius used by common geodesic
// libraries for kilometer distances (IUGG mean radius).
const earthRadiusInKilometers = 6371.0088

// DistanceKm returns the great-circle distance between two points in kilometers.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * earthRadiusInKilometers
}

// cellLevel 13 cells are roughly 1 km across, a sensible pin clustering grain for a city map.
const cellLevel = 13

// CellID returns a stable S2 cell id for a lat/lon so map clients can cluster nearby pins.
func CellID(lat, lon float64) string {
	ll := s2.LatLngFromDegrees(lat, lon)
	cellID := s2.CellIDFromLatLng(ll).Parent(cellLevel)
	return fmt.Sprintf("s2_%d", uint64(cellID))
}
