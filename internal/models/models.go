package models

// BusLine is a selectable transit line from the TfL line catalog.
// It is immutable once fetched.
type BusLine struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Coordinate is a WGS 84 latitude/longitude pair in degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// FixedPoint is the user-chosen reference coordinate that marker proximity is measured against.
type FixedPoint = Coordinate

// DefaultFixedPoint is central London, the fixed point before the user taps the map.
var DefaultFixedPoint = FixedPoint{Latitude: 51.5074, Longitude: -0.1278}

// Marker is a geocoded, geofence-passed bus location candidate derived from one arrival.
type Marker struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Coordinate returns the marker position as a Coordinate.
func (m Marker) Coordinate() Coordinate {
	return Coordinate{Latitude: m.Latitude, Longitude: m.Longitude}
}

// ArrivalRecord is the part of a TfL arrival prediction the poller consumes.
// Only StationName is used to derive a marker; the rest is carried for logging.
type ArrivalRecord struct {
	ID              string `json:"id"`
	VehicleID       string `json:"vehicleId"`
	NaptanID        string `json:"naptanId"`
	StationName     string `json:"stationName"`
	LineID          string `json:"lineId"`
	LineName        string `json:"lineName"`
	DestinationName string `json:"destinationName"`
	TimeToStation   int    `json:"timeToStation"`
	ExpectedArrival string `json:"expectedArrival"`
}

// Tier is the three-level proximity severity used for marker coloring.
type Tier string

const (
	TierNear   Tier = "near"
	TierMedium Tier = "medium"
	TierFar    Tier = "far"
)

// Color returns the pin color rendered for the tier.
func (t Tier) Color() string {
	switch t {
	case TierNear:
		return "green"
	case TierMedium:
		return "orange"
	default:
		return "red"
	}
}

// FixedPointColor is the pin color of the fixed point, distinct from every tier color.
const FixedPointColor = "blue"
