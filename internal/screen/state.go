// Package screen holds the state of the bus map screen and the only code allowed to change it.
package screen

import (
	"slices"

	"busmap.londonbus.dev/internal/geo"
	"busmap.londonbus.dev/internal/models"
)

// View is the panel currently shown on the screen.
type View string

const (
	ViewLines View = "lines"
	ViewMap   View = "map"
)

// State is an immutable snapshot of the screen. Reduce returns a new State
// for every change; slices are never shared between two snapshots.
type State struct {
	Lines         []models.BusLine
	CatalogLoaded bool

	// Selected holds line ids in the order the user checked them.
	Selected []string

	FixedPoint models.FixedPoint

	// Markers is replaced wholesale by each published cycle.
	Markers []models.Marker
	// Distances is index-aligned with Markers, in kilometers from FixedPoint.
	Distances []float64

	ErrorMessage string

	// Generation increments on every selection change. Cycle results
	// tagged with an older generation are discarded.
	Generation uint64

	View View
}

// Initial returns the state of a freshly opened screen.
func Initial(fixed models.FixedPoint) State {
	return State{
		FixedPoint: fixed,
		View:       ViewLines,
	}
}

// IsSelected reports whether lineID is checked.
func (s State) IsSelected(lineID string) bool {
	return slices.Contains(s.Selected, lineID)
}

// HasLine reports whether lineID is part of the loaded catalog.
func (s State) HasLine(lineID string) bool {
	return slices.ContainsFunc(s.Lines, func(l models.BusLine) bool { return l.ID == lineID })
}

// Tiers classifies every marker against the fixed point.
func (s State) Tiers() []models.Tier {
	out := make([]models.Tier, len(s.Distances))
	for i, d := range s.Distances {
		out[i] = geo.Classify(d)
	}
	return out
}

// MarkerView is a marker together with everything a renderer needs to draw it.
type MarkerView struct {
	Latitude   float64     `json:"latitude"`
	Longitude  float64     `json:"longitude"`
	DistanceKm float64     `json:"distance_km"`
	Tier       models.Tier `json:"tier"`
	Color      string      `json:"color"`
	Cell       string      `json:"cell"`
}

// MarkerViews renders the markers in publication order.
func (s State) MarkerViews() []MarkerView {
	out := make([]MarkerView, len(s.Markers))
	for i, m := range s.Markers {
		tier := geo.Classify(s.Distances[i])
		out[i] = MarkerView{
			Latitude:   m.Latitude,
			Longitude:  m.Longitude,
			DistanceKm: s.Distances[i],
			Tier:       tier,
			Color:      tier.Color(),
			Cell:       geo.CellID(m.Latitude, m.Longitude),
		}
	}
	return out
}
