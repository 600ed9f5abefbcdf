package screen

import "busmap.londonbus.dev/internal/models"

// Action is a state transition request handled by Reduce.
type Action interface {
	action()
}

// CatalogLoaded installs the line catalog and clears any error banner.
type CatalogLoaded struct {
	Lines []models.BusLine
}

// CatalogFailed records a failed catalog fetch; the catalog stays empty.
type CatalogFailed struct {
	Message string
}

// LineToggled flips the selection of one line.
type LineToggled struct {
	LineID string
}

// FixedPointSet moves the reference point. Markers are not refetched.
type FixedPointSet struct {
	Point models.FixedPoint
}

// CyclePublished replaces the markers with the result of one polling cycle.
type CyclePublished struct {
	Generation uint64
	Markers    []models.Marker
	// Fetched is false for a cycle that had no lines to fetch. Such a cycle
	// says nothing about upstream health and leaves the banner alone.
	Fetched bool
	// Failures counts the fetches of the cycle that set an error.
	Failures int
}

// FetchFailed surfaces one failure of a polling cycle immediately.
type FetchFailed struct {
	Generation uint64
	Message    string
}

// ViewToggled switches between the line list and the map.
type ViewToggled struct{}

func (CatalogLoaded) action()  {}
func (CatalogFailed) action()  {}
func (LineToggled) action()    {}
func (FixedPointSet) action()  {}
func (CyclePublished) action() {}
func (FetchFailed) action()    {}
func (ViewToggled) action()    {}
