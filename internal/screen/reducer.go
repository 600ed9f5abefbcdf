package screen

import (
	"slices"

	"busmap.londonbus.dev/internal/geo"
	"busmap.londonbus.dev/internal/models"
)

// Reduce returns the state that results from applying a to s. It never mutates s.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case CatalogLoaded:
		if s.CatalogLoaded {
			return s
		}
		s.Lines = slices.Clone(a.Lines)
		s.CatalogLoaded = true
		s.ErrorMessage = ""

	case CatalogFailed:
		s.ErrorMessage = a.Message

	case LineToggled:
		if !s.HasLine(a.LineID) {
			return s
		}
		if i := slices.Index(s.Selected, a.LineID); i >= 0 {
			s.Selected = slices.Delete(slices.Clone(s.Selected), i, i+1)
		} else {
			s.Selected = append(slices.Clone(s.Selected), a.LineID)
		}
		s.Generation++

	case FixedPointSet:
		s.FixedPoint = a.Point
		s.Distances = geo.Distances(s.Markers, s.FixedPoint)

	case CyclePublished:
		if a.Generation != s.Generation {
			return s
		}
		s.Markers = slices.Clone(a.Markers)
		if s.Markers == nil {
			s.Markers = []models.Marker{}
		}
		s.Distances = geo.Distances(s.Markers, s.FixedPoint)
		if a.Fetched && a.Failures == 0 {
			s.ErrorMessage = ""
		}

	case FetchFailed:
		if a.Generation != s.Generation {
			return s
		}
		s.ErrorMessage = a.Message

	case ViewToggled:
		if s.View == ViewMap {
			s.View = ViewLines
		} else {
			s.View = ViewMap
		}
	}
	return s
}
