package screen

import (
	"slices"
	"sync"

	"busmap.londonbus.dev/internal/metrics"
)

// Store owns the current State and serializes every transition.
type Store struct {
	mu        sync.RWMutex
	state     State
	selection chan struct{}
}

// NewStore creates a store holding initial.
func NewStore(initial State) *Store {
	return &Store{
		state:     initial,
		selection: make(chan struct{}, 1),
	}
}

// Dispatch applies a and returns the resulting state. Gauges derived from
// the state are written under the same lock, so they always match the last
// transition.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	prev := s.state
	next := Reduce(prev, a)
	s.state = next

	selectionChanged := !slices.Equal(prev.Selected, next.Selected)
	if selectionChanged {
		metrics.SelectedLines.Set(float64(len(next.Selected)))
	}
	if !slices.Equal(prev.Distances, next.Distances) || len(prev.Markers) != len(next.Markers) {
		metrics.SetMarkerTiers(next.Tiers())
	}
	s.mu.Unlock()

	if selectionChanged {
		// Coalesce: a pending signal already covers this change.
		select {
		case s.selection <- struct{}{}:
		default:
		}
	}
	return next
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SelectionChanged fires after the selected line set changes.
func (s *Store) SelectionChanged() <-chan struct{} {
	return s.selection
}
