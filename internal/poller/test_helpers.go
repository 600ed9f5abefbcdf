package poller

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"busmap.londonbus.dev/internal/geocode"
	"busmap.londonbus.dev/internal/models"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeArrivals serves canned arrivals per line. block, when set, holds every
// call until it is closed or the context ends.
type fakeArrivals struct {
	mu       sync.Mutex
	stations map[string][]string
	errs     map[string]error
	calls    []string
	block    chan struct{}
}

func (f *fakeArrivals) Arrivals(ctx context.Context, lineID string) ([]models.ArrivalRecord, error) {
	f.mu.Lock()
	f.calls = append(f.calls, lineID)
	block := f.block
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errs[lineID]; err != nil {
		return nil, err
	}
	var out []models.ArrivalRecord
	for _, s := range f.stations[lineID] {
		out = append(out, models.ArrivalRecord{LineID: lineID, StationName: s})
	}
	return out, nil
}

func (f *fakeArrivals) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fakeGeocoder resolves stations from a fixed table; unknown stations are not found.
type fakeGeocoder struct {
	mu     sync.Mutex
	coords map[string]models.Coordinate
	errs   map[string]error
	calls  map[string]int
}

func (f *fakeGeocoder) Lookup(_ context.Context, station string) (geocode.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[station]++
	if err := f.errs[station]; err != nil {
		return geocode.Result{}, err
	}
	c, ok := f.coords[station]
	if !ok {
		return geocode.Result{}, nil
	}
	lat, lon := c.Latitude, c.Longitude
	return geocode.Result{Latitude: &lat, Longitude: &lon}, nil
}

// slowGeocoder holds its first lookup until release is closed, ignoring
// cancellation the way a cache write in progress would.
type slowGeocoder struct {
	entered  chan struct{}
	release  chan struct{}
	calls    atomic.Int32
	finished atomic.Int32
}

func newSlowGeocoder() *slowGeocoder {
	return &slowGeocoder{entered: make(chan struct{}, 1), release: make(chan struct{})}
}

func (g *slowGeocoder) Lookup(_ context.Context, _ string) (geocode.Result, error) {
	if g.calls.Add(1) == 1 {
		g.entered <- struct{}{}
		<-g.release
	}
	defer g.finished.Add(1)
	lat, lon := 51.5080, -0.1281
	return geocode.Result{Latitude: &lat, Longitude: &lon}, nil
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}
