// Package poller periodically turns the selected lines' arrivals into map markers.
package poller

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/pool"

	"busmap.londonbus.dev/internal/geo"
	"busmap.londonbus.dev/internal/geocode"
	"busmap.londonbus.dev/internal/metrics"
	"busmap.londonbus.dev/internal/models"
	"busmap.londonbus.dev/internal/report"
	"busmap.londonbus.dev/internal/screen"
	"busmap.londonbus.dev/internal/utils"
)

const DefaultInterval = 60 * time.Second

// ArrivalSource returns live arrivals for one line.
type ArrivalSource interface {
	Arrivals(ctx context.Context, lineID string) ([]models.ArrivalRecord, error)
}

// Geocoder resolves a station name. A zero Result with a nil error means "not found".
type Geocoder interface {
	Lookup(ctx context.Context, station string) (geocode.Result, error)
}

// Poller runs polling cycles on a fixed interval and publishes their markers to the store.
type Poller struct {
	Arrivals ArrivalSource
	Geocoder Geocoder
	Store    *screen.Store
	Interval time.Duration
	Workers  int
	Bounds   geo.BoundingBox
	Logger   *slog.Logger
}

func New(arrivals ArrivalSource, geocoder Geocoder, store *screen.Store, interval time.Duration, workers int, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if workers < 1 {
		workers = 1
	}
	return &Poller{
		Arrivals: arrivals,
		Geocoder: geocoder,
		Store:    store,
		Interval: interval,
		Workers:  workers,
		Bounds:   geo.LondonBoundingBox,
		Logger:   logger,
	}
}

// Run polls until ctx is done. A cycle starts immediately and then every
// Interval. A selection change cancels the cycle in flight, starts a new
// one and restarts the interval. A tick that lands while a cycle is still
// running is skipped. Run returns only after every cycle it started,
// cancelled ones included, has finished.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	var cycles conc.WaitGroup
	cycleCtx, cancel := context.WithCancel(ctx)
	done := p.start(cycleCtx, &cycles)

	for {
		select {
		case <-ctx.Done():
			cancel()
			cycles.Wait()
			p.Logger.Info("Stopping arrival poller")
			return

		case <-p.Store.SelectionChanged():
			cancel()
			cycleCtx, cancel = context.WithCancel(ctx)
			ticker.Reset(p.Interval)
			done = p.start(cycleCtx, &cycles)

		case <-ticker.C:
			select {
			case <-done:
				done = p.start(cycleCtx, &cycles)
			default:
				p.Logger.Warn("Skipping poll tick, previous cycle still running")
			}
		}
	}
}

func (p *Poller) start(ctx context.Context, cycles *conc.WaitGroup) <-chan struct{} {
	done := make(chan struct{})
	cycles.Go(func() {
		defer close(done)
		p.RunCycle(ctx)
	})
	return done
}

// RunCycle performs one full pass over the current selection and publishes
// the resulting markers at the end. Failures are published as they happen
// and never stop the rest of the cycle.
func (p *Poller) RunCycle(ctx context.Context) {
	state := p.Store.Snapshot()
	c := &cycle{
		id:         uuid.NewString(),
		generation: state.Generation,
		started:    time.Now(),
		logger:     p.Logger.With("generation", state.Generation),
	}
	c.logger = c.logger.With("cycle_id", c.id)

	if len(state.Selected) == 0 {
		p.Store.Dispatch(screen.CyclePublished{Generation: c.generation, Markers: []models.Marker{}})
		metrics.ObserveCycle(metrics.OutcomeEmpty, c.started)
		return
	}

	stations := p.fetchStations(ctx, c, state.Selected)
	results := p.geocodeStations(ctx, c, uniqueStations(stations))

	markers := make([]models.Marker, 0, len(stations))
	for _, name := range stations {
		r := results[name]
		if !p.Bounds.Admits(r.Latitude, r.Longitude) {
			if r.Found() {
				metrics.MarkersRejected.Inc()
				c.logger.Debug("Discarding coordinate outside London", "station", name, "lat", *r.Latitude, "lon", *r.Longitude)
			}
			continue
		}
		markers = append(markers, models.Marker{Latitude: *r.Latitude, Longitude: *r.Longitude})
	}

	if ctx.Err() != nil {
		metrics.ObserveCycle(metrics.OutcomeStale, c.started)
		c.logger.Info("Polling cycle cancelled", "reason", ctx.Err())
		return
	}

	failures := int(c.failures.Load())
	p.Store.Dispatch(screen.CyclePublished{
		Generation: c.generation,
		Markers:    markers,
		Fetched:    true,
		Failures:   failures,
	})

	outcome := metrics.OutcomePublished
	if failures > 0 {
		outcome = metrics.OutcomeFailed
	}
	metrics.ObserveCycle(outcome, c.started)
	c.logger.Info("Published markers", "lines", len(state.Selected), "arrivals", len(stations), "markers", len(markers), "failures", failures, "duration", time.Since(c.started))
}

type cycle struct {
	id         string
	generation uint64
	started    time.Time
	failures   atomic.Int32
	logger     *slog.Logger
}

// fail records one failure of the cycle and publishes its banner right away.
func (p *Poller) fail(ctx context.Context, c *cycle, err error, message string, tags map[string]string) {
	if ctx.Err() != nil {
		return
	}
	c.failures.Add(1)
	p.Store.Dispatch(screen.FetchFailed{Generation: c.generation, Message: message})
	report.ReportCycleError(err, c.id, c.generation, tags)
}

// fetchStations returns the station name of every arrival, lines in selection order.
func (p *Poller) fetchStations(ctx context.Context, c *cycle, lineIDs []string) []string {
	var stations []string
	for _, lineID := range lineIDs {
		if ctx.Err() != nil {
			return stations
		}
		arrivals, err := p.Arrivals.Arrivals(ctx, lineID)
		if err != nil {
			c.logger.Error("Failed to fetch arrivals", "line_id", lineID, "error", err)
			p.fail(ctx, c, err, screen.FetchFailureMessage(err), utils.MakeMap("line_id", lineID))
			continue
		}
		for _, a := range arrivals {
			stations = append(stations, a.StationName)
		}
	}
	return stations
}

// geocodeStations resolves each distinct station once on a bounded pool of workers.
func (p *Poller) geocodeStations(ctx context.Context, c *cycle, stations []string) map[string]geocode.Result {
	results := make([]geocode.Result, len(stations))

	wp := pool.New().WithMaxGoroutines(p.Workers)
	for i, name := range stations {
		wp.Go(func() {
			if ctx.Err() != nil {
				return
			}
			res, err := p.Geocoder.Lookup(ctx, name)
			if err != nil {
				c.logger.Warn("Failed to geocode station", "station", name, "error", err)
				p.fail(ctx, c, err, screen.GeocodeFailureMessage(err), utils.MakeMap("station", name))
				return
			}
			results[i] = res
		})
	}
	wp.Wait()

	byName := make(map[string]geocode.Result, len(stations))
	for i, name := range stations {
		byName[name] = results[i]
	}
	return byName
}

func uniqueStations(stations []string) []string {
	seen := make(map[string]struct{}, len(stations))
	out := make([]string, 0, len(stations))
	for _, s := range stations {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
