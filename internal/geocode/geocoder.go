// Package geocode resolves London station names to coordinates.
package geocode

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"busmap.londonbus.dev/internal/metrics"
	"busmap.londonbus.dev/internal/models"
	"busmap.londonbus.dev/internal/transport"
	"busmap.londonbus.dev/internal/utils"
)

const upstream = "geocode"

// ErrCoolingDown is returned while the geocoder backs off after a 429.
// It wraps the StatusError that started the cooldown.
var ErrCoolingDown = errors.New("geocoder is cooling down after a rate limit")

// Result is the outcome of one lookup. Both fields are nil when the
// geocoder found no candidate for the query.
type Result struct {
	Latitude  *float64
	Longitude *float64
}

// Found reports whether the lookup produced a coordinate.
func (r Result) Found() bool {
	return r.Latitude != nil && r.Longitude != nil
}

type candidate struct {
	Lat         utils.FlexFloat `json:"lat"`
	Lon         utils.FlexFloat `json:"lon"`
	DisplayName string          `json:"display_name"`
}

// Geocoder looks up station names against a Nominatim-style /search endpoint.
type Geocoder struct {
	BaseURL string
	APIKey  string
	City    string
	HTTP    *http.Client
	Limiter *rate.Limiter
	Cache   Cache
	Backoff *BackoffStore
	Logger  *slog.Logger
}

// Options configures NewGeocoder.
type Options struct {
	BaseURL   string
	APIKey    string
	City      string
	RateLimit float64
	Burst     int
}

// NewGeocoder creates a geocoder that issues at most opts.RateLimit requests per second.
// cache may be nil.
func NewGeocoder(opts Options, httpClient *http.Client, cache Cache, logger *slog.Logger) *Geocoder {
	if opts.Burst < 1 {
		opts.Burst = 1
	}
	limit := rate.Limit(opts.RateLimit)
	if opts.RateLimit <= 0 {
		limit = rate.Inf
	}
	if cache == nil {
		cache = NopCache{}
	}
	return &Geocoder{
		BaseURL: strings.TrimRight(opts.BaseURL, "/"),
		APIKey:  opts.APIKey,
		City:    opts.City,
		HTTP:    httpClient,
		Limiter: rate.NewLimiter(limit, opts.Burst),
		Cache:   cache,
		Backoff: NewBackoffStore(),
		Logger:  logger,
	}
}

// Query builds the free-text query sent for a station.
func (g *Geocoder) Query(station string) string {
	if g.City == "" {
		return station
	}
	return station + ", " + g.City
}

// Lookup resolves station to the first candidate the geocoder returns.
// Cache hits never touch the network or the rate limiter.
func (g *Geocoder) Lookup(ctx context.Context, station string) (Result, error) {
	query := g.Query(station)

	if c, ok, err := g.Cache.Get(ctx, query); err != nil {
		g.Logger.Warn("Geocode cache read failed", "station", station, "error", err)
	} else if ok {
		metrics.GeocodeRequests.WithLabelValues(metrics.GeocodeHit).Inc()
		return resultOf(c), nil
	}

	if cause := g.Backoff.CoolingDown(upstream); cause != nil {
		metrics.GeocodeRequests.WithLabelValues(metrics.GeocodeCooldown).Inc()
		return Result{}, fmt.Errorf("%w: %w", ErrCoolingDown, cause)
	}

	if err := g.Limiter.Wait(ctx); err != nil {
		return Result{}, err
	}

	var candidates []candidate
	if err := transport.GetJSON(ctx, g.HTTP, g.endpoint(query), &candidates); err != nil {
		metrics.GeocodeRequests.WithLabelValues(metrics.GeocodeError).Inc()
		metrics.SetUpstreamStatus(upstream, false)
		if transport.IsTooManyRequests(err) {
			g.Backoff.UpdateBackoff(upstream, err)
			next, _ := g.Backoff.NextRetryAt(upstream)
			g.Logger.Warn("Geocoder rate limited", "station", station, "retry_at", next)
		}
		return Result{}, fmt.Errorf("failed to geocode %q: %w", station, err)
	}
	g.Backoff.ResetBackoff(upstream)
	metrics.SetUpstreamStatus(upstream, true)

	if len(candidates) == 0 || candidates[0].Lat.Value == nil || candidates[0].Lon.Value == nil {
		metrics.GeocodeRequests.WithLabelValues(metrics.GeocodeEmpty).Inc()
		return Result{}, nil
	}
	metrics.GeocodeRequests.WithLabelValues(metrics.GeocodeMiss).Inc()

	c := models.Coordinate{Latitude: *candidates[0].Lat.Value, Longitude: *candidates[0].Lon.Value}
	if err := g.Cache.Put(ctx, query, c); err != nil {
		g.Logger.Warn("Geocode cache write failed", "station", station, "error", err)
	}
	return resultOf(c), nil
}

func (g *Geocoder) endpoint(query string) string {
	v := url.Values{}
	v.Set("q", query)
	if g.APIKey != "" {
		v.Set("api_key", g.APIKey)
	}
	return g.BaseURL + "/search?" + v.Encode()
}

func resultOf(c models.Coordinate) Result {
	lat, lon := c.Latitude, c.Longitude
	return Result{Latitude: &lat, Longitude: &lon}
}
