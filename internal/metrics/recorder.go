package metrics

import (
	"time"

	"busmap.londonbus.dev/internal/models"
)

// Cycle outcomes used as the PollCycles label.
const (
	OutcomePublished = "published"
	OutcomeFailed    = "failed"
	OutcomeStale     = "stale"
	OutcomeEmpty     = "empty"
)

// Geocode results used as the GeocodeRequests label.
const (
	GeocodeHit      = "hit"
	GeocodeMiss     = "miss"
	GeocodeEmpty    = "empty"
	GeocodeError    = "error"
	GeocodeCooldown = "cooldown"
)

// ObserveCycle records the outcome and duration of one polling cycle.
func ObserveCycle(outcome string, started time.Time) {
	PollCycles.WithLabelValues(outcome).Inc()
	PollCycleDuration.Observe(time.Since(started).Seconds())
}

// SetMarkerTiers replaces the per-tier marker gauges with the counts in tiers.
// Every tier is written so a tier that emptied out drops to zero.
func SetMarkerTiers(tiers []models.Tier) {
	counts := map[models.Tier]int{
		models.TierNear:   0,
		models.TierMedium: 0,
		models.TierFar:    0,
	}
	for _, t := range tiers {
		counts[t]++
	}
	for tier, n := range counts {
		Markers.WithLabelValues(string(tier)).Set(float64(n))
	}
}

// SetUpstreamStatus flips the status gauge of the named upstream.
func SetUpstreamStatus(upstream string, ok bool) {
	v := 0.0
	if ok {
		v = 1
	}
	UpstreamStatus.WithLabelValues(upstream).Set(v)
}
