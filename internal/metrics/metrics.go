package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UpstreamStatus reports whether the last call to an upstream API succeeded (0 = failing, 1 = working)
	UpstreamStatus = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "busmap_upstream_status",
			Help: "Status of an upstream API (0 = not working, 1 = working)",
		},
		[]string{"upstream"},
	)

	OutgoingLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "busmap_outgoing_request_duration_seconds",
			Help:    "Latency of outgoing HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"url", "method", "status"},
	)
)

var (
	PollCycles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "busmap_poll_cycles_total",
		Help: "Number of polling cycles by outcome (published, failed, stale, empty)",
	}, []string{"outcome"})

	PollCycleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "busmap_poll_cycle_duration_seconds",
		Help:    "Wall time of a full polling cycle",
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
	})

	ArrivalRecords = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "busmap_arrival_records",
		Help: "Arrival records returned for a line in the latest cycle",
	}, []string{"line_id"})
)

var (
	Markers = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "busmap_markers",
		Help: "Markers currently published, by proximity tier",
	}, []string{"tier"})

	MarkersRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "busmap_markers_rejected_total",
		Help: "Geocoded coordinates rejected by the London bounding box",
	})

	SelectedLines = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "busmap_selected_lines",
		Help: "Number of bus lines currently selected",
	})
)

var (
	GeocodeRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "busmap_geocode_requests_total",
		Help: "Geocode lookups by result (hit, miss, empty, error, cooldown)",
	}, []string{"result"})
)
