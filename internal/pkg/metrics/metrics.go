// Package metrics defines and registers all custom Prometheus metrics of the
// tracking service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation (promauto).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tracking"

// ── Ingestion metrics ─────────────────────────────────────────────────────────

// LocationReportsTotal counts location submissions by result.
// Labels:
//   - outcome: "accepted", "ignored", "rejected" or "error"
//   - reason: short rejection reason (e.g. "implausible_movement", "stale"), empty otherwise
var LocationReportsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "location_reports_total",
		Help:      "Total number of location report submissions, by outcome and reason.",
	},
	[]string{"outcome", "reason"},
)

// LocationReportsReplayedTotal counts submissions answered from the idempotency store.
var LocationReportsReplayedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "location_reports_replayed_total",
		Help:      "Total number of location submissions answered from the idempotency store.",
	},
)

// IngestionDuration measures a submission end-to-end, including the wait for
// the shipment's serializer slot.
// Label:
//   - outcome: "accepted", "ignored", "rejected", "error", or "batch" for a whole batch
var IngestionDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "ingestion_duration_seconds",
		Help:      "Duration of location report validation and persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"outcome"},
)

// SerializerQueueDepth tracks the number of jobs waiting in each serializer worker.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var SerializerQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "serializer_queue_depth",
		Help:      "Current number of jobs pending in each per-shipment serializer worker.",
	},
	[]string{"worker_id"},
)

// ── Tracking state metrics ───────────────────────────────────────────────────

// TrackingTogglesTotal counts successful tracking toggles.
// Label:
//   - enabled: "true" or "false"
var TrackingTogglesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tracking_toggles_total",
		Help:      "Total number of tracking enable/disable calls that succeeded.",
	},
	[]string{"enabled"},
)

// ── Geocoding metrics ─────────────────────────────────────────────────────────

// GeocodeRequestsTotal counts provider lookups.
// Label:
//   - result: "ok", "error", "cache_hit"
var GeocodeRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "geocode_requests_total",
		Help:      "Total number of geocoding lookups, by result.",
	},
	[]string{"result"},
)

// GeocodeDuration measures provider round trips.
var GeocodeDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "geocode_duration_seconds",
		Help:      "Duration of geocoding provider requests.",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2, 5},
	},
)
