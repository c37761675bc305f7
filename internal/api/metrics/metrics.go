// Package metrics defines and registers all custom Prometheus metrics for the
// rental API. It is the single source of truth for metric names, labels, and
// help strings.
//
// All metrics are registered with the default Prometheus registry on package
// initialisation and served by the /metrics route.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "rental"

// ── Rental metrics ────────────────────────────────────────────────────────────

// RentalsCheckedOutTotal counts rentals opened by checkout.
var RentalsCheckedOutTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkouts_total",
		Help:      "Total number of rentals opened.",
	},
)

// RentalReturnsTotal counts return attempts.
// Label:
//   - result: "returned", "not_found", "already_processed" or "failed"
var RentalReturnsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "returns_total",
		Help:      "Total number of rental return attempts, by result.",
	},
	[]string{"result"},
)

// RentalFeeCharged observes the fee billed by each successful return.
var RentalFeeCharged = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "fee_charged",
		Help:      "Rental fee billed on return.",
		Buckets:   []float64{1, 2, 5, 10, 20, 50, 100, 250, 500, 1000},
	},
)

// ── Catalogue metrics ─────────────────────────────────────────────────────────

// GenresCreatedTotal counts genres created through the API.
var GenresCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "genres_created_total",
		Help:      "Total number of genres created.",
	},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "accepted", "rejected" or "throttled"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Event metrics ─────────────────────────────────────────────────────────────

// EventsPublishedTotal counts rental events handed to the broker.
// Labels:
//   - type: "rental.created" or "rental.returned"
//   - result: "ok" or "error"
var EventsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Total number of rental events published, by type and result.",
	},
	[]string{"type", "result"},
)

// EventsQueueDepth tracks the current number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var EventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "events_queue_depth",
		Help:      "Current number of events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// EventsDroppedTotal counts events discarded because a worker channel was full.
var EventsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_dropped_total",
		Help:      "Total number of rental events dropped on a full queue.",
	},
)
