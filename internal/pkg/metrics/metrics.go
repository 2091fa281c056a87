// Package metrics defines and registers all custom Prometheus metrics for the
// Deepmetric portal. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation and served by the /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// ── Enrollment metrics ────────────────────────────────────────────────────────

// EnrollmentEventsTotal counts enrollment transitions that changed a record.
// Label:
//   - event: the emitted event kind (e.g. "course_registered", "completion_approved")
var EnrollmentEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "enrollment_events_total",
		Help:      "Total number of enrollment events emitted by state transitions.",
	},
	[]string{"event"},
)

// ── Catalog metrics ───────────────────────────────────────────────────────────

// ReviewsDedupTotal counts idempotency decisions on review submission.
// Label:
//   - result: "hit" (duplicate, replayed) or "miss" (new review stored)
var ReviewsDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reviews_dedup_total",
		Help:      "Total number of review idempotency checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// CertificatesIssuedTotal counts issued certificates.
// Label:
//   - format: "png" or "html" (print fallback)
var CertificatesIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "certificates_issued_total",
		Help:      "Total number of certificates issued, by document format.",
	},
	[]string{"format"},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsDeliveredTotal counts notifications handed to sinks.
// Label:
//   - category: "success", "info" or "email"
var NotificationsDeliveredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_delivered_total",
		Help:      "Total number of notifications delivered to sinks, by category.",
	},
	[]string{"category"},
)

// NotificationsDroppedTotal counts notifications discarded because a worker
// queue was full.
var NotificationsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_dropped_total",
		Help:      "Total number of notifications dropped on a full dispatcher queue.",
	},
)

// NotificationQueueDepth tracks the number of notifications waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var NotificationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notification_queue_depth",
		Help:      "Current number of notifications pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Advisor metrics ───────────────────────────────────────────────────────────

// AdvisorRequestsTotal counts calls to the language model.
// Labels:
//   - operation: "chat" or "tags"
//   - result: "ok", "error" or "superseded"
var AdvisorRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "advisor_requests_total",
		Help:      "Total number of advisor requests, by operation and result.",
	},
	[]string{"operation", "result"},
)

// AdvisorRequestDuration measures language model round trips.
// Label:
//   - operation: "chat" or "tags"
var AdvisorRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "advisor_request_duration_seconds",
		Help:      "Duration of advisor requests including retries.",
		Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
	},
	[]string{"operation"},
)
