package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the application counters shared by the API and the worker.
type Metrics struct {
	// Outbox drain
	OutboxEventsProcessed   prometheus.Counter
	OutboxEventsFailed      prometheus.Counter
	OutboxProcessingLatency prometheus.Histogram
	OutboxRetries           *prometheus.CounterVec

	// Draft session lifecycle
	FormSessionsOpened    prometheus.Counter
	FormSessionsSubmitted prometheus.Counter
	FormSessionsExpired   prometheus.Counter

	// Credential gate
	GateConfirmations *prometheus.CounterVec
}

// New creates and registers all application metrics.
func New(namespace, subsystem string) *Metrics {
	return &Metrics{
		OutboxEventsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "outbox_events_processed_total",
			Help:      "Total number of successfully processed outbox events",
		}),
		OutboxEventsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "outbox_events_failed_total",
			Help:      "Total number of failed outbox events",
		}),
		OutboxProcessingLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "outbox_processing_duration_seconds",
			Help:      "Time spent processing outbox events",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		OutboxRetries: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "outbox_retries_total",
			Help:      "Number of outbox event retries",
		}, []string{"event_type"}),

		FormSessionsOpened: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "form_sessions_opened_total",
			Help:      "Total number of appointment form sessions opened",
		}),
		FormSessionsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "form_sessions_submitted_total",
			Help:      "Total number of appointment form sessions submitted",
		}),
		FormSessionsExpired: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "form_sessions_expired_total",
			Help:      "Total number of appointment form sessions evicted unsubmitted",
		}),

		GateConfirmations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "gate_confirmations_total",
			Help:      "Admin confirmation attempts by outcome",
		}, []string{"outcome"}),
	}
}
