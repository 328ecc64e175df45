package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Party metrics
	PartiesCreated     *prometheus.CounterVec
	PartiesDeactivated prometheus.Counter

	// Document metrics
	DocumentsCreated *prometheus.CounterVec
	DocumentsUpdated *prometheus.CounterVec
	DocumentsDeleted *prometheus.CounterVec
	DocumentAmount   prometheus.Histogram
	DocumentErrors   *prometheus.CounterVec

	// Ledger metrics
	NegativeBalanceConfirmations prometheus.Counter
	RecomputeRuns                prometheus.Counter
	RecomputeDrifts              prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Outbox metrics
	EventsPublished *prometheus.CounterVec
	EventsFailed    *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec

	// Action log metrics
	ActionLogsCreated *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Party metrics
		PartiesCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mizan_parties_created_total",
				Help: "Total number of parties created by kind",
			},
			[]string{"kind"},
		),
		PartiesDeactivated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mizan_parties_deactivated_total",
			Help: "Total number of parties deactivated",
		}),

		// Document metrics
		DocumentsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mizan_documents_created_total",
				Help: "Total number of documents created by kind",
			},
			[]string{"kind"},
		),
		DocumentsUpdated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mizan_documents_updated_total",
				Help: "Total number of documents edited by kind",
			},
			[]string{"kind"},
		),
		DocumentsDeleted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mizan_documents_deleted_total",
				Help: "Total number of documents deleted by kind",
			},
			[]string{"kind"},
		),
		DocumentAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "mizan_document_amount",
			Help:    "Document amounts",
			Buckets: []float64{10, 100, 1000, 10000, 100000, 1000000},
		}),
		DocumentErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mizan_document_errors_total",
				Help: "Total number of document operation errors by type",
			},
			[]string{"error_type"},
		),

		// Ledger metrics
		NegativeBalanceConfirmations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mizan_negative_balance_confirmations_total",
			Help: "Total number of operations confirmed despite a negative balance",
		}),
		RecomputeRuns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mizan_recompute_runs_total",
			Help: "Total number of balance recompute runs",
		}),
		RecomputeDrifts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mizan_recompute_drifts_total",
			Help: "Total number of recompute runs that found a drift",
		}),

		// API metrics
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mizan_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mizan_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Outbox metrics
		EventsPublished: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mizan_events_published_total",
				Help: "Total outbox events published",
			},
			[]string{"event_type"},
		),
		EventsFailed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mizan_events_failed_total",
				Help: "Total outbox events that failed to publish",
			},
			[]string{"event_type"},
		),

		// Rate limiting metrics
		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mizan_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),

		// Action log metrics
		ActionLogsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mizan_action_logs_total",
				Help: "Total action logs created",
			},
			[]string{"action", "status"},
		),
	}
}
