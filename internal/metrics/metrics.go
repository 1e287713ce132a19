package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for Guildhall
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    prometheus.CounterVec
	HTTPRequestDuration  prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.GaugeVec

	// Database Metrics
	DBQueriesTotal  prometheus.CounterVec
	DBQueryDuration prometheus.HistogramVec

	// Business Metrics
	EvaluationsTotal     prometheus.CounterVec
	AdjustmentsTotal     prometheus.Counter
	ReportsTotal         prometheus.Counter
	XPGrantedTotal       prometheus.Counter
	CoinsGrantedTotal    prometheus.Counter
	RoleSyncsTotal       prometheus.CounterVec
	MissionsClosedTotal  prometheus.CounterVec
	MemberSyncDuration   prometheus.Histogram
	ItemPurchasesTotal   prometheus.Counter
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all metrics
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "guildhall_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "guildhall_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "guildhall_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// Database Metrics
		DBQueriesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "guildhall_db_queries_total",
				Help: "Total database queries by operation type",
			},
			[]string{"query_type"},
		),
		DBQueryDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "guildhall_db_query_duration_seconds",
				Help:    "Database query execution time in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"query_type"},
		),

		// Business Metrics
		EvaluationsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "guildhall_evaluations_total",
				Help: "Total mission evaluations by rank",
			},
			[]string{"rank"},
		),
		AdjustmentsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "guildhall_evaluation_adjustments_total",
				Help: "Total moderator re-ratings of prior evaluations",
			},
		),
		ReportsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "guildhall_evaluation_reports_total",
				Help: "Total dispute reports filed against evaluations",
			},
		),
		XPGrantedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "guildhall_xp_granted_total",
				Help: "Cumulative XP committed to the ledger (absolute deltas)",
			},
		),
		CoinsGrantedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "guildhall_coins_granted_total",
				Help: "Cumulative coins committed to the ledger (absolute deltas)",
			},
		),
		RoleSyncsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "guildhall_role_syncs_total",
				Help: "Level role reconciliations by outcome (changed/unchanged/failed)",
			},
			[]string{"outcome"},
		),
		MissionsClosedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "guildhall_missions_closed_total",
				Help: "Missions closed by trigger (auto/manual)",
			},
			[]string{"trigger"},
		),
		MemberSyncDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "guildhall_member_sync_duration_seconds",
				Help:    "Batch guild member sync execution time in seconds",
				Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
			},
		),
		ItemPurchasesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "guildhall_item_purchases_total",
				Help: "Total successful shop purchases",
			},
		),
	}
}
