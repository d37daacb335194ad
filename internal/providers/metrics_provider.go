package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"sprintd/internal/structures"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncFetchErrors()
	IncStaleResponsesDropped()
	ObserveRefreshDuration(duration time.Duration)
	ObservePersistenceDuration(duration time.Duration)
	SetAccountsTotal(count int)
	SetAssignmentsTotal(count int)
	SetConflictsTotal(kind string, count int)
	SetSnapshotTimestamp(t time.Time)
}

type MetricsProvider struct {
	requestsTotal         *prometheus.CounterVec
	requestDuration       *prometheus.HistogramVec
	cacheHits             prometheus.Counter
	cacheMisses           prometheus.Counter
	fetchErrors           prometheus.Counter
	staleResponsesDropped prometheus.Counter
	refreshDuration       prometheus.Histogram
	persistenceDuration   prometheus.Histogram
	accountsTotal         prometheus.Gauge
	assignmentsTotal      prometheus.Gauge
	conflictsTotal        *prometheus.GaugeVec
	snapshotTimestamp     prometheus.Gauge
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) IncFetchErrors() {
	m.fetchErrors.Inc()
}

func (m *MetricsProvider) IncStaleResponsesDropped() {
	m.staleResponsesDropped.Inc()
}

func (m *MetricsProvider) ObserveRefreshDuration(duration time.Duration) {
	m.refreshDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) SetAccountsTotal(count int) {
	m.accountsTotal.Set(float64(count))
}

func (m *MetricsProvider) SetAssignmentsTotal(count int) {
	m.assignmentsTotal.Set(float64(count))
}

func (m *MetricsProvider) SetConflictsTotal(kind string, count int) {
	m.conflictsTotal.WithLabelValues(kind).Set(float64(count))
}

func (m *MetricsProvider) SetSnapshotTimestamp(t time.Time) {
	m.snapshotTimestamp.Set(float64(t.Unix()))
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sprintd_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sprintd_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sprintd_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sprintd_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		fetchErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sprintd_fetch_errors_total",
			Help: "Total number of failed upstream fetches",
		}),

		staleResponsesDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sprintd_stale_responses_dropped_total",
			Help: "Fetch responses discarded because a newer fetch was already issued",
		}),

		refreshDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "sprintd_refresh_duration_seconds",
			Help:    "Duration of full timeline refresh cycles in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "sprintd_persistence_duration_seconds",
			Help:    "Duration of snapshot persistence operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		accountsTotal: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "sprintd_accounts_total",
			Help: "Number of accounts in the current timeline snapshot",
		}),

		assignmentsTotal: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "sprintd_assignments_total",
			Help: "Number of assignments in the current timeline snapshot",
		}),

		conflictsTotal: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sprintd_conflicts_total",
			Help: "Detected conflicts in the current snapshot, by kind",
		}, []string{"kind"}),

		snapshotTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "sprintd_snapshot_timestamp_seconds",
			Help: "Unix timestamp of the last successful timeline rebuild",
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) IncFetchErrors()                                  {}
func (n *noopMetrics) IncStaleResponsesDropped()                        {}
func (n *noopMetrics) ObserveRefreshDuration(_ time.Duration)           {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) SetAccountsTotal(_ int)                           {}
func (n *noopMetrics) SetAssignmentsTotal(_ int)                        {}
func (n *noopMetrics) SetConflictsTotal(_ string, _ int)                {}
func (n *noopMetrics) SetSnapshotTimestamp(_ time.Time)                 {}
