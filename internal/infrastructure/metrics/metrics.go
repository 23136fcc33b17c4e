package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var durationBuckets = []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 2000, 5000}

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "exploretg_http_requests_total",
		Help: "Total HTTP requests by route and status",
	}, []string{"method", "route", "status"})
	HTTPRequestDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "exploretg_http_request_duration_ms",
		Help:    "HTTP request duration in milliseconds",
		Buckets: durationBuckets,
	}, []string{"route"})
	RateLimitedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "exploretg_rate_limited_total",
		Help: "Total requests rejected by the rate limiter",
	})
	UpstreamRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "exploretg_upstream_requests_total",
		Help: "Total lieux API requests by operation and outcome",
	}, []string{"operation", "outcome"})
	UpstreamDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "exploretg_upstream_duration_ms",
		Help:    "lieux API call duration in milliseconds",
		Buckets: durationBuckets,
	}, []string{"operation"})
	SnapshotCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "exploretg_snapshot_cache_hits_total",
		Help: "Total redis snapshot cache hits",
	})
	SnapshotCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "exploretg_snapshot_cache_misses_total",
		Help: "Total redis snapshot cache misses",
	})
	SnapshotLoadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "exploretg_snapshot_loads_total",
		Help: "Total snapshot loads by resulting status",
	}, []string{"status"})
	SnapshotPlaces = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "exploretg_snapshot_places",
		Help: "Number of lieux in the last ready snapshot",
	})
	DiscardedResultsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "exploretg_discarded_results_total",
		Help: "Total fetch results discarded because the request was already closed",
	})
)

func init() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDurationMs)
	prometheus.MustRegister(RateLimitedTotal)
	prometheus.MustRegister(UpstreamRequestsTotal)
	prometheus.MustRegister(UpstreamDurationMs)
	prometheus.MustRegister(SnapshotCacheHitsTotal)
	prometheus.MustRegister(SnapshotCacheMissesTotal)
	prometheus.MustRegister(SnapshotLoadsTotal)
	prometheus.MustRegister(SnapshotPlaces)
	prometheus.MustRegister(DiscardedResultsTotal)
}

// Handler /metrics 用のハンドラ
func Handler() http.Handler {
	return promhttp.Handler()
}
