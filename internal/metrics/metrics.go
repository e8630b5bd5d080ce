package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics stores Prometheus collectors used across the service.
type Metrics struct {
	HTTPRequests    *prometheus.CounterVec
	HTTPLatency     *prometheus.HistogramVec
	StoreQueries    *prometheus.CounterVec
	ConfigCacheHits *prometheus.CounterVec
	OrdersCreated   *prometheus.CounterVec
	KeepAliveProbes *prometheus.CounterVec
	Errors          *prometheus.CounterVec
}

var (
	regOnce         sync.Once
	metricsInstance *Metrics
)

// Registry builds and registers the metrics singleton with optional namespace.
func Registry(namespace string) *Metrics {
	regOnce.Do(func() {
		metricsInstance = &Metrics{
			HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests by route and status code.",
			}, []string{"route", "code"}),
			HTTPLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Latency distribution of HTTP requests by route.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"route"}),
			StoreQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_queries_total",
				Help:      "Total backing-store operations by entity and outcome.",
			}, []string{"entity", "status"}),
			ConfigCacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "config_cache_lookups_total",
				Help:      "Config cache lookups by outcome (hit, refresh, default).",
			}, []string{"outcome"}),
			OrdersCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "orders_created_total",
				Help:      "Orders accepted through public endpoints by kind.",
			}, []string{"kind"}),
			KeepAliveProbes: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "keepalive_probes_total",
				Help:      "Keep-alive store probes by outcome.",
			}, []string{"status"}),
			Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_total",
				Help:      "Total errors grouped by component.",
			}, []string{"component"}),
		}

		prometheus.MustRegister(
			metricsInstance.HTTPRequests,
			metricsInstance.HTTPLatency,
			metricsInstance.StoreQueries,
			metricsInstance.ConfigCacheHits,
			metricsInstance.OrdersCreated,
			metricsInstance.KeepAliveProbes,
			metricsInstance.Errors,
		)
	})
	return metricsInstance
}
