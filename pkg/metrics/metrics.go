package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "imgsearch_cache_lookups_total",
		Help: "Cache lookups by result (hit, miss).",
	}, []string{"result"})

	CachePopulations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "imgsearch_cache_populations_total",
		Help: "Cache population attempts by result (stored, present, failed).",
	}, []string{"result"})

	Requests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "imgsearch_requests_total",
		Help: "Proxy requests by outcome.",
	}, []string{"outcome"})

	RequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "imgsearch_request_duration_seconds",
		Help:    "Time from request start until the response body is written.",
		Buckets: prometheus.DefBuckets,
	})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
