package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clientgate_requests_total",
		Help: "The total number of API requests processed",
	}, []string{"method", "status"})

	LatencyBucket = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "clientgate_latency_bucket",
		Help:    "Request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	RemoteFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clientgate_remote_fallbacks_total",
		Help: "Remote writes that fell back to the local stores",
	}, []string{"operation"})

	CacheInvalidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clientgate_cache_invalidations_total",
		Help: "Query cache invalidations by key prefix",
	}, []string{"key"})
)
