package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BufferEvictionsTotal counts evicted buffers by reason.
	BufferEvictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "buffer_evictions_total",
		Help: "The total number of buffers evicted, by reason",
	}, []string{"reason"})

	// EvictedBytesTotal counts bytes released by proactive eviction.
	EvictedBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "buffer_evicted_bytes_total",
		Help: "The total number of buffer bytes released by proactive eviction",
	})

	// EvictionOperationsTotal counts evict-entity operations handled by a
	// daemon.
	EvictionOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eviction_operations_total",
		Help: "The total number of eviction operations handled",
	}, []string{"type", "status"})

	// EvictionRequestsTotal counts requests sent by the coordinator.
	EvictionRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eviction_requests_total",
		Help: "The total number of eviction requests sent, by delivery status",
	}, []string{"status"})

	// EvictionDurationSeconds measures latency of eviction handling and
	// delivery.
	EvictionDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "eviction_duration_seconds",
		Help:    "The latency of eviction operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"type"})
)
