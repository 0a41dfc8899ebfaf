// Package metrics exposes Prometheus instrumentation for store operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OperationsTotal counts store operations by operation and collection.
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bunmem_operations_total",
			Help: "Total number of store operations",
		},
		[]string{"operation", "collection"},
	)
	// OperationDuration is the latency of store operations.
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bunmem_operation_duration_seconds",
			Help:    "Store operation latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
	// Documents tracks the live document count per collection.
	Documents = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bunmem_documents",
			Help: "Live documents per collection",
		},
		[]string{"collection"},
	)
)
