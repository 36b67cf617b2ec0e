package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HostOpsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "host_ops_total",
		Help: "The total number of host array op dispatches",
	}, []string{"op", "dtype"})

	HostOpErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "host_op_errors_total",
		Help: "Total number of host array op failures",
	}, []string{"op", "error_type"})

	HostBytesAllocated = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "host_bytes_allocated",
		Help: "Current bytes allocated for host arrays",
	})

	HostOpElements = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "host_op_elements",
		Help:    "Distribution of element counts processed per op",
		Buckets: []float64{16, 256, 1024, 4096, 16384, 65536, 262144, 1048576},
	}, []string{"op"})
)
