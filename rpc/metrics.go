package rpc

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pooldex_rpc_requests_total",
		Help: "JSON-RPC requests received, by method.",
	}, []string{"method"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pooldex_rpc_errors_total",
		Help: "JSON-RPC requests that returned an error, by method.",
	}, []string{"method"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pooldex_rpc_request_duration_seconds",
		Help:    "JSON-RPC request handling latency, by method.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
)
