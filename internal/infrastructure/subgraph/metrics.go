package subgraph

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subgraph_requests_total",
			Help: "Total number of subgraph page requests",
		},
		[]string{"endpoint", "query", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "subgraph_request_duration_seconds",
			Help:    "Subgraph page request duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"query"},
	)

	endpointFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subgraph_endpoint_failures_total",
			Help: "Total number of endpoint attempts discarded before falling back",
		},
		[]string{"endpoint"},
	)

	recordsFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subgraph_records_fetched_total",
			Help: "Total number of swap records fetched, before deduplication",
		},
		[]string{"query"},
	)
)
