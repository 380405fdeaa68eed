package listings

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	queriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lotview",
		Name:      "listing_queries_total",
		Help:      "Listing queries served, by outcome.",
	}, []string{"outcome"})

	queryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "lotview",
		Name:      "listing_query_duration_seconds",
		Help:      "End-to-end duration of the filter/sort/paginate pipeline.",
		Buckets:   prometheus.DefBuckets,
	})
)
