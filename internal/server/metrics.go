package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ontologyLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "schemefinder_ontology_loads_total",
		Help: "Ontology load attempts by status.",
	}, []string{"status"})

	ontologyTriples = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "schemefinder_ontology_triples",
		Help: "Triple count of the currently loaded ontology.",
	})

	schemeSearches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "schemefinder_searches_total",
		Help: "Scheme searches by outcome.",
	}, []string{"status"})

	searchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "schemefinder_search_duration_seconds",
		Help:    "Latency of scheme searches.",
		Buckets: prometheus.DefBuckets,
	})
)
