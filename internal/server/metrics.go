package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	searchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "akademiknet_searches_total",
		Help: "Search requests by outcome.",
	}, []string{"outcome"})

	collabRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "akademiknet_collaborator_requests_total",
		Help: "Collaborator requests by outcome.",
	}, []string{"outcome"})

	workersLaunched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "akademiknet_workers_launched_total",
		Help: "Scrape workers spawned, by phase.",
	}, []string{"phase"})

	searchWait = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "akademiknet_search_wait_seconds",
		Help:    "Time spent polling the session store per search.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 9),
	})
)
