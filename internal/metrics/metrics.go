// Package metrics exposes Prometheus collectors for the location service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LocationsIngested counts ingest requests by outcome: saved, invalid, error.
	LocationsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "location_ingest_total",
			Help: "Location ingest requests by outcome.",
		},
		[]string{"outcome"},
	)

	// LocationQueries counts read requests by endpoint.
	LocationQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "location_queries_total",
			Help: "Location read requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	// StoredLocations tracks the current store size.
	StoredLocations = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "location_store_size",
		Help: "Number of location records currently held in memory.",
	})

	// FeedClients tracks connected live feed websocket clients.
	FeedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "location_feed_clients",
		Help: "Connected live location feed clients.",
	})

	// FeedDropped counts broadcast messages dropped because the buffer was full.
	FeedDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "location_feed_dropped_total",
		Help: "Live feed messages dropped because the broadcast buffer was full.",
	})
)

// Outcome labels for LocationsIngested.
const (
	OutcomeSaved   = "saved"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)
