// Package metrics exposes Prometheus instrumentation for the call
// simulator.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CallsStarted counts accepted calls.
	CallsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scamshield_calls_started_total",
		Help: "Number of simulated calls accepted.",
	})

	// CallsEnded counts finished calls by outcome.
	CallsEnded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scamshield_calls_ended_total",
		Help: "Number of simulated calls ended, labeled by outcome.",
	}, []string{"outcome"})

	// CallDuration observes call length in seconds.
	CallDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "scamshield_call_duration_seconds",
		Help:    "Duration of simulated calls.",
		Buckets: []float64{15, 30, 60, 120, 300, 600, 1200},
	})

	// AdapterErrors counts failures of external adapters by kind
	// (generation, synthesis, transcription).
	AdapterErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scamshield_adapter_errors_total",
		Help: "External adapter failures, labeled by adapter kind.",
	}, []string{"kind"})
)
