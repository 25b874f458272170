package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DocumentsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pdf_documents_generated_total",
			Help: "Total number of document requests by type and outcome",
		},
		[]string{"document_type", "outcome"},
	)

	AnalysisOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pdf_analysis_outcomes_total",
			Help: "Analysis results by source and fallback reason",
		},
		[]string{"source", "reason"},
	)

	ReasoningAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pdf_reasoning_attempts_total",
			Help: "Outbound reasoning service attempts by outcome",
		},
		[]string{"outcome"},
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pdf_generation_duration_seconds",
			Help:    "Duration of document generation in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 20, 40},
		},
		[]string{"document_type"},
	)

	DocumentsInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pdf_documents_in_flight",
			Help: "Number of document requests currently being generated",
		},
		[]string{"document_type"},
	)
)
