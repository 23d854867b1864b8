package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Pipeline
	PipelineRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vox_pipeline_runs_total",
		Help: "Voice pipeline runs by outcome",
	}, []string{"status"})

	PipelineStageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vox_pipeline_stage_duration_seconds",
		Help:    "Duration of each voice pipeline stage",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 45},
	}, []string{"stage"})

	ProviderErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vox_provider_errors_total",
		Help: "External provider failures by service and code",
	}, []string{"service", "code"})

	// Business
	GuestsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vox_guests_created_total",
		Help: "Guest users created",
	})

	WebsitesSavedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vox_websites_saved_total",
		Help: "Website saves",
	})

	// Infrastructure
	CacheRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vox_cache_requests_total",
		Help: "Website cache lookups by result",
	}, []string{"result"})
)
