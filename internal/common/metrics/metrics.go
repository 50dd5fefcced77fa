// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PipelineRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_runs_total",
			Help: "Total number of pipeline runs by terminal status",
		},
		[]string{"status"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "pipeline_stage_duration_seconds",
			Help: "Duration of each pipeline stage in seconds",
		},
		[]string{"stage"},
	)

	VariantsFiltered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "variants_filtered_total",
			Help: "Variant records by filter outcome (kept, excluded, skipped)",
		},
		[]string{"outcome"},
	)

	BackendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backend_requests_total",
			Help: "Outbound requests to external services by result",
		},
		[]string{"service", "status"},
	)
)
