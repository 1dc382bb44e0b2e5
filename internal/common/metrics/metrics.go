package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	TemplateValidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "template_validations_total",
			Help: "Templates validated, by declared type and outcome",
		},
		[]string{"template_type", "valid"},
	)

	TemplateScore = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "template_validation_score",
			Help:    "Distribution of template quality scores",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		},
		[]string{"template_type"},
	)

	ValidationCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "template_validation_cache_lookups_total",
			Help: "Validation result cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	CatalogQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "template_catalog_queries_total",
			Help: "Catalog lookups by operation",
		},
		[]string{"operation"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP API requests by route and status code",
		},
		[]string{"route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "HTTP API request latency",
		},
		[]string{"route"},
	)
)

// RecordValidation counts one validation outcome.
func RecordValidation(templateType string, valid bool, score int) {
	label := "false"
	if valid {
		label = "true"
	}
	TemplateValidations.WithLabelValues(templateType, label).Inc()
	TemplateScore.WithLabelValues(templateType).Observe(float64(score))
}
