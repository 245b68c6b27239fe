package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Transcode job metrics
var (
	JobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vodforge_transcode_jobs_total",
			Help: "Total number of transcode jobs by terminal outcome",
		},
		[]string{"outcome"}, // "completed", "failed", "duplicate"
	)

	JobsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vodforge_transcode_jobs_active",
			Help: "Number of transcode jobs currently running",
		},
	)

	JobDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vodforge_transcode_job_duration_seconds",
			Help:    "Wall-clock duration of completed transcode jobs",
			Buckets: []float64{10, 30, 60, 120, 300, 600, 1200, 3600, 7200},
		},
	)

	RungsEncoded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vodforge_rungs_encoded_total",
			Help: "Total number of ladder rungs produced across all jobs",
		},
	)

	SubtitlesExtracted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vodforge_subtitles_extracted_total",
			Help: "Total number of subtitle files extracted and uploaded",
		},
	)
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vodforge_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vodforge_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)
