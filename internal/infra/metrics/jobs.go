package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(videoJobsTotal, videoJobDurationSec) }

var videoJobsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "video_jobs_total",
		Help: "Total number of video generation jobs finished, labeled by status and mode.",
	},
	[]string{"status", "mode"}, // status: completed|failed; mode: mock|real
)

var videoJobDurationSec = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "video_job_duration_seconds",
		Help:    "End-to-end video generation duration distribution.",
		Buckets: []float64{1, 2, 5, 10, 30, 60, 120, 300, 600},
	},
	[]string{"mode"},
)

func IncVideoJob(status, mode string) {
	videoJobsTotal.WithLabelValues(norm(status), norm(mode)).Inc()
}

func ObserveVideoJobDuration(mode string, seconds float64) {
	videoJobDurationSec.WithLabelValues(norm(mode)).Observe(seconds)
}
