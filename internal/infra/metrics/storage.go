package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(artifactsPrunedTotal) }

var artifactsPrunedTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "video_artifacts_pruned_total",
		Help: "Total number of expired video artifacts removed from local storage.",
	},
)

func AddArtifactsPruned(n int) {
	if n > 0 {
		artifactsPrunedTotal.Add(float64(n))
	}
}
