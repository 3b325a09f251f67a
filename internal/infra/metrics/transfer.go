package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(transferPhaseLatencyMs, pollCyclesTotal) }

var transferPhaseLatencyMs = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "transfer_phase_latency_ms",
		Help:    "Latency distribution per transfer phase in milliseconds.",
		Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000, 10000},
	},
	[]string{"phase", "success"}, // phase: upload|submit|poll|download
)

var pollCyclesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "poll_cycles_total",
		Help: "Total number of remote status poll cycles, labeled by outcome.",
	},
	[]string{"outcome"}, // pending|completed|failed|transient_error
)

func ObserveTransferPhase(phase string, ms int, success bool) {
	s := "false"
	if success {
		s = "true"
	}
	transferPhaseLatencyMs.WithLabelValues(norm(phase), s).Observe(float64(ms))
}

func IncPollCycle(outcome string) {
	pollCyclesTotal.WithLabelValues(norm(outcome)).Inc()
}
