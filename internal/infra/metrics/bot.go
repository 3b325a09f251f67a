package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(botCommandsTotal) }

var botCommandsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "bot_commands_total",
		Help: "Total bot commands handled, labeled by command and result.",
	},
	[]string{"command", "result"}, // result: ok|error|rate_limited
)

func IncBotCommand(command, result string) {
	botCommandsTotal.WithLabelValues(norm(command), norm(result)).Inc()
}
