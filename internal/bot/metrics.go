package bot

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks bot-level counters, exported through the gateway's
// /metrics endpoint.
type Metrics struct {
	messages          prometheus.Counter
	completions       prometheus.Counter
	completionSeconds prometheus.Histogram
	sendFailures      prometheus.Counter
	examsGenerated    prometheus.Counter
	examsFailed       prometheus.Counter
	errors            prometheus.Counter
}

// Collectors register on the default registry exactly once; every Bot
// (tests included) shares the same instance.
var (
	metricsOnce sync.Once
	metricsInst *Metrics
)

func newMetrics() *Metrics {
	metricsOnce.Do(func() { metricsInst = buildMetrics() })
	return metricsInst
}

func buildMetrics() *Metrics {
	return &Metrics{
		messages: promauto.NewCounter(prometheus.CounterOpts{
			Name: "zbot_messages_total",
			Help: "Inbound messages handled.",
		}),
		completions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "zbot_completions_total",
			Help: "AI completions requested.",
		}),
		completionSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "zbot_completion_duration_seconds",
			Help:    "AI completion latency.",
			Buckets: prometheus.DefBuckets,
		}),
		sendFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "zbot_send_failures_total",
			Help: "Outbound deliveries that failed.",
		}),
		examsGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "zbot_exams_generated_total",
			Help: "Exams generated successfully.",
		}),
		examsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "zbot_exams_failed_total",
			Help: "Exam generations that failed.",
		}),
		errors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "zbot_handler_errors_total",
			Help: "Recovered handler panics.",
		}),
	}
}
