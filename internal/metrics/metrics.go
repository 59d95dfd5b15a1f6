package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the agent's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	ReasonCalls  *prometheus.CounterVec
	ToolCalls    *prometheus.CounterVec
	ToolDuration *prometheus.HistogramVec
	Exchanges    *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ReasonCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "playcheck_reason_calls_total",
				Help: "Reasoning calls to the language model by outcome.",
			},
			[]string{"outcome"},
		),
		ToolCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "playcheck_tool_calls_total",
				Help: "Tool executions by tool and outcome.",
			},
			[]string{"tool", "outcome"},
		),
		ToolDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "playcheck_tool_duration_seconds",
				Help:    "Tool execution latency.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"tool"},
		),
		Exchanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "playcheck_exchanges_total",
				Help: "Completed user exchanges by how they ended.",
			},
			[]string{"result"},
		),
	}
	reg.MustRegister(m.ReasonCalls, m.ToolCalls, m.ToolDuration, m.Exchanges)
	return m
}

func (m *Metrics) ObserveReason(err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.ReasonCalls.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveTool(tool string, failed bool, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if failed {
		outcome = "error"
	}
	m.ToolCalls.WithLabelValues(tool, outcome).Inc()
	m.ToolDuration.WithLabelValues(tool).Observe(elapsed.Seconds())
}

// ObserveExchange records how a Controller run ended: "answered",
// "reason_error" or "iteration_limit".
func (m *Metrics) ObserveExchange(result string) {
	if m == nil {
		return
	}
	m.Exchanges.WithLabelValues(result).Inc()
}
