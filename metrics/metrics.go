// Package metrics exposes Prometheus collectors for investigations.
//
// Each Metrics value owns its own registry so several instances (tests,
// embedded servers) never collide on the default registerer.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options configures Metrics.
type Options struct {
	// Namespace prefixes every metric name. Empty by default.
	Namespace string
	// RuntimeCollectors adds the Go runtime and process collectors.
	RuntimeCollectors bool
}

// Metrics groups the investigation collectors.
type Metrics struct {
	registry *prometheus.Registry

	requests       prometheus.Counter
	tokens         prometheus.Counter
	averageCost    prometheus.Gauge
	stepExecutions *prometheus.CounterVec
	duration       prometheus.Histogram
}

// New creates and registers the collectors.
func New(optFns ...func(o *Options)) *Metrics {
	opts := Options{}

	for _, fn := range optFns {
		fn(&opts)
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: opts.Namespace,
			Name:      "agent_requests_total",
			Help:      "Total number of investigation requests received.",
		}),
		tokens: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: opts.Namespace,
			Name:      "agent_tokens_total",
			Help:      "Total tokens produced by tool output.",
		}),
		averageCost: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: opts.Namespace,
			Name:      "agent_average_cost",
			Help:      "USD cost of the most recent investigation.",
		}),
		stepExecutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: opts.Namespace,
			Name:      "agent_step_executions_total",
			Help:      "Tool invocations by tool and outcome.",
		}, []string{"tool", "ok"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: opts.Namespace,
			Name:      "agent_investigation_duration_seconds",
			Help:      "Wall time of a full investigation.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	m.registry.MustRegister(m.requests, m.tokens, m.averageCost, m.stepExecutions, m.duration)

	if opts.RuntimeCollectors {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	return m
}

// ObserveStep records one tool invocation.
func (m *Metrics) ObserveStep(toolName string, ok bool, _ time.Duration) {
	m.stepExecutions.WithLabelValues(toolName, strconv.FormatBool(ok)).Inc()
}

// ObserveRequest counts an investigation request on entry, before any step
// can fail.
func (m *Metrics) ObserveRequest() {
	m.requests.Inc()
}

// ObserveInvestigation records a finished investigation.
func (m *Metrics) ObserveInvestigation(tokens int, usd float64, d time.Duration) {
	m.tokens.Add(float64(tokens))
	m.averageCost.Set(usd)
	m.duration.Observe(d.Seconds())
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
