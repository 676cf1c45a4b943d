// Package metrics exposes Prometheus counters for the answer pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "chatbot"

// Metrics holds the pipeline collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	AnswersTotal          *prometheus.CounterVec
	ContentLookupDegraded prometheus.Counter
	LLMFailures           *prometheus.CounterVec
	LLMDuration           prometheus.Histogram
}

// New registers all collectors on a fresh registry, along with the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		AnswersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answers_total",
			Help:      "Answers returned, by producing stage and HTTP status.",
		}, []string{"source", "status"}),
		ContentLookupDegraded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "content_lookup_degraded_total",
			Help:      "Content lookups that failed and fell through to the language model.",
		}),
		LLMFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_failures_total",
			Help:      "Language model calls that did not produce an answer, by kind.",
		}, []string{"kind"}),
		LLMDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "llm_request_duration_seconds",
			Help:      "Latency of language model calls.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 90},
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveAnswer(source, status string) {
	if m == nil {
		return
	}
	m.AnswersTotal.WithLabelValues(source, status).Inc()
}

func (m *Metrics) ObserveLookupDegraded() {
	if m == nil {
		return
	}
	m.ContentLookupDegraded.Inc()
}

func (m *Metrics) ObserveLLM(elapsed time.Duration, failureKind string) {
	if m == nil {
		return
	}
	m.LLMDuration.Observe(elapsed.Seconds())
	if failureKind != "" {
		m.LLMFailures.WithLabelValues(failureKind).Inc()
	}
}
