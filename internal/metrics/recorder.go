// Package metrics records Prometheus metrics for gateway calls, history
// activity and inspiration refreshes.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the metrics surface the rest of the module reports through.
type Recorder interface {
	ObserveRequest(model, op string, success bool, errorType string, duration time.Duration)
	ObserveTokens(model, op string, prompt, completion int)
	IncHistory(action string)
	IncRefresh(outcome string)
}

// PrometheusRecorder implements Recorder on a Prometheus registry.
type PrometheusRecorder struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	tokensTotal     *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	historyTotal    *prometheus.CounterVec
	refreshTotal    *prometheus.CounterVec
}

// NewPrometheusRecorder registers the collectors on a fresh registry.
func NewPrometheusRecorder() *PrometheusRecorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &PrometheusRecorder{
		registry: reg,
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "llm_requests_total",
				Help: "Total number of LLM requests by model, operation and status",
			},
			[]string{"model", "op", "status", "error_type"},
		),
		tokensTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "llm_tokens_total",
				Help: "Total number of tokens used in LLM requests",
			},
			[]string{"model", "op", "type"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "llm_request_duration_seconds",
				Help:    "Duration of LLM requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"model", "op"},
		),
		historyTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "persona_history_actions_total",
				Help: "History stack mutations by action",
			},
			[]string{"action"},
		),
		refreshTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "persona_inspiration_refresh_total",
				Help: "Inspiration library refresh attempts by outcome",
			},
			[]string{"outcome"},
		),
	}
}

// ObserveRequest records a completed LLM request.
func (p *PrometheusRecorder) ObserveRequest(model, op string, success bool, errorType string, duration time.Duration) {
	status := "success"
	if !success {
		status = "error"
	}
	p.requestsTotal.WithLabelValues(model, op, status, errorType).Inc()
	p.requestDuration.WithLabelValues(model, op).Observe(duration.Seconds())
}

// ObserveTokens adds usage reported by the model.
func (p *PrometheusRecorder) ObserveTokens(model, op string, prompt, completion int) {
	p.tokensTotal.WithLabelValues(model, op, "prompt").Add(float64(prompt))
	p.tokensTotal.WithLabelValues(model, op, "completion").Add(float64(completion))
}

func (p *PrometheusRecorder) IncHistory(action string) {
	p.historyTotal.WithLabelValues(action).Inc()
}

func (p *PrometheusRecorder) IncRefresh(outcome string) {
	p.refreshTotal.WithLabelValues(outcome).Inc()
}

// Registry exposes the underlying registry.
func (p *PrometheusRecorder) Registry() *prometheus.Registry {
	return p.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Nop discards everything.
type Nop struct{}

func (Nop) ObserveRequest(string, string, bool, string, time.Duration) {}
func (Nop) ObserveTokens(string, string, int, int)                   {}
func (Nop) IncHistory(string)                                        {}
func (Nop) IncRefresh(string)                                        {}
