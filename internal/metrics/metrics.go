// Package metrics holds the Prometheus collectors of the server.
//
// Collectors live on a private registry so that tests and multiple server
// instances in one process do not collide on the global default registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bison_mcp"

// Tool call outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeDenied  = "denied"
	OutcomeUnknown = "unknown"
)

// Metrics is a set of collectors bound to one registry.
type Metrics struct {
	registry *prometheus.Registry

	toolCalls     *prometheus.CounterVec
	toolDuration  *prometheus.HistogramVec
	apiRequests   *prometheus.CounterVec
	apiDuration   *prometheus.HistogramVec
	cachedClients prometheus.Gauge
	httpDuration  *prometheus.HistogramVec
}

// New registers all collectors, plus the Go runtime and process collectors,
// on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		toolCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "Tool calls by tool name and outcome.",
		}, []string{"tool", "outcome"}),
		toolDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tool_call_duration_seconds",
			Help:      "Duration of tool calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"tool"}),
		apiRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Requests sent to the EmailBison API by account, method and status code.",
		}, []string{"account", "method", "status"}),
		apiDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "Duration of requests sent to the EmailBison API.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"account"}),
		cachedClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cached_clients",
			Help:      "Number of API clients held by the account registry.",
		}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_duration_seconds",
			Help:      "Duration of HTTP requests served.",
		}, []string{"path"}),
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveToolCall records one finished tool call.
func (m *Metrics) ObserveToolCall(tool, outcome string, elapsed time.Duration) {
	m.toolCalls.WithLabelValues(tool, outcome).Inc()
	m.toolDuration.WithLabelValues(tool).Observe(elapsed.Seconds())
}

// ObserveAPIRequest matches emailbison.RequestObserver. A zero status means
// the request failed before a response arrived.
func (m *Metrics) ObserveAPIRequest(account, method string, status int, elapsed time.Duration) {
	code := "transport_error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	m.apiRequests.WithLabelValues(account, method, code).Inc()
	m.apiDuration.WithLabelValues(account).Observe(elapsed.Seconds())
}

// SetCachedClients updates the cached client gauge.
func (m *Metrics) SetCachedClients(n int) {
	m.cachedClients.Set(float64(n))
}

// Middleware times requests by their mux route template.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				path = tpl
			}
		}
		timer := prometheus.NewTimer(m.httpDuration.WithLabelValues(path))
		next.ServeHTTP(w, r)
		timer.ObserveDuration()
	})
}
