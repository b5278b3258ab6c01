// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Option func(*Registry)

func WithNamespace(namespace string) Option {
	return func(r *Registry) {
		if namespace != "" {
			r.namespace = namespace
		}
	}
}

func WithHistogramBuckets(buckets []float64) Option {
	return func(r *Registry) {
		if len(buckets) > 0 {
			r.latencyBuckets = buckets
		}
	}
}

// WithRuntimeCollectors adds the Go runtime and process collectors.
func WithRuntimeCollectors() Option {
	return func(r *Registry) {
		r.runtime = true
	}
}

// Registry owns a private prometheus registry and the collectors on it. A
// nil *Registry is valid and records nothing.
type Registry struct {
	namespace      string
	latencyBuckets []float64
	runtime        bool
	reg            *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	calculations        *prometheus.CounterVec
	scores              *prometheus.HistogramVec
	providerErrors      *prometheus.CounterVec
	rescoreDuration     prometheus.Histogram
	rescoredRankings    *prometheus.CounterVec
}

func New(opts ...Option) *Registry {
	r := &Registry{
		namespace:      "rankbet",
		latencyBuckets: prometheus.DefBuckets,
		reg:            prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.runtime {
		r.reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	auto := promauto.With(r.reg)
	r.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status code.",
	}, []string{"route", "method", "status_code"})
	r.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and method.",
		Buckets:   r.latencyBuckets,
	}, []string{"route", "method"})
	r.calculations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "accuracy_calculations_total",
		Help:      "Accuracy calculations by position and data source.",
	}, []string{"position", "source"})
	r.scores = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Name:      "accuracy_score",
		Help:      "Distribution of computed accuracy percentages.",
		Buckets:   prometheus.LinearBuckets(0, 10, 11),
	}, []string{"position"})
	r.providerErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "performance_fetch_errors_total",
		Help:      "Failed actual-performance lookups by position.",
	}, []string{"position"})
	r.rescoreDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Name:      "rescore_period_duration_seconds",
		Help:      "Wall time of period rescoring jobs.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
	})
	r.rescoredRankings = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "rescored_rankings_total",
		Help:      "Rankings processed by rescoring jobs, by outcome.",
	}, []string{"outcome"})

	return r
}

func (r *Registry) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// Gatherer exposes the registry for tests and custom exporters.
func (r *Registry) Gatherer() prometheus.Gatherer {
	if r == nil {
		return prometheus.NewRegistry()
	}
	return r.reg
}

func (r *Registry) ObserveHTTPRequest(route, method string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	r.httpRequestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func (r *Registry) ObserveCalculation(position, source string, score float64) {
	if r == nil {
		return
	}
	r.calculations.WithLabelValues(position, source).Inc()
	r.scores.WithLabelValues(position).Observe(score)
}

func (r *Registry) IncProviderError(position string) {
	if r == nil {
		return
	}
	r.providerErrors.WithLabelValues(position).Inc()
}

func (r *Registry) ObserveRescore(elapsed time.Duration, scored, failed int) {
	if r == nil {
		return
	}
	r.rescoreDuration.Observe(elapsed.Seconds())
	r.rescoredRankings.WithLabelValues("scored").Add(float64(scored))
	r.rescoredRankings.WithLabelValues("failed").Add(float64(failed))
}
