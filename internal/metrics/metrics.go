package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Failure reasons
const (
	ReasonInvalidInput    = "invalid_input"
	ReasonUnknownCategory = "unknown_category"
	ReasonSchemaMismatch  = "schema_mismatch"
	ReasonInternal        = "internal"
)

// Metrics records prediction outcomes on its own registry
type Metrics struct {
	registry *prometheus.Registry

	Predictions *prometheus.CounterVec
	Failures    *prometheus.CounterVec
	Duration    prometheus.Histogram
}

// New creates the prediction metrics plus the standard Go and process collectors
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Predictions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "predictions_total",
				Help: "Total number of rendered verdicts",
			},
			[]string{"verdict"},
		),
		Failures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prediction_failures_total",
				Help: "Total number of prediction attempts aborted without a verdict",
			},
			[]string{"reason"},
		),
		Duration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "prediction_duration_seconds",
				Help:    "Time spent assembling and classifying one applicant",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
		),
	}
}

// ObserveVerdict counts one rendered verdict
func (m *Metrics) ObserveVerdict(outcome string, elapsed time.Duration) {
	m.Predictions.WithLabelValues(outcome).Inc()
	m.Duration.Observe(elapsed.Seconds())
}

// ObserveFailure counts one aborted prediction
func (m *Metrics) ObserveFailure(reason string) {
	m.Failures.WithLabelValues(reason).Inc()
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
