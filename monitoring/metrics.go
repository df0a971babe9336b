// Package monitoring exposes service metrics in Prometheus format.
package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors on a private registry. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	registry         *prometheus.Registry
	predictions      *prometheus.CounterVec
	schemaMismatches prometheus.Counter
	latency          prometheus.Histogram
	modelRSquared    prometheus.Gauge
	modelSamples     prometheus.Gauge
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "healthrisk",
			Name:      "predictions_total",
			Help:      "Risk predictions served, by risk level.",
		}, []string{"level"}),
		schemaMismatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "healthrisk",
			Name:      "schema_mismatches_total",
			Help:      "Prediction requests rejected because their columns did not match the model.",
		}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "healthrisk",
			Name:      "prediction_duration_seconds",
			Help:      "Time spent scoring one prediction request.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
		modelRSquared: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "healthrisk",
			Name:      "model_r_squared",
			Help:      "Coefficient of determination of the fitted model on its training data.",
		}),
		modelSamples: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "healthrisk",
			Name:      "model_training_samples",
			Help:      "Rows the model was fit on.",
		}),
	}
	registry.MustRegister(
		m.predictions,
		m.schemaMismatches,
		m.latency,
		m.modelRSquared,
		m.modelSamples,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObservePrediction(level string, elapsed time.Duration) {
	m.ObservePredictions([]string{level}, elapsed)
}

// ObservePredictions counts one prediction per level and records the latency
// of the request that produced them once.
func (m *Metrics) ObservePredictions(levels []string, elapsed time.Duration) {
	if m == nil {
		return
	}
	for _, level := range levels {
		m.predictions.WithLabelValues(level).Inc()
	}
	m.latency.Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveSchemaMismatch() {
	if m == nil {
		return
	}
	m.schemaMismatches.Inc()
}

func (m *Metrics) SetModel(rSquared float64, samples int) {
	if m == nil {
		return
	}
	m.modelRSquared.Set(rSquared)
	m.modelSamples.Set(float64(samples))
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
