package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	signalsTotal  *prometheus.CounterVec
	skippedTotal  *prometheus.CounterVec
	fallbackTotal *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	confidence    *prometheus.GaugeVec
	latency       *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		signalsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cryptoradar_signals_total",
				Help: "Total number of signals produced per type",
			},
			[]string{"type"},
		),
		skippedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cryptoradar_assets_skipped_total",
				Help: "Total number of assets skipped per reason",
			},
			[]string{"reason"},
		),
		fallbackTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cryptoradar_fallback_total",
				Help: "Total evaluations resolved by each analysis tier",
			},
			[]string{"tier"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cryptoradar_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		confidence: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "cryptoradar_last_confidence",
				Help: "Confidence of the most recent signal for an asset",
			},
			[]string{"asset"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cryptoradar_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordSignal records a produced signal by type.
func (r *Recorder) RecordSignal(signalType string) {
	r.signalsTotal.WithLabelValues(signalType).Inc()
}

// RecordSkipped records an asset skipped during a ranking cycle.
func (r *Recorder) RecordSkipped(reason string) {
	r.skippedTotal.WithLabelValues(reason).Inc()
}

// RecordFallback records which analysis tier resolved an evaluation.
func (r *Recorder) RecordFallback(tier string) {
	r.fallbackTotal.WithLabelValues(tier).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordConfidence records the last confidence for an asset.
func (r *Recorder) RecordConfidence(asset string, confidence float64) {
	r.confidence.WithLabelValues(asset).Set(confidence)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
