// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "call_readiness"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Session metrics
	SessionsTotal     prometheus.Counter
	SessionsLive      prometheus.Gauge
	SessionsEnded     prometheus.Counter
	SessionsAbandoned *prometheus.CounterVec

	// Transcript metrics
	ChunksReceived prometheus.Counter
	ChunksRejected *prometheus.CounterVec

	// Analysis metrics
	AnalysesTotal    prometheus.Counter
	AnalysesBaseline prometheus.Counter
	AnalysisDuration prometheus.Histogram
	ReadinessZone    *prometheus.CounterVec
	TruthRuleFired   *prometheus.CounterVec
	RedFlagsDetected *prometheus.CounterVec

	// Kafka publish metrics
	KafkaPublishTotal   *prometheus.CounterVec
	KafkaPublishErrors  *prometheus.CounterVec
	KafkaPublishLatency *prometheus.HistogramVec
}

// DefaultMetrics is the global metrics instance.
var DefaultMetrics = NewMetrics()

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		SessionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_total",
			Help:      "Total number of call sessions created",
		}),
		SessionsLive: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_live",
			Help:      "Number of currently live call sessions",
		}),
		SessionsEnded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_ended_total",
			Help:      "Total number of sessions ended normally",
		}),
		SessionsAbandoned: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_abandoned_total",
			Help:      "Total number of sessions abandoned",
		}, []string{"reason"}),

		ChunksReceived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_received_total",
			Help:      "Total number of transcript chunks received",
		}),
		ChunksRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_rejected_total",
			Help:      "Total number of transcript chunks rejected",
		}, []string{"reason"}),

		AnalysesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Total number of full analysis passes",
		}),
		AnalysesBaseline: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_baseline_total",
			Help:      "Total number of baseline results for short conversations",
		}),
		AnalysisDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Duration of one analysis pass in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		ReadinessZone: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "readiness_zone_total",
			Help:      "Analysis passes by resulting readiness zone",
		}, []string{"zone"}),
		TruthRuleFired: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "truth_rule_fired_total",
			Help:      "Truth-index penalty rules triggered",
		}, []string{"rule"}),
		RedFlagsDetected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "red_flags_total",
			Help:      "Red flags detected by severity",
		}, []string{"severity"}),

		KafkaPublishTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_total",
			Help:      "Total number of Kafka messages published",
		}, []string{"topic", "event_type"}),
		KafkaPublishErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_errors_total",
			Help:      "Total number of Kafka publish errors",
		}, []string{"topic", "event_type"}),
		KafkaPublishLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_publish_latency_seconds",
			Help:      "Kafka publish latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"topic"}),
	}
}

// RecordSessionCreated records a new session starting.
func (m *Metrics) RecordSessionCreated() {
	m.SessionsTotal.Inc()
	m.SessionsLive.Inc()
}

// RecordSessionEnded records a session ending normally.
func (m *Metrics) RecordSessionEnded() {
	m.SessionsLive.Dec()
	m.SessionsEnded.Inc()
}

// RecordSessionAbandoned records a session being abandoned.
func (m *Metrics) RecordSessionAbandoned(reason string) {
	m.SessionsLive.Dec()
	m.SessionsAbandoned.WithLabelValues(reason).Inc()
}

// RecordChunk records a transcript chunk received.
func (m *Metrics) RecordChunk() {
	m.ChunksReceived.Inc()
}

// RecordChunkRejected records a rejected transcript chunk.
func (m *Metrics) RecordChunkRejected(reason string) {
	m.ChunksRejected.WithLabelValues(reason).Inc()
}

// RecordAnalysis records one analysis pass and its resulting zone.
func (m *Metrics) RecordAnalysis(zone string, durationSeconds float64) {
	m.AnalysesTotal.Inc()
	m.AnalysisDuration.Observe(durationSeconds)
	m.ReadinessZone.WithLabelValues(zone).Inc()
}

// RecordBaseline records a baseline result returned for a short conversation.
func (m *Metrics) RecordBaseline() {
	m.AnalysesBaseline.Inc()
}

// RecordTruthRule records a triggered truth-index rule.
func (m *Metrics) RecordTruthRule(rule string) {
	m.TruthRuleFired.WithLabelValues(rule).Inc()
}

// RecordRedFlag records a detected red flag.
func (m *Metrics) RecordRedFlag(severity string) {
	m.RedFlagsDetected.WithLabelValues(severity).Inc()
}

// RecordKafkaPublish records a Kafka publish attempt.
func (m *Metrics) RecordKafkaPublish(topic, eventType string, err error, latencySeconds float64) {
	m.KafkaPublishTotal.WithLabelValues(topic, eventType).Inc()
	m.KafkaPublishLatency.WithLabelValues(topic).Observe(latencySeconds)
	if err != nil {
		m.KafkaPublishErrors.WithLabelValues(topic, eventType).Inc()
	}
}
