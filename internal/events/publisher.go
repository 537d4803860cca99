// Package events publishes analysis results and red-flag alerts to Kafka.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"ai-call-readiness-service/internal/models"
	"ai-call-readiness-service/internal/observability/metrics"
)

// AnalysisEvent is the payload published after each analysis pass.
type AnalysisEvent struct {
	EventType string                 `json:"eventType"`
	SessionID string                 `json:"sessionId"`
	Timestamp int64                  `json:"timestamp"`
	Result    *models.AnalysisResult `json:"result"`
}

// AlertEvent is the payload published for a high-severity red flag.
type AlertEvent struct {
	EventType string         `json:"eventType"`
	SessionID string         `json:"sessionId"`
	Timestamp int64          `json:"timestamp"`
	Flag      models.RedFlag `json:"flag"`
}

// Publisher publishes readiness events to separate Kafka topics.
type Publisher struct {
	writerAnalysis *kafka.Writer
	writerAlerts   *kafka.Writer
	principal      string
	topicAnalysis  string
	topicAlerts    string
	enabled        bool
	metrics        *metrics.Metrics
}

// Config holds Kafka publisher configuration.
type Config struct {
	Brokers       []string
	TopicAnalysis string
	TopicAlerts   string
	Principal     string
	Enabled       bool
}

// New creates a new Kafka event publisher with separate topics for analysis
// snapshots and red-flag alerts. A disabled publisher logs instead of writing.
func New(cfg *Config) *Publisher {
	m := metrics.DefaultMetrics

	if cfg == nil {
		log.Info().Msg("Kafka disabled (nil config), using log-only mode")
		return &Publisher{
			enabled: false,
			metrics: m,
		}
	}

	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		log.Info().Msg("Kafka disabled, using log-only mode")
		return &Publisher{
			principal:     cfg.Principal,
			topicAnalysis: cfg.TopicAnalysis,
			topicAlerts:   cfg.TopicAlerts,
			enabled:       false,
			metrics:       m,
		}
	}

	// Longer dial timeouts for DNS resolution in Kubernetes
	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}

	transport := &kafka.Transport{
		Dial: dialer.DialFunc,
	}

	writerAnalysis := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.TopicAnalysis,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
		Transport:    transport,
	}

	writerAlerts := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.TopicAlerts,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
		Transport:    transport,
	}

	log.Info().
		Strs("brokers", cfg.Brokers).
		Str("topicAnalysis", cfg.TopicAnalysis).
		Str("topicAlerts", cfg.TopicAlerts).
		Str("principal", cfg.Principal).
		Msg("Kafka publisher initialized")

	return &Publisher{
		writerAnalysis: writerAnalysis,
		writerAlerts:   writerAlerts,
		principal:      cfg.Principal,
		topicAnalysis:  cfg.TopicAnalysis,
		topicAlerts:    cfg.TopicAlerts,
		enabled:        true,
		metrics:        m,
	}
}

// PublishAnalysis publishes an analysis snapshot, keyed by session id.
func (p *Publisher) PublishAnalysis(ctx context.Context, sessionID string, result *models.AnalysisResult) error {
	ev := AnalysisEvent{
		EventType: "call.readiness.analysis",
		SessionID: sessionID,
		Timestamp: time.Now().UnixMilli(),
		Result:    result,
	}
	return p.publish(ctx, p.writerAnalysis, p.topicAnalysis, "analysis", sessionID, ev)
}

// PublishAlert publishes a red-flag alert, keyed by session id.
func (p *Publisher) PublishAlert(ctx context.Context, sessionID string, flag models.RedFlag) error {
	ev := AlertEvent{
		EventType: "call.readiness.alert",
		SessionID: sessionID,
		Timestamp: time.Now().UnixMilli(),
		Flag:      flag,
	}
	return p.publish(ctx, p.writerAlerts, p.topicAlerts, "alert", sessionID, ev)
}

// publish is the internal method that writes to a specific Kafka writer.
func (p *Publisher) publish(ctx context.Context, writer *kafka.Writer, topic, eventType, key string, event any) error {
	start := time.Now()

	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Failed to marshal event")
		return err
	}

	log.Debug().
		Str("principal", p.principal).
		Str("topic", topic).
		Str("key", key).
		RawJSON("payload", payload).
		Msg("Publishing event")

	// If Kafka is disabled, just log
	if !p.enabled || writer == nil {
		p.metrics.RecordKafkaPublish(topic, eventType, nil, time.Since(start).Seconds())
		return nil
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "eventType", Value: []byte(eventType)},
			{Key: "principal", Value: []byte(p.principal)},
		},
	}

	if err := writer.WriteMessages(ctx, msg); err != nil {
		log.Error().
			Err(err).
			Str("topic", topic).
			Str("key", key).
			Msg("Failed to write to Kafka")
		p.metrics.RecordKafkaPublish(topic, eventType, err, time.Since(start).Seconds())
		return err
	}

	p.metrics.RecordKafkaPublish(topic, eventType, nil, time.Since(start).Seconds())
	return nil
}

// Close closes both Kafka writers.
func (p *Publisher) Close() error {
	var err error
	if p.writerAnalysis != nil {
		if e := p.writerAnalysis.Close(); e != nil {
			log.Error().Err(e).Msg("Error closing analysis writer")
			err = e
		}
	}
	if p.writerAlerts != nil {
		if e := p.writerAlerts.Close(); e != nil {
			log.Error().Err(e).Msg("Error closing alerts writer")
			err = e
		}
	}
	return err
}
