package repository

import (
	"context"
	"fmt"
	"time"

	"CryptoRadar/internal/domain/models"
	pkgkafka "CryptoRadar/pkg/kafka"
	applogger "CryptoRadar/pkg/logger"
)

// signalProducer is the slice of pkg/kafka's Producer the publisher needs.
type signalProducer interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	PublishBatch(ctx context.Context, topic string, messages []pkgkafka.Message) error
	Close() error
}

// KafkaSignalPublisher pushes each cycle's ranked signals to a Kafka topic
// for downstream consumers (alerting, archival).
type KafkaSignalPublisher struct {
	producer signalProducer
	topic    string
	l        *applogger.Logger
}

func NewKafkaSignalPublisher(producer signalProducer, topic string, l *applogger.Logger) *KafkaSignalPublisher {
	return &KafkaSignalPublisher{producer: producer, topic: topic, l: l}
}

// signalRecord is the per-signal wire format, keyed by asset ID so
// log-compacted topics retain each asset's latest signal.
type signalRecord struct {
	GeneratedAt int64         `json:"generatedAt"`
	Signal      models.Signal `json:"signal"`
}

// cycleSummary marks a cycle boundary, keyed "cycle" so compaction retains
// the latest cycle's metadata.
type cycleSummary struct {
	GeneratedAt int64 `json:"generatedAt"`
	Count       int   `json:"count"`
}

// Publish sends the ranked list as one batch of per-asset messages followed
// by a cycle summary, so consumers can detect cycle boundaries and gaps.
func (p *KafkaSignalPublisher) Publish(ctx context.Context, signals []models.Signal) error {
	if len(signals) == 0 {
		return nil
	}
	now := time.Now().Unix()

	messages := make([]pkgkafka.Message, 0, len(signals))
	for _, sig := range signals {
		messages = append(messages, pkgkafka.Message{
			Key:   []byte(sig.ID),
			Value: signalRecord{GeneratedAt: now, Signal: sig},
		})
	}

	if err := p.producer.PublishBatch(ctx, p.topic, messages); err != nil {
		if p.l != nil {
			p.l.Error("kafka signal batch publish failed",
				applogger.String("topic", p.topic),
				applogger.Int("signals", len(signals)),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("publish signals: %w", err)
	}

	summary := cycleSummary{GeneratedAt: now, Count: len(signals)}
	if err := p.producer.Publish(ctx, p.topic, []byte("cycle"), summary); err != nil {
		if p.l != nil {
			p.l.Error("kafka cycle summary publish failed",
				applogger.String("topic", p.topic),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("publish cycle summary: %w", err)
	}

	if p.l != nil {
		p.l.Debug("kafka signals published",
			applogger.String("topic", p.topic),
			applogger.Int("signals", len(signals)),
		)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *KafkaSignalPublisher) Close() error {
	return p.producer.Close()
}
