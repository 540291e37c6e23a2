package logger

import (
	"context"
	"testing"
	"time"
)

type publisherStub struct {
	topics  chan string
	batches chan []AggregatedLogEntry
}

func newPublisherStub() *publisherStub {
	return &publisherStub{
		topics:  make(chan string, 8),
		batches: make(chan []AggregatedLogEntry, 8),
	}
}

func (p *publisherStub) PublishMessage(_ context.Context, topic string, payload interface{}) error {
	logs, ok := payload.([]AggregatedLogEntry)
	if !ok {
		return nil
	}
	p.topics <- topic
	p.batches <- logs
	return nil
}

func (p *publisherStub) waitBatch(t *testing.T) []AggregatedLogEntry {
	t.Helper()
	select {
	case batch := <-p.batches:
		return batch
	case <-time.After(2 * time.Second):
		t.Fatal("no aggregated logs published")
		return nil
	}
}

func TestCollectorFlushesOnCountThreshold(t *testing.T) {
	pub := newPublisherStub()
	c := NewLogCollector(&CollectionConfig{
		TimeInterval:   time.Hour, // only the count threshold should fire
		CountThreshold: 2,
		Topic:          "app.logs",
		Publisher:      pub,
	})
	defer c.Close()

	c.AddLog("error", "cache write failed", map[string]interface{}{"key": "a"}, "cache.go:10")
	c.AddLog("error", "publish failed", map[string]interface{}{"topic": "t"}, "kafka.go:20")

	batch := pub.waitBatch(t)
	if len(batch) != 2 {
		t.Fatalf("batch = %d entries, want 2", len(batch))
	}
	if topic := <-pub.topics; topic != "app.logs" {
		t.Errorf("topic = %q, want app.logs", topic)
	}
}

func TestCollectorDeduplicatesRepeatedLogs(t *testing.T) {
	pub := newPublisherStub()
	c := NewLogCollector(&CollectionConfig{
		TimeInterval:   time.Hour,
		CountThreshold: 10,
		Topic:          "app.logs",
		Publisher:      pub,
	})

	fields := map[string]interface{}{"asset": "bitcoin"}
	for i := 0; i < 3; i++ {
		c.AddLog("error", "history unavailable", fields, "ranking.go:130")
	}
	c.Close() // final flush

	batch := pub.waitBatch(t)
	if len(batch) != 1 {
		t.Fatalf("batch = %d entries, want 1 deduplicated entry", len(batch))
	}
	if batch[0].Count != 3 {
		t.Errorf("count = %d, want 3", batch[0].Count)
	}
	if batch[0].Message != "history unavailable" {
		t.Errorf("message = %q", batch[0].Message)
	}
}
