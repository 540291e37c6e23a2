package repository

import (
	"context"
	"errors"
	"testing"

	"CryptoRadar/internal/domain/models"
	pkgkafka "CryptoRadar/pkg/kafka"
)

type producerStub struct {
	batches   [][]pkgkafka.Message
	singles   []pkgkafka.Message
	batchErr  error
	singleErr error
	closed    bool
}

func (p *producerStub) Publish(_ context.Context, _ string, key []byte, value interface{}) error {
	p.singles = append(p.singles, pkgkafka.Message{Key: key, Value: value})
	return p.singleErr
}

func (p *producerStub) PublishBatch(_ context.Context, _ string, messages []pkgkafka.Message) error {
	p.batches = append(p.batches, messages)
	return p.batchErr
}

func (p *producerStub) Close() error {
	p.closed = true
	return nil
}

func rankedSignals() []models.Signal {
	return []models.Signal{
		{ID: "bitcoin", Type: models.SignalBuy, Confidence: 90},
		{ID: "ethereum", Type: models.SignalSell, Confidence: 85},
	}
}

func TestPublishSendsPerAssetBatchAndCycleSummary(t *testing.T) {
	stub := &producerStub{}
	pub := NewKafkaSignalPublisher(stub, "signals", nil)

	if err := pub.Publish(context.Background(), rankedSignals()); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(stub.batches) != 1 || len(stub.batches[0]) != 2 {
		t.Fatalf("batches = %+v, want one batch of 2", stub.batches)
	}
	wantKeys := []string{"bitcoin", "ethereum"}
	for i, msg := range stub.batches[0] {
		if string(msg.Key) != wantKeys[i] {
			t.Errorf("key %d = %q, want %q", i, msg.Key, wantKeys[i])
		}
		record, ok := msg.Value.(signalRecord)
		if !ok {
			t.Fatalf("value %d is %T, want signalRecord", i, msg.Value)
		}
		if record.Signal.ID != wantKeys[i] {
			t.Errorf("record %d signal = %q, want %q", i, record.Signal.ID, wantKeys[i])
		}
	}

	if len(stub.singles) != 1 || string(stub.singles[0].Key) != "cycle" {
		t.Fatalf("singles = %+v, want one cycle summary", stub.singles)
	}
	summary, ok := stub.singles[0].Value.(cycleSummary)
	if !ok {
		t.Fatalf("summary is %T, want cycleSummary", stub.singles[0].Value)
	}
	if summary.Count != 2 {
		t.Errorf("summary count = %d, want 2", summary.Count)
	}
}

func TestPublishEmptyListIsNoop(t *testing.T) {
	stub := &producerStub{}
	pub := NewKafkaSignalPublisher(stub, "signals", nil)

	if err := pub.Publish(context.Background(), nil); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(stub.batches) != 0 || len(stub.singles) != 0 {
		t.Error("empty cycle still published messages")
	}
}

func TestPublishSurfacesBatchError(t *testing.T) {
	stub := &producerStub{batchErr: errors.New("broker down")}
	pub := NewKafkaSignalPublisher(stub, "signals", nil)

	if err := pub.Publish(context.Background(), rankedSignals()); err == nil {
		t.Fatal("expected error from failed batch publish")
	}
	if len(stub.singles) != 0 {
		t.Error("cycle summary published despite failed batch")
	}
}

func TestCloseClosesProducer(t *testing.T) {
	stub := &producerStub{}
	pub := NewKafkaSignalPublisher(stub, "signals", nil)

	if err := pub.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !stub.closed {
		t.Error("underlying producer not closed")
	}
}
