package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"CryptoRadar/internal/domain/models"
)

type publisherStub struct {
	published [][]models.Signal
	err       error
}

func (p *publisherStub) Publish(_ context.Context, signals []models.Signal) error {
	p.published = append(p.published, signals)
	return p.err
}

func (p *publisherStub) Close() error { return nil }

func TestRunOncePublishesAndExposesLatest(t *testing.T) {
	provider := &providerStub{assets: momentumUniverse(5)}
	pipeline := newTestPipeline(t, provider, RankingConfig{
		Workers: 2, MinConfidence: 70, MinGainPct: 3, MaxSignals: 20, LookbackDays: 30,
	})
	pub := &publisherStub{}
	s := NewScheduler(pipeline, pub, nil, testLogger(t), time.Minute, time.Minute)

	s.RunOnce(context.Background())

	latest, lastRun := s.Latest()
	if len(latest) != 5 {
		t.Fatalf("latest = %d signals, want 5", len(latest))
	}
	if lastRun.IsZero() {
		t.Fatal("lastRun not set after successful cycle")
	}
	if len(pub.published) != 1 || len(pub.published[0]) != 5 {
		t.Fatalf("published = %v cycles, want 1 cycle of 5", len(pub.published))
	}
}

func TestRunOnceKeepsPreviousListOnFailure(t *testing.T) {
	provider := &providerStub{assets: momentumUniverse(5)}
	pipeline := newTestPipeline(t, provider, RankingConfig{
		Workers: 2, MinConfidence: 70, MinGainPct: 3, MaxSignals: 20, LookbackDays: 30,
	})
	s := NewScheduler(pipeline, nil, nil, testLogger(t), time.Minute, time.Minute)

	s.RunOnce(context.Background())
	before, beforeRun := s.Latest()
	if len(before) == 0 {
		t.Fatal("expected signals from first cycle")
	}

	provider.listErr = errors.New("provider down")
	s.RunOnce(context.Background())

	after, afterRun := s.Latest()
	if len(after) != len(before) {
		t.Fatalf("failed cycle replaced signals: %d -> %d", len(before), len(after))
	}
	if !afterRun.Equal(beforeRun) {
		t.Fatal("failed cycle advanced lastRun")
	}
}
