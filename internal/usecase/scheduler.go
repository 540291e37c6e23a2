package usecase

import (
	"context"
	"sync"
	"time"

	"CryptoRadar/internal/domain/models"
	drepo "CryptoRadar/internal/domain/repository"
	"CryptoRadar/pkg/cache"
	"CryptoRadar/pkg/logger"
)

var signalsCacheKey = cache.GenerateKey("signals", "latest")

// Scheduler runs the ranking pipeline on a fixed interval and keeps the
// latest ranked list available to the HTTP layer. Optionally publishes each
// cycle downstream and mirrors it into the cache.
type Scheduler struct {
	pipeline  *RankingPipeline
	publisher drepo.SignalPublisher
	cache     cache.Service
	log       *logger.Logger
	interval  time.Duration
	ttl       time.Duration

	mu      sync.RWMutex
	latest  []models.Signal
	lastRun time.Time
}

func NewScheduler(
	pipeline *RankingPipeline,
	publisher drepo.SignalPublisher,
	c cache.Service,
	log *logger.Logger,
	interval, ttl time.Duration,
) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{
		pipeline:  pipeline,
		publisher: publisher,
		cache:     c,
		log:       log,
		interval:  interval,
		ttl:       ttl,
	}
}

// Start runs cycles until the context is cancelled. The first cycle fires
// immediately so the API has data as soon as possible.
func (s *Scheduler) Start(ctx context.Context) {
	s.RunOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce executes one ranking cycle. A failed cycle keeps the previous
// list; the API never goes empty because of one bad cycle.
func (s *Scheduler) RunOnce(ctx context.Context) {
	signals, err := s.pipeline.Run(ctx)
	if err != nil {
		s.log.Error("ranking cycle failed, keeping previous signals", logger.Error(err))
		return
	}

	s.mu.Lock()
	s.latest = signals
	s.lastRun = time.Now()
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.Set(ctx, signalsCacheKey, signals, s.ttl); err != nil {
			s.log.Warn("signals cache write failed", logger.Error(err))
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, signals); err != nil {
			s.log.Warn("signals publish failed", logger.Error(err))
		}
	}
}

// Latest returns the most recent ranked list and its cycle time.
func (s *Scheduler) Latest() ([]models.Signal, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, s.lastRun
}
