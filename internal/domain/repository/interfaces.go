package repository

import (
	"context"

	"CryptoRadar/internal/domain/models"
)

// MarketDataProvider supplies the asset universe and per-asset lookback
// series. Retrieval failures mean "data unavailable for this asset"; the
// pipeline skips the asset and continues the cycle.
type MarketDataProvider interface {
	ListAssets(ctx context.Context) ([]models.AssetSnapshot, error)
	GetHistory(ctx context.Context, assetID string, days int) (models.MarketHistory, error)
}

// TickStream is a live market feed used to refresh snapshot prices between
// ranking cycles.
type TickStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Tick, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// SignalPublisher pushes a cycle's ranked signals to downstream consumers.
type SignalPublisher interface {
	Publish(ctx context.Context, signals []models.Signal) error
	Close() error
}

// Metrics records pipeline observability counters.
type Metrics interface {
	RecordSignal(signalType string)
	RecordSkipped(reason string)
	RecordFallback(tier string)
	RecordError(kind string)
	RecordConfidence(asset string, confidence float64)
	RecordLatency(op string, seconds float64)
}
