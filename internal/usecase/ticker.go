package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"CryptoRadar/internal/domain/models"
	drepo "CryptoRadar/internal/domain/repository"
)

// PriceBook keeps the latest streamed price per symbol so snapshot prices can
// be refreshed between ranking cycles. Safe for concurrent use.
type PriceBook struct {
	mu     sync.RWMutex
	latest map[string]float64 // symbol (upper, no quote suffix) -> price
}

func NewPriceBook() *PriceBook {
	return &PriceBook{latest: make(map[string]float64)}
}

// Apply records one live tick. Stream symbols arrive quoted (BTCUSDT); the
// quote suffix is stripped so they line up with snapshot symbols.
func (b *PriceBook) Apply(_ context.Context, tick *models.Tick) error {
	if tick == nil || tick.Symbol == "" {
		return fmt.Errorf("tick invalid")
	}
	symbol := strings.ToUpper(strings.TrimSuffix(tick.Symbol, "USDT"))

	b.mu.Lock()
	b.latest[symbol] = tick.Price
	b.mu.Unlock()
	return nil
}

// Lookup returns the latest live price for a symbol.
func (b *PriceBook) Lookup(symbol string) (float64, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	price, ok := b.latest[strings.ToUpper(symbol)]
	return price, ok
}

// Overlay substitutes live prices into a snapshot universe where available.
// The input slice is not mutated.
func (b *PriceBook) Overlay(assets []models.AssetSnapshot) []models.AssetSnapshot {
	out := make([]models.AssetSnapshot, len(assets))
	copy(out, assets)
	for i := range out {
		if price, ok := b.Lookup(out[i].Symbol); ok && price > 0 {
			out[i].Price = price
		}
	}
	return out
}

// LiveProvider decorates a MarketDataProvider with the price book so ranking
// cycles see streamed prices that are fresher than the snapshot feed.
type LiveProvider struct {
	inner drepo.MarketDataProvider
	book  *PriceBook
}

func NewLiveProvider(inner drepo.MarketDataProvider, book *PriceBook) *LiveProvider {
	return &LiveProvider{inner: inner, book: book}
}

func (p *LiveProvider) ListAssets(ctx context.Context) ([]models.AssetSnapshot, error) {
	assets, err := p.inner.ListAssets(ctx)
	if err != nil {
		return nil, err
	}
	return p.book.Overlay(assets), nil
}

func (p *LiveProvider) GetHistory(ctx context.Context, assetID string, days int) (models.MarketHistory, error) {
	return p.inner.GetHistory(ctx, assetID, days)
}
