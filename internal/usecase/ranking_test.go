package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"CryptoRadar/internal/analysis"
	"CryptoRadar/internal/domain/models"
	"CryptoRadar/pkg/logger"
)

type providerStub struct {
	assets    []models.AssetSnapshot
	histories map[string]models.MarketHistory
	listErr   error
	histErr   map[string]error
}

func (p *providerStub) ListAssets(_ context.Context) ([]models.AssetSnapshot, error) {
	return p.assets, p.listErr
}

func (p *providerStub) GetHistory(_ context.Context, assetID string, _ int) (models.MarketHistory, error) {
	if err, ok := p.histErr[assetID]; ok {
		return models.MarketHistory{}, err
	}
	return p.histories[assetID], nil
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func newTestPipeline(t *testing.T, provider *providerStub, cfg RankingConfig) *RankingPipeline {
	t.Helper()
	m := newMetricsStub()
	return NewRankingPipeline(
		provider,
		NewSynthesizer(analysis.NewAnalyzer(), m),
		NewPriceEngine(),
		m,
		testLogger(t),
		cfg,
	)
}

// momentumUniverse builds n assets that all resolve through the momentum
// tier with distinct confidences.
func momentumUniverse(n int) []models.AssetSnapshot {
	assets := make([]models.AssetSnapshot, 0, n)
	for i := 0; i < n; i++ {
		assets = append(assets, models.AssetSnapshot{
			ID:        fmt.Sprintf("asset-%02d", i),
			Symbol:    fmt.Sprintf("A%02d", i),
			Name:      fmt.Sprintf("Asset %02d", i),
			Price:     100,
			Change24h: 26 + float64(i)*0.1, // conf 78..95, gain well above threshold
			MarketCap: 1_000_000,
			Volume24h: 10_000,
		})
	}
	return assets
}

func TestRunRanksAndTruncates(t *testing.T) {
	provider := &providerStub{assets: momentumUniverse(30)}
	p := newTestPipeline(t, provider, RankingConfig{
		Workers: 4, MinConfidence: 70, MinGainPct: 3, MaxSignals: 20, LookbackDays: 30,
	})

	signals, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(signals) > 20 {
		t.Fatalf("len = %d, want <= 20", len(signals))
	}
	for i := 1; i < len(signals); i++ {
		if signals[i].Confidence > signals[i-1].Confidence {
			t.Fatalf("not sorted at %d: %d > %d", i, signals[i].Confidence, signals[i-1].Confidence)
		}
	}
	for _, sig := range signals {
		if sig.Type == models.SignalNeutral {
			t.Errorf("NEUTRAL signal leaked: %+v", sig)
		}
		if sig.Confidence <= 70 {
			t.Errorf("below-threshold signal leaked: %+v", sig)
		}
	}
}

func TestRunDeterministic(t *testing.T) {
	provider := &providerStub{assets: momentumUniverse(25)}
	cfg := RankingConfig{Workers: 8, MinConfidence: 70, MinGainPct: 3, MaxSignals: 20, LookbackDays: 30}

	first, err := newTestPipeline(t, provider, cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := newTestPipeline(t, provider, cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Error("repeated runs over identical input produced different signal lists")
	}
}

func TestRunSkipsFailedAssetsWithoutAborting(t *testing.T) {
	assets := momentumUniverse(5)
	provider := &providerStub{
		assets:  assets,
		histErr: map[string]error{assets[2].ID: errors.New("provider down")},
	}
	p := newTestPipeline(t, provider, RankingConfig{
		Workers: 2, MinConfidence: 70, MinGainPct: 3, MaxSignals: 20, LookbackDays: 30,
	})

	signals, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(signals) != 4 {
		t.Errorf("len = %d, want the 4 assets with history", len(signals))
	}
	for _, sig := range signals {
		if sig.ID == assets[2].ID {
			t.Errorf("asset with failed history fetch produced a signal: %+v", sig)
		}
	}
}

func TestRunDropsAssetWhenHistoryFetchFails(t *testing.T) {
	// A strong 24h move is not enough: a fetch error means data unavailable
	// for the asset, and the fallback tiers must not synthesize from the
	// snapshot alone.
	asset := models.AssetSnapshot{
		ID: "bitcoin", Symbol: "BTC", Name: "Bitcoin",
		Price: 100, Change24h: 12, MarketCap: 1_000_000, Volume24h: 10_000,
	}
	provider := &providerStub{
		assets:  []models.AssetSnapshot{asset},
		histErr: map[string]error{asset.ID: errors.New("provider down")},
	}
	p := newTestPipeline(t, provider, RankingConfig{
		Workers: 1, MinConfidence: 70, MinGainPct: 3, MaxSignals: 20, LookbackDays: 30,
	})

	signals, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(signals) != 0 {
		t.Fatalf("len = %d, want 0: %+v", len(signals), signals)
	}
}

func TestRunListFailure(t *testing.T) {
	provider := &providerStub{listErr: errors.New("universe unavailable")}
	p := newTestPipeline(t, provider, RankingConfig{Workers: 2, MaxSignals: 20})

	if _, err := p.Run(context.Background()); err == nil {
		t.Fatal("expected error when the universe cannot be listed")
	}
}

func TestRunEmptyUniverse(t *testing.T) {
	p := newTestPipeline(t, &providerStub{}, RankingConfig{Workers: 2, MaxSignals: 20})
	signals, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(signals) != 0 {
		t.Errorf("len = %d, want 0", len(signals))
	}
}

func TestRankTiebreakByGainThenID(t *testing.T) {
	p := newTestPipeline(t, &providerStub{}, RankingConfig{MinConfidence: 50, MinGainPct: 1, MaxSignals: 20})
	results := []models.Signal{
		{ID: "b", Type: models.SignalBuy, Confidence: 80, GainValue: 5},
		{ID: "a", Type: models.SignalBuy, Confidence: 80, GainValue: 5},
		{ID: "c", Type: models.SignalBuy, Confidence: 80, GainValue: 9},
		{ID: "d", Type: models.SignalSell, Confidence: 90, GainValue: -4},
	}
	evaluated := []bool{true, true, true, true}

	ranked := p.rank(results, evaluated)
	wantOrder := []string{"d", "c", "a", "b"}
	if len(ranked) != len(wantOrder) {
		t.Fatalf("len = %d, want %d", len(ranked), len(wantOrder))
	}
	for i, id := range wantOrder {
		if ranked[i].ID != id {
			t.Errorf("position %d = %s, want %s", i, ranked[i].ID, id)
		}
	}
}
