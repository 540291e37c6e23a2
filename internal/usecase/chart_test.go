package usecase

import (
	"context"
	"testing"
	"time"

	"CryptoRadar/internal/domain/models"
)

func TestGetChartProjection(t *testing.T) {
	prices := make([]float64, 90)
	for i := range prices {
		prices[i] = 100 + float64(i)*0.5
	}
	provider := &providerStub{
		histories: map[string]models.MarketHistory{
			"bitcoin": {Prices: prices, Volumes: make([]float64, 90)},
		},
	}
	svc := NewChartService(provider, nil, testLogger(t), time.Minute)

	series, err := svc.GetChart(context.Background(), "bitcoin", 30)
	if err != nil {
		t.Fatalf("get chart: %v", err)
	}
	if series.AssetID != "bitcoin" {
		t.Errorf("asset id = %q", series.AssetID)
	}
	if len(series.Prices) != 90 {
		t.Errorf("prices len = %d", len(series.Prices))
	}
	if len(series.Indicators.SMA20) != 71 { // 90 - 20 + 1
		t.Errorf("sma20 len = %d, want 71", len(series.Indicators.SMA20))
	}
	if len(series.Indicators.EMA20) != 90 {
		t.Errorf("ema20 len = %d, want 90", len(series.Indicators.EMA20))
	}
	if len(series.Indicators.BBUpper) != len(series.Indicators.BBMiddle) {
		t.Error("band series misaligned")
	}
}

func TestGetChartProviderFailure(t *testing.T) {
	provider := &providerStub{
		histErr: map[string]error{"gone": context.DeadlineExceeded},
	}
	svc := NewChartService(provider, nil, testLogger(t), time.Minute)

	if _, err := svc.GetChart(context.Background(), "gone", 30); err == nil {
		t.Fatal("expected provider error to surface")
	}
}
