package usecase

import (
	"context"
	"testing"

	"CryptoRadar/internal/domain/models"
)

func TestPriceBookOverlay(t *testing.T) {
	book := NewPriceBook()
	ctx := context.Background()

	if err := book.Apply(ctx, &models.Tick{Symbol: "BTCUSDT", Price: 50100, Timestamp: 1}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := book.Apply(ctx, &models.Tick{Symbol: "ETHUSDT", Price: 3010, Timestamp: 1}); err != nil {
		t.Fatalf("apply: %v", err)
	}

	assets := []models.AssetSnapshot{
		{ID: "bitcoin", Symbol: "BTC", Price: 50000},
		{ID: "ethereum", Symbol: "ETH", Price: 3000},
		{ID: "cardano", Symbol: "ADA", Price: 0.5},
	}
	overlaid := book.Overlay(assets)

	if overlaid[0].Price != 50100 || overlaid[1].Price != 3010 {
		t.Errorf("live prices not applied: %v / %v", overlaid[0].Price, overlaid[1].Price)
	}
	if overlaid[2].Price != 0.5 {
		t.Errorf("unstreamed asset price changed: %v", overlaid[2].Price)
	}
	if assets[0].Price != 50000 {
		t.Error("input slice mutated")
	}
}

func TestPriceBookRejectsInvalidTick(t *testing.T) {
	book := NewPriceBook()
	if err := book.Apply(context.Background(), nil); err == nil {
		t.Error("nil tick accepted")
	}
	if err := book.Apply(context.Background(), &models.Tick{}); err == nil {
		t.Error("empty symbol accepted")
	}
}
