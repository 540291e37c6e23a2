package usecase

import (
	"math"
	"testing"

	"CryptoRadar/internal/domain/models"
)

func TestTargetPrice(t *testing.T) {
	e := NewPriceEngine()
	tests := []struct {
		name    string
		sigType models.SignalType
		entry   float64
		change  float64
		conf    int
		want    float64
	}{
		{"conservative buy", models.SignalBuy, 100, 10, 75, 100 * (1 + 0.05 + 0.10)},
		{"aggressive buy", models.SignalBuy, 100, 10, 85, 100 * (1 + 0.08 + 0.15)},
		{"conservative sell", models.SignalSell, 100, -10, 75, 100 * (1 - 0.05 - 0.10)},
		{"aggressive sell", models.SignalSell, 100, -10, 90, 100 * (1 - 0.08 - 0.15)},
		{"neutral keeps entry", models.SignalNeutral, 100, 10, 90, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Target(tt.sigType, tt.entry, tt.change, tt.conf)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStopLoss(t *testing.T) {
	e := NewPriceEngine()

	// Small move: the 2% floor dominates (ATR proxy 1.5x = 0.006).
	if got := e.Stop(models.SignalBuy, 100, 2); math.Abs(got-98) > 1e-9 {
		t.Errorf("floored buy stop = %v, want 98", got)
	}
	// Large move: ATR term dominates (|20|/100/5*1.5 = 0.06).
	if got := e.Stop(models.SignalBuy, 100, 20); math.Abs(got-94) > 1e-9 {
		t.Errorf("ATR buy stop = %v, want 94", got)
	}
	if got := e.Stop(models.SignalSell, 100, 20); math.Abs(got-106) > 1e-9 {
		t.Errorf("ATR sell stop = %v, want 106", got)
	}
}

func TestSupportResistanceFromLevels(t *testing.T) {
	e := NewPriceEngine()
	levels := []models.Level{
		{Price: 80, Type: models.LevelSupport},
		{Price: 90, Type: models.LevelSupport},
		{Price: 95, Type: models.LevelSupport},
		{Price: 60, Type: models.LevelSupport},
		{Price: 110, Type: models.LevelResistance},
		{Price: 105, Type: models.LevelResistance},
	}

	support, resistance := e.SupportResistance(levels, 100, 5)
	if len(support) != 3 || support[0] != 95 || support[1] != 90 || support[2] != 80 {
		t.Errorf("support = %v, want nearest-first [95 90 80]", support)
	}
	if len(resistance) != 2 || resistance[0] != 105 || resistance[1] != 110 {
		t.Errorf("resistance = %v, want nearest-first [105 110]", resistance)
	}
}

func TestSupportResistanceVolatilityFallback(t *testing.T) {
	e := NewPriceEngine()
	support, resistance := e.SupportResistance(nil, 100, 10) // volatility 0.10

	wantSupport := []float64{95, 90, 85}
	wantResistance := []float64{105, 110, 115}
	for i := range wantSupport {
		if math.Abs(support[i]-wantSupport[i]) > 1e-9 {
			t.Errorf("support[%d] = %v, want %v", i, support[i], wantSupport[i])
		}
		if math.Abs(resistance[i]-wantResistance[i]) > 1e-9 {
			t.Errorf("resistance[%d] = %v, want %v", i, resistance[i], wantResistance[i])
		}
	}
}

func TestPriceAssemblesSignal(t *testing.T) {
	e := NewPriceEngine()
	asset := models.AssetSnapshot{
		ID: "bitcoin", Symbol: "BTC", Name: "Bitcoin",
		Price: 100, Change24h: 10,
	}
	ev := Evaluation{
		Type:       models.SignalBuy,
		Confidence: 75,
		Tier:       1,
		Findings: models.StructuralFindings{
			RSIValue:     28.4,
			MACDHistTail: 0.1234,
			VolumeRatio:  1.8,
			Patterns:     []models.CandlePattern{models.PatternHammer},
		},
	}

	sig := e.Price(asset, ev)
	if sig.Pair != "BTC/USDT" {
		t.Errorf("pair = %q", sig.Pair)
	}
	if sig.EntryPrice != "100.0000" {
		t.Errorf("entry = %q", sig.EntryPrice)
	}
	if sig.TargetPrice != "115.0000" { // 1 + 0.05 + 0.10
		t.Errorf("target = %q", sig.TargetPrice)
	}
	if sig.PotentialGain != "15.00" {
		t.Errorf("gain = %q", sig.PotentialGain)
	}
	// Reward 15, risk 3 (ATR 0.02*1.5=0.03 -> stop 97).
	if sig.RiskReward != "1:5.00" {
		t.Errorf("risk/reward = %q", sig.RiskReward)
	}
	if sig.Indicators.RSI != 28 {
		t.Errorf("rsi = %d", sig.Indicators.RSI)
	}
	if sig.Indicators.MACD != "0.1234" {
		t.Errorf("macd = %q", sig.Indicators.MACD)
	}
	if sig.Indicators.PatternDetected != string(models.PatternHammer) {
		t.Errorf("pattern = %q", sig.Indicators.PatternDetected)
	}
	if len(sig.Support) != 3 || len(sig.Resistance) != 3 {
		t.Errorf("levels: %v / %v", sig.Support, sig.Resistance)
	}
}

func TestRiskRewardZeroDenominator(t *testing.T) {
	e := NewPriceEngine()
	asset := models.AssetSnapshot{ID: "flat", Symbol: "FLT", Price: 0, Change24h: 0}
	sig := e.Price(asset, Evaluation{Type: models.SignalBuy, Confidence: 70, Tier: 3, Findings: models.StructuralFindings{}})
	if sig.RiskReward != "1:1" {
		t.Errorf("risk/reward = %q, want literal 1:1", sig.RiskReward)
	}
}
