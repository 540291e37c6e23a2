package analysis

import (
	"math"
	"testing"

	"CryptoRadar/internal/domain/models"
	"CryptoRadar/internal/indicators"
)

// zigzag builds a piecewise-linear series through the given anchor points.
func zigzag(anchors []struct {
	idx   int
	price float64
}) []float64 {
	last := anchors[len(anchors)-1]
	out := make([]float64, last.idx+1)
	for a := 0; a < len(anchors)-1; a++ {
		from, to := anchors[a], anchors[a+1]
		span := to.idx - from.idx
		for i := 0; i <= span; i++ {
			out[from.idx+i] = from.price + (to.price-from.price)*float64(i)/float64(span)
		}
	}
	return out
}

func TestDetectSwingsReportsSupportLow(t *testing.T) {
	// Clear local minimum flanked by higher values on both sides.
	prices := make([]float64, 25)
	for i := range prices {
		prices[i] = 100 + math.Abs(float64(i-12))*2
	}
	pivots := DetectSwings(prices, 10)

	foundLow := false
	for _, p := range pivots {
		if !p.High && p.Index == 12 {
			foundLow = true
		}
	}
	if !foundLow {
		t.Fatalf("expected swing low at index 12, got %+v", pivots)
	}
}

func TestDetectSwingsBareMinMaxFallback(t *testing.T) {
	// Monotone series has no interior extrema; the window min/max stand in.
	prices := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	pivots := DetectSwings(prices, 10)
	highs, lows := SwingPrices(pivots)
	if len(highs) == 0 || len(lows) == 0 {
		t.Fatalf("expected fallback high and low, got highs=%v lows=%v", highs, lows)
	}
	if highs[len(highs)-1] != 10 || lows[0] != 1 {
		t.Errorf("fallback should use window extremes, got highs=%v lows=%v", highs, lows)
	}
}

func TestKeyLevelsClusterMerging(t *testing.T) {
	// Two sharp lows near 100 (within 3%) and one high near 150.
	prices := zigzag([]struct {
		idx   int
		price float64
	}{{0, 120}, {6, 100}, {12, 150}, {18, 101}, {24, 130}})

	levels := KeyLevels(prices, 5)
	if len(levels) == 0 {
		t.Fatal("expected at least one level")
	}
	for _, lvl := range levels {
		if lvl.Strength < 1 || lvl.Strength > 10 {
			t.Errorf("strength out of [1,10]: %+v", lvl)
		}
	}
	// The two lows around 100/101 must merge into a single support cluster.
	supports := 0
	for _, lvl := range levels {
		if lvl.Type == models.LevelSupport && lvl.Price > 95 && lvl.Price < 105 {
			supports++
		}
	}
	if supports != 1 {
		t.Errorf("expected one merged support cluster near 100, levels=%+v", levels)
	}
}

func TestDetectDivergenceBullish(t *testing.T) {
	// Price prints successively lower lows while RSI lows rise.
	prices := []float64{10, 9, 10, 8.5, 10, 8, 10, 7.5, 10, 7, 10, 6.5, 10, 9}
	rsi := []float64{50, 40, 50, 42, 50, 44, 50, 46, 50, 48, 50, 49, 50, 49.5}
	if got := DetectDivergence(prices, rsi); got != models.DivergenceBullish {
		t.Errorf("got %v, want BULLISH", got)
	}
}

func TestDetectDivergenceNoneOnFlat(t *testing.T) {
	flat := make([]float64, 14)
	for i := range flat {
		flat[i] = 5
	}
	if got := DetectDivergence(flat, flat); got != models.DivergenceNone {
		t.Errorf("got %v, want NONE", got)
	}
}

func TestDetectCross(t *testing.T) {
	if !DetectCross([]float64{1, 3}, []float64{2, 2}, true) {
		t.Error("golden cross not detected")
	}
	if !DetectCross([]float64{3, 1}, []float64{2, 2}, false) {
		t.Error("death cross not detected")
	}
	if DetectCross([]float64{3, 4}, []float64{2, 2}, true) {
		t.Error("no cross when short MA stays above")
	}
	if DetectCross([]float64{3}, []float64{2, 2}, true) {
		t.Error("single-point series cannot cross")
	}
}

func TestDetectMACDCrossover(t *testing.T) {
	tests := []struct {
		name string
		hist []float64
		want models.CrossoverTag
	}{
		{"bullish flip", []float64{-0.5, 0.2}, models.CrossoverBullish},
		{"bearish flip", []float64{0.5, -0.2}, models.CrossoverBearish},
		{"no flip", []float64{0.5, 0.7}, models.CrossoverNone},
		{"too short", []float64{0.5}, models.CrossoverNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectMACDCrossover(indicators.MACDResult{Histogram: tt.hist})
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectBollingerSqueeze(t *testing.T) {
	upper := make([]float64, 20)
	lower := make([]float64, 20)
	for i := range upper {
		upper[i] = 110
		lower[i] = 90
	}
	// Narrow the final width well below 0.8x the average.
	upper[19] = 101
	lower[19] = 99
	if !DetectBollingerSqueeze(upper, lower, 20) {
		t.Error("squeeze not detected")
	}

	upper[19] = 110
	lower[19] = 90
	if DetectBollingerSqueeze(upper, lower, 20) {
		t.Error("squeeze misfired on constant width")
	}
}

func TestDetectBollingerBreakout(t *testing.T) {
	upper := []float64{110, 110}
	lower := []float64{90, 90}
	if got := DetectBollingerBreakout([]float64{105, 115}, upper, lower); got != models.BreakoutUp {
		t.Errorf("got %v, want UP", got)
	}
	if got := DetectBollingerBreakout([]float64{95, 85}, upper, lower); got != models.BreakoutDown {
		t.Errorf("got %v, want DOWN", got)
	}
	if got := DetectBollingerBreakout([]float64{100, 105}, upper, lower); got != models.BreakoutNone {
		t.Errorf("got %v, want NONE", got)
	}
}

func TestDetectCandlePatterns(t *testing.T) {
	tests := []struct {
		name   string
		prices []float64
		want   models.CandlePattern
	}{
		{"hammer", []float64{100, 90, 95}, models.PatternHammer},
		{"shooting star", []float64{90, 100, 95}, models.PatternShootingStar},
		{"bullish engulfing", []float64{100, 90, 101}, models.PatternBullishEngulfing},
		{"bearish engulfing", []float64{90, 100, 89}, models.PatternBearishEngulfing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectCandlePatterns(tt.prices)
			found := false
			for _, p := range got {
				if p == tt.want {
					found = true
				}
			}
			if !found {
				t.Errorf("patterns %v missing %v", got, tt.want)
			}
		})
	}

	if got := DetectCandlePatterns([]float64{1, 2}); got != nil {
		t.Errorf("short series should yield no patterns, got %v", got)
	}
}

func TestTrendStrength(t *testing.T) {
	// All MAs aligned bullish plus RSI 75 saturates at the +1 clamp.
	if got := TrendStrength([]float64{3}, []float64{2}, []float64{1}, 75); got != 1 {
		t.Errorf("got %v, want 1", got)
	}
	// Mirror bearish saturates at -1.
	if got := TrendStrength([]float64{1}, []float64{2}, []float64{3}, 25); got != -1 {
		t.Errorf("got %v, want -1", got)
	}
	// Neutral RSI with mixed MAs stays inside the clamp.
	got := TrendStrength([]float64{3}, []float64{2}, []float64{3}, 50)
	if math.Abs(got-(-0.2)) > 1e-9 {
		t.Errorf("got %v, want -0.2", got)
	}
}

func TestDetectHarmonicsGartley(t *testing.T) {
	// X=100 -> A=200 -> B=138.2 -> C=176.4: AB/XA = 0.618, BC/AB = 0.618.
	prices := zigzag([]struct {
		idx   int
		price float64
	}{{0, 100}, {7, 200}, {14, 138.2}, {21, 176.4}, {29, 150}})

	matches := DetectHarmonics(prices, 10)
	found := false
	for _, m := range matches {
		if m.Name == "GARTLEY" {
			found = true
			if !m.Bullish {
				t.Error("X->A leg points up, match should be bullish")
			}
			if m.Confidence < 90 {
				t.Errorf("near-exact ratios should score high, got %v", m.Confidence)
			}
		}
	}
	if !found {
		t.Fatalf("GARTLEY not matched, matches=%+v", matches)
	}
}

func TestDetectFairValueGaps(t *testing.T) {
	gaps := DetectFairValueGaps([]float64{100, 101.5, 103})
	if len(gaps) != 1 || !gaps[0].Bullish {
		t.Fatalf("expected one bullish gap, got %+v", gaps)
	}
	if gaps[0].Low >= gaps[0].High || gaps[0].Size <= 0 {
		t.Errorf("invalid gap bounds: %+v", gaps[0])
	}

	if got := DetectFairValueGaps([]float64{100, 100, 100}); got != nil {
		t.Errorf("flat closes should yield no gaps, got %v", got)
	}
}

func TestDetectZonesDemand(t *testing.T) {
	// V-shaped reversal with a volume spike at the pivot.
	prices := make([]float64, 21)
	volumes := make([]float64, 21)
	for i := range prices {
		prices[i] = 100 + math.Abs(float64(i-10))*2
		volumes[i] = 100
	}
	volumes[10] = 300

	zones := DetectZones(prices, volumes)
	found := false
	for _, z := range zones {
		if z.Type == models.ZoneDemand {
			found = true
			if z.VolumeRatio <= 1.2 {
				t.Errorf("volume ratio should exceed threshold, got %v", z.VolumeRatio)
			}
		}
	}
	if !found {
		t.Fatalf("demand zone not detected, zones=%+v", zones)
	}
}

func TestAnalyzeDefaultsOnEmptySeries(t *testing.T) {
	findings := NewAnalyzer().Analyze(nil, nil)
	if findings.RSIValue != 50 {
		t.Errorf("RSI default = %v, want 50", findings.RSIValue)
	}
	if findings.Divergence != models.DivergenceNone || findings.MACDCrossover != models.CrossoverNone {
		t.Error("empty series should yield neutral tags")
	}
	if findings.VolumeRatio != 1 {
		t.Errorf("volume ratio default = %v, want 1", findings.VolumeRatio)
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	prices := make([]float64, 80)
	volumes := make([]float64, 80)
	for i := range prices {
		prices[i] = 100 + math.Sin(float64(i)/4)*15 + float64(i)*0.2
		volumes[i] = 1000 + math.Cos(float64(i)/3)*200
	}
	a := NewAnalyzer()
	first := a.Analyze(prices, volumes)
	second := a.Analyze(prices, volumes)

	if first.TrendStrength != second.TrendStrength ||
		first.RSIValue != second.RSIValue ||
		first.Divergence != second.Divergence ||
		len(first.Levels) != len(second.Levels) {
		t.Error("repeated analysis of identical input diverged")
	}
}
