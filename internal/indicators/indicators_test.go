package indicators

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSMA(t *testing.T) {
	tests := []struct {
		name    string
		series  []float64
		period  int
		wantLen int
		first   float64
		last    float64
	}{
		{"basic window", []float64{1, 2, 3, 4, 5}, 3, 3, 2, 4},
		{"period equals length", []float64{2, 4, 6}, 3, 1, 4, 4},
		{"period shrinks on short series", []float64{1, 2, 3}, 10, 2, 1.5, 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SMA(tt.series, tt.period)
			if len(got) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(got), tt.wantLen)
			}
			if !almostEqual(got[0], tt.first) || !almostEqual(got[len(got)-1], tt.last) {
				t.Errorf("got first=%v last=%v, want first=%v last=%v", got[0], got[len(got)-1], tt.first, tt.last)
			}
		})
	}

	if SMA(nil, 3) != nil {
		t.Error("empty series should return nil")
	}
	if SMA([]float64{1}, 5) != nil {
		t.Error("single-point series with larger period should return nil")
	}
}

func TestSMALengthProperty(t *testing.T) {
	series := make([]float64, 120)
	for i := range series {
		series[i] = float64(i) * 1.5
	}
	for _, p := range []int{1, 5, 20, 50, 120} {
		if got := len(SMA(series, p)); got != len(series)-p+1 {
			t.Errorf("period %d: len = %d, want %d", p, got, len(series)-p+1)
		}
	}
}

func TestEMA(t *testing.T) {
	series := []float64{10, 20, 30}
	got := EMA(series, 2)
	if len(got) != len(series) {
		t.Fatalf("len = %d, want %d", len(got), len(series))
	}
	if got[0] != 10 {
		t.Errorf("EMA should seed with first value, got %v", got[0])
	}
	// mult = 2/3: 10 -> 10 + (20-10)*2/3 = 16.666...
	if !almostEqual(got[1], 10+10*2.0/3.0) {
		t.Errorf("got[1] = %v", got[1])
	}
}

func TestRSIBounds(t *testing.T) {
	inputs := [][]float64{
		{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
		{15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1},
		{5, 9, 3, 8, 2, 7, 4, 6, 5, 8, 3, 9, 2, 7, 5},
	}
	for _, series := range inputs {
		got := RSI(series, 14)
		if got < 0 || got > 100 {
			t.Errorf("RSI out of [0,100]: %v for %v", got, series)
		}
	}
}

func TestRSIFlatSeries(t *testing.T) {
	series := make([]float64, 60)
	for i := range series {
		series[i] = 42.5
	}
	if got := RSI(series, 14); got != 100 {
		t.Errorf("flat series RSI = %v, want 100 (no losses)", got)
	}
}

func TestRSIMonotone(t *testing.T) {
	up := make([]float64, 30)
	down := make([]float64, 30)
	for i := range up {
		up[i] = float64(i + 1)
		down[i] = float64(30 - i)
	}
	if got := RSI(up, 14); got != 100 {
		t.Errorf("strictly increasing RSI = %v, want 100", got)
	}
	if got := RSI(down, 14); got != 0 {
		t.Errorf("strictly decreasing RSI = %v, want 0", got)
	}
}

func TestRSIDegenerate(t *testing.T) {
	if got := RSI(nil, 14); got != 50 {
		t.Errorf("empty series RSI = %v, want neutral 50", got)
	}
	if got := RSI([]float64{7}, 14); got != 50 {
		t.Errorf("single-point RSI = %v, want neutral 50", got)
	}
}

func TestRSISeries(t *testing.T) {
	series := make([]float64, 40)
	for i := range series {
		series[i] = 100 + math.Sin(float64(i)/3)*10
	}
	got := RSISeries(series, 14)
	if len(got) != len(series)-14 {
		t.Fatalf("len = %d, want %d", len(got), len(series)-14)
	}
	for i, v := range got {
		if v < 0 || v > 100 {
			t.Errorf("RSISeries[%d] = %v out of [0,100]", i, v)
		}
	}

	if RSISeries([]float64{1, 2, 3}, 14) != nil {
		t.Error("short series should return nil")
	}
}

func TestMACD(t *testing.T) {
	series := make([]float64, 60)
	for i := range series {
		series[i] = 100 + float64(i)
	}
	got := MACD(series, 12, 26, 9)
	if len(got.Histogram) == 0 || len(got.Line) == 0 || len(got.Signal) == 0 {
		t.Fatal("expected non-empty MACD components")
	}
	if len(got.Histogram) != len(got.Signal) {
		t.Errorf("histogram/signal misaligned: %d vs %d", len(got.Histogram), len(got.Signal))
	}
	// Rising series: fast EMA tracks price more closely, line should end positive.
	if got.Line[len(got.Line)-1] <= 0 {
		t.Errorf("rising series MACD line tail = %v, want > 0", got.Line[len(got.Line)-1])
	}
}

func TestMACDShortSeries(t *testing.T) {
	got := MACD([]float64{1, 2, 3}, 12, 26, 9)
	if len(got.Histogram) != 1 || got.Histogram[0] != 0 {
		t.Errorf("short series should degrade to single-zero histogram, got %v", got.Histogram)
	}
}

func TestBollingerOrdering(t *testing.T) {
	series := make([]float64, 50)
	for i := range series {
		series[i] = 100 + math.Sin(float64(i))*7 + float64(i)*0.3
	}
	bands := Bollinger(series, 20, 2)
	if len(bands.Middle) == 0 {
		t.Fatal("expected non-empty bands")
	}
	if len(bands.Upper) != len(bands.Middle) || len(bands.Lower) != len(bands.Middle) {
		t.Fatal("band series misaligned")
	}
	for i := range bands.Middle {
		if bands.Upper[i] < bands.Middle[i] || bands.Middle[i] < bands.Lower[i] {
			t.Errorf("ordering violated at %d: upper=%v middle=%v lower=%v",
				i, bands.Upper[i], bands.Middle[i], bands.Lower[i])
		}
	}
}

func TestBollingerFlatSeries(t *testing.T) {
	series := make([]float64, 60)
	for i := range series {
		series[i] = 250
	}
	bands := Bollinger(series, 20, 2)
	for i := range bands.Middle {
		if bands.Upper[i] != bands.Middle[i] || bands.Lower[i] != bands.Middle[i] {
			t.Fatalf("flat series should collapse bands at %d: %v %v %v",
				i, bands.Upper[i], bands.Middle[i], bands.Lower[i])
		}
	}
}

func TestRollingStdDev(t *testing.T) {
	got := RollingStdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}, 8)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if !almostEqual(got[0], 2) {
		t.Errorf("stddev = %v, want 2", got[0])
	}
}

func TestATRProxy(t *testing.T) {
	tests := []struct {
		change float64
		want   float64
	}{
		{10, 0.02},
		{-10, 0.02},
		{0, 0},
		{2.5, 0.005},
	}
	for _, tt := range tests {
		if got := ATRProxy(tt.change); !almostEqual(got, tt.want) {
			t.Errorf("ATRProxy(%v) = %v, want %v", tt.change, got, tt.want)
		}
	}
}

func TestVolumeRatio(t *testing.T) {
	volumes := []float64{100, 100, 100, 100, 200}
	if got := VolumeRatio(volumes, 5); !almostEqual(got, 200.0/120.0) {
		t.Errorf("VolumeRatio = %v", got)
	}
	if got := VolumeRatio(nil, 20); got != 1 {
		t.Errorf("empty volumes ratio = %v, want 1", got)
	}
	if got := VolumeRatio([]float64{0, 0, 0}, 3); got != 1 {
		t.Errorf("zero-average ratio = %v, want 1", got)
	}
}
