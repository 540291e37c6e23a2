package indicators

import "math"

// Pure transforms over oldest-first price series. No state, no side effects;
// deterministic for identical input. Zero-length results mean "unavailable"
// and route the caller to the fallback ladder.

// SMA computes the simple moving average over each trailing window.
// Result length is len(series)-period+1. A period larger than the series
// shrinks to len(series)-1 rather than failing.
func SMA(series []float64, period int) []float64 {
	if len(series) == 0 {
		return nil
	}
	if period > len(series) {
		period = len(series) - 1
	}
	if period < 1 {
		return nil
	}
	out := make([]float64, 0, len(series)-period+1)
	sum := 0.0
	for i, v := range series {
		sum += v
		if i >= period {
			sum -= series[i-period]
		}
		if i >= period-1 {
			out = append(out, sum/float64(period))
		}
	}
	return out
}

// EMA computes the exponential moving average seeded with the first input
// value. Result length equals input length.
func EMA(series []float64, period int) []float64 {
	if len(series) == 0 || period < 1 {
		return nil
	}
	mult := 2.0 / float64(period+1)
	out := make([]float64, len(series))
	out[0] = series[0]
	for i := 1; i < len(series); i++ {
		out[i] = (series[i]-out[i-1])*mult + out[i-1]
	}
	return out
}

// RSI computes a single relative-strength reading from the full gain/loss
// partition of first differences: average gain and average loss are each the
// mean of the first `period` signed deltas. Returns 50 for degenerate input
// and 100 when there are no losses.
func RSI(series []float64, period int) float64 {
	if len(series) < 2 || period < 1 {
		return 50
	}
	var gains, losses float64
	n := len(series) - 1
	if n > period {
		n = period
	}
	for i := 1; i <= n; i++ {
		change := series[i] - series[i-1]
		if change > 0 {
			gains += change
		} else {
			losses += -change
		}
	}
	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)
	if avgLoss == 0 {
		return 100
	}
	return 100 - 100/(1+avgGain/avgLoss)
}

// RSISeries computes RSI per trailing window, for divergence detection.
// out[i] is the RSI of series[i-period..i]; result length is
// len(series)-period, empty when the series is too short.
func RSISeries(series []float64, period int) []float64 {
	if len(series) <= period || period < 1 {
		return nil
	}
	out := make([]float64, 0, len(series)-period)
	for i := period; i < len(series); i++ {
		out = append(out, RSI(series[i-period:i+1], period))
	}
	return out
}

// MACDResult holds the three MACD component series.
type MACDResult struct {
	Line      []float64
	Signal    []float64
	Histogram []float64
}

// MACD computes line, signal and histogram series. The line is the fast
// minus slow EMA aligned on the shorter tail; the histogram is aligned on
// the signal line. Series too short for the slow EMA degrade to a single
// zero-element histogram.
func MACD(series []float64, fast, slow, signal int) MACDResult {
	if len(series) < slow {
		return MACDResult{Line: []float64{0}, Signal: []float64{0}, Histogram: []float64{0}}
	}

	fastEMA := EMA(series, fast)
	slowEMA := EMA(series, slow)

	n := len(fastEMA)
	if len(slowEMA) < n {
		n = len(slowEMA)
	}
	line := make([]float64, n)
	for i := 0; i < n; i++ {
		line[i] = fastEMA[len(fastEMA)-n+i] - slowEMA[len(slowEMA)-n+i]
	}

	sig := EMA(line, signal)
	hist := make([]float64, len(sig))
	for i := range sig {
		hist[i] = line[len(line)-len(sig)+i] - sig[i]
	}

	return MACDResult{Line: line, Signal: sig, Histogram: hist}
}

// Bands holds Bollinger band series aligned on the middle band.
type Bands struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
}

// Bollinger computes a volatility envelope: middle = SMA, upper/lower at
// mult rolling standard deviations around it.
func Bollinger(series []float64, period int, mult float64) Bands {
	middle := SMA(series, period)
	if len(middle) == 0 {
		return Bands{}
	}
	if period > len(series) {
		period = len(series) - 1
	}
	stddev := RollingStdDev(series, period)

	upper := make([]float64, len(middle))
	lower := make([]float64, len(middle))
	for i := range middle {
		band := stddev[i] * mult
		upper[i] = middle[i] + band
		lower[i] = middle[i] - band
	}
	return Bands{Upper: upper, Middle: middle, Lower: lower}
}

// RollingStdDev computes the population standard deviation over each
// trailing window of size period.
func RollingStdDev(series []float64, period int) []float64 {
	if period < 1 || len(series) < period {
		return nil
	}
	out := make([]float64, 0, len(series)-period+1)
	for i := period - 1; i < len(series); i++ {
		window := series[i-period+1 : i+1]
		mean := 0.0
		for _, v := range window {
			mean += v
		}
		mean /= float64(period)
		variance := 0.0
		for _, v := range window {
			d := v - mean
			variance += d * d
		}
		variance /= float64(period)
		out = append(out, math.Sqrt(variance))
	}
	return out
}

// ATRProxy approximates average true range from the 24h percentage change
// alone; no high/low data is available in this pipeline. Intentionally not a
// textbook ATR: the target and stop magnitudes downstream are tuned to it.
func ATRProxy(change24hPct float64) float64 {
	return math.Abs(change24hPct) / 100 / 5
}

// VolumeRatio returns the latest volume relative to the mean of the trailing
// window. Returns 1 when the ratio cannot be computed.
func VolumeRatio(volumes []float64, period int) float64 {
	if len(volumes) == 0 || period < 1 {
		return 1
	}
	start := len(volumes) - period
	if start < 0 {
		start = 0
	}
	window := volumes[start:]
	sum := 0.0
	for _, v := range window {
		sum += v
	}
	avg := sum / float64(len(window))
	if avg == 0 {
		return 1
	}
	return volumes[len(volumes)-1] / avg
}
