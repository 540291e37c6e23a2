package analysis

import (
	"CryptoRadar/internal/domain/models"
	"CryptoRadar/internal/indicators"
	"CryptoRadar/pkg/util"
)

// DetectDivergence compares price and RSI extremes over the last 14 points.
// Bullish: price prints a lower low while RSI prints a higher low. Bearish is
// the mirror on highs.
func DetectDivergence(prices, rsiSeries []float64) models.DivergenceTag {
	const window = 14
	recent := tail(prices, window)
	rsi := tail(rsiSeries, window)
	if len(recent) < 3 || len(rsi) < 3 {
		return models.DivergenceNone
	}

	priceHighs, priceLows := localExtremes(recent)
	rsiHighs, rsiLows := localExtremes(rsi)

	if len(priceLows) >= 2 && len(rsiLows) >= 2 {
		if priceLows[len(priceLows)-1] < priceLows[len(priceLows)-2] &&
			rsiLows[len(rsiLows)-1] > rsiLows[len(rsiLows)-2] {
			return models.DivergenceBullish
		}
	}
	if len(priceHighs) >= 2 && len(rsiHighs) >= 2 {
		if priceHighs[len(priceHighs)-1] > priceHighs[len(priceHighs)-2] &&
			rsiHighs[len(rsiHighs)-1] < rsiHighs[len(rsiHighs)-2] {
			return models.DivergenceBearish
		}
	}
	return models.DivergenceNone
}

// localExtremes returns strict one-neighbor local highs and lows, in order.
func localExtremes(series []float64) (highs, lows []float64) {
	for i := 1; i < len(series)-1; i++ {
		if series[i] > series[i-1] && series[i] > series[i+1] {
			highs = append(highs, series[i])
		}
		if series[i] < series[i-1] && series[i] < series[i+1] {
			lows = append(lows, series[i])
		}
	}
	return highs, lows
}

// DetectCross reports whether the short MA crossed the long MA between the
// last two points. golden=true checks an upward cross, false a downward one.
func DetectCross(shortMA, longMA []float64, golden bool) bool {
	if len(shortMA) < 2 || len(longMA) < 2 {
		return false
	}
	s1, s2 := shortMA[len(shortMA)-2], shortMA[len(shortMA)-1]
	l1, l2 := longMA[len(longMA)-2], longMA[len(longMA)-1]
	if golden {
		return s1 < l1 && s2 > l2
	}
	return s1 > l1 && s2 < l2
}

// DetectMACDCrossover reports a histogram sign flip over the last two points.
func DetectMACDCrossover(macd indicators.MACDResult) models.CrossoverTag {
	hist := macd.Histogram
	if len(hist) < 2 {
		return models.CrossoverNone
	}
	prev, cur := hist[len(hist)-2], hist[len(hist)-1]
	switch {
	case prev < 0 && cur >= 0:
		return models.CrossoverBullish
	case prev > 0 && cur < 0:
		return models.CrossoverBearish
	default:
		return models.CrossoverNone
	}
}

// DetectBollingerSqueeze reports whether the current band width is below 0.8x
// the mean width over the trailing window.
func DetectBollingerSqueeze(upper, lower []float64, period int) bool {
	u := tail(upper, period)
	l := tail(lower, period)
	if len(u) == 0 || len(u) != len(l) {
		return false
	}
	var sum float64
	for i := range u {
		sum += u[i] - l[i]
	}
	avg := sum / float64(len(u))
	current := u[len(u)-1] - l[len(l)-1]
	return current < avg*0.8
}

// DetectBollingerBreakout reports a price crossing from inside to outside a
// band over the last two points.
func DetectBollingerBreakout(prices, upper, lower []float64) models.BreakoutTag {
	if len(prices) < 2 || len(upper) < 2 || len(lower) < 2 {
		return models.BreakoutNone
	}
	prev, last := prices[len(prices)-2], prices[len(prices)-1]
	lastUpper := upper[len(upper)-1]
	lastLower := lower[len(lower)-1]
	switch {
	case prev < lastUpper && last > lastUpper:
		return models.BreakoutUp
	case prev > lastLower && last < lastLower:
		return models.BreakoutDown
	default:
		return models.BreakoutNone
	}
}

// DetectCandlePatterns approximates candle heuristics from the last three
// closes; there is no OHLC in this feed. All four patterns may fire
// independently.
func DetectCandlePatterns(prices []float64) []models.CandlePattern {
	if len(prices) < 3 {
		return nil
	}
	prev := prices[len(prices)-3]
	mid := prices[len(prices)-2]
	cur := prices[len(prices)-1]

	var patterns []models.CandlePattern
	if prev > mid && cur > mid*1.02 {
		patterns = append(patterns, models.PatternHammer)
	}
	if prev < mid && cur < mid*0.98 {
		patterns = append(patterns, models.PatternShootingStar)
	}
	if prev > mid && cur > prev {
		patterns = append(patterns, models.PatternBullishEngulfing)
	}
	if prev < mid && cur < prev {
		patterns = append(patterns, models.PatternBearishEngulfing)
	}
	return patterns
}

// TrendStrength scores the trend in [-1, 1] from moving-average alignment
// plus an RSI contribution. MA inputs may be the shrunk equivalents when the
// series is short.
func TrendStrength(shortMA, midMA, longMA []float64, rsi float64) float64 {
	strength := 0.0
	if len(shortMA) > 0 && len(midMA) > 0 {
		if shortMA[len(shortMA)-1] > midMA[len(midMA)-1] {
			strength += 0.3
		} else {
			strength -= 0.3
		}
	}
	if len(midMA) > 0 && len(longMA) > 0 {
		if midMA[len(midMA)-1] > longMA[len(longMA)-1] {
			strength += 0.5
		} else {
			strength -= 0.5
		}
	}
	strength += (rsi - 50) / 50
	return util.Clamp(strength, -1, 1)
}

func tail(series []float64, n int) []float64 {
	if len(series) <= n {
		return series
	}
	return series[len(series)-n:]
}
