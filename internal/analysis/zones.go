package analysis

import (
	"math"
	"sort"

	"CryptoRadar/internal/domain/models"
)

// syntheticCandleSpread approximates a candle's high/low from close-only
// data: ±1% of the close.
const syntheticCandleSpread = 0.01

// DetectFairValueGaps scans every three consecutive synthetic candles for an
// unfilled gap: bullish when candle 3's low clears candle 1's high, bearish
// for the mirror.
func DetectFairValueGaps(prices []float64) []models.FairValueGap {
	if len(prices) < 3 {
		return nil
	}
	var gaps []models.FairValueGap
	for i := 2; i < len(prices); i++ {
		firstHigh := prices[i-2] * (1 + syntheticCandleSpread)
		firstLow := prices[i-2] * (1 - syntheticCandleSpread)
		thirdHigh := prices[i] * (1 + syntheticCandleSpread)
		thirdLow := prices[i] * (1 - syntheticCandleSpread)

		if thirdLow > firstHigh {
			gaps = append(gaps, models.FairValueGap{
				Index:   i,
				Bullish: true,
				Low:     firstHigh,
				High:    thirdLow,
				Size:    thirdLow - firstHigh,
			})
		} else if thirdHigh < firstLow {
			gaps = append(gaps, models.FairValueGap{
				Index:   i,
				Bullish: false,
				Low:     thirdHigh,
				High:    firstLow,
				Size:    firstLow - thirdHigh,
			})
		}
	}
	return gaps
}

const (
	zoneWindow       = 5
	zoneSlopeEps     = 0.001
	zoneVolumeFactor = 1.2
	zoneKeepPerSide  = 3
)

// DetectZones finds supply/demand zones: indices where the least-squares
// slope flips sign sharply across a 5-wide window on each side, with volume
// at the index exceeding 1.2x the surrounding average. The strongest 3 per
// side survive, ranked by volumeRatio x |postSlope/preSlope|.
func DetectZones(prices, volumes []float64) []models.Zone {
	if len(prices) < 2*zoneWindow+1 || len(volumes) != len(prices) {
		return nil
	}

	var supply, demand []models.Zone
	for i := zoneWindow; i < len(prices)-zoneWindow; i++ {
		pre := leastSquaresSlope(prices[i-zoneWindow : i])
		post := leastSquaresSlope(prices[i+1 : i+1+zoneWindow])
		if pre == 0 {
			continue
		}

		avgVol := mean(volumes[i-zoneWindow : i+zoneWindow+1])
		if avgVol == 0 || volumes[i] <= avgVol*zoneVolumeFactor {
			continue
		}
		volumeRatio := volumes[i] / avgVol
		score := volumeRatio * math.Abs(post/pre)

		switch {
		case pre < -zoneSlopeEps && post > zoneSlopeEps:
			demand = append(demand, models.Zone{
				Type: models.ZoneDemand, Price: prices[i], VolumeRatio: volumeRatio, Score: score,
			})
		case pre > zoneSlopeEps && post < -zoneSlopeEps:
			supply = append(supply, models.Zone{
				Type: models.ZoneSupply, Price: prices[i], VolumeRatio: volumeRatio, Score: score,
			})
		}
	}

	return append(topZones(demand), topZones(supply)...)
}

func topZones(zones []models.Zone) []models.Zone {
	sort.SliceStable(zones, func(i, j int) bool { return zones[i].Score > zones[j].Score })
	if len(zones) > zoneKeepPerSide {
		zones = zones[:zoneKeepPerSide]
	}
	return zones
}

// leastSquaresSlope fits y = a + bx over the window and returns b.
func leastSquaresSlope(window []float64) float64 {
	n := float64(len(window))
	if n < 2 {
		return 0
	}
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range window {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}

func mean(window []float64) float64 {
	if len(window) == 0 {
		return 0
	}
	var sum float64
	for _, v := range window {
		sum += v
	}
	return sum / float64(len(window))
}
