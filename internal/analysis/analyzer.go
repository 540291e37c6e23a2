// Package analysis turns raw price/volume series and indicator output into a
// structural read of one asset: swings, levels, divergences, crossovers,
// squeezes, candle heuristics, harmonics, fair value gaps and supply/demand
// zones. Every detector degrades to its zero value on thin data; nothing in
// this package returns an error.
package analysis

import (
	"CryptoRadar/internal/domain/models"
	"CryptoRadar/internal/indicators"
)

const (
	rsiPeriod           = 14
	volumePeriod        = 20
	levelLookback       = 20
	overboughtRSI       = 70
	oversoldRSI         = 30
	bollingerPeriod     = 20
	bollingerWidth      = 2.0
	squeezeWindow       = 20
	harmonicSensitivity = 10
)

// Analyzer computes StructuralFindings for one asset's series. Stateless and
// safe for concurrent use.
type Analyzer struct{}

func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze runs every structural detector over the series. Individual
// detectors that cannot run on the given data contribute their neutral
// defaults instead of failing the whole read.
func (a *Analyzer) Analyze(prices, volumes []float64) models.StructuralFindings {
	findings := models.StructuralFindings{
		Divergence:    models.DivergenceNone,
		MACDCrossover: models.CrossoverNone,
		BBBreakout:    models.BreakoutNone,
		VolumeRatio:   1,
	}
	if len(prices) == 0 {
		findings.RSIValue = 50
		return findings
	}

	sma20 := indicators.SMA(prices, 20)
	sma50 := indicators.SMA(prices, 50)
	sma200 := indicators.SMA(prices, 200)
	rsi := indicators.RSI(prices, rsiPeriod)
	rsiSeries := indicators.RSISeries(prices, rsiPeriod)
	macd := indicators.MACD(prices, 12, 26, 9)
	bands := indicators.Bollinger(prices, bollingerPeriod, bollingerWidth)

	findings.RSIValue = rsi
	findings.Overbought = rsi > overboughtRSI
	findings.Oversold = rsi < oversoldRSI
	findings.TrendStrength = TrendStrength(sma20, sma50, sma200, rsi)
	if len(sma50) > 0 {
		if prices[len(prices)-1] > sma50[len(sma50)-1] {
			findings.MA50Side = 1
		} else {
			findings.MA50Side = -1
		}
	}
	findings.Divergence = DetectDivergence(prices, rsiSeries)
	findings.GoldenCross = DetectCross(sma50, sma200, true)
	findings.DeathCross = DetectCross(sma50, sma200, false)
	findings.MACDCrossover = DetectMACDCrossover(macd)
	if len(macd.Histogram) > 0 {
		findings.MACDHistTail = macd.Histogram[len(macd.Histogram)-1]
	}
	findings.BBSqueeze = DetectBollingerSqueeze(bands.Upper, bands.Lower, squeezeWindow)
	findings.BBBreakout = DetectBollingerBreakout(prices, bands.Upper, bands.Lower)
	findings.VolumeRatio = indicators.VolumeRatio(volumes, volumePeriod)
	findings.Patterns = DetectCandlePatterns(prices)
	findings.Levels = KeyLevels(prices, levelLookback)
	findings.Harmonics = DetectHarmonics(prices, harmonicSensitivity)
	findings.FairValueGaps = DetectFairValueGaps(prices)
	findings.Zones = DetectZones(prices, volumes)

	return findings
}
