package usecase

import (
	"math"
	"sort"
	"strconv"

	"CryptoRadar/internal/domain/models"
	"CryptoRadar/internal/indicators"
	"CryptoRadar/pkg/util"
)

const (
	// Target offsets: conservative below the high-conviction cutoff,
	// aggressive above it.
	targetBaseOffset     = 0.05
	targetAggrOffset     = 0.08
	targetAggrVolFactor  = 1.5
	highConvictionCutoff = 80
	stopFloorPct         = 0.02
	stopATRFactor        = 1.5
	levelCount           = 3
	fallbackLevelStep    = 0.5 // volatility multiples: 0.5x, 1x, 1.5x
)

// PriceEngine derives entry/target/stop levels, support/resistance bands and
// the risk/reward ratio for an evaluated asset. Stateless.
type PriceEngine struct{}

func NewPriceEngine() *PriceEngine {
	return &PriceEngine{}
}

// Target computes the target price from entry, 24h volatility and signal
// conviction. NEUTRAL keeps the entry.
func (e *PriceEngine) Target(sigType models.SignalType, entry, change24h float64, confidence int) float64 {
	volatility := math.Abs(change24h) / 100

	offset := targetBaseOffset + volatility
	if confidence >= highConvictionCutoff {
		offset = targetAggrOffset + volatility*targetAggrVolFactor
	}

	switch sigType {
	case models.SignalBuy:
		return entry * (1 + offset)
	case models.SignalSell:
		return entry * (1 - offset)
	default:
		return entry
	}
}

// Stop computes the stop-loss level from the ATR proxy with a 2% floor.
func (e *PriceEngine) Stop(sigType models.SignalType, entry, change24h float64) float64 {
	atr := indicators.ATRProxy(change24h)
	offset := math.Max(stopFloorPct, atr*stopATRFactor)

	switch sigType {
	case models.SignalBuy:
		return entry * (1 - offset)
	case models.SignalSell:
		return entry * (1 + offset)
	default:
		return entry
	}
}

// SupportResistance selects the nearest clustered levels on each side of the
// entry price, up to 3 per side. When no swing-based level exists on a side,
// volatility-scaled synthetic levels stand in.
func (e *PriceEngine) SupportResistance(levels []models.Level, entry, change24h float64) (support, resistance []float64) {
	for _, lvl := range levels {
		switch {
		case lvl.Price < entry:
			support = append(support, lvl.Price)
		case lvl.Price > entry:
			resistance = append(resistance, lvl.Price)
		}
	}

	// Nearest first: supports descend from entry, resistances ascend.
	sort.Sort(sort.Reverse(sort.Float64Slice(support)))
	sort.Float64s(resistance)
	if len(support) > levelCount {
		support = support[:levelCount]
	}
	if len(resistance) > levelCount {
		resistance = resistance[:levelCount]
	}

	volatility := math.Abs(change24h) / 100
	if len(support) == 0 {
		for i := 1; i <= levelCount; i++ {
			support = append(support, entry*(1-fallbackLevelStep*float64(i)*volatility))
		}
	}
	if len(resistance) == 0 {
		for i := 1; i <= levelCount; i++ {
			resistance = append(resistance, entry*(1+fallbackLevelStep*float64(i)*volatility))
		}
	}
	return support, resistance
}

// Price assembles the full signal record for one evaluated asset.
func (e *PriceEngine) Price(asset models.AssetSnapshot, ev Evaluation) models.Signal {
	entry := asset.Price
	target := e.Target(ev.Type, entry, asset.Change24h, ev.Confidence)
	stop := e.Stop(ev.Type, entry, asset.Change24h)
	support, resistance := e.SupportResistance(ev.Findings.Levels, entry, asset.Change24h)

	gain := 0.0
	if entry != 0 {
		gain = (target - entry) / entry * 100
	}

	macdTail := "0.0000"
	if ev.Tier == 1 {
		macdTail = macdDisplay(ev.Findings)
	}

	return models.Signal{
		ID:            asset.ID,
		Pair:          asset.Symbol + "/USDT",
		Name:          asset.Name,
		Type:          ev.Type,
		EntryPrice:    util.FormatPrice(entry),
		TargetPrice:   util.FormatPrice(target),
		StopLoss:      util.FormatPrice(stop),
		Support:       formatLevels(support),
		Resistance:    formatLevels(resistance),
		PotentialGain: util.FormatPercent(gain),
		RiskReward:    util.FormatRiskReward(target-entry, entry-stop),
		Confidence:    ev.Confidence,
		PriceChange:   util.FormatPercent(asset.Change24h),
		Indicators: models.SignalIndicators{
			RSI:             int(math.Round(ev.Findings.RSIValue)),
			MACD:            macdTail,
			TrendStrength:   util.FormatPercent(ev.Findings.TrendStrength),
			PatternDetected: string(ev.Findings.HeadlinePattern()),
			VolumeRatio:     ev.Findings.VolumeRatio,
		},
		EntryValue: entry,
		GainValue:  gain,
	}
}

func macdDisplay(f models.StructuralFindings) string {
	return strconv.FormatFloat(f.MACDHistTail, 'f', 4, 64)
}

func formatLevels(levels []float64) []string {
	out := make([]string, 0, len(levels))
	for _, lvl := range levels {
		out = append(out, util.FormatPrice(lvl))
	}
	return out
}
