package usecase

import (
	"math"

	"CryptoRadar/internal/analysis"
	"CryptoRadar/internal/domain/models"
	drepo "CryptoRadar/internal/domain/repository"
)

const (
	// minPrimaryPoints is the series length required for the full structural
	// path; anything shorter escalates down the fallback ladder.
	minPrimaryPoints = 50

	confidenceBaseline = 70
	confidenceCap      = 98

	momentumChangeThreshold = 5.0
	momentumVolumeFraction  = 0.0005
)

// Evaluation is the synthesis outcome for one asset: signal type, confidence
// and the structural findings behind it. Tier records which rung of the
// ladder produced it.
type Evaluation struct {
	Type       models.SignalType
	Confidence int
	Tier       int
	Findings   models.StructuralFindings
}

// Synthesizer turns one asset's snapshot and series into an Evaluation.
// The full structural path needs 50+ points in both series; below that a
// momentum-only heuristic and finally a crude 24h-change rule take over.
// No input makes Evaluate fail: every asset resolves to some evaluation.
type Synthesizer struct {
	analyzer *analysis.Analyzer
	metrics  drepo.Metrics
}

func NewSynthesizer(analyzer *analysis.Analyzer, metrics drepo.Metrics) *Synthesizer {
	return &Synthesizer{analyzer: analyzer, metrics: metrics}
}

// Evaluate walks the ladder top down. A panic inside a tier is contained to
// that tier; evaluation continues on the next rung.
func (s *Synthesizer) Evaluate(asset models.AssetSnapshot, history models.MarketHistory) Evaluation {
	if len(history.Prices) >= minPrimaryPoints && len(history.Volumes) >= minPrimaryPoints {
		if ev, ok := s.primary(asset, history); ok {
			s.metrics.RecordFallback("primary")
			return ev
		}
	}
	if ev, ok := s.momentum(asset); ok {
		s.metrics.RecordFallback("momentum")
		return ev
	}
	s.metrics.RecordFallback("crude")
	return s.crude(asset)
}

func (s *Synthesizer) primary(asset models.AssetSnapshot, history models.MarketHistory) (ev Evaluation, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.metrics.RecordError("primary_tier")
			ok = false
		}
	}()

	findings := s.analyzer.Analyze(history.Prices, history.Volumes)
	sigType := classify(findings, asset.Change24h)

	ev = Evaluation{
		Type:       sigType,
		Confidence: confidence(sigType, findings),
		Tier:       1,
		Findings:   findings,
	}
	return ev, true
}

// strongTrend gates MA-cross triggers so a cross alone, against a weak
// trend, does not flip the signal.
const strongTrend = 0.7

// classify picks BUY when any bullish trigger pair fires, SELL on the
// bearish mirrors (only when no bullish pair fired), and otherwise falls
// through to a coarse 24h-momentum pre-check. Triggers are compound on
// purpose: a single overbought or oversold reading is confirmation, not a
// signal by itself.
func classify(f models.StructuralFindings, change24h float64) models.SignalType {
	switch {
	case (f.Oversold && f.Divergence == models.DivergenceBullish) ||
		(f.GoldenCross && f.TrendStrength > strongTrend) ||
		(f.MACDCrossover == models.CrossoverBullish && f.MA50Side > 0) ||
		(f.BBBreakout == models.BreakoutUp && f.VolumeRatio > 1.5) ||
		hasPattern(f.Patterns, models.PatternHammer, models.PatternBullishEngulfing):
		return models.SignalBuy
	case (f.Overbought && f.Divergence == models.DivergenceBearish) ||
		(f.DeathCross && f.TrendStrength < -strongTrend) ||
		(f.MACDCrossover == models.CrossoverBearish && f.MA50Side < 0) ||
		(f.BBBreakout == models.BreakoutDown && f.VolumeRatio > 1.5) ||
		hasPattern(f.Patterns, models.PatternShootingStar, models.PatternBearishEngulfing):
		return models.SignalSell
	case change24h > momentumChangeThreshold:
		return models.SignalBuy
	case change24h < -momentumChangeThreshold:
		return models.SignalSell
	default:
		return models.SignalNeutral
	}
}

// confidence accumulates fixed bonuses on top of the baseline for every
// structural condition agreeing with the signal direction, capped at 98.
// NEUTRAL evaluations stay at a sub-threshold 50 and are filtered out later.
func confidence(sigType models.SignalType, f models.StructuralFindings) int {
	if sigType == models.SignalNeutral {
		return 50
	}
	buy := sigType == models.SignalBuy

	score := confidenceBaseline
	if (buy && f.Oversold) || (!buy && f.Overbought) {
		score += 5
	}
	if (buy && f.Divergence == models.DivergenceBullish) || (!buy && f.Divergence == models.DivergenceBearish) {
		score += 10
	}
	if (buy && f.GoldenCross) || (!buy && f.DeathCross) {
		score += 15
	}
	if (buy && f.MACDCrossover == models.CrossoverBullish) || (!buy && f.MACDCrossover == models.CrossoverBearish) {
		score += 10
	}
	if f.VolumeRatio > 1.5 {
		score += 5
	}
	if len(f.Patterns) > 0 {
		score += 10
	}
	if (buy && f.BBBreakout == models.BreakoutUp) || (!buy && f.BBBreakout == models.BreakoutDown) {
		score += 5
	}
	if (buy && f.TrendStrength > 0) || (!buy && f.TrendStrength < 0) {
		score += 5
	}
	if score > confidenceCap {
		score = confidenceCap
	}
	return score
}

// momentum is the Tier-2 heuristic: a large 24h move backed by meaningful
// volume relative to market cap. Unusable when its trigger does not fire.
func (s *Synthesizer) momentum(asset models.AssetSnapshot) (Evaluation, bool) {
	if asset.MarketCap <= 0 || asset.Volume24h/asset.MarketCap <= momentumVolumeFraction {
		return Evaluation{}, false
	}

	var sigType models.SignalType
	switch {
	case asset.Change24h > momentumChangeThreshold:
		sigType = models.SignalBuy
	case asset.Change24h < -momentumChangeThreshold:
		sigType = models.SignalSell
	default:
		return Evaluation{}, false
	}

	conf := math.Min(math.Abs(asset.Change24h)*3, 95)
	return Evaluation{
		Type:       sigType,
		Confidence: int(conf),
		Tier:       2,
		Findings:   neutralFindings(),
	}, true
}

// crude is the Tier-3 rule: sign of the 24h change alone, with stepped
// confidence. Always usable.
func (s *Synthesizer) crude(asset models.AssetSnapshot) Evaluation {
	sigType := models.SignalNeutral
	switch {
	case asset.Change24h > momentumChangeThreshold:
		sigType = models.SignalBuy
	case asset.Change24h < -momentumChangeThreshold:
		sigType = models.SignalSell
	}

	abs := math.Abs(asset.Change24h)
	conf := 60
	switch {
	case abs > 10:
		conf = 85
	case abs > 5:
		conf = 70
	}

	return Evaluation{
		Type:       sigType,
		Confidence: conf,
		Tier:       3,
		Findings:   neutralFindings(),
	}
}

func hasPattern(patterns []models.CandlePattern, wanted ...models.CandlePattern) bool {
	for _, p := range patterns {
		for _, w := range wanted {
			if p == w {
				return true
			}
		}
	}
	return false
}

// neutralFindings are the display defaults carried by fallback evaluations,
// which have no structural read behind them.
func neutralFindings() models.StructuralFindings {
	return models.StructuralFindings{
		RSIValue:      50,
		Divergence:    models.DivergenceNone,
		MACDCrossover: models.CrossoverNone,
		BBBreakout:    models.BreakoutNone,
		VolumeRatio:   1,
	}
}
