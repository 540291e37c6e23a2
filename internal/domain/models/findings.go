package models

// Direction tags for divergence and crossover findings.
type DivergenceTag string

const (
	DivergenceBullish DivergenceTag = "BULLISH"
	DivergenceBearish DivergenceTag = "BEARISH"
	DivergenceNone    DivergenceTag = "NONE"
)

type CrossoverTag string

const (
	CrossoverBullish CrossoverTag = "BULLISH"
	CrossoverBearish CrossoverTag = "BEARISH"
	CrossoverNone    CrossoverTag = "NONE"
)

type BreakoutTag string

const (
	BreakoutUp   BreakoutTag = "UP"
	BreakoutDown BreakoutTag = "DOWN"
	BreakoutNone BreakoutTag = "NONE"
)

// CandlePattern names for the close-only candle heuristics.
type CandlePattern string

const (
	PatternHammer           CandlePattern = "HAMMER"
	PatternShootingStar     CandlePattern = "SHOOTING_STAR"
	PatternBullishEngulfing CandlePattern = "BULLISH_ENGULFING"
	PatternBearishEngulfing CandlePattern = "BEARISH_ENGULFING"
	PatternNone             CandlePattern = "NONE"
)

// LevelType distinguishes support from resistance clusters.
type LevelType string

const (
	LevelSupport    LevelType = "support"
	LevelResistance LevelType = "resistance"
)

// Level is a clustered swing-based price level with a 1..10 strength.
type Level struct {
	Price    float64
	Type     LevelType
	Strength int
}

// HarmonicMatch is a four-pivot X-A-B-C structure matched against a named
// ratio template within tolerance.
type HarmonicMatch struct {
	Name       string // GARTLEY, BUTTERFLY, BAT, CRAB
	ABRatio    float64
	BCRatio    float64
	Confidence float64 // 0..100
	Bullish    bool
}

// FairValueGap is an unfilled gap between non-adjacent synthetic candle
// ranges.
type FairValueGap struct {
	Index   int
	Bullish bool
	Low     float64
	High    float64
	Size    float64
}

// ZoneType distinguishes supply from demand zones.
type ZoneType string

const (
	ZoneSupply ZoneType = "supply"
	ZoneDemand ZoneType = "demand"
)

// Zone is a price region where a sharp slope reversal coincided with
// elevated volume.
type Zone struct {
	Type        ZoneType
	Price       float64
	VolumeRatio float64
	Score       float64
}

// StructuralFindings is the full structural read of one asset's series.
// Transient: scoped to a single asset's evaluation within one cycle.
type StructuralFindings struct {
	TrendStrength float64 // [-1, 1]
	RSIValue      float64
	MA50Side      int     // +1 price above the 50-period MA, -1 below, 0 unavailable
	MACDHistTail  float64 // latest MACD histogram value, 0 when unavailable
	Overbought    bool
	Oversold      bool
	Divergence    DivergenceTag
	GoldenCross   bool
	DeathCross    bool
	MACDCrossover CrossoverTag
	BBSqueeze     bool
	BBBreakout    BreakoutTag
	VolumeRatio   float64 // current / 20-period average
	Patterns      []CandlePattern
	Levels        []Level
	Harmonics     []HarmonicMatch
	FairValueGaps []FairValueGap
	Zones         []Zone
}

// HeadlinePattern returns the first detected candle pattern, or PatternNone.
func (f *StructuralFindings) HeadlinePattern() CandlePattern {
	if len(f.Patterns) == 0 {
		return PatternNone
	}
	return f.Patterns[0]
}
