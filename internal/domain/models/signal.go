package models

// SignalType classifies a trade signal. Terminal per evaluation: one asset,
// one cycle, no state carried across cycles.
type SignalType string

const (
	SignalBuy     SignalType = "BUY"
	SignalSell    SignalType = "SELL"
	SignalNeutral SignalType = "NEUTRAL"
)

// SignalIndicators is the subset of structural findings surfaced for display.
type SignalIndicators struct {
	RSI             int     `json:"rsi"`
	MACD            string  `json:"macd"` // histogram tail, 4 decimals
	TrendStrength   string  `json:"trendStrength"`
	PatternDetected string  `json:"patternDetected"`
	VolumeRatio     float64 `json:"volumeRatio,omitempty"`
}

// Signal is the primary output entity: one classified, priced trade idea.
// Created fresh each ranking cycle and never mutated after creation.
type Signal struct {
	ID            string           `json:"id"`
	Pair          string           `json:"pair"`
	Name          string           `json:"name"`
	Type          SignalType       `json:"signalType"`
	EntryPrice    string           `json:"entryPrice"`
	TargetPrice   string           `json:"targetPrice"`
	StopLoss      string           `json:"stopLoss"`
	Support       []string         `json:"support"`
	Resistance    []string         `json:"resistance"`
	PotentialGain string           `json:"potentialGain"`
	RiskReward    string           `json:"riskReward"`
	Confidence    int              `json:"confidence"`
	PriceChange   string           `json:"priceChange24h"`
	Indicators    SignalIndicators `json:"indicators"`

	// Numeric fields kept for filtering and ranking; not re-parsed from the
	// formatted strings.
	EntryValue float64 `json:"-"`
	GainValue  float64 `json:"-"`
}
