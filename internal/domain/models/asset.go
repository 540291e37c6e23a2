package models

// AssetSnapshot is one asset's market state as supplied by the data provider
// at the start of a ranking cycle. Immutable once handed to the pipeline.
type AssetSnapshot struct {
	ID        string
	Symbol    string
	Name      string
	Price     float64
	Change24h float64 // signed percentage
	MarketCap float64
	Volume24h float64
}

// MarketHistory holds the per-asset lookback series, oldest-first.
// Index implicitly represents the time step; the core needs no timestamps.
type MarketHistory struct {
	Prices  []float64
	Volumes []float64
}

// Tick is a live price update from the streaming collaborator.
type Tick struct {
	Symbol    string
	Price     float64
	Volume    float64
	Timestamp int64 // unix seconds
}
