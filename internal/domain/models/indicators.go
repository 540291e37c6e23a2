package models

// IndicatorBundle holds the derived indicator series for one asset.
// Each series is oldest-first and generally shorter than the input by the
// indicator's warm-up window. Empty slices mean "unavailable".
type IndicatorBundle struct {
	SMA20    []float64
	EMA20    []float64
	EMA50    []float64
	RSI      []float64
	MACDLine []float64
	MACDSig  []float64
	MACDHist []float64
	BBUpper  []float64
	BBMiddle []float64
	BBLower  []float64
}

// ChartSeries is the read-only projection served for overlay rendering:
// the raw price series plus its IndicatorBundle. No synthesis logic.
type ChartSeries struct {
	AssetID    string          `json:"assetId"`
	Prices     []float64       `json:"prices"`
	Indicators IndicatorBundle `json:"indicators"`
}
