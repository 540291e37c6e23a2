package analysis

import (
	"math"

	"CryptoRadar/internal/domain/models"
)

// harmonicTolerance is the ± band around each template ratio; matches at the
// band edge score 0, exact matches score 100.
const harmonicTolerance = 0.03

type harmonicTemplate struct {
	name    string
	abRatio float64
	bcRatio float64
}

var harmonicTemplates = []harmonicTemplate{
	{"GARTLEY", 0.618, 0.618},
	{"BUTTERFLY", 0.786, 0.886},
	{"BAT", 0.500, 0.886},
	{"CRAB", 0.382, 0.618},
}

// DetectHarmonics slides over consecutive four-pivot groups (X, A, B, C) and
// matches leg-ratio pairs against the named Fibonacci templates. A pattern is
// bullish when its initial X->A leg points up.
func DetectHarmonics(prices []float64, sensitivity int) []models.HarmonicMatch {
	pivots := DetectSwings(prices, sensitivity)
	if len(pivots) < 4 {
		return nil
	}

	var matches []models.HarmonicMatch
	for i := 0; i+3 < len(pivots); i++ {
		x := pivots[i].Price
		a := pivots[i+1].Price
		b := pivots[i+2].Price
		c := pivots[i+3].Price

		xa := math.Abs(a - x)
		ab := math.Abs(b - a)
		if xa == 0 || ab == 0 {
			continue
		}
		abRatio := ab / xa
		bcRatio := math.Abs(c-b) / ab

		for _, tpl := range harmonicTemplates {
			abDiff := math.Abs(abRatio - tpl.abRatio)
			bcDiff := math.Abs(bcRatio - tpl.bcRatio)
			if abDiff > harmonicTolerance || bcDiff > harmonicTolerance {
				continue
			}
			abScore := (1 - abDiff/harmonicTolerance) * 100
			bcScore := (1 - bcDiff/harmonicTolerance) * 100
			matches = append(matches, models.HarmonicMatch{
				Name:       tpl.name,
				ABRatio:    abRatio,
				BCRatio:    bcRatio,
				Confidence: (abScore + bcScore) / 2,
				Bullish:    a > x,
			})
		}
	}
	return matches
}
