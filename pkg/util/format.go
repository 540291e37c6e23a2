package util

import (
	"math"
	"strconv"
)

// FormatPrice renders a price with 4 decimal places, matching the precision
// used across signal payloads.
func FormatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// FormatPercent renders a percentage with 2 decimal places.
func FormatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatRiskReward renders a "1:X.XX" ratio from reward and risk magnitudes.
// A zero risk collapses to "1:1".
func FormatRiskReward(reward, risk float64) string {
	if risk == 0 {
		return "1:1"
	}
	return "1:" + strconv.FormatFloat(math.Abs(reward)/math.Abs(risk), 'f', 2, 64)
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
