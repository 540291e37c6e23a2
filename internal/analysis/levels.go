package analysis

import (
	"math"
	"sort"

	"CryptoRadar/internal/domain/models"
)

const (
	levelTouchTolerance = 0.02 // strength: count touches within 2%
	levelMergeTolerance = 0.03 // clustering: merge levels within 3%
)

// KeyLevels detects support/resistance price levels from windowed pivots,
// scores each by how often price revisited it, then merges near-duplicates
// into clusters.
func KeyLevels(prices []float64, lookback int) []models.Level {
	pivots := DetectSwings(prices, lookback)
	if len(pivots) == 0 {
		return nil
	}

	levels := make([]models.Level, 0, len(pivots))
	for _, p := range pivots {
		typ := models.LevelSupport
		if p.High {
			typ = models.LevelResistance
		}
		levels = append(levels, models.Level{
			Price:    p.Price,
			Type:     typ,
			Strength: levelStrength(prices, p.Index, p.Price),
		})
	}
	return consolidateLevels(levels)
}

// levelStrength counts how many other points sit within 2% of the level
// price. Scores 1..10.
func levelStrength(prices []float64, index int, levelPrice float64) int {
	touches := 0
	for i, p := range prices {
		if i == index {
			continue
		}
		if math.Abs(p-levelPrice)/levelPrice < levelTouchTolerance {
			touches++
		}
	}
	if touches > 9 {
		touches = 9
	}
	return 1 + touches
}

// consolidateLevels merges levels within 3% of each other into one cluster
// with the mean price, the max strength, and the majority type.
func consolidateLevels(levels []models.Level) []models.Level {
	if len(levels) <= 1 {
		return levels
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i].Price < levels[j].Price })

	var out []models.Level
	group := []models.Level{levels[0]}
	for _, lvl := range levels[1:] {
		prev := group[len(group)-1]
		if (lvl.Price-prev.Price)/prev.Price < levelMergeTolerance {
			group = append(group, lvl)
			continue
		}
		out = append(out, mergeGroup(group))
		group = []models.Level{lvl}
	}
	return append(out, mergeGroup(group))
}

func mergeGroup(group []models.Level) models.Level {
	var sum float64
	maxStrength := 0
	supports := 0
	for _, lvl := range group {
		sum += lvl.Price
		if lvl.Strength > maxStrength {
			maxStrength = lvl.Strength
		}
		if lvl.Type == models.LevelSupport {
			supports++
		}
	}
	typ := models.LevelResistance
	if supports > len(group)-supports {
		typ = models.LevelSupport
	}
	return models.Level{
		Price:    sum / float64(len(group)),
		Type:     typ,
		Strength: maxStrength,
	}
}
