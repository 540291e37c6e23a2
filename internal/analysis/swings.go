package analysis

import "sort"

// Pivot is a windowed local extreme in a price series.
type Pivot struct {
	Index int
	Price float64
	High  bool
}

// DetectSwings finds windowed local extrema: a point is a swing high when it
// exceeds the max of `period` points on each side, symmetric for lows. The
// period adapts downward on short series (min(period, len/5)); when fewer
// than 2 highs or lows surface, the bare window max/min stand in so callers
// always have something to anchor levels on.
func DetectSwings(prices []float64, period int) []Pivot {
	if len(prices) < 3 {
		return nil
	}
	if adaptive := len(prices) / 5; adaptive < period {
		period = adaptive
	}
	if period < 1 {
		period = 1
	}

	var pivots []Pivot
	highs, lows := 0, 0
	for i := period; i < len(prices)-period; i++ {
		cur := prices[i]
		isHigh, isLow := true, true
		for j := i - period; j <= i+period; j++ {
			if j == i {
				continue
			}
			if prices[j] >= cur {
				isHigh = false
			}
			if prices[j] <= cur {
				isLow = false
			}
			if !isHigh && !isLow {
				break
			}
		}
		if isHigh {
			pivots = append(pivots, Pivot{Index: i, Price: cur, High: true})
			highs++
		}
		if isLow {
			pivots = append(pivots, Pivot{Index: i, Price: cur, High: false})
			lows++
		}
	}

	if highs < 2 || lows < 2 {
		maxIdx, minIdx := 0, 0
		for i, p := range prices {
			if p > prices[maxIdx] {
				maxIdx = i
			}
			if p < prices[minIdx] {
				minIdx = i
			}
		}
		if highs < 2 {
			pivots = appendUniquePivot(pivots, Pivot{Index: maxIdx, Price: prices[maxIdx], High: true})
		}
		if lows < 2 {
			pivots = appendUniquePivot(pivots, Pivot{Index: minIdx, Price: prices[minIdx], High: false})
		}
		sort.Slice(pivots, func(i, j int) bool { return pivots[i].Index < pivots[j].Index })
	}
	return pivots
}

func appendUniquePivot(pivots []Pivot, p Pivot) []Pivot {
	for _, existing := range pivots {
		if existing.Index == p.Index && existing.High == p.High {
			return pivots
		}
	}
	return append(pivots, p)
}

// SwingPrices splits pivots into high and low price lists, oldest first.
func SwingPrices(pivots []Pivot) (highs, lows []float64) {
	for _, p := range pivots {
		if p.High {
			highs = append(highs, p.Price)
		} else {
			lows = append(lows, p.Price)
		}
	}
	return highs, lows
}
