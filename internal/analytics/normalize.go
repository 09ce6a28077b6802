package analytics

import "math"

// NormalizeSeries rescales a series onto a 0-100 scale, positionally
// preserving invalid entries as nil. Invalid means nil, NaN or Inf.
//
// Degenerate cases: a series with no valid entries maps to all-nil; a
// constant series maps every valid entry to the midpoint 50. With invert
// set, high input values score low. Output values are always within
// [0,100] or nil, never NaN.
func NormalizeSeries(values []*float64, invert bool) []*float64 {
	scores := make([]*float64, len(values))

	min := math.Inf(1)
	max := math.Inf(-1)
	valid := 0
	for _, v := range values {
		if !isFinite(v) {
			continue
		}
		valid++
		if *v < min {
			min = *v
		}
		if *v > max {
			max = *v
		}
	}

	if valid == 0 {
		return scores
	}

	for i, v := range values {
		if !isFinite(v) {
			continue
		}
		var score float64
		if max == min {
			score = 50
		} else {
			score = ((*v - min) / (max - min)) * 100
			if invert {
				score = 100 - score
			}
		}
		s := score
		scores[i] = &s
	}
	return scores
}

func isFinite(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}
