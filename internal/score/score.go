// Package score holds the small numeric helpers shared by every stage that
// produces 0-100 scores.
package score

import "math"

// Max is the upper bound of every score.
const Max = 100.0

// Clamp limits v to [0, 100]. NaN becomes 0.
func Clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > Max {
		return Max
	}
	return v
}

// Limit limits v to [-bound, bound].
func Limit(v, bound float64) float64 {
	if v > bound {
		return bound
	}
	if v < -bound {
		return -bound
	}
	return v
}

// Per divides n by d with d floored at 1, so empty inputs yield 0 instead
// of NaN.
func Per(n float64, d int) float64 {
	if d < 1 {
		d = 1
	}
	return n / float64(d)
}

// Mean averages vs; an empty slice yields 0.
func Mean(vs ...float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

// Round1 rounds v to one decimal place for stable presentation.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
