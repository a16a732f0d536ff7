package analytics

import "math"

// ratio divides a by b, returning 0 when b is zero or the result is not finite.
func ratio(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	r := a / b
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

// roiPercent is (revenue - cost) / cost x 100, or 0 without cost.
func roiPercent(revenue, cost float64) float64 {
	return ratio(revenue-cost, cost) * 100
}

// marginPercent is profit / revenue x 100, or 0 without revenue.
func marginPercent(revenue, cost float64) float64 {
	return ratio(revenue-cost, revenue) * 100
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	r := math.Round(v*p) / p
	if r == 0 {
		// normalize -0 so repeated encodings stay identical
		return 0
	}
	return r
}

func round2(v float64) float64 { return round(v, 2) }
