package pricing

import "math"

// PositionOf maps a price onto a [0, 100] horizontal percentage within
// the adjustable range, for the proportional range bar and the live
// slider thumb. A degenerate range (maxBound == minBound, e.g. a
// low == high == 0 triple) falls back to the midpoint instead of
// producing NaN. The result is rounded to two decimals; out-of-range
// values are passed through unclamped so a violated low <= mid <= high
// invariant stays visible to the caller.
func PositionOf(value, minBound, maxBound int64) float64 {
	if maxBound == minBound {
		return 50
	}
	pct := (float64(value-minBound) / float64(maxBound-minBound)) * 100
	return math.Round(pct*100) / 100
}

// MidPosition is the simpler bar used on the result card: the mid
// estimate placed proportionally between low and high, without the
// extended adjustable bounds. Defined as 50 for a zero-width triple.
func MidPosition(low, mid, high int64) float64 {
	if high == low {
		return 50
	}
	pct := (float64(mid-low) / float64(high-low)) * 100
	return math.Round(pct*100) / 100
}
