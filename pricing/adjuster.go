package pricing

import "math"

const (
	// Step is the quantization step for user-driven price changes (XPF).
	Step = int64(500_000)

	// lowerBoundFactor and upperBoundFactor derive the adjustable range
	// from the estimate triple: the user may go 10% below the low
	// estimate and 10% above the high one.
	lowerBoundFactor = 0.9
	upperBoundFactor = 1.1
)

// Adjuster owns the adjusted price of one estimation session. The bounds
// and step are fixed at construction from the immutable estimate triple;
// only the value itself moves. It is a plain synchronous state holder:
// one session, one adjuster, no concurrent writers.
type Adjuster struct {
	low  int64
	mid  int64
	high int64

	minBound int64
	maxBound int64

	value int64
}

// NewAdjuster seeds an adjuster from the estimate triple. When resume is
// non-nil (a previously saved override) it is used as-is, without
// re-quantization; otherwise the session starts at the mid estimate.
func NewAdjuster(low, mid, high int64, resume *int64) *Adjuster {
	a := &Adjuster{
		low:      low,
		mid:      mid,
		high:     high,
		minBound: int64(math.Round(float64(low) * lowerBoundFactor)),
		maxBound: int64(math.Round(float64(high) * upperBoundFactor)),
	}
	if resume != nil {
		a.value = *resume
	} else {
		a.value = mid
	}
	return a
}

// Value returns the current adjusted price
func (a *Adjuster) Value() int64 {
	return a.value
}

// Bounds returns the adjustable range derived from the estimate triple
func (a *Adjuster) Bounds() (minBound, maxBound int64) {
	return a.minBound, a.maxBound
}

// Low returns the low estimate the adjuster was seeded with
func (a *Adjuster) Low() int64 {
	return a.low
}

// Mid returns the mid estimate the adjuster was seeded with
func (a *Adjuster) Mid() int64 {
	return a.mid
}

// High returns the high estimate the adjuster was seeded with
func (a *Adjuster) High() int64 {
	return a.high
}

// SetFromSlider quantizes a continuous input value to the nearest step
// and clamps it into the adjustable range. The slider itself is already
// bounded, but this value also arrives over the API where nothing
// enforces the range, so the clamp is explicit.
func (a *Adjuster) SetFromSlider(raw float64) int64 {
	quantized := int64(math.Round(raw/float64(Step))) * Step
	a.value = clamp(quantized, a.minBound, a.maxBound)
	return a.value
}

// Increment moves the adjusted price one step up, saturating at the upper bound
func (a *Adjuster) Increment() int64 {
	a.value = min(a.value+Step, a.maxBound)
	return a.value
}

// Decrement moves the adjusted price one step down, saturating at the lower bound
func (a *Adjuster) Decrement() int64 {
	a.value = max(a.value-Step, a.minBound)
	return a.value
}

// Reset restores the adjusted price to the mid estimate
func (a *Adjuster) Reset() int64 {
	a.value = a.mid
	return a.value
}

// PercentDelta returns the signed percentage difference between the
// adjusted price and the mid estimate, rounded to one decimal. A zero
// mid estimate is rejected upstream as a protocol error; the zero
// return here is a defensive fallback only.
func (a *Adjuster) PercentDelta() float64 {
	if a.mid == 0 {
		return 0
	}
	delta := (float64(a.value-a.mid) / float64(a.mid)) * 100
	return math.Round(delta*10) / 10
}

// Band classifies the current adjusted price against the estimate triple
func (a *Adjuster) Band() Band {
	return Classify(a.value, a.low, a.mid, a.high)
}

func clamp(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
