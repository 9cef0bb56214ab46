package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	// 80M / 100M / 120M triple: the average band spans
	// [100M - 0.3*20M, 100M + 0.3*20M] = [94M, 106M].
	const (
		low  = int64(80_000_000)
		mid  = int64(100_000_000)
		high = int64(120_000_000)
	)

	t.Run("Boundaries", func(t *testing.T) {
		assert.Equal(t, BandBelowMarket, Classify(low-1, low, mid, high))
		assert.Equal(t, BandLow, Classify(low, low, mid, high), "low boundary is inclusive of Low")
		assert.Equal(t, BandLow, Classify(94_000_000, low, mid, high))
		assert.Equal(t, BandAverage, Classify(94_000_001, low, mid, high))
		assert.Equal(t, BandAverage, Classify(mid, low, mid, high))
		assert.Equal(t, BandAverage, Classify(106_000_000, low, mid, high))
		assert.Equal(t, BandHigh, Classify(106_000_001, low, mid, high))
		assert.Equal(t, BandHigh, Classify(high, low, mid, high), "high boundary is inclusive of High")
		assert.Equal(t, BandAboveMarket, Classify(high+1, low, mid, high))
	})

	t.Run("ZeroWidthLowerHalf", func(t *testing.T) {
		// mid == low: the Low band collapses, anything above mid and
		// below the upper threshold is Average.
		assert.Equal(t, BandLow, Classify(100, 100, 100, 200))
		assert.Equal(t, BandAverage, Classify(110, 100, 100, 200))
		assert.Equal(t, BandBelowMarket, Classify(99, 100, 100, 200))
	})

	t.Run("ZeroWidthUpperHalf", func(t *testing.T) {
		assert.Equal(t, BandAverage, Classify(200, 100, 200, 200))
		assert.Equal(t, BandAboveMarket, Classify(201, 100, 200, 200))
	})

	t.Run("FullyDegenerateTriple", func(t *testing.T) {
		// No division happens, so a zero-width triple must not panic.
		assert.NotPanics(t, func() { Classify(0, 0, 0, 0) })
		assert.Equal(t, BandLow, Classify(0, 0, 0, 0))
	})
}

func TestBandPresentation(t *testing.T) {
	for _, b := range []Band{BandBelowMarket, BandLow, BandAverage, BandHigh, BandAboveMarket} {
		assert.True(t, b.Valid())
		assert.NotEmpty(t, b.Label())
		assert.NotEmpty(t, b.Color())
	}
	assert.False(t, Band("bogus").Valid())
	assert.Equal(t, "Inconnu", Band("bogus").Label())
}
