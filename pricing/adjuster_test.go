package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAdjuster(t *testing.T) {
	t.Run("SeedsAtMidWithDerivedBounds", func(t *testing.T) {
		a := NewAdjuster(10_000_000, 15_000_000, 20_000_000, nil)
		assert.Equal(t, int64(15_000_000), a.Value())
		minBound, maxBound := a.Bounds()
		assert.Equal(t, int64(9_000_000), minBound)
		assert.Equal(t, int64(22_000_000), maxBound)
	})

	t.Run("ResumeValueUsedAsIs", func(t *testing.T) {
		// A saved override is restored without re-quantization even
		// when it is not a step multiple.
		resume := int64(16_123_456)
		a := NewAdjuster(10_000_000, 15_000_000, 20_000_000, &resume)
		assert.Equal(t, resume, a.Value())
	})
}

func TestAdjusterSetFromSlider(t *testing.T) {
	a := NewAdjuster(10_000_000, 15_000_000, 20_000_000, nil)

	t.Run("QuantizesToNearestStep", func(t *testing.T) {
		assert.Equal(t, int64(15_500_000), a.SetFromSlider(15_400_000))
		assert.Equal(t, int64(15_000_000), a.SetFromSlider(15_200_000))
		assert.Equal(t, int64(15_500_000), a.SetFromSlider(15_250_000))
	})

	t.Run("ClampsUnboundedInput", func(t *testing.T) {
		assert.Equal(t, int64(22_000_000), a.SetFromSlider(95_000_000))
		assert.Equal(t, int64(9_000_000), a.SetFromSlider(-3))
	})
}

func TestAdjusterStepping(t *testing.T) {
	a := NewAdjuster(10_000_000, 15_000_000, 20_000_000, nil)

	t.Run("IncrementSaturatesAtUpperBound", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			a.Increment()
		}
		assert.Equal(t, int64(22_000_000), a.Value())
		assert.Equal(t, int64(22_000_000), a.Increment(), "further increments leave the value unchanged")
	})

	t.Run("DecrementSaturatesAtLowerBound", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			a.Decrement()
		}
		assert.Equal(t, int64(9_000_000), a.Value())
		assert.Equal(t, int64(9_000_000), a.Decrement())
	})

	t.Run("ResetRestoresMidExactly", func(t *testing.T) {
		a.Increment()
		a.Increment()
		a.Decrement()
		assert.Equal(t, int64(15_000_000), a.Reset())
		assert.Equal(t, int64(15_000_000), a.Value())
	})
}

func TestAdjusterPercentDelta(t *testing.T) {
	a := NewAdjuster(80_000_000, 100_000_000, 120_000_000, nil)

	assert.Equal(t, 0.0, a.PercentDelta())

	a.SetFromSlider(105_000_000)
	assert.Equal(t, 5.0, a.PercentDelta())

	a.SetFromSlider(92_500_000)
	assert.Equal(t, -7.5, a.PercentDelta())

	t.Run("OneDecimalRounding", func(t *testing.T) {
		b := NewAdjuster(10_000_000, 15_000_000, 20_000_000, nil)
		b.SetFromSlider(15_500_000)
		// 500000/15000000 = 3.333..% -> 3.3
		assert.Equal(t, 3.3, b.PercentDelta())
	})

	t.Run("ZeroMidIsDefensiveZero", func(t *testing.T) {
		resume := int64(1_000_000)
		z := NewAdjuster(0, 0, 0, &resume)
		assert.Equal(t, 0.0, z.PercentDelta())
	})
}

func TestAdjusterBand(t *testing.T) {
	a := NewAdjuster(80_000_000, 100_000_000, 120_000_000, nil)
	require.Equal(t, BandAverage, a.Band())

	a.SetFromSlider(110_000_000)
	assert.Equal(t, BandHigh, a.Band())

	minBound, _ := a.Bounds()
	a.SetFromSlider(float64(minBound))
	assert.Equal(t, BandBelowMarket, a.Band())
}
