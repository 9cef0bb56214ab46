package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPositionOf(t *testing.T) {
	t.Run("ProportionalPlacement", func(t *testing.T) {
		// Matches the end-to-end scenario: 100M inside [72M, 132M].
		assert.Equal(t, 46.67, PositionOf(100_000_000, 72_000_000, 132_000_000))
		assert.Equal(t, 0.0, PositionOf(72_000_000, 72_000_000, 132_000_000))
		assert.Equal(t, 100.0, PositionOf(132_000_000, 72_000_000, 132_000_000))
	})

	t.Run("DegenerateRangeFallsBackToMidpoint", func(t *testing.T) {
		assert.Equal(t, 50.0, PositionOf(0, 0, 0))
		assert.Equal(t, 50.0, PositionOf(123, 5, 5))
	})

	t.Run("OutOfRangeValuesPassThrough", func(t *testing.T) {
		assert.Less(t, PositionOf(50, 100, 200), 0.0)
		assert.Greater(t, PositionOf(250, 100, 200), 100.0)
	})
}

func TestMidPosition(t *testing.T) {
	assert.Equal(t, 50.0, MidPosition(80, 130, 180))
	assert.Equal(t, 0.0, MidPosition(80, 80, 180))
	assert.Equal(t, 100.0, MidPosition(80, 180, 180))
	assert.Equal(t, 33.33, MidPosition(0, 100, 300))

	t.Run("ZeroWidthTriple", func(t *testing.T) {
		assert.Equal(t, 50.0, MidPosition(7, 7, 7))
	})
}
