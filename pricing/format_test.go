package pricing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatFull(t *testing.T) {
	t.Run("GroupsThousandsWithSpaces", func(t *testing.T) {
		assert.Equal(t, "12 500 000 XPF", FormatFull(12_500_000))
		assert.Equal(t, "1 000 XPF", FormatFull(1_000))
		assert.Equal(t, "999 XPF", FormatFull(999))
		assert.Equal(t, "100 000 000 XPF", FormatFull(100_000_000))
	})

	t.Run("ZeroAndNegativeArePlaceholder", func(t *testing.T) {
		assert.Equal(t, EmptyPrice, FormatFull(0))
		assert.Equal(t, EmptyPrice, FormatFull(-1))
	})

	t.Run("NoNonBreakingSpaces", func(t *testing.T) {
		s := FormatFull(1_234_567)
		assert.False(t, strings.ContainsRune(s, ' '))
		assert.False(t, strings.ContainsRune(s, ' '))
	})
}

func TestFormatCompact(t *testing.T) {
	t.Run("MillionsGetMFSuffix", func(t *testing.T) {
		assert.Equal(t, "15,0 MF", FormatCompact(15_000_000))
		assert.Equal(t, "12,5 MF", FormatCompact(12_500_000))
		assert.Equal(t, "1,0 MF", FormatCompact(1_000_000))
		assert.Equal(t, "100,0 MF", FormatCompact(100_000_000))
	})

	t.Run("SuffixPropertyAboveOneMillion", func(t *testing.T) {
		for _, price := range []int64{1_000_000, 1_500_001, 37_250_000, 999_999_999} {
			assert.True(t, strings.HasSuffix(FormatCompact(price), " MF"), "price %d", price)
		}
	})

	t.Run("FallsBackToFullBelowOneMillion", func(t *testing.T) {
		for _, price := range []int64{1, 999, 500_000, 999_999} {
			assert.Equal(t, FormatFull(price), FormatCompact(price), "price %d", price)
		}
	})

	t.Run("ZeroIsPlaceholder", func(t *testing.T) {
		assert.Equal(t, EmptyPrice, FormatCompact(0))
	})
}
