package pricing

// Band represents the qualitative position of an adjusted price relative
// to the estimate triple returned by the valuation service.
type Band string

const (
	BandBelowMarket Band = "below_market"
	BandLow         Band = "low"
	BandAverage     Band = "average"
	BandHigh        Band = "high"
	BandAboveMarket Band = "above_market"
)

// bandFraction is the share of the half-range around the mid estimate
// that still counts as an average market price.
const bandFraction = 0.3

// String returns the string representation of the band
func (b Band) String() string {
	return string(b)
}

// Valid checks if the band is valid
func (b Band) Valid() bool {
	switch b {
	case BandBelowMarket, BandLow, BandAverage, BandHigh, BandAboveMarket:
		return true
	default:
		return false
	}
}

// Label returns the human-readable band name shown next to the slider
func (b Band) Label() string {
	switch b {
	case BandBelowMarket:
		return "Sous le marché"
	case BandLow:
		return "Prix attractif"
	case BandAverage:
		return "Prix du marché"
	case BandHigh:
		return "Prix ambitieux"
	case BandAboveMarket:
		return "Au-dessus du marché"
	default:
		return "Inconnu"
	}
}

// Color returns a color token for the band (for UI purposes)
func (b Band) Color() string {
	switch b {
	case BandBelowMarket:
		return "#dc3545" // red
	case BandLow:
		return "#fd7e14" // orange
	case BandAverage:
		return "#28a745" // green
	case BandHigh:
		return "#ffc107" // yellow
	case BandAboveMarket:
		return "#dc3545" // red
	default:
		return "#6c757d" // gray
	}
}

// Classify maps an adjusted price onto one of the five market bands.
// Boundaries are inclusive towards the center: an adjusted price equal to
// low is Low (not BelowMarket) and one equal to high is High (not
// AboveMarket). When mid == low or high == mid the corresponding inner
// band collapses to a zero-width interval, which is acceptable: the
// thresholds only multiply a difference, so no division occurs.
func Classify(adjusted, low, mid, high int64) Band {
	lowCeil := float64(mid) - bandFraction*float64(mid-low)
	highFloor := float64(mid) + bandFraction*float64(high-mid)

	v := float64(adjusted)
	switch {
	case adjusted < low:
		return BandBelowMarket
	case v <= lowCeil:
		return BandLow
	case v <= highFloor:
		return BandAverage
	case adjusted <= high:
		return BandHigh
	default:
		return BandAboveMarket
	}
}
