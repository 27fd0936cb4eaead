package wdc

import "math"

// Direction selects on which side of a threshold value the system is operable.
type Direction int

const (
	// Lower means operable above the threshold value (shut down when falling to it)
	Lower Direction = iota
	// Upper means operable below the threshold value (shut down when rising to it)
	Upper
)

// ThresholdFactor maps the distance of value from thresholdValue onto [0, 1].
// With U = sigma*(value-thresholdValue)/delta (sigma = +1 for Lower, -1 for Upper):
//   - U <= 0: 0 (at or past the threshold, well is shut down)
//   - 0 < U < 1: U^(2(1-U)), a smooth ramp with zero slope at both ends
//   - U >= 1: 1 (fully operable)
//
// delta must not be zero.
func ThresholdFactor(value, thresholdValue, delta float64, dir Direction) float64 {
	if delta == 0 {
		panic("wdc: threshold band delta must not be zero")
	}

	sigma := 1.0
	if dir == Upper {
		sigma = -1.0
	}
	u := sigma * (value - thresholdValue) / delta

	switch {
	case u <= 0:
		return 0
	case u < 1:
		return math.Pow(u, 2*(1-u))
	default:
		return 1
	}
}

// Confined clamps value into the closed interval spanned by a and b.
// The bounds may be given in either order.
func Confined(value, a, b float64) float64 {
	lo, hi := min(a, b), max(a, b)
	return max(lo, min(value, hi))
}

// Sign returns -1, 0 or 1
func Sign(x float64) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
