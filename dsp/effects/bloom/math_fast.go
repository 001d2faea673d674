//go:build fastmath

package bloom

import (
	"github.com/meko-christian/algo-approx"
)

// ln10Over20 converts dB to the natural exponent of the amplitude ratio.
const ln10Over20 = 0.115129254649702284200899572734218210

// softClipLimit is where tanh is within float64 rounding of +-1.
const softClipLimit = 19.0

// softClip computes tanh(1.5x) from a fast exponential:
// tanh(u) = 1 - 2/(e^(2u)+1).
func softClip(x float64) float64 {
	u := softClipSlope * x
	if u > softClipLimit {
		return 1
	}

	if u < -softClipLimit {
		return -1
	}

	return 1 - 2/(approx.FastExp(2*u)+1)
}

// dbToGain converts dB to linear amplitude using fast approximation.
func dbToGain(db float64) float64 {
	return approx.FastExp(db * ln10Over20)
}
