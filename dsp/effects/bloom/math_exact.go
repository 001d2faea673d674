//go:build !fastmath

package bloom

import "math"

// softClip computes tanh(1.5x) using standard library math.
func softClip(x float64) float64 {
	return math.Tanh(softClipSlope * x)
}

// dbToGain converts dB to linear amplitude using standard library math.
func dbToGain(db float64) float64 {
	return math.Pow(10, db/20)
}
