// Package testutil provides deterministic test signals and assertions for
// multichannel buffers.
package testutil

import (
	"math"
	"math/rand"

	"github.com/cwbudde/airbloom/dsp/buffer"
)

// Sine returns a sine of freqHz at the given peak amplitude, starting at
// phase zero.
func Sine(freqHz, sampleRate, amplitude float64, frames int) []float64 {
	out := make([]float64, frames)
	step := 2 * math.Pi * freqHz / sampleRate

	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}

	return out
}

// Noise returns uniform white noise in [-amplitude, amplitude] with a
// fixed seed.
func Noise(seed int64, amplitude float64, frames int) []float64 {
	out := make([]float64, frames)
	rng := rand.New(rand.NewSource(seed))

	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}

	return out
}

// Impulse returns a unit impulse at pos.
func Impulse(frames, pos int) []float64 {
	out := make([]float64, frames)
	if pos >= 0 && pos < frames {
		out[pos] = 1
	}

	return out
}

// SineMulti fills every channel with the same sine.
func SineMulti(channels int, freqHz, sampleRate, amplitude float64, frames int) *buffer.Multi {
	m := buffer.NewMulti(channels, frames)
	s := Sine(freqHz, sampleRate, amplitude, frames)

	for ch := range channels {
		copy(m.Channel(ch), s)
	}

	return m
}

// NoiseMulti fills each channel with independent seeded noise.
func NoiseMulti(channels int, seed int64, amplitude float64, frames int) *buffer.Multi {
	m := buffer.NewMulti(channels, frames)
	for ch := range channels {
		copy(m.Channel(ch), Noise(seed+int64(ch), amplitude, frames))
	}

	return m
}

// Block copies frames [start, start+n) of src into dst, resizing dst.
// Frames past the end of src are zero.
func Block(dst, src *buffer.Multi, start, n int) {
	dst.Resize(src.Channels(), n)

	for ch := range src.Channels() {
		out := dst.Channel(ch)
		in := src.Channel(ch)

		for i := range out {
			if j := start + i; j < len(in) {
				out[i] = in[j]
			} else {
				out[i] = 0
			}
		}
	}
}
