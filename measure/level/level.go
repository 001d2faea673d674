package level

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/airbloom/dsp/buffer"
	"github.com/cwbudde/airbloom/dsp/core"
	algofft "github.com/MeKo-Christian/algo-fft"
	vecmath "github.com/cwbudde/algo-vecmath"
)

// SilenceDB is reported for zero level.
const SilenceDB = -math.MaxFloat64

// ErrInvalidBand is returned for empty or inverted frequency ranges.
var ErrInvalidBand = errors.New("level: invalid band")

// RMS returns the root mean square of x.
func RMS(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}

	return math.Sqrt(vecmath.DotProduct(x, x) / float64(len(x)))
}

// Peak returns the largest absolute sample of x.
func Peak(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}

	return vecmath.MaxAbs(x)
}

// DBFS converts a linear level to decibels relative to full scale.
// Zero maps to SilenceDB.
func DBFS(v float64) float64 {
	if v <= 0 {
		return SilenceDB
	}

	return core.LinearToDB(v)
}

// Stats summarizes one buffer.
type Stats struct {
	RMS  float64
	Peak float64
}

// RMSDB returns the RMS level in dBFS.
func (s Stats) RMSDB() float64 { return DBFS(s.RMS) }

// PeakDB returns the peak level in dBFS.
func (s Stats) PeakDB() float64 { return DBFS(s.Peak) }

// CrestFactorDB returns peak over RMS in dB, or 0 for silence.
func (s Stats) CrestFactorDB() float64 {
	if s.RMS == 0 {
		return 0
	}

	return DBFS(s.Peak / s.RMS)
}

// Measure returns RMS over all samples of all channels and the overall
// peak.
func Measure(buf *buffer.Multi) Stats {
	var (
		sumSq float64
		peak  float64
		count int
	)

	for ch := range buf.Channels() {
		data := buf.Channel(ch)
		if len(data) == 0 {
			continue
		}

		sumSq += vecmath.DotProduct(data, data)
		peak = max(peak, vecmath.MaxAbs(data))
		count += len(data)
	}

	if count == 0 {
		return Stats{}
	}

	return Stats{RMS: math.Sqrt(sumSq / float64(count)), Peak: peak}
}

// Spectrum returns the power spectrum of a Hann-windowed copy of x,
// zero-padded to the next power of two. Bin k is at k*sampleRate/size.
func Spectrum(x []float64) ([]float64, error) {
	size := nextPowerOfTwo(max(len(x), 2))

	in := make([]complex128, size)
	n := float64(len(x))

	for i, v := range x {
		w := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/n)
		in[i] = complex(v*w, 0)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("level: fft plan: %w", err)
	}

	out := make([]complex128, size)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("level: fft: %w", err)
	}

	power := make([]float64, size/2+1)
	for k := range power {
		m := cmplx.Abs(out[k])
		power[k] = m * m
	}

	return power, nil
}

// BandEnergy returns the spectral energy of x between lo and hi Hz,
// inclusive. Only ratios between calls with the same length are
// meaningful.
func BandEnergy(x []float64, sampleRate, lo, hi float64) (float64, error) {
	if sampleRate <= 0 || lo < 0 || hi < lo || lo > sampleRate/2 {
		return 0, fmt.Errorf("%w: [%g, %g] Hz at %g Hz", ErrInvalidBand, lo, hi, sampleRate)
	}

	power, err := Spectrum(x)
	if err != nil {
		return 0, err
	}

	size := float64(2 * (len(power) - 1))
	first := int(math.Ceil(lo * size / sampleRate))
	last := min(int(math.Floor(hi*size/sampleRate)), len(power)-1)

	energy := 0.0
	for k := first; k <= last; k++ {
		energy += power[k]
	}

	return energy, nil
}

// HarmonicDistortion returns the ratio of the energy in harmonics 2..n of
// fundamental to the energy of the fundamental, as an amplitude ratio.
// Each component is summed over +-2 bins to catch window spread.
func HarmonicDistortion(x []float64, sampleRate, fundamental float64, harmonics int) (float64, error) {
	if fundamental <= 0 || fundamental >= sampleRate/2 {
		return 0, fmt.Errorf("%w: fundamental %g Hz at %g Hz", ErrInvalidBand, fundamental, sampleRate)
	}

	power, err := Spectrum(x)
	if err != nil {
		return 0, err
	}

	size := float64(2 * (len(power) - 1))
	energyAt := func(freq float64) float64 {
		center := int(math.Round(freq * size / sampleRate))
		e := 0.0

		for k := center - 2; k <= center+2; k++ {
			if k >= 0 && k < len(power) {
				e += power[k]
			}
		}

		return e
	}

	base := energyAt(fundamental)
	if base == 0 {
		return 0, nil
	}

	rest := 0.0
	for h := 2; h <= harmonics; h++ {
		if f := fundamental * float64(h); f < sampleRate/2 {
			rest += energyAt(f)
		}
	}

	return math.Sqrt(rest / base), nil
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
