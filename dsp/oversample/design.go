package oversample

import (
	"fmt"
	"math"
)

const (
	// DefaultCoefficientCount is the allpass coefficient count of each 2x stage.
	DefaultCoefficientCount = 8
	// DefaultTransition is the normalized transition bandwidth of each 2x stage.
	DefaultTransition = 0.05
)

// DesignHalfband computes the allpass coefficients of a polyphase half-band
// filter with numberOfCoeffs coefficients and the given normalized
// transition bandwidth. Even-indexed coefficients belong to the first
// allpass chain, odd-indexed ones to the second.
func DesignHalfband(numberOfCoeffs int, transition float64) ([]float64, error) {
	if err := validateDesignParams(numberOfCoeffs, transition); err != nil {
		return nil, err
	}

	k, q := computeTransitionParam(transition)
	order := numberOfCoeffs*2 + 1

	coeffs := make([]float64, numberOfCoeffs)
	for i := range numberOfCoeffs {
		coeffs[i] = computeCoefficient(i, k, q, order)
	}

	return coeffs, nil
}

// StopbandAttenuation returns the stopband rejection in dB of the design
// DesignHalfband would produce for the same arguments.
func StopbandAttenuation(numberOfCoeffs int, transition float64) (float64, error) {
	if err := validateDesignParams(numberOfCoeffs, transition); err != nil {
		return 0, err
	}

	_, q := computeTransitionParam(transition)
	order := numberOfCoeffs*2 + 1

	v := 4 * math.Exp(float64(order)*0.5*math.Log(q))

	return -10 * math.Log10(v/(1+v)), nil
}

func validateDesignParams(numberOfCoeffs int, transition float64) error {
	if numberOfCoeffs < 1 {
		return fmt.Errorf("oversample: number of coefficients must be >= 1: %d", numberOfCoeffs)
	}

	if math.IsNaN(transition) || math.IsInf(transition, 0) || transition <= 0 || transition >= 0.5 {
		return fmt.Errorf("oversample: transition must be finite and in (0, 0.5): %g", transition)
	}

	return nil
}

func computeTransitionParam(transition float64) (k, q float64) {
	k = math.Pow(math.Tan((1-transition*2)*math.Pi*0.25), 2)
	kksqrt := math.Pow(1-k*k, 0.25)
	e := 0.5 * (1 - kksqrt) / (1 + kksqrt)
	e4 := e * e * e * e
	q = e * (1 + e4*(2+e4*(15+150*e4)))

	return k, q
}

func computeCoefficient(index int, k, q float64, order int) float64 {
	c := index + 1
	num := thetaNum(q, order, c) * math.Pow(q, 0.25)
	den := thetaDen(q, order, c) + 0.5
	ww := (num * num) / (den * den)

	r := math.Sqrt((1-ww*k)*(1-ww/k)) / (1 + ww)

	return (1 - r) / (1 + r)
}

// thetaNum and thetaDen evaluate the Jacobi theta series of the elliptic
// design until the terms vanish.
func thetaNum(q float64, order, c int) float64 {
	result := 0.0
	sign := 1.0
	for i := 0; ; i++ {
		term := math.Pow(q, float64(i*(i+1))) * math.Sin(float64(i*2+1)*float64(c)*math.Pi/float64(order)) * sign
		result += term
		sign = -sign
		if math.Abs(term) <= 1e-100 {
			break
		}
	}

	return result
}

func thetaDen(q float64, order, c int) float64 {
	result := 0.0
	sign := -1.0
	for i := 1; ; i++ {
		term := math.Pow(q, float64(i*i)) * math.Cos(2*float64(i)*float64(c)*math.Pi/float64(order)) * sign
		result += term
		sign = -sign
		if math.Abs(term) <= 1e-100 {
			break
		}
	}

	return result
}
