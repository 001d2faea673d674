// Package biquad provides biquad (second-order IIR) filter runtime primitives.
//
// A [Section] implements Direct Form II Transposed processing for a single
// second-order section defined by [Coefficients]. A [Bank] runs one section
// per audio channel with shared coefficients.
//
// ProcessBlock dispatches to an unrolled kernel picked once from the CPU
// features reported by algo-vecmath/cpu.
//
// This package provides the processing runtime only. Coefficient design
// lives in dsp/filter/design.
package biquad
