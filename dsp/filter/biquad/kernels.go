package biquad

import (
	"sync"

	"github.com/cwbudde/algo-vecmath/cpu"
)

type blockFn func(c Coefficients, d0, d1 float64, buf []float64) (newD0, newD1 float64)

// kernel is one ProcessBlock implementation together with the SIMD tier it
// is tuned for.
type kernel struct {
	name     string
	level    cpu.SIMDLevel
	priority int
	process  blockFn
}

// kernels is ordered by descending priority.
var kernels = []kernel{
	{name: "unrolled4", level: cpu.SIMDAVX2, priority: 20, process: processBlockUnrolled4},
	{name: "unrolled2", level: cpu.SIMDNone, priority: 0, process: processBlockUnrolled2},
}

var (
	selected     *kernel
	selectedOnce sync.Once
)

func activeKernel() *kernel {
	selectedOnce.Do(func() {
		selected = lookupKernel(cpu.DetectFeatures())
	})

	return selected
}

// lookupKernel returns the highest-priority kernel supported by features.
// The generic kernel supports every CPU, so the result is never nil.
func lookupKernel(features cpu.Features) *kernel {
	for i := range kernels {
		k := &kernels[i]
		if features.ForceGeneric && k.level != cpu.SIMDNone {
			continue
		}

		if cpu.Supports(features, k.level) {
			return k
		}
	}

	return &kernels[len(kernels)-1]
}

// KernelName reports the ProcessBlock implementation chosen for this CPU.
func KernelName() string {
	return activeKernel().name
}

// processBlockUnrolled2 is a manual 2x-unrolled scalar implementation that
// reduces loop overhead and improves ILP.
func processBlockUnrolled2(c Coefficients, d0, d1 float64, buf []float64) (newD0, newD1 float64) {
	b0, b1, b2 := c.B0, c.B1, c.B2
	a1, a2 := c.A1, c.A2

	i := 0
	n := len(buf)
	for ; i+1 < n; i += 2 {
		x0 := buf[i]
		y0 := b0*x0 + d0
		d0n := b1*x0 - a1*y0 + d1
		d1n := b2*x0 - a2*y0

		x1 := buf[i+1]
		y1 := b0*x1 + d0n
		d0 = b1*x1 - a1*y1 + d1n
		d1 = b2*x1 - a2*y1

		buf[i] = y0
		buf[i+1] = y1
	}

	if i < n {
		x := buf[i]
		y := b0*x + d0
		d0 = b1*x - a1*y + d1
		d1 = b2*x - a2*y
		buf[i] = y
	}

	return d0, d1
}

// processBlockUnrolled4 is the 4x-unrolled variant selected on AVX2-capable
// CPUs, where the wider out-of-order window pays off.
func processBlockUnrolled4(c Coefficients, d0, d1 float64, buf []float64) (newD0, newD1 float64) {
	b0, b1, b2 := c.B0, c.B1, c.B2
	a1, a2 := c.A1, c.A2

	i := 0
	n := len(buf)
	for ; i+3 < n; i += 4 {
		x0 := buf[i]
		y0 := b0*x0 + d0
		d0n0 := b1*x0 - a1*y0 + d1
		d1n0 := b2*x0 - a2*y0

		x1 := buf[i+1]
		y1 := b0*x1 + d0n0
		d0n1 := b1*x1 - a1*y1 + d1n0
		d1n1 := b2*x1 - a2*y1

		x2 := buf[i+2]
		y2 := b0*x2 + d0n1
		d0n2 := b1*x2 - a1*y2 + d1n1
		d1n2 := b2*x2 - a2*y2

		x3 := buf[i+3]
		y3 := b0*x3 + d0n2
		d0 = b1*x3 - a1*y3 + d1n2
		d1 = b2*x3 - a2*y3

		buf[i] = y0
		buf[i+1] = y1
		buf[i+2] = y2
		buf[i+3] = y3
	}

	for ; i < n; i++ {
		x := buf[i]
		y := b0*x + d0
		d0 = b1*x - a1*y + d1
		d1 = b2*x - a2*y
		buf[i] = y
	}

	return d0, d1
}
