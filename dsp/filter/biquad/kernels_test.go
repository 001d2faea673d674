package biquad

import (
	"testing"

	"github.com/cwbudde/algo-vecmath/cpu"
)

func TestLookupKernel(t *testing.T) {
	tests := []struct {
		name     string
		features cpu.Features
		want     string
	}{
		{
			name:     "generic-forced",
			features: cpu.Features{ForceGeneric: true, HasSSE2: true, HasAVX2: true, Architecture: "amd64"},
			want:     "unrolled2",
		},
		{
			name:     "sse2",
			features: cpu.Features{HasSSE2: true, Architecture: "amd64"},
			want:     "unrolled2",
		},
		{
			name:     "avx2",
			features: cpu.Features{HasSSE2: true, HasAVX2: true, Architecture: "amd64"},
			want:     "unrolled4",
		},
		{
			name:     "neon",
			features: cpu.Features{HasNEON: true, Architecture: "arm64"},
			want:     "unrolled2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lookupKernel(tt.features).name; got != tt.want {
				t.Fatalf("lookupKernel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKernelName(t *testing.T) {
	name := KernelName()
	for _, k := range kernels {
		if k.name == name {
			return
		}
	}
	t.Fatalf("KernelName() = %q, not a registered kernel", name)
}

func TestKernels_OddLengths(t *testing.T) {
	c := Coefficients{B0: 0.3, B1: -0.1, B2: 0.05, A1: -0.9, A2: 0.2}

	for _, n := range []int{0, 1, 2, 3, 5, 7} {
		input := make([]float64, n)
		for i := range input {
			input[i] = float64(i%3) - 0.5
		}

		ref := NewSection(c)
		want := make([]float64, n)
		ref.ProcessBlockTo(want, input)

		for _, k := range kernels {
			buf := append([]float64(nil), input...)
			k.process(c, 0, 0, buf)
			for i := range buf {
				if !almostEqual(buf[i], want[i], eps) {
					t.Fatalf("%s n=%d sample %d: got %v, want %v", k.name, n, i, buf[i], want[i])
				}
			}
		}
	}
}
