// Package gain provides block gain stages that ramp linearly from the
// previously applied gain to a new target across one block.
package gain

import (
	"math"

	"github.com/cwbudde/airbloom/dsp/buffer"
	"github.com/cwbudde/airbloom/dsp/core"
	vecmath "github.com/cwbudde/algo-vecmath"
)

// Ramp applies a linear gain ramp per block. Sample i of an n-frame block
// is scaled by prev + (target-prev)*i/n and the target becomes the start
// of the next block, so consecutive blocks join without a step.
type Ramp struct {
	prev float64
	ramp []float64
}

// NewRamp returns a ramp at unity gain with scratch for maxBlock frames.
func NewRamp(maxBlock int) *Ramp {
	r := &Ramp{prev: 1}
	r.Reserve(maxBlock)

	return r
}

// Reserve grows the ramp scratch to hold maxBlock frames.
func (r *Ramp) Reserve(maxBlock int) {
	if maxBlock > cap(r.ramp) {
		r.ramp = make([]float64, maxBlock)
	}
}

// Reset returns the ramp to unity so the next block starts at 0 dB.
func (r *Ramp) Reset() {
	r.prev = 1
}

// Previous returns the gain the next block will start from.
func (r *Ramp) Previous() float64 { return r.prev }

// MaxStep returns the largest per-sample gain change Apply would produce
// ramping to target over n frames.
func (r *Ramp) MaxStep(target float64, n int) float64 {
	if n <= 0 {
		return 0
	}

	return math.Abs(target-r.prev) / float64(n)
}

// Apply scales every channel of buf in place. A non-finite target is
// treated as unity.
func (r *Ramp) Apply(buf *buffer.Multi, target float64) {
	if !core.IsFinite(target) {
		target = 1
	}

	n := buf.Len()
	if n == 0 {
		r.prev = target
		return
	}

	if r.prev == target {
		if target != 1 {
			for ch := range buf.Channels() {
				vecmath.ScaleBlockInPlace(buf.Channel(ch), target)
			}
		}

		return
	}

	r.ramp = core.EnsureLen(r.ramp, n)
	core.FillRamp(r.ramp, r.prev, target)

	for ch := range buf.Channels() {
		vecmath.MulBlockInPlace(buf.Channel(ch), r.ramp)
	}

	r.prev = target
}
