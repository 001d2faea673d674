package oversample

import (
	"errors"
	"fmt"

	"github.com/cwbudde/airbloom/dsp/buffer"
)

// Factor is an oversampling ratio.
type Factor int

const (
	Factor1x Factor = 1
	Factor2x Factor = 2
	Factor4x Factor = 4
)

// ErrInvalidFactor is returned for ratios other than 1, 2 and 4.
var ErrInvalidFactor = errors.New("oversample: factor must be 1, 2 or 4")

// Valid reports whether f is a supported ratio.
func (f Factor) Valid() bool {
	return f == Factor1x || f == Factor2x || f == Factor4x
}

// Stages returns the number of cascaded 2x stages.
func (f Factor) Stages() int {
	switch f {
	case Factor2x:
		return 1
	case Factor4x:
		return 2
	default:
		return 0
	}
}

func (f Factor) String() string {
	return fmt.Sprintf("%dx", int(f))
}

// FactorFromChoice maps a choice index (0, 1, 2) to 1x, 2x or 4x. Indices
// out of range are clamped.
func FactorFromChoice(index int) Factor {
	switch {
	case index <= 0:
		return Factor1x
	case index == 1:
		return Factor2x
	default:
		return Factor4x
	}
}

// Choice is the inverse of FactorFromChoice.
func (f Factor) Choice() int {
	return f.Stages()
}

// Oversampler converts a block to factor times its rate and back. Each
// channel has its own filter state.
type Oversampler struct {
	factor   Factor
	coeffs   []float64
	stages   [][]*halfband // [stage][channel]
	buffers  []*buffer.Multi
	channels int
	maxBlock int
}

// New returns an oversampler for channels channels and blocks of up to
// maxBlock frames at the native rate.
func New(factor Factor, channels, maxBlock int) (*Oversampler, error) {
	if !factor.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFactor, int(factor))
	}

	if channels < 1 {
		return nil, fmt.Errorf("oversample: channels must be >= 1: %d", channels)
	}

	if maxBlock < 1 {
		return nil, fmt.Errorf("oversample: max block must be >= 1: %d", maxBlock)
	}

	coeffs, err := DesignHalfband(DefaultCoefficientCount, DefaultTransition)
	if err != nil {
		return nil, err
	}

	o := &Oversampler{
		factor:  factor,
		coeffs:  coeffs,
		stages:  make([][]*halfband, factor.Stages()),
		buffers: make([]*buffer.Multi, factor.Stages()),
	}
	for i := range o.buffers {
		o.buffers[i] = buffer.NewMulti(0, 0)
	}

	o.Resize(channels, maxBlock)

	return o, nil
}

// Factor returns the oversampling ratio.
func (o *Oversampler) Factor() Factor { return o.factor }

// Resize prepares state and scratch for channels channels and blocks of up
// to maxBlock native frames. Existing channel state is kept.
func (o *Oversampler) Resize(channels, maxBlock int) {
	channels = max(channels, 0)
	maxBlock = max(maxBlock, 0)

	for s := range o.stages {
		for len(o.stages[s]) < channels {
			o.stages[s] = append(o.stages[s], newHalfband(o.coeffs))
		}

		o.buffers[s].Reserve(channels, maxBlock<<(s+1))
	}

	o.channels = max(o.channels, channels)
	o.maxBlock = max(o.maxBlock, maxBlock)
}

// ProcessUp returns in resampled to factor times its rate. For 1x the input
// itself is returned. The returned buffer is owned by the oversampler and
// valid until the next ProcessUp.
func (o *Oversampler) ProcessUp(in *buffer.Multi) *buffer.Multi {
	if o.factor == Factor1x {
		return in
	}

	if in.Channels() > o.channels || in.Len() > o.maxBlock {
		o.Resize(in.Channels(), in.Len())
	}

	src := in
	for s, dst := range o.buffers {
		dst.Resize(src.Channels(), src.Len()*2)
		for ch := range src.Channels() {
			o.stages[s][ch].upsample(dst.Channel(ch), src.Channel(ch))
		}
		src = dst
	}

	return src
}

// ProcessDown resamples the buffer returned by the last ProcessUp back to
// the native rate and writes it into out, which must have the native
// length. For 1x it does nothing.
func (o *Oversampler) ProcessDown(out *buffer.Multi) {
	if o.factor == Factor1x {
		return
	}

	for s := len(o.buffers) - 1; s >= 0; s-- {
		src := o.buffers[s]
		dst := out
		if s > 0 {
			dst = o.buffers[s-1]
		}

		n := min(src.Channels(), dst.Channels())
		for ch := range n {
			o.stages[s][ch].downsample(dst.Channel(ch), src.Channel(ch)[:2*dst.Len()])
		}
	}
}

// Reset clears all filter state.
func (o *Oversampler) Reset() {
	for _, stage := range o.stages {
		for _, h := range stage {
			h.reset()
		}
	}
}

// Bank keeps one prepared oversampler per supported factor so the active
// ratio can change between blocks without allocation.
type Bank struct {
	samplers [3]*Oversampler
	active   Factor
}

// NewBank prepares 1x, 2x and 4x oversamplers.
func NewBank(channels, maxBlock int) (*Bank, error) {
	b := &Bank{active: Factor1x}

	for i, f := range []Factor{Factor1x, Factor2x, Factor4x} {
		o, err := New(f, channels, maxBlock)
		if err != nil {
			return nil, err
		}
		b.samplers[i] = o
	}

	return b, nil
}

// Select returns the oversampler for f and makes it active. Switching
// ratio clears the newly selected sampler so stale history from its last
// use does not leak into the block.
func (b *Bank) Select(f Factor) *Oversampler {
	if !f.Valid() {
		f = Factor1x
	}

	o := b.samplers[f.Choice()]
	if f != b.active {
		o.Reset()
		b.active = f
	}

	return o
}

// Active returns the currently selected ratio.
func (b *Bank) Active() Factor { return b.active }

// Get returns the oversampler for f without changing the selection.
func (b *Bank) Get(f Factor) *Oversampler {
	if !f.Valid() {
		return nil
	}

	return b.samplers[f.Choice()]
}

// Resize prepares every oversampler for the given layout.
func (b *Bank) Resize(channels, maxBlock int) {
	for _, o := range b.samplers {
		o.Resize(channels, maxBlock)
	}
}

// Reset clears every oversampler.
func (b *Bank) Reset() {
	for _, o := range b.samplers {
		o.Reset()
	}
}
