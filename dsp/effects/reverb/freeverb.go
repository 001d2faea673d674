package reverb

import (
	"fmt"

	"github.com/cwbudde/airbloom/dsp/buffer"
	"github.com/cwbudde/airbloom/dsp/core"
)

const (
	numCombs     = 8
	numAllpasses = 4

	fixedGain       = 0.015
	scaleWet        = 3.0
	scaleDry        = 2.0
	scaleDamping    = 0.4
	scaleRoom       = 0.28
	offsetRoom      = 0.7
	allpassFeedback = 0.5
	stereoSpread    = 23

	tuningSampleRate = 44100.0

	defaultRoomSize = 0.5
	defaultDamping  = 0.5
	defaultWidth    = 1.0
	defaultWet      = 0.33
	defaultDry      = 0.4
)

var (
	combTunings    = [numCombs]int{1116, 1188, 1277, 1356, 1422, 1491, 1557, 1617}
	allpassTunings = [numAllpasses]int{556, 441, 341, 225}
)

type comb struct {
	buffer      []float64
	index       int
	filterStore float64
}

func (c *comb) process(input, damp, feedback float64) float64 {
	output := c.buffer[c.index]
	c.filterStore = core.FlushDenormals(output*(1-damp) + c.filterStore*damp)
	c.buffer[c.index] = input + c.filterStore*feedback

	c.index++
	if c.index >= len(c.buffer) {
		c.index = 0
	}

	return output
}

func (c *comb) reset() {
	clear(c.buffer)
	c.index = 0
	c.filterStore = 0
}

type allpass struct {
	buffer []float64
	index  int
}

func (a *allpass) process(input float64) float64 {
	buffered := a.buffer[a.index]
	a.buffer[a.index] = input + buffered*allpassFeedback

	a.index++
	if a.index >= len(a.buffer) {
		a.index = 0
	}

	return buffered - input
}

func (a *allpass) reset() {
	clear(a.buffer)
	a.index = 0
}

// Option mutates construction-time parameters.
type Option func(*config) error

type config struct {
	roomSize float64
	damping  float64
	width    float64
	wet      float64
	dry      float64
	freeze   bool
}

func defaultConfig() config {
	return config{
		roomSize: defaultRoomSize,
		damping:  defaultDamping,
		width:    defaultWidth,
		wet:      defaultWet,
		dry:      defaultDry,
	}
}

func unitOption(name string, v float64, set func(*config, float64)) Option {
	return func(cfg *config) error {
		if v < 0 || v > 1 || !core.IsFinite(v) {
			return fmt.Errorf("freeverb %s must be in [0, 1]: %f", name, v)
		}

		set(cfg, v)

		return nil
	}
}

// WithRoomSize sets the room size in [0, 1].
func WithRoomSize(v float64) Option {
	return unitOption("room size", v, func(c *config, v float64) { c.roomSize = v })
}

// WithDamping sets high-frequency damping in [0, 1].
func WithDamping(v float64) Option {
	return unitOption("damping", v, func(c *config, v float64) { c.damping = v })
}

// WithWidth sets stereo width in [0, 1].
func WithWidth(v float64) Option {
	return unitOption("width", v, func(c *config, v float64) { c.width = v })
}

// WithWet sets the wet level in [0, 1]. Full scale is a tank gain of 3.
func WithWet(v float64) Option {
	return unitOption("wet", v, func(c *config, v float64) { c.wet = v })
}

// WithDry sets the dry level in [0, 1]. Full scale is a gain of 2.
func WithDry(v float64) Option {
	return unitOption("dry", v, func(c *config, v float64) { c.dry = v })
}

// WithFreeze enables infinite hold.
func WithFreeze(enabled bool) Option {
	return func(cfg *config) error {
		cfg.freeze = enabled
		return nil
	}
}

// Freeverb is a stereo Freeverb room model. Mono input runs through the
// left tank only.
type Freeverb struct {
	sampleRate float64
	cfg        config

	gain     float64
	feedback float64
	damp     float64
	wet1     float64
	wet2     float64
	dryGain  float64

	combs     [2][numCombs]comb
	allpasses [2][numAllpasses]allpass
}

// NewFreeverb allocates the delay lines for sampleRate.
func NewFreeverb(sampleRate float64, opts ...Option) (*Freeverb, error) {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return nil, fmt.Errorf("freeverb sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	r := &Freeverb{sampleRate: sampleRate, cfg: cfg}
	scale := sampleRate / tuningSampleRate

	for side := range 2 {
		spread := side * stereoSpread
		for i, tuning := range combTunings {
			r.combs[side][i].buffer = make([]float64, scaledLength(tuning+spread, scale))
		}
		for i, tuning := range allpassTunings {
			r.allpasses[side][i].buffer = make([]float64, scaledLength(tuning+spread, scale))
		}
	}

	r.update()

	return r, nil
}

func scaledLength(tuning int, scale float64) int {
	return max(1, int(float64(tuning)*scale))
}

func (r *Freeverb) update() {
	if r.cfg.freeze {
		r.gain = 0
		r.feedback = 1
		r.damp = 0
	} else {
		r.gain = fixedGain
		r.feedback = r.cfg.roomSize*scaleRoom + offsetRoom
		r.damp = r.cfg.damping * scaleDamping
	}

	wet := r.cfg.wet * scaleWet
	r.wet1 = wet * (r.cfg.width/2 + 0.5)
	r.wet2 = wet * ((1 - r.cfg.width) / 2)
	r.dryGain = r.cfg.dry * scaleDry
}

// SampleRate returns the rate the delay lines were sized for.
func (r *Freeverb) SampleRate() float64 { return r.sampleRate }

// SetRoomSize clamps v to [0, 1].
func (r *Freeverb) SetRoomSize(v float64) {
	r.cfg.roomSize = core.Sanitize(v, 0, 1, defaultRoomSize)
	r.update()
}

// SetDamping clamps v to [0, 1].
func (r *Freeverb) SetDamping(v float64) {
	r.cfg.damping = core.Sanitize(v, 0, 1, defaultDamping)
	r.update()
}

// SetWidth clamps v to [0, 1].
func (r *Freeverb) SetWidth(v float64) {
	r.cfg.width = core.Sanitize(v, 0, 1, defaultWidth)
	r.update()
}

// SetWet clamps v to [0, 1].
func (r *Freeverb) SetWet(v float64) {
	r.cfg.wet = core.Sanitize(v, 0, 1, defaultWet)
	r.update()
}

// SetDry clamps v to [0, 1].
func (r *Freeverb) SetDry(v float64) {
	r.cfg.dry = core.Sanitize(v, 0, 1, defaultDry)
	r.update()
}

// SetFreeze toggles infinite hold. While frozen the input is muted and the
// combs recirculate without loss.
func (r *Freeverb) SetFreeze(enabled bool) {
	r.cfg.freeze = enabled
	r.update()
}

// RoomSize returns the room size.
func (r *Freeverb) RoomSize() float64 { return r.cfg.roomSize }

// Damping returns the damping amount.
func (r *Freeverb) Damping() float64 { return r.cfg.damping }

// Width returns the stereo width.
func (r *Freeverb) Width() float64 { return r.cfg.width }

// Wet returns the wet gain.
func (r *Freeverb) Wet() float64 { return r.cfg.wet }

// Dry returns the dry gain.
func (r *Freeverb) Dry() float64 { return r.cfg.dry }

// Frozen reports whether freeze is on.
func (r *Freeverb) Frozen() bool { return r.cfg.freeze }

// ProcessStereo processes a stereo pair in place. Both slices must have the
// same length.
func (r *Freeverb) ProcessStereo(left, right []float64) {
	if len(left) == 0 {
		return
	}

	dry := r.dryGain
	_ = right[len(left)-1]

	for i := range left {
		input := (left[i] + right[i]) * r.gain

		var outL, outR float64
		for j := range numCombs {
			outL += r.combs[0][j].process(input, r.damp, r.feedback)
			outR += r.combs[1][j].process(input, r.damp, r.feedback)
		}

		for j := range numAllpasses {
			outL = r.allpasses[0][j].process(outL)
			outR = r.allpasses[1][j].process(outR)
		}

		left[i] = outL*r.wet1 + outR*r.wet2 + left[i]*dry
		right[i] = outR*r.wet1 + outL*r.wet2 + right[i]*dry
	}
}

// ProcessMono processes one channel in place through the left tank.
func (r *Freeverb) ProcessMono(buf []float64) {
	dry := r.dryGain

	for i, x := range buf {
		input := x * r.gain

		var out float64
		for j := range numCombs {
			out += r.combs[0][j].process(input, r.damp, r.feedback)
		}

		for j := range numAllpasses {
			out = r.allpasses[0][j].process(out)
		}

		buf[i] = out*r.wet1 + x*dry
	}
}

// Process runs buf in place: mono for one channel, stereo for two or more.
// Channels beyond the second are left untouched.
func (r *Freeverb) Process(buf *buffer.Multi) {
	switch buf.Channels() {
	case 0:
		return
	case 1:
		r.ProcessMono(buf.Channel(0))
	default:
		r.ProcessStereo(buf.Channel(0), buf.Channel(1))
	}
}

// Reset clears every delay line.
func (r *Freeverb) Reset() {
	for side := range 2 {
		for i := range r.combs[side] {
			r.combs[side][i].reset()
		}
		for i := range r.allpasses[side] {
			r.allpasses[side][i].reset()
		}
	}
}
