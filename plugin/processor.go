package plugin

import (
	"fmt"
	"sync/atomic"

	"github.com/cwbudde/airbloom/dsp/buffer"
	"github.com/cwbudde/airbloom/dsp/core"
	"github.com/cwbudde/airbloom/dsp/effects/bloom"
	"github.com/cwbudde/airbloom/dsp/effects/reverb"
	"github.com/cwbudde/airbloom/dsp/filter/biquad"
	"github.com/cwbudde/airbloom/dsp/filter/design"
	"github.com/cwbudde/airbloom/dsp/gain"
	"github.com/cwbudde/airbloom/dsp/oversample"
	"github.com/cwbudde/airbloom/dsp/param"
	"github.com/cwbudde/airbloom/plugin/params"
	"github.com/cwbudde/airbloom/plugin/preset"
	vecmath "github.com/cwbudde/algo-vecmath"
	"github.com/sirupsen/logrus"
)

const (
	// SmoothingTime is the ramp length of the bloom and wet smoothers.
	SmoothingTime = 0.05

	// OutputTrimDB is added to the output gain as headroom for the color
	// and reverb stages.
	OutputTrimDB = -5.0

	// LowCutFrequency is the corner of the optional input high-pass.
	LowCutFrequency = 100.0
	lowCutQ         = 0.7071
)

var outputTrim = core.DBToLinear(OutputTrimDB)

var factors = [...]oversample.Factor{oversample.Factor1x, oversample.Factor2x, oversample.Factor4x}

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets the logger used on configuration paths. Process never logs.
func WithLogger(l logrus.FieldLogger) Option {
	return func(p *Processor) {
		if l != nil {
			p.log = l
		}
	}
}

// WithPresets injects the preset manager. Without it the processor creates
// one bound to its store.
func WithPresets(m *preset.Manager) Option {
	return func(p *Processor) {
		p.presets = m
	}
}

// WithSource makes Process read parameters from src instead of the store.
func WithSource(src params.Source) Option {
	return func(p *Processor) {
		if src != nil {
			p.source = src
		}
	}
}

// Processor is the block processor. Process and ProcessBlock must be called
// from one goroutine; parameter writes through the store may come from any.
type Processor struct {
	store   *params.Store
	source  params.Source
	presets *preset.Manager
	log     logrus.FieldLogger

	spec     core.ProcessSpec
	prepared bool
	first    bool
	state    RouterState
	channels int
	lowCutOn bool

	shapers      [len(factors)]*bloom.Shaper
	oversamplers *oversample.Bank
	send         *reverb.Send
	lowCut       *biquad.Bank

	bloomMix *param.Smoother
	wetMix   *param.Smoother
	inGain   *gain.Ramp
	outGain  *gain.Ramp

	dry   *buffer.Multi
	color *buffer.Multi
	wet   *buffer.Multi
	mix   []float64
	inv   []float64

	faults atomic.Uint64
}

// New returns an unprepared processor reading from store. A nil store is
// replaced by a fresh one.
func New(store *params.Store, opts ...Option) *Processor {
	if store == nil {
		store = params.NewStore()
	}

	p := &Processor{
		store:  store,
		source: store,
		log:    logrus.StandardLogger(),
		state:  Active,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	if p.presets == nil {
		p.presets = preset.NewManager(store, preset.WithLogger(p.log))
	}

	return p
}

// Store returns the parameter store.
func (p *Processor) Store() *params.Store { return p.store }

// Presets returns the preset manager.
func (p *Processor) Presets() *preset.Manager { return p.presets }

// State returns the state of the last processed block.
func (p *Processor) State() RouterState { return p.state }

// Latency returns the processing delay in samples. The IIR half-band
// filters are minimum phase and no stage buffers audio.
func (p *Processor) Latency() int { return 0 }

// Faults returns how many blocks fell back to the dry input.
func (p *Processor) Faults() uint64 { return p.faults.Load() }

// Spec returns the prepared stream configuration.
func (p *Processor) Spec() core.ProcessSpec { return p.spec }

// Prepare allocates all state for spec. It may be called again whenever
// the sample rate, block size or layout changes.
func (p *Processor) Prepare(spec core.ProcessSpec) error {
	if err := spec.Validate(); err != nil {
		return fmt.Errorf("plugin: prepare: %w", err)
	}

	if !SupportsLayout(spec.InputChannels, spec.OutputChannels) {
		return fmt.Errorf("%w: in=%d out=%d", ErrUnsupportedLayout, spec.InputChannels, spec.OutputChannels)
	}

	channels := spec.InputChannels
	sr := spec.SampleRate
	maxBlock := spec.MaxBlockSize

	for i, f := range factors {
		s, err := bloom.New(sr*float64(f), channels)
		if err != nil {
			return fmt.Errorf("plugin: prepare bloom %s: %w", f, err)
		}

		p.shapers[i] = s
	}

	bank, err := oversample.NewBank(channels, maxBlock)
	if err != nil {
		return fmt.Errorf("plugin: prepare oversampling: %w", err)
	}

	send, err := reverb.NewSend(sr, channels)
	if err != nil {
		return fmt.Errorf("plugin: prepare reverb: %w", err)
	}

	p.oversamplers = bank
	p.send = send
	p.lowCut = biquad.NewBank(channels, design.Highpass(LowCutFrequency, lowCutQ, sr))
	p.lowCutOn = false

	p.bloomMix = param.NewSmoother()
	p.bloomMix.Reset(sr, SmoothingTime)
	p.wetMix = param.NewSmoother()
	p.wetMix.Reset(sr, SmoothingTime)

	p.inGain = gain.NewRamp(maxBlock)
	p.outGain = gain.NewRamp(maxBlock)

	p.dry = reserved(channels, maxBlock)
	p.color = reserved(channels, maxBlock)
	p.wet = reserved(channels, maxBlock)
	p.mix = make([]float64, maxBlock)
	p.inv = make([]float64, maxBlock)

	p.spec = spec
	p.channels = channels
	p.state = Active
	p.first = true
	p.prepared = true

	p.log.WithFields(logrus.Fields{
		"function":   "Processor.Prepare",
		"sampleRate": sr,
		"maxBlock":   maxBlock,
		"channels":   channels,
		"kernel":     biquad.KernelName(),
	}).Info("Processor prepared")

	return nil
}

func reserved(channels, frames int) *buffer.Multi {
	m := buffer.NewMulti(0, 0)
	m.Reserve(channels, frames)
	m.Resize(channels, 0)

	return m
}

// Release drops all processing state. Prepare must be called again before
// audio is processed.
func (p *Processor) Release() {
	p.prepared = false
	p.shapers = [len(factors)]*bloom.Shaper{}
	p.oversamplers = nil
	p.send = nil
	p.lowCut = nil
	p.dry, p.color, p.wet = nil, nil, nil
	p.mix, p.inv = nil, nil

	p.log.WithFields(logrus.Fields{
		"function": "Processor.Release",
		"faults":   p.faults.Load(),
	}).Info("Processor released")
}

// GetState encodes the current parameters.
func (p *Processor) GetState() ([]byte, error) {
	return p.store.MarshalState()
}

// SetState restores parameters from a GetState blob. DSP state is not part
// of the blob; the smoothers glide to the restored values.
func (p *Processor) SetState(data []byte) error {
	if err := p.store.UnmarshalState(data); err != nil {
		p.log.WithFields(logrus.Fields{
			"function": "Processor.SetState",
			"bytes":    len(data),
			"error":    err,
		}).Warn("Rejected state")

		return err
	}

	p.log.WithFields(logrus.Fields{
		"function": "Processor.SetState",
		"bytes":    len(data),
	}).Info("State restored")

	return nil
}

// Process runs one block in place using the current parameters. Before
// Prepare the buffer is left untouched.
func (p *Processor) Process(buf *buffer.Multi) {
	if !p.prepared || buf == nil {
		return
	}

	p.ProcessBlock(buf, p.source.Load())
}

// ProcessBlock runs one block in place with the given parameters. It does
// not allocate unless buf exceeds the prepared block size and never
// panics; a block that fails or produces non-finite samples is replaced by
// its dry input.
func (p *Processor) ProcessBlock(buf *buffer.Multi, snap params.Snapshot) {
	if !p.prepared || buf == nil {
		return
	}

	snap = snap.Sanitize()

	if snap.Bypass {
		p.bypass(snap)
		return
	}

	p.state = Active

	if !p.fitLayout(buf) || buf.Len() == 0 {
		return
	}

	p.dry.CopyFrom(buf)

	if !p.render(buf, snap) {
		buf.CopyFrom(p.dry)
		p.reset()
		p.faults.Add(1)
	}
}

func (p *Processor) bypass(snap params.Snapshot) {
	p.state = Bypassed

	p.inGain.Reset()
	p.outGain.Reset()

	p.bloomMix.SetCurrentAndTarget(snap.Bloom)
	p.wetMix.SetCurrentAndTarget(snap.ReverbWet)
}

// fitLayout follows a change in the buffer's channel count. Channel state
// that survives is kept.
func (p *Processor) fitLayout(buf *buffer.Multi) bool {
	channels := buf.Channels()
	if channels < 1 || channels > maxChannels {
		return false
	}

	if channels == p.channels {
		return true
	}

	for _, s := range p.shapers {
		s.SetChannels(channels)
	}

	p.send.SetChannels(channels)
	p.lowCut.SetChannels(channels)
	p.oversamplers.Resize(channels, p.spec.MaxBlockSize)
	p.channels = channels

	return true
}

func (p *Processor) render(buf *buffer.Multi, snap params.Snapshot) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	n := buf.Len()

	p.bloomMix.SetTarget(snap.Bloom)
	p.wetMix.SetTarget(snap.ReverbWet)

	if p.first {
		p.bloomMix.SnapToTarget()
		p.wetMix.SnapToTarget()
		p.first = false
	}

	p.inGain.Apply(buf, core.DBToLinear(snap.InputGainDB))

	if snap.LowCut {
		if !p.lowCutOn {
			p.lowCut.Reset()
			p.lowCutOn = true
		}

		p.lowCut.Process(buf.Data())
	} else {
		p.lowCutOn = false
	}

	p.mix = core.EnsureLen(p.mix, n)
	p.inv = core.EnsureLen(p.inv, n)

	p.color.CopyFrom(buf)
	p.colorize(p.color, snap)
	p.bloomMix.Fill(p.mix)
	p.crossfade(buf, p.color)

	if p.wetMix.Target() == 0 && p.wetMix.Current() == 0 {
		if !p.send.Idle() {
			p.send.Reset()
		}
	} else {
		p.wet.CopyFrom(buf)
		p.send.Process(p.wet)
		p.wetMix.Fill(p.mix)
		p.crossfade(buf, p.wet)
	}

	p.outGain.Apply(buf, core.DBToLinear(snap.OutputGainDB)*outputTrim)

	return finite(buf)
}

// colorize runs the shaper for the selected ratio on color, oversampled
// when the ratio is above 1x.
func (p *Processor) colorize(color *buffer.Multi, snap params.Snapshot) {
	factor := oversample.FactorFromChoice(snap.Oversample)
	shaper := p.shapers[factor.Choice()]

	if factor != p.oversamplers.Active() {
		shaper.Reset()
	}

	sampler := p.oversamplers.Select(factor)
	shaper.SetBloom(snap.Bloom)

	up := sampler.ProcessUp(color)
	shaper.Process(up)
	sampler.ProcessDown(color)
}

// crossfade sets dst = dst*(1-mix) + src*mix per sample.
func (p *Processor) crossfade(dst, src *buffer.Multi) {
	for i, m := range p.mix {
		p.inv[i] = 1 - m
	}

	for ch := range dst.Channels() {
		d := dst.Channel(ch)
		vecmath.MulBlockInPlace(d, p.inv)
		vecmath.MulAddBlock(d, src.Channel(ch), p.mix, d)
	}
}

func (p *Processor) reset() {
	for _, s := range p.shapers {
		s.Reset()
	}

	p.oversamplers.Reset()
	p.send.Reset()
	p.lowCut.Reset()
	p.inGain.Reset()
	p.outGain.Reset()
	p.bloomMix.SnapToTarget()
	p.wetMix.SnapToTarget()
}

func finite(buf *buffer.Multi) bool {
	for ch := range buf.Channels() {
		if !core.IsFinite(vecmath.Sum(buf.Channel(ch))) {
			return false
		}
	}

	return true
}
