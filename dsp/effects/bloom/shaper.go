package bloom

import (
	"fmt"
	"math"

	"github.com/cwbudde/airbloom/dsp/buffer"
	"github.com/cwbudde/airbloom/dsp/core"
	"github.com/cwbudde/airbloom/dsp/filter/biquad"
	"github.com/cwbudde/airbloom/dsp/filter/design"
	vecmath "github.com/cwbudde/algo-vecmath"
)

const (
	defaultShelfFrequency = 10000.0
	defaultShelfQ         = 0.7071
	defaultShelfRangeDB   = 12.0 * 4
	defaultDriveRangeDB   = 8.0 * 4

	minShelfFrequency = 1000.0
	maxShelfFrequency = 20000.0
	minShelfQ         = 0.1
	maxShelfQ         = 10.0
	maxRangeDB        = 96.0

	// softClipSlope is the pre-gain of the tanh clipper.
	softClipSlope = 1.5
)

// Option mutates construction-time parameters.
type Option func(*config) error

type config struct {
	shelfFreq    float64
	shelfQ       float64
	shelfRangeDB float64
	driveRangeDB float64
}

func defaultConfig() config {
	return config{
		shelfFreq:    defaultShelfFrequency,
		shelfQ:       defaultShelfQ,
		shelfRangeDB: defaultShelfRangeDB,
		driveRangeDB: defaultDriveRangeDB,
	}
}

// WithShelfFrequency sets the shelf corner in [1000, 20000] Hz.
func WithShelfFrequency(freq float64) Option {
	return func(cfg *config) error {
		if freq < minShelfFrequency || freq > maxShelfFrequency || !core.IsFinite(freq) {
			return fmt.Errorf("bloom shelf frequency must be in [%g, %g]: %f", minShelfFrequency, maxShelfFrequency, freq)
		}

		cfg.shelfFreq = freq

		return nil
	}
}

// WithShelfQ sets the shelf quality factor in [0.1, 10].
func WithShelfQ(q float64) Option {
	return func(cfg *config) error {
		if q < minShelfQ || q > maxShelfQ || !core.IsFinite(q) {
			return fmt.Errorf("bloom shelf q must be in [%g, %g]: %f", minShelfQ, maxShelfQ, q)
		}

		cfg.shelfQ = q

		return nil
	}
}

// WithShelfRange sets the shelf gain in dB reached at bloom 1.
func WithShelfRange(db float64) Option {
	return func(cfg *config) error {
		if db < 0 || db > maxRangeDB || !core.IsFinite(db) {
			return fmt.Errorf("bloom shelf range must be in [0, %g]: %f", maxRangeDB, db)
		}

		cfg.shelfRangeDB = db

		return nil
	}
}

// WithDriveRange sets the drive gain in dB reached at bloom 1.
func WithDriveRange(db float64) Option {
	return func(cfg *config) error {
		if db < 0 || db > maxRangeDB || !core.IsFinite(db) {
			return fmt.Errorf("bloom drive range must be in [0, %g]: %f", maxRangeDB, db)
		}

		cfg.driveRangeDB = db

		return nil
	}
}

// Shaper is the per-rate tone shaper. One instance serves every channel;
// each channel has its own shelf state.
type Shaper struct {
	sampleRate float64
	cfg        config

	bloom     float64
	shelfDB   float64
	driveDB   float64
	driveGain float64
	shelf     *biquad.Bank
}

// New creates a shaper for the given rate and channel count with bloom 0.
func New(sampleRate float64, channels int, opts ...Option) (*Shaper, error) {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return nil, fmt.Errorf("bloom sample rate must be > 0 and finite: %f", sampleRate)
	}

	if channels < 1 {
		return nil, fmt.Errorf("bloom channels must be >= 1: %d", channels)
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

	s := &Shaper{
		sampleRate: sampleRate,
		cfg:        cfg,
		bloom:      math.NaN(),
		shelf:      biquad.NewBank(channels, biquad.Coefficients{B0: 1}),
	}
	s.SetBloom(0)

	return s, nil
}

// SampleRate returns the processing rate.
func (s *Shaper) SampleRate() float64 { return s.sampleRate }

// ShelfFrequency returns the requested shelf corner. The designed corner
// may sit lower when the rate cannot represent it.
func (s *Shaper) ShelfFrequency() float64 { return s.cfg.shelfFreq }

// Bloom returns the clamped bloom amount in effect.
func (s *Shaper) Bloom() float64 { return s.bloom }

// ShelfGainDB returns the current shelf gain.
func (s *Shaper) ShelfGainDB() float64 { return s.shelfDB }

// DriveDB returns the current drive in dB.
func (s *Shaper) DriveDB() float64 { return s.driveDB }

// DriveGain returns the current linear drive gain.
func (s *Shaper) DriveGain() float64 { return s.driveGain }

// Coefficients returns the current shelf coefficients.
func (s *Shaper) Coefficients() biquad.Coefficients { return s.shelf.Coefficients() }

// SetBloom clamps b to [0, 1] and updates the shelf and drive. Filter state
// is kept so per-block updates do not click. NaN maps to 0.
func (s *Shaper) SetBloom(b float64) {
	b = core.Sanitize(b, 0, 1, 0)
	if b == s.bloom {
		return
	}

	s.bloom = b
	s.shelfDB = b * s.cfg.shelfRangeDB
	s.driveDB = b * s.cfg.driveRangeDB
	s.driveGain = dbToGain(s.driveDB)
	s.shelf.SetCoefficients(design.HighShelf(s.cfg.shelfFreq, s.shelfDB, s.cfg.shelfQ, s.sampleRate))
}

// SetChannels resizes the per-channel shelf state.
func (s *Shaper) SetChannels(channels int) {
	s.shelf.SetChannels(channels)
}

// ProcessSample shapes one sample of channel ch.
func (s *Shaper) ProcessSample(ch int, x float64) float64 {
	y := s.shelf.Section(ch).ProcessSample(x)
	return softClip(y * s.driveGain)
}

// Process shapes every channel of buf in place. Channels beyond the
// prepared count are left untouched.
func (s *Shaper) Process(buf *buffer.Multi) {
	n := min(buf.Channels(), s.shelf.Channels())
	for ch := range n {
		data := buf.Channel(ch)
		s.shelf.Section(ch).ProcessBlock(data)
		vecmath.ScaleBlockInPlace(data, s.driveGain)

		for i, x := range data {
			data[i] = softClip(x)
		}
	}
}

// Reset clears the shelf state.
func (s *Shaper) Reset() {
	s.shelf.Reset()
}
