package core

import (
	"errors"
	"fmt"
)

// ErrInvalidSpec is returned when a ProcessSpec cannot drive a processor.
var ErrInvalidSpec = errors.New("invalid process spec")

// ProcessSpec is the stream configuration a host hands to a processor
// before streaming starts.
type ProcessSpec struct {
	SampleRate     float64
	MaxBlockSize   int
	InputChannels  int
	OutputChannels int
}

// ProcessorOption mutates a ProcessSpec.
type ProcessorOption func(*ProcessSpec)

// DefaultProcessSpec returns a stereo 48 kHz spec with 512-frame blocks.
func DefaultProcessSpec() ProcessSpec {
	return ProcessSpec{
		SampleRate:     48000,
		MaxBlockSize:   512,
		InputChannels:  2,
		OutputChannels: 2,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(spec *ProcessSpec) {
		if sampleRate > 0 && IsFinite(sampleRate) {
			spec.SampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the maximum block size.
func WithBlockSize(blockSize int) ProcessorOption {
	return func(spec *ProcessSpec) {
		if blockSize > 0 {
			spec.MaxBlockSize = blockSize
		}
	}
}

// WithChannels sets a symmetric channel layout.
func WithChannels(channels int) ProcessorOption {
	return func(spec *ProcessSpec) {
		if channels > 0 {
			spec.InputChannels = channels
			spec.OutputChannels = channels
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default spec.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessSpec {
	spec := DefaultProcessSpec()
	for _, opt := range opts {
		if opt != nil {
			opt(&spec)
		}
	}
	return spec
}

// Validate checks the numeric fields of s. Channel layout policy is
// left to the processor.
func (s ProcessSpec) Validate() error {
	if s.SampleRate <= 0 || !IsFinite(s.SampleRate) {
		return fmt.Errorf("%w: sample rate must be > 0 and finite: %f", ErrInvalidSpec, s.SampleRate)
	}
	if s.MaxBlockSize <= 0 {
		return fmt.Errorf("%w: max block size must be > 0: %d", ErrInvalidSpec, s.MaxBlockSize)
	}
	if s.InputChannels <= 0 || s.OutputChannels <= 0 {
		return fmt.Errorf("%w: channel counts must be > 0: in=%d out=%d",
			ErrInvalidSpec, s.InputChannels, s.OutputChannels)
	}
	return nil
}
