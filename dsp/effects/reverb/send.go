package reverb

import (
	"fmt"

	"github.com/cwbudde/airbloom/dsp/buffer"
	"github.com/cwbudde/airbloom/dsp/filter/biquad"
	"github.com/cwbudde/airbloom/dsp/filter/design"
)

const (
	// SendHighpassFrequency keeps low end out of the room.
	SendHighpassFrequency = 800.0
	sendHighpassQ         = 0.7071

	sendRoomSize = 0.8
	sendDamping  = 0.2
	sendWidth    = 1.0
)

// Send is the fully wet reverb return: a per-channel high-pass feeding a
// Freeverb with no dry signal. The caller scales and mixes the result.
type Send struct {
	hpf  *biquad.Bank
	verb *Freeverb
	idle bool
}

// NewSend prepares a send for sampleRate and channels channels.
func NewSend(sampleRate float64, channels int) (*Send, error) {
	if channels < 1 {
		return nil, fmt.Errorf("reverb send channels must be >= 1: %d", channels)
	}

	verb, err := NewFreeverb(sampleRate,
		WithRoomSize(sendRoomSize),
		WithDamping(sendDamping),
		WithWidth(sendWidth),
		WithWet(1),
		WithDry(0),
		WithFreeze(false),
	)
	if err != nil {
		return nil, fmt.Errorf("reverb send: %w", err)
	}

	return &Send{
		hpf:  biquad.NewBank(channels, design.Highpass(SendHighpassFrequency, sendHighpassQ, sampleRate)),
		verb: verb,
		idle: true,
	}, nil
}

// Reverb exposes the underlying room model.
func (s *Send) Reverb() *Freeverb { return s.verb }

// SetChannels resizes the high-pass bank.
func (s *Send) SetChannels(channels int) { s.hpf.SetChannels(channels) }

// Process replaces buf with the wet reverb of its contents.
func (s *Send) Process(buf *buffer.Multi) {
	s.hpf.Process(buf.Data())
	s.verb.Process(buf)
	s.idle = false
}

// Reset clears the high-pass and the reverb tanks.
func (s *Send) Reset() {
	s.hpf.Reset()
	s.verb.Reset()
	s.idle = true
}

// Idle reports whether the send has been cleared and not run since.
func (s *Send) Idle() bool { return s.idle }
