package main

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/cwbudde/airbloom/dsp/buffer"
	"github.com/cwbudde/airbloom/dsp/core"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const wavFormatPCM = 1

var errInvalidWAV = errors.New("not a valid PCM WAV file")

// readWAV decodes an integer PCM WAV into samples in [-1, 1).
func readWAV(path string) (*buffer.Multi, float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("%s: %w", path, errInvalidWAV)
	}

	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", path, err)
	}

	channels := pcm.Format.NumChannels
	if channels < 1 {
		return nil, 0, fmt.Errorf("%s: %w: no channels", path, errInvalidWAV)
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth < 8 || bitDepth > 32 {
		return nil, 0, fmt.Errorf("%s: unsupported bit depth %d", path, bitDepth)
	}

	scale := 1 / float64(int64(1)<<(bitDepth-1))
	frames := len(pcm.Data) / channels
	m := buffer.NewMulti(channels, frames)

	for i := range frames * channels {
		m.Channel(i % channels)[i/channels] = float64(pcm.Data[i]) * scale
	}

	return m, float64(pcm.Format.SampleRate), nil
}

// writeWAV encodes m as integer PCM, clipping to full scale.
func writeWAV(path string, m *buffer.Multi, sampleRate, bitDepth int) (err error) {
	switch bitDepth {
	case 16, 24, 32:
	default:
		return fmt.Errorf("unsupported bit depth %d", bitDepth)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	channels := m.Channels()
	full := float64(int64(1)<<(bitDepth-1)) - 1
	data := make([]int, m.Len()*channels)

	for ch := range channels {
		for i, v := range m.Channel(ch) {
			data[i*channels+ch] = int(math.Round(core.Clamp(v, -1, 1) * full))
		}
	}

	enc := wav.NewEncoder(f, sampleRate, bitDepth, channels, wavFormatPCM)

	pcm := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(pcm); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	return nil
}
