package params

import (
	"fmt"
	"math"

	"github.com/cwbudde/airbloom/dsp/core"
)

// ID names a parameter in state blobs and presets.
type ID string

const (
	Bloom        ID = "bloom"
	ReverbWet    ID = "reverbWet"
	InputGainDB  ID = "inputGain"
	OutputGainDB ID = "outputGain"
	Bypass       ID = "bypass"
	LowCut       ID = "lowCut"
	Oversample   ID = "oversample"
)

// Kind is the value type of a parameter.
type Kind int

const (
	KindFloat Kind = iota
	KindBool
	KindChoice
)

// Descriptor describes one parameter's range and default.
type Descriptor struct {
	ID      ID
	Name    string
	Kind    Kind
	Min     float64
	Max     float64
	Default float64
	Unit    string
	Choices []string
}

const (
	minGainDB = -24.0
	maxGainDB = 24.0

	// OversampleChoices is the number of oversampling options (1x, 2x, 4x).
	OversampleChoices = 3
)

var descriptors = []Descriptor{
	{ID: Bloom, Name: "Bloom", Kind: KindFloat, Min: 0, Max: 1},
	{ID: ReverbWet, Name: "Reverb Wet", Kind: KindFloat, Min: 0, Max: 1},
	{ID: InputGainDB, Name: "Input Gain", Kind: KindFloat, Min: minGainDB, Max: maxGainDB, Unit: "dB"},
	{ID: OutputGainDB, Name: "Output Gain", Kind: KindFloat, Min: minGainDB, Max: maxGainDB, Unit: "dB"},
	{ID: Bypass, Name: "Bypass", Kind: KindBool, Min: 0, Max: 1},
	{ID: LowCut, Name: "Low Cut", Kind: KindBool, Min: 0, Max: 1},
	{ID: Oversample, Name: "Oversampling", Kind: KindChoice, Min: 0, Max: OversampleChoices - 1,
		Choices: []string{"1x", "2x", "4x"}},
}

// Descriptors returns the parameter layout in display order.
func Descriptors() []Descriptor {
	out := make([]Descriptor, len(descriptors))
	copy(out, descriptors)

	return out
}

// Lookup returns the descriptor for id.
func Lookup(id ID) (Descriptor, bool) {
	for _, d := range descriptors {
		if d.ID == id {
			return d, true
		}
	}

	return Descriptor{}, false
}

// Snapshot holds one value per parameter. Store.Load returns it as a
// single consistent read.
type Snapshot struct {
	Bloom        float64 `json:"bloom"`
	ReverbWet    float64 `json:"reverbWet"`
	InputGainDB  float64 `json:"inputGain"`
	OutputGainDB float64 `json:"outputGain"`
	Bypass       bool    `json:"bypass"`
	LowCut       bool    `json:"lowCut"`
	Oversample   int     `json:"oversample"`
}

// Defaults returns the initial parameter set.
func Defaults() Snapshot {
	return Snapshot{}
}

// Sanitize clamps every field into range and replaces non-finite values
// with their defaults.
func (s Snapshot) Sanitize() Snapshot {
	s.Bloom = core.Sanitize(s.Bloom, 0, 1, 0)
	s.ReverbWet = core.Sanitize(s.ReverbWet, 0, 1, 0)
	s.InputGainDB = core.Sanitize(s.InputGainDB, minGainDB, maxGainDB, 0)
	s.OutputGainDB = core.Sanitize(s.OutputGainDB, minGainDB, maxGainDB, 0)
	s.Oversample = min(max(s.Oversample, 0), OversampleChoices-1)

	return s
}

// Value returns the field for id as a float (bools as 0/1).
func (s Snapshot) Value(id ID) (float64, error) {
	switch id {
	case Bloom:
		return s.Bloom, nil
	case ReverbWet:
		return s.ReverbWet, nil
	case InputGainDB:
		return s.InputGainDB, nil
	case OutputGainDB:
		return s.OutputGainDB, nil
	case Bypass:
		return boolValue(s.Bypass), nil
	case LowCut:
		return boolValue(s.LowCut), nil
	case Oversample:
		return float64(s.Oversample), nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownParameter, id)
	}
}

// With returns a copy of s with id set to v. Bools are true for v >= 0.5;
// choices round to the nearest index.
func (s Snapshot) With(id ID, v float64) (Snapshot, error) {
	switch id {
	case Bloom:
		s.Bloom = v
	case ReverbWet:
		s.ReverbWet = v
	case InputGainDB:
		s.InputGainDB = v
	case OutputGainDB:
		s.OutputGainDB = v
	case Bypass:
		s.Bypass = v >= 0.5
	case LowCut:
		s.LowCut = v >= 0.5
	case Oversample:
		if core.IsFinite(v) {
			s.Oversample = int(math.Round(v))
		}
	default:
		return s, fmt.Errorf("%w: %q", ErrUnknownParameter, id)
	}

	return s, nil
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}

	return 0
}
