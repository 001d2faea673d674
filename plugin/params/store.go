package params

import (
	"errors"
	"math"
	"runtime"
	"sync"
	"sync/atomic"
)

// ErrUnknownParameter is returned for IDs outside the parameter layout.
var ErrUnknownParameter = errors.New("params: unknown parameter")

// Source is the read-only view the processor takes one snapshot from per
// block.
type Source interface {
	Load() Snapshot
}

// Store holds the live parameter values. Writers are serialized and bump
// seq around each update; Load retries until it reads the fields between
// two equal even seq values, so it never sees half of a Store and never
// allocates or takes the lock.
type Store struct {
	mu  sync.Mutex
	seq atomic.Uint64

	bloom      atomic.Uint64
	reverbWet  atomic.Uint64
	inputGain  atomic.Uint64
	outputGain atomic.Uint64
	bypass     atomic.Bool
	lowCut     atomic.Bool
	oversample atomic.Int32
}

// NewStore returns a store holding Defaults.
func NewStore() *Store {
	s := &Store{}
	s.Store(Defaults())

	return s
}

// Load returns the current values. Values are clamped on write, so the
// snapshot is always in range.
func (s *Store) Load() Snapshot {
	for {
		seq := s.seq.Load()
		if seq&1 != 0 {
			runtime.Gosched()
			continue
		}

		snap := Snapshot{
			Bloom:        math.Float64frombits(s.bloom.Load()),
			ReverbWet:    math.Float64frombits(s.reverbWet.Load()),
			InputGainDB:  math.Float64frombits(s.inputGain.Load()),
			OutputGainDB: math.Float64frombits(s.outputGain.Load()),
			Bypass:       s.bypass.Load(),
			LowCut:       s.lowCut.Load(),
			Oversample:   int(s.oversample.Load()),
		}

		if s.seq.Load() == seq {
			return snap
		}
	}
}

func (s *Store) beginWrite() {
	s.mu.Lock()
	s.seq.Add(1)
}

func (s *Store) endWrite() {
	s.seq.Add(1)
	s.mu.Unlock()
}

// Store replaces every value with the sanitized snapshot.
func (s *Store) Store(snap Snapshot) {
	snap = snap.Sanitize()

	s.beginWrite()
	defer s.endWrite()

	s.bloom.Store(math.Float64bits(snap.Bloom))
	s.reverbWet.Store(math.Float64bits(snap.ReverbWet))
	s.inputGain.Store(math.Float64bits(snap.InputGainDB))
	s.outputGain.Store(math.Float64bits(snap.OutputGainDB))
	s.bypass.Store(snap.Bypass)
	s.lowCut.Store(snap.LowCut)
	s.oversample.Store(int32(snap.Oversample))
}

// Set writes one parameter. The value is sanitized like Store does.
func (s *Store) Set(id ID, v float64) error {
	snap, err := Defaults().With(id, v)
	if err != nil {
		return err
	}

	snap = snap.Sanitize()

	s.beginWrite()
	defer s.endWrite()

	switch id {
	case Bloom:
		s.bloom.Store(math.Float64bits(snap.Bloom))
	case ReverbWet:
		s.reverbWet.Store(math.Float64bits(snap.ReverbWet))
	case InputGainDB:
		s.inputGain.Store(math.Float64bits(snap.InputGainDB))
	case OutputGainDB:
		s.outputGain.Store(math.Float64bits(snap.OutputGainDB))
	case Bypass:
		s.bypass.Store(snap.Bypass)
	case LowCut:
		s.lowCut.Store(snap.LowCut)
	case Oversample:
		s.oversample.Store(int32(snap.Oversample))
	}

	return nil
}

// Get reads one parameter.
func (s *Store) Get(id ID) (float64, error) {
	return s.Load().Value(id)
}

// SetBloom sets the bloom amount in [0, 1].
func (s *Store) SetBloom(v float64) { _ = s.Set(Bloom, v) }

// SetReverbWet sets the reverb send level in [0, 1].
func (s *Store) SetReverbWet(v float64) { _ = s.Set(ReverbWet, v) }

// SetInputGainDB sets the input gain in [-24, 24] dB.
func (s *Store) SetInputGainDB(v float64) { _ = s.Set(InputGainDB, v) }

// SetOutputGainDB sets the output gain in [-24, 24] dB.
func (s *Store) SetOutputGainDB(v float64) { _ = s.Set(OutputGainDB, v) }

// SetBypass engages or releases bypass.
func (s *Store) SetBypass(on bool) { _ = s.Set(Bypass, boolValue(on)) }

// SetLowCut toggles the 100 Hz low-cut.
func (s *Store) SetLowCut(on bool) { _ = s.Set(LowCut, boolValue(on)) }

// SetOversample selects the oversampling choice index (0=1x, 1=2x, 2=4x).
func (s *Store) SetOversample(choice int) {
	_ = s.Set(Oversample, float64(min(max(choice, 0), OversampleChoices-1)))
}
