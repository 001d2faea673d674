package params

import (
	"encoding/json"
	"errors"
	"fmt"
)

// StateVersion is the version written by MarshalState.
const StateVersion = 1

var (
	// ErrUnsupportedVersion is returned for state written by a newer release.
	ErrUnsupportedVersion = errors.New("params: unsupported state version")
	// ErrMalformedState is returned when a state blob cannot be decoded.
	ErrMalformedState = errors.New("params: malformed state")
)

type stateEnvelope struct {
	Version int                        `json:"version"`
	Params  map[string]json.RawMessage `json:"params"`
}

// MarshalState encodes the current values as a versioned JSON blob.
func (s *Store) MarshalState() ([]byte, error) {
	return EncodeState(s.Load())
}

// UnmarshalState decodes a blob produced by MarshalState and stores it.
// Unknown keys are ignored and missing keys fall back to defaults. On error
// the store is left unchanged.
func (s *Store) UnmarshalState(data []byte) error {
	snap, err := DecodeState(data)
	if err != nil {
		return err
	}

	s.Store(snap)

	return nil
}

// EncodeState encodes snap as a versioned JSON blob.
func EncodeState(snap Snapshot) ([]byte, error) {
	raw, err := json.Marshal(snap.Sanitize())
	if err != nil {
		return nil, fmt.Errorf("params: encode state: %w", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("params: encode state: %w", err)
	}

	out, err := json.Marshal(stateEnvelope{Version: StateVersion, Params: fields})
	if err != nil {
		return nil, fmt.Errorf("params: encode state: %w", err)
	}

	return out, nil
}

// DecodeState parses a versioned JSON blob into a sanitized snapshot.
func DecodeState(data []byte) (Snapshot, error) {
	var env stateEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %w", ErrMalformedState, err)
	}

	if env.Version < 1 {
		return Snapshot{}, fmt.Errorf("%w: missing version", ErrMalformedState)
	}

	if env.Version > StateVersion {
		return Snapshot{}, fmt.Errorf("%w: %d (supported %d)", ErrUnsupportedVersion, env.Version, StateVersion)
	}

	snap := Defaults()
	for _, d := range descriptors {
		raw, ok := env.Params[string(d.ID)]
		if !ok {
			continue
		}

		var err error
		switch d.Kind {
		case KindBool:
			var b bool
			if err = json.Unmarshal(raw, &b); err == nil {
				snap, err = snap.With(d.ID, boolValue(b))
			}
		default:
			var v float64
			if err = json.Unmarshal(raw, &v); err == nil {
				snap, err = snap.With(d.ID, v)
			}
		}

		if err != nil {
			return Snapshot{}, fmt.Errorf("%w: %s: %w", ErrMalformedState, d.ID, err)
		}
	}

	return snap.Sanitize(), nil
}
