package params

import (
	"errors"
	"testing"
)

func TestState_RoundTrip(t *testing.T) {
	s := NewStore()
	s.Store(Snapshot{
		Bloom: 0.5, ReverbWet: 0.3, InputGainDB: -3, OutputGainDB: 1.5,
		Bypass: true, LowCut: true, Oversample: 1,
	})

	data, err := s.MarshalState()
	if err != nil {
		t.Fatalf("MarshalState() error = %v", err)
	}

	restored := NewStore()
	if err := restored.UnmarshalState(data); err != nil {
		t.Fatalf("UnmarshalState() error = %v", err)
	}
	if restored.Load() != s.Load() {
		t.Fatalf("round trip = %+v, want %+v", restored.Load(), s.Load())
	}
}

func TestDecodeState(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    Snapshot
		wantErr error
	}{
		{
			name: "unknown keys ignored",
			data: `{"version":1,"params":{"bloom":0.25,"atmos":true,"shimmer":3}}`,
			want: Snapshot{Bloom: 0.25},
		},
		{
			name: "missing keys default",
			data: `{"version":1,"params":{"lowCut":true}}`,
			want: Snapshot{LowCut: true},
		},
		{
			name: "values clamped",
			data: `{"version":1,"params":{"inputGain":99,"oversample":1.6}}`,
			want: Snapshot{InputGainDB: 24, Oversample: 2},
		},
		{
			name: "older layout without params",
			data: `{"version":1}`,
			want: Defaults(),
		},
		{
			name:    "newer version",
			data:    `{"version":2,"params":{}}`,
			wantErr: ErrUnsupportedVersion,
		},
		{
			name:    "missing version",
			data:    `{"params":{}}`,
			wantErr: ErrMalformedState,
		},
		{
			name:    "not json",
			data:    `<xml/>`,
			wantErr: ErrMalformedState,
		},
		{
			name:    "wrong type",
			data:    `{"version":1,"params":{"bypass":"yes"}}`,
			wantErr: ErrMalformedState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeState([]byte(tt.data))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("DecodeState() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeState() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("DecodeState() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestUnmarshalState_ErrorKeepsStore(t *testing.T) {
	s := NewStore()
	s.SetBloom(0.7)

	if err := s.UnmarshalState([]byte(`{"version":9}`)); err == nil {
		t.Fatal("expected error")
	}
	if s.Load().Bloom != 0.7 {
		t.Fatalf("store changed on failed decode: %+v", s.Load())
	}
}
