package preset

import (
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/cwbudde/airbloom/plugin/params"
	"github.com/sirupsen/logrus"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)

	return l
}

func newManager() (*Manager, *params.Store) {
	store := params.NewStore()

	return NewManager(store, WithLogger(quietLogger())), store
}

func TestFactoryPresets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want params.Snapshot
	}{
		{"Flat", params.Snapshot{}},
		{"Subtle", params.Snapshot{Bloom: 0.25, ReverbWet: 0.15}},
		{"Extreme", params.Snapshot{Bloom: 1, ReverbWet: 0.6, Oversample: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, store := newManager()
			if err := m.Apply(tt.name); err != nil {
				t.Fatalf("Apply: %v", err)
			}

			if got := store.Load(); got != tt.want {
				t.Fatalf("store = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestApplyKeepsBypass(t *testing.T) {
	t.Parallel()

	m, store := newManager()
	store.SetBypass(true)

	if err := m.Apply("Extreme"); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	got := store.Load()
	if !got.Bypass {
		t.Fatal("Apply cleared bypass")
	}

	if got.Bloom != 1 {
		t.Fatalf("bloom = %v, want 1", got.Bloom)
	}
}

func TestApplyUnknown(t *testing.T) {
	t.Parallel()

	m, store := newManager()
	store.SetBloom(0.4)

	err := m.Apply("Nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	if store.Load().Bloom != 0.4 {
		t.Fatal("failed Apply changed the store")
	}
}

func TestSaveAsAndDelete(t *testing.T) {
	t.Parallel()

	m, store := newManager()
	store.SetBloom(0.7)
	store.SetLowCut(true)
	store.SetBypass(true)

	if err := m.SaveAs("  Mine "); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}

	p, err := m.Get("Mine")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if p.Params.Bloom != 0.7 || !p.Params.LowCut || p.Params.Bypass || p.Factory {
		t.Fatalf("saved preset = %+v", p)
	}

	want := []string{"Flat", "Subtle", "Extreme", "Mine"}
	if got := m.Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Names = %v, want %v", got, want)
	}

	store.Store(params.Defaults())
	if err := m.Apply("Mine"); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if store.Load().Bloom != 0.7 {
		t.Fatal("user preset not applied")
	}

	if err := m.Delete("Mine"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if err := m.Delete("Mine"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second Delete err = %v, want ErrNotFound", err)
	}
}

func TestFactoryIsReadOnly(t *testing.T) {
	t.Parallel()

	m, _ := newManager()

	if err := m.SaveAs("Subtle"); !errors.Is(err, ErrReadOnly) {
		t.Fatalf("SaveAs err = %v, want ErrReadOnly", err)
	}

	if err := m.Delete("Flat"); !errors.Is(err, ErrReadOnly) {
		t.Fatalf("Delete err = %v, want ErrReadOnly", err)
	}

	if err := m.SaveAs("   "); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("SaveAs err = %v, want ErrInvalidName", err)
	}
}

func TestExportImport(t *testing.T) {
	t.Parallel()

	src, store := newManager()
	store.SetBloom(0.3)
	_ = src.SaveAs("B")
	store.SetReverbWet(0.9)
	_ = src.SaveAs("A")

	data, err := src.Export()
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	if !strings.HasPrefix(string(data), `{"version":1,"presets":[{"name":"A"`) {
		t.Fatalf("unexpected export: %s", data)
	}

	dst, _ := newManager()

	n, err := dst.Import(data)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}

	if n != 2 {
		t.Fatalf("imported %d presets, want 2", n)
	}

	a, _ := src.Get("A")
	b, err := dst.Get("A")
	if err != nil || a.Params != b.Params {
		t.Fatalf("imported A = %+v (%v), want %+v", b, err, a)
	}
}

func TestImportRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantErr error
		wantN   int
	}{
		{"malformed", `{"version":`, nil, 0},
		{"future version", `{"version":2,"presets":[]}`, ErrUnsupportedVersion, 0},
		{"factory name skipped", `{"version":1,"presets":[{"name":"Flat","params":{"bloom":1}}]}`, nil, 0},
		{"empty name skipped", `{"version":1,"presets":[{"name":"","params":{}}]}`, nil, 0},
		{"out of range clamped", `{"version":1,"presets":[{"name":"X","params":{"bloom":5}}]}`, nil, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, _ := newManager()
			n, err := m.Import([]byte(tt.data))

			if tt.name == "malformed" {
				if err == nil {
					t.Fatal("expected error for malformed input")
				}

				return
			}

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("Import: %v", err)
			}

			if n != tt.wantN {
				t.Fatalf("imported %d, want %d", n, tt.wantN)
			}
		})
	}

	m, _ := newManager()
	_, _ = m.Import([]byte(`{"version":1,"presets":[{"name":"X","params":{"bloom":5}}]}`))

	if p, _ := m.Get("X"); p.Params.Bloom != 1 {
		t.Fatalf("bloom = %v, want clamped 1", p.Params.Bloom)
	}
}

func TestDump(t *testing.T) {
	t.Parallel()

	m, store := newManager()
	store.SetInputGainDB(-6)
	store.SetOversample(1)
	store.SetLowCut(true)

	dump := m.Dump()
	for _, line := range []string{"inputGain: -6.000 dB", "oversample: 2x", "lowCut: true", "bloom: 0.000"} {
		if !strings.Contains(dump, line) {
			t.Errorf("dump missing %q:\n%s", line, dump)
		}
	}
}
