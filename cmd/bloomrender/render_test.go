package main

import (
	"context"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/cwbudde/airbloom/internal/testutil"
	"github.com/cwbudde/airbloom/plugin/preset"
	"github.com/sirupsen/logrus"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)

	return l
}

func TestWAVRoundTrip(t *testing.T) {
	tests := []struct {
		bits int
		eps  float64
	}{
		{16, 2.0 / 32768},
		{24, 2.0 / 8388608},
	}

	for _, tt := range tests {
		path := filepath.Join(t.TempDir(), "rt.wav")
		in := testutil.NoiseMulti(2, 5, 0.9, 1000)

		if err := writeWAV(path, in, 44100, tt.bits); err != nil {
			t.Fatalf("%d bit: writeWAV: %v", tt.bits, err)
		}

		got, rate, err := readWAV(path)
		if err != nil {
			t.Fatalf("%d bit: readWAV: %v", tt.bits, err)
		}

		if rate != 44100 {
			t.Fatalf("%d bit: rate = %v", tt.bits, rate)
		}

		testutil.RequireNearlyEqual(t, got, in, tt.eps)
	}
}

func TestWriteWAVRejectsBitDepth(t *testing.T) {
	err := writeWAV(filepath.Join(t.TempDir(), "x.wav"), testutil.SineMulti(1, 1, 8, 1, 8), 8, 12)
	if err == nil {
		t.Fatal("expected error for 12-bit output")
	}
}

func TestReadWAVRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.wav")
	if err := os.WriteFile(path, []byte("definitely not RIFF"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, _, err := readWAV(path); !errors.Is(err, errInvalidWAV) {
		t.Fatalf("err = %v, want errInvalidWAV", err)
	}
}

func TestRunRendersEveryPreset(t *testing.T) {
	dir := t.TempDir()
	cfg := config{
		outDir:   dir,
		presets:  []string{"Flat", "Extreme"},
		rate:     48000,
		freq:     1000,
		levelDB:  -6,
		seconds:  0.4,
		tail:     0.1,
		channels: 2,
		block:    256,
		bits:     16,
		jobs:     2,
	}

	results, err := run(context.Background(), quietLogger(), cfg)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(results) != 2 || results[0].preset != "Flat" || results[1].preset != "Extreme" {
		t.Fatalf("results = %+v", results)
	}

	for _, r := range results {
		if _, err := os.Stat(r.path); err != nil {
			t.Fatalf("%s: %v", r.preset, err)
		}

		if r.faults != 0 {
			t.Fatalf("%s: %d faults", r.preset, r.faults)
		}

		if r.stats.Peak >= 2 {
			t.Fatalf("%s: peak %v", r.preset, r.stats.Peak)
		}
	}

	if results[0].stats.Peak >= 1 {
		t.Fatalf("Flat peak %v, want < 1", results[0].stats.Peak)
	}

	if results[1].thd <= results[0].thd {
		t.Fatalf("Extreme THD %v should exceed Flat THD %v", results[1].thd, results[0].thd)
	}

	out, _, err := readWAV(filepath.Join(dir, "tone-extreme.wav"))
	if err != nil {
		t.Fatal(err)
	}

	if want := int(0.5 * 48000); out.Len() != want {
		t.Fatalf("rendered %d frames, want %d", out.Len(), want)
	}

	var sb strings.Builder
	if err := printResults(&sb, results); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(sb.String(), "tone-flat.wav") {
		t.Fatalf("missing file in table:\n%s", sb.String())
	}
}

func TestRunUnknownPreset(t *testing.T) {
	cfg := config{outDir: t.TempDir(), presets: []string{"Nope"}, rate: 48000, freq: 1000, seconds: 0.05, channels: 1, block: 64, bits: 16, jobs: 1}

	if _, err := run(context.Background(), quietLogger(), cfg); !errors.Is(err, preset.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := config{outDir: t.TempDir(), presets: []string{"Flat"}, rate: 48000, freq: 1000, seconds: 0.05, channels: 1, block: 64, bits: 16, jobs: 1}

	if _, err := run(ctx, quietLogger(), cfg); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" Flat, ,Subtle ,")
	if want := []string{"Flat", "Subtle"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("splitList = %v, want %v", got, want)
	}

	if splitList("") != nil {
		t.Fatal("empty list should be nil")
	}
}

func TestOutputName(t *testing.T) {
	if got := outputName("vocal", "My  Warm Preset"); got != "vocal-my-warm-preset.wav" {
		t.Fatalf("outputName = %q", got)
	}
}

func TestToneDistortionTooShort(t *testing.T) {
	if thd := toneDistortion(testutil.SineMulti(1, 1000, 48000, 0.5, 100), 48000, 1000); !math.IsNaN(thd) {
		t.Fatalf("thd = %v, want NaN", thd)
	}
}
