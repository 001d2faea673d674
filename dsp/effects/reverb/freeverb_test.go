package reverb

import (
	"math"
	"testing"

	"github.com/cwbudde/airbloom/dsp/buffer"
)

func impulse(n int) []float64 {
	x := make([]float64, n)
	x[0] = 1
	return x
}

func TestNewFreeverb_Validation(t *testing.T) {
	if _, err := NewFreeverb(0); err == nil {
		t.Fatal("expected error for zero sample rate")
	}

	for _, opt := range []Option{
		WithRoomSize(-0.1), WithDamping(2), WithWidth(math.NaN()), WithWet(1.5), WithDry(-1),
	} {
		if _, err := NewFreeverb(48000, opt); err == nil {
			t.Fatal("expected option validation error")
		}
	}
}

func TestFreeverb_TuningsScaleWithSampleRate(t *testing.T) {
	tests := []struct {
		sr        float64
		wantComb0 int
		wantRight int
	}{
		{44100, 1116, 1139},
		{88200, 2232, 2278},
		{48000, 1214, 1239},
	}

	for _, tt := range tests {
		r, err := NewFreeverb(tt.sr)
		if err != nil {
			t.Fatal(err)
		}
		if got := len(r.combs[0][0].buffer); got != tt.wantComb0 {
			t.Errorf("sr=%v: left comb 0 length %d, want %d", tt.sr, got, tt.wantComb0)
		}
		if got := len(r.combs[1][0].buffer); got != tt.wantRight {
			t.Errorf("sr=%v: right comb 0 length %d, want %d", tt.sr, got, tt.wantRight)
		}
	}
}

func TestFreeverb_ImpulseTailExists(t *testing.T) {
	r, _ := NewFreeverb(44100, WithDry(0), WithWet(1))

	const n = 8192
	left := impulse(n)
	right := make([]float64, n)
	r.ProcessStereo(left, right)

	var tailL, tailR float64
	for i := 2000; i < n; i++ {
		tailL += left[i] * left[i]
		tailR += right[i] * right[i]
	}
	if tailL < 1e-8 || tailR < 1e-8 {
		t.Fatalf("expected reverb tail on both sides, got L=%g R=%g", tailL, tailR)
	}
}

func TestFreeverb_ResetRestoresState(t *testing.T) {
	r, _ := NewFreeverb(48000)

	run := func() []float64 {
		l := impulse(2048)
		rr := impulse(2048)
		r.ProcessStereo(l, rr)
		return l
	}

	out1 := run()
	r.Reset()
	out2 := run()

	for i := range out1 {
		if diff := math.Abs(out1[i] - out2[i]); diff > 1e-12 {
			t.Fatalf("sample %d mismatch after reset: got=%g want=%g", i, out2[i], out1[i])
		}
	}
}

func TestFreeverb_FreezeHoldsEnergy(t *testing.T) {
	r, _ := NewFreeverb(44100, WithDry(0), WithWet(1), WithDamping(0.5))

	noise := make([]float64, 4096)
	seed := uint32(1)
	for i := range noise {
		seed = seed*1664525 + 1013904223
		noise[i] = float64(int32(seed))/math.MaxInt32*0.5
	}
	r.ProcessMono(noise)

	r.SetFreeze(true)
	energy := func() float64 {
		buf := make([]float64, 4096)
		buf[0] = 1 // muted while frozen
		r.ProcessMono(buf)
		var e float64
		for _, v := range buf {
			e += v * v
		}
		return e
	}

	first := energy()
	for range 10 {
		energy()
	}
	last := energy()

	if first == 0 {
		t.Fatal("frozen reverb produced silence")
	}
	if ratio := last / first; ratio < 0.5 || ratio > 2 {
		t.Fatalf("frozen energy drifted: first=%g last=%g", first, last)
	}
}

func TestFreeverb_DecaysWhenNotFrozen(t *testing.T) {
	r, _ := NewFreeverb(44100, WithDry(0), WithWet(1), WithRoomSize(0.5))
	buf := impulse(44100 * 4)
	r.ProcessMono(buf)

	var tail float64
	for _, v := range buf[len(buf)-4410:] {
		tail = math.Max(tail, math.Abs(v))
	}
	if tail > 1e-4 {
		t.Fatalf("tail peak %g after 4 s, want < 1e-4", tail)
	}
}

func TestFreeverb_DryOnly(t *testing.T) {
	r, _ := NewFreeverb(48000, WithWet(0), WithDry(0.5))
	left := []float64{0.5, -0.25, 0.125}
	right := []float64{0.1, 0.2, 0.3}
	r.ProcessStereo(left, right)

	for i, want := range []float64{0.5, -0.25, 0.125} {
		if left[i] != want {
			t.Fatalf("left[%d] = %v, want %v", i, left[i], want)
		}
	}
}

func TestFreeverb_ProcessDispatch(t *testing.T) {
	a, _ := NewFreeverb(48000)
	b, _ := NewFreeverb(48000)

	mono := impulse(256)
	ref := impulse(256)
	a.Process(buffer.FromSlices([][]float64{mono}))
	b.ProcessMono(ref)

	for i := range mono {
		if mono[i] != ref[i] {
			t.Fatalf("mono sample %d: Process=%v ProcessMono=%v", i, mono[i], ref[i])
		}
	}

	a.Process(buffer.NewMulti(0, 0))
	a.ProcessStereo(nil, nil)
}

func TestFreeverb_SettersClamp(t *testing.T) {
	r, _ := NewFreeverb(48000)
	r.SetRoomSize(2)
	r.SetDamping(-1)
	r.SetWidth(math.NaN())
	r.SetWet(0.5)
	r.SetDry(3)

	if r.RoomSize() != 1 || r.Damping() != 0 || r.Width() != defaultWidth || r.Wet() != 0.5 || r.Dry() != 1 {
		t.Fatalf("unexpected clamped values: room=%v damp=%v width=%v wet=%v dry=%v",
			r.RoomSize(), r.Damping(), r.Width(), r.Wet(), r.Dry())
	}
}

func TestFreeverb_OutputGains(t *testing.T) {
	tests := []struct {
		name             string
		wet, dry, width  float64
		wet1, wet2, gain float64
	}{
		{name: "full wet wide", wet: 1, dry: 0, width: 1, wet1: 3, wet2: 0, gain: 0},
		{name: "full wet mono", wet: 1, dry: 0, width: 0, wet1: 1.5, wet2: 1.5, gain: 0},
		{name: "partial wet", wet: 0.8, dry: 0.5, width: 1, wet1: 2.4, wet2: 0, gain: 1},
		{name: "defaults", wet: defaultWet, dry: defaultDry, width: defaultWidth, wet1: 0.99, wet2: 0, gain: 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := NewFreeverb(48000, WithWet(tt.wet), WithDry(tt.dry), WithWidth(tt.width))
			if math.Abs(r.wet1-tt.wet1) > 1e-12 || math.Abs(r.wet2-tt.wet2) > 1e-12 {
				t.Fatalf("wet1=%v wet2=%v, want %v %v", r.wet1, r.wet2, tt.wet1, tt.wet2)
			}
			if math.Abs(r.dryGain-tt.gain) > 1e-12 {
				t.Fatalf("dryGain=%v, want %v", r.dryGain, tt.gain)
			}
		})
	}
}
