package testutil

import (
	"math"
	"testing"

	"github.com/cwbudde/airbloom/dsp/buffer"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or any
// element differs by more than eps.
func RequireSliceNearlyEqual(t testing.TB, got, want []float64, eps float64) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}

	for i := range got {
		if diff := math.Abs(got[i] - want[i]); diff > eps {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireNearlyEqual compares two buffers channel by channel.
func RequireNearlyEqual(t testing.TB, got, want *buffer.Multi, eps float64) {
	t.Helper()

	if !got.SameSize(want) {
		t.Fatalf("size mismatch: got %dx%d, want %dx%d",
			got.Channels(), got.Len(), want.Channels(), want.Len())
	}

	for ch := range got.Channels() {
		g, w := got.Channel(ch), want.Channel(ch)
		for i := range g {
			if diff := math.Abs(g[i] - w[i]); diff > eps {
				t.Fatalf("ch %d index %d: got %v, want %v (diff %v > eps %v)", ch, i, g[i], w[i], diff, eps)
			}
		}
	}
}

// RequireIdentical fails unless both buffers hold the same bits.
func RequireIdentical(t testing.TB, got, want *buffer.Multi) {
	t.Helper()

	if !got.SameSize(want) {
		t.Fatalf("size mismatch: got %dx%d, want %dx%d",
			got.Channels(), got.Len(), want.Channels(), want.Len())
	}

	for ch := range got.Channels() {
		g, w := got.Channel(ch), want.Channel(ch)
		for i := range g {
			if math.Float64bits(g[i]) != math.Float64bits(w[i]) {
				t.Fatalf("ch %d index %d: got %v, want %v", ch, i, g[i], w[i])
			}
		}
	}
}

// RequireFinite fails if any sample is NaN or infinite.
func RequireFinite(t testing.TB, buf *buffer.Multi) {
	t.Helper()

	for ch := range buf.Channels() {
		for i, v := range buf.Channel(ch) {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("ch %d index %d: non-finite value %v", ch, i, v)
			}
		}
	}
}

// MaxAbsDiff returns the largest absolute sample difference between a and
// b over their common size.
func MaxAbsDiff(a, b *buffer.Multi) float64 {
	worst := 0.0
	for ch := range min(a.Channels(), b.Channels()) {
		x, y := a.Channel(ch), b.Channel(ch)
		for i := range min(len(x), len(y)) {
			worst = max(worst, math.Abs(x[i]-y[i]))
		}
	}

	return worst
}

// MaxJump returns the largest absolute difference between adjacent samples
// of any channel.
func MaxJump(buf *buffer.Multi) float64 {
	worst := 0.0
	for ch := range buf.Channels() {
		data := buf.Channel(ch)
		for i := 1; i < len(data); i++ {
			worst = max(worst, math.Abs(data[i]-data[i-1]))
		}
	}

	return worst
}
