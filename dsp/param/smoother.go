package param

import "math"

// Smoother ramps a parameter linearly from its current value to a target
// over a fixed number of samples. Retargeting mid-ramp re-plans the ramp
// from wherever the value currently is, so the output never jumps.
//
// The zero value holds 0 and snaps instantly until Reset sets a ramp length.
type Smoother struct {
	current   float64
	target    float64
	step      float64
	steps     int
	countdown int
}

// NewSmoother returns a smoother at 0 with no ramp.
func NewSmoother() *Smoother {
	return &Smoother{}
}

// Reset sets the ramp length to floor(rampSeconds*sampleRate) samples and
// snaps the current value to the target.
func (s *Smoother) Reset(sampleRate, rampSeconds float64) {
	steps := 0
	if sampleRate > 0 && rampSeconds > 0 && !math.IsInf(sampleRate*rampSeconds, 0) {
		steps = int(math.Floor(rampSeconds * sampleRate))
	}

	s.steps = steps
	s.SnapToTarget()
}

// RampLength returns the ramp length in samples.
func (s *Smoother) RampLength() int { return s.steps }

// SetTarget starts a ramp towards v over the full ramp length. Setting the
// current target again is a no-op and does not restart the ramp.
func (s *Smoother) SetTarget(v float64) {
	if v == s.target {
		return
	}

	if s.steps <= 0 {
		s.SetCurrentAndTarget(v)
		return
	}

	s.target = v
	s.countdown = s.steps
	s.step = (s.target - s.current) / float64(s.steps)
}

// SetCurrentAndTarget jumps to v without ramping.
func (s *Smoother) SetCurrentAndTarget(v float64) {
	s.target = v
	s.SnapToTarget()
}

// SnapToTarget ends any ramp in progress.
func (s *Smoother) SnapToTarget() {
	s.current = s.target
	s.countdown = 0
	s.step = 0
}

// Current returns the most recently produced value.
func (s *Smoother) Current() float64 { return s.current }

// Target returns the ramp destination.
func (s *Smoother) Target() float64 { return s.target }

// IsSmoothing reports whether a ramp is in progress.
func (s *Smoother) IsSmoothing() bool { return s.countdown > 0 }

// Next advances one sample and returns the new value. The final step of a
// ramp lands exactly on the target.
func (s *Smoother) Next() float64 {
	if s.countdown <= 0 {
		return s.target
	}

	s.countdown--
	if s.countdown > 0 {
		s.current += s.step
	} else {
		s.current = s.target
	}

	return s.current
}

// Fill writes len(dst) successive values.
func (s *Smoother) Fill(dst []float64) {
	if s.countdown <= 0 {
		for i := range dst {
			dst[i] = s.target
		}

		return
	}

	for i := range dst {
		dst[i] = s.Next()
	}
}

// Skip advances n samples and returns the resulting value.
func (s *Smoother) Skip(n int) float64 {
	if n <= 0 {
		return s.current
	}

	if n >= s.countdown {
		s.SnapToTarget()
		return s.target
	}

	s.current += s.step * float64(n)
	s.countdown -= n

	return s.current
}
