package buffer

// Multi is a planar multichannel float64 buffer. Each channel is a separate
// slice of Len() frames. Processing stages mutate it in place.
type Multi struct {
	data    [][]float64
	backing [][]float64
	frames  int
}

// NewMulti returns a zero-filled buffer with the given channel count and
// frame length. Negative sizes are treated as zero.
func NewMulti(channels, frames int) *Multi {
	m := &Multi{}
	m.Reserve(channels, frames)
	m.Resize(channels, frames)
	return m
}

// FromSlices wraps existing channel slices without copying. All channels
// must have the same length; the shortest one defines Len().
func FromSlices(channels [][]float64) *Multi {
	frames := 0
	for i, ch := range channels {
		if i == 0 || len(ch) < frames {
			frames = len(ch)
		}
	}

	m := &Multi{
		data:    make([][]float64, len(channels)),
		backing: make([][]float64, len(channels)),
		frames:  frames,
	}
	for i, ch := range channels {
		m.backing[i] = ch[:cap(ch)]
		m.data[i] = ch[:frames]
	}
	return m
}

// Channels returns the channel count.
func (m *Multi) Channels() int { return len(m.data) }

// Len returns the number of frames per channel.
func (m *Multi) Len() int { return m.frames }

// Cap returns the number of frames every channel can hold without growing.
func (m *Multi) Cap() int {
	if len(m.backing) == 0 {
		return 0
	}
	c := cap(m.backing[0])
	for _, ch := range m.backing[1:] {
		if cap(ch) < c {
			c = cap(ch)
		}
	}
	return c
}

// Channel returns the samples of channel ch.
func (m *Multi) Channel(ch int) []float64 { return m.data[ch] }

// Data returns the channel slices. The outer slice must not be retained
// across Resize calls.
func (m *Multi) Data() [][]float64 { return m.data }

// Reserve makes sure channels × frames fits without further allocation.
// Existing samples are preserved.
func (m *Multi) Reserve(channels, frames int) {
	if channels < 0 {
		channels = 0
	}
	if frames < 0 {
		frames = 0
	}

	if cap(m.backing) < channels {
		backing := make([][]float64, len(m.backing), channels)
		copy(backing, m.backing)
		m.backing = backing
		data := make([][]float64, len(m.data), channels)
		copy(data, m.data)
		m.data = data
	}

	for len(m.backing) < channels {
		m.backing = append(m.backing, nil)
	}

	for i := range m.backing {
		if cap(m.backing[i]) < frames {
			grown := make([]float64, frames)
			copy(grown, m.backing[i][:cap(m.backing[i])])
			m.backing[i] = grown
		} else {
			m.backing[i] = m.backing[i][:cap(m.backing[i])]
		}
	}

	for i := range m.data {
		m.data[i] = m.backing[i][:m.frames]
	}
}

// Resize sets the channel count and frame length, reusing reserved
// capacity. It allocates only when the request exceeds the reservation.
// Newly exposed frames are zeroed.
func (m *Multi) Resize(channels, frames int) {
	if channels < 0 {
		channels = 0
	}
	if frames < 0 {
		frames = 0
	}
	if channels > len(m.backing) || frames > m.Cap() {
		m.Reserve(channels, frames)
	}

	oldFrames := m.frames
	oldChannels := len(m.data)
	m.data = m.data[:channels]
	for ch := range m.data {
		m.data[ch] = m.backing[ch][:frames]
		start := oldFrames
		if ch >= oldChannels {
			start = 0
		}
		for i := start; i < frames; i++ {
			m.data[ch][i] = 0
		}
	}
	m.frames = frames
}

// SameSize reports whether m and other have identical channel count and length.
func (m *Multi) SameSize(other *Multi) bool {
	return m.Channels() == other.Channels() && m.Len() == other.Len()
}

// CopyFrom resizes m to match src and copies all samples.
func (m *Multi) CopyFrom(src *Multi) {
	if !m.SameSize(src) {
		m.Resize(src.Channels(), src.Len())
	}
	for ch := range m.data {
		copy(m.data[ch], src.data[ch])
	}
}

// Zero sets every sample to 0.
func (m *Multi) Zero() {
	for _, ch := range m.data {
		for i := range ch {
			ch[i] = 0
		}
	}
}

// Clone returns a deep copy with exactly the current size.
func (m *Multi) Clone() *Multi {
	c := NewMulti(m.Channels(), m.Len())
	c.CopyFrom(m)
	return c
}
