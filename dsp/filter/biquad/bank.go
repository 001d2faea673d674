package biquad

// Bank runs one Section per channel with shared coefficients. It is the
// per-channel filter used by the shelf, low-cut and reverb send stages.
type Bank struct {
	coeffs   Coefficients
	sections []Section
}

// NewBank returns a bank of channels sections with zero state.
func NewBank(channels int, c Coefficients) *Bank {
	if channels < 0 {
		channels = 0
	}

	b := &Bank{coeffs: c, sections: make([]Section, channels)}
	for i := range b.sections {
		b.sections[i].Coefficients = c
	}

	return b
}

// Channels returns the number of sections.
func (b *Bank) Channels() int { return len(b.sections) }

// Coefficients returns the shared coefficients.
func (b *Bank) Coefficients() Coefficients { return b.coeffs }

// SetCoefficients updates every section. Filter state is kept.
func (b *Bank) SetCoefficients(c Coefficients) {
	b.coeffs = c
	for i := range b.sections {
		b.sections[i].Coefficients = c
	}
}

// SetChannels grows or shrinks the bank. Sections that survive keep their
// state; new ones start from zero.
func (b *Bank) SetChannels(channels int) {
	if channels < 0 {
		channels = 0
	}

	if channels <= cap(b.sections) {
		old := len(b.sections)
		b.sections = b.sections[:channels]
		for i := old; i < channels; i++ {
			b.sections[i] = Section{Coefficients: b.coeffs}
		}

		return
	}

	grown := make([]Section, channels)
	copy(grown, b.sections)
	for i := len(b.sections); i < channels; i++ {
		grown[i].Coefficients = b.coeffs
	}
	b.sections = grown
}

// Section returns the section for channel ch.
func (b *Bank) Section(ch int) *Section { return &b.sections[ch] }

// Process filters every channel of data in place. Channels beyond the bank
// size are left untouched.
func (b *Bank) Process(data [][]float64) {
	n := min(len(data), len(b.sections))
	for ch := range n {
		b.sections[ch].ProcessBlock(data[ch])
	}
}

// Reset clears the state of every section.
func (b *Bank) Reset() {
	for i := range b.sections {
		b.sections[i].Reset()
	}
}
