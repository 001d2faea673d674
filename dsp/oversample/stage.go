package oversample

// allpassChain is a cascade of first-order allpass sections
// y[n] = a*(x[n] - y[n-1]) + x[n-1], each running at the low rate.
type allpassChain struct {
	coeffs []float64
	x1     []float64
	y1     []float64
}

func newAllpassChain(coeffs []float64) allpassChain {
	return allpassChain{
		coeffs: coeffs,
		x1:     make([]float64, len(coeffs)),
		y1:     make([]float64, len(coeffs)),
	}
}

func (c *allpassChain) process(x float64) float64 {
	for i, a := range c.coeffs {
		y := a*(x-c.y1[i]) + c.x1[i]
		c.x1[i] = x
		c.y1[i] = y
		x = y
	}

	return x
}

func (c *allpassChain) reset() {
	for i := range c.x1 {
		c.x1[i] = 0
		c.y1[i] = 0
	}
}

// halfband is one channel of a 2x stage: an upsampling filter pair and an
// independent downsampling filter pair sharing the same coefficients.
type halfband struct {
	up0, up1     allpassChain
	down0, down1 allpassChain
}

func newHalfband(coeffs []float64) *halfband {
	var even, odd []float64
	for i, c := range coeffs {
		if i%2 == 0 {
			even = append(even, c)
		} else {
			odd = append(odd, c)
		}
	}

	return &halfband{
		up0:   newAllpassChain(even),
		up1:   newAllpassChain(odd),
		down0: newAllpassChain(even),
		down1: newAllpassChain(odd),
	}
}

// upsample writes 2*len(src) samples to dst.
func (h *halfband) upsample(dst, src []float64) {
	if len(src) == 0 {
		return
	}

	_ = dst[2*len(src)-1]
	for i, x := range src {
		dst[2*i] = h.up0.process(x)
		dst[2*i+1] = h.up1.process(x)
	}
}

// downsample reads 2*len(dst) samples from src.
func (h *halfband) downsample(dst, src []float64) {
	if len(dst) == 0 {
		return
	}

	_ = src[2*len(dst)-1]
	for i := range dst {
		a := h.down0.process(src[2*i+1])
		b := h.down1.process(src[2*i])
		dst[i] = 0.5 * (a + b)
	}
}

func (h *halfband) reset() {
	h.up0.reset()
	h.up1.reset()
	h.down0.reset()
	h.down1.reset()
}
