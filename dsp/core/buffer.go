package core

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
// Newly allocated slices are zeroed; reused capacity keeps its previous contents.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// FillRamp writes a linear ramp into dst: dst[i] = start + (end-start)*i/len(dst).
// The end value itself is not reached inside the block; it becomes the start
// of the next one.
func FillRamp(dst []float64, start, end float64) {
	n := len(dst)
	if n == 0 {
		return
	}
	step := (end - start) / float64(n)
	for i := range dst {
		dst[i] = start + step*float64(i)
	}
}
