package design_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/airbloom/dsp/filter/design"
)

func ExampleHighShelf() {
	c := design.HighShelf(10000, 12, 0.7071, 48000)

	fmt.Printf("DC gain:      %.2f\n", math.Sqrt(c.MagnitudeSquared(0, 48000)))
	fmt.Printf("Nyquist gain: %.2f (%.1f dB)\n",
		math.Sqrt(c.MagnitudeSquared(24000, 48000)), c.MagnitudeDB(24000, 48000))
	// Output:
	// DC gain:      1.00
	// Nyquist gain: 3.98 (12.0 dB)
}
