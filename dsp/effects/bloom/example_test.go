package bloom_test

import (
	"fmt"

	"github.com/cwbudde/airbloom/dsp/effects/bloom"
)

func ExampleShaper_SetBloom() {
	s, err := bloom.New(48000, 2)
	if err != nil {
		panic(err)
	}

	for _, b := range []float64{0, 0.5, 1} {
		s.SetBloom(b)
		fmt.Printf("bloom=%.1f shelf=%.0f dB drive=%.0f dB\n", s.Bloom(), s.ShelfGainDB(), s.DriveDB())
	}
	// Output:
	// bloom=0.0 shelf=0 dB drive=0 dB
	// bloom=0.5 shelf=24 dB drive=16 dB
	// bloom=1.0 shelf=48 dB drive=32 dB
}
