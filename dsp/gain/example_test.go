package gain_test

import (
	"fmt"

	"github.com/cwbudde/airbloom/dsp/buffer"
	"github.com/cwbudde/airbloom/dsp/gain"
)

func ExampleRamp() {
	r := gain.NewRamp(4)
	buf := buffer.FromSlices([][]float64{{1, 1, 1, 1}})

	r.Apply(buf, 0.5)
	fmt.Println(buf.Channel(0))
	// Output:
	// [1 0.875 0.75 0.625]
}
