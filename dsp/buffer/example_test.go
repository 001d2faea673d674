package buffer_test

import (
	"fmt"

	"github.com/cwbudde/airbloom/dsp/buffer"
)

func ExampleMulti() {
	m := buffer.NewMulti(2, 4)
	m.Reserve(2, 8)
	copy(m.Channel(0), []float64{1, 2, 3, 4})

	m.Resize(2, 6)

	fmt.Println(m.Channel(0))
	fmt.Println(m.Channels(), m.Len(), m.Cap())

	// Output:
	// [1 2 3 4 0 0]
	// 2 6 8
}
