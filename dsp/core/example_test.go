package core_test

import (
	"fmt"

	"github.com/cwbudde/airbloom/dsp/core"
)

func ExampleApplyProcessorOptions() {
	spec := core.ApplyProcessorOptions(
		core.WithSampleRate(44100),
		core.WithBlockSize(256),
		core.WithChannels(1),
	)

	fmt.Printf("sampleRate=%.0f blockSize=%d channels=%d/%d\n",
		spec.SampleRate, spec.MaxBlockSize, spec.InputChannels, spec.OutputChannels)

	// Output:
	// sampleRate=44100 blockSize=256 channels=1/1
}

func ExampleFillRamp() {
	ramp := make([]float64, 4)
	core.FillRamp(ramp, 0, 1)
	fmt.Println(ramp)

	// Output:
	// [0 0.25 0.5 0.75]
}
