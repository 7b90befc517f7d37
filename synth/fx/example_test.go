package fx_test

import (
	"fmt"

	"github.com/cwbudde/algo-synth/synth/fx"
)

func ExampleEcho() {
	e, err := fx.NewEcho(1024, fx.WithEchoFeedback(0))
	if err != nil {
		panic(err)
	}
	e.SetDelay(3)

	// An impulse comes back exactly three samples later.
	inputs := []int16{1000, 0, 0, 0, 0}
	for i, in := range inputs {
		fmt.Printf("tick %d: %d\n", i, e.ProcessSample(in))
	}
	// Output:
	// tick 0: 1000
	// tick 1: 0
	// tick 2: 0
	// tick 3: 1000
	// tick 4: 0
}

func ExampleRingMod() {
	// Full-scale carrier times full-scale modulator keeps full scale.
	fmt.Println(fx.RingMod(16383, 16383))
	fmt.Println(fx.RingMod(16383, -16384))
	fmt.Println(fx.RingMod(16383, 0))
	// Output:
	// 8191
	// -8192
	// 0
}
