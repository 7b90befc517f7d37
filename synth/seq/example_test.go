package seq_test

import (
	"fmt"

	"github.com/cwbudde/algo-synth/synth/seq"
)

func ExampleSequencer() {
	s, err := seq.NewSequencer(4, seq.WithGateLength(50))
	if err != nil {
		panic(err)
	}
	s.SetStepEnabled(1, false)
	s.Start()

	// Walk two steps; step 1 is disabled and gets skipped.
	visited := []int{s.Step()}
	for i := 0; i < 8; i++ {
		s.Tick(false)
	}
	visited = append(visited, s.Step())

	fmt.Println("visited:", visited)
	// Output:
	// visited: [0 3]
}

func ExamplePattern_Open() {
	p := seq.PatternRatchet

	// Twelve sub-cycles per period, half duty each.
	open := 0
	for i := 0; i < 1200; i++ {
		if p.Open(float64(i) / 1200) {
			open++
		}
	}
	fmt.Printf("%s: open %d of 1200 ticks\n", p, open)
	// Output:
	// ratchet: open 600 of 1200 ticks
}
