package mod

import "math/rand/v2"

// Source is the randomness the modulation engine consumes. Tests inject a
// deterministic implementation; the engine uses the process-global PRNG.
type Source interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// IntN returns a value in [0, n).
	IntN(n int) int
}

type defaultSource struct{}

func (defaultSource) Float64() float64 { return rand.Float64() }
func (defaultSource) IntN(n int) int   { return rand.IntN(n) }
