package personalize

import "math/rand/v2"

// Random is the source for the probabilistic rewrite steps.
type Random interface {
	Float64() float64
	IntN(n int) int
}

// globalRandom draws from the runtime's goroutine-safe source.
type globalRandom struct{}

func (globalRandom) Float64() float64 { return rand.Float64() }
func (globalRandom) IntN(n int) int   { return rand.IntN(n) }

// newSeeded returns a reproducible source. It is not safe for concurrent use.
func newSeeded(seed uint64) Random {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
