package generator

import (
	"math/rand/v2"
	"time"
)

// Source is a PCG random source held by value. Copying a Source forks the
// stream: the copy and the original produce the same draws independently.
type Source struct {
	pcg rand.PCG
}

// NewSource returns a Source seeded with seed, or with the current time when
// seed is 0.
func NewSource(seed uint64) Source {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return Source{pcg: *rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)}
}

// Intn implements Rand.
func (s *Source) Intn(n int) int {
	return rand.New(&s.pcg).IntN(n)
}

// Shuffle implements Rand.
func (s *Source) Shuffle(n int, swap func(i, j int)) {
	rand.New(&s.pcg).Shuffle(n, swap)
}
