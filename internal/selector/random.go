// Package selector picks the cell a random reveal uncovers.
package selector

import (
	"math/rand"

	"svw.info/picreveal/internal/domain"
	"svw.info/picreveal/internal/ports"
	"svw.info/picreveal/internal/reveal"
)

// StdRNG delegates to math/rand (auto-seeded since Go 1.20).
type StdRNG struct{}

func (StdRNG) IntN(n int) int { return rand.Intn(n) }

// Random draws uniformly among the hidden cells.
type Random struct {
	rng ports.RNG
}

// NewRandom uses rng, or StdRNG when rng is nil.
func NewRandom(rng ports.RNG) *Random {
	if rng == nil {
		rng = StdRNG{}
	}
	return &Random{rng: rng}
}

// Select returns a hidden cell, or false when every cell is revealed.
func (s *Random) Select(st *reveal.State) (domain.CellCoord, bool) {
	hidden := st.Unrevealed()
	if len(hidden) == 0 {
		return domain.CellCoord{}, false
	}
	return hidden[s.rng.IntN(len(hidden))], true
}
