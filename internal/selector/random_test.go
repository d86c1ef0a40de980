package selector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svw.info/picreveal/internal/domain"
	"svw.info/picreveal/internal/reveal"
	"svw.info/picreveal/internal/selector"
)

type fixedRNG struct{ val int }

func (r fixedRNG) IntN(n int) int { return r.val % n }

// recordingRNG remembers the bound it was asked for.
type recordingRNG struct{ bounds []int }

func (r *recordingRNG) IntN(n int) int {
	r.bounds = append(r.bounds, n)
	return n - 1
}

func TestSelectSkipsRevealed(t *testing.T) {
	st := reveal.New(2, 2)
	_, _, _ = st.Reveal(0, 0)
	_, _, _ = st.Reveal(1, 0)

	sel := selector.NewRandom(fixedRNG{val: 0})
	c, ok := sel.Select(st)
	require.True(t, ok)
	assert.Equal(t, domain.CellCoord{Row: 0, Col: 1}, c)

	sel = selector.NewRandom(fixedRNG{val: 1})
	c, ok = sel.Select(st)
	require.True(t, ok)
	assert.Equal(t, domain.CellCoord{Row: 1, Col: 1}, c)
}

func TestSelectDrawsOverHiddenCount(t *testing.T) {
	st := reveal.New(3, 3)
	_, _, _ = st.Reveal(1, 1)
	rng := &recordingRNG{}
	_, ok := selector.NewRandom(rng).Select(st)
	require.True(t, ok)
	assert.Equal(t, []int{8}, rng.bounds)
}

func TestSelectNoneWhenComplete(t *testing.T) {
	st := reveal.New(2, 3)
	st.RevealAll()
	rng := &recordingRNG{}
	_, ok := selector.NewRandom(rng).Select(st)
	assert.False(t, ok)
	assert.Empty(t, rng.bounds, "rng must not be consulted for an empty draw")
}

func TestSelectNeverReturnsRevealed(t *testing.T) {
	st := reveal.New(4, 5)
	sel := selector.NewRandom(nil)
	for i := 0; i < st.Total(); i++ {
		c, ok := sel.Select(st)
		require.True(t, ok, "draw %d", i)
		require.False(t, st.Revealed(c.Row, c.Col), "draw %d returned revealed cell %+v", i, c)
		_, _, err := st.Reveal(c.Row, c.Col)
		require.NoError(t, err)
	}
	_, ok := sel.Select(st)
	assert.False(t, ok)
	assert.True(t, st.IsComplete())
}
