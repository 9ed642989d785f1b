package sim

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/geoffreypi/strand-game-sub000/sim/hex"
	"github.com/geoffreypi/strand-game-sub000/sim/world"
)

// fixedRandom always returns the same roll.
type fixedRandom float64

func (f fixedRandom) Float64() float64 { return float64(f) }

// countingRandom returns a fixed roll and counts draws.
type countingRandom struct {
	value float64
	draws int
}

func (c *countingRandom) Float64() float64 {
	c.draws++
	return c.value
}

// layout builds a world of residues addressed by global index.
type layout struct {
	w *world.World
}

func newLayout() *layout {
	return &layout{w: world.New()}
}

// place adds residue code at (q, r) with the given global index.
func (l *layout) place(index int, code string, q, r int) *layout {
	l.w.AddResidue(world.Position{Coord: hex.Coord{Q: q, R: r}, Molecule: 1}, world.Residue{Type: code, Index: index})
	return l
}

func (l *layout) signal(t *testing.T, index int) world.Signal {
	t.Helper()
	sig, ok := l.w.SignalByIndex(index)
	require.True(t, ok, "residue %d has no Signal component", index)
	return sig
}

func (l *layout) isOn(t *testing.T, index int) bool {
	t.Helper()
	return l.signal(t, index).On
}

// states returns the on flag of every listed index, for equality checks.
func (l *layout) states(t *testing.T, indices ...int) []bool {
	t.Helper()
	out := make([]bool, len(indices))
	for i, idx := range indices {
		out[i] = l.isOn(t, idx)
	}
	return out
}

func steady(l *layout, bound BoundPairs, atp ATPSet) Result {
	return Run(l.w, Options{BoundPairs: bound, ATP: atp, Mode: ModeSteady, Random: fixedRandom(0)})
}

// notOscillator builds a NOT gate whose own output loops back to its input:
// NOT(0) at 0,0 → OUT(2) at 1,-1 → INP(1) at 1,0 → NOT.
// Each NOT activation consumes one of the four tokens around it.
func notOscillator() (*layout, ATPSet) {
	l := newLayout().
		place(0, "NOT", 0, 0).
		place(1, "INP", 1, 0).
		place(2, "OUT", 1, -1)
	return l, NewATPSet("0,-1", "-1,0", "-1,1", "0,1")
}
