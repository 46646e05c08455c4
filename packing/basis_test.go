package packing

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreeBasisBounds(t *testing.T) {
	b := NewBasis()
	i := b.AddFree(0.5, 0, 1, 0.1)

	b.Set(i, 1.7)
	assert.Equal(t, 1.0, b.Value(i), "set should clamp to max")
	b.Set(i, -0.2)
	assert.Equal(t, 0.0, b.Value(i), "set should clamp to min")
	assert.Equal(t, 1.0, b.ValueRange(i))
}

func TestRollbackIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	b := NewBasis()
	i := b.AddFree(0.5, 0, 1, 0.1)

	for n := 0; n < 1000; n++ {
		before := b.Value(i)
		b.Set(i, b.Propose(i, 0.05, rng))
		b.Reset(i)
		require.Equal(t, before, b.Value(i), "set/reset must restore the exact value")
	}
}

func TestRollbackDepthIsOne(t *testing.T) {
	b := NewBasis()
	i := b.AddFree(0.1, 0, 1, 0.1)

	b.Set(i, 0.2)
	b.Set(i, 0.3)
	b.Reset(i)
	assert.Equal(t, 0.2, b.Value(i), "two sets lose the oldest value")
	b.Reset(i)
	assert.Equal(t, 0.2, b.Value(i), "second reset has nothing older to restore")
}

func TestFixedBasisIgnoresMutation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	b := NewBasis()
	i := b.AddFixed(math.Pi / 2)

	assert.Equal(t, math.Pi/2, b.Propose(i, 0.1, rng), "fixed propose returns the current value")
	b.Set(i, 3)
	assert.Equal(t, math.Pi/2, b.Value(i))
	b.Reset(i)
	assert.Equal(t, math.Pi/2, b.Value(i))
	assert.Empty(t, filterKind(b, BasisFixed, b.Variable()), "fixed params are not variable")
}

func filterKind(b *Basis, kind BasisKind, idx []int) []int {
	var out []int
	for _, i := range idx {
		if b.Kind(i) == kind {
			out = append(out, i)
		}
	}
	return out
}

func TestCellLengthProposalIsMultiplicative(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	b := NewBasis()
	i := b.AddCellLength(4, 0.1, 4, 0.01)

	// With kT large the scale factor is bounded by the 0.1 cap.
	for n := 0; n < 500; n++ {
		v := b.Propose(i, 10, rng)
		assert.InDelta(t, 4, v, 4*0.05+1e-12, "proposal must stay within value*(1 +- 0.05)")
	}
}

func TestCellAngleLinkedRescale(t *testing.T) {
	b := NewBasis()
	x := b.AddCellLength(2, 0.1, 10, 0.01)
	y := b.AddCellLength(3, 0.1, 10, 0.01)
	angle := b.AddCellAngle(math.Pi/2, math.Pi/4, 3*math.Pi/4, 0.01, x, y)

	prev := b.Value(angle)
	next := math.Pi / 3
	b.Set(angle, next)

	factor := math.Sqrt(math.Sin(prev) / math.Sin(next))
	assert.InDelta(t, 2*factor, b.Value(x), 1e-12)
	assert.InDelta(t, 3*factor, b.Value(y), 1e-12)

	// Area is preserved by the rescale.
	areaBefore := 2.0 * 3.0 * math.Sin(prev)
	areaAfter := b.Value(x) * b.Value(y) * math.Sin(b.Value(angle))
	assert.InDelta(t, areaBefore, areaAfter, 1e-9)

	b.Reset(angle)
	assert.Equal(t, prev, b.Value(angle))
	assert.Equal(t, 2.0, b.Value(x), "reset must restore the linked lengths exactly")
	assert.Equal(t, 3.0, b.Value(y))
}

func TestCellAngleSharedLengthRescaledOnce(t *testing.T) {
	// When a = b both cell sides are one parameter; the rescale must apply
	// once, not once per link.
	b := NewBasis()
	x := b.AddCellLength(2, 0.1, 10, 0.01)
	angle := b.AddCellAngle(math.Pi/2, math.Pi/4, 3*math.Pi/4, 0.01, x, x)

	prev := b.Value(angle)
	next := 1.2
	b.Set(angle, next)
	factor := math.Sqrt(math.Sin(prev) / math.Sin(next))
	assert.InDelta(t, 2*factor, b.Value(x), 1e-12)

	b.Reset(angle)
	assert.Equal(t, 2.0, b.Value(x))
}

func TestMirrorQuantization(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	b := NewBasis()
	i := b.AddMirror(math.Pi/2, 0, 2*math.Pi, 4)

	// Proposals from pi/2 with four mirrors stay on the pi/4 grid offset
	// by pi/2.
	for n := 0; n < 200; n++ {
		v := b.Propose(i, 0.1, rng)
		offGrid := PositiveModulo(v-math.Pi/2, math.Pi/4)
		if offGrid > math.Pi/8 {
			offGrid -= math.Pi / 4
		}
		assert.InDelta(t, 0, offGrid, 1e-9, "proposal %v is off the mirror grid", v)
	}
}

func TestMirrorOddCountHalfTurn(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	b := NewBasis()
	i := b.AddMirror(1.0, 0, 2*math.Pi, 3)

	// An odd mirror count only ever proposes the half turn.
	for n := 0; n < 50; n++ {
		v := b.Propose(i, 0.1, rng)
		assert.InDelta(t, PositiveModulo(1.0+math.Pi, 2*math.Pi), v, 1e-12)
	}
}

func TestFlipToggleAndReset(t *testing.T) {
	b := NewBasis()
	sites := []*OccupiedSite{
		NewOccupiedSite(b, nil, b.AddFixed(0), b.AddFixed(0), b.AddFixed(0)),
		NewOccupiedSite(b, nil, b.AddFixed(0), b.AddFixed(0), b.AddFixed(0)),
	}
	flip := NewFlipParam(sites)

	flip.Set(1)
	assert.True(t, sites[1].FlipSite)
	flip.Reset()
	assert.False(t, sites[1].FlipSite)
	flip.Reset()
	assert.False(t, sites[1].FlipSite, "reset is idempotent after the first call")

	flip.Set(0)
	flip.Set(0)
	assert.False(t, sites[0].FlipSite, "two sets toggle back")
	flip.Reset()
	assert.True(t, sites[0].FlipSite, "reset undoes only the recorded set")
}

func TestFlipProposeInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	b := NewBasis()
	var sites []*OccupiedSite
	for n := 0; n < 3; n++ {
		sites = append(sites, NewOccupiedSite(b, nil, b.AddFixed(0), b.AddFixed(0), b.AddFixed(0)))
	}
	flip := NewFlipParam(sites)
	for n := 0; n < 100; n++ {
		k := flip.Propose(0.1, rng)
		require.GreaterOrEqual(t, k, 0)
		require.Less(t, k, 3)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	b := NewBasis()
	b.AddFree(0.25, 0, 1, 0.1)
	b.AddFixed(math.Pi / 3)
	x := b.AddCellLength(2, 0.1, 10, 0.01)
	b.AddCellAngle(math.Pi/2, math.Pi/4, 3*math.Pi/4, 0.01, x, x)

	snapshot := b.Save()
	require.Len(t, snapshot, b.Len())

	rng := rand.New(rand.NewSource(21))
	for n := 0; n < 100; n++ {
		for _, i := range b.Variable() {
			b.Set(i, b.Propose(i, 0.1, rng))
		}
	}
	require.NoError(t, b.Load(snapshot))
	assert.Equal(t, snapshot, b.Save(), "load must restore the snapshot bit for bit")

	assert.Error(t, b.Load(snapshot[:1]), "length mismatch must be rejected")
}

func TestLoadClampsDefensively(t *testing.T) {
	b := NewBasis()
	i := b.AddFree(0.5, 0, 1, 0.1)
	require.NoError(t, b.Load([]float64{7}))
	assert.Equal(t, 1.0, b.Value(i))
}
