package packing

import (
	"fmt"
	"math"
	"math/rand"
)

// BasisKind discriminates the behaviour of a basis parameter.
type BasisKind int

const (
	// BasisFree is an unconstrained bounded scalar.
	BasisFree BasisKind = iota
	// BasisFixed never changes value; Set and Reset are no-ops.
	BasisFixed
	// BasisCellLength proposes multiplicative steps scaled by temperature.
	BasisCellLength
	// BasisCellAngle rescales its two linked cell lengths on commit so the
	// cell area is preserved under the angle change.
	BasisCellAngle
	// BasisMirror quantizes proposals to the site's mirror orientations.
	BasisMirror
)

func (k BasisKind) String() string {
	switch k {
	case BasisFree:
		return "free"
	case BasisFixed:
		return "fixed"
	case BasisCellLength:
		return "cell-length"
	case BasisCellAngle:
		return "cell-angle"
	case BasisMirror:
		return "mirror"
	}
	return "unknown"
}

// basisParam is one bounded scalar degree of freedom. previous holds the last
// committed value for single-level rollback.
type basisParam struct {
	kind     BasisKind
	value    float64
	previous float64
	min      float64
	max      float64
	step     float64

	// Mirror parameters quantize to multiples of pi/mirrors.
	mirrors int

	// CellAngle parameters weakly reference the cell length parameters they
	// rescale, by index into the owning arena.
	linkedX int
	linkedY int
}

// Basis is the arena of basis parameters backing one packed state. All
// references between parameters are integer indices into this arena, so
// aliasing (two cell sides sharing a single length parameter) is explicit
// and no parameter ever outlives a reference to it.
type Basis struct {
	params []basisParam
}

// NewBasis returns an empty arena.
func NewBasis() *Basis {
	return &Basis{}
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// AddFree appends an unconstrained parameter and returns its index.
func (b *Basis) AddFree(value, min, max, step float64) int {
	return b.add(basisParam{kind: BasisFree, value: value, previous: value, min: min, max: max, step: step})
}

// AddFixed appends a parameter pinned at value.
func (b *Basis) AddFixed(value float64) int {
	return b.add(basisParam{kind: BasisFixed, value: value, previous: value, min: value, max: value})
}

// AddCellLength appends a cell length parameter.
func (b *Basis) AddCellLength(value, min, max, step float64) int {
	return b.add(basisParam{kind: BasisCellLength, value: value, previous: value, min: min, max: max, step: step})
}

// AddCellAngle appends a cell angle parameter linked to the length
// parameters at indices xLen and yLen.
func (b *Basis) AddCellAngle(value, min, max, step float64, xLen, yLen int) int {
	return b.add(basisParam{
		kind: BasisCellAngle, value: value, previous: value,
		min: min, max: max, step: step,
		linkedX: xLen, linkedY: yLen,
	})
}

// AddMirror appends an angle parameter quantized to mirrors orientations.
func (b *Basis) AddMirror(value, min, max float64, mirrors int) int {
	return b.add(basisParam{kind: BasisMirror, value: value, previous: value, min: min, max: max, mirrors: mirrors})
}

func (b *Basis) add(p basisParam) int {
	b.params = append(b.params, p)
	return len(b.params) - 1
}

// Len is the number of parameters in the arena.
func (b *Basis) Len() int { return len(b.params) }

// Kind returns the discriminator of parameter i.
func (b *Basis) Kind(i int) BasisKind { return b.params[i].kind }

// Value returns the current committed or proposed value of parameter i.
func (b *Basis) Value(i int) float64 { return b.params[i].value }

// ValueRange is the width of the parameter's bounds.
func (b *Basis) ValueRange(i int) float64 { return b.params[i].max - b.params[i].min }

// Variable returns the indices of all parameters that can actually move.
func (b *Basis) Variable() []int {
	var idx []int
	for i := range b.params {
		if b.params[i].kind != BasisFixed {
			idx = append(idx, i)
		}
	}
	return idx
}

// Propose returns a candidate new value for parameter i at temperature kT.
// It never mutates the parameter.
func (b *Basis) Propose(i int, kT float64, rng *rand.Rand) float64 {
	p := &b.params[i]
	switch p.kind {
	case BasisFixed:
		return p.value
	case BasisCellLength:
		return p.value * (1 + math.Min(3*kT, 0.1)*(rng.Float64()-0.5))
	case BasisMirror:
		if p.mirrors%2 == 0 && rng.Float64() < 0.5 {
			// Step of pi/mirrors: swap the x and y mirror planes.
			if p.value < math.Pi*3.0/4.0 {
				return p.value + math.Pi/float64(p.mirrors)
			}
			return p.value - math.Pi/float64(p.mirrors)
		}
		// Half turn preserves every mirror plane.
		return PositiveModulo(p.value+math.Pi, 2*math.Pi)
	default:
		return p.value + p.step*(p.max-p.min)*(rng.Float64()-0.5)
	}
}

// Set commits a new value to parameter i, clamping it into bounds and saving
// the old value for rollback. Committing a cell angle rescales the linked
// cell lengths by sqrt(sin(previous)/sin(new)) so the cell area survives the
// angle change.
func (b *Basis) Set(i int, value float64) {
	p := &b.params[i]
	if p.kind == BasisFixed {
		return
	}
	p.previous = p.value
	p.value = clamp(value, p.min, p.max)
	if p.kind == BasisCellAngle {
		b.rescaleLinkedLengths(p)
	}
}

// Reset rolls parameter i back to its previously committed value. Rollback
// depth is exactly one: two consecutive Sets lose the older value.
func (b *Basis) Reset(i int) {
	p := &b.params[i]
	if p.kind == BasisFixed {
		return
	}
	p.value = p.previous
	if p.kind == BasisCellAngle {
		b.Reset(p.linkedX)
		if p.linkedY != p.linkedX {
			b.Reset(p.linkedY)
		}
	}
}

func (b *Basis) rescaleLinkedLengths(angle *basisParam) {
	factor := math.Sqrt(math.Sin(angle.previous) / math.Sin(angle.value))
	b.Set(angle.linkedX, b.Value(angle.linkedX)*factor)
	if angle.linkedY != angle.linkedX {
		b.Set(angle.linkedY, b.Value(angle.linkedY)*factor)
	}
}

// Save snapshots all current values in declaration order.
func (b *Basis) Save() []float64 {
	out := make([]float64, len(b.params))
	for i := range b.params {
		out[i] = b.params[i].value
	}
	return out
}

// Load restores a snapshot taken with Save. Values are written directly,
// bypassing proposal side effects, with a defensive clamp into bounds.
func (b *Basis) Load(snapshot []float64) error {
	if len(snapshot) != len(b.params) {
		return fmt.Errorf("basis snapshot has %d values, arena has %d", len(snapshot), len(b.params))
	}
	for i := range b.params {
		p := &b.params[i]
		p.value = clamp(snapshot[i], p.min, p.max)
		p.previous = p.value
	}
	return nil
}

// FlipParam is the discrete move that mirror-reflects a single occupied
// site. It is kept outside the scalar arena: the Monte Carlo driver applies
// a flip alongside nearly every scalar move rather than as an alternative
// to one.
type FlipParam struct {
	sites    []*OccupiedSite
	previous int
}

// NewFlipParam builds a flip move over the occupied site list.
func NewFlipParam(sites []*OccupiedSite) *FlipParam {
	return &FlipParam{sites: sites, previous: -1}
}

// Propose picks a site index to flip. The temperature does not influence
// the choice; the signature mirrors the scalar parameters.
func (f *FlipParam) Propose(kT float64, rng *rand.Rand) int {
	return rng.Intn(len(f.sites))
}

// Set toggles the flip state of the chosen site and records the index for
// rollback.
func (f *FlipParam) Set(index int) {
	f.previous = index
	f.sites[index].FlipSite = !f.sites[index].FlipSite
}

// Reset undoes the recorded flip exactly once; further calls are no-ops
// until the next Set.
func (f *FlipParam) Reset() {
	if f.previous == -1 {
		return
	}
	f.sites[f.previous].FlipSite = !f.sites[f.previous].FlipSite
	f.previous = -1
}
