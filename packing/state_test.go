package packing

import (
	"math"
	"math/rand"
	"strings"
	"testing"
)

func newSquareState(t *testing.T, rng *rand.Rand) *PackedState {
	t.Helper()
	octagon := unitPolygon(t, 8, 4, 4)
	p4mm, _ := GroupByLabel("p4mm")
	iso := &IsopointalGroup{WyckoffSites: []*WyckoffSite{&p4mm.WyckoffSites[0]}}
	return InitialiseStructure(octagon, iso, p4mm, 0.01, rng)
}

func TestInitialiseStructureSquare(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	state := newSquareState(t, rng)

	if state.Cell.XLen != state.Cell.YLen {
		t.Error("a=b group must share one length parameter")
	}
	if state.Cell.AngleValue() != math.Pi/2 {
		t.Errorf("rectangular group angle = %v, want pi/2", state.Cell.AngleValue())
	}
	if state.Basis.Kind(state.Cell.Angle) != BasisFixed {
		t.Error("rectangular group angle must be fixed")
	}
	if got := state.NumShapes(); got != 1 {
		t.Errorf("NumShapes = %d, want 1", got)
	}

	site := state.Sites[0]
	if state.Basis.Kind(site.X) != BasisFixed || state.Basis.Kind(site.Y) != BasisFixed {
		t.Error("point site coordinates must be fixed")
	}
	if state.Basis.Kind(site.Angle) != BasisMirror {
		t.Error("mirror site orientation must be a mirror parameter")
	}

	maxCell := 4 * state.Shape.MaxRadius * 1
	if state.Cell.LengthX() != maxCell {
		t.Errorf("initial cell length = %v, want %v", state.Cell.LengthX(), maxCell)
	}
}

func TestInitialiseStructureHexagonal(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	triangle := unitPolygon(t, 3, 3, 3)
	p3, _ := GroupByLabel("p3")
	iso := &IsopointalGroup{WyckoffSites: []*WyckoffSite{&p3.WyckoffSites[0]}}
	state := InitialiseStructure(triangle, iso, p3, 0.01, rng)

	if state.Cell.AngleValue() != math.Pi/3 {
		t.Errorf("hexagonal angle = %v, want pi/3", state.Cell.AngleValue())
	}
	if state.Cell.XLen != state.Cell.YLen {
		t.Error("hexagonal cell must share one length parameter")
	}
	// p3 has no mirrors, so the site orientation is free.
	if state.Basis.Kind(state.Sites[0].Angle) != BasisFree {
		t.Error("p3 site orientation should be free")
	}
}

func TestInitialiseStructureOblique(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	disc := unitPolygon(t, 8, 1, 0)
	p1, _ := GroupByLabel("p1")
	iso := &IsopointalGroup{WyckoffSites: []*WyckoffSite{&p1.WyckoffSites[0]}}
	state := InitialiseStructure(disc, iso, p1, 0.01, rng)

	if state.Basis.Kind(state.Cell.Angle) != BasisCellAngle {
		t.Error("oblique group needs a variable cell angle")
	}
	angle := state.Cell.AngleValue()
	if angle < math.Pi/4 || angle > 3*math.Pi/4 {
		t.Errorf("initial angle %v outside [pi/4, 3pi/4]", angle)
	}
	if state.Cell.XLen == state.Cell.YLen {
		t.Error("oblique cell sides must be independent")
	}
}

func TestCellAreaFormula(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	disc := unitPolygon(t, 8, 1, 0)
	p1, _ := GroupByLabel("p1")
	iso := &IsopointalGroup{WyckoffSites: []*WyckoffSite{&p1.WyckoffSites[0]}}
	state := InitialiseStructure(disc, iso, p1, 0.01, rng)

	cell := state.Cell
	want := math.Abs(cell.LengthX() * cell.LengthY() * math.Sin(cell.AngleValue()))
	if math.Abs(cell.Area()-want) > 1e-12 {
		t.Errorf("area = %v, want %v", cell.Area(), want)
	}
}

func TestPackingFraction(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	state := newSquareState(t, rng)

	fraction, err := state.PackingFraction()
	if err != nil {
		t.Fatalf("PackingFraction: %v", err)
	}
	want := state.Shape.Area() / state.Cell.Area()
	if math.Abs(fraction-want) > 1e-12 {
		t.Errorf("packing fraction = %v, want %v", fraction, want)
	}
	if fraction < 0 {
		t.Error("packing fraction must be non-negative")
	}
}

func TestRollbackRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	disc := unitPolygon(t, 8, 1, 0)
	p1, _ := GroupByLabel("p1")
	iso := &IsopointalGroup{WyckoffSites: []*WyckoffSite{&p1.WyckoffSites[0]}}
	state := InitialiseStructure(disc, iso, p1, 0.01, rng)

	initial := state.SaveBasis()
	variable := state.Basis.Variable()
	for n := 0; n < 10000; n++ {
		i := variable[rng.Intn(len(variable))]
		state.Basis.Set(i, state.Basis.Propose(i, 0.1, rng))
		state.Basis.Reset(i)
		if rng.Float64() < 0.3 {
			state.Flip.Set(state.Flip.Propose(0.1, rng))
			state.Flip.Reset()
		}
	}
	final := state.SaveBasis()
	for i := range initial {
		if initial[i] != final[i] {
			t.Fatalf("basis %d drifted: %v -> %v", i, initial[i], final[i])
		}
	}
	for _, site := range state.Sites {
		if site.FlipSite {
			t.Error("flips must be rolled back")
		}
	}
}

func TestChirality(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	disc := unitPolygon(t, 8, 1, 0)
	p2, _ := GroupByLabel("p2")
	general := &p2.WyckoffSites[4]
	iso := &IsopointalGroup{WyckoffSites: []*WyckoffSite{general, general}}
	state := InitialiseStructure(disc, iso, p2, 0.01, rng)

	if got := state.Chirality(); got != 'c' {
		t.Errorf("all-unflipped chirality = %c, want c", got)
	}
	state.Sites[0].FlipSite = true
	if got := state.Chirality(); got != 's' {
		t.Errorf("balanced chirality = %c, want s", got)
	}
	state.Sites[1].FlipSite = true
	if got := state.Chirality(); got != 'c' {
		t.Errorf("all-flipped chirality = %c, want c", got)
	}
}

func TestChiralityMixed(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	disc := unitPolygon(t, 8, 1, 0)
	p2, _ := GroupByLabel("p2")
	// One point site (multiplicity 1) and the general position
	// (multiplicity 2) cannot cancel.
	iso := &IsopointalGroup{WyckoffSites: []*WyckoffSite{&p2.WyckoffSites[0], &p2.WyckoffSites[4]}}
	state := InitialiseStructure(disc, iso, p2, 0.01, rng)

	state.Sites[0].FlipSite = true
	if got := state.Chirality(); got != 'a' {
		t.Errorf("mixed chirality = %c, want a", got)
	}
}

func TestStateString(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	state := newSquareState(t, rng)

	text := state.String()
	for _, want := range []string{"Shape: unit", "Cell:", "  a: ", "  b: ", "  angle: ", "Wallpaper Group: p4mm", "Site: a"} {
		if !strings.Contains(text, want) {
			t.Errorf("serialization missing %q:\n%s", want, text)
		}
	}
}

func TestSetFlipsLengthMismatch(t *testing.T) {
	rng := rand.New(rand.NewSource(10))
	state := newSquareState(t, rng)
	if err := state.SetFlips([]bool{true, false}); err == nil {
		t.Error("flip snapshot length mismatch must error")
	}
}
