package packing

import (
	"context"
	"math"
	"math/rand"
	"testing"
)

func TestMCVarsDefaults(t *testing.T) {
	vars := DefaultMCVars()
	if vars.KTStart != 0.1 || vars.KTFinish != 5e-4 || vars.MaxStepSize != 0.01 ||
		vars.Steps != 10000 || vars.NumCycles != 32 {
		t.Errorf("unexpected defaults: %+v", vars)
	}
	ratio := vars.KTRatio()
	if ratio <= 0 || ratio >= 1 {
		t.Errorf("kT ratio %v must decay", ratio)
	}
	// After Steps applications the temperature lands on KTFinish.
	kT := vars.KTStart
	for i := 0; i < vars.Steps; i++ {
		kT *= ratio
	}
	if math.Abs(kT-vars.KTFinish)/vars.KTFinish > 1e-6 {
		t.Errorf("temperature after full schedule = %v, want %v", kT, vars.KTFinish)
	}
}

func TestTemperatureDistribution(t *testing.T) {
	// An improving move is always accepted.
	if got := temperatureDistribution(0.5, 0.6, 0.1, 1); got != 1 {
		t.Errorf("improving move acceptance = %v, want 1", got)
	}
	// A worsening move is accepted with probability below one.
	got := temperatureDistribution(0.6, 0.5, 0.1, 1)
	if got <= 0 || got >= 1 {
		t.Errorf("worsening move acceptance = %v, want (0, 1)", got)
	}
	// Colder temperature makes the worsening move less likely.
	colder := temperatureDistribution(0.6, 0.5, 0.01, 1)
	if colder >= got {
		t.Errorf("acceptance should fall with temperature: %v >= %v", colder, got)
	}
}

func TestBestPackingSquareP4mm(t *testing.T) {
	octagon := unitPolygon(t, 8, 4, 4)
	p4mm, _ := GroupByLabel("p4mm")
	iso := &IsopointalGroup{WyckoffSites: []*WyckoffSite{&p4mm.WyckoffSites[0]}}

	vars := DefaultMCVars()
	vars.Steps = 2000
	rng := rand.New(rand.NewSource(42))

	res, err := BestPackingInIsopointalGroup(context.Background(), octagon, p4mm, iso, vars, rng, nil)
	if err != nil {
		t.Fatalf("BestPackingInIsopointalGroup: %v", err)
	}

	state := res.State
	if state.Cell.LengthX() != state.Cell.LengthY() {
		t.Error("square group must keep a = b")
	}
	if state.Cell.AngleValue() != math.Pi/2 {
		t.Errorf("square group angle = %v, want pi/2", state.Cell.AngleValue())
	}
	// A regular octagon on the 4mm site packs up to 2*sqrt(2)/4 when the
	// periodic images touch along the cell axes.
	if res.PackingFraction < 0.60 {
		t.Errorf("packing fraction %v did not approach the axial contact bound", res.PackingFraction)
	}
	if res.PackingFraction > 2*math.Sqrt2/4+1e-6 {
		t.Errorf("packing fraction %v exceeds the contact bound", res.PackingFraction)
	}
}

func TestBestPackingDeterministic(t *testing.T) {
	octagon := unitPolygon(t, 8, 4, 4)
	p4mm, _ := GroupByLabel("p4mm")
	iso := &IsopointalGroup{WyckoffSites: []*WyckoffSite{&p4mm.WyckoffSites[0]}}

	vars := DefaultMCVars()
	vars.Steps = 500

	run := func() float64 {
		rng := rand.New(rand.NewSource(99))
		res, err := BestPackingInIsopointalGroup(context.Background(), octagon, p4mm, iso, vars, rng, nil)
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		return res.PackingFraction
	}
	if a, b := run(), run(); a != b {
		t.Errorf("identical seeds diverged: %v vs %v", a, b)
	}
}

func TestBestPackingTriangleP3(t *testing.T) {
	triangle := unitPolygon(t, 3, 3, 3)
	p3, _ := GroupByLabel("p3")
	iso := &IsopointalGroup{WyckoffSites: []*WyckoffSite{&p3.WyckoffSites[0]}}

	vars := DefaultMCVars()
	vars.Steps = 1500
	rng := rand.New(rand.NewSource(17))

	res, err := BestPackingInIsopointalGroup(context.Background(), triangle, p3, iso, vars, rng, nil)
	if err != nil {
		t.Fatalf("BestPackingInIsopointalGroup: %v", err)
	}
	state := res.State
	if state.Cell.AngleValue() != math.Pi/3 {
		t.Errorf("hexagonal angle = %v, want pi/3", state.Cell.AngleValue())
	}
	if state.Cell.LengthX() != state.Cell.LengthY() {
		t.Error("hexagonal cell must keep a = b")
	}
	if res.PackingFraction < 0.99 {
		t.Errorf("triangle close packing fraction %v, want >= 0.99", res.PackingFraction)
	}
}

func TestBestPackingHexagonP6(t *testing.T) {
	dodecagon := unitPolygon(t, 12, 6, 6)
	p6, _ := GroupByLabel("p6")
	iso := &IsopointalGroup{WyckoffSites: []*WyckoffSite{&p6.WyckoffSites[0]}}

	vars := DefaultMCVars()
	vars.Steps = 3000
	rng := rand.New(rand.NewSource(23))

	res, err := BestPackingInIsopointalGroup(context.Background(), dodecagon, p6, iso, vars, rng, nil)
	if err != nil {
		t.Fatalf("BestPackingInIsopointalGroup: %v", err)
	}
	if res.State.Cell.AngleValue() != math.Pi/3 {
		t.Errorf("hexagonal angle = %v, want pi/3", res.State.Cell.AngleValue())
	}
	if res.PackingFraction < 0.80 {
		t.Errorf("dodecagon hexagonal packing %v, want >= 0.80", res.PackingFraction)
	}
	if res.PackingFraction > 0.94 {
		t.Errorf("dodecagon hexagonal packing %v exceeds the contact bound", res.PackingFraction)
	}
}

func TestBestTrackingMonotonic(t *testing.T) {
	octagon := unitPolygon(t, 8, 4, 4)
	p4mm, _ := GroupByLabel("p4mm")
	iso := &IsopointalGroup{WyckoffSites: []*WyckoffSite{&p4mm.WyckoffSites[0]}}

	vars := DefaultMCVars()
	vars.Steps = 800
	rng := rand.New(rand.NewSource(3))

	var traces TraceSet
	trace := traces.NewTrace("monotonic", 1)
	if _, err := BestPackingInIsopointalGroup(context.Background(), octagon, p4mm, iso, vars, rng, trace); err != nil {
		t.Fatalf("run: %v", err)
	}

	prev := 0.0
	for _, p := range trace.Points {
		if p.Best < prev {
			t.Fatalf("best fraction decreased at step %d: %v -> %v", p.Step, prev, p.Best)
		}
		prev = p.Best
	}
}

func TestBestPackingCancellation(t *testing.T) {
	octagon := unitPolygon(t, 8, 4, 4)
	p4mm, _ := GroupByLabel("p4mm")
	iso := &IsopointalGroup{WyckoffSites: []*WyckoffSite{&p4mm.WyckoffSites[0]}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	vars := DefaultMCVars()
	vars.Steps = 1000
	rng := rand.New(rand.NewSource(5))

	res, err := BestPackingInIsopointalGroup(ctx, octagon, p4mm, iso, vars, rng, nil)
	if err != nil {
		t.Fatalf("cancelled run must still return the best state: %v", err)
	}
	if !res.Cancelled {
		t.Error("result must be marked cancelled")
	}
	if res.Steps != 0 {
		t.Errorf("no steps should run after cancellation, got %d", res.Steps)
	}
}

func TestOptimizerBestPackings(t *testing.T) {
	octagon := unitPolygon(t, 8, 4, 4)
	p4mm, _ := GroupByLabel("p4mm")

	vars := DefaultMCVars()
	vars.Steps = 200
	vars.NumCycles = 2
	opt := &Optimizer{Vars: vars, Workers: 2, Seed: 11}

	results := opt.BestPackings(context.Background(), octagon, p4mm, 1)
	if len(results) == 0 {
		t.Fatal("expected isopointal groups for the octagon in p4mm")
	}
	for _, res := range results {
		if res.Err != nil {
			t.Errorf("group %s: %v", res.Isopointal, res.Err)
			continue
		}
		if res.Result == nil || res.Result.State == nil {
			t.Errorf("group %s: missing result", res.Isopointal)
		}
	}
}

func TestOptimizerEmptyEnumeration(t *testing.T) {
	// An empty enumeration is an empty result list, not an error.
	disc := unitPolygon(t, 10, 5, 0)
	p4mm, _ := GroupByLabel("p4mm")
	opt := &Optimizer{Vars: DefaultMCVars(), Seed: 1}
	if res := opt.BestPackings(context.Background(), disc, p4mm, 0); res != nil {
		t.Errorf("zero occupied sites must yield an empty result list")
	}
}
