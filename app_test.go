package main

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kwv/wallpack/packing"
)

func testConfig() *packing.Config {
	return &packing.Config{
		Shapes: []packing.ShapeConfig{
			{Name: "octagon", RadialPoints: []float64{1, 1, 1, 1, 1, 1, 1, 1}, RotationalSymmetries: 4, Mirrors: 4},
		},
		Jobs:       []packing.JobConfig{{Shape: "octagon", Group: "p4mm", Sites: 1}},
		MonteCarlo: packing.MCConfig{Steps: 100, NumCycles: 1},
		Seed:       7,
	}
}

func TestAppJobsFromConfig(t *testing.T) {
	app := NewApp(testConfig())
	jobs, err := app.jobs()
	if err != nil {
		t.Fatalf("jobs: %v", err)
	}
	if len(jobs) != 1 || jobs[0].Group != "p4mm" {
		t.Errorf("unexpected jobs: %+v", jobs)
	}
}

func TestAppJobsFromFlags(t *testing.T) {
	app := NewApp(testConfig())
	app.ApplyOptions(AppOptions{ShapeName: "octagon", GroupLabel: "p4", NumSites: 2})
	jobs, err := app.jobs()
	if err != nil {
		t.Fatalf("jobs: %v", err)
	}
	if len(jobs) != 1 || jobs[0].Group != "p4" || jobs[0].Sites != 2 {
		t.Errorf("unexpected jobs: %+v", jobs)
	}

	app.ApplyOptions(AppOptions{ShapeName: "octagon"})
	if _, err := app.jobs(); err == nil {
		t.Error("-shape without -group must error")
	}
}

func TestAppVarsOverrides(t *testing.T) {
	app := NewApp(testConfig())
	app.ApplyOptions(AppOptions{Steps: 250, Cycles: 3})
	vars := app.vars()
	if vars.Steps != 250 || vars.NumCycles != 3 {
		t.Errorf("overrides not applied: %+v", vars)
	}

	app.ApplyOptions(AppOptions{})
	vars = app.vars()
	if vars.Steps != 100 || vars.NumCycles != 1 {
		t.Errorf("config values not applied: %+v", vars)
	}
}

func TestAppSeedPrecedence(t *testing.T) {
	app := NewApp(testConfig())
	if app.seed() != 7 {
		t.Errorf("config seed = %d, want 7", app.seed())
	}
	app.ApplyOptions(AppOptions{Seed: 99})
	if app.seed() != 99 {
		t.Errorf("flag seed = %d, want 99", app.seed())
	}
}

func TestRunJobAndWriteCSV(t *testing.T) {
	dir := t.TempDir()
	app := NewApp(testConfig())
	app.ApplyOptions(AppOptions{OutputDir: dir, RenderFormat: "none"})
	app.Publisher = packing.NewProgressPublisher(nil, "")

	if err := app.runJob(context.Background(), app.Config.Jobs[0]); err != nil {
		t.Fatalf("runJob: %v", err)
	}
	if app.resultCount() == 0 {
		t.Fatal("no results recorded")
	}
	if app.latestState() == nil {
		t.Fatal("latest state missing")
	}

	if err := app.writeOutputs(); err != nil {
		t.Fatalf("writeOutputs: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "results.csv"))
	if err != nil {
		t.Fatalf("opening results.csv: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("reading results.csv: %v", err)
	}
	if len(rows) < 2 {
		t.Fatalf("results.csv has %d rows, want header plus results", len(rows))
	}
	if !strings.HasPrefix(strings.Join(rows[0], ","), "shape,group,sites") {
		t.Errorf("unexpected header: %v", rows[0])
	}
	for _, row := range rows[1:] {
		if row[0] != "octagon" || row[1] != "p4mm" {
			t.Errorf("unexpected result row: %v", row)
		}
	}
}
