package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"sync"
	"syscall"

	"github.com/kwv/wallpack/packing"
)

// AppOptions carries the CLI flags into the application.
type AppOptions struct {
	ShapeName    string
	GroupLabel   string
	NumSites     int
	Steps        int
	Cycles       int
	Seed         int64
	OutputDir    string
	RenderFormat string
	TraceHTML    string
	GeoJSON      bool
	PrintOnly    bool
	MqttMode     bool
	HttpMode     bool
	HttpPort     int
}

// App encapsulates the application state and dependencies.
type App struct {
	Config    *packing.Config
	Options   AppOptions
	Publisher *packing.ProgressPublisher
	Traces    *packing.TraceSet

	mu      sync.Mutex
	results []jobResult
}

// jobResult is one optimized isopointal group, ready for the CSV writer and
// the status endpoint.
type jobResult struct {
	Shape     string
	Group     string
	Sites     string
	NumSites  int
	Packing   float64
	CellA     float64
	CellB     float64
	CellAngle float64
	Chirality string
	Steps     int
	Seed      int64
	State     *packing.PackedState
}

// NewApp creates a new App instance.
func NewApp(config *packing.Config) *App {
	return &App{Config: config, Traces: &packing.TraceSet{}}
}

// ApplyOptions applies CLI options to the App instance.
func (a *App) ApplyOptions(opts AppOptions) {
	a.Options = opts
}

// jobs resolves which (shape, group, sites) combinations to run: either the
// single combination named on the command line or every job in the config.
func (a *App) jobs() ([]packing.JobConfig, error) {
	if a.Options.ShapeName != "" {
		if a.Options.GroupLabel == "" {
			return nil, fmt.Errorf("-shape requires -group")
		}
		return []packing.JobConfig{{
			Shape: a.Options.ShapeName,
			Group: a.Options.GroupLabel,
			Sites: a.Options.NumSites,
		}}, nil
	}
	return a.Config.Jobs, nil
}

// vars merges config and CLI overrides into the annealing schedule.
func (a *App) vars() packing.MCVars {
	vars := a.Config.MonteCarlo.Vars()
	if a.Options.Steps > 0 {
		vars.Steps = a.Options.Steps
	}
	if a.Options.Cycles > 0 {
		vars.NumCycles = a.Options.Cycles
	}
	return vars
}

func (a *App) seed() int64 {
	if a.Options.Seed != 0 {
		return a.Options.Seed
	}
	return a.Config.Seed
}

// Run executes every job, writes the outputs and blocks until done or
// interrupted.
func (a *App) Run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if a.Options.MqttMode {
		if a.Config.MQTT == nil {
			return fmt.Errorf("-mqtt requires an mqtt section in the config")
		}
		client, err := packing.ConnectMQTT(a.Config.MQTT)
		if err != nil {
			return err
		}
		a.Publisher = packing.NewProgressPublisher(client, a.Config.MQTT.PublishPrefix)
		defer a.Publisher.Close()
	} else {
		// A publisher with no client still tracks the latest results for
		// the status endpoint.
		a.Publisher = packing.NewProgressPublisher(nil, "")
	}

	if a.Options.HttpMode {
		server := &http.Server{
			Addr:    fmt.Sprintf(":%d", a.Options.HttpPort),
			Handler: a.newHTTPHandler(),
		}
		go func() {
			log.Printf("[HTTP] status server listening on %s", server.Addr)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("[HTTP] server error: %v", err)
			}
		}()
		defer server.Close()
	}

	jobs, err := a.jobs()
	if err != nil {
		return err
	}

	for _, job := range jobs {
		if ctx.Err() != nil {
			log.Printf("[APP] interrupted, writing partial results")
			break
		}
		if err := a.runJob(ctx, job); err != nil {
			log.Printf("[APP] job %s/%s failed: %v", job.Shape, job.Group, err)
		}
	}

	return a.writeOutputs()
}

// runJob optimizes every isopointal group of one (shape, group, sites)
// combination.
func (a *App) runJob(ctx context.Context, job packing.JobConfig) error {
	shapeConfig := a.Config.GetShapeByName(job.Shape)
	if shapeConfig == nil {
		return fmt.Errorf("unknown shape %q", job.Shape)
	}
	shape, err := shapeConfig.Build()
	if err != nil {
		return err
	}
	group, ok := packing.GroupByLabel(job.Group)
	if !ok {
		return fmt.Errorf("unknown wallpaper group %q", job.Group)
	}

	optimizer := &packing.Optimizer{
		Vars:        a.vars(),
		Workers:     a.Config.Workers,
		Seed:        a.seed(),
		Publisher:   a.Publisher,
		TraceStride: 10,
	}
	if a.Options.TraceHTML != "" || a.Config.Output.TraceHTML != "" {
		optimizer.Traces = a.Traces
	}

	log.Printf("[APP] optimizing %s in %s with %d occupied sites", shape.Name, group.Label, job.Sites)
	results := optimizer.BestPackings(ctx, shape, group, job.Sites)
	if len(results) == 0 {
		log.Printf("[APP] %s/%s: no admissible isopointal groups", shape.Name, group.Label)
		return nil
	}

	for _, res := range results {
		if res.Err != nil {
			log.Printf("[APP] %s/%s/%s: %v", shape.Name, group.Label, res.Isopointal, res.Err)
			continue
		}
		if res.Result == nil {
			continue
		}
		state := res.Result.State
		a.mu.Lock()
		a.results = append(a.results, jobResult{
			Shape:     shape.Name,
			Group:     group.Label,
			Sites:     res.Isopointal.String(),
			NumSites:  job.Sites,
			Packing:   res.Result.PackingFraction,
			CellA:     state.Cell.LengthX(),
			CellB:     state.Cell.LengthY(),
			CellAngle: state.Cell.AngleValue(),
			Chirality: string(state.Chirality()),
			Steps:     res.Result.Steps,
			Seed:      a.seed(),
			State:     state,
		})
		a.mu.Unlock()
	}
	return nil
}

// writeOutputs persists everything the run produced: the CSV summary, the
// renders, the GeoJSON exports and the trace report.
func (a *App) writeOutputs() error {
	a.mu.Lock()
	results := append([]jobResult(nil), a.results...)
	a.mu.Unlock()

	if a.Options.PrintOnly {
		for _, r := range results {
			fmt.Println(r.State.String())
		}
		return nil
	}

	if len(results) == 0 {
		log.Printf("[APP] nothing to write")
		return nil
	}

	if err := os.MkdirAll(a.outputDir(), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if err := a.writeCSV(results); err != nil {
		return err
	}

	for _, r := range results {
		base := fmt.Sprintf("%s-%s-%s", r.Shape, r.Group, r.Sites)
		if err := a.renderResult(r, base); err != nil {
			log.Printf("[APP] rendering %s: %v", base, err)
		}
		if a.Options.GeoJSON || a.Config.Output.GeoJSON {
			path := filepath.Join(a.outputDir(), base+".geojson")
			if err := writeWith(path, func(w io.Writer) error {
				return packing.ExportGeoJSON(r.State, 1, w)
			}); err != nil {
				log.Printf("[APP] exporting %s: %v", path, err)
			}
		}
	}

	if tracePath := a.tracePath(); tracePath != "" {
		if err := writeWith(tracePath, a.Traces.WriteHTML); err != nil {
			log.Printf("[APP] writing trace report: %v", err)
		} else {
			log.Printf("[APP] trace report written to %s", tracePath)
		}
	}
	return nil
}

func (a *App) outputDir() string {
	if a.Config.Output.Directory != "" && a.Options.OutputDir == "results" {
		return a.Config.Output.Directory
	}
	return a.Options.OutputDir
}

func (a *App) tracePath() string {
	if a.Options.TraceHTML != "" {
		return a.Options.TraceHTML
	}
	return a.Config.Output.TraceHTML
}

func (a *App) renderFormat() string {
	if a.Config.Output.RenderFormat != "" && a.Options.RenderFormat == "svg" {
		return a.Config.Output.RenderFormat
	}
	return a.Options.RenderFormat
}

// renderResult writes the configured render formats for one result.
func (a *App) renderResult(r jobResult, base string) error {
	format := a.renderFormat()
	if format == "none" {
		return nil
	}
	renderer := packing.NewRenderer(r.State)
	if format == "svg" || format == "both" {
		path := filepath.Join(a.outputDir(), base+".svg")
		if err := writeWith(path, renderer.RenderSVG); err != nil {
			return err
		}
		log.Printf("[RENDER] wrote %s", path)
	}
	if format == "png" || format == "both" {
		path := filepath.Join(a.outputDir(), base+".png")
		if err := writeWith(path, renderer.RenderPNG); err != nil {
			return err
		}
		log.Printf("[RENDER] wrote %s", path)
	}
	return nil
}

// writeCSV writes one row per optimized isopointal group.
func (a *App) writeCSV(results []jobResult) error {
	path := filepath.Join(a.outputDir(), "results.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"shape", "group", "sites", "num_sites", "packing_fraction", "a", "b", "angle", "chirality", "steps", "seed"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range results {
		row := []string{
			r.Shape,
			r.Group,
			r.Sites,
			strconv.Itoa(r.NumSites),
			strconv.FormatFloat(r.Packing, 'f', 6, 64),
			strconv.FormatFloat(r.CellA, 'f', 6, 64),
			strconv.FormatFloat(r.CellB, 'f', 6, 64),
			strconv.FormatFloat(r.CellAngle, 'f', 6, 64),
			r.Chirality,
			strconv.Itoa(r.Steps),
			strconv.FormatInt(r.Seed, 10),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	log.Printf("[APP] results written to %s", path)
	return nil
}

// writeWith creates path and hands the file to fn, closing it afterwards.
func writeWith(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
