package packing

import (
	"fmt"
	"io"
	"math"
	"sort"
	"sync"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// TracePoint is one sampled step of an annealing run.
type TracePoint struct {
	Step    int
	KT      float64
	Packing float64
	Best    float64
}

// Trace records the course of one annealing cycle, sampled every Stride
// steps to keep long runs bounded.
type Trace struct {
	Label  string
	Stride int
	Points []TracePoint
}

// Record samples the current step if it falls on the stride.
func (t *Trace) Record(step int, kT, packing, best float64) {
	stride := t.Stride
	if stride <= 0 {
		stride = 1
	}
	if step%stride != 0 {
		return
	}
	t.Points = append(t.Points, TracePoint{Step: step, KT: kT, Packing: packing, Best: best})
}

// TraceSet collects the traces of all cycles and groups of a run. It is safe
// for concurrent use by the optimizer's workers.
type TraceSet struct {
	mu     sync.Mutex
	traces []*Trace
}

// NewTrace registers and returns a new trace with the given label.
func (ts *TraceSet) NewTrace(label string, stride int) *Trace {
	t := &Trace{Label: label, Stride: stride}
	ts.mu.Lock()
	ts.traces = append(ts.traces, t)
	ts.mu.Unlock()
	return t
}

// Traces returns the recorded traces in registration order.
func (ts *TraceSet) Traces() []*Trace {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return append([]*Trace(nil), ts.traces...)
}

// traceStats summarises the sampled packing fractions of one trace.
type traceStats struct {
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Median float64
	Max    float64
	Final  float64
}

func computeTraceStats(points []TracePoint) traceStats {
	n := len(points)
	if n == 0 {
		return traceStats{}
	}
	values := make([]float64, n)
	for i, p := range points {
		values[i] = p.Packing
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)

	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	if n > 1 {
		variance /= float64(n - 1)
	}

	return traceStats{
		Count:  n,
		Mean:   mean,
		Std:    math.Sqrt(variance),
		Min:    sorted[0],
		Median: quantileSorted(sorted, 0.5),
		Max:    sorted[n-1],
		Final:  points[n-1].Best,
	}
}

func quantileSorted(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func toLineData(points []TracePoint, pick func(TracePoint) float64) []opts.LineData {
	out := make([]opts.LineData, len(points))
	for i, p := range points {
		out[i] = opts.LineData{Value: pick(p)}
	}
	return out
}

func newTraceChart(t *Trace) *charts.Line {
	stats := computeTraceStats(t.Points)
	subtitle := fmt.Sprintf("samples=%d, mean=%.4f, median=%.4f, max=%.4f, best=%.4f",
		stats.Count, stats.Mean, stats.Median, stats.Max, stats.Final)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: t.Label, Subtitle: subtitle}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: t.Label, Width: "1200px", Height: "500px"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}, opts.DataZoom{Type: "slider"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	steps := make([]string, len(t.Points))
	for i, p := range t.Points {
		steps[i] = fmt.Sprintf("%d", p.Step)
	}
	line.SetXAxis(steps).
		AddSeries("packing", toLineData(t.Points, func(p TracePoint) float64 { return p.Packing })).
		AddSeries("best", toLineData(t.Points, func(p TracePoint) float64 { return p.Best })).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}))
	return line
}

// WriteHTML renders every recorded trace into a standalone HTML report, one
// line chart per annealing cycle.
func (ts *TraceSet) WriteHTML(w io.Writer) error {
	page := components.NewPage()
	for _, t := range ts.Traces() {
		if len(t.Points) == 0 {
			continue
		}
		page.AddCharts(newTraceChart(t))
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("rendering trace report: %w", err)
	}
	return nil
}
