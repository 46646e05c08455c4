package packing

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"
)

// Optimizer fans the annealing of independent isopointal groups out over a
// pool of workers. Each group job owns its state exclusively; workers share
// nothing but the read-only catalogue, the trace set and the publisher.
type Optimizer struct {
	Vars    MCVars
	Workers int
	Seed    int64

	// Traces, when non-nil, records every annealing cycle.
	Traces *TraceSet
	// TraceStride is the sampling interval for recorded traces.
	TraceStride int
	// Publisher, when non-nil, receives the best packing after each cycle.
	Publisher *ProgressPublisher
}

// GroupResult is the best packing found for one isopointal group.
type GroupResult struct {
	Isopointal *IsopointalGroup
	Result     *MCResult
	Err        error
}

// BestPackings enumerates the isopointal groups admissible for the shape in
// the wallpaper group and anneals each of them, returning one result per
// group in enumeration order. An empty enumeration returns an empty slice.
func (o *Optimizer) BestPackings(ctx context.Context, shape *Shape, group *WallpaperGroup, numOccupiedSites int) []GroupResult {
	isoGroups := GenerateIsopointalGroups(shape, group, numOccupiedSites)
	if len(isoGroups) == 0 {
		return nil
	}

	workers := o.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(isoGroups) {
		workers = len(isoGroups)
	}

	results := make([]GroupResult, len(isoGroups))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = o.optimizeGroup(ctx, shape, group, isoGroups[idx], idx)
			}
		}()
	}
	for idx := range isoGroups {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	return results
}

// optimizeGroup runs NumCycles independent annealing cycles for one group
// and keeps the best. Worker seeds decorrelate through the group index.
func (o *Optimizer) optimizeGroup(ctx context.Context, shape *Shape, group *WallpaperGroup, iso *IsopointalGroup, groupIndex int) GroupResult {
	out := GroupResult{Isopointal: iso}

	cycles := o.Vars.NumCycles
	if cycles < 1 {
		cycles = 1
	}

	for cycle := 0; cycle < cycles; cycle++ {
		if ctx.Err() != nil {
			break
		}
		rng := rand.New(rand.NewSource(o.Seed + int64(groupIndex)*1000 + int64(cycle)))

		var trace *Trace
		if o.Traces != nil {
			trace = o.Traces.NewTrace(fmt.Sprintf("%s/%s cycle %d", group.Label, iso, cycle), o.TraceStride)
		}

		res, err := BestPackingInIsopointalGroup(ctx, shape, group, iso, o.Vars, rng, trace)
		if err != nil && !errors.Is(err, ErrEmptyBasis) {
			log.Printf("[OPT] %s/%s cycle %d failed: %v", group.Label, iso, cycle, err)
			if out.Result == nil {
				out.Err = err
			}
			continue
		}
		if out.Result == nil || res.PackingFraction > out.Result.PackingFraction {
			out.Result = res
			out.Err = nil
		}
		if o.Publisher != nil && res != nil {
			update := ProgressUpdate{
				Shape:     shape.Name,
				Group:     group.Label,
				Sites:     iso.String(),
				Cycle:     cycle,
				Step:      res.Steps,
				Packing:   res.PackingFraction,
				Timestamp: time.Now().Unix(),
			}
			if err := o.Publisher.PublishBest(update); err != nil {
				log.Printf("[OPT] publishing progress: %v", err)
			}
		}
		if errors.Is(err, ErrEmptyBasis) {
			// Nothing can move; further cycles would repeat the same state.
			break
		}
	}
	return out
}
