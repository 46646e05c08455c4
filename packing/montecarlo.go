package packing

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand"
)

// MCVars holds the simulated annealing schedule. The temperature decays
// geometrically from KTStart to KTFinish over Steps moves; NumCycles
// independent cycles are run per isopointal group, each from a fresh random
// initialization.
type MCVars struct {
	KTStart     float64
	KTFinish    float64
	MaxStepSize float64
	Steps       int
	NumCycles   int
}

// DefaultMCVars returns the schedule used when the caller does not override
// anything.
func DefaultMCVars() MCVars {
	return MCVars{
		KTStart:     0.1,
		KTFinish:    5e-4,
		MaxStepSize: 0.01,
		Steps:       10000,
		NumCycles:   32,
	}
}

// KTRatio is the per-step temperature decay factor.
func (v MCVars) KTRatio() float64 {
	return math.Pow(v.KTFinish/v.KTStart, 1.0/float64(v.Steps))
}

// initAttempts bounds the retries for a non-overlapping initial placement.
const initAttempts = 100

// temperatureDistribution is the Metropolis acceptance probability for a
// move from oldVal to newVal at temperature kT, weighted by the number of
// shape replicas. The result is clipped into [0, 1].
func temperatureDistribution(oldVal, newVal, kT float64, replicas int) float64 {
	a := math.Exp((1/oldVal-1/newVal)/kT + float64(replicas)*math.Log(oldVal/newVal))
	return clamp(a, 0, 1)
}

// MCResult is the outcome of annealing one isopointal group.
type MCResult struct {
	State           *PackedState
	PackingFraction float64
	Steps           int
	Rejections      int
	Cancelled       bool
}

// BestPackingInIsopointalGroup runs one annealing cycle over the given
// isopointal group and returns the best packing seen. The random source is
// the only source of nondeterminism; identical seeds give identical runs.
//
// A state with no variable parameters is returned unchanged together with
// ErrEmptyBasis. Cooperative cancellation through ctx returns the best
// state observed so far with Cancelled set. A trace may be nil.
func BestPackingInIsopointalGroup(ctx context.Context, shape *Shape, group *WallpaperGroup, iso *IsopointalGroup, vars MCVars, rng *rand.Rand, trace *Trace) (*MCResult, error) {
	state := InitialiseStructure(shape, iso, group, vars.MaxStepSize, rng)
	for attempt := 0; attempt < initAttempts && state.CheckIntersection(); attempt++ {
		state = InitialiseStructure(shape, iso, group, vars.MaxStepSize, rng)
	}

	packing, err := state.PackingFraction()
	if err != nil {
		return nil, err
	}
	log.Printf("[MC] %s/%s: initial packing fraction %f", group.Label, iso, packing)

	result := &MCResult{State: state, PackingFraction: packing}

	variable := state.Basis.Variable()
	if len(variable) == 0 {
		return result, ErrEmptyBasis
	}

	replicas := state.NumShapes()
	kT := vars.KTStart
	ratio := vars.KTRatio()

	packingMax := 0.0
	bestBasis := state.SaveBasis()
	bestFlips := state.Flips()

	for step := 0; step < vars.Steps; step++ {
		if err := ctx.Err(); err != nil {
			result.Cancelled = true
			break
		}
		kT *= ratio

		index := variable[rng.Intn(len(variable))]

		// Occasionally allow flips. On an intersection rejection below the
		// flip is deliberately left in place; only the Metropolis rejection
		// rolls it back.
		if step%100 != 0 {
			state.Flip.Set(state.Flip.Propose(kT, rng))
		}

		packingPrev := packing
		state.Basis.Set(index, state.Basis.Propose(index, kT, rng))

		if state.CheckIntersection() {
			result.Rejections++
			state.Basis.Reset(index)
		} else {
			packing, err = state.PackingFraction()
			if err != nil {
				return nil, err
			}
			if rng.Float64() > temperatureDistribution(packingPrev, packing, kT, replicas) {
				result.Rejections++
				state.Basis.Reset(index)
				state.Flip.Reset()
				packing = packingPrev
			}
			if packing > packingMax {
				packingMax = packing
				bestBasis = state.SaveBasis()
				bestFlips = state.Flips()
			}
		}

		if trace != nil {
			trace.Record(step, kT, packing, packingMax)
		}
		if step%500 == 0 {
			log.Printf("[MC] %s/%s: step %d of %d, kT=%g, packing %f, angle %.1f, rejections %.1f%%",
				group.Label, iso, step, vars.Steps, kT, packing,
				state.Cell.AngleValue()*180/math.Pi,
				100*float64(result.Rejections)/float64(step+1))
		}
		result.Steps++
	}

	if err := state.LoadBasis(bestBasis); err != nil {
		return nil, fmt.Errorf("restoring best basis: %w", err)
	}
	if err := state.SetFlips(bestFlips); err != nil {
		return nil, fmt.Errorf("restoring best flips: %w", err)
	}
	best, err := state.PackingFraction()
	if err != nil {
		return nil, err
	}
	result.PackingFraction = best
	log.Printf("[MC] %s/%s: best packing %f after %d steps (%d rejections)",
		group.Label, iso, best, result.Steps, result.Rejections)
	return result, nil
}
