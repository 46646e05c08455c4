package packing

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
)

// PackedState owns everything that describes one packing: the wallpaper
// group, the shape, the unit cell, the occupied sites, and the arena of
// basis parameters backing all of them. It is created by InitialiseStructure
// and mutated only by the Monte Carlo driver.
type PackedState struct {
	Group *WallpaperGroup
	Shape *Shape
	Basis *Basis
	Cell  *Cell
	Sites []*OccupiedSite
	Flip  *FlipParam
}

// InitialiseStructure builds a fresh random state for one isopointal group.
// The cell starts large enough that shape images should not overlap: four
// maximum radii per image of the group.
func InitialiseStructure(shape *Shape, iso *IsopointalGroup, group *WallpaperGroup, stepSize float64, rng *rand.Rand) *PackedState {
	basis := NewBasis()

	maxCellSize := 4 * shape.MaxRadius * float64(iso.Multiplicity())

	var xLen, yLen int
	if group.ABEqual {
		xLen = basis.AddCellLength(maxCellSize, 0.1, maxCellSize, stepSize)
		yLen = xLen
	} else {
		xLen = basis.AddCellLength(maxCellSize, 0.1, maxCellSize, stepSize)
		yLen = basis.AddCellLength(maxCellSize, 0.1, maxCellSize, stepSize)
	}

	var angle int
	switch {
	case group.Hexagonal:
		angle = basis.AddFixed(math.Pi / 3)
	case group.Rectangular:
		angle = basis.AddFixed(math.Pi / 2)
	default:
		angle = basis.AddCellAngle(math.Pi/4+rng.Float64()*math.Pi/2, math.Pi/4, 3*math.Pi/4, stepSize, xLen, yLen)
	}
	cell := NewCell(basis, xLen, yLen, angle)

	sites := make([]*OccupiedSite, 0, len(iso.WyckoffSites))
	for _, wyckoff := range iso.WyckoffSites {
		var x, y, siteAngle int
		if wyckoff.VaryX() {
			x = basis.AddFree(rng.Float64(), 0, 1, stepSize)
		} else {
			x = basis.AddFixed(0)
		}
		if wyckoff.VaryY() {
			y = basis.AddFree(rng.Float64(), 0, 1, stepSize)
		} else {
			y = basis.AddFixed(0)
		}
		if wyckoff.Mirrors > 0 {
			mirrorAngle := math.Pi * float64(wyckoff.MirrorType()) / 180
			siteAngle = basis.AddMirror(mirrorAngle, 0, 2*math.Pi, wyckoff.Mirrors)
		} else {
			siteAngle = basis.AddFree(rng.Float64()*2*math.Pi, 0, 2*math.Pi, stepSize)
		}
		sites = append(sites, NewOccupiedSite(basis, wyckoff, x, y, siteAngle))
	}

	return &PackedState{
		Group: group,
		Shape: shape,
		Basis: basis,
		Cell:  cell,
		Sites: sites,
		Flip:  NewFlipParam(sites),
	}
}

// NumShapes is the total number of shape images in the cell. It is constant
// over the lifetime of the state.
func (s *PackedState) NumShapes() int {
	var total int
	for _, site := range s.Sites {
		total += site.Multiplicity()
	}
	return total
}

// PackingFraction is the ratio of total shape area to cell area.
func (s *PackedState) PackingFraction() (float64, error) {
	fraction := float64(s.NumShapes()) * s.Shape.Area() / s.Cell.Area()
	if math.IsNaN(fraction) {
		return 0, &NumericError{
			Op:    "packing fraction",
			XLen:  s.Cell.LengthX(),
			YLen:  s.Cell.LengthY(),
			Angle: s.Cell.AngleValue(),
		}
	}
	return fraction, nil
}

// CheckIntersection reports whether any two shape images in the state
// overlap, across periodic boundaries.
func (s *PackedState) CheckIntersection() bool {
	return CheckStateForIntersection(s.Shape, s.Sites, s.Cell)
}

// SaveBasis snapshots every basis value in declaration order.
func (s *PackedState) SaveBasis() []float64 {
	return s.Basis.Save()
}

// LoadBasis restores a snapshot taken with SaveBasis.
func (s *PackedState) LoadBasis(snapshot []float64) error {
	return s.Basis.Load(snapshot)
}

// Flips captures the flip state of every occupied site.
func (s *PackedState) Flips() []bool {
	out := make([]bool, len(s.Sites))
	for i, site := range s.Sites {
		out[i] = site.FlipSite
	}
	return out
}

// SetFlips restores flip states captured with Flips.
func (s *PackedState) SetFlips(flips []bool) error {
	if len(flips) != len(s.Sites) {
		return fmt.Errorf("flip snapshot has %d values, state has %d sites", len(flips), len(s.Sites))
	}
	for i, site := range s.Sites {
		site.FlipSite = flips[i]
	}
	return nil
}

// Chirality classifies the handedness of the packing: 'c' when every image
// shares one handedness, 's' when the two cancel exactly, 'a' otherwise.
func (s *PackedState) Chirality() byte {
	var chiralSum, totalSum int
	for _, site := range s.Sites {
		flip := 0
		if site.FlipSite {
			flip = 1
		}
		chiralSum += (2*flip - 1) * site.Multiplicity()
		totalSum += site.Multiplicity()
	}
	switch {
	case chiralSum == totalSum || chiralSum == -totalSum:
		return 'c'
	case chiralSum == 0:
		return 's'
	}
	return 'a'
}

// String renders the state in the textual exchange format: the cell, the
// group label, then every occupied site with the fractional position and
// orientation of each of its images.
func (s *PackedState) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Shape: %s\n", s.Shape.Name)
	fmt.Fprintf(&b, "Cell:\n")
	fmt.Fprintf(&b, "  a: %g\n", s.Cell.LengthX())
	fmt.Fprintf(&b, "  b: %g\n", s.Cell.LengthY())
	fmt.Fprintf(&b, "  angle: %g\n", s.Cell.AngleValue())
	fmt.Fprintf(&b, "Wallpaper Group: %s\n", s.Group.Label)
	for _, site := range s.Sites {
		fmt.Fprintf(&b, "Site: %s\n", site.Wyckoff.Letter)
		for i := range site.Wyckoff.Symmetries {
			transform := &site.Wyckoff.Symmetries[i]
			pos := transform.RealToFractional(site.Position())
			fmt.Fprintf(&b, "  (%.6f, %.6f) angle %.6f flip %v\n",
				pos.X, pos.Y, site.AngleValue()+transform.RotationOffset, site.FlipSite != transform.Flipped)
		}
	}
	return b.String()
}
