package packing

import (
	"fmt"
	"io"
	"math"
)

// Shape is a rigid 2D particle described radially: an ordered sequence of
// positive radii at equal angular steps around the centroid. The shape's own
// point-group symmetries (rotation order and mirror count) gate which Wyckoff
// sites it may occupy.
type Shape struct {
	Name                 string
	RadialPoints         []float64
	RotationalSymmetries int
	Mirrors              int
	MinRadius            float64
	MaxRadius            float64
}

// NewShape validates the radial description and computes the radius bounds.
func NewShape(name string, radialPoints []float64, rotationalSymmetries, mirrors int) (*Shape, error) {
	if len(radialPoints) == 0 {
		return nil, fmt.Errorf("shape %q: no radial points", name)
	}
	if rotationalSymmetries < 1 {
		return nil, fmt.Errorf("shape %q: rotational symmetries must be >= 1", name)
	}
	minR, maxR := radialPoints[0], radialPoints[0]
	for i, r := range radialPoints {
		if r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
			return nil, fmt.Errorf("shape %q: radial point %d is %v, want positive finite", name, i, r)
		}
		minR = math.Min(minR, r)
		maxR = math.Max(maxR, r)
	}
	return &Shape{
		Name:                 name,
		RadialPoints:         radialPoints,
		RotationalSymmetries: rotationalSymmetries,
		Mirrors:              mirrors,
		MinRadius:            minR,
		MaxRadius:            maxR,
	}, nil
}

// Resolution is the number of radial points.
func (s *Shape) Resolution() int { return len(s.RadialPoints) }

// AngularStep is the angle between successive radial points.
func (s *Shape) AngularStep() float64 { return 2 * math.Pi / float64(s.Resolution()) }

// GetPoint returns the radius at index i, interpreted modulo the resolution
// so negative indices wrap.
func (s *Shape) GetPoint(i int) float64 {
	return s.RadialPoints[PositiveModuloInt(i, s.Resolution())]
}

// CompatibleWith reports whether the two shapes can be compared by the
// boundary intersection test, which walks both radial descriptions in step.
func (s *Shape) CompatibleWith(other *Shape) error {
	if s.Resolution() != other.Resolution() {
		return fmt.Errorf("%w: %d vs %d", ErrResolutionMismatch, s.Resolution(), other.Resolution())
	}
	return nil
}

// Area computes the polygon area by summing the side-angle-side triangles
// between successive radial points.
func (s *Shape) Area() float64 {
	sinStep := math.Sin(s.AngularStep())
	var area float64
	n := s.Resolution()
	for i := 0; i < n; i++ {
		area += 0.5 * s.RadialPoints[i] * s.RadialPoints[(i+1)%n] * sinStep
	}
	return area
}

// positionCache generates the boundary points of the half of this shape
// facing another shape, expressed in a frame where the line towards the other
// shape's center is the +x axis. Only 2*(resolution/4) + 1 points are
// produced, at most resolution/2 + 1; the far side of the shape cannot take
// part in a first contact.
func (s *Shape) positionCache(angleToOther float64) []Vec2 {
	res := s.Resolution()
	step := s.AngularStep()
	cache := make([]Vec2, 0, res/2+1)

	q := int(math.Round(angleToOther / step))
	for k := -res / 4; k <= res/4; k++ {
		j := q + k
		theta := math.Abs(float64(j)*step - angleToOther)
		r := s.GetPoint(j)
		cache = append(cache, Vec2{r * math.Cos(theta), r * math.Sin(theta)})
	}
	return cache
}

// positionCacheFull lists resolution + 1 boundary points over the entire
// boundary, with angles measured from the shape's own zero direction. Unlike
// positionCache it takes no direction towards another shape and does not
// rotate the frame.
func (s *Shape) positionCacheFull() []Vec2 {
	res := s.Resolution()
	step := s.AngularStep()
	cache := make([]Vec2, 0, res+1)

	for k := -res / 2; k <= res/2; k++ {
		theta := math.Abs(float64(k) * step)
		r := s.GetPoint(k)
		cache = append(cache, Vec2{r * math.Cos(theta), r * math.Sin(theta)})
	}
	return cache
}

// Vertices returns the boundary polygon of the shape placed at center with
// the given orientation. A flipped placement mirrors the traversal.
func (s *Shape) Vertices(center Vec2, angle float64, flipped bool) []Vec2 {
	res := s.Resolution()
	step := s.AngularStep()
	verts := make([]Vec2, res)
	for i := 0; i < res; i++ {
		theta := angle + float64(i)*step
		if flipped {
			theta = angle - float64(i)*step
		}
		r := s.RadialPoints[i]
		verts[i] = Vec2{center.X + r*math.Cos(theta), center.Y + r*math.Sin(theta)}
	}
	return verts
}

// WritePoints emits the x/y boundary points of the shape, one pair per line.
func (s *Shape) WritePoints(w io.Writer) error {
	step := s.AngularStep()
	for i, r := range s.RadialPoints {
		angle := step * float64(i)
		if _, err := fmt.Fprintf(w, "%.12f %.12f\n", r*math.Cos(angle), r*math.Sin(angle)); err != nil {
			return fmt.Errorf("writing shape points: %w", err)
		}
	}
	return nil
}
