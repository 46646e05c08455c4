package packing

import "math"

// Vec2 is a 2D vector. It is used for both real-space and fractional
// coordinates; which one is meant is determined by context.
type Vec2 struct {
	X float64
	Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Mul returns the componentwise product of v and o.
func (v Vec2) Mul(o Vec2) Vec2 { return Vec2{v.X * o.X, v.Y * o.Y} }

// Scale returns v scaled by s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// NormSq returns the squared Euclidean norm of v.
func (v Vec2) NormSq() float64 { return v.X*v.X + v.Y*v.Y }

// Norm returns the Euclidean norm of v.
func (v Vec2) Norm() float64 { return math.Sqrt(v.NormSq()) }

// PositiveModulo reduces x into [0, n) for positive n, with a result that is
// non-negative even for negative x.
func PositiveModulo(x, n float64) float64 {
	return math.Mod(math.Mod(x, n)+n, n)
}

// PositiveModuloInt is the integer counterpart of PositiveModulo.
func PositiveModuloInt(i, n int) int {
	return ((i % n) + n) % n
}

// positiveModuloVec reduces both components of v into [0, n).
func positiveModuloVec(v Vec2, n float64) Vec2 {
	return Vec2{PositiveModulo(v.X, n), PositiveModulo(v.Y, n)}
}

// Sign returns -1, 0 or +1 according to the sign of x.
func Sign(x float64) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

// closeAbsFloor guards the relative-tolerance comparison against an expected
// value of zero, where a purely relative test degenerates to "never close".
const closeAbsFloor = 1e-12

// isClose reports whether value is within relTol of expected, relative to the
// magnitude of expected, with an absolute floor for expected values near zero.
func isClose(value, expected, relTol float64) bool {
	tol := relTol * math.Abs(expected)
	if tol < closeAbsFloor {
		tol = closeAbsFloor
	}
	return math.Abs(value-expected) < tol
}

// tripletOrientation returns the orientation of the ordered point triplet
// (a, b, c): 0 when collinear, +1 clockwise, -1 counter-clockwise.
func tripletOrientation(a, b, c Vec2) int {
	return Sign((b.Y-a.Y)*(c.X-b.X) - (b.X-a.X)*(c.Y-b.Y))
}

// onSegment reports whether the point b, known to be collinear with a and c,
// lies within the bounding box of the segment ac.
func onSegment(a, b, c Vec2) bool {
	return b.X <= math.Max(a.X, c.X) && b.X >= math.Min(a.X, c.X) &&
		b.Y <= math.Max(a.Y, c.Y) && b.Y >= math.Min(a.Y, c.Y)
}

// SegmentsCross reports whether the segment A1B1 crosses the segment A2B2.
// Touching endpoints and collinear overlaps count as crossings.
func SegmentsCross(a1, b1, a2, b2 Vec2) bool {
	o1 := tripletOrientation(a1, b1, a2)
	o2 := tripletOrientation(a1, b1, b2)
	o3 := tripletOrientation(a2, b2, a1)
	o4 := tripletOrientation(a2, b2, b1)

	if o1 != o2 && o3 != o4 {
		return true
	}

	// Collinear special cases: the third point lies within the opposite
	// segment's bounding box.
	if o1 == 0 && onSegment(a1, a2, b1) {
		return true
	}
	if o2 == 0 && onSegment(a1, b2, b1) {
		return true
	}
	if o3 == 0 && onSegment(a2, a1, b2) {
		return true
	}
	if o4 == 0 && onSegment(a2, b1, b2) {
		return true
	}
	return false
}
