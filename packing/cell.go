package packing

import "math"

// Cell is the parallelogram unit of the periodic tiling. It holds indices of
// its three basis parameters; all methods are pure functions of their
// current values. When the wallpaper group demands a = b, XLen and YLen are
// the same index.
type Cell struct {
	basis *Basis
	XLen  int
	YLen  int
	Angle int
}

// NewCell builds a cell view over the given arena indices.
func NewCell(basis *Basis, xLen, yLen, angle int) *Cell {
	return &Cell{basis: basis, XLen: xLen, YLen: yLen, Angle: angle}
}

// LengthX is the current length of the first cell vector.
func (c *Cell) LengthX() float64 { return c.basis.Value(c.XLen) }

// LengthY is the current length of the second cell vector.
func (c *Cell) LengthY() float64 { return c.basis.Value(c.YLen) }

// AngleValue is the current angle between the cell vectors.
func (c *Cell) AngleValue() float64 { return c.basis.Value(c.Angle) }

// Area is the parallelogram area spanned by the cell vectors.
func (c *Cell) Area() float64 {
	return c.LengthX() * c.LengthY() * math.Abs(math.Sin(c.AngleValue()))
}

// FractionalToReal converts fractional coordinates into real space.
func (c *Cell) FractionalToReal(f Vec2) Vec2 {
	angle := c.AngleValue()
	return Vec2{
		X: f.X*c.LengthX() + f.Y*c.LengthY()*math.Cos(angle),
		Y: f.Y * c.LengthY() * math.Sin(angle),
	}
}

// OccupiedSite assigns shape replicas to one Wyckoff site. The x, y and
// angle of the placement live in the basis arena; FlipSite mirrors every
// image of the site.
type OccupiedSite struct {
	basis   *Basis
	Wyckoff *WyckoffSite

	X     int
	Y     int
	Angle int

	FlipSite bool
}

// NewOccupiedSite builds a site view over the given arena indices.
func NewOccupiedSite(basis *Basis, wyckoff *WyckoffSite, x, y, angle int) *OccupiedSite {
	return &OccupiedSite{basis: basis, Wyckoff: wyckoff, X: x, Y: y, Angle: angle}
}

// Position is the site's free coordinates, before any symmetry transform.
func (s *OccupiedSite) Position() Vec2 {
	return Vec2{s.basis.Value(s.X), s.basis.Value(s.Y)}
}

// AngleValue is the orientation parameter of the site.
func (s *OccupiedSite) AngleValue() float64 { return s.basis.Value(s.Angle) }

// Multiplicity is the number of shape images the site generates.
func (s *OccupiedSite) Multiplicity() int { return s.Wyckoff.Multiplicity() }
