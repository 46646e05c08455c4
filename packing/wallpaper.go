package packing

// MirrorAxis enumerates the orientations a Wyckoff site's mirror line can
// take, in degrees from the x axis of the cell.
type MirrorAxis int

const (
	Mirror0   MirrorAxis = 0
	Mirror30  MirrorAxis = 30
	Mirror45  MirrorAxis = 45
	Mirror60  MirrorAxis = 60
	Mirror90  MirrorAxis = 90
	Mirror135 MirrorAxis = 135
	Mirror300 MirrorAxis = 300
	Mirror330 MirrorAxis = 330
)

// Coeffs are the coefficients of one row of an affine map on fractional
// coordinates: out = A*x + B*y + C.
type Coeffs struct {
	A float64
	B float64
	C float64
}

func (c Coeffs) apply(x, y float64) float64 { return c.A*x + c.B*y + c.C }

// SymmetryTransform is one affine image belonging to a Wyckoff site's orbit.
// RotationOffset is the rotation the operation applies to an oriented shape,
// Flipped marks reflections, and SiteMirror is the orientation of the mirror
// line through the image for sites that lie on one.
type SymmetryTransform struct {
	XCoeffs        Coeffs
	YCoeffs        Coeffs
	RotationOffset float64
	Flipped        bool
	SiteMirror     MirrorAxis
}

// RealToFractional maps the site variables through the affine coefficients
// and reduces both components into [0, 1).
func (t *SymmetryTransform) RealToFractional(v Vec2) Vec2 {
	out := Vec2{t.XCoeffs.apply(v.X, v.Y), t.YCoeffs.apply(v.X, v.Y)}
	return positiveModuloVec(out, 1)
}

// WyckoffSite is an equivalence class of positions in a wallpaper group.
// Variability marks sites with at least one free coordinate; Rotations and
// Mirrors describe the site's own point symmetry.
type WyckoffSite struct {
	Letter      string
	Variability bool
	Rotations   int
	Mirrors     int
	Symmetries  []SymmetryTransform
}

// Multiplicity is the number of images in the site's orbit.
func (w *WyckoffSite) Multiplicity() int { return len(w.Symmetries) }

// VaryX reports whether the x coordinate of the site is a free parameter.
// If the first symmetry can vary x, all of them can.
func (w *WyckoffSite) VaryX() bool {
	return abs(w.Symmetries[0].XCoeffs.A) > 0.1
}

// VaryY reports whether the y coordinate of the site is a free parameter.
func (w *WyckoffSite) VaryY() bool {
	return abs(w.Symmetries[0].YCoeffs.B) > 0.1
}

// MirrorType is the orientation of the mirror line through the site.
func (w *WyckoffSite) MirrorType() MirrorAxis {
	return w.Symmetries[0].SiteMirror
}

// Equal compares sites structurally: letter, variability, point symmetry and
// the full symmetry list.
func (w *WyckoffSite) Equal(other *WyckoffSite) bool {
	if w.Letter != other.Letter || w.Variability != other.Variability ||
		w.Rotations != other.Rotations || w.Mirrors != other.Mirrors ||
		len(w.Symmetries) != len(other.Symmetries) {
		return false
	}
	for i := range w.Symmetries {
		if w.Symmetries[i] != other.Symmetries[i] {
			return false
		}
	}
	return true
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// WallpaperGroup is one of the 17 plane crystallographic groups. The flags
// constrain the unit cell: a hexagonal group fixes the cell angle to pi/3, a
// rectangular one to pi/2, and ABEqual shares a single length parameter
// between both cell sides.
type WallpaperGroup struct {
	Label         string
	WyckoffSites  []WyckoffSite
	ABEqual       bool
	Rectangular   bool
	Hexagonal     bool
	NumSymmetries int
}
