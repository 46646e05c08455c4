package packing

import "math"

// The static catalogue of the 17 plane crystallographic groups.
//
// Every Wyckoff site lists one symmetry transform per image of its orbit.
// The affine coefficients act on fractional coordinates. The rotation offset
// paired with an affine part rotating positions counter-clockwise by w is
// 2pi-w, and the offset paired with a reflection across a line at angle psi
// is 2pi-2psi; the incline computation in the intersection test depends on
// exactly this coupling between the positional and orientational parts.
//
// Hexagonal groups are expressed in the 60-degree cell convention (the cell
// angle is fixed at pi/3): the 3-fold centres sit at (0,0), (1/3,1/3) and
// (2/3,2/3), and a rotation by 120 degrees acts as (x,y) -> (-x-y, x).

// rot builds an unflipped symmetry transform.
func rot(ax, bx, cx, ay, by, cy, offset float64) SymmetryTransform {
	return SymmetryTransform{
		XCoeffs:        Coeffs{ax, bx, cx},
		YCoeffs:        Coeffs{ay, by, cy},
		RotationOffset: offset,
	}
}

// ref builds a reflection (or glide) transform.
func ref(ax, bx, cx, ay, by, cy, offset float64) SymmetryTransform {
	t := rot(ax, bx, cx, ay, by, cy, offset)
	t.Flipped = true
	return t
}

func stampMirror(axis MirrorAxis, images []SymmetryTransform) []SymmetryTransform {
	for i := range images {
		images[i].SiteMirror = axis
	}
	return images
}

// pointSite is a Wyckoff site with no free coordinates.
func pointSite(letter string, rotations, mirrors int, axis MirrorAxis, images ...SymmetryTransform) WyckoffSite {
	return WyckoffSite{
		Letter:     letter,
		Rotations:  rotations,
		Mirrors:    mirrors,
		Symmetries: stampMirror(axis, images),
	}
}

// lineSite is a Wyckoff site with one free coordinate running along a mirror.
func lineSite(letter string, axis MirrorAxis, images ...SymmetryTransform) WyckoffSite {
	return WyckoffSite{
		Letter:      letter,
		Variability: true,
		Rotations:   1,
		Mirrors:     1,
		Symmetries:  stampMirror(axis, images),
	}
}

// generalSite is the general position of a group.
func generalSite(letter string, images ...SymmetryTransform) WyckoffSite {
	return WyckoffSite{
		Letter:      letter,
		Variability: true,
		Rotations:   1,
		Symmetries:  images,
	}
}

var groupCatalogue = []*WallpaperGroup{
	{
		Label:         "p1",
		NumSymmetries: 1,
		WyckoffSites: []WyckoffSite{
			generalSite("a", rot(1, 0, 0, 0, 1, 0, 0)),
		},
	},
	{
		Label:         "p2",
		NumSymmetries: 2,
		WyckoffSites: []WyckoffSite{
			pointSite("a", 2, 0, Mirror0, rot(0, 0, 0, 0, 0, 0, 0)),
			pointSite("b", 2, 0, Mirror0, rot(0, 0, 0, 0, 0, 0.5, 0)),
			pointSite("c", 2, 0, Mirror0, rot(0, 0, 0.5, 0, 0, 0, 0)),
			pointSite("d", 2, 0, Mirror0, rot(0, 0, 0.5, 0, 0, 0.5, 0)),
			generalSite("e",
				rot(1, 0, 0, 0, 1, 0, 0),
				rot(-1, 0, 0, 0, -1, 0, math.Pi)),
		},
	},
	{
		Label:         "pm",
		Rectangular:   true,
		NumSymmetries: 2,
		WyckoffSites: []WyckoffSite{
			lineSite("a", Mirror90, rot(0, 0, 0, 0, 1, 0, 0)),
			lineSite("b", Mirror90, rot(0, 0, 0.5, 0, 1, 0, 0)),
			generalSite("c",
				rot(1, 0, 0, 0, 1, 0, 0),
				ref(-1, 0, 0, 0, 1, 0, math.Pi)),
		},
	},
	{
		Label:         "pg",
		Rectangular:   true,
		NumSymmetries: 2,
		WyckoffSites: []WyckoffSite{
			generalSite("a",
				rot(1, 0, 0, 0, 1, 0, 0),
				ref(-1, 0, 0, 0, 1, 0.5, math.Pi)),
		},
	},
	{
		Label:         "cm",
		Rectangular:   true,
		NumSymmetries: 4,
		WyckoffSites: []WyckoffSite{
			lineSite("a", Mirror90,
				rot(0, 0, 0, 0, 1, 0, 0),
				rot(0, 0, 0.5, 0, 1, 0.5, 0)),
			generalSite("b",
				rot(1, 0, 0, 0, 1, 0, 0),
				ref(-1, 0, 0, 0, 1, 0, math.Pi),
				rot(1, 0, 0.5, 0, 1, 0.5, 0),
				ref(-1, 0, 0.5, 0, 1, 0.5, math.Pi)),
		},
	},
	{
		Label:         "pmm",
		Rectangular:   true,
		NumSymmetries: 4,
		WyckoffSites: []WyckoffSite{
			pointSite("a", 2, 2, Mirror0, rot(0, 0, 0, 0, 0, 0, 0)),
			pointSite("b", 2, 2, Mirror0, rot(0, 0, 0, 0, 0, 0.5, 0)),
			pointSite("c", 2, 2, Mirror0, rot(0, 0, 0.5, 0, 0, 0, 0)),
			pointSite("d", 2, 2, Mirror0, rot(0, 0, 0.5, 0, 0, 0.5, 0)),
			lineSite("e", Mirror0,
				rot(1, 0, 0, 0, 0, 0, 0),
				rot(-1, 0, 0, 0, 0, 0, math.Pi)),
			lineSite("f", Mirror0,
				rot(1, 0, 0, 0, 0, 0.5, 0),
				rot(-1, 0, 0, 0, 0, -0.5, math.Pi)),
			lineSite("g", Mirror90,
				rot(0, 0, 0, 0, 1, 0, 0),
				rot(0, 0, 0, 0, -1, 0, math.Pi)),
			lineSite("h", Mirror90,
				rot(0, 0, 0.5, 0, 1, 0, 0),
				rot(0, 0, -0.5, 0, -1, 0, math.Pi)),
			generalSite("i",
				rot(1, 0, 0, 0, 1, 0, 0),
				rot(-1, 0, 0, 0, -1, 0, math.Pi),
				ref(-1, 0, 0, 0, 1, 0, math.Pi),
				ref(1, 0, 0, 0, -1, 0, 0)),
		},
	},
	{
		Label:         "pmg",
		Rectangular:   true,
		NumSymmetries: 4,
		WyckoffSites: []WyckoffSite{
			pointSite("a", 2, 0, Mirror0,
				rot(0, 0, 0, 0, 0, 0, 0),
				ref(0, 0, 0.5, 0, 0, 0, 0)),
			pointSite("b", 2, 0, Mirror0,
				rot(0, 0, 0, 0, 0, 0.5, 0),
				ref(0, 0, 0.5, 0, 0, 0.5, 0)),
			lineSite("c", Mirror90,
				rot(0, 0, 0.25, 0, 1, 0, 0),
				rot(0, 0, -0.25, 0, -1, 0, math.Pi)),
			generalSite("d",
				rot(1, 0, 0, 0, 1, 0, 0),
				rot(-1, 0, 0, 0, -1, 0, math.Pi),
				ref(-1, 0, 0.5, 0, 1, 0, math.Pi),
				ref(1, 0, 0.5, 0, -1, 0, 0)),
		},
	},
	{
		Label:         "pgg",
		Rectangular:   true,
		NumSymmetries: 4,
		WyckoffSites: []WyckoffSite{
			pointSite("a", 2, 0, Mirror0,
				rot(0, 0, 0, 0, 0, 0, 0),
				ref(0, 0, 0.5, 0, 0, 0.5, 0)),
			pointSite("b", 2, 0, Mirror0,
				rot(0, 0, 0, 0, 0, 0.5, 0),
				ref(0, 0, 0.5, 0, 0, 0, 0)),
			generalSite("c",
				rot(1, 0, 0, 0, 1, 0, 0),
				rot(-1, 0, 0, 0, -1, 0, math.Pi),
				ref(1, 0, 0.5, 0, -1, 0.5, 0),
				ref(-1, 0, 0.5, 0, 1, 0.5, math.Pi)),
		},
	},
	{
		Label:         "cmm",
		Rectangular:   true,
		NumSymmetries: 8,
		WyckoffSites: []WyckoffSite{
			pointSite("a", 2, 2, Mirror0,
				rot(0, 0, 0, 0, 0, 0, 0),
				rot(0, 0, 0.5, 0, 0, 0.5, 0)),
			pointSite("b", 2, 2, Mirror0,
				rot(0, 0, 0, 0, 0, 0.5, 0),
				rot(0, 0, 0.5, 0, 0, 0, 0)),
			pointSite("c", 2, 0, Mirror0,
				rot(0, 0, 0.25, 0, 0, 0.25, 0),
				rot(0, 0, 0.75, 0, 0, 0.75, math.Pi),
				ref(0, 0, 0.75, 0, 0, 0.25, math.Pi),
				ref(0, 0, 0.25, 0, 0, 0.75, 0)),
			lineSite("d", Mirror0,
				rot(1, 0, 0, 0, 0, 0, 0),
				rot(-1, 0, 0, 0, 0, 0, math.Pi),
				rot(1, 0, 0.5, 0, 0, 0.5, 0),
				rot(-1, 0, 0.5, 0, 0, 0.5, math.Pi)),
			lineSite("e", Mirror90,
				rot(0, 0, 0, 0, 1, 0, 0),
				rot(0, 0, 0, 0, -1, 0, math.Pi),
				rot(0, 0, 0.5, 0, 1, 0.5, 0),
				rot(0, 0, 0.5, 0, -1, 0.5, math.Pi)),
			generalSite("f",
				rot(1, 0, 0, 0, 1, 0, 0),
				rot(-1, 0, 0, 0, -1, 0, math.Pi),
				ref(-1, 0, 0, 0, 1, 0, math.Pi),
				ref(1, 0, 0, 0, -1, 0, 0),
				rot(1, 0, 0.5, 0, 1, 0.5, 0),
				rot(-1, 0, 0.5, 0, -1, 0.5, math.Pi),
				ref(-1, 0, 0.5, 0, 1, 0.5, math.Pi),
				ref(1, 0, 0.5, 0, -1, 0.5, 0)),
		},
	},
	{
		Label:         "p4",
		Rectangular:   true,
		ABEqual:       true,
		NumSymmetries: 4,
		WyckoffSites: []WyckoffSite{
			pointSite("a", 4, 0, Mirror0, rot(0, 0, 0, 0, 0, 0, 0)),
			pointSite("b", 4, 0, Mirror0, rot(0, 0, 0.5, 0, 0, 0.5, 0)),
			pointSite("c", 2, 0, Mirror0,
				rot(0, 0, 0, 0, 0, 0.5, 0),
				rot(0, 0, 0.5, 0, 0, 0, 3*math.Pi/2)),
			generalSite("d",
				rot(1, 0, 0, 0, 1, 0, 0),
				rot(-1, 0, 0, 0, -1, 0, math.Pi),
				rot(0, -1, 0, 1, 0, 0, 3*math.Pi/2),
				rot(0, 1, 0, -1, 0, 0, math.Pi/2)),
		},
	},
	{
		Label:         "p4mm",
		Rectangular:   true,
		ABEqual:       true,
		NumSymmetries: 8,
		WyckoffSites: []WyckoffSite{
			pointSite("a", 4, 4, Mirror0, rot(0, 0, 0, 0, 0, 0, 0)),
			pointSite("b", 4, 4, Mirror0, rot(0, 0, 0.5, 0, 0, 0.5, 0)),
			pointSite("c", 2, 2, Mirror0,
				rot(0, 0, 0.5, 0, 0, 0, 0),
				rot(0, 0, 0, 0, 0, 0.5, 3*math.Pi/2)),
			lineSite("d", Mirror45,
				rot(1, 0, 0, 1, 0, 0, 0),
				rot(-1, 0, 0, 1, 0, 0, 3*math.Pi/2),
				rot(-1, 0, 0, -1, 0, 0, math.Pi),
				rot(1, 0, 0, -1, 0, 0, math.Pi/2)),
			lineSite("e", Mirror0,
				rot(1, 0, 0, 0, 0, 0, 0),
				rot(0, 0, 0, 1, 0, 0, 3*math.Pi/2),
				rot(-1, 0, 0, 0, 0, 0, math.Pi),
				rot(0, 0, 0, -1, 0, 0, math.Pi/2)),
			lineSite("f", Mirror0,
				rot(1, 0, 0, 0, 0, 0.5, 0),
				rot(0, 0, -0.5, 1, 0, 0, 3*math.Pi/2),
				rot(-1, 0, 0, 0, 0, -0.5, math.Pi),
				rot(0, 0, 0.5, -1, 0, 0, math.Pi/2)),
			generalSite("g",
				rot(1, 0, 0, 0, 1, 0, 0),
				rot(-1, 0, 0, 0, -1, 0, math.Pi),
				rot(0, -1, 0, 1, 0, 0, 3*math.Pi/2),
				rot(0, 1, 0, -1, 0, 0, math.Pi/2),
				ref(1, 0, 0, 0, -1, 0, 0),
				ref(-1, 0, 0, 0, 1, 0, math.Pi),
				ref(0, 1, 0, 1, 0, 0, 3*math.Pi/2),
				ref(0, -1, 0, -1, 0, 0, math.Pi/2)),
		},
	},
	{
		Label:         "p4gm",
		Rectangular:   true,
		ABEqual:       true,
		NumSymmetries: 8,
		WyckoffSites: []WyckoffSite{
			pointSite("a", 4, 0, Mirror0,
				rot(0, 0, 0, 0, 0, 0, 0),
				ref(0, 0, 0.5, 0, 0, 0.5, math.Pi)),
			pointSite("b", 2, 2, Mirror45,
				rot(0, 0, 0.5, 0, 0, 0, 0),
				rot(0, 0, 0, 0, 0, 0.5, 3*math.Pi/2)),
			lineSite("c", Mirror45,
				rot(1, 0, 0, 1, 0, 0.5, 0),
				rot(-1, 0, -0.5, 1, 0, 0, 3*math.Pi/2),
				rot(-1, 0, 0, -1, 0, -0.5, math.Pi),
				rot(1, 0, 0.5, -1, 0, 0, math.Pi/2)),
			generalSite("d",
				rot(1, 0, 0, 0, 1, 0, 0),
				rot(-1, 0, 0, 0, -1, 0, math.Pi),
				rot(0, -1, 0, 1, 0, 0, 3*math.Pi/2),
				rot(0, 1, 0, -1, 0, 0, math.Pi/2),
				ref(1, 0, 0.5, 0, -1, 0.5, 0),
				ref(-1, 0, 0.5, 0, 1, 0.5, math.Pi),
				ref(0, 1, 0.5, 1, 0, 0.5, 3*math.Pi/2),
				ref(0, -1, 0.5, -1, 0, 0.5, math.Pi/2)),
		},
	},
	{
		Label:         "p3",
		Hexagonal:     true,
		ABEqual:       true,
		NumSymmetries: 3,
		WyckoffSites: []WyckoffSite{
			pointSite("a", 3, 0, Mirror0, rot(0, 0, 0, 0, 0, 0, 0)),
			pointSite("b", 3, 0, Mirror0, rot(0, 0, 1.0/3, 0, 0, 1.0/3, 0)),
			pointSite("c", 3, 0, Mirror0, rot(0, 0, 2.0/3, 0, 0, 2.0/3, 0)),
			generalSite("d",
				rot(1, 0, 0, 0, 1, 0, 0),
				rot(-1, -1, 0, 1, 0, 0, 4*math.Pi/3),
				rot(0, 1, 0, -1, -1, 0, 2*math.Pi/3)),
		},
	},
	{
		Label:         "p3m1",
		Hexagonal:     true,
		ABEqual:       true,
		NumSymmetries: 6,
		WyckoffSites: []WyckoffSite{
			pointSite("a", 3, 3, Mirror30, rot(0, 0, 0, 0, 0, 0, 0)),
			pointSite("b", 3, 3, Mirror30, rot(0, 0, 1.0/3, 0, 0, 1.0/3, 0)),
			pointSite("c", 3, 3, Mirror30, rot(0, 0, 2.0/3, 0, 0, 2.0/3, 0)),
			lineSite("d", Mirror30,
				rot(1, 0, 0, 1, 0, 0, 0),
				rot(-2, 0, 0, 1, 0, 0, 4*math.Pi/3),
				rot(1, 0, 0, -2, 0, 0, 2*math.Pi/3)),
			generalSite("e",
				rot(1, 0, 0, 0, 1, 0, 0),
				rot(-1, -1, 0, 1, 0, 0, 4*math.Pi/3),
				rot(0, 1, 0, -1, -1, 0, 2*math.Pi/3),
				ref(0, 1, 0, 1, 0, 0, 5*math.Pi/3),
				ref(-1, -1, 0, 0, 1, 0, math.Pi),
				ref(1, 0, 0, -1, -1, 0, math.Pi/3)),
		},
	},
	{
		Label:         "p31m",
		Hexagonal:     true,
		ABEqual:       true,
		NumSymmetries: 6,
		WyckoffSites: []WyckoffSite{
			pointSite("a", 3, 3, Mirror0, rot(0, 0, 0, 0, 0, 0, 0)),
			pointSite("b", 3, 0, Mirror0,
				rot(0, 0, 1.0/3, 0, 0, 1.0/3, 0),
				ref(0, 0, 2.0/3, 0, 0, 2.0/3, 0)),
			lineSite("c", Mirror0,
				rot(1, 0, 0, 0, 0, 0, 0),
				rot(-1, 0, 0, 1, 0, 0, 4*math.Pi/3),
				rot(0, 0, 0, -1, 0, 0, 2*math.Pi/3)),
			generalSite("d",
				rot(1, 0, 0, 0, 1, 0, 0),
				rot(-1, -1, 0, 1, 0, 0, 4*math.Pi/3),
				rot(0, 1, 0, -1, -1, 0, 2*math.Pi/3),
				ref(1, 1, 0, 0, -1, 0, 0),
				ref(-1, 0, 0, 1, 1, 0, 4*math.Pi/3),
				ref(0, -1, 0, -1, 0, 0, 2*math.Pi/3)),
		},
	},
	{
		Label:         "p6",
		Hexagonal:     true,
		ABEqual:       true,
		NumSymmetries: 6,
		WyckoffSites: []WyckoffSite{
			pointSite("a", 6, 0, Mirror0, rot(0, 0, 0, 0, 0, 0, 0)),
			pointSite("b", 3, 0, Mirror0,
				rot(0, 0, 1.0/3, 0, 0, 1.0/3, 0),
				rot(0, 0, 2.0/3, 0, 0, 2.0/3, math.Pi)),
			pointSite("c", 2, 0, Mirror0,
				rot(0, 0, 0.5, 0, 0, 0, 0),
				rot(0, 0, 0, 0, 0, 0.5, 5*math.Pi/3),
				rot(0, 0, 0.5, 0, 0, 0.5, 4*math.Pi/3)),
			generalSite("d",
				rot(1, 0, 0, 0, 1, 0, 0),
				rot(0, -1, 0, 1, 1, 0, 5*math.Pi/3),
				rot(-1, -1, 0, 1, 0, 0, 4*math.Pi/3),
				rot(-1, 0, 0, 0, -1, 0, math.Pi),
				rot(0, 1, 0, -1, -1, 0, 2*math.Pi/3),
				rot(1, 1, 0, -1, 0, 0, math.Pi/3)),
		},
	},
	{
		Label:         "p6mm",
		Hexagonal:     true,
		ABEqual:       true,
		NumSymmetries: 12,
		WyckoffSites: []WyckoffSite{
			pointSite("a", 6, 6, Mirror0, rot(0, 0, 0, 0, 0, 0, 0)),
			pointSite("b", 3, 3, Mirror30,
				rot(0, 0, 1.0/3, 0, 0, 1.0/3, 0),
				rot(0, 0, 2.0/3, 0, 0, 2.0/3, math.Pi)),
			pointSite("c", 2, 2, Mirror0,
				rot(0, 0, 0.5, 0, 0, 0, 0),
				rot(0, 0, 0, 0, 0, 0.5, 5*math.Pi/3),
				rot(0, 0, 0.5, 0, 0, 0.5, 4*math.Pi/3)),
			lineSite("d", Mirror0,
				rot(1, 0, 0, 0, 0, 0, 0),
				rot(0, 0, 0, 1, 0, 0, 5*math.Pi/3),
				rot(-1, 0, 0, 1, 0, 0, 4*math.Pi/3),
				rot(-1, 0, 0, 0, 0, 0, math.Pi),
				rot(0, 0, 0, -1, 0, 0, 2*math.Pi/3),
				rot(1, 0, 0, -1, 0, 0, math.Pi/3)),
			lineSite("e", Mirror30,
				rot(1, 0, 0, 1, 0, 0, 0),
				rot(-1, 0, 0, 2, 0, 0, 5*math.Pi/3),
				rot(-2, 0, 0, 1, 0, 0, 4*math.Pi/3),
				rot(-1, 0, 0, -1, 0, 0, math.Pi),
				rot(1, 0, 0, -2, 0, 0, 2*math.Pi/3),
				rot(2, 0, 0, -1, 0, 0, math.Pi/3)),
			generalSite("f",
				rot(1, 0, 0, 0, 1, 0, 0),
				rot(0, -1, 0, 1, 1, 0, 5*math.Pi/3),
				rot(-1, -1, 0, 1, 0, 0, 4*math.Pi/3),
				rot(-1, 0, 0, 0, -1, 0, math.Pi),
				rot(0, 1, 0, -1, -1, 0, 2*math.Pi/3),
				rot(1, 1, 0, -1, 0, 0, math.Pi/3),
				ref(1, 1, 0, 0, -1, 0, 0),
				ref(0, 1, 0, 1, 0, 0, 5*math.Pi/3),
				ref(-1, 0, 0, 1, 1, 0, 4*math.Pi/3),
				ref(-1, -1, 0, 0, 1, 0, math.Pi),
				ref(0, -1, 0, -1, 0, 0, 2*math.Pi/3),
				ref(1, 0, 0, -1, -1, 0, math.Pi/3)),
		},
	},
}

// groupAliases maps the short crystallographic labels onto the full ones.
var groupAliases = map[string]string{
	"p4m": "p4mm",
	"p4g": "p4gm",
	"p3m": "p3m1",
	"p6m": "p6mm",
}

// Groups returns the full catalogue in the conventional plane-group order,
// p1 through p6mm.
func Groups() []*WallpaperGroup {
	return groupCatalogue
}

// GroupByLabel resolves a wallpaper group by its label or a common alias.
func GroupByLabel(label string) (*WallpaperGroup, bool) {
	if full, ok := groupAliases[label]; ok {
		label = full
	}
	for _, g := range groupCatalogue {
		if g.Label == label {
			return g, true
		}
	}
	return nil, false
}
