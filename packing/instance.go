package packing

import "math"

// ShapeInstance places one image of the shape: the occupied site supplies
// the free coordinates and orientation, the symmetry transform maps them to
// this particular image of the site's orbit. All three components are held
// by reference; an instance is a cheap view, not a copy.
type ShapeInstance struct {
	Shape     *Shape
	Site      *OccupiedSite
	Transform *SymmetryTransform
}

// Equal reports whether two instances are views of the same placement.
func (si ShapeInstance) Equal(other ShapeInstance) bool {
	return si.Shape == other.Shape && si.Site == other.Site && si.Transform == other.Transform
}

// FractionalCoords is the position of this image in fractional coordinates.
func (si ShapeInstance) FractionalCoords() Vec2 {
	return si.Transform.RealToFractional(si.Site.Position())
}

// RealCoords is the position of the underlying site.
func (si ShapeInstance) RealCoords() Vec2 {
	return si.Site.Position()
}

// Angle is the orientation parameter of the underlying site.
func (si ShapeInstance) Angle() float64 {
	return si.Site.AngleValue()
}

// RotationalOffset is the rotation this image applies relative to the other
// images of the same Wyckoff site.
func (si ShapeInstance) RotationalOffset() float64 {
	return si.Transform.RotationOffset
}

// Flipped reports whether the image is mirrored: either by the symmetry
// transform itself or by the site's flip state, but not both.
func (si ShapeInstance) Flipped() bool {
	return si.Transform.Flipped != si.Site.FlipSite
}

// Polygon returns the boundary polygon of this image placed at center in
// real space, with the orientation convention the incline computation uses:
// the site angle and rotation offset turn the boundary clockwise, and a
// flipped image reverses the traversal.
func (si ShapeInstance) Polygon(center Vec2) []Vec2 {
	theta := si.Angle()
	rho := si.RotationalOffset()
	if si.Flipped() {
		return si.Shape.Vertices(center, theta-rho, true)
	}
	return si.Shape.Vertices(center, -theta-rho, false)
}

// computeIncline finds the angle each shape's boundary parameterization
// assigns to the direction towards the other shape, accounting for flips,
// site orientations and image rotation offsets. The two angles are returned
// reduced into [0, 2pi).
func (si ShapeInstance) computeIncline(other ShapeInstance, positionOther Vec2) (float64, float64) {
	positionThis := si.RealCoords()
	centralDist := positionThis.Sub(positionOther).Norm()

	aToB := math.Acos((positionOther.X - positionThis.X) / centralDist)
	if math.IsNaN(aToB) {
		if isClose(positionOther.X-positionThis.X, centralDist, 1e-8) {
			aToB = 0
		} else if isClose(positionOther.X-positionThis.X, -centralDist, 1e-8) {
			aToB = math.Pi
		}
	}
	if positionOther.X < positionThis.X {
		aToB = 2*math.Pi - aToB
	}

	bToA := aToB + math.Pi

	// Mirrored shapes see the world with the angular direction reversed.
	if si.Flipped() {
		aToB = 2*math.Pi - aToB
	}
	if other.Flipped() {
		bToA = 2*math.Pi - bToA
	}

	// Rotation from the orientation parameters, unaffected by flip state.
	aToB += si.Angle()
	bToA += other.Angle()

	// Rotation of this image relative to the other images of its site.
	if si.Flipped() {
		aToB -= si.RotationalOffset()
	} else {
		aToB += si.RotationalOffset()
	}
	if other.Flipped() {
		bToA -= other.RotationalOffset()
	} else {
		bToA += other.RotationalOffset()
	}

	return PositiveModulo(aToB, 2*math.Pi), PositiveModulo(bToA, 2*math.Pi)
}

// IntersectsWith reports whether this instance overlaps other, with other
// placed at positionOther in real space. Both boundaries are walked in the
// shared frame established by the incline computation; any crossing of
// boundary segments is an overlap.
func (si ShapeInstance) IntersectsWith(other ShapeInstance, positionOther Vec2) bool {
	positionThis := si.RealCoords()
	centralDist := positionThis.Sub(positionOther).Norm()

	// No clash when further apart than the maximum radii sum.
	if centralDist > si.Shape.MaxRadius+other.Shape.MaxRadius {
		return false
	}

	inclineThis, inclineOther := si.computeIncline(other, positionOther)

	cacheA := si.Shape.positionCache(inclineThis)
	cacheB := other.Shape.positionCache(inclineOther)

	// The last element is the initial previous position, closing the
	// boundary regardless of how many points are checked.
	prevA := cacheA[len(cacheA)-1]
	prevB := cacheB[len(cacheB)-1]
	for _, pa := range cacheA {
		for _, pb := range cacheB {
			if SegmentsCross(prevA, pa, prevB, pb) {
				return true
			}
			prevA = pa
			prevB = pb
		}
	}
	return false
}

// CheckForIntersection tests a pair of instances across periodic images of
// the cell: a stays fixed while b visits every cell image within the shell
// depth. Shell depth is 1 except at extreme cell angles, where the nearest
// shell is not sufficient; the designator for extreme is pi/4. With cell
// angles constrained to [pi/4, 3pi/4] the second clause can never fire, but
// it is kept alongside the first.
func CheckForIntersection(a, b ShapeInstance, cell *Cell) bool {
	fcoordsB := b.FractionalCoords()

	shells := 1
	if cell.AngleValue() < math.Pi/4 {
		shells = 2
	} else if 2*math.Pi-cell.AngleValue() < math.Pi/4 {
		shells = 2
	}

	for imgX := -shells; imgX <= shells; imgX++ {
		for imgY := -shells; imgY <= shells; imgY++ {
			// Intersections with one's self are excluded.
			if a.Equal(b) && imgX == 0 && imgY == 0 {
				continue
			}
			realB := cell.FractionalToReal(Vec2{fcoordsB.X + float64(imgX), fcoordsB.Y + float64(imgY)})
			if a.IntersectsWith(b, realB) {
				return true
			}
		}
	}
	return false
}

// CheckStateForIntersection scans every distinct pair of occupied sites, and
// every pair of symmetry images, for an overlap. A site paired with itself
// covers its periodic self-images through the shell scan's skipping rule.
func CheckStateForIntersection(shape *Shape, sites []*OccupiedSite, cell *Cell) bool {
	for i, siteOne := range sites {
		for t1 := range siteOne.Wyckoff.Symmetries {
			shapeOne := ShapeInstance{Shape: shape, Site: siteOne, Transform: &siteOne.Wyckoff.Symmetries[t1]}
			for _, siteTwo := range sites[i:] {
				for t2 := range siteTwo.Wyckoff.Symmetries {
					shapeTwo := ShapeInstance{Shape: shape, Site: siteTwo, Transform: &siteTwo.Wyckoff.Symmetries[t2]}
					if CheckForIntersection(shapeOne, shapeTwo, cell) {
						return true
					}
				}
			}
		}
	}
	return false
}
