package packing

import (
	"log"
	"strings"
)

// IsopointalGroup is a multiset of Wyckoff sites to be occupied, admissible
// under the shape's own symmetries. The site order is the canonical order of
// the enumeration.
type IsopointalGroup struct {
	WyckoffSites []*WyckoffSite
}

// Multiplicity is the total number of shape images the group generates.
func (g *IsopointalGroup) Multiplicity() int {
	var total int
	for _, site := range g.WyckoffSites {
		total += site.Multiplicity()
	}
	return total
}

// String concatenates the site letters, e.g. "aad".
func (g *IsopointalGroup) String() string {
	var b strings.Builder
	for _, site := range g.WyckoffSites {
		b.WriteString(site.Letter)
	}
	return b.String()
}

// admissible reports whether the shape's own symmetries allow it to occupy
// the Wyckoff site: the shape's rotation order must be a multiple of the
// site's, and a mirror site needs a shape with a compatible mirror count.
func admissible(shape *Shape, site *WyckoffSite) bool {
	if site.Rotations == 0 || shape.RotationalSymmetries%site.Rotations != 0 {
		return false
	}
	if site.Mirrors == 0 {
		return true
	}
	return shape.Mirrors != 0 && shape.Mirrors%site.Mirrors == 0
}

// GenerateIsopointalGroups enumerates every admissible assignment of
// numOccupiedSites occupied sites to the Wyckoff sites of the group.
// Variable sites may be occupied more than once, so they enter the candidate
// pool with replacement; the resulting combinations are deduplicated as
// multisets. An empty result is a valid outcome, not an error.
func GenerateIsopointalGroups(shape *Shape, group *WallpaperGroup, numOccupiedSites int) []*IsopointalGroup {
	var pool []*WyckoffSite
	for i := range group.WyckoffSites {
		site := &group.WyckoffSites[i]
		if !admissible(shape, site) {
			log.Printf("[ISO] %s: site %s lacks the symmetry required by shape %s", group.Label, site.Letter, shape.Name)
			continue
		}
		if site.Variability {
			for n := 0; n < numOccupiedSites; n++ {
				pool = append(pool, site)
			}
		} else {
			pool = append(pool, site)
		}
	}

	combos := combinations(pool, numOccupiedSites)

	seen := make(map[string]bool, len(combos))
	var groups []*IsopointalGroup
	for _, combo := range combos {
		g := &IsopointalGroup{WyckoffSites: combo}
		key := g.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		groups = append(groups, g)
	}
	log.Printf("[ISO] %s: %d isopointal groups for %d occupied sites", group.Label, len(groups), numOccupiedSites)
	return groups
}

// combinations enumerates all k-element combinations of pool, preserving
// pool order within each combination.
func combinations(pool []*WyckoffSite, k int) [][]*WyckoffSite {
	if k <= 0 || k > len(pool) {
		return nil
	}
	var out [][]*WyckoffSite
	combo := make([]*WyckoffSite, 0, k)

	var recurse func(start int)
	recurse = func(start int) {
		if len(combo) == k {
			out = append(out, append([]*WyckoffSite(nil), combo...))
			return
		}
		// Not enough elements left to fill the combination.
		for i := start; i <= len(pool)-(k-len(combo)); i++ {
			combo = append(combo, pool[i])
			recurse(i + 1)
			combo = combo[:len(combo)-1]
		}
	}
	recurse(0)
	return out
}
