package packing

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// orbRing converts a closed polygon to an orb.Ring, repeating the first
// vertex to close the ring as GeoJSON requires.
func orbRing(vertices []Vec2) orb.Ring {
	ring := make(orb.Ring, 0, len(vertices)+1)
	for _, v := range vertices {
		ring = append(ring, orb.Point{v.X, v.Y})
	}
	if len(vertices) > 0 {
		ring = append(ring, orb.Point{vertices[0].X, vertices[0].Y})
	}
	return ring
}

// ExportGeoJSON writes the packed state as a GeoJSON FeatureCollection: one
// Polygon feature per shape image of the rendered block of cells, plus the
// home cell outline as a LineString. Coordinates are in shape units, not
// geographic ones; the format is reused purely for its tooling.
func ExportGeoJSON(state *PackedState, shells int, w io.Writer) error {
	fc := geojson.NewFeatureCollection()

	renderer := NewRenderer(state)
	renderer.Shells = shells
	for _, placed := range renderer.polygons() {
		ring := orbRing(placed.vertices)
		if !ring.Closed() || len(ring) < 4 {
			continue
		}
		poly := orb.Polygon{ring}
		feature := geojson.NewFeature(poly)
		site := state.Sites[placed.siteIndex]
		feature.Properties = geojson.Properties{
			"site":    placed.siteIndex,
			"wyckoff": site.Wyckoff.Letter,
			"angle":   site.AngleValue(),
			"flip":    site.FlipSite,
			"area":    planar.Area(poly),
		}
		fc.Append(feature)
	}

	outline := renderer.cellOutline()
	cellLine := make(orb.LineString, 0, len(outline)+1)
	for _, v := range outline {
		cellLine = append(cellLine, orb.Point{v.X, v.Y})
	}
	cellLine = append(cellLine, orb.Point{outline[0].X, outline[0].Y})
	cellFeature := geojson.NewFeature(cellLine)
	fraction, err := state.PackingFraction()
	if err != nil {
		return err
	}
	cellFeature.Properties = geojson.Properties{
		"cell":    true,
		"group":   state.Group.Label,
		"packing": fraction,
	}
	fc.Append(cellFeature)

	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling GeoJSON: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing GeoJSON: %w", err)
	}
	return nil
}
