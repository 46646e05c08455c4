package packing

import (
	"image/color"
	"image/png"
	"io"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"github.com/tdewolff/canvas/renderers/svg"
)

// SiteColor pairs a fill and an outline for the images of one occupied site.
type SiteColor struct {
	Fill    color.RGBA
	Outline color.RGBA
}

// DefaultSiteColors returns distinct colors for up to four occupied sites;
// further sites cycle.
func DefaultSiteColors() []SiteColor {
	return []SiteColor{
		{Fill: color.RGBA{100, 149, 237, 180}, Outline: color.RGBA{0, 0, 139, 255}},  // cornflower / dark blue
		{Fill: color.RGBA{255, 99, 71, 150}, Outline: color.RGBA{139, 0, 0, 255}},    // tomato / dark red
		{Fill: color.RGBA{144, 238, 144, 150}, Outline: color.RGBA{0, 100, 0, 255}},  // light green / dark green
		{Fill: color.RGBA{255, 215, 0, 150}, Outline: color.RGBA{184, 134, 11, 255}}, // gold / dark goldenrod
	}
}

// Renderer draws a packed state: the shape images of a block of periodic
// cells, colored by occupied site, with the unit cell outlined.
type Renderer struct {
	State *PackedState

	// Shells is how many periodic images to draw around the home cell.
	Shells int
	// Padding is extra space around the drawing, in shape units.
	Padding float64
	// Resolution is the DPI used for PNG output.
	Resolution canvas.Resolution
	// Colors assigns a color per occupied site, cycling when exhausted.
	Colors []SiteColor
}

// NewRenderer creates a renderer with default settings.
func NewRenderer(state *PackedState) *Renderer {
	return &Renderer{
		State:      state,
		Shells:     1,
		Padding:    1.0,
		Resolution: canvas.DPI(150),
		Colors:     DefaultSiteColors(),
	}
}

// canvasRenderer is the part of the canvas API both the SVG and the raster
// renderer implement.
type canvasRenderer interface {
	RenderPath(path *canvas.Path, style canvas.Style, m canvas.Matrix)
}

// placedPolygon is one drawn shape image.
type placedPolygon struct {
	vertices  []Vec2
	siteIndex int
}

// polygons collects every shape polygon of the rendered block of cells.
func (r *Renderer) polygons() []placedPolygon {
	state := r.State
	shells := r.Shells
	if shells < 0 {
		shells = 0
	}

	var out []placedPolygon
	for siteIndex, site := range state.Sites {
		for t := range site.Wyckoff.Symmetries {
			instance := ShapeInstance{Shape: state.Shape, Site: site, Transform: &site.Wyckoff.Symmetries[t]}
			frac := instance.FractionalCoords()
			for dx := -shells; dx <= shells; dx++ {
				for dy := -shells; dy <= shells; dy++ {
					center := state.Cell.FractionalToReal(Vec2{frac.X + float64(dx), frac.Y + float64(dy)})
					out = append(out, placedPolygon{
						vertices:  instance.Polygon(center),
						siteIndex: siteIndex,
					})
				}
			}
		}
	}
	return out
}

// cellOutline is the home unit cell as a closed polygon.
func (r *Renderer) cellOutline() []Vec2 {
	cell := r.State.Cell
	return []Vec2{
		cell.FractionalToReal(Vec2{0, 0}),
		cell.FractionalToReal(Vec2{1, 0}),
		cell.FractionalToReal(Vec2{1, 1}),
		cell.FractionalToReal(Vec2{0, 1}),
	}
}

// bounds computes the world-space bounding box of everything drawn.
func (r *Renderer) bounds(polys []placedPolygon) (minX, minY, maxX, maxY float64) {
	first := true
	grow := func(p Vec2) {
		if first {
			minX, maxX, minY, maxY = p.X, p.X, p.Y, p.Y
			first = false
			return
		}
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	for _, poly := range polys {
		for _, v := range poly.vertices {
			grow(v)
		}
	}
	for _, v := range r.cellOutline() {
		grow(v)
	}
	return minX, minY, maxX, maxY
}

// RenderSVG writes the packing as an SVG to the provided writer.
func (r *Renderer) RenderSVG(w io.Writer) error {
	polys := r.polygons()
	minX, minY, maxX, maxY := r.bounds(polys)
	width := (maxX - minX) + 2*r.Padding
	height := (maxY - minY) + 2*r.Padding

	svgRenderer := svg.New(w, width, height, nil)
	r.renderToCanvas(svgRenderer, polys, minX, minY, width, height)
	return svgRenderer.Close()
}

// RenderPNG writes the packing as a rasterized PNG to the provided writer.
func (r *Renderer) RenderPNG(w io.Writer) error {
	polys := r.polygons()
	minX, minY, maxX, maxY := r.bounds(polys)
	width := (maxX - minX) + 2*r.Padding
	height := (maxY - minY) + 2*r.Padding

	rast := rasterizer.New(width, height, r.Resolution, canvas.DefaultColorSpace)
	r.renderToCanvas(rast, polys, minX, minY, width, height)
	return png.Encode(w, rast)
}

// renderToCanvas draws the shared scene for both output formats.
func (r *Renderer) renderToCanvas(renderer canvasRenderer, polys []placedPolygon, minX, minY, width, height float64) {
	bgStyle := canvas.DefaultStyle
	bgStyle.Fill = canvas.Paint{Color: canvas.White}
	renderer.RenderPath(canvas.Rectangle(width, height), bgStyle, canvas.Identity)

	toCanvas := func(p Vec2) (float64, float64) {
		return (p.X - minX) + r.Padding, (p.Y - minY) + r.Padding
	}

	buildPath := func(vertices []Vec2) *canvas.Path {
		path := &canvas.Path{}
		for i, v := range vertices {
			cx, cy := toCanvas(v)
			if i == 0 {
				path.MoveTo(cx, cy)
			} else {
				path.LineTo(cx, cy)
			}
		}
		path.Close()
		return path
	}

	for _, poly := range polys {
		siteColor := r.Colors[poly.siteIndex%len(r.Colors)]
		style := canvas.DefaultStyle
		style.Fill = canvas.Paint{Color: siteColor.Fill}
		style.Stroke = canvas.Paint{Color: siteColor.Outline}
		style.StrokeWidth = 0.02
		style.StrokeJoiner = canvas.RoundJoiner{}
		renderer.RenderPath(buildPath(poly.vertices), style, canvas.Identity)
	}

	cellStyle := canvas.DefaultStyle
	cellStyle.Fill = canvas.Paint{Color: canvas.Transparent}
	cellStyle.Stroke = canvas.Paint{Color: canvas.Black}
	cellStyle.StrokeWidth = 0.04
	cellStyle.Dashes = []float64{0.2, 0.2}
	renderer.RenderPath(buildPath(r.cellOutline()), cellStyle, canvas.Identity)
}
