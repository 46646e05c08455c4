package packing

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// RasterPreview draws a quick annotated PNG of a packed state: polygon
// outlines plotted pixel by pixel with a text banner carrying the group
// label and packing fraction. The vector renderer produces the publication
// output; this is the cheap diagnostic view.
type RasterPreview struct {
	State *PackedState

	// Width is the output image width in pixels; height follows the aspect
	// ratio of the drawn block.
	Width int
}

// NewRasterPreview creates a preview with default settings.
func NewRasterPreview(state *PackedState) *RasterPreview {
	return &RasterPreview{State: state, Width: 800}
}

// WritePNG renders the preview to w.
func (rp *RasterPreview) WritePNG(w io.Writer) error {
	renderer := NewRenderer(rp.State)
	polys := renderer.polygons()
	minX, minY, maxX, maxY := renderer.bounds(polys)

	worldW := maxX - minX
	worldH := maxY - minY
	if worldW <= 0 || worldH <= 0 {
		return fmt.Errorf("raster preview: degenerate bounds")
	}

	width := rp.Width
	if width < 100 {
		width = 100
	}
	const banner = 20
	scale := float64(width) / worldW
	height := int(math.Ceil(worldH*scale)) + banner

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for py := 0; py < height; py++ {
		for px := 0; px < width; px++ {
			img.Set(px, py, color.White)
		}
	}

	toPixel := func(p Vec2) (int, int) {
		x := int((p.X - minX) * scale)
		// Flip y so the cell appears with +y upwards.
		y := banner + int((maxY-p.Y)*scale)
		return x, y
	}

	colors := DefaultSiteColors()
	for _, poly := range polys {
		outline := colors[poly.siteIndex%len(colors)].Outline
		n := len(poly.vertices)
		for i := 0; i < n; i++ {
			x0, y0 := toPixel(poly.vertices[i])
			x1, y1 := toPixel(poly.vertices[(i+1)%n])
			drawLine(img, x0, y0, x1, y1, outline)
		}
	}

	fraction, err := rp.State.PackingFraction()
	if err != nil {
		return err
	}
	label := fmt.Sprintf("%s %s packing %.4f", rp.State.Shape.Name, rp.State.Group.Label, fraction)
	drawText(img, 4, 14, label, color.RGBA{0, 0, 0, 255})

	return png.Encode(w, img)
}

// drawLine plots a line segment with the integer Bresenham walk.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	dx := x1 - x0
	if dx < 0 {
		dx = -dx
	}
	dy := y1 - y0
	if dy < 0 {
		dy = -dy
	}
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy
	for {
		if image.Pt(x0, y0).In(img.Bounds()) {
			img.Set(x0, y0, c)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// drawText renders text onto an image at the specified position.
func drawText(img *image.RGBA, x, y int, text string, c color.RGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
