// Package canvas provides drawing primitives for the image panel.
package canvas

import (
	"image"

	"pixel-annotator/internal/imaging"
	"pixel-annotator/pkg/geometry"
)

// drawLine rasterizes a polyline into the output buffer. Points are in
// data coordinates and mapped through the current viewport.
func (pc *PanelCanvas) drawLine(out *image.NRGBA, l *Line, vp geometry.Rect, w, h int) {
	if len(l.Points) < 2 || vp.Width <= 0 || vp.Height <= 0 {
		return
	}

	thickness := l.Thickness
	if thickness <= 0 {
		thickness = 1
	}

	toPixel := func(p geometry.Point2D) (int, int) {
		x := (p.X - vp.X) * float64(w) / vp.Width
		y := (p.Y - vp.Y) * float64(h) / vp.Height
		return int(x), int(y)
	}

	for i := 1; i < len(l.Points); i++ {
		x1, y1 := toPixel(l.Points[i-1])
		x2, y2 := toPixel(l.Points[i])
		drawSegment(out, x1, y1, x2, y2, l, thickness)
	}
}

// drawSegment draws a single thick line segment with Bresenham stepping.
func drawSegment(out *image.NRGBA, x1, y1, x2, y2 int, l *Line, thickness int) {
	bounds := out.Bounds()

	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		for t := -thickness / 2; t <= thickness/2; t++ {
			for s := -thickness / 2; s <= thickness/2; s++ {
				px, py := x1+s, y1+t
				if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
					out.SetNRGBA(px, py, imaging.BlendPixel(out.NRGBAAt(px, py), l.Color))
				}
			}
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}
