// Package raster converts freehand lasso paths into per-pixel membership
// selections over the image grid.
package raster

import (
	"fmt"
	"math"
	"sort"

	"pixel-annotator/pkg/geometry"
)

// Table is the precomputed mapping from linear pixel index to integer
// data-grid coordinates. It is built once per session and reused by every
// rasterization, so repeated lasso gestures never rebuild it.
type Table struct {
	w, h   int
	coords []geometry.PointInt
}

// NewTable builds the pixel index table for a w by h grid.
func NewTable(w, h int) (*Table, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("raster: grid must be positive, got %dx%d", w, h)
	}
	coords := make([]geometry.PointInt, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			coords[y*w+x] = geometry.PointInt{X: x, Y: y}
		}
	}
	return &Table{w: w, h: h, coords: coords}, nil
}

// Width returns the grid width.
func (t *Table) Width() int { return t.w }

// Height returns the grid height.
func (t *Table) Height() int { return t.h }

// Len returns the number of pixels.
func (t *Table) Len() int { return len(t.coords) }

// Coord returns the grid coordinate for a linear pixel index.
func (t *Table) Coord(i int) geometry.PointInt { return t.coords[i] }

// Index returns the linear pixel index for a grid coordinate.
func (t *Table) Index(x, y int) int { return y*t.w + x }

// Selection is a boolean per-pixel membership mask over the image grid.
type Selection struct {
	w, h int
	bits []bool
}

// NewSelection creates an empty selection for a w by h grid.
func NewSelection(w, h int) *Selection {
	return &Selection{w: w, h: h, bits: make([]bool, w*h)}
}

// Width returns the grid width.
func (s *Selection) Width() int { return s.w }

// Height returns the grid height.
func (s *Selection) Height() int { return s.h }

// At reports whether the pixel at (x, y) is selected.
func (s *Selection) At(x, y int) bool {
	if x < 0 || x >= s.w || y < 0 || y >= s.h {
		return false
	}
	return s.bits[y*s.w+x]
}

// Set marks or unmarks the pixel at (x, y). Out-of-grid coordinates are
// ignored.
func (s *Selection) Set(x, y int, on bool) {
	if x < 0 || x >= s.w || y < 0 || y >= s.h {
		return
	}
	s.bits[y*s.w+x] = on
}

// Bits returns the underlying linear membership slice. Callers must treat
// it as read-only.
func (s *Selection) Bits() []bool { return s.bits }

// Count returns the number of selected pixels.
func (s *Selection) Count() int {
	n := 0
	for _, b := range s.bits {
		if b {
			n++
		}
	}
	return n
}

// Empty reports whether no pixel is selected.
func (s *Selection) Empty() bool {
	for _, b := range s.bits {
		if b {
			return false
		}
	}
	return true
}

// Rasterize converts a closed lasso polygon into a pixel selection. The
// first and last vertices are connected automatically.
//
// Membership rule (fixed, see tests): a pixel is selected when its center
// is inside the polygon under the even-odd parity rule, or lies exactly on
// the polygon boundary. The scanline fill is equivalent to testing every
// center with geometry.PointInPolygon plus geometry.PointOnPolygon; parity
// is computed per scanline with the half-open endpoint convention, fill
// spans include centers exactly on a crossing, and centers on horizontal
// boundary edges are marked explicitly.
//
// Degenerate paths (fewer than three vertices, or zero area) yield an
// empty selection rather than an error; real pointer hardware produces
// such paths on stray clicks.
func Rasterize(t *Table, verts []geometry.Point2D) *Selection {
	sel := NewSelection(t.w, t.h)
	if len(verts) < 3 || geometry.PolygonArea(verts) == 0 {
		return sel
	}

	bounds := geometry.BoundingBox(verts)
	yLo := int(math.Ceil(bounds.Y))
	yHi := int(math.Floor(bounds.YMax()))
	if yLo < 0 {
		yLo = 0
	}
	if yHi > t.h-1 {
		yHi = t.h - 1
	}

	n := len(verts)
	crossings := make([]float64, 0, 8)
	for y := yLo; y <= yHi; y++ {
		yc := float64(y)
		crossings = crossings[:0]

		for i := 0; i < n; i++ {
			p1 := verts[i]
			p2 := verts[(i+1)%n]

			if p1.Y == p2.Y {
				// Horizontal edge: centers on it are boundary pixels.
				if p1.Y == yc {
					fillRun(sel, y, math.Min(p1.X, p2.X), math.Max(p1.X, p2.X))
				}
				continue
			}

			// Half-open endpoint rule: the edge contributes iff its
			// endpoints straddle the scanline strictly on one side.
			if (p1.Y > yc) != (p2.Y > yc) {
				x := p1.X + (yc-p1.Y)*(p2.X-p1.X)/(p2.Y-p1.Y)
				crossings = append(crossings, x)
			}
		}

		sort.Float64s(crossings)
		for k := 0; k+1 < len(crossings); k += 2 {
			fillRun(sel, y, crossings[k], crossings[k+1])
		}
	}

	markBoundaryCenters(sel, verts)
	return sel
}

// markBoundaryCenters selects pixels whose centers lie exactly on a
// non-horizontal polygon edge. Parity fill already covers most of these,
// but centers sitting on a local-extremum vertex (where neither adjacent
// edge straddles the scanline) would otherwise be missed.
func markBoundaryCenters(sel *Selection, verts []geometry.Point2D) {
	const eps = 1e-9
	n := len(verts)
	for i := 0; i < n; i++ {
		p1 := verts[i]
		p2 := verts[(i+1)%n]
		if p1.Y == p2.Y {
			continue
		}

		yLo := int(math.Ceil(math.Min(p1.Y, p2.Y)))
		yHi := int(math.Floor(math.Max(p1.Y, p2.Y)))
		if yLo < 0 {
			yLo = 0
		}
		if yHi > sel.h-1 {
			yHi = sel.h - 1
		}
		for y := yLo; y <= yHi; y++ {
			x := p1.X + (float64(y)-p1.Y)*(p2.X-p1.X)/(p2.Y-p1.Y)
			xr := math.Round(x)
			if math.Abs(x-xr) <= eps {
				sel.Set(int(xr), y, true)
			}
		}
	}
}

// fillRun selects the pixels of row y whose centers fall in [x1, x2],
// both endpoints included.
func fillRun(sel *Selection, y int, x1, x2 float64) {
	lo := int(math.Ceil(x1))
	hi := int(math.Floor(x2))
	if lo < 0 {
		lo = 0
	}
	if hi > sel.w-1 {
		hi = sel.w - 1
	}
	for x := lo; x <= hi; x++ {
		sel.bits[y*sel.w+x] = true
	}
}
