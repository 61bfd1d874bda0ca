// Package canvas provides an image panel with pan, zoom, and lasso input.
package canvas

import (
	"image"
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"gonum.org/v1/gonum/mat"

	"pixel-annotator/internal/imaging"
	"pixel-annotator/internal/surface"
	"pixel-annotator/internal/viewport"
	"pixel-annotator/pkg/colorutil"
	"pixel-annotator/pkg/geometry"
)

// Line is a named polyline drawn over the image in data coordinates.
type Line struct {
	Points    []geometry.Point2D
	Color     color.NRGBA
	Thickness int
}

// defaultLineStyle is used for lines created through UpdateLine. A thin
// dark outline stays visible over most image content.
var defaultLineStyle = Line{Color: color.NRGBA{A: 204}, Thickness: 1}

// PanelCanvas displays one image with a data-space viewport and raises
// pointer and scroll input as surface events. It is both the event surface
// and its single panel.
type PanelCanvas struct {
	widget.BaseWidget
	*viewport.View

	raster *fynecanvas.Raster

	base       *image.NRGBA
	overlay    *image.NRGBA
	background color.NRGBA

	lines map[string]*Line

	handlers   map[surface.EventKind]map[surface.Handle]func(surface.Event)
	nextHandle surface.Handle

	pannable bool

	onViewportChange func(geometry.Rect)
}

// NewPanelCanvas creates an empty canvas. Display an image with SetImage
// or SetMatrix.
func NewPanelCanvas() *PanelCanvas {
	pc := &PanelCanvas{
		View:       viewport.NewView(geometry.NewRect(0, 0, 1, 1)),
		background: color.NRGBA{R: 40, G: 40, B: 40, A: 255},
		lines:      make(map[string]*Line),
		handlers:   make(map[surface.EventKind]map[surface.Handle]func(surface.Event)),
		pannable:   true,
	}

	pc.raster = fynecanvas.NewRaster(pc.draw)
	pc.raster.ScaleMode = fynecanvas.ImageScalePixels

	pc.ExtendBaseWidget(pc)
	return pc
}

// SetImage sets the displayed image and resets the viewport to show it
// fully. The image is converted once; later edits to an *image.NRGBA
// passed here show up on the next redraw.
//
// Pixel centers sit at integer data coordinates, so pixel (i, j) covers
// the half-open cell [i-0.5, i+0.5) x [j-0.5, j+0.5) and the home
// viewport starts at (-0.5, -0.5). A pointer over the middle of a drawn
// pixel therefore maps to the same coordinate the selection rasterizer
// tests for that pixel.
func (pc *PanelCanvas) SetImage(img image.Image) {
	if img == nil {
		pc.base = nil
		pc.overlay = nil
		pc.View = viewport.NewView(geometry.NewRect(0, 0, 1, 1))
		pc.RequestRedraw()
		return
	}
	pc.base = imaging.ToNRGBA(img)
	b := pc.base.Bounds()
	pc.View = viewport.NewView(geometry.NewRect(-0.5, -0.5, float64(b.Dx()), float64(b.Dy())))
	pc.RequestRedraw()
}

// SetMatrix renders a scalar matrix through cmap and displays it.
func (pc *PanelCanvas) SetMatrix(m *mat.Dense, cmap colorutil.Colormap) {
	pc.SetImage(imaging.RenderMatrix(m, cmap))
}

// SetOverlay sets the overlay blended over the base image. The buffer is
// sampled on every redraw, so a store's live overlay can be passed once.
func (pc *PanelCanvas) SetOverlay(o *image.NRGBA) {
	pc.overlay = o
	pc.RequestRedraw()
}

// SetPannable controls whether pan gestures grab this canvas.
func (pc *PanelCanvas) SetPannable(pannable bool) { pc.pannable = pannable }

// OnViewportChange sets a callback invoked on every redraw request with
// the current viewport.
func (pc *PanelCanvas) OnViewportChange(fn func(geometry.Rect)) { pc.onViewportChange = fn }

// Image returns the displayed image buffer, nil when empty.
func (pc *PanelCanvas) Image() *image.NRGBA { return pc.base }

// CanPan implements surface.Panel.
func (pc *PanelCanvas) CanPan() bool { return pc.pannable }

// ContainsPixel implements surface.Panel. Pixel coordinates are widget
// local.
func (pc *PanelCanvas) ContainsPixel(px geometry.Point2D) bool {
	size := pc.Size()
	return px.X >= 0 && px.Y >= 0 && px.X <= float64(size.Width) && px.Y <= float64(size.Height)
}

// PixelToData implements surface.Panel. It maps widget-local positions
// into the viewport's data rectangle.
func (pc *PanelCanvas) PixelToData() geometry.AffineTransform {
	size := pc.Size()
	if size.Width <= 0 || size.Height <= 0 {
		return geometry.Identity()
	}
	vp := pc.Viewport()
	return geometry.AffineTransform{
		A: vp.Width / float64(size.Width), TX: vp.X,
		D: vp.Height / float64(size.Height), TY: vp.Y,
	}
}

// RequestRedraw implements surface.Panel and surface.Surface.
func (pc *PanelCanvas) RequestRedraw() {
	if pc.onViewportChange != nil {
		pc.onViewportChange(pc.Viewport())
	}
	pc.raster.Refresh()
}

// Connect implements surface.Surface.
func (pc *PanelCanvas) Connect(kind surface.EventKind, fn func(surface.Event)) surface.Handle {
	pc.nextHandle++
	if pc.handlers[kind] == nil {
		pc.handlers[kind] = make(map[surface.Handle]func(surface.Event))
	}
	pc.handlers[kind][pc.nextHandle] = fn
	return pc.nextHandle
}

// Disconnect implements surface.Surface. Unknown handles are ignored.
func (pc *PanelCanvas) Disconnect(h surface.Handle) {
	for _, m := range pc.handlers {
		delete(m, h)
	}
}

// Panels implements surface.Surface.
func (pc *PanelCanvas) Panels() []surface.Panel { return []surface.Panel{pc} }

// UpdateLine implements surface.Surface. New lines get the default style;
// use SetLineStyle to change it.
func (pc *PanelCanvas) UpdateLine(name string, points []geometry.Point2D) {
	l, ok := pc.lines[name]
	if !ok {
		style := defaultLineStyle
		l = &style
		pc.lines[name] = l
	}
	l.Points = append(l.Points[:0], points...)
}

// SetLineStyle sets the color and thickness used for a named line,
// creating it if needed.
func (pc *PanelCanvas) SetLineStyle(name string, col color.NRGBA, thickness int) {
	l, ok := pc.lines[name]
	if !ok {
		l = &Line{}
		pc.lines[name] = l
	}
	l.Color = col
	l.Thickness = thickness
}

// RemoveLine implements surface.Surface.
func (pc *PanelCanvas) RemoveLine(name string) {
	delete(pc.lines, name)
}

func (pc *PanelCanvas) emit(ev surface.Event) {
	// Handlers may disconnect themselves or others while running.
	fns := make([]func(surface.Event), 0, len(pc.handlers[ev.Kind]))
	for _, fn := range pc.handlers[ev.Kind] {
		fns = append(fns, fn)
	}
	for _, fn := range fns {
		fn(ev)
	}
}

func (pc *PanelCanvas) pointerEvent(kind surface.EventKind, pos fyne.Position, btn surface.Button) surface.Event {
	px := geometry.Point2D{X: float64(pos.X), Y: float64(pos.Y)}
	data := pc.PixelToData().Apply(px)
	return surface.Event{Kind: kind, Panel: pc, Pixel: px, Data: &data, Button: btn}
}

func mapButton(b desktop.MouseButton) surface.Button {
	switch b {
	case desktop.MouseButtonPrimary:
		return surface.ButtonPrimary
	case desktop.MouseButtonSecondary:
		return surface.ButtonSecondary
	case desktop.MouseButtonTertiary:
		return surface.ButtonMiddle
	default:
		return surface.ButtonNone
	}
}

// MouseDown implements desktop.Mouseable.
func (pc *PanelCanvas) MouseDown(ev *desktop.MouseEvent) {
	pc.emit(pc.pointerEvent(surface.PointerDown, ev.Position, mapButton(ev.Button)))
}

// MouseUp implements desktop.Mouseable.
func (pc *PanelCanvas) MouseUp(ev *desktop.MouseEvent) {
	pc.emit(pc.pointerEvent(surface.PointerUp, ev.Position, mapButton(ev.Button)))
}

// MouseIn implements desktop.Hoverable.
func (pc *PanelCanvas) MouseIn(*desktop.MouseEvent) {}

// MouseMoved implements desktop.Hoverable.
func (pc *PanelCanvas) MouseMoved(ev *desktop.MouseEvent) {
	pc.emit(pc.pointerEvent(surface.PointerMove, ev.Position, mapButton(ev.Button)))
}

// MouseOut implements desktop.Hoverable.
func (pc *PanelCanvas) MouseOut() {}

// Scrolled implements fyne.Scrollable. The wheel zooms instead of
// scrolling.
func (pc *PanelCanvas) Scrolled(ev *fyne.ScrollEvent) {
	dir := surface.ScrollNone
	if ev.Scrolled.DY > 0 {
		dir = surface.ScrollIn
	} else if ev.Scrolled.DY < 0 {
		dir = surface.ScrollOut
	}
	if dir == surface.ScrollNone {
		return
	}
	px := geometry.Point2D{X: float64(ev.Position.X), Y: float64(ev.Position.Y)}
	data := pc.PixelToData().Apply(px)
	pc.emit(surface.Event{Kind: surface.Scroll, Panel: pc, Pixel: px, Data: &data, Scroll: dir})
}

// CreateRenderer implements fyne.Widget.
func (pc *PanelCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(pc.raster)
}

// MinSize implements fyne.Widget.
func (pc *PanelCanvas) MinSize() fyne.Size {
	return fyne.NewSize(100, 100)
}

// draw samples the viewport's data rectangle into the output buffer and
// composites the overlay and line primitives on top.
func (pc *PanelCanvas) draw(w, h int) image.Image {
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return out
	}

	vp := pc.Viewport()
	sx := vp.Width / float64(w)
	sy := vp.Height / float64(h)

	var baseBounds image.Rectangle
	if pc.base != nil {
		baseBounds = pc.base.Bounds()
	}

	for py := 0; py < h; py++ {
		// Nearest pixel center to the sampled data coordinate.
		iy := int(math.Floor(vp.Y + (float64(py)+0.5)*sy + 0.5))
		row := out.Pix[py*out.Stride:]
		for px := 0; px < w; px++ {
			ix := int(math.Floor(vp.X + (float64(px)+0.5)*sx + 0.5))

			c := pc.background
			inside := pc.base != nil &&
				ix >= baseBounds.Min.X && ix < baseBounds.Max.X &&
				iy >= baseBounds.Min.Y && iy < baseBounds.Max.Y
			if inside {
				c = pc.base.NRGBAAt(ix, iy)
				if pc.overlay != nil {
					c = imaging.BlendPixel(c, pc.overlay.NRGBAAt(ix, iy))
				}
			}

			o := px * 4
			row[o+0] = c.R
			row[o+1] = c.G
			row[o+2] = c.B
			row[o+3] = 255
		}
	}

	for _, l := range pc.lines {
		pc.drawLine(out, l, vp, w, h)
	}

	return out
}
