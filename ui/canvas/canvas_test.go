package canvas

import (
	"image"
	"image/color"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixel-annotator/internal/raster"
	"pixel-annotator/internal/surface"
	"pixel-annotator/pkg/geometry"
)

func newTestCanvas(t *testing.T) *PanelCanvas {
	t.Helper()
	test.NewApp()
	t.Cleanup(func() { test.NewApp() })
	return NewPanelCanvas()
}

func checkerImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{A: 255}
			if (x+y)%2 == 0 {
				c = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestSetImageResetsViewport(t *testing.T) {
	pc := newTestCanvas(t)
	pc.SetImage(checkerImage(8, 4))

	assert.Equal(t, geometry.NewRect(-0.5, -0.5, 8, 4), pc.Viewport())
	assert.Equal(t, geometry.NewRect(-0.5, -0.5, 8, 4), pc.HomeViewport())
}

func TestPixelToDataMapsWidgetToViewport(t *testing.T) {
	pc := newTestCanvas(t)
	pc.SetImage(checkerImage(10, 10))
	pc.Resize(fyne.NewSize(100, 100))

	tr := pc.PixelToData()
	got := tr.Apply(geometry.Point2D{X: 50, Y: 20})
	assert.InDelta(t, 4.5, got.X, 1e-9)
	assert.InDelta(t, 1.5, got.Y, 1e-9)

	// After zooming to the lower-right quadrant the same widget position
	// maps into that quadrant.
	pc.SetViewport(geometry.NewRect(5, 5, 5, 5))
	got = pc.PixelToData().Apply(geometry.Point2D{X: 0, Y: 0})
	assert.InDelta(t, 5.0, got.X, 1e-9)
	assert.InDelta(t, 5.0, got.Y, 1e-9)
}

func TestContainsPixel(t *testing.T) {
	pc := newTestCanvas(t)
	pc.Resize(fyne.NewSize(100, 50))

	assert.True(t, pc.ContainsPixel(geometry.Point2D{X: 0, Y: 0}))
	assert.True(t, pc.ContainsPixel(geometry.Point2D{X: 100, Y: 50}))
	assert.False(t, pc.ContainsPixel(geometry.Point2D{X: 101, Y: 10}))
	assert.False(t, pc.ContainsPixel(geometry.Point2D{X: -1, Y: 10}))
}

func TestDrawSamplesViewport(t *testing.T) {
	pc := newTestCanvas(t)
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{G: 255, A: 255})
	img.SetNRGBA(0, 1, color.NRGBA{B: 255, A: 255})
	img.SetNRGBA(1, 1, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	pc.SetImage(img)

	out, ok := pc.draw(2, 2).(*image.NRGBA)
	require.True(t, ok)
	assert.Equal(t, uint8(255), out.NRGBAAt(0, 0).R)
	assert.Equal(t, uint8(255), out.NRGBAAt(1, 0).G)
	assert.Equal(t, uint8(255), out.NRGBAAt(0, 1).B)

	// Zoomed to the top-left pixel's cell, every output pixel samples it.
	pc.SetViewport(geometry.NewRect(-0.5, -0.5, 1, 1))
	out = pc.draw(4, 4).(*image.NRGBA)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			assert.Equal(t, uint8(255), out.NRGBAAt(x, y).R)
			assert.Equal(t, uint8(0), out.NRGBAAt(x, y).G)
		}
	}
}

func TestDrawBlendsOverlay(t *testing.T) {
	pc := newTestCanvas(t)
	base := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	base.SetNRGBA(0, 0, color.NRGBA{R: 100, G: 100, B: 100, A: 255})
	base.SetNRGBA(1, 0, color.NRGBA{R: 100, G: 100, B: 100, A: 255})
	pc.SetImage(base)

	overlay := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	overlay.SetNRGBA(1, 0, color.NRGBA{R: 255, A: 255})
	pc.SetOverlay(overlay)

	out := pc.draw(2, 1).(*image.NRGBA)
	assert.Equal(t, uint8(100), out.NRGBAAt(0, 0).R, "transparent overlay leaves base")
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, out.NRGBAAt(1, 0), "opaque overlay replaces base")
}

func TestDrawPaintsLinePrimitives(t *testing.T) {
	pc := newTestCanvas(t)
	pc.SetImage(checkerImage(10, 10))
	pc.SetLineStyle("probe", color.NRGBA{R: 255, A: 255}, 1)
	pc.UpdateLine("probe", []geometry.Point2D{{X: 0, Y: 5}, {X: 10, Y: 5}})

	out := pc.draw(10, 10).(*image.NRGBA)
	for x := 0; x < 10; x++ {
		assert.Equal(t, color.NRGBA{R: 255, A: 255}, out.NRGBAAt(x, 5), "column %d", x)
	}

	pc.RemoveLine("probe")
	out = pc.draw(10, 10).(*image.NRGBA)
	for x := 0; x < 10; x++ {
		assert.NotEqual(t, color.NRGBA{R: 255, A: 255}, out.NRGBAAt(x, 5))
	}
}

func TestDrawAlignsWithPointerCoordinates(t *testing.T) {
	pc := newTestCanvas(t)
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	sentinel := color.NRGBA{R: 200, G: 10, B: 150, A: 255}
	img.SetNRGBA(2, 3, sentinel)
	pc.SetImage(img)
	pc.Resize(fyne.NewSize(100, 100))

	// Pixel (2, 3) is drawn in the cell covering output 20..29 x 30..39.
	out := pc.draw(100, 100).(*image.NRGBA)
	assert.Equal(t, sentinel, out.NRGBAAt(20, 30))
	assert.Equal(t, sentinel, out.NRGBAAt(29, 39))
	assert.NotEqual(t, sentinel, out.NRGBAAt(19, 35))
	assert.NotEqual(t, sentinel, out.NRGBAAt(25, 40))

	// The widget position at the middle of that cell maps to the integer
	// coordinate the rasterizer tests for pixel (2, 3).
	center := pc.PixelToData().Apply(geometry.Point2D{X: 25, Y: 35})
	assert.InDelta(t, 2.0, center.X, 1e-9)
	assert.InDelta(t, 3.0, center.Y, 1e-9)

	// A lasso traced just inside the cell's visible outline selects
	// exactly that pixel.
	tr := pc.PixelToData()
	var verts []geometry.Point2D
	for _, p := range []geometry.Point2D{
		{X: 21, Y: 31}, {X: 29, Y: 31}, {X: 29, Y: 39}, {X: 21, Y: 39},
	} {
		verts = append(verts, tr.Apply(p))
	}
	table, err := raster.NewTable(10, 10)
	require.NoError(t, err)
	sel := raster.Rasterize(table, verts)
	assert.Equal(t, 1, sel.Count())
	assert.True(t, sel.At(2, 3))
}

func TestConnectDisconnectRoundTrip(t *testing.T) {
	pc := newTestCanvas(t)
	pc.SetImage(checkerImage(10, 10))
	pc.Resize(fyne.NewSize(100, 100))

	var got []surface.Event
	h := pc.Connect(surface.PointerDown, func(ev surface.Event) { got = append(got, ev) })

	pc.MouseDown(&desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(50, 50)},
		Button:     desktop.MouseButtonPrimary,
	})
	require.Len(t, got, 1)
	assert.Equal(t, surface.ButtonPrimary, got[0].Button)
	require.NotNil(t, got[0].Data)
	assert.InDelta(t, 4.5, got[0].Data.X, 1e-9)
	assert.Same(t, surface.Panel(pc), got[0].Panel)

	pc.Disconnect(h)
	pc.MouseDown(&desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(10, 10)},
		Button:     desktop.MouseButtonPrimary,
	})
	assert.Len(t, got, 1, "disconnected handler no longer fires")

	// Disconnecting an unknown handle is a no-op.
	pc.Disconnect(surface.Handle(999))
}

func TestScrolledEmitsZoomDirection(t *testing.T) {
	pc := newTestCanvas(t)
	pc.SetImage(checkerImage(10, 10))
	pc.Resize(fyne.NewSize(100, 100))

	var dirs []surface.ScrollDirection
	pc.Connect(surface.Scroll, func(ev surface.Event) { dirs = append(dirs, ev.Scroll) })

	pc.Scrolled(&fyne.ScrollEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(50, 50)},
		Scrolled:   fyne.NewDelta(0, 1),
	})
	pc.Scrolled(&fyne.ScrollEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(50, 50)},
		Scrolled:   fyne.NewDelta(0, -1),
	})
	pc.Scrolled(&fyne.ScrollEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(50, 50)},
		Scrolled:   fyne.NewDelta(1, 0),
	})

	assert.Equal(t, []surface.ScrollDirection{surface.ScrollIn, surface.ScrollOut}, dirs)
}
