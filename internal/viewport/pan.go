package viewport

import (
	"pixel-annotator/internal/surface"
	"pixel-annotator/pkg/geometry"
)

// panGrab is one panel captured at pan-gesture start.
type panGrab struct {
	panel surface.Panel
	last  geometry.Point2D // pointer pixel position at the previous move
}

// PanHandler translates button-drag gestures into viewport translations.
// It captures every pannable panel under the cursor at press time and pans
// them all together; the move listener is attached per gesture and detached
// on every release path.
type PanHandler struct {
	s      surface.Surface
	button surface.Button

	pressHandle   surface.Handle
	releaseHandle surface.Handle

	moveHandle surface.Handle
	moveActive bool
	grabs      []panGrab
}

// NewPanHandler creates a pan handler listening on the surface. A zero
// button defaults to the secondary (right) button, keeping the primary
// button free for the selection tool.
func NewPanHandler(s surface.Surface, button surface.Button) *PanHandler {
	if button == surface.ButtonNone {
		button = surface.ButtonSecondary
	}
	h := &PanHandler{s: s, button: button}
	h.pressHandle = s.Connect(surface.PointerDown, h.press)
	h.releaseHandle = s.Connect(surface.PointerUp, h.release)
	return h
}

// Button returns the configured pan button.
func (h *PanHandler) Button() surface.Button { return h.button }

// Active reports whether a pan gesture is in progress.
func (h *PanHandler) Active() bool { return h.moveActive }

func (h *PanHandler) press(ev surface.Event) {
	if ev.Button != h.button {
		h.Cancel()
		return
	}

	h.grabs = h.grabs[:0]
	for _, p := range h.s.Panels() {
		if p.CanPan() && p.ContainsPixel(ev.Pixel) {
			h.grabs = append(h.grabs, panGrab{panel: p, last: ev.Pixel})
		}
	}

	if len(h.grabs) > 0 && !h.moveActive {
		h.moveHandle = h.s.Connect(surface.PointerMove, h.move)
		h.moveActive = true
	}
}

func (h *PanHandler) move(ev surface.Event) {
	for i := range h.grabs {
		g := &h.grabs[i]
		dpx := ev.Pixel.Sub(g.last)

		// Map the pixel delta through the panel's current transform, so
		// the pan rate matches its zoom level, then move the viewport
		// opposite the pointer to keep the data under the cursor.
		dx, dy := g.panel.PixelToData().ApplyVector(dpx.X, dpx.Y)
		g.panel.SetViewport(g.panel.Viewport().Translate(-dx, -dy))
		g.last = ev.Pixel
		g.panel.RequestRedraw()
	}
}

func (h *PanHandler) release(ev surface.Event) {
	h.Cancel()
}

// Cancel ends any active gesture: the move listener is detached and all
// panel grabs are dropped. Safe to call repeatedly or with no gesture in
// progress.
func (h *PanHandler) Cancel() {
	if h.moveActive {
		h.s.Disconnect(h.moveHandle)
		h.moveActive = false
	}
	h.grabs = h.grabs[:0]
}

// Close cancels any gesture and removes the press/release listeners.
func (h *PanHandler) Close() {
	h.Cancel()
	h.s.Disconnect(h.pressHandle)
	h.s.Disconnect(h.releaseHandle)
}
