// Package surface defines the contract between the annotation engine and
// the rendering surface that hosts it. The engine subscribes to pointer and
// scroll events and asks for redraws and line updates; it never draws
// pixels itself.
package surface

import (
	"pixel-annotator/pkg/geometry"
)

// EventKind identifies a pointer or scroll event type.
type EventKind int

const (
	PointerDown EventKind = iota
	PointerMove
	PointerUp
	Scroll
)

func (k EventKind) String() string {
	switch k {
	case PointerDown:
		return "pointer-down"
	case PointerMove:
		return "pointer-move"
	case PointerUp:
		return "pointer-up"
	case Scroll:
		return "scroll"
	default:
		return "unknown"
	}
}

// Button identifies the originating pointer button of an event.
type Button int

const (
	ButtonNone Button = iota
	ButtonPrimary
	ButtonSecondary
	ButtonMiddle
)

// ScrollDirection is the direction of a scroll-wheel tick.
type ScrollDirection int

const (
	ScrollNone ScrollDirection = iota
	ScrollIn
	ScrollOut
)

// Event is one pointer or scroll event delivered by the surface.
// Data is nil when the cursor is not over any panel's data area.
type Event struct {
	Kind   EventKind
	Panel  Panel             // panel under the cursor, nil if none
	Pixel  geometry.Point2D  // surface pixel coordinates
	Data   *geometry.Point2D // cursor position in the panel's data space
	Button Button
	Scroll ScrollDirection
}

// Handle identifies one event subscription for later disconnection.
type Handle int

// Panel is one displayed data area with its own viewport.
type Panel interface {
	// Viewport returns the currently visible data-space rectangle.
	Viewport() geometry.Rect
	// SetViewport replaces the visible data-space rectangle.
	SetViewport(geometry.Rect)
	// HomeViewport returns the original, maximum-extent viewport.
	HomeViewport() geometry.Rect
	// PushViewHistory records the current viewport as a checkpoint.
	PushViewHistory()
	// PixelToData returns the transform from surface pixel coordinates to
	// this panel's data coordinates under the current viewport.
	PixelToData() geometry.AffineTransform
	// ContainsPixel reports whether the pixel position is over this panel.
	ContainsPixel(geometry.Point2D) bool
	// CanPan reports whether the panel supports pan gestures.
	CanPan() bool
	// RequestRedraw schedules a batched repaint of the panel.
	RequestRedraw()
}

// Surface is the rendering collaborator: an event source plus drawing sink.
type Surface interface {
	// Connect registers a callback for an event kind and returns a handle
	// for Disconnect. Callbacks run synchronously in delivery order.
	Connect(kind EventKind, fn func(Event)) Handle
	// Disconnect removes a subscription. Unknown handles are ignored, so
	// gesture teardown paths may disconnect unconditionally.
	Disconnect(Handle)
	// Panels returns all panels on the surface, topmost last.
	Panels() []Panel
	// UpdateLine creates or replaces a named line primitive with new
	// data-space coordinates.
	UpdateLine(name string, points []geometry.Point2D)
	// RemoveLine deletes a named line primitive.
	RemoveLine(name string)
	// RequestRedraw schedules a batched repaint of the whole surface.
	RequestRedraw()
}
