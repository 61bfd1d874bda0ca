// Package viewport maintains the visible data-space rectangle of a panel
// and implements the zoom and pan controllers that mutate it.
package viewport

import (
	"pixel-annotator/pkg/geometry"
)

// View tracks a panel's current and home viewport rectangles plus the
// checkpoint history used by reset-view affordances. It implements the
// viewport part of the surface.Panel contract, so panel widgets embed it.
type View struct {
	cur     geometry.Rect
	home    geometry.Rect
	history []geometry.Rect
}

// NewView creates a View whose current and home rectangles are both r.
// The home rectangle never changes afterwards.
func NewView(r geometry.Rect) *View {
	return &View{cur: r, home: r}
}

// Viewport returns the currently visible data-space rectangle.
func (v *View) Viewport() geometry.Rect { return v.cur }

// SetViewport replaces the visible data-space rectangle.
func (v *View) SetViewport(r geometry.Rect) { v.cur = r }

// HomeViewport returns the original, maximum-extent rectangle captured at
// construction.
func (v *View) HomeViewport() geometry.Rect { return v.home }

// PushViewHistory records the current viewport as a checkpoint.
func (v *View) PushViewHistory() {
	v.history = append(v.history, v.cur)
}

// PopViewHistory restores the most recent checkpoint. It reports false if
// the history is empty, leaving the viewport untouched.
func (v *View) PopViewHistory() bool {
	if len(v.history) == 0 {
		return false
	}
	v.cur = v.history[len(v.history)-1]
	v.history = v.history[:len(v.history)-1]
	return true
}

// HistoryDepth returns the number of stored checkpoints.
func (v *View) HistoryDepth() int { return len(v.history) }

// ResetView returns to the home rectangle and clears the history.
func (v *View) ResetView() {
	v.cur = v.home
	v.history = v.history[:0]
}
