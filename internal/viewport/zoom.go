package viewport

import (
	"pixel-annotator/internal/surface"
	"pixel-annotator/pkg/geometry"
)

// DefaultBaseScale is the per-tick zoom factor used when none is
// configured.
const DefaultBaseScale = 1.1

// ScaleFactor converts a scroll direction into a rescale factor. Unknown
// directions map to 1, which callers treat as a no-op; stray events from
// real scroll hardware are expected, not errors.
func ScaleFactor(dir surface.ScrollDirection, base float64) float64 {
	switch dir {
	case surface.ScrollIn:
		return base
	case surface.ScrollOut:
		return 1 / base
	default:
		return 1
	}
}

// ZoomRect rescales cur by factor, anchored at the cursor position so the
// anchor stays fixed in data space. Each axis is clamped independently: a
// range that would grow beyond the home rectangle's is replaced by the home
// range recentered on the home center, so zooming out never shows more than
// the original view on that axis.
func ZoomRect(cur, home geometry.Rect, anchor geometry.Point2D, factor float64) geometry.Rect {
	xmin := anchor.X - (anchor.X-cur.X)/factor
	xmax := anchor.X + (cur.XMax()-anchor.X)/factor
	ymin := anchor.Y - (anchor.Y-cur.Y)/factor
	ymax := anchor.Y + (cur.YMax()-anchor.Y)/factor

	if xmax-xmin > home.Width {
		c := home.Center().X
		xmin = c - home.Width/2
		xmax = c + home.Width/2
	}
	if ymax-ymin > home.Height {
		c := home.Center().Y
		ymin = c - home.Height/2
		ymax = c + home.Height/2
	}

	return geometry.RectFromBounds(xmin, xmax, ymin, ymax)
}

// AttachZoom wires scroll events to anchored zooming of one panel and
// returns a disconnect function. Every applied zoom pushes a view-history
// checkpoint first.
func AttachZoom(s surface.Surface, panel surface.Panel, base float64) func() {
	if base <= 0 {
		base = DefaultBaseScale
	}

	h := s.Connect(surface.Scroll, func(ev surface.Event) {
		if ev.Panel != panel || ev.Data == nil {
			return
		}
		factor := ScaleFactor(ev.Scroll, base)
		if factor == 1 {
			return
		}
		panel.PushViewHistory()
		panel.SetViewport(ZoomRect(panel.Viewport(), panel.HomeViewport(), *ev.Data, factor))
		panel.RequestRedraw()
	})

	return func() { s.Disconnect(h) }
}
