// Package segment coordinates lasso selection, pan, and zoom gestures into
// mask paint and erase operations over a displayed image.
package segment

import (
	"fmt"
	"image"
	"image/color"

	"github.com/sirupsen/logrus"

	"pixel-annotator/internal/mask"
	"pixel-annotator/internal/raster"
	"pixel-annotator/internal/surface"
	"pixel-annotator/internal/viewport"
	"pixel-annotator/pkg/colorutil"
	"pixel-annotator/pkg/geometry"
)

// lassoLine is the named line primitive used for the in-progress outline.
const lassoLine = "lasso"

// State is the session's gesture state. Zooming is instantaneous and never
// appears here: one scroll event is handled to completion without changing
// the gesture state.
type State int

const (
	StateIdle State = iota
	StateSelecting
	StatePanning
)

func (s State) String() string {
	switch s {
	case StateSelecting:
		return "selecting"
	case StatePanning:
		return "panning"
	default:
		return "idle"
	}
}

// Options configures a Session.
type Options struct {
	// NClasses is the number of label classes. Defaults to 1.
	NClasses int
	// Mask seeds the initial labels (row-major, len w*h).
	Mask []int
	// MaskColors overrides the default class palette.
	MaskColors []color.NRGBA
	// MaskAlpha is the overlay opacity. Defaults to mask.DefaultAlpha.
	MaskAlpha float64
	// Colormap names the colormap used to display scalar images.
	// Defaults to "viridis".
	Colormap string
	// PanButton selects the pan gesture button. Defaults to secondary,
	// keeping the primary button for the lasso.
	PanButton surface.Button
	// BaseScale is the per-tick zoom factor. Defaults to
	// viewport.DefaultBaseScale.
	BaseScale float64
	// Logger receives session logs. Defaults to the standard logger.
	Logger *logrus.Logger
}

// Session is the top-level coordinator for one segmentation image. It owns
// the mask store and the pixel index table, recognizes the lasso gesture,
// and wires the pan and zoom controllers onto the same surface. All event
// handling is synchronous; the store is mutated only from the lasso-end
// handler.
type Session struct {
	log   *logrus.Entry
	surf  surface.Surface
	panel surface.Panel

	img   image.Image
	store *mask.Store
	table *raster.Table
	cmap  colorutil.Colormap

	currentClass int
	erasing      bool

	selecting  bool
	lasso      []geometry.Point2D
	moveHandle surface.Handle

	downHandle surface.Handle
	upHandle   surface.Handle

	pan        *viewport.PanHandler
	detachZoom func()
}

// NewSession creates a session for img displayed on panel. The image is
// read-only for the session's lifetime; its bounds fix the mask grid size.
func NewSession(img image.Image, surf surface.Surface, panel surface.Panel, opts Options) (*Session, error) {
	if img == nil {
		return nil, fmt.Errorf("segment: image is required")
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	table, err := raster.NewTable(w, h)
	if err != nil {
		return nil, err
	}

	store, err := mask.New(w, h, mask.Options{
		NClasses: opts.NClasses,
		Colors:   opts.MaskColors,
		Alpha:    opts.MaskAlpha,
		Seed:     opts.Mask,
	})
	if err != nil {
		return nil, err
	}

	name := opts.Colormap
	if name == "" {
		name = "viridis"
	}
	cmap, ok := colorutil.ColormapByName(name)
	if !ok {
		return nil, fmt.Errorf("segment: unknown colormap %q", name)
	}

	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	s := &Session{
		log:          logger.WithField("component", "segment"),
		surf:         surf,
		panel:        panel,
		img:          img,
		store:        store,
		table:        table,
		cmap:         cmap,
		currentClass: 1,
	}

	s.downHandle = surf.Connect(surface.PointerDown, s.pointerDown)
	s.upHandle = surf.Connect(surface.PointerUp, s.pointerUp)
	s.pan = viewport.NewPanHandler(surf, opts.PanButton)
	s.detachZoom = viewport.AttachZoom(surf, panel, opts.BaseScale)

	s.log.WithFields(logrus.Fields{
		"size":     fmt.Sprintf("%dx%d", w, h),
		"nclasses": store.NClasses(),
	}).Info("session created")

	return s, nil
}

// Image returns the displayed image.
func (s *Session) Image() image.Image { return s.img }

// Store returns the session's mask/overlay store.
func (s *Session) Store() *mask.Store { return s.store }

// Colormap returns the colormap for scalar image display.
func (s *Session) Colormap() colorutil.Colormap { return s.cmap }

// PanButton returns the configured pan button.
func (s *Session) PanButton() surface.Button { return s.pan.Button() }

// State returns the current gesture state.
func (s *Session) State() State {
	switch {
	case s.selecting:
		return StateSelecting
	case s.pan.Active():
		return StatePanning
	default:
		return StateIdle
	}
}

// CurrentClass returns the class painted on lasso completion.
func (s *Session) CurrentClass() int { return s.currentClass }

// SetCurrentClass selects the class painted on lasso completion. It is a
// pure state flag consulted at gesture end.
func (s *Session) SetCurrentClass(class int) error {
	if class < 1 || class > s.store.NClasses() {
		return fmt.Errorf("segment: class %d outside [1, %d]", class, s.store.NClasses())
	}
	s.currentClass = class
	return nil
}

// Erasing returns whether lasso completion erases instead of painting.
func (s *Session) Erasing() bool { return s.erasing }

// SetErasing toggles erase mode.
func (s *Session) SetErasing(erasing bool) { s.erasing = erasing }

func (s *Session) pointerDown(ev surface.Event) {
	if ev.Button != surface.ButtonPrimary {
		// Another recognizer's button. If a lasso is somehow in progress
		// it is abandoned so that selection and pan can never overlap.
		if s.selecting {
			s.cancelSelection()
		}
		return
	}
	if s.selecting || ev.Panel != s.panel || ev.Data == nil {
		return
	}

	s.selecting = true
	s.lasso = s.lasso[:0]
	s.lasso = append(s.lasso, *ev.Data)
	s.moveHandle = s.surf.Connect(surface.PointerMove, s.pointerMove)
	s.log.Debug("lasso started")
}

func (s *Session) pointerMove(ev surface.Event) {
	if !s.selecting || ev.Data == nil || ev.Panel != s.panel {
		return
	}
	s.lasso = append(s.lasso, *ev.Data)
	s.surf.UpdateLine(lassoLine, s.lasso)
	s.surf.RequestRedraw()
}

func (s *Session) pointerUp(ev surface.Event) {
	if !s.selecting || ev.Button != surface.ButtonPrimary {
		return
	}
	s.finishSelection()
}

// finishSelection rasterizes the accumulated path and applies it to the
// store. The path and the outline primitive are always cleared, even when
// the path was degenerate or the store rejected the operation.
func (s *Session) finishSelection() {
	s.detachSelection()

	sel := raster.Rasterize(s.table, s.lasso)
	var err error
	if s.erasing {
		err = s.store.Erase(sel)
	} else {
		err = s.store.Paint(sel, s.currentClass)
	}
	if err != nil {
		// Only reachable through a programming error; the gesture state
		// is still cleaned up.
		s.log.WithError(err).Error("lasso apply failed")
	} else {
		s.log.WithFields(logrus.Fields{
			"vertices": len(s.lasso),
			"pixels":   sel.Count(),
			"erasing":  s.erasing,
			"class":    s.currentClass,
		}).Debug("lasso applied")
	}

	s.lasso = s.lasso[:0]
	s.surf.RequestRedraw()
}

// cancelSelection abandons the in-progress lasso without touching the mask.
func (s *Session) cancelSelection() {
	s.detachSelection()
	s.lasso = s.lasso[:0]
	s.surf.RequestRedraw()
}

// detachSelection removes the gesture-scoped move listener and the outline
// primitive. Safe to call on every exit path.
func (s *Session) detachSelection() {
	if s.selecting {
		s.surf.Disconnect(s.moveHandle)
		s.selecting = false
	}
	s.surf.RemoveLine(lassoLine)
}

// Close detaches every listener the session and its controllers own.
func (s *Session) Close() {
	if s.selecting {
		s.cancelSelection()
	}
	s.pan.Close()
	s.detachZoom()
	s.surf.Disconnect(s.downHandle)
	s.surf.Disconnect(s.upHandle)
	s.log.Debug("session closed")
}
