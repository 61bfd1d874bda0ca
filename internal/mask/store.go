// Package mask holds the authoritative per-pixel class labels and the RGBA
// overlay derived from them.
package mask

import (
	"fmt"
	"image"
	"image/color"

	"pixel-annotator/internal/raster"
	"pixel-annotator/pkg/colorutil"
)

// DefaultAlpha is the overlay opacity used when the caller does not
// configure one.
const DefaultAlpha = 0.75

// Options configures a Store.
type Options struct {
	// NClasses is the number of label classes; labels range over
	// [1, NClasses] with 0 meaning unlabeled. Defaults to 1.
	NClasses int
	// Colors overrides the default class palette. If set, its length must
	// equal NClasses. Alpha channels are replaced by Alpha.
	Colors []color.NRGBA
	// Alpha is the overlay opacity in (0, 1]. Defaults to DefaultAlpha.
	Alpha float64
	// Seed pre-populates the labels. If set, its length must be w*h and
	// every value must be in [0, NClasses].
	Seed []int
}

// Store owns the label grid and its derived overlay. Only Paint and Erase
// mutate them, and both leave the overlay exactly consistent with the
// labels before returning.
type Store struct {
	w, h     int
	nclasses int
	alpha    uint8
	colors   []color.NRGBA
	labels   []int
	overlay  *image.NRGBA
}

// New creates a Store for a w by h grid.
func New(w, h int, opts Options) (*Store, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("mask: grid must be positive, got %dx%d", w, h)
	}

	nclasses := opts.NClasses
	if nclasses == 0 {
		nclasses = 1
	}
	if nclasses < 1 {
		return nil, fmt.Errorf("mask: nclasses must be at least 1, got %d", nclasses)
	}

	alpha := opts.Alpha
	if alpha == 0 {
		alpha = DefaultAlpha
	}
	if alpha < 0 || alpha > 1 {
		return nil, fmt.Errorf("mask: alpha must be in (0, 1], got %v", alpha)
	}

	colors := opts.Colors
	if colors == nil {
		colors = colorutil.ClassColors(nclasses)
	} else if len(colors) != nclasses {
		return nil, fmt.Errorf("mask: got %d colors for %d classes", len(colors), nclasses)
	}

	// The configured opacity always wins over caller-supplied alpha values.
	a := colorutil.AlphaByte(alpha)
	owned := make([]color.NRGBA, len(colors))
	for i, c := range colors {
		owned[i] = colorutil.WithAlpha(c, a)
	}

	s := &Store{
		w:        w,
		h:        h,
		nclasses: nclasses,
		alpha:    a,
		colors:   owned,
		labels:   make([]int, w*h),
		overlay:  image.NewNRGBA(image.Rect(0, 0, w, h)),
	}

	if opts.Seed != nil {
		if len(opts.Seed) != w*h {
			return nil, fmt.Errorf("mask: seed has %d entries, want %d", len(opts.Seed), w*h)
		}
		for i, v := range opts.Seed {
			if v < 0 || v > nclasses {
				return nil, fmt.Errorf("mask: seed label %d at pixel %d outside [0, %d]", v, i, nclasses)
			}
			s.labels[i] = v
			s.setOverlayPixel(i, v)
		}
	}

	return s, nil
}

// Width returns the grid width.
func (s *Store) Width() int { return s.w }

// Height returns the grid height.
func (s *Store) Height() int { return s.h }

// NClasses returns the number of label classes.
func (s *Store) NClasses() int { return s.nclasses }

// ClassColor returns the display color for a class in [1, nclasses].
func (s *Store) ClassColor(class int) (color.NRGBA, error) {
	if class < 1 || class > s.nclasses {
		return color.NRGBA{}, fmt.Errorf("mask: class %d outside [1, %d]", class, s.nclasses)
	}
	return s.colors[class-1], nil
}

// Labels returns the label grid in row-major order. Callers must treat it
// as read-only; Paint and Erase are the only mutators.
func (s *Store) Labels() []int { return s.labels }

// LabelAt returns the label at (x, y), or 0 outside the grid.
func (s *Store) LabelAt(x, y int) int {
	if x < 0 || x >= s.w || y < 0 || y >= s.h {
		return 0
	}
	return s.labels[y*s.w+x]
}

// Overlay returns the derived RGBA overlay. The returned image is stable
// across mutations; the rendering surface may hold on to it.
func (s *Store) Overlay() *image.NRGBA { return s.overlay }

// Paint assigns class to every selected pixel and updates the overlay.
// A class outside [1, nclasses] is a caller bug and is rejected without
// touching any pixel.
func (s *Store) Paint(sel *raster.Selection, class int) error {
	if class < 1 || class > s.nclasses {
		return fmt.Errorf("mask: paint class %d outside [1, %d]", class, s.nclasses)
	}
	if sel.Width() != s.w || sel.Height() != s.h {
		return fmt.Errorf("mask: selection is %dx%d, store is %dx%d",
			sel.Width(), sel.Height(), s.w, s.h)
	}
	for i, on := range sel.Bits() {
		if !on {
			continue
		}
		s.labels[i] = class
		s.setOverlayPixel(i, class)
	}
	return nil
}

// Erase clears every selected pixel back to unlabeled and makes its
// overlay entry fully transparent.
func (s *Store) Erase(sel *raster.Selection) error {
	if sel.Width() != s.w || sel.Height() != s.h {
		return fmt.Errorf("mask: selection is %dx%d, store is %dx%d",
			sel.Width(), sel.Height(), s.w, s.h)
	}
	for i, on := range sel.Bits() {
		if !on {
			continue
		}
		s.labels[i] = 0
		s.setOverlayPixel(i, 0)
	}
	return nil
}

// setOverlayPixel writes the overlay entry for one linear pixel index from
// its label. Label 0 is fully transparent.
func (s *Store) setOverlayPixel(i, label int) {
	o := i * 4
	if label == 0 {
		s.overlay.Pix[o] = 0
		s.overlay.Pix[o+1] = 0
		s.overlay.Pix[o+2] = 0
		s.overlay.Pix[o+3] = 0
		return
	}
	c := s.colors[label-1]
	s.overlay.Pix[o] = c.R
	s.overlay.Pix[o+1] = c.G
	s.overlay.Pix[o+2] = c.B
	s.overlay.Pix[o+3] = c.A
}
