// Package heatmap compares a stack of equally shaped scalar grids by
// extracting aligned row and column traces at a probed coordinate.
package heatmap

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"pixel-annotator/pkg/geometry"
)

// Slices selects which trace orientations a slicer exposes.
type Slices int

const (
	SlicesHorizontal Slices = iota
	SlicesVertical
	SlicesBoth
)

func (s Slices) String() string {
	switch s {
	case SlicesHorizontal:
		return "horizontal"
	case SlicesVertical:
		return "vertical"
	case SlicesBoth:
		return "both"
	default:
		return fmt.Sprintf("Slices(%d)", int(s))
	}
}

// ParseSlices maps a configuration string onto a Slices value. Anything
// outside the three supported orientations is a configuration error, so a
// value like "diagonal" is rejected rather than ignored.
func ParseSlices(s string) (Slices, error) {
	switch s {
	case "horizontal":
		return SlicesHorizontal, nil
	case "vertical":
		return SlicesVertical, nil
	case "both":
		return SlicesBoth, nil
	default:
		return 0, fmt.Errorf("heatmap: slices must be horizontal, vertical or both, got %q", s)
	}
}

// Horizontal reports whether horizontal traces are exposed.
func (s Slices) Horizontal() bool { return s == SlicesHorizontal || s == SlicesBoth }

// Vertical reports whether vertical traces are exposed.
func (s Slices) Vertical() bool { return s == SlicesVertical || s == SlicesBoth }

// Interaction selects which pointer event drives the probe.
type Interaction int

const (
	InteractionMove Interaction = iota
	InteractionClick
)

func (i Interaction) String() string {
	if i == InteractionClick {
		return "click"
	}
	return "move"
}

// ParseInteraction maps a configuration string onto an Interaction value.
func ParseInteraction(s string) (Interaction, error) {
	switch s {
	case "move":
		return InteractionMove, nil
	case "click":
		return InteractionClick, nil
	default:
		return 0, fmt.Errorf("heatmap: interaction must be move or click, got %q", s)
	}
}

// Config describes the compared grids and the probe behavior.
type Config struct {
	// X and Y are the shared coordinate axes. Every heatmap must have
	// len(Y) rows and len(X) columns.
	X, Y []float64
	// Heatmaps are the compared grids, at least one.
	Heatmaps []*mat.Dense
	// Names labels the grids. Missing names default to "heatmap_i";
	// more names than grids is an error.
	Names []string
	// Slices selects the exposed trace orientations.
	Slices Slices
	// Interaction selects the pointer event that moves the probe.
	Interaction Interaction
	// XLabel and YLabel annotate the trace plots.
	XLabel, YLabel string
}

// Trace is one extracted slice through a single heatmap.
type Trace struct {
	Name string
	// Coords is the axis the trace runs along (X for horizontal slices,
	// Y for vertical ones). Shared by every trace of one probe.
	Coords []float64
	Values []float64
}

// Probe is the result of slicing every heatmap at one data coordinate.
type Probe struct {
	// Index is the nearest row (horizontal) or column (vertical) index.
	Index int
	// Coord is the axis value at Index, where the marker line is drawn.
	Coord  float64
	Traces []Trace
}

// Slicer extracts aligned traces from a stack of heatmaps.
type Slicer struct {
	x, y   []float64
	maps   []*mat.Dense
	names  []string
	slices Slices
	inter  Interaction
	xlabel string
	ylabel string

	vmin, vmax float64
}

// NewSlicer validates cfg and builds a slicer. All heatmaps must share the
// shape fixed by the coordinate axes.
func NewSlicer(cfg Config) (*Slicer, error) {
	if len(cfg.X) == 0 || len(cfg.Y) == 0 {
		return nil, fmt.Errorf("heatmap: X and Y axes must be non-empty")
	}
	if len(cfg.Heatmaps) == 0 {
		return nil, fmt.Errorf("heatmap: at least one heatmap is required")
	}
	if len(cfg.Names) != 0 && len(cfg.Names) != len(cfg.Heatmaps) {
		return nil, fmt.Errorf("heatmap: %d names for %d heatmaps", len(cfg.Names), len(cfg.Heatmaps))
	}

	rows, cols := len(cfg.Y), len(cfg.X)
	for i, m := range cfg.Heatmaps {
		if m == nil {
			return nil, fmt.Errorf("heatmap: heatmap %d is nil", i)
		}
		r, c := m.Dims()
		if r != rows || c != cols {
			return nil, fmt.Errorf("heatmap: heatmap %d is %dx%d, axes require %dx%d", i, r, c, rows, cols)
		}
	}

	names := append([]string(nil), cfg.Names...)
	if names == nil {
		names = make([]string, len(cfg.Heatmaps))
		for i := range names {
			names[i] = fmt.Sprintf("heatmap_%d", i)
		}
	}

	s := &Slicer{
		x:      append([]float64(nil), cfg.X...),
		y:      append([]float64(nil), cfg.Y...),
		maps:   cfg.Heatmaps,
		names:  names,
		slices: cfg.Slices,
		inter:  cfg.Interaction,
		xlabel: cfg.XLabel,
		ylabel: cfg.YLabel,
	}

	s.vmin = math.Inf(1)
	s.vmax = math.Inf(-1)
	for _, m := range cfg.Heatmaps {
		data := m.RawMatrix().Data
		s.vmin = math.Min(s.vmin, floats.Min(data))
		s.vmax = math.Max(s.vmax, floats.Max(data))
	}

	return s, nil
}

// X returns the shared column axis.
func (s *Slicer) X() []float64 { return s.x }

// Y returns the shared row axis.
func (s *Slicer) Y() []float64 { return s.y }

// Names returns the heatmap labels in display order.
func (s *Slicer) Names() []string { return s.names }

// Count returns the number of compared heatmaps.
func (s *Slicer) Count() int { return len(s.maps) }

// Heatmap returns the i-th grid.
func (s *Slicer) Heatmap(i int) *mat.Dense { return s.maps[i] }

// Slices returns the exposed trace orientations.
func (s *Slicer) Slices() Slices { return s.slices }

// Interaction returns the pointer event that moves the probe.
func (s *Slicer) Interaction() Interaction { return s.inter }

// XLabel returns the trace plot x annotation.
func (s *Slicer) XLabel() string { return s.xlabel }

// YLabel returns the trace plot y annotation.
func (s *Slicer) YLabel() string { return s.ylabel }

// ValueRange returns the value extent across all heatmaps. Trace plots use
// it as a shared vertical range so grids stay visually comparable.
func (s *Slicer) ValueRange() (min, max float64) { return s.vmin, s.vmax }

// DataBounds returns the rectangle spanned by the coordinate axes.
func (s *Slicer) DataBounds() geometry.Rect {
	xmin, xmax := floats.Min(s.x), floats.Max(s.x)
	ymin, ymax := floats.Min(s.y), floats.Max(s.y)
	return geometry.RectFromBounds(xmin, xmax, ymin, ymax)
}

// SliceHorizontal probes the row nearest to the data y coordinate and
// returns the row values of every heatmap along X.
func (s *Slicer) SliceHorizontal(yv float64) Probe {
	idx := NearestIndex(s.y, yv)
	p := Probe{Index: idx, Coord: s.y[idx]}
	for i, m := range s.maps {
		p.Traces = append(p.Traces, Trace{
			Name:   s.names[i],
			Coords: s.x,
			Values: mat.Row(nil, idx, m),
		})
	}
	return p
}

// SliceVertical probes the column nearest to the data x coordinate and
// returns the column values of every heatmap along Y.
func (s *Slicer) SliceVertical(xv float64) Probe {
	idx := NearestIndex(s.x, xv)
	p := Probe{Index: idx, Coord: s.x[idx]}
	for i, m := range s.maps {
		p.Traces = append(p.Traces, Trace{
			Name:   s.names[i],
			Coords: s.y,
			Values: mat.Col(nil, idx, m),
		})
	}
	return p
}

// NearestIndex returns the index of the value in vals closest to v. Ties
// resolve to the lower index. vals must be non-empty.
func NearestIndex(vals []float64, v float64) int {
	best := 0
	bestDist := math.Abs(vals[0] - v)
	for i := 1; i < len(vals); i++ {
		if d := math.Abs(vals[i] - v); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
