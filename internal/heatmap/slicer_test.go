package heatmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func linspace(start, stop float64, n int) []float64 {
	out := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

// grid returns a rows x cols matrix with value base + r*100 + c, so every
// cell is unique and traces are easy to assert against.
func grid(rows, cols int, base float64) *mat.Dense {
	m := mat.NewDense(rows, cols, nil)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			m.Set(r, c, base+float64(r)*100+float64(c))
		}
	}
	return m
}

func TestParseSlices(t *testing.T) {
	for in, want := range map[string]Slices{
		"horizontal": SlicesHorizontal,
		"vertical":   SlicesVertical,
		"both":       SlicesBoth,
	} {
		got, err := ParseSlices(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, in, got.String())
	}

	_, err := ParseSlices("diagonal")
	assert.ErrorContains(t, err, "diagonal")
}

func TestParseInteraction(t *testing.T) {
	got, err := ParseInteraction("move")
	require.NoError(t, err)
	assert.Equal(t, InteractionMove, got)

	got, err = ParseInteraction("click")
	require.NoError(t, err)
	assert.Equal(t, InteractionClick, got)

	_, err = ParseInteraction("hover")
	assert.Error(t, err)
}

func TestNewSlicerValidation(t *testing.T) {
	x, y := linspace(0, 1, 4), linspace(0, 1, 3)

	_, err := NewSlicer(Config{X: x, Y: y})
	assert.ErrorContains(t, err, "at least one heatmap")

	_, err = NewSlicer(Config{X: nil, Y: y, Heatmaps: []*mat.Dense{grid(3, 4, 0)}})
	assert.ErrorContains(t, err, "non-empty")

	_, err = NewSlicer(Config{X: x, Y: y, Heatmaps: []*mat.Dense{grid(4, 3, 0)}})
	assert.ErrorContains(t, err, "axes require 3x4")

	_, err = NewSlicer(Config{
		X: x, Y: y,
		Heatmaps: []*mat.Dense{grid(3, 4, 0)},
		Names:    []string{"a", "b"},
	})
	assert.ErrorContains(t, err, "2 names for 1 heatmaps")

	// A partial name list is a count mismatch too, not an invitation to
	// fill in defaults.
	_, err = NewSlicer(Config{
		X: x, Y: y,
		Heatmaps: []*mat.Dense{grid(3, 4, 0), grid(3, 4, 1000), grid(3, 4, 2000)},
		Names:    []string{"measured"},
	})
	assert.ErrorContains(t, err, "1 names for 3 heatmaps")
}

func TestSlicerDefaultNames(t *testing.T) {
	x, y := linspace(0, 1, 4), linspace(0, 1, 3)
	s, err := NewSlicer(Config{
		X: x, Y: y,
		Heatmaps: []*mat.Dense{grid(3, 4, 0), grid(3, 4, 1000), grid(3, 4, 2000)},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"heatmap_0", "heatmap_1", "heatmap_2"}, s.Names())

	s, err = NewSlicer(Config{
		X: x, Y: y,
		Heatmaps: []*mat.Dense{grid(3, 4, 0), grid(3, 4, 1000)},
		Names:    []string{"measured", "modelled"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"measured", "modelled"}, s.Names())
}

func TestSliceHorizontal(t *testing.T) {
	x := linspace(0, 3, 4)
	y := linspace(0, 2, 3)
	a := grid(3, 4, 0)
	b := grid(3, 4, 1000)
	s, err := NewSlicer(Config{X: x, Y: y, Heatmaps: []*mat.Dense{a, b}})
	require.NoError(t, err)

	// 1.4 is nearest to y[1]=1.
	p := s.SliceHorizontal(1.4)
	assert.Equal(t, 1, p.Index)
	assert.Equal(t, 1.0, p.Coord)
	require.Len(t, p.Traces, 2)
	assert.Equal(t, []float64{100, 101, 102, 103}, p.Traces[0].Values)
	assert.Equal(t, []float64{1100, 1101, 1102, 1103}, p.Traces[1].Values)
	assert.Equal(t, x, p.Traces[0].Coords)
}

func TestSliceVertical(t *testing.T) {
	x := linspace(0, 3, 4)
	y := linspace(0, 2, 3)
	a := grid(3, 4, 0)
	s, err := NewSlicer(Config{X: x, Y: y, Heatmaps: []*mat.Dense{a}})
	require.NoError(t, err)

	p := s.SliceVertical(2.9)
	assert.Equal(t, 3, p.Index)
	assert.Equal(t, 3.0, p.Coord)
	assert.Equal(t, []float64{3, 103, 203}, p.Traces[0].Values)
	assert.Equal(t, y, p.Traces[0].Coords)
}

func TestValueRangeSpansAllHeatmaps(t *testing.T) {
	x, y := linspace(0, 1, 4), linspace(0, 1, 3)
	s, err := NewSlicer(Config{
		X: x, Y: y,
		Heatmaps: []*mat.Dense{grid(3, 4, 0), grid(3, 4, -5000)},
	})
	require.NoError(t, err)

	min, max := s.ValueRange()
	assert.Equal(t, -5000.0, min)
	assert.Equal(t, 203.0, max)
}

func TestDataBounds(t *testing.T) {
	s, err := NewSlicer(Config{
		X:        linspace(-2, 2, 5),
		Y:        linspace(0, 10, 3),
		Heatmaps: []*mat.Dense{grid(3, 5, 0)},
	})
	require.NoError(t, err)

	b := s.DataBounds()
	assert.Equal(t, -2.0, b.X)
	assert.Equal(t, 4.0, b.Width)
	assert.Equal(t, 0.0, b.Y)
	assert.Equal(t, 10.0, b.Height)
}

func TestNearestIndex(t *testing.T) {
	vals := []float64{0, 1, 2, 5}
	assert.Equal(t, 0, NearestIndex(vals, -10))
	assert.Equal(t, 2, NearestIndex(vals, 2.4))
	assert.Equal(t, 3, NearestIndex(vals, 100))
	assert.Equal(t, 0, NearestIndex(vals, 0.5), "ties resolve low")
}

func TestSlicesOrientationFlags(t *testing.T) {
	assert.True(t, SlicesHorizontal.Horizontal())
	assert.False(t, SlicesHorizontal.Vertical())
	assert.True(t, SlicesBoth.Horizontal())
	assert.True(t, SlicesBoth.Vertical())
	assert.False(t, SlicesVertical.Horizontal())
}
