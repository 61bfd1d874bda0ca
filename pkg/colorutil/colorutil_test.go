package colorutil

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassColors(t *testing.T) {
	assert.Nil(t, ClassColors(0))

	three := ClassColors(3)
	require.Len(t, three, 3)
	assert.Equal(t, basePalette[:3], three)

	// Beyond the base palette every color is still distinct.
	many := ClassColors(40)
	require.Len(t, many, 40)
	seen := make(map[color.NRGBA]bool)
	for _, c := range many {
		assert.False(t, seen[c], "duplicate color %v", c)
		seen[c] = true
		assert.EqualValues(t, 255, c.A)
	}
}

func TestAlphaByte(t *testing.T) {
	assert.EqualValues(t, 0, AlphaByte(-0.5))
	assert.EqualValues(t, 0, AlphaByte(0))
	assert.EqualValues(t, 255, AlphaByte(1))
	assert.EqualValues(t, 255, AlphaByte(2))
	assert.EqualValues(t, 191, AlphaByte(0.75))
}

func TestColormapAt(t *testing.T) {
	// Endpoints are exact.
	assert.Equal(t, color.NRGBA{68, 1, 84, 255}, Viridis.At(0))
	assert.Equal(t, color.NRGBA{253, 231, 37, 255}, Viridis.At(1))

	// Out-of-range values clamp.
	assert.Equal(t, Viridis.At(0), Viridis.At(-3))
	assert.Equal(t, Viridis.At(1), Viridis.At(7))

	// Midpoint of the gray ramp.
	mid := Gray.At(0.5)
	assert.InDelta(t, 128, int(mid.R), 1)
	assert.Equal(t, mid.R, mid.G)
	assert.Equal(t, mid.G, mid.B)
}

func TestColormapByName(t *testing.T) {
	m, ok := ColormapByName("viridis")
	require.True(t, ok)
	assert.Equal(t, "viridis", m.Name)

	_, ok = ColormapByName("jet")
	assert.False(t, ok)
}
