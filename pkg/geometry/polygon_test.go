package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var unitSquare = []Point2D{{0, 0}, {4, 0}, {4, 4}, {0, 4}}

func TestPointInPolygon(t *testing.T) {
	tests := []struct {
		name    string
		point   Point2D
		polygon []Point2D
		want    bool
	}{
		{"center of square", Point2D{2, 2}, unitSquare, true},
		{"outside square", Point2D{5, 2}, unitSquare, false},
		{"negative coords outside", Point2D{-1, -1}, unitSquare, false},
		{"concave notch outside", Point2D{2, 2.5},
			[]Point2D{{0, 0}, {4, 0}, {4, 4}, {2, 2}, {0, 4}}, false},
		{"concave arm inside", Point2D{0.5, 2},
			[]Point2D{{0, 0}, {4, 0}, {4, 4}, {2, 2}, {0, 4}}, true},
		{"degenerate two points", Point2D{1, 1}, []Point2D{{0, 0}, {2, 2}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PointInPolygon(tt.point, tt.polygon))
		})
	}
}

func TestPointOnPolygon(t *testing.T) {
	assert.True(t, PointOnPolygon(Point2D{2, 0}, unitSquare, 1e-9))
	assert.True(t, PointOnPolygon(Point2D{4, 3}, unitSquare, 1e-9))
	assert.True(t, PointOnPolygon(Point2D{0, 0}, unitSquare, 1e-9))
	assert.False(t, PointOnPolygon(Point2D{2, 2}, unitSquare, 1e-9))
	assert.False(t, PointOnPolygon(Point2D{4.1, 2}, unitSquare, 1e-9))
}

func TestPolygonArea(t *testing.T) {
	assert.InDelta(t, 16.0, PolygonArea(unitSquare), 1e-12)

	// Duplicate-point polygon has zero area.
	degenerate := []Point2D{{1, 1}, {1, 1}, {1, 1}}
	assert.Zero(t, PolygonArea(degenerate))

	// Winding direction flips the sign.
	reversed := []Point2D{{0, 4}, {4, 4}, {4, 0}, {0, 0}}
	assert.InDelta(t, -16.0, PolygonArea(reversed), 1e-12)
}
