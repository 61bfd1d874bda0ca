package slicer

import (
	"io"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"pixel-annotator/internal/heatmap"
	"pixel-annotator/pkg/colorutil"
	"pixel-annotator/pkg/geometry"
)

func testSlicer(t *testing.T, slices heatmap.Slices) *heatmap.Slicer {
	t.Helper()
	x := []float64{0, 1, 2, 3}
	y := []float64{0, 1, 2}
	a := mat.NewDense(3, 4, []float64{
		0, 1, 2, 3,
		10, 11, 12, 13,
		20, 21, 22, 23,
	})
	b := mat.NewDense(3, 4, nil)
	s, err := heatmap.NewSlicer(heatmap.Config{
		X: x, Y: y,
		Heatmaps: []*mat.Dense{a, b},
		Slices:   slices,
	})
	require.NoError(t, err)
	return s
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestNewBuildsPanelsAndCharts(t *testing.T) {
	test.NewApp()
	defer test.NewApp()

	v := New(testSlicer(t, heatmap.SlicesBoth), colorutil.Viridis, quietLogger())
	defer v.Close()

	require.Len(t, v.panels, 2)
	assert.NotNil(t, v.hChart)
	assert.NotNil(t, v.vChart)
	assert.NotNil(t, v.Content())

	// Heatmap panels never pan; the probe is the only interaction.
	for _, pc := range v.panels {
		assert.False(t, pc.CanPan())
	}
}

func TestHorizontalOnlySkipsVerticalChart(t *testing.T) {
	test.NewApp()
	defer test.NewApp()

	v := New(testSlicer(t, heatmap.SlicesHorizontal), colorutil.Viridis, quietLogger())
	defer v.Close()

	assert.NotNil(t, v.hChart)
	assert.Nil(t, v.vChart)
}

func TestProbeUpdatesMarkersOnAllPanels(t *testing.T) {
	test.NewApp()
	defer test.NewApp()

	v := New(testSlicer(t, heatmap.SlicesBoth), colorutil.Viridis, quietLogger())
	defer v.Close()

	v.probe(geometry.Point2D{X: 2.2, Y: 1.7})

	assert.NotNil(t, v.hChart.Image, "horizontal trace chart rendered")
	assert.NotNil(t, v.vChart.Image, "vertical trace chart rendered")
}

func TestProbeThroughPanelEvent(t *testing.T) {
	test.NewApp()
	defer test.NewApp()

	v := New(testSlicer(t, heatmap.SlicesHorizontal), colorutil.Viridis, quietLogger())
	defer v.Close()

	// Move interaction: a pointer move over a panel probes and renders.
	v.panels[0].MouseMoved(&desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(0, 0)},
	})
	assert.NotNil(t, v.hChart.Image)

	// Close detaches probes; further moves must not re-render.
	v.Close()
	v.hChart.Image = nil
	v.panels[0].MouseMoved(&desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(0, 0)},
	})
	assert.Nil(t, v.hChart.Image)
}
