// Package slicer provides the cross-heatmap comparison view: a row of
// heatmap panels with linked trace plots below them.
package slicer

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"pixel-annotator/internal/heatmap"
	"pixel-annotator/internal/surface"
	"pixel-annotator/pkg/colorutil"
	"pixel-annotator/pkg/geometry"
	"pixel-annotator/ui/canvas"
)

const (
	chartWidth  = 640
	chartHeight = 240

	hMarkerLine = "slice_h"
	vMarkerLine = "slice_v"
)

var markerColor = color.NRGBA{R: 255, G: 255, B: 255, A: 220}

// View is the assembled comparison view. Probing any heatmap updates the
// marker line on every heatmap and redraws the trace plots.
type View struct {
	log    *logrus.Entry
	slicer *heatmap.Slicer

	panels []*canvas.PanelCanvas
	hChart *fynecanvas.Image
	vChart *fynecanvas.Image

	handles []probeHandle
	content fyne.CanvasObject
}

type probeHandle struct {
	panel  *canvas.PanelCanvas
	handle surface.Handle
}

// New builds the view for s, rendering each heatmap through cmap. Any
// wiring failure tears the partial view down before returning.
func New(s *heatmap.Slicer, cmap colorutil.Colormap, logger *logrus.Logger) *View {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	v := &View{
		log:    logger.WithField("component", "slicer"),
		slicer: s,
	}

	kind := surface.PointerMove
	if s.Interaction() == heatmap.InteractionClick {
		kind = surface.PointerDown
	}

	panelObjs := make([]fyne.CanvasObject, 0, s.Count())
	for i := 0; i < s.Count(); i++ {
		pc := canvas.NewPanelCanvas()
		pc.SetPannable(false)
		pc.SetMatrix(s.Heatmap(i), cmap)
		pc.SetLineStyle(hMarkerLine, markerColor, 1)
		pc.SetLineStyle(vMarkerLine, markerColor, 1)

		h := pc.Connect(kind, func(ev surface.Event) {
			if ev.Data == nil {
				return
			}
			if ev.Kind == surface.PointerDown && ev.Button != surface.ButtonPrimary {
				return
			}
			v.probe(*ev.Data)
		})
		v.handles = append(v.handles, probeHandle{panel: pc, handle: h})
		v.panels = append(v.panels, pc)

		title := widget.NewLabel(s.Names()[i])
		title.Alignment = fyne.TextAlignCenter
		panelObjs = append(panelObjs, container.NewBorder(title, nil, nil, nil, pc))
	}

	chartObjs := make([]fyne.CanvasObject, 0, 2)
	if s.Slices().Horizontal() {
		v.hChart = newChartImage()
		chartObjs = append(chartObjs, v.hChart)
	}
	if s.Slices().Vertical() {
		v.vChart = newChartImage()
		chartObjs = append(chartObjs, v.vChart)
	}

	v.content = container.NewGridWithRows(2,
		container.NewGridWithColumns(len(panelObjs), panelObjs...),
		container.NewGridWithColumns(len(chartObjs), chartObjs...),
	)

	v.log.WithFields(logrus.Fields{
		"heatmaps":    s.Count(),
		"slices":      s.Slices().String(),
		"interaction": s.Interaction().String(),
	}).Info("slicer view created")

	return v
}

// Content returns the view's root object for embedding in a window.
func (v *View) Content() fyne.CanvasObject { return v.content }

// Close disconnects every probe listener.
func (v *View) Close() {
	for _, h := range v.handles {
		h.panel.Disconnect(h.handle)
	}
	v.handles = nil
}

func newChartImage() *fynecanvas.Image {
	img := fynecanvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, chartWidth, chartHeight)))
	img.FillMode = fynecanvas.ImageFillContain
	img.SetMinSize(fyne.NewSize(chartWidth/2, chartHeight/2))
	return img
}

// probe slices every heatmap at the probed grid position. The position is
// in grid coordinates: column x, row y.
func (v *View) probe(pos geometry.Point2D) {
	yAxis := v.slicer.Y()
	xAxis := v.slicer.X()

	if v.slicer.Slices().Horizontal() {
		row := clampIndex(pos.Y, len(yAxis))
		p := v.slicer.SliceHorizontal(yAxis[row])
		v.updateMarkers(hMarkerLine, []geometry.Point2D{
			{X: -0.5, Y: float64(p.Index)},
			{X: float64(len(xAxis)) - 0.5, Y: float64(p.Index)},
		})
		v.renderChart(v.hChart, "Horizontal", p, v.slicer.XLabel())
	}

	if v.slicer.Slices().Vertical() {
		col := clampIndex(pos.X, len(xAxis))
		p := v.slicer.SliceVertical(xAxis[col])
		v.updateMarkers(vMarkerLine, []geometry.Point2D{
			{X: float64(p.Index), Y: -0.5},
			{X: float64(p.Index), Y: float64(len(yAxis)) - 0.5},
		})
		v.renderChart(v.vChart, "Vertical", p, v.slicer.YLabel())
	}

	for _, pc := range v.panels {
		pc.RequestRedraw()
	}
}

func (v *View) updateMarkers(name string, points []geometry.Point2D) {
	for _, pc := range v.panels {
		pc.UpdateLine(name, points)
	}
}

// clampIndex maps a grid coordinate to the nearest cell index; cell i is
// centered on i.
func clampIndex(pos float64, n int) int {
	i := int(math.Floor(pos + 0.5))
	if i < 0 {
		i = 0
	}
	if i >= n {
		i = n - 1
	}
	return i
}

// renderChart redraws one trace plot. All plots share the slicer's value
// range so heatmaps stay comparable.
func (v *View) renderChart(target *fynecanvas.Image, title string, p heatmap.Probe, xlabel string) {
	vmin, vmax := v.slicer.ValueRange()
	if vmax <= vmin {
		vmax = vmin + 1
	}

	series := make([]chart.Series, 0, len(p.Traces))
	for i, tr := range p.Traces {
		col := colorutil.ClassColors(len(p.Traces))[i]
		series = append(series, chart.ContinuousSeries{
			Name:    tr.Name,
			XValues: tr.Coords,
			YValues: tr.Values,
			Style: chart.Style{
				StrokeWidth: 2,
				StrokeColor: drawing.Color{R: col.R, G: col.G, B: col.B, A: 255},
			},
		})
	}

	ch := chart.Chart{
		Title:  title,
		Width:  chartWidth,
		Height: chartHeight,
		XAxis:  chart.XAxis{Name: xlabel},
		YAxis:  chart.YAxis{Range: &chart.ContinuousRange{Min: vmin, Max: vmax}},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		v.log.WithError(err).Warn("trace chart render failed")
		return
	}
	img, err := png.Decode(&buf)
	if err != nil {
		v.log.WithError(err).Warn("trace chart decode failed")
		return
	}

	target.Image = img
	target.Refresh()
}
