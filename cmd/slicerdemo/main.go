// Command slicerdemo opens the cross-heatmap comparison view on synthetic
// data.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"pixel-annotator/internal/app"
	"pixel-annotator/internal/heatmap"
	"pixel-annotator/pkg/colorutil"
	"pixel-annotator/ui/slicer"
)

func main() {
	slices := flag.String("slices", "both", "Trace orientations: horizontal, vertical or both")
	interaction := flag.String("interaction", "move", "Probe interaction: move or click")
	cmapName := flag.String("colormap", "viridis", "Heatmap colormap")
	size := flag.Int("size", 100, "Grid size per axis")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	sl, err := heatmap.ParseSlices(*slices)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	inter, err := heatmap.ParseInteraction(*interaction)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cmap, ok := colorutil.ColormapByName(*cmapName)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown colormap %q\n", *cmapName)
		os.Exit(1)
	}

	x := linspace(0, 2*math.Pi, *size)
	y := linspace(0, 2*math.Pi, *size)

	s, err := heatmap.NewSlicer(heatmap.Config{
		X: x,
		Y: y,
		Heatmaps: []*mat.Dense{
			sampled(x, y, func(xv, yv float64) float64 { return math.Sin(xv) * math.Cos(yv) }),
			sampled(x, y, func(xv, yv float64) float64 { return math.Sin(3*xv) * math.Cos(yv/2) }),
		},
		Names:       []string{"sin(x)cos(y)", "sin(3x)cos(y/2)"},
		Slices:      sl,
		Interaction: inter,
		XLabel:      "x",
		YLabel:      "y",
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fyneApp := fyneapp.NewWithID("io.pixel-annotator.slicerdemo")
	fyneApp.Settings().SetTheme(&app.AnnotatorTheme{})

	view := slicer.New(s, cmap, logger)
	defer view.Close()

	win := fyneApp.NewWindow("Heatmap Slicer")
	win.SetContent(view.Content())
	win.Resize(fyne.NewSize(1000, 700))
	win.ShowAndRun()
}

func linspace(start, stop float64, n int) []float64 {
	out := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func sampled(x, y []float64, f func(xv, yv float64) float64) *mat.Dense {
	m := mat.NewDense(len(y), len(x), nil)
	for r, yv := range y {
		for c, xv := range x {
			m.Set(r, c, f(xv, yv))
		}
	}
	return m
}
