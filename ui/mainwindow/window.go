// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"pixel-annotator/internal/app"
	"pixel-annotator/internal/imaging"
	"pixel-annotator/internal/segment"
	"pixel-annotator/internal/surface"
	"pixel-annotator/internal/version"
	"pixel-annotator/pkg/geometry"
	"pixel-annotator/ui/canvas"
	"pixel-annotator/ui/prefs"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app   fyne.App
	log   *logrus.Entry
	state *app.State
	prefs *prefs.Prefs

	canvas  *canvas.PanelCanvas
	session *segment.Session

	classSelect *widget.Select
	eraseCheck  *widget.Check
	zoomLabel   *widget.Label
	statusBar   *widget.Label
}

// New creates the main window.
func New(fyneApp fyne.App, state *app.State, p *prefs.Prefs, logger *logrus.Logger) *MainWindow {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	win := fyneApp.NewWindow("Pixel Annotator")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		log:    logger.WithField("component", "mainwindow"),
		state:  state,
		prefs:  p,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()

	win.Resize(fyne.NewSize(1100, 800))
	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewPanelCanvas()
	mw.canvas.OnViewportChange(mw.updateZoomLabel)

	mw.statusBar = widget.NewLabel("Ready")
	mw.zoomLabel = widget.NewLabel("Zoom: 1.0x")

	mw.classSelect = widget.NewSelect(nil, func(string) {
		if mw.session == nil {
			return
		}
		class := mw.classSelect.SelectedIndex() + 1
		if err := mw.session.SetCurrentClass(class); err != nil {
			mw.log.WithError(err).Warn("class selection rejected")
			return
		}
		mw.updateStatus(fmt.Sprintf("Painting class %d", class))
	})
	mw.classSelect.PlaceHolder = "Class"

	mw.eraseCheck = widget.NewCheck("Erase", func(on bool) {
		if mw.session == nil {
			return
		}
		mw.session.SetErasing(on)
	})

	toolbar := container.NewHBox(
		widget.NewButton("Open Image…", mw.onOpenImage),
		widget.NewSeparator(),
		widget.NewLabel("Class:"),
		mw.classSelect,
		mw.eraseCheck,
		widget.NewSeparator(),
		widget.NewButton("Reset View", mw.onResetView),
		widget.NewButton("Previous View", mw.onPreviousView),
		mw.zoomLabel,
	)

	content := container.NewBorder(
		toolbar,                           // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		mw.canvas,                         // center
	)

	mw.SetContent(content)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", mw.onOpenImage),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Open Project...", mw.onOpenProject),
		fyne.NewMenuItem("Save Project As...", mw.onSaveProjectAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Reset View", mw.onResetView),
		fyne.NewMenuItem("Previous View", mw.onPreviousView),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, viewMenu, helpMenu))
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventImageLoaded, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle("Pixel Annotator - " + filepath.Base(path))
			mw.updateStatus("Image loaded: " + path)
		}
	})

	mw.state.On(app.EventProjectLoaded, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.updateStatus("Project loaded: " + path)
		}
	})

	mw.state.On(app.EventModified, func(data interface{}) {
		if modified, ok := data.(bool); ok && modified {
			title := mw.Title()
			if len(title) > 0 && title[len(title)-1] != '*' {
				mw.SetTitle(title + " *")
			}
		}
	})
}

// startSession replaces the active segmentation session with one for the
// state's current image.
func (mw *MainWindow) startSession(nclasses int) error {
	if mw.session != nil {
		mw.session.Close()
		mw.session = nil
	}

	img := mw.state.Image
	if img == nil {
		mw.canvas.SetImage(nil)
		mw.canvas.SetOverlay(nil)
		return nil
	}

	if nclasses <= 0 {
		nclasses = mw.prefs.Int(prefs.KeyNClasses, 1)
	}

	session, err := segment.NewSession(img, mw.canvas, mw.canvas, segment.Options{
		NClasses:  nclasses,
		MaskAlpha: mw.prefs.Float(prefs.KeyMaskAlpha, 0),
		Colormap:  mw.prefs.String(prefs.KeyColormap, "viridis"),
		PanButton: panButtonFromPrefs(mw.prefs),
		BaseScale: mw.prefs.Float(prefs.KeyBaseScale, 0),
	})
	if err != nil {
		return err
	}
	mw.session = session

	if imaging.IsGrayscale(img) {
		mw.canvas.SetMatrix(imaging.ToMatrix(img), session.Colormap())
	} else {
		mw.canvas.SetImage(img)
	}
	mw.canvas.SetOverlay(session.Store().Overlay())

	options := make([]string, nclasses)
	for i := range options {
		options[i] = fmt.Sprintf("Class %d", i+1)
	}
	mw.classSelect.Options = options
	mw.classSelect.SetSelectedIndex(0)
	mw.eraseCheck.SetChecked(false)

	return nil
}

func panButtonFromPrefs(p *prefs.Prefs) surface.Button {
	if p.String(prefs.KeyPanButton, "secondary") == "middle" {
		return surface.ButtonMiddle
	}
	return surface.ButtonSecondary
}

// OpenPath opens an image or a project file given on the command line.
func (mw *MainWindow) OpenPath(path string) error {
	if filepath.Ext(path) == ".json" {
		proj, err := mw.state.LoadProject(path)
		if err != nil {
			return err
		}
		return mw.startSession(proj.NClasses)
	}
	if err := mw.state.LoadImage(path); err != nil {
		return err
	}
	return mw.startSession(0)
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

func (mw *MainWindow) updateZoomLabel(vp geometry.Rect) {
	home := mw.canvas.HomeViewport()
	if vp.Width <= 0 || home.Width <= 0 {
		return
	}
	mw.zoomLabel.SetText(fmt.Sprintf("Zoom: %.1fx", home.Width/vp.Width))
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefs.KeyLastDir, "")
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.prefs.SetString(prefs.KeyLastDir, filepath.Dir(filePath))
	if err := mw.prefs.Save(); err != nil {
		mw.log.WithError(err).Warn("failed to save preferences")
	}
}

// Menu action handlers

func (mw *MainWindow) onOpenImage() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		_ = reader.Close()

		if err := mw.state.LoadImage(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.saveLastDir(path)
		if err := mw.startSession(0); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)

	fd.SetFilter(storage.NewExtensionFileFilter(imaging.SupportedFormats()))
	if dir := mw.getLastDir(); dir != nil {
		fd.SetLocation(dir)
	}
	fd.Show()
}

func (mw *MainWindow) onOpenProject() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		_ = reader.Close()

		proj, err := mw.state.LoadProject(path)
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		if err := mw.startSession(proj.NClasses); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)

	fd.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	if dir := mw.getLastDir(); dir != nil {
		fd.SetLocation(dir)
	}
	fd.Show()
}

func (mw *MainWindow) onSaveProjectAs() {
	if mw.session == nil {
		mw.updateStatus("Nothing to save")
		return
	}

	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		_ = writer.Close()

		proj := app.Project{
			ImagePath: mw.state.ImagePath,
			NClasses:  mw.session.Store().NClasses(),
			MaskAlpha: mw.prefs.Float(prefs.KeyMaskAlpha, 0.75),
			Colormap:  mw.prefs.String(prefs.KeyColormap, "viridis"),
		}
		if err := mw.state.SaveProject(path, proj); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.updateStatus("Project saved: " + path)
	}, mw.Window)

	fd.SetFileName("annotation.json")
	if dir := mw.getLastDir(); dir != nil {
		fd.SetLocation(dir)
	}
	fd.Show()
}

func (mw *MainWindow) onResetView() {
	mw.canvas.ResetView()
	mw.canvas.RequestRedraw()
}

func (mw *MainWindow) onPreviousView() {
	if mw.canvas.PopViewHistory() {
		mw.canvas.RequestRedraw()
	}
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About",
		fmt.Sprintf("Pixel Annotator v%s\nBuilt %s (%s)",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
