// Package main provides the entry point for the Pixel Annotator
// application.
package main

import (
	"os"
	"time"

	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
	"github.com/sirupsen/logrus"

	"pixel-annotator/internal/app"
	"pixel-annotator/internal/version"
	"pixel-annotator/ui/mainwindow"
	"pixel-annotator/ui/prefs"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if os.Getenv("PIXEL_ANNOTATOR_DEBUG") != "" {
		logger.SetLevel(logrus.DebugLevel)
	}

	logger.WithFields(logrus.Fields{
		"version": version.Version,
		"commit":  version.GitCommit,
	}).Info("starting pixel annotator")

	fyneApp := fyneapp.NewWithID("io.pixel-annotator")
	fyneApp.Settings().SetTheme(&app.AnnotatorTheme{})

	state := app.NewState()
	appPrefs := prefs.Load()

	win := mainwindow.New(fyneApp, state, appPrefs, logger)

	// An image or project path may be passed on the command line.
	if len(os.Args) > 1 {
		path := os.Args[1]
		if err := win.OpenPath(path); err != nil {
			logger.WithError(err).WithField("path", path).Error("failed to open")
		}
	}

	setupHotReload(win, logger)

	win.ShowAndRun()
}

// setupHotReload configures restart detection for when the binary is
// recompiled during development.
func setupHotReload(win *mainwindow.MainWindow, logger *logrus.Logger) {
	reloader := app.NewHotReloader(2*time.Second, logger)
	if reloader == nil {
		logger.Warn("hot reload: unable to determine executable path")
		return
	}

	reloader.OnNewBinary(func() {
		dialog.ShowConfirm("New Version Available",
			"The application binary has been updated.\nRestart now?",
			func(restart bool) {
				if restart {
					if err := reloader.Restart(); err != nil {
						logger.WithError(err).Error("hot reload: restart failed")
					}
					return
				}
				reloader.ResetBaseline()
				reloader.Start()
			}, win.Window)
	})

	reloader.Start()
}
