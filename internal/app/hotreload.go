package app

import (
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
)

// HotReloader watches the running binary for changes and triggers a
// callback when a newer version appears. Used during development to prompt
// for restart after recompilation.
type HotReloader struct {
	log           *logrus.Entry
	execPath      string
	baseline      time.Time
	checkInterval time.Duration
	stopCh        chan struct{}
	onNewBinary   func()
}

// NewHotReloader creates a reloader watching the current executable.
// Returns nil if the executable path cannot be determined.
func NewHotReloader(checkInterval time.Duration, logger *logrus.Logger) *HotReloader {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	execPath, err := os.Executable()
	if err != nil {
		return nil
	}
	// go build may write a new file while a symlink still points at the
	// old location.
	if realPath, err := filepath.EvalSymlinks(execPath); err == nil {
		execPath = realPath
	}

	info, err := os.Stat(execPath)
	if err != nil {
		return nil
	}

	return &HotReloader{
		log:           logger.WithField("component", "hotreload"),
		execPath:      execPath,
		baseline:      info.ModTime(),
		checkInterval: checkInterval,
		stopCh:        make(chan struct{}),
	}
}

// OnNewBinary sets the callback invoked when a newer binary is detected.
// It runs on a background goroutine.
func (h *HotReloader) OnNewBinary(callback func()) {
	h.onNewBinary = callback
}

// Start begins watching in a background goroutine.
func (h *HotReloader) Start() {
	h.stopCh = make(chan struct{})
	go h.watchLoop()
}

// Stop stops the watcher goroutine.
func (h *HotReloader) Stop() {
	close(h.stopCh)
}

func (h *HotReloader) watchLoop() {
	ticker := time.NewTicker(h.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.stopCh:
			return
		case <-ticker.C:
			if h.changed() && h.onNewBinary != nil {
				h.log.Info("newer binary detected")
				h.onNewBinary()
				// Trigger once, then stop watching.
				return
			}
		}
	}
}

func (h *HotReloader) changed() bool {
	info, err := os.Stat(h.execPath)
	if err != nil {
		return false
	}
	return info.ModTime().After(h.baseline)
}

// ResetBaseline accepts the current binary as the baseline. Call when the
// user declines a restart to avoid repeated notifications.
func (h *HotReloader) ResetBaseline() {
	if info, err := os.Stat(h.execPath); err == nil {
		h.baseline = info.ModTime()
	}
}

// Restart replaces the current process with a new instance of the binary,
// preserving arguments and environment. Does not return on success.
func (h *HotReloader) Restart() error {
	return syscall.Exec(h.execPath, os.Args, os.Environ())
}
