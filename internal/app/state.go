// Package app provides application lifecycle management, state, and events.
package app

import (
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"

	"pixel-annotator/internal/imaging"
)

// EventType identifies different application events.
type EventType int

const (
	EventImageLoaded EventType = iota
	EventProjectLoaded
	EventProjectSaved
	EventMaskModified
	EventClassChanged
	EventViewChanged
	EventModified
)

// EventListener receives application events.
type EventListener func(data interface{})

// State holds the application state: the loaded image, the annotation
// project path, and event listeners.
type State struct {
	mu sync.RWMutex

	ProjectPath string
	Modified    bool

	ImagePath string
	Image     image.Image

	listeners map[EventType][]EventListener
}

// NewState creates an empty application state.
func NewState() *State {
	return &State{
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers a listener for the given event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit notifies all listeners of an event.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SetModified updates the modified flag and emits EventModified.
func (s *State) SetModified(modified bool) {
	s.mu.Lock()
	s.Modified = modified
	s.mu.Unlock()
	s.Emit(EventModified, modified)
}

// LoadImage loads an image for annotation and emits EventImageLoaded.
func (s *State) LoadImage(path string) error {
	if !imaging.IsSupportedFormat(path) {
		return fmt.Errorf("unsupported image format: %s", filepath.Ext(path))
	}

	img, err := imaging.Load(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.ImagePath = path
	s.Image = img
	s.mu.Unlock()

	s.Emit(EventImageLoaded, path)
	return nil
}

// Project is the serialized form of an annotation session setup. Mask
// contents stay in memory; only the image reference and the session
// configuration are written out.
type Project struct {
	Version   int     `json:"version"`
	ImagePath string  `json:"image_path"`
	NClasses  int     `json:"n_classes"`
	MaskAlpha float64 `json:"mask_alpha"`
	Colormap  string  `json:"colormap"`
}

// projectVersion is bumped when the project format changes.
const projectVersion = 1

// SaveProject writes proj to path and emits EventProjectSaved.
func (s *State) SaveProject(path string, proj Project) error {
	proj.Version = projectVersion

	data, err := json.MarshalIndent(proj, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize project: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write project: %w", err)
	}

	s.mu.Lock()
	s.ProjectPath = path
	s.Modified = false
	s.mu.Unlock()

	s.Emit(EventProjectSaved, path)
	return nil
}

// LoadProject reads an annotation project from path, loads its image, and
// emits EventProjectLoaded.
func (s *State) LoadProject(path string) (Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Project{}, fmt.Errorf("failed to read project: %w", err)
	}

	var proj Project
	if err := json.Unmarshal(data, &proj); err != nil {
		return Project{}, fmt.Errorf("failed to parse project: %w", err)
	}
	if proj.Version > projectVersion {
		return Project{}, fmt.Errorf("project version %d is newer than supported %d", proj.Version, projectVersion)
	}
	if proj.NClasses < 1 {
		return Project{}, fmt.Errorf("project has invalid class count %d", proj.NClasses)
	}

	if proj.ImagePath != "" {
		if err := s.LoadImage(proj.ImagePath); err != nil {
			return Project{}, err
		}
	}

	s.mu.Lock()
	s.ProjectPath = path
	s.Modified = false
	s.mu.Unlock()

	s.Emit(EventProjectLoaded, path)
	return proj, nil
}
