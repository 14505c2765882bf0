// Package app assembles a labeling session: dataset navigation, the label
// store, the interaction machine and the presenters.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/soocke/obb-label-go/config"
	"github.com/soocke/obb-label-go/domain/dataset"
	"github.com/soocke/obb-label-go/domain/interaction"
	"github.com/soocke/obb-label-go/domain/labels"
	"github.com/soocke/obb-label-go/ui/presenter"
	"github.com/soocke/obb-label-go/ui/viewport"
)

var (
	// ErrNoDataset is returned by navigation before Open succeeded.
	ErrNoDataset = errors.New("no image directory open")
	// ErrNoImage is returned by SaveCurrent when the current image failed to load.
	ErrNoImage = errors.New("no image loaded")
)

// Session is the hosting application's view of one labeling run. It is not
// safe for concurrent use; call it from the UI thread.
type Session struct {
	Config   *config.Config
	CfgPath  string
	Logger   *slog.Logger
	Classes  *labels.ClassTable
	Store    *labels.Store
	Machine  *interaction.Machine
	Progress *config.Progress
	Dataset  *dataset.Dataset

	Canvas *presenter.CanvasPresenter
	Status *presenter.StatusPresenter
	Loop   *presenter.Loop

	// View maps device pointer positions to image pixels. The zero value
	// passes them through unchanged.
	View viewport.Viewport

	index        int
	viewW, viewH int
}

// Open scans dir and resumes at its first unlabeled image.
func (s *Session) Open(dir string) error {
	d, err := dataset.Scan(dir)
	if err != nil {
		return err
	}
	s.Dataset = d
	// Disk is authoritative: rebuild the record from existing label files.
	s.Progress = &config.Progress{}
	for _, name := range d.LabeledSet() {
		s.Progress.Mark(name)
	}
	s.saveProgress()
	if i, ok := d.FirstUnlabeled(); ok {
		s.index = i
		s.info("resuming from unlabeled image", "index", i+1, "total", d.Len())
	} else {
		s.index = 0
		s.info("all images are already labeled", "total", d.Len())
	}
	return s.LoadCurrent()
}

// OpenImage opens the directory holding path and makes path the current image.
func (s *Session) OpenImage(path string) error {
	d, err := dataset.Scan(filepath.Dir(path))
	if err != nil {
		return err
	}
	name := filepath.Base(path)
	for i, n := range d.Images {
		if n == name {
			s.Dataset = d
			s.index = i
			return s.LoadCurrent()
		}
	}
	return fmt.Errorf("open %s: not an image in %s", name, d.Dir)
}

// Index returns the current image index or -1.
func (s *Session) Index() int { return s.index }

// CurrentImage returns the current image file name.
func (s *Session) CurrentImage() string {
	if s.Dataset == nil || s.index < 0 {
		return ""
	}
	return s.Dataset.Images[s.index]
}

// LoadCurrent reads the current image size and loads its labels. On failure
// the store is emptied to a zero-size document, so the labels it held can
// never be saved under this image.
func (s *Session) LoadCurrent() error {
	if s.Dataset == nil || s.index < 0 {
		return ErrNoDataset
	}
	if err := s.load(); err != nil {
		s.Store.Replace(&labels.Document{})
		return err
	}
	return nil
}

func (s *Session) load() error {
	w, h, err := dataset.ImageSize(s.Dataset.ImagePath(s.index))
	if err != nil {
		return fmt.Errorf("load image %s: %w", s.CurrentImage(), err)
	}
	if err := s.Store.Load(s.Dataset.LabelPath(s.index), w, h); err != nil {
		return err
	}
	if s.viewW > 0 && s.viewH > 0 {
		s.View.Fit(w, h, s.viewW, s.viewH)
	}
	return nil
}

// loaded reports whether the store holds the current image's labels.
func (s *Session) loaded() bool {
	w, h := s.Store.ImageSize()
	return w > 0 && h > 0
}

// switchTo makes image i current. A failed load leaves it current with an
// empty store, so navigation can still move past it.
func (s *Session) switchTo(i int) error {
	s.index = i
	return s.LoadCurrent()
}

// SetViewSize sets the device size and fits the current image into it.
func (s *Session) SetViewSize(w, h int) {
	s.viewW, s.viewH = w, h
	iw, ih := s.Store.ImageSize()
	s.View.Fit(iw, ih, w, h)
}

// SaveCurrent writes the current labels and records the image as labeled.
func (s *Session) SaveCurrent() error {
	if s.Dataset == nil || s.index < 0 {
		return ErrNoDataset
	}
	if !s.loaded() {
		return fmt.Errorf("save %s: %w", s.CurrentImage(), ErrNoImage)
	}
	if err := s.Store.Save(s.Dataset.LabelPath(s.index)); err != nil {
		return err
	}
	s.Progress.Mark(s.CurrentImage())
	s.saveProgress()
	return nil
}

func (s *Session) idle() error {
	if s.Machine.Gesture().Kind() != interaction.GestureIdle {
		return interaction.ErrGestureActive
	}
	return nil
}

// Goto saves the current labels and switches to image i.
func (s *Session) Goto(i int) error {
	if s.Dataset == nil {
		return ErrNoDataset
	}
	if err := s.idle(); err != nil {
		return err
	}
	if i < 0 || i >= s.Dataset.Len() {
		return fmt.Errorf("image %d out of range [0,%d)", i, s.Dataset.Len())
	}
	if err := s.saveIfLoaded(); err != nil {
		return err
	}
	return s.switchTo(i)
}

func (s *Session) saveIfLoaded() error {
	if !s.loaded() {
		return nil
	}
	return s.SaveCurrent()
}

// Next moves to the following image. It reports false at the end.
func (s *Session) Next() (bool, error) {
	if s.Dataset == nil {
		return false, ErrNoDataset
	}
	if s.index >= s.Dataset.Len()-1 {
		return false, nil
	}
	return true, s.Goto(s.index + 1)
}

// Prev moves to the preceding image. It reports false at the start.
func (s *Session) Prev() (bool, error) {
	if s.Dataset == nil {
		return false, ErrNoDataset
	}
	if s.index <= 0 {
		return false, nil
	}
	return true, s.Goto(s.index - 1)
}

// SkipToUnlabeled saves and jumps to the next image without a label file,
// wrapping around. It reports false when every image is labeled.
func (s *Session) SkipToUnlabeled() (bool, error) {
	if s.Dataset == nil {
		return false, ErrNoDataset
	}
	if err := s.idle(); err != nil {
		return false, err
	}
	if err := s.saveIfLoaded(); err != nil {
		return false, err
	}
	i, wrapped, ok := s.Dataset.NextUnlabeled(s.index)
	if !ok {
		s.info("all images are labeled")
		return false, nil
	}
	s.info("skipped to unlabeled image", "index", i+1, "total", s.Dataset.Len(), "wrapped", wrapped)
	return true, s.switchTo(i)
}

// SetSelectedAngle sets the draw angle and, if a label is selected, its angle.
func (s *Session) SetSelectedAngle(deg float64) error {
	s.Machine.SetDrawAngle(deg)
	if i := s.Machine.Selected(); i >= 0 {
		_, err := s.Store.Update(i, labels.Patch{Angle: labels.Ptr(deg)})
		return err
	}
	return nil
}

// UpdateSelected applies p to the selected label through the store, which
// clamps the result. It needs a selection and no active gesture.
func (s *Session) UpdateSelected(p labels.Patch) (labels.Label, error) {
	if err := s.idle(); err != nil {
		return labels.Label{}, err
	}
	i := s.Machine.Selected()
	if i < 0 {
		return labels.Label{}, fmt.Errorf("update selection: %w", labels.ErrNoLabel)
	}
	return s.Store.Update(i, p)
}

// ClearLabels removes every label of the current image.
func (s *Session) ClearLabels() error {
	if err := s.idle(); err != nil {
		return err
	}
	s.Store.Clear()
	return nil
}

// AddClass appends a class and persists the config.
func (s *Session) AddClass(name string) (int, error) {
	id, err := s.Classes.Add(name)
	if err != nil {
		return -1, err
	}
	return id, s.saveClasses()
}

// RemoveClass deletes class i and persists the config. Existing labels keep
// their ids.
func (s *Session) RemoveClass(i int) error {
	if err := s.Classes.Remove(i); err != nil {
		return err
	}
	return s.saveClasses()
}

// ImportClasses replaces the class table from a class list file.
func (s *Session) ImportClasses(path string) (int, error) {
	names, err := labels.LoadClasses(path)
	if err != nil {
		return 0, err
	}
	s.Classes.Replace(names)
	return s.Classes.Len(), s.saveClasses()
}

// ExportClasses writes the class table to a class list file.
func (s *Session) ExportClasses(path string) error {
	return labels.SaveClasses(path, s.Classes.Names())
}

func (s *Session) saveClasses() error {
	s.Config.Classes = s.Classes.Names()
	if s.CfgPath == "" {
		return nil
	}
	if err := s.Config.Save(s.CfgPath); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

func (s *Session) saveProgress() {
	if s.CfgPath == "" {
		return
	}
	if err := s.Progress.Save(s.Config.ProgressPath(s.CfgPath)); err != nil && s.Logger != nil {
		s.Logger.Warn("progress save failed", "error", err)
	}
}

// ProgressText implements presenter.ProgressSource.
func (s *Session) ProgressText() string {
	if s.Dataset == nil {
		return dataset.Progress{}.String()
	}
	return dataset.Progress{Labeled: len(s.Progress.LabeledImages), Total: s.Dataset.Len()}.String()
}

// Title implements presenter.ProgressSource.
func (s *Session) Title() string {
	if s.Dataset == nil || s.index < 0 {
		return "OBB Labeling Tool"
	}
	return fmt.Sprintf("OBB Labeling Tool - %s (%d/%d)", s.CurrentImage(), s.index+1, s.Dataset.Len())
}

func (s *Session) info(msg string, args ...any) {
	if s.Logger != nil {
		s.Logger.Info(msg, args...)
	}
}
