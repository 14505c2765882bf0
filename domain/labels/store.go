package labels

import (
	"fmt"
	"log/slog"
)

// ChangeKind classifies a store mutation.
type ChangeKind int

const (
	ChangeAdded ChangeKind = iota
	ChangeUpdated
	ChangeRemoved
	ChangeCleared
	ChangeReplaced
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeAdded:
		return "added"
	case ChangeUpdated:
		return "updated"
	case ChangeRemoved:
		return "removed"
	case ChangeCleared:
		return "cleared"
	case ChangeReplaced:
		return "replaced"
	default:
		return "unknown"
	}
}

// Structural reports whether the change can invalidate a stored index.
// Appending never does.
func (k ChangeKind) Structural() bool {
	return k == ChangeRemoved || k == ChangeCleared || k == ChangeReplaced
}

// Change is delivered to store listeners after each mutation.
type Change struct {
	Kind  ChangeKind
	Index int // -1 for whole-document changes
}

// ChangeListener observes store mutations.
type ChangeListener func(Change)

// Store owns the current document and is the only place labels are clamped.
// It is not safe for concurrent use.
type Store struct {
	doc       *Document
	logger    *slog.Logger
	listeners []ChangeListener
}

// NewStore returns a store holding an empty document of the given size.
func NewStore(imageW, imageH int, logger *slog.Logger) *Store {
	return &Store{doc: &Document{ImageWidth: imageW, ImageHeight: imageH}, logger: logger}
}

// AddListener registers l for every subsequent mutation.
func (s *Store) AddListener(l ChangeListener) { s.listeners = append(s.listeners, l) }

func (s *Store) notify(c Change) {
	for _, l := range s.listeners {
		l(c)
	}
}

// Document returns a copy of the current document.
func (s *Store) Document() *Document { return s.doc.Clone() }

// ImageSize returns the pixel dimensions the labels are relative to.
func (s *Store) ImageSize() (int, int) { return s.doc.ImageWidth, s.doc.ImageHeight }

// Len returns the number of labels.
func (s *Store) Len() int { return len(s.doc.Labels) }

// Labels returns a copy of the labels in order.
func (s *Store) Labels() []Label { return append([]Label(nil), s.doc.Labels...) }

// Label returns the label at i.
func (s *Store) Label(i int) (Label, bool) {
	if i < 0 || i >= len(s.doc.Labels) {
		return Label{}, false
	}
	return s.doc.Labels[i], true
}

// Add clamps l, appends it and returns its index.
func (s *Store) Add(l Label) int {
	s.doc.Labels = append(s.doc.Labels, l.Clamped())
	i := len(s.doc.Labels) - 1
	s.notify(Change{Kind: ChangeAdded, Index: i})
	return i
}

// Update applies p to the label at i, clamps the result and stores it.
func (s *Store) Update(i int, p Patch) (Label, error) {
	if i < 0 || i >= len(s.doc.Labels) {
		return Label{}, fmt.Errorf("update %d: %w", i, ErrNoLabel)
	}
	l := p.Apply(s.doc.Labels[i]).Clamped()
	s.doc.Labels[i] = l
	s.notify(Change{Kind: ChangeUpdated, Index: i})
	return l, nil
}

// Set replaces the label at i with a clamped l.
func (s *Store) Set(i int, l Label) error {
	if i < 0 || i >= len(s.doc.Labels) {
		return fmt.Errorf("set %d: %w", i, ErrNoLabel)
	}
	s.doc.Labels[i] = l.Clamped()
	s.notify(Change{Kind: ChangeUpdated, Index: i})
	return nil
}

// Remove deletes the label at i.
func (s *Store) Remove(i int) error {
	if i < 0 || i >= len(s.doc.Labels) {
		return fmt.Errorf("remove %d: %w", i, ErrNoLabel)
	}
	s.doc.Labels = append(s.doc.Labels[:i], s.doc.Labels[i+1:]...)
	s.notify(Change{Kind: ChangeRemoved, Index: i})
	return nil
}

// Clear removes every label but keeps the image size.
func (s *Store) Clear() {
	s.doc.Labels = nil
	s.notify(Change{Kind: ChangeCleared, Index: -1})
}

// Replace installs doc wholesale, clamping its labels. A nil doc empties the
// store and keeps the current image size.
func (s *Store) Replace(doc *Document) {
	if doc == nil {
		doc = &Document{ImageWidth: s.doc.ImageWidth, ImageHeight: s.doc.ImageHeight}
	}
	d := &Document{ImageWidth: doc.ImageWidth, ImageHeight: doc.ImageHeight}
	for _, l := range doc.Labels {
		d.Labels = append(d.Labels, l.Clamped())
	}
	s.doc = d
	s.notify(Change{Kind: ChangeReplaced, Index: -1})
}

// Load replaces the document with the labels stored at path for an image of
// the given size. On failure the current document is kept.
func (s *Store) Load(path string, imageW, imageH int) error {
	doc, skipped, err := LoadDocument(path, imageW, imageH)
	for _, le := range skipped {
		if s.logger != nil {
			s.logger.Debug("label line skipped", "path", path, "line", le.Line, "error", le.Err)
		}
	}
	if err != nil {
		if s.logger != nil {
			s.logger.Error("label load failed", "path", path, "error", err)
		}
		return err
	}
	s.Replace(doc)
	if s.logger != nil {
		s.logger.Info("labels loaded", "path", path, "count", len(doc.Labels), "skipped", len(skipped))
	}
	return nil
}

// Save writes the current document to path.
func (s *Store) Save(path string) error {
	if err := SaveDocument(path, s.doc); err != nil {
		if s.logger != nil {
			s.logger.Error("label save failed", "path", path, "error", err)
		}
		return err
	}
	if s.logger != nil {
		s.logger.Info("labels saved", "path", path, "count", len(s.doc.Labels))
	}
	return nil
}
