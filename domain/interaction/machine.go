// Package interaction turns pointer events into label edits. The Machine is
// synchronous: each event is handled to completion on the caller's goroutine.
package interaction

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/soocke/obb-label-go/domain/geometry"
	"github.com/soocke/obb-label-go/domain/labels"
)

// Machine owns the mode, the active gesture and the selection.
type Machine struct {
	store     *labels.Store
	classes   *labels.ClassTable
	logger    *slog.Logger
	tolerance float64
	drawAngle float64

	mode      Mode
	gesture   Gesture
	selected  int
	last      State
	listeners []StateListener
}

// NewMachine returns a machine in draw mode with nothing selected. A
// non-positive tolerance selects geometry.DefaultTolerance.
func NewMachine(store *labels.Store, classes *labels.ClassTable, logger *slog.Logger, tolerance float64) *Machine {
	if tolerance <= 0 {
		tolerance = geometry.DefaultTolerance
	}
	m := &Machine{
		store:     store,
		classes:   classes,
		logger:    logger,
		tolerance: tolerance,
		mode:      ModeDraw,
		gesture:   Idle{},
		selected:  -1,
	}
	m.last = m.State()
	store.AddListener(m.onStoreChange)
	return m
}

// AddListener registers l for state changes.
func (m *Machine) AddListener(l StateListener) { m.listeners = append(m.listeners, l) }

// State returns the current observable state.
func (m *Machine) State() State {
	s := State{Mode: m.mode, Gesture: m.gesture.Kind(), Selected: m.selected}
	if d, ok := m.gesture.(Drawing); ok {
		c, w, h := geometry.Span(d.Start, d.Current)
		s.Preview = geometry.Box{Center: c, Width: w, Height: h}
	}
	return s
}

func (m *Machine) Mode() Mode         { return m.mode }
func (m *Machine) Gesture() Gesture   { return m.gesture }
func (m *Machine) Selected() int      { return m.selected }
func (m *Machine) Tolerance() float64 { return m.tolerance }

// SelectedLabel returns the selected label, if any.
func (m *Machine) SelectedLabel() (labels.Label, bool) {
	if m.selected < 0 {
		return labels.Label{}, false
	}
	return m.store.Label(m.selected)
}

// SetMode switches mode. It is rejected while a gesture is active.
func (m *Machine) SetMode(mode Mode) error {
	if m.gesture.Kind() != GestureIdle {
		return fmt.Errorf("switch to %s mode: %w", mode, ErrGestureActive)
	}
	m.mode = mode
	m.emit()
	return nil
}

// SetDrawAngle sets the angle given to newly drawn labels.
func (m *Machine) SetDrawAngle(deg float64) { m.drawAngle = deg }

// DrawAngle returns the angle given to newly drawn labels.
func (m *Machine) DrawAngle() float64 { return m.drawAngle }

// Select makes label i the selection. -1 clears it.
func (m *Machine) Select(i int) error {
	if i != -1 {
		if _, ok := m.store.Label(i); !ok {
			return fmt.Errorf("select %d: %w", i, labels.ErrNoLabel)
		}
	}
	m.selected = i
	m.emit()
	return nil
}

// ClearSelection drops the selection.
func (m *Machine) ClearSelection() { _ = m.Select(-1) }

// DeleteSelected removes the selected label. It reports whether one was removed.
func (m *Machine) DeleteSelected() bool {
	if m.selected < 0 {
		return false
	}
	return m.store.Remove(m.selected) == nil
}

func (m *Machine) onStoreChange(c labels.Change) {
	if !c.Kind.Structural() {
		return
	}
	m.selected = -1
	if m.gesture.Kind() != GestureIdle && m.gesture.Kind() != GestureDrawing {
		m.gesture = Idle{}
	}
	m.emit()
}

func (m *Machine) imageSize() (float64, float64, bool) {
	w, h := m.store.ImageSize()
	return float64(w), float64(h), w > 0 && h > 0
}

// PointerDown starts a gesture according to the mode. It is ignored while
// another gesture is active or no image is loaded.
func (m *Machine) PointerDown(p r2.Vec) {
	if m.gesture.Kind() != GestureIdle {
		return
	}
	if _, _, ok := m.imageSize(); !ok {
		return
	}
	switch m.mode {
	case ModeDraw:
		m.gesture = Drawing{Start: p, Current: p}
	case ModeEdit:
		m.editDown(p)
	case ModeRotate:
		if l, ok := m.SelectedLabel(); ok {
			m.gesture = Rotating{Index: m.selected, Snapshot: l}
		}
	}
	m.emit()
}

func (m *Machine) editDown(p r2.Vec) {
	iw, ih := m.store.ImageSize()
	if l, ok := m.SelectedLabel(); ok {
		box := l.Pixels(iw, ih)
		if h, hit := geometry.NearestHandle(p, box, m.tolerance); hit {
			if h == geometry.HandleCenter {
				m.gesture = Dragging{Index: m.selected, Start: p, Offset: r2.Sub(p, box.Center), Snapshot: l}
			} else {
				m.gesture = Resizing{Index: m.selected, Handle: h, Snapshot: l}
			}
			return
		}
		if box.Contains(p) {
			m.gesture = Dragging{Index: m.selected, Start: p, Offset: r2.Sub(p, box.Center), Snapshot: l}
			return
		}
	}
	for i, l := range m.store.Labels() {
		if l.Pixels(iw, ih).Contains(p) {
			m.selected = i
			if m.logger != nil {
				m.logger.Debug("label selected", "index", i, "class", m.classes.Name(l.ClassID))
			}
			return
		}
	}
}

// PointerMove advances the active gesture. Without one it does nothing.
func (m *Machine) PointerMove(p r2.Vec) {
	w, h, ok := m.imageSize()
	if !ok {
		return
	}
	switch g := m.gesture.(type) {
	case Drawing:
		g.Current = p
		m.gesture = g
	case Dragging:
		c := r2.Sub(p, g.Offset)
		_, _ = m.store.Update(g.Index, labels.Patch{XCenter: labels.Ptr(c.X / w), YCenter: labels.Ptr(c.Y / h)})
	case Resizing:
		_, _ = m.store.Update(g.Index, m.resize(g, p, w, h))
	case Rotating:
		l, ok := m.store.Label(g.Index)
		if !ok {
			return
		}
		center := r2.Vec{X: l.XCenter * w, Y: l.YCenter * h}
		_, _ = m.store.Update(g.Index, labels.Patch{Angle: labels.Ptr(geometry.AngleTo(center, p))})
	default:
		return
	}
	m.emit()
}

// resize derives the new box from the gesture snapshot so repeated moves
// never accumulate drift. Corner drags take the axis-aligned bounds of the
// snapshot corners with the dragged one replaced; edge drags scale one
// dimension about the fixed center.
func (m *Machine) resize(g Resizing, p r2.Vec, w, h float64) labels.Patch {
	box := g.Snapshot.Pixels(int(w), int(h))
	switch {
	case g.Handle.IsCorner():
		cs := box.Corners()
		cs[g.Handle] = p
		min, max := geometry.Bounds(cs[:])
		return labels.Patch{
			XCenter: labels.Ptr((min.X + max.X) / 2 / w),
			YCenter: labels.Ptr((min.Y + max.Y) / 2 / h),
			Width:   labels.Ptr((max.X - min.X) / w),
			Height:  labels.Ptr((max.Y - min.Y) / h),
		}
	case g.Handle == geometry.HandleTop || g.Handle == geometry.HandleBottom:
		f := math.Abs(p.Y-box.Center.Y) / (box.Height / 2)
		return labels.Patch{Height: labels.Ptr(g.Snapshot.Height * f)}
	case g.Handle == geometry.HandleLeft || g.Handle == geometry.HandleRight:
		f := math.Abs(p.X-box.Center.X) / (box.Width / 2)
		return labels.Patch{Width: labels.Ptr(g.Snapshot.Width * f)}
	}
	return labels.Patch{}
}

// PointerUp ends the active gesture. A draw gesture commits its rectangle as
// a new label of the active class; the selection is left alone.
func (m *Machine) PointerUp(p r2.Vec) {
	if g, ok := m.gesture.(Drawing); ok {
		iw, ih := m.store.ImageSize()
		c, bw, bh := geometry.Span(g.Start, p)
		l := labels.FromPixels(m.classes.Active(), geometry.Box{Center: c, Width: bw, Height: bh, Angle: m.drawAngle}, iw, ih)
		// Back to idle before the add so listeners observe a settled machine.
		m.gesture = Idle{}
		i := m.store.Add(l)
		if m.logger != nil {
			m.logger.Info("label added", "index", i, "class", m.classes.Name(l.ClassID))
		}
	}
	m.gesture = Idle{}
	m.emit()
}

// Cancel aborts the active gesture, restoring the label it was editing from
// the gesture snapshot. A pending draw is discarded.
func (m *Machine) Cancel() {
	switch g := m.gesture.(type) {
	case Dragging:
		_ = m.store.Set(g.Index, g.Snapshot)
	case Resizing:
		_ = m.store.Set(g.Index, g.Snapshot)
	case Rotating:
		_ = m.store.Set(g.Index, g.Snapshot)
	case Idle:
		return
	}
	m.gesture = Idle{}
	if m.logger != nil {
		m.logger.Debug("gesture cancelled")
	}
	m.emit()
}

// Hover returns the cursor the view should show with the pointer at p.
func (m *Machine) Hover(p r2.Vec) Cursor {
	switch m.mode {
	case ModeDraw:
		return CursorCross
	case ModeRotate:
		return CursorMove
	}
	iw, ih := m.store.ImageSize()
	ls := m.store.Labels()
	for _, l := range ls {
		if h, ok := geometry.NearestHandle(p, l.Pixels(iw, ih), m.tolerance); ok && h != geometry.HandleCenter {
			return CursorMove
		}
	}
	for _, l := range ls {
		if l.Pixels(iw, ih).Contains(p) {
			return CursorOpenHand
		}
	}
	return CursorArrow
}

func (m *Machine) emit() {
	next := m.State()
	prev := m.last
	if prev == next {
		return
	}
	m.last = next
	if m.logger != nil && (prev.Mode != next.Mode || prev.Gesture != next.Gesture) {
		m.logger.Debug("interaction state transition",
			"from_mode", prev.Mode.String(), "to_mode", next.Mode.String(),
			"from_gesture", prev.Gesture.String(), "to_gesture", next.Gesture.String())
	}
	for _, l := range m.listeners {
		l(prev, next)
	}
}
