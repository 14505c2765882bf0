package interaction

import (
	"errors"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/soocke/obb-label-go/domain/geometry"
	"github.com/soocke/obb-label-go/domain/labels"
)

// ErrGestureActive is returned by mode switches attempted mid-gesture.
var ErrGestureActive = errors.New("gesture in progress")

// Mode selects how pointer events are interpreted.
type Mode int

const (
	ModeDraw Mode = iota
	ModeEdit
	ModeRotate
)

func (m Mode) String() string {
	switch m {
	case ModeDraw:
		return "draw"
	case ModeEdit:
		return "edit"
	case ModeRotate:
		return "rotate"
	default:
		return "unknown"
	}
}

// Hint is the status line shown while the mode is active.
func (m Mode) Hint() string {
	switch m {
	case ModeDraw:
		return "Draw Mode: Click and drag to draw bounding boxes"
	case ModeEdit:
		return "Edit Mode: Drag corners to resize, drag center to move"
	case ModeRotate:
		return "Orientation Mode: Drag to rotate selected label"
	default:
		return ""
	}
}

// ParseMode maps a mode name to a Mode.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "draw":
		return ModeDraw, true
	case "edit":
		return ModeEdit, true
	case "rotate", "orientation":
		return ModeRotate, true
	}
	return 0, false
}

// GestureKind names the variant of a Gesture.
type GestureKind int

const (
	GestureIdle GestureKind = iota
	GestureDrawing
	GestureDragging
	GestureResizing
	GestureRotating
)

func (k GestureKind) String() string {
	switch k {
	case GestureIdle:
		return "idle"
	case GestureDrawing:
		return "drawing"
	case GestureDragging:
		return "dragging"
	case GestureResizing:
		return "resizing"
	case GestureRotating:
		return "rotating"
	default:
		return "unknown"
	}
}

// Gesture is the active pointer-down-to-pointer-up interaction. Exactly one
// of the variants below is active at a time.
type Gesture interface {
	Kind() GestureKind
	isGesture()
}

// Idle is the resting gesture.
type Idle struct{}

// Drawing previews the rectangle between Start and Current.
type Drawing struct {
	Start   r2.Vec
	Current r2.Vec
}

// Dragging moves label Index; Offset is the pointer minus the box center at
// gesture start.
type Dragging struct {
	Index    int
	Start    r2.Vec
	Offset   r2.Vec
	Snapshot labels.Label
}

// Resizing drags one handle of label Index relative to Snapshot.
type Resizing struct {
	Index    int
	Handle   geometry.Handle
	Snapshot labels.Label
}

// Rotating points label Index at the pointer. Snapshot only serves Cancel.
type Rotating struct {
	Index    int
	Snapshot labels.Label
}

func (Idle) Kind() GestureKind     { return GestureIdle }
func (Drawing) Kind() GestureKind  { return GestureDrawing }
func (Dragging) Kind() GestureKind { return GestureDragging }
func (Resizing) Kind() GestureKind { return GestureResizing }
func (Rotating) Kind() GestureKind { return GestureRotating }

func (Idle) isGesture()     {}
func (Drawing) isGesture()  {}
func (Dragging) isGesture() {}
func (Resizing) isGesture() {}
func (Rotating) isGesture() {}

// State is a comparable snapshot of the machine for observers.
type State struct {
	Mode     Mode
	Gesture  GestureKind
	Selected int // -1 when nothing is selected
	// Preview is the pending draw rectangle in image pixels; zero unless drawing.
	Preview geometry.Box
}

// StateListener is called after each observable state change.
type StateListener func(prev, next State)

// Cursor is a pointer-shape hint for the hosting view.
type Cursor int

const (
	CursorArrow Cursor = iota
	CursorCross
	CursorMove
	CursorOpenHand
)

func (c Cursor) String() string {
	switch c {
	case CursorArrow:
		return "arrow"
	case CursorCross:
		return "cross"
	case CursorMove:
		return "move"
	case CursorOpenHand:
		return "open-hand"
	default:
		return "unknown"
	}
}
