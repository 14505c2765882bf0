package presenter

import "time"

// Loop aggregates feature presenters and drives periodic updates.
//
// It calls Tick on the sub-presenters and invokes a scheduler callback.
// The zero value is usable (methods are nil-safe).
type Loop struct {
	Canvas   *CanvasPresenter
	Status   *StatusPresenter
	Schedule func()
}

func NewLoop(canvas *CanvasPresenter, status *StatusPresenter, schedule func()) *Loop {
	return &Loop{Canvas: canvas, Status: status, Schedule: schedule}
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	now := time.Now()
	// Flush queued machine/store changes to the canvas first so the status
	// line never describes a label the canvas has not drawn yet.
	if l.Canvas != nil {
		l.Canvas.Tick(now)
	}
	if l.Status != nil {
		l.Status.Tick(now)
	}
	if l.Schedule != nil {
		l.Schedule()
	}
}
