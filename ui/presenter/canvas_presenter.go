package presenter

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/soocke/obb-label-go/domain/interaction"
	"github.com/soocke/obb-label-go/domain/labels"
)

// MachineSource provides the interaction state the presenter requires.
type MachineSource interface {
	State() interaction.State
}

// LabelSource provides read access to the current document.
type LabelSource interface {
	Labels() []labels.Label
	ImageSize() (int, int)
}

// ClassNames resolves class ids to display names.
type ClassNames interface {
	Name(id int) string
}

// CanvasView renders snapshots.
type CanvasView interface {
	Render(Snapshot)
}

// LabelView is one label ready for drawing, in image pixels.
type LabelView struct {
	Index    int
	Corners  [4]r2.Vec
	Handles  []r2.Vec // only for the selection in edit mode
	Caption  string
	Row      string
	Selected bool
}

// Snapshot is an immutable picture of what the canvas should show.
type Snapshot struct {
	ImageWidth  int
	ImageHeight int
	Mode        interaction.Mode
	Status      string
	Labels      []LabelView
	Preview     *[4]r2.Vec
	Count       string
}

// CanvasPresenter collects machine and store changes and reflects them on
// the view on the next Tick.
type CanvasPresenter struct {
	machine MachineSource
	store   LabelSource
	classes ClassNames
	view    CanvasView
	dirty   bool
	latest  Snapshot
}

func NewCanvasPresenter(machine MachineSource, store LabelSource, classes ClassNames, view CanvasView) *CanvasPresenter {
	return &CanvasPresenter{machine: machine, store: store, classes: classes, view: view, dirty: true}
}

// OnState queues a redraw from a machine listener.
func (p *CanvasPresenter) OnState(prev, next interaction.State) {
	if p == nil {
		return
	}
	p.dirty = true
}

// OnChange queues a redraw from a store listener.
func (p *CanvasPresenter) OnChange(labels.Change) {
	if p == nil {
		return
	}
	p.dirty = true
}

// Tick renders a fresh snapshot when something changed since the last tick.
func (p *CanvasPresenter) Tick(now time.Time) {
	if p == nil || p.machine == nil || p.store == nil || p.view == nil {
		return
	}
	if !p.dirty {
		return
	}
	p.dirty = false
	p.latest = p.Build()
	p.view.Render(p.latest)
}

// Latest returns the last rendered snapshot.
func (p *CanvasPresenter) Latest() Snapshot { return p.latest }

// Build assembles a snapshot of the current state without rendering it.
func (p *CanvasPresenter) Build() Snapshot {
	st := p.machine.State()
	iw, ih := p.store.ImageSize()
	ls := p.store.Labels()
	snap := Snapshot{
		ImageWidth:  iw,
		ImageHeight: ih,
		Mode:        st.Mode,
		Status:      st.Mode.Hint(),
		Count:       fmt.Sprintf("%d labels", len(ls)),
	}
	for i, l := range ls {
		box := l.Pixels(iw, ih)
		lv := LabelView{
			Index:    i,
			Corners:  box.Corners(),
			Caption:  fmt.Sprintf("%s ∠%.1f°", p.name(l.ClassID), l.Angle),
			Row:      RowText(i, p.name(l.ClassID), l),
			Selected: i == st.Selected,
		}
		if lv.Selected && st.Mode == interaction.ModeEdit {
			hs := box.Handles()
			lv.Handles = hs[:]
		}
		snap.Labels = append(snap.Labels, lv)
	}
	if st.Gesture == interaction.GestureDrawing {
		cs := st.Preview.Corners()
		snap.Preview = &cs
	}
	return snap
}

func (p *CanvasPresenter) name(id int) string {
	if p.classes == nil {
		return fmt.Sprintf("Class %d", id)
	}
	return p.classes.Name(id)
}

// RowText formats a label for the label list.
func RowText(i int, name string, l labels.Label) string {
	s := fmt.Sprintf("%d: %s (x:%.3f, y:%.3f)", i, name, l.XCenter, l.YCenter)
	if l.Angle != 0 {
		s += fmt.Sprintf(" ∠%.1f°", l.Angle)
	}
	return s
}
