package presenter

import (
	"log/slog"
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/soocke/obb-label-go/domain/interaction"
	"github.com/soocke/obb-label-go/domain/labels"
)

type fakeCanvas struct {
	renders []Snapshot
}

func (f *fakeCanvas) Render(s Snapshot) { f.renders = append(f.renders, s) }

var discardLogger = slog.New(slog.NewTextHandler(&discardWriter{}, nil))

type discardWriter struct{}

func (d *discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func newFixture() (*interaction.Machine, *labels.Store, *fakeCanvas, *CanvasPresenter) {
	store := labels.NewStore(200, 100, discardLogger)
	classes := labels.NewClassTable([]string{"car"})
	m := interaction.NewMachine(store, classes, discardLogger, 0)
	view := &fakeCanvas{}
	p := NewCanvasPresenter(m, store, classes, view)
	m.AddListener(p.OnState)
	store.AddListener(p.OnChange)
	return m, store, view, p
}

func TestCanvasPresenter_RendersOnlyWhenDirty(t *testing.T) {
	_, _, view, p := newFixture()
	now := time.Unix(0, 0)
	p.Tick(now)
	p.Tick(now)
	if len(view.renders) != 1 {
		t.Fatalf("expected one render, got %d", len(view.renders))
	}
	if view.renders[0].Status != interaction.ModeDraw.Hint() {
		t.Fatalf("unexpected status %q", view.renders[0].Status)
	}
}

func TestCanvasPresenter_PreviewAndLabels(t *testing.T) {
	m, store, view, p := newFixture()
	p.Tick(time.Now())
	m.PointerDown(r2.Vec{X: 10, Y: 10})
	m.PointerMove(r2.Vec{X: 110, Y: 60})
	p.Tick(time.Now())
	last := view.renders[len(view.renders)-1]
	if last.Preview == nil || last.Preview[2] != (r2.Vec{X: 110, Y: 60}) {
		t.Fatalf("expected preview rectangle, got %v", last.Preview)
	}
	m.PointerUp(r2.Vec{X: 110, Y: 60})
	_, _ = store.Update(0, labels.Patch{Angle: labels.Ptr(30.0)})
	p.Tick(time.Now())
	last = view.renders[len(view.renders)-1]
	if last.Preview != nil || len(last.Labels) != 1 {
		t.Fatalf("expected committed label without preview, got %+v", last)
	}
	lv := last.Labels[0]
	if lv.Caption != "car ∠30.0°" || lv.Row != "0: car (x:0.300, y:0.350) ∠30.0°" {
		t.Fatalf("unexpected texts %q / %q", lv.Caption, lv.Row)
	}
	if lv.Selected || lv.Handles != nil || last.Count != "1 labels" {
		t.Fatalf("unexpected selection state %+v", lv)
	}
}

func TestCanvasPresenter_HandlesOnlyForEditSelection(t *testing.T) {
	m, store, _, p := newFixture()
	store.Add(labels.Label{ClassID: 3, XCenter: 0.5, YCenter: 0.5, Width: 0.5, Height: 0.5})
	_ = m.Select(0)
	if s := p.Build(); s.Labels[0].Handles != nil {
		t.Fatalf("handles must be hidden outside edit mode")
	}
	_ = m.SetMode(interaction.ModeEdit)
	s := p.Build()
	if len(s.Labels[0].Handles) != 8 || !s.Labels[0].Selected {
		t.Fatalf("expected 8 handles on selected label, got %+v", s.Labels[0])
	}
	if s.Labels[0].Row != "0: Class 3 (x:0.500, y:0.500)" {
		t.Fatalf("unexpected row %q", s.Labels[0].Row)
	}
}
