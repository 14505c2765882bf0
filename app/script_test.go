package app

import (
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/soocke/obb-label-go/config"
	"github.com/soocke/obb-label-go/domain/interaction"
)

func openImage(t *testing.T) *Session {
	t.Helper()
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "img.png"), 200, 100)
	s := BuildSession(config.DefaultConfig(), "", discardLogger, Views{})
	if err := s.OpenImage(filepath.Join(dir, "img.png")); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestRunScript_DrawEditRotate(t *testing.T) {
	s := openImage(t)
	script := `
# draw, select, then move the box right by 20px
down 50 25
move 150 75
up 150 75
mode edit
down 100 50
up 100 50
down 100 50
move 120 50
up 120 50
mode rotate
down 110 50
move 120 100
up 120 100
`
	n, err := RunScript(s, strings.NewReader(script))
	if err != nil || n != 13 {
		t.Fatalf("run: %d %v", n, err)
	}
	l, ok := s.Store.Label(0)
	if !ok {
		t.Fatalf("expected a label")
	}
	if math.Abs(l.XCenter-0.6) > 1e-9 || math.Abs(l.YCenter-0.5) > 1e-9 {
		t.Fatalf("unexpected center %v,%v", l.XCenter, l.YCenter)
	}
	if math.Abs(l.Angle-90) > 1e-9 {
		t.Fatalf("expected angle 90, got %v", l.Angle)
	}
	if s.Machine.Mode() != interaction.ModeRotate {
		t.Fatalf("unexpected mode %v", s.Machine.Mode())
	}
}

func TestRunScript_Errors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   int
	}{
		{"unknown command", "jump 1 2", 0},
		{"bad mode", "mode sideways", 0},
		{"missing coordinate", "down 1", 0},
		{"bad number", "down 1 x", 0},
		{"no such label", "select 3", 0},
		{"mode mid gesture", "down 10 10\nmode edit", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := openImage(t)
			n, err := RunScript(s, strings.NewReader(tt.script))
			if err == nil {
				t.Fatalf("expected error")
			}
			if n != tt.want {
				t.Fatalf("expected %d commands before failure, got %d", tt.want, n)
			}
		})
	}
	s := openImage(t)
	_, err := RunScript(s, strings.NewReader("down 10 10\nmode edit"))
	if !errors.Is(err, interaction.ErrGestureActive) {
		t.Fatalf("expected ErrGestureActive, got %v", err)
	}
}

func TestRunScript_ClassAndCancel(t *testing.T) {
	s := openImage(t)
	s.Classes.Add("car")
	script := "class 1\nangle 30\ndown 0 0\nmove 100 100\nup 100 100\nmode edit\nselect 0\ndown 50 50\nmove 80 80\ncancel\n"
	if _, err := RunScript(s, strings.NewReader(script)); err != nil {
		t.Fatal(err)
	}
	l, _ := s.Store.Label(0)
	if l.ClassID != 1 || l.Angle != 30 {
		t.Fatalf("unexpected label %+v", l)
	}
	if l.XCenter != 0.25 || l.YCenter != 0.5 {
		t.Fatalf("cancel should restore the label, got %+v", l)
	}
	if _, err := RunScript(s, strings.NewReader("select 0\ndelete\n")); err != nil || s.Store.Len() != 0 {
		t.Fatalf("delete failed: %v %d", err, s.Store.Len())
	}
}

func TestRunScript_ViewMapsDevicePixels(t *testing.T) {
	s := openImage(t)
	// 200x100 fitted into 400x400: scale 2, image top at y=100.
	script := "view 400 400\npan 20 0\nfit\ndown 100 150\nmove 300 250\nup 300 250\n"
	if _, err := RunScript(s, strings.NewReader(script)); err != nil {
		t.Fatal(err)
	}
	l, ok := s.Store.Label(0)
	if !ok {
		t.Fatalf("expected a label")
	}
	if l.XCenter != 0.5 || l.YCenter != 0.5 || l.Width != 0.5 || l.Height != 0.5 {
		t.Fatalf("unexpected label %+v", l)
	}
	if _, err := RunScript(s, strings.NewReader("zoom 2 200 200\nwheel 1 0 0\n")); err != nil {
		t.Fatal(err)
	}
	if got := s.View.Scale; math.Abs(got-4.4) > 1e-9 {
		t.Fatalf("expected scale 4.4, got %v", got)
	}
	if _, err := RunScript(s, strings.NewReader("zoom 2 1\n")); err == nil {
		t.Fatalf("expected argument error")
	}
}

func TestRunScript_SetEditsSelectedLabel(t *testing.T) {
	s := openImage(t)
	script := "down 50 25\nup 150 75\nmode edit\nselect 0\nset class 3\nset x 1.4\nset h -2\nset angle 45\n"
	if _, err := RunScript(s, strings.NewReader(script)); err != nil {
		t.Fatal(err)
	}
	l, _ := s.Store.Label(0)
	if l.ClassID != 3 || l.XCenter != 1 || l.Height != 0.001 || l.Angle != 45 || l.Width != 0.5 {
		t.Fatalf("unexpected label %+v", l)
	}
	for _, bad := range []string{"set class x", "set depth 1", "set x", "select -1\nset w 0.3"} {
		if _, err := RunScript(s, strings.NewReader(bad)); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}
