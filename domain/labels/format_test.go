package labels

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadLabels_SkipsMalformedLines(t *testing.T) {
	in := "0 0.5 0.5 0.2 0.1 12.5\n" +
		"1 0.5 abc 0.2 0.1\n" +
		"2 0.5 0.5\n" +
		"\n" +
		"x 0.1 0.1 0.1 0.1\n"
	ls, skipped, err := ReadLabels(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ls) != 1 {
		t.Fatalf("expected 1 label, got %d", len(ls))
	}
	if ls[0] != (Label{ClassID: 0, XCenter: 0.5, YCenter: 0.5, Width: 0.2, Height: 0.1, Angle: 12.5}) {
		t.Fatalf("unexpected label %+v", ls[0])
	}
	if len(skipped) != 3 {
		t.Fatalf("expected 3 skipped lines, got %d", len(skipped))
	}
	if skipped[0].Line != 2 || skipped[1].Line != 3 || skipped[2].Line != 5 {
		t.Fatalf("unexpected skipped line numbers: %d %d %d", skipped[0].Line, skipped[1].Line, skipped[2].Line)
	}
	if !errors.Is(skipped[1], errTooFewFields) {
		t.Fatalf("expected too-few-fields cause, got %v", skipped[1].Err)
	}
}

func TestReadLabels_AngleDefaultsToZero(t *testing.T) {
	ls, _, err := ReadLabels(strings.NewReader("3 0.1 0.2 0.3 0.4\n"))
	if err != nil || len(ls) != 1 {
		t.Fatalf("parse failed: %v %v", ls, err)
	}
	if ls[0].Angle != 0 || ls[0].ClassID != 3 {
		t.Fatalf("unexpected label %+v", ls[0])
	}
}

func TestWriteLabels_SixDecimals(t *testing.T) {
	var buf bytes.Buffer
	err := WriteLabels(&buf, []Label{{ClassID: 2, XCenter: 0.5, YCenter: 0.25, Width: 0.1, Height: 0.2, Angle: -33.3333333}})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	want := "2 0.500000 0.250000 0.100000 0.200000 -33.333333\n"
	if buf.String() != want {
		t.Fatalf("got %q want %q", buf.String(), want)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img.txt")
	doc := &Document{ImageWidth: 640, ImageHeight: 480, Labels: []Label{
		{ClassID: 0, XCenter: 0.1234567, YCenter: 0.7654321, Width: 0.3333333, Height: 0.25, Angle: 45.1234567},
		{ClassID: 4, XCenter: 1, YCenter: 0, Width: 0.001, Height: 1, Angle: -720},
	}}
	if err := SaveDocument(path, doc); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, skipped, err := LoadDocument(path, 640, 480)
	if err != nil || len(skipped) != 0 {
		t.Fatalf("load: %v skipped=%v", err, skipped)
	}
	if len(got.Labels) != len(doc.Labels) {
		t.Fatalf("expected %d labels, got %d", len(doc.Labels), len(got.Labels))
	}
	for i, want := range doc.Labels {
		g := got.Labels[i]
		if g.ClassID != want.ClassID {
			t.Fatalf("label %d class %d want %d", i, g.ClassID, want.ClassID)
		}
		for _, pair := range [][2]float64{
			{g.XCenter, want.XCenter}, {g.YCenter, want.YCenter},
			{g.Width, want.Width}, {g.Height, want.Height}, {g.Angle, want.Angle},
		} {
			if math.Abs(pair[0]-pair[1]) > 5e-7 {
				t.Fatalf("label %d field mismatch %v vs %v", i, pair[0], pair[1])
			}
		}
	}
}

func TestLoadDocument_MissingFileIsEmpty(t *testing.T) {
	doc, _, err := LoadDocument(filepath.Join(t.TempDir(), "none.txt"), 10, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Labels) != 0 || doc.ImageWidth != 10 || doc.ImageHeight != 20 {
		t.Fatalf("unexpected document %+v", doc)
	}
}

func TestLoadDocument_UnreadableIsIOError(t *testing.T) {
	// A directory exists but cannot be read as a label file.
	_, _, err := LoadDocument(t.TempDir(), 10, 10)
	if !errors.Is(err, ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
}

func TestSaveDocument_WriteFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "img.txt")
	err := SaveDocument(path, &Document{})
	if !errors.Is(err, ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected underlying not-exist error, got %v", err)
	}
}

func TestClasses_FileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "classes.txt")
	if err := SaveClasses(path, []string{"car", "truck", "bus"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := os.WriteFile(path, []byte("car\n\n truck \nbus\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	names, err := LoadClasses(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if strings.Join(names, ",") != "car,truck,bus" {
		t.Fatalf("unexpected names %v", names)
	}
}
