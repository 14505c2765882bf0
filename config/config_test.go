package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "none.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Classes) != 1 || cfg.Classes[0] != "object" {
		t.Fatalf("expected default class, got %v", cfg.Classes)
	}
}

func TestLoad_UnreadableDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err == nil {
		t.Fatalf("expected decode error")
	}
	if len(cfg.Classes) != 1 || cfg.Classes[0] != "object" {
		t.Fatalf("expected default class on bad file, got %v", cfg.Classes)
	}
}

func TestLoad_EmptyClassesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.json")
	if err := os.WriteFile(path, []byte(`{"classes": ["", "  "], "handle_tolerance": -4}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Classes) != 1 || cfg.Classes[0] != "object" {
		t.Fatalf("expected default class, got %v", cfg.Classes)
	}
	if cfg.HandleTolerance != 10 {
		t.Fatalf("expected tolerance reset, got %v", cfg.HandleTolerance)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.json")
	cfg := DefaultConfig()
	cfg.Classes = []string{"car", "person"}
	cfg.DrawAngle = 12
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Classes) != 2 || got.Classes[1] != "person" || got.DrawAngle != 12 {
		t.Fatalf("unexpected config %+v", got)
	}
	if got.ProgressPath(path) != filepath.Join(filepath.Dir(path), ".obb_label_tool_progress.json") {
		t.Fatalf("unexpected progress path %s", got.ProgressPath(path))
	}
}

func TestProgress_MarkAndPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.json")
	p, err := LoadProgress(path)
	if err != nil || len(p.LabeledImages) != 0 {
		t.Fatalf("expected empty progress, got %v %v", p, err)
	}
	if !p.Mark("b.png") || !p.Mark("a.png") || p.Mark("a.png") {
		t.Fatalf("unexpected Mark results")
	}
	if err := p.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := LoadProgress(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.LabeledImages) != 2 || got.LabeledImages[0] != "a.png" || !got.Has("b.png") {
		t.Fatalf("unexpected progress %+v", got)
	}
}
