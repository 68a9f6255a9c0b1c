package kit

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/boergens/parafmt/layout/inline"
)

func newTestWorld(t *testing.T) *World {
	t.Helper()
	w, err := NewWorld(t.TempDir())
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	return w
}

func TestLoadConfigFileMergesOntoDefaults(t *testing.T) {
	w := newTestWorld(t)
	path := filepath.Join(w.Root(), "parafmt.toml")
	doc := `
justify = true
line_breaks = "optimized"
font_size = 10.5
hyphenate = true
lang = "de"

[costs]
hyphenation = 0.8
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if err := w.LoadConfigFile("parafmt.toml"); err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}

	cfg := w.Config
	if !cfg.Justify || cfg.LineBreaks != "optimized" || cfg.FontSize != 10.5 {
		t.Fatalf("loaded config = %+v, want the TOML values applied", cfg)
	}
	if !cfg.Hyphenate || cfg.Lang != "de" {
		t.Fatalf("hyphenate/lang = %v/%q, want true/de", cfg.Hyphenate, cfg.Lang)
	}
	if cfg.Costs.Hyphenation != 0.8 {
		t.Fatalf("costs.hyphenation = %v, want 0.8", cfg.Costs.Hyphenation)
	}
	// Keys the file doesn't set keep their defaults.
	if cfg.Leading != DefaultConfig().Leading {
		t.Fatalf("leading = %v, want default %v", cfg.Leading, DefaultConfig().Leading)
	}
}

func TestLoadConfigFileMissingIsFileNotFound(t *testing.T) {
	w := newTestWorld(t)
	err := w.LoadConfigFile("nope.toml")
	var nf *FileNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v, want *FileNotFoundError", err)
	}
}

func TestConfigResolve(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Justify = true
	cfg.LineBreaks = "simple"
	cfg.FontSize = 12
	cfg.Leading = 7
	cfg.Indent = 14

	resolved := cfg.Resolve()
	if !resolved.Justify {
		t.Fatalf("Justify not carried over")
	}
	if resolved.Linebreaks != inline.LineBreaksSimple {
		t.Fatalf("Linebreaks = %v, want Simple", resolved.Linebreaks)
	}
	if resolved.FontSize != 12 || resolved.Leading != 7 || resolved.Indent != 14 {
		t.Fatalf("lengths not carried over: %+v", resolved)
	}
	if resolved.Costs.Hyphenation != 1.0 {
		t.Fatalf("Costs.Hyphenation = %v, want the 1.0 default", resolved.Costs.Hyphenation)
	}
}

func TestParseLineBreaks(t *testing.T) {
	tests := []struct {
		in   string
		want inline.LineBreaks
	}{
		{"simple", inline.LineBreaksSimple},
		{"Optimized", inline.LineBreaksOptimized},
		{"auto", inline.LineBreaksAuto},
		{"", inline.LineBreaksAuto},
		{"garbage", inline.LineBreaksAuto},
	}
	for _, tt := range tests {
		if got := parseLineBreaks(tt.in); got != tt.want {
			t.Errorf("parseLineBreaks(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWorldFacesMissingFile(t *testing.T) {
	w := newTestWorld(t)
	_, err := w.Faces("missing.ttf")
	var nf *FileNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v, want *FileNotFoundError", err)
	}
}

func TestNewWorldRejectsMissingRoot(t *testing.T) {
	if _, err := NewWorld(filepath.Join(os.TempDir(), "parafmt-does-not-exist")); err == nil {
		t.Fatalf("NewWorld succeeded for a nonexistent root")
	}
}
