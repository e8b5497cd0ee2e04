package config

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/orbit/engine/core"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default configuration should validate: %v", err)
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
[renderer]
backend = "headless"
headless_frames = 10
clear_color = "black"

[scene]
units = 3
palette = ["red"]
`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Renderer.Backend != BackendHeadless || cfg.Renderer.HeadlessFrames != 10 {
		t.Fatalf("renderer section not applied: %+v", cfg.Renderer)
	}
	if cfg.Application.StartWidth != 1280 {
		t.Fatalf("untouched sections keep defaults, got width %d", cfg.Application.StartWidth)
	}
	if cfg.Frame.MaxDelta != 0.1 {
		t.Fatalf("max delta default should be 0.1, got %v", cfg.Frame.MaxDelta)
	}
	palette := cfg.PaletteRGBA()
	if len(palette) != 1 || palette[0] != (color.RGBA{0xff, 0, 0, 0xff}) {
		t.Fatalf("palette should be replaced, got %v", palette)
	}
	if cfg.ClearColorRGBA() != (color.RGBA{0, 0, 0, 0xff}) {
		t.Fatalf("unexpected clear colour %v", cfg.ClearColorRGBA())
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown field", "[renderer]\nbogus = 1\n"},
		{"unknown backend", "[renderer]\nbackend = \"metal\"\n"},
		{"unknown colour", "[scene]\npalette = [\"notacolour\"]\n"},
		{"zero width", "[application]\nstart_width = 0\n"},
		{"bad camera limits", "[camera]\nmin_distance = 10.0\nmax_distance = 5.0\n"},
		{"negative delta", "[frame]\nmax_delta = -1.0\n"},
		{"malformed", "[scene\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if !errors.Is(err, core.ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("missing file should fall back to defaults: %v", err)
	}
	if cfg.Application.Name != Default().Application.Name {
		t.Fatal("expected defaults")
	}
	if cfg.Path != "" {
		t.Fatalf("defaults have no source path, got %q", cfg.Path)
	}

	path := filepath.Join(t.TempDir(), "engine.toml")
	if err := os.WriteFile(path, []byte("[application]\nname = \"custom\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Application.Name != "custom" {
		t.Fatalf("expected name from file, got %q", cfg.Application.Name)
	}
	if !filepath.IsAbs(cfg.Path) || filepath.Base(cfg.Path) != "engine.toml" {
		t.Fatalf("expected the absolute source path, got %q", cfg.Path)
	}
}

func TestShippedConfigParses(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "assets", "config", "engine.toml"))
	if err != nil {
		t.Fatalf("shipped configuration must parse: %v", err)
	}
	if cfg.Scene.Units != 24 {
		t.Fatalf("unexpected unit count %d", cfg.Scene.Units)
	}
}
