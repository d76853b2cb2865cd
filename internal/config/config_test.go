package config

import (
	"image/color"
	"math"
	"math/rand"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.SpaceBoundary != 1.7e8 {
		t.Errorf("expected space boundary 1.7e8, got %g", cfg.SpaceBoundary)
	}
	if cfg.MaxStep != 1000 || cfg.Tolerance != 1e4 {
		t.Errorf("unexpected step policy %g/%g", cfg.MaxStep, cfg.Tolerance)
	}
	if cfg.Integrator != "euler-heun" {
		t.Errorf("expected euler-heun, got %s", cfg.Integrator)
	}
	if len(cfg.Bodies) != 2 {
		t.Fatalf("expected 2 bodies, got %d", len(cfg.Bodies))
	}
	if cfg.Bodies[0].Mass != 5.97e24 || cfg.Bodies[1].Velocity.X != 4e3 {
		t.Errorf("unexpected reference bodies %+v", cfg.Bodies)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("binary")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if len(cfg.Bodies) != 2 || cfg.Bodies[0].Mass != 1e24 {
		t.Errorf("unexpected binary bodies %+v", cfg.Bodies)
	}

	cfg.Bodies[0].Mass = 1
	if Presets["binary"].Bodies[0].Mass != 1e24 {
		t.Error("GetPreset should return a copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("presets not sorted: %v", names)
		}
	}
}

func TestPresetsValid(t *testing.T) {
	for _, name := range ListPresets() {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}

func TestCircularPresetSpeed(t *testing.T) {
	probe := GetPreset("circular").Bodies[1]
	if math.Abs(probe.Velocity.X-3080.03) > 0.1 {
		t.Errorf("expected circular speed ~3080.03, got %g", probe.Velocity.X)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
		ok   bool
	}{
		{"#3c78ff", color.RGBA{R: 0x3c, G: 0x78, B: 0xff, A: 255}, true},
		{"#000000", color.RGBA{A: 255}, true},
		{"#fff", color.RGBA{R: 255, G: 255, B: 255, A: 255}, true},
		{"blue", color.RGBA{}, false},
	}

	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("ParseColor(%q) error = %v", tt.in, err)
			continue
		}
		if tt.ok && got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestHexRoundTrip(t *testing.T) {
	c := color.RGBA{R: 0x12, G: 0xab, B: 0x7f, A: 255}
	back, err := ParseColor(Hex(c))
	if err != nil {
		t.Fatal(err)
	}
	if back != c {
		t.Errorf("got %v, want %v", back, c)
	}
}

func TestRandomColorDeterministic(t *testing.T) {
	a := RandomColor(rand.New(rand.NewSource(7)))
	b := RandomColor(rand.New(rand.NewSource(7)))
	if a != b {
		t.Errorf("same seed gave %v and %v", a, b)
	}
	if a.A != 255 {
		t.Errorf("expected opaque colour, got alpha %d", a.A)
	}
}

func TestNewWorld(t *testing.T) {
	cfg := DefaultConfig()
	w, err := cfg.NewWorld()
	if err != nil {
		t.Fatal(err)
	}

	if w.Len() != 2 {
		t.Fatalf("expected 2 bodies, got %d", w.Len())
	}
	anchor, _ := w.Anchor()
	if anchor.Mass != 5.97e24 {
		t.Errorf("anchor should be the first configured body, got mass %g", anchor.Mass)
	}
	want, _ := ParseColor("#3c78ff")
	if anchor.Color != want {
		t.Errorf("anchor colour = %v, want %v", anchor.Color, want)
	}
	if w.Integrator().Name() != "euler-heun" {
		t.Errorf("unexpected integrator %s", w.Integrator().Name())
	}
	if w.Config() != cfg.World() {
		t.Errorf("world config %+v, want %+v", w.Config(), cfg.World())
	}
}

func TestNewWorld_UnknownIntegrator(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Integrator = "rk4"
	if _, err := cfg.NewWorld(); err == nil {
		t.Error("expected error for unknown integrator")
	}
}

func TestPolicy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinStep = 2
	p := cfg.Policy()
	if p.Tolerance != 1e4 || p.MaxStep != 1000 || p.MinStep != 2 {
		t.Errorf("unexpected policy %+v", p)
	}
}
