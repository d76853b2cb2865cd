package automation

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/slingshot/internal/config"
	"github.com/san-kum/slingshot/internal/dynamo"
	"github.com/san-kum/slingshot/internal/experiment"
	"github.com/san-kum/slingshot/internal/viz"
)

const defaultDragCanvas = 200

// Scenario is a scripted session: a starting configuration plus the
// launches a player would have made by hand.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// Preset names the starting configuration. Config, a path relative to
	// the scenario file, takes precedence.
	Preset     string       `yaml:"preset"`
	Config     string       `yaml:"config,omitempty"`
	Integrator string       `yaml:"integrator,omitempty"`
	Ticks      int          `yaml:"ticks,omitempty"`
	Seed       int64        `yaml:"seed,omitempty"`
	Stride     int          `yaml:"stride,omitempty"`
	Launches   []LaunchSpec `yaml:"launches"`
	Drags      []DragSpec   `yaml:"drags"`
	SaveAs     string       `yaml:"save_as,omitempty"`

	dir string
}

// LaunchSpec places a body directly. Zero mass or radius take the
// configured launch defaults.
type LaunchSpec struct {
	Tick     int         `yaml:"tick"`
	Position config.Vec2 `yaml:"position,flow"`
	Velocity config.Vec2 `yaml:"velocity,flow"`
	Mass     float64     `yaml:"mass,omitempty"`
	Radius   float64     `yaml:"radius,omitempty"`
}

// DragSpec replays a mouse drag on a virtual canvas of Width x Height dots.
type DragSpec struct {
	Tick   int    `yaml:"tick"`
	Width  int    `yaml:"width,omitempty"`
	Height int    `yaml:"height,omitempty"`
	From   [2]int `yaml:"from,flow"`
	To     [2]int `yaml:"to,flow"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	scenario.dir = filepath.Dir(path)
	return &scenario, nil
}

// Build resolves the scenario into an experiment configuration.
func (s *Scenario) Build(registry *experiment.Registry) (experiment.Config, error) {
	sim, err := s.base(registry)
	if err != nil {
		return experiment.Config{}, err
	}
	if s.Integrator != "" {
		sim.Integrator = s.Integrator
	}
	if s.Ticks > 0 {
		sim.Ticks = s.Ticks
	}
	if s.Seed != 0 {
		sim.Seed = s.Seed
	}
	if err := sim.Validate(); err != nil {
		return experiment.Config{}, err
	}

	launches := make([]experiment.Launch, 0, len(s.Launches)+len(s.Drags))
	for i, l := range s.Launches {
		if l.Tick < 0 {
			return experiment.Config{}, fmt.Errorf("%w: launch %d: negative tick", dynamo.ErrInvalidConfig, i)
		}
		launches = append(launches, experiment.Launch{
			Tick:     l.Tick,
			Mass:     orDefault(l.Mass, sim.Launch.Mass),
			Radius:   orDefault(l.Radius, sim.Launch.Radius),
			Position: l.Position.Vector(),
			Velocity: l.Velocity.Vector(),
		})
	}
	for i, d := range s.Drags {
		l, err := d.launch(sim)
		if err != nil {
			return experiment.Config{}, fmt.Errorf("drag %d: %w", i, err)
		}
		launches = append(launches, l)
	}

	return experiment.Config{
		Name:     s.Name,
		Sim:      sim,
		Launches: launches,
		Stride:   s.Stride,
	}, nil
}

func (s *Scenario) base(registry *experiment.Registry) (*config.Config, error) {
	if s.Config != "" {
		path := s.Config
		if !filepath.IsAbs(path) {
			path = filepath.Join(s.dir, path)
		}
		return config.Load(path)
	}
	if s.Preset == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := registry.GetPreset(s.Preset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dynamo.ErrInvalidConfig, err)
	}
	return cfg, nil
}

// launch maps the drag exactly as the interactive shell does.
func (d DragSpec) launch(sim *config.Config) (experiment.Launch, error) {
	w, h := d.Width, d.Height
	if w == 0 {
		w = defaultDragCanvas
	}
	if h == 0 {
		h = defaultDragCanvas
	}
	if w < 0 || h < 0 || d.Tick < 0 {
		return experiment.Launch{}, fmt.Errorf("%w: negative tick or canvas size", dynamo.ErrInvalidConfig)
	}
	view := viz.Viewport{Width: w, Height: h, Boundary: sim.SpaceBoundary, MaxVelocity: sim.MaxVelocity}
	if !view.Contains(d.From[0], d.From[1]) {
		return experiment.Launch{}, fmt.Errorf("%w: drag starts outside the canvas at %v", dynamo.ErrInvalidConfig, d.From)
	}
	pos, vel := view.Sling(d.From[0], d.From[1], d.To[0], d.To[1])
	return experiment.Launch{
		Tick:     d.Tick,
		Mass:     sim.Launch.Mass,
		Radius:   sim.Launch.Radius,
		Position: pos,
		Velocity: vel,
	}, nil
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

// RunScenario replays the scenario headlessly.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry) (*experiment.Result, error) {
	cfg, err := scenario.Build(registry)
	if err != nil {
		return nil, err
	}
	fmt.Printf("Running scenario %s: %d launches over %d ticks\n", scenario.Name, len(cfg.Launches), cfg.Sim.Ticks)

	exp := experiment.New(cfg)
	return exp.Run(ctx)
}
