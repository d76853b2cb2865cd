package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/slingshot/internal/dynamo"
	"github.com/san-kum/slingshot/internal/integrators"
	"github.com/san-kum/slingshot/internal/world"
)

const (
	DefaultSpaceBoundary = 1.7e8
	DefaultMaxVelocity   = 1e4
	DefaultMaxStep       = integrators.DefaultMaxStep
	DefaultTolerance     = integrators.DefaultTolerance
	DefaultIntegrator    = "euler-heun"
	DefaultTicks         = 1000
	DefaultLaunchMass    = 1e20
	DefaultLaunchRadius  = 1.6e6
)

type Config struct {
	SpaceBoundary float64      `yaml:"space_boundary"`
	MaxVelocity   float64      `yaml:"max_velocity"`
	MaxStep       float64      `yaml:"max_step"`
	Tolerance     float64      `yaml:"tolerance"`
	MinStep       float64      `yaml:"min_step,omitempty"`
	Integrator    string       `yaml:"integrator"`
	Ticks         int          `yaml:"ticks"`
	Seed          int64        `yaml:"seed"`
	ValidateState bool         `yaml:"validate_state,omitempty"`
	Launch        LaunchConfig `yaml:"launch"`
	Bodies        []BodyConfig `yaml:"bodies"`
}

// LaunchConfig holds the mass and radius given to bodies launched by hand.
type LaunchConfig struct {
	Mass   float64 `yaml:"mass"`
	Radius float64 `yaml:"radius"`
}

type BodyConfig struct {
	Name     string  `yaml:"name,omitempty"`
	Mass     float64 `yaml:"mass"`
	Position Vec2    `yaml:"position,flow"`
	Velocity Vec2    `yaml:"velocity,flow"`
	Radius   float64 `yaml:"radius"`
	// Color is a #rrggbb hex string. Empty picks a random colour.
	Color string `yaml:"color,omitempty"`
}

type Vec2 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (v Vec2) Vector() dynamo.Vector { return dynamo.Vector{X: v.X, Y: v.Y} }

// DefaultConfig is the earth and probe setup: a planet at the origin and a
// probe launched tangentially from 4.2e7 m.
func DefaultConfig() *Config {
	return &Config{
		SpaceBoundary: DefaultSpaceBoundary,
		MaxVelocity:   DefaultMaxVelocity,
		MaxStep:       DefaultMaxStep,
		Tolerance:     DefaultTolerance,
		Integrator:    DefaultIntegrator,
		Ticks:         DefaultTicks,
		Launch: LaunchConfig{
			Mass:   DefaultLaunchMass,
			Radius: DefaultLaunchRadius,
		},
		Bodies: []BodyConfig{
			{Name: "earth", Mass: 5.97e24, Radius: 3.2e6, Color: "#3c78ff"},
			{Name: "probe", Mass: 1e20, Position: Vec2{Y: 4.2e7}, Velocity: Vec2{X: 4e3}, Radius: 1.6e6},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	cfg.Bodies = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(cfg.Bodies) == 0 {
		cfg.Bodies = DefaultConfig().Bodies
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks ranges only. Every error wraps dynamo.ErrInvalidConfig.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: "+format, append([]any{dynamo.ErrInvalidConfig}, args...)...)
	}

	if !positive(c.SpaceBoundary) {
		return invalid("space_boundary must be positive, got %g", c.SpaceBoundary)
	}
	if !positive(c.MaxStep) {
		return invalid("max_step must be positive, got %g", c.MaxStep)
	}
	if !positive(c.Tolerance) {
		return invalid("tolerance must be positive, got %g", c.Tolerance)
	}
	if c.MaxVelocity < 0 {
		return invalid("max_velocity must not be negative, got %g", c.MaxVelocity)
	}
	if c.MinStep < 0 || c.MinStep > c.MaxStep {
		return invalid("min_step must be in [0, max_step], got %g", c.MinStep)
	}
	if _, err := integrators.New(c.Integrator, c.Policy()); err != nil {
		return invalid("%v", err)
	}
	if c.Ticks < 0 {
		return invalid("ticks must not be negative, got %d", c.Ticks)
	}
	if !positive(c.Launch.Mass) || !positive(c.Launch.Radius) {
		return invalid("launch mass and radius must be positive")
	}
	for i, b := range c.Bodies {
		if !positive(b.Mass) || !positive(b.Radius) {
			return invalid("body %d (%s): mass and radius must be positive", i, b.Name)
		}
		if b.Color != "" {
			if _, err := ParseColor(b.Color); err != nil {
				return invalid("body %d (%s): %v", i, b.Name, err)
			}
		}
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

func (c *Config) World() world.Config {
	return world.Config{
		SpaceBoundary: c.SpaceBoundary,
		MaxVelocity:   c.MaxVelocity,
		MaxStep:       c.MaxStep,
		ValidateState: c.ValidateState,
	}
}

func (c *Config) Policy() integrators.StepPolicy {
	return integrators.StepPolicy{
		Tolerance: c.Tolerance,
		MaxStep:   c.MaxStep,
		MinStep:   c.MinStep,
	}
}
