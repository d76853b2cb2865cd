package config

import (
	"math"
	"sort"
)

// circular returns the speed of a circular orbit of radius r around mass m.
func circular(m, r float64) float64 {
	return math.Sqrt(6.674e-11 * m / r)
}

func ring(n int, r, m, radius, central float64) []BodyConfig {
	v := circular(central, r)
	bodies := make([]BodyConfig, n)
	for i := range bodies {
		a := 2 * math.Pi * float64(i) / float64(n)
		bodies[i] = BodyConfig{
			Mass:     m,
			Position: Vec2{X: r * math.Cos(a), Y: r * math.Sin(a)},
			Velocity: Vec2{X: -v * math.Sin(a), Y: v * math.Cos(a)},
			Radius:   radius,
		}
	}
	return bodies
}

func preset(bodies []BodyConfig, mutate func(*Config)) *Config {
	cfg := DefaultConfig()
	cfg.Bodies = bodies
	if mutate != nil {
		mutate(cfg)
	}
	return cfg
}

var earth = BodyConfig{Name: "earth", Mass: 5.97e24, Radius: 3.2e6, Color: "#3c78ff"}

var Presets = map[string]*Config{
	"geo": DefaultConfig(),
	"circular": preset([]BodyConfig{
		earth,
		{Name: "probe", Mass: 1e20, Position: Vec2{Y: 4.2e7}, Velocity: Vec2{X: circular(5.97e24, 4.2e7)}, Radius: 1.6e6},
	}, func(c *Config) { c.Integrator = "heun" }),
	"binary": preset([]BodyConfig{
		{Name: "a", Mass: 1e24, Position: Vec2{X: -2e7}, Velocity: Vec2{Y: -913}, Radius: 1e6, Color: "#ff8c3c"},
		{Name: "b", Mass: 1e24, Position: Vec2{X: 2e7}, Velocity: Vec2{Y: 913}, Radius: 1e6, Color: "#3cc8ff"},
	}, nil),
	"moon": preset([]BodyConfig{
		earth,
		{Name: "moon", Mass: 7.35e22, Position: Vec2{X: 3.84e8}, Velocity: Vec2{Y: 1022}, Radius: 1.74e6, Color: "#c8c8c8"},
	}, func(c *Config) {
		c.SpaceBoundary = 6e8
		c.MaxVelocity = 3e3
		c.Ticks = 5000
	}),
	"crowded": preset(append([]BodyConfig{earth}, ring(12, 6e7, 1e20, 1.2e6, 5.97e24)...), func(c *Config) {
		c.Integrator = "heun"
		c.Ticks = 2000
	}),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	cfg.Bodies = append([]BodyConfig(nil), p.Bodies...)
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
