package config

import (
	"fmt"
	"math/rand"

	"github.com/san-kum/slingshot/internal/dynamo"
	"github.com/san-kum/slingshot/internal/integrators"
	"github.com/san-kum/slingshot/internal/world"
)

// Populate spawns the configured bodies into w in order, so the first one
// becomes the anchor. Bodies without a colour draw one from rng.
func (c *Config) Populate(w *world.World, rng *rand.Rand) ([]dynamo.BodyID, error) {
	ids := make([]dynamo.BodyID, 0, len(c.Bodies))
	for i, b := range c.Bodies {
		col := RandomColor(rng)
		if b.Color != "" {
			var err error
			if col, err = ParseColor(b.Color); err != nil {
				return ids, fmt.Errorf("body %d (%s): %w", i, b.Name, err)
			}
		}
		id, err := w.Spawn(b.Mass, b.Velocity.Vector(), b.Position.Vector(), col, b.Radius)
		if err != nil {
			return ids, fmt.Errorf("body %d (%s): %w", i, b.Name, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// NewWorld builds an integrator and a populated world from the config.
func (c *Config) NewWorld(opts ...world.Option) (*world.World, error) {
	integ, err := integrators.New(c.Integrator, c.Policy())
	if err != nil {
		return nil, err
	}
	w, err := world.New(c.World(), integ, opts...)
	if err != nil {
		return nil, err
	}
	if _, err := c.Populate(w, rand.New(rand.NewSource(c.Seed))); err != nil {
		return nil, err
	}
	return w, nil
}
