package world

import (
	"fmt"
	"math"

	"github.com/san-kum/slingshot/internal/dynamo"
)

type Config struct {
	// SpaceBoundary is the radius, measured from the origin, beyond which a
	// body has left the space.
	SpaceBoundary float64
	// MaxVelocity scales drag gestures into launch velocities.
	MaxVelocity float64
	// MaxStep is the initial and largest step of every body, in seconds.
	MaxStep       float64
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		SpaceBoundary: 1.7e8,
		MaxVelocity:   1e4,
		MaxStep:       1000,
	}
}

func (c Config) validate() error {
	if !(c.SpaceBoundary > 0) || math.IsInf(c.SpaceBoundary, 0) {
		return fmt.Errorf("%w: space boundary must be positive, got %g", dynamo.ErrInvalidConfig, c.SpaceBoundary)
	}
	if !(c.MaxStep > 0) || math.IsInf(c.MaxStep, 0) {
		return fmt.Errorf("%w: max step must be positive, got %g", dynamo.ErrInvalidConfig, c.MaxStep)
	}
	if c.MaxVelocity < 0 {
		return fmt.Errorf("%w: max velocity must not be negative, got %g", dynamo.ErrInvalidConfig, c.MaxVelocity)
	}
	return nil
}
