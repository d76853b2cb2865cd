package integrators

import "math"

const (
	DefaultTolerance = 1e4
	DefaultMaxStep   = 1000.0
)

// StepPolicy turns a local truncation error estimate into the next step size.
type StepPolicy struct {
	Tolerance float64
	MaxStep   float64
	// MinStep is an optional floor. Zero disables it.
	MinStep float64
}

func DefaultPolicy() StepPolicy {
	return StepPolicy{
		Tolerance: DefaultTolerance,
		MaxStep:   DefaultMaxStep,
	}
}

// Next returns h*sqrt(Tolerance/lte) clamped to MaxStep, and to MinStep when
// a floor is set. A zero error grows the step to MaxStep. NaN is passed
// through unchanged.
func (p StepPolicy) Next(h, lte float64) float64 {
	next := h * math.Sqrt(p.Tolerance/lte)
	if next > p.MaxStep {
		return p.MaxStep
	}
	if p.MinStep > 0 && next < p.MinStep {
		return p.MinStep
	}
	return next
}
