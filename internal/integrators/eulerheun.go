package integrators

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/slingshot/internal/dynamo"
	"github.com/san-kum/slingshot/internal/physics"
)

// EulerHeun is the embedded Euler/Heun pair used by the simulator.
//
// The corrector slope is taken at the body's original position, so the
// Heun stage reuses the predictor's force. This is the long-standing
// behaviour and the default. Heun evaluates the corrector at the predicted
// position instead.
type EulerHeun struct {
	policy StepPolicy
}

func NewEulerHeun(policy StepPolicy) *EulerHeun {
	return &EulerHeun{policy: policy}
}

func (e *EulerHeun) Name() string { return "euler-heun" }

func (e *EulerHeun) Policy() StepPolicy { return e.policy }

func (e *EulerHeun) Advance(b *dynamo.Body, targets []dynamo.Body) {
	advance(b, targets, e.policy, false)
}

// Heun is EulerHeun with the corrector slope evaluated at the Euler
// predicted position.
type Heun struct {
	policy StepPolicy
}

func NewHeun(policy StepPolicy) *Heun {
	return &Heun{policy: policy}
}

func (h *Heun) Name() string { return "heun" }

func (h *Heun) Policy() StepPolicy { return h.policy }

func (h *Heun) Advance(b *dynamo.Body, targets []dynamo.Body) {
	advance(b, targets, h.policy, true)
}

type stepResult struct {
	Position dynamo.Vector
	Velocity dynamo.Vector
	Error    float64
}

func estimate(b dynamo.Body, targets []dynamo.Body, corrected bool) stepResult {
	h := b.Step

	f0 := physics.Acceleration(b, targets)
	pEuler := r2.Add(b.Position, r2.Scale(h, b.Velocity))
	vEuler := r2.Add(b.Velocity, r2.Scale(h, f0))

	f1 := f0
	if corrected {
		probe := b
		probe.Position = pEuler
		f1 = physics.Acceleration(probe, targets)
	}

	p := r2.Add(b.Position, r2.Scale(h/2, r2.Add(b.Velocity, vEuler)))
	v := r2.Add(b.Velocity, r2.Scale(h/2, r2.Add(f0, f1)))

	lte := r2.Norm(r2.Sub(pEuler, p)) + h*r2.Norm(r2.Sub(vEuler, v))

	return stepResult{Position: p, Velocity: v, Error: lte}
}

func advance(b *dynamo.Body, targets []dynamo.Body, policy StepPolicy, corrected bool) {
	est := estimate(*b, targets, corrected)
	b.Step = policy.Next(b.Step, est.Error)
	b.Position = est.Position
	b.Velocity = est.Velocity
}
