package metrics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/slingshot/internal/dynamo"
	"github.com/san-kum/slingshot/internal/physics"
)

// MomentumDrift is the largest change of total linear momentum since the
// body set last changed, relative to the sum of |m v| at the baseline.
// Bodies advance with their own steps, so momentum is only conserved
// approximately.
type MomentumDrift struct {
	name     string
	set      bodySet
	initial  dynamo.Vector
	scale    float64
	maxDrift float64
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(f dynamo.Frame) {
	bodies := f.Snapshot()
	p := physics.Momentum(bodies)

	if m.set.update(f) {
		m.initial = p
		m.scale = 0
		for _, b := range bodies {
			m.scale += b.Mass * r2.Norm(b.Velocity)
		}
	}
	if m.scale == 0 {
		return
	}
	m.maxDrift = math.Max(m.maxDrift, r2.Norm(r2.Sub(p, m.initial))/m.scale)
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.set = bodySet{}
	m.initial = dynamo.Vector{}
	m.scale = 0
	m.maxDrift = 0
}
