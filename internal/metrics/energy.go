package metrics

import (
	"math"

	"github.com/san-kum/slingshot/internal/dynamo"
	"github.com/san-kum/slingshot/internal/physics"
)

// Energy reports the total mechanical energy of the latest frame.
type Energy struct {
	name    string
	current float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(f dynamo.Frame) {
	e.current = physics.Energy(f.Snapshot())
}

func (e *Energy) Value() float64 { return e.current }

func (e *Energy) Reset() { e.current = 0 }

// EnergyDrift is the largest relative change of total energy seen since the
// body set last changed. Spawns and removals change the energy legitimately,
// so they start a new baseline.
type EnergyDrift struct {
	name          string
	set           bodySet
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(f dynamo.Frame) {
	energy := physics.Energy(f.Snapshot())

	if e.set.update(f) {
		e.initialEnergy = energy
	}
	e.currentEnergy = energy

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

// Current is the drift of the latest frame against the baseline.
func (e *EnergyDrift) Current() float64 {
	if e.initialEnergy == 0 {
		return 0
	}
	return (e.currentEnergy - e.initialEnergy) / math.Abs(e.initialEnergy)
}

func (e *EnergyDrift) Reset() {
	e.set = bodySet{}
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
}

// bodySet remembers which bodies a baseline was taken over.
type bodySet struct {
	ids []dynamo.BodyID
}

// update records the bodies in f and reports whether they differ from the
// previous frame.
func (s *bodySet) update(f dynamo.Frame) bool {
	changed := s.ids == nil || len(s.ids) != len(f.Bodies)
	if !changed {
		for i, b := range f.Bodies {
			if s.ids[i] != b.ID {
				changed = true
				break
			}
		}
	}
	if changed {
		s.ids = make([]dynamo.BodyID, len(f.Bodies))
		for i, b := range f.Bodies {
			s.ids[i] = b.ID
		}
	}
	return changed
}
