package metrics

import (
	"math"

	"github.com/san-kum/slingshot/internal/dynamo"
)

// MinStep tracks the smallest adaptive step any body has taken.
type MinStep struct {
	name string
	min  float64
}

func NewMinStep() *MinStep {
	return &MinStep{name: "min_step", min: math.Inf(1)}
}

func (m *MinStep) Name() string { return m.name }

func (m *MinStep) Observe(f dynamo.Frame) {
	for _, b := range f.Bodies {
		if b.Step < m.min {
			m.min = b.Step
		}
	}
}

// Value is 0 until a body has been observed.
func (m *MinStep) Value() float64 {
	if math.IsInf(m.min, 1) {
		return 0
	}
	return m.min
}

func (m *MinStep) Reset() { m.min = math.Inf(1) }
