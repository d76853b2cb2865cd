package physics

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/slingshot/internal/dynamo"
)

// G is the gravitational constant in m^3 kg^-1 s^-2.
const G = 6.674e-11

// Force returns the net Newtonian attraction on b from every other body in
// targets. Self-interaction is skipped by ID, so targets may contain b.
//
// Bodies are assumed never to coincide exactly: a zero separation divides
// by zero and the result carries Inf or NaN. The collision pass removes
// overlapping bodies long before that can happen.
func Force(b dynamo.Body, targets []dynamo.Body) dynamo.Vector {
	var sum dynamo.Vector
	for _, t := range targets {
		if t.ID == b.ID {
			continue
		}
		d := r2.Sub(t.Position, b.Position)
		r := r2.Norm(d)
		sum = r2.Add(sum, r2.Scale(G*b.Mass*t.Mass/(r*r*r), d))
	}
	return sum
}

// Acceleration is Force divided by the body's mass.
func Acceleration(b dynamo.Body, targets []dynamo.Body) dynamo.Vector {
	return r2.Scale(1/b.Mass, Force(b, targets))
}
