package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/slingshot/internal/dynamo"
)

func KineticEnergy(bodies []dynamo.Body) float64 {
	ke := 0.0
	for _, b := range bodies {
		ke += 0.5 * b.Mass * r2.Norm2(b.Velocity)
	}
	return ke
}

// PotentialEnergy sums -G m_i m_j / r over each unordered pair.
func PotentialEnergy(bodies []dynamo.Body) float64 {
	pe := 0.0
	for i := range bodies {
		for j := i + 1; j < len(bodies); j++ {
			r := bodies[i].Distance(bodies[j])
			pe -= G * bodies[i].Mass * bodies[j].Mass / r
		}
	}
	return pe
}

func Energy(bodies []dynamo.Body) float64 {
	return KineticEnergy(bodies) + PotentialEnergy(bodies)
}

func Momentum(bodies []dynamo.Body) dynamo.Vector {
	var p dynamo.Vector
	for _, b := range bodies {
		p = r2.Add(p, r2.Scale(b.Mass, b.Velocity))
	}
	return p
}

// AngularMomentum is the z component about the origin.
func AngularMomentum(bodies []dynamo.Body) float64 {
	l := 0.0
	for _, b := range bodies {
		l += b.Mass * r2.Cross(b.Position, b.Velocity)
	}
	return l
}

func CenterOfMass(bodies []dynamo.Body) dynamo.Vector {
	var c dynamo.Vector
	total := 0.0
	for _, b := range bodies {
		c = r2.Add(c, r2.Scale(b.Mass, b.Position))
		total += b.Mass
	}
	if total == 0 {
		return dynamo.Vector{}
	}
	return r2.Scale(1/total, c)
}

// CircularSpeed is the speed of a circular orbit of radius r around central,
// ignoring the orbiting body's own mass.
func CircularSpeed(central dynamo.Body, r float64) float64 {
	return math.Sqrt(G * central.Mass / r)
}
