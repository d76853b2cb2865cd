// Package physics provides the gravitational force model.
//
// [Force] is the only function the integrator calls. The remaining helpers
// compute conserved quantities for metrics and display:
//
//   - [Energy], [KineticEnergy], [PotentialEnergy]
//   - [Momentum], [AngularMomentum], [CenterOfMass]
//   - [CircularSpeed] for setting up orbits
//
// Forces are exact pairwise Newtonian attraction with no softening.
//
//	f := physics.Force(bodies[1], bodies)
//	a := physics.Acceleration(bodies[1], bodies)
package physics
