// Package dynamo provides the shared primitives of the N-body core.
//
// The package defines the types every other package exchanges:
//
//   - [Body]: point mass with radius, colour and its own adaptive step
//   - [Vector]: 2-D vector (gonum r2)
//   - [Integrator]: advances one body against a fixed target set
//   - [Frame]: per-tick output for renderers, metrics and recorders
//   - [Report]: bodies marked by a collision pass
//
// # Errors
//
// Sentinel errors are compared with errors.Is. [ErrSessionTerminated] is
// the only deliberate outcome signal; the others reject bad input.
//
// # Thread Safety
//
// Nothing in the core is safe for concurrent use. A world and its bodies
// belong to one goroutine.
package dynamo
