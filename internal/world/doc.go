// Package world owns the live body set and runs the simulation tick.
//
// Each call to [World.Update] performs one full cycle:
//
//  1. every body is advanced by the integrator against a snapshot of the
//     bodies taken at the start of the tick; results commit together
//  2. the collision pass marks overlapping bodies and bodies that left the
//     space, and checks whether the anchor escaped
//  3. marked bodies are removed
//  4. metrics and observers receive the resulting frame
//
// The anchor is the first body inserted. It is never removed; when it
// leaves the space the session terminates and Update returns
// dynamo.ErrSessionTerminated.
//
// A World is not safe for concurrent use. [WithWorkers] splits step 1
// across goroutines, so an integrator's Advance must not keep state between
// calls.
package world
