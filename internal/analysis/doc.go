// Package analysis characterises recorded trajectories.
//
// The package works on samples from a finished run:
//
//   - [RadialDistance]: distance series between two bodies
//   - [Apsides] and [Eccentricity]: orbit extent
//   - [DominantPeriod] and [PowerSpectrum]: orbital period via FFT
//   - [Divergence] and [GrowthRate]: how fast two runs of the same setup
//     drift apart, e.g. under different integrators
//
// # Orbital period
//
// Samples are taken once per tick, and each tick advances a body by its own
// adaptive step, so periods come out in ticks:
//
//	r, _ := analysis.RadialDistance(samples, probe, earth)
//	ticks, err := analysis.DominantPeriod(r)
package analysis
