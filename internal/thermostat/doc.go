// Package thermostat provides stochastic thermostats that attach to the
// integration loop as extensions.
//
//   - [DPD]: pairwise dissipative-particle-dynamics thermostat with a
//     standard (axial) and a transverse channel; conserves total linear
//     momentum exactly because every contribution is applied as an
//     equal-and-opposite pair force.
//   - [Langevin]: per-particle friction plus noise; does not conserve
//     momentum, kept for systems where that is acceptable.
//
// Both relate damping strength, noise strength, temperature and
// timestep through the fluctuation-dissipation balance
// pref = sqrt(24·T·γ/dt): the factor 24 absorbs the variance 1/12 of
// the recentered uniform variate together with the factor 2 of the
// balance itself.
//
// # Restart Correction
//
// When the loop recomputes forces on re-entry without advancing time,
// random numbers are drawn twice for the same instant, inflating the
// injected noise variance. HeatUp/CoolDown bracket exactly that one
// recompute, scaling the noise prefactors by sqrt(3) and restoring them
// afterwards.
package thermostat
