// Package md provides core primitives for particle-based simulation.
//
// The package defines the fundamental types shared by the force,
// thermostat and integration layers:
//
//   - [Particle]: position, velocity and accumulated force
//   - [Storage]: owns the particle set and ghost synchronization points
//   - [Box]: periodic simulation box with minimum-image convention
//   - [RNG]: uniform random source consumed by stochastic forces
//   - [System]: bundles storage, random source and domain skin
//
// # Ghost Particles
//
// In a spatially decomposed deployment a process holds read-mostly
// copies of particles owned by neighboring domains. Storage exposes the
// synchronization points ([Storage.UpdateGhostsV],
// [Storage.CollectGhostForces]) so force kernels can be written against
// the decomposed model; in-process both are no-ops.
package md
