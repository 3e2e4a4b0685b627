// Package integrator provides the velocity-Verlet time-integration loop
// and the extension hooks stochastic thermostats attach to.
package integrator

import (
	"context"

	"github.com/san-kum/dpdsim/internal/md"
	"github.com/san-kum/dpdsim/internal/nlist"
)

// Extension is attached to the four lifecycle moments of the loop:
//
//   - RunInit fires once at the start of every Run, after the timestep,
//     cutoff and skin are settled; extensions recompute derived
//     parameters here.
//   - Recalc1 and Recalc2 bracket the force recomputation performed on
//     Run entry, which re-evaluates forces for an instant the clock does
//     not advance past.
//   - AftCalcF fires after every conservative force update; stochastic
//     extensions add their contributions here.
type Extension interface {
	RunInit()
	Recalc1()
	Recalc2()
	AftCalcF()
}

// Force is a conservative pair force evaluated over the neighbor list.
type Force interface {
	Apply(st *md.Storage, vl *nlist.VerletList)
}

// VelocityVerlet advances the system with the standard half-kick,
// drift, half-kick scheme.
type VelocityVerlet struct {
	sys    *md.System
	vl     *nlist.VerletList
	dt     float64
	forces []Force
	exts   []Extension

	step int64
	t    float64
}

func NewVelocityVerlet(sys *md.System, vl *nlist.VerletList, dt float64) (*VelocityVerlet, error) {
	if dt <= 0 {
		return nil, md.ErrBadTimestep
	}
	return &VelocityVerlet{sys: sys, vl: vl, dt: dt}, nil
}

func (vv *VelocityVerlet) Timestep() float64 { return vv.dt }

// SetTimestep changes the timestep. Takes effect at the next Run, when
// extensions re-derive their prefactors.
func (vv *VelocityVerlet) SetTimestep(dt float64) error {
	if dt <= 0 {
		return md.ErrBadTimestep
	}
	vv.dt = dt
	return nil
}

func (vv *VelocityVerlet) Time() float64 { return vv.t }

func (vv *VelocityVerlet) Steps() int64 { return vv.step }

func (vv *VelocityVerlet) AddForce(f Force) {
	vv.forces = append(vv.forces, f)
}

// Attach connects an extension to the lifecycle moments. Attaching an
// already-attached extension is a no-op.
func (vv *VelocityVerlet) Attach(e Extension) {
	for _, x := range vv.exts {
		if x == e {
			return
		}
	}
	vv.exts = append(vv.exts, e)
}

// Detach disconnects an extension. Detaching an extension that is not
// attached is a no-op, so teardown may call it repeatedly.
func (vv *VelocityVerlet) Detach(e Extension) {
	for i, x := range vv.exts {
		if x == e {
			vv.exts = append(vv.exts[:i], vv.exts[i+1:]...)
			return
		}
	}
}

// Run advances the system by steps timesteps.
//
// Every Run entry recomputes forces for the current instant without
// advancing the clock: re-entering the loop must not integrate with the
// stale forces of the previous exit. That recompute re-draws random
// numbers for an instant that was already sampled, so it is bracketed
// by the Recalc1/Recalc2 moments where thermostats apply their variance
// correction.
func (vv *VelocityVerlet) Run(ctx context.Context, steps int) error {
	for _, e := range vv.exts {
		e.RunInit()
	}

	for _, e := range vv.exts {
		e.Recalc1()
	}
	vv.updateForces()
	for _, e := range vv.exts {
		e.Recalc2()
	}

	halfDt := 0.5 * vv.dt
	st := vv.sys.Storage

	for s := 0; s < steps; s++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		parts := st.Particles()
		for i := range parts {
			p := st.Particle(i)
			p.Vel = p.Vel.Add(p.Force.Mul(halfDt / p.Mass))
			p.Pos = p.Pos.Add(p.Vel.Mul(vv.dt))
		}
		st.WrapAll()
		vv.vl.MaybeRebuild()

		vv.updateForces()

		for i := range parts {
			p := st.Particle(i)
			p.Vel = p.Vel.Add(p.Force.Mul(halfDt / p.Mass))
		}

		vv.step++
		vv.t += vv.dt

		if !st.IsValid() {
			return &md.StepError{Step: vv.step, Time: vv.t, Wrapped: md.ErrInvalidState}
		}
	}
	return nil
}

func (vv *VelocityVerlet) updateForces() {
	vv.sys.Storage.ZeroForces()
	for _, f := range vv.forces {
		f.Apply(vv.sys.Storage, vv.vl)
	}
	vv.sys.Storage.CollectGhostForces()
	for _, e := range vv.exts {
		e.AftCalcF()
	}
}
