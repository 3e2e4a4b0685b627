package thermostat

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/dpdsim/internal/integrator"
	"github.com/san-kum/dpdsim/internal/md"
	"github.com/san-kum/dpdsim/internal/nlist"
)

// Loop is the slice of the integration loop a thermostat needs: the
// current timestep and the lifecycle registration.
type Loop interface {
	Timestep() float64
	Attach(integrator.Extension)
	Detach(integrator.Extension)
}

// StressSink receives the off-diagonal dyadic products accumulated
// during pair force evaluation, used for post-hoc shear viscosity
// analysis. Accumulation is active while a sink is set.
type StressSink interface {
	AccumulateDyadic(xz, zx float64)
}

// DPD is a pairwise thermostat over the neighbor list. The standard
// channel (gamma) damps the relative velocity component along the pair
// axis; the transverse channel (tgamma) damps the components orthogonal
// to it. Both channels pair the damping with a correlated random force
// so the sampled ensemble matches the configured temperature.
type DPD struct {
	sys *md.System
	vl  *nlist.VerletList

	gamma       float64
	tgamma      float64
	temperature float64

	cutoff    float64
	cutoffSqr float64

	pref1, pref2 float64
	pref3, pref4 float64
	pref2buf     float64
	pref4buf     float64

	stress StressSink
	loop   Loop
}

// NewDPD builds a DPD thermostat over the given system and neighbor
// list. The system must carry a random source; a pair at exactly zero
// separation is an input-invariant violation (the pair direction is
// undefined) and is not handled here.
func NewDPD(sys *md.System, vl *nlist.VerletList) (*DPD, error) {
	if sys.RNG == nil {
		return nil, md.ErrNoRNG
	}
	d := &DPD{sys: sys, vl: vl}
	d.cutoff = vl.Cutoff() - sys.Skin
	d.cutoffSqr = d.cutoff * d.cutoff
	return d, nil
}

func (d *DPD) SetGamma(g float64)  { d.gamma = g }
func (d *DPD) Gamma() float64      { return d.gamma }
func (d *DPD) SetTGamma(g float64) { d.tgamma = g }
func (d *DPD) TGamma() float64     { return d.tgamma }

func (d *DPD) SetTemperature(t float64) { d.temperature = t }
func (d *DPD) Temperature() float64     { return d.temperature }

// SetStressSink enables dyadic stress accumulation into s; a nil sink
// disables it.
func (d *DPD) SetStressSink(s StressSink) { d.stress = s }

// Connect attaches the thermostat to the loop's lifecycle moments.
// Connecting twice is a no-op.
func (d *DPD) Connect(loop Loop) {
	if d.loop != nil {
		return
	}
	d.loop = loop
	loop.Attach(d)
}

// Disconnect detaches from the loop. Safe to call repeatedly.
func (d *DPD) Disconnect() {
	if d.loop == nil {
		return
	}
	d.loop.Detach(d)
	d.loop = nil
}

func (d *DPD) RunInit()  { d.Initialize(d.loop.Timestep()) }
func (d *DPD) Recalc1()  { d.HeatUp() }
func (d *DPD) Recalc2()  { d.CoolDown() }
func (d *DPD) AftCalcF() { d.Thermalize() }

// Initialize recomputes the cutoff state and force prefactors for the
// given timestep. Must run before any pair evaluation and again at
// every run start, since timestep, list cutoff and skin may all change
// between runs. A zero temperature or friction coefficient leaves the
// corresponding channel inert.
func (d *DPD) Initialize(dt float64) {
	d.cutoff = d.vl.Cutoff() - d.sys.Skin
	d.cutoffSqr = d.cutoff * d.cutoff

	d.pref1 = d.gamma
	d.pref2 = math.Sqrt(24 * d.temperature * d.gamma / dt)
	d.pref3 = d.tgamma
	d.pref4 = math.Sqrt(24 * d.temperature * d.tgamma / dt)
}

// HeatUp buffers the noise prefactors and scales them by sqrt(3),
// compensating the variance of the double random draw during the force
// recompute on run re-entry. CoolDown must follow before normal
// stepping resumes.
func (d *DPD) HeatUp() {
	d.pref2buf = d.pref2
	d.pref2 *= math.Sqrt(3)
	d.pref4buf = d.pref4
	d.pref4 *= math.Sqrt(3)
}

// CoolDown restores the noise prefactors buffered by HeatUp.
func (d *DPD) CoolDown() {
	d.pref2 = d.pref2buf
	d.pref4 = d.pref4buf
}

// Thermalize synchronizes ghost velocities, then applies the enabled
// channels to every neighbor-list pair.
func (d *DPD) Thermalize() {
	d.sys.Storage.UpdateGhostsV()

	for _, pr := range d.vl.Pairs() {
		p1 := d.sys.Storage.Particle(pr.I)
		p2 := d.sys.Storage.Particle(pr.J)

		if d.gamma > 0 {
			d.frictionThermo(p1, p2)
		}
		if d.tgamma > 0 {
			d.frictionThermoTrans(p1, p2)
		}
	}
}

// frictionThermo is the standard channel: damping along the pair axis
// scaled by omega², noise scaled by omega, both collinear with the
// pair direction.
func (d *DPD) frictionThermo(p1, p2 *md.Particle) {
	r := d.sys.Storage.Box().MinImage(p1.Pos.Sub(p2.Pos))
	dist2 := r.Dot(r)
	if dist2 >= d.cutoffSqr {
		return
	}

	dist := math.Sqrt(dist2)
	omega := 1 - dist/d.cutoff
	omega2 := omega * omega
	rhat := r.Mul(1 / dist)

	veldiff := p1.Vel.Sub(p2.Vel).Dot(rhat)
	friction := d.pref1 * omega2 * veldiff
	noise := d.pref2 * omega * (d.sys.RNG.Uniform() - 0.5)

	f := rhat.Mul(noise - friction)
	p1.Force = p1.Force.Add(f)
	p2.Force = p2.Force.Sub(f)

	if d.stress != nil {
		d.stress.AccumulateDyadic(rhat[0]*f[2], rhat[2]*f[0])
	}
}

// frictionThermoTrans is the transverse channel: the projector
// P = I - r̂r̂ᵗ strips the axial component from both the relative
// velocity and a fresh 3-component noise vector, leaving a force with
// no component along the line of centers.
func (d *DPD) frictionThermoTrans(p1, p2 *md.Particle) {
	r := d.sys.Storage.Box().MinImage(p1.Pos.Sub(p2.Pos))
	dist2 := r.Dot(r)
	if dist2 >= d.cutoffSqr {
		return
	}

	dist := math.Sqrt(dist2)
	omega := 1 - dist/d.cutoff
	omega2 := omega * omega
	rhat := r.Mul(1 / dist)

	veldiff := p1.Vel.Sub(p2.Vel)
	noise := mgl64.Vec3{
		d.sys.RNG.Uniform() - 0.5,
		d.sys.RNG.Uniform() - 0.5,
		d.sys.RNG.Uniform() - 0.5,
	}

	// P·v = v - r̂(r̂·v), applied per axis.
	fDamp := veldiff.Sub(rhat.Mul(rhat.Dot(veldiff))).Mul(d.pref3 * omega2)
	fRand := noise.Sub(rhat.Mul(rhat.Dot(noise))).Mul(d.pref4 * omega)

	f := fRand.Sub(fDamp)
	p1.Force = p1.Force.Add(f)
	p2.Force = p2.Force.Sub(f)

	if d.stress != nil {
		d.stress.AccumulateDyadic(rhat[0]*f[2], rhat[2]*f[0])
	}
}
