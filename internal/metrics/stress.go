package metrics

// Viscosity accumulates the off-diagonal dyadic products produced by
// pairwise thermostat kernels. It implements the thermostat's stress
// sink; the accumulated totals feed a post-hoc shear-viscosity
// estimate, which is outside this package.
type Viscosity struct {
	XZ float64
	ZX float64

	samples int
}

func NewViscosity() *Viscosity { return &Viscosity{} }

func (v *Viscosity) AccumulateDyadic(xz, zx float64) {
	v.XZ += xz
	v.ZX += zx
	v.samples++
}

func (v *Viscosity) Samples() int { return v.samples }

func (v *Viscosity) Reset() {
	v.XZ = 0
	v.ZX = 0
	v.samples = 0
}
