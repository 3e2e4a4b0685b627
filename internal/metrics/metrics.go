// Package metrics provides observables sampled over a running particle
// system.
package metrics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/dpdsim/internal/md"
)

// Metric observes the particle system at sampling points and reduces
// the samples to a single value.
type Metric interface {
	Name() string
	Observe(st *md.Storage, t float64)
	Value() float64
	Reset()
}

// Temperature samples the instantaneous kinetic temperature
// T = Σ m·v² / (3N) and averages over all observations.
type Temperature struct {
	sum     float64
	last    float64
	samples int
}

func NewTemperature() *Temperature { return &Temperature{} }

func (m *Temperature) Name() string { return "temperature" }

func (m *Temperature) Observe(st *md.Storage, t float64) {
	m.last = Kinetic(st)
	m.sum += m.last
	m.samples++
}

// Last returns the most recent sample, used by live trace displays.
func (m *Temperature) Last() float64 { return m.last }

func (m *Temperature) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *Temperature) Reset() {
	m.sum = 0
	m.last = 0
	m.samples = 0
}

// Kinetic returns the instantaneous kinetic temperature of st.
func Kinetic(st *md.Storage) float64 {
	n := 0
	sum := 0.0
	for _, p := range st.Particles() {
		if p.Ghost {
			continue
		}
		sum += p.Mass * p.Vel.Dot(p.Vel)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / (3 * float64(n))
}

// MomentumDrift tracks the largest deviation of total linear momentum
// from its value at the first observation. With only momentum-conserving
// forces active it stays at numerical noise level.
type MomentumDrift struct {
	initial  mgl64.Vec3
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift { return &MomentumDrift{} }

func (m *MomentumDrift) Name() string { return "momentum_drift" }

func (m *MomentumDrift) Observe(st *md.Storage, t float64) {
	p := TotalMomentum(st)
	if m.samples == 0 {
		m.initial = p
	}
	m.samples++
	if d := p.Sub(m.initial).Len(); d > m.maxDrift {
		m.maxDrift = d
	}
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = mgl64.Vec3{}
	m.maxDrift = 0
	m.samples = 0
}

// TotalMomentum returns the total linear momentum of the owned particles.
func TotalMomentum(st *md.Storage) mgl64.Vec3 {
	var total mgl64.Vec3
	for _, p := range st.Particles() {
		if p.Ghost {
			continue
		}
		total = total.Add(p.Vel.Mul(p.Mass))
	}
	return total
}
