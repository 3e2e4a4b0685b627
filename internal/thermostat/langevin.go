package thermostat

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/dpdsim/internal/md"
)

// Langevin is a per-particle thermostat: each owned particle receives a
// friction force -γ·m·v and an uncorrelated random kick. Unlike DPD it
// does not conserve total momentum.
type Langevin struct {
	sys *md.System

	gamma       float64
	temperature float64

	pref1    float64
	pref2    float64
	pref2buf float64

	loop Loop
}

func NewLangevin(sys *md.System) (*Langevin, error) {
	if sys.RNG == nil {
		return nil, md.ErrNoRNG
	}
	return &Langevin{sys: sys}, nil
}

func (l *Langevin) SetGamma(g float64)       { l.gamma = g }
func (l *Langevin) Gamma() float64           { return l.gamma }
func (l *Langevin) SetTemperature(t float64) { l.temperature = t }
func (l *Langevin) Temperature() float64     { return l.temperature }

func (l *Langevin) Connect(loop Loop) {
	if l.loop != nil {
		return
	}
	l.loop = loop
	loop.Attach(l)
}

func (l *Langevin) Disconnect() {
	if l.loop == nil {
		return
	}
	l.loop.Detach(l)
	l.loop = nil
}

func (l *Langevin) RunInit()  { l.Initialize(l.loop.Timestep()) }
func (l *Langevin) Recalc1()  { l.HeatUp() }
func (l *Langevin) Recalc2()  { l.CoolDown() }
func (l *Langevin) AftCalcF() { l.Thermalize() }

func (l *Langevin) Initialize(dt float64) {
	l.pref1 = -l.gamma
	l.pref2 = math.Sqrt(24 * l.temperature * l.gamma / dt)
}

func (l *Langevin) HeatUp() {
	l.pref2buf = l.pref2
	l.pref2 *= math.Sqrt(3)
}

func (l *Langevin) CoolDown() {
	l.pref2 = l.pref2buf
}

// Thermalize kicks every owned particle. The friction scales with mass
// and the noise with sqrt(mass) so heavy and light particles
// equilibrate to the same temperature.
func (l *Langevin) Thermalize() {
	st := l.sys.Storage
	for i := 0; i < st.N(); i++ {
		p := st.Particle(i)
		if p.Ghost {
			continue
		}
		massf := math.Sqrt(p.Mass)
		noise := mgl64.Vec3{
			l.sys.RNG.Uniform() - 0.5,
			l.sys.RNG.Uniform() - 0.5,
			l.sys.RNG.Uniform() - 0.5,
		}
		p.Force = p.Force.
			Add(p.Vel.Mul(l.pref1 * p.Mass)).
			Add(noise.Mul(l.pref2 * massf))
	}
}
