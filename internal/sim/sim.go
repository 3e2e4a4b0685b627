// Package sim builds a particle system from configuration and drives
// warm-up and production runs.
package sim

import (
	"context"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/dpdsim/internal/config"
	"github.com/san-kum/dpdsim/internal/forces"
	"github.com/san-kum/dpdsim/internal/integrator"
	"github.com/san-kum/dpdsim/internal/md"
	"github.com/san-kum/dpdsim/internal/metrics"
	"github.com/san-kum/dpdsim/internal/nlist"
	"github.com/san-kum/dpdsim/internal/thermostat"
)

// Thermostat is the lifecycle surface shared by the available
// thermostats.
type Thermostat interface {
	Connect(thermostat.Loop)
	Disconnect()
}

// Observer is notified after each production block.
type Observer interface {
	OnBlock(loop int, t float64, st *md.Storage)
}

type Result struct {
	Times       []float64
	Temperature []float64
	Metrics     map[string]float64
	StepsTaken  int64
	StressXZ    float64
	StressZX    float64
}

// Simulator owns one configured system and its integration loop.
type Simulator struct {
	cfg *config.Config

	sys    *md.System
	vl     *nlist.VerletList
	integ  *integrator.VelocityVerlet
	lj     *forces.LennardJones
	thermo Thermostat
	visc   *metrics.Viscosity

	metrics   []metrics.Metric
	observers []Observer
}

// New places cfg.N particles on a cubic lattice in a box sized for
// cfg.Density, draws velocities for cfg.Thermostat.Temperature with the
// total momentum removed, and wires neighbor list, LJ force, integrator
// and the selected thermostat.
func New(cfg *config.Config) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	l := math.Cbrt(float64(cfg.N) / cfg.Density)
	box := md.NewCubicBox(l)
	st := md.NewStorage(box)
	rng := md.NewRand(cfg.Seed)

	sys := &md.System{Storage: st, RNG: rng, Skin: cfg.Skin}

	placeLattice(st, cfg.N, l)
	drawVelocities(st, rng, cfg.Thermostat.Temperature)

	vl, err := nlist.New(st, cfg.Cutoff, cfg.Skin)
	if err != nil {
		return nil, err
	}

	integ, err := integrator.NewVelocityVerlet(sys, vl, cfg.Dt)
	if err != nil {
		return nil, err
	}

	lj := forces.NewLennardJones(cfg.LJ.Epsilon, cfg.LJ.Sigma, cfg.Cutoff)
	integ.AddForce(lj)

	s := &Simulator{cfg: cfg, sys: sys, vl: vl, integ: integ, lj: lj}

	switch cfg.Thermostat.Type {
	case "dpd", "":
		dpd, err := thermostat.NewDPD(sys, vl)
		if err != nil {
			return nil, err
		}
		dpd.SetGamma(cfg.Thermostat.Gamma)
		dpd.SetTGamma(cfg.Thermostat.TGamma)
		dpd.SetTemperature(cfg.Thermostat.Temperature)
		if cfg.Thermostat.Viscosity {
			s.visc = metrics.NewViscosity()
			dpd.SetStressSink(s.visc)
		}
		dpd.Connect(integ)
		s.thermo = dpd
	case "langevin":
		lgv, err := thermostat.NewLangevin(sys)
		if err != nil {
			return nil, err
		}
		lgv.SetGamma(cfg.Thermostat.Gamma)
		lgv.SetTemperature(cfg.Thermostat.Temperature)
		lgv.Connect(integ)
		s.thermo = lgv
	case "none":
	}

	s.AddMetric(metrics.NewTemperature())
	s.AddMetric(metrics.NewMomentumDrift())
	return s, nil
}

func (s *Simulator) AddMetric(m metrics.Metric) { s.metrics = append(s.metrics, m) }

func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) System() *md.System { return s.sys }

func (s *Simulator) Config() *config.Config { return s.cfg }

func (s *Simulator) Integrator() *integrator.VelocityVerlet { return s.integ }

// Warmup equilibrates an overlapping initial configuration with a
// force-capped, reduced-epsilon potential, ramping epsilon to its
// configured value loop by loop, then restores the full potential.
func (s *Simulator) Warmup(ctx context.Context) error {
	w := s.cfg.Warmup
	if w.Loops == 0 {
		return nil
	}

	eps := w.EpsilonStart
	if eps <= 0 {
		eps = s.cfg.LJ.Epsilon
	}
	dEps := (s.cfg.LJ.Epsilon - eps) / float64(w.Loops)

	s.lj.CapRadius = w.CapRadius
	for i := 0; i < w.Loops; i++ {
		s.lj.Epsilon = eps
		s.lj.Refresh()
		if err := s.integ.Run(ctx, w.StepsPerLoop); err != nil {
			return err
		}
		eps += dEps
	}

	s.lj.Epsilon = s.cfg.LJ.Epsilon
	s.lj.CapRadius = 0
	s.lj.Refresh()
	return nil
}

// Run executes the production loops, sampling metrics and notifying
// observers after every block.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	for _, m := range s.metrics {
		m.Reset()
	}
	if s.visc != nil {
		s.visc.Reset()
	}

	res := &Result{Metrics: make(map[string]float64)}
	for i := 0; i < s.cfg.Loops; i++ {
		if err := s.integ.Run(ctx, s.cfg.StepsPerLoop); err != nil {
			return res, err
		}

		t := s.integ.Time()
		for _, m := range s.metrics {
			m.Observe(s.sys.Storage, t)
		}
		for _, o := range s.observers {
			o.OnBlock(i, t, s.sys.Storage)
		}

		res.Times = append(res.Times, t)
		res.Temperature = append(res.Temperature, metrics.Kinetic(s.sys.Storage))
	}

	res.StepsTaken = s.integ.Steps()
	for _, m := range s.metrics {
		res.Metrics[m.Name()] = m.Value()
	}
	if s.visc != nil {
		res.StressXZ = s.visc.XZ
		res.StressZX = s.visc.ZX
	}
	return res, nil
}

// Block runs one production block and returns the instantaneous
// temperature, for live displays.
func (s *Simulator) Block(ctx context.Context) (float64, error) {
	if err := s.integ.Run(ctx, s.cfg.StepsPerLoop); err != nil {
		return 0, err
	}
	return metrics.Kinetic(s.sys.Storage), nil
}

// Close detaches the thermostat from the loop. Safe to call repeatedly.
func (s *Simulator) Close() {
	if s.thermo != nil {
		s.thermo.Disconnect()
	}
}

func placeLattice(st *md.Storage, n int, l float64) {
	side := int(math.Ceil(math.Cbrt(float64(n))))
	a := l / float64(side)
	placed := 0
	for ix := 0; ix < side && placed < n; ix++ {
		for iy := 0; iy < side && placed < n; iy++ {
			for iz := 0; iz < side && placed < n; iz++ {
				st.Add(md.Particle{
					Mass: 1.0,
					Pos: mgl64.Vec3{
						(float64(ix) + 0.5) * a,
						(float64(iy) + 0.5) * a,
						(float64(iz) + 0.5) * a,
					},
				})
				placed++
			}
		}
	}
}

// drawVelocities samples Maxwell-Boltzmann velocities for temperature
// temp and removes the center-of-mass drift.
func drawVelocities(st *md.Storage, rng *md.Rand, temp float64) {
	n := st.N()
	if n == 0 {
		return
	}
	var mom mgl64.Vec3
	mass := 0.0
	for i := 0; i < n; i++ {
		p := st.Particle(i)
		sd := math.Sqrt(temp / p.Mass)
		p.Vel = mgl64.Vec3{rng.Normal() * sd, rng.Normal() * sd, rng.Normal() * sd}
		mom = mom.Add(p.Vel.Mul(p.Mass))
		mass += p.Mass
	}
	drift := mom.Mul(1 / mass)
	for i := 0; i < n; i++ {
		st.Particle(i).Vel = st.Particle(i).Vel.Sub(drift)
	}
}
