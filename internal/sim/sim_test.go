package sim

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/dpdsim/internal/config"
	"github.com/san-kum/dpdsim/internal/md"
	"github.com/san-kum/dpdsim/internal/metrics"
)

func smallConfig() *config.Config {
	cfg := config.Default()
	cfg.N = 27
	cfg.Density = 0.5
	cfg.Seed = 42
	cfg.Loops = 3
	cfg.StepsPerLoop = 5
	cfg.Warmup.Loops = 2
	cfg.Warmup.StepsPerLoop = 5
	return cfg
}

func TestNewBuildsLattice(t *testing.T) {
	cfg := smallConfig()
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	st := s.System().Storage
	if st.N() != 27 {
		t.Fatalf("placed %d particles, want 27", st.N())
	}
	// Box sized for the density.
	wantL := math.Cbrt(27 / 0.5)
	if got := st.Box().L[0]; math.Abs(got-wantL) > 1e-12 {
		t.Errorf("box length = %g, want %g", got, wantL)
	}
	// Lattice placement keeps everyone inside the box.
	for _, p := range st.Particles() {
		for k := 0; k < 3; k++ {
			if p.Pos[k] < 0 || p.Pos[k] >= wantL {
				t.Fatalf("particle outside box: %v", p.Pos)
			}
		}
	}
	// Velocity drift removed.
	if drift := metrics.TotalMomentum(st).Len(); drift > 1e-12 {
		t.Errorf("initial momentum = %g, want 0", drift)
	}
}

func TestRunConservesMomentumWithDPD(t *testing.T) {
	cfg := smallConfig()
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	if err := s.Warmup(ctx); err != nil {
		t.Fatalf("warmup: %v", err)
	}
	result, err := s.Run(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(result.Times) != cfg.Loops || len(result.Temperature) != cfg.Loops {
		t.Fatalf("trace lengths = %d/%d, want %d", len(result.Times), len(result.Temperature), cfg.Loops)
	}
	if drift := result.Metrics["momentum_drift"]; drift > 1e-8 {
		t.Errorf("momentum drift = %g, want ~0", drift)
	}
	if result.StepsTaken == 0 {
		t.Error("no steps recorded")
	}
}

func TestLangevinAndNoneThermostats(t *testing.T) {
	for _, typ := range []string{"langevin", "none"} {
		t.Run(typ, func(t *testing.T) {
			cfg := smallConfig()
			cfg.Thermostat.Type = typ
			s, err := New(cfg)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			defer s.Close()

			if _, err := s.Run(context.Background()); err != nil {
				t.Fatalf("run: %v", err)
			}
		})
	}
}

func TestViscosityAccumulationDuringRun(t *testing.T) {
	cfg := smallConfig()
	cfg.Thermostat.Viscosity = true
	cfg.Thermostat.TGamma = 0.5
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	result, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.StressXZ == 0 && result.StressZX == 0 {
		t.Error("stress accumulators untouched despite viscosity flag")
	}
}

func TestRejectsInvalidConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.Dt = 0
	if _, err := New(cfg); err == nil {
		t.Fatal("accepted invalid config")
	}
}

type observerFunc func(loop int, t float64)

func (f observerFunc) OnBlock(loop int, t float64, _ *md.Storage) { f(loop, t) }

func TestObserverNotifiedPerBlock(t *testing.T) {
	cfg := smallConfig()
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	count := 0
	s.AddObserver(observerFunc(func(loop int, tm float64) { count++ }))

	if _, err := s.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if count != cfg.Loops {
		t.Errorf("observer fired %d times, want %d", count, cfg.Loops)
	}
}
