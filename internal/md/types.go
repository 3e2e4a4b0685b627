package md

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Particle is a point particle with accumulated force.
type Particle struct {
	ID    int
	Type  int
	Mass  float64
	Pos   mgl64.Vec3
	Vel   mgl64.Vec3
	Force mgl64.Vec3
	Ghost bool
}

// Box is a periodic cuboid simulation box.
type Box struct {
	L mgl64.Vec3
}

func NewCubicBox(l float64) Box {
	return Box{L: mgl64.Vec3{l, l, l}}
}

func (b Box) Volume() float64 {
	return b.L[0] * b.L[1] * b.L[2]
}

// MinImage returns the nearest periodic image of the separation vector r.
func (b Box) MinImage(r mgl64.Vec3) mgl64.Vec3 {
	for i := 0; i < 3; i++ {
		r[i] -= b.L[i] * math.Round(r[i]/b.L[i])
	}
	return r
}

// Wrap folds a position back into the primary box.
func (b Box) Wrap(p mgl64.Vec3) mgl64.Vec3 {
	for i := 0; i < 3; i++ {
		p[i] -= b.L[i] * math.Floor(p[i]/b.L[i])
	}
	return p
}

// Storage owns the particle set of one process.
type Storage struct {
	box   Box
	parts []Particle
}

func NewStorage(box Box) *Storage {
	return &Storage{box: box}
}

func (s *Storage) Box() Box { return s.box }

func (s *Storage) N() int { return len(s.parts) }

// Add appends a particle and returns its index. Indices handed out
// before an Add must not be dereferenced across it.
func (s *Storage) Add(p Particle) int {
	p.ID = len(s.parts)
	s.parts = append(s.parts, p)
	return p.ID
}

// Particle returns a mutable reference to particle i.
func (s *Storage) Particle(i int) *Particle {
	return &s.parts[i]
}

func (s *Storage) Particles() []Particle { return s.parts }

func (s *Storage) ZeroForces() {
	for i := range s.parts {
		s.parts[i].Force = mgl64.Vec3{}
	}
}

// WrapAll folds all positions back into the primary box.
func (s *Storage) WrapAll() {
	for i := range s.parts {
		s.parts[i].Pos = s.box.Wrap(s.parts[i].Pos)
	}
}

// UpdateGhostsV propagates owner velocities to ghost copies. Must be
// invoked before any velocity-dependent force pass. In-process no-op.
func (s *Storage) UpdateGhostsV() {}

// CollectGhostForces reduces force contributions accumulated on ghost
// copies back to the owning process. In-process no-op.
func (s *Storage) CollectGhostForces() {}

// IsValid reports whether all positions, velocities and forces are finite.
func (s *Storage) IsValid() bool {
	for i := range s.parts {
		p := &s.parts[i]
		for k := 0; k < 3; k++ {
			if math.IsNaN(p.Pos[k]) || math.IsInf(p.Pos[k], 0) ||
				math.IsNaN(p.Vel[k]) || math.IsInf(p.Vel[k], 0) ||
				math.IsNaN(p.Force[k]) || math.IsInf(p.Force[k], 0) {
				return false
			}
		}
	}
	return true
}

// System bundles the collaborators a force extension needs: particle
// storage, the shared random source and the domain skin width.
type System struct {
	Storage *Storage
	RNG     RNG
	Skin    float64
}
