package nlist

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/dpdsim/internal/md"
)

func threeParticles(t *testing.T) *md.Storage {
	t.Helper()
	st := md.NewStorage(md.NewCubicBox(10))
	st.Add(md.Particle{Mass: 1, Pos: mgl64.Vec3{1, 1, 1}})
	st.Add(md.Particle{Mass: 1, Pos: mgl64.Vec3{2, 1, 1}}) // 1.0 from first
	st.Add(md.Particle{Mass: 1, Pos: mgl64.Vec3{5, 5, 5}}) // far from both
	return st
}

func TestNewValidation(t *testing.T) {
	st := md.NewStorage(md.NewCubicBox(10))
	if _, err := New(st, 0, 0.3); err == nil {
		t.Fatal("accepted zero cutoff")
	}
	if _, err := New(st, 1.0, -0.1); err == nil {
		t.Fatal("accepted negative skin")
	}
}

func TestPairEnumeration(t *testing.T) {
	st := threeParticles(t)
	vl, err := New(st, 1.0, 0.3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	pairs := vl.Pairs()
	if len(pairs) != 1 {
		t.Fatalf("pairs = %v, want exactly the close pair", pairs)
	}
	if pairs[0] != (Pair{I: 0, J: 1}) {
		t.Errorf("pair = %v, want {0 1}", pairs[0])
	}
	if vl.Cutoff() != 1.3 {
		t.Errorf("list cutoff = %g, want 1.3", vl.Cutoff())
	}
}

func TestPeriodicPair(t *testing.T) {
	st := md.NewStorage(md.NewCubicBox(10))
	st.Add(md.Particle{Mass: 1, Pos: mgl64.Vec3{0.2, 5, 5}})
	st.Add(md.Particle{Mass: 1, Pos: mgl64.Vec3{9.8, 5, 5}}) // 0.4 across the boundary

	vl, err := New(st, 1.0, 0.3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(vl.Pairs()) != 1 {
		t.Fatalf("periodic pair not found: %v", vl.Pairs())
	}
}

func TestMaybeRebuild(t *testing.T) {
	st := threeParticles(t)
	vl, err := New(st, 1.0, 0.3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// Small move below skin/2: no rebuild.
	st.Particle(0).Pos = st.Particle(0).Pos.Add(mgl64.Vec3{0.1, 0, 0})
	if vl.MaybeRebuild() {
		t.Fatal("rebuilt below the displacement threshold")
	}

	// Push the far particle next to the first: rebuild must pick up the
	// new pair.
	st.Particle(2).Pos = mgl64.Vec3{1.5, 1.6, 1}
	if !vl.MaybeRebuild() {
		t.Fatal("no rebuild after large displacement")
	}
	if len(vl.Pairs()) != 3 {
		t.Fatalf("pairs after rebuild = %v, want all three", vl.Pairs())
	}
}
