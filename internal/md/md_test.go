package md

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestBoxMinImage(t *testing.T) {
	box := NewCubicBox(10)
	tests := []struct {
		name string
		in   mgl64.Vec3
		want mgl64.Vec3
	}{
		{"inside", mgl64.Vec3{1, -2, 3}, mgl64.Vec3{1, -2, 3}},
		{"positive fold", mgl64.Vec3{6, 0, 0}, mgl64.Vec3{-4, 0, 0}},
		{"negative fold", mgl64.Vec3{0, -7, 0}, mgl64.Vec3{0, 3, 0}},
		{"multiple periods", mgl64.Vec3{0, 0, 23}, mgl64.Vec3{0, 0, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := box.MinImage(tt.in)
			if got.Sub(tt.want).Len() > 1e-12 {
				t.Errorf("MinImage(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestBoxWrap(t *testing.T) {
	box := NewCubicBox(10)
	got := box.Wrap(mgl64.Vec3{11, -1, 3})
	want := mgl64.Vec3{1, 9, 3}
	if got.Sub(want).Len() > 1e-12 {
		t.Errorf("Wrap = %v, want %v", got, want)
	}
}

func TestStorageValidity(t *testing.T) {
	st := NewStorage(NewCubicBox(10))
	st.Add(Particle{Mass: 1, Pos: mgl64.Vec3{1, 2, 3}})
	if !st.IsValid() {
		t.Fatal("finite state reported invalid")
	}
	st.Particle(0).Vel = mgl64.Vec3{math.Inf(1), 0, 0}
	if st.IsValid() {
		t.Fatal("Inf velocity reported valid")
	}
}

func TestStorageZeroForces(t *testing.T) {
	st := NewStorage(NewCubicBox(10))
	st.Add(Particle{Mass: 1, Force: mgl64.Vec3{1, 1, 1}})
	st.ZeroForces()
	if st.Particle(0).Force.Len() != 0 {
		t.Fatal("forces not cleared")
	}
}

func TestRandUniformRange(t *testing.T) {
	rng := NewRand(42)
	for i := 0; i < 1000; i++ {
		u := rng.Uniform()
		if u < 0 || u >= 1 {
			t.Fatalf("uniform draw %g outside [0,1)", u)
		}
	}
}

func TestRandDeterministic(t *testing.T) {
	a := NewRand(7)
	b := NewRand(7)
	for i := 0; i < 10; i++ {
		if a.Uniform() != b.Uniform() {
			t.Fatal("same seed produced different sequences")
		}
	}
}

func TestStepErrorUnwrap(t *testing.T) {
	err := &StepError{Step: 3, Time: 0.03, Wrapped: ErrInvalidState}
	if !errors.Is(err, ErrInvalidState) {
		t.Fatal("StepError does not unwrap to its cause")
	}
}
