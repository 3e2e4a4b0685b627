// Package nlist provides neighbor (Verlet) lists for pairwise force
// evaluation. The list enumerates all particle pairs within an extended
// cutoff rc+skin and is rebuilt only when a particle has moved more
// than half the skin since the last build.
package nlist

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/dpdsim/internal/md"
)

// Pair holds the storage indices of two interacting particles.
type Pair struct {
	I, J int
}

// VerletList enumerates candidate interaction pairs.
type VerletList struct {
	st      *md.Storage
	rc      float64
	skin    float64
	pairs   []Pair
	lastPos []mgl64.Vec3
}

// New builds a Verlet list over st with interaction cutoff rc and
// rebuild skin. The list cutoff is rc+skin.
func New(st *md.Storage, rc, skin float64) (*VerletList, error) {
	if rc <= 0 {
		return nil, md.ErrBadCutoff
	}
	if skin < 0 {
		return nil, fmt.Errorf("nlist: skin must be non-negative, got %f", skin)
	}
	v := &VerletList{st: st, rc: rc, skin: skin}
	v.Rebuild()
	return v, nil
}

// Cutoff returns the list cutoff rc+skin. Consumers that need the bare
// interaction cutoff subtract the domain skin.
func (v *VerletList) Cutoff() float64 { return v.rc + v.skin }

func (v *VerletList) Skin() float64 { return v.skin }

func (v *VerletList) Pairs() []Pair { return v.pairs }

// Rebuild re-enumerates all pairs within the list cutoff using
// minimum-image distances.
func (v *VerletList) Rebuild() {
	box := v.st.Box()
	parts := v.st.Particles()
	n := len(parts)
	cut2 := v.Cutoff() * v.Cutoff()

	v.pairs = v.pairs[:0]
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := box.MinImage(parts[i].Pos.Sub(parts[j].Pos))
			if r.Dot(r) < cut2 {
				v.pairs = append(v.pairs, Pair{I: i, J: j})
			}
		}
	}

	if len(v.lastPos) != n {
		v.lastPos = make([]mgl64.Vec3, n)
	}
	for i := 0; i < n; i++ {
		v.lastPos[i] = parts[i].Pos
	}
}

// MaybeRebuild rebuilds the list if any particle has moved more than
// skin/2 since the last build and reports whether it did.
func (v *VerletList) MaybeRebuild() bool {
	box := v.st.Box()
	parts := v.st.Particles()
	if len(parts) != len(v.lastPos) {
		v.Rebuild()
		return true
	}
	lim2 := (v.skin / 2) * (v.skin / 2)
	for i := range parts {
		d := box.MinImage(parts[i].Pos.Sub(v.lastPos[i]))
		if d.Dot(d) > lim2 {
			v.Rebuild()
			return true
		}
	}
	return false
}
