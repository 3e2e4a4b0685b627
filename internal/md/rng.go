package md

import "math/rand"

// RNG is the uniform random source shared process-wide by stochastic
// force extensions. Uniform returns one variate in [0,1) per call.
type RNG interface {
	Uniform() float64
}

// Rand is the default RNG, a seeded wrapper around math/rand.
type Rand struct {
	src *rand.Rand
}

func NewRand(seed int64) *Rand {
	return &Rand{src: rand.New(rand.NewSource(seed))}
}

func (r *Rand) Uniform() float64 { return r.src.Float64() }

func (r *Rand) Normal() float64 { return r.src.NormFloat64() }
