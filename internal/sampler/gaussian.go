// Package sampler draws standard normal deviates for the particle update.
package sampler

import (
	"math"
	"math/rand"
)

// Uniform is a source of uniform samples in [0, 1). *rand.Rand satisfies it.
type Uniform interface {
	Float64() float64
}

// Sampler produces one standard normal deviate per call.
type Sampler interface {
	Sample() float64
}

// BoxMuller turns pairs of uniform samples into normal deviates using the
// cosine branch of the Box–Muller transform. The sine branch is discarded so
// every call is independent of the previous one.
type BoxMuller struct {
	src Uniform
}

func NewBoxMuller(src Uniform) *BoxMuller {
	return &BoxMuller{src: src}
}

// NewSeeded returns a BoxMuller over a math/rand source seeded with seed.
func NewSeeded(seed int64) *BoxMuller {
	return NewBoxMuller(rand.New(rand.NewSource(seed)))
}

func (b *BoxMuller) Sample() float64 {
	u, v := b.nonZero(), b.nonZero()
	return math.Sqrt(-2.0*math.Log(u)) * math.Cos(2.0*math.Pi*v)
}

// nonZero redraws until the sample is not exactly 0, keeping log(u) finite.
func (b *BoxMuller) nonZero() float64 {
	x := b.src.Float64()
	for x == 0 {
		x = b.src.Float64()
	}
	return x
}
