// Package ensemble holds the particle positions of a run and their mean
// squared displacement history.
package ensemble

import (
	"math"

	"github.com/san-kum/brownsim/internal/dynamo"
	"github.com/san-kum/brownsim/internal/sampler"
)

// Ensemble is an ordered set of particles, index-aligned with any visual
// representation. It is not safe for concurrent use.
type Ensemble struct {
	particles []dynamo.Vec3
}

// New returns an ensemble of n particles at the origin.
func New(n int) *Ensemble {
	e := &Ensemble{}
	e.Reset(n)
	return e
}

// Reset discards every particle and creates n new ones at the origin.
// Negative n is treated as zero.
func (e *Ensemble) Reset(n int) {
	if n < 0 {
		n = 0
	}
	e.particles = make([]dynamo.Vec3, n)
}

func (e *Ensemble) Len() int { return len(e.particles) }

func (e *Ensemble) At(i int) dynamo.Vec3 { return e.particles[i] }

// Positions returns a copy of the particle positions in metres.
func (e *Ensemble) Positions() []dynamo.Vec3 {
	out := make([]dynamo.Vec3, len(e.particles))
	copy(out, e.particles)
	return out
}

// Scaled writes every position multiplied by scale into dst, growing it if
// needed, and returns it.
func (e *Ensemble) Scaled(dst []dynamo.Vec3, scale float64) []dynamo.Vec3 {
	if cap(dst) < len(e.particles) {
		dst = make([]dynamo.Vec3, len(e.particles))
	}
	dst = dst[:len(e.particles)]
	for i, p := range e.particles {
		dst[i] = p.Scale(scale)
	}
	return dst
}

// Step applies one Euler–Maruyama update of the Wiener process: each axis of
// each particle moves by an independent Normal(0, 2*D*dt) displacement.
func (e *Ensemble) Step(d, dt float64, s sampler.Sampler) {
	sigma := math.Sqrt(2 * d * dt)
	for i := range e.particles {
		p := &e.particles[i]
		p.X += sigma * s.Sample()
		p.Y += sigma * s.Sample()
		p.Z += sigma * s.Sample()
	}
}

// MeanSquaredDisplacement is the mean of x²+y²+z² over all particles.
// An empty ensemble has an MSD of 0.
func (e *Ensemble) MeanSquaredDisplacement() float64 {
	if len(e.particles) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range e.particles {
		sum += p.Norm2()
	}
	return sum / float64(len(e.particles))
}
