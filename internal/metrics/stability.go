package metrics

import (
	"math"

	"github.com/san-kum/brownsim/internal/ensemble"
)

// Stability is the fraction of observed particles that stayed within the
// escape radius, and MaxRadius the farthest distance seen from the origin.
type Stability struct {
	name      string
	threshold float64
	escaped   int
	samples   int
	maxRadius float64
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(e *ensemble.Ensemble, d, t float64) {
	for i := 0; i < e.Len(); i++ {
		r := math.Sqrt(e.At(i).Norm2())
		s.samples++
		if !(r <= s.threshold) {
			s.escaped++
		}
		if r > s.maxRadius {
			s.maxRadius = r
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.escaped)/float64(s.samples)
}

func (s *Stability) MaxRadius() float64 { return s.maxRadius }

func (s *Stability) Reset() {
	s.escaped = 0
	s.samples = 0
	s.maxRadius = 0
}
