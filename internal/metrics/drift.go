package metrics

import (
	"math"

	"github.com/san-kum/brownsim/internal/ensemble"
)

// MSDDrift tracks the largest relative deviation of the ensemble MSD from the
// 3D expectation 6*D*t.
type MSDDrift struct {
	name     string
	maxDrift float64
	current  float64
	samples  int
}

func NewMSDDrift() *MSDDrift {
	return &MSDDrift{name: "msd_drift"}
}

func (m *MSDDrift) Name() string { return m.name }

func (m *MSDDrift) Observe(e *ensemble.Ensemble, d, t float64) {
	expected := 6 * d * t
	if expected <= 0 || e.Len() == 0 {
		return
	}
	m.current = math.Abs(e.MeanSquaredDisplacement()-expected) / expected
	m.maxDrift = math.Max(m.maxDrift, m.current)
	m.samples++
}

func (m *MSDDrift) Value() float64   { return m.maxDrift }
func (m *MSDDrift) Current() float64 { return m.current }

func (m *MSDDrift) Reset() {
	m.maxDrift = 0
	m.current = 0
	m.samples = 0
}

// Centroid is the distance of the ensemble's mean position from the origin.
// Unbiased steps keep it near sqrt(6*D*t/N).
type Centroid struct {
	name  string
	value float64
}

func NewCentroid() *Centroid { return &Centroid{name: "centroid"} }

func (c *Centroid) Name() string { return c.name }

func (c *Centroid) Observe(e *ensemble.Ensemble, d, t float64) {
	n := e.Len()
	if n == 0 {
		c.value = 0
		return
	}
	var sx, sy, sz float64
	for i := 0; i < n; i++ {
		p := e.At(i)
		sx += p.X
		sy += p.Y
		sz += p.Z
	}
	fn := float64(n)
	c.value = math.Sqrt((sx*sx + sy*sy + sz*sz) / (fn * fn))
}

func (c *Centroid) Value() float64 { return c.value }
func (c *Centroid) Reset()         { c.value = 0 }
