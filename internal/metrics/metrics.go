// Package metrics holds running statistics over a particle ensemble. A
// Recorder observes the ensemble after every controller tick.
package metrics

import (
	"github.com/san-kum/brownsim/internal/ensemble"
)

type Metric interface {
	Name() string
	Observe(e *ensemble.Ensemble, d, t float64)
	Value() float64
	Reset()
}

// Recorder is a tick observer feeding an ensemble to a set of metrics.
// Metrics see the time since the particles last restarted at the origin.
type Recorder struct {
	ens     *ensemble.Ensemble
	d       func() float64
	metrics []Metric
	origin  float64
}

// NewRecorder observes ens; d reports the current diffusion coefficient.
func NewRecorder(ens *ensemble.Ensemble, d func() float64, metrics ...Metric) *Recorder {
	return &Recorder{ens: ens, d: d, metrics: metrics}
}

// Default returns the metrics reported after a headless run.
func Default(escapeRadius float64) []Metric {
	return []Metric{NewMSDDrift(), NewStability(escapeRadius), NewCentroid()}
}

func (r *Recorder) OnTick(step int, t float64) {
	d := r.d()
	for _, m := range r.metrics {
		m.Observe(r.ens, d, t-r.origin)
	}
}

// OnReset clears every metric and restarts the clock at t.
func (r *Recorder) OnReset(t float64) {
	r.Reset()
	r.origin = t
}

func (r *Recorder) Metrics() []Metric { return r.metrics }

// Values returns every metric value by name.
func (r *Recorder) Values() map[string]float64 {
	out := make(map[string]float64, len(r.metrics))
	for _, m := range r.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (r *Recorder) Reset() {
	for _, m := range r.metrics {
		m.Reset()
	}
}
