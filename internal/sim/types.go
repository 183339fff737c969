package sim

import (
	"fmt"

	"github.com/san-kum/brownsim/internal/analysis"
	"github.com/san-kum/brownsim/internal/dynamo"
)

// Renderer is a 3D scene surface. Each particle owns one object created with
// AddObject; Render receives positions already multiplied by the render scale,
// index-aligned with the objects in creation order.
type Renderer interface {
	AddObject() int
	RemoveObject(id int)
	Render(positions []dynamo.Vec3)
}

// Charter redraws one chart in place with the given series.
type Charter interface {
	Plot(chart dynamo.ChartID, series []dynamo.Series) error
}

// Observer is notified after every tick.
type Observer interface {
	OnTick(step int, t float64)
}

// ResetObserver is an Observer that is also told when the particles restart
// at the origin. t is the simulation time of the restart.
type ResetObserver interface {
	Observer
	OnReset(t float64)
}

const (
	DefaultMSDEvery    = 5
	DefaultPlotEvery   = 20
	DefaultRenderScale = 1e4
)

// Config holds the loop cadence. MSD is sampled every MSDEvery steps and the
// MSD chart is refreshed on steps that are multiples of both MSDEvery and
// PlotEvery.
type Config struct {
	MSDEvery    int
	PlotEvery   int
	RenderScale float64
	Velocity    float64
	Seed        int64
}

func DefaultConfig() Config {
	return Config{
		MSDEvery:    DefaultMSDEvery,
		PlotEvery:   DefaultPlotEvery,
		RenderScale: DefaultRenderScale,
		Velocity:    analysis.DefaultVelocity,
	}
}

func (c Config) validate() error {
	if c.MSDEvery <= 0 {
		return fmt.Errorf("msd cadence must be positive, got %d", c.MSDEvery)
	}
	if c.PlotEvery <= 0 {
		return fmt.Errorf("plot cadence must be positive, got %d", c.PlotEvery)
	}
	if !(c.RenderScale > 0) {
		return fmt.Errorf("render scale must be positive, got %g", c.RenderScale)
	}
	if !(c.Velocity > 0) {
		return fmt.Errorf("velocity must be positive, got %g", c.Velocity)
	}
	return nil
}

type nopRenderer struct{ next int }

func (r *nopRenderer) AddObject() int       { r.next++; return r.next }
func (r *nopRenderer) RemoveObject(int)     {}
func (r *nopRenderer) Render([]dynamo.Vec3) {}

type nopCharter struct{}

func (nopCharter) Plot(dynamo.ChartID, []dynamo.Series) error { return nil }
