package sim

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/brownsim/internal/analysis"
	"github.com/san-kum/brownsim/internal/dynamo"
	"github.com/san-kum/brownsim/internal/ensemble"
	"github.com/san-kum/brownsim/internal/physics"
	"github.com/san-kum/brownsim/internal/sampler"
)

// Controller owns the state of one run: parameters, particles, MSD history
// and the rendering surfaces. It is driven from a single goroutine.
type Controller struct {
	params    physics.Params
	cfg       Config
	ens       *ensemble.Ensemble
	series    ensemble.Series
	sampler   sampler.Sampler
	renderer  Renderer
	charter   Charter
	observers []Observer
	logger    *slog.Logger

	objects   []int
	step      int
	scaled    []dynamo.Vec3
	lastCalc  *analysis.Calculation
	highlight *float64
}

// New validates params and cfg and creates n = params.N particles at the
// origin, each with a render object. Nil renderer or charter run headless.
func New(params physics.Params, cfg Config, renderer Renderer, charter Charter) (*Controller, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if renderer == nil {
		renderer = &nopRenderer{}
	}
	if charter == nil {
		charter = nopCharter{}
	}

	c := &Controller{
		params:   params,
		cfg:      cfg,
		ens:      ensemble.New(0),
		sampler:  sampler.NewSeeded(cfg.Seed),
		renderer: renderer,
		charter:  charter,
		logger:   slog.Default(),
	}
	c.reset(params.N)
	return c, nil
}

func (c *Controller) SetLogger(l *slog.Logger)     { c.logger = l }
func (c *Controller) SetSampler(s sampler.Sampler) { c.sampler = s }
func (c *Controller) AddObserver(o Observer)       { c.observers = append(c.observers, o) }
func (c *Controller) Params() physics.Params       { return c.params }
func (c *Controller) Config() Config               { return c.cfg }
func (c *Controller) Steps() int                   { return c.step }
func (c *Controller) Time() float64                { return float64(c.step) * c.params.Dt }
func (c *Controller) Ensemble() *ensemble.Ensemble { return c.ens }
func (c *Controller) Series() *ensemble.Series     { return &c.series }
func (c *Controller) LiveObjects() int             { return len(c.objects) }

// LastCalculation returns the most recent successful distance calculation.
func (c *Controller) LastCalculation() (analysis.Calculation, bool) {
	if c.lastCalc == nil {
		return analysis.Calculation{}, false
	}
	return *c.lastCalc, true
}

// Init draws every chart once: the (possibly empty) MSD series and the
// analytical curves for the current D.
func (c *Controller) Init() {
	c.plotMSD()
	c.plotCurves()
}

// Tick advances the simulation by one step. The MSD is sampled before the
// particles move, at t = step*dt.
func (c *Controller) Tick() {
	c.step++

	if c.step%c.cfg.MSDEvery == 0 {
		c.series.Accumulate(c.ens, float64(c.step)*c.params.Dt)
		if c.step%c.cfg.PlotEvery == 0 {
			c.plotMSD()
		}
	}

	c.ens.Step(c.params.D, c.params.Dt, c.sampler)

	c.scaled = c.ens.Scaled(c.scaled, c.cfg.RenderScale)
	c.renderer.Render(c.scaled)

	for _, o := range c.observers {
		o.OnTick(c.step, c.Time())
	}
}

// Run ticks until ctx is done or, when ticks > 0, ticks steps have run.
func (c *Controller) Run(ctx context.Context, ticks int) error {
	for i := 0; ticks <= 0 || i < ticks; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		c.Tick()
	}
	return nil
}

// reset discards all particles and their render objects and creates n new
// ones at the origin.
func (c *Controller) reset(n int) {
	for _, id := range c.objects {
		c.renderer.RemoveObject(id)
	}
	c.objects = c.objects[:0]

	c.ens.Reset(n)
	for i := 0; i < n; i++ {
		c.objects = append(c.objects, c.renderer.AddObject())
	}

	for _, o := range c.observers {
		if r, ok := o.(ResetObserver); ok {
			r.OnReset(c.Time())
		}
	}
}

func (c *Controller) rejected(err error) error {
	c.logger.Debug("input ignored", "error", err)
	return err
}

func (c *Controller) SetD(v float64) error {
	if err := c.params.SetD(v); err != nil {
		return c.rejected(err)
	}
	c.highlight = nil
	c.plotCurves()
	return nil
}

func (c *Controller) SetDt(v float64) error {
	if err := c.params.SetDt(v); err != nil {
		return c.rejected(err)
	}
	return nil
}

// SetN resizes the ensemble; every particle restarts at the origin.
func (c *Controller) SetN(n int) error {
	if err := c.params.SetN(n); err != nil {
		return c.rejected(err)
	}
	c.reset(n)
	return nil
}

func (c *Controller) SetTemperature(v float64) error {
	if err := c.params.SetTemperature(v); err != nil {
		return c.rejected(err)
	}
	return nil
}

func (c *Controller) SetViscosity(v float64) error {
	if err := c.params.SetViscosity(v); err != nil {
		return c.rejected(err)
	}
	return nil
}

func (c *Controller) SetIonRadiusNm(nm float64) error {
	if err := c.params.SetIonRadius(physics.NanometersToMeters(nm)); err != nil {
		return c.rejected(err)
	}
	return nil
}

// SetParam routes a named parameter to its setter.
func (c *Controller) SetParam(name string, value float64) error {
	switch name {
	case "D":
		return c.SetD(value)
	case "N":
		p := c.params
		if err := p.SetParam(name, value); err != nil {
			return c.rejected(err)
		}
		return c.SetN(p.N)
	default:
		if err := c.params.SetParam(name, value); err != nil {
			return c.rejected(err)
		}
		return nil
	}
}

// ApplyPhysics derives D from temperature, viscosity and radius and redraws
// the analytical charts.
func (c *Controller) ApplyPhysics() float64 {
	d := c.params.ApplyPhysics()
	c.highlight = nil
	c.plotCurves()
	c.logger.Debug("derived D", "D", physics.FormatD(d))
	return d
}

// Calculate evaluates both times at distanceUm micrometres and marks the point
// on the analytical charts. Invalid input skips the calculation.
func (c *Controller) Calculate(distanceUm float64) (analysis.Calculation, bool) {
	calc, ok := analysis.Calculate(distanceUm, c.params.D, c.cfg.Velocity)
	if !ok {
		c.logger.Debug("calculation skipped", "distance_um", distanceUm)
		return calc, false
	}
	c.lastCalc = &calc
	um := distanceUm
	c.highlight = &um
	c.plotCurves()
	return calc, true
}

// Fit estimates D from the MSD history.
func (c *Controller) Fit() (analysis.Fit, error) {
	fit, err := analysis.FitDiffusion(c.series.Time, c.series.MSD)
	if err != nil {
		return fit, fmt.Errorf("fit after %d steps: %w", c.step, err)
	}
	return fit, nil
}

func (c *Controller) plotMSD() {
	c.plot(dynamo.ChartMSD, []dynamo.Series{{
		Name: "MSD",
		Mode: dynamo.ModeLines,
		X:    c.series.Time,
		Y:    c.series.MSD,
	}})
}

func (c *Controller) plotCurves() {
	c.plot(dynamo.ChartDiffusionTime, analysis.DiffusionCurve(c.params.D, c.highlight))
	c.plot(dynamo.ChartComparison, analysis.ComparisonCurve(c.params.D, c.cfg.Velocity, c.highlight))
}

// plot never fails the loop; chart errors are logged and the run continues.
func (c *Controller) plot(chart dynamo.ChartID, series []dynamo.Series) {
	if err := c.charter.Plot(chart, series); err != nil {
		c.logger.Warn("chart update failed", "chart", chart.String(), "error", err)
	}
}
