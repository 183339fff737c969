package sim

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/brownsim/internal/dynamo"
	"github.com/san-kum/brownsim/internal/physics"
)

type fakeRenderer struct {
	next    int
	live    map[int]bool
	removed int
	frames  int
	last    []dynamo.Vec3
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{live: make(map[int]bool)}
}

func (r *fakeRenderer) AddObject() int {
	r.next++
	r.live[r.next] = true
	return r.next
}

func (r *fakeRenderer) RemoveObject(id int) {
	if r.live[id] {
		delete(r.live, id)
		r.removed++
	}
}

func (r *fakeRenderer) Render(positions []dynamo.Vec3) {
	r.frames++
	r.last = append(r.last[:0], positions...)
}

type fakeCharter struct {
	plots map[dynamo.ChartID][][]dynamo.Series
	err   error
}

func newFakeCharter() *fakeCharter {
	return &fakeCharter{plots: make(map[dynamo.ChartID][][]dynamo.Series)}
}

func (c *fakeCharter) Plot(chart dynamo.ChartID, series []dynamo.Series) error {
	c.plots[chart] = append(c.plots[chart], series)
	return c.err
}

func (c *fakeCharter) latest(chart dynamo.ChartID) []dynamo.Series {
	p := c.plots[chart]
	if len(p) == 0 {
		return nil
	}
	return p[len(p)-1]
}

type constSampler float64

func (s constSampler) Sample() float64 { return float64(s) }

type countingObserver struct{ ticks []int }

func (o *countingObserver) OnTick(step int, t float64) { o.ticks = append(o.ticks, step) }

type resettingObserver struct {
	countingObserver
	resets []float64
}

func (o *resettingObserver) OnReset(t float64) { o.resets = append(o.resets, t) }

var _ = Describe("Controller", func() {
	var (
		params   physics.Params
		renderer *fakeRenderer
		charter  *fakeCharter
		ctrl     *Controller
	)

	BeforeEach(func() {
		params = physics.DefaultParams()
		params.N = 10
		renderer = newFakeRenderer()
		charter = newFakeCharter()

		var err error
		ctrl, err = New(params, DefaultConfig(), renderer, charter)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("construction", func() {
		It("creates N particles at the origin with one render object each", func() {
			Expect(ctrl.Ensemble().Len()).To(Equal(10))
			Expect(renderer.live).To(HaveLen(10))
			Expect(ctrl.LiveObjects()).To(Equal(10))
			Expect(ctrl.Ensemble().MeanSquaredDisplacement()).To(BeZero())
		})

		It("rejects invalid parameters", func() {
			bad := physics.DefaultParams()
			bad.D = -1
			_, err := New(bad, DefaultConfig(), nil, nil)
			Expect(errors.Is(err, dynamo.ErrParameterBounds)).To(BeTrue())
		})

		It("rejects a zero cadence", func() {
			cfg := DefaultConfig()
			cfg.MSDEvery = 0
			_, err := New(physics.DefaultParams(), cfg, nil, nil)
			Expect(err).To(HaveOccurred())
		})

		It("runs headless without adapters", func() {
			c, err := New(physics.DefaultParams(), DefaultConfig(), nil, nil)
			Expect(err).NotTo(HaveOccurred())
			c.Init()
			Expect(c.Run(context.Background(), 25)).To(Succeed())
			Expect(c.Steps()).To(Equal(25))
		})
	})

	Describe("ticking", func() {
		It("samples MSD every fifth step at t = step*dt", func() {
			Expect(ctrl.Run(context.Background(), 23)).To(Succeed())

			s := ctrl.Series()
			Expect(s.Len()).To(Equal(4))
			for i, tm := range s.Time {
				Expect(tm).To(BeNumerically("~", float64(5*(i+1))*params.Dt, 1e-12))
			}
		})

		It("records zero MSD when sampling right after a reset", func() {
			ctrl.SetSampler(constSampler(1))
			Expect(ctrl.Run(context.Background(), 4)).To(Succeed())
			Expect(ctrl.SetN(6)).To(Succeed())

			ctrl.Tick()
			Expect(ctrl.Series().MSD).To(HaveLen(1))
			Expect(ctrl.Series().MSD[0]).To(BeZero())
		})

		It("refreshes the MSD chart every twentieth step", func() {
			ctrl.Init()
			before := len(charter.plots[dynamo.ChartMSD])

			Expect(ctrl.Run(context.Background(), 40)).To(Succeed())
			Expect(charter.plots[dynamo.ChartMSD]).To(HaveLen(before + 2))

			latest := charter.latest(dynamo.ChartMSD)
			Expect(latest).To(HaveLen(1))
			Expect(latest[0].X).To(HaveLen(8))
		})

		It("forwards positions scaled by the render scale", func() {
			ctrl.SetSampler(constSampler(1))
			ctrl.Tick()

			sigma := params.Sigma()
			Expect(renderer.frames).To(Equal(1))
			Expect(renderer.last).To(HaveLen(10))
			Expect(renderer.last[0].X).To(BeNumerically("~", sigma*DefaultRenderScale, 1e-15))
			Expect(ctrl.Ensemble().At(0).X).To(BeNumerically("~", sigma, 1e-18))
		})

		It("notifies observers after each tick", func() {
			obs := &countingObserver{}
			ctrl.AddObserver(obs)
			Expect(ctrl.Run(context.Background(), 3)).To(Succeed())
			Expect(obs.ticks).To(Equal([]int{1, 2, 3}))
		})

		It("stops when the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			err := ctrl.Run(ctx, 0)
			Expect(err).To(MatchError(context.Canceled))
			Expect(ctrl.Steps()).To(BeZero())
		})

		It("matches the 2*D*dt per-axis variance over many particles", func() {
			Expect(ctrl.SetN(physics.MaxParticles)).To(Succeed())
			ctrl.Tick()

			var sum, sumSq float64
			e := ctrl.Ensemble()
			for i := 0; i < e.Len(); i++ {
				x := e.At(i).Y
				sum += x
				sumSq += x * x
			}
			n := float64(e.Len())
			variance := sumSq/n - (sum/n)*(sum/n)
			want := 2 * params.D * params.Dt
			Expect(math.Abs(variance-want) / want).To(BeNumerically("<", 0.1))
		})
	})

	Describe("resizing", func() {
		It("leaves exactly b particles and b render objects", func() {
			Expect(ctrl.Run(context.Background(), 7)).To(Succeed())

			for _, n := range []int{3, 40, 1} {
				Expect(ctrl.SetN(n)).To(Succeed())
				Expect(ctrl.Ensemble().Len()).To(Equal(n))
				Expect(renderer.live).To(HaveLen(n))
				for i := 0; i < n; i++ {
					Expect(ctrl.Ensemble().At(i)).To(Equal(dynamo.Vec3{}))
				}
			}
			Expect(renderer.removed).To(Equal(10 + 3 + 40))
		})

		It("tells reset observers when the particles restart", func() {
			obs := &resettingObserver{}
			ctrl.AddObserver(obs)
			Expect(ctrl.Run(context.Background(), 4)).To(Succeed())
			Expect(ctrl.SetN(3)).To(Succeed())
			Expect(ctrl.SetN(0)).NotTo(Succeed())

			Expect(obs.resets).To(HaveLen(1))
			Expect(obs.resets[0]).To(BeNumerically("~", 4*params.Dt, 1e-12))
		})

		It("ignores an invalid size", func() {
			err := ctrl.SetN(0)
			Expect(errors.Is(err, dynamo.ErrParameterBounds)).To(BeTrue())
			Expect(ctrl.Ensemble().Len()).To(Equal(10))
			Expect(renderer.live).To(HaveLen(10))
		})
	})

	Describe("user input", func() {
		It("keeps the previous D on invalid input and keeps running", func() {
			Expect(ctrl.SetD(math.NaN())).To(HaveOccurred())
			Expect(ctrl.SetD(0)).To(HaveOccurred())
			Expect(ctrl.Params().D).To(Equal(params.D))
			Expect(ctrl.Run(context.Background(), 10)).To(Succeed())
		})

		It("redraws the analytical charts when D changes", func() {
			Expect(ctrl.SetD(2e-9)).To(Succeed())
			diff := charter.latest(dynamo.ChartDiffusionTime)
			Expect(diff).To(HaveLen(1))
			Expect(diff[0].Y[0]).To(BeNumerically("~", 1e-12/(6*2e-9), 1e-15))
			Expect(charter.latest(dynamo.ChartComparison)).To(HaveLen(2))
		})

		It("derives D from the Stokes-Einstein inputs", func() {
			Expect(ctrl.SetTemperature(310)).To(Succeed())
			Expect(ctrl.SetViscosity(0.001)).To(Succeed())
			Expect(ctrl.SetIonRadiusNm(1)).To(Succeed())

			d := ctrl.ApplyPhysics()
			want := 1.38e-23 * 310 / (6 * math.Pi * 0.001 * 1e-9)
			Expect(d).To(BeNumerically("~", want, want*1e-12))
			Expect(ctrl.Params().D).To(Equal(d))
		})

		It("marks the calculated point on both charts", func() {
			calc, ok := ctrl.Calculate(1000)
			Expect(ok).To(BeTrue())
			Expect(calc.DiffusionTime).To(BeNumerically("~", 0.1667, 1e-4))

			Expect(charter.latest(dynamo.ChartDiffusionTime)).To(HaveLen(2))
			Expect(charter.latest(dynamo.ChartComparison)).To(HaveLen(3))

			last, ok := ctrl.LastCalculation()
			Expect(ok).To(BeTrue())
			Expect(last.DistanceUm).To(Equal(1000.0))
		})

		It("skips a non-numeric distance", func() {
			plotted := len(charter.plots[dynamo.ChartDiffusionTime])
			_, ok := ctrl.Calculate(math.NaN())
			Expect(ok).To(BeFalse())
			Expect(charter.plots[dynamo.ChartDiffusionTime]).To(HaveLen(plotted))
			_, ok = ctrl.LastCalculation()
			Expect(ok).To(BeFalse())
		})

		It("routes named parameters", func() {
			Expect(ctrl.SetParam("N", 25)).To(Succeed())
			Expect(renderer.live).To(HaveLen(25))
			Expect(ctrl.SetParam("dt", 0.02)).To(Succeed())
			Expect(ctrl.Params().Dt).To(Equal(0.02))
			Expect(ctrl.SetParam("radius_nm", -1)).To(HaveOccurred())
		})
	})

	Describe("chart failures", func() {
		It("logs and continues", func() {
			charter.err = errors.New("chart library unavailable")
			ctrl.Init()
			Expect(ctrl.Run(context.Background(), 40)).To(Succeed())
			Expect(ctrl.Series().Len()).To(Equal(8))
		})
	})

	Describe("fitting", func() {
		It("recovers D from the MSD history", func() {
			Expect(ctrl.SetN(2000)).To(Succeed())
			Expect(ctrl.Run(context.Background(), 200)).To(Succeed())

			fit, err := ctrl.Fit()
			Expect(err).NotTo(HaveOccurred())
			Expect(fit.EstimatedD).To(BeNumerically("~", params.D, params.D*0.15))
		})

		It("needs at least two samples", func() {
			_, err := ctrl.Fit()
			Expect(errors.Is(err, dynamo.ErrEmptySeries)).To(BeTrue())
		})
	})
})
