package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/brownsim/internal/analysis"
	"github.com/san-kum/brownsim/internal/automation"
	"github.com/san-kum/brownsim/internal/config"
	"github.com/san-kum/brownsim/internal/dynamo"
	"github.com/san-kum/brownsim/internal/export"
	"github.com/san-kum/brownsim/internal/logging"
	"github.com/san-kum/brownsim/internal/metrics"
	"github.com/san-kum/brownsim/internal/physics"
	"github.com/san-kum/brownsim/internal/sim"
	"github.com/san-kum/brownsim/internal/storage"
	"github.com/san-kum/brownsim/internal/stream"
	"github.com/san-kum/brownsim/internal/tui"
	"github.com/san-kum/brownsim/internal/viz"
)

var (
	dataDir  string
	logLevel string

	d           float64
	dt          float64
	numParticle int
	temperature float64
	viscosity   float64
	radiusNm    float64
	velocity    float64
	distanceUm  float64
	seed        int64
	steps       int
	frameRate   int
	deriveD     bool

	configFile string
	preset     string

	// export-svg
	chartName string
	outFile   string

	// serve
	addr string

	// trials and sweep
	numTrials   int
	sweepParam  string
	sweepValues []float64
)

// main registers the brownsim commands and runs the interactive TUI when no
// subcommand is given.
func main() {
	rootCmd := &cobra.Command{
		Use:   "brownsim",
		Short: "brownian motion diffusion simulator",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			slog.SetDefault(logging.NewLogger(logLevel, os.Stderr))
		},
		RunE: runInteractive,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".brownsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug|info|warn|error)")
	addSimFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and store the MSD series",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with a live braille view in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSimFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the MSD series of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	curvesCmd := &cobra.Command{
		Use:   "curves",
		Short: "plot diffusion and action potential times against distance",
		Args:  cobra.NoArgs,
		RunE:  plotCurves,
	}
	curvesCmd.Flags().Float64Var(&d, "d", physics.DefaultD, "diffusion coefficient (m²/s)")
	curvesCmd.Flags().Float64Var(&velocity, "velocity", analysis.DefaultVelocity, "action potential velocity (m/s)")
	curvesCmd.Flags().Float64Var(&distanceUm, "distance", config.DefaultDistanceUm, "highlighted distance (µm)")

	calcCmd := &cobra.Command{
		Use:   "calc",
		Short: "diffusion and action potential time for a distance",
		Args:  cobra.NoArgs,
		RunE:  calculate,
	}
	calcCmd.Flags().Float64Var(&d, "d", physics.DefaultD, "diffusion coefficient (m²/s)")
	calcCmd.Flags().Float64Var(&velocity, "velocity", analysis.DefaultVelocity, "action potential velocity (m/s)")
	calcCmd.Flags().Float64Var(&distanceUm, "distance", config.DefaultDistanceUm, "distance (µm)")

	deriveCmd := &cobra.Command{
		Use:   "derive",
		Short: "derive D with the Stokes-Einstein relation",
		Args:  cobra.NoArgs,
		RunE:  derive,
	}
	deriveCmd.Flags().Float64Var(&temperature, "temp", physics.DefaultTemperature, "temperature (K)")
	deriveCmd.Flags().Float64Var(&viscosity, "visc", physics.DefaultViscosity, "viscosity (Pa·s)")
	deriveCmd.Flags().Float64Var(&radiusNm, "radius", physics.DefaultIonRadiusNm, "ion radius (nm)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export the MSD series of a run to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportCSV(os.Stdout, args[0])
		},
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and MSD series to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
		},
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a chart or the final particle frame of a run to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&chartName, "chart", dynamo.ChartMSD.String(), "chart (msd|diffusion|comparison|scene)")
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tD\tDT\tN\tT\tETA\tRADIUS")
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				p := cfg.Params()
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%s nm\n",
					name,
					physics.FormatD(p.D),
					physics.FormatDt(p.Dt),
					p.N,
					physics.FormatTemperature(p.Temperature),
					physics.FormatViscosity(p.Viscosity),
					physics.FormatRadiusNm(p.IonRadius),
				)
			}
			return w.Flush()
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "run the simulation and stream it over WebSocket",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
	addSimFlags(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted scenario from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	addSimFlags(scenarioCmd)

	trialsCmd := &cobra.Command{
		Use:   "trials",
		Short: "repeat a run with different seeds and summarize the fitted D",
		Args:  cobra.NoArgs,
		RunE:  runTrials,
	}
	addSimFlags(trialsCmd)
	trialsCmd.Flags().IntVar(&numTrials, "trials", 10, "number of trials")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one parameter and report the MSD fit error",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "N", "parameter to sweep ("+strings.Join(physics.ParamKeys, "|")+")")
	sweepCmd.Flags().Float64SliceVar(&sweepValues, "values", []float64{50, 100, 200, 400}, "values to try")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, curvesCmd, calcCmd, deriveCmd,
		exportCSVCmd, exportJSONCmd, exportSVGCmd, presetsCmd, serveCmd,
		scenarioCmd, trialsCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64Var(&d, "d", physics.DefaultD, "diffusion coefficient (m²/s)")
	f.Float64Var(&dt, "dt", physics.DefaultDt, "timestep (s)")
	f.IntVar(&numParticle, "n", physics.DefaultN, "number of particles")
	f.Float64Var(&temperature, "temp", physics.DefaultTemperature, "temperature (K)")
	f.Float64Var(&viscosity, "visc", physics.DefaultViscosity, "viscosity (Pa·s)")
	f.Float64Var(&radiusNm, "radius", physics.DefaultIonRadiusNm, "ion radius (nm)")
	f.Float64Var(&velocity, "velocity", analysis.DefaultVelocity, "action potential velocity (m/s)")
	f.Float64Var(&distanceUm, "distance", config.DefaultDistanceUm, "calculator distance (µm)")
	f.Int64Var(&seed, "seed", 0, "random seed (0 picks one from the clock)")
	f.IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	f.IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
	f.BoolVar(&deriveD, "derive", false, "derive D from temperature, viscosity and radius")
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
}

// resolveConfig layers defaults, preset, config file and explicitly set
// flags, in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v): %w", preset, config.ListPresets(), dynamo.ErrNotFound)
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("d") {
		cfg.D = d
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("n") {
		cfg.N = numParticle
	}
	if flags.Changed("temp") {
		cfg.Temperature = temperature
	}
	if flags.Changed("visc") {
		cfg.Viscosity = viscosity
	}
	if flags.Changed("radius") {
		cfg.RadiusNm = radiusNm
	}
	if flags.Changed("velocity") {
		cfg.Velocity = velocity
	}
	if flags.Changed("distance") {
		cfg.DistanceUm = distanceUm
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("fps") {
		cfg.FPS = frameRate
	}
	if flags.Changed("derive") {
		cfg.DeriveD = deriveD
	}

	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newController(cfg *config.Config, renderer sim.Renderer, charter sim.Charter) (*sim.Controller, error) {
	ctrl, err := sim.New(cfg.Params(), cfg.SimConfig(), renderer, charter)
	if err != nil {
		return nil, err
	}
	ctrl.SetLogger(slog.Default())
	return ctrl, nil
}

func runInteractive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	scene := viz.NewScene(48, 18)
	charts := viz.NewCharts(64, 10)
	ctrl, err := newController(cfg, scene, charts)
	if err != nil {
		return err
	}
	// the alternate screen owns the terminal
	ctrl.SetLogger(logging.Discard())

	return viz.Run(viz.NewApp(ctrl, scene, charts, cfg.FPS, cfg.DistanceUm))
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctrl, err := newController(cfg, nil, nil)
	if err != nil {
		return err
	}

	params := ctrl.Params()
	escape := 5 * math.Sqrt(6*params.D*params.Dt*float64(cfg.Steps))
	if escape == 0 {
		escape = math.Inf(1)
	}
	recorder := metrics.NewRecorder(ctrl.Ensemble(), func() float64 { return ctrl.Params().D }, metrics.Default(escape)...)
	ctrl.AddObserver(recorder)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %d particles for %d steps (D=%s, dt=%s)...\n",
		params.N, cfg.Steps, physics.FormatD(params.D), physics.FormatDt(params.Dt))
	start := time.Now()

	if err := ctrl.Run(ctx, cfg.Steps); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	elapsed := time.Since(start)

	meta := storage.RunMetadata{
		Seed:        cfg.Seed,
		D:           params.D,
		Dt:          params.Dt,
		N:           params.N,
		Temperature: params.Temperature,
		Viscosity:   params.Viscosity,
		RadiusNm:    physics.MetersToNanometers(params.IonRadius),
		Steps:       ctrl.Steps(),
	}
	fit, fitErr := ctrl.Fit()
	if fitErr == nil {
		meta.FittedD = fit.EstimatedD
		meta.RSquared = fit.RSquared
	}

	runID, err := st.Save(meta, cfg, ctrl.Series())
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d (t=%.2fs)\n", ctrl.Steps(), ctrl.Time())
	fmt.Printf("msd samples: %d\n", ctrl.Series().Len())
	fmt.Println("\nmetrics:")
	for _, m := range recorder.Metrics() {
		fmt.Printf("  %s: %.6g\n", m.Name(), m.Value())
	}
	if fitErr != nil {
		fmt.Printf("fit: %v\n", fitErr)
		return nil
	}

	xs := make([]float64, 0, ctrl.Ensemble().Len())
	for _, p := range ctrl.Ensemble().Positions() {
		xs = append(xs, p.X)
	}

	fmt.Println("\nfit:")
	fmt.Printf("  input D:     %s m²/s\n", physics.FormatD(params.D))
	fmt.Printf("  fitted D:    %s m²/s\n", physics.FormatD(fit.EstimatedD))
	fmt.Printf("  r²:          %.4f\n", fit.RSquared)
	fmt.Printf("  var(x):      %.3e m² (2Dt = %.3e)\n", analysis.AxisVariance(xs), 2*params.D*ctrl.Time())
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	scene := viz.NewScene(60, 20)
	ctrl, err := newController(cfg, scene, nil)
	if err != nil {
		return err
	}
	live := tui.NewLiveRenderer(scene, ctrl.Series(), os.Stdout, cfg.FPS)
	ctrl.AddObserver(live)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	live.Start()
	defer live.Stop()

	ticker := time.NewTicker(time.Second / time.Duration(cfg.FPS))
	defer ticker.Stop()

	for i := 0; cfg.Steps == 0 || i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			ctrl.Tick()
		}
	}

	if fit, err := ctrl.Fit(); err == nil {
		fmt.Printf("\n  fitted D = %s m²/s (input %s)\n", physics.FormatD(fit.EstimatedD), physics.FormatD(ctrl.Params().D))
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tN\tSTEPS\tDT\tD\tFITTED D")

	for _, run := range runs {
		fitted := "-"
		if run.FittedD != 0 {
			fitted = physics.FormatD(run.FittedD)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.N,
			run.Steps,
			physics.FormatDt(run.Dt),
			physics.FormatD(run.D),
			fitted,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	if series.Len() < 2 {
		return fmt.Errorf("run %s: %w", runID, dynamo.ErrEmptySeries)
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("particles: %d\n", meta.N)
	fmt.Printf("samples: %d\n\n", series.Len())

	graph := asciigraph.Plot(scaleSeries(series.MSD, 1e12),
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("MSD (µm²) vs time, %.2f…%.2f s", series.Time[0], series.Time[series.Len()-1])),
	)
	fmt.Println(graph)

	if fit, err := analysis.FitDiffusion(series.Time, series.MSD); err == nil {
		fmt.Printf("\nfitted D = %s m²/s, r² = %.4f (input %s)\n",
			physics.FormatD(fit.EstimatedD), fit.RSquared, physics.FormatD(meta.D))
	}
	return nil
}

func plotCurves(cmd *cobra.Command, args []string) error {
	if _, ok := analysis.Calculate(distanceUm, d, velocity); !ok {
		return dynamo.Bounds("distance", distanceUm)
	}
	highlight := &distanceUm

	diffusion := analysis.DiffusionCurve(d, highlight)
	fmt.Println(asciigraph.Plot(diffusion[0].Y,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s (%.0f…%.0f µm)", dynamo.ChartDiffusionTime.Title(),
			diffusion[0].X[0], diffusion[0].X[diffusion[0].Len()-1])),
	))
	fmt.Println()

	comparison := analysis.ComparisonCurve(d, velocity, highlight)
	fmt.Println(asciigraph.PlotMany([][]float64{comparison[0].Y, comparison[1].Y},
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.SeriesColors(asciigraph.Cyan, asciigraph.Yellow),
		asciigraph.SeriesLegends(comparison[0].Name, comparison[1].Name),
		asciigraph.Caption(fmt.Sprintf("%s (%.1f…%.1f mm)", dynamo.ChartComparison.Title(),
			comparison[0].X[0], comparison[0].X[comparison[0].Len()-1])),
	))

	for _, s := range [][]dynamo.Series{diffusion, comparison} {
		m := s[len(s)-1]
		for i := 0; i < m.Len(); i++ {
			fmt.Printf("  ● %s  x=%.4g  t=%.4e s\n", m.Name, m.X[i], m.Y[i])
		}
	}
	return nil
}

func calculate(cmd *cobra.Command, args []string) error {
	calc, ok := analysis.Calculate(distanceUm, d, velocity)
	if !ok {
		return dynamo.Bounds("distance", distanceUm)
	}

	fmt.Printf("distance:        %.2f µm\n", calc.DistanceUm)
	fmt.Printf("diffusion time:  %s\n", physics.FormatDiffusionTime(calc.DiffusionTime))
	fmt.Printf("transport time:  %s\n", physics.FormatTransportTime(calc.TransportTime))
	fmt.Printf("ratio:           %.3g\n", calc.Ratio())
	fmt.Printf("crossover:       %.3e m\n", analysis.CrossoverDistance(d, velocity))
	return nil
}

func derive(cmd *cobra.Command, args []string) error {
	p := physics.DefaultParams()
	if err := p.SetTemperature(temperature); err != nil {
		return err
	}
	if err := p.SetViscosity(viscosity); err != nil {
		return err
	}
	if err := p.SetIonRadius(physics.NanometersToMeters(radiusNm)); err != nil {
		return err
	}
	fmt.Printf("D = %s m²/s\n", physics.FormatD(p.ApplyPhysics()))
	return nil
}

// sceneChart names the particle snapshot in export-svg --chart.
const sceneChart = "scene"

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	if chartName == sceneChart {
		cfg, err := st.LoadConfig(runID)
		if err != nil {
			return err
		}
		svg, err := export.SceneSnapshot(cmd.Context(), cfg, meta.Steps)
		if err != nil {
			return fmt.Errorf("run %s scene: %w", runID, err)
		}
		return writeSVG(svg)
	}

	chart, ok := chartByName(chartName)
	if !ok {
		return fmt.Errorf("chart %s: %w", chartName, dynamo.ErrNotFound)
	}

	var series []dynamo.Series
	switch chart {
	case dynamo.ChartMSD:
		msd, err := st.LoadSeries(runID)
		if err != nil {
			return err
		}
		series = []dynamo.Series{{Name: "MSD", Mode: dynamo.ModeLines, X: msd.Time, Y: msd.MSD}}
	case dynamo.ChartDiffusionTime:
		series = analysis.DiffusionCurve(meta.D, nil)
	case dynamo.ChartComparison:
		v := analysis.DefaultVelocity
		if cfg, err := st.LoadConfig(runID); err == nil && cfg.Velocity > 0 {
			v = cfg.Velocity
		}
		series = analysis.ComparisonCurve(meta.D, v, nil)
	}

	svg := export.ChartToSVG(chart, series, 800, 480)
	if svg == "" {
		return fmt.Errorf("run %s chart %s: %w", runID, chart, dynamo.ErrEmptySeries)
	}
	return writeSVG(svg)
}

func writeSVG(svg string) error {
	if outFile == "" {
		fmt.Println(svg)
		return nil
	}
	if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outFile)
	return nil
}

func chartByName(name string) (dynamo.ChartID, bool) {
	for _, c := range dynamo.Charts {
		if c.String() == name {
			return c, true
		}
	}
	return 0, false
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	hub := stream.NewHub(slog.Default())
	defer hub.Close()

	ctrl, err := newController(cfg, hub, hub)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	srv := &http.Server{Addr: addr, Handler: mux}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	slog.Info("streaming", "addr", addr, "path", "/ws", "particles", cfg.N)

	ctrl.Init()
	ticker := time.NewTicker(time.Second / time.Duration(cfg.FPS))
	defer ticker.Stop()

	for i := 0; cfg.Steps == 0 || i < cfg.Steps; {
		select {
		case <-ctx.Done():
			return shutdown(srv)
		case err := <-errc:
			return err
		case <-ticker.C:
			ctrl.Tick()
			i++
		}
	}

	slog.Info("run finished", "steps", ctrl.Steps(), "dropped_frames", hub.Dropped())
	<-ctx.Done()
	return shutdown(srv)
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	ctrl, err := newController(cfg, nil, nil)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Printf("  %s\n", sc.Description)
	}
	results, err := automation.RunScenario(ctx, sc, ctrl)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tTICKS\tTIME\tD\tMSD\tDIFFUSION\tTRANSPORT")
	for _, r := range results {
		diff, transport := "-", "-"
		if r.Calculation != nil {
			diff = physics.FormatDiffusionTime(r.Calculation.DiffusionTime)
			transport = physics.FormatTransportTime(r.Calculation.TransportTime)
		}
		fmt.Fprintf(w, "%d\t%d\t%.2fs\t%s\t%.3e\t%s\t%s\n",
			r.Step, r.Ticks, r.Time, physics.FormatD(r.D), r.MSD, diff, transport)
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	return err
}

func runTrials(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunTrials(ctx, automation.TrialConfig{
		Params:    cfg.Params(),
		Sim:       cfg.SimConfig(),
		Steps:     cfg.Steps,
		NumTrials: numTrials,
		Seed:      cfg.Seed,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tSEED\tFITTED D\tR²\tERROR")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%s\t%.4f\t%.1f%%\n",
			r.TrialID, r.Seed, physics.FormatD(r.Fit.EstimatedD), r.Fit.RSquared, r.RelError*100)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	mean, std := automation.TrialStats(results)
	fmt.Printf("\nfitted D = %s ± %s m²/s (input %s)\n",
		physics.FormatD(mean), physics.FormatD(std), physics.FormatD(cfg.Params().D))
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	best, score, points, err := automation.RunSweep(ctx, &automation.ParameterSweep{
		Base:   cfg.Params(),
		Sim:    cfg.SimConfig(),
		Steps:  cfg.Steps,
		Names:  []string{sweepParam},
		Values: [][]float64{sweepValues},
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tERROR\n", strings.ToUpper(sweepParam))
	for _, p := range points {
		result := fmt.Sprintf("%.1f%%", p.Score*100)
		if p.Err != nil {
			result = p.Err.Error()
		}
		fmt.Fprintf(w, "%s\t%s\n", physics.FormatParam(sweepParam, p.Params[sweepParam]), result)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if best == nil {
		return fmt.Errorf("sweep %s: no valid point", sweepParam)
	}
	fmt.Printf("\nbest %s = %s (error %.1f%%)\n", sweepParam, physics.FormatParam(sweepParam, best[sweepParam]), score*100)
	return nil
}

func shutdown(srv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

func scaleSeries(ys []float64, factor float64) []float64 {
	out := make([]float64, len(ys))
	for i, y := range ys {
		out[i] = y * factor
	}
	return out
}
