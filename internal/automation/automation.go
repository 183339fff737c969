// Package automation runs scripted and batch simulations on top of the
// controller: YAML scenarios, repeated seeded trials and parameter sweeps.
package automation

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/brownsim/internal/analysis"
	"github.com/san-kum/brownsim/internal/optim"
	"github.com/san-kum/brownsim/internal/physics"
	"github.com/san-kum/brownsim/internal/sim"
)

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single step in a scenario. Actions run in field order:
// set, apply_physics, reset, run, calculate_um.
type ScenarioStep struct {
	Set          map[string]float64 `yaml:"set"`
	ApplyPhysics bool               `yaml:"apply_physics"`
	Reset        bool               `yaml:"reset"`
	Run          int                `yaml:"run"`
	CalculateUm  *float64           `yaml:"calculate_um"`
}

// StepResult is the controller state after a scenario step.
type StepResult struct {
	Step        int
	Ticks       int
	Time        float64
	D           float64
	MSD         float64
	Calculation *analysis.Calculation
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return &scenario, nil
}

// RunScenario executes all steps in a scenario on ctrl. Parameters within a
// step are set in name order. A rejected parameter aborts the scenario.
func RunScenario(ctx context.Context, scenario *Scenario, ctrl *sim.Controller) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		slog.Debug("scenario step", "scenario", scenario.Name, "step", i+1, "of", len(scenario.Steps))

		names := make([]string, 0, len(step.Set))
		for name := range step.Set {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if err := ctrl.SetParam(name, step.Set[name]); err != nil {
				return results, fmt.Errorf("step %d: %w", i+1, err)
			}
		}

		if step.ApplyPhysics {
			ctrl.ApplyPhysics()
		}
		if step.Reset {
			if err := ctrl.SetN(ctrl.Params().N); err != nil {
				return results, fmt.Errorf("step %d reset: %w", i+1, err)
			}
		}
		if step.Run > 0 {
			if err := ctrl.Run(ctx, step.Run); err != nil {
				return results, fmt.Errorf("step %d run: %w", i+1, err)
			}
		}

		res := StepResult{
			Step:  i + 1,
			Ticks: ctrl.Steps(),
			Time:  ctrl.Time(),
			D:     ctrl.Params().D,
			MSD:   ctrl.Ensemble().MeanSquaredDisplacement(),
		}
		if step.CalculateUm != nil {
			calc, ok := ctrl.Calculate(*step.CalculateUm)
			if !ok {
				return results, fmt.Errorf("step %d: invalid distance %g µm", i+1, *step.CalculateUm)
			}
			res.Calculation = &calc
		}
		results = append(results, res)
	}

	return results, nil
}

// TrialConfig describes repeated headless runs that differ only in seed.
type TrialConfig struct {
	Params    physics.Params
	Sim       sim.Config
	Steps     int
	NumTrials int
	Seed      int64
}

// TrialResult is the MSD fit of one trial.
type TrialResult struct {
	TrialID  int
	Seed     int64
	Fit      analysis.Fit
	RelError float64
}

// runHeadless runs one controller without surfaces and fits its MSD series.
func runHeadless(ctx context.Context, params physics.Params, cfg sim.Config, steps int) (analysis.Fit, error) {
	ctrl, err := sim.New(params, cfg, nil, nil)
	if err != nil {
		return analysis.Fit{}, err
	}
	if err := ctrl.Run(ctx, steps); err != nil {
		return analysis.Fit{}, err
	}
	return ctrl.Fit()
}

// RunTrials runs NumTrials seeded simulations; trial i uses Seed+i.
func RunTrials(ctx context.Context, cfg TrialConfig) ([]TrialResult, error) {
	if cfg.Steps <= 0 {
		return nil, fmt.Errorf("trials need a positive step count, got %d", cfg.Steps)
	}
	results := make([]TrialResult, 0, cfg.NumTrials)

	for trial := 0; trial < cfg.NumTrials; trial++ {
		simCfg := cfg.Sim
		simCfg.Seed = cfg.Seed + int64(trial)

		fit, err := runHeadless(ctx, cfg.Params, simCfg, cfg.Steps)
		if err != nil {
			return results, fmt.Errorf("trial %d: %w", trial, err)
		}

		results = append(results, TrialResult{
			TrialID:  trial,
			Seed:     simCfg.Seed,
			Fit:      fit,
			RelError: math.Abs(fit.EstimatedD-cfg.Params.D) / cfg.Params.D,
		})

		if (trial+1)%10 == 0 {
			slog.Info("trials", "done", trial+1, "of", cfg.NumTrials)
		}
	}

	return results, nil
}

// TrialStats computes the mean and standard deviation of the fitted D.
func TrialStats(results []TrialResult) (mean, std float64) {
	if len(results) == 0 {
		return math.NaN(), math.NaN()
	}
	ds := make([]float64, len(results))
	for i, r := range results {
		ds[i] = r.Fit.EstimatedD
	}
	if len(ds) == 1 {
		return ds[0], 0
	}
	return stat.MeanStdDev(ds, nil)
}

// ParameterSweep runs one headless simulation per grid point and scores it by
// the relative error between the fitted and the input D.
type ParameterSweep struct {
	Base   physics.Params
	Sim    sim.Config
	Steps  int
	Names  []string
	Values [][]float64
}

// RunSweep evaluates the grid and returns the best point and every point.
func RunSweep(ctx context.Context, sweep *ParameterSweep) (map[string]float64, float64, []optim.Point, error) {
	grid := optim.NewGridSearch(sweep.Names, sweep.Values)

	return grid.Search(ctx, func(ctx context.Context, values map[string]float64) (float64, error) {
		params := sweep.Base
		for _, name := range sweep.Names {
			if err := params.SetParam(name, values[name]); err != nil {
				return 0, err
			}
		}
		fit, err := runHeadless(ctx, params, sweep.Sim, sweep.Steps)
		if err != nil {
			return 0, err
		}
		slog.Debug("sweep point", "params", values, "fitted_d", fit.EstimatedD)
		return math.Abs(fit.EstimatedD-params.D) / params.D, nil
	})
}
