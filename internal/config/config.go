package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/brownsim/internal/analysis"
	"github.com/san-kum/brownsim/internal/physics"
	"github.com/san-kum/brownsim/internal/sim"
)

const (
	DefaultDistanceUm = 1000.0
	DefaultSteps      = 1000
	DefaultFPS        = 30
	MaxFPS            = 240
)

type Config struct {
	D           float64 `yaml:"d"`
	Dt          float64 `yaml:"dt"`
	N           int     `yaml:"n"`
	Temperature float64 `yaml:"temperature"`
	Viscosity   float64 `yaml:"viscosity"`
	RadiusNm    float64 `yaml:"radius_nm"`
	DistanceUm  float64 `yaml:"distance_um"`
	Velocity    float64 `yaml:"velocity"`
	MSDEvery    int     `yaml:"msd_every"`
	PlotEvery   int     `yaml:"plot_every"`
	RenderScale float64 `yaml:"render_scale"`
	Seed        int64   `yaml:"seed"`
	Steps       int     `yaml:"steps"`
	FPS         int     `yaml:"fps"`
	// DeriveD recomputes D from temperature, viscosity and radius on load.
	DeriveD bool `yaml:"derive_d"`
}

func DefaultConfig() *Config {
	return &Config{
		D:           physics.DefaultD,
		Dt:          physics.DefaultDt,
		N:           physics.DefaultN,
		Temperature: physics.DefaultTemperature,
		Viscosity:   physics.DefaultViscosity,
		RadiusNm:    physics.DefaultIonRadiusNm,
		DistanceUm:  DefaultDistanceUm,
		Velocity:    analysis.DefaultVelocity,
		MSDEvery:    sim.DefaultMSDEvery,
		PlotEvery:   sim.DefaultPlotEvery,
		RenderScale: sim.DefaultRenderScale,
		Steps:       DefaultSteps,
		FPS:         DefaultFPS,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Params converts the config to physics parameters, deriving D when DeriveD
// is set.
func (c *Config) Params() physics.Params {
	p := physics.Params{
		D:           c.D,
		Dt:          c.Dt,
		N:           c.N,
		Temperature: c.Temperature,
		Viscosity:   c.Viscosity,
		IonRadius:   physics.NanometersToMeters(c.RadiusNm),
	}
	if c.DeriveD {
		p.ApplyPhysics()
	}
	return p
}

func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		MSDEvery:    c.MSDEvery,
		PlotEvery:   c.PlotEvery,
		RenderScale: c.RenderScale,
		Velocity:    c.Velocity,
		Seed:        c.Seed,
	}
}

func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if c.Steps < 0 {
		return fmt.Errorf("steps must not be negative, got %d", c.Steps)
	}
	if c.FPS <= 0 || c.FPS > MaxFPS {
		return fmt.Errorf("fps must be in (0, %d], got %d", MaxFPS, c.FPS)
	}
	if math.IsNaN(c.DistanceUm) || c.DistanceUm < 0 {
		return fmt.Errorf("distance must not be negative, got %g", c.DistanceUm)
	}
	return nil
}
