package config

import "sort"

// Presets are named starting points. Zero fields fall back to DefaultConfig.
var Presets = map[string]*Config{
	"water": {
		D: 2.0e-9, Dt: 0.01, N: 200,
		Temperature: 298, Viscosity: 0.00089, RadiusNm: 0.12,
	},
	"cytoplasm": {
		D: 5e-10, Dt: 0.01, N: 300,
		Temperature: 310, Viscosity: 0.003, RadiusNm: 0.15, DeriveD: true,
	},
	"membrane": {
		D: 1e-12, Dt: 0.05, N: 100, RenderScale: 1e5,
		Temperature: 310, Viscosity: 0.1, RadiusNm: 2,
	},
	"large-ion": {
		Dt: 0.01, N: 200,
		Temperature: 310, Viscosity: 0.001, RadiusNm: 1, DeriveD: true,
	},
}

// GetPreset returns a copy of the named preset merged over the defaults.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	if p.D > 0 {
		cfg.D = p.D
	}
	if p.Dt > 0 {
		cfg.Dt = p.Dt
	}
	if p.N > 0 {
		cfg.N = p.N
	}
	if p.Temperature > 0 {
		cfg.Temperature = p.Temperature
	}
	if p.Viscosity > 0 {
		cfg.Viscosity = p.Viscosity
	}
	if p.RadiusNm > 0 {
		cfg.RadiusNm = p.RadiusNm
	}
	if p.RenderScale > 0 {
		cfg.RenderScale = p.RenderScale
	}
	cfg.DeriveD = p.DeriveD
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
