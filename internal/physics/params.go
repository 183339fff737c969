package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/brownsim/internal/dynamo"
)

const (
	// Boltzmann is the Boltzmann constant in J/K, rounded as on the lab sheet.
	Boltzmann = 1.38e-23

	MaxParticles = 5000

	DefaultD           = 1e-9
	DefaultDt          = 0.01
	DefaultN           = 200
	DefaultTemperature = 310.0
	DefaultViscosity   = 0.001
	DefaultIonRadiusNm = 0.1
)

// Params is the physics state of one run. D is in m²/s, Dt in seconds,
// Temperature in kelvin, Viscosity in Pa·s and IonRadius in metres.
type Params struct {
	D           float64
	Dt          float64
	N           int
	Temperature float64
	Viscosity   float64
	IonRadius   float64
}

func DefaultParams() Params {
	return Params{
		D:           DefaultD,
		Dt:          DefaultDt,
		N:           DefaultN,
		Temperature: DefaultTemperature,
		Viscosity:   DefaultViscosity,
		IonRadius:   NanometersToMeters(DefaultIonRadiusNm),
	}
}

func NanometersToMeters(nm float64) float64  { return nm * 1e-9 }
func MetersToNanometers(m float64) float64   { return m * 1e9 }
func MicrometersToMeters(um float64) float64 { return um * 1e-6 }

// StokesEinstein returns kB*T / (6*pi*eta*r). Radius is in metres.
func StokesEinstein(temperature, viscosity, radius float64) float64 {
	return Boltzmann * temperature / (6 * math.Pi * viscosity * radius)
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func (p *Params) SetD(v float64) error {
	if !positive(v) {
		return dynamo.Bounds("D", v)
	}
	p.D = v
	return nil
}

func (p *Params) SetDt(v float64) error {
	if !positive(v) {
		return dynamo.Bounds("dt", v)
	}
	p.Dt = v
	return nil
}

func (p *Params) SetN(n int) error {
	if n <= 0 || n > MaxParticles {
		return dynamo.Bounds("N", float64(n))
	}
	p.N = n
	return nil
}

func (p *Params) SetTemperature(v float64) error {
	if !positive(v) {
		return dynamo.Bounds("temperature", v)
	}
	p.Temperature = v
	return nil
}

func (p *Params) SetViscosity(v float64) error {
	if !positive(v) {
		return dynamo.Bounds("viscosity", v)
	}
	p.Viscosity = v
	return nil
}

func (p *Params) SetIonRadius(v float64) error {
	if !positive(v) {
		return dynamo.Bounds("radius", v)
	}
	p.IonRadius = v
	return nil
}

// DeriveD computes D from the Stokes–Einstein relation and overwrites p.D.
// The inputs are not stored; use ApplyPhysics to derive from the stored ones.
func (p *Params) DeriveD(temperature, viscosity, radius float64) float64 {
	p.D = StokesEinstein(temperature, viscosity, radius)
	return p.D
}

// ApplyPhysics derives D from the stored temperature, viscosity and radius.
func (p *Params) ApplyPhysics() float64 {
	return p.DeriveD(p.Temperature, p.Viscosity, p.IonRadius)
}

// Sigma is the per-axis displacement standard deviation sqrt(2*D*dt).
func (p Params) Sigma() float64 {
	return math.Sqrt(2 * p.D * p.Dt)
}

func (p Params) Validate() error {
	for _, c := range []struct {
		name string
		v    float64
	}{
		{"D", p.D},
		{"dt", p.Dt},
		{"temperature", p.Temperature},
		{"viscosity", p.Viscosity},
		{"radius", p.IonRadius},
	} {
		if !positive(c.v) {
			return dynamo.Bounds(c.name, c.v)
		}
	}
	if p.N <= 0 || p.N > MaxParticles {
		return dynamo.Bounds("N", float64(p.N))
	}
	return nil
}

// ParamKeys lists the names accepted by SetParam, in display order.
var ParamKeys = []string{"D", "dt", "N", "temperature", "viscosity", "radius_nm"}

func (p *Params) GetParams() map[string]float64 {
	return map[string]float64{
		"D":           p.D,
		"dt":          p.Dt,
		"N":           float64(p.N),
		"temperature": p.Temperature,
		"viscosity":   p.Viscosity,
		"radius_nm":   MetersToNanometers(p.IonRadius),
	}
}

func (p *Params) SetParam(name string, value float64) error {
	switch name {
	case "D":
		return p.SetD(value)
	case "dt":
		return p.SetDt(value)
	case "N":
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return dynamo.Bounds("N", value)
		}
		return p.SetN(int(math.Round(value)))
	case "temperature":
		return p.SetTemperature(value)
	case "viscosity":
		return p.SetViscosity(value)
	case "radius_nm":
		return p.SetIonRadius(NanometersToMeters(value))
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
}
