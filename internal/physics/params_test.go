package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/brownsim/internal/dynamo"
)

func TestDeriveD(t *testing.T) {
	p := DefaultParams()
	want := 1.38e-23 * 310 / (6 * math.Pi * 0.001 * 1e-9)

	got := p.DeriveD(310, 0.001, 1e-9)
	if math.Abs(got-want) > want*1e-12 {
		t.Errorf("DeriveD = %e, want %e", got, want)
	}
	if p.D != got {
		t.Errorf("DeriveD should overwrite D, got %e", p.D)
	}
	if math.Abs(got-2.2694e-10) > 1e-13 {
		t.Errorf("expected ~2.2694e-10, got %e", got)
	}
}

func TestApplyPhysicsUsesStoredInputs(t *testing.T) {
	p := DefaultParams()
	if err := p.SetIonRadius(NanometersToMeters(1)); err != nil {
		t.Fatal(err)
	}
	got := p.ApplyPhysics()
	want := StokesEinstein(DefaultTemperature, DefaultViscosity, 1e-9)
	if got != want {
		t.Errorf("expected %e, got %e", want, got)
	}
}

func TestSettersRejectInvalid(t *testing.T) {
	bad := []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)}

	setters := map[string]func(*Params, float64) error{
		"D":           (*Params).SetD,
		"dt":          (*Params).SetDt,
		"temperature": (*Params).SetTemperature,
		"viscosity":   (*Params).SetViscosity,
		"radius":      (*Params).SetIonRadius,
	}

	for name, set := range setters {
		for _, v := range bad {
			p := DefaultParams()
			before := p
			err := set(&p, v)
			if !errors.Is(err, dynamo.ErrParameterBounds) {
				t.Errorf("%s(%v): expected ErrParameterBounds, got %v", name, v, err)
			}
			if p != before {
				t.Errorf("%s(%v): params changed on rejected input", name, v)
			}
		}
	}
}

func TestSetN(t *testing.T) {
	tests := []struct {
		n       int
		wantErr bool
	}{
		{1, false},
		{500, false},
		{MaxParticles, false},
		{0, true},
		{-3, true},
		{MaxParticles + 1, true},
	}

	for _, tt := range tests {
		p := DefaultParams()
		err := p.SetN(tt.n)
		if (err != nil) != tt.wantErr {
			t.Errorf("SetN(%d): err = %v, wantErr %v", tt.n, err, tt.wantErr)
		}
		if err == nil && p.N != tt.n {
			t.Errorf("SetN(%d): N = %d", tt.n, p.N)
		}
		if err != nil && p.N != DefaultN {
			t.Errorf("SetN(%d): N changed to %d", tt.n, p.N)
		}
	}
}

func TestParamErrorContext(t *testing.T) {
	p := DefaultParams()
	err := p.SetD(-2)

	var pe *dynamo.ParamError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParamError, got %T", err)
	}
	if pe.Name != "D" || pe.Value != -2 {
		t.Errorf("unexpected context: %+v", pe)
	}
}

func TestSetParamRoundTrip(t *testing.T) {
	p := DefaultParams()
	for _, key := range ParamKeys {
		if _, ok := p.GetParams()[key]; !ok {
			t.Errorf("GetParams missing %s", key)
		}
	}

	if err := p.SetParam("radius_nm", 0.5); err != nil {
		t.Fatal(err)
	}
	if math.Abs(p.IonRadius-0.5e-9) > 1e-24 {
		t.Errorf("radius_nm should convert to metres, got %e", p.IonRadius)
	}
	if err := p.SetParam("N", 42.4); err != nil {
		t.Fatal(err)
	}
	if p.N != 42 {
		t.Errorf("expected N=42, got %d", p.N)
	}
	if err := p.SetParam("mass", 1); err == nil {
		t.Error("expected error for unknown param")
	}
}

func TestUnitConversions(t *testing.T) {
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"nm to m", NanometersToMeters(0.1), 1e-10},
		{"m to nm", MetersToNanometers(2e-9), 2},
		{"um to m", MicrometersToMeters(1000), 1e-3},
	}
	for _, tt := range tests {
		if math.Abs(tt.got-tt.want) > tt.want*1e-12 {
			t.Errorf("%s = %e, want %e", tt.name, tt.got, tt.want)
		}
	}
}

func TestSigma(t *testing.T) {
	p := Params{D: 1e-9, Dt: 0.01}
	if got, want := p.Sigma(), math.Sqrt(2e-11); math.Abs(got-want) > 1e-20 {
		t.Errorf("Sigma = %e, want %e", got, want)
	}
}

func TestValidate(t *testing.T) {
	p := DefaultParams()
	if err := p.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	p.Viscosity = 0
	if err := p.Validate(); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected bounds error, got %v", err)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{FormatD(1e-9), "1.00e-09"},
		{FormatDt(0.01), "0.010"},
		{FormatTemperature(310), "310"},
		{FormatViscosity(0.001), "0.0010"},
		{FormatRadiusNm(1e-10), "0.10"},
		{FormatDiffusionTime(1.0 / 6), "0.1667 s"},
		{FormatTransportTime(0.0002), "0.000200 s"},
		{FormatParam("N", 200), "200"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}
