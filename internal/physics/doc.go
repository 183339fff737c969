// Package physics holds the tunable parameters of a Brownian motion run.
//
// [Params] stores the diffusion coefficient, time step and particle count
// alongside the Stokes–Einstein inputs (temperature, viscosity, ion radius):
//
//	p := physics.DefaultParams()
//	p.SetIonRadius(physics.NanometersToMeters(0.1))
//	d := p.DeriveD(p.Temperature, p.Viscosity, p.IonRadius)
//
// Setters reject non-finite and non-positive values with an error wrapping
// [dynamo.ErrParameterBounds] and leave the previous value in place.
//
// Params implements the same GetParams/SetParam pair the TUI uses to tune
// any parameter by name.
package physics
