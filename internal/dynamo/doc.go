// Package dynamo provides the shared primitives of the Brownian motion simulator.
//
// The package defines the value types passed between the physics core and the
// rendering surfaces:
//
//   - [Vec3]: particle position in metres
//   - [Series]: one named trace of a chart (x, y and display mode)
//   - [ChartID]: which of the three charts a series belongs to
//
// # Errors
//
// Input validation failures wrap [ErrParameterBounds] inside a [ParamError]
// so callers can inspect the offending parameter:
//
//	if errors.Is(err, dynamo.ErrParameterBounds) {
//	    // ignore the input, keep the previous value
//	}
package dynamo
