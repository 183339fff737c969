package analysis

import (
	"math"

	"github.com/san-kum/brownsim/internal/dynamo"
	"github.com/san-kum/brownsim/internal/physics"
)

// DefaultVelocity is a representative axonal conduction velocity in m/s.
const DefaultVelocity = 50.0

// Chart ranges. The diffusion chart is in micrometres, the comparison chart
// in millimetres.
const (
	DiffusionFromUm = 1.0
	DiffusionToUm   = 2000.0
	DiffusionStepUm = 10.0

	ComparisonFromMm = 0.1
	ComparisonToMm   = 100.0
	ComparisonStepMm = 0.5
)

// DiffusionTime is distance²/(6*D), distance in metres and D in m²/s.
func DiffusionTime(distance, d float64) float64 {
	return distance * distance / (6 * d)
}

// TransportTime is distance/velocity.
func TransportTime(distance, velocity float64) float64 {
	return distance / velocity
}

// Sweep evaluates f at from, from+step, ... up to and including to. Points are
// computed by index so the last point does not drift with accumulated error.
func Sweep(from, to, step float64, f func(x float64) float64) ([]float64, []float64) {
	if step <= 0 || to < from {
		return nil, nil
	}
	n := int(math.Floor((to-from)/step+1e-9)) + 1
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := 0; i < n; i++ {
		x := from + float64(i)*step
		xs[i] = x
		ys[i] = f(x)
	}
	return xs, ys
}

// DiffusionCurve builds the diffusion-time-vs-distance chart. When highlightUm
// is non-nil a marker series is added at that distance.
func DiffusionCurve(d float64, highlightUm *float64) []dynamo.Series {
	xs, ys := Sweep(DiffusionFromUm, DiffusionToUm, DiffusionStepUm, func(um float64) float64 {
		return DiffusionTime(physics.MicrometersToMeters(um), d)
	})
	series := []dynamo.Series{{Name: "Diffusion Time", Mode: dynamo.ModeLines, X: xs, Y: ys}}

	if highlightUm != nil {
		um := *highlightUm
		series = append(series, dynamo.Series{
			Name: "Calculated Point",
			Mode: dynamo.ModeMarkers,
			X:    []float64{um},
			Y:    []float64{DiffusionTime(physics.MicrometersToMeters(um), d)},
		})
	}
	return series
}

// ComparisonCurve builds the diffusion-vs-action-potential chart. The x axis
// is in millimetres; highlightUm is given in micrometres.
func ComparisonCurve(d, velocity float64, highlightUm *float64) []dynamo.Series {
	xs, diff := Sweep(ComparisonFromMm, ComparisonToMm, ComparisonStepMm, func(mm float64) float64 {
		return DiffusionTime(mm/1000, d)
	})
	ap := make([]float64, len(xs))
	for i, mm := range xs {
		ap[i] = TransportTime(mm/1000, velocity)
	}

	series := []dynamo.Series{
		{Name: "Diffusion", Mode: dynamo.ModeLines, X: xs, Y: diff},
		{Name: "Action Potential", Mode: dynamo.ModeLines, X: xs, Y: ap},
	}

	if highlightUm != nil {
		mm := *highlightUm / 1000
		m := mm / 1000
		series = append(series, dynamo.Series{
			Name: "Calculated Points",
			Mode: dynamo.ModeMarkers,
			X:    []float64{mm, mm},
			Y:    []float64{DiffusionTime(m, d), TransportTime(m, velocity)},
		})
	}
	return series
}

// Calculation is the result of a one-shot distance calculation.
type Calculation struct {
	DistanceUm    float64
	Distance      float64
	DiffusionTime float64
	TransportTime float64
}

// Calculate evaluates both times at distanceUm micrometres. It reports false
// for non-finite or negative distances and for non-positive D or velocity,
// in which case the calculation is skipped.
func Calculate(distanceUm, d, velocity float64) (Calculation, bool) {
	if math.IsNaN(distanceUm) || math.IsInf(distanceUm, 0) || distanceUm < 0 {
		return Calculation{}, false
	}
	if !(d > 0) || !(velocity > 0) {
		return Calculation{}, false
	}
	m := physics.MicrometersToMeters(distanceUm)
	return Calculation{
		DistanceUm:    distanceUm,
		Distance:      m,
		DiffusionTime: DiffusionTime(m, d),
		TransportTime: TransportTime(m, velocity),
	}, true
}

// Ratio is how many times slower diffusion is than transport at this distance.
func (c Calculation) Ratio() float64 {
	if c.TransportTime == 0 {
		return math.NaN()
	}
	return c.DiffusionTime / c.TransportTime
}

// CrossoverDistance is the distance in metres below which diffusion beats
// constant-velocity transport: x²/(6D) = x/v gives x = 6*D/v.
func CrossoverDistance(d, velocity float64) float64 {
	return 6 * d / velocity
}
