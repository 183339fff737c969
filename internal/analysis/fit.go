package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/brownsim/internal/dynamo"
)

// Fit is a straight-line fit of MSD against time.
type Fit struct {
	Intercept  float64
	Slope      float64
	RSquared   float64
	EstimatedD float64
	Samples    int
}

// FitDiffusion regresses msd on t. In three dimensions MSD = 6*D*t, so the
// estimated diffusion coefficient is slope/6.
func FitDiffusion(t, msd []float64) (Fit, error) {
	if len(t) != len(msd) {
		return Fit{}, fmt.Errorf("fit: %d times vs %d samples: %w", len(t), len(msd), dynamo.ErrEmptySeries)
	}
	if len(t) < 2 {
		return Fit{}, fmt.Errorf("fit: %d samples: %w", len(t), dynamo.ErrEmptySeries)
	}

	alpha, beta := stat.LinearRegression(t, msd, nil, false)
	return Fit{
		Intercept:  alpha,
		Slope:      beta,
		RSquared:   stat.RSquared(t, msd, nil, alpha, beta),
		EstimatedD: beta / 6,
		Samples:    len(t),
	}, nil
}

// AxisVariance is the sample variance of per-axis displacements.
func AxisVariance(displacements []float64) float64 {
	return stat.Variance(displacements, nil)
}
