package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/brownsim/internal/dynamo"
)

func TestFitDiffusionExactLine(t *testing.T) {
	const d = 2e-9
	ts := []float64{0.05, 0.1, 0.15, 0.2, 0.25}
	msd := make([]float64, len(ts))
	for i, tm := range ts {
		msd[i] = 6 * d * tm
	}

	fit, err := FitDiffusion(ts, msd)
	require.NoError(t, err)
	assert.InEpsilon(t, d, fit.EstimatedD, 1e-9)
	assert.InDelta(t, 0, fit.Intercept, 1e-20)
	assert.InDelta(t, 1, fit.RSquared, 1e-9)
	assert.Equal(t, 5, fit.Samples)
}

func TestFitDiffusionTooShort(t *testing.T) {
	_, err := FitDiffusion([]float64{1}, []float64{1})
	assert.ErrorIs(t, err, dynamo.ErrEmptySeries)

	_, err = FitDiffusion([]float64{1, 2}, []float64{1})
	assert.ErrorIs(t, err, dynamo.ErrEmptySeries)
}

func TestAxisVariance(t *testing.T) {
	assert.InDelta(t, 2.5, AxisVariance([]float64{1, 2, 3, 4, 5}), 1e-12)
}
