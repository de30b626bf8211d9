package speech

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-xtract/algorithms/common"
)

func TestLPCFirstOrderProcess(t *testing.T) {
	// autocorrelation of x[n] = 0.5 x[n-1] + e[n]
	result, err := LPC([]float64{1, 0.5, 0.25, 0.125})
	require.NoError(t, err)
	require.Len(t, result, 6)
	assert.InDeltaSlice(t, []float64{-0.5, 0, 0}, result[:3], 1e-12)
	assert.InDeltaSlice(t, []float64{-0.5, 0, 0}, result[3:], 1e-12)
}

func TestLPCSolvesNormalEquations(t *testing.T) {
	autocorr := []float64{1, 0.6, 0.2, -0.1}
	result, err := LPC(autocorr)
	require.NoError(t, err)

	order := len(autocorr) - 1
	a := result[order:]
	assert.InDeltaSlice(t, []float64{-0.6, 0.25, 1.0 / 6}, result[:order], 1e-12)

	for i := range order {
		sum := 0.0
		for j := range order {
			d := i - j
			if d < 0 {
				d = -d
			}
			sum += autocorr[d] * a[j]
		}
		assert.InDelta(t, -autocorr[i+1], sum, 1e-12, "row %d", i)
	}
}

func TestLPCZeroEnergy(t *testing.T) {
	result, err := LPC([]float64{0, 1, 2, 3, 4})
	assert.ErrorIs(t, err, common.NoResult)
	assert.Equal(t, make([]float64, 8), result)

	_, err = LPC([]float64{1})
	assert.ErrorIs(t, err, common.BadVectorSize)
}

func TestLPCC(t *testing.T) {
	poly := []float64{1, 0.5, 0.25}

	c, err := LPCC(poly, 4)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.5, 0.375, 0.125, 0.046875}, c, 1e-12)

	c, err = LPCC(poly, 0)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.5, 0.375}, c, 1e-12)

	c, err = LPCC(poly, 1)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.5}, c, 1e-12)

	_, err = LPCC([]float64{1}, 3)
	assert.ErrorIs(t, err, common.BadVectorSize)
}

func TestLPCAnalyzer(t *testing.T) {
	a := NewLPCAnalyzer(44100, 0, 0)
	assert.Equal(t, 46, a.Order())

	a = NewLPCAnalyzer(44100, 4, 8)
	signal := make([]float64, 256)
	for i := range signal {
		signal[i] = math.Sin(2*math.Pi*float64(i)/32) + 0.3*math.Sin(2*math.Pi*float64(i)/7)
	}

	res, err := a.Analyze(signal)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Order)
	assert.Len(t, res.Reflection, 4)
	assert.Len(t, res.Coefficients, 4)
	assert.Len(t, res.Cepstrum, 8)
	assert.InDelta(t, res.Coefficients[0], res.Cepstrum[0], 1e-12)

	// a stable predictor has reflection coefficients inside the unit circle
	for _, k := range res.Reflection {
		assert.Less(t, math.Abs(k), 1.0)
	}

	_, err = a.Analyze(signal[:4])
	assert.ErrorIs(t, err, common.BadVectorSize)

	_, err = a.Analyze(make([]float64, 64))
	assert.ErrorIs(t, err, common.NoResult)
}
