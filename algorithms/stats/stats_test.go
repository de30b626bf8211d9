package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-xtract/algorithms/common"
)

func TestMoments(t *testing.T) {
	data := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	mean, err := Mean(data)
	require.NoError(t, err)
	assert.InDelta(t, 5, mean, 1e-12)

	variance, err := Variance(data, mean)
	require.NoError(t, err)
	assert.InDelta(t, 32.0/7, variance, 1e-12)

	sd := StandardDeviation(variance)
	assert.InDelta(t, 2.13808993529939, sd, 1e-12)

	avg, err := AverageDeviation(data, mean)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, avg, 1e-12)

	// symmetric data has no skew
	sym := []float64{-2, -1, 0, 1, 2}
	skew, err := Skewness(sym, 0, 1)
	require.NoError(t, err)
	assert.InDelta(t, 0, skew, 1e-12)

	kurt, err := Kurtosis([]float64{-1, 1, -1, 1}, 0, 1)
	require.NoError(t, err)
	assert.InDelta(t, -2, kurt, 1e-12)

	_, err = Skewness(data, mean, 0)
	assert.ErrorIs(t, err, common.NoResult)
	_, err = Kurtosis(data, mean, 0)
	assert.ErrorIs(t, err, common.NoResult)
}

func TestVarianceShiftInvariance(t *testing.T) {
	data := []float64{1.5, -3, 8, 0.25, 4}
	shifted := make([]float64, len(data))
	for i, v := range data {
		shifted[i] = v + 100
	}

	m1, err := Mean(data)
	require.NoError(t, err)
	m2, err := Mean(shifted)
	require.NoError(t, err)

	v1, err := Variance(data, m1)
	require.NoError(t, err)
	v2, err := Variance(shifted, m2)
	require.NoError(t, err)
	assert.InDelta(t, v1, v2, 1e-9)
}

func TestMomentSizeErrors(t *testing.T) {
	_, err := Mean(nil)
	assert.ErrorIs(t, err, common.BadVectorSize)
	_, err = Variance([]float64{1}, 1)
	assert.ErrorIs(t, err, common.BadVectorSize)
	_, err = AverageDeviation(nil, 0)
	assert.ErrorIs(t, err, common.BadVectorSize)
	_, err = Highest(nil)
	assert.ErrorIs(t, err, common.BadVectorSize)
}

func TestReductions(t *testing.T) {
	data := []float64{0, 3, -1, 0, 7, 2}

	assert.InDelta(t, 11, Sum(data), 1e-12)
	assert.Equal(t, 4, NonzeroCount(data))

	highest, err := Highest(data)
	require.NoError(t, err)
	assert.Equal(t, 7.0, highest)

	lowest, err := LowestAbove(data, 0)
	require.NoError(t, err)
	assert.Equal(t, 2.0, lowest)

	lowest, err = LowestAbove(data, -5)
	require.NoError(t, err)
	assert.Equal(t, -1.0, lowest)

	lowest, err = LowestAbove(data, 7)
	assert.ErrorIs(t, err, common.NoResult)
	assert.Zero(t, lowest)
}

func TestLagFunctions(t *testing.T) {
	signal := []float64{1, 2, 3, 4}

	r := Autocorrelation(signal)
	assert.InDeltaSlice(t, []float64{30.0 / 4, 20.0 / 4, 11.0 / 4, 4.0 / 4}, r, 1e-12)

	amdf := AMDF(signal)
	assert.InDeltaSlice(t, []float64{0, 3.0 / 4, 4.0 / 4, 3.0 / 4}, amdf, 1e-12)

	asdf := ASDF(signal)
	assert.InDeltaSlice(t, []float64{0, 3.0 / 4, 8.0 / 4, 9.0 / 4}, asdf, 1e-12)

	assert.Empty(t, Autocorrelation(nil))
}
