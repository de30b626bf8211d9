package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/RyanBlaney/sonido-xtract/algorithms/common"
)

// Mean returns the arithmetic mean of data
func Mean(data []float64) (float64, error) {
	if len(data) == 0 {
		return 0, common.BadVectorSize
	}
	return stat.Mean(data, nil), nil
}

// Variance returns the unbiased (N-1) variance of data about a precomputed
// mean
func Variance(data []float64, mean float64) (float64, error) {
	n := len(data)
	if n < 2 {
		return 0, common.BadVectorSize
	}

	sum := 0.0
	for _, v := range data {
		sum += common.Sq(v - mean)
	}
	return sum / float64(n-1), nil
}

// StandardDeviation returns the square root of a precomputed variance
func StandardDeviation(variance float64) float64 {
	return math.Sqrt(variance)
}

// AverageDeviation returns the mean absolute deviation about mean
func AverageDeviation(data []float64, mean float64) (float64, error) {
	if len(data) == 0 {
		return 0, common.BadVectorSize
	}

	sum := 0.0
	for _, v := range data {
		sum += math.Abs(v - mean)
	}
	return sum / float64(len(data)), nil
}

// standardizedMoment averages ((x - mean) / stdDev)^order
func standardizedMoment(data []float64, mean, stdDev float64, order float64) (float64, error) {
	if len(data) == 0 {
		return 0, common.BadVectorSize
	}
	if stdDev == 0 {
		return 0, common.NoResult
	}

	sum := 0.0
	for _, v := range data {
		sum += math.Pow((v-mean)/stdDev, order)
	}
	return sum / float64(len(data)), nil
}

// Skewness returns the third standardized moment given precomputed mean and
// standard deviation. A zero deviation yields NoResult.
func Skewness(data []float64, mean, stdDev float64) (float64, error) {
	return standardizedMoment(data, mean, stdDev, 3)
}

// Kurtosis returns the excess kurtosis given precomputed mean and standard
// deviation
func Kurtosis(data []float64, mean, stdDev float64) (float64, error) {
	m, err := standardizedMoment(data, mean, stdDev, 4)
	if err != nil {
		return 0, err
	}
	return m - 3, nil
}

// Sum returns the sum of data
func Sum(data []float64) float64 {
	return floats.Sum(data)
}

// NonzeroCount returns how many values are not zero
func NonzeroCount(data []float64) int {
	count := 0
	for _, v := range data {
		if v != 0 {
			count++
		}
	}
	return count
}

// Highest returns the largest value
func Highest(data []float64) (float64, error) {
	if len(data) == 0 {
		return 0, common.BadVectorSize
	}
	return floats.Max(data), nil
}

// LowestAbove returns the smallest value strictly greater than threshold.
// When no value qualifies it returns 0 with NoResult.
func LowestAbove(data []float64, threshold float64) (float64, error) {
	lowest := math.Inf(1)
	for _, v := range data {
		if v > threshold && v < lowest {
			lowest = v
		}
	}
	if math.IsInf(lowest, 1) {
		return 0, common.NoResult
	}
	return lowest, nil
}
