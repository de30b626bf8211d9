package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Autocorrelation returns r[k] = sum x[i]x[i+k] / N for every lag k in
// 0..N-1
func Autocorrelation(signal []float64) []float64 {
	n := len(signal)
	result := make([]float64, n)
	for lag := range n {
		result[lag] = floats.Dot(signal[:n-lag], signal[lag:]) / float64(n)
	}
	return result
}

// AMDF returns the average magnitude difference sum |x[i] - x[i+k]| / N for
// every lag k
func AMDF(signal []float64) []float64 {
	return differenceFunction(signal, math.Abs)
}

// ASDF returns the average squared difference sum (x[i] - x[i+k])^2 / N for
// every lag k
func ASDF(signal []float64) []float64 {
	return differenceFunction(signal, func(d float64) float64 { return d * d })
}

func differenceFunction(signal []float64, kernel func(float64) float64) []float64 {
	n := len(signal)
	result := make([]float64, n)
	for lag := range n {
		sum := 0.0
		for i := 0; i < n-lag; i++ {
			sum += kernel(signal[i] - signal[i+lag])
		}
		result[lag] = sum / float64(n)
	}
	return result
}
