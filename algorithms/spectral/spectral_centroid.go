package spectral

import (
	"math"

	"github.com/RyanBlaney/sonido-xtract/algorithms/common"
)

// paired splits a paired spectrum into its amplitude and frequency halves
func paired(data []float64) (amps, freqs []float64) {
	m := len(data) / 2
	return data[:m], data[m : 2*m]
}

// Centroid returns the amplitude-weighted mean frequency of a paired
// spectrum. An all-zero spectrum yields 0 with NoResult.
func Centroid(data []float64) (float64, error) {
	amps, freqs := paired(data)

	fa, a := 0.0, 0.0
	for i, amp := range amps {
		fa += freqs[i] * amp
		a += amp
	}
	if a == 0 {
		return 0, common.NoResult
	}
	return fa / a, nil
}

// Variance returns the amplitude-weighted variance of frequency about mean
func Variance(data []float64, mean float64) (float64, error) {
	amps, freqs := paired(data)

	sum, a := 0.0, 0.0
	for i, amp := range amps {
		a += amp
		sum += common.Sq(freqs[i]-mean) * amp
	}
	if a == 0 {
		return 0, common.NoResult
	}
	return sum / a, nil
}

// StandardDeviation returns the square root of a spectral variance
func StandardDeviation(variance float64) float64 {
	return math.Sqrt(variance)
}

// Skewness returns the third amplitude-weighted moment of frequency
func Skewness(data []float64, mean, stdDev float64) float64 {
	amps, freqs := paired(data)

	sum := 0.0
	for i, amp := range amps {
		sum += math.Pow(freqs[i]-mean, 3) * amp
	}
	return sum / math.Pow(stdDev, 3)
}

// Kurtosis returns the excess fourth amplitude-weighted moment of frequency
func Kurtosis(data []float64, mean, stdDev float64) float64 {
	amps, freqs := paired(data)

	sum := 0.0
	for i, amp := range amps {
		sum += math.Pow(freqs[i]-mean, 4) * amp
	}
	return sum/math.Pow(stdDev, 4) - 3.0
}
