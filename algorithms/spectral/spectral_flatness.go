package spectral

import (
	"math"

	"github.com/RyanBlaney/sonido-xtract/algorithms/common"
)

// Flatness returns the ratio of the geometric to the arithmetic mean of the
// non-zero values. If the running product underflows into the denormal range
// the product is cut short and DenormalFound is reported with the value.
func Flatness(data []float64) (float64, error) {
	num, den := 1.0, 0.0
	count := 0
	denormal := false

	for _, v := range data {
		if v == 0 {
			continue
		}
		if common.IsDenormal(num) {
			denormal = true
			break
		}
		num *= v
		den += v
		count++
	}

	if count == 0 {
		return 0, common.NoResult
	}

	n := float64(len(data))
	result := math.Pow(num, 1.0/n) / (den / n)
	if denormal {
		return result, common.DenormalFound
	}
	return result, nil
}

// FlatnessDB converts a flatness value to decibels
func FlatnessDB(flatness float64) float64 {
	if flatness <= 0 {
		flatness = common.LogLimit
	}
	return 10 * math.Log10(flatness)
}

// Tonality maps a flatness in dB onto 0..1, saturating at -60 dB
func Tonality(flatnessDB float64) float64 {
	return min(flatnessDB/-60.0, 1)
}
