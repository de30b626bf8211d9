package spectral

import (
	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/sonido-xtract/algorithms/common"
)

// Rolloff returns the frequency of the first bin at which the cumulative sum
// of data reaches percentile percent of the total. binWidth 0 means 44100/N.
func Rolloff(data []float64, binWidth, percentile float64) float64 {
	if len(data) == 0 {
		return 0
	}
	q := common.DefaultBinWidth(binWidth, len(data))
	pivot := floats.Sum(data) * percentile / 100.0

	cumulative := 0.0
	for i, v := range data {
		cumulative += v
		if cumulative >= pivot {
			return float64(i) * q
		}
	}
	return float64(len(data)-1) * q
}
