package spectral

import "github.com/RyanBlaney/sonido-xtract/algorithms/common"

// Crest returns the ratio of a precomputed maximum to a precomputed mean
func Crest(maxValue, mean float64) (float64, error) {
	if mean == 0 {
		return 0, common.NoResult
	}
	return maxValue / mean, nil
}
