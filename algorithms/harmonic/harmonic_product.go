package harmonic

import (
	"math"

	"github.com/RyanBlaney/sonido-xtract/algorithms/common"
)

// Octave correction bounds: a strong bin between 40% and 60% of the HPS peak
// index with at least 10% of its amplitude is taken as the true fundamental.
const (
	octaveLow   = 0.4
	octaveHigh  = 0.6
	octaveRatio = 0.1
)

// HPS estimates the fundamental of a paired spectrum (amplitudes followed by
// frequencies) from the product of the spectrum with copies downsampled by 2
// and 3. It returns the frequency of the winning bin.
func HPS(data []float64) (float64, error) {
	n := len(data) / 2
	m := int(math.Ceil(float64(n) / 3.0))
	if m <= 1 {
		return 0, common.NoResult
	}

	amps, freqs := data[:n], data[n:2*n]

	peak, peakIndex := 0.0, 0
	for i := range m {
		product := amps[i] * amps[2*i] * amps[3*i]
		if product > peak {
			peak = product
			peakIndex = i
		}
	}
	if peak == 0 {
		return 0, common.NoResult
	}

	largest, position := 0.0, 0
	for i, v := range amps {
		if v > largest && i != peakIndex {
			largest = v
			position = i
		}
	}

	p := float64(peakIndex)
	if float64(position) > p*octaveLow && float64(position) < p*octaveHigh &&
		amps[peakIndex] != 0 && amps[position]/amps[peakIndex] > octaveRatio {
		peakIndex = position
	}

	return freqs[peakIndex], nil
}
