package harmonic

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/sonido-xtract/algorithms/common"
)

// PeakOptions configures PeakSpectrum
type PeakOptions struct {
	// BinWidth is the spacing of the input bins in Hz; 0 means 44100/N
	BinWidth float64 `json:"bin_width" yaml:"bin_width" mapstructure:"bin_width"`
	// Threshold is the minimum peak height as a percentage of the maximum
	Threshold float64 `json:"threshold" yaml:"threshold" mapstructure:"threshold"`
}

// PeakSpectrum finds the local maxima of a magnitude array that reach
// Threshold percent of its maximum. The result holds N amplitudes followed by
// N frequencies; each peak is refined by parabolic interpolation and every
// other bin is zero. A threshold outside 0..100 is treated as 0 and reported
// as BadArgv alongside the computed result.
func PeakSpectrum(data []float64, opts PeakOptions) ([]float64, error) {
	n := len(data)
	result := make([]float64, 2*n)
	if n == 0 {
		return result, nil
	}

	var status error
	threshold := opts.Threshold
	if threshold < 0 || threshold > 100 {
		threshold = 0
		status = common.BadArgv
	}
	q := common.DefaultBinWidth(opts.BinWidth, n)

	threshold *= 0.01 * math.Max(floats.Max(data), 0)

	for i := 1; i+1 < n; i++ {
		v := data[i]
		if v < threshold || v <= data[i-1] || v <= data[i+1] {
			continue
		}
		offset, height := common.ParabolicPeak(data[i-1], v, data[i+1])
		result[i] = height
		result[n+i] = q * (float64(i) + offset)
	}

	return result, status
}

// HarmonicSpectrum keeps the peaks of a paired peak spectrum whose frequency
// lies within threshold of an integer multiple of f0, measured in harmonic
// numbers. Everything else, including zero-frequency bins, is zeroed.
func HarmonicSpectrum(data []float64, f0, threshold float64) ([]float64, error) {
	n := len(data) / 2
	result := make([]float64, len(data))
	if f0 <= 0 {
		return result, common.ArgumentError
	}

	amps, freqs := data[:n], data[n:2*n]
	for i, f := range freqs {
		if f == 0 {
			continue
		}
		ratio := f / f0
		if math.Abs(math.Round(ratio)-ratio) <= threshold {
			result[i] = amps[i]
			result[n+i] = f
		}
	}
	return result, nil
}
