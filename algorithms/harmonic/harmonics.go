package harmonic

import (
	"math"

	"github.com/RyanBlaney/sonido-xtract/algorithms/common"
)

// harmonicNumber returns the nearest harmonic of f0 for frequency f
func harmonicNumber(f, f0 float64) int {
	return int(math.Floor(f/f0 + 0.5))
}

// Tristimulus returns the share of harmonic amplitude carried by harmonics
// lowest..highest of f0 in a paired harmonic spectrum. highest < 0 means no
// upper bound. Zero-frequency entries are ignored.
func Tristimulus(data []float64, f0 float64, lowest, highest int) (float64, error) {
	if f0 <= 0 {
		return 0, common.ArgumentError
	}

	n := len(data) / 2
	amps, freqs := data[:n], data[n:2*n]

	num, den := 0.0, 0.0
	for i, f := range freqs {
		if f == 0 {
			continue
		}
		den += amps[i]
		h := harmonicNumber(f, f0)
		if h >= lowest && (highest < 0 || h <= highest) {
			num += amps[i]
		}
	}

	if den == 0 || num == 0 {
		return 0, common.NoResult
	}
	return num / den, nil
}

// Tristimulus1 is the weight of the fundamental
func Tristimulus1(data []float64, f0 float64) (float64, error) {
	return Tristimulus(data, f0, 1, 1)
}

// Tristimulus2 is the weight of harmonics 2 to 4
func Tristimulus2(data []float64, f0 float64) (float64, error) {
	return Tristimulus(data, f0, 2, 4)
}

// Tristimulus3 is the weight of harmonics 5 and up
func Tristimulus3(data []float64, f0 float64) (float64, error) {
	return Tristimulus(data, f0, 5, -1)
}

// Inharmonicity measures how far the peaks of a paired spectrum sit from the
// harmonic series of f0, weighted by squared amplitude
func Inharmonicity(data []float64, f0 float64) (float64, error) {
	if f0 <= 0 {
		return 0, common.ArgumentError
	}

	n := len(data) / 2
	amps, freqs := data[:n], data[n:2*n]

	num, den := 0.0, 0.0
	for i, f := range freqs {
		if f == 0 {
			continue
		}
		h := math.Floor(f/f0 + 0.5)
		a2 := common.Sq(amps[i])
		num += math.Abs(f-h*f0) * a2
		den += a2
	}

	if den == 0 {
		return 0, common.NoResult
	}
	return 2 * num / (f0 * den), nil
}

// OddEvenRatio returns the amplitude of odd harmonics of f0 over that of even
// harmonics
func OddEvenRatio(data []float64, f0 float64) (float64, error) {
	if f0 <= 0 {
		return 0, common.ArgumentError
	}

	n := len(data) / 2
	amps, freqs := data[:n], data[n:2*n]

	odd, even := 0.0, 0.0
	for i, f := range freqs {
		if f == 0 {
			continue
		}
		if common.IsOdd(harmonicNumber(f, f0)) {
			odd += amps[i]
		} else {
			even += amps[i]
		}
	}

	if odd == 0 || even == 0 {
		return 0, common.NoResult
	}
	return odd / even, nil
}

// Noisiness is the fraction of partials that are not harmonics
func Noisiness(harmonics, partials float64) (float64, error) {
	if partials == 0 {
		return 0, common.NoResult
	}
	return (partials - harmonics) / partials, nil
}
