package tonal

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/sonido-xtract/algorithms/common"
)

// Clipping levels applied before the lag search, as fractions of the frame
// maximum
const (
	PeakClip   = 0.8
	CentreClip = 0.3
)

// MIDI-cent range accepted by MIDICent
const (
	MIDICentMin = 0.0
	MIDICentMax = 12700.0
)

// F0 estimates the fundamental of a time-domain frame with an average
// magnitude difference search. The frame is peak clipped and centre clipped,
// then lags from 2 upwards are tried until one differs less than the one
// sample lag. When no lag qualifies within half the frame it returns 0 with
// NoResult. sampleRate 0 means 44100.
func F0(signal []float64, sampleRate float64) (float64, error) {
	sampleRate = common.DefaultSampleRate(sampleRate)
	n := len(signal)
	m := n / 2
	if m < 3 {
		return 0, common.NoResult
	}

	arrayMax := math.Max(floats.Max(signal), 0)
	peak := PeakClip * arrayMax
	centre := CentreClip * arrayMax

	input := make([]float64, n)
	for i, v := range signal {
		v = common.Clamp(v, -peak, peak)
		if v < centre {
			v = 0
		} else {
			v -= centre
		}
		input[i] = v
	}

	errTau1 := 0.0
	for i := 1; i < m; i++ {
		errTau1 += math.Abs(input[i] - input[i+1])
	}

	for tau := 2; tau < m; tau++ {
		errTau := 0.0
		for i := 1; i < m; i++ {
			errTau += math.Abs(input[i] - input[i+tau])
		}
		if errTau < errTau1 {
			return sampleRate / (float64(tau) + errTau/errTau1), nil
		}
	}

	return 0, common.NoResult
}

// MIDICent converts a frequency in Hz to MIDI cents, rounded to the nearest
// cent. Results outside 0..12700, including those for non-positive
// frequencies, are returned with ArgumentError.
func MIDICent(frequency float64) (float64, error) {
	if frequency <= 0 {
		return 0, common.ArgumentError
	}

	note := 69 + math.Log(frequency/440.0)*17.31234
	cents := math.Floor(0.5 + note*100)
	if cents < MIDICentMin || cents > MIDICentMax {
		return cents, common.ArgumentError
	}
	return cents, nil
}
