package spectral

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-xtract/algorithms/common"
)

// MelStyle selects how filter heights are normalised
type MelStyle int

const (
	// EqualGain gives every filter a peak of 1
	EqualGain MelStyle = iota
	// EqualArea scales each filter so all have the area of the first
	EqualArea
)

func (s MelStyle) String() string {
	if s == EqualArea {
		return "equal_area"
	}
	return "equal_gain"
}

// ParseMelStyle resolves "equal_gain" or "equal_area"
func ParseMelStyle(name string) (MelStyle, error) {
	switch name {
	case "equal_gain", "":
		return EqualGain, nil
	case "equal_area":
		return EqualArea, nil
	}
	return EqualGain, fmt.Errorf("unknown mel filter style %q", name)
}

// HzToMel converts frequency in Hz to mels using the natural-log form
func HzToMel(hz float64) float64 {
	return 1127.0 * math.Log(1.0+hz/700.0)
}

// MelToHz converts mels to frequency in Hz
func MelToHz(mel float64) float64 {
	return 700.0 * (math.Exp(mel/1127.0) - 1.0)
}

// MelFilterBank is a set of triangular weighting curves over the bins of a
// magnitude spectrum
type MelFilterBank struct {
	n       int
	filters [][]float64
}

// NewMelFilterBank builds bands triangular filters of length n spaced evenly
// in mels between freqMin and freqMax. n is the number of spectrum bins
// covering 0..nyquist.
func NewMelFilterBank(n int, nyquist float64, style MelStyle, freqMin, freqMax float64, bands int) (*MelFilterBank, error) {
	if bands <= 1 {
		return nil, fmt.Errorf("mel filter bank needs at least 2 bands, got %d: %w", bands, common.ArgumentError)
	}
	if n <= 0 {
		return nil, fmt.Errorf("mel filter bank length %d: %w", n, common.ArgumentError)
	}
	if nyquist <= 0 {
		nyquist = common.SRDefault / 2
	}

	melMin := HzToMel(freqMin)
	melMax := HzToMel(freqMax)
	melStep := (melMax - melMin) / float64(bands)

	// one extra point on each side for the outer edges
	linPeak := make([]float64, bands+2)
	binPeak := make([]int, bands+2)
	linPeak[0] = freqMin
	for i := range linPeak {
		if i > 0 {
			linPeak[i] = MelToHz(melMin + float64(i)*melStep)
		}
		binPeak[i] = common.ClampInt(int(linPeak[i]/nyquist*float64(n)), 0, n-1)
	}

	filters := make([][]float64, bands)
	for b := range filters {
		height := 1.0
		if style == EqualArea {
			height = 2 / (linPeak[b+2] - linPeak[b])
			height *= (linPeak[2] - linPeak[0]) / 2
		}

		left := 0
		if b > 0 {
			left = binPeak[b-1]
		}
		centre := binPeak[b]
		right := binPeak[b+1]

		filter := make([]float64, n)
		if centre > left {
			inc := height / float64(centre-left)
			for i := left; i <= centre; i++ {
				filter[i] = float64(i-left) * inc
			}
		}
		if right > centre {
			inc := height / float64(right-centre)
			for i := right; i > centre; i-- {
				filter[i] = float64(right-i) * inc
			}
		}
		filters[b] = filter
	}

	return &MelFilterBank{n: n, filters: filters}, nil
}

// Bands returns the number of filters
func (fb *MelFilterBank) Bands() int {
	return len(fb.filters)
}

// Len returns the length of each filter
func (fb *MelFilterBank) Len() int {
	return fb.n
}

// Filter returns filter i. The slice is shared; callers must not modify it.
func (fb *MelFilterBank) Filter(i int) []float64 {
	return fb.filters[i]
}
