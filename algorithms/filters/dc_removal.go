package filters

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-xtract/algorithms/common"
)

// DefaultDCPole gives a cutoff of roughly 35 Hz at 44.1 kHz
const DefaultDCPole = 0.995

// DCBlocker removes the DC offset of a stream with the one pole high pass
//
//	y[n] = x[n] - x[n-1] + R*y[n-1]
//
// State carries across blocks, so one blocker serves one stream.
type DCBlocker struct {
	pole float64
	x1   float64
	y1   float64
}

// NewDCBlocker creates a blocker with pole location R in (0, 1)
func NewDCBlocker(pole float64) (*DCBlocker, error) {
	if pole <= 0 || pole >= 1 {
		return nil, fmt.Errorf("DC blocker pole %g outside (0, 1): %w", pole, common.ArgumentError)
	}
	return &DCBlocker{pole: pole}, nil
}

// NewDCBlockerWithCutoff derives the pole from a -3 dB cutoff with
// R = 1 - 2*pi*fc/fs, clamped to [0.001, 0.999]
func NewDCBlockerWithCutoff(sampleRate, cutoff float64) (*DCBlocker, error) {
	if cutoff <= 0 {
		return nil, fmt.Errorf("DC blocker cutoff %g Hz: %w", cutoff, common.ArgumentError)
	}
	pole := 1 - 2*math.Pi*cutoff/common.DefaultSampleRate(sampleRate)
	return NewDCBlocker(common.Clamp(pole, 0.001, 0.999))
}

// Pole returns R
func (dc *DCBlocker) Pole() float64 {
	return dc.pole
}

// Process filters one sample
func (dc *DCBlocker) Process(x float64) float64 {
	y := x - dc.x1 + dc.pole*dc.y1
	dc.x1, dc.y1 = x, y
	return y
}

// ProcessBlock filters block in place
func (dc *DCBlocker) ProcessBlock(block []float64) {
	for i, x := range block {
		block[i] = dc.Process(x)
	}
}

// Reset clears the filter history
func (dc *DCBlocker) Reset() {
	dc.x1, dc.y1 = 0, 0
}
