package filters

import (
	"fmt"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/RyanBlaney/sonido-xtract/algorithms/common"
)

// DefaultPreEmphasis is the coefficient commonly used ahead of linear
// prediction of speech
const DefaultPreEmphasis = 0.97

// PreEmphasis is the first order high boost y[n] = x[n] - a*x[n-1]. It keeps
// the last sample of the previous block.
type PreEmphasis struct {
	coefficient float64
	last        float64
}

// NewPreEmphasis creates a filter with coefficient a in [0, 1)
func NewPreEmphasis(coefficient float64) (*PreEmphasis, error) {
	if coefficient < 0 || coefficient >= 1 {
		return nil, fmt.Errorf("pre-emphasis coefficient %g outside [0, 1): %w",
			coefficient, common.ArgumentError)
	}
	return &PreEmphasis{coefficient: coefficient}, nil
}

// Coefficient returns a
func (pe *PreEmphasis) Coefficient() float64 {
	return pe.coefficient
}

// ProcessBlock returns the filtered block
func (pe *PreEmphasis) ProcessBlock(block []float64) []float64 {
	if len(block) == 0 {
		return nil
	}
	out := Emphasize(block, pe.coefficient)
	out[0] -= pe.coefficient * pe.last
	pe.last = block[len(block)-1]
	return out
}

// Reset forgets the previous block
func (pe *PreEmphasis) Reset() {
	pe.last = 0
}

// Emphasize filters a single frame assuming silence before it
func Emphasize(frame []float64, coefficient float64) []float64 {
	n := len(frame)
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	out[0] = frame[0]

	scaled := make([]float64, n-1)
	vecmath.ScaleBlock(scaled, frame[:n-1], -coefficient)
	vecmath.AddBlock(out[1:], frame[1:], scaled)
	return out
}
