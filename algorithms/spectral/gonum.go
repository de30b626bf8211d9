package spectral

import (
	"fmt"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/RyanBlaney/sonido-xtract/algorithms/common"
)

// GonumBackend plans transforms with gonum's FFTPACK port
type GonumBackend struct{}

func (GonumBackend) Name() string { return BackendGonum }

func (GonumBackend) NewPlan(n int) (Plan, error) {
	if !common.IsPowerOfTwo(n) {
		return nil, fmt.Errorf("gonum plan of size %d: %w", n, ErrNotPowerOfTwo)
	}
	return &gonumPlan{fft: fourier.NewFFT(n)}, nil
}

type gonumPlan struct {
	fft *fourier.FFT
}

func (p *gonumPlan) Size() int { return p.fft.Len() }

func (p *gonumPlan) Forward(dst []complex128, src []float64) {
	p.fft.Coefficients(dst, src)
}

func (p *gonumPlan) Inverse(dst []float64, src []complex128) {
	p.fft.Sequence(dst, src)
}
