package spectral

import (
	"fmt"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/RyanBlaney/sonido-xtract/algorithms/common"
)

// GoDSPBackend plans transforms with mjibson/go-dsp. go-dsp keeps its own
// twiddle cache, so a plan only records the size.
type GoDSPBackend struct{}

func (GoDSPBackend) Name() string { return BackendGoDSP }

func (GoDSPBackend) NewPlan(n int) (Plan, error) {
	if !common.IsPowerOfTwo(n) {
		return nil, fmt.Errorf("go-dsp plan of size %d: %w", n, ErrNotPowerOfTwo)
	}
	return &goDSPPlan{n: n, full: make([]complex128, n)}, nil
}

type goDSPPlan struct {
	n    int
	full []complex128
}

func (p *goDSPPlan) Size() int { return p.n }

// Forward takes the full complex FFT and keeps the non-redundant half
func (p *goDSPPlan) Forward(dst []complex128, src []float64) {
	if len(src) == 0 {
		return
	}
	copy(dst, fft.FFTReal(src)[:p.n/2+1])
}

// Inverse rebuilds the Hermitian spectrum and undoes go-dsp's 1/N scaling
func (p *goDSPPlan) Inverse(dst []float64, src []complex128) {
	half := p.n / 2
	for k := 0; k <= half && k < p.n; k++ {
		p.full[k] = src[k]
	}
	for k := 1; k < p.n-half; k++ {
		p.full[p.n-k] = cmplx.Conj(src[k])
	}

	seq := fft.IFFT(p.full)
	scale := float64(p.n)
	for i, v := range seq {
		dst[i] = real(v) * scale
	}
}
