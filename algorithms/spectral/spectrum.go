package spectral

import (
	"fmt"
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/RyanBlaney/sonido-xtract/algorithms/common"
)

// SpectrumType selects the representation written by Spectrum
type SpectrumType int

const (
	MagnitudeSpectrum SpectrumType = iota
	LogMagnitudeSpectrum
	PowerSpectrum
	LogPowerSpectrum
)

func (s SpectrumType) String() string {
	switch s {
	case MagnitudeSpectrum:
		return "magnitude"
	case LogMagnitudeSpectrum:
		return "log_magnitude"
	case PowerSpectrum:
		return "power"
	case LogPowerSpectrum:
		return "log_power"
	default:
		return fmt.Sprintf("spectrum(%d)", int(s))
	}
}

// ParseSpectrumType resolves a spectrum type name
func ParseSpectrumType(name string) (SpectrumType, error) {
	for s := MagnitudeSpectrum; s <= LogPowerSpectrum; s++ {
		if s.String() == name {
			return s, nil
		}
	}
	return MagnitudeSpectrum, fmt.Errorf("unknown spectrum type %q", name)
}

// SpectrumOptions configures Spectrum
type SpectrumOptions struct {
	// BinWidth is the frequency spacing of bins in Hz; 0 means 44100/N
	BinWidth  float64      `json:"bin_width" yaml:"bin_width" mapstructure:"bin_width"`
	Type      SpectrumType `json:"type" yaml:"type" mapstructure:"type"`
	WithDC    bool         `json:"with_dc" yaml:"with_dc" mapstructure:"with_dc"`
	Normalise bool         `json:"normalise" yaml:"normalise" mapstructure:"normalise"`
}

// Spectrum computes N/2 magnitude-like values followed by their N/2 bin
// frequencies. Without DC the bins run from 1 up to and including Nyquist.
func Spectrum(t Transformer, data []float64, opts SpectrumOptions) ([]float64, error) {
	n := len(data)
	if t.Size() != n || n < 2 {
		return nil, common.BadVectorSize
	}

	q := common.DefaultBinWidth(opts.BinWidth, n)
	m := n / 2
	coeffs := t.Forward(data)

	offset := 1
	if opts.WithDC {
		offset = 0
	}

	re := make([]float64, m)
	im := make([]float64, m)
	for i := range m {
		c := coeffs[i+offset]
		re[i], im[i] = real(c), imag(c)
	}
	power := make([]float64, m)
	vecmath.Power(power, re, im)

	result := make([]float64, n)
	nf := float64(n)
	nn := nf * nf
	maxValue := 0.0

	for i := range m {
		p := power[i]
		var v float64
		switch opts.Type {
		case LogMagnitudeSpectrum:
			if p > common.LogLimit {
				v = math.Log(math.Sqrt(p) / nf)
			} else {
				v = common.LogLimitDB
			}
			v = (v + common.DBScaleOffset) / common.DBScaleOffset
		case PowerSpectrum:
			v = p / nn
		case LogPowerSpectrum:
			if p > common.LogLimit {
				v = math.Log(p / nn)
			} else {
				v = common.LogLimitDB
			}
			v = (v + common.DBScaleOffset) / common.DBScaleOffset
		default:
			v = math.Sqrt(p) / nf
		}

		result[i] = v
		result[m+i] = float64(i+offset) * q
		if v > maxValue {
			maxValue = v
		}
	}

	if opts.Normalise && maxValue != 0 {
		vecmath.ScaleBlockInPlace(result[:m], 1/maxValue)
	}

	return result, nil
}

// AutocorrelationFFT computes the autocorrelation of data through the power
// spectrum of its zero-padded copy. t must have size 2*len(data).
func AutocorrelationFFT(t Transformer, data []float64) ([]float64, error) {
	n := len(data)
	if n == 0 || t.Size() != 2*n {
		return nil, common.BadVectorSize
	}

	padded := make([]float64, 2*n)
	copy(padded, data)

	coeffs := t.Forward(padded)
	for k, c := range coeffs {
		coeffs[k] = complex(real(c)*real(c)+imag(c)*imag(c), 0)
	}
	seq := t.Inverse(coeffs)

	norm := 1 / (float64(2*n) * float64(n))
	result := make([]float64, n)
	vecmath.ScaleBlock(result, seq[:n], norm)
	return result, nil
}
