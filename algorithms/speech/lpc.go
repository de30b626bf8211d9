package speech

import (
	"fmt"

	"github.com/RyanBlaney/sonido-xtract/algorithms/common"
	"github.com/RyanBlaney/sonido-xtract/algorithms/stats"
)

// LPC runs the Levinson-Durbin recursion over N autocorrelation values. The
// result holds N-1 reflection coefficients followed by N-1 predictor
// coefficients. Zero energy (autocorr[0] == 0) yields a zeroed result with
// NoResult.
func LPC(autocorr []float64) ([]float64, error) {
	n := len(autocorr)
	if n < 2 {
		return nil, common.BadVectorSize
	}

	order := n - 1
	result := make([]float64, 2*order)
	ref, lpc := result[:order], result[order:]

	energy := autocorr[0]
	if energy == 0 {
		return result, common.NoResult
	}

	for i := range order {
		r := -autocorr[i+1]
		for j := range i {
			r -= lpc[j] * autocorr[i-j]
		}
		r /= energy
		ref[i] = r

		lpc[i] = r
		j := 0
		for ; j < i/2; j++ {
			tmp := lpc[j]
			lpc[j] += r * lpc[i-1-j]
			lpc[i-1-j] += r * tmp
		}
		if common.IsOdd(i) {
			lpc[j] += lpc[j] * r
		}

		energy *= 1 - r*r
	}

	return result, nil
}

// LPCC converts a predictor polynomial to cepstral coefficients with the
// Rabiner-Juang recurrence. poly[0] is the leading coefficient of the
// polynomial and is not used; poly[1:] are the predictor coefficients, so
// the order is len(poly)-1. Coefficients past the order are extrapolated
// from the earlier ones. length <= 0 means one coefficient per predictor
// coefficient.
func LPCC(poly []float64, length int) ([]float64, error) {
	order := len(poly) - 1
	if order < 1 {
		return nil, common.BadVectorSize
	}
	if length <= 0 {
		length = order
	}

	result := make([]float64, length)

	for n := 1; n <= order && n <= length; n++ {
		sum := 0.0
		for k := 1; k < n; k++ {
			sum += float64(k) * result[k-1] * poly[n-k]
		}
		result[n-1] = poly[n] + sum/float64(n)
	}

	for n := order + 1; n <= length; n++ {
		sum := 0.0
		for k := n - (order - 1); k < n; k++ {
			sum += float64(k) * result[k-1] * poly[n-k]
		}
		result[n-1] = sum / float64(n)
	}

	return result, nil
}

// LPCResult holds one frame of linear prediction analysis
type LPCResult struct {
	Reflection   []float64 `json:"reflection" yaml:"reflection"`
	Coefficients []float64 `json:"coefficients" yaml:"coefficients"`
	Cepstrum     []float64 `json:"cepstrum" yaml:"cepstrum"`
	Order        int       `json:"order" yaml:"order"`
}

// LPCAnalyzer derives predictor and cepstral coefficients from time-domain
// frames
type LPCAnalyzer struct {
	order          int
	cepstrumLength int
}

// NewLPCAnalyzer creates an analyzer of the given order. An order of 0 is
// derived from sampleRate as 2 + fs/1000.
func NewLPCAnalyzer(sampleRate float64, order, cepstrumLength int) *LPCAnalyzer {
	if order <= 0 {
		order = 2 + int(common.DefaultSampleRate(sampleRate)/1000)
	}
	return &LPCAnalyzer{order: order, cepstrumLength: cepstrumLength}
}

// Order returns the prediction order
func (a *LPCAnalyzer) Order() int {
	return a.order
}

// Analyze computes reflection, predictor and cepstral coefficients for signal
func (a *LPCAnalyzer) Analyze(signal []float64) (*LPCResult, error) {
	if len(signal) <= a.order {
		return nil, fmt.Errorf("signal of %d samples too short for order %d: %w",
			len(signal), a.order, common.BadVectorSize)
	}

	autocorr := stats.Autocorrelation(signal)[:a.order+1]

	coeffs, err := LPC(autocorr)
	if err != nil {
		return nil, err
	}

	poly := make([]float64, a.order+1)
	poly[0] = 1
	copy(poly[1:], coeffs[a.order:])

	cepstrum, err := LPCC(poly, a.cepstrumLength)
	if err != nil {
		return nil, err
	}

	return &LPCResult{
		Reflection:   coeffs[:a.order],
		Coefficients: coeffs[a.order:],
		Cepstrum:     cepstrum,
		Order:        a.order,
	}, nil
}
