package spectral

import (
	"math"
	"math/cmplx"

	"github.com/RyanBlaney/sonido-xtract/algorithms/common"
)

// DCT computes the unnormalized DCT-II
//
//	X[k] = sum_n x[n] cos(pi/N (n + 1/2) k)
//
// through a real FFT of the same length (Makhoul's reordering).
func DCT(t Transformer, data []float64) ([]float64, error) {
	n := len(data)
	if t.Size() != n {
		return nil, common.BadVectorSize
	}
	if n == 1 {
		return []float64{data[0]}, nil
	}

	v := make([]float64, n)
	for i := 0; i < n/2; i++ {
		v[i] = data[2*i]
		v[n-1-i] = data[2*i+1]
	}
	coeffs := t.Forward(v)

	result := make([]float64, n)
	for k := range n {
		var c complex128
		if k <= n/2 {
			c = coeffs[k]
		} else {
			c = cmplx.Conj(coeffs[n-k])
		}
		result[k] = real(c * cmplx.Rect(1, -math.Pi*float64(k)/float64(2*n)))
	}
	return result, nil
}
