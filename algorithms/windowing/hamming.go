package windowing

import "math"

// hamming uses the optimal equiripple coefficients rather than the classic
// 0.54/0.46 pair.
func hamming(n int) []float64 {
	const (
		a0 = 0.53836
		a1 = 0.46164
	)

	coeffs := make([]float64, n)
	m := float64(n - 1)
	for i := range coeffs {
		coeffs[i] = a0 - a1*math.Cos(2*math.Pi*float64(i)/m)
	}
	return coeffs
}
