package windowing

import "math"

// triangular spans N rather than N-1, so the end points are non-zero
func triangular(n int) []float64 {
	coeffs := make([]float64, n)
	size := float64(n)
	m := float64(n - 1)
	for i := range coeffs {
		coeffs[i] = 2.0 / size * (size/2.0 - math.Abs(float64(i)-m/2.0))
	}
	return coeffs
}

func bartlettHann(n int) []float64 {
	const (
		a0 = 0.62
		a1 = 0.5
		a2 = 0.38
	)

	coeffs := make([]float64, n)
	m := float64(n - 1)
	for i := range coeffs {
		x := float64(i) / m
		coeffs[i] = a0 - a1*math.Abs(x-0.5) - a2*math.Cos(2*math.Pi*x)
	}
	return coeffs
}
