package windowing

import "math"

// KaiserAlpha is the shape parameter used for Kaiser windows
const KaiserAlpha = 3 * math.Pi

const besselEpsilon = 1e-21

func kaiser(n int, alpha float64) []float64 {
	coeffs := make([]float64, n)
	m := float64(n - 1)
	i0Alpha := besselI0(alpha)

	for i := range coeffs {
		arg := 2.0*float64(i)/m - 1.0
		coeffs[i] = besselI0(alpha*math.Sqrt(1-arg*arg)) / i0Alpha
	}
	return coeffs
}

// besselI0 computes the zero-order modified Bessel function of the first kind
// by power series, stopping once the last term falls below besselEpsilon of
// the running sum
func besselI0(x float64) float64 {
	sum := 1.0
	term := 1.0
	half := x / 2.0

	for i := 1; ; i++ {
		t := half / float64(i)
		term *= t * t
		sum += term
		if term < besselEpsilon*sum {
			break
		}
	}

	return sum
}
