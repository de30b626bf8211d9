package temporal

import (
	"fmt"

	"github.com/RyanBlaney/sonido-xtract/algorithms/common"
)

// Smooth runs the one-pole lowpass y[n] = g*x[n] + (1-g)*y[n-1] backwards
// over the frame and then forwards over the result, giving a zero-phase
// envelope. gain must lie in (0, 1]; 1 leaves the data unchanged.
func Smooth(data []float64, gain float64) ([]float64, error) {
	if gain <= 0 || gain > 1 {
		return nil, fmt.Errorf("smoothing gain %g: %w", gain, common.ArgumentError)
	}

	n := len(data)
	result := make([]float64, n)
	if n == 0 {
		return result, nil
	}

	g, h := gain, 1-gain

	result[n-1] = data[n-1]
	for i := n - 2; i >= 0; i-- {
		result[i] = g*data[i] + h*result[i+1]
	}

	for i := 1; i < n; i++ {
		result[i] = g*result[i] + h*result[i-1]
	}

	return result, nil
}
