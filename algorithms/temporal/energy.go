package temporal

import (
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/RyanBlaney/sonido-xtract/algorithms/common"
)

// ZeroCrossingRate returns the number of sign changes between adjacent
// samples divided by the frame length
func ZeroCrossingRate(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	crossings := 0
	for i := 1; i < len(signal); i++ {
		if signal[i]*signal[i-1] < 0 {
			crossings++
		}
	}
	return float64(crossings) / float64(len(signal))
}

// RMSAmplitude returns the root mean square of the frame
func RMSAmplitude(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}
	sumSquares := vecmath.DotProduct(signal, signal)
	return math.Sqrt(sumSquares / float64(len(signal)))
}

// DifferenceVector subtracts the second half of frames from the first half.
// frames holds two consecutive subframes of equal length back to back.
func DifferenceVector(frames []float64) ([]float64, error) {
	half := len(frames) / 2
	if half == 0 {
		return nil, common.BadVectorSize
	}

	result := make([]float64, half)
	negated := make([]float64, half)
	vecmath.ScaleBlock(negated, frames[half:2*half], -1)
	vecmath.AddBlock(result, frames[:half], negated)
	return result, nil
}
