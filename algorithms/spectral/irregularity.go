package spectral

import (
	"math"

	"github.com/RyanBlaney/sonido-xtract/algorithms/common"
)

// IrregularityK sums the deviation of each value from the mean of itself and
// its neighbours (Krimphoff)
func IrregularityK(data []float64) float64 {
	result := 0.0
	for i := 1; i < len(data)-1; i++ {
		result += math.Abs(data[i] - (data[i-1]+data[i]+data[i+1])/3.0)
	}
	return result
}

// IrregularityJ is the squared successive difference normalised by the
// energy of the leading values (Jensen)
func IrregularityJ(data []float64) (float64, error) {
	num, den := 0.0, 0.0
	for i := 0; i < len(data)-1; i++ {
		num += common.Sq(data[i] - data[i+1])
		den += common.Sq(data[i])
	}
	if den == 0 {
		return 0, common.NoResult
	}
	return num / den, nil
}

// Smoothness is IrregularityK over the dB values of a spectrum, with
// non-positive values floored at LogLimit (McAdams)
func Smoothness(data []float64) float64 {
	db := func(v float64) float64 {
		if v <= 0 {
			v = common.LogLimit
		}
		return 20.0 * math.Log(v)
	}

	result := 0.0
	for i := 1; i < len(data)-1; i++ {
		prev, current, next := db(data[i-1]), db(data[i]), db(data[i+1])
		result += math.Abs(current - (prev+current+next)/3.0)
	}
	return result
}
