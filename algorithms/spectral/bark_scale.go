package spectral

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/sonido-xtract/algorithms/common"
)

// barkEdges are the critical band edges in Hz, covering sample rates up to
// 54 kHz
var barkEdges = [common.BarkBands + 1]float64{
	0, 100, 200, 300, 400, 510, 630, 770, 920, 1080, 1270, 1480, 1720, 2000,
	2320, 2700, 3150, 3700, 4400, 5300, 6400, 7700, 9500, 12000, 15500,
	20500, 27000,
}

// BarkLimits holds the first bin index of each Bark band
type BarkLimits [common.BarkBands]int

// NewBarkLimits maps the Bark band edges onto the bins of an n-point
// transform at sampleRate
func NewBarkLimits(n int, sampleRate float64) BarkLimits {
	sampleRate = common.DefaultSampleRate(sampleRate)
	var limits BarkLimits
	for b := range limits {
		limits[b] = int(barkEdges[b] / sampleRate * float64(n))
	}
	return limits
}

// BarkCoefficients sums spectrum values within each Bark band. The last band
// runs to the end of data.
func BarkCoefficients(data []float64, limits *BarkLimits) ([]float64, error) {
	if limits == nil {
		return nil, common.BadArgv
	}

	n := len(data)
	result := make([]float64, common.BarkBands)
	for b := range result {
		lower := common.ClampInt(limits[b], 0, n)
		upper := n
		if b+1 < common.BarkBands {
			upper = common.ClampInt(limits[b+1], lower, n)
		}
		result[b] = floats.Sum(data[lower:upper])
	}
	return result, nil
}

func barkBandCount(n int) (int, error) {
	if n != common.BarkBands {
		return min(n, common.BarkBands), common.BadVectorSize
	}
	return n, nil
}

// Loudness sums the specific loudness of Bark coefficients. Inputs with
// other than BarkBands values are evaluated over the first bands and
// reported as BadVectorSize.
func Loudness(data []float64) (float64, error) {
	n, err := barkBandCount(len(data))

	result := 0.0
	for _, v := range data[:n] {
		result += math.Pow(v, 0.23)
	}
	return result, err
}

// Sharpness is the weighted centroid of specific loudness over Bark bands.
// Only the first BarkBands values are weighted but the sum is divided by the
// full input length.
func Sharpness(data []float64) (float64, error) {
	n, err := barkBandCount(len(data))
	if n == 0 {
		return 0, common.NoResult
	}

	temp := 0.0
	for i, v := range data[:n] {
		sl := math.Pow(v, 0.23)
		g := 1.0
		if i >= 15 {
			g = 0.066 * math.Exp(0.171*float64(i))
		}
		temp += float64(i) * g * sl
	}
	return 0.11 * temp / float64(len(data)), err
}
