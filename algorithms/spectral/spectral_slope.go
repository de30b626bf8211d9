package spectral

import "github.com/RyanBlaney/sonido-xtract/algorithms/common"

// Slope returns the linear regression slope of amplitude over frequency of a
// paired spectrum, normalised by the total amplitude
func Slope(data []float64) (float64, error) {
	amps, freqs := paired(data)
	m := float64(len(amps))

	var f, a, fa, ff float64
	for i, amp := range amps {
		fi := freqs[i]
		f += fi
		a += amp
		fa += fi * amp
		ff += fi * fi
	}

	den := m*ff - f*f
	if a == 0 || den == 0 {
		return 0, common.NoResult
	}
	return (1.0 / a) * (m*fa - f*a) / den, nil
}
