package spectral

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/sonido-xtract/algorithms/common"
)

// MelEnergies projects a magnitude spectrum onto each filter of bank and
// returns the natural log of each filter energy, floored at LogLimit
func MelEnergies(data []float64, bank *MelFilterBank) []float64 {
	energies := make([]float64, bank.Bands())
	n := min(len(data), bank.Len())
	for i := range energies {
		e := floats.Dot(data[:n], bank.Filter(i)[:n])
		energies[i] = math.Log(max(e, common.LogLimit))
	}
	return energies
}

// MFCC computes Mel-frequency cepstral coefficients of a magnitude spectrum.
// t must be a DCT plan sized to the number of filters.
func MFCC(t Transformer, data []float64, bank *MelFilterBank) ([]float64, error) {
	if bank == nil {
		return nil, common.BadArgv
	}
	if t.Size() != bank.Bands() {
		return nil, common.BadVectorSize
	}
	return DCT(t, MelEnergies(data, bank))
}
