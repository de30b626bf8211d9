package analysis

import (
	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/RyanBlaney/sonido-xtract/algorithms/spectral"
	"github.com/RyanBlaney/sonido-xtract/xtract"
)

// gate keeps the samples above threshold and scales the block by its
// largest magnitude
func gate(block []float64, threshold float64) []float64 {
	gated := make([]float64, len(block))
	for i, v := range block {
		if v > threshold {
			gated[i] = v
		}
	}

	scale := 0.0
	if peak := vecmath.MaxAbs(block); peak > 0 {
		scale = 1 / peak
	}
	vecmath.ScaleBlockInPlace(gated, scale)
	return gated
}

// detectOnset compares the normalised log power spectra of the two halves of
// the gated block. The positive-slope flux of their smoothed difference is
// fed to the onset detector. The difference vector and flux are seeded into
// the frame so they can be reported as features.
func (a *Analyzer) detectOnset(fr *frame) (float64, bool, error) {
	x := a.extractor
	half := a.cfg.BlockSize / 2
	quarter := half / 2

	fail := func(err error) (float64, bool, error) {
		fr.cache[xtract.DifferenceVector] = result{err: err}
		fr.cache[xtract.Flux] = result{err: err}
		return 0, false, err
	}

	gated := gate(fr.block, a.cfg.Onset.Gate)

	windowed, err := x.FromSubframes(xtract.Windowed, gated, xtract.WindowedArgs{Window: a.subWindow})
	if err != nil {
		return fail(err)
	}

	spectra, err := x.FromSubframes(xtract.Spectrum, windowed, xtract.SpectrumArgs{
		BinWidth:  a.sampleRate() / float64(half),
		Type:      spectral.LogPowerSpectrum,
		Normalise: true,
	})
	if err != nil {
		return fail(err)
	}

	smoothing := xtract.SmoothedArgs{Gain: a.cfg.Onset.Smoothing}
	for _, start := range []int{0, half} {
		amps := spectra[start : start+quarter]
		smoothed, err := x.Compute(xtract.Smoothed, amps, smoothing)
		if err != nil {
			return fail(err)
		}
		copy(amps, smoothed)
	}

	diff, err := x.Compute(xtract.DifferenceVector, spectra, nil)
	if err != nil {
		return fail(err)
	}
	fr.cache[xtract.DifferenceVector] = result{values: diff}

	opts := a.onset.Options()
	flux, err := x.Scalar(xtract.Flux, diff[:quarter], xtract.LNormArgs{
		Order:     opts.Order,
		Filter:    opts.Filter,
		Normalise: opts.Normalise,
	})
	if err != nil {
		fr.cache[xtract.Flux] = result{err: err}
		return 0, false, err
	}
	fr.cache[xtract.Flux] = result{values: []float64{flux}}

	onset, err := a.onset.ProcessFlux(flux)
	return flux, onset, err
}
