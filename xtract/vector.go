package xtract

import (
	"github.com/RyanBlaney/sonido-xtract/algorithms/harmonic"
	"github.com/RyanBlaney/sonido-xtract/algorithms/spectral"
	"github.com/RyanBlaney/sonido-xtract/algorithms/speech"
	"github.com/RyanBlaney/sonido-xtract/algorithms/stats"
	"github.com/RyanBlaney/sonido-xtract/algorithms/temporal"
)

func differenceVector(_ *Extractor, data []float64, _ Args) ([]float64, error) {
	return temporal.DifferenceVector(data)
}

func autocorrelation(_ *Extractor, data []float64, _ Args) ([]float64, error) {
	return stats.Autocorrelation(data), nil
}

func amdf(_ *Extractor, data []float64, _ Args) ([]float64, error) {
	return stats.AMDF(data), nil
}

func asdf(_ *Extractor, data []float64, _ Args) ([]float64, error) {
	return stats.ASDF(data), nil
}

func barkCoefficients(_ *Extractor, data []float64, args Args) ([]float64, error) {
	a, err := argsAs[BarkArgs](args)
	if err != nil {
		return nil, err
	}
	return spectral.BarkCoefficients(data, a.Limits)
}

func peakSpectrum(_ *Extractor, data []float64, args Args) ([]float64, error) {
	a, err := argsAs[PeakSpectrumArgs](args)
	if err != nil {
		return nil, err
	}
	return harmonic.PeakSpectrum(data, harmonic.PeakOptions{
		BinWidth:  a.BinWidth,
		Threshold: a.Threshold,
	})
}

func spectrum(x *Extractor, data []float64, args Args) ([]float64, error) {
	a, err := argsAs[SpectrumArgs](args)
	if err != nil {
		return nil, err
	}
	plan, err := x.plan(spectral.TransformSpectrum, len(data))
	if err != nil {
		return nil, err
	}
	return spectral.Spectrum(plan, data, a.options())
}

func autocorrelationFFT(x *Extractor, data []float64, _ Args) ([]float64, error) {
	plan, err := x.plan(spectral.TransformAutocorrelation, len(data))
	if err != nil {
		return nil, err
	}
	return spectral.AutocorrelationFFT(plan, data)
}

func mfcc(x *Extractor, data []float64, args Args) ([]float64, error) {
	a, err := argsAs[MFCCArgs](args)
	if err != nil {
		return nil, err
	}
	if a.Filters == nil {
		return nil, BadArgv
	}
	plan, err := x.plan(spectral.TransformMFCC, a.Filters.Bands())
	if err != nil {
		return nil, err
	}
	return spectral.MFCC(plan, data, a.Filters)
}

func dct(x *Extractor, data []float64, _ Args) ([]float64, error) {
	plan, err := x.plan(spectral.TransformDCT, len(data))
	if err != nil {
		return nil, err
	}
	return spectral.DCT(plan, data)
}

func harmonicSpectrum(_ *Extractor, data []float64, args Args) ([]float64, error) {
	a, err := argsAs[HarmonicSpectrumArgs](args)
	if err != nil {
		return nil, err
	}
	return harmonic.HarmonicSpectrum(data, a.F0, a.Threshold)
}

func lpc(_ *Extractor, data []float64, _ Args) ([]float64, error) {
	return speech.LPC(data)
}

// lpcc accepts nil args for one coefficient per predictor coefficient
func lpcc(_ *Extractor, data []float64, args Args) ([]float64, error) {
	length := 0
	if args != nil {
		a, err := argsAs[LPCCArgs](args)
		if err != nil {
			return nil, err
		}
		length = a.Order
	}
	return speech.LPCC(data, length)
}

func windowed(_ *Extractor, data []float64, args Args) ([]float64, error) {
	a, err := argsAs[WindowedArgs](args)
	if err != nil {
		return nil, err
	}
	if a.Window == nil {
		return nil, BadArgv
	}
	return a.Window.Apply(data)
}

func smoothed(_ *Extractor, data []float64, args Args) ([]float64, error) {
	a, err := argsAs[SmoothedArgs](args)
	if err != nil {
		return nil, err
	}
	return temporal.Smooth(data, a.Gain)
}
