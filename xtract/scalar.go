package xtract

import (
	"github.com/RyanBlaney/sonido-xtract/algorithms/common"
	"github.com/RyanBlaney/sonido-xtract/algorithms/harmonic"
	"github.com/RyanBlaney/sonido-xtract/algorithms/spectral"
	"github.com/RyanBlaney/sonido-xtract/algorithms/stats"
	"github.com/RyanBlaney/sonido-xtract/algorithms/temporal"
	"github.com/RyanBlaney/sonido-xtract/algorithms/tonal"
)

// scalar wraps a single value as a feature result. The value is kept on
// error so callers see the partial result.
func scalar(v float64, err error) ([]float64, error) {
	return []float64{v}, err
}

func notImplemented(*Extractor, []float64, Args) ([]float64, error) {
	return nil, FeatureNotImplemented
}

func mean(_ *Extractor, data []float64, _ Args) ([]float64, error) {
	return scalar(stats.Mean(data))
}

func variance(_ *Extractor, data []float64, args Args) ([]float64, error) {
	a, err := argsAs[MeanArgs](args)
	if err != nil {
		return nil, err
	}
	return scalar(stats.Variance(data, a.Mean))
}

func standardDeviation(_ *Extractor, _ []float64, args Args) ([]float64, error) {
	a, err := argsAs[VarianceArgs](args)
	if err != nil {
		return nil, err
	}
	return scalar(stats.StandardDeviation(a.Variance), nil)
}

func averageDeviation(_ *Extractor, data []float64, args Args) ([]float64, error) {
	a, err := argsAs[MeanArgs](args)
	if err != nil {
		return nil, err
	}
	return scalar(stats.AverageDeviation(data, a.Mean))
}

func skewness(_ *Extractor, data []float64, args Args) ([]float64, error) {
	a, err := argsAs[ShapeArgs](args)
	if err != nil {
		return nil, err
	}
	return scalar(stats.Skewness(data, a.Mean, a.StdDev))
}

func kurtosis(_ *Extractor, data []float64, args Args) ([]float64, error) {
	a, err := argsAs[ShapeArgs](args)
	if err != nil {
		return nil, err
	}
	return scalar(stats.Kurtosis(data, a.Mean, a.StdDev))
}

func spectralCentroid(_ *Extractor, data []float64, _ Args) ([]float64, error) {
	return scalar(spectral.Centroid(data))
}

func spectralVariance(_ *Extractor, data []float64, args Args) ([]float64, error) {
	a, err := argsAs[MeanArgs](args)
	if err != nil {
		return nil, err
	}
	return scalar(spectral.Variance(data, a.Mean))
}

func spectralStandardDeviation(_ *Extractor, _ []float64, args Args) ([]float64, error) {
	a, err := argsAs[VarianceArgs](args)
	if err != nil {
		return nil, err
	}
	return scalar(spectral.StandardDeviation(a.Variance), nil)
}

func spectralSkewness(_ *Extractor, data []float64, args Args) ([]float64, error) {
	a, err := argsAs[ShapeArgs](args)
	if err != nil {
		return nil, err
	}
	if a.StdDev == 0 {
		return scalar(0, NoResult)
	}
	return scalar(spectral.Skewness(data, a.Mean, a.StdDev), nil)
}

func spectralKurtosis(_ *Extractor, data []float64, args Args) ([]float64, error) {
	a, err := argsAs[ShapeArgs](args)
	if err != nil {
		return nil, err
	}
	if a.StdDev == 0 {
		return scalar(0, NoResult)
	}
	return scalar(spectral.Kurtosis(data, a.Mean, a.StdDev), nil)
}

func irregularityK(_ *Extractor, data []float64, _ Args) ([]float64, error) {
	return scalar(spectral.IrregularityK(data), nil)
}

func irregularityJ(_ *Extractor, data []float64, _ Args) ([]float64, error) {
	return scalar(spectral.IrregularityJ(data))
}

func tristimulus1(_ *Extractor, data []float64, args Args) ([]float64, error) {
	a, err := argsAs[FundamentalArgs](args)
	if err != nil {
		return nil, err
	}
	return scalar(harmonic.Tristimulus1(data, a.F0))
}

func tristimulus2(_ *Extractor, data []float64, args Args) ([]float64, error) {
	a, err := argsAs[FundamentalArgs](args)
	if err != nil {
		return nil, err
	}
	return scalar(harmonic.Tristimulus2(data, a.F0))
}

func tristimulus3(_ *Extractor, data []float64, args Args) ([]float64, error) {
	a, err := argsAs[FundamentalArgs](args)
	if err != nil {
		return nil, err
	}
	return scalar(harmonic.Tristimulus3(data, a.F0))
}

func smoothness(_ *Extractor, data []float64, _ Args) ([]float64, error) {
	return scalar(spectral.Smoothness(data), nil)
}

func zcr(_ *Extractor, data []float64, _ Args) ([]float64, error) {
	return scalar(temporal.ZeroCrossingRate(data), nil)
}

func rolloff(_ *Extractor, data []float64, args Args) ([]float64, error) {
	a, err := argsAs[RolloffArgs](args)
	if err != nil {
		return nil, err
	}
	return scalar(spectral.Rolloff(data, a.BinWidth, a.Percentile), nil)
}

func loudness(_ *Extractor, data []float64, _ Args) ([]float64, error) {
	return scalar(spectral.Loudness(data))
}

func sharpness(_ *Extractor, data []float64, _ Args) ([]float64, error) {
	return scalar(spectral.Sharpness(data))
}

func flatness(_ *Extractor, data []float64, _ Args) ([]float64, error) {
	return scalar(spectral.Flatness(data))
}

func flatnessDB(_ *Extractor, _ []float64, args Args) ([]float64, error) {
	a, err := argsAs[FlatnessArgs](args)
	if err != nil {
		return nil, err
	}
	return scalar(spectral.FlatnessDB(a.Flatness), nil)
}

func tonality(_ *Extractor, _ []float64, args Args) ([]float64, error) {
	a, err := argsAs[TonalityArgs](args)
	if err != nil {
		return nil, err
	}
	return scalar(spectral.Tonality(a.FlatnessDB), nil)
}

func crest(_ *Extractor, _ []float64, args Args) ([]float64, error) {
	a, err := argsAs[CrestArgs](args)
	if err != nil {
		return nil, err
	}
	return scalar(spectral.Crest(a.Max, a.Mean))
}

func noisiness(_ *Extractor, _ []float64, args Args) ([]float64, error) {
	a, err := argsAs[NoisinessArgs](args)
	if err != nil {
		return nil, err
	}
	return scalar(harmonic.Noisiness(a.Harmonics, a.Partials))
}

func rmsAmplitude(_ *Extractor, data []float64, _ Args) ([]float64, error) {
	return scalar(temporal.RMSAmplitude(data), nil)
}

func inharmonicity(_ *Extractor, data []float64, args Args) ([]float64, error) {
	a, err := argsAs[FundamentalArgs](args)
	if err != nil {
		return nil, err
	}
	return scalar(harmonic.Inharmonicity(data, a.F0))
}

func oddEvenRatio(_ *Extractor, data []float64, args Args) ([]float64, error) {
	a, err := argsAs[FundamentalArgs](args)
	if err != nil {
		return nil, err
	}
	return scalar(harmonic.OddEvenRatio(data, a.F0))
}

func spectralSlope(_ *Extractor, data []float64, _ Args) ([]float64, error) {
	return scalar(spectral.Slope(data))
}

func lowestValue(_ *Extractor, data []float64, args Args) ([]float64, error) {
	a, err := argsAs[ThresholdArgs](args)
	if err != nil {
		return nil, err
	}
	return scalar(stats.LowestAbove(data, a.Threshold))
}

func highestValue(_ *Extractor, data []float64, _ Args) ([]float64, error) {
	return scalar(stats.Highest(data))
}

func sum(_ *Extractor, data []float64, _ Args) ([]float64, error) {
	return scalar(stats.Sum(data), nil)
}

func nonzeroCount(_ *Extractor, data []float64, _ Args) ([]float64, error) {
	return scalar(float64(stats.NonzeroCount(data)), nil)
}

func hps(_ *Extractor, data []float64, _ Args) ([]float64, error) {
	return scalar(harmonic.HPS(data))
}

// sampleRate reads SampleRateArgs, accepting nil as the default rate
func sampleRate(args Args) (float64, error) {
	if args == nil {
		return common.DefaultSampleRate(0), nil
	}
	a, err := argsAs[SampleRateArgs](args)
	if err != nil {
		return 0, err
	}
	return common.DefaultSampleRate(a.SampleRate), nil
}

func f0(_ *Extractor, data []float64, args Args) ([]float64, error) {
	sr, err := sampleRate(args)
	if err != nil {
		return nil, err
	}
	return scalar(tonal.F0(data, sr))
}

// failsafeF0 never fails: when the difference search finds nothing it
// reports the lowest peak of the magnitude spectrum, or 0.
func failsafeF0(x *Extractor, data []float64, args Args) ([]float64, error) {
	sr, err := sampleRate(args)
	if err != nil {
		return nil, err
	}
	if pitch, err := tonal.F0(data, sr); err == nil {
		return scalar(pitch, nil)
	}
	return scalar(x.lowestPeak(data, sr), nil)
}

// lowestPeak returns the frequency of the lowest spectral peak reaching 10%
// of the largest. It borrows the registered spectrum plan for len(data) and
// builds a temporary one otherwise.
func (x *Extractor) lowestPeak(data []float64, sr float64) float64 {
	n := len(data)
	if n < 4 || !common.IsPowerOfTwo(n) {
		return 0
	}

	plan, ok := x.plans.Get(spectral.TransformSpectrum, n)
	if !ok {
		p, err := x.plans.Backend().NewPlan(n)
		if err != nil {
			return 0
		}
		plan = spectral.Locked(p)
	}

	binWidth := sr / float64(n)
	spec, err := spectral.Spectrum(plan, data, spectral.SpectrumOptions{
		BinWidth: binWidth,
		Type:     spectral.MagnitudeSpectrum,
		WithDC:   true,
	})
	if err != nil {
		return 0
	}

	peaks, err := harmonic.PeakSpectrum(spec[:n/2], harmonic.PeakOptions{
		BinWidth:  binWidth,
		Threshold: 10,
	})
	if err != nil {
		return 0
	}

	lowest, err := stats.LowestAbove(peaks[n/2:], 0)
	if err != nil {
		return 0
	}
	return lowest
}

func waveletF0(x *Extractor, data []float64, args Args) ([]float64, error) {
	sr, err := sampleRate(args)
	if err != nil {
		return nil, err
	}
	tracker := x.wavelet.Load()
	if tracker == nil {
		return scalar(0, BadState)
	}
	return scalar(tracker.Pitch(data, sr))
}

// midicent converts FrequencyArgs, or the first value of data when args is
// nil so an f0 result can be passed straight through
func midicent(_ *Extractor, data []float64, args Args) ([]float64, error) {
	if args == nil {
		if len(data) == 0 {
			return nil, BadVectorSize
		}
		return scalar(tonal.MIDICent(data[0]))
	}
	a, err := argsAs[FrequencyArgs](args)
	if err != nil {
		return nil, err
	}
	return scalar(tonal.MIDICent(a.Frequency))
}

func lnorm(_ *Extractor, data []float64, args Args) ([]float64, error) {
	a, err := argsAs[LNormArgs](args)
	if err != nil {
		return nil, err
	}
	return scalar(temporal.LNorm(data, a.options()), nil)
}

func flux(_ *Extractor, data []float64, args Args) ([]float64, error) {
	a, err := argsAs[LNormArgs](args)
	if err != nil {
		return nil, err
	}
	return scalar(temporal.Flux(data, a.options()), nil)
}
