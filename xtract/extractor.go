package xtract

import (
	"fmt"
	"sync/atomic"

	"github.com/RyanBlaney/sonido-xtract/algorithms/spectral"
	"github.com/RyanBlaney/sonido-xtract/algorithms/tonal"
	"github.com/RyanBlaney/sonido-xtract/logging"
)

// featureFunc is the uniform signature every table entry satisfies
type featureFunc func(x *Extractor, data []float64, args Args) ([]float64, error)

var dispatch [FeatureCount]featureFunc

// The table is filled in init because Subbands and FromSubframes reach back
// into it through Compute.
func init() {
	dispatch = [FeatureCount]featureFunc{
		Mean:                      mean,
		Variance:                  variance,
		StandardDeviation:         standardDeviation,
		AverageDeviation:          averageDeviation,
		Skewness:                  skewness,
		Kurtosis:                  kurtosis,
		SpectralMean:              spectralCentroid,
		SpectralVariance:          spectralVariance,
		SpectralStandardDeviation: spectralStandardDeviation,
		SpectralSkewness:          spectralSkewness,
		SpectralKurtosis:          spectralKurtosis,
		SpectralCentroid:          spectralCentroid,
		IrregularityK:             irregularityK,
		IrregularityJ:             irregularityJ,
		Tristimulus1:              tristimulus1,
		Tristimulus2:              tristimulus2,
		Tristimulus3:              tristimulus3,
		Smoothness:                smoothness,
		Spread:                    spectralVariance,
		ZCR:                       zcr,
		Rolloff:                   rolloff,
		Loudness:                  loudness,
		Flatness:                  flatness,
		FlatnessDB:                flatnessDB,
		Tonality:                  tonality,
		Crest:                     crest,
		Noisiness:                 noisiness,
		RMSAmplitude:              rmsAmplitude,
		SpectralInharmonicity:     inharmonicity,
		Power:                     notImplemented,
		OddEvenRatio:              oddEvenRatio,
		Sharpness:                 sharpness,
		SpectralSlope:             spectralSlope,
		LowestValue:               lowestValue,
		HighestValue:              highestValue,
		Sum:                       sum,
		NonzeroCount:              nonzeroCount,
		HPS:                       hps,
		F0:                        f0,
		FailsafeF0:                failsafeF0,
		WaveletF0:                 waveletF0,
		MIDICent:                  midicent,
		LNorm:                     lnorm,
		Flux:                      flux,
		AttackTime:                notImplemented,
		DecayTime:                 notImplemented,
		DifferenceVector:          differenceVector,
		Autocorrelation:           autocorrelation,
		AMDF:                      amdf,
		ASDF:                      asdf,
		BarkCoefficients:          barkCoefficients,
		PeakSpectrum:              peakSpectrum,
		Spectrum:                  spectrum,
		AutocorrelationFFT:        autocorrelationFFT,
		MFCC:                      mfcc,
		DCT:                       dct,
		HarmonicSpectrum:          harmonicSpectrum,
		LPC:                       lpc,
		LPCC:                      lpcc,
		Subbands:                  subbands,
		Windowed:                  windowed,
		Smoothed:                  smoothed,
	}
}

// planTransforms maps the features that need an FFT plan to their transform
var planTransforms = map[Feature]spectral.Transform{
	Spectrum:           spectral.TransformSpectrum,
	AutocorrelationFFT: spectral.TransformAutocorrelation,
	DCT:                spectral.TransformDCT,
	MFCC:               spectral.TransformMFCC,
}

// Extractor owns the long-lived state features depend on: FFT plans and the
// wavelet pitch tracker. It is safe for concurrent use.
type Extractor struct {
	plans   *spectral.Plans
	wavelet atomic.Pointer[tonal.WaveletTracker]
}

// NewExtractor creates an extractor whose plans are built by backend. A nil
// backend selects the default.
func NewExtractor(backend spectral.Backend) *Extractor {
	return &Extractor{plans: spectral.NewPlans(backend)}
}

// Backend returns the FFT backend used for new plans
func (x *Extractor) Backend() spectral.Backend {
	return x.plans.Backend()
}

// InitFFT prepares the plan that feature f needs for frames of n values.
// f must be Spectrum, AutocorrelationFFT, DCT or MFCC; for MFCC n is the
// number of mel bands. n must be a power of two.
func (x *Extractor) InitFFT(n int, f Feature) error {
	transform, ok := planTransforms[f]
	if !ok {
		return fmt.Errorf("%s does not use an FFT plan: %w", f, ArgumentError)
	}
	return x.plans.Init(transform, n)
}

// FreeFFT drops every plan
func (x *Extractor) FreeFFT() {
	x.plans.Free()
}

// InitWaveletF0 resets the wavelet pitch tracker, creating it on first use
func (x *Extractor) InitWaveletF0() {
	x.wavelet.Store(tonal.NewWaveletTracker())
}

// Compute runs feature f over data. Unknown features report
// FeatureNotImplemented.
func (x *Extractor) Compute(f Feature, data []float64, args Args) ([]float64, error) {
	if !f.Valid() {
		return nil, FeatureNotImplemented
	}
	return dispatch[f](x, data, args)
}

// Scalar runs a scalar feature and returns its single value
func (x *Extractor) Scalar(f Feature, data []float64, args Args) (float64, error) {
	if !f.Valid() {
		return 0, FeatureNotImplemented
	}
	if descriptors[f].resultLen != nil {
		return 0, fmt.Errorf("%s is not a scalar feature: %w", f, ArgumentError)
	}
	result, err := dispatch[f](x, data, args)
	if len(result) != 1 {
		return 0, err
	}
	return result[0], err
}

// FromSubframes applies f to each half of data and concatenates the results.
// The second half is skipped when the first fails.
func (x *Extractor) FromSubframes(f Feature, data []float64, args Args) ([]float64, error) {
	n := len(data) / 2
	first, err := x.Compute(f, data[:n], args)
	if err != nil {
		return first, err
	}
	second, err := x.Compute(f, data[n:2*n], args)
	return append(first, second...), err
}

// plan looks up the plan for transform over n values
func (x *Extractor) plan(transform spectral.Transform, n int) (*spectral.LockedPlan, error) {
	plan, ok := x.plans.Get(transform, n)
	if !ok {
		logging.Error(NoResult, "FFT plan not initialised", logging.Fields{
			"component": "extractor",
			"transform": transform.String(),
			"size":      n,
		})
		return nil, NoResult
	}
	return plan, nil
}
