package xtract

import (
	"github.com/RyanBlaney/sonido-xtract/algorithms/spectral"
	"github.com/RyanBlaney/sonido-xtract/algorithms/temporal"
	"github.com/RyanBlaney/sonido-xtract/algorithms/windowing"
)

// Args carries the parameters of one feature call. Each feature documents
// the concrete type it expects; passing anything else reports BadArgv.
type Args interface {
	isArgs()
}

// MeanArgs passes a precomputed mean (Variance, AverageDeviation) or spectral
// mean (SpectralVariance, Spread)
type MeanArgs struct {
	Mean float64 `json:"mean" yaml:"mean"`
}

// VarianceArgs passes a precomputed variance to the standard deviations
type VarianceArgs struct {
	Variance float64 `json:"variance" yaml:"variance"`
}

// ShapeArgs passes the mean and standard deviation to the skewness and
// kurtosis features
type ShapeArgs struct {
	Mean   float64 `json:"mean" yaml:"mean"`
	StdDev float64 `json:"std_dev" yaml:"std_dev"`
}

// FundamentalArgs passes the fundamental frequency in Hz
type FundamentalArgs struct {
	F0 float64 `json:"f0" yaml:"f0"`
}

// RolloffArgs configures Rolloff
type RolloffArgs struct {
	BinWidth   float64 `json:"bin_width" yaml:"bin_width"`
	Percentile float64 `json:"percentile" yaml:"percentile"`
}

// FlatnessArgs passes a precomputed flatness to FlatnessDB
type FlatnessArgs struct {
	Flatness float64 `json:"flatness" yaml:"flatness"`
}

// TonalityArgs passes a precomputed flatness in dB to Tonality
type TonalityArgs struct {
	FlatnessDB float64 `json:"flatness_db" yaml:"flatness_db"`
}

// CrestArgs passes the precomputed maximum and mean to Crest
type CrestArgs struct {
	Max  float64 `json:"max" yaml:"max"`
	Mean float64 `json:"mean" yaml:"mean"`
}

// NoisinessArgs passes the number of harmonic and total partials
type NoisinessArgs struct {
	Harmonics float64 `json:"harmonics" yaml:"harmonics"`
	Partials  float64 `json:"partials" yaml:"partials"`
}

// ThresholdArgs passes the lower bound used by LowestValue
type ThresholdArgs struct {
	Threshold float64 `json:"threshold" yaml:"threshold"`
}

// SampleRateArgs passes the sample rate of a time-domain frame; 0 means
// 44100
type SampleRateArgs struct {
	SampleRate float64 `json:"sample_rate" yaml:"sample_rate"`
}

// FrequencyArgs passes the frequency converted by MIDICent
type FrequencyArgs struct {
	Frequency float64 `json:"frequency" yaml:"frequency"`
}

// LNormArgs configures LNorm and Flux
type LNormArgs struct {
	Order     float64              `json:"order" yaml:"order"`
	Filter    temporal.LNormFilter `json:"filter" yaml:"filter"`
	Normalise bool                 `json:"normalise" yaml:"normalise"`
}

func (a LNormArgs) options() temporal.LNormOptions {
	return temporal.LNormOptions{Order: a.Order, Filter: a.Filter, Normalise: a.Normalise}
}

// BarkArgs passes the band limits built by spectral.NewBarkLimits
type BarkArgs struct {
	Limits *spectral.BarkLimits
}

// PeakSpectrumArgs configures PeakSpectrum. Threshold is a percentage of the
// largest magnitude.
type PeakSpectrumArgs struct {
	BinWidth  float64 `json:"bin_width" yaml:"bin_width"`
	Threshold float64 `json:"threshold" yaml:"threshold"`
}

// SpectrumArgs configures Spectrum
type SpectrumArgs struct {
	BinWidth  float64               `json:"bin_width" yaml:"bin_width"`
	Type      spectral.SpectrumType `json:"type" yaml:"type"`
	WithDC    bool                  `json:"with_dc" yaml:"with_dc"`
	Normalise bool                  `json:"normalise" yaml:"normalise"`
}

func (a SpectrumArgs) options() spectral.SpectrumOptions {
	return spectral.SpectrumOptions{
		BinWidth:  a.BinWidth,
		Type:      a.Type,
		WithDC:    a.WithDC,
		Normalise: a.Normalise,
	}
}

// MFCCArgs passes the filter bank built by spectral.NewMelFilterBank
type MFCCArgs struct {
	Filters *spectral.MelFilterBank
}

// HarmonicSpectrumArgs configures HarmonicSpectrum. Threshold is the allowed
// distance from the nearest harmonic number.
type HarmonicSpectrumArgs struct {
	F0        float64 `json:"f0" yaml:"f0"`
	Threshold float64 `json:"threshold" yaml:"threshold"`
}

// LPCCArgs sets the number of cepstral coefficients
type LPCCArgs struct {
	Order int `json:"order" yaml:"order"`
}

// SubbandScale selects how Subbands grows band widths
type SubbandScale int

const (
	OctaveSubbands SubbandScale = iota
	LinearSubbands
)

func (s SubbandScale) String() string {
	if s == LinearSubbands {
		return "linear"
	}
	return "octave"
}

// SubbandArgs configures Subbands. Feature is applied with nil args to each
// of Bands bands starting at bin Start.
type SubbandArgs struct {
	Feature Feature      `json:"feature" yaml:"feature"`
	Bands   int          `json:"bands" yaml:"bands"`
	Scale   SubbandScale `json:"scale" yaml:"scale"`
	Start   int          `json:"start" yaml:"start"`
}

// WindowedArgs passes the window applied by Windowed
type WindowedArgs struct {
	Window *windowing.Window
}

// SmoothedArgs sets the smoothing gain in (0, 1]
type SmoothedArgs struct {
	Gain float64 `json:"gain" yaml:"gain"`
}

func (MeanArgs) isArgs()             {}
func (VarianceArgs) isArgs()         {}
func (ShapeArgs) isArgs()            {}
func (FundamentalArgs) isArgs()      {}
func (RolloffArgs) isArgs()          {}
func (FlatnessArgs) isArgs()         {}
func (TonalityArgs) isArgs()         {}
func (CrestArgs) isArgs()            {}
func (NoisinessArgs) isArgs()        {}
func (ThresholdArgs) isArgs()        {}
func (SampleRateArgs) isArgs()       {}
func (FrequencyArgs) isArgs()        {}
func (LNormArgs) isArgs()            {}
func (BarkArgs) isArgs()             {}
func (PeakSpectrumArgs) isArgs()     {}
func (SpectrumArgs) isArgs()         {}
func (MFCCArgs) isArgs()             {}
func (HarmonicSpectrumArgs) isArgs() {}
func (LPCCArgs) isArgs()             {}
func (SubbandArgs) isArgs()          {}
func (WindowedArgs) isArgs()         {}
func (SmoothedArgs) isArgs()         {}

// argsAs extracts the concrete argument type a feature expects
func argsAs[T Args](args Args) (T, error) {
	a, ok := args.(T)
	if !ok {
		var zero T
		return zero, BadArgv
	}
	return a, nil
}
