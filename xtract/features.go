package xtract

import (
	"fmt"
	"strings"
)

// Feature identifies an entry of the dispatch table. Values are dense and
// their order is part of the public contract.
type Feature int

const (
	Mean Feature = iota
	Variance
	StandardDeviation
	AverageDeviation
	Skewness
	Kurtosis
	SpectralMean
	SpectralVariance
	SpectralStandardDeviation
	SpectralSkewness
	SpectralKurtosis
	SpectralCentroid
	IrregularityK
	IrregularityJ
	Tristimulus1
	Tristimulus2
	Tristimulus3
	Smoothness
	Spread
	ZCR
	Rolloff
	Loudness
	Flatness
	FlatnessDB
	Tonality
	Crest
	Noisiness
	RMSAmplitude
	SpectralInharmonicity
	Power
	OddEvenRatio
	Sharpness
	SpectralSlope
	LowestValue
	HighestValue
	Sum
	NonzeroCount
	HPS
	F0
	FailsafeF0
	WaveletF0
	MIDICent
	LNorm
	Flux
	AttackTime
	DecayTime
	DifferenceVector
	Autocorrelation
	AMDF
	ASDF
	BarkCoefficients
	PeakSpectrum
	Spectrum
	AutocorrelationFFT
	MFCC
	DCT
	HarmonicSpectrum
	LPC
	LPCC
	Subbands
	Windowed
	Smoothed

	// FeatureCount is the number of table entries
	FeatureCount
)

// String returns the feature's snake_case name
func (f Feature) String() string {
	if !f.Valid() {
		return fmt.Sprintf("feature(%d)", int(f))
	}
	return descriptors[f].Name
}

// Valid reports whether f indexes the table
func (f Feature) Valid() bool {
	return f >= 0 && f < FeatureCount
}

// ParseFeature resolves a feature by name. Hyphens and case are ignored.
func ParseFeature(name string) (Feature, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	for f := range FeatureCount {
		if descriptors[f].Name == key {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown feature %q", name)
}

// Features returns every feature in table order
func Features() []Feature {
	all := make([]Feature, FeatureCount)
	for i := range all {
		all[i] = Feature(i)
	}
	return all
}
