package xtract

import "github.com/RyanBlaney/sonido-xtract/algorithms/common"

// Kind groups features by the shape of their input and output
type Kind int

const (
	// KindScalar reduces a frame to one value
	KindScalar Kind = iota
	// KindVector maps a frame to another frame
	KindVector
	// KindDelta compares frames or needs history
	KindDelta
)

func (k Kind) String() string {
	switch k {
	case KindVector:
		return "vector"
	case KindDelta:
		return "delta"
	default:
		return "scalar"
	}
}

// ArgType is the element type of a feature's arguments
type ArgType int

const (
	ArgNone ArgType = iota
	ArgFloat
	ArgInt
	ArgStruct
)

func (a ArgType) String() string {
	switch a {
	case ArgFloat:
		return "float"
	case ArgInt:
		return "int"
	case ArgStruct:
		return "struct"
	default:
		return "none"
	}
}

// Descriptor is the calling contract of one feature
type Descriptor struct {
	Feature     Feature `json:"-" yaml:"-"`
	Name        string  `json:"name" yaml:"name"`
	Kind        Kind    `json:"kind" yaml:"kind"`
	Argc        int     `json:"argc" yaml:"argc"`
	ArgType     ArgType `json:"arg_type" yaml:"arg_type"`
	Description string  `json:"description" yaml:"description"`

	resultLen func(n int, args Args) int
}

// ResultLen returns the number of values the feature produces for an input
// of n values with args
func (d Descriptor) ResultLen(n int, args Args) int {
	if d.resultLen == nil {
		return 1
	}
	return max(d.resultLen(n, args), 0)
}

// Describe returns the descriptor of f. Invalid features yield a zero
// Descriptor and false.
func Describe(f Feature) (Descriptor, bool) {
	if !f.Valid() {
		return Descriptor{}, false
	}
	return descriptors[f], true
}

func sameLen(n int, _ Args) int { return n }

func scalarFeature(name string, argc int, typ ArgType, desc string) Descriptor {
	return Descriptor{Name: name, Kind: KindScalar, Argc: argc, ArgType: typ, Description: desc}
}

func vectorFeature(name string, argc int, typ ArgType, desc string, size func(int, Args) int) Descriptor {
	return Descriptor{Name: name, Kind: KindVector, Argc: argc, ArgType: typ, Description: desc, resultLen: size}
}

func deltaFeature(name string, argc int, typ ArgType, desc string, size func(int, Args) int) Descriptor {
	return Descriptor{Name: name, Kind: KindDelta, Argc: argc, ArgType: typ, Description: desc, resultLen: size}
}

var descriptors = func() [FeatureCount]Descriptor {
	d := [FeatureCount]Descriptor{
		Mean:                      scalarFeature("mean", 0, ArgNone, "arithmetic mean of the frame"),
		Variance:                  scalarFeature("variance", 1, ArgFloat, "sample variance about a given mean"),
		StandardDeviation:         scalarFeature("standard_deviation", 1, ArgFloat, "square root of a given variance"),
		AverageDeviation:          scalarFeature("average_deviation", 1, ArgFloat, "mean absolute deviation about a given mean"),
		Skewness:                  scalarFeature("skewness", 2, ArgFloat, "third standardised moment"),
		Kurtosis:                  scalarFeature("kurtosis", 2, ArgFloat, "excess fourth standardised moment"),
		SpectralMean:              scalarFeature("spectral_mean", 0, ArgNone, "amplitude weighted mean frequency"),
		SpectralVariance:          scalarFeature("spectral_variance", 1, ArgFloat, "amplitude weighted variance of frequency"),
		SpectralStandardDeviation: scalarFeature("spectral_standard_deviation", 1, ArgFloat, "square root of a spectral variance"),
		SpectralSkewness:          scalarFeature("spectral_skewness", 2, ArgFloat, "third amplitude weighted moment of frequency"),
		SpectralKurtosis:          scalarFeature("spectral_kurtosis", 2, ArgFloat, "excess fourth amplitude weighted moment of frequency"),
		SpectralCentroid:          scalarFeature("spectral_centroid", 0, ArgNone, "centre of mass of a spectrum"),
		IrregularityK:             scalarFeature("irregularity_k", 0, ArgNone, "Krimphoff spectral irregularity"),
		IrregularityJ:             scalarFeature("irregularity_j", 0, ArgNone, "Jensen spectral irregularity"),
		Tristimulus1:              scalarFeature("tristimulus_1", 1, ArgFloat, "share of the first harmonic"),
		Tristimulus2:              scalarFeature("tristimulus_2", 1, ArgFloat, "share of harmonics 2 to 4"),
		Tristimulus3:              scalarFeature("tristimulus_3", 1, ArgFloat, "share of harmonics 5 and above"),
		Smoothness:                scalarFeature("smoothness", 0, ArgNone, "McAdams spectral smoothness"),
		Spread:                    scalarFeature("spread", 1, ArgFloat, "spectral spread about a given spectral mean"),
		ZCR:                       scalarFeature("zcr", 0, ArgNone, "zero crossing rate"),
		Rolloff:                   scalarFeature("rolloff", 2, ArgFloat, "frequency below which a percentile of energy lies"),
		Loudness:                  scalarFeature("loudness", 0, ArgNone, "total specific loudness of Bark coefficients"),
		Flatness:                  scalarFeature("flatness", 0, ArgNone, "geometric over arithmetic mean"),
		FlatnessDB:                scalarFeature("flatness_db", 1, ArgFloat, "flatness in decibels"),
		Tonality:                  scalarFeature("tonality", 1, ArgFloat, "tonality coefficient from flatness in decibels"),
		Crest:                     scalarFeature("crest", 2, ArgFloat, "maximum over mean"),
		Noisiness:                 scalarFeature("noisiness", 2, ArgFloat, "share of non harmonic partials"),
		RMSAmplitude:              scalarFeature("rms_amplitude", 0, ArgNone, "root mean square amplitude"),
		SpectralInharmonicity:     scalarFeature("spectral_inharmonicity", 1, ArgFloat, "deviation of partials from harmonic positions"),
		Power:                     scalarFeature("power", 1, ArgFloat, "not implemented"),
		OddEvenRatio:              scalarFeature("odd_even_ratio", 1, ArgFloat, "energy of odd over even harmonics"),
		Sharpness:                 scalarFeature("sharpness", 0, ArgNone, "weighted loudness centroid of Bark coefficients"),
		SpectralSlope:             scalarFeature("spectral_slope", 0, ArgNone, "linear regression slope of amplitude on frequency"),
		LowestValue:               scalarFeature("lowest_value", 1, ArgFloat, "lowest value above a threshold"),
		HighestValue:              scalarFeature("highest_value", 0, ArgNone, "highest value"),
		Sum:                       scalarFeature("sum", 0, ArgNone, "sum of values"),
		NonzeroCount:              scalarFeature("nonzero_count", 0, ArgNone, "number of non-zero values"),
		HPS:                       scalarFeature("hps", 0, ArgNone, "harmonic product spectrum pitch"),
		F0:                        scalarFeature("f0", 1, ArgFloat, "fundamental frequency by clipped difference search"),
		FailsafeF0:                scalarFeature("failsafe_f0", 1, ArgFloat, "f0 falling back to the lowest spectral peak"),
		WaveletF0:                 scalarFeature("wavelet_f0", 1, ArgFloat, "fundamental frequency by wavelet tracking"),
		MIDICent:                  scalarFeature("midicent", 1, ArgFloat, "pitch in MIDI cents"),
		LNorm:                     deltaFeature("lnorm", 3, ArgFloat, "L-norm of a vector", nil),
		Flux:                      deltaFeature("flux", 3, ArgFloat, "L-norm of a difference vector", nil),
		AttackTime:                deltaFeature("attack_time", 2, ArgFloat, "not implemented", nil),
		DecayTime:                 deltaFeature("decay_time", 2, ArgFloat, "not implemented", nil),
		DifferenceVector: deltaFeature("difference_vector", 0, ArgNone, "second subframe subtracted from the first",
			func(n int, _ Args) int { return n / 2 }),
		Autocorrelation:    vectorFeature("autocorrelation", 0, ArgNone, "time domain autocorrelation", sameLen),
		AMDF:               vectorFeature("amdf", 0, ArgNone, "average magnitude difference function", sameLen),
		ASDF:               vectorFeature("asdf", 0, ArgNone, "average squared difference function", sameLen),
		BarkCoefficients: vectorFeature("bark_coefficients", 1, ArgStruct, "spectrum summed per Bark band",
			func(int, Args) int { return common.BarkBands }),
		PeakSpectrum: vectorFeature("peak_spectrum", 2, ArgFloat, "interpolated spectral peaks",
			func(n int, _ Args) int { return 2 * n }),
		Spectrum:           vectorFeature("spectrum", 4, ArgFloat, "magnitude, power or log spectrum", sameLen),
		AutocorrelationFFT: vectorFeature("autocorrelation_fft", 0, ArgNone, "autocorrelation through the FFT", sameLen),
		MFCC:               vectorFeature("mfcc", 1, ArgStruct, "Mel frequency cepstral coefficients", mfccLen),
		DCT:                vectorFeature("dct", 0, ArgNone, "discrete cosine transform", sameLen),
		HarmonicSpectrum:   vectorFeature("harmonic_spectrum", 2, ArgFloat, "peaks near harmonics of f0", sameLen),
		LPC: vectorFeature("lpc", 0, ArgNone, "reflection and predictor coefficients",
			func(n int, _ Args) int { return 2 * (n - 1) }),
		LPCC:     vectorFeature("lpcc", 1, ArgInt, "cepstral coefficients from a predictor polynomial", lpccLen),
		Subbands: vectorFeature("subbands", 4, ArgInt, "a scalar feature applied per band", subbandsLen),
		Windowed: vectorFeature("windowed", 1, ArgStruct, "frame multiplied by a window", sameLen),
		Smoothed: vectorFeature("smoothed", 1, ArgFloat, "zero phase one pole smoothing", sameLen),
	}
	for f := range d {
		d[f].Feature = Feature(f)
	}
	return d
}()

func mfccLen(_ int, args Args) int {
	a, ok := args.(MFCCArgs)
	if !ok || a.Filters == nil {
		return 0
	}
	return a.Filters.Bands()
}

func lpccLen(n int, args Args) int {
	if a, ok := args.(LPCCArgs); ok && a.Order > 0 {
		return a.Order
	}
	return n - 1
}

func subbandsLen(_ int, args Args) int {
	a, ok := args.(SubbandArgs)
	if !ok {
		return 0
	}
	return a.Bands
}
