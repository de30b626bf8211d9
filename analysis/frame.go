package analysis

import (
	"errors"
	"fmt"

	"github.com/RyanBlaney/sonido-xtract/algorithms/stats"
	"github.com/RyanBlaney/sonido-xtract/xtract"
)

// ErrUnsupportedFeature is returned for features that need arguments the
// frame pipeline cannot derive
var ErrUnsupportedFeature = errors.New("feature not supported per frame")

// resolver computes one feature of a frame from the frame's earlier results
type resolver func(fr *frame) ([]float64, error)

// result is a memoised feature outcome
type result struct {
	values []float64
	err    error
}

// frame evaluates the feature cascade of one block. Every feature is
// computed at most once and dependents read the cached values.
type frame struct {
	a     *Analyzer
	block []float64
	cache map[xtract.Feature]result
}

func newFrame(a *Analyzer, block []float64) *frame {
	return &frame{
		a:     a,
		block: block,
		cache: make(map[xtract.Feature]result),
	}
}

func (fr *frame) get(f xtract.Feature) ([]float64, error) {
	if r, ok := fr.cache[f]; ok {
		return r.values, r.err
	}
	resolve, ok := resolvers[f]
	if !ok {
		return nil, fmt.Errorf("%s: %w", f, ErrUnsupportedFeature)
	}
	values, err := resolve(fr)
	fr.cache[f] = result{values: values, err: err}
	return values, err
}

// scalar reads a scalar dependency. NoResult and DenormalFound still carry a
// defined value, so dependents continue with it.
func (fr *frame) scalar(f xtract.Feature) (float64, error) {
	values, err := fr.get(f)
	if len(values) == 0 {
		if err == nil {
			err = xtract.NoResult
		}
		return 0, err
	}
	if err != nil && !usable(err) {
		return values[0], err
	}
	return values[0], nil
}

// vector reads a vector dependency
func (fr *frame) vector(f xtract.Feature) ([]float64, error) {
	values, err := fr.get(f)
	if err != nil && !(usable(err) && len(values) > 0) {
		return nil, err
	}
	return values, nil
}

func usable(err error) bool {
	switch xtract.StatusOf(err) {
	case xtract.NoResult, xtract.DenormalFound:
		return true
	}
	return false
}

// amps is the magnitude half of the block spectrum
func (fr *frame) amps() ([]float64, error) {
	spec, err := fr.vector(xtract.Spectrum)
	if err != nil {
		return nil, err
	}
	return spec[:len(spec)/2], nil
}

// f0 prefers the wavelet tracker and falls back to the failsafe estimate
func (fr *frame) f0() (float64, error) {
	if pitch, err := fr.scalar(xtract.WaveletF0); err == nil && pitch > 0 {
		return pitch, nil
	}
	return fr.scalar(xtract.FailsafeF0)
}

func (fr *frame) compute(f xtract.Feature, data []float64, args xtract.Args) ([]float64, error) {
	return fr.a.extractor.Compute(f, data, args)
}

// onBlock runs f over the time-domain block
func onBlock(f xtract.Feature) resolver {
	return func(fr *frame) ([]float64, error) {
		return fr.compute(f, fr.block, nil)
	}
}

// onBlockRate runs f over the block with the configured sample rate
func onBlockRate(f xtract.Feature) resolver {
	return func(fr *frame) ([]float64, error) {
		return fr.compute(f, fr.block, xtract.SampleRateArgs{SampleRate: fr.a.sampleRate()})
	}
}

// onSpectrum runs f over the paired block spectrum
func onSpectrum(f xtract.Feature) resolver {
	return func(fr *frame) ([]float64, error) {
		spec, err := fr.vector(xtract.Spectrum)
		if err != nil {
			return nil, err
		}
		return fr.compute(f, spec, nil)
	}
}

// onAmps runs f over the magnitude half of the block spectrum
func onAmps(f xtract.Feature) resolver {
	return func(fr *frame) ([]float64, error) {
		amps, err := fr.amps()
		if err != nil {
			return nil, err
		}
		return fr.compute(f, amps, nil)
	}
}

// onBark runs f over the Bark coefficients
func onBark(f xtract.Feature) resolver {
	return func(fr *frame) ([]float64, error) {
		bark, err := fr.vector(xtract.BarkCoefficients)
		if err != nil {
			return nil, err
		}
		return fr.compute(f, bark, nil)
	}
}

// withF0 runs f over the output of source with FundamentalArgs
func withF0(f, source xtract.Feature) resolver {
	return func(fr *frame) ([]float64, error) {
		data, err := fr.vector(source)
		if err != nil {
			return nil, err
		}
		pitch, err := fr.f0()
		if err != nil {
			return nil, err
		}
		return fr.compute(f, data, xtract.FundamentalArgs{F0: pitch})
	}
}

var resolvers map[xtract.Feature]resolver

func init() {
	resolvers = map[xtract.Feature]resolver{
		xtract.Mean: onBlock(xtract.Mean),

		xtract.Variance: func(fr *frame) ([]float64, error) {
			m, err := fr.scalar(xtract.Mean)
			if err != nil {
				return nil, err
			}
			return fr.compute(xtract.Variance, fr.block, xtract.MeanArgs{Mean: m})
		},
		xtract.StandardDeviation: func(fr *frame) ([]float64, error) {
			v, err := fr.scalar(xtract.Variance)
			if err != nil {
				return nil, err
			}
			return fr.compute(xtract.StandardDeviation, fr.block, xtract.VarianceArgs{Variance: v})
		},
		xtract.AverageDeviation: func(fr *frame) ([]float64, error) {
			m, err := fr.scalar(xtract.Mean)
			if err != nil {
				return nil, err
			}
			return fr.compute(xtract.AverageDeviation, fr.block, xtract.MeanArgs{Mean: m})
		},
		xtract.Skewness: shape(xtract.Skewness, fr0(xtract.Mean), fr0(xtract.StandardDeviation), blockData),
		xtract.Kurtosis: shape(xtract.Kurtosis, fr0(xtract.Mean), fr0(xtract.StandardDeviation), blockData),

		xtract.SpectralMean:     onSpectrum(xtract.SpectralMean),
		xtract.SpectralCentroid: onSpectrum(xtract.SpectralCentroid),
		xtract.SpectralVariance: spectralSpread(xtract.SpectralVariance),
		xtract.Spread:           spectralSpread(xtract.Spread),
		xtract.SpectralStandardDeviation: func(fr *frame) ([]float64, error) {
			v, err := fr.scalar(xtract.SpectralVariance)
			if err != nil {
				return nil, err
			}
			return fr.compute(xtract.SpectralStandardDeviation, nil, xtract.VarianceArgs{Variance: v})
		},
		xtract.SpectralSkewness: shape(xtract.SpectralSkewness,
			fr0(xtract.SpectralCentroid), fr0(xtract.SpectralStandardDeviation), spectrumData),
		xtract.SpectralKurtosis: shape(xtract.SpectralKurtosis,
			fr0(xtract.SpectralCentroid), fr0(xtract.SpectralStandardDeviation), spectrumData),
		xtract.SpectralSlope: onSpectrum(xtract.SpectralSlope),
		xtract.HPS:           onSpectrum(xtract.HPS),

		xtract.IrregularityK: onAmps(xtract.IrregularityK),
		xtract.IrregularityJ: onAmps(xtract.IrregularityJ),
		xtract.Smoothness:    onAmps(xtract.Smoothness),
		xtract.Flatness:      onAmps(xtract.Flatness),
		xtract.FlatnessDB: func(fr *frame) ([]float64, error) {
			flat, err := fr.scalar(xtract.Flatness)
			if err != nil {
				return nil, err
			}
			return fr.compute(xtract.FlatnessDB, nil, xtract.FlatnessArgs{Flatness: flat})
		},
		xtract.Tonality: func(fr *frame) ([]float64, error) {
			db, err := fr.scalar(xtract.FlatnessDB)
			if err != nil {
				return nil, err
			}
			return fr.compute(xtract.Tonality, nil, xtract.TonalityArgs{FlatnessDB: db})
		},
		xtract.Crest: func(fr *frame) ([]float64, error) {
			amps, err := fr.amps()
			if err != nil {
				return nil, err
			}
			peak, err := stats.Highest(amps)
			if err != nil {
				return nil, err
			}
			m, err := stats.Mean(amps)
			if err != nil {
				return nil, err
			}
			return fr.compute(xtract.Crest, nil, xtract.CrestArgs{Max: peak, Mean: m})
		},
		xtract.Rolloff: func(fr *frame) ([]float64, error) {
			amps, err := fr.amps()
			if err != nil {
				return nil, err
			}
			return fr.compute(xtract.Rolloff, amps, xtract.RolloffArgs{
				BinWidth:   fr.a.binWidth(),
				Percentile: fr.a.cfg.RolloffPercentile,
			})
		},
		xtract.LowestValue: func(fr *frame) ([]float64, error) {
			amps, err := fr.amps()
			if err != nil {
				return nil, err
			}
			return fr.compute(xtract.LowestValue, amps, xtract.ThresholdArgs{})
		},

		xtract.BarkCoefficients: func(fr *frame) ([]float64, error) {
			amps, err := fr.amps()
			if err != nil {
				return nil, err
			}
			return fr.compute(xtract.BarkCoefficients, amps, xtract.BarkArgs{Limits: &fr.a.bark})
		},
		xtract.Loudness:  onBark(xtract.Loudness),
		xtract.Sharpness: onBark(xtract.Sharpness),

		xtract.MFCC: func(fr *frame) ([]float64, error) {
			amps, err := fr.amps()
			if err != nil {
				return nil, err
			}
			return fr.compute(xtract.MFCC, amps, xtract.MFCCArgs{Filters: fr.a.mel})
		},

		xtract.PeakSpectrum: func(fr *frame) ([]float64, error) {
			amps, err := fr.amps()
			if err != nil {
				return nil, err
			}
			return fr.compute(xtract.PeakSpectrum, amps, xtract.PeakSpectrumArgs{
				BinWidth:  fr.a.binWidth(),
				Threshold: fr.a.cfg.PeakThreshold,
			})
		},
		xtract.HarmonicSpectrum: func(fr *frame) ([]float64, error) {
			peaks, err := fr.vector(xtract.PeakSpectrum)
			if err != nil {
				return nil, err
			}
			pitch, err := fr.f0()
			if err != nil {
				return nil, err
			}
			return fr.compute(xtract.HarmonicSpectrum, peaks, xtract.HarmonicSpectrumArgs{
				F0:        pitch,
				Threshold: fr.a.cfg.HarmonicThreshold,
			})
		},
		xtract.Tristimulus1:          withF0(xtract.Tristimulus1, xtract.HarmonicSpectrum),
		xtract.Tristimulus2:          withF0(xtract.Tristimulus2, xtract.HarmonicSpectrum),
		xtract.Tristimulus3:          withF0(xtract.Tristimulus3, xtract.HarmonicSpectrum),
		xtract.OddEvenRatio:          withF0(xtract.OddEvenRatio, xtract.HarmonicSpectrum),
		xtract.SpectralInharmonicity: withF0(xtract.SpectralInharmonicity, xtract.PeakSpectrum),
		xtract.Noisiness: func(fr *frame) ([]float64, error) {
			harmonics, err := fr.vector(xtract.HarmonicSpectrum)
			if err != nil {
				return nil, err
			}
			peaks, err := fr.vector(xtract.PeakSpectrum)
			if err != nil {
				return nil, err
			}
			return fr.compute(xtract.Noisiness, nil, xtract.NoisinessArgs{
				Harmonics: float64(stats.NonzeroCount(harmonics[:len(harmonics)/2])),
				Partials:  float64(stats.NonzeroCount(peaks[:len(peaks)/2])),
			})
		},

		xtract.ZCR:                onBlock(xtract.ZCR),
		xtract.RMSAmplitude:       onBlock(xtract.RMSAmplitude),
		xtract.HighestValue:       onBlock(xtract.HighestValue),
		xtract.Sum:                onBlock(xtract.Sum),
		xtract.NonzeroCount:       onBlock(xtract.NonzeroCount),
		xtract.Autocorrelation:    onBlock(xtract.Autocorrelation),
		xtract.AutocorrelationFFT: onBlock(xtract.AutocorrelationFFT),
		xtract.AMDF:               onBlock(xtract.AMDF),
		xtract.ASDF:               onBlock(xtract.ASDF),
		xtract.DCT:                onBlock(xtract.DCT),
		xtract.Power:              onBlock(xtract.Power),
		xtract.AttackTime:         onBlock(xtract.AttackTime),
		xtract.DecayTime:          onBlock(xtract.DecayTime),

		xtract.F0:         onBlockRate(xtract.F0),
		xtract.FailsafeF0: onBlockRate(xtract.FailsafeF0),
		xtract.WaveletF0:  onBlockRate(xtract.WaveletF0),
		xtract.MIDICent: func(fr *frame) ([]float64, error) {
			pitch, err := fr.scalar(xtract.WaveletF0)
			if err != nil {
				return nil, err
			}
			return fr.compute(xtract.MIDICent, nil, xtract.FrequencyArgs{Frequency: pitch})
		},

		xtract.LNorm: func(fr *frame) ([]float64, error) {
			amps, err := fr.amps()
			if err != nil {
				return nil, err
			}
			opts := fr.a.onset.Options()
			return fr.compute(xtract.LNorm, amps, xtract.LNormArgs{
				Order:     opts.Order,
				Normalise: opts.Normalise,
			})
		},

		xtract.Spectrum: func(fr *frame) ([]float64, error) {
			windowed, err := fr.vector(xtract.Windowed)
			if err != nil {
				return nil, err
			}
			return fr.compute(xtract.Spectrum, windowed, fr.a.spectrumArgs())
		},
		xtract.Windowed: func(fr *frame) ([]float64, error) {
			return fr.compute(xtract.Windowed, fr.block, xtract.WindowedArgs{Window: fr.a.window})
		},
		xtract.Smoothed: func(fr *frame) ([]float64, error) {
			amps, err := fr.amps()
			if err != nil {
				return nil, err
			}
			return fr.compute(xtract.Smoothed, amps, xtract.SmoothedArgs{Gain: fr.a.cfg.Onset.Smoothing})
		},

		xtract.LPC: func(fr *frame) ([]float64, error) {
			ac, err := fr.vector(xtract.Autocorrelation)
			if err != nil {
				return nil, err
			}
			order := fr.a.lpc.Order()
			if order >= len(ac) {
				return nil, xtract.BadVectorSize
			}
			return fr.compute(xtract.LPC, ac[:order+1], nil)
		},
		xtract.LPCC: func(fr *frame) ([]float64, error) {
			coeffs, err := fr.vector(xtract.LPC)
			if err != nil {
				return nil, err
			}
			order := len(coeffs) / 2
			poly := make([]float64, order+1)
			poly[0] = 1
			copy(poly[1:], coeffs[order:])
			return fr.compute(xtract.LPCC, poly, xtract.LPCCArgs{Order: fr.a.cfg.LPC.CepstrumLength})
		},
	}
}

// supported reports whether f can be requested per frame. Flux and the
// difference vector are seeded by the onset chain.
func supported(f xtract.Feature) bool {
	if f == xtract.Flux || f == xtract.DifferenceVector {
		return true
	}
	_, ok := resolvers[f]
	return ok
}

// source picks the data a moment feature is evaluated over
type source func(fr *frame) ([]float64, error)

func blockData(fr *frame) ([]float64, error) {
	return fr.block, nil
}

func spectrumData(fr *frame) ([]float64, error) {
	return fr.vector(xtract.Spectrum)
}

// fr0 reads a scalar dependency lazily
func fr0(f xtract.Feature) func(fr *frame) (float64, error) {
	return func(fr *frame) (float64, error) {
		return fr.scalar(f)
	}
}

// shape resolves the skewness and kurtosis features from a mean and a
// standard deviation
func shape(f xtract.Feature, mean, sd func(*frame) (float64, error), data source) resolver {
	return func(fr *frame) ([]float64, error) {
		m, err := mean(fr)
		if err != nil {
			return nil, err
		}
		s, err := sd(fr)
		if err != nil {
			return nil, err
		}
		values, err := data(fr)
		if err != nil {
			return nil, err
		}
		return fr.compute(f, values, xtract.ShapeArgs{Mean: m, StdDev: s})
	}
}

func spectralSpread(f xtract.Feature) resolver {
	return func(fr *frame) ([]float64, error) {
		centroid, err := fr.scalar(xtract.SpectralCentroid)
		if err != nil {
			return nil, err
		}
		spec, err := fr.vector(xtract.Spectrum)
		if err != nil {
			return nil, err
		}
		return fr.compute(f, spec, xtract.MeanArgs{Mean: centroid})
	}
}
