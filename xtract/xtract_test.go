package xtract

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/RyanBlaney/sonido-xtract/algorithms/common"
	"github.com/RyanBlaney/sonido-xtract/algorithms/spectral"
	"github.com/RyanBlaney/sonido-xtract/algorithms/stats"
	"github.com/RyanBlaney/sonido-xtract/algorithms/windowing"
	"github.com/RyanBlaney/sonido-xtract/logging"
)

func sine(freq float64, n int) []float64 {
	data := make([]float64, n)
	for i := range data {
		data[i] = math.Sin(2 * math.Pi * freq * float64(i) / 44100)
	}
	return data
}

func cosineBin(n int, bin float64) []float64 {
	data := make([]float64, n)
	for i := range data {
		data[i] = math.Cos(2 * math.Pi * bin * float64(i) / float64(n))
	}
	return data
}

func TestFeatureNames(t *testing.T) {
	seen := make(map[string]Feature)
	for _, f := range Features() {
		name := f.String()
		require.NotEmpty(t, name, "feature %d", int(f))
		_, dup := seen[name]
		assert.False(t, dup, "duplicate name %s", name)
		seen[name] = f

		parsed, err := ParseFeature(name)
		require.NoError(t, err)
		assert.Equal(t, f, parsed)
	}
	assert.Len(t, seen, int(FeatureCount))
	assert.Equal(t, 62, int(FeatureCount))

	f, err := ParseFeature(" Spectral-Centroid ")
	require.NoError(t, err)
	assert.Equal(t, SpectralCentroid, f)

	_, err = ParseFeature("chroma")
	assert.Error(t, err)

	assert.Equal(t, "feature(-1)", Feature(-1).String())
	assert.False(t, FeatureCount.Valid())
}

func TestDescriptorResultLen(t *testing.T) {
	bank, err := spectral.NewMelFilterBank(32, 22050, spectral.EqualGain, 20, 20000, 13)
	require.NoError(t, err)

	tests := []struct {
		feature Feature
		n       int
		args    Args
		want    int
	}{
		{Mean, 8, nil, 1},
		{Kurtosis, 8, ShapeArgs{}, 1},
		{Flux, 8, LNormArgs{}, 1},
		{DifferenceVector, 8, nil, 4},
		{Autocorrelation, 8, nil, 8},
		{PeakSpectrum, 8, PeakSpectrumArgs{}, 16},
		{Spectrum, 64, SpectrumArgs{}, 64},
		{BarkCoefficients, 512, BarkArgs{}, 26},
		{MFCC, 32, MFCCArgs{Filters: bank}, 13},
		{MFCC, 32, nil, 0},
		{LPC, 8, nil, 14},
		{LPC, 0, nil, 0},
		{LPCC, 8, nil, 7},
		{LPCC, 8, LPCCArgs{Order: 12}, 12},
		{Subbands, 64, SubbandArgs{Bands: 5}, 5},
		{Windowed, 16, WindowedArgs{}, 16},
	}

	for _, tt := range tests {
		t.Run(tt.feature.String(), func(t *testing.T) {
			d, ok := Describe(tt.feature)
			require.True(t, ok)
			assert.Equal(t, tt.feature, d.Feature)
			assert.Equal(t, tt.want, d.ResultLen(tt.n, tt.args))
		})
	}

	_, ok := Describe(FeatureCount)
	assert.False(t, ok)
}

func TestDescriptorKinds(t *testing.T) {
	d, _ := Describe(Flux)
	assert.Equal(t, KindDelta, d.Kind)
	assert.Equal(t, 3, d.Argc)

	d, _ = Describe(Subbands)
	assert.Equal(t, KindVector, d.Kind)
	assert.Equal(t, ArgInt, d.ArgType)

	d, _ = Describe(Mean)
	assert.Equal(t, KindScalar, d.Kind)
	assert.Equal(t, ArgNone, d.ArgType)
	assert.Equal(t, "scalar", d.Kind.String())
}

type ExtractorSuite struct {
	suite.Suite
	x *Extractor
}

func TestExtractorSuite(t *testing.T) {
	suite.Run(t, new(ExtractorSuite))
}

func (s *ExtractorSuite) SetupSuite() {
	logging.SetGlobalLogger(&logging.NoOpLogger{})
}

func (s *ExtractorSuite) TearDownSuite() {
	logging.SetGlobalLogger(logging.NewDefaultLogger())
}

func (s *ExtractorSuite) SetupTest() {
	s.x = NewExtractor(nil)
}

func (s *ExtractorSuite) TestMomentCascade() {
	data := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	mean, err := s.x.Scalar(Mean, data, nil)
	s.Require().NoError(err)
	s.InDelta(5.0, mean, 1e-12)

	variance, err := s.x.Scalar(Variance, data, MeanArgs{Mean: mean})
	s.Require().NoError(err)
	s.InDelta(32.0/7, variance, 1e-12)

	sd, err := s.x.Scalar(StandardDeviation, data, VarianceArgs{Variance: variance})
	s.Require().NoError(err)
	s.InDelta(math.Sqrt(32.0/7), sd, 1e-12)

	want, err := stats.Skewness(data, mean, sd)
	s.Require().NoError(err)
	skew, err := s.x.Scalar(Skewness, data, ShapeArgs{Mean: mean, StdDev: sd})
	s.Require().NoError(err)
	s.InDelta(want, skew, 1e-12)
}

func (s *ExtractorSuite) TestArgumentMismatch() {
	data := []float64{1, 2, 3}

	_, err := s.x.Compute(Variance, data, nil)
	s.ErrorIs(err, BadArgv)

	_, err = s.x.Compute(Variance, data, ShapeArgs{})
	s.Equal(BadArgv, StatusOf(err))

	_, err = s.x.Compute(Windowed, data, WindowedArgs{})
	s.ErrorIs(err, BadArgv)

	_, err = s.x.Compute(MFCC, data, MFCCArgs{})
	s.ErrorIs(err, BadArgv)
}

func (s *ExtractorSuite) TestNotImplemented() {
	for _, f := range []Feature{Power, AttackTime, DecayTime, FeatureCount, Feature(-3)} {
		_, err := s.x.Compute(f, []float64{1, 2}, nil)
		s.ErrorIs(err, FeatureNotImplemented, "feature %d", int(f))
	}
}

func (s *ExtractorSuite) TestScalarRejectsVectors() {
	_, err := s.x.Scalar(Autocorrelation, []float64{1, 2}, nil)
	s.ErrorIs(err, ArgumentError)

	v, err := s.x.Scalar(Sum, []float64{1, 2}, nil)
	s.Require().NoError(err)
	s.Equal(3.0, v)
}

func (s *ExtractorSuite) TestInitFFT() {
	s.ErrorIs(s.x.InitFFT(64, Mean), ArgumentError)
	s.ErrorIs(s.x.InitFFT(48, Spectrum), spectral.ErrNotPowerOfTwo)

	data := cosineBin(64, 8)
	_, err := s.x.Compute(Spectrum, data, SpectrumArgs{})
	s.ErrorIs(err, NoResult)

	s.Require().NoError(s.x.InitFFT(64, Spectrum))
	// re-initialising replaces the plan
	s.Require().NoError(s.x.InitFFT(64, Spectrum))

	result, err := s.x.Compute(Spectrum, data, SpectrumArgs{})
	s.Require().NoError(err)
	s.Require().Len(result, 64)
	s.InDelta(0.5, result[7], 1e-9)
	s.InDelta(8*44100.0/64, result[32+7], 1e-9)

	s.x.FreeFFT()
	_, err = s.x.Compute(Spectrum, data, SpectrumArgs{})
	s.ErrorIs(err, NoResult)
}

func (s *ExtractorSuite) TestAutocorrelationFFT() {
	data := []float64{1, -2, 3, 0.5, -1, 2, 0, 1}
	s.Require().NoError(s.x.InitFFT(len(data), AutocorrelationFFT))

	got, err := s.x.Compute(AutocorrelationFFT, data, nil)
	s.Require().NoError(err)
	want, err := s.x.Compute(Autocorrelation, data, nil)
	s.Require().NoError(err)
	s.InDeltaSlice(want, got, 1e-9)
}

func (s *ExtractorSuite) TestMFCC() {
	const bands = 8
	bank, err := spectral.NewMelFilterBank(32, 22050, spectral.EqualGain, 20, 20000, bands)
	s.Require().NoError(err)

	magnitudes := make([]float64, 32)
	for i := range magnitudes {
		magnitudes[i] = 1 / float64(i+1)
	}
	args := MFCCArgs{Filters: bank}

	_, err = s.x.Compute(MFCC, magnitudes, args)
	s.ErrorIs(err, NoResult)

	s.Require().NoError(s.x.InitFFT(bands, MFCC))
	s.Require().NoError(s.x.InitFFT(bands, DCT))

	got, err := s.x.Compute(MFCC, magnitudes, args)
	s.Require().NoError(err)
	s.Len(got, bands)

	want, err := s.x.Compute(DCT, spectral.MelEnergies(magnitudes, bank), nil)
	s.Require().NoError(err)
	s.InDeltaSlice(want, got, 1e-9)
}

func (s *ExtractorSuite) TestSubbandsSumRoundTrip() {
	data := []float64{3, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5, 8, 9, 7, 9, 3}

	result, err := s.x.Compute(Subbands, data, SubbandArgs{
		Feature: Sum,
		Bands:   len(data),
		Scale:   LinearSubbands,
	})
	s.Require().NoError(err)
	s.Equal(data, result)
}

func (s *ExtractorSuite) TestOctaveSubbands() {
	data := make([]float64, 16)
	for i := range data {
		data[i] = 1
	}

	result, err := s.x.Compute(Subbands, data, SubbandArgs{
		Feature: Sum,
		Bands:   4,
		Scale:   OctaveSubbands,
		Start:   2,
	})
	s.Require().NoError(err)
	s.Equal([]float64{2, 4, 8, 0}, result)

	result, err = s.x.Compute(Subbands, data, SubbandArgs{Feature: Mean, Bands: 3, Scale: OctaveSubbands})
	s.Require().NoError(err)
	s.Equal([]float64{0, 0, 0}, result)
}

func (s *ExtractorSuite) TestSubbandsErrors() {
	data := []float64{1, 2, 3, 4, 5, 6, 7, 8}

	_, err := s.x.Compute(Subbands, data, SubbandArgs{Feature: Spectrum, Bands: 2, Scale: LinearSubbands})
	s.ErrorIs(err, BadArgv)

	_, err = s.x.Compute(Subbands, data, SubbandArgs{Feature: FeatureCount, Bands: 2})
	s.ErrorIs(err, FeatureNotImplemented)

	_, err = s.x.Compute(Subbands, data, SubbandArgs{Feature: Sum, Bands: 0})
	s.ErrorIs(err, BadArgv)

	// Variance needs a mean, so the first band fails and aborts the rest
	result, err := s.x.Compute(Subbands, data, SubbandArgs{Feature: Variance, Bands: 2, Scale: LinearSubbands})
	s.ErrorIs(err, BadArgv)
	s.Equal([]float64{0, 0}, result)
}

func (s *ExtractorSuite) TestFromSubframes() {
	result, err := s.x.FromSubframes(Sum, []float64{1, 2, 3, 4}, nil)
	s.Require().NoError(err)
	s.Equal([]float64{3, 7}, result)

	_, err = s.x.FromSubframes(Mean, []float64{1}, nil)
	s.ErrorIs(err, BadVectorSize)
}

func (s *ExtractorSuite) TestF0AndMIDICent() {
	frame := sine(344.53125, 1024)

	pitch, err := s.x.Scalar(F0, frame, SampleRateArgs{SampleRate: 44100})
	s.Require().NoError(err)
	s.InDelta(344.53125, pitch, 1e-6)

	cents, err := s.x.Scalar(MIDICent, []float64{pitch}, nil)
	s.Require().NoError(err)
	s.Equal(6477.0, cents)

	cents, err = s.x.Scalar(MIDICent, nil, FrequencyArgs{Frequency: 440})
	s.Require().NoError(err)
	s.Equal(6900.0, cents)

	_, err = s.x.Compute(F0, frame, MeanArgs{})
	s.ErrorIs(err, BadArgv)
}

func (s *ExtractorSuite) TestFailsafeF0() {
	pitch, err := s.x.Scalar(FailsafeF0, make([]float64, 1024), nil)
	s.Require().NoError(err)
	s.Equal(0.0, pitch)

	pitch, err = s.x.Scalar(FailsafeF0, sine(344.53125, 1024), nil)
	s.Require().NoError(err)
	s.InDelta(344.53125, pitch, 1e-6)
}

func (s *ExtractorSuite) TestLowestPeakFallback() {
	// bin 16 of a 256 point frame
	frame := cosineBin(256, 16)
	want := 16 * 44100.0 / 256

	s.InDelta(want, s.x.lowestPeak(frame, 44100), 1)

	s.Require().NoError(s.x.InitFFT(256, Spectrum))
	s.InDelta(want, s.x.lowestPeak(frame, 44100), 1)

	s.Equal(0.0, s.x.lowestPeak(frame[:100], 44100))
}

func (s *ExtractorSuite) TestWaveletF0() {
	frame := sine(440, 1024)

	_, err := s.x.Compute(WaveletF0, frame, nil)
	s.ErrorIs(err, BadState)

	s.x.InitWaveletF0()
	pitch, err := s.x.Scalar(WaveletF0, frame, SampleRateArgs{SampleRate: 44100})
	s.Require().NoError(err)
	s.InEpsilon(440.0, pitch, 0.01)

	s.x.InitWaveletF0()
	_, err = s.x.Compute(WaveletF0, make([]float64, 1024), nil)
	s.ErrorIs(err, NoResult)
}

func (s *ExtractorSuite) TestHelpers() {
	w, err := windowing.New(windowing.Hann, 8)
	s.Require().NoError(err)

	data := []float64{1, 1, 1, 1, 1, 1, 1, 1}
	result, err := s.x.Compute(Windowed, data, WindowedArgs{Window: w})
	s.Require().NoError(err)
	s.InDeltaSlice(w.Coefficients(), result, 1e-12)

	_, err = s.x.Compute(Windowed, data[:4], WindowedArgs{Window: w})
	s.ErrorIs(err, BadVectorSize)

	result, err = s.x.Compute(Smoothed, []float64{0, 0, 1}, SmoothedArgs{Gain: 0.5})
	s.Require().NoError(err)
	s.InDeltaSlice([]float64{0.25, 0.375, 0.6875}, result, 1e-12)
}

func (s *ExtractorSuite) TestLPCZeroEnergy() {
	result, err := s.x.Compute(LPC, []float64{0, 1, 2, 3}, nil)
	s.ErrorIs(err, NoResult)
	s.Equal(make([]float64, 6), result)

	cepstrum, err := s.x.Compute(LPCC, []float64{1, 0.5, 0.25}, LPCCArgs{Order: 4})
	s.Require().NoError(err)
	s.InDeltaSlice([]float64{0.5, 0.375, 0.125, 0.046875}, cepstrum, 1e-12)
}

func (s *ExtractorSuite) TestPeakAndHarmonicCascade() {
	amps := make([]float64, 32)
	amps[4], amps[8], amps[11] = 1, 0.8, 0.6
	q := 50.0

	peaks, err := s.x.Compute(PeakSpectrum, amps, PeakSpectrumArgs{BinWidth: q, Threshold: 10})
	s.Require().NoError(err)
	s.Require().Len(peaks, 64)
	s.InDelta(200.0, peaks[32+4], 1e-9)

	harmonics, err := s.x.Compute(HarmonicSpectrum, peaks, HarmonicSpectrumArgs{F0: 200, Threshold: 0.1})
	s.Require().NoError(err)
	s.Equal(1.0, harmonics[4])
	s.Equal(0.8, harmonics[8])
	s.Equal(0.0, harmonics[11])

	_, err = s.x.Compute(PeakSpectrum, amps, PeakSpectrumArgs{Threshold: 150})
	s.ErrorIs(err, BadArgv)
}

func (s *ExtractorSuite) TestConcurrentSpectra() {
	const n = 128
	s.Require().NoError(s.x.InitFFT(n, Spectrum))
	frame := cosineBin(n, 5)

	want, err := s.x.Compute(Spectrum, frame, SpectrumArgs{Type: spectral.PowerSpectrum})
	s.Require().NoError(err)

	var wg sync.WaitGroup
	results := make([][]float64, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = s.x.Compute(Spectrum, frame, SpectrumArgs{Type: spectral.PowerSpectrum})
		}()
	}
	wg.Wait()

	for _, got := range results {
		s.InDeltaSlice(want, got, 1e-12)
	}
}

func TestStatusReexports(t *testing.T) {
	assert.Equal(t, common.NoResult, NoResult)
	assert.Equal(t, Success, StatusOf(nil))
	assert.Equal(t, 8, int(ArgumentError))
}
