package spectral

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-xtract/algorithms/common"
)

func backends() []Backend {
	return []Backend{GonumBackend{}, GoDSPBackend{}}
}

func cosine(n int, bin float64, amp float64) []float64 {
	data := make([]float64, n)
	for i := range data {
		data[i] = amp * math.Cos(2*math.Pi*bin*float64(i)/float64(n))
	}
	return data
}

func ramp(n int) []float64 {
	data := make([]float64, n)
	for i := range data {
		data[i] = float64(i%7) - 2.5 + 0.1*float64(i)
	}
	return data
}

func TestNewBackend(t *testing.T) {
	b, err := NewBackend("")
	require.NoError(t, err)
	assert.Equal(t, BackendGonum, b.Name())

	b, err = NewBackend(" Go-DSP ")
	require.NoError(t, err)
	assert.Equal(t, BackendGoDSP, b.Name())

	_, err = NewBackend("fftw")
	assert.Error(t, err)
}

func TestBackendRoundTrip(t *testing.T) {
	const n = 16
	src := ramp(n)

	for _, b := range backends() {
		t.Run(b.Name(), func(t *testing.T) {
			plan, err := b.NewPlan(n)
			require.NoError(t, err)
			require.Equal(t, n, plan.Size())

			coeffs := make([]complex128, n/2+1)
			plan.Forward(coeffs, src)

			sum := 0.0
			for _, v := range src {
				sum += v
			}
			assert.InDelta(t, sum, real(coeffs[0]), 1e-9)

			back := make([]float64, n)
			plan.Inverse(back, coeffs)
			for i := range src {
				assert.InDelta(t, float64(n)*src[i], back[i], 1e-9)
			}
		})
	}
}

func TestPlans(t *testing.T) {
	plans := NewPlans(nil)
	assert.Equal(t, BackendGonum, plans.Backend().Name())

	err := plans.Init(TransformSpectrum, 12)
	assert.ErrorIs(t, err, ErrNotPowerOfTwo)

	err = plans.Init(Transform(9), 8)
	assert.ErrorIs(t, err, common.ArgumentError)

	require.NoError(t, plans.Init(TransformSpectrum, 8))
	require.NoError(t, plans.Init(TransformAutocorrelation, 8))
	assert.Equal(t, 2, plans.Len())

	p, ok := plans.Get(TransformAutocorrelation, 8)
	require.True(t, ok)
	assert.Equal(t, 16, p.Size())

	_, ok = plans.Get(TransformDCT, 8)
	assert.False(t, ok)

	// re-initialising replaces rather than adds
	require.NoError(t, plans.Init(TransformSpectrum, 8))
	assert.Equal(t, 2, plans.Len())

	plans.Free()
	assert.Equal(t, 0, plans.Len())
	_, ok = plans.Get(TransformSpectrum, 8)
	assert.False(t, ok)
}

func TestDCTMatchesDirectSum(t *testing.T) {
	for _, b := range backends() {
		for _, n := range []int{1, 2, 8, 32} {
			plan, err := b.NewPlan(n)
			require.NoError(t, err)

			data := ramp(n)
			got, err := DCT(Locked(plan), data)
			require.NoError(t, err)
			require.Len(t, got, n)

			for k := range n {
				want := 0.0
				for i, x := range data {
					want += x * math.Cos(math.Pi/float64(n)*(float64(i)+0.5)*float64(k))
				}
				assert.InDelta(t, want, got[k], 1e-9, "%s n=%d k=%d", b.Name(), n, k)
			}
		}
	}

	plan, err := GonumBackend{}.NewPlan(8)
	require.NoError(t, err)
	_, err = DCT(Locked(plan), make([]float64, 4))
	assert.ErrorIs(t, err, common.BadVectorSize)
}

func TestSpectrumOfCosine(t *testing.T) {
	const n = 64
	data := cosine(n, 8, 1)
	q := 44100.0 / n

	for _, b := range backends() {
		plan, err := b.NewPlan(n)
		require.NoError(t, err)
		lp := Locked(plan)

		t.Run(b.Name()+"/magnitude", func(t *testing.T) {
			result, err := Spectrum(lp, data, SpectrumOptions{WithDC: true})
			require.NoError(t, err)
			require.Len(t, result, n)
			assert.InDelta(t, 0.5, result[8], 1e-9)
			assert.InDelta(t, 8*q, result[n/2+8], 1e-9)
			assert.InDelta(t, 0, result[0], 1e-9)
			assert.InDelta(t, 0, result[n/2], 1e-9)
		})

		t.Run(b.Name()+"/without dc", func(t *testing.T) {
			result, err := Spectrum(lp, data, SpectrumOptions{BinWidth: 10})
			require.NoError(t, err)
			assert.InDelta(t, 0.5, result[7], 1e-9)
			assert.InDelta(t, 80, result[n/2+7], 1e-9)
			// the last bin is Nyquist
			assert.InDelta(t, float64(n/2)*10, result[n-1], 1e-9)
		})

		t.Run(b.Name()+"/power", func(t *testing.T) {
			result, err := Spectrum(lp, data, SpectrumOptions{Type: PowerSpectrum, WithDC: true})
			require.NoError(t, err)
			assert.InDelta(t, 0.25, result[8], 1e-9)
		})

		t.Run(b.Name()+"/log magnitude", func(t *testing.T) {
			result, err := Spectrum(lp, data, SpectrumOptions{Type: LogMagnitudeSpectrum, WithDC: true})
			require.NoError(t, err)
			assert.InDelta(t, (math.Log(0.5)+96)/96, result[8], 1e-9)

			silent, err := Spectrum(lp, make([]float64, n), SpectrumOptions{Type: LogPowerSpectrum})
			require.NoError(t, err)
			for _, v := range silent[:n/2] {
				assert.Equal(t, 0.0, v)
			}
		})

		t.Run(b.Name()+"/normalise", func(t *testing.T) {
			result, err := Spectrum(lp, cosine(n, 8, 2), SpectrumOptions{WithDC: true, Normalise: true})
			require.NoError(t, err)
			assert.InDelta(t, 1, result[8], 1e-9)
			assert.InDelta(t, 8*q, result[n/2+8], 1e-9)
		})
	}

	plan, err := GonumBackend{}.NewPlan(n)
	require.NoError(t, err)
	_, err = Spectrum(Locked(plan), data[:32], SpectrumOptions{})
	assert.ErrorIs(t, err, common.BadVectorSize)
}

func TestParseSpectrumType(t *testing.T) {
	for s := MagnitudeSpectrum; s <= LogPowerSpectrum; s++ {
		got, err := ParseSpectrumType(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := ParseSpectrumType("phase")
	assert.Error(t, err)
}

func TestAutocorrelationFFTMatchesTimeDomain(t *testing.T) {
	const n = 16
	data := ramp(n)

	for _, b := range backends() {
		plan, err := b.NewPlan(2 * n)
		require.NoError(t, err)

		got, err := AutocorrelationFFT(Locked(plan), data)
		require.NoError(t, err)
		require.Len(t, got, n)

		for k := range n {
			want := 0.0
			for i := 0; i+k < n; i++ {
				want += data[i] * data[i+k]
			}
			assert.InDelta(t, want/n, got[k], 1e-9, "%s lag %d", b.Name(), k)
		}

		_, err = AutocorrelationFFT(Locked(plan), data[:4])
		assert.ErrorIs(t, err, common.BadVectorSize)
	}
}

func TestMelFilterBank(t *testing.T) {
	_, err := NewMelFilterBank(256, 22050, EqualGain, 20, 8000, 1)
	assert.ErrorIs(t, err, common.ArgumentError)

	bank, err := NewMelFilterBank(256, 22050, EqualGain, 20, 8000, 13)
	require.NoError(t, err)
	assert.Equal(t, 13, bank.Bands())
	assert.Equal(t, 256, bank.Len())

	for b := range bank.Bands() {
		f := bank.Filter(b)
		require.Len(t, f, 256)
		for _, v := range f {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0+1e-12)
		}
	}

	// wide upper bands reach full height
	last := bank.Filter(12)
	peak := 0.0
	for _, v := range last {
		peak = max(peak, v)
	}
	assert.InDelta(t, 1, peak, 1e-12)

	// nothing above the highest edge
	nyquist := 22050.0
	top := int(8000 / nyquist * 256)
	for b := range bank.Bands() {
		for i := top + 1; i < 256; i++ {
			assert.Zero(t, bank.Filter(b)[i])
		}
	}

	area, err := NewMelFilterBank(256, 22050, EqualArea, 20, 8000, 13)
	require.NoError(t, err)
	assert.Equal(t, 13, area.Bands())

	style, err := ParseMelStyle("equal_area")
	require.NoError(t, err)
	assert.Equal(t, EqualArea, style)
	_, err = ParseMelStyle("slaney")
	assert.Error(t, err)

	assert.InDelta(t, 1000, MelToHz(HzToMel(1000)), 1e-9)
}

func TestMFCC(t *testing.T) {
	bank, err := NewMelFilterBank(128, 22050, EqualGain, 0, 11025, 8)
	require.NoError(t, err)

	plan, err := GonumBackend{}.NewPlan(8)
	require.NoError(t, err)
	lp := Locked(plan)

	spectrum := make([]float64, 128)
	for i := range spectrum {
		spectrum[i] = 1 / float64(i+1)
	}

	got, err := MFCC(lp, spectrum, bank)
	require.NoError(t, err)
	want, err := DCT(lp, MelEnergies(spectrum, bank))
	require.NoError(t, err)
	assert.InDeltaSlice(t, want, got, 1e-12)

	_, err = MFCC(lp, spectrum, nil)
	assert.ErrorIs(t, err, common.BadArgv)

	wrong, err := GonumBackend{}.NewPlan(16)
	require.NoError(t, err)
	_, err = MFCC(Locked(wrong), spectrum, bank)
	assert.ErrorIs(t, err, common.BadVectorSize)

	// silent spectra hit the log floor
	energies := MelEnergies(make([]float64, 128), bank)
	for _, e := range energies {
		assert.InDelta(t, math.Log(common.LogLimit), e, 1e-9)
	}
}

func TestBark(t *testing.T) {
	limits := NewBarkLimits(1024, 44100)
	assert.Equal(t, 0, limits[0])
	assert.Equal(t, 2, limits[1])
	for b := 1; b < len(limits); b++ {
		assert.GreaterOrEqual(t, limits[b], limits[b-1])
	}

	ones := make([]float64, 1024)
	for i := range ones {
		ones[i] = 1
	}
	coeffs, err := BarkCoefficients(ones, &limits)
	require.NoError(t, err)
	require.Len(t, coeffs, common.BarkBands)
	assert.InDelta(t, 2, coeffs[0], 1e-12)

	// bands partition the whole spectrum
	total := 0.0
	for _, c := range coeffs {
		total += c
	}
	assert.InDelta(t, 1024, total, 1e-9)

	_, err = BarkCoefficients(ones, nil)
	assert.ErrorIs(t, err, common.BadArgv)
}

func TestLoudnessAndSharpness(t *testing.T) {
	bands := make([]float64, common.BarkBands)
	for i := range bands {
		bands[i] = 1
	}

	loudness, err := Loudness(bands)
	require.NoError(t, err)
	assert.InDelta(t, 26, loudness, 1e-12)

	loudness, err = Loudness(bands[:10])
	assert.ErrorIs(t, err, common.BadVectorSize)
	assert.InDelta(t, 10, loudness, 1e-12)

	sharpness, err := Sharpness(make([]float64, common.BarkBands))
	require.NoError(t, err)
	assert.Zero(t, sharpness)

	sharpness, err = Sharpness(bands)
	require.NoError(t, err)
	assert.Positive(t, sharpness)

	long := append(append([]float64{}, bands...), bands...)
	halved, err := Sharpness(long)
	assert.ErrorIs(t, err, common.BadVectorSize)
	assert.InDelta(t, sharpness/2, halved, 1e-12)

	_, err = Sharpness(nil)
	assert.ErrorIs(t, err, common.NoResult)
}

func TestSpectralMoments(t *testing.T) {
	data := []float64{0, 1, 0, 1, 100, 200, 300, 400}

	centroid, err := Centroid(data)
	require.NoError(t, err)
	assert.InDelta(t, 300, centroid, 1e-12)

	variance, err := Variance(data, centroid)
	require.NoError(t, err)
	assert.InDelta(t, 10000, variance, 1e-9)

	sd := StandardDeviation(variance)
	assert.InDelta(t, 100, sd, 1e-12)

	// symmetric about the centroid
	assert.InDelta(t, 0, Skewness(data, centroid, sd), 1e-12)
	assert.InDelta(t, 2-3.0, Kurtosis(data, centroid, sd), 1e-12)

	_, err = Centroid([]float64{0, 0, 10, 20})
	assert.ErrorIs(t, err, common.NoResult)
	_, err = Variance([]float64{0, 0, 10, 20}, 0)
	assert.ErrorIs(t, err, common.NoResult)
}

func TestSlope(t *testing.T) {
	slope, err := Slope([]float64{1, 2, 3, 1, 2, 3})
	require.NoError(t, err)
	assert.InDelta(t, 1.0/6, slope, 1e-12)

	_, err = Slope([]float64{0, 0, 1, 2})
	assert.ErrorIs(t, err, common.NoResult)
	_, err = Slope([]float64{1, 1, 5, 5})
	assert.ErrorIs(t, err, common.NoResult)
}

func TestFlatness(t *testing.T) {
	flat, err := Flatness([]float64{3, 3, 3, 3})
	require.NoError(t, err)
	assert.InDelta(t, 1, flat, 1e-12)

	flat, err = Flatness([]float64{2, 8})
	require.NoError(t, err)
	assert.InDelta(t, 0.8, flat, 1e-12)

	_, err = Flatness([]float64{0, 0})
	assert.ErrorIs(t, err, common.NoResult)

	tiny := make([]float64, 40)
	for i := range tiny {
		tiny[i] = 1e-20
	}
	_, err = Flatness(tiny)
	assert.ErrorIs(t, err, common.DenormalFound)

	assert.InDelta(t, 0, FlatnessDB(1), 1e-12)
	assert.InDelta(t, -10, FlatnessDB(0.1), 1e-12)
	assert.InDelta(t, 0.5, Tonality(-30), 1e-12)
	assert.InDelta(t, 1, Tonality(-120), 1e-12)
}

func TestRolloffAndCrest(t *testing.T) {
	assert.InDelta(t, 10, Rolloff([]float64{1, 1, 1, 1}, 10, 50), 1e-12)
	assert.InDelta(t, 30, Rolloff([]float64{1, 1, 1, 1}, 10, 100), 1e-12)
	assert.Zero(t, Rolloff(nil, 10, 50))

	crest, err := Crest(4, 2)
	require.NoError(t, err)
	assert.InDelta(t, 2, crest, 1e-12)
	_, err = Crest(1, 0)
	assert.ErrorIs(t, err, common.NoResult)
}

func TestIrregularity(t *testing.T) {
	assert.InDelta(t, 0, IrregularityK([]float64{1, 2, 3}), 1e-12)
	assert.InDelta(t, 2, IrregularityK([]float64{0, 3, 0}), 1e-12)

	j, err := IrregularityJ([]float64{1, 2})
	require.NoError(t, err)
	assert.InDelta(t, 1, j, 1e-12)
	_, err = IrregularityJ([]float64{0, 0, 0})
	assert.ErrorIs(t, err, common.NoResult)

	// a flat spectrum is perfectly smooth
	assert.InDelta(t, 0, Smoothness([]float64{0.5, 0.5, 0.5, 0.5}), 1e-12)
}
