package tonal

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-xtract/algorithms/common"
)

func sine(freq float64, n int) []float64 {
	data := make([]float64, n)
	for i := range data {
		data[i] = math.Sin(2 * math.Pi * freq * float64(i) / 44100)
	}
	return data
}

func TestF0OnPeriodicSine(t *testing.T) {
	// periods that divide the frame evenly
	for _, freq := range []float64{172.265625, 344.53125, 689.0625} {
		f0, err := F0(sine(freq, 1024), 44100)
		require.NoError(t, err, "%g Hz", freq)
		assert.InDelta(t, freq, f0, 1e-6)

		want, err := MIDICent(freq)
		require.NoError(t, err)
		got, err := MIDICent(f0)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func noisySine(freq, level float64, n int, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	data := sine(freq, n)
	for i := range data {
		data[i] += level * (2*rng.Float64() - 1)
	}
	return data
}

func TestF0UnderNoise(t *testing.T) {
	const freq = 344.53125
	const seeds = 50

	hits := func(level float64) int {
		count := 0
		for seed := int64(1); seed <= seeds; seed++ {
			f0, err := F0(noisySine(freq, level, 1024, seed), 44100)
			if err != nil || f0 <= 0 {
				continue
			}
			if math.Abs(1200*math.Log2(f0/freq)) < 100 {
				count++
			}
		}
		return count
	}

	quiet := hits(0.01)
	assert.Equal(t, seeds, quiet)

	loud := hits(0.4)
	assert.Less(t, loud, seeds)
	assert.LessOrEqual(t, loud, quiet)
}

func TestF0DefaultSampleRate(t *testing.T) {
	f0, err := F0(sine(344.53125, 1024), 0)
	require.NoError(t, err)
	assert.InDelta(t, 344.53125, f0, 1e-6)
}

func TestF0NoResult(t *testing.T) {
	f0, err := F0(make([]float64, 1024), 44100)
	assert.ErrorIs(t, err, common.NoResult)
	assert.Zero(t, f0)

	_, err = F0([]float64{1, 2, 3}, 44100)
	assert.ErrorIs(t, err, common.NoResult)
}

func TestMIDICent(t *testing.T) {
	tests := []struct {
		freq float64
		want float64
		err  error
	}{
		{440, 6900, nil},
		{880, 8100, nil},
		{344.53125, 6477, nil},
		{1, 0, common.ArgumentError},
		{20000, 0, common.ArgumentError},
		{0, 0, common.ArgumentError},
		{-10, 0, common.ArgumentError},
	}
	for _, tt := range tests {
		got, err := MIDICent(tt.freq)
		if tt.err != nil {
			assert.ErrorIs(t, err, tt.err, "%g Hz", tt.freq)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%g Hz", tt.freq)
	}

	// out of range values are still reported
	got, err := MIDICent(20000)
	assert.ErrorIs(t, err, common.ArgumentError)
	assert.Greater(t, got, MIDICentMax)
}

func TestWaveletTrackerSine(t *testing.T) {
	for _, freq := range []float64{220, 440, 880} {
		wt := NewWaveletTracker()
		pitch, err := wt.Pitch(sine(freq, 1024), 44100)
		require.NoError(t, err, "%g Hz", freq)
		assert.InDelta(t, freq, pitch, freq*0.01)
	}
}

func TestWaveletTrackerSilence(t *testing.T) {
	wt := NewWaveletTracker()
	pitch, err := wt.Pitch(make([]float64, 1024), 0)
	assert.ErrorIs(t, err, common.NoResult)
	assert.Zero(t, pitch)

	_, err = wt.Pitch([]float64{1}, 0)
	assert.ErrorIs(t, err, common.NoResult)
}

func TestWaveletTrackerBridgesDropouts(t *testing.T) {
	wt := NewWaveletTracker()
	voiced := sine(440, 1024)
	silence := make([]float64, 1024)

	for range 3 {
		_, err := wt.Pitch(voiced, 44100)
		require.NoError(t, err)
	}

	// a trusted pitch survives a short gap
	pitch, err := wt.Pitch(silence, 44100)
	require.NoError(t, err)
	assert.InDelta(t, 440, pitch, 5)

	// and eventually fades out
	for range 5 {
		pitch, err = wt.Pitch(silence, 44100)
	}
	assert.ErrorIs(t, err, common.NoResult)
	assert.Zero(t, pitch)

	wt.Reset()
	pitch, err = wt.Pitch(silence, 44100)
	assert.ErrorIs(t, err, common.NoResult)
	assert.Zero(t, pitch)
}

func TestWaveletTrackerFoldsOctaveErrors(t *testing.T) {
	wt := &WaveletTracker{}
	wt.Reset()

	for range 4 {
		assert.Equal(t, 440.0, wt.track(440))
	}
	// a sudden halving of a trusted pitch is read as an octave error
	assert.Equal(t, 440.0, wt.track(220))
	assert.Equal(t, 440.0, wt.track(880))

	// a wild jump keeps the previous pitch while confidence lasts
	assert.Equal(t, 440.0, wt.track(1234))
}

func TestFloorPowerOfTwo(t *testing.T) {
	assert.Equal(t, 0, floorPowerOfTwo(0))
	assert.Equal(t, 1, floorPowerOfTwo(1))
	assert.Equal(t, 512, floorPowerOfTwo(1000))
	assert.Equal(t, 1024, floorPowerOfTwo(1024))
}
