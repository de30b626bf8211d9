package tonal

import (
	"math"
	"sync"

	"github.com/RyanBlaney/sonido-xtract/algorithms/common"
)

// Parameters of the lifting wavelet pitch search
const (
	waveletMaxLevels      = 6
	waveletMaxFrequency   = 3000.0
	waveletDifferenceN    = 3
	waveletMaximaRatio    = 0.75
	waveletAcceptedError  = 0.2
	waveletMaxConfidence  = 5
	waveletUnvoicedMarker = -1.0
)

// WaveletTracker estimates pitch with the Haar lifting wavelet method and
// smooths successive estimates: sudden jumps are rejected, octave errors are
// folded back onto a trusted previous pitch and short dropouts are bridged.
// It is safe for concurrent use, though interleaving unrelated streams
// through one tracker defeats the smoothing.
type WaveletTracker struct {
	mu         sync.Mutex
	prevPitch  float64
	confidence int
}

// NewWaveletTracker creates a tracker with no pitch history
func NewWaveletTracker() *WaveletTracker {
	wt := &WaveletTracker{}
	wt.Reset()
	return wt
}

// Reset forgets the pitch history
func (wt *WaveletTracker) Reset() {
	wt.mu.Lock()
	wt.prevPitch = waveletUnvoicedMarker
	wt.confidence = -1
	wt.mu.Unlock()
}

// Pitch returns the tracked pitch of the frame in Hz, or 0 with NoResult for
// unvoiced frames. sampleRate 0 means 44100.
func (wt *WaveletTracker) Pitch(signal []float64, sampleRate float64) (float64, error) {
	raw := waveletPitch(signal, common.DefaultSampleRate(sampleRate))

	wt.mu.Lock()
	pitch := wt.track(raw)
	wt.mu.Unlock()

	if pitch == 0 {
		return 0, common.NoResult
	}
	return pitch, nil
}

func (wt *WaveletTracker) track(pitch float64) float64 {
	if pitch == 0 {
		pitch = waveletUnvoicedMarker
	}

	estimate := waveletUnvoicedMarker

	switch {
	case pitch != waveletUnvoicedMarker && wt.prevPitch == waveletUnvoicedMarker:
		estimate = pitch
		wt.prevPitch = pitch
		wt.confidence = 1

	case pitch != waveletUnvoicedMarker && relativeError(wt.prevPitch, pitch) < waveletAcceptedError:
		wt.prevPitch = pitch
		estimate = pitch
		wt.confidence = min(waveletMaxConfidence, wt.confidence+1)

	case pitch != waveletUnvoicedMarker && wt.confidence >= waveletMaxConfidence-2 &&
		relativeError(wt.prevPitch, 2*pitch) < waveletAcceptedError:
		// half the trusted pitch
		estimate = 2 * pitch
		wt.prevPitch = estimate

	case pitch != waveletUnvoicedMarker && wt.confidence >= waveletMaxConfidence-2 &&
		relativeError(wt.prevPitch, 0.5*pitch) < waveletAcceptedError:
		// twice the trusted pitch
		estimate = 0.5 * pitch
		wt.prevPitch = estimate

	case pitch != waveletUnvoicedMarker:
		if wt.confidence >= 1 {
			estimate = wt.prevPitch
			wt.confidence = max(0, wt.confidence-1)
		} else {
			estimate = pitch
			wt.prevPitch = pitch
			wt.confidence = 1
		}

	case wt.prevPitch != waveletUnvoicedMarker:
		if wt.confidence >= 1 {
			estimate = wt.prevPitch
			wt.confidence = max(0, wt.confidence-1)
		} else {
			wt.prevPitch = waveletUnvoicedMarker
			wt.confidence = 0
		}
	}

	if wt.confidence < 1 || estimate == waveletUnvoicedMarker {
		return 0
	}
	return estimate
}

func relativeError(reference, pitch float64) float64 {
	return math.Abs(reference-pitch) / pitch
}

// floorPowerOfTwo returns the largest power of two <= n
func floorPowerOfTwo(n int) int {
	if n < 1 {
		return 0
	}
	p := 1
	for p*2 <= n {
		p *= 2
	}
	return p
}

// waveletPitch runs the untracked estimate. At each level it collects the
// extrema following zero crossings, takes the mode of the distances between
// nearby extrema, and stops when two successive levels agree. Returns 0 when
// no pitch is found.
func waveletPitch(signal []float64, sampleRate float64) float64 {
	count := floorPowerOfTwo(len(signal))
	if count < 2 {
		return 0
	}

	sam := make([]float64, count)
	copy(sam, signal[:count])

	dc, maxValue, minValue := 0.0, 0.0, 0.0
	for _, v := range sam {
		dc += v
		maxValue = max(maxValue, v)
		minValue = min(minValue, v)
	}
	dc /= float64(count)
	amplitudeMax := max(maxValue-dc, -(minValue - dc))
	threshold := amplitudeMax * waveletMaximaRatio

	distances := make([]int, count)
	mins := make([]int, 0, count)
	maxs := make([]int, 0, count)

	curCount := count
	modeDistance := -1.0

	for level := 0; level < waveletMaxLevels; level++ {
		delta := int(sampleRate / (math.Exp2(float64(level)) * waveletMaxFrequency))
		if curCount < 2 {
			return 0
		}

		mins, maxs = mins[:0], maxs[:0]
		lastMin, lastMax := math.MinInt32, math.MinInt32
		findMin, findMax := false, false
		prevDV, havePrev := 0.0, false

		for i := 2; i < curCount; i++ {
			si := sam[i] - dc
			si1 := sam[i-1] - dc

			if si1 <= 0 && si > 0 {
				findMax = true
			}
			if si1 >= 0 && si < 0 {
				findMin = true
			}

			dv := si - si1
			if havePrev {
				if findMin && prevDV < 0 && dv >= 0 && math.Abs(si) >= threshold && i > lastMin+delta {
					mins = append(mins, i)
					lastMin = i
					findMin = false
				}
				if findMax && prevDV > 0 && dv <= 0 && math.Abs(si) >= threshold && i > lastMax+delta {
					maxs = append(maxs, i)
					lastMax = i
					findMax = false
				}
			}
			prevDV, havePrev = dv, true
		}

		if len(mins) == 0 && len(maxs) == 0 {
			return 0
		}

		clear(distances)
		for _, extrema := range [][]int{mins, maxs} {
			for i := range extrema {
				for j := 1; j < waveletDifferenceN && i+j < len(extrema); j++ {
					d := extrema[i+j] - extrema[i]
					if d < 0 {
						d = -d
					}
					distances[d]++
				}
			}
		}

		bestDistance, bestValue := -1, -1
		for i := range curCount {
			summed := 0
			for j := -delta; j <= delta; j++ {
				if i+j >= 0 && i+j < curCount {
					summed += distances[i+j]
				}
			}
			if summed == bestValue {
				if i == 2*bestDistance {
					bestDistance = i
				}
			} else if summed > bestValue {
				bestValue = summed
				bestDistance = i
			}
		}

		distSum, distCount := 0.0, 0.0
		for j := -delta; j <= delta; j++ {
			k := bestDistance + j
			if k >= 0 && k < count && distances[k] > 0 {
				distCount += float64(distances[k])
				distSum += float64(k * distances[k])
			}
		}

		if distCount == 0 {
			modeDistance = -1
		} else {
			avg := distSum / distCount
			if modeDistance > -1 && math.Abs(avg*2-modeDistance) <= float64(2*delta) {
				return sampleRate / (math.Exp2(float64(level-1)) * modeDistance)
			}
			modeDistance = avg
		}

		// Haar approximation halves the rate for the next level
		for i := 0; i < curCount/2; i++ {
			sam[i] = (sam[2*i] + sam[2*i+1]) / 2
		}
		curCount /= 2
	}

	return 0
}
