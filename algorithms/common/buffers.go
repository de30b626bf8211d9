package common

// CircularBuffer is a fixed-capacity ring of doubles. Once full, each write
// overwrites the oldest value.
type CircularBuffer struct {
	buffer   []float64
	size     int
	writePos int
	count    int
}

// NewCircularBuffer creates a new circular buffer
func NewCircularBuffer(size int) *CircularBuffer {
	if size < 0 {
		size = 0
	}
	return &CircularBuffer{
		buffer: make([]float64, size),
		size:   size,
	}
}

// Write appends data, overwriting the oldest values when full. It returns
// the number of values written.
func (cb *CircularBuffer) Write(data []float64) int {
	if cb.size == 0 {
		return 0
	}
	for _, sample := range data {
		cb.buffer[cb.writePos] = sample
		cb.writePos = (cb.writePos + 1) % cb.size
		if cb.count < cb.size {
			cb.count++
		}
	}
	return len(data)
}

// Snapshot copies the stored values, oldest first, into dst without
// consuming them. It returns the number of values copied.
func (cb *CircularBuffer) Snapshot(dst []float64) int {
	n := min(len(dst), cb.count)
	start := cb.writePos - cb.count
	if start < 0 {
		start += cb.size
	}
	for i := range n {
		dst[i] = cb.buffer[(start+i)%cb.size]
	}
	return n
}

// Capacity returns the maximum number of stored values
func (cb *CircularBuffer) Capacity() int {
	return cb.size
}

// Available returns the number of stored values
func (cb *CircularBuffer) Available() int {
	return cb.count
}

// Clear empties the buffer
func (cb *CircularBuffer) Clear() {
	cb.writePos = 0
	cb.count = 0
}

// SlidingWindow cuts a stream of samples into fixed-size blocks advancing by
// hopSize samples.
type SlidingWindow struct {
	buffer     []float64
	windowSize int
	hopSize    int
	writePos   int
	skip       int
}

// NewSlidingWindow creates a new sliding window
func NewSlidingWindow(windowSize, hopSize int) *SlidingWindow {
	if hopSize <= 0 {
		hopSize = windowSize
	}
	return &SlidingWindow{
		buffer:     make([]float64, windowSize),
		windowSize: windowSize,
		hopSize:    hopSize,
	}
}

// AddSamples adds samples and returns every block completed by them
func (sw *SlidingWindow) AddSamples(samples []float64) [][]float64 {
	var frames [][]float64

	for _, sample := range samples {
		if sw.skip > 0 {
			sw.skip--
			continue
		}
		sw.buffer[sw.writePos] = sample
		sw.writePos++

		if sw.writePos < sw.windowSize {
			continue
		}

		frame := make([]float64, sw.windowSize)
		copy(frame, sw.buffer)
		frames = append(frames, frame)

		if sw.hopSize < sw.windowSize {
			copy(sw.buffer, sw.buffer[sw.hopSize:])
			sw.writePos = sw.windowSize - sw.hopSize
		} else {
			sw.writePos = 0
			sw.skip = sw.hopSize - sw.windowSize
		}
	}

	return frames
}

// Reset clears the sliding window
func (sw *SlidingWindow) Reset() {
	sw.writePos = 0
	sw.skip = 0
	clear(sw.buffer)
}

// WindowSize returns the block length
func (sw *SlidingWindow) WindowSize() int {
	return sw.windowSize
}

// HopSize returns the block advance
func (sw *SlidingWindow) HopSize() int {
	return sw.hopSize
}
