package temporal

import (
	"github.com/RyanBlaney/sonido-xtract/algorithms/common"
	"github.com/RyanBlaney/sonido-xtract/logging"
)

// LastN remembers the most recent values pushed into it
type LastN struct {
	buffer *common.CircularBuffer
}

// NewLastN creates a tracker holding up to capacity values
func NewLastN(capacity int) *LastN {
	return &LastN{
		buffer: common.NewCircularBuffer(capacity),
	}
}

// Next pushes value and returns the stored values oldest first. Until the
// tracker fills, the front of the result is padded with zeros. n must equal
// the capacity.
func (l *LastN) Next(value float64, n int) ([]float64, error) {
	capacity := l.buffer.Capacity()
	if n != capacity {
		logging.Error(common.BadState, "requested size does not match tracker capacity", logging.Fields{
			"component": "last_n",
			"capacity":  capacity,
			"requested": n,
		})
		return nil, common.BadState
	}

	l.buffer.Write([]float64{value})

	result := make([]float64, capacity)
	stored := l.buffer.Available()
	l.buffer.Snapshot(result[capacity-stored:])
	return result, nil
}

// Capacity returns the number of values kept
func (l *LastN) Capacity() int {
	return l.buffer.Capacity()
}

// Len returns the number of values pushed so far, up to the capacity
func (l *LastN) Len() int {
	return l.buffer.Available()
}

// Reset empties the tracker
func (l *LastN) Reset() {
	l.buffer.Clear()
}
