package temporal

import (
	"fmt"
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/sonido-xtract/algorithms/common"
)

// LNormFilter restricts which values contribute to an L-norm
type LNormFilter int

const (
	NoFilter LNormFilter = iota
	PositiveSlope
	NegativeSlope
)

func (f LNormFilter) String() string {
	switch f {
	case NoFilter:
		return "none"
	case PositiveSlope:
		return "positive_slope"
	case NegativeSlope:
		return "negative_slope"
	default:
		return fmt.Sprintf("filter(%d)", int(f))
	}
}

// ParseLNormFilter resolves a filter name
func ParseLNormFilter(name string) (LNormFilter, error) {
	for f := NoFilter; f <= NegativeSlope; f++ {
		if f.String() == name {
			return f, nil
		}
	}
	if name == "" {
		return NoFilter, nil
	}
	return NoFilter, fmt.Errorf("unknown l-norm filter %q", name)
}

// LNormOptions configures LNorm and Flux
type LNormOptions struct {
	Order     float64     `json:"order" yaml:"order" mapstructure:"order"`
	Filter    LNormFilter `json:"filter" yaml:"filter" mapstructure:"filter"`
	Normalise bool        `json:"normalise" yaml:"normalise" mapstructure:"normalise"`
}

// LNorm returns (sum |x|^order)^(1/order) over the values admitted by the
// filter. Orders at or below zero are treated as 1. With Normalise the values
// are first divided by the largest magnitude.
func LNorm(data []float64, opts LNormOptions) float64 {
	order := opts.Order
	if order <= 0 {
		order = 1
	}

	scale := 1.0
	if opts.Normalise {
		if peak := vecmath.MaxAbs(data); peak > 0 {
			scale = 1 / peak
		}
	}

	sum := 0.0
	for _, v := range data {
		switch opts.Filter {
		case PositiveSlope:
			if v <= 0 {
				continue
			}
		case NegativeSlope:
			if v >= 0 {
				continue
			}
		}
		sum += math.Pow(math.Abs(v*scale), order)
	}
	return math.Pow(sum, 1/order)
}

// Flux is the L-norm of a difference vector
func Flux(diff []float64, opts LNormOptions) float64 {
	return LNorm(diff, opts)
}

// Peak reports the last value of data when it exceeds the mean of the
// preceding values by more than threshold. Otherwise it returns 0 with
// NoResult.
func Peak(data []float64, threshold float64) (float64, error) {
	n := len(data)
	if n < 2 {
		return 0, common.NoResult
	}

	current := data[n-1]
	average := floats.Sum(data[:n-1]) / float64(n-1)
	if current-average > threshold {
		return current, nil
	}
	return 0, common.NoResult
}

// OnsetDetector tracks the flux between successive frames and flags frames
// whose flux stands out from the recent history
type OnsetDetector struct {
	opts      LNormOptions
	threshold float64

	previous []float64
	history  *LastN
}

// NewOnsetDetector creates a detector keeping history flux values. Flux is
// computed with positive slope filtering when opts leaves the filter unset.
func NewOnsetDetector(history int, threshold float64, opts LNormOptions) (*OnsetDetector, error) {
	if history < 2 {
		return nil, fmt.Errorf("onset history %d: %w", history, common.ArgumentError)
	}
	if opts.Filter == NoFilter {
		opts.Filter = PositiveSlope
	}
	return &OnsetDetector{
		opts:      opts,
		threshold: threshold,
		history:   NewLastN(history),
	}, nil
}

// Process feeds the next frame. It returns the flux of the frame against the
// previous one and whether that flux is an onset. The first frame is compared
// against silence.
func (od *OnsetDetector) Process(frame []float64) (flux float64, onset bool, err error) {
	if od.previous == nil || len(od.previous) != len(frame) {
		od.previous = make([]float64, len(frame))
	}

	pair := make([]float64, 2*len(frame))
	copy(pair, frame)
	copy(pair[len(frame):], od.previous)
	copy(od.previous, frame)

	diff, err := DifferenceVector(pair)
	if err != nil {
		return 0, false, err
	}
	flux = Flux(diff, od.opts)

	onset, err = od.ProcessFlux(flux)
	return flux, onset, err
}

// ProcessFlux feeds a flux value computed elsewhere and reports whether it
// is an onset
func (od *OnsetDetector) ProcessFlux(flux float64) (bool, error) {
	recent, err := od.history.Next(flux, od.history.Capacity())
	if err != nil {
		return false, err
	}
	_, err = Peak(recent, od.threshold)
	return err == nil, nil
}

// Options returns the L-norm options used for flux
func (od *OnsetDetector) Options() LNormOptions {
	return od.opts
}

// Reset forgets the previous frame and the flux history
func (od *OnsetDetector) Reset() {
	od.previous = nil
	od.history.Reset()
}
