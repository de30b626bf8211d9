package windowing

import (
	"fmt"
	"strings"

	vecmath "github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/dsp/window"

	"github.com/RyanBlaney/sonido-xtract/algorithms/common"
)

// Type identifies a window shape. Values follow the library's public
// numbering.
type Type int

const (
	Gauss Type = iota
	Hamming
	Hann
	Bartlett
	Triangular
	BartlettHann
	Blackman
	Kaiser
	BlackmanHarris
)

// GaussSigma is the standard deviation used for Gauss windows
const GaussSigma = 0.4

var typeNames = [...]string{
	Gauss:          "gauss",
	Hamming:        "hamming",
	Hann:           "hann",
	Bartlett:       "bartlett",
	Triangular:     "triangular",
	BartlettHann:   "bartlett_hann",
	Blackman:       "blackman",
	Kaiser:         "kaiser",
	BlackmanHarris: "blackman_harris",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("window(%d)", int(t))
	}
	return typeNames[t]
}

// ParseType resolves a window name such as "hann" or "blackman-harris"
func ParseType(name string) (Type, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	for _, typ := range Types() {
		if typ.String() == key {
			return typ, nil
		}
	}
	return Hann, fmt.Errorf("unknown window type %q", name)
}

// Types returns every window type in numbering order
func Types() []Type {
	types := make([]Type, len(typeNames))
	for i := range types {
		types[i] = Type(i)
	}
	return types
}

// Window holds precomputed coefficients for one shape and length
type Window struct {
	typ          Type
	coefficients []float64
}

// New builds a window of n coefficients. Unknown types fall back to Hann.
func New(typ Type, n int) (*Window, error) {
	if n <= 0 {
		return nil, fmt.Errorf("window size %d: %w", n, common.ArgumentError)
	}
	if typ < 0 || int(typ) >= len(typeNames) {
		typ = Hann
	}

	w := &Window{typ: typ}
	if n == 1 {
		w.coefficients = []float64{1}
		return w, nil
	}

	switch typ {
	case Gauss:
		w.coefficients = window.NewValues(window.Gaussian{Sigma: GaussSigma}.Transform, n)
	case Hamming:
		w.coefficients = hamming(n)
	case Hann:
		w.coefficients = window.NewValues(window.Hann, n)
	case Bartlett:
		// gonum's triangular window uses the N-1 span, which is the Bartlett shape
		w.coefficients = window.NewValues(window.Triangular, n)
	case Triangular:
		w.coefficients = triangular(n)
	case BartlettHann:
		w.coefficients = bartlettHann(n)
	case Blackman:
		w.coefficients = window.NewValues(window.Blackman, n)
	case Kaiser:
		w.coefficients = kaiser(n, KaiserAlpha)
	case BlackmanHarris:
		w.coefficients = window.NewValues(window.BlackmanHarris, n)
	}

	return w, nil
}

// Apply returns a windowed copy of signal
func (w *Window) Apply(signal []float64) ([]float64, error) {
	if len(signal) != len(w.coefficients) {
		return nil, fmt.Errorf("signal length (%d) doesn't match window size (%d): %w",
			len(signal), len(w.coefficients), common.BadVectorSize)
	}
	windowed := make([]float64, len(signal))
	vecmath.MulBlock(windowed, signal, w.coefficients)
	return windowed, nil
}

// ApplyInPlace multiplies signal by the window
func (w *Window) ApplyInPlace(signal []float64) error {
	if len(signal) != len(w.coefficients) {
		return fmt.Errorf("signal length (%d) doesn't match window size (%d): %w",
			len(signal), len(w.coefficients), common.BadVectorSize)
	}
	vecmath.MulBlockInPlace(signal, w.coefficients)
	return nil
}

// Coefficients returns the window coefficients. The slice is shared; callers
// must not modify it.
func (w *Window) Coefficients() []float64 {
	return w.coefficients
}

// Size returns the window length
func (w *Window) Size() int {
	return len(w.coefficients)
}

// Type returns the window shape
func (w *Window) Type() Type {
	return w.typ
}
