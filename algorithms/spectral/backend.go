package spectral

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotPowerOfTwo is returned when a transform size is not a power of two
var ErrNotPowerOfTwo = errors.New("only power-of-two FFT sizes are supported")

// Plan is a prepared real FFT of a fixed size. Plans are not safe for
// concurrent use; wrap them with Locked when sharing.
type Plan interface {
	// Size returns the transform length
	Size() int

	// Forward writes the Size()/2+1 non-redundant coefficients of src into dst
	Forward(dst []complex128, src []float64)

	// Inverse writes the real sequence for the half spectrum src into dst.
	// The result is unnormalized: Forward followed by Inverse scales by Size().
	Inverse(dst []float64, src []complex128)
}

// Backend creates FFT plans
type Backend interface {
	Name() string
	NewPlan(n int) (Plan, error)
}

// Backend names accepted by NewBackend
const (
	BackendGonum = "gonum"
	BackendGoDSP = "go-dsp"
)

// NewBackend returns the backend registered under name. An empty name
// selects gonum.
func NewBackend(name string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", BackendGonum:
		return GonumBackend{}, nil
	case BackendGoDSP, "godsp":
		return GoDSPBackend{}, nil
	}
	return nil, fmt.Errorf("unknown FFT backend %q", name)
}

// DefaultBackend is used when no backend is configured
func DefaultBackend() Backend {
	return GonumBackend{}
}
