package spectral

import (
	"fmt"
	"sync"

	"github.com/RyanBlaney/sonido-xtract/algorithms/common"
)

// Transform identifies which spectral feature a plan serves
type Transform int

const (
	TransformSpectrum Transform = iota
	TransformAutocorrelation
	TransformDCT
	TransformMFCC
)

func (t Transform) String() string {
	switch t {
	case TransformSpectrum:
		return "spectrum"
	case TransformAutocorrelation:
		return "autocorrelation_fft"
	case TransformDCT:
		return "dct"
	case TransformMFCC:
		return "mfcc"
	default:
		return fmt.Sprintf("transform(%d)", int(t))
	}
}

// PlanSize returns the transform length needed for n input values.
// Autocorrelation zero-pads its input to twice the length.
func (t Transform) PlanSize(n int) int {
	if t == TransformAutocorrelation {
		return 2 * n
	}
	return n
}

type planKey struct {
	transform Transform
	size      int
}

// Transformer is the allocation-returning view of a plan used by the
// spectral features
type Transformer interface {
	Size() int
	Forward(src []float64) []complex128
	Inverse(coeffs []complex128) []float64
}

// LockedPlan serialises access to a Plan
type LockedPlan struct {
	mu   sync.Mutex
	plan Plan
}

// Locked wraps plan for shared use
func Locked(plan Plan) *LockedPlan {
	return &LockedPlan{plan: plan}
}

func (lp *LockedPlan) Size() int {
	return lp.plan.Size()
}

// Forward returns the Size()/2+1 coefficients of src
func (lp *LockedPlan) Forward(src []float64) []complex128 {
	dst := make([]complex128, lp.plan.Size()/2+1)
	lp.mu.Lock()
	lp.plan.Forward(dst, src)
	lp.mu.Unlock()
	return dst
}

// Inverse returns the unnormalized real sequence for coeffs
func (lp *LockedPlan) Inverse(coeffs []complex128) []float64 {
	dst := make([]float64, lp.plan.Size())
	lp.mu.Lock()
	lp.plan.Inverse(dst, coeffs)
	lp.mu.Unlock()
	return dst
}

// Plans is a registry of FFT plans keyed by transform and input size
type Plans struct {
	backend Backend

	mu    sync.RWMutex
	plans map[planKey]*LockedPlan
}

// NewPlans creates an empty registry. A nil backend selects the default.
func NewPlans(backend Backend) *Plans {
	if backend == nil {
		backend = DefaultBackend()
	}
	return &Plans{
		backend: backend,
		plans:   make(map[planKey]*LockedPlan),
	}
}

// Backend returns the backend plans are created with
func (p *Plans) Backend() Backend {
	return p.backend
}

// Init prepares the plan for transform over n input values, replacing any
// existing plan for the same key. n must be a power of two.
func (p *Plans) Init(transform Transform, n int) error {
	if transform < TransformSpectrum || transform > TransformMFCC {
		return fmt.Errorf("transform %d: %w", int(transform), common.ArgumentError)
	}
	if !common.IsPowerOfTwo(n) {
		return fmt.Errorf("%s plan of size %d: %w", transform, n, ErrNotPowerOfTwo)
	}

	plan, err := p.backend.NewPlan(transform.PlanSize(n))
	if err != nil {
		return fmt.Errorf("failed to create %s plan: %w", transform, err)
	}

	p.mu.Lock()
	p.plans[planKey{transform, n}] = Locked(plan)
	p.mu.Unlock()
	return nil
}

// Get returns the plan registered for transform over n input values
func (p *Plans) Get(transform Transform, n int) (*LockedPlan, bool) {
	p.mu.RLock()
	plan, ok := p.plans[planKey{transform, n}]
	p.mu.RUnlock()
	return plan, ok
}

// Free drops every plan
func (p *Plans) Free() {
	p.mu.Lock()
	clear(p.plans)
	p.mu.Unlock()
}

// Len returns the number of registered plans
func (p *Plans) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.plans)
}
