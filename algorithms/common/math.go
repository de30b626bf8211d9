package common

import (
	"math"
)

// Numeric limits shared by the feature functions
const (
	// VerySmallNumber is the floor applied before taking logarithms
	VerySmallNumber = 2e-42
	LogLimit        = VerySmallNumber
	// LogLimitDB is the value reported for powers below LogLimit
	LogLimitDB    = -96.0
	DBScaleOffset = 96.0
	VeryBigNumber = 2e42

	SRUpperLimit = 192000.0
	SRLowerLimit = 22050.0
	SRDefault    = 44100.0

	FundamentalDefault = 440.0

	// BarkBands is the number of critical bands used by loudness and sharpness
	BarkBands = 26
)

// Sq returns a*a
func Sq(a float64) float64 {
	return a * a
}

// IsPowerOfTwo reports whether n is a positive power of two
func IsPowerOfTwo(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}

// NextPowerOfTwo returns the smallest power of two >= n
func NextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// IsDenormal reports whether d is a non-zero subnormal double
func IsDenormal(d float64) bool {
	return d != 0 && math.Abs(d) < 0x1p-1022
}

// IsOdd reports whether n is odd
func IsOdd(n int) bool {
	return n%2 != 0
}

// Clamp limits value to [lo, hi]
func Clamp(value, lo, hi float64) float64 {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

// ClampInt limits value to [lo, hi]
func ClampInt(value, lo, hi int) int {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

// ParabolicPeak fits a parabola through three equally spaced samples around a
// local maximum y2 and returns the fractional offset of the vertex from the
// centre sample together with the interpolated height.
func ParabolicPeak(y1, y2, y3 float64) (offset, height float64) {
	den := y1 - 2*y2 + y3
	if den == 0 {
		return 0, y2
	}
	offset = 0.5 * (y1 - y3) / den
	height = y2 - 0.25*(y1-y3)*offset
	return offset, height
}

// DefaultBinWidth returns the bin width used when a caller passes 0
func DefaultBinWidth(binWidth float64, n int) float64 {
	if binWidth == 0 && n > 0 {
		return SRDefault / float64(n)
	}
	return binWidth
}

// DefaultSampleRate returns SRDefault when sr is 0
func DefaultSampleRate(sr float64) float64 {
	if sr == 0 {
		return SRDefault
	}
	return sr
}
