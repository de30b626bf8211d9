package xtract

import "fmt"

// subbands applies a scalar feature with nil args to consecutive ranges of
// data. Bands that fall outside the frame yield 0. The first failing band
// aborts the rest and its status is returned with the values so far.
func subbands(x *Extractor, data []float64, args Args) ([]float64, error) {
	a, err := argsAs[SubbandArgs](args)
	if err != nil {
		return nil, err
	}
	if a.Bands < 1 || a.Start < 0 {
		return nil, BadArgv
	}
	if !a.Feature.Valid() {
		return nil, FeatureNotImplemented
	}
	if descriptors[a.Feature].resultLen != nil {
		return nil, fmt.Errorf("subbands need a scalar feature, got %s: %w", a.Feature, BadArgv)
	}

	n := len(data)
	width := a.Start
	if a.Scale == LinearSubbands {
		width = (n - a.Start) / a.Bands
	}
	lower := a.Start

	result := make([]float64, a.Bands)
	for b := range result {
		if width < 1 || lower >= n || lower+width > n {
			continue
		}

		v, err := x.Compute(a.Feature, data[lower:lower+width], nil)
		if len(v) == 1 {
			result[b] = v[0]
		}
		if err != nil {
			return result, err
		}

		lower += width
		if a.Scale == OctaveSubbands {
			width = lower
		}
	}
	return result, nil
}
