package analysis

import (
	"context"
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-xtract/algorithms/common"
	"github.com/RyanBlaney/sonido-xtract/algorithms/filters"
	"github.com/RyanBlaney/sonido-xtract/algorithms/spectral"
	"github.com/RyanBlaney/sonido-xtract/algorithms/speech"
	"github.com/RyanBlaney/sonido-xtract/algorithms/temporal"
	"github.com/RyanBlaney/sonido-xtract/algorithms/windowing"
	"github.com/RyanBlaney/sonido-xtract/config"
	"github.com/RyanBlaney/sonido-xtract/logging"
	"github.com/RyanBlaney/sonido-xtract/xtract"
)

// Frame holds the features of one block
type Frame struct {
	Index    int                  `json:"index" yaml:"index"`
	Time     float64              `json:"time" yaml:"time"` // seconds
	Features map[string][]float64 `json:"features" yaml:"features"`
	Errors   map[string]string    `json:"errors,omitempty" yaml:"errors,omitempty"`
	LPC      *speech.LPCResult    `json:"lpc,omitempty" yaml:"lpc,omitempty"`
}

// Note marks a change of the tracked MIDI note
type Note struct {
	Time      float64 `json:"time" yaml:"time"`
	Note      int     `json:"note" yaml:"note"`
	Frequency float64 `json:"frequency" yaml:"frequency"`
}

// Onset marks a block whose spectral flux stands out from the recent history
type Onset struct {
	Time     float64 `json:"time" yaml:"time"`
	Strength float64 `json:"strength" yaml:"strength"`
}

// Result is the outcome of analysing a whole signal
type Result struct {
	SampleRate int     `json:"sample_rate" yaml:"sample_rate"`
	BlockSize  int     `json:"block_size" yaml:"block_size"`
	HopSize    int     `json:"hop_size" yaml:"hop_size"`
	Duration   float64 `json:"duration" yaml:"duration"`
	Frames     []Frame `json:"frames" yaml:"frames"`
	Notes      []Note  `json:"notes" yaml:"notes"`
	Onsets     []Onset `json:"onsets" yaml:"onsets"`
}

// Analyzer runs the block pipeline: per block it tracks pitch, detects
// onsets from gated sub-frame spectra and evaluates the requested features.
// An Analyzer keeps tracking state between blocks and is not safe for
// concurrent use.
type Analyzer struct {
	cfg       config.AnalysisConfig
	features  []xtract.Feature
	extractor *xtract.Extractor

	window    *windowing.Window
	subWindow *windowing.Window
	mel       *spectral.MelFilterBank
	bark      spectral.BarkLimits
	spectrum  spectral.SpectrumType

	onset *temporal.OnsetDetector
	lpc   *speech.LPCAnalyzer
	dc    *filters.DCBlocker

	logger logging.Logger
}

// NewAnalyzer prepares windows, filter banks and FFT plans for cfg
func NewAnalyzer(cfg *config.Config) (*Analyzer, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ac := cfg.Analysis

	logger := logging.WithFields(logging.Fields{
		"component": "analyzer",
	})

	features := make([]xtract.Feature, 0, len(cfg.Features))
	for _, name := range cfg.Features {
		f, err := xtract.ParseFeature(name)
		if err != nil {
			return nil, err
		}
		if !supported(f) {
			return nil, fmt.Errorf("%s: %w", f, ErrUnsupportedFeature)
		}
		features = append(features, f)
	}

	backend, err := spectral.NewBackend(cfg.Backend)
	if err != nil {
		return nil, err
	}

	a := &Analyzer{
		cfg:       ac,
		features:  features,
		extractor: xtract.NewExtractor(backend),
		logger:    logger,
	}

	n := ac.BlockSize
	plans := []struct {
		size    int
		feature xtract.Feature
	}{
		{n, xtract.Spectrum},
		{n / 2, xtract.Spectrum},
		{n, xtract.AutocorrelationFFT},
		{n, xtract.DCT},
		{ac.MFCC.Bands, xtract.MFCC},
	}
	for _, p := range plans {
		if err := a.extractor.InitFFT(p.size, p.feature); err != nil {
			logger.Error(err, "Failed to initialise FFT plan", logging.Fields{
				"feature": p.feature.String(),
				"size":    p.size,
			})
			return nil, err
		}
	}
	a.extractor.InitWaveletF0()

	windowType, _ := windowing.ParseType(ac.Window)
	if a.window, err = windowing.New(windowType, n); err != nil {
		return nil, err
	}
	if a.subWindow, err = windowing.New(windowType, n/2); err != nil {
		return nil, err
	}

	style, _ := spectral.ParseMelStyle(ac.MFCC.Style)
	a.mel, err = spectral.NewMelFilterBank(n/2, float64(ac.SampleRate)/2, style,
		ac.MFCC.FreqMin, ac.MFCC.FreqMax, ac.MFCC.Bands)
	if err != nil {
		return nil, err
	}
	a.bark = spectral.NewBarkLimits(n, float64(ac.SampleRate))
	a.spectrum, _ = spectral.ParseSpectrumType(ac.Spectrum.Type)

	filter, _ := temporal.ParseLNormFilter(ac.Onset.Filter)
	a.onset, err = temporal.NewOnsetDetector(ac.Onset.History, ac.Onset.Threshold, temporal.LNormOptions{
		Order:     ac.Onset.Order,
		Filter:    filter,
		Normalise: true,
	})
	if err != nil {
		return nil, err
	}

	a.lpc = speech.NewLPCAnalyzer(float64(ac.SampleRate), ac.LPC.Order, ac.LPC.CepstrumLength)
	if a.lpc.Order() >= n {
		return nil, fmt.Errorf("lpc order %d needs a block larger than %d: %w", a.lpc.Order(), n, config.ErrInvalidConfig)
	}

	if ac.RemoveDC {
		if a.dc, err = filters.NewDCBlocker(filters.DefaultDCPole); err != nil {
			return nil, err
		}
	}

	logger.Debug("Analyzer ready", logging.Fields{
		"backend":    backend.Name(),
		"block_size": n,
		"hop_size":   ac.HopSize,
		"features":   len(features),
	})
	return a, nil
}

// Extractor returns the extractor owning the analyzer's plans
func (a *Analyzer) Extractor() *xtract.Extractor {
	return a.extractor
}

// Features returns the features evaluated per frame
func (a *Analyzer) Features() []xtract.Feature {
	return a.features
}

// Reset forgets pitch, onset and filter state
func (a *Analyzer) Reset() {
	a.extractor.InitWaveletF0()
	a.onset.Reset()
	if a.dc != nil {
		a.dc.Reset()
	}
}

// Analyze splits samples into overlapping blocks and analyses each. The
// analyzer is reset first so repeated calls are independent. Cancelling ctx
// stops between blocks and returns the frames so far with ctx's error.
func (a *Analyzer) Analyze(ctx context.Context, samples []float64) (*Result, error) {
	a.Reset()

	sr := a.sampleRate()
	result := &Result{
		SampleRate: a.cfg.SampleRate,
		BlockSize:  a.cfg.BlockSize,
		HopSize:    a.cfg.HopSize,
		Duration:   float64(len(samples)) / sr,
	}

	logger := a.logger.WithFields(logging.Fields{
		"function": "Analyze",
		"samples":  len(samples),
	})
	logger.Debug("Starting analysis")

	input := samples
	if a.dc != nil {
		input = make([]float64, len(samples))
		copy(input, samples)
		a.dc.ProcessBlock(input)
	}

	blocks := common.NewSlidingWindow(a.cfg.BlockSize, a.cfg.HopSize).AddSamples(input)

	tracker := noteTracker{previous: math.MinInt}
	lastOnset := math.Inf(-1)

	for i, block := range blocks {
		if err := ctx.Err(); err != nil {
			logger.Warn("Analysis cancelled", logging.Fields{"frame": i})
			return result, err
		}

		t := float64(i*a.cfg.HopSize) / sr
		fr := newFrame(a, block)

		if note, ok := tracker.next(fr, t); ok {
			result.Notes = append(result.Notes, note)
		}

		flux, onset, err := a.detectOnset(fr)
		if err != nil {
			logger.Error(err, "Onset detection failed", logging.Fields{"frame": i})
		} else if onset && (t-lastOnset > a.cfg.Onset.MinInterval || t < a.cfg.Onset.MinInterval) {
			result.Onsets = append(result.Onsets, Onset{Time: t, Strength: flux})
			lastOnset = t
		}

		frame := a.evaluate(fr, i, t)
		if a.cfg.LPC.Enabled {
			lpc, err := a.lpc.Analyze(filters.Emphasize(block, a.cfg.LPC.PreEmphasis))
			if err != nil {
				frame.Errors["lpc"] = err.Error()
			} else {
				frame.LPC = lpc
			}
		}
		result.Frames = append(result.Frames, frame)
	}

	logger.Debug("Analysis completed", logging.Fields{
		"frames": len(result.Frames),
		"notes":  len(result.Notes),
		"onsets": len(result.Onsets),
	})
	return result, nil
}

// evaluate resolves the requested features of fr into a Frame
func (a *Analyzer) evaluate(fr *frame, index int, t float64) Frame {
	frame := Frame{
		Index:    index,
		Time:     t,
		Features: make(map[string][]float64, len(a.features)),
		Errors:   make(map[string]string),
	}
	for _, f := range a.features {
		values, err := fr.get(f)
		if len(values) > 0 {
			frame.Features[f.String()] = values
		}
		if err != nil {
			frame.Errors[f.String()] = err.Error()
		}
	}
	return frame
}

func (a *Analyzer) sampleRate() float64 {
	return float64(a.cfg.SampleRate)
}

func (a *Analyzer) binWidth() float64 {
	return a.sampleRate() / float64(a.cfg.BlockSize)
}

func (a *Analyzer) spectrumArgs() xtract.SpectrumArgs {
	return xtract.SpectrumArgs{
		BinWidth:  a.binWidth(),
		Type:      a.spectrum,
		WithDC:    a.cfg.Spectrum.WithDC,
		Normalise: a.cfg.Spectrum.Normalise,
	}
}

// noteTracker reports the wavelet pitch as a MIDI note whenever it changes
type noteTracker struct {
	previous int
}

func (nt *noteTracker) next(fr *frame, t float64) (Note, bool) {
	pitch, err := fr.scalar(xtract.WaveletF0)
	if err != nil || pitch <= 0 {
		return Note{}, false
	}
	cents, err := fr.scalar(xtract.MIDICent)
	if err != nil || cents <= 0 {
		return Note{}, false
	}

	note := int(math.Round(cents / 100))
	changed := note != nt.previous
	nt.previous = note
	if !changed {
		return Note{}, false
	}
	return Note{Time: t, Note: note, Frequency: pitch}, true
}
