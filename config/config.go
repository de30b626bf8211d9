package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/RyanBlaney/sonido-xtract/algorithms/common"
	"github.com/RyanBlaney/sonido-xtract/algorithms/spectral"
	"github.com/RyanBlaney/sonido-xtract/algorithms/temporal"
	"github.com/RyanBlaney/sonido-xtract/algorithms/windowing"
	"github.com/RyanBlaney/sonido-xtract/xtract"
)

// ErrInvalidConfig wraps every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// EnvPrefix prefixes environment overrides, e.g. XTRACT_ANALYSIS_BLOCK_SIZE
const EnvPrefix = "XTRACT"

// Config is the complete configuration of an analysis run
type Config struct {
	LogLevel string         `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
	Backend  string         `json:"backend" yaml:"backend" mapstructure:"backend"` // "gonum" or "go-dsp"
	Analysis AnalysisConfig `json:"analysis" yaml:"analysis" mapstructure:"analysis"`

	// Features lists the per-frame features to report, by name
	Features []string `json:"features" yaml:"features" mapstructure:"features"`
}

// AnalysisConfig configures the frame pipeline
type AnalysisConfig struct {
	SampleRate int    `json:"sample_rate" yaml:"sample_rate" mapstructure:"sample_rate"`
	BlockSize  int    `json:"block_size" yaml:"block_size" mapstructure:"block_size"`
	HopSize    int    `json:"hop_size" yaml:"hop_size" mapstructure:"hop_size"`
	Window     string `json:"window" yaml:"window" mapstructure:"window"`
	RemoveDC   bool   `json:"remove_dc" yaml:"remove_dc" mapstructure:"remove_dc"`

	Spectrum SpectrumConfig `json:"spectrum" yaml:"spectrum" mapstructure:"spectrum"`
	MFCC     MFCCConfig     `json:"mfcc" yaml:"mfcc" mapstructure:"mfcc"`
	Onset    OnsetConfig    `json:"onset" yaml:"onset" mapstructure:"onset"`
	LPC      LPCConfig      `json:"lpc" yaml:"lpc" mapstructure:"lpc"`

	// PeakThreshold is the spectral peak floor in percent of the largest peak
	PeakThreshold float64 `json:"peak_threshold" yaml:"peak_threshold" mapstructure:"peak_threshold"`
	// HarmonicThreshold is the allowed distance from a harmonic number
	HarmonicThreshold float64 `json:"harmonic_threshold" yaml:"harmonic_threshold" mapstructure:"harmonic_threshold"`
	// RolloffPercentile is the energy share used for spectral rolloff
	RolloffPercentile float64 `json:"rolloff_percentile" yaml:"rolloff_percentile" mapstructure:"rolloff_percentile"`
}

// SpectrumConfig selects the spectrum the spectral features read
type SpectrumConfig struct {
	Type      string `json:"type" yaml:"type" mapstructure:"type"`
	WithDC    bool   `json:"with_dc" yaml:"with_dc" mapstructure:"with_dc"`
	Normalise bool   `json:"normalise" yaml:"normalise" mapstructure:"normalise"`
}

// MFCCConfig shapes the mel filter bank. Bands must be a power of two.
type MFCCConfig struct {
	Bands   int     `json:"bands" yaml:"bands" mapstructure:"bands"`
	FreqMin float64 `json:"freq_min" yaml:"freq_min" mapstructure:"freq_min"`
	FreqMax float64 `json:"freq_max" yaml:"freq_max" mapstructure:"freq_max"`
	Style   string  `json:"style" yaml:"style" mapstructure:"style"`
}

// OnsetConfig configures spectral flux onset detection
type OnsetConfig struct {
	Order       float64 `json:"order" yaml:"order" mapstructure:"order"`
	Filter      string  `json:"filter" yaml:"filter" mapstructure:"filter"`
	History     int     `json:"history" yaml:"history" mapstructure:"history"`
	Threshold   float64 `json:"threshold" yaml:"threshold" mapstructure:"threshold"`
	Gate        float64 `json:"gate" yaml:"gate" mapstructure:"gate"`
	Smoothing   float64 `json:"smoothing" yaml:"smoothing" mapstructure:"smoothing"`
	MinInterval float64 `json:"min_interval" yaml:"min_interval" mapstructure:"min_interval"` // seconds
}

// LPCConfig configures linear prediction. Order 0 derives it from the
// sample rate.
type LPCConfig struct {
	Enabled        bool    `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Order          int     `json:"order" yaml:"order" mapstructure:"order"`
	CepstrumLength int     `json:"cepstrum_length" yaml:"cepstrum_length" mapstructure:"cepstrum_length"`
	PreEmphasis    float64 `json:"pre_emphasis" yaml:"pre_emphasis" mapstructure:"pre_emphasis"`
}

// DefaultConfig mirrors the classic frame loop: 512 sample blocks with half
// overlap at 44.1 kHz
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Backend:  spectral.BackendGonum,
		Analysis: AnalysisConfig{
			SampleRate: 44100,
			BlockSize:  512,
			HopSize:    256,
			Window:     "hann",
			RemoveDC:   false,
			Spectrum: SpectrumConfig{
				Type:   "magnitude",
				WithDC: true,
			},
			MFCC: MFCCConfig{
				Bands:   16,
				FreqMin: 20,
				FreqMax: 20000,
				Style:   "equal_gain",
			},
			Onset: OnsetConfig{
				Order:       0.25,
				Filter:      "positive_slope",
				History:     10,
				Threshold:   10,
				Gate:        0.1,
				Smoothing:   0.5,
				MinInterval: 0.05,
			},
			LPC: LPCConfig{
				PreEmphasis:    0.97,
				CepstrumLength: 13,
			},
			PeakThreshold:     10,
			HarmonicThreshold: 0.3,
			RolloffPercentile: 85,
		},
		Features: []string{"mean", "rms_amplitude", "zcr", "spectral_centroid", "flatness"},
	}
}

// Validate checks every field and the names it refers to
func (c *Config) Validate() error {
	a := c.Analysis

	if _, err := spectral.NewBackend(c.Backend); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if a.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive, got %d", ErrInvalidConfig, a.SampleRate)
	}
	if a.BlockSize < 4 || !common.IsPowerOfTwo(a.BlockSize) {
		return fmt.Errorf("%w: block size must be a power of two >= 4, got %d", ErrInvalidConfig, a.BlockSize)
	}
	if a.HopSize <= 0 || a.HopSize > a.BlockSize {
		return fmt.Errorf("%w: hop size must be in 1..%d, got %d", ErrInvalidConfig, a.BlockSize, a.HopSize)
	}
	if _, err := windowing.ParseType(a.Window); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := spectral.ParseSpectrumType(a.Spectrum.Type); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if a.MFCC.Bands < 2 || !common.IsPowerOfTwo(a.MFCC.Bands) {
		return fmt.Errorf("%w: mfcc bands must be a power of two >= 2, got %d", ErrInvalidConfig, a.MFCC.Bands)
	}
	if a.MFCC.FreqMin < 0 || a.MFCC.FreqMax <= a.MFCC.FreqMin {
		return fmt.Errorf("%w: mfcc frequency range %g..%g", ErrInvalidConfig, a.MFCC.FreqMin, a.MFCC.FreqMax)
	}
	if _, err := spectral.ParseMelStyle(a.MFCC.Style); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if _, err := temporal.ParseLNormFilter(a.Onset.Filter); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if a.Onset.History < 2 {
		return fmt.Errorf("%w: onset history must be at least 2, got %d", ErrInvalidConfig, a.Onset.History)
	}
	if a.Onset.Smoothing <= 0 || a.Onset.Smoothing > 1 {
		return fmt.Errorf("%w: onset smoothing must be in (0, 1], got %g", ErrInvalidConfig, a.Onset.Smoothing)
	}

	if a.LPC.Order < 0 || a.LPC.CepstrumLength < 0 {
		return fmt.Errorf("%w: lpc order and cepstrum length cannot be negative", ErrInvalidConfig)
	}
	if a.LPC.Enabled && a.LPC.Order >= a.BlockSize {
		return fmt.Errorf("%w: lpc order %d needs a block larger than %d", ErrInvalidConfig, a.LPC.Order, a.BlockSize)
	}
	if a.LPC.PreEmphasis < 0 || a.LPC.PreEmphasis >= 1 {
		return fmt.Errorf("%w: pre-emphasis must be in [0, 1), got %g", ErrInvalidConfig, a.LPC.PreEmphasis)
	}

	if a.PeakThreshold < 0 || a.PeakThreshold > 100 {
		return fmt.Errorf("%w: peak threshold must be a percentage, got %g", ErrInvalidConfig, a.PeakThreshold)
	}
	if a.RolloffPercentile <= 0 || a.RolloffPercentile > 100 {
		return fmt.Errorf("%w: rolloff percentile must be in (0, 100], got %g", ErrInvalidConfig, a.RolloffPercentile)
	}

	for _, name := range c.Features {
		if _, err := xtract.ParseFeature(name); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	return nil
}

// NewViper returns a viper instance carrying the defaults and reading
// XTRACT_ prefixed environment overrides
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the YAML file at path, applies environment overrides and
// validates the result. An empty path loads defaults and environment only.
func Load(path string) (*Config, error) {
	v := NewViper()
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}
	return FromViper(v)
}

// FromViper decodes and validates the configuration held by v
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	a := d.Analysis

	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("backend", d.Backend)
	v.SetDefault("features", d.Features)

	v.SetDefault("analysis.sample_rate", a.SampleRate)
	v.SetDefault("analysis.block_size", a.BlockSize)
	v.SetDefault("analysis.hop_size", a.HopSize)
	v.SetDefault("analysis.window", a.Window)
	v.SetDefault("analysis.remove_dc", a.RemoveDC)
	v.SetDefault("analysis.peak_threshold", a.PeakThreshold)
	v.SetDefault("analysis.harmonic_threshold", a.HarmonicThreshold)
	v.SetDefault("analysis.rolloff_percentile", a.RolloffPercentile)

	v.SetDefault("analysis.spectrum.type", a.Spectrum.Type)
	v.SetDefault("analysis.spectrum.with_dc", a.Spectrum.WithDC)
	v.SetDefault("analysis.spectrum.normalise", a.Spectrum.Normalise)

	v.SetDefault("analysis.mfcc.bands", a.MFCC.Bands)
	v.SetDefault("analysis.mfcc.freq_min", a.MFCC.FreqMin)
	v.SetDefault("analysis.mfcc.freq_max", a.MFCC.FreqMax)
	v.SetDefault("analysis.mfcc.style", a.MFCC.Style)

	v.SetDefault("analysis.onset.order", a.Onset.Order)
	v.SetDefault("analysis.onset.filter", a.Onset.Filter)
	v.SetDefault("analysis.onset.history", a.Onset.History)
	v.SetDefault("analysis.onset.threshold", a.Onset.Threshold)
	v.SetDefault("analysis.onset.gate", a.Onset.Gate)
	v.SetDefault("analysis.onset.smoothing", a.Onset.Smoothing)
	v.SetDefault("analysis.onset.min_interval", a.Onset.MinInterval)

	v.SetDefault("analysis.lpc.enabled", a.LPC.Enabled)
	v.SetDefault("analysis.lpc.order", a.LPC.Order)
	v.SetDefault("analysis.lpc.cepstrum_length", a.LPC.CepstrumLength)
	v.SetDefault("analysis.lpc.pre_emphasis", a.LPC.PreEmphasis)
}
