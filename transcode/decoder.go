package transcode

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/RyanBlaney/sonido-xtract/logging"
)

// ErrFFmpegNotFound is returned when the ffmpeg or ffprobe binary cannot be
// located
var ErrFFmpegNotFound = errors.New("ffmpeg not found")

// AudioData is decoded mono audio
type AudioData struct {
	Samples    []float64      `json:"-" yaml:"-"`
	SampleRate int            `json:"sample_rate" yaml:"sample_rate"`
	Duration   time.Duration  `json:"duration" yaml:"duration"`
	Source     string         `json:"source" yaml:"source"`
	Metadata   *AudioMetadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// AudioMetadata holds the properties ffprobe reports for the input
type AudioMetadata struct {
	SampleRate int     `json:"sample_rate" yaml:"sample_rate"`
	Channels   int     `json:"channels" yaml:"channels"`
	Codec      string  `json:"codec" yaml:"codec"`
	Duration   float64 `json:"duration" yaml:"duration"`
	Bitrate    int     `json:"bitrate" yaml:"bitrate"`
	Format     string  `json:"format" yaml:"format"`
}

// DecoderConfig holds decoder configuration
type DecoderConfig struct {
	SampleRate  int           `json:"sample_rate" yaml:"sample_rate" mapstructure:"sample_rate"`
	MaxDuration time.Duration `json:"max_duration" yaml:"max_duration" mapstructure:"max_duration"` // 0 decodes everything
	FFmpegPath  string        `json:"ffmpeg_path" yaml:"ffmpeg_path" mapstructure:"ffmpeg_path"`
	FFprobePath string        `json:"ffprobe_path" yaml:"ffprobe_path" mapstructure:"ffprobe_path"`
	Timeout     time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// DefaultDecoderConfig returns default decoder configuration
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		SampleRate:  44100,
		FFmpegPath:  "ffmpeg",
		FFprobePath: "ffprobe",
		Timeout:     60 * time.Second,
	}
}

// Decoder turns audio files into mono float64 samples by running ffmpeg
type Decoder struct {
	config *DecoderConfig
	logger logging.Logger
}

// NewDecoder creates a new audio decoder
func NewDecoder(config *DecoderConfig) *Decoder {
	if config == nil {
		config = DefaultDecoderConfig()
	}
	return &Decoder{
		config: config,
		logger: logging.WithFields(logging.Fields{
			"component": "audio_decoder",
		}),
	}
}

// Validate checks the configuration and that both binaries can be found
func (d *Decoder) Validate() error {
	if d.config.SampleRate <= 0 {
		return fmt.Errorf("target sample rate must be positive: %d", d.config.SampleRate)
	}
	if d.config.MaxDuration < 0 {
		return fmt.Errorf("max duration cannot be negative: %v", d.config.MaxDuration)
	}
	for _, bin := range []string{d.config.FFmpegPath, d.config.FFprobePath} {
		if _, err := exec.LookPath(bin); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrFFmpegNotFound, bin, err)
		}
	}
	return nil
}

// DecodeFile probes and decodes the audio file at path
func (d *Decoder) DecodeFile(ctx context.Context, path string) (*AudioData, error) {
	logger := d.logger.WithFields(logging.Fields{
		"function": "DecodeFile",
		"filename": path,
	})
	logger.Debug("Starting audio file decode")

	if err := d.Validate(); err != nil {
		logger.Error(err, "Decoder unavailable")
		return nil, err
	}

	metadata, err := d.Probe(ctx, path)
	if err != nil {
		logger.Error(err, "Failed to probe audio file")
		return nil, err
	}

	logger.Debug("Audio metadata detected", logging.Fields{
		"input_sample_rate": metadata.SampleRate,
		"input_channels":    metadata.Channels,
		"input_codec":       metadata.Codec,
		"input_duration":    metadata.Duration,
	})

	audio, err := d.run(ctx, path, nil)
	if err != nil {
		logger.Error(err, "FFmpeg decode failed")
		return nil, err
	}
	audio.Metadata = metadata
	return audio, nil
}

// DecodeReader decodes audio streamed from r without probing it first
func (d *Decoder) DecodeReader(ctx context.Context, r io.Reader) (*AudioData, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d.run(ctx, "pipe:0", r)
}

// Probe runs ffprobe on the first audio stream of path
func (d *Decoder) Probe(ctx context.Context, path string) (*AudioMetadata, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-select_streams", "a:0",
		path,
	}
	output, err := exec.CommandContext(ctx, d.config.FFprobePath, args...).Output()
	if err != nil {
		return nil, commandError("ffprobe", err)
	}
	return parseProbeOutput(output)
}

func (d *Decoder) run(ctx context.Context, input string, stdin io.Reader) (*AudioData, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	args := d.ffmpegArgs(input)
	cmd := exec.CommandContext(ctx, d.config.FFmpegPath, args...)
	if stdin != nil {
		cmd.Stdin = stdin
	}

	d.logger.Debug("Running FFmpeg", logging.Fields{
		"command": d.config.FFmpegPath + " " + strings.Join(args, " "),
	})

	start := time.Now()
	output, err := cmd.Output()
	if err != nil {
		return nil, commandError("ffmpeg", err)
	}

	samples := bytesToFloat64(output)
	if len(samples) == 0 {
		return nil, fmt.Errorf("no audio samples decoded from %s", input)
	}

	d.logger.Debug("FFmpeg decode completed", logging.Fields{
		"samples":     len(samples),
		"decode_time": time.Since(start).Seconds(),
	})

	return &AudioData{
		Samples:    samples,
		SampleRate: d.config.SampleRate,
		Duration:   time.Duration(len(samples)) * time.Second / time.Duration(d.config.SampleRate),
		Source:     input,
	}, nil
}

// ffmpegArgs downmixes to mono and resamples to the configured rate, writing
// raw little-endian float64 to stdout
func (d *Decoder) ffmpegArgs(input string) []string {
	args := []string{"-v", "error", "-i", input}
	if d.config.MaxDuration > 0 {
		args = append(args, "-t", fmt.Sprintf("%.3f", d.config.MaxDuration.Seconds()))
	}
	return append(args,
		"-map", "0:a:0?",
		"-vn",
		"-f", "f64le",
		"-ac", "1",
		"-ar", strconv.Itoa(d.config.SampleRate),
		"pipe:1",
	)
}

func (d *Decoder) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.config.Timeout > 0 {
		return context.WithTimeout(ctx, d.config.Timeout)
	}
	return context.WithCancel(ctx)
}

func commandError(name string, err error) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Errorf("%s failed: %w, stderr: %s", name, err, bytes.TrimSpace(exitErr.Stderr))
	}
	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrFFmpegNotFound, err)
	}
	return fmt.Errorf("%s failed: %w", name, err)
}

// parseProbeOutput reads the first stream of ffprobe's JSON output
func parseProbeOutput(jsonData []byte) (*AudioMetadata, error) {
	var probe struct {
		Streams []struct {
			CodecType     string `json:"codec_type"`
			CodecName     string `json:"codec_name"`
			SampleRate    string `json:"sample_rate"`
			Channels      int    `json:"channels"`
			Duration      string `json:"duration"`
			BitRate       string `json:"bit_rate"`
			CodecLongName string `json:"codec_long_name"`
		} `json:"streams"`
	}

	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}
	if len(probe.Streams) == 0 {
		return nil, fmt.Errorf("no audio streams found")
	}

	stream := probe.Streams[0]
	if stream.CodecType != "audio" {
		return nil, fmt.Errorf("stream is not audio type: %s", stream.CodecType)
	}
	if stream.Channels <= 0 || stream.Channels > 8 {
		return nil, fmt.Errorf("invalid channel count: %d", stream.Channels)
	}

	sampleRate, err := strconv.Atoi(stream.SampleRate)
	if err != nil {
		sampleRate = 44100
	}
	duration, _ := strconv.ParseFloat(stream.Duration, 64)
	bitrate, _ := strconv.Atoi(stream.BitRate)

	return &AudioMetadata{
		SampleRate: sampleRate,
		Channels:   stream.Channels,
		Codec:      stream.CodecName,
		Duration:   duration,
		Bitrate:    bitrate,
		Format:     stream.CodecLongName,
	}, nil
}

// bytesToFloat64 converts raw little-endian float64 bytes, dropping a
// trailing partial sample
func bytesToFloat64(data []byte) []float64 {
	count := len(data) / 8
	if count == 0 {
		return nil
	}
	samples := make([]float64, count)
	for i := range samples {
		samples[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[i*8:]))
	}
	return samples
}
