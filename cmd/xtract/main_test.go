package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/RyanBlaney/sonido-xtract/analysis"
	"github.com/RyanBlaney/sonido-xtract/config"
	"github.com/RyanBlaney/sonido-xtract/logging"
	"github.com/RyanBlaney/sonido-xtract/transcode"
	"github.com/RyanBlaney/sonido-xtract/xtract"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() {
		logging.SetGlobalLogger(logging.NewDefaultLogger())
	})
	logging.SetGlobalLogger(&logging.NoOpLogger{})

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestListText(t *testing.T) {
	out, err := execute(t, "list")
	require.NoError(t, err)

	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "spectral_centroid")
	assert.Contains(t, out, "wavelet_f0")
}

func TestListYAML(t *testing.T) {
	out, err := execute(t, "list", "-o", "yaml")
	require.NoError(t, err)

	var entries []listEntry
	require.NoError(t, yaml.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, int(xtract.FeatureCount))
	assert.Equal(t, "mean", entries[0].Name)
	assert.Equal(t, "scalar", entries[0].Kind)
}

func TestListJSON(t *testing.T) {
	out, err := execute(t, "list", "--output", "json")
	require.NoError(t, err)

	var entries []listEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	assert.Len(t, entries, int(xtract.FeatureCount))
}

func TestUnknownOutputFormat(t *testing.T) {
	_, err := execute(t, "list", "-o", "csv")
	assert.ErrorContains(t, err, "unknown output format")
}

func TestInvalidFlagConfig(t *testing.T) {
	_, err := execute(t, "analyze", "--block-size", "300", "input.wav")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestMissingConfigFile(t *testing.T) {
	_, err := execute(t, "list", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfigFileOverriddenByFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xtract.yaml")
	require.NoError(t, os.WriteFile(path, []byte("analysis:\n  block_size: 300\n"), 0o644))

	// the flag replaces the invalid block size from the file
	_, err := execute(t, "analyze", "--config", path, "--block-size", "1024",
		"--ffmpeg", "/nonexistent/ffmpeg", "input.wav")
	assert.ErrorIs(t, err, transcode.ErrFFmpegNotFound)

	_, err = execute(t, "analyze", "--config", path, "input.wav")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestFeaturesUnknownFeature(t *testing.T) {
	_, err := execute(t, "features", "-f", "brightness", "input.wav")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestFeaturesMissingFFmpeg(t *testing.T) {
	_, err := execute(t, "features", "-f", "mean,zcr", "--ffmpeg", "/nonexistent/ffmpeg", "input.wav")
	assert.ErrorIs(t, err, transcode.ErrFFmpegNotFound)
}

func TestPrintFrames(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)

	frames := []analysis.Frame{
		{Time: 0, Features: map[string][]float64{"mean": {0.5}, "mfcc": make([]float64, 16)}},
		{Time: 0.0058, Features: map[string][]float64{"mean": {0.25}}},
	}
	require.NoError(t, printFrames(cmd, "text", []string{"mean", "mfcc"}, frames))

	text := out.String()
	assert.Contains(t, text, "MEAN")
	assert.Contains(t, text, "0.5")
	assert.Contains(t, text, "[16 values]")
	assert.Contains(t, text, "0.006")
}

func TestFormatValues(t *testing.T) {
	assert.Equal(t, "-", formatValues(nil))
	assert.Equal(t, "1.5", formatValues([]float64{1.5}))
	assert.Equal(t, "[3 values]", formatValues([]float64{1, 2, 3}))
}
