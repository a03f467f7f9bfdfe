package main

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LW-54/ARTIVI-4/internal/audio"
	"github.com/LW-54/ARTIVI-4/internal/config"
)

func TestInspectWavFindsTone(t *testing.T) {
	v := config.New(filepath.Join(t.TempDir(), "absent.yaml"))
	v.Set("resolution", 64)
	v.Set("hop_length", 32)
	var err error
	cfg, err = config.Load(v)
	require.NoError(t, err)

	// bin 10 of a 126-point transform at 8 kHz
	freq := 10 * 8000.0 / 126
	samples := make([]float64, 8000)
	for i := range samples {
		samples[i] = 0.5 * math.Sin(2*math.Pi*freq*float64(i)/8000)
	}
	path := filepath.Join(t.TempDir(), "tone.wav")
	require.NoError(t, audio.WriteWav(path, samples, audio.WavFormat{SampleRate: 8000, BitDepth: 16, Channels: 1}))

	report, got, err := inspectWav(path)
	require.NoError(t, err)
	assert.Len(t, got, 8000)
	assert.Equal(t, 8000, report.SampleRate)
	assert.Equal(t, 64, report.Bins)
	assert.Equal(t, 250, report.Frames)
	assert.Equal(t, 10, report.DominantBin)
	assert.InDelta(t, freq, report.DominantHz, 1e-9)
	assert.InDelta(t, 0.5, report.Peak, 1e-3)
	assert.InDelta(t, 0.5/math.Sqrt2, report.RMS, 1e-2)
	assert.NotEmpty(t, report.Size)

	assert.NoError(t, printReport(report, "json"))
	assert.NoError(t, printReport(report, "yaml"))
	assert.NoError(t, printReport(report, "table"))
	assert.Error(t, printReport(report, "xml"))
}
