package render

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/LW-54/ARTIVI-4/internal/audio"
	"github.com/LW-54/ARTIVI-4/internal/stft"
	"github.com/LW-54/ARTIVI-4/pkg/spectro"
)

func roundTripSettings(t *testing.T) *spectro.Settings {
	t.Helper()
	s, err := spectro.NewSettings(64, 8000, 32)
	require.NoError(t, err)
	return s
}

// toneData analyzes a pure sinusoid centred on bin over frames frames.
func toneData(t *testing.T, s *spectro.Settings, bin, frames int) *spectro.Data {
	t.Helper()
	freq := float64(bin) * float64(s.SampleRate()) / float64(s.TransformSize())
	x := make([]float64, frames*s.HopLength())
	for i := range x {
		x[i] = 0.5 * math.Sin(2*math.Pi*freq*float64(i)/float64(s.SampleRate()))
	}
	d, err := Analyze(x, s)
	require.NoError(t, err)
	require.Equal(t, frames, d.Frames())
	return d
}

func dominantBin(d *spectro.Data) int {
	frames := make([][]float64, d.Frames())
	for i := range frames {
		frames[i] = d.Frame(i)
	}
	return stft.DominantBin(stft.MeanSpectrum(frames))
}

func TestRoundTripKeepsDominantBin(t *testing.T) {
	s := roundTripSettings(t)

	for _, bin := range []int{5, 10, 40} {
		src := toneData(t, s, bin, 100)
		require.Equal(t, bin, dominantBin(src))

		for _, momentum := range []float64{0, DefaultMomentum} {
			r, err := NewRenderer(WithIterations(32), WithMomentum(momentum), WithSeed(7))
			require.NoError(t, err)

			x, err := r.Reconstruct(src)
			require.NoError(t, err)
			assert.Len(t, x, 100*s.HopLength())

			back, err := Analyze(x, s)
			require.NoError(t, err)
			assert.InDelta(t, bin, dominantBin(back), 1, "bin %d momentum %v", bin, momentum)
		}
	}
}

func TestReconstructPeakNormalized(t *testing.T) {
	s := roundTripSettings(t)
	r, err := NewRenderer(WithIterations(4), WithPeak(0.5))
	require.NoError(t, err)

	x, err := r.Reconstruct(toneData(t, s, 12, 20))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, floats.Norm(x, math.Inf(1)), 1e-12)

	silent, err := r.Reconstruct(spectro.Silence(s, 10))
	require.NoError(t, err)
	assert.Len(t, silent, 10*s.HopLength())
	assert.Equal(t, 0.0, floats.Norm(silent, math.Inf(1)))
}

func TestDevicesProduceIdenticalOutput(t *testing.T) {
	s := roundTripSettings(t)
	data := toneData(t, s, 9, 60)

	cpuR, err := NewRenderer(WithDevice(CPU), WithIterations(8), WithSeed(3))
	require.NoError(t, err)
	parR, err := NewRenderer(WithDevice(Parallel(4)), WithIterations(8), WithSeed(3))
	require.NoError(t, err)

	a, err := cpuR.Reconstruct(data)
	require.NoError(t, err)
	b, err := parR.Reconstruct(data)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSeedControlsPhaseInit(t *testing.T) {
	s := roundTripSettings(t)
	data := toneData(t, s, 9, 30)

	render := func(opts ...Option) []float64 {
		r, err := NewRenderer(append([]Option{WithIterations(2)}, opts...)...)
		require.NoError(t, err)
		x, err := r.Reconstruct(data)
		require.NoError(t, err)
		return x
	}

	assert.Equal(t, render(WithSeed(1)), render(WithSeed(1)))
	assert.NotEqual(t, render(WithSeed(1)), render(WithSeed(2)))
	assert.Equal(t, render(WithRandomInit(false), WithSeed(1)), render(WithRandomInit(false), WithSeed(2)))
}

func TestRenderWritesWav(t *testing.T) {
	s := roundTripSettings(t)
	path := filepath.Join(t.TempDir(), "out", "tone.wav")

	r, err := NewRenderer(WithIterations(4), WithChannels(2), WithBitDepth(24))
	require.NoError(t, err)
	require.NoError(t, r.Render(toneData(t, s, 10, 50), path))

	samples, sr, err := audio.ReadWavAsFloat64(path)
	require.NoError(t, err)
	assert.Equal(t, s.SampleRate(), sr)
	assert.Len(t, samples, 50*s.HopLength())
	assert.InDelta(t, DefaultPeak, floats.Norm(samples, math.Inf(1)), 1e-4)
}

func TestRenderErrors(t *testing.T) {
	s := roundTripSettings(t)
	r, err := NewRenderer(WithIterations(1))
	require.NoError(t, err)

	var re *spectro.RenderError

	err = r.Render(spectro.Silence(s, 0), filepath.Join(t.TempDir(), "empty.wav"))
	require.True(t, errors.As(err, &re))
	assert.True(t, errors.Is(err, spectro.ErrNoFrames))
	assert.Contains(t, re.Path, "empty.wav")

	_, err = r.Reconstruct(nil)
	assert.True(t, errors.As(err, &re))

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	target := filepath.Join(blocker, "out.wav")
	err = r.Render(toneData(t, s, 3, 4), target)
	require.True(t, errors.As(err, &re))
	assert.Equal(t, target, re.Path)
}

func TestNewRendererRejectsBadOptions(t *testing.T) {
	bad := [][]Option{
		{WithMomentum(1)},
		{WithMomentum(-0.1)},
		{WithPeak(0)},
		{WithPeak(1.5)},
		{WithBitDepth(12)},
		{WithChannels(0)},
	}
	for _, opts := range bad {
		_, err := NewRenderer(opts...)
		assert.Error(t, err)
	}

	r, err := NewRenderer(WithIterations(-5), WithDevice(nil))
	require.NoError(t, err)
	assert.Equal(t, DefaultIterations, r.opts.iterations)
	assert.Equal(t, CPU, r.Device())
}

func TestAnalyzeRejectsEmpty(t *testing.T) {
	_, err := Analyze(nil, roundTripSettings(t))
	assert.Error(t, err)
	_, err = Analyze([]float64{1}, nil)
	assert.Error(t, err)
}
