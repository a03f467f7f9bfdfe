package spectro

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSettingsRejectsNonPositive(t *testing.T) {
	tests := []struct {
		name           string
		res, rate, hop int
		wantField      string
	}{
		{"zero resolution", 0, 44100, 64, "resolution"},
		{"negative sample rate", 360, -1, 64, "sample_rate"},
		{"zero hop", 360, 44100, 0, "hop_length"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSettings(tt.res, tt.rate, tt.hop)
			require.Error(t, err)
			assert.Nil(t, s)

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.wantField, cfgErr.Field)
		})
	}
}

func TestSettingsDerivedGeometry(t *testing.T) {
	for _, res := range []int{1, 2, 3, 64, 257, 360, 1025} {
		s, err := NewSettings(res, 22050, 128)
		require.NoError(t, err)
		assert.Equal(t, res, s.Bins(), "resolution %d", res)
		assert.LessOrEqual(t, s.Resolution(), s.TransformSize()/2+1)
		assert.Equal(t, s.TransformSize(), s.WindowLength())
	}

	s := DefaultSettings()
	assert.Equal(t, 718, s.TransformSize())
	assert.Equal(t, 360, s.Resolution())
	assert.Equal(t, 44100, s.SampleRate())
	assert.Equal(t, 64, s.HopLength())
}

func TestSettingsFrames(t *testing.T) {
	s, err := NewSettings(64, 8000, 80)
	require.NoError(t, err)

	assert.Equal(t, 100, s.FramesAt(1.0))
	assert.Equal(t, 0, s.FramesAt(0))
	assert.Equal(t, 1, s.FramesFor(0.001))
	assert.InDelta(t, 1.0, s.Duration(100), 1e-12)
}

func TestSettingsEqual(t *testing.T) {
	a, _ := NewSettings(64, 8000, 80)
	b, _ := NewSettings(64, 8000, 80)
	c, _ := NewSettings(65, 8000, 80)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
}
