package spectro

import (
	"fmt"
	"math"
)

// Defaults for the canonical representation.
const (
	DefaultResolution = 360
	DefaultSampleRate = 44100
	DefaultHopLength  = 64
)

// Settings describes the frequency and time resolution shared by ingestion
// and rendering. It is immutable once constructed; share it by pointer.
type Settings struct {
	resolution int
	sampleRate int
	hopLength  int
}

// NewSettings validates the three inputs and returns the settings.
// Any non-positive value yields a *ConfigError.
func NewSettings(resolution, sampleRate, hopLength int) (*Settings, error) {
	switch {
	case resolution <= 0:
		return nil, &ConfigError{Field: "resolution", Value: resolution}
	case sampleRate <= 0:
		return nil, &ConfigError{Field: "sample_rate", Value: sampleRate}
	case hopLength <= 0:
		return nil, &ConfigError{Field: "hop_length", Value: hopLength}
	}
	return &Settings{
		resolution: resolution,
		sampleRate: sampleRate,
		hopLength:  hopLength,
	}, nil
}

// DefaultSettings returns 360 bins at 44.1 kHz with a hop of 64 samples.
func DefaultSettings() *Settings {
	return &Settings{
		resolution: DefaultResolution,
		sampleRate: DefaultSampleRate,
		hopLength:  DefaultHopLength,
	}
}

func (s *Settings) Resolution() int { return s.resolution }
func (s *Settings) SampleRate() int { return s.sampleRate }
func (s *Settings) HopLength() int  { return s.hopLength }

// TransformSize is the FFT length whose one-sided spectrum has exactly
// Resolution bins.
func (s *Settings) TransformSize() int {
	n := 2 * (s.resolution - 1)
	if n < 1 {
		return 1
	}
	return n
}

// WindowLength is the analysis/synthesis window length in samples.
func (s *Settings) WindowLength() int { return s.TransformSize() }

// Bins returns the number of one-sided bins produced by TransformSize.
func (s *Settings) Bins() int { return s.TransformSize()/2 + 1 }

// FramesAt converts a time offset to the nearest frame boundary.
func (s *Settings) FramesAt(seconds float64) int {
	if seconds <= 0 {
		return 0
	}
	return int(math.Round(seconds * float64(s.sampleRate) / float64(s.hopLength)))
}

// FramesFor returns the frame count for a segment of the given duration,
// never less than one.
func (s *Settings) FramesFor(seconds float64) int {
	if n := s.FramesAt(seconds); n > 0 {
		return n
	}
	return 1
}

// Duration converts a frame count to seconds.
func (s *Settings) Duration(frames int) float64 {
	return float64(frames) * float64(s.hopLength) / float64(s.sampleRate)
}

// Equal reports whether two settings describe the same geometry.
func (s *Settings) Equal(o *Settings) bool {
	if s == nil || o == nil {
		return s == o
	}
	return *s == *o
}

func (s *Settings) String() string {
	return fmt.Sprintf("resolution=%d sample_rate=%d hop_length=%d n_fft=%d",
		s.resolution, s.sampleRate, s.hopLength, s.TransformSize())
}
