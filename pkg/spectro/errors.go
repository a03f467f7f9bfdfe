package spectro

import (
	"errors"
	"fmt"
)

var (
	ErrNoImages          = errors.New("no readable images")
	ErrShapeMismatch     = errors.New("array shape does not match settings")
	ErrNoFrames          = errors.New("spectral data has no time frames")
	ErrSettingsMismatch  = errors.New("spectral data settings differ")
	ErrUnsupportedArray  = errors.New("unsupported array data type")
	ErrInvalidMagnitudes = errors.New("magnitudes must be finite and non-negative")
)

// ConfigError reports a Settings field that failed validation.
type ConfigError struct {
	Field string
	Value int
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid settings: %s must be positive, got %d", e.Field, e.Value)
}

// IngestError wraps a failure to turn a media source into spectral data.
// Source is the file, folder or array description that failed.
type IngestError struct {
	Source string
	Err    error
}

func (e *IngestError) Error() string {
	if e.Source == "" {
		return "ingest: " + e.Err.Error()
	}
	return fmt.Sprintf("ingest %s: %v", e.Source, e.Err)
}

func (e *IngestError) Unwrap() error { return e.Err }

// RenderError wraps a failure to reconstruct or write audio.
type RenderError struct {
	Path string
	Err  error
}

func (e *RenderError) Error() string {
	if e.Path == "" {
		return "render: " + e.Err.Error()
	}
	return fmt.Sprintf("render %s: %v", e.Path, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }
