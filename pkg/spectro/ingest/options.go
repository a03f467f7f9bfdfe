package ingest

import (
	"github.com/LW-54/ARTIVI-4/pkg/logger"
	"github.com/LW-54/ARTIVI-4/pkg/spectro"
)

// Scale selects how 8-bit pixel intensity maps to spectral magnitude.
type Scale int

const (
	// Linear uses the normalized intensity v in [0, 1] as the magnitude.
	Linear Scale = iota
	// Log treats intensity as level on a decibel ramp: full white is 0 dB,
	// one grey step above black is close to -LogRange dB, black is silent.
	Log
)

// LogRange is the dynamic range in dB covered by the Log scale.
const LogRange = 60.0

func (s Scale) String() string {
	switch s {
	case Linear:
		return "linear"
	case Log:
		return "log"
	default:
		return "unknown"
	}
}

// ParseScale accepts "linear" or "log".
func ParseScale(s string) (Scale, bool) {
	switch s {
	case "linear", "":
		return Linear, true
	case "log":
		return Log, true
	default:
		return Linear, false
	}
}

// ImageExtensions lists the file extensions picked up by FromImageFolder.
var ImageExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".tiff", ".webp"}

type options struct {
	scale    Scale
	contrast float64
	log      spectro.Logger
}

// Option configures image and video ingestion.
type Option func(*options)

func defaultOptions() options {
	return options{
		scale:    Linear,
		contrast: 1.0,
		log:      logger.GetLogger(),
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithScale sets the intensity to magnitude mapping.
func WithScale(s Scale) Option {
	return func(o *options) { o.scale = s }
}

// WithContrast stretches intensities around mid-grey by factor c before
// scaling. Values <= 0 are ignored.
func WithContrast(c float64) Option {
	return func(o *options) {
		if c > 0 {
			o.contrast = c
		}
	}
}

func WithLogger(l spectro.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}
