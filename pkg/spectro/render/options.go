package render

import (
	"github.com/LW-54/ARTIVI-4/pkg/logger"
	"github.com/LW-54/ARTIVI-4/pkg/spectro"
)

const (
	DefaultIterations = 32
	DefaultMomentum   = 0.99
	DefaultBitDepth   = 16
	DefaultPeak       = 0.99
)

type options struct {
	iterations int
	momentum   float64
	seed       uint64
	randomInit bool
	device     Device
	channels   int
	bitDepth   int
	peak       float64
	log        spectro.Logger
}

// Option configures a Renderer.
type Option func(*options)

func defaultOptions() options {
	return options{
		iterations: DefaultIterations,
		momentum:   DefaultMomentum,
		randomInit: true,
		device:     CPU,
		channels:   1,
		bitDepth:   DefaultBitDepth,
		peak:       DefaultPeak,
		log:        logger.GetLogger(),
	}
}

// WithIterations sets the number of Griffin-Lim iterations. Zero skips
// refinement and inverts the initial phase estimate directly.
func WithIterations(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.iterations = n
		}
	}
}

// WithMomentum sets the fast Griffin-Lim momentum; 0 gives the classic
// algorithm. Values outside [0, 1) are rejected by NewRenderer.
func WithMomentum(m float64) Option {
	return func(o *options) { o.momentum = m }
}

// WithSeed seeds the random phase initialization.
func WithSeed(seed uint64) Option {
	return func(o *options) { o.seed = seed }
}

// WithRandomInit chooses random (true) or zero (false) initial phase.
func WithRandomInit(random bool) Option {
	return func(o *options) { o.randomInit = random }
}

func WithDevice(d Device) Option {
	return func(o *options) {
		if d != nil {
			o.device = d
		}
	}
}

// WithChannels sets the output channel count; the mono reconstruction is
// copied to every channel.
func WithChannels(n int) Option {
	return func(o *options) { o.channels = n }
}

// WithBitDepth sets PCM sample width: 8, 16, 24 or 32.
func WithBitDepth(bits int) Option {
	return func(o *options) { o.bitDepth = bits }
}

// WithPeak sets the normalization target as a fraction of full scale.
func WithPeak(p float64) Option {
	return func(o *options) { o.peak = p }
}

func WithLogger(l spectro.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}
