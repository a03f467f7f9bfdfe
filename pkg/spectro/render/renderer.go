package render

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/LW-54/ARTIVI-4/internal/audio"
	"github.com/LW-54/ARTIVI-4/internal/stft"
	"github.com/LW-54/ARTIVI-4/pkg/spectro"
)

// Renderer turns magnitude spectrograms into PCM audio. Its device is fixed
// at construction. A Renderer holds no per-render state and may be reused.
type Renderer struct {
	opts options
}

// NewRenderer validates opts and returns a renderer.
func NewRenderer(opts ...Option) (*Renderer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if o.momentum < 0 || o.momentum >= 1 || math.IsNaN(o.momentum) {
		return nil, fmt.Errorf("momentum must be in [0, 1), got %v", o.momentum)
	}
	if o.peak <= 0 || o.peak > 1 || math.IsNaN(o.peak) {
		return nil, fmt.Errorf("peak must be in (0, 1], got %v", o.peak)
	}
	format := audio.WavFormat{SampleRate: 1, BitDepth: o.bitDepth, Channels: o.channels}
	if err := format.Validate(); err != nil {
		return nil, err
	}

	return &Renderer{opts: o}, nil
}

// Device reports the execution device chosen for this renderer.
func (r *Renderer) Device() Device { return r.opts.device }

// Reconstruct estimates a waveform for data, peak-normalized to the
// configured level. The result has data.Frames()*hop samples at the
// settings' sample rate. All-zero input yields silence.
func (r *Renderer) Reconstruct(data *spectro.Data) ([]float64, error) {
	if err := validate(data); err != nil {
		return nil, &spectro.RenderError{Err: err}
	}
	s := data.Settings()

	tr, err := stft.New(s.TransformSize(), s.HopLength())
	if err != nil {
		return nil, &spectro.RenderError{Err: err}
	}

	mag := make([][]float64, data.Frames())
	for t := range mag {
		mag[t] = data.Frame(t)
	}
	length := data.Frames() * s.HopLength()

	r.opts.log.Debugf("griffin-lim: %d bins x %d frames, n_fft=%d hop=%d, %d iterations on %s",
		data.Bins(), data.Frames(), tr.Size, tr.Hop, r.opts.iterations, r.opts.device.Name())

	x := griffinLim(tr, r.opts.device, mag, length, r.opts)

	if peak := floats.Norm(x, math.Inf(1)); peak > 0 {
		floats.Scale(r.opts.peak/peak, x)
	}
	return x, nil
}

// Render reconstructs data and writes it to path as a PCM WAV file at the
// settings' sample rate.
func (r *Renderer) Render(data *spectro.Data, path string) error {
	x, err := r.Reconstruct(data)
	if err != nil {
		var re *spectro.RenderError
		if errors.As(err, &re) {
			re.Path = path
		}
		return err
	}

	format := audio.WavFormat{
		SampleRate: data.Settings().SampleRate(),
		BitDepth:   r.opts.bitDepth,
		Channels:   r.opts.channels,
	}
	if err := audio.WriteWav(path, x, format); err != nil {
		return &spectro.RenderError{Path: path, Err: err}
	}

	r.opts.log.Infof("wrote %s: %.3fs, %d Hz, %d-bit, %d channel(s)",
		path, data.Duration(), format.SampleRate, format.BitDepth, format.Channels)
	return nil
}

func validate(data *spectro.Data) error {
	if data == nil || data.Settings() == nil {
		return errors.New("nil spectral data")
	}
	if data.Frames() == 0 {
		return spectro.ErrNoFrames
	}
	s := data.Settings()
	if data.Bins() != s.Resolution() || s.Bins() != s.Resolution() {
		return fmt.Errorf("%w: %d bins for %v", spectro.ErrShapeMismatch, data.Bins(), s)
	}
	return nil
}

// Analyze computes the magnitude spectrogram of samples with the transform
// geometry of settings, using ceil(len/hop) frames. It is the forward
// counterpart of Reconstruct.
func Analyze(samples []float64, settings *spectro.Settings) (*spectro.Data, error) {
	if settings == nil {
		return nil, errors.New("nil settings")
	}
	n := settings.TransformSize()
	frames, err := stft.STFT(samples, n, settings.HopLength(), stft.Hann(n))
	if err != nil {
		return nil, err
	}
	return spectro.NewFromFrames(settings, frames)
}
