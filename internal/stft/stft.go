package stft

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// envelopeFloor is the smallest summed squared window treated as covered.
const envelopeFloor = 1e-11

// Executor runs fn for every index in [0, n). Implementations may call fn
// concurrently, so fn must only write state owned by its index.
type Executor interface {
	Run(n int, fn func(i int))
}

type serial struct{}

func (serial) Run(n int, fn func(i int)) {
	for i := 0; i < n; i++ {
		fn(i)
	}
}

// Serial runs every index in order on the calling goroutine.
var Serial Executor = serial{}

// Hann returns a periodic Hann window of length n.
func Hann(n int) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}
	for i := 0; i < n; i++ {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
	}
	return w
}

// FFTReal wraps the go-dsp FFT function and returns a complex spectrum.
func FFTReal(frame []float64) []complex128 {
	return fft.FFTReal(frame)
}

// Transform is a centered short-time Fourier transform: frame t is taken
// from samples [t*Hop - Size/2, t*Hop + Size/2), zero outside the signal.
// A Transform caches its synthesis envelope and must not be shared between
// concurrent calls.
type Transform struct {
	Size   int
	Hop    int
	Bins   int
	Window []float64

	envFrames int
	envLength int
	env       []float64
}

// New returns a transform of the given FFT size and hop with a periodic
// Hann window.
func New(size, hop int) (*Transform, error) {
	if size <= 0 {
		return nil, errors.New("transform size must be positive")
	}
	if hop <= 0 {
		return nil, errors.New("hop size must be positive")
	}
	return &Transform{
		Size:   size,
		Hop:    hop,
		Bins:   size/2 + 1,
		Window: Hann(size),
	}, nil
}

func (tr *Transform) frameStart(t int) int {
	return t*tr.Hop - tr.Size/2
}

// Forward analyzes frames time frames of signal and returns their one-sided
// spectra, spectra[t][bin].
func (tr *Transform) Forward(exec Executor, signal []float64, frames int) [][]complex128 {
	out := make([][]complex128, frames)
	exec.Run(frames, func(t int) {
		frame := make([]float64, tr.Size)
		start := tr.frameStart(t)
		for j := range frame {
			p := start + j
			if p >= 0 && p < len(signal) {
				frame[j] = signal[p] * tr.Window[j]
			}
		}
		spec := FFTReal(frame)
		out[t] = spec[:tr.Bins:tr.Bins]
	})
	return out
}

// Inverse overlap-adds the windowed inverse transforms of spectra into a
// signal of the given length, normalized by the summed squared window.
func (tr *Transform) Inverse(exec Executor, spectra [][]complex128, length int) []float64 {
	frames := len(spectra)
	buf := make([][]float64, frames)
	exec.Run(frames, func(t int) {
		full := tr.hermitian(spectra[t])
		td := fft.IFFT(full)
		f := make([]float64, tr.Size)
		for j := range f {
			f[j] = real(td[j]) * tr.Window[j]
		}
		buf[t] = f
	})

	out := make([]float64, length)
	for t, f := range buf {
		start := tr.frameStart(t)
		for j, v := range f {
			p := start + j
			if p >= 0 && p < length {
				out[p] += v
			}
		}
	}

	env := tr.envelope(frames, length)
	for i := range out {
		if env[i] > envelopeFloor {
			out[i] /= env[i]
		} else {
			out[i] = 0
		}
	}
	return out
}

// hermitian expands a one-sided spectrum to the full conjugate-symmetric
// spectrum of length Size.
func (tr *Transform) hermitian(half []complex128) []complex128 {
	n := tr.Size
	full := make([]complex128, n)
	copy(full, half)
	for k := 1; k < (n+1)/2; k++ {
		full[n-k] = cmplx.Conj(half[k])
	}
	return full
}

func (tr *Transform) envelope(frames, length int) []float64 {
	if tr.env != nil && tr.envFrames == frames && tr.envLength == length {
		return tr.env
	}
	env := make([]float64, length)
	for t := 0; t < frames; t++ {
		start := tr.frameStart(t)
		for j, w := range tr.Window {
			p := start + j
			if p >= 0 && p < length {
				env[p] += w * w
			}
		}
	}
	tr.env, tr.envFrames, tr.envLength = env, frames, length
	return env
}

// FrameCount is the number of centered frames needed to cover n samples.
func (tr *Transform) FrameCount(n int) int {
	if n <= 0 {
		return 1
	}
	return (n + tr.Hop - 1) / tr.Hop
}

// STFT computes a centered magnitude spectrogram and returns it time-major:
// spectrogram[frameIdx][freqBin], with windowSize/2+1 bins per frame.
func STFT(samples []float64, windowSize, hopSize int, window []float64) ([][]float64, error) {
	if len(window) != windowSize {
		return nil, errors.New("window length must equal windowSize")
	}
	if len(samples) == 0 {
		return nil, errors.New("empty input")
	}
	tr, err := New(windowSize, hopSize)
	if err != nil {
		return nil, err
	}
	tr.Window = window

	spectra := tr.Forward(Serial, samples, tr.FrameCount(len(samples)))
	spectrogram := make([][]float64, len(spectra))
	for t, s := range spectra {
		mag := make([]float64, len(s))
		for i, c := range s {
			mag[i] = cmplx.Abs(c)
		}
		spectrogram[t] = mag
	}
	return spectrogram, nil
}
