package stft

import (
	"math"
	"math/cmplx"
	"testing"
)

func tone(n int, bin, size int, amp float64) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = amp * math.Sin(2*math.Pi*float64(bin)*float64(i)/float64(size))
	}
	return x
}

func TestHann(t *testing.T) {
	sizes := []int{2, 126, 128, 718}

	for _, size := range sizes {
		window := Hann(size)

		if len(window) != size {
			t.Errorf("Expected window size %d, got %d", size, len(window))
		}

		for i, val := range window {
			if val < 0 || val > 1 {
				t.Errorf("Window value %d out of range [0,1]: %f", i, val)
			}
		}

		// periodic: zero at the left edge, peak at the centre
		if window[0] != 0 {
			t.Errorf("size %d: expected window[0] = 0, got %f", size, window[0])
		}
		if math.Abs(window[size/2]-1) > 1e-12 {
			t.Errorf("size %d: expected centre value 1, got %f", size, window[size/2])
		}
	}

	if w := Hann(1); len(w) != 1 || w[0] != 1 {
		t.Errorf("Hann(1) should be [1], got %v", w)
	}
}

func TestFFTReal(t *testing.T) {
	signal := make([]float64, 126)
	for i := range signal {
		signal[i] = 1.0 // DC signal
	}

	spectrum := FFTReal(signal)

	if len(spectrum) != len(signal) {
		t.Errorf("Expected spectrum length %d, got %d", len(signal), len(spectrum))
	}
	if math.Abs(real(spectrum[0])-126) > 1e-9 {
		t.Errorf("Expected DC bin 126, got %v", spectrum[0])
	}
}

func TestSTFT(t *testing.T) {
	windowSize := 128
	hopSize := 64

	samples := make([]float64, 11025)
	spec, err := STFT(samples, windowSize, hopSize, Hann(windowSize))
	if err != nil {
		t.Fatalf("STFT failed: %v", err)
	}

	expectedFrames := (len(samples) + hopSize - 1) / hopSize
	if len(spec) != expectedFrames {
		t.Errorf("Expected %d frames, got %d", expectedFrames, len(spec))
	}

	expectedBins := windowSize/2 + 1
	if len(spec[0]) != expectedBins {
		t.Errorf("Expected %d frequency bins, got %d", expectedBins, len(spec[0]))
	}
}

func TestSTFTInvalidInput(t *testing.T) {
	if _, err := STFT(nil, 128, 64, Hann(128)); err == nil {
		t.Error("Expected error with empty input")
	}

	if _, err := STFT(make([]float64, 1000), 128, 64, Hann(64)); err == nil {
		t.Error("Expected error with mismatched window size")
	}

	if _, err := New(0, 64); err == nil {
		t.Error("Expected error with zero transform size")
	}
	if _, err := New(128, 0); err == nil {
		t.Error("Expected error with zero hop")
	}
}

func TestInverseReconstructsSignal(t *testing.T) {
	tests := []struct {
		size, hop int
	}{
		{128, 32},
		{128, 64},
		{126, 32},
		{718, 64},
	}

	for _, tt := range tests {
		tr, err := New(tt.size, tt.hop)
		if err != nil {
			t.Fatal(err)
		}
		frames := 40
		x := tone(frames*tt.hop, 7, tt.size, 0.8)
		for i := range x {
			x[i] += 0.1 * math.Cos(float64(i)*0.37)
		}

		y := tr.Inverse(Serial, tr.Forward(Serial, x, frames), len(x))
		if len(y) != len(x) {
			t.Fatalf("size %d: expected %d samples, got %d", tt.size, len(x), len(y))
		}
		for i := range x {
			if math.Abs(x[i]-y[i]) > 1e-9 {
				t.Fatalf("size %d hop %d: sample %d differs: %f vs %f", tt.size, tt.hop, i, x[i], y[i])
			}
		}
	}
}

func TestHermitianIsConjugateSymmetric(t *testing.T) {
	for _, size := range []int{7, 8} {
		tr, _ := New(size, 2)
		half := make([]complex128, tr.Bins)
		for k := range half {
			half[k] = complex(float64(k+1), float64(k))
		}
		full := tr.hermitian(half)
		for k := 1; k < size; k++ {
			if 2*k == size {
				continue // Nyquist
			}
			if full[size-k] != cmplx.Conj(full[k]) {
				t.Errorf("size %d: bin %d not conjugate of %d", size, size-k, k)
			}
		}
	}
}

func TestFrameCount(t *testing.T) {
	tr, _ := New(128, 64)
	tests := map[int]int{0: 1, 1: 1, 64: 1, 65: 2, 640: 10}
	for n, want := range tests {
		if got := tr.FrameCount(n); got != want {
			t.Errorf("FrameCount(%d) = %d, want %d", n, got, want)
		}
	}
}
