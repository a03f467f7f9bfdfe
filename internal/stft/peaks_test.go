package stft

import (
	"math"
	"testing"
)

func TestExtractPeaks(t *testing.T) {
	const (
		windowSize = 128
		hopSize    = 32
		sampleRate = 8000
		bin        = 30
	)

	spec, err := STFT(tone(4000, bin, windowSize, 0.5), windowSize, hopSize, Hann(windowSize))
	if err != nil {
		t.Fatalf("STFT failed: %v", err)
	}

	numFrames := len(spec)
	duration := float64(numFrames*hopSize) / sampleRate

	peaks := ExtractPeaks(spec, sampleRate, windowSize, hopSize)
	if len(peaks) == 0 {
		t.Fatal("No peaks extracted")
	}

	for i := 1; i < len(peaks); i++ {
		if peaks[i].TimeIdx < peaks[i-1].TimeIdx {
			t.Error("Peaks not sorted by time index")
			break
		}
		if peaks[i].TimeIdx == peaks[i-1].TimeIdx && peaks[i].FreqIdx < peaks[i-1].FreqIdx {
			t.Error("Peaks not sorted by frequency within same time")
			break
		}
	}

	wantFreq := float64(bin) * sampleRate / windowSize
	for i, p := range peaks {
		// edge frames see a truncated signal and may leak into other bands
		if p.TimeIdx < 4 || p.TimeIdx >= numFrames-4 {
			continue
		}
		if p.FreqIdx != bin {
			t.Errorf("Peak %d at bin %d, expected %d", i, p.FreqIdx, bin)
		}
		if math.Abs(p.Freq-wantFreq) > 1e-9 {
			t.Errorf("Peak %d frequency %f, expected %f", i, p.Freq, wantFreq)
		}
		if p.Time < 0 || p.Time > duration {
			t.Errorf("Peak %d has invalid time: %f", i, p.Time)
		}
	}
}

func TestExtractPeaksEmptySpectrogram(t *testing.T) {
	var emptySpec [][]float64

	if peaks := ExtractPeaks(emptySpec, 8000, 128, 32); len(peaks) > 0 {
		t.Error("Expected no peaks from empty spectrogram")
	}
}

func TestDominantBinAndMean(t *testing.T) {
	spec := [][]float64{
		{0, 1, 5, 1},
		{0, 3, 1, 0},
	}
	mean := MeanSpectrum(spec)
	want := []float64{0, 2, 3, 0.5}
	for i := range want {
		if mean[i] != want[i] {
			t.Errorf("mean[%d] = %f, want %f", i, mean[i], want[i])
		}
	}
	if got := DominantBin(mean); got != 2 {
		t.Errorf("DominantBin = %d, want 2", got)
	}
	if DominantBin(nil) != -1 {
		t.Error("Expected -1 for empty frame")
	}
	if MeanSpectrum(nil) != nil {
		t.Error("Expected nil mean for empty spectrogram")
	}
}

func TestMinInt(t *testing.T) {
	tests := []struct {
		a, b, expected int
	}{
		{5, 10, 5},
		{10, 5, 5},
		{7, 7, 7},
		{-5, 3, -5},
	}

	for _, tt := range tests {
		result := minInt(tt.a, tt.b)
		if result != tt.expected {
			t.Errorf("minInt(%d, %d) = %d, expected %d", tt.a, tt.b, result, tt.expected)
		}
	}
}
