package stft

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Peak is a local spectral maximum, in both index and physical units.
type Peak struct {
	TimeIdx int     // frame index in the spectrogram
	FreqIdx int     // frequency bin index
	Time    float64 // time in seconds
	Freq    float64 // frequency in Hz
	MagDB   float64 // magnitude in dB
}

// DominantBin returns the index of the loudest bin of a frame, or -1 for an
// empty frame.
func DominantBin(frame []float64) int {
	if len(frame) == 0 {
		return -1
	}
	return floats.MaxIdx(frame)
}

// MeanSpectrum averages a time-major spectrogram over time.
func MeanSpectrum(spectrogram [][]float64) []float64 {
	if len(spectrogram) == 0 {
		return nil
	}
	mean := make([]float64, len(spectrogram[0]))
	for _, frame := range spectrogram {
		floats.Add(mean, frame)
	}
	floats.Scale(1/float64(len(spectrogram)), mean)
	return mean
}

// ExtractPeaks finds prominent spectral peaks in a time-major magnitude
// spectrogram produced with the given transform size and hop. Each frame
// contributes at most one peak per octave-spaced band; a candidate must be
// a local maximum in its time/frequency neighbourhood and sit a few dB
// above the frame's band average.
//
// Peaks are returned sorted by time, then frequency.
func ExtractPeaks(spectrogram [][]float64, sampleRate, windowSize, hopSize int) []Peak {
	if len(spectrogram) == 0 || len(spectrogram[0]) == 0 {
		return nil
	}

	nFrames := len(spectrogram)
	nBins := len(spectrogram[0])

	freqRes := float64(sampleRate) / float64(windowSize)
	frameTime := float64(hopSize) / float64(sampleRate)

	const (
		freqNeighbour = 3
		timeNeighbour = 1
		minDbAboveAvg = 3.0
		eps           = 1e-10
	)

	bands := [][]int{{0, minInt(10, nBins)}}
	for start := 10; start < nBins; start *= 2 {
		end := minInt(start*2, nBins)
		bands = append(bands, []int{start, end})
		if end == nBins {
			break
		}
	}

	peaks := make([]Peak, 0, nFrames*2)

	for t := 0; t < nFrames; t++ {
		frame := spectrogram[t]

		bandMaxMag := make([]float64, 0, len(bands))
		bandMaxIdx := make([]int, 0, len(bands))
		for _, b := range bands {
			idx := b[0] + floats.MaxIdx(frame[b[0]:b[1]])
			bandMaxMag = append(bandMaxMag, frame[idx])
			bandMaxIdx = append(bandMaxIdx, idx)
		}

		var sumDb float64
		for _, mag := range bandMaxMag {
			sumDb += 20.0 * math.Log10(mag+eps)
		}
		avgDb := sumDb / float64(len(bandMaxMag))

		for bi, mag := range bandMaxMag {
			if mag <= 0 {
				continue
			}
			bin := bandMaxIdx[bi]
			magDb := 20.0 * math.Log10(mag+eps)

			// a single band is its own average
			if len(bands) > 1 && magDb < avgDb+minDbAboveAvg {
				continue
			}

			if !isLocalMax(spectrogram, t, bin, mag, timeNeighbour, freqNeighbour) {
				continue
			}

			peaks = append(peaks, Peak{
				TimeIdx: t,
				FreqIdx: bin,
				Time:    float64(t) * frameTime,
				Freq:    float64(bin) * freqRes,
				MagDB:   magDb,
			})
		}
	}

	sort.Slice(peaks, func(i, j int) bool {
		if peaks[i].TimeIdx == peaks[j].TimeIdx {
			return peaks[i].FreqIdx < peaks[j].FreqIdx
		}
		return peaks[i].TimeIdx < peaks[j].TimeIdx
	})

	return peaks
}

func isLocalMax(spectrogram [][]float64, t, bin int, mag float64, dtMax, dfMax int) bool {
	nFrames := len(spectrogram)
	nBins := len(spectrogram[0])
	for dt := -dtMax; dt <= dtMax; dt++ {
		tIdx := t + dt
		if tIdx < 0 || tIdx >= nFrames {
			continue
		}
		for df := -dfMax; df <= dfMax; df++ {
			fIdx := bin + df
			if fIdx < 0 || fIdx >= nBins || (dt == 0 && df == 0) {
				continue
			}
			if spectrogram[tIdx][fIdx] > mag {
				return false
			}
		}
	}
	return true
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
