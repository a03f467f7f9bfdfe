package audio

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/LW-54/ARTIVI-4/pkg/utils"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WavFormat describes the PCM layout of an output file.
type WavFormat struct {
	SampleRate int
	BitDepth   int
	Channels   int
}

// Validate checks the format against what the encoder supports.
func (f WavFormat) Validate() error {
	if f.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %d", f.SampleRate)
	}
	if f.Channels <= 0 {
		return fmt.Errorf("channel count must be positive, got %d", f.Channels)
	}
	switch f.BitDepth {
	case 8, 16, 24, 32:
		return nil
	default:
		return fmt.Errorf("unsupported bit depth %d: want 8, 16, 24 or 32", f.BitDepth)
	}
}

// quantize maps samples in [-1, 1] to interleaved PCM integers, duplicating
// the mono signal across every channel. 8-bit PCM is unsigned.
func quantize(samples []float64, bitDepth, channels int) []int {
	maxVal := float64(goaudio.IntMaxSignedValue(bitDepth))
	out := make([]int, len(samples)*channels)
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		v := int(math.Round(s * maxVal))
		if bitDepth == 8 {
			v += 128
		}
		for c := 0; c < channels; c++ {
			out[i*channels+c] = v
		}
	}
	return out
}

// WriteWav encodes mono samples in [-1, 1] as a PCM WAV file. The file is
// written next to path under a temporary name and renamed on success, so a
// failed write never leaves a truncated file at path.
func WriteWav(path string, samples []float64, format WavFormat) error {
	if err := format.Validate(); err != nil {
		return err
	}
	if err := utils.MakeDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmpPath := utils.TempPath(path)
	f, err := os.Create(tmpPath)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = utils.DeleteFile(tmpPath)
		}
	}()

	enc := wav.NewEncoder(f, format.SampleRate, format.BitDepth, format.Channels, 1)
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: format.Channels,
			SampleRate:  format.SampleRate,
		},
		Data:           quantize(samples, format.BitDepth, format.Channels),
		SourceBitDepth: format.BitDepth,
	}
	if err := enc.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("encoding PCM samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("finalizing WAV header: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	if err := utils.MoveFile(tmpPath, path); err != nil {
		return err
	}
	committed = true
	return nil
}

// convertToMonoFloat64 averages interleaved integer samples of numChannels
// channels into mono float64 samples normalized to [-1, 1].
func convertToMonoFloat64(data []int, numChannels, bitDepth int) ([]float64, error) {
	if numChannels <= 0 {
		return nil, errors.New("unsupported channel count")
	}
	scale := 1.0 / float64(int(1)<<(uint(bitDepth)-1))
	offset := 0
	if bitDepth == 8 {
		offset = 128
	}

	frames := len(data) / numChannels
	out := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < numChannels; c++ {
			sum += float64(data[i*numChannels+c]-offset) * scale
		}
		out[i] = sum / float64(numChannels)
	}
	return out, nil
}

// ReadWavAsFloat64 reads a PCM WAV file and returns mono samples normalized
// to [-1, 1] together with the sample rate.
func ReadWavAsFloat64(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, 0, errors.New("not a valid WAV file")
	}
	if dec.WavAudioFormat != 1 {
		return nil, 0, fmt.Errorf("unsupported WAV audio format %d: only PCM (1) supported", dec.WavAudioFormat)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("decoding PCM samples: %w", err)
	}

	mono, err := convertToMonoFloat64(buf.Data, int(dec.NumChans), int(dec.BitDepth))
	if err != nil {
		return nil, 0, err
	}
	return mono, int(dec.SampleRate), nil
}
