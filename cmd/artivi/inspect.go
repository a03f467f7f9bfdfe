package main

import (
	"encoding/json"
	"fmt"
	"image"
	"image/draw"
	"math"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/eligwz/spectrogram"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
	"gopkg.in/yaml.v3"

	"github.com/LW-54/ARTIVI-4/internal/audio"
	"github.com/LW-54/ARTIVI-4/internal/stft"
	"github.com/LW-54/ARTIVI-4/pkg/spectro"
	"github.com/LW-54/ARTIVI-4/pkg/spectro/render"
)

var (
	inspectFormat string
	inspectPNG    string
	inspectWidth  int
)

// Report summarizes a rendered WAV file.
type Report struct {
	File          string  `json:"file" yaml:"file"`
	Size          string  `json:"size" yaml:"size"`
	SampleRate    int     `json:"sample_rate" yaml:"sample_rate"`
	Samples       int     `json:"samples" yaml:"samples"`
	DurationSec   float64 `json:"duration_sec" yaml:"duration_sec"`
	Peak          float64 `json:"peak" yaml:"peak"`
	RMS           float64 `json:"rms" yaml:"rms"`
	Frames        int     `json:"frames" yaml:"frames"`
	Bins          int     `json:"bins" yaml:"bins"`
	DominantBin   int     `json:"dominant_bin" yaml:"dominant_bin"`
	DominantHz    float64 `json:"dominant_hz" yaml:"dominant_hz"`
	SpectralPeaks int     `json:"spectral_peaks" yaml:"spectral_peaks"`
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.wav>",
	Short: "Analyze a WAV file with the current spectral settings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		report, samples, err := inspectWav(args[0])
		if err != nil {
			return err
		}

		if inspectPNG != "" {
			if err := writeSpectrogramPNG(inspectPNG, samples, report.SampleRate); err != nil {
				return err
			}
			log.Infof("saved spectrogram to %s", inspectPNG)
		}

		return printReport(report, inspectFormat)
	},
}

func init() {
	inspectCmd.Flags().StringVarP(&inspectFormat, "format", "f", "table", "report format (table, json, yaml)")
	inspectCmd.Flags().StringVar(&inspectPNG, "png", "", "also draw a spectrogram image to this PNG file")
	inspectCmd.Flags().IntVar(&inspectWidth, "width", 2048, "spectrogram image width")
	rootCmd.AddCommand(inspectCmd)
}

func inspectWav(path string) (*Report, []float64, error) {
	samples, sr, err := audio.ReadWavAsFloat64(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(samples) == 0 {
		return nil, nil, fmt.Errorf("%s has no samples", path)
	}

	// analyze at the file's own rate
	settings, err := spectro.NewSettings(cfg.Resolution, sr, cfg.HopLength)
	if err != nil {
		return nil, nil, err
	}
	data, err := render.Analyze(samples, settings)
	if err != nil {
		return nil, nil, err
	}

	frames := make([][]float64, data.Frames())
	for t := range frames {
		frames[t] = data.Frame(t)
	}
	dom := stft.DominantBin(stft.MeanSpectrum(frames))
	peaks := stft.ExtractPeaks(frames, sr, settings.TransformSize(), settings.HopLength())

	report := &Report{
		File:          filepath.Base(path),
		SampleRate:    sr,
		Samples:       len(samples),
		DurationSec:   float64(len(samples)) / float64(sr),
		Peak:          floats.Norm(samples, math.Inf(1)),
		RMS:           floats.Norm(samples, 2) / math.Sqrt(float64(len(samples))),
		Frames:        data.Frames(),
		Bins:          data.Bins(),
		DominantBin:   dom,
		DominantHz:    float64(dom) * float64(sr) / float64(settings.TransformSize()),
		SpectralPeaks: len(peaks),
	}
	if st, err := os.Stat(path); err == nil {
		report.Size = humanize.Bytes(uint64(st.Size()))
	}
	return report, samples, nil
}

func printReport(r *Report, format string) error {
	switch format {
	case "json":
		out, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	case "yaml":
		out, err := yaml.Marshal(r)
		if err != nil {
			return err
		}
		fmt.Print(string(out))
	case "table", "":
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "File:\t%s\t(%s)\n", r.File, r.Size)
		fmt.Fprintf(w, "Sample rate:\t%d Hz\n", r.SampleRate)
		fmt.Fprintf(w, "Duration:\t%.3fs\t(%s samples)\n", r.DurationSec, humanize.Comma(int64(r.Samples)))
		fmt.Fprintf(w, "Level:\tpeak %.3f\trms %.3f\n", r.Peak, r.RMS)
		fmt.Fprintf(w, "Spectrogram:\t%d bins x %d frames\n", r.Bins, r.Frames)
		fmt.Fprintf(w, "Dominant:\tbin %d\t%.1f Hz\n", r.DominantBin, r.DominantHz)
		fmt.Fprintf(w, "Peaks:\t%d\n", r.SpectralPeaks)
		return w.Flush()
	default:
		return fmt.Errorf("unknown format %q: want table, json or yaml", format)
	}
	return nil
}

// writeSpectrogramPNG draws a diagnostic spectrogram of samples with the
// image height set to the configured resolution.
func writeSpectrogramPNG(path string, samples []float64, sampleRate int) error {
	height := cfg.Resolution
	img := spectrogram.NewImage128(image.Rect(0, 0, inspectWidth, height))

	black := spectrogram.ParseColor("000000")
	draw.Draw(img, img.Bounds(), image.NewUniform(black), image.Point{}, draw.Src)

	// hamming window, FFT, magnitude, linear scale
	spectrogram.Drawfft(
		img,
		samples,
		uint32(sampleRate),
		uint32(height),
		false,
		false,
		true,
		false,
	)

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return spectrogram.SavePng(img, path)
}
