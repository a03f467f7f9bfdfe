package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/LW-54/ARTIVI-4/pkg/spectro"
)

// addOutputFlag registers -o/--output on a render subcommand.
func addOutputFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&outputPath, "output", "o", "out.wav", "output WAV file")
}

// renderData reconstructs data into outputPath and reports the result.
func renderData(data *spectro.Data) error {
	r, err := cfg.NewRenderer(log)
	if err != nil {
		return err
	}

	fmt.Printf("🎨 Spectrogram: %d bins x %d frames (%.2fs)\n", data.Bins(), data.Frames(), data.Duration())
	fmt.Printf("🔧 Reconstructing with %d iterations on %s...\n", cfg.Render.Iterations, r.Device().Name())

	if err := r.Render(data, outputPath); err != nil {
		return err
	}

	size := "?"
	if st, err := os.Stat(outputPath); err == nil {
		size = humanize.Bytes(uint64(st.Size()))
	}
	fmt.Printf("✅ Wrote %s (%s, %d Hz)\n", outputPath, size, data.Settings().SampleRate())
	return nil
}
