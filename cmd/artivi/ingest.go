package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/LW-54/ARTIVI-4/pkg/spectro/ingest"
)

var (
	imageDuration  float64
	folderDuration float64
	folderGap      float64
	videoTimeout   time.Duration
)

var imageCmd = &cobra.Command{
	Use:   "image <file>",
	Short: "Render a still image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := cfg.Settings()
		if err != nil {
			return err
		}
		data, err := ingest.FromImage(args[0], imageDuration, settings, cfg.IngestOptions(log)...)
		if err != nil {
			return err
		}
		return renderData(data)
	},
}

var folderCmd = &cobra.Command{
	Use:   "folder <dir>",
	Short: "Render every image in a folder as a slideshow",
	Long: `Images (jpg, jpeg, png, bmp, tiff, webp) are taken in case-insensitive
name order. Each lasts --duration seconds with --gap seconds of silence
between them. A single unreadable image fails the whole folder.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := cfg.Settings()
		if err != nil {
			return err
		}
		data, err := ingest.FromImageFolder(args[0], folderDuration, settings, folderGap, cfg.IngestOptions(log)...)
		if err != nil {
			return err
		}
		return renderData(data)
	},
}

var videoCmd = &cobra.Command{
	Use:   "video <file>",
	Short: "Render a video, stretched to its own duration",
	Long: `Each output frame takes one column of the nearest video frame, so the
audio is exactly as long as the video whatever its frame rate.
Requires ffmpeg and ffprobe on PATH.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := cfg.Settings()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), videoTimeout)
		defer cancel()

		fmt.Println("🎬 Decoding video...")
		data, err := ingest.FromVideo(ctx, args[0], settings, cfg.IngestOptions(log)...)
		if err != nil {
			return err
		}
		return renderData(data)
	},
}

var arrayCmd = &cobra.Command{
	Use:   "array <file.npy>",
	Short: "Render a painted .npy array",
	Long: `Loads a 2-D .npy array drawn with row 0 at the top of the canvas.
Its height must equal --resolution.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := cfg.Settings()
		if err != nil {
			return err
		}
		data, err := ingest.FromNPY(args[0], settings)
		if err != nil {
			return err
		}
		return renderData(data)
	},
}

func init() {
	imageCmd.Flags().Float64VarP(&imageDuration, "duration", "d", 5, "seconds of audio for the image")
	addOutputFlag(imageCmd)

	folderCmd.Flags().Float64VarP(&folderDuration, "duration", "d", 2, "seconds per image")
	folderCmd.Flags().Float64VarP(&folderGap, "gap", "g", 0, "seconds of silence between images")
	addOutputFlag(folderCmd)

	videoCmd.Flags().DurationVar(&videoTimeout, "timeout", 10*time.Minute, "limit for probing and decoding")
	addOutputFlag(videoCmd)

	addOutputFlag(arrayCmd)

	rootCmd.AddCommand(imageCmd, folderCmd, videoCmd, arrayCmd)
}
