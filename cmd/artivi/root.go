package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/LW-54/ARTIVI-4/internal/config"
	"github.com/LW-54/ARTIVI-4/pkg/logger"
	"github.com/LW-54/ARTIVI-4/pkg/spectro"
)

var (
	configFile string
	outputPath string
	noColor    bool

	v   *viper.Viper
	cfg *config.Config
	log *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "artivi",
	Short: "Turn images, video and paintings into sound",
	Long: `artivi reads pixel brightness as spectral magnitude: the bottom of a
picture is the lowest frequency, left to right is time. The phase is
recovered with Griffin-Lim and the result is written as a PCM WAV file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
	Run: func(cmd *cobra.Command, args []string) {
		printBanner()
		_ = cmd.Help()
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

// flagKeys maps persistent flags to config keys.
var flagKeys = map[string]string{
	"log-level":   "log_level",
	"resolution":  "resolution",
	"sample-rate": "sample_rate",
	"hop-length":  "hop_length",
	"iterations":  "render.iterations",
	"momentum":    "render.momentum",
	"seed":        "render.seed",
	"random-init": "render.random_init",
	"device":      "render.device",
	"workers":     "render.workers",
	"channels":    "render.channels",
	"bit-depth":   "render.bit_depth",
	"peak":        "render.peak",
	"scale":       "ingest.scale",
	"contrast":    "ingest.contrast",
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "",
		"config file (default searches ./artivi.yaml, ./configs, $HOME/.config/artivi)")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.BoolVar(&noColor, "no-color", false, "disable colored log output")

	pf.Int("resolution", spectro.DefaultResolution, "frequency bins (image height)")
	pf.Int("sample-rate", spectro.DefaultSampleRate, "output sample rate in Hz")
	pf.Int("hop-length", spectro.DefaultHopLength, "samples per spectral frame")

	pf.Int("iterations", 32, "Griffin-Lim iterations")
	pf.Float64("momentum", 0.99, "fast Griffin-Lim momentum (0 = classic)")
	pf.Uint64("seed", 0, "random phase seed")
	pf.Bool("random-init", true, "start from random phase instead of zero")
	pf.String("device", "auto", "transform device (auto, cpu, parallel)")
	pf.Int("workers", 0, "parallel device workers (0 = one per CPU)")
	pf.Int("channels", 1, "output channels")
	pf.Int("bit-depth", 16, "output bit depth (8, 16, 24, 32)")
	pf.Float64("peak", 0.99, "peak level as a fraction of full scale")

	pf.String("scale", "linear", "intensity to magnitude scale (linear, log)")
	pf.Float64("contrast", 1.5, "contrast stretch around mid-grey")
}

// initializeConfig builds the viper instance, binds the flags that were
// set on the command line and loads the validated config.
func initializeConfig(cmd *cobra.Command) error {
	v = config.New(configFile)
	if err := config.Read(v); err != nil {
		return err
	}
	if err := bindFlags(cmd.Flags(), v); err != nil {
		return err
	}

	var err error
	cfg, err = config.Load(v)
	if err != nil {
		return err
	}

	level, _ := logger.ParseLevel(cfg.LogLevel)
	logger.SetLevel(level)
	logger.SetColorize(!noColor && os.Getenv("NO_COLOR") == "")
	log = logger.GetLogger()
	if used := v.ConfigFileUsed(); used != "" {
		log.Debugf("using config file %s", used)
	}
	return nil
}

func bindFlags(flags *pflag.FlagSet, v *viper.Viper) error {
	var lastErr error
	flags.VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || !f.Changed {
			return
		}
		if err := v.BindPFlag(key, f); err != nil {
			lastErr = err
		}
	})
	return lastErr
}

func printBanner() {
	banner := `
    _         _   _       _ 
   / \   _ __| |_(_)_   _(_)
  / _ \ | '__| __| \ \ / / |
 / ___ \| |  | |_| |\ V /| |
/_/   \_\_|   \__|_| \_/ |_|

      pictures you can hear
`
	fmt.Println(banner)
}
