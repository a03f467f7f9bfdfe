package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/LW-54/ARTIVI-4/pkg/logger"
	"github.com/LW-54/ARTIVI-4/pkg/spectro"
	"github.com/LW-54/ARTIVI-4/pkg/spectro/ingest"
	"github.com/LW-54/ARTIVI-4/pkg/spectro/render"
)

// EnvPrefix prefixes environment overrides, e.g. ARTIVI_RENDER_ITERATIONS.
const EnvPrefix = "ARTIVI"

// Config is the full run configuration.
type Config struct {
	Resolution int    `mapstructure:"resolution"`
	SampleRate int    `mapstructure:"sample_rate"`
	HopLength  int    `mapstructure:"hop_length"`
	LogLevel   string `mapstructure:"log_level"`

	Render RenderConfig `mapstructure:"render"`
	Ingest IngestConfig `mapstructure:"ingest"`
}

// RenderConfig holds Griffin-Lim and output file settings.
type RenderConfig struct {
	Iterations int     `mapstructure:"iterations"`
	Momentum   float64 `mapstructure:"momentum"`
	Seed       uint64  `mapstructure:"seed"`
	RandomInit bool    `mapstructure:"random_init"`
	Device     string  `mapstructure:"device"`
	Workers    int     `mapstructure:"workers"`
	Channels   int     `mapstructure:"channels"`
	BitDepth   int     `mapstructure:"bit_depth"`
	Peak       float64 `mapstructure:"peak"`
}

// IngestConfig holds the pixel to magnitude mapping.
type IngestConfig struct {
	Scale    string  `mapstructure:"scale"`
	Contrast float64 `mapstructure:"contrast"`
}

// SetDefaults registers every key with its default value.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("resolution", spectro.DefaultResolution)
	v.SetDefault("sample_rate", spectro.DefaultSampleRate)
	v.SetDefault("hop_length", spectro.DefaultHopLength)
	v.SetDefault("log_level", "info")

	v.SetDefault("render.iterations", render.DefaultIterations)
	v.SetDefault("render.momentum", render.DefaultMomentum)
	v.SetDefault("render.seed", 0)
	v.SetDefault("render.random_init", true)
	v.SetDefault("render.device", "auto")
	v.SetDefault("render.workers", 0)
	v.SetDefault("render.channels", 1)
	v.SetDefault("render.bit_depth", render.DefaultBitDepth)
	v.SetDefault("render.peak", render.DefaultPeak)

	v.SetDefault("ingest.scale", "linear")
	v.SetDefault("ingest.contrast", 1.5)
}

// New returns a viper instance with defaults, environment overrides and
// the config search path set up. file, if non-empty, is used instead of
// searching for artivi.yaml.
func New(file string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("artivi")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "artivi"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

// Read loads the config file if one is found. A missing file is not an
// error when searching; an explicit file that cannot be read is.
func Read(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that the library constructors would otherwise
// reject later, so a bad config fails before any media is read.
func (c *Config) Validate() error {
	if _, err := c.Settings(); err != nil {
		return err
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if _, ok := ingest.ParseScale(c.Ingest.Scale); !ok {
		return fmt.Errorf("ingest.scale: unknown scale %q: want linear or log", c.Ingest.Scale)
	}
	if c.Ingest.Contrast <= 0 {
		return fmt.Errorf("ingest.contrast must be positive, got %v", c.Ingest.Contrast)
	}
	if c.Render.Iterations < 0 {
		return fmt.Errorf("render.iterations must not be negative, got %d", c.Render.Iterations)
	}
	if _, err := render.ParseDevice(c.Render.Device, c.Render.Workers); err != nil {
		return fmt.Errorf("render.device: %w", err)
	}
	return nil
}

// Settings builds the spectral settings.
func (c *Config) Settings() (*spectro.Settings, error) {
	return spectro.NewSettings(c.Resolution, c.SampleRate, c.HopLength)
}

// IngestOptions converts the ingest section to library options.
func (c *Config) IngestOptions(log spectro.Logger) []ingest.Option {
	scale, _ := ingest.ParseScale(c.Ingest.Scale)
	return []ingest.Option{
		ingest.WithScale(scale),
		ingest.WithContrast(c.Ingest.Contrast),
		ingest.WithLogger(log),
	}
}

// NewRenderer builds a renderer from the render section.
func (c *Config) NewRenderer(log spectro.Logger) (*render.Renderer, error) {
	dev, err := render.ParseDevice(c.Render.Device, c.Render.Workers)
	if err != nil {
		return nil, err
	}
	return render.NewRenderer(
		render.WithIterations(c.Render.Iterations),
		render.WithMomentum(c.Render.Momentum),
		render.WithSeed(c.Render.Seed),
		render.WithRandomInit(c.Render.RandomInit),
		render.WithDevice(dev),
		render.WithChannels(c.Render.Channels),
		render.WithBitDepth(c.Render.BitDepth),
		render.WithPeak(c.Render.Peak),
		render.WithLogger(log),
	)
}
