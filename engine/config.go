package engine

import (
	"fmt"
	"os"
	"runtime"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spaghettifunk/citymesh/engine/core"
	"github.com/spaghettifunk/citymesh/engine/math"
	"github.com/spaghettifunk/citymesh/engine/metadata"
	"github.com/spaghettifunk/citymesh/engine/systems"
)

const (
	EnvConfigPath = "CITYMESH_CONFIG"
	EnvLogLevel   = "CITYMESH_LOG_LEVEL"
)

// Config is the engine configuration, usually read from a TOML file:
//
//	name = "delft"
//	log_level = "debug"
//	workers = 8
//	error_policy = "abort"
//	variants = [0, 2]
//	watch_dir = "data"
//	metrics_addr = ":9090"
//
//	[palette]
//	RoofSurface = [1.0, 0.0, 0.0, 1.0]
type Config struct {
	// The application name used in log output.
	Name string `toml:"name"`
	// One of debug, info, warn, error.
	LogLevel string `toml:"log_level"`
	// Size of the decode worker pool.
	Workers int `toml:"workers"`
	// Capacity of the job queue.
	QueueSize int `toml:"queue_size"`
	// Either "accumulate" or "abort".
	ErrorPolicy string `toml:"error_policy"`
	// Geometry variants to decode. Empty decodes all of them.
	Variants []int `toml:"variants"`
	// Base path relative document names are resolved against.
	AssetBasePath string `toml:"asset_base_path"`
	// Directory watched for changed documents in watch mode.
	WatchDir string `toml:"watch_dir"`
	// Address the Prometheus metrics are served on in watch mode. Empty disables it.
	MetricsAddr string `toml:"metrics_addr"`
	// A palette TOML file with material overrides.
	PaletteFile string `toml:"palette_file"`
	// Diffuse colour overrides keyed by semantic surface type.
	Palette map[string][4]float32 `toml:"palette"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:        "citymesh",
		LogLevel:    "info",
		Workers:     runtime.NumCPU(),
		QueueSize:   64,
		ErrorPolicy: systems.ErrorPolicyAccumulate.String(),
	}
}

// LoadConfig reads a TOML file over the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %s", path)
	}
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", path)
	}
	return cfg, nil
}

// ApplyEnv overrides settings from the environment.
func (c *Config) ApplyEnv() {
	if level, ok := os.LookupEnv(EnvLogLevel); ok && level != "" {
		c.LogLevel = level
	}
}

func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.QueueSize < 0 {
		return fmt.Errorf("queue_size must not be negative, got %d", c.QueueSize)
	}
	if _, err := systems.ParseErrorPolicy(c.ErrorPolicy); err != nil {
		return err
	}
	for _, v := range c.Variants {
		if v < 0 {
			return fmt.Errorf("variants must not be negative, got %d", v)
		}
	}
	for surface, colour := range c.Palette {
		for _, channel := range colour {
			if math.Clamp(channel, 0, 1) != channel {
				return fmt.Errorf("palette colour of '%s' must be between 0.0 and 1.0", surface)
			}
		}
	}
	return nil
}

// systemsConfig turns the configuration into what the system manager needs.
func (c *Config) systemsConfig() (systems.SystemManagerConfig, error) {
	policy, err := systems.ParseErrorPolicy(c.ErrorPolicy)
	if err != nil {
		return systems.SystemManagerConfig{}, err
	}
	overrides := make(map[metadata.SurfaceClass]metadata.MaterialConfig, len(c.Palette))
	for surface, colour := range c.Palette {
		class := metadata.ClassifySurface(surface)
		if class == metadata.SurfaceClassUnclassified && surface != metadata.DefaultMaterialName {
			core.LogWarn("palette entry '%s' is not a known surface type, it sets the default colour", surface)
		}
		overrides[class] = metadata.MaterialConfig{
			DiffuseColour: math.NewVec4(colour[0], colour[1], colour[2], colour[3]),
		}
	}
	return systems.SystemManagerConfig{
		Workers:       c.Workers,
		QueueSize:     c.QueueSize,
		AssetBasePath: c.AssetBasePath,
		Decoder: systems.DecoderSystemConfig{
			ErrorPolicy: policy,
			Variants:    c.Variants,
		},
		Materials: systems.MaterialSystemConfig{
			Overrides: overrides,
		},
	}, nil
}
