// Package config loads and validates the fixturegen TOML configuration.
//
// A missing file is not an error: [Load] returns [DefaultConfig] so the
// generator runs with no setup. Command-line flags are applied on top of
// the loaded values by the caller.
package config

//go:generate go run ../../cmd/genconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	"tools.zach/dev/fixturegen/internal/atomicfile"
	"tools.zach/dev/fixturegen/internal/fontsrc"
	"tools.zach/dev/fixturegen/internal/generate"
	"tools.zach/dev/fixturegen/internal/logger"
	"tools.zach/dev/fixturegen/internal/paths"
	"tools.zach/dev/fixturegen/internal/render"
)

// ///////////////////////////////////////////////
// Configuration Types
// ///////////////////////////////////////////////

// Config represents the top-level configuration.
type Config struct {
	// Generate holds run parameters.
	Generate GenerateConfig `toml:"generate"`
	// Fonts holds font source settings.
	Fonts FontsConfig `toml:"fonts"`
	// Log holds logging settings.
	Log LogConfig `toml:"log"`
}

// GenerateConfig holds the parameters of one generation run.
type GenerateConfig struct {
	// Count is the number of images to produce.
	Count int `toml:"count"`
	// OutDir is the output directory, relative to the working directory.
	OutDir string `toml:"out_dir"`
	// MinDim and MaxDim bound width and height, inclusive.
	MinDim int `toml:"min_dim"`
	MaxDim int `toml:"max_dim"`
	// Color is the label color as #RRGGBB or #RRGGBBAA.
	Color string `toml:"color"`
	// Workers bounds concurrency; 0 means one per CPU.
	Workers int `toml:"workers"`
	// Seed fixes the size sequence; 0 seeds from the clock.
	Seed uint64 `toml:"seed"`
}

// FontsConfig holds font source settings.
type FontsConfig struct {
	// Preference is tried before Candidates when set.
	Preference string `toml:"preference,omitempty"`
	// Candidates are tried in order.
	Candidates []string `toml:"candidates"`
	// CacheDir stores downloaded fonts. Relative paths resolve against OutDir.
	CacheDir string `toml:"cache_dir"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is the minimum log level (trace, debug, info, warn, error).
	Level string `toml:"level"`
	// File additionally receives log output when set.
	File string `toml:"file,omitempty"`
	// MaxSizeMB is the log file size in megabytes before rotation.
	MaxSizeMB int `toml:"max_size_mb"`
}

// ///////////////////////////////////////////////
// Default Configuration
// ///////////////////////////////////////////////

// DefaultConfig returns a Config populated with the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Generate: GenerateConfig{
			Count:   20,
			OutDir:  paths.DefaultOutDir,
			MinDim:  50,
			MaxDim:  500,
			Color:   render.FormatColor(render.DefaultColor),
			Workers: 0,
			Seed:    0,
		},
		Fonts: FontsConfig{
			Candidates: append([]string(nil), fontsrc.DefaultCandidates...),
			CacheDir:   paths.FontCacheDir,
		},
		Log: LogConfig{
			Level:     "info",
			MaxSizeMB: 10,
		},
	}
}

// ExampleConfig returns a Config suitable for generating config.default.toml.
func ExampleConfig() *Config {
	return DefaultConfig()
}

// ///////////////////////////////////////////////
// Loading and Saving
// ///////////////////////////////////////////////

// Load reads and parses the configuration file at path. Keys absent from
// the file keep their defaults. If the file doesn't exist, returns
// DefaultConfig.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes TOML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return nil, fmt.Errorf("parse config: unknown key %q", undec[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Save writes the config to disk as TOML using atomic file write.
func (c *Config) Save(path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return atomicfile.Write(path, buf.Bytes(), 0o644)
}

// ///////////////////////////////////////////////
// Validation
// ///////////////////////////////////////////////

// Validate checks that all configuration values are within acceptable ranges.
func (c *Config) Validate() error {
	g := c.Generate
	if g.Count <= 0 {
		return fmt.Errorf("generate.count must be > 0, got %d", g.Count)
	}
	if g.OutDir == "" {
		return errors.New("generate.out_dir must not be empty")
	}
	if g.MinDim <= 0 {
		return fmt.Errorf("generate.min_dim must be > 0, got %d", g.MinDim)
	}
	if g.MinDim > g.MaxDim {
		return fmt.Errorf("generate.min_dim %d exceeds generate.max_dim %d", g.MinDim, g.MaxDim)
	}
	if g.Workers < 0 {
		return fmt.Errorf("generate.workers must be >= 0, got %d", g.Workers)
	}
	if _, err := render.ParseColor(g.Color); err != nil {
		return fmt.Errorf("invalid generate.color: %w", err)
	}

	if len(c.Fonts.Candidates) == 0 && c.Fonts.Preference == "" {
		return errors.New("fonts.candidates must not be empty without fonts.preference")
	}
	for _, spec := range c.Fonts.Candidates {
		if spec == "" {
			return errors.New("fonts.candidates must not contain empty entries")
		}
	}

	if !logger.ValidLevel(c.Log.Level) {
		return fmt.Errorf("invalid log.level %q: must be trace, debug, info, warn, or error", c.Log.Level)
	}
	if c.Log.MaxSizeMB < 0 {
		return fmt.Errorf("log.max_size_mb must be >= 0, got %d", c.Log.MaxSizeMB)
	}
	return nil
}

// ///////////////////////////////////////////////
// Run Options
// ///////////////////////////////////////////////

// FontCacheDir resolves the cache directory. Relative paths live under the
// output directory; an empty value disables caching.
func (c *Config) FontCacheDir() string {
	return paths.OutputDir{Root: c.Generate.OutDir}.Resolve(c.Fonts.CacheDir)
}

// Options maps the configuration onto a generation run. The caller sets
// Logger. Color must already be valid; see [Config.Validate].
func (c *Config) Options() (generate.Options, error) {
	clr, err := render.ParseColor(c.Generate.Color)
	if err != nil {
		return generate.Options{}, fmt.Errorf("%w: %v", generate.ErrInvalidInput, err)
	}
	opts := generate.Options{
		Count:          c.Generate.Count,
		OutDir:         c.Generate.OutDir,
		MinDim:         c.Generate.MinDim,
		MaxDim:         c.Generate.MaxDim,
		FontPreference: c.Fonts.Preference,
		FontCandidates: c.Fonts.Candidates,
		FontCacheDir:   c.FontCacheDir(),
		Color:          clr,
		Workers:        c.Generate.Workers,
	}
	if c.Generate.Seed != 0 {
		opts.Rand = generate.NewRand(c.Generate.Seed)
	}
	return opts, nil
}
