// Package config loads funcplotter.yaml and applies it on top of defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	funcplotter "github.com/Zaituny/FuncPlotter"
)

// FileName is looked up in the working directory when no path is given.
const FileName = "funcplotter.yaml"

// Output formats understood by the CLI.
const (
	FormatPretty = "pretty"
	FormatJSON   = "json"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config is the merged result of defaults and funcplotter.yaml.
type Config struct {
	Range  funcplotter.Range
	Format string
	Chart  Chart
	Log    Log
}

// Chart sizes the PNG output.
type Chart struct {
	Width  int
	Height int
}

// Log configures internal/logger.
type Log struct {
	Dir   string
	Debug bool
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Range:  funcplotter.Range{Start: -10, End: 10},
		Format: FormatPretty,
		Chart:  Chart{Width: 800, Height: 600},
		Log:    Log{Dir: filepath.Join(".funcplotter", "logs")},
	}
}

// Load reads path and overlays it on Default. An empty path means
// FileName in the working directory, and a missing FileName is not an
// error; a missing explicit path is.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = FileName
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(b, path)
}

// Parse overlays YAML bytes on Default. path is used in error messages.
func Parse(b []byte, path string) (Config, error) {
	cfg := Default()

	var y yamlConfig
	if err := yaml.Unmarshal(b, &y); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w: %v", path, ErrInvalidConfig, err)
	}

	p := y.FuncPlotter
	if p.Range.Start != nil {
		cfg.Range.Start = *p.Range.Start
	}
	if p.Range.End != nil {
		cfg.Range.End = *p.Range.End
	}
	if p.Output.Format != "" {
		cfg.Format = p.Output.Format
	}
	if p.Output.Width != nil {
		cfg.Chart.Width = *p.Output.Width
	}
	if p.Output.Height != nil {
		cfg.Chart.Height = *p.Output.Height
	}
	if p.Log.Dir != nil {
		cfg.Log.Dir = *p.Log.Dir
	}
	if p.Log.Debug != nil {
		cfg.Log.Debug = *p.Log.Debug
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field values. The range is not checked here: an
// inverted range is reported by the sampler like any other request.
func (c Config) Validate() error {
	switch c.Format {
	case FormatPretty, FormatJSON:
	default:
		return fmt.Errorf("%w: output.format %q (want %s|%s)", ErrInvalidConfig, c.Format, FormatPretty, FormatJSON)
	}
	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		return fmt.Errorf("%w: output size %dx%d must be positive", ErrInvalidConfig, c.Chart.Width, c.Chart.Height)
	}
	return nil
}

type yamlConfig struct {
	FuncPlotter struct {
		Range struct {
			Start *float64 `yaml:"start"`
			End   *float64 `yaml:"end"`
		} `yaml:"range"`

		Output struct {
			Format string `yaml:"format"`
			Width  *int   `yaml:"width"`
			Height *int   `yaml:"height"`
		} `yaml:"output"`

		Log struct {
			Dir   *string `yaml:"dir"`
			Debug *bool   `yaml:"debug"`
		} `yaml:"log"`
	} `yaml:"funcplotter"`
}
