// Package config loads contour's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/chazu/contour/pkg/boundary"
	"github.com/chazu/contour/pkg/logging"
)

// Config is the top-level configuration document.
type Config struct {
	Engine EngineConfig `yaml:"engine"`
	Render RenderConfig `yaml:"render"`
	Log    LogConfig    `yaml:"log"`
}

// EngineConfig controls script evaluation.
type EngineConfig struct {
	Timeout time.Duration `yaml:"timeout"`
	Samples int           `yaml:"samples"`
}

// RenderConfig controls PNG previews.
type RenderConfig struct {
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	Margin    float64 `yaml:"margin"`
	LineWidth float64 `yaml:"line_width"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{Timeout: 5 * time.Second, Samples: 64},
		Render: RenderConfig{Width: 512, Height: 512, Margin: 24, LineWidth: 2},
		Log:    LogConfig{Level: "info"},
	}
}

// Load reads and validates the file at path. Missing keys keep their
// default values.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	c, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

// Decode reads a YAML document from r on top of Default and validates it.
// An empty document yields the defaults.
func Decode(r io.Reader) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error
	if c.Engine.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("engine.timeout must be positive, got %s", c.Engine.Timeout))
	}
	if c.Engine.Samples < 3 || c.Engine.Samples > boundary.MaxSamples {
		errs = append(errs, fmt.Errorf("engine.samples must be in [3, %d], got %d", boundary.MaxSamples, c.Engine.Samples))
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		errs = append(errs, fmt.Errorf("render size must be positive, got %dx%d", c.Render.Width, c.Render.Height))
	}
	if c.Render.Margin < 0 || 2*c.Render.Margin >= float64(min(c.Render.Width, c.Render.Height)) {
		errs = append(errs, fmt.Errorf("render.margin %g does not fit a %dx%d canvas", c.Render.Margin, c.Render.Width, c.Render.Height))
	}
	if c.Render.LineWidth <= 0 {
		errs = append(errs, fmt.Errorf("render.line_width must be positive, got %g", c.Render.LineWidth))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	return errors.Join(errs...)
}
