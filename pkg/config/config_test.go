package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestDecodeEmptyKeepsDefaults(t *testing.T) {
	c, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestDecodeOverrides(t *testing.T) {
	c, err := Decode(strings.NewReader(`
engine:
  timeout: 250ms
  samples: 128
render:
  width: 800
  line_width: 1.5
log:
  level: debug
`))
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, c.Engine.Timeout)
	assert.Equal(t, 128, c.Engine.Samples)
	assert.Equal(t, 800, c.Render.Width)
	assert.Equal(t, 512, c.Render.Height)
	assert.Equal(t, 1.5, c.Render.LineWidth)
	assert.Equal(t, "debug", c.Log.Level)
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	_, err := Decode(strings.NewReader("engine:\n  sample: 3\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero timeout", func(c *Config) { c.Engine.Timeout = 0 }, "engine.timeout"},
		{"few samples", func(c *Config) { c.Engine.Samples = 2 }, "engine.samples"},
		{"too many samples", func(c *Config) { c.Engine.Samples = 1 << 20 }, "engine.samples"},
		{"no width", func(c *Config) { c.Render.Width = 0 }, "render size"},
		{"huge margin", func(c *Config) { c.Render.Margin = 300 }, "render.margin"},
		{"no line", func(c *Config) { c.Render.LineWidth = 0 }, "line_width"},
		{"bad level", func(c *Config) { c.Log.Level = "chatty" }, "log.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contour.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine:\n  samples: 16\n"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 16, c.Engine.Samples)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
