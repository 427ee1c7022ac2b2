package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-galaxy/internal/astro"
	"github.com/litescript/ls-galaxy/internal/lod"
)

func TestDefault_Valid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestParse_OverridesDefaults(t *testing.T) {
	data := []byte(`
catalog: stars.csv
catalog_timeout: 5s
render:
  size_multiplier: 4
  density: 0.5
simulation:
  paused: true
lod:
  policy: full
camera:
  focus: center
  distance: 20000
`)
	cfg, err := Parse(data)
	require.NoError(t, err)

	want := Default()
	want.Catalog = "stars.csv"
	want.CatalogTimeout = 5 * time.Second
	want.Render.SizeMultiplier = 4
	want.Render.Density = 0.5
	want.Simulation.Paused = true
	want.LOD.Policy = "full"
	want.Camera.Focus = FocusCenter
	want.Camera.Distance = 20000

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_UnknownKey(t *testing.T) {
	_, err := Parse([]byte("render:\n  sise_multiplier: 2\n"))
	assert.Error(t, err)
}

func TestParse_BadYAML(t *testing.T) {
	_, err := Parse([]byte("render: [unclosed"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero size", func(c *Config) { c.Render.SizeMultiplier = 0 }},
		{"zero catalog timeout", func(c *Config) { c.CatalogTimeout = 0 }},
		{"opacity above one", func(c *Config) { c.Render.BackgroundOpacity = 1.5 }},
		{"negative density", func(c *Config) { c.Render.Density = -0.1 }},
		{"speed range inverted", func(c *Config) { c.Simulation.MaxSpeed = c.Simulation.MinSpeed / 2 }},
		{"slider out of range", func(c *Config) { c.Simulation.InitialSlider = 101 }},
		{"unknown policy", func(c *Config) { c.LOD.Policy = "sometimes" }},
		{"lod range inverted", func(c *Config) { c.LOD.FarDistance = 1 }},
		{"bad focus", func(c *Config) { c.Camera.Focus = "vega" }},
		{"fov", func(c *Config) { c.Camera.FOV = 180 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid), "error %v should wrap ErrInvalid", err)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "galaxy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("render:\n  background_opacity: 0\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Zero(t, cfg.Render.BackgroundOpacity)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, os.WriteFile(path, []byte("render:\n  density: 7\n"), 0o644))
	_, err = Load(path)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestWriteYAML_RoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Catalog = "https://example.com/stars.csv"
	cfg.LOD.Policy = "full"
	cfg.CatalogTimeout = 90 * time.Second

	var buf bytes.Buffer
	require.NoError(t, cfg.WriteYAML(&buf))

	got, err := Parse(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestConversions(t *testing.T) {
	cfg := Default()
	cfg.LOD.Policy = "full"
	cfg.Render.Density = 0.4
	cfg.Observer = ObserverConfig{X: 1, Y: 2, Z: 3}

	sc := cfg.StateConfig()
	assert.Equal(t, lod.PolicyFull, sc.Render.LOD)
	assert.Equal(t, 0.4, sc.Render.Density)
	assert.Equal(t, cfg.Simulation.MaxSpeed, sc.MaxSpeed)

	p := cfg.StarfieldParams()
	assert.Equal(t, astro.Vec3{X: 1, Y: 2, Z: 3}, p.ObserverOffset)
	assert.Equal(t, cfg.Simulation.AngularVelocity, p.AngularVelocity)

	s := lod.NewSelector(lod.PolicyDistance, 100, cfg.LODOptions()...)
	count, _ := s.Select(cfg.LOD.FarDistance, 1)
	assert.Equal(t, 2, count)
}
