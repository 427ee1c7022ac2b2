// Package config loads the YAML configuration file. Every field has a
// default, so a file only needs to carry the values it changes.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/litescript/ls-galaxy/internal/astro"
	"github.com/litescript/ls-galaxy/internal/catalog"
	"github.com/litescript/ls-galaxy/internal/lod"
	"github.com/litescript/ls-galaxy/internal/starfield"
	"github.com/litescript/ls-galaxy/internal/state"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Focus targets for the initial camera.
const (
	FocusSun    = "sun"
	FocusCenter = "center"
)

// Config is the full configuration file.
type Config struct {
	Catalog        string           `yaml:"catalog"`
	CatalogTimeout time.Duration    `yaml:"catalog_timeout"` // HTTP sources only
	Render         RenderConfig     `yaml:"render"`
	Simulation     SimulationConfig `yaml:"simulation"`
	LOD            LODConfig        `yaml:"lod"`
	Observer       ObserverConfig   `yaml:"observer"`
	Camera         CameraConfig     `yaml:"camera"`
	Log            LogConfig        `yaml:"log"`
}

// RenderConfig holds the rendering surface and photometric constants.
type RenderConfig struct {
	SizeMultiplier    float64 `yaml:"size_multiplier"`
	BackgroundOpacity float64 `yaml:"background_opacity"`
	Density           float64 `yaml:"density"`
	BrightnessScale   float64 `yaml:"brightness_scale"`
	ReferenceRadiusPc float64 `yaml:"reference_radius_pc"`
}

// SimulationConfig holds the clock and rotation settings.
type SimulationConfig struct {
	AngularVelocity float64 `yaml:"angular_velocity"` // radians per year
	MinSpeed        float64 `yaml:"min_speed"`        // years per second
	MaxSpeed        float64 `yaml:"max_speed"`        // years per second
	InitialSlider   float64 `yaml:"initial_slider"`
	Paused          bool    `yaml:"paused"`
}

// LODConfig selects and tunes the draw-count policy.
type LODConfig struct {
	Policy       string  `yaml:"policy"`
	NearDistance float64 `yaml:"near_distance"`
	FarDistance  float64 `yaml:"far_distance"`
	MinFraction  float64 `yaml:"min_fraction"`
}

// ObserverConfig is the Sun's galactocentric position in the galactic frame.
type ObserverConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// CameraConfig is the initial camera placement.
type CameraConfig struct {
	Distance float64 `yaml:"distance"` // parsecs from the focus
	FOV      float64 `yaml:"fov"`      // vertical, degrees
	Focus    string  `yaml:"focus"`
}

// LogConfig mirrors the logging flags.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns the built-in configuration.
func Default() Config {
	sc := state.DefaultConfig()
	return Config{
		CatalogTimeout: catalog.DefaultTimeout,
		Render: RenderConfig{
			SizeMultiplier:    sc.Render.SizeMultiplier,
			BackgroundOpacity: sc.Render.BackgroundOpacity,
			Density:           sc.Render.Density,
			BrightnessScale:   1e4,
			ReferenceRadiusPc: astro.SolarRadiusParsecs,
		},
		Simulation: SimulationConfig{
			AngularVelocity: starfield.DefaultAngularVelocity,
			MinSpeed:        sc.MinSpeed,
			MaxSpeed:        sc.MaxSpeed,
			InitialSlider:   sc.InitialSlider,
		},
		LOD: LODConfig{
			Policy:       lod.PolicyDistance.String(),
			NearDistance: lod.DefaultNear,
			FarDistance:  lod.DefaultFar,
			MinFraction:  lod.DefaultMinFraction,
		},
		Observer: ObserverConfig{
			X: astro.SunGalacticPosition.X,
			Y: astro.SunGalacticPosition.Y,
			Z: astro.SunGalacticPosition.Z,
		},
		Camera: CameraConfig{
			Distance: 30,
			FOV:      60,
			Focus:    FocusSun,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges. Errors wrap ErrInvalid.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...interface{}) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalid}, args...)...))
		}
	}

	check(c.CatalogTimeout > 0, "catalog_timeout must be positive, got %v", c.CatalogTimeout)

	r := c.Render
	check(finite(r.SizeMultiplier) && r.SizeMultiplier > 0, "render.size_multiplier must be positive, got %v", r.SizeMultiplier)
	check(inUnit(r.BackgroundOpacity), "render.background_opacity must be in [0,1], got %v", r.BackgroundOpacity)
	check(inUnit(r.Density), "render.density must be in [0,1], got %v", r.Density)
	check(finite(r.BrightnessScale) && r.BrightnessScale > 0, "render.brightness_scale must be positive, got %v", r.BrightnessScale)
	check(finite(r.ReferenceRadiusPc) && r.ReferenceRadiusPc > 0, "render.reference_radius_pc must be positive, got %v", r.ReferenceRadiusPc)

	s := c.Simulation
	check(finite(s.AngularVelocity), "simulation.angular_velocity must be finite")
	check(finite(s.MinSpeed) && s.MinSpeed > 0, "simulation.min_speed must be positive, got %v", s.MinSpeed)
	check(finite(s.MaxSpeed) && s.MaxSpeed > s.MinSpeed, "simulation.max_speed must exceed min_speed, got %v", s.MaxSpeed)
	check(s.InitialSlider >= state.SliderMin && s.InitialSlider <= state.SliderMax,
		"simulation.initial_slider must be in [%d,%d], got %v", state.SliderMin, state.SliderMax, s.InitialSlider)

	l := c.LOD
	_, err := lod.ParsePolicy(l.Policy)
	check(err == nil, "lod.policy %q is not distance or full", l.Policy)
	check(l.NearDistance >= 0 && l.FarDistance > l.NearDistance, "lod.far_distance must exceed near_distance")
	check(inUnit(l.MinFraction), "lod.min_fraction must be in [0,1], got %v", l.MinFraction)

	o := c.Observer
	check(finite(o.X) && finite(o.Y) && finite(o.Z), "observer position must be finite")

	cam := c.Camera
	check(finite(cam.Distance) && cam.Distance > 0, "camera.distance must be positive, got %v", cam.Distance)
	check(cam.FOV > 0 && cam.FOV < 180, "camera.fov must be in (0,180), got %v", cam.FOV)
	check(cam.Focus == FocusSun || cam.Focus == FocusCenter, "camera.focus must be %q or %q, got %q", FocusSun, FocusCenter, cam.Focus)

	return errors.Join(errs...)
}

// WriteYAML writes the configuration as YAML.
func (c Config) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}

// StateConfig converts the file values into state manager settings.
func (c Config) StateConfig() state.Config {
	policy, _ := lod.ParsePolicy(c.LOD.Policy)
	sc := state.DefaultConfig()
	sc.MinSpeed = c.Simulation.MinSpeed
	sc.MaxSpeed = c.Simulation.MaxSpeed
	sc.InitialSlider = c.Simulation.InitialSlider
	sc.Paused = c.Simulation.Paused
	sc.Render = state.RenderConfig{
		SizeMultiplier:    c.Render.SizeMultiplier,
		BackgroundOpacity: c.Render.BackgroundOpacity,
		Density:           c.Render.Density,
		LOD:               policy,
	}
	return sc
}

// StarfieldParams returns the per-load transform constants.
func (c Config) StarfieldParams() starfield.Params {
	return starfield.Params{
		ObserverOffset:  astro.Vec3{X: c.Observer.X, Y: c.Observer.Y, Z: c.Observer.Z},
		AngularVelocity: c.Simulation.AngularVelocity,
	}
}

// LODOptions returns the selector tuning.
func (c Config) LODOptions() []lod.Option {
	return []lod.Option{
		lod.WithRange(c.LOD.NearDistance, c.LOD.FarDistance),
		lod.WithMinFraction(c.LOD.MinFraction),
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func inUnit(v float64) bool {
	return v >= 0 && v <= 1
}
