// Package engine drives one rendered frame: clock, then (outside the engine)
// camera, then level of detail, uniforms, vertex dispatch and rasterization.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/litescript/ls-galaxy/internal/astro"
	"github.com/litescript/ls-galaxy/internal/lod"
	"github.com/litescript/ls-galaxy/internal/logging"
	"github.com/litescript/ls-galaxy/internal/render"
	"github.com/litescript/ls-galaxy/internal/starfield"
	"github.com/litescript/ls-galaxy/internal/state"
)

// Default photometric constants.
const (
	DefaultBrightnessScale = 1e4
	DefaultReferenceRadius = astro.SolarRadiusParsecs
)

var (
	centerColor = [3]float32{1, 0.85, 0.55}
	sunColor    = [3]float32{1, 1, 0.6}
)

// Engine owns the loaded field and per-frame scratch buffers. Frame and
// SetField must be called from the same goroutine.
type Engine struct {
	state    *state.Manager
	pipeline *render.Pipeline
	log      *logging.Logger

	referenceRadius float64
	brightnessScale float32
	lodOpts         []lod.Option
	params          starfield.Params

	field    *starfield.Field
	selector *lod.Selector
	verts    []render.VertexOut
}

// Option configures an Engine.
type Option func(*Engine)

// WithPipeline replaces the default vertex pipeline.
func WithPipeline(p *render.Pipeline) Option {
	return func(e *Engine) {
		if p != nil {
			e.pipeline = p
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *logging.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithLODOptions tunes the selector built for each field.
func WithLODOptions(opts ...lod.Option) Option {
	return func(e *Engine) {
		e.lodOpts = append(e.lodOpts, opts...)
	}
}

// WithPhotometry sets the point-size reference radius (pc) and the
// luminosity to alpha scale.
func WithPhotometry(referenceRadius, brightnessScale float64) Option {
	return func(e *Engine) {
		if referenceRadius > 0 {
			e.referenceRadius = referenceRadius
		}
		if brightnessScale > 0 {
			e.brightnessScale = float32(brightnessScale)
		}
	}
}

// WithParams sets the observer and rotation used for markers before a field
// is loaded.
func WithParams(p starfield.Params) Option {
	return func(e *Engine) {
		e.params = p
	}
}

// New creates an engine reading clock and render settings from st.
func New(st *state.Manager, opts ...Option) *Engine {
	e := &Engine{
		state:           st,
		pipeline:        render.NewPipeline(),
		log:             logging.Discard(),
		referenceRadius: DefaultReferenceRadius,
		brightnessScale: DefaultBrightnessScale,
		params:          starfield.DefaultParams(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetField swaps in a newly built field. A nil field returns the engine to
// the empty scene.
func (e *Engine) SetField(f *starfield.Field) {
	e.field = f
	e.verts = e.verts[:0]
	if f == nil {
		e.selector = nil
		return
	}
	e.params = f.Params
	e.selector = lod.NewSelector(e.state.Render().LOD, f.Len(), e.lodOpts...)
	e.log.Debug("field replaced: %d stars", f.Len())
}

// Field returns the current field, or nil before the first load.
func (e *Engine) Field() *starfield.Field {
	return e.field
}

// SunPosition returns the observer's render-frame position at simulation
// time t. The Sun rotates with the stars.
func (e *Engine) SunPosition(t float64) astro.Vec3 {
	pos := astro.GalacticToRender(e.params.ObserverOffset)
	r, angle := astro.HorizontalPolar(pos)
	return render.OrbitalPosition(render.StarAttributes{
		PositionY:       pos.Y,
		OrbitalRadius:   r,
		InitialAngle:    angle,
		AngularVelocity: float32(e.params.AngularVelocity),
	}, t)
}

// FrameStats describes one rendered frame.
type FrameStats struct {
	Sim        state.SimState
	Total      int  // stars in the field
	DrawCount  int  // LOD draw range length
	Drawn      int  // points that touched the framebuffer
	LODChanged bool // draw range moved this frame
	Duration   time.Duration
}

// Frame advances the clock by delta wall-clock seconds and renders the scene
// seen by cam into fb. Callers whose camera follows a moving body use Advance
// and Render separately, updating the camera in between.
func (e *Engine) Frame(ctx context.Context, delta float64, cam render.Camera, fb *render.Framebuffer) (FrameStats, error) {
	return e.Render(ctx, e.Advance(delta), cam, fb)
}

// Advance steps the simulation clock by delta wall-clock seconds.
func (e *Engine) Advance(delta float64) state.SimState {
	return e.state.Advance(delta)
}

// Render draws the scene at the clock state sim, as returned by Advance.
func (e *Engine) Render(ctx context.Context, sim state.SimState, cam render.Camera, fb *render.Framebuffer) (FrameStats, error) {
	start := time.Now()

	rc := e.state.Render()
	stats := FrameStats{Sim: sim, Total: e.field.Len()}

	// level of detail
	if e.selector != nil {
		e.selector.SetPolicy(rc.LOD)
		count, changed := e.selector.Select(cam.DistanceFromOrigin(), rc.Density)
		stats.DrawCount = count
		stats.LODChanged = changed
		if changed {
			e.log.Debug("lod %s: drawing %d of %d", rc.LOD, count, e.selector.Total())
		}
	}

	// uniforms
	view := cam.ViewMatrix()
	proj := cam.ProjectionMatrix()
	u := render.Uniforms{
		Time:            sim.Time,
		TimeScale:       sim.TimeScale,
		ReferenceRadius: e.referenceRadius,
		SizeMultiplier:  rc.SizeMultiplier,
		ViewportHeight:  float64(fb.Height),
		BrightnessScale: e.brightnessScale,
		View:            view,
		Projection:      proj,
	}

	// draw
	fb.Clear([3]float32{})
	render.DrawHaze(fb, view, proj, u.ViewportHeight, rc.BackgroundOpacity)

	if e.field != nil && stats.DrawCount > 0 {
		_, count := e.selector.DrawRange()
		verts, err := e.pipeline.Run(ctx, e.field.Buffers, count, u, e.verts)
		if err != nil {
			return stats, fmt.Errorf("vertex pass: %w", err)
		}
		e.verts = verts
		stats.Drawn = render.Rasterize(fb, verts)
	}

	render.DrawMarkers(fb, view, proj, e.Markers(sim.Time))

	stats.Duration = time.Since(start)
	return stats, nil
}

// Markers returns the fixed scene points at simulation time t.
func (e *Engine) Markers(t float64) []render.Marker {
	return []render.Marker{
		{Name: "Galactic center", Position: astro.Vec3{}, Color: centerColor, Size: 3},
		{Name: "Sun", Position: e.SunPosition(t), Color: sunColor, Size: 2},
	}
}
