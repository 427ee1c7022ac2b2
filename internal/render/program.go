// Package render implements the per-star orbital render program, its parallel
// dispatch, and rasterization into a terminal framebuffer.
//
// The program is a pure function of one star's static attributes and a small
// per-frame uniform set. No star's output depends on another star, so the
// pipeline may evaluate stars in any order and in parallel.
package render

import (
	"math"

	"github.com/chewxy/math32"

	"github.com/litescript/ls-galaxy/internal/astro"
)

const (
	// MinPointSize is the floor on screen point size in pixels.
	MinPointSize = 1

	// maxPointSize bounds close-up discs so sizes stay finite in float32.
	maxPointSize = 1 << 20

	// MinViewDistance floors the brightness falloff distance (parsecs).
	MinViewDistance = 1e-9

	// Disc edge: fully opaque inside discInner, smooth falloff to discOuter.
	discInner = 0.45
	discOuter = 0.5
)

// Usage hints how a buffer is updated. Per-star buffers are only ever
// static; everything that changes per frame travels in Uniforms.
type Usage int

// UsageStatic buffers are written once and never changed after upload.
const UsageStatic Usage = 0

func (u Usage) String() string {
	switch u {
	case UsageStatic:
		return "static"
	default:
		return "unknown"
	}
}

// StarAttributes are one star's static inputs. Geometry stays float64 so a
// star 8 kpc from the origin can still be approached to a few stellar radii;
// photometric attributes use device float32.
type StarAttributes struct {
	PositionY       float64    // height above the galactic plane, pc
	OrbitalRadius   float64    // distance from the rotation axis, pc
	InitialAngle    float64    // azimuth at load time, radians
	AngularVelocity float32    // radians per simulation year
	AbsoluteMag     float32    // absolute magnitude
	Color           [3]float32 // linear RGB in [0, 1]
}

// AttributeSource exposes per-star attribute slots by index.
type AttributeSource interface {
	Count() int
	Attributes(i int) StarAttributes
}

// Uniforms is the per-frame state shared by every star.
type Uniforms struct {
	// Time is accumulated simulation time in years. The time scale has
	// already been folded in by the clock.
	Time float64
	// TimeScale is carried for display; the program does not apply it.
	TimeScale float64

	ReferenceRadius float64 // pc, stellar radius used for point sizing
	SizeMultiplier  float64 // user point size factor
	ViewportHeight  float64 // pixels
	BrightnessScale float32 // luminosity -> alpha factor

	View       Mat4
	Projection Mat4
}

// VertexOut is the program's per-star output.
type VertexOut struct {
	Clip       [4]float64 // clip-space position
	View       astro.Vec3 // view-space position
	Distance   float64    // view-space distance, pc
	PointSize  float32    // pixels, >= MinPointSize
	Brightness float32    // alpha factor in [0, 1]
	Color      [3]float32
	Visible    bool // in front of the camera and between the clip planes
}

// NDC returns normalized device coordinates of the vertex.
func (v VertexOut) NDC() (x, y float64) {
	return v.Clip[0] / v.Clip[3], v.Clip[1] / v.Clip[3]
}

// OrbitalPosition evaluates the rigid-rotation position of a star at time t.
func OrbitalPosition(a StarAttributes, t float64) astro.Vec3 {
	angle := a.InitialAngle + float64(a.AngularVelocity)*t
	return astro.Vec3{
		X: a.OrbitalRadius * math.Cos(angle),
		Y: a.PositionY,
		Z: a.OrbitalRadius * math.Sin(angle),
	}
}

// VertexProgram computes one star's current position, brightness and point
// size. It reads nothing but its arguments.
func VertexProgram(a StarAttributes, u Uniforms) VertexOut {
	world := OrbitalPosition(a, u.Time)
	view := u.View.MulPoint(world)
	dist := view.Norm()
	depth := -view.Z

	clip := u.Projection.MulVec4([4]float64{view.X, view.Y, view.Z, 1})

	return VertexOut{
		Clip:       clip,
		View:       view,
		Distance:   dist,
		PointSize:  PointSize(u.ReferenceRadius, u.SizeMultiplier, u.ViewportHeight, depth),
		Brightness: Brightness(a.AbsoluteMag, dist, u.BrightnessScale),
		Color:      a.Color,
		Visible:    depth > 0 && clip[3] > 0 && clip[2] >= -clip[3] && clip[2] <= clip[3],
	}
}

// Brightness applies the inverse-square law to a star's luminosity:
//
//	clamp(10^(-0.4*M) * scale / max(d, eps)^2, 0, 1)
func Brightness(absMag float32, distance float64, scale float32) float32 {
	if scale <= 0 {
		return 0
	}
	if math.IsNaN(distance) || distance < MinViewDistance {
		distance = MinViewDistance
	}
	d := float32(distance)

	lum := math32.Pow(10, -0.4*absMag)
	b := lum * scale / (d * d)

	switch {
	case math32.IsNaN(b):
		return 0
	case b > 1:
		return 1
	case b < 0:
		return 0
	}
	return b
}

// PointSize is the perspective-correct screen diameter of a star, floored at
// MinPointSize so no star disappears.
func PointSize(referenceRadius, sizeMultiplier, viewportHeight, depth float64) float32 {
	if depth <= 0 {
		return MinPointSize
	}
	diameter := 2 * referenceRadius * sizeMultiplier
	s := diameter * viewportHeight / depth

	// !(s >= min) also catches NaN
	if !(s >= MinPointSize) {
		return MinPointSize
	}
	if s > maxPointSize {
		return maxPointSize
	}
	return float32(s)
}

// Fragment is a shaded sample with straight alpha.
type Fragment struct {
	R, G, B, A float32
}

// FragmentProgram shades one sample of a point sprite. pointCoord is the
// sample position inside the point square, each axis in [0, 1]. Samples
// outside the inscribed disc are discarded (ok = false).
func FragmentProgram(pointCoord [2]float32, color [3]float32, brightness float32) (f Fragment, ok bool) {
	dx := pointCoord[0] - 0.5
	dy := pointCoord[1] - 0.5
	r := math32.Sqrt(dx*dx + dy*dy)
	if r > discOuter {
		return Fragment{}, false
	}

	disc := 1 - smoothstep(discInner, discOuter, r)
	return Fragment{
		R: color[0],
		G: color[1],
		B: color[2],
		A: disc * brightness,
	}, true
}

func smoothstep(edge0, edge1, x float32) float32 {
	t := (x - edge0) / (edge1 - edge0)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return t * t * (3 - 2*t)
}
