package render

import (
	"math"

	"github.com/litescript/ls-galaxy/internal/astro"
)

// Camera is what the render program and LOD selector need from navigation.
// Implementations must not be mutated by the renderer.
type Camera interface {
	ViewMatrix() Mat4
	ProjectionMatrix() Mat4
	DistanceFromOrigin() float64
}

const (
	// MinCameraDistance lets the camera sit a few stellar radii from a star.
	MinCameraDistance = 1e-8 // pc

	// MaxCameraDistance frames the whole disc and halo.
	MaxCameraDistance = 1e6 // pc

	// nearRatio places the near plane at a fixed fraction of the orbit
	// distance, so depth range follows the zoom level instead of being pinned
	// to one scale.
	nearRatio = 1e-3

	// farReach is added to the orbit distance; it covers the galaxy from any
	// vantage point.
	farReach = 2e5 // pc

	maxPitch = math.Pi/2 - 1e-3
)

// OrbitCamera orbits a target point at a given distance. Yaw turns about the
// render Y (galactic rotation) axis, pitch tilts toward it.
type OrbitCamera struct {
	Target   astro.Vec3
	Yaw      float64 // radians
	Pitch    float64 // radians
	Distance float64 // parsecs from Target
	FOV      float64 // vertical field of view, degrees
	Aspect   float64 // width / height
}

// NewOrbitCamera returns a camera looking at target from distance.
func NewOrbitCamera(target astro.Vec3, distance float64) *OrbitCamera {
	c := &OrbitCamera{
		Target: target,
		Pitch:  0.35,
		FOV:    60,
		Aspect: 1,
	}
	c.SetDistance(distance)
	return c
}

// Eye returns the camera position.
func (c *OrbitCamera) Eye() astro.Vec3 {
	cp := math.Cos(c.Pitch)
	dir := astro.Vec3{
		X: cp * math.Cos(c.Yaw),
		Y: math.Sin(c.Pitch),
		Z: cp * math.Sin(c.Yaw),
	}
	return c.Target.Add(dir.Scale(c.Distance))
}

// Orbit rotates around the target by the given angles in radians.
func (c *OrbitCamera) Orbit(dYaw, dPitch float64) {
	c.Yaw = math.Mod(c.Yaw+dYaw, 2*math.Pi)
	c.Pitch += dPitch
	if c.Pitch > maxPitch {
		c.Pitch = maxPitch
	} else if c.Pitch < -maxPitch {
		c.Pitch = -maxPitch
	}
}

// Zoom multiplies the orbit distance by factor (< 1 moves closer).
func (c *OrbitCamera) Zoom(factor float64) {
	if factor <= 0 {
		return
	}
	c.SetDistance(c.Distance * factor)
}

// SetDistance sets the orbit distance, clamped to the supported range.
func (c *OrbitCamera) SetDistance(d float64) {
	switch {
	case math.IsNaN(d) || d < MinCameraDistance:
		d = MinCameraDistance
	case d > MaxCameraDistance:
		d = MaxCameraDistance
	}
	c.Distance = d
}

// LookAt retargets the camera, keeping distance and angles.
func (c *OrbitCamera) LookAt(target astro.Vec3) {
	c.Target = target
}

// SetAspect updates the aspect ratio from a viewport size in pixels.
func (c *OrbitCamera) SetAspect(width, height int) {
	if width > 0 && height > 0 {
		c.Aspect = float64(width) / float64(height)
	}
}

// NearFar returns the clip planes for the current distance.
func (c *OrbitCamera) NearFar() (near, far float64) {
	return c.Distance * nearRatio, c.Distance + farReach
}

// ViewMatrix implements Camera.
func (c *OrbitCamera) ViewMatrix() Mat4 {
	return LookAt(c.Eye(), c.Target, astro.Vec3{Y: 1})
}

// ProjectionMatrix implements Camera.
func (c *OrbitCamera) ProjectionMatrix() Mat4 {
	near, far := c.NearFar()
	return Perspective(c.FOV, c.Aspect, near, far)
}

// DistanceFromOrigin implements Camera. The origin is the galactic center.
func (c *OrbitCamera) DistanceFromOrigin() float64 {
	return c.Eye().Norm()
}
