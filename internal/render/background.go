package render

import (
	"math"

	"github.com/litescript/ls-galaxy/internal/astro"
)

// GalacticDiscRadius is the visual radius of the haze layer in parsecs.
const GalacticDiscRadius = 15000

// hazeColor is the tint of the galactic-plane haze at full opacity.
var hazeColor = [3]float32{0.16, 0.12, 0.24}

// Marker is a fixed scene point drawn regardless of catalog state.
type Marker struct {
	Name     string
	Position astro.Vec3 // render frame, pc
	Color    [3]float32
	Size     float32 // pixels
}

// ProjectPoint runs a world point through the view and projection matrices
// with full brightness and a fixed point size.
func ProjectPoint(view, proj Mat4, world astro.Vec3, color [3]float32, size float32) VertexOut {
	v := view.MulPoint(world)
	clip := proj.MulVec4([4]float64{v.X, v.Y, v.Z, 1})
	depth := -v.Z
	if size < MinPointSize {
		size = MinPointSize
	}
	return VertexOut{
		Clip:       clip,
		View:       v,
		Distance:   v.Norm(),
		PointSize:  size,
		Brightness: 1,
		Color:      color,
		Visible:    depth > 0 && clip[3] > 0,
	}
}

// DrawMarkers draws static markers on top of the field.
func DrawMarkers(fb *Framebuffer, view, proj Mat4, markers []Marker) {
	for _, m := range markers {
		DrawPoint(fb, ProjectPoint(view, proj, m.Position, m.Color, m.Size))
	}
}

// DrawHaze paints a soft glow around the projected galactic center, scaled
// by the apparent size of the disc. opacity in [0, 1]; 0 draws nothing.
func DrawHaze(fb *Framebuffer, view, proj Mat4, viewportHeight, opacity float64) {
	if opacity <= 0 || fb.Width == 0 || fb.Height == 0 {
		return
	}
	if opacity > 1 {
		opacity = 1
	}

	center := ProjectPoint(view, proj, astro.Vec3{}, hazeColor, 1)
	if !center.Visible {
		return
	}
	cx, cy := fb.ToPixel(center.NDC())

	radius := GalacticDiscRadius * viewportHeight / -center.View.Z
	if radius < 1 {
		return
	}

	for y := 0; y < fb.Height; y++ {
		dy := (float64(y) + 0.5 - cy) / radius
		for x := 0; x < fb.Width; x++ {
			dx := (float64(x) + 0.5 - cx) / radius
			glow := opacity * math.Exp(-3*(dx*dx+dy*dy))
			if glow < 1e-3 {
				continue
			}
			fb.Blend(x, y, Fragment{R: hazeColor[0], G: hazeColor[1], B: hazeColor[2], A: float32(glow)})
		}
	}
}
