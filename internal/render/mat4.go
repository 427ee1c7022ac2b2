package render

import (
	"math"

	"github.com/litescript/ls-galaxy/internal/astro"
)

// Mat4 is a 4x4 float64 matrix stored in column-major order, the layout
// graphics APIs expect for uniform upload.
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// At returns the element at row r, column c.
func (m Mat4) At(r, c int) float64 {
	return m[c*4+r]
}

func (m *Mat4) set(r, c int, v float64) {
	m[c*4+r] = v
}

// Mul returns m·n.
func (m Mat4) Mul(n Mat4) Mat4 {
	var out Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m.At(r, k) * n.At(k, c)
			}
			out.set(r, c, sum)
		}
	}
	return out
}

// MulPoint transforms a point (w = 1) by an affine matrix.
func (m Mat4) MulPoint(p astro.Vec3) astro.Vec3 {
	return astro.Vec3{
		X: m[0]*p.X + m[4]*p.Y + m[8]*p.Z + m[12],
		Y: m[1]*p.X + m[5]*p.Y + m[9]*p.Z + m[13],
		Z: m[2]*p.X + m[6]*p.Y + m[10]*p.Z + m[14],
	}
}

// MulVec4 transforms a homogeneous vector.
func (m Mat4) MulVec4(v [4]float64) [4]float64 {
	var out [4]float64
	for r := 0; r < 4; r++ {
		out[r] = m[r]*v[0] + m[4+r]*v[1] + m[8+r]*v[2] + m[12+r]*v[3]
	}
	return out
}

// LookAt builds a right-handed view matrix for a camera at eye looking at
// target. The camera looks down its -Z axis.
func LookAt(eye, target, up astro.Vec3) Mat4 {
	f := target.Sub(eye).Normalized()
	s := f.Cross(up).Normalized()
	if s.Norm() == 0 {
		// up parallel to the view direction; pick any perpendicular
		s = f.Cross(astro.Vec3{X: 1}).Normalized()
		if s.Norm() == 0 {
			s = f.Cross(astro.Vec3{Z: 1}).Normalized()
		}
	}
	u := s.Cross(f)

	m := Identity()
	m.set(0, 0, s.X)
	m.set(0, 1, s.Y)
	m.set(0, 2, s.Z)
	m.set(1, 0, u.X)
	m.set(1, 1, u.Y)
	m.set(1, 2, u.Z)
	m.set(2, 0, -f.X)
	m.set(2, 1, -f.Y)
	m.set(2, 2, -f.Z)
	m.set(0, 3, -s.Dot(eye))
	m.set(1, 3, -u.Dot(eye))
	m.set(2, 3, f.Dot(eye))
	return m
}

// Perspective builds an OpenGL-style projection matrix mapping view depth
// [near, far] to clip z in [-w, w].
func Perspective(fovYDeg, aspect, near, far float64) Mat4 {
	f := 1 / math.Tan(fovYDeg*math.Pi/360)

	var m Mat4
	m.set(0, 0, f/aspect)
	m.set(1, 1, f)
	m.set(2, 2, (far+near)/(near-far))
	m.set(2, 3, 2*far*near/(near-far))
	m.set(3, 2, -1)
	return m
}
