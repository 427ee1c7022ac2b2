package astro

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Vec3 represents a 3D vector in any reference frame.
type Vec3 struct {
	X, Y, Z float64
}

// Norm returns the magnitude of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalized returns a unit vector in the same direction.
func (v Vec3) Normalized() Vec3 {
	n := v.Norm()
	if n == 0 {
		return Vec3{}
	}
	return Vec3{X: v.X / n, Y: v.Y / n, Z: v.Z / n}
}

// Scale returns the vector scaled by a factor.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Add returns the sum of two vectors.
func (v Vec3) Add(u Vec3) Vec3 {
	return Vec3{X: v.X + u.X, Y: v.Y + u.Y, Z: v.Z + u.Z}
}

// Sub returns the difference of two vectors.
func (v Vec3) Sub(u Vec3) Vec3 {
	return Vec3{X: v.X - u.X, Y: v.Y - u.Y, Z: v.Z - u.Z}
}

// Dot returns the scalar product of two vectors.
func (v Vec3) Dot(u Vec3) float64 {
	return v.X*u.X + v.Y*u.Y + v.Z*u.Z
}

// Cross returns the vector product v × u.
func (v Vec3) Cross(u Vec3) Vec3 {
	return Vec3{
		X: v.Y*u.Z - v.Z*u.Y,
		Y: v.Z*u.X - v.X*u.Z,
		Z: v.X*u.Y - v.Y*u.X,
	}
}

// galacticRotationData is the IAU J2000 equatorial -> galactic rotation,
// row-major. Rows are the galactic X (toward the center), Y (toward l=90°)
// and Z (north galactic pole) axes expressed in equatorial coordinates.
var galacticRotationData = []float64{
	-0.0548755604162154, -0.8734370902348850, -0.4838350155487132,
	+0.4941094278755837, -0.4448296299600112, +0.7469822444972189,
	-0.8676661490190047, -0.1980763734312015, +0.4559837761750669,
}

// GalacticRotation returns a copy of the fixed equatorial -> galactic matrix.
func GalacticRotation() *mat.Dense {
	return mat.NewDense(3, 3, append([]float64(nil), galacticRotationData...))
}

// galacticRotation is shared read-only by the frame conversions below.
var galacticRotation = GalacticRotation()

// EquatorialToGalactic rotates an equatorial J2000 vector into the galactic
// frame. Units are preserved.
func EquatorialToGalactic(eq Vec3) Vec3 {
	var out mat.VecDense
	out.MulVec(galacticRotation, mat.NewVecDense(3, []float64{eq.X, eq.Y, eq.Z}))
	return Vec3{X: out.AtVec(0), Y: out.AtVec(1), Z: out.AtVec(2)}
}

// GalacticToEquatorial applies the inverse (transpose) rotation.
func GalacticToEquatorial(gal Vec3) Vec3 {
	var out mat.VecDense
	out.MulVec(galacticRotation.T(), mat.NewVecDense(3, []float64{gal.X, gal.Y, gal.Z}))
	return Vec3{X: out.AtVec(0), Y: out.AtVec(1), Z: out.AtVec(2)}
}

// GalacticToRender maps galactic axes onto the renderer's axes, where Y is up
// and is the galactic rotation axis. The mapping (x, z, -y) is a proper
// rotation, so handedness and the sense of galactic rotation are kept.
func GalacticToRender(g Vec3) Vec3 {
	return Vec3{X: g.X, Y: g.Z, Z: -g.Y}
}

// RenderToGalactic is the inverse of GalacticToRender.
func RenderToGalactic(r Vec3) Vec3 {
	return Vec3{X: r.X, Y: -r.Z, Z: r.Y}
}

// SunGalacticPosition is the Sun's position relative to the galactic center
// in parsecs (galactic frame): 8178 pc from the center, 20.8 pc above the plane.
var SunGalacticPosition = Vec3{X: -8178, Y: 0, Z: 20.8}

// GalacticLongitudeLatitude returns (l, b) in degrees for a galactic vector.
func GalacticLongitudeLatitude(g Vec3) (lDeg, bDeg float64) {
	r := g.Norm()
	if r == 0 {
		return 0, 0
	}
	l := radToDeg(math.Atan2(g.Y, g.X))
	if l < 0 {
		l += 360
	}
	return l, radToDeg(math.Asin(g.Z / r))
}
