// Package astro provides astronomical coordinate transformations and sky math.
package astro

import (
	"math"
)

// SolarRadiusParsecs is the solar radius expressed in parsecs.
const SolarRadiusParsecs = 2.2546e-8

// DistanceParsecs returns the distance implied by a parallax in milliarcseconds.
// Callers must have rejected non-positive parallaxes already.
func DistanceParsecs(parallaxMas float64) float64 {
	return 1000 / parallaxMas
}

// AbsoluteMagnitude applies the distance modulus:
//
//	M = m - 5*(log10(d) - 1)
//
// No clamping is done; very bright or very faint results pass through.
func AbsoluteMagnitude(apparentMag, distancePc float64) float64 {
	return apparentMag - 5*(math.Log10(distancePc)-1)
}

// EquatorialToCartesian converts RA/Dec (degrees) and a radius into
// equatorial Cartesian coordinates in the radius' units.
//
// X points to the vernal equinox, Z to the north celestial pole.
func EquatorialToCartesian(raDeg, decDeg, r float64) Vec3 {
	ra := degToRad(raDeg)
	dec := degToRad(decDeg)
	cosDec := math.Cos(dec)
	return Vec3{
		X: r * cosDec * math.Cos(ra),
		Y: r * cosDec * math.Sin(ra),
		Z: r * math.Sin(dec),
	}
}

// CartesianToEquatorial is the inverse of EquatorialToCartesian. RA is
// normalized to [0, 360).
func CartesianToEquatorial(v Vec3) (raDeg, decDeg, r float64) {
	r = v.Norm()
	if r == 0 {
		return 0, 0, 0
	}
	ra := radToDeg(math.Atan2(v.Y, v.X))
	if ra < 0 {
		ra += 360
	}
	// Clamp to handle floating point drift just past the poles
	s := v.Z / r
	if s > 1 {
		s = 1
	} else if s < -1 {
		s = -1
	}
	return ra, radToDeg(math.Asin(s)), r
}

// HorizontalPolar returns the distance from the vertical (Y) axis and the
// azimuth atan2(z, x) of a render-frame position. The renderer rebuilds
// positions as (r*cos(a), y, r*sin(a)), so this convention must not change.
func HorizontalPolar(p Vec3) (radius, angle float64) {
	return math.Hypot(p.X, p.Z), math.Atan2(p.Z, p.X)
}

// degToRad converts degrees to radians.
func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// radToDeg converts radians to degrees.
func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
