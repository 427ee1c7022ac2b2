package render

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-galaxy/internal/astro"
)

func testUniforms() Uniforms {
	cam := NewOrbitCamera(astro.Vec3{}, 100)
	return Uniforms{
		Time:            0,
		ReferenceRadius: astro.SolarRadiusParsecs,
		SizeMultiplier:  1,
		ViewportHeight:  100,
		BrightnessScale: 100,
		View:            cam.ViewMatrix(),
		Projection:      cam.ProjectionMatrix(),
	}
}

func TestBrightness_Range(t *testing.T) {
	mags := []float32{-30, -10, -1.46, 0, 4.83, 10, 20, 50}
	distances := []float64{0, 1e-12, 1e-9, 1e-3, 1, 10, 8178, 1e6, 1e20, math.Inf(1)}
	scales := []float32{1, 100, 1e6}

	for _, m := range mags {
		for _, d := range distances {
			for _, k := range scales {
				b := Brightness(m, d, k)
				if b < 0 || b > 1 || b != b {
					t.Errorf("Brightness(%v, %v, %v) = %v, outside [0,1]", m, d, k, b)
				}
			}
		}
	}
}

func TestBrightness_InverseSquare(t *testing.T) {
	// M = 5 gives luminosity 0.01; at scale 1 and d = 1 that is 0.01
	b1 := Brightness(5, 1, 1)
	b2 := Brightness(5, 2, 1)
	assert.InDelta(t, 0.01, b1, 1e-6)
	assert.InDelta(t, float64(b1)/4, float64(b2), 1e-6)
}

func TestBrightness_FadesWithDistance(t *testing.T) {
	prev := Brightness(0, 1, 100)
	for d := 10.0; d <= 1e12; d *= 10 {
		b := Brightness(0, d, 100)
		assert.LessOrEqual(t, b, prev, "brightness increased at d=%v", d)
		prev = b
	}
	assert.Less(t, prev, float32(1e-15))
	assert.Equal(t, float32(0), Brightness(0, math.Inf(1), 100))
}

func TestBrightness_NearZeroDistanceClamps(t *testing.T) {
	assert.Equal(t, float32(1), Brightness(4.83, 0, 100))
	assert.Equal(t, float32(0), Brightness(4.83, 10, 0))
}

func TestPointSize_Floor(t *testing.T) {
	depths := []float64{-5, 0, 1e-12, 1e-6, 1, 1e3, 1e9, math.Inf(1), math.NaN()}
	multipliers := []float64{0, 1e-6, 1, 100, 1e9}

	for _, d := range depths {
		for _, m := range multipliers {
			s := PointSize(astro.SolarRadiusParsecs, m, 600, d)
			if !(s >= MinPointSize) {
				t.Errorf("PointSize(depth=%v, mult=%v) = %v, below floor", d, m, s)
			}
		}
	}
}

func TestPointSize_Perspective(t *testing.T) {
	// Diameter 2 pc seen at depth 10 on a 100 px viewport
	assert.InDelta(t, 20, PointSize(1, 1, 100, 10), 1e-4)
	assert.InDelta(t, 10, PointSize(1, 1, 100, 20), 1e-4)
	assert.InDelta(t, 40, PointSize(1, 2, 100, 10), 1e-4)
}

func TestOrbitalPosition_RigidRotation(t *testing.T) {
	a := StarAttributes{
		PositionY:       20.8,
		OrbitalRadius:   8178,
		InitialAngle:    math.Pi,
		AngularVelocity: float32(2 * math.Pi / 2.3e8),
	}

	p0 := OrbitalPosition(a, 0)
	assert.InDelta(t, -8178, p0.X, 1e-6)
	assert.InDelta(t, 20.8, p0.Y, 1e-12)
	assert.InDelta(t, 0, p0.Z, 1e-6)

	// Radius and height are invariant over time
	for _, years := range []float64{1e6, 5.75e7, 1.15e8, 1e9} {
		p := OrbitalPosition(a, years)
		assert.InDelta(t, 8178, math.Hypot(p.X, p.Z), 1e-6)
		assert.Equal(t, 20.8, p.Y)
	}

	// Half a period later the star is on the other side
	half := OrbitalPosition(a, math.Pi/float64(a.AngularVelocity))
	assert.InDelta(t, 8178, half.X, 1e-3)
}

func TestVertexProgram_Pure(t *testing.T) {
	u := testUniforms()
	u.Time = 12345
	a := StarAttributes{PositionY: 1, OrbitalRadius: 5, InitialAngle: 0.3, AngularVelocity: 1e-4, AbsoluteMag: 4.83, Color: [3]float32{1, 0.9, 0.8}}

	first := VertexProgram(a, u)
	second := VertexProgram(a, u)
	assert.Equal(t, first, second)
	assert.Equal(t, a.Color, first.Color)
}

func TestVertexProgram_Visibility(t *testing.T) {
	u := testUniforms()

	// Star at the origin, camera 100 pc away looking at it
	center := VertexProgram(StarAttributes{AbsoluteMag: 0}, u)
	require.True(t, center.Visible)
	x, y := center.NDC()
	assert.InDelta(t, 0, x, 1e-9)
	assert.InDelta(t, 0, y, 1e-9)
	assert.InDelta(t, 100, center.Distance, 1e-9)
	assert.GreaterOrEqual(t, center.PointSize, float32(MinPointSize))

	// Star far behind the camera
	cam := NewOrbitCamera(astro.Vec3{}, 100)
	behind := cam.Eye().Scale(3)
	r, angle := astro.HorizontalPolar(behind)
	out := VertexProgram(StarAttributes{PositionY: behind.Y, OrbitalRadius: r, InitialAngle: angle}, u)
	assert.False(t, out.Visible)
}

func TestFragmentProgram_Disc(t *testing.T) {
	color := [3]float32{1, 0.5, 0.25}

	center, ok := FragmentProgram([2]float32{0.5, 0.5}, color, 0.8)
	require.True(t, ok)
	assert.InDelta(t, 0.8, center.A, 1e-6)
	assert.Equal(t, float32(1), center.R)

	// Corner lies outside the inscribed disc
	_, ok = FragmentProgram([2]float32{0, 0}, color, 1)
	assert.False(t, ok)

	// Anti-aliasing band: alpha drops between the inner and outer edge
	inner, ok := FragmentProgram([2]float32{0.5 + 0.44, 0.5}, color, 1)
	require.True(t, ok)
	edge, ok := FragmentProgram([2]float32{0.5 + 0.48, 0.5}, color, 1)
	require.True(t, ok)
	assert.InDelta(t, 1, inner.A, 1e-6)
	assert.Less(t, edge.A, inner.A)
	assert.Greater(t, edge.A, float32(0))

	// Zero brightness keeps the fragment but makes it transparent
	dark, ok := FragmentProgram([2]float32{0.5, 0.5}, color, 0)
	require.True(t, ok)
	assert.Zero(t, dark.A)
}

func TestUsageString(t *testing.T) {
	assert.Equal(t, "static", UsageStatic.String())
	assert.Equal(t, "unknown", Usage(7).String())
}
