package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-galaxy/internal/astro"
)

func TestFramebuffer_Dimensions(t *testing.T) {
	fb := NewFramebuffer(40, 12)
	assert.Equal(t, 40, fb.Width)
	assert.Equal(t, 24, fb.Height)
	assert.Zero(t, fb.Lit())
}

func TestDrawPoint_OnePixelNeverVanishes(t *testing.T) {
	fb := NewFramebuffer(20, 10)

	// Centers on pixel corners and edges, where an unsnapped disc would miss
	positions := [][2]float64{{0, 0}, {0.05, 0.05}, {-0.5, 0.5}, {0.3, -0.7}}
	for _, pos := range positions {
		fb.Clear([3]float32{})
		v := VertexOut{
			Clip:       [4]float64{pos[0], pos[1], 0, 1},
			PointSize:  MinPointSize,
			Brightness: 1,
			Color:      [3]float32{1, 1, 1},
			Visible:    true,
		}
		require.True(t, DrawPoint(fb, v), "point at %v not drawn", pos)
		assert.Equal(t, 1, fb.Lit(), "point at %v", pos)
	}
}

func TestDrawPoint_LargeDiscIsRound(t *testing.T) {
	fb := NewFramebuffer(30, 15)
	v := VertexOut{
		Clip:       [4]float64{0, 0, 0, 1},
		PointSize:  20,
		Brightness: 1,
		Color:      [3]float32{1, 1, 1},
		Visible:    true,
	}
	require.True(t, DrawPoint(fb, v))

	cx, cy := 15, 15
	assert.Greater(t, fb.At(cx, cy)[0], float32(0.99))
	// Corners of the bounding square are outside the disc
	assert.Zero(t, fb.At(cx-10, cy-10)[0])
	assert.Zero(t, fb.At(cx+9, cy+9)[0])
}

func TestDrawPoint_InvisibleSkipped(t *testing.T) {
	fb := NewFramebuffer(10, 5)
	assert.False(t, DrawPoint(fb, VertexOut{Clip: [4]float64{0, 0, 0, 1}, PointSize: 3, Brightness: 1}))
	assert.Zero(t, fb.Lit())

	// Entirely off screen
	off := VertexOut{Clip: [4]float64{5, 5, 0, 1}, PointSize: 2, Brightness: 1, Visible: true}
	assert.False(t, DrawPoint(fb, off))
}

func TestRasterize_CountsDrawn(t *testing.T) {
	fb := NewFramebuffer(20, 10)
	verts := []VertexOut{
		{Clip: [4]float64{-0.5, 0, 0, 1}, PointSize: 1, Brightness: 0.5, Color: [3]float32{1, 0, 0}, Visible: true},
		{Clip: [4]float64{0.5, 0, 0, 1}, PointSize: 1, Brightness: 0.5, Color: [3]float32{0, 0, 1}, Visible: true},
		{Clip: [4]float64{0, 0, 0, 1}, PointSize: 1, Brightness: 1, Visible: false},
	}
	assert.Equal(t, 2, Rasterize(fb, verts))
	assert.Equal(t, 2, fb.Lit())
}

func TestFramebuffer_Render(t *testing.T) {
	fb := NewFramebuffer(8, 3)
	fb.Blend(1, 0, Fragment{R: 1, G: 1, B: 1, A: 1})
	out := fb.Render()

	assert.Equal(t, 2, strings.Count(out, "\n"))
	assert.Equal(t, 8*3, strings.Count(out, halfBlock))
}

func TestDrawHaze(t *testing.T) {
	cam := NewOrbitCamera(astro.Vec3{}, 40000)
	fb := NewFramebuffer(20, 10)

	DrawHaze(fb, cam.ViewMatrix(), cam.ProjectionMatrix(), float64(fb.Height), 0)
	assert.Zero(t, fb.Lit(), "zero opacity draws nothing")

	DrawHaze(fb, cam.ViewMatrix(), cam.ProjectionMatrix(), float64(fb.Height), 0.5)
	center := fb.At(10, 10)
	edge := fb.At(0, 0)
	assert.Greater(t, center[2], edge[2])
}

func TestDrawMarkers(t *testing.T) {
	cam := NewOrbitCamera(astro.Vec3{}, 100)
	fb := NewFramebuffer(20, 10)
	DrawMarkers(fb, cam.ViewMatrix(), cam.ProjectionMatrix(), []Marker{
		{Name: "center", Position: astro.Vec3{}, Color: [3]float32{1, 1, 0}, Size: 3},
	})
	assert.Greater(t, fb.At(10, 10)[0], float32(0))
}
