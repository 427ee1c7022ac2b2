package render

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Framebuffer is an RGB accumulation buffer. Two vertical pixels map to one
// terminal cell when rendered, using the upper half block glyph.
type Framebuffer struct {
	Width  int // pixels
	Height int // pixels, twice the terminal rows
	pix    []float32
}

// NewFramebuffer allocates a framebuffer for a terminal area of cols x rows.
func NewFramebuffer(cols, rows int) *Framebuffer {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	return &Framebuffer{
		Width:  cols,
		Height: rows * 2,
		pix:    make([]float32, cols*rows*2*3),
	}
}

// Clear fills every pixel with color.
func (fb *Framebuffer) Clear(color [3]float32) {
	for i := 0; i < len(fb.pix); i += 3 {
		fb.pix[i] = color[0]
		fb.pix[i+1] = color[1]
		fb.pix[i+2] = color[2]
	}
}

// At returns the accumulated color at pixel (x, y).
func (fb *Framebuffer) At(x, y int) [3]float32 {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return [3]float32{}
	}
	i := (y*fb.Width + x) * 3
	return [3]float32{fb.pix[i], fb.pix[i+1], fb.pix[i+2]}
}

// Blend adds a fragment with straight alpha (additive blending, no depth).
func (fb *Framebuffer) Blend(x, y int, f Fragment) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height || f.A <= 0 {
		return
	}
	i := (y*fb.Width + x) * 3
	fb.pix[i] += f.R * f.A
	fb.pix[i+1] += f.G * f.A
	fb.pix[i+2] += f.B * f.A
}

// Lit reports how many pixels have any light in them.
func (fb *Framebuffer) Lit() int {
	n := 0
	for i := 0; i < len(fb.pix); i += 3 {
		if fb.pix[i]+fb.pix[i+1]+fb.pix[i+2] > 0 {
			n++
		}
	}
	return n
}

// ToPixel maps normalized device coordinates to pixel coordinates.
func (fb *Framebuffer) ToPixel(ndcX, ndcY float64) (x, y float64) {
	return (ndcX + 1) / 2 * float64(fb.Width), (1 - ndcY) / 2 * float64(fb.Height)
}

// Rasterize draws every visible vertex as a point sprite and returns how
// many points touched the framebuffer.
func Rasterize(fb *Framebuffer, verts []VertexOut) int {
	drawn := 0
	for i := range verts {
		if DrawPoint(fb, verts[i]) {
			drawn++
		}
	}
	return drawn
}

// DrawPoint rasterizes one vertex through FragmentProgram.
func DrawPoint(fb *Framebuffer, v VertexOut) bool {
	if !v.Visible {
		return false
	}
	cx, cy := fb.ToPixel(v.NDC())
	size := float64(v.PointSize)

	// Small points snap to a pixel center so the disc always covers one.
	if size <= 2 {
		cx = math.Floor(cx) + 0.5
		cy = math.Floor(cy) + 0.5
	}

	half := size / 2
	left, top := cx-half, cy-half

	x0 := clampInt(math.Floor(left), 0, fb.Width)
	x1 := clampInt(math.Ceil(cx+half), 0, fb.Width)
	y0 := clampInt(math.Floor(top), 0, fb.Height)
	y1 := clampInt(math.Ceil(cy+half), 0, fb.Height)
	if x0 >= x1 || y0 >= y1 {
		return false
	}

	touched := false
	for py := y0; py < y1; py++ {
		pcY := float32((float64(py) + 0.5 - top) / size)
		for px := x0; px < x1; px++ {
			pcX := float32((float64(px) + 0.5 - left) / size)
			f, ok := FragmentProgram([2]float32{pcX, pcY}, v.Color, v.Brightness)
			if !ok {
				continue
			}
			fb.Blend(px, py, f)
			touched = true
		}
	}
	return touched
}

func clampInt(v float64, lo, hi int) int {
	if v < float64(lo) {
		return lo
	}
	if v > float64(hi) {
		return hi
	}
	return int(v)
}

const halfBlock = "▀"

// Render encodes the framebuffer as terminal text, one line per cell row.
func (fb *Framebuffer) Render() string {
	rows := fb.Height / 2
	cache := make(map[[2]string]string)

	var b strings.Builder
	for row := 0; row < rows; row++ {
		for x := 0; x < fb.Width; x++ {
			top := toHex(fb.At(x, row*2))
			bottom := toHex(fb.At(x, row*2+1))
			key := [2]string{top, bottom}

			cell, ok := cache[key]
			if !ok {
				cell = lipgloss.NewStyle().
					Foreground(lipgloss.Color(top)).
					Background(lipgloss.Color(bottom)).
					Render(halfBlock)
				cache[key] = cell
			}
			b.WriteString(cell)
		}
		if row < rows-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func toHex(c [3]float32) string {
	return colorful.Color{R: float64(c[0]), G: float64(c[1]), B: float64(c[2])}.Clamped().Hex()
}
