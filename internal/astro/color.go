package astro

import (
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// ColorStop is one breakpoint of the color-index table.
type ColorStop struct {
	Index float64 // Gaia BP-RP color index
	Class string  // spectral class the stop stands for
	Color colorful.Color
}

// colorStops runs from hot blue to cool red, ascending by index.
var colorStops = []ColorStop{
	{-0.40, "O5", mustHex("#9bb0ff")},
	{-0.20, "B5", mustHex("#aabfff")},
	{0.00, "A0", mustHex("#cad7ff")},
	{0.40, "F5", mustHex("#f8f7ff")},
	{0.80, "G2", mustHex("#fff4ea")},
	{1.20, "K0", mustHex("#ffd2a1")},
	{1.80, "K5", mustHex("#ffbd6f")},
	{2.50, "M0", mustHex("#ff9f5a")},
	{3.50, "M5", mustHex("#ff7b4a")},
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ColorStops returns a copy of the color table.
func ColorStops() []ColorStop {
	return append([]ColorStop(nil), colorStops...)
}

// ColorForIndex maps a BP-RP color index to an RGB color by linear
// interpolation between the bracketing table entries. Indices outside the
// table clamp to the end colors. NaN yields the solar (G2) color.
func ColorForIndex(index float64) colorful.Color {
	if math.IsNaN(index) {
		return colorStops[4].Color
	}

	first, last := colorStops[0], colorStops[len(colorStops)-1]
	if index <= first.Index {
		return first.Color
	}
	if index >= last.Index {
		return last.Color
	}

	// First stop strictly above index; the table ends guarantee 0 < hi < len.
	hi := sort.Search(len(colorStops), func(i int) bool {
		return colorStops[i].Index > index
	})
	lo := colorStops[hi-1]
	up := colorStops[hi]

	t := (index - lo.Index) / (up.Index - lo.Index)
	return lo.Color.BlendRgb(up.Color, t)
}
