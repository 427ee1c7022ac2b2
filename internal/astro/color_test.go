package astro

import (
	"math"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

func TestColorStopsAscending(t *testing.T) {
	stops := ColorStops()
	for i := 1; i < len(stops); i++ {
		if stops[i].Index <= stops[i-1].Index {
			t.Errorf("stop %d (%v) not above stop %d (%v)", i, stops[i].Index, i-1, stops[i-1].Index)
		}
	}
}

func TestColorForIndex_Clamps(t *testing.T) {
	stops := ColorStops()
	first, last := stops[0], stops[len(stops)-1]

	tests := []struct {
		name  string
		index float64
		want  colorful.Color
	}{
		{"at first", first.Index, first.Color},
		{"below first", first.Index - 1, first.Color},
		{"far below", -100, first.Color},
		{"at last", last.Index, last.Color},
		{"above last", last.Index + 0.01, last.Color},
		{"far above", 50, last.Color},
		{"negative infinity", math.Inf(-1), first.Color},
		{"positive infinity", math.Inf(1), last.Color},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ColorForIndex(tt.index)
			if got != tt.want {
				t.Errorf("ColorForIndex(%v) = %v, want %v", tt.index, got.Hex(), tt.want.Hex())
			}
		})
	}
}

func TestColorForIndex_ExactStops(t *testing.T) {
	for _, s := range ColorStops() {
		got := ColorForIndex(s.Index)
		if !got.AlmostEqualRgb(s.Color) {
			t.Errorf("stop %s at %v: got %s, want %s", s.Class, s.Index, got.Hex(), s.Color.Hex())
		}
	}
}

func TestColorForIndex_MonotonicWithinSegments(t *testing.T) {
	stops := ColorStops()
	const steps = 50

	for i := 0; i+1 < len(stops); i++ {
		lo, hi := stops[i], stops[i+1]
		prev := ColorForIndex(lo.Index)
		for k := 1; k <= steps; k++ {
			idx := lo.Index + (hi.Index-lo.Index)*float64(k)/steps
			cur := ColorForIndex(idx)

			checkChannel := func(name string, a, b, from, to float64) {
				if to >= from && b < a-1e-12 {
					t.Errorf("segment %s-%s channel %s decreased at %v", lo.Class, hi.Class, name, idx)
				}
				if to < from && b > a+1e-12 {
					t.Errorf("segment %s-%s channel %s increased at %v", lo.Class, hi.Class, name, idx)
				}
			}
			checkChannel("R", prev.R, cur.R, lo.Color.R, hi.Color.R)
			checkChannel("G", prev.G, cur.G, lo.Color.G, hi.Color.G)
			checkChannel("B", prev.B, cur.B, lo.Color.B, hi.Color.B)
			prev = cur
		}
	}
}

func TestColorForIndex_Midpoint(t *testing.T) {
	stops := ColorStops()
	lo, hi := stops[3], stops[4]
	mid := ColorForIndex((lo.Index + hi.Index) / 2)

	want := colorful.Color{
		R: (lo.Color.R + hi.Color.R) / 2,
		G: (lo.Color.G + hi.Color.G) / 2,
		B: (lo.Color.B + hi.Color.B) / 2,
	}
	if !mid.AlmostEqualRgb(want) {
		t.Errorf("midpoint = %s, want %s", mid.Hex(), want.Hex())
	}
}

func TestColorForIndex_SolarLike(t *testing.T) {
	// BP-RP 0.8 is the G2 stop: yellow-white
	got := ColorForIndex(0.8)
	if got.Hex() != "#fff4ea" {
		t.Errorf("ColorForIndex(0.8) = %s, want #fff4ea", got.Hex())
	}
	if got.R < got.B {
		t.Errorf("solar color should lean red over blue: %s", got.Hex())
	}
	if ColorForIndex(math.NaN()) != got {
		t.Errorf("NaN should map to the solar color")
	}
}
