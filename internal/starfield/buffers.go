package starfield

import (
	"github.com/litescript/ls-galaxy/internal/render"
)

// Buffers is the structure-of-arrays upload format. Index i is the same star
// in every array. Geometry is float64 so close-ups far from the galactic
// center keep their precision; photometry is float32.
type Buffers struct {
	PositionY       []float64
	OrbitalRadius   []float64
	InitialAngle    []float64
	AngularVelocity []float32
	AbsoluteMag     []float32
	Color           []float32 // RGB triplets, 3 per star
}

// Pack copies samples into freshly allocated buffers.
func Pack(samples []StarSample) *Buffers {
	n := len(samples)
	b := &Buffers{
		PositionY:       make([]float64, n),
		OrbitalRadius:   make([]float64, n),
		InitialAngle:    make([]float64, n),
		AngularVelocity: make([]float32, n),
		AbsoluteMag:     make([]float32, n),
		Color:           make([]float32, 3*n),
	}
	for i, s := range samples {
		b.PositionY[i] = s.Position.Y
		b.OrbitalRadius[i] = s.OrbitalRadius
		b.InitialAngle[i] = s.InitialAngle
		b.AngularVelocity[i] = float32(s.AngularVelocity)
		b.AbsoluteMag[i] = float32(s.AbsoluteMag)

		c := s.Color.Clamped()
		b.Color[3*i] = float32(c.R)
		b.Color[3*i+1] = float32(c.G)
		b.Color[3*i+2] = float32(c.B)
	}
	return b
}

// Count implements render.AttributeSource.
func (b *Buffers) Count() int {
	if b == nil {
		return 0
	}
	return len(b.PositionY)
}

// Attributes implements render.AttributeSource.
func (b *Buffers) Attributes(i int) render.StarAttributes {
	return render.StarAttributes{
		PositionY:       b.PositionY[i],
		OrbitalRadius:   b.OrbitalRadius[i],
		InitialAngle:    b.InitialAngle[i],
		AngularVelocity: b.AngularVelocity[i],
		AbsoluteMag:     b.AbsoluteMag[i],
		Color:           [3]float32{b.Color[3*i], b.Color[3*i+1], b.Color[3*i+2]},
	}
}

// Usage reports that star buffers are written once per load.
func (b *Buffers) Usage() render.Usage {
	return render.UsageStatic
}
