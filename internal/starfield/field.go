// Package starfield turns validated catalog records into galactic-frame star
// samples and packs them into the static attribute buffers the render
// program reads.
package starfield

import (
	"errors"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-galaxy/internal/astro"
	"github.com/litescript/ls-galaxy/internal/catalog"
)

// DefaultAngularVelocity is one galactic year (about 230 Myr) per turn, in
// radians per simulation year. Positive is counterclockwise seen from
// galactic north in the render frame.
const DefaultAngularVelocity = 2 * math.Pi / 2.3e8

// ErrNoStars is returned by Build when there is nothing to build from.
var ErrNoStars = errors.New("no stars to build")

// StarSample is one star after transformation, in the render frame.
type StarSample struct {
	Position        astro.Vec3 // render frame, pc, relative to the galactic center
	OrbitalRadius   float64    // distance from the rotation axis, pc
	InitialAngle    float64    // azimuth in the rotation plane, radians
	AngularVelocity float64    // radians per simulation year
	Color           colorful.Color
	AbsoluteMag     float64
	ApparentMag     float64
	Distance        float64 // from the observer, pc
}

// Params holds the transform constants shared by every star of a load.
type Params struct {
	// ObserverOffset is the Sun's position in the galactic frame, pc.
	ObserverOffset astro.Vec3
	// AngularVelocity is applied uniformly to every star.
	AngularVelocity float64
}

// DefaultParams places the observer at the Sun's galactocentric position.
func DefaultParams() Params {
	return Params{
		ObserverOffset:  astro.SunGalacticPosition,
		AngularVelocity: DefaultAngularVelocity,
	}
}

// Transform converts one raw record into a sample.
func Transform(rec catalog.RawRecord, p Params) StarSample {
	dist := astro.DistanceParsecs(rec.ParallaxMas)

	eq := astro.EquatorialToCartesian(rec.RAdeg, rec.DecDeg, dist)
	gal := astro.EquatorialToGalactic(eq).Add(p.ObserverOffset)
	pos := astro.GalacticToRender(gal)

	radius, angle := astro.HorizontalPolar(pos)

	return StarSample{
		Position:        pos,
		OrbitalRadius:   radius,
		InitialAngle:    angle,
		AngularVelocity: p.AngularVelocity,
		Color:           astro.ColorForIndex(rec.ColorIndex),
		AbsoluteMag:     astro.AbsoluteMagnitude(rec.ApparentMag, dist),
		ApparentMag:     rec.ApparentMag,
		Distance:        dist,
	}
}

// Field is a built star field: the sample arena sorted brightest first and
// the packed buffers derived from it. A Field is never modified after Build;
// reloading produces a new one.
type Field struct {
	Samples []StarSample
	Buffers *Buffers
	Params  Params
}

// Build transforms records, orders them by ascending apparent magnitude
// (ties keep catalog order) and packs the buffers.
func Build(records []catalog.RawRecord, p Params) (*Field, error) {
	if len(records) == 0 {
		return nil, ErrNoStars
	}

	samples := make([]StarSample, len(records))
	for i, rec := range records {
		samples[i] = Transform(rec, p)
	}

	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].ApparentMag < samples[j].ApparentMag
	})

	return &Field{
		Samples: samples,
		Buffers: Pack(samples),
		Params:  p,
	}, nil
}

// Len returns the number of stars in the field.
func (f *Field) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Samples)
}

// SkyPosition returns a sample's galactic longitude and latitude as seen
// from the observer, in degrees.
func (f *Field) SkyPosition(s StarSample) (lDeg, bDeg float64) {
	helio := astro.RenderToGalactic(s.Position).Sub(f.Params.ObserverOffset)
	return astro.GalacticLongitudeLatitude(helio)
}
