package state

import (
	"math"

	"github.com/litescript/ls-galaxy/internal/lod"
)

// Speed slider range.
const (
	SliderMin = 0
	SliderMax = 100
)

// SimState is the simulation clock. Time is in years.
type SimState struct {
	Time      float64 // accumulated simulation time, years
	TimeScale float64 // simulation years per wall-clock second
	Paused    bool
}

// Advance returns the clock after delta wall-clock seconds. A paused clock
// or a zero time scale leaves Time unchanged.
func (s SimState) Advance(delta float64) SimState {
	if s.Paused || delta <= 0 || math.IsNaN(delta) {
		return s
	}
	s.Time += delta * s.TimeScale
	return s
}

// RenderConfig is the user-adjustable rendering surface.
type RenderConfig struct {
	SizeMultiplier    float64
	BackgroundOpacity float64 // [0, 1]
	Density           float64 // [0, 1] share of stars eligible for drawing
	LOD               lod.Policy
}

// SpeedFromSlider maps a slider position in [SliderMin, SliderMax]
// exponentially onto [minSpeed, maxSpeed]. Both speeds must be positive.
func SpeedFromSlider(pos, minSpeed, maxSpeed float64) float64 {
	pos = clampFloat(pos, SliderMin, SliderMax)
	switch pos {
	case SliderMin:
		return minSpeed
	case SliderMax:
		return maxSpeed
	}
	frac := (pos - SliderMin) / (SliderMax - SliderMin)
	return minSpeed * math.Pow(maxSpeed/minSpeed, frac)
}

// SliderFromSpeed is the inverse of SpeedFromSlider. Speeds outside the range
// clamp to the slider ends.
func SliderFromSpeed(speed, minSpeed, maxSpeed float64) float64 {
	if speed <= minSpeed || math.IsNaN(speed) {
		return SliderMin
	}
	if speed >= maxSpeed {
		return SliderMax
	}
	frac := math.Log(speed/minSpeed) / math.Log(maxSpeed/minSpeed)
	return SliderMin + frac*(SliderMax-SliderMin)
}

func clampFloat(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
