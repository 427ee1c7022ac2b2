// Package lod chooses how many of the brightest stars to draw each frame.
//
// Buffers are sorted brightest first, so every selection is a prefix
// [0, count) of the buffer. Truncating drops the faintest stars first.
package lod

import (
	"fmt"
	"math"
	"strings"
)

// Policy selects how the draw count reacts to camera distance.
type Policy int

const (
	// PolicyDistance interpolates the draw count between near and far.
	PolicyDistance Policy = iota
	// PolicyFull always draws every star.
	PolicyFull
)

func (p Policy) String() string {
	switch p {
	case PolicyDistance:
		return "distance"
	case PolicyFull:
		return "full"
	default:
		return "unknown"
	}
}

// ParsePolicy converts a string to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "distance", "":
		return PolicyDistance, nil
	case "full", "off", "none":
		return PolicyFull, nil
	default:
		return PolicyDistance, fmt.Errorf("unknown lod policy %q", s)
	}
}

// Defaults for the distance policy, in parsecs from the galactic center.
const (
	DefaultNear        = 100
	DefaultFar         = 50000
	DefaultMinFraction = 0.02
)

// Selector tracks the current draw range. It is not safe for concurrent use;
// the frame loop owns it.
type Selector struct {
	policy      Policy
	total       int
	near, far   float64
	minFraction float64
	last        int
}

// Option configures a Selector.
type Option func(*Selector)

// WithRange sets the camera distances where interpolation starts and ends.
func WithRange(near, far float64) Option {
	return func(s *Selector) {
		if near >= 0 && far > near {
			s.near, s.far = near, far
		}
	}
}

// WithMinFraction sets the share of the density-scaled maximum kept at the
// far distance.
func WithMinFraction(f float64) Option {
	return func(s *Selector) {
		if f >= 0 && f <= 1 {
			s.minFraction = f
		}
	}
}

// NewSelector creates a selector over total stars.
func NewSelector(policy Policy, total int, opts ...Option) *Selector {
	if total < 0 {
		total = 0
	}
	s := &Selector{
		policy:      policy,
		total:       total,
		near:        DefaultNear,
		far:         DefaultFar,
		minFraction: DefaultMinFraction,
		last:        -1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select computes the draw count for a camera distance from the origin and
// a density fraction in [0, 1]. changed is false when the count equals the
// previously applied one, in which case nothing needs updating.
func (s *Selector) Select(cameraDistance, density float64) (count int, changed bool) {
	count = s.target(cameraDistance, density)
	if count == s.last {
		return count, false
	}
	s.last = count
	return count, true
}

func (s *Selector) target(cameraDistance, density float64) int {
	if s.policy == PolicyFull {
		return s.total
	}

	if math.IsNaN(density) {
		density = 1
	}
	density = clamp(density, 0, 1)

	t := 0.0
	if !math.IsNaN(cameraDistance) {
		t = clamp((cameraDistance-s.near)/(s.far-s.near), 0, 1)
	}

	upper := float64(s.total) * density
	count := int(math.Round(upper + (upper*s.minFraction-upper)*t))
	if count < 0 {
		return 0
	}
	if count > s.total {
		return s.total
	}
	return count
}

// DrawRange returns the last applied range. Before the first Select it is
// empty.
func (s *Selector) DrawRange() (start, count int) {
	if s.last < 0 {
		return 0, 0
	}
	return 0, s.last
}

// Policy returns the active policy.
func (s *Selector) Policy() Policy { return s.policy }

// SetPolicy switches policy. The next Select reports a change if the count
// moves.
func (s *Selector) SetPolicy(p Policy) { s.policy = p }

// Total returns the number of stars the selector covers.
func (s *Selector) Total() int { return s.total }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
