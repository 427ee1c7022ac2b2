package lod

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelect_DistancePolicy(t *testing.T) {
	tests := []struct {
		name     string
		distance float64
		density  float64
		want     int
	}{
		{"inside near", 10, 1, 1000},
		{"at near", DefaultNear, 1, 1000},
		{"at far", DefaultFar, 1, 20},
		{"beyond far", 1e6, 1, 20},
		{"half density near", 0, 0.5, 500},
		{"zero density", 0, 0, 0},
		{"density above one", 0, 3, 1000},
		{"midpoint", (DefaultNear + DefaultFar) / 2, 1, 510},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSelector(PolicyDistance, 1000)
			got, _ := s.Select(tt.distance, tt.density)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelect_FullPolicy(t *testing.T) {
	s := NewSelector(PolicyFull, 1234)
	for _, d := range []float64{0, 1e3, 1e9} {
		got, _ := s.Select(d, 0.1)
		assert.Equal(t, 1234, got)
	}
}

func TestSelect_NeverExceedsTotal(t *testing.T) {
	for _, total := range []int{0, 1, 7, 100000} {
		s := NewSelector(PolicyDistance, total)
		for _, d := range []float64{-5, 0, 500, 1e5, math.Inf(1), math.NaN()} {
			for _, density := range []float64{-1, 0, 0.3, 1, 2, math.NaN()} {
				count, _ := s.Select(d, density)
				require.GreaterOrEqual(t, count, 0)
				require.LessOrEqual(t, count, total)

				start, n := s.DrawRange()
				assert.Zero(t, start, "draw range is always a prefix")
				assert.Equal(t, count, n)
			}
		}
	}
}

func TestSelect_NonIncreasingWithDistance(t *testing.T) {
	s := NewSelector(PolicyDistance, 50000)
	prev := math.MaxInt
	for d := 0.0; d <= 2*DefaultFar; d += 250 {
		count, _ := s.Select(d, 0.8)
		assert.LessOrEqual(t, count, prev, "count grew at distance %v", d)
		prev = count
	}
}

func TestSelect_Idempotent(t *testing.T) {
	s := NewSelector(PolicyDistance, 1000)

	_, changed := s.Select(2000, 1)
	assert.True(t, changed, "first selection applies")

	count, changed := s.Select(2000, 1)
	assert.False(t, changed)
	_, n := s.DrawRange()
	assert.Equal(t, count, n)

	_, changed = s.Select(40000, 1)
	assert.True(t, changed)
}

func TestDrawRange_BeforeSelect(t *testing.T) {
	start, count := NewSelector(PolicyDistance, 10).DrawRange()
	assert.Zero(t, start)
	assert.Zero(t, count)
}

func TestSetPolicy(t *testing.T) {
	s := NewSelector(PolicyDistance, 1000)
	count, _ := s.Select(DefaultFar, 1)
	assert.Equal(t, 20, count)

	s.SetPolicy(PolicyFull)
	assert.Equal(t, PolicyFull, s.Policy())
	count, changed := s.Select(DefaultFar, 1)
	assert.True(t, changed)
	assert.Equal(t, 1000, count)
}

func TestOptions(t *testing.T) {
	s := NewSelector(PolicyDistance, 100, WithRange(0, 10), WithMinFraction(0.5))
	count, _ := s.Select(10, 1)
	assert.Equal(t, 50, count)

	// Invalid values keep defaults
	s = NewSelector(PolicyDistance, 100, WithRange(10, 5), WithMinFraction(2))
	count, _ = s.Select(DefaultFar, 1)
	assert.Equal(t, 2, count)
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"distance", PolicyDistance, false},
		{"", PolicyDistance, false},
		{"FULL", PolicyFull, false},
		{"off", PolicyFull, false},
		{"bogus", PolicyDistance, true},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, got.String(), tt.want.String())
	}
}
