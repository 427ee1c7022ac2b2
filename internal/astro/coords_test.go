package astro

import (
	"math"
	"testing"
)

func TestDistanceParsecs(t *testing.T) {
	tests := []struct {
		parallax float64
		want     float64
	}{
		{100, 10},
		{1000, 1},
		{379.21, 2.637},
		{0.5, 2000},
	}

	for _, tt := range tests {
		got := DistanceParsecs(tt.parallax)
		if math.Abs(got-tt.want)/tt.want > 1e-3 {
			t.Errorf("DistanceParsecs(%v) = %v, want %v", tt.parallax, got, tt.want)
		}
	}
}

func TestAbsoluteMagnitude(t *testing.T) {
	tests := []struct {
		name     string
		apparent float64
		distance float64
		want     float64
	}{
		{"at 10 pc unchanged", 4.83, 10, 4.83},
		{"100 pc is 5 mag fainter", 9.83, 100, 4.83},
		{"1 pc is 5 mag brighter", -0.17, 1, 4.83},
		{"Sirius", -1.46, 2.637, 1.43},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AbsoluteMagnitude(tt.apparent, tt.distance)
			if math.Abs(got-tt.want) > 0.01 {
				t.Errorf("AbsoluteMagnitude(%v, %v) = %v, want %v", tt.apparent, tt.distance, got, tt.want)
			}
		})
	}
}

func TestEquatorialCartesianRoundtrip(t *testing.T) {
	tests := []struct {
		ra, dec, parallax float64
	}{
		{0, 0, 100},
		{266.4, -29.0, 100},
		{101.287, -16.716, 379.21},
		{359.9, 89.5, 7.54},
		{180, -89.9, 0.25},
		{45, 45, 1},
	}

	for _, tt := range tests {
		dist := DistanceParsecs(tt.parallax)
		v := EquatorialToCartesian(tt.ra, tt.dec, dist)
		ra, dec, r := CartesianToEquatorial(v)

		if math.Abs(r-1000/tt.parallax) > 1e-9*r {
			t.Errorf("distance = %v, want %v", r, 1000/tt.parallax)
		}
		if math.Abs(dec-tt.dec) > 1e-9 {
			t.Errorf("dec = %v, want %v", dec, tt.dec)
		}
		dRA := math.Abs(ra - tt.ra)
		if dRA > 180 {
			dRA = 360 - dRA
		}
		if dRA > 1e-8 {
			t.Errorf("ra = %v, want %v", ra, tt.ra)
		}
	}
}

func TestCartesianToEquatorial_Zero(t *testing.T) {
	ra, dec, r := CartesianToEquatorial(Vec3{})
	if ra != 0 || dec != 0 || r != 0 {
		t.Errorf("zero vector = (%v, %v, %v), want zeros", ra, dec, r)
	}
}

func TestHorizontalPolar(t *testing.T) {
	tests := []struct {
		name      string
		p         Vec3
		wantR     float64
		wantAngle float64
	}{
		{"+X", Vec3{5, 3, 0}, 5, 0},
		{"+Z", Vec3{0, -1, 2}, 2, math.Pi / 2},
		{"-X", Vec3{-8178, 20.8, 0}, 8178, math.Pi},
		{"on axis", Vec3{0, 7, 0}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, a := HorizontalPolar(tt.p)
			if math.Abs(r-tt.wantR) > 1e-9 {
				t.Errorf("radius = %v, want %v", r, tt.wantR)
			}
			if math.Abs(a-tt.wantAngle) > 1e-9 {
				t.Errorf("angle = %v, want %v", a, tt.wantAngle)
			}

			// Rebuilding from polar form must give back the horizontal components
			x := r * math.Cos(a)
			z := r * math.Sin(a)
			if math.Abs(x-tt.p.X) > 1e-9 || math.Abs(z-tt.p.Z) > 1e-9 {
				t.Errorf("rebuilt (%v, %v), want (%v, %v)", x, z, tt.p.X, tt.p.Z)
			}
		})
	}
}
