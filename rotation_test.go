package skyraster

import (
	"math"
	"math/rand"
	"testing"
)

func TestRotationInverse(t *testing.T) {
	testCases := []struct {
		name  string
		alpha float64
		beta  float64
		gamma float64
	}{
		{"identity", 0, 0, 0},
		{"recenter", -90, 10, 0},
		{"all angles", 37, -52, 121},
		{"half turn", 180, 180, 180},
	}

	rng := rand.New(rand.NewSource(7))
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for i := 0; i < 1000; i++ {
				p := SkyPosition{L: 360*rng.Float64() - 180, B: 170*rng.Float64() - 85}
				rotated := Rotate(p, tc.alpha, tc.beta, tc.gamma, false)
				back := Rotate(rotated, tc.alpha, tc.beta, tc.gamma, true)
				if math.Abs(back.B-p.B) > 1e-9 || math.Abs(WrapLongitude(back.L-p.L)) > 1e-9 {
					t.Fatalf("expected %v after rotating there and back, got %v", p, back)
				}
			}
		})
	}
}

func TestRecenterRotation(t *testing.T) {
	centers := []SkyPosition{{90, 10}, {-45, -30}, {180, 0}, {12.5, 60}}
	for _, c := range centers {
		forward, backward := recenterRotations(c)
		moved := forward.Apply(c)
		if math.Abs(moved.L) > 1e-9 || math.Abs(moved.B) > 1e-9 {
			t.Errorf("expected center %v to move to the origin, got %v", c, moved)
		}
		origin := backward.Apply(SkyPosition{})
		if math.Abs(WrapLongitude(origin.L-c.L)) > 1e-9 || math.Abs(origin.B-c.B) > 1e-9 {
			t.Errorf("expected the origin to move back to %v, got %v", c, origin)
		}
	}
}

func TestWrapLongitude(t *testing.T) {
	testCases := []struct {
		in     float64
		expect float64
	}{
		{0, 0},
		{180, 180},
		{-180, 180},
		{190, -170},
		{360, 0},
		{-190, 170},
		{540, 180},
	}
	for _, tc := range testCases {
		if got := WrapLongitude(tc.in); math.Abs(got-tc.expect) > 1e-12 {
			t.Errorf("expected %v to wrap to %v, got %v", tc.in, tc.expect, got)
		}
	}
}
