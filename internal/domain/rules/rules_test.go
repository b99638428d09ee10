package rules

import (
	"math"
	"testing"
)

func TestEscapeChanceDecay(t *testing.T) {
	cases := []struct {
		base  float64
		steps int
		want  float64
	}{
		{0.4, 0, 0.4},
		{0.4, 1, 0.3},
		{0.4, 2, 0.2},
		{0.4, 3, 0.1},
		{0.3, 0, 0.3},
		{0.3, 3, 0.0},
		{0.3, 5, 0.0}, // floored, never negative
	}
	for _, c := range cases {
		got := EscapeChance(c.base, 0.1, c.steps)
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("EscapeChance(%f, 0.1, %d): expected %f, got %f", c.base, c.steps, c.want, got)
		}
	}
}

func TestMischiefThreshold(t *testing.T) {
	if got := MischiefThreshold(2); got != 800 {
		t.Errorf("Expected 800 for 2 pets, got %d", got)
	}
	if got := MischiefThreshold(3); got != 1000 {
		t.Errorf("Expected 1000 for 3 pets, got %d", got)
	}
	if got := MischiefThreshold(4); got != 1000 {
		t.Errorf("Expected 1000 for 4 pets, got %d", got)
	}
}

func TestAlertTriggerValue(t *testing.T) {
	if got := AlertTriggerValue(800, 100); got != 700 {
		t.Errorf("Expected trigger 700, got %d", got)
	}
	if got := AlertTriggerValue(1000, 100); got != 900 {
		t.Errorf("Expected trigger 900, got %d", got)
	}
}

func TestGroomerSpeedMultiplier(t *testing.T) {
	cases := []struct {
		carrying bool
		alert    bool
		want     float64
	}{
		{false, false, 1.0},
		{true, false, 0.85},
		{false, true, 1.1},
		{true, true, 0.85 * 1.1},
	}
	for _, c := range cases {
		got := GroomerSpeedMultiplier(c.carrying, c.alert, 0.85, 0.1)
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("carrying=%v alert=%v: expected %f, got %f", c.carrying, c.alert, c.want, got)
		}
	}
}

func TestHorizontalDistanceIgnoresY(t *testing.T) {
	a := Vec3{X: 0, Y: 0, Z: 0}
	b := Vec3{X: 3, Y: 100, Z: 4}
	if got := HorizontalDistance(a, b); got != 5.0 {
		t.Errorf("Expected XZ distance 5.0 regardless of Y, got %f", got)
	}
}

func TestBoundsClamp(t *testing.T) {
	b := Bounds{MinX: -25, MaxX: 25, MinZ: -25, MaxZ: 25}
	p := b.Clamp(Vec3{X: 30, Y: 2, Z: -40})
	if p.X != 25 || p.Z != -25 {
		t.Errorf("Expected clamp to (25, -25), got (%f, %f)", p.X, p.Z)
	}
	if p.Y != 2 {
		t.Errorf("Expected Y untouched, got %f", p.Y)
	}
}

func TestDirectAwayHeading(t *testing.T) {
	h := DirectAwayHeading(Vec3{X: 1, Z: 0}, Vec3{X: 0, Z: 0})
	if h.X != 1 || h.Z != 0 {
		t.Errorf("Expected (1, 0), got (%f, %f)", h.X, h.Z)
	}

	// Exact overlap degrades to the zero vector.
	h = DirectAwayHeading(Vec3{X: 2, Z: 2}, Vec3{X: 2, Z: 2})
	if !h.IsZero() {
		t.Errorf("Expected zero heading on overlap, got (%f, %f)", h.X, h.Z)
	}
}

// wallProbe scores east as fully blocked and everything else as open.
type wallProbe struct{}

func (wallProbe) OpennessAt(from Vec3, heading Vec3) float64 {
	if heading.X > 0.9 {
		return -10.0
	}
	return 1.0
}

func TestOpenFleeHeadingAvoidsBlockedDirection(t *testing.T) {
	// Threat west of the pet: direct away is east, but east is a wall.
	h := OpenFleeHeading(Vec3{X: 0, Z: 0}, Vec3{X: -5, Z: 0}, wallProbe{})
	if h.X > 0.9 && math.Abs(h.Z) < 0.1 {
		t.Errorf("Expected the blocked due-east heading avoided, got (%f, %f)", h.X, h.Z)
	}
	if h.IsZero() {
		t.Error("Expected some heading to be chosen")
	}
}

func TestOpenFleeHeadingNilProbe(t *testing.T) {
	h := OpenFleeHeading(Vec3{X: 1, Z: 0}, Vec3{X: 0, Z: 0}, nil)
	if h.X != 1 || h.Z != 0 {
		t.Errorf("Expected direct-away fallback (1, 0), got (%f, %f)", h.X, h.Z)
	}
}
