// Package rules - geometry.go
// Minimal vector math for the rules engine. The actual navigation happens in
// the movement collaborator; the engine only reasons about positions it is
// handed each tick.
package rules

import "math"

// Vec3 is a world position. Y is the vertical axis and is ignored by all
// horizontal-plane checks (capture range, flee headings).
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// IsZero reports whether the vector has no horizontal component.
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Z == 0
}

// HorizontalNorm returns v with Y dropped and unit length on the XZ plane.
// The zero vector is returned unchanged.
func (v Vec3) HorizontalNorm() Vec3 {
	l := math.Sqrt(v.X*v.X + v.Z*v.Z)
	if l == 0 {
		return Vec3{}
	}
	return Vec3{X: v.X / l, Z: v.Z / l}
}

// HorizontalDistance returns the distance between a and b on the XZ plane.
// Capture checks ignore the vertical axis: a pet on a shelf directly above
// the groomer is still in range.
func HorizontalDistance(a, b Vec3) float64 {
	dx := a.X - b.X
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dz*dz)
}

// Bounds is the playable rectangle on the XZ plane.
type Bounds struct {
	MinX, MaxX float64
	MinZ, MaxZ float64
}

// Clamp forces p into the bounds, leaving Y untouched.
func (b Bounds) Clamp(p Vec3) Vec3 {
	if p.X < b.MinX {
		p.X = b.MinX
	}
	if p.X > b.MaxX {
		p.X = b.MaxX
	}
	if p.Z < b.MinZ {
		p.Z = b.MinZ
	}
	if p.Z > b.MaxZ {
		p.Z = b.MaxZ
	}
	return p
}

// OpennessProbe is implemented by the movement collaborator. It scores how
// much free room exists from a position along a heading (higher = more open).
type OpennessProbe interface {
	OpennessAt(from Vec3, heading Vec3) float64
}

// DirectAwayHeading is the cat flee heuristic: straight away from the threat
// on the horizontal plane. Returns the zero vector when pet and threat
// overlap exactly; the caller keeps the pet in place in that case.
func DirectAwayHeading(petPos, threatPos Vec3) Vec3 {
	return petPos.Sub(threatPos).HorizontalNorm()
}

// awayWeight biases the open-direction search toward fleeing the threat.
const awayWeight = 1.5

// OpenFleeHeading is the dog flee heuristic: sample 8 compass headings, score
// each by openness plus an away-from-threat bonus, and take the best. With a
// nil probe it degrades to DirectAwayHeading.
func OpenFleeHeading(petPos, threatPos Vec3, probe OpennessProbe) Vec3 {
	away := DirectAwayHeading(petPos, threatPos)
	if probe == nil {
		return away
	}

	best := Vec3{}
	bestScore := math.Inf(-1)
	for i := 0; i < 8; i++ {
		angle := float64(i) * math.Pi / 4
		h := Vec3{X: math.Cos(angle), Z: math.Sin(angle)}
		score := probe.OpennessAt(petPos, h) + awayWeight*(h.X*away.X+h.Z*away.Z)
		if score > bestScore {
			bestScore = score
			best = h
		}
	}
	return best
}
