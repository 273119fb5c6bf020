package vmath

import (
	"math"
)

// Vec2F is a float64 2D vector for scene-space positions and probes
type Vec2F struct {
	X, Y float64
}

func V2F(x, y float64) Vec2F {
	return Vec2F{x, y}
}

func V2FAdd(a, b Vec2F) Vec2F {
	return Vec2F{a.X + b.X, a.Y + b.Y}
}

func V2FSub(a, b Vec2F) Vec2F {
	return Vec2F{a.X - b.X, a.Y - b.Y}
}

func V2FScale(v Vec2F, s float64) Vec2F {
	return Vec2F{v.X * s, v.Y * s}
}

func V2FDot(a, b Vec2F) float64 {
	return a.X*b.X + a.Y*b.Y
}

func V2FCross(a, b Vec2F) float64 {
	return a.X*b.Y - a.Y*b.X
}

func V2FMagSq(v Vec2F) float64 {
	return v.X*v.X + v.Y*v.Y
}

func V2FMag(v Vec2F) float64 {
	return math.Sqrt(V2FMagSq(v))
}

// V2FNormalize returns the unit vector, zero vector stays zero
func V2FNormalize(v Vec2F) Vec2F {
	mag := V2FMag(v)
	if mag == 0 {
		return Vec2F{}
	}
	inv := 1.0 / mag
	return Vec2F{v.X * inv, v.Y * inv}
}

// V2FDist returns euclidean distance between a and b
func V2FDist(a, b Vec2F) float64 {
	return V2FMag(V2FSub(a, b))
}

// V2FLerp interpolates from a to b, t in [0,1]
func V2FLerp(a, b Vec2F, t float64) Vec2F {
	return Vec2F{a.X + (b.X-a.X)*t, a.Y + (b.Y-a.Y)*t}
}

// V2FFloor truncates toward negative infinity, used for cell lookup
func V2FFloor(v Vec2F) (int, int) {
	return int(math.Floor(v.X)), int(math.Floor(v.Y))
}
