package engine

import (
	"fmt"
	"math"

	"github.com/lixenwraith/vi-scene/tag"
	"github.com/lixenwraith/vi-scene/vmath"
)

// Probe is a shape tested against entity geometry predicates
type Probe interface {
	Hits(e Entity) bool
}

// PointProbe tests CollidePoint
type PointProbe struct{ P vmath.Vec2F }

// RectProbe tests CollideRect
type RectProbe struct{ R vmath.RectF }

// LineProbe tests CollideLine
type LineProbe struct{ From, To vmath.Vec2F }

func (p PointProbe) Hits(e Entity) bool { return e.CollidePoint(p.P) }
func (p RectProbe) Hits(e Entity) bool  { return e.CollideRect(p.R) }
func (p LineProbe) Hits(e Entity) bool  { return e.CollideLine(p.From, p.To) }

// Point probes a single position
func Point(p vmath.Vec2F) PointProbe { return PointProbe{P: p} }

// Rect probes an axis-aligned area
func Rect(r vmath.RectF) RectProbe { return RectProbe{R: r} }

// Line probes the segment from a to b
func Line(a, b vmath.Vec2F) LineProbe { return LineProbe{From: a, To: b} }

// collidable reports whether e takes part in queries and is hit by p
func collidable(e Entity, p Probe) bool {
	return e.Core().Collidable && p.Hits(e)
}

// CollideCheck reports whether any collidable entity tagged t is hit by p
func (s *Scene) CollideCheck(p Probe, t tag.Tag) bool {
	return s.CollideFirst(p, t) != nil
}

// CollideFirst returns the first hit in depth order, nil if none
func (s *Scene) CollideFirst(p Probe, t tag.Tag) Entity {
	l := s.tags.Lookup(t)
	if l == nil {
		return nil
	}
	for e := range l.All() {
		if collidable(e, p) {
			return e
		}
	}
	return nil
}

// CollideAll returns every hit in depth order in a fresh slice
func (s *Scene) CollideAll(p Probe, t tag.Tag) []Entity {
	return s.CollideInto(p, t, nil)
}

// CollideInto appends every hit in depth order to dst
func (s *Scene) CollideInto(p Probe, t tag.Tag, dst []Entity) []Entity {
	l := s.tags.Lookup(t)
	if l == nil {
		return dst
	}
	l.Each(func(e Entity) {
		if collidable(e, p) {
			dst = append(dst, e)
		}
	})
	return dst
}

// CollideDo calls fn for every hit in depth order
func (s *Scene) CollideDo(p Probe, t tag.Tag, fn func(Entity)) {
	l := s.tags.Lookup(t)
	if l == nil {
		return
	}
	l.Each(func(e Entity) {
		if collidable(e, p) {
			fn(e)
		}
	})
}

// LineCheck marches from toward to in steps of precision and returns the last
// clear sample before the first blocked one, or to when every sample is clear
// Samples are floor(|to-from|/precision)+1 points starting one step from from,
// obstacles thinner than precision can fall between samples
func (s *Scene) LineCheck(from, to vmath.Vec2F, t tag.Tag, precision float64) vmath.Vec2F {
	if !(precision > 0) {
		s.fail(fmt.Errorf("%w: %v", ErrInvalidPrecision, precision))
	}

	step := vmath.V2FScale(vmath.V2FNormalize(vmath.V2FSub(to, from)), precision)
	steps := int(math.Floor(vmath.V2FDist(from, to) / precision))

	prev := from
	at := vmath.V2FAdd(from, step)
	for i := 0; i <= steps; i++ {
		if s.CollideCheck(Point(at), t) {
			return prev
		}
		prev = at
		at = vmath.V2FAdd(at, step)
	}
	return to
}
