package engine

import (
	"github.com/lixenwraith/vi-scene/tag"
	"github.com/lixenwraith/vi-scene/vmath"
)

// Entity is the capability set the scene drives
// Implementations embed Base and must be pointer types, they are used as map keys
type Entity interface {
	Core() *Base

	// Lifecycle hooks, invoked by the scene
	Added(s *Scene)
	Removed(s *Scene)
	Awake(s *Scene)
	SceneBegin(s *Scene)
	SceneEnd(s *Scene)

	Update()
	Render()
	HandleGraphicsReset()

	// Geometry predicates consumed by spatial queries
	CollidePoint(p vmath.Vec2F) bool
	CollideRect(r vmath.RectF) bool
	CollideLine(from, to vmath.Vec2F) bool
}

// Base holds the scene-managed state of an entity and no-op default hooks
type Base struct {
	Active     bool
	Visible    bool
	Collidable bool
	Position   vmath.Vec2F

	depth       float64
	actualDepth float64
	depthSeq    uint64
	tags        tag.Set

	scene   *Scene
	pending *Scene // scene holding a queued add, nil once applied
	self    Entity
}

// NewBase returns an active, visible, collidable base at depth 0
func NewBase() Base {
	return Base{Active: true, Visible: true, Collidable: true}
}

// Core returns the embedded base, satisfying Entity for any embedder
func (b *Base) Core() *Base { return b }

func (b *Base) Added(s *Scene)        {}
func (b *Base) Removed(s *Scene)      {}
func (b *Base) Awake(s *Scene)        {}
func (b *Base) SceneBegin(s *Scene)   {}
func (b *Base) SceneEnd(s *Scene)     {}
func (b *Base) Update()               {}
func (b *Base) Render()               {}
func (b *Base) HandleGraphicsReset()  {}

func (b *Base) CollidePoint(p vmath.Vec2F) bool       { return false }
func (b *Base) CollideRect(r vmath.RectF) bool        { return false }
func (b *Base) CollideLine(from, to vmath.Vec2F) bool { return false }

// Scene returns the owning scene, nil until the add is applied
func (b *Base) Scene() *Scene { return b.scene }

// Depth returns the nominal depth
func (b *Base) Depth() float64 { return b.depth }

// ActualDepth returns the ordering key, for ordering only
func (b *Base) ActualDepth() float64 { return b.actualDepth }

// SetDepth changes the nominal depth and re-resolves the ordering key while in a scene
func (b *Base) SetDepth(d float64) {
	if b.depth == d {
		return
	}
	b.depth = d
	if b.scene != nil {
		b.scene.SetActualDepth(b.self)
	} else {
		b.actualDepth = d
	}
}

// Tags returns the tag set
func (b *Base) Tags() tag.Set { return b.tags }

// HasTag reports membership of t
func (b *Base) HasTag(t tag.Tag) bool { return b.tags.Has(t) }

// AddTag joins t, updating the tag index while in a scene
func (b *Base) AddTag(t tag.Tag) { b.SetTags(b.tags.With(t)) }

// RemoveTag leaves t, updating the tag index while in a scene
func (b *Base) RemoveTag(t tag.Tag) { b.SetTags(b.tags.Without(t)) }

// ClearTags leaves every tag
func (b *Base) ClearTags() { b.SetTags(0) }

// SetTags replaces the tag set, tag index membership changes in the same call
func (b *Base) SetTags(next tag.Set) {
	prev := b.tags
	if prev == next {
		return
	}
	if b.scene == nil {
		if b.pending != nil {
			b.pending.tags.validate(next)
		}
		b.tags = next
		return
	}
	b.scene.tags.retag(b.self, prev, next)
	b.tags = next
}

// RemoveSelf removes the entity from its scene, deferred like any scene removal
// A queued add not yet applied is cancelled
func (b *Base) RemoveSelf() {
	switch {
	case b.scene != nil:
		b.scene.Remove(b.self)
	case b.pending != nil:
		b.pending.Remove(b.self)
	}
}
