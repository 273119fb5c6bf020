package engine

import (
	"fmt"
	"iter"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/vi-scene/tag"
)

// DefaultStep is the frame step of a scene created without WithClock
const DefaultStep = time.Second / 60

type sceneOptions struct {
	maxTags int
	clock   Clock
	log     *zap.Logger
}

// Option configures NewScene
type Option func(*sceneOptions)

// WithMaxTags bounds tag ids to [0, n), n in [1, tag.MaxTags]
func WithMaxTags(n int) Option {
	return func(o *sceneOptions) { o.maxTags = n }
}

// WithClock sets the delta time source
func WithClock(c Clock) Option {
	return func(o *sceneOptions) { o.clock = c }
}

// WithLogger sets the scene logger
func WithLogger(l *zap.Logger) Option {
	return func(o *sceneOptions) { o.log = l }
}

// Scene owns the entities of one gameplay context and drives their frame lifecycle
//
// Frame order: Update (entities locked, mutations deferred), then BeforeRender,
// Render, AfterRender (entities in error mode, mutations panic). Begin and End
// bracket the scene's time in focus
type Scene struct {
	entities  *EntityList
	tags      *TagIndex
	depth     *depthResolver
	renderers *RendererList
	clock     Clock
	log       *zap.Logger

	mode    LockMode
	active  Renderer
	focused bool

	// Paused skips entity and renderer updates, game time stops
	Paused bool

	timeActive    float64
	rawTimeActive float64

	endOfFrame []func()
	endScratch []func()

	updateFn func(Entity)
}

// NewScene creates an empty open scene
func NewScene(opts ...Option) *Scene {
	o := sceneOptions{maxTags: tag.MaxTags}
	for _, opt := range opts {
		opt(&o)
	}
	if o.maxTags < 1 || o.maxTags > tag.MaxTags {
		panic(fmt.Errorf("%w: max tags %d not in [1, %d]", ErrTagOutOfRange, o.maxTags, tag.MaxTags))
	}
	if o.clock == nil {
		o.clock = NewFixedClock(DefaultStep)
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}

	s := &Scene{
		clock: o.clock,
		log:   o.log,
		depth: newDepthResolver(o.log),
	}
	s.tags = newTagIndex(o.maxTags, s.logViolation)
	s.renderers = newRendererList(s)

	s.entities = NewEntityList("scene")
	s.entities.hooks = listHooks{
		admit:     s.entityAdmit,
		dropped:   s.entityDropped,
		added:     s.entityAdded,
		removed:   s.entityRemoved,
		awake:     s.entityAwake,
		violation: s.logViolation,
	}

	s.updateFn = func(e Entity) {
		if e.Core().Active {
			e.Update()
		}
	}
	return s
}

// entityAdmit rejects a tag set outside the index before e is queued or inserted
func (s *Scene) entityAdmit(e Entity) {
	b := e.Core()
	s.tags.validate(b.tags)
	if b.scene == nil {
		b.pending = s
		b.self = e
	}
}

// entityDropped clears the back-pointer of an add cancelled before it applied
func (s *Scene) entityDropped(e Entity) {
	b := e.Core()
	if b.pending == s {
		b.pending = nil
		b.self = nil
	}
}

func (s *Scene) entityAdded(e Entity) {
	b := e.Core()
	b.scene = s
	b.pending = nil
	b.self = e
	s.tags.entityAdded(e)
	s.SetActualDepth(e)
	e.Added(s)
}

func (s *Scene) entityRemoved(e Entity) {
	s.tags.entityRemoved(e)
	e.Removed(s)
	b := e.Core()
	b.scene = nil
	b.self = nil
}

func (s *Scene) entityAwake(e Entity) {
	e.Awake(s)
}

func (s *Scene) logViolation(err error) {
	s.log.Error("scene contract violation", zap.Error(err), zap.Stringer("mode", s.mode))
}

// fail logs and panics with err
func (s *Scene) fail(err error) {
	s.logViolation(err)
	panic(err)
}

// setLockMode drives the main list and every tag list together
// Tag lists open before the main list flushes, so Added and Awake hooks
// of the batch see their own tag membership
func (s *Scene) setLockMode(m LockMode) {
	s.mode = m
	if m == LockOpen {
		s.tags.SetLockMode(m)
		s.entities.SetLockMode(m)
		return
	}
	s.entities.SetLockMode(m)
	s.tags.SetLockMode(m)
}

// LockMode returns the current frame-phase mode
func (s *Scene) LockMode() LockMode { return s.mode }

// SetActualDepth re-resolves e's ordering key and invalidates every list holding e
func (s *Scene) SetActualDepth(e Entity) {
	b := e.Core()
	s.depth.resolve(b)
	s.entities.MarkUnsorted()
	s.tags.markUnsorted(b.tags)
}

// Begin marks the scene focused and notifies every entity
func (s *Scene) Begin() {
	s.focused = true
	s.log.Debug("scene begin", zap.Int("entities", s.entities.Len()))
	s.entities.Each(func(e Entity) { e.SceneBegin(s) })
}

// End marks the scene unfocused and notifies every entity
func (s *Scene) End() {
	s.focused = false
	s.log.Debug("scene end", zap.Int("entities", s.entities.Len()))
	s.entities.Each(func(e Entity) { e.SceneEnd(s) })
}

// GainFocus marks the scene focused again without re-running SceneBegin hooks
func (s *Scene) GainFocus() {
	s.focused = true
	s.log.Debug("scene gained focus")
}

// Focused reports whether the scene is between Begin and End
func (s *Scene) Focused() bool { return s.focused }

// Update advances time and runs one locked pass over active entities
// Adds and removes issued during the pass apply when it ends
func (s *Scene) Update() {
	if !s.Paused {
		s.timeActive += s.clock.DeltaTime()
	}
	s.rawTimeActive += s.clock.RawDeltaTime()

	s.setLockMode(LockLocked)
	if !s.Paused {
		s.entities.Each(s.updateFn)
	}
	s.setLockMode(LockOpen)

	if !s.Paused {
		s.renderers.update()
	}
	s.runEndOfFrame()
}

// BeforeRender enters error mode and runs every renderer's setup hook
func (s *Scene) BeforeRender() {
	s.setLockMode(LockError)
	for _, e := range s.renderers.entries {
		if visible(e.renderer) {
			s.active = e.renderer
			e.renderer.BeforeRender(s)
		}
	}
}

// Render runs every renderer's render hook
func (s *Scene) Render() {
	for _, e := range s.renderers.entries {
		if visible(e.renderer) {
			s.active = e.renderer
			e.renderer.Render(s)
		}
	}
}

// AfterRender runs every renderer's teardown hook and reopens the scene
func (s *Scene) AfterRender() {
	for _, e := range s.renderers.entries {
		if visible(e.renderer) {
			s.active = e.renderer
			e.renderer.AfterRender(s)
		}
	}
	s.active = nil
	s.setLockMode(LockOpen)
}

// Step runs one full frame: Update, BeforeRender, Render, AfterRender
func (s *Scene) Step() {
	s.Update()
	s.BeforeRender()
	s.Render()
	s.AfterRender()
}

// ActiveRenderer returns the renderer whose hook is running, nil outside render phases
func (s *Scene) ActiveRenderer() Renderer { return s.active }

// HandleGraphicsReset notifies every entity that render resources were recreated
func (s *Scene) HandleGraphicsReset() {
	s.entities.Each(func(e Entity) { e.HandleGraphicsReset() })
}

// OnEndOfFrame queues fn to run after the current or next Update pass
func (s *Scene) OnEndOfFrame(fn func()) {
	s.endOfFrame = append(s.endOfFrame, fn)
}

func (s *Scene) runEndOfFrame() {
	for len(s.endOfFrame) > 0 {
		fns := s.endOfFrame
		s.endOfFrame = s.endScratch[:0]
		for _, fn := range fns {
			fn()
		}
		clear(fns)
		s.endScratch = fns[:0]
	}
}

// TimeActive returns accumulated game time in seconds, paused frames excluded
func (s *Scene) TimeActive() float64 { return s.timeActive }

// RawTimeActive returns accumulated unscaled time including paused frames
func (s *Scene) RawTimeActive() float64 { return s.rawTimeActive }

// OnInterval reports whether the last Update crossed a multiple of interval
func (s *Scene) OnInterval(interval float64) bool {
	return s.OnIntervalOffset(interval, 0)
}

// OnIntervalOffset is OnInterval with the interval grid shifted by offset
func (s *Scene) OnIntervalOffset(interval, offset float64) bool {
	if interval <= 0 {
		return false
	}
	now := s.timeActive - offset
	prev := now - s.clock.DeltaTime()
	return math.Floor(prev/interval) < math.Floor(now/interval)
}

// Clock returns the delta time source
func (s *Scene) Clock() Clock { return s.clock }

// Logger returns the scene logger
func (s *Scene) Logger() *zap.Logger { return s.log }

// Entities returns the main depth-ordered list
func (s *Scene) Entities() *EntityList { return s.entities }

// Tags returns the tag index
func (s *Scene) Tags() *TagIndex { return s.tags }

// Renderers returns the renderer pipeline
func (s *Scene) Renderers() *RendererList { return s.renderers }

// All yields every entity in depth order
func (s *Scene) All() iter.Seq[Entity] { return s.entities.All() }

// Tagged yields the entities carrying t in depth order
func (s *Scene) Tagged(t tag.Tag) iter.Seq[Entity] {
	s.tags.check(t)
	return func(yield func(Entity) bool) {
		l := s.tags.Lookup(t)
		if l == nil {
			return
		}
		for e := range l.All() {
			if !yield(e) {
				return
			}
		}
	}
}

// Add schedules e for the scene
func (s *Scene) Add(e Entity) { s.entities.Add(e) }

// AddRange schedules every entity in order
// Every tag set is checked first, a bad one leaves the scene untouched
func (s *Scene) AddRange(es ...Entity) {
	for _, e := range es {
		s.tags.validate(e.Core().tags)
	}
	for _, e := range es {
		s.entities.Add(e)
	}
}

// Remove schedules e for removal
func (s *Scene) Remove(e Entity) { s.entities.Remove(e) }

// RemoveRange schedules every entity for removal
func (s *Scene) RemoveRange(es ...Entity) {
	for _, e := range es {
		s.entities.Remove(e)
	}
}

// AddRenderer appends r to the pipeline in registration order
func (s *Scene) AddRenderer(r Renderer) { s.renderers.Add(r) }

// RemoveRenderer drops r from the pipeline
func (s *Scene) RemoveRenderer(r Renderer) { s.renderers.Remove(r) }

// RenderEntities renders every visible entity in depth order
func (s *Scene) RenderEntities() {
	s.entities.Each(renderVisible)
}

// RenderTagged renders the visible entities carrying t
func (s *Scene) RenderTagged(t tag.Tag) {
	if l := s.tags.Lookup(t); l != nil {
		l.Each(renderVisible)
	}
}

// RenderExcept renders the visible entities not carrying t
func (s *Scene) RenderExcept(t tag.Tag) {
	s.tags.check(t)
	s.entities.Each(func(e Entity) {
		if !e.Core().tags.Has(t) {
			renderVisible(e)
		}
	})
}

func renderVisible(e Entity) {
	if e.Core().Visible {
		e.Render()
	}
}
