package engine

import (
	"fmt"
	"slices"
)

// Renderer is driven through three phases each frame, in registration order
type Renderer interface {
	BeforeRender(s *Scene)
	Render(s *Scene)
	AfterRender(s *Scene)
}

// VisibilityToggle is optionally implemented for runtime enable/disable
type VisibilityToggle interface {
	IsVisible() bool
}

// Updater is optionally implemented by renderers that animate between frames
type Updater interface {
	Update(s *Scene)
}

// RenderPriority orders renderers, lower renders first
type RenderPriority int

type rendererEntry struct {
	renderer Renderer
	priority RenderPriority
}

// RendererList keeps renderers in (priority, registration) order
type RendererList struct {
	scene   *Scene
	entries []rendererEntry
	scratch []rendererEntry
}

func newRendererList(s *Scene) *RendererList {
	return &RendererList{
		scene:   s,
		entries: make([]rendererEntry, 0, 8),
	}
}

// Add appends r at the default priority, after every renderer registered before it
func (rl *RendererList) Add(r Renderer) {
	rl.AddPriority(r, 0)
}

// AddPriority registers r at the given priority
// r lands after every entry of equal or lower priority, so ties keep registration order
func (rl *RendererList) AddPriority(r Renderer, priority RenderPriority) {
	rl.guard("add", r)

	at := slices.IndexFunc(rl.entries, func(e rendererEntry) bool { return e.priority > priority })
	if at < 0 {
		at = len(rl.entries)
	}
	rl.entries = slices.Insert(rl.entries, at, rendererEntry{renderer: r, priority: priority})
}

// Remove unregisters r, no-op if absent
func (rl *RendererList) Remove(r Renderer) {
	rl.guard("remove", r)
	if i := slices.IndexFunc(rl.entries, func(e rendererEntry) bool { return e.renderer == r }); i >= 0 {
		rl.entries = slices.Delete(rl.entries, i, i+1)
	}
}

// guard rejects registration changes while the render phases iterate the list
// Updates run with the list open, renderer Update hooks may register renderers
func (rl *RendererList) guard(op string, r Renderer) {
	if rl.scene != nil && rl.scene.mode == LockError {
		rl.scene.fail(fmt.Errorf("%w: %s renderer %T", ErrMutationForbidden, op, r))
	}
}

// Len returns the number of registered renderers
func (rl *RendererList) Len() int { return len(rl.entries) }

// All returns the renderers in drive order
func (rl *RendererList) All() []Renderer {
	out := make([]Renderer, len(rl.entries))
	for i, e := range rl.entries {
		out[i] = e.renderer
	}
	return out
}

// visible reports whether r takes part in this frame
func visible(r Renderer) bool {
	if vt, ok := r.(VisibilityToggle); ok && !vt.IsVisible() {
		return false
	}
	return true
}

// update runs Updater renderers over a snapshot so hooks may register more
func (rl *RendererList) update() {
	rl.scratch = append(rl.scratch[:0], rl.entries...)
	for _, e := range rl.scratch {
		if u, ok := e.renderer.(Updater); ok && visible(e.renderer) {
			u.Update(rl.scene)
		}
	}
	clear(rl.scratch)
}
