package engine

import (
	"errors"
	"testing"

	"github.com/lixenwraith/vi-scene/vmath"
)

// probeEntity is a box-shaped entity recording its hook calls
type probeEntity struct {
	Base
	name     string
	box      vmath.RectF
	updates  int
	renders  int
	onUpdate func()
	onAwake  func()
	journal  *[]string
}

func newProbe(name string, depth float64) *probeEntity {
	e := &probeEntity{Base: NewBase(), name: name}
	e.SetDepth(depth)
	return e
}

func (e *probeEntity) note(s string) {
	if e.journal != nil {
		*e.journal = append(*e.journal, e.name+":"+s)
	}
}

func (e *probeEntity) Added(s *Scene)      { e.note("added") }
func (e *probeEntity) Removed(s *Scene)    { e.note("removed") }
func (e *probeEntity) Awake(s *Scene) {
	e.note("awake")
	if e.onAwake != nil {
		e.onAwake()
	}
}
func (e *probeEntity) SceneBegin(s *Scene) { e.note("begin") }
func (e *probeEntity) SceneEnd(s *Scene)   { e.note("end") }

func (e *probeEntity) Update() {
	e.updates++
	e.note("update")
	if e.onUpdate != nil {
		e.onUpdate()
	}
}

func (e *probeEntity) Render() {
	e.renders++
	e.note("render")
}

func (e *probeEntity) CollidePoint(p vmath.Vec2F) bool       { return e.box.Contains(p) }
func (e *probeEntity) CollideRect(r vmath.RectF) bool        { return e.box.Overlaps(r) }
func (e *probeEntity) CollideLine(from, to vmath.Vec2F) bool { return e.box.IntersectsSegment(from, to) }

// names flattens a list into entity names in iteration order
func names(l *EntityList) []string {
	var out []string
	for e := range l.All() {
		out = append(out, e.(*probeEntity).name)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// expectPanic runs fn and checks the panic value wraps target
func expectPanic(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("Expected panic wrapping %v, got none", target)
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, target) {
			t.Fatalf("Expected panic wrapping %v, got %v", target, r)
		}
	}()
	fn()
}

// phaseRenderer records phase calls and optionally runs a hook in one phase
type phaseRenderer struct {
	name    string
	journal *[]string
	hidden  bool
	during  string
	hook    func(s *Scene)
	updates int
	active  []Renderer
}

func (r *phaseRenderer) phase(s *Scene, p string) {
	*r.journal = append(*r.journal, r.name+":"+p)
	r.active = append(r.active, s.ActiveRenderer())
	if r.hook != nil && r.during == p {
		r.hook(s)
	}
}

func (r *phaseRenderer) BeforeRender(s *Scene) { r.phase(s, "before") }
func (r *phaseRenderer) Render(s *Scene)       { r.phase(s, "render") }
func (r *phaseRenderer) AfterRender(s *Scene)  { r.phase(s, "after") }
func (r *phaseRenderer) IsVisible() bool       { return !r.hidden }
func (r *phaseRenderer) Update(s *Scene)       { r.updates++ }
