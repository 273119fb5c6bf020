package script

import (
	"github.com/gdamore/tcell/v2"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/lixenwraith/vi-scene/render"
	"github.com/lixenwraith/vi-scene/tag"
	"github.com/lixenwraith/vi-scene/vmath"
)

// Entity is a glyph whose update is a Lua behaviour
type Entity struct {
	render.Glyph
	Behaviour string

	vm    *Engine
	state *lua.LTable
}

// NewEntity creates a scripted glyph running behaviour each update, empty behaviour idles
func NewEntity(vm *Engine, behaviour string, ch rune, pos vmath.Vec2F) *Entity {
	return &Entity{
		Glyph:     *render.NewGlyph(ch, tcell.StyleDefault, pos),
		Behaviour: behaviour,
		vm:        vm,
	}
}

func (e *Entity) Update() {
	if e.Behaviour == "" {
		return
	}
	if e.state == nil {
		e.state = e.vm.vm.NewTable()
	}
	s := e.Scene()
	ctx := Context{
		X:     e.Position.X,
		Y:     e.Position.Y,
		Depth: e.Depth(),
		DT:    s.Clock().DeltaTime(),
		Time:  s.TimeActive(),
		State: e.state,
	}
	e.Tags().Each(func(t tag.Tag) {
		ctx.Tags = append(ctx.Tags, e.vm.tags.Name(t))
	})

	for _, cmd := range e.vm.Run(s, e.Behaviour, ctx) {
		e.apply(cmd)
	}
}

func (e *Entity) apply(cmd Command) {
	switch cmd.Type {
	case "move":
		e.Position = vmath.V2FAdd(e.Position, vmath.V2F(cmd.X, cmd.Y))
	case "move_to":
		e.Position = vmath.V2F(cmd.X, cmd.Y)
	case "depth":
		e.SetDepth(cmd.Depth)
	case "glyph":
		if cmd.Rune != 0 {
			e.Rune = cmd.Rune
		}
	case "tag":
		if t, ok := e.vm.resolveTag(cmd.Tag); ok {
			e.AddTag(t)
		}
	case "untag":
		if t, ok := e.vm.resolveTag(cmd.Tag); ok {
			e.RemoveTag(t)
		}
	case "remove":
		e.RemoveSelf()
	case "spawn":
		ch := cmd.Rune
		if ch == 0 {
			ch = e.Rune
		}
		child := NewEntity(e.vm, cmd.Behaviour, ch, vmath.V2F(cmd.X, cmd.Y))
		child.Style = e.Style
		if cmd.HasDepth {
			child.SetDepth(cmd.Depth)
		}
		if cmd.Tag != "" {
			if t, ok := e.vm.resolveTag(cmd.Tag); ok {
				child.AddTag(t)
			}
		}
		e.Scene().Add(child)
	default:
		e.vm.log.Warn("unknown script command", zap.String("type", cmd.Type))
	}
}
