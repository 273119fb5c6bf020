package script

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/lixenwraith/vi-scene/engine"
)

// Context is the per-update state handed to a Lua behaviour
type Context struct {
	X, Y  float64
	Depth float64
	DT    float64
	Time  float64
	Tags  []string

	// State persists across calls for one entity, nil passes a fresh table
	State *lua.LTable
}

// Command is a single action returned by a Lua behaviour
type Command struct {
	Type      string // "move", "move_to", "depth", "glyph", "tag", "untag", "remove", "spawn"
	X, Y      float64
	Depth     float64
	HasDepth  bool
	Rune      rune
	Tag       string
	Behaviour string
}

// Run calls the Lua function fn(ctx) and returns its commands
// Errors are logged and yield no commands, the entity keeps its state
func (e *Engine) Run(s *engine.Scene, fn string, ctx Context) []Command {
	f := e.vm.GetGlobal(fn)
	if f == lua.LNil {
		e.log.Error("lua behaviour not found", zap.String("name", fn))
		return nil
	}

	t := e.vm.NewTable()
	t.RawSetString("x", lua.LNumber(ctx.X))
	t.RawSetString("y", lua.LNumber(ctx.Y))
	t.RawSetString("depth", lua.LNumber(ctx.Depth))
	t.RawSetString("dt", lua.LNumber(ctx.DT))
	t.RawSetString("time", lua.LNumber(ctx.Time))
	tags := e.vm.NewTable()
	for i, name := range ctx.Tags {
		tags.RawSetInt(i+1, lua.LString(name))
	}
	t.RawSetString("tags", tags)
	if ctx.State != nil {
		t.RawSetString("state", ctx.State)
	} else {
		t.RawSetString("state", e.vm.NewTable())
	}

	e.current = s
	err := e.vm.CallByParam(lua.P{
		Fn:      f,
		NRet:    1,
		Protect: true,
	}, t)
	e.current = nil
	if err != nil {
		e.log.Error("lua behaviour error", zap.String("name", fn), zap.Error(err))
		return nil
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		return nil
	}

	var cmds []Command
	rt.ForEach(func(_, v lua.LValue) {
		row, ok := v.(*lua.LTable)
		if !ok {
			return
		}
		cmd := Command{
			Type:      lStr(row, "type"),
			X:         lNum(row, "x"),
			Y:         lNum(row, "y"),
			Depth:     lNum(row, "depth"),
			HasDepth:  lHas(row, "depth"),
			Tag:       lStr(row, "tag"),
			Behaviour: lStr(row, "behaviour"),
		}
		if r := []rune(lStr(row, "rune")); len(r) > 0 {
			cmd.Rune = r[0]
		}
		cmds = append(cmds, cmd)
	})
	return cmds
}
