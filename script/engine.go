package script

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/lixenwraith/vi-scene/engine"
	"github.com/lixenwraith/vi-scene/tag"
	"github.com/lixenwraith/vi-scene/vmath"
)

// Engine wraps a single gopher-lua VM running entity behaviours
// Single-goroutine access only, behaviours run inside the scene update pass
type Engine struct {
	vm   *lua.LState
	log  *zap.Logger
	tags *tag.Registry

	// precision is the line_check sample spacing when the script passes none
	precision float64

	// scene of the behaviour currently running, nil between calls
	current *engine.Scene
}

// NewEngine creates a Lua engine and loads every script in dir, a missing dir loads nothing
func NewEngine(dir string, tags *tag.Registry, log *zap.Logger) (*Engine, error) {
	e := newEngine(tags, log)
	if dir == "" {
		return e, nil
	}
	if err := e.loadDir(dir); err != nil {
		e.vm.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	return e, nil
}

func newEngine(tags *tag.Registry, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	if tags == nil {
		tags = tag.NewRegistry(tag.MaxTags)
	}
	vm := lua.NewState(lua.Options{SkipOpenLibs: false})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log, tags: tags, precision: 1}
	vm.SetGlobal("collide_point", vm.NewFunction(e.luaCollidePoint))
	vm.SetGlobal("line_check", vm.NewFunction(e.luaLineCheck))
	return e
}

// loadDir loads all .lua files in a directory in name order
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			e.log.Warn("script dir not found", zap.String("dir", dir))
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// LoadString runs src as a chunk, defining its globals
func (e *Engine) LoadString(src string) error {
	if err := e.vm.DoString(src); err != nil {
		return fmt.Errorf("load chunk: %w", err)
	}
	return nil
}

// Has reports whether a global Lua function named fn exists
func (e *Engine) Has(fn string) bool {
	_, ok := e.vm.GetGlobal(fn).(*lua.LFunction)
	return ok
}

// SetLinePrecision sets the default line_check sample spacing, non-positive values are ignored
func (e *Engine) SetLinePrecision(p float64) {
	if p > 0 {
		e.precision = p
	}
}

// Tags returns the registry behaviours resolve tag names against
func (e *Engine) Tags() *tag.Registry { return e.tags }

// Close shuts down the Lua VM
func (e *Engine) Close() {
	e.vm.Close()
}

// resolveTag maps a Lua tag name to a tag, logging unknown names
func (e *Engine) resolveTag(name string) (tag.Tag, bool) {
	t, ok := e.tags.Lookup(name)
	if !ok {
		e.log.Warn("unknown tag in script", zap.String("tag", name))
	}
	return t, ok
}

// collide_point(x, y, tag) -> bool
func (e *Engine) luaCollidePoint(L *lua.LState) int {
	p := vmath.V2F(float64(L.CheckNumber(1)), float64(L.CheckNumber(2)))
	t, ok := e.resolveTag(L.CheckString(3))
	if !ok || e.current == nil {
		L.Push(lua.LFalse)
		return 1
	}
	L.Push(lua.LBool(e.current.CollideCheck(engine.Point(p), t)))
	return 1
}

// line_check(x1, y1, x2, y2, tag[, precision]) -> x, y
func (e *Engine) luaLineCheck(L *lua.LState) int {
	from := vmath.V2F(float64(L.CheckNumber(1)), float64(L.CheckNumber(2)))
	to := vmath.V2F(float64(L.CheckNumber(3)), float64(L.CheckNumber(4)))
	t, ok := e.resolveTag(L.CheckString(5))
	precision := float64(L.OptNumber(6, lua.LNumber(e.precision)))
	if precision <= 0 {
		L.ArgError(6, "precision must be positive")
		return 0
	}

	end := to
	if ok && e.current != nil {
		end = e.current.LineCheck(from, to, t, precision)
	}
	L.Push(lua.LNumber(end.X))
	L.Push(lua.LNumber(end.Y))
	return 2
}

func lStr(t *lua.LTable, key string) string {
	return lua.LVAsString(t.RawGetString(key))
}

func lNum(t *lua.LTable, key string) float64 {
	return float64(lua.LVAsNumber(t.RawGetString(key)))
}

func lHas(t *lua.LTable, key string) bool {
	return t.RawGetString(key) != lua.LNil
}
