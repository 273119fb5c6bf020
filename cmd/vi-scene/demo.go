package main

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"go.uber.org/zap"

	"github.com/lixenwraith/vi-scene/audio"
	"github.com/lixenwraith/vi-scene/config"
	"github.com/lixenwraith/vi-scene/engine"
	"github.com/lixenwraith/vi-scene/render"
	"github.com/lixenwraith/vi-scene/script"
	"github.com/lixenwraith/vi-scene/tag"
	"github.com/lixenwraith/vi-scene/vmath"
)

// Render priorities, lower runs first
const (
	priorityWorld engine.RenderPriority = 100
	prioritySound engine.RenderPriority = 200
	priorityHUD   engine.RenderPriority = 400
)

const walkerCount = 6

// demoTags are the tag ids the demo scene relies on
type demoTags struct {
	solid tag.Tag
	actor tag.Tag
	hud   tag.Tag
	sfx   tag.Tag
}

// loadTags reads the tag file, a missing file starts an empty registry
func loadTags(path string, limit int) (*tag.Registry, demoTags, error) {
	reg, err := tag.LoadRegistry(path, limit)
	if errors.Is(err, fs.ErrNotExist) {
		reg, err = tag.NewRegistry(limit), nil
	}
	if err != nil {
		return nil, demoTags{}, err
	}

	var tags demoTags
	for _, def := range []struct {
		name string
		dst  *tag.Tag
	}{
		{"solid", &tags.solid},
		{"actor", &tags.actor},
		{"hud", &tags.hud},
		{"sfx", &tags.sfx},
	} {
		t, err := reg.Define(def.name)
		if err != nil {
			return nil, demoTags{}, fmt.Errorf("define tag %s: %w", def.name, err)
		}
		*def.dst = t
	}
	return reg, tags, nil
}

// demo owns the scene and its renderers for one terminal
type demo struct {
	scene  *engine.Scene
	wall   *engine.WallClock
	world  *render.TerminalRenderer
	hud    *render.TerminalRenderer
	sound  *audio.Renderer
	status *label
	tags   demoTags
	log    *zap.Logger
}

func newDemo(screen render.Screen, cfg *config.Config, tags demoTags, vm *script.Engine, log *zap.Logger) *demo {
	d := &demo{tags: tags, log: log}

	var clock engine.Clock
	if cfg.Engine.FixedStep > 0 {
		clock = engine.NewFixedClock(cfg.Engine.FixedStep)
	} else {
		d.wall = engine.NewWallClock(nil, cfg.Engine.MaxStep)
		clock = d.wall
	}
	d.scene = engine.NewScene(
		engine.WithMaxTags(cfg.Engine.MaxTags),
		engine.WithClock(clock),
		engine.WithLogger(log.Named("scene")),
	)

	d.world = render.NewTerminalRenderer(screen, render.ExceptTag(tags.hud), render.NoPresent())
	d.hud = render.NewTerminalRenderer(screen, render.OnlyTag(tags.hud), render.Overlay())
	d.scene.Renderers().AddPriority(d.world, priorityWorld)
	d.scene.Renderers().AddPriority(d.hud, priorityHUD)

	if cfg.Audio.Enabled {
		d.sound = audio.NewRenderer(beep.SampleRate(cfg.Audio.SampleRate),
			audio.WithTag(tags.sfx),
			audio.WithLogger(log.Named("audio")))
		d.sound.Volume = cfg.Audio.Volume
		d.scene.Renderers().AddPriority(d.sound, prioritySound)
	}

	w, h := screen.Size()
	d.buildArena(w, h)
	d.spawnWalkers(vm, w, h)

	metronome := audio.NewBeeper(audio.Tone{
		Freq:     880,
		Wave:     audio.WaveSine,
		Duration: 80 * time.Millisecond,
		Attack:   5 * time.Millisecond,
		Release:  40 * time.Millisecond,
		Volume:   0.3,
	})
	metronome.Interval = 2
	metronome.AddTag(tags.sfx)
	d.scene.Add(metronome)

	d.status = newLabel(vmath.V2F(1, 0), tcell.StyleDefault.Reverse(true))
	d.status.AddTag(tags.hud)
	d.status.SetDepth(100)
	d.status.update = d.statusLine
	d.scene.Add(d.status)

	return d
}

// buildArena walls the screen border below the status row
func (d *demo) buildArena(w, h int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorGray)
	var walls []engine.Entity
	for x := 0; x < w; x++ {
		walls = append(walls,
			render.NewGlyph('─', style, vmath.V2F(float64(x), 1)),
			render.NewGlyph('─', style, vmath.V2F(float64(x), float64(h-1))))
	}
	for y := 2; y < h-1; y++ {
		walls = append(walls,
			render.NewGlyph('│', style, vmath.V2F(0, float64(y))),
			render.NewGlyph('│', style, vmath.V2F(float64(w-1), float64(y))))
	}
	for _, e := range walls {
		e.Core().AddTag(d.tags.solid)
		e.Core().SetDepth(-10)
	}
	d.scene.AddRange(walls...)
}

// spawnWalkers places scripted actors inside the arena
func (d *demo) spawnWalkers(vm *script.Engine, w, h int) {
	behaviour := "wander"
	if !vm.Has(behaviour) {
		d.log.Warn("behaviour missing, walkers idle", zap.String("name", behaviour))
		behaviour = ""
	}
	colors := []tcell.Color{tcell.ColorRed, tcell.ColorGreen, tcell.ColorYellow, tcell.ColorBlue, tcell.ColorFuchsia, tcell.ColorAqua}
	for i := 0; i < walkerCount; i++ {
		x := 2 + float64(i*(w-4))/float64(walkerCount)
		y := 2 + float64(i%(max(h-4, 1)))
		e := script.NewEntity(vm, behaviour, '@', vmath.V2F(x, y))
		e.Style = tcell.StyleDefault.Foreground(colors[i%len(colors)])
		e.AddTag(d.tags.actor)
		e.SetDepth(float64(i % 3))
		d.scene.Add(e)
	}

	if vm.Has("seeder") {
		seeder := script.NewEntity(vm, "seeder", ' ', vmath.V2F(float64(w/2), float64(h/2)))
		seeder.Visible = false
		d.scene.Add(seeder)
	}
}

func (d *demo) statusLine() string {
	s := d.scene
	state := "running"
	if s.Paused {
		state = "paused"
	}
	actors := 0
	for range s.Tagged(d.tags.actor) {
		actors++
	}
	return fmt.Sprintf(" vi-scene  t=%6.1fs  entities=%d  actors=%d  %s  [p]ause [q]uit ",
		s.TimeActive(), s.Entities().Len(), actors, state)
}

// frame advances one tick and draws it
func (d *demo) frame() {
	if d.wall != nil {
		d.wall.Tick()
	}
	d.scene.Step()
}

// handleEvent applies input, false means quit
func (d *demo) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case 'p':
				d.scene.Paused = !d.scene.Paused
				d.status.Update()
				d.log.Info("pause toggled", zap.Bool("paused", d.scene.Paused))
			case 'm':
				if d.sound != nil {
					d.sound.SetMuted(d.sound.IsVisible())
				}
			}
		}
	case *tcell.EventResize:
		d.scene.HandleGraphicsReset()
	}
	return true
}

// label is a single-row text entity
type label struct {
	engine.Base
	Text   string
	Style  tcell.Style
	update func() string
}

func newLabel(pos vmath.Vec2F, style tcell.Style) *label {
	l := &label{Base: engine.NewBase(), Style: style}
	l.Position = pos
	return l
}

func (l *label) Update() {
	if l.update != nil {
		l.Text = l.update()
	}
}

func (l *label) Render() {
	c, ok := l.Scene().ActiveRenderer().(render.Canvas)
	if !ok {
		return
	}
	x := l.Position.X
	for _, r := range l.Text {
		c.Plot(vmath.V2F(x, l.Position.Y), r, l.Style)
		x += float64(render.CellWidth(r))
	}
}

// HandleGraphicsReset refreshes the text for the new screen
func (l *label) HandleGraphicsReset() {
	l.Update()
}
