package render

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vi-scene/engine"
	"github.com/lixenwraith/vi-scene/tag"
	"github.com/lixenwraith/vi-scene/vmath"
)

// recordScreen captures renderer calls without a terminal
type recordScreen struct {
	w, h   int
	cells  map[[2]int]rune
	clears int
	shows  int
}

func newRecordScreen(w, h int) *recordScreen {
	return &recordScreen{w: w, h: h, cells: make(map[[2]int]rune)}
}

func (s *recordScreen) Clear() {
	s.clears++
	clear(s.cells)
}

func (s *recordScreen) SetContent(x, y int, r rune, _ []rune, _ tcell.Style) {
	s.cells[[2]int{x, y}] = r
}

func (s *recordScreen) Show()            { s.shows++ }
func (s *recordScreen) Size() (int, int) { return s.w, s.h }
func (s *recordScreen) at(x, y int) rune { return s.cells[[2]int{x, y}] }

func TestHigherDepthDrawsOnTop(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Failed to init simulation screen: %v", err)
	}
	defer screen.Fini()
	screen.SetSize(20, 10)

	s := engine.NewScene()
	s.AddRenderer(NewTerminalRenderer(screen))

	back := NewGlyph('b', tcell.StyleDefault, vmath.V2F(3, 2))
	back.SetDepth(-5)
	front := NewGlyph('f', tcell.StyleDefault, vmath.V2F(3.7, 2.2))
	front.SetDepth(5)
	s.AddRange(front, back)

	s.Step()

	r, _, _, _ := screen.GetContent(3, 2)
	if r != 'f' {
		t.Errorf("Expected higher depth glyph 'f' in shared cell, got %q", r)
	}
}

func TestTerminalRendererFilters(t *testing.T) {
	const hud tag.Tag = 4

	screen := newRecordScreen(10, 10)
	s := engine.NewScene()
	world := NewTerminalRenderer(screen, ExceptTag(hud), NoPresent())
	overlay := NewTerminalRenderer(screen, OnlyTag(hud), Overlay())
	s.Renderers().AddPriority(overlay, 10)
	s.AddRenderer(world)

	ground := NewGlyph('.', tcell.StyleDefault, vmath.V2F(1, 1))
	score := NewGlyph('9', tcell.StyleDefault, vmath.V2F(2, 1))
	score.AddTag(hud)
	s.AddRange(ground, score)

	s.Step()

	if screen.at(1, 1) != '.' || screen.at(2, 1) != '9' {
		t.Errorf("Expected both layers drawn, got %q %q", screen.at(1, 1), screen.at(2, 1))
	}
	if world.Plots() != 1 || overlay.Plots() != 1 {
		t.Errorf("Expected one plot per layer, got %d/%d", world.Plots(), overlay.Plots())
	}
	if screen.clears != 1 {
		t.Errorf("Expected overlay to skip clear, got %d clears", screen.clears)
	}
	if screen.shows != 1 {
		t.Errorf("Expected a single present per frame, got %d", screen.shows)
	}
}

func TestTerminalRendererOffsetAndClipping(t *testing.T) {
	screen := newRecordScreen(5, 5)
	s := engine.NewScene()
	r := NewTerminalRenderer(screen)
	r.Offset = vmath.V2F(10, 10)
	s.AddRenderer(r)

	s.AddRange(
		NewGlyph('a', tcell.StyleDefault, vmath.V2F(12.5, 11)),
		NewGlyph('x', tcell.StyleDefault, vmath.V2F(2, 2)),
		NewGlyph('y', tcell.StyleDefault, vmath.V2F(15, 10)),
	)
	s.Step()

	if screen.at(2, 1) != 'a' {
		t.Errorf("Expected glyph translated to (2,1), got %q", screen.at(2, 1))
	}
	if r.Plots() != 1 {
		t.Errorf("Expected off-screen glyphs clipped, got %d plots", r.Plots())
	}
	if !r.Bounds().Contains(vmath.V2F(14.9, 14.9)) || r.Bounds().Contains(vmath.V2F(15, 10)) {
		t.Errorf("Unexpected bounds %v", r.Bounds())
	}
}

func TestTerminalRendererVisibility(t *testing.T) {
	screen := newRecordScreen(5, 5)
	s := engine.NewScene()
	r := NewTerminalRenderer(screen)
	s.AddRenderer(r)
	s.Add(NewGlyph('a', tcell.StyleDefault, vmath.V2F(0, 0)))

	r.SetVisible(false)
	s.Step()
	if screen.shows != 0 || r.Frames() != 0 {
		t.Errorf("Expected hidden renderer skipped, got %d shows", screen.shows)
	}

	r.SetVisible(true)
	s.Step()
	if screen.shows != 1 || r.Frames() != 1 {
		t.Errorf("Expected one frame after showing, got %d", r.Frames())
	}
}

func TestInvisibleGlyphNotDrawn(t *testing.T) {
	screen := newRecordScreen(5, 5)
	s := engine.NewScene()
	s.AddRenderer(NewTerminalRenderer(screen))

	g := NewGlyph('g', tcell.StyleDefault, vmath.V2F(1, 1))
	g.Visible = false
	s.Add(g)
	s.Step()

	if screen.at(1, 1) != 0 {
		t.Errorf("Expected invisible glyph skipped, got %q", screen.at(1, 1))
	}
}

func TestGlyphCollision(t *testing.T) {
	g := NewGlyph('#', tcell.StyleDefault, vmath.V2F(2, 2))
	if !g.CollidePoint(vmath.V2F(2.5, 2.5)) || g.CollidePoint(vmath.V2F(3, 2)) {
		t.Error("Expected unit cell point collision with exclusive max edge")
	}
	if !g.CollideRect(vmath.R(0, 0, 2.5, 2.5)) {
		t.Error("Expected overlapping rect to collide")
	}
	if !g.CollideLine(vmath.V2F(0, 2.5), vmath.V2F(5, 2.5)) {
		t.Error("Expected crossing segment to collide")
	}

	s := engine.NewScene()
	g.AddTag(1)
	s.Add(g)
	if !s.CollideCheck(engine.Point(vmath.V2F(2.1, 2.9)), 1) {
		t.Error("Expected scene query to find glyph")
	}
}

func TestWideGlyphBox(t *testing.T) {
	if CellWidth('a') != 1 || CellWidth('漢') != 2 || CellWidth('Ａ') != 2 {
		t.Errorf("Unexpected widths %d %d %d", CellWidth('a'), CellWidth('漢'), CellWidth('Ａ'))
	}
	g := NewGlyph('漢', tcell.StyleDefault, vmath.V2F(0, 0))
	if !g.CollidePoint(vmath.V2F(1.5, 0.5)) {
		t.Error("Expected wide glyph to cover its second cell")
	}
}
