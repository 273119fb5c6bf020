package render

import (
	"github.com/gdamore/tcell/v2"
	"golang.org/x/text/width"

	"github.com/lixenwraith/vi-scene/engine"
	"github.com/lixenwraith/vi-scene/vmath"
)

// Glyph is a single-cell entity drawn through the active Canvas
type Glyph struct {
	engine.Base
	Rune  rune
	Style tcell.Style
	// Size is the collision box extent from Position, one row of CellWidth cells by default
	Size vmath.Vec2F
}

// CellWidth returns the terminal columns ch occupies
func CellWidth(ch rune) int {
	switch width.LookupRune(ch).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	}
	return 1
}

// NewGlyph creates a glyph at pos with a collision box covering its cells
func NewGlyph(ch rune, style tcell.Style, pos vmath.Vec2F) *Glyph {
	g := &Glyph{
		Base:  engine.NewBase(),
		Rune:  ch,
		Style: style,
		Size:  vmath.V2F(float64(CellWidth(ch)), 1),
	}
	g.Position = pos
	return g
}

// Bounds returns the collision box
func (g *Glyph) Bounds() vmath.RectF {
	return vmath.R(g.Position.X, g.Position.Y, g.Size.X, g.Size.Y)
}

// Render plots the rune when the active renderer is a Canvas
func (g *Glyph) Render() {
	s := g.Scene()
	if s == nil {
		return
	}
	if c, ok := s.ActiveRenderer().(Canvas); ok {
		c.Plot(g.Position, g.Rune, g.Style)
	}
}

func (g *Glyph) CollidePoint(p vmath.Vec2F) bool {
	return g.Bounds().Contains(p)
}

func (g *Glyph) CollideRect(r vmath.RectF) bool {
	return g.Bounds().Overlaps(r)
}

func (g *Glyph) CollideLine(from, to vmath.Vec2F) bool {
	return g.Bounds().IntersectsSegment(from, to)
}
