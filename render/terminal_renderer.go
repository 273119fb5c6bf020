package render

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vi-scene/engine"
	"github.com/lixenwraith/vi-scene/tag"
	"github.com/lixenwraith/vi-scene/vmath"
)

type filterMode uint8

const (
	filterNone filterMode = iota
	filterOnly
	filterExcept
)

// TerminalRenderer draws scene entities into a tcell screen, one cell per glyph
// Entities render in ascending depth, so higher depth ends up on top
type TerminalRenderer struct {
	screen Screen

	// Offset is the scene position drawn at cell (0,0)
	Offset vmath.Vec2F

	mode    filterMode
	tag     tag.Tag
	clear   bool
	present bool
	hidden  bool

	frames uint64
	plots  int
}

// TerminalOption configures NewTerminalRenderer
type TerminalOption func(*TerminalRenderer)

// OnlyTag restricts rendering to entities carrying t
func OnlyTag(t tag.Tag) TerminalOption {
	return func(r *TerminalRenderer) { r.mode, r.tag = filterOnly, t }
}

// ExceptTag skips entities carrying t
func ExceptTag(t tag.Tag) TerminalOption {
	return func(r *TerminalRenderer) { r.mode, r.tag = filterExcept, t }
}

// Overlay leaves the screen alone in BeforeRender, for layers drawn over an earlier renderer
func Overlay() TerminalOption {
	return func(r *TerminalRenderer) { r.clear = false }
}

// NoPresent skips Show in AfterRender, a later renderer presents the frame
func NoPresent() TerminalOption {
	return func(r *TerminalRenderer) { r.present = false }
}

// NewTerminalRenderer creates a renderer clearing and presenting screen each frame
func NewTerminalRenderer(screen Screen, opts ...TerminalOption) *TerminalRenderer {
	r := &TerminalRenderer{
		screen:  screen,
		clear:   true,
		present: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// BeforeRender clears the screen unless configured as an overlay
func (r *TerminalRenderer) BeforeRender(s *engine.Scene) {
	r.plots = 0
	if r.clear {
		r.screen.Clear()
	}
}

// Render draws the selected visible entities in depth order
func (r *TerminalRenderer) Render(s *engine.Scene) {
	switch r.mode {
	case filterOnly:
		s.RenderTagged(r.tag)
	case filterExcept:
		s.RenderExcept(r.tag)
	default:
		s.RenderEntities()
	}
}

// AfterRender presents the frame
func (r *TerminalRenderer) AfterRender(s *engine.Scene) {
	if r.present {
		r.screen.Show()
	}
	r.frames++
}

// Plot writes r at the cell under p, cells outside the screen are dropped
func (r *TerminalRenderer) Plot(p vmath.Vec2F, ch rune, style tcell.Style) {
	x := int(math.Floor(p.X - r.Offset.X))
	y := int(math.Floor(p.Y - r.Offset.Y))
	w, h := r.screen.Size()
	if x < 0 || x >= w || y < 0 || y >= h {
		return
	}
	r.screen.SetContent(x, y, ch, nil, style)
	r.plots++
}

// Bounds returns the visible scene area
func (r *TerminalRenderer) Bounds() vmath.RectF {
	w, h := r.screen.Size()
	return vmath.R(r.Offset.X, r.Offset.Y, float64(w), float64(h))
}

// SetVisible toggles participation in the render phases
func (r *TerminalRenderer) SetVisible(v bool) { r.hidden = !v }

// IsVisible implements engine.VisibilityToggle
func (r *TerminalRenderer) IsVisible() bool { return !r.hidden }

// Frames returns the number of completed frames
func (r *TerminalRenderer) Frames() uint64 { return r.frames }

// Plots returns the number of cells written in the current or last frame
func (r *TerminalRenderer) Plots() int { return r.plots }
