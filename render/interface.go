package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vi-scene/vmath"
)

// Screen is the subset of tcell.Screen the terminal renderer drives
type Screen interface {
	Clear()
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Show()
	Size() (width, height int)
}

// Canvas is implemented by renderers entities draw through
// Entities reach it as the scene's active renderer during Render
type Canvas interface {
	Plot(p vmath.Vec2F, r rune, style tcell.Style)
	Bounds() vmath.RectF
}
