package ui

import (
	"github.com/gdamore/tcell/v2"
)

// Renderable is anything that can draw itself. dx and dy are added to the
// entity's world position; absolute overlays receive zero.
type Renderable interface {
	Render(c Canvas, dx, dy float64)
}

// Layer is one item of a composited frame.
type Layer struct {
	Item     Renderable
	Relative bool // offset by the camera
}

// Renderer composites layers into a frame and presents it on the screen.
type Renderer struct {
	screen *Screen
	frame  *Frame
	cols   int
	rows   int
}

// NewRenderer creates a renderer whose viewport is cols×rows cells.
func NewRenderer(screen *Screen, cols, rows int, tileSize float64) *Renderer {
	return &Renderer{
		screen: screen,
		frame:  NewFrame(cols, rows, tileSize, tcell.ColorWhite),
		cols:   cols,
		rows:   rows,
	}
}

// Frame exposes the buffer of the last composited frame.
func (r *Renderer) Frame() *Frame { return r.frame }

// Compose draws the layers in order. Relative layers are shifted by
// (-camX, -camY). The caller sorts layers by depth.
func (r *Renderer) Compose(layers []Layer, camX, camY float64) {
	r.frame.Clear()
	for _, l := range layers {
		if l.Relative {
			l.Item.Render(r.frame, -camX, -camY)
		} else {
			l.Item.Render(r.frame, 0, 0)
		}
	}
}

// Present draws the composited frame on the terminal followed by the
// status lines underneath it.
func (r *Renderer) Present(status ...string) {
	r.screen.Draw(r.frame, 0, 0)
	for i, line := range status {
		r.screen.Status(r.rows+i, line)
	}
	r.screen.Present()
}

// Fits reports whether the viewport and n status lines fit the terminal.
func (r *Renderer) Fits(n int) bool {
	return r.screen.Fits(r.cols, r.rows, n)
}
