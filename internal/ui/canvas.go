package ui

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/gloam/internal/physics"
)

// Canvas is the drawing surface handed to renderable entities. Coordinates
// are world pixels; the implementation maps them onto terminal cells.
type Canvas interface {
	// Put draws one glyph in the cell containing (x, y).
	Put(x, y float64, r rune, fg tcell.Color)
	// Fill draws r in every cell whose centre lies inside rect.
	Fill(rect physics.Rect, r rune, fg tcell.Color)
	// Text writes s left to right starting at the cell containing (x, y).
	Text(x, y float64, s string, fg tcell.Color)
	// Shade darkens every cell whose centre lies inside rect. 0 leaves the
	// cell untouched, 255 blacks it out.
	Shade(rect physics.Rect, darkness uint8)
}

// Cell is one buffered terminal cell.
type Cell struct {
	Rune rune
	FG   tcell.Color
	BG   tcell.Color
	Dark uint8
}

// Frame is an in-memory cell buffer implementing Canvas. A tile of the world
// is two cells wide and one cell high so that rooms keep their proportions.
type Frame struct {
	cols, rows   int
	cellW, cellH float64
	background   tcell.Color
	cells        []Cell
}

// NewFrame creates a cols×rows buffer for tiles of tileSize pixels.
func NewFrame(cols, rows int, tileSize float64, background tcell.Color) *Frame {
	f := &Frame{
		cellW:      tileSize / 2,
		cellH:      tileSize,
		background: background,
	}
	f.Resize(cols, rows)
	return f
}

// Resize reallocates the buffer if the dimensions changed, then clears it.
func (f *Frame) Resize(cols, rows int) {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	if cols != f.cols || rows != f.rows {
		f.cols, f.rows = cols, rows
		f.cells = make([]Cell, cols*rows)
	}
	f.Clear()
}

// Clear resets every cell to a blank on the background colour.
func (f *Frame) Clear() {
	for i := range f.cells {
		f.cells[i] = Cell{Rune: ' ', FG: tcell.ColorBlack, BG: f.background}
	}
}

// Size returns the buffer dimensions in cells.
func (f *Frame) Size() (int, int) { return f.cols, f.rows }

// At returns the cell at (col, row); ok is false off the buffer.
func (f *Frame) At(col, row int) (Cell, bool) {
	if !f.inside(col, row) {
		return Cell{}, false
	}
	return f.cells[row*f.cols+col], true
}

// Put implements Canvas.
func (f *Frame) Put(x, y float64, r rune, fg tcell.Color) {
	f.set(f.col(x), f.row(y), r, fg)
}

// Fill implements Canvas.
func (f *Frame) Fill(rect physics.Rect, r rune, fg tcell.Color) {
	f.eachCentre(rect, func(c *Cell) {
		c.Rune = r
		c.FG = fg
	})
}

// Text implements Canvas.
func (f *Frame) Text(x, y float64, s string, fg tcell.Color) {
	col, row := f.col(x), f.row(y)
	for _, r := range s {
		f.set(col, row, r, fg)
		col++
	}
}

// Shade implements Canvas.
func (f *Frame) Shade(rect physics.Rect, darkness uint8) {
	f.eachCentre(rect, func(c *Cell) {
		c.Dark = darkness
	})
}

func (f *Frame) col(x float64) int { return int(math.Floor(x / f.cellW)) }
func (f *Frame) row(y float64) int { return int(math.Floor(y / f.cellH)) }

func (f *Frame) inside(col, row int) bool {
	return col >= 0 && row >= 0 && col < f.cols && row < f.rows
}

func (f *Frame) set(col, row int, r rune, fg tcell.Color) {
	if !f.inside(col, row) {
		return
	}
	c := &f.cells[row*f.cols+col]
	c.Rune = r
	c.FG = fg
}

// eachCentre visits the cells whose centre lies in [rect.X, rect.Right()) ×
// [rect.Y, rect.Bottom()).
func (f *Frame) eachCentre(rect physics.Rect, fn func(*Cell)) {
	c0 := int(math.Ceil(rect.X/f.cellW - 0.5))
	c1 := int(math.Ceil(rect.Right()/f.cellW - 0.5))
	r0 := int(math.Ceil(rect.Y/f.cellH - 0.5))
	r1 := int(math.Ceil(rect.Bottom()/f.cellH - 0.5))
	for row := max(r0, 0); row < min(r1, f.rows); row++ {
		for col := max(c0, 0); col < min(c1, f.cols); col++ {
			fn(&f.cells[row*f.cols+col])
		}
	}
}
