// Package ui provides terminal rendering and key handling using tcell.
package ui

import "github.com/gdamore/tcell/v2"

// Screen is the terminal a Frame is presented on.
type Screen struct {
	screen tcell.Screen
	base   tcell.Style
}

// NewScreen creates and initializes a new terminal screen.
func NewScreen() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewScreenFrom(s)
}

// NewScreenFrom initializes an existing tcell screen, such as a simulation
// screen in tests.
func NewScreenFrom(s tcell.Screen) (*Screen, error) {
	if err := s.Init(); err != nil {
		return nil, err
	}
	base := tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
	s.SetStyle(base)
	s.Clear()
	return &Screen{screen: s, base: base}, nil
}

// Close finalizes the screen and restores terminal state.
func (s *Screen) Close() {
	s.screen.Fini()
}

// PollEvent waits for and returns the next terminal event.
func (s *Screen) PollEvent() tcell.Event {
	return s.screen.PollEvent()
}

// Size returns the current terminal dimensions.
func (s *Screen) Size() (width, height int) {
	return s.screen.Size()
}

// Fits reports whether a cols×rows viewport plus extra status lines fits the
// terminal.
func (s *Screen) Fits(cols, rows, extra int) bool {
	w, h := s.Size()
	return cols <= w && rows+extra <= h
}

// Sync forces a complete redraw of the screen.
func (s *Screen) Sync() {
	s.screen.Sync()
}

// Draw clears the terminal and copies f onto it at the given cell origin.
// Each cell's shading is applied to both its colours here, so the frame
// itself keeps the unshaded picture.
func (s *Screen) Draw(f *Frame, originX, originY int) {
	s.screen.Clear()
	cols, rows := f.Size()
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			c, _ := f.At(col, row)
			s.screen.SetContent(originX+col, originY+row, c.Rune, nil, shaded(c))
		}
	}
}

// Status writes a line of plain text at the given row, clipped to the
// terminal width.
func (s *Screen) Status(row int, text string) {
	w, _ := s.Size()
	col := 0
	for _, r := range text {
		if col >= w {
			return
		}
		s.screen.SetContent(col, row, r, nil, s.base)
		col++
	}
}

// Present flushes everything drawn since the last Draw to the terminal.
func (s *Screen) Present() {
	s.screen.Show()
}

func shaded(c Cell) tcell.Style {
	return tcell.StyleDefault.
		Foreground(Darken(c.FG, c.Dark)).
		Background(Darken(c.BG, c.Dark))
}

// Darken scales a colour towards black. Colours without an RGB value are
// returned unchanged unless fully darkened.
func Darken(c tcell.Color, darkness uint8) tcell.Color {
	if darkness == 0 {
		return c
	}
	if darkness == 255 {
		return tcell.ColorBlack
	}
	r, g, b := c.RGB()
	if r < 0 {
		return c
	}
	keep := int32(255 - int32(darkness))
	return tcell.NewRGBColor(r*keep/255, g*keep/255, b*keep/255)
}
