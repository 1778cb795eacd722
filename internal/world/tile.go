// Package world owns the current room: its tile grid, room transitions, the
// set of visited rooms and the persistence of objects that outlive a visit.
package world

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/gloam/internal/entity"
	"github.com/samdwyer/gloam/internal/gamedata"
	"github.com/samdwyer/gloam/internal/ui"
)

// TileDepth puts tiles underneath everything else.
const TileDepth = -10

// Tile is one cell of the loaded room.
type Tile struct {
	entity.Base
	I, J  int
	Code  gamedata.Code
	Glyph rune
	Color tcell.Color
}

func newTile(i, j int, size float64, entry *gamedata.PaletteEntry, v *gamedata.TileVariant) *Tile {
	tags := entity.TagRenderable | entity.TagRelative | entity.TagMapElement
	if entry.Wall {
		tags |= entity.TagWall
	}
	if entry.Code == gamedata.CodeLockedWall {
		tags |= entity.TagLock
	}
	return &Tile{
		Base:  entity.NewBase(entity.KindTile, float64(i)*size, float64(j)*size, size, tags),
		I:     i,
		J:     j,
		Code:  entry.Code,
		Glyph: v.GlyphRune(),
		Color: v.TCellColor(),
	}
}

// Depth implements entity.Entity.
func (t *Tile) Depth() int { return TileDepth }

// IsWall reports whether the tile currently blocks movement and light.
func (t *Tile) IsWall() bool { return t.Is(entity.TagWall) }

// SetLocked closes (wall) or opens a lock tile. Other tiles are unaffected.
func (t *Tile) SetLocked(locked bool) {
	if !t.Is(entity.TagLock) {
		return
	}
	if locked {
		t.SetTag(entity.TagWall)
	} else {
		t.ClearTag(entity.TagWall)
	}
}

// Render draws the tile. An open lock shows as floor.
func (t *Tile) Render(c ui.Canvas, dx, dy float64) {
	if !t.Visible {
		return
	}
	glyph := t.Glyph
	if t.Is(entity.TagLock) && !t.IsWall() {
		glyph = '\''
	}
	c.Fill(t.Rect().Translate(dx, dy), glyph, t.Color)
}
