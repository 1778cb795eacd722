package gamedata

import (
	"fmt"
	"image/color"

	"github.com/gdamore/tcell/v2"
)

// Code identifies what a room-image pixel decodes to.
type Code string

const (
	CodeBackground     Code = "background"
	CodeWall           Code = "wall"
	CodeEnemy          Code = "enemy" // bouncer
	CodeBeamLight      Code = "beam_light"
	CodeReflector      Code = "reflector"
	CodeRadialLight    Code = "radial_light"
	CodeSentry         Code = "sentry"
	CodeReinforcedWall Code = "reinforced_wall"
	CodeSweeper        Code = "sweeper"
	CodeBlock          Code = "block"
	CodeSwitch         Code = "switch"
	CodeLockedWall     Code = "locked_wall"
)

// PaletteEntry maps one pixel colour to a tile visual and an optional
// companion entity.
type PaletteEntry struct {
	Color    string `json:"color"`    // Hex colour of the room pixel
	Code     Code   `json:"code"`     // What the pixel decodes to
	Tile     string `json:"tile"`     // Variant table for the tile drawn under it
	Wall     bool   `json:"wall"`     // Whether the tile itself is impassable
	Dir      [2]int `json:"dir"`      // Beam direction, beam lights only
	EnemyDef string `json:"enemyDef"` // Enemy definition id, enemy codes only
}

// PaletteFile represents the structure of palette.json.
type PaletteFile struct {
	Entries []PaletteEntry           `json:"entries"`
	Tiles   map[string][]TileVariant `json:"tiles"`
}

// Palette resolves room-image colours.
type Palette struct {
	entries map[tcell.Color]*PaletteEntry
	tiles   map[string]*VariantTable
}

// NewPalette builds a palette, validating every colour and table reference.
func NewPalette(file PaletteFile) (*Palette, error) {
	p := &Palette{
		entries: make(map[tcell.Color]*PaletteEntry, len(file.Entries)),
		tiles:   make(map[string]*VariantTable, len(file.Tiles)),
	}
	for name, variants := range file.Tiles {
		table, err := NewVariantTable(variants)
		if err != nil {
			return nil, fmt.Errorf("tile table %q: %w", name, err)
		}
		p.tiles[name] = table
	}
	for i := range file.Entries {
		e := &file.Entries[i]
		c, err := ParseHexColor(e.Color)
		if err != nil {
			return nil, fmt.Errorf("palette entry %q: %w", e.Code, err)
		}
		if _, ok := p.tiles[e.Tile]; !ok {
			return nil, fmt.Errorf("palette entry %q: unknown tile table %q", e.Code, e.Tile)
		}
		if _, dup := p.entries[c]; dup {
			return nil, fmt.Errorf("palette entry %q: duplicate colour %s", e.Code, e.Color)
		}
		p.entries[c] = e
	}
	return p, nil
}

// LoadPalette loads the embedded palette.json.
func LoadPalette() (*Palette, error) {
	file, err := Load[PaletteFile]("palette.json")
	if err != nil {
		return nil, err
	}
	return NewPalette(file)
}

// Lookup returns the entry for a pixel colour.
func (p *Palette) Lookup(c color.Color) (*PaletteEntry, bool) {
	e, ok := p.entries[ColorOf(c)]
	return e, ok
}

// Tiles returns the variant table for an entry's tile.
func (p *Palette) Tiles(e *PaletteEntry) *VariantTable {
	return p.tiles[e.Tile]
}

// ColorFor returns the pixel colour that decodes to code. Tests use it to
// paint rooms.
func (p *Palette) ColorFor(code Code) (color.RGBA, bool) {
	for c, e := range p.entries {
		if e.Code == code {
			r, g, b := c.RGB()
			return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 0xff}, true
		}
	}
	return color.RGBA{}, false
}
