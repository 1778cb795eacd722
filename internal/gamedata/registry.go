package gamedata

import (
	"errors"
	"math/rand"

	"github.com/gdamore/tcell/v2"
)

// TileVariant is one weighted visual choice for a tile.
type TileVariant struct {
	Glyph  string `json:"glyph"`  // Single character for rendering
	Color  string `json:"color"`  // Hex foreground colour
	Weight int    `json:"weight"` // Relative frequency (higher = more common)
}

// GlyphRune returns the glyph as a rune for rendering.
func (v *TileVariant) GlyphRune() rune {
	if len(v.Glyph) == 0 {
		return ' '
	}
	return []rune(v.Glyph)[0]
}

// TCellColor returns the colour as a tcell.Color.
func (v *TileVariant) TCellColor() tcell.Color {
	c, err := ParseHexColor(v.Color)
	if err != nil {
		return tcell.ColorWhite
	}
	return c
}

// VariantTable picks tile visuals by weight.
type VariantTable struct {
	variants    []TileVariant
	totalWeight int
}

// NewVariantTable creates a table. At least one variant must have a
// positive weight.
func NewVariantTable(variants []TileVariant) (*VariantTable, error) {
	totalWeight := 0
	for _, v := range variants {
		if v.Weight < 0 {
			return nil, errors.New("negative variant weight")
		}
		totalWeight += v.Weight
	}
	if totalWeight == 0 {
		return nil, errors.New("variant table has no weight")
	}
	return &VariantTable{
		variants:    variants,
		totalWeight: totalWeight,
	}, nil
}

// Pick selects a variant using weighted probability.
func (t *VariantTable) Pick(rng *rand.Rand) *TileVariant {
	roll := rng.Intn(t.totalWeight)

	cumulative := 0
	for i := range t.variants {
		cumulative += t.variants[i].Weight
		if roll < cumulative {
			return &t.variants[i]
		}
	}

	// Fallback (shouldn't happen)
	return &t.variants[0]
}

// EnemyBook holds loaded enemy definitions.
type EnemyBook struct {
	enemies []EnemyDef
}

// NewEnemyBook creates a book from loaded enemy definitions.
func NewEnemyBook(enemies []EnemyDef) *EnemyBook {
	return &EnemyBook{enemies: enemies}
}

// LoadEnemyBook loads the embedded enemies.json.
func LoadEnemyBook() (*EnemyBook, error) {
	enemies, err := LoadEnemies()
	if err != nil {
		return nil, err
	}
	if len(enemies) == 0 {
		return nil, errors.New("no enemies loaded from enemies.json")
	}
	return NewEnemyBook(enemies), nil
}

// GetByID returns the enemy definition with the given ID, or nil if not found.
func (b *EnemyBook) GetByID(id string) *EnemyDef {
	for i := range b.enemies {
		if b.enemies[i].ID == id {
			return &b.enemies[i]
		}
	}
	return nil
}
