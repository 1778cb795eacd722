package gamedata

import "github.com/gdamore/tcell/v2"

// Strategy selects an enemy's behaviour.
type Strategy string

const (
	StrategyBouncer Strategy = "bouncer" // straight line, reverses on walls
	StrategySentry  Strategy = "sentry"  // stationary, fires at the player
	StrategySweeper Strategy = "sweeper" // snaps to the player's row and dashes
)

// EnemyDef defines an enemy type loaded from JSON.
type EnemyDef struct {
	ID            string   `json:"id"`            // Unique identifier (e.g., "bouncer")
	Name          string   `json:"name"`          // Display name
	Strategy      Strategy `json:"strategy"`      // Behaviour
	Glyph         string   `json:"glyph"`         // Single character for rendering
	Color         string   `json:"color"`         // Hex color code
	HP            int      `json:"hp"`            // Hit points
	Speed         float64  `json:"speed"`         // Pixels per tick
	ContactDamage int      `json:"contactDamage"` // Damage dealt on touching the player
	Knockback     float64  `json:"knockback"`     // Pixels pushed on a non-lethal hit; 0 = none
	FireInterval  int      `json:"fireInterval"`  // Ticks between shots, sentries only
	BulletSpeed   float64  `json:"bulletSpeed"`   // Pixels per tick of fired bullets
	DashDistance  float64  `json:"dashDistance"`  // Max pixels per tick, sweepers only
	Drop          string   `json:"drop"`          // Pickup dropped on death ("" for none)
}

// GlyphRune returns the glyph as a rune for rendering.
func (e *EnemyDef) GlyphRune() rune {
	if len(e.Glyph) == 0 {
		return '?'
	}
	return rune(e.Glyph[0])
}

// TCellColor returns the color as a tcell.Color.
func (e *EnemyDef) TCellColor() tcell.Color {
	color, err := ParseHexColor(e.Color)
	if err != nil {
		return tcell.ColorWhite // fallback
	}
	return color
}

// EnemiesFile represents the structure of enemies.json.
type EnemiesFile struct {
	Enemies []EnemyDef `json:"enemies"`
}

// LoadEnemies loads enemy definitions from the embedded enemies.json file.
func LoadEnemies() ([]EnemyDef, error) {
	file, err := Load[EnemiesFile]("enemies.json")
	if err != nil {
		return nil, err
	}
	return file.Enemies, nil
}
