package game

import (
	"fmt"

	"github.com/samdwyer/gloam/internal/entity"
	"github.com/samdwyer/gloam/internal/gamedata"
)

// spawner builds the companion entity of a decoded room pixel.
type spawner struct {
	cfg  *Config
	book *gamedata.EnemyBook
}

// Spawn implements world.Spawner.
func (s *spawner) Spawn(entry *gamedata.PaletteEntry, x, y float64) (entity.Entity, error) {
	size := float64(s.cfg.TileSize)
	switch entry.Code {
	case gamedata.CodeEnemy, gamedata.CodeSentry, gamedata.CodeSweeper:
		def := s.book.GetByID(entry.EnemyDef)
		if def == nil {
			return nil, fmt.Errorf("palette code %s: unknown enemy %q", entry.Code, entry.EnemyDef)
		}
		return newEnemy(def, x, y, size), nil
	case gamedata.CodeBeamLight:
		dx, dy := entry.Dir[0], entry.Dir[1]
		if dx == 0 && dy == 0 {
			dx = 1
		}
		return newBeamLight(x, y, size, dx, dy, s.cfg.BeamIntensity, s.cfg.BeamFalloff), nil
	case gamedata.CodeRadialLight:
		return newRadialLight(x, y, size, s.cfg.RadialIntensity, s.cfg.RadialRadius), nil
	case gamedata.CodeReflector:
		return newReflector(x, y, size), nil
	case gamedata.CodeBlock:
		return newBlock(x, y, size), nil
	case gamedata.CodeSwitch:
		return newSwitch(x, y, size), nil
	default:
		return nil, nil
	}
}
