// Package light computes the per-tile ambient field from beam and radial
// sources, and the soft mask used to draw it.
package light

import "github.com/samdwyer/gloam/internal/entity"

// Kind selects a source's propagation algorithm.
type Kind int

const (
	Beam Kind = iota
	Radial
)

func (k Kind) String() string {
	switch k {
	case Beam:
		return "beam"
	case Radial:
		return "radial"
	default:
		return "unknown"
	}
}

// Emission describes what a source puts into the field.
type Emission struct {
	Kind Kind

	// DX, DY is the beam direction, a unit axis vector.
	DX, DY int

	// Intensity is added to the ambient level of lit tiles. It is negative.
	Intensity int

	// Falloff is how much a beam's side splash weakens per tile of
	// Manhattan distance.
	Falloff int

	// Radius is the half-width of the square a radial source casts into.
	Radius int

	// Attenuate scales radial intensity down with distance. Off by default;
	// radial sources are flat up to the first wall.
	Attenuate bool

	// Reach is the number of tiles a beam may march. It grows by one on
	// every recalculation and restarts when the source moves.
	Reach int
}

// Restart shortens a beam back to nothing so it grows again from its source.
func (e *Emission) Restart() { e.Reach = 0 }

// Source is an entity that emits light.
type Source interface {
	entity.Entity
	Emission() *Emission
}

// Grid is the tile lookup the engine marches over.
type Grid interface {
	Size() (int, int)
	TileSize() float64
	IsWallAt(i, j int) bool
}

// Rotate turns a beam direction 90 degrees: (1,0) becomes (0,-1).
func Rotate(dx, dy int) (int, int) {
	return dy, -dx
}
