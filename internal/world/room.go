package world

import "fmt"

// RoomCoord identifies a room in the world grid.
type RoomCoord struct {
	X, Y int
}

// Add returns the neighbouring coordinate offset by (dx, dy).
func (c RoomCoord) Add(dx, dy int) RoomCoord {
	return RoomCoord{X: c.X + dx, Y: c.Y + dy}
}

// String returns "(x,y)".
func (c RoomCoord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Anchor records where a persistent entity lives: its owning room and its
// last saved position inside that room.
type Anchor struct {
	Room RoomCoord
	X, Y float64
}

// LoadReport summarises a room load.
type LoadReport struct {
	Coord      RoomCoord
	FirstVisit bool
	Tiles      int
	Spawned    int // fresh entities created from tile data
	Restored   int // persistent entities put back at their saved position
}
