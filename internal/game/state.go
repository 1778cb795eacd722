// Package game wires the simulation together: the entities that live in a
// room, the per-frame update pass and the terminal run loop.
package game

// State represents the current game state.
type State int

const (
	// StatePlaying is normal play.
	StatePlaying State = iota
	// StateDead is entered when the character's hit points reach zero.
	StateDead
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StateDead:
		return "dead"
	default:
		return "unknown"
	}
}

// Render and update order. Bigger is drawn later.
const (
	maskDepth      = -5
	switchDepth    = 1
	pickupDepth    = 2
	fixtureDepth   = 3 // blocks, lights, reflectors
	enemyDepth     = 5
	characterDepth = 10
	bulletDepth    = 15
	barDepth       = 20
	messageDepth   = 30
)
