// Package input tracks which game actions are held and which were just
// released. Device polling lives elsewhere; it feeds Press and Release.
package input

// Action is a logical control, independent of the key bound to it.
type Action int

const (
	Left Action = iota
	Right
	Up
	Jump
	Shoot
	Confirm
	Quit
	actionCount
)

var actionNames = [actionCount]string{"left", "right", "up", "jump", "shoot", "confirm", "quit"}

func (a Action) String() string {
	if a < 0 || a >= actionCount {
		return "unknown"
	}
	return actionNames[a]
}

// State is the per-run input state. The zero value has nothing held.
type State struct {
	held     [actionCount]bool
	released [actionCount]bool
}

// Press marks the action held.
func (s *State) Press(a Action) {
	if valid(a) {
		s.held[a] = true
	}
}

// Release ends a hold and records the release edge. Releasing an action that
// is not held does nothing.
func (s *State) Release(a Action) {
	if !valid(a) || !s.held[a] {
		return
	}
	s.held[a] = false
	s.released[a] = true
}

// Held reports whether the action is currently down.
func (s *State) Held(a Action) bool {
	return valid(a) && s.held[a]
}

// JustReleased reports whether the action was released this frame. The edge
// is consumed: a second call in the same frame returns false.
func (s *State) JustReleased(a Action) bool {
	if !valid(a) || !s.released[a] {
		return false
	}
	s.released[a] = false
	return true
}

// Invalidate discards a pending release edge so that a release which
// happened before a consumer existed is not seen by it.
func (s *State) Invalidate(a Action) {
	if valid(a) {
		s.released[a] = false
	}
}

// EndFrame drops release edges nobody consumed.
func (s *State) EndFrame() {
	s.released = [actionCount]bool{}
}

func valid(a Action) bool { return a >= 0 && a < actionCount }
