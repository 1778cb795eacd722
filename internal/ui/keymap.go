package ui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/gloam/internal/input"
)

// KeyMap turns terminal key events into input actions.
//
// Terminals report presses and auto-repeats but never releases, so an action
// is considered released once no event for it has arrived for holdTicks.
type KeyMap struct {
	keys      map[tcell.Key]input.Action
	runes     map[rune]input.Action
	holdTicks int
	lastSeen  map[input.Action]int
}

// NewKeyMap returns the default bindings: arrows to move, space to jump,
// x to shoot, z or enter to confirm and q or escape to quit.
func NewKeyMap(holdTicks int) *KeyMap {
	if holdTicks < 1 {
		holdTicks = 1
	}
	return &KeyMap{
		keys: map[tcell.Key]input.Action{
			tcell.KeyLeft:   input.Left,
			tcell.KeyRight:  input.Right,
			tcell.KeyUp:     input.Up,
			tcell.KeyEnter:  input.Confirm,
			tcell.KeyEscape: input.Quit,
			tcell.KeyCtrlC:  input.Quit,
		},
		runes: map[rune]input.Action{
			' ': input.Jump,
			'x': input.Shoot,
			'X': input.Shoot,
			'z': input.Confirm,
			'Z': input.Confirm,
			'q': input.Quit,
			'Q': input.Quit,
			'h': input.Left,
			'l': input.Right,
			'k': input.Up,
		},
		holdTicks: holdTicks,
		lastSeen:  make(map[input.Action]int),
	}
}

// Handle applies a key event at the given tick. It reports the action the
// key is bound to, if any.
func (k *KeyMap) Handle(ev *tcell.EventKey, tick int, st *input.State) (input.Action, bool) {
	a, ok := k.lookup(ev)
	if !ok {
		return 0, false
	}
	st.Press(a)
	k.lastSeen[a] = tick
	return a, true
}

// Expire releases every action that has not been refreshed within the hold
// window.
func (k *KeyMap) Expire(tick int, st *input.State) {
	for a, seen := range k.lastSeen {
		if tick-seen >= k.holdTicks {
			st.Release(a)
			delete(k.lastSeen, a)
		}
	}
}

func (k *KeyMap) lookup(ev *tcell.EventKey) (input.Action, bool) {
	if ev.Key() == tcell.KeyRune {
		a, ok := k.runes[ev.Rune()]
		return a, ok
	}
	a, ok := k.keys[ev.Key()]
	return a, ok
}
