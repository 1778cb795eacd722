// Package entity provides the registry of live simulation objects.
//
// Entities are selected by typed tags, kinds and predicates rather than by Go
// type, so behaviours can find their collaborators ("the map", "every wall
// touching this rect") without the registry knowing any game rules.
package entity

import "strings"

// Tag is a bit set of group memberships.
type Tag uint32

const (
	TagRenderable Tag = 1 << iota
	TagUpdateable
	TagRelative // rendered with the camera offset
	TagMapElement
	TagWall
	TagLock
	TagEnemy
	TagBullet
	TagLightSource
	TagReflector
	TagPushable
	TagSwitchPusher
	TagPersistent
	TagCharacter
	TagMap
	TagSwitch
	TagPickup
	TagHealthBar
	TagText
	TagLightMask
)

var tagNames = []string{
	"renderable",
	"updateable",
	"relative",
	"map_element",
	"wall",
	"lock",
	"enemy",
	"bullet",
	"lightsource",
	"reflector",
	"pushable",
	"switch_pusher",
	"persistent",
	"character",
	"map",
	"switch",
	"pickup",
	"healthbar",
	"text",
	"lightmask",
}

// Has reports whether every bit of other is set in t.
func (t Tag) Has(other Tag) bool {
	return t&other == other
}

// String returns the group names joined with '|'.
func (t Tag) String() string {
	if t == 0 {
		return "none"
	}
	var names []string
	for i, name := range tagNames {
		if t&(1<<i) != 0 {
			names = append(names, name)
		}
	}
	return strings.Join(names, "|")
}

// Match implements Criterion: the entity must carry all of t's groups.
func (t Tag) Match(e Entity) bool {
	return e.Core().tags.Has(t)
}

// Kind names the concrete variant of an entity.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindCharacter
	KindMap
	KindTile
	KindEnemy
	KindBullet
	KindLightSource
	KindReflector
	KindBlock
	KindSwitch
	KindPickup
	KindBar
	KindText
	KindLightMask
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindCharacter:
		return "character"
	case KindMap:
		return "map"
	case KindTile:
		return "tile"
	case KindEnemy:
		return "enemy"
	case KindBullet:
		return "bullet"
	case KindLightSource:
		return "light_source"
	case KindReflector:
		return "reflector"
	case KindBlock:
		return "block"
	case KindSwitch:
		return "switch"
	case KindPickup:
		return "pickup"
	case KindBar:
		return "bar"
	case KindText:
		return "text"
	case KindLightMask:
		return "light_mask"
	default:
		return "unknown"
	}
}

// Match implements Criterion.
func (k Kind) Match(e Entity) bool {
	return e.Core().kind == k
}
