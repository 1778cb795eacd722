package entity

import "github.com/samdwyer/gloam/internal/physics"

// ID identifies an entity for its whole lifetime. IDs are never reused.
type ID uint64

// Entity is any simulation object held by the Registry.
type Entity interface {
	// Core returns the shared state every entity embeds.
	Core() *Base
	// Depth orders update and render passes; bigger is on top.
	Depth() int
}

// Base is the state shared by every entity. Concrete entities embed it.
type Base struct {
	id   ID
	kind Kind
	tags Tag

	X, Y    float64 // top-left corner in pixels
	Size    float64 // edge length of the square bounding box
	Visible bool

	Effects Effects
}

// NewBase returns a visible Base. The ID is assigned when the entity is added
// to a Registry.
func NewBase(kind Kind, x, y, size float64, tags Tag) Base {
	return Base{
		kind:    kind,
		tags:    tags,
		X:       x,
		Y:       y,
		Size:    size,
		Visible: true,
		Effects: Effects{FadeAlpha: 255},
	}
}

// Core implements Entity.
func (b *Base) Core() *Base { return b }

// Depth implements Entity with the default depth of 0.
func (b *Base) Depth() int { return 0 }

// ID returns the identifier assigned by the registry, or 0 if never added.
func (b *Base) ID() ID { return b.id }

// Kind returns the entity variant.
func (b *Base) Kind() Kind { return b.kind }

// Tags returns the entity's group memberships.
func (b *Base) Tags() Tag { return b.tags }

// Is reports whether the entity carries every group in t.
func (b *Base) Is(t Tag) bool { return b.tags.Has(t) }

// SetTag adds groups. Only lock tiles toggle tags after construction.
func (b *Base) SetTag(t Tag) { b.tags |= t }

// ClearTag removes groups.
func (b *Base) ClearTag(t Tag) { b.tags &^= t }

// Rect returns the entity's bounding box.
func (b *Base) Rect() physics.Rect {
	return physics.Rect{X: b.X, Y: b.Y, W: b.Size, H: b.Size}
}

// Center returns the centre of the bounding box.
func (b *Base) Center() (float64, float64) {
	return b.X + b.Size/2, b.Y + b.Size/2
}

// SetPosition moves the entity.
func (b *Base) SetPosition(x, y float64) {
	b.X = x
	b.Y = y
}

// Touches reports whether two distinct entities' boxes overlap.
func (b *Base) Touches(other *Base) bool {
	if b.id != 0 && b.id == other.id {
		return false
	}
	return b.Rect().Overlaps(other.Rect())
}

// RenderOffset returns the visual jiggle offset to add when drawing.
func (b *Base) RenderOffset() (float64, float64) {
	return b.Effects.JiggleDX, b.Effects.JiggleDY
}
