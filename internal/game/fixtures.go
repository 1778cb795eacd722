package game

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/gloam/internal/combat"
	"github.com/samdwyer/gloam/internal/entity"
	"github.com/samdwyer/gloam/internal/light"
	"github.com/samdwyer/gloam/internal/ui"
	"github.com/samdwyer/gloam/internal/world"
)

// LightSource is a beam or radial emitter. Beams are persistent, pushable
// and block other beams; radial lamps are rebuilt with their room.
type LightSource struct {
	entity.Base
	emission light.Emission
	anchor   world.Anchor
}

func newBeamLight(x, y, size float64, dx, dy, intensity, falloff int) *LightSource {
	return &LightSource{
		Base: entity.NewBase(entity.KindLightSource, x, y, size,
			entity.TagRenderable|entity.TagRelative|entity.TagLightSource|
				entity.TagWall|entity.TagPushable|entity.TagPersistent),
		emission: light.Emission{Kind: light.Beam, DX: dx, DY: dy, Intensity: intensity, Falloff: falloff},
	}
}

func newRadialLight(x, y, size float64, intensity, radius int) *LightSource {
	return &LightSource{
		Base: entity.NewBase(entity.KindLightSource, x, y, size,
			entity.TagRenderable|entity.TagRelative|entity.TagLightSource|entity.TagMapElement),
		emission: light.Emission{Kind: light.Radial, Intensity: intensity, Radius: radius},
	}
}

// Depth implements entity.Entity.
func (l *LightSource) Depth() int { return fixtureDepth }

// Emission implements light.Source.
func (l *LightSource) Emission() *light.Emission { return &l.emission }

// Anchor implements world.Persistent.
func (l *LightSource) Anchor() *world.Anchor { return &l.anchor }

// Render implements ui.Renderable.
func (l *LightSource) Render(cv ui.Canvas, dx, dy float64) {
	if !l.Visible {
		return
	}
	x, y := l.X+dx, l.Y+dy
	if l.emission.Kind == light.Radial {
		cv.Fill(l.Rect().Translate(dx, dy), '*', tcell.ColorGold)
		return
	}
	cv.Put(x, y, '[', tcell.ColorGold)
	arrow := '>'
	switch {
	case l.emission.DX < 0:
		arrow = '<'
	case l.emission.DY < 0:
		arrow = '^'
	case l.emission.DY > 0:
		arrow = 'v'
	}
	cv.Put(x+l.Size/2, y, arrow, tcell.ColorGold)
}

// Reflector turns beams 90 degrees.
type Reflector struct {
	entity.Base
}

func newReflector(x, y, size float64) *Reflector {
	return &Reflector{Base: entity.NewBase(entity.KindReflector, x, y, size,
		entity.TagRenderable|entity.TagRelative|entity.TagReflector|entity.TagMapElement)}
}

// Depth implements entity.Entity.
func (r *Reflector) Depth() int { return fixtureDepth }

// Render implements ui.Renderable.
func (r *Reflector) Render(cv ui.Canvas, dx, dy float64) {
	if r.Visible {
		cv.Fill(r.Rect().Translate(dx, dy), '/', tcell.ColorAqua)
	}
}

// Block is a persistent pushable crate. It also holds switches down.
type Block struct {
	entity.Base
	anchor world.Anchor
}

func newBlock(x, y, size float64) *Block {
	return &Block{Base: entity.NewBase(entity.KindBlock, x, y, size,
		entity.TagRenderable|entity.TagRelative|entity.TagWall|entity.TagPushable|
			entity.TagSwitchPusher|entity.TagPersistent)}
}

// Depth implements entity.Entity.
func (b *Block) Depth() int { return fixtureDepth }

// Anchor implements world.Persistent.
func (b *Block) Anchor() *world.Anchor { return &b.anchor }

// Render implements ui.Renderable.
func (b *Block) Render(cv ui.Canvas, dx, dy float64) {
	if b.Visible {
		cv.Fill(b.Rect().Translate(dx, dy), '▒', tcell.ColorSilver)
	}
}

// Switch opens every lock in the room while a switch-pusher stands on it.
type Switch struct {
	entity.Base
	pressed bool
}

func newSwitch(x, y, size float64) *Switch {
	return &Switch{Base: entity.NewBase(entity.KindSwitch, x, y, size,
		entity.TagRenderable|entity.TagUpdateable|entity.TagRelative|
			entity.TagSwitch|entity.TagMapElement)}
}

// Depth implements entity.Entity.
func (s *Switch) Depth() int { return switchDepth }

// Pressed reports whether a switch-pusher was on the switch at its last
// update.
func (s *Switch) Pressed() bool { return s.pressed }

// Update implements Updater.
func (s *Switch) Update(ctx *Context) {
	s.pressed = ctx.Reg.Any(entity.TagSwitchPusher, entity.Visible, entity.Touching(s.Rect()))
	syncLocks(ctx)
}

// syncLocks closes every lock tile unless some switch in the room is
// pressed. A change in lock state refreshes the light field at once so
// later updates in the frame see the opened cells.
func syncLocks(ctx *Context) {
	open := false
	for _, sw := range entity.OfType[*Switch](ctx.Reg.Get(entity.TagSwitch)) {
		if ctx.Reg.Any(entity.TagSwitchPusher, entity.Visible, entity.Touching(sw.Rect())) {
			open = true
			break
		}
	}
	changed := false
	for _, t := range ctx.Map.Locks() {
		if t.IsWall() == open {
			t.SetLocked(!open)
			changed = true
		}
	}
	if changed {
		ctx.Light.Refresh(ctx.Ctx, ctx.Reg, ctx.Map)
		ctx.Log.WithField("open", open).Debug("Locks toggled")
	}
}

// Render implements ui.Renderable.
func (s *Switch) Render(cv ui.Canvas, dx, dy float64) {
	if !s.Visible {
		return
	}
	glyph := '_'
	if s.pressed {
		glyph = '='
	}
	cv.Fill(s.Rect().Translate(dx, dy), glyph, tcell.ColorGreen)
}

// Pickup is an enemy drop collected on contact.
type Pickup struct {
	entity.Base
	drop combat.Drop
}

func newPickup(drop combat.Drop, x, y, size float64) *Pickup {
	return &Pickup{
		Base: entity.NewBase(entity.KindPickup, x, y, size,
			entity.TagRenderable|entity.TagUpdateable|entity.TagRelative|
				entity.TagPickup|entity.TagMapElement),
		drop: drop,
	}
}

// Depth implements entity.Entity.
func (p *Pickup) Depth() int { return pickupDepth }

// Drop returns what the pickup grants.
func (p *Pickup) Drop() combat.Drop { return p.drop }

// Update implements Updater.
func (p *Pickup) Update(ctx *Context) {
	ch := ctx.Character()
	if ch.Dead() || !p.Touches(&ch.Base) {
		return
	}
	combat.Collect(p.drop, ch, ctx.Config.HealAmount, ctx.Config.MaxHealthIncrement)
	ctx.Reg.Remove(p)
	ctx.Log.WithField("drop", string(p.drop)).Info("Pickup collected")
}

// Render implements ui.Renderable.
func (p *Pickup) Render(cv ui.Canvas, dx, dy float64) {
	if !p.Visible {
		return
	}
	glyph := '+'
	if p.drop == combat.DropMaxHealth {
		glyph = '♥'
	}
	cv.Put(p.X+dx, p.Y+dy, glyph, tcell.ColorRed)
}
