package game

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/gloam/internal/combat"
	"github.com/samdwyer/gloam/internal/entity"
	"github.com/samdwyer/gloam/internal/ui"
)

const bulletSize = 4

var bulletDeath = []entity.Frame{{Glyph: '*', Ticks: 2}, {Glyph: '·', Ticks: 2}}

// Bullet is a projectile. Friendly bullets hurt enemies; the rest hurt the
// character.
type Bullet struct {
	entity.Base

	vx, vy   float64
	damage   int
	friendly bool
	dying    bool
}

// newBullet centres a bullet on (cx, cy).
func newBullet(cx, cy, vx, vy float64, damage int, friendly bool) *Bullet {
	return &Bullet{
		Base: entity.NewBase(entity.KindBullet, cx-bulletSize/2, cy-bulletSize/2, bulletSize,
			entity.TagRenderable|entity.TagUpdateable|entity.TagRelative|
				entity.TagBullet|entity.TagMapElement),
		vx:       vx,
		vy:       vy,
		damage:   damage,
		friendly: friendly,
	}
}

// Depth implements entity.Entity.
func (b *Bullet) Depth() int { return bulletDepth }

// Dying reports whether the bullet is playing its death animation.
func (b *Bullet) Dying() bool { return b.dying }

// Update implements Updater.
func (b *Bullet) Update(ctx *Context) {
	b.Effects.Tick(ctx.Rng)
	if b.dying {
		if !b.Effects.Animating() {
			ctx.Reg.Remove(b)
		}
		return
	}

	b.X += b.vx
	b.Y += b.vy
	cx, cy := b.Center()
	if !ctx.Map.InBounds(cx, cy) || ctx.SolidAt(cx, cy, b.ID()) {
		b.die()
		return
	}

	if b.friendly {
		hits := entity.OfType[*Enemy](ctx.Reg.Get(entity.TagEnemy, entity.Visible, entity.Touching(b.Rect())))
		if len(hits) > 0 {
			hits[0].Hurt(ctx, b.damage, b.vx, b.vy)
			b.die()
		}
		return
	}

	ch := ctx.Character()
	if ch.Visible && b.Touches(&ch.Base) {
		ch.Hurt(ctx, combat.Hit{Damage: b.damage, DirX: b.vx, DirY: b.vy})
		b.die()
	}
}

func (b *Bullet) die() {
	b.dying = true
	b.vx, b.vy = 0, 0
	b.Effects.Play(bulletDeath...)
}

// Render implements ui.Renderable.
func (b *Bullet) Render(cv ui.Canvas, dx, dy float64) {
	if !b.Visible {
		return
	}
	glyph, fg := '•', tcell.ColorBlack
	if !b.friendly {
		glyph, fg = 'o', tcell.ColorRed
	}
	if f, ok := b.Effects.Frame(); ok {
		glyph = f.Glyph
	}
	cx, cy := b.Center()
	cv.Put(cx+dx, cy+dy, glyph, fg)
}
