package game

import (
	"github.com/sirupsen/logrus"

	"github.com/samdwyer/gloam/internal/combat"
	"github.com/samdwyer/gloam/internal/entity"
	"github.com/samdwyer/gloam/internal/gamedata"
	"github.com/samdwyer/gloam/internal/physics"
	"github.com/samdwyer/gloam/internal/ui"
)

// enemyFlashTicks is how long an enemy flashes after a hit.
const enemyFlashTicks = 6

// Enemy is a hostile room element driven by one of the strategies in
// gamedata.
type Enemy struct {
	entity.Base
	combat.Health

	def *gamedata.EnemyDef
	vx  float64
	bar *Bar
}

func newEnemy(def *gamedata.EnemyDef, x, y, size float64) *Enemy {
	return &Enemy{
		Base: entity.NewBase(entity.KindEnemy, x, y, size,
			entity.TagRenderable|entity.TagUpdateable|entity.TagRelative|
				entity.TagEnemy|entity.TagMapElement),
		Health: combat.NewHealth(def.HP),
		def:    def,
		vx:     def.Speed,
	}
}

// Depth implements entity.Entity.
func (e *Enemy) Depth() int { return enemyDepth }

// GetName implements combat.Combatant.
func (e *Enemy) GetName() string { return e.def.Name }

// Def returns the enemy's definition.
func (e *Enemy) Def() *gamedata.EnemyDef { return e.def }

// Update implements Updater.
func (e *Enemy) Update(ctx *Context) {
	e.Effects.Tick(ctx.Rng)
	if e.bar == nil {
		e.bar = newBar(e, &e.Health, barAbove)
		ctx.Reg.Add(e.bar)
	}

	switch e.def.Strategy {
	case gamedata.StrategyBouncer:
		e.bounce(ctx)
	case gamedata.StrategySentry:
		e.guard(ctx)
	case gamedata.StrategySweeper:
		e.sweep(ctx)
	}

	ch := ctx.Character()
	if e.def.ContactDamage > 0 && ch.Visible && e.Touches(&ch.Base) {
		ex, _ := e.Center()
		cx, _ := ch.Center()
		ch.Hurt(ctx, combat.Hit{Damage: e.def.ContactDamage, DirX: physics.Sign(cx - ex)})
	}
}

// bounce moves in a straight line and turns around at walls.
func (e *Enemy) bounce(ctx *Context) {
	if res := ctx.move(&e.Base, e.vx, 0); res.HitX {
		e.vx = -e.vx
	}
}

// guard stays put and fires at the character on an interval.
func (e *Enemy) guard(ctx *Context) {
	if e.def.FireInterval <= 0 || ctx.Tick%e.def.FireInterval != 0 {
		return
	}
	ch := ctx.Character()
	if !ch.Visible || ch.Dead() {
		return
	}
	ex, ey := e.Center()
	cx, cy := ch.Center()
	ax, ay := combat.Aim(ex, ey, cx, cy)
	if ax == 0 && ay == 0 {
		return
	}
	speed := e.def.BulletSpeed
	ctx.Reg.Add(newBullet(ex, ey, ax*speed, ay*speed, 1, false))
}

// sweep snaps to the character's row and dashes towards it, stopping at
// walls.
func (e *Enemy) sweep(ctx *Context) {
	ch := ctx.Character()
	if !ch.Visible {
		return
	}
	if ch.Y != e.Y {
		ctx.move(&e.Base, 0, ch.Y-e.Y)
	}
	dx := max(-e.def.DashDistance, min(ch.X-e.X, e.def.DashDistance))
	if dx != 0 {
		ctx.move(&e.Base, dx, 0)
	}
}

// Hurt applies a player hit travelling along (dirX, dirY).
func (e *Enemy) Hurt(ctx *Context, damage int, dirX, dirY float64) combat.Result {
	res := combat.Resolve(combat.Hit{
		Damage:    damage,
		DirX:      dirX,
		DirY:      dirY,
		Knockback: e.def.Knockback,
	}, e)
	e.Effects.Flash(enemyFlashTicks)
	e.Effects.Jiggle(ctx.Config.JiggleMagnitude, enemyFlashTicks)
	if res.Killed {
		e.die(ctx)
		return res
	}
	if res.PushX != 0 || res.PushY != 0 {
		ctx.move(&e.Base, res.PushX, res.PushY)
	}
	return res
}

// die removes the enemy together with its bar and leaves its drop behind.
func (e *Enemy) die(ctx *Context) {
	ctx.Reg.Remove(e)
	if e.bar != nil {
		ctx.Reg.Remove(e.bar)
		e.bar = nil
	}
	drop := combat.Drop(e.def.Drop)
	if drop != combat.DropNone {
		ctx.Reg.Add(newPickup(drop, e.X, e.Y, e.Size))
	}
	ctx.Log.WithFields(logrus.Fields{
		"enemy": e.def.ID,
		"drop":  string(drop),
	}).Info("Enemy destroyed")
}

// Render implements ui.Renderable.
func (e *Enemy) Render(cv ui.Canvas, dx, dy float64) {
	if !e.Visible || !e.Effects.FlashVisible() {
		return
	}
	jx, jy := e.RenderOffset()
	cv.Fill(e.Rect().Translate(dx+jx, dy+jy), e.def.GlyphRune(), e.def.TCellColor())
}
