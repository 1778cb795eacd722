package game

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/gloam/internal/combat"
	"github.com/samdwyer/gloam/internal/entity"
	"github.com/samdwyer/gloam/internal/input"
	"github.com/samdwyer/gloam/internal/physics"
	"github.com/samdwyer/gloam/internal/sanity"
	"github.com/samdwyer/gloam/internal/telemetry"
	"github.com/samdwyer/gloam/internal/ui"
)

// Character is the player.
type Character struct {
	entity.Base
	combat.Health

	Sanity *sanity.Coupling

	vy       float64
	grounded bool
	facingX  int
	facingY  int
	lastShot int
	lastPush int
	dead     bool
}

func newCharacter(x, y, size float64, hp int, meter *sanity.Coupling) *Character {
	return &Character{
		Base: entity.NewBase(entity.KindCharacter, x, y, size,
			entity.TagRenderable|entity.TagUpdateable|entity.TagRelative|
				entity.TagCharacter|entity.TagSwitchPusher),
		Health:   combat.NewHealth(hp),
		Sanity:   meter,
		facingX:  1,
		lastShot: -1 << 30,
		lastPush: -1 << 30,
	}
}

// Depth implements entity.Entity.
func (c *Character) Depth() int { return characterDepth }

// GetName implements combat.Combatant.
func (c *Character) GetName() string { return "character" }

// Dead reports whether hit points ran out.
func (c *Character) Dead() bool { return c.dead }

// Update implements Updater.
func (c *Character) Update(ctx *Context) {
	c.Effects.Tick(ctx.Rng)
	if c.dead {
		return
	}

	c.stepSanity(ctx)
	if c.Sanity.Transitioning() {
		return
	}

	dx := 0.0
	if ctx.Input.Held(input.Left) {
		dx -= ctx.Config.RunSpeed
		c.facingX, c.facingY = -1, 0
	}
	if ctx.Input.Held(input.Right) {
		dx += ctx.Config.RunSpeed
		c.facingX, c.facingY = 1, 0
	}
	if ctx.Input.Held(input.Up) {
		c.facingX, c.facingY = 0, -1
	}

	if ctx.Input.Held(input.Shoot) && ctx.Tick-c.lastShot >= ctx.Config.ShootCooldown {
		c.shoot(ctx)
	}

	if ctx.Input.Held(input.Jump) && c.grounded {
		c.vy = -ctx.Config.JumpSpeed
	} else {
		c.vy = physics.Fall(c.vy, c.grounded, ctx.Config.Gravity, ctx.Config.MaxFall)
	}

	res := ctx.move(&c.Base, dx, c.vy)
	if res.HitY && c.vy < 0 {
		c.vy = 0
	}
	c.grounded = ctx.grounded(&c.Base)
	if c.grounded && c.vy > 0 {
		c.vy = 0
	}

	if dx != 0 {
		c.tryPush(ctx, int(physics.Sign(dx)))
	}

	c.checkRoomEdge(ctx)
}

func (c *Character) stepSanity(ctx *Context) {
	i, j := ctx.cellOf(&c.Base)
	ts := ctx.TileSize()

	switch c.Sanity.Step(ctx.Tick, ctx.Light.LightAt(i, j), sanity.Tile{I: i, J: j}) {
	case sanity.SoftDeathStarted:
		_, span := telemetry.Tracer("sanity").Start(ctx.Ctx, "sanity.soft_death")
		safe := c.Sanity.SafeTile()
		span.SetAttributes(
			attribute.Int("tick", ctx.Tick),
			attribute.Int("safe.i", safe.I),
			attribute.Int("safe.j", safe.J),
		)
		span.End()
		c.Effects.FadeOut(ctx.Config.fadeStep())
		c.Effects.ZoomTo(float64(safe.I)*ts+ts/2, float64(safe.J)*ts+ts/2)
		c.vy = 0
	case sanity.Teleport:
		safe := c.Sanity.SafeTile()
		c.SetPosition(float64(safe.I)*ts, float64(safe.J)*ts)
		c.Effects.FadeIn(ctx.Config.fadeStep())
		c.Effects.StopZoom()
		c.vy = 0
		ctx.Log.WithField("tile", fmt.Sprintf("(%d,%d)", safe.I, safe.J)).Info("Character returned to safe tile")
	}
}

func (c *Character) shoot(ctx *Context) {
	c.lastShot = ctx.Tick
	cx, cy := c.Center()
	speed := ctx.Config.PlayerBulletSpeed
	b := newBullet(cx, cy, float64(c.facingX)*speed, float64(c.facingY)*speed, 1, true)
	ctx.Reg.Add(b)
}

// tryPush shoves a pushable entity the character is walking into by one
// tile, provided the destination tile is free.
func (c *Character) tryPush(ctx *Context, dir int) {
	if ctx.Tick-c.lastPush < ctx.Config.PushCooldown {
		return
	}
	reach := c.Rect().Inflate(1)
	cx, _ := c.Center()
	for _, e := range ctx.Reg.Get(entity.TagPushable, entity.Visible, entity.Touching(reach)) {
		b := e.Core()
		ex, ey := b.Center()
		if (ex-cx)*float64(dir) <= 0 {
			continue
		}
		if ey < c.Y || ey > c.Rect().Bottom() {
			continue
		}
		if pushEntity(ctx, e, dir, 0) {
			c.lastPush = ctx.Tick
			return
		}
	}
}

// pushEntity moves e one tile by (di, dj) if the destination is inside the
// room and holds neither a wall tile nor a visible wall entity.
func pushEntity(ctx *Context, e entity.Entity, di, dj int) bool {
	b := e.Core()
	ts := ctx.TileSize()
	i, j := ctx.Map.CellOf(b.X, b.Y)
	ni, nj := i+di, j+dj
	if ctx.Map.IsWallAt(ni, nj) {
		return false
	}
	nx, ny := float64(ni)*ts, float64(nj)*ts
	dest := physics.Rect{X: nx, Y: ny, W: b.Size, H: b.Size}
	if ctx.Reg.Any(entity.TagWall, entity.Visible, entity.Not(entity.KindTile),
		entity.Touching(dest), entity.Except(b.ID())) {
		return false
	}
	b.SetPosition(nx, ny)
	if src, ok := e.(*LightSource); ok {
		src.Emission().Restart()
		ctx.Light.Request()
	}
	ctx.Log.WithFields(logrus.Fields{
		"kind": b.Kind().String(),
		"to":   fmt.Sprintf("(%d,%d)", ni, nj),
	}).Debug("Pushed")
	return true
}

// checkRoomEdge changes room once the character's centre leaves the room.
func (c *Character) checkRoomEdge(ctx *Context) {
	cx, cy := c.Center()
	size := ctx.Map.PixelSize()
	dx, dy := 0, 0
	switch {
	case cx < 0:
		dx = -1
	case cx >= size:
		dx = 1
	case cy < 0:
		dy = -1
	case cy >= size:
		dy = 1
	}
	if dx == 0 && dy == 0 {
		return
	}
	if err := ctx.ChangeRoom(dx, dy); err != nil {
		ctx.Log.WithError(err).Error("Room change failed")
	}
}

// Hurt applies a blow unless the character is still flashing from the last
// one.
func (c *Character) Hurt(ctx *Context, hit combat.Hit) combat.Result {
	if c.dead || c.Effects.Flashing() || c.Sanity.Transitioning() {
		return combat.Result{}
	}
	res := combat.Resolve(hit, c)
	c.Effects.Flash(ctx.Config.FlashTicks)
	c.Effects.Jiggle(ctx.Config.JiggleMagnitude, ctx.Config.JiggleTicks)
	if res.Killed {
		c.die(ctx)
		return res
	}
	if res.PushX != 0 || res.PushY != 0 {
		ctx.move(&c.Base, res.PushX, res.PushY)
	}
	return res
}

func (c *Character) die(ctx *Context) {
	c.dead = true
	_, span := telemetry.Tracer("game").Start(ctx.Ctx, "character.death")
	span.SetAttributes(
		attribute.Int("tick", ctx.Tick),
		attribute.String("room", ctx.Map.Current().String()),
	)
	span.End()
	ctx.Log.WithField("room", ctx.Map.Current().String()).Warn("Character died")
	ctx.sim.state = StateDead
	c.Effects.FadeOut(ctx.Config.fadeStep())
}

// Render implements ui.Renderable.
func (c *Character) Render(cv ui.Canvas, dx, dy float64) {
	if !c.Visible || !c.Effects.FlashVisible() || c.Effects.Alpha() == 0 {
		return
	}
	jx, jy := c.RenderOffset()
	x, y := c.X+dx+jx, c.Y+dy+jy
	fg := ui.Darken(tcell.ColorYellow, uint8(255-c.Effects.Alpha()))
	cv.Put(x, y, '@', fg)

	facing := '>'
	switch {
	case c.facingY < 0:
		facing = '^'
	case c.facingX < 0:
		facing = '<'
	}
	cv.Put(x+c.Size/2, y, facing, fg)
}
