package game

import (
	"context"
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/samdwyer/gloam/internal/entity"
	"github.com/samdwyer/gloam/internal/input"
	"github.com/samdwyer/gloam/internal/light"
	"github.com/samdwyer/gloam/internal/physics"
	"github.com/samdwyer/gloam/internal/world"
)

// Context is everything an entity may read or mutate during one update.
// A fresh one is built for every frame.
type Context struct {
	Ctx    context.Context
	Tick   int
	Input  *input.State
	Rng    *rand.Rand
	Reg    *entity.Registry
	Map    *world.Map
	Light  *light.Engine
	Config *Config
	Log    logrus.FieldLogger

	sim *Simulation
}

// Updater is implemented by entities tagged entity.TagUpdateable.
type Updater interface {
	Update(ctx *Context)
}

// Character returns the player. Exactly one must be registered.
func (c *Context) Character() *Character {
	return entity.MustOneAs[*Character](c.Reg, entity.TagCharacter)
}

// ChangeRoom moves the simulation to the neighbouring room.
func (c *Context) ChangeRoom(dx, dy int) error { return c.sim.changeRoom(dx, dy) }

// TileSize returns the tile edge in pixels.
func (c *Context) TileSize() float64 { return float64(c.Config.TileSize) }

// wallCell reports whether tile (i, j) blocks bodies. Cells beyond the room
// edge are open when a neighbouring room exists there, so the player can
// walk out of the room.
func (c *Context) wallCell(i, j int) bool {
	w, h := c.Map.Size()
	dx, dy := 0, 0
	switch {
	case i < 0:
		dx = -1
	case i >= w:
		dx = 1
	}
	switch {
	case j < 0:
		dy = -1
	case j >= h:
		dy = 1
	}
	if dx == 0 && dy == 0 {
		return c.Map.IsWallAt(i, j)
	}
	if dx != 0 && dy != 0 {
		return true
	}
	return !c.Map.HasRoom(c.Map.Current().Add(dx, dy))
}

// Solid reports whether r overlaps a wall tile or a visible wall entity
// other than self.
func (c *Context) Solid(r physics.Rect, self entity.ID) bool {
	ts := c.TileSize()
	i0, i1 := int(math.Floor(r.X/ts)), int(math.Ceil(r.Right()/ts))-1
	j0, j1 := int(math.Floor(r.Y/ts)), int(math.Ceil(r.Bottom()/ts))-1
	for i := i0; i <= i1; i++ {
		for j := j0; j <= j1; j++ {
			if c.wallCell(i, j) {
				return true
			}
		}
	}
	return c.Reg.Any(entity.TagWall, entity.Visible, entity.Not(entity.KindTile),
		entity.Touching(r), entity.Except(self))
}

// SolidAt reports whether a point is inside a wall tile or a visible wall
// entity other than self.
func (c *Context) SolidAt(x, y float64, self entity.ID) bool {
	ts := c.TileSize()
	if c.wallCell(int(math.Floor(x/ts)), int(math.Floor(y/ts))) {
		return true
	}
	return c.Reg.Any(entity.TagWall, entity.Visible, entity.Not(entity.KindTile),
		entity.ContainingPoint(x, y), entity.Except(self))
}

// move resolves a body's motion against walls and writes the result back.
func (c *Context) move(b *entity.Base, dx, dy float64) physics.Result {
	self := b.ID()
	r, res := physics.Move(b.Rect(), dx, dy, func(r physics.Rect) bool { return c.Solid(r, self) })
	b.SetPosition(r.X, r.Y)
	return res
}

// grounded reports whether a body stands on something solid.
func (c *Context) grounded(b *entity.Base) bool {
	self := b.ID()
	return physics.Grounded(b.Rect(), func(x, y float64) bool { return c.SolidAt(x, y, self) })
}

// cellOf returns the tile containing a body's centre.
func (c *Context) cellOf(b *entity.Base) (int, int) {
	x, y := b.Center()
	return c.Map.CellOf(x, y)
}
