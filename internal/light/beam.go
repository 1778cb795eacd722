package light

import (
	"math"

	"github.com/samdwyer/gloam/internal/entity"
)

// Segment is one tile a beam passed through.
type Segment struct {
	I, J int
}

// world bundles what a delta computation reads. Wall and reflector
// entities are indexed by the tile holding their centre once per
// recalculation.
type world struct {
	grid       Grid
	w, h       int
	size       float64
	walls      map[Segment][]entity.ID
	reflectors map[Segment]bool
}

func newWorld(reg *entity.Registry, grid Grid) world {
	w, h := grid.Size()
	wd := world{
		grid:       grid,
		w:          w,
		h:          h,
		size:       grid.TileSize(),
		walls:      make(map[Segment][]entity.ID),
		reflectors: make(map[Segment]bool),
	}
	for _, e := range reg.Get(entity.TagWall, entity.Visible, entity.Not(entity.KindTile)) {
		c := wd.centreCell(e)
		wd.walls[c] = append(wd.walls[c], e.Core().ID())
	}
	for _, e := range reg.Get(entity.TagReflector, entity.Visible) {
		wd.reflectors[wd.centreCell(e)] = true
	}
	return wd
}

// cellOf returns the tile an entity's top-left corner sits in.
func (wd world) cellOf(e entity.Entity) (int, int) {
	b := e.Core()
	return int(math.Floor(b.X / wd.size)), int(math.Floor(b.Y / wd.size))
}

func (wd world) centreCell(e entity.Entity) Segment {
	x, y := e.Core().Center()
	return Segment{I: int(math.Floor(x / wd.size)), J: int(math.Floor(y / wd.size))}
}

// blocked reports whether light cannot enter (i, j): off-grid, a wall tile,
// or a wall-tagged entity other than self.
func (wd world) blocked(i, j int, self entity.ID) bool {
	if wd.grid.IsWallAt(i, j) {
		return true
	}
	for _, id := range wd.walls[Segment{I: i, J: j}] {
		if id != self {
			return true
		}
	}
	return false
}

func (wd world) reflectorAt(i, j int) bool {
	return wd.reflectors[Segment{I: i, J: j}]
}

// beamDelta marches a beam from its source for at most Reach tiles.
func (wd world) beamDelta(src Source, em *Emission) (Field, []Segment) {
	delta := NewField(wd.w, wd.h, 0)
	if !src.Core().Visible {
		return delta, nil
	}

	var segs []Segment
	i, j := wd.cellOf(src)
	dx, dy := em.DX, em.DY
	self := src.Core().ID()

	for step := 0; step < em.Reach; step++ {
		if wd.blocked(i, j, self) {
			break
		}
		delta[i][j] = em.Intensity
		segs = append(segs, Segment{I: i, J: j})
		wd.splash(delta, i, j, em.Intensity, em.Falloff)

		if wd.reflectorAt(i, j) {
			dx, dy = Rotate(dx, dy)
		}
		if dx == 0 && dy == 0 {
			break
		}
		i += dx
		j += dy
	}
	return delta, segs
}

// splash adds a diamond of light around (ci, cj).
func (wd world) splash(delta Field, ci, cj, intensity, falloff int) {
	if falloff <= 0 {
		return
	}
	radius := int(math.Ceil(float64(-intensity) / float64(falloff)))
	for i := ci - radius; i <= ci+radius; i++ {
		for j := cj - radius; j <= cj+radius; j++ {
			if !delta.In(i, j) {
				continue
			}
			md := abs(i-ci) + abs(j-cj)
			delta[i][j] += -max(0, Full-md*falloff)
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
