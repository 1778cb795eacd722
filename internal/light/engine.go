package light

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/gloam/internal/entity"
	"github.com/samdwyer/gloam/internal/telemetry"
)

// Config tunes the engine.
type Config struct {
	// Interval is the number of ticks between unrequested recalculations.
	Interval int
	// Ceiling is the ambient level at or above which a tile is left out of
	// the mask.
	Ceiling int
}

// Engine owns the ambient field. Consumers only read it.
type Engine struct {
	cfg      Config
	log      logrus.FieldLogger
	field    Field
	segments []Segment
	mask     *Mask
	dirty    bool
}

// NewEngine creates an engine that recalculates on its first Tick.
func NewEngine(cfg Config, log logrus.FieldLogger) *Engine {
	if cfg.Interval < 1 {
		cfg.Interval = 1
	}
	return &Engine{
		cfg:   cfg,
		log:   log.WithField("component", "light"),
		dirty: true,
	}
}

// Request marks the field stale so the next Tick recalculates it.
func (e *Engine) Request() { e.dirty = true }

// Dirty reports whether a recalculation is pending.
func (e *Engine) Dirty() bool { return e.dirty }

// Tick recalculates when a recalculation was requested or the interval
// elapsed. It reports whether it did.
func (e *Engine) Tick(ctx context.Context, tick int, reg *entity.Registry, grid Grid) bool {
	if !e.dirty && tick%e.cfg.Interval != 0 {
		return false
	}
	e.Recalculate(ctx, reg, grid)
	return true
}

// Recalculate rebuilds the field from every registered source. Beam reach
// grows by one on each call.
func (e *Engine) Recalculate(ctx context.Context, reg *entity.Registry, grid Grid) {
	e.rebuild(ctx, reg, grid, true)
}

// Refresh rebuilds the field at the current beam reach, for when the grid
// changed mid-frame.
func (e *Engine) Refresh(ctx context.Context, reg *entity.Registry, grid Grid) {
	e.rebuild(ctx, reg, grid, false)
}

func (e *Engine) rebuild(ctx context.Context, reg *entity.Registry, grid Grid, grow bool) {
	_, span := telemetry.Tracer("light").Start(ctx, "light.recalculate")
	defer span.End()

	wd := newWorld(reg, grid)
	field := NewField(wd.w, wd.h, Full)
	var segs []Segment
	maxReach := 4 * wd.w * wd.h

	sources := entity.OfType[Source](reg.Get(entity.TagLightSource))
	for _, src := range sources {
		em := src.Emission()
		switch em.Kind {
		case Beam:
			if grow && em.Reach < maxReach {
				em.Reach++
			}
			d, s := wd.beamDelta(src, em)
			field.Accumulate(d)
			segs = append(segs, s...)
		case Radial:
			field.Accumulate(wd.radialDelta(src, em))
		}
	}

	e.field = field
	e.segments = segs
	e.mask = buildMask(field, segs, e.cfg.Ceiling)
	e.dirty = false

	span.SetAttributes(
		attribute.Int("light.sources", len(sources)),
		attribute.Int("light.segments", len(segs)),
		attribute.Bool("light.grow", grow),
	)
	e.log.WithFields(logrus.Fields{
		"sources":  len(sources),
		"segments": len(segs),
	}).Debug("Light recalculated")
}

// Restart shortens every beam so it grows again from its source, as after a
// room change.
func (e *Engine) Restart(reg *entity.Registry) {
	for _, src := range entity.OfType[Source](reg.Get(entity.TagLightSource)) {
		src.Emission().Restart()
	}
	e.Request()
}

// LightAt returns the ambient level of tile (i, j). Tiles off the grid, or
// any tile before the first recalculation, read as Full.
func (e *Engine) LightAt(i, j int) int {
	if !e.field.In(i, j) {
		return Full
	}
	return e.field[i][j]
}

// Segments returns the tiles beams passed through in the last recalculation.
func (e *Engine) Segments() []Segment { return e.segments }

// Mask returns the soft mask from the last recalculation, or nil.
func (e *Engine) Mask() *Mask { return e.mask }
