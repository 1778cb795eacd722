package world

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"
	"github.com/zyedidia/generic/mapset"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/gloam/internal/entity"
	"github.com/samdwyer/gloam/internal/gamedata"
	"github.com/samdwyer/gloam/internal/telemetry"
)

var (
	// ErrUnknownColor is returned when a room pixel is not in the palette.
	ErrUnknownColor = errors.New("unknown room colour")
	// ErrNoRoom is returned for a room coordinate outside the world image.
	ErrNoRoom = errors.New("no such room")
)

// DecodeError locates an undecodable room pixel.
type DecodeError struct {
	Room  RoomCoord
	I, J  int
	Color string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("room %s tile (%d,%d): %s %s", e.Room, e.I, e.J, ErrUnknownColor, e.Color)
}

func (e *DecodeError) Unwrap() error { return ErrUnknownColor }

// Spawner builds the companion entity a palette entry asks for, or returns
// nil when the entry has none. Non-persistent companions must carry
// entity.TagMapElement so the next room load clears them.
type Spawner interface {
	Spawn(entry *gamedata.PaletteEntry, x, y float64) (entity.Entity, error)
}

// Persistent is implemented by entities whose position survives leaving and
// re-entering their room.
type Persistent interface {
	entity.Entity
	Anchor() *Anchor
}

// IsPersistentCode reports whether entities decoded from code are created on
// the first visit only and restored afterwards.
func IsPersistentCode(code gamedata.Code) bool {
	return code == gamedata.CodeBlock || code == gamedata.CodeBeamLight
}

// Config sizes the world.
type Config struct {
	TileSize  int // pixels per tile edge
	RoomTiles int // tiles per room edge
}

// Map owns the loaded room's tile grid.
type Map struct {
	entity.Base

	cfg     Config
	src     image.Image
	palette *gamedata.Palette
	spawner Spawner
	rng     *rand.Rand
	log     logrus.FieldLogger

	current RoomCoord
	loaded  bool
	tiles   [][]*Tile // [i][j]
	seen    mapset.Set[RoomCoord]
}

// NewMap creates a map over a world image where every RoomTiles×RoomTiles
// block of pixels is one room.
func NewMap(cfg Config, src image.Image, palette *gamedata.Palette, spawner Spawner, rng *rand.Rand, log logrus.FieldLogger) *Map {
	return &Map{
		Base:    entity.NewBase(entity.KindMap, 0, 0, 0, entity.TagMap),
		cfg:     cfg,
		src:     src,
		palette: palette,
		spawner: spawner,
		rng:     rng,
		log:     log.WithField("component", "world"),
		seen:    mapset.New[RoomCoord](),
	}
}

// Current returns the loaded room's coordinate.
func (m *Map) Current() RoomCoord { return m.current }

// Seen reports whether the room has ever been loaded.
func (m *Map) Seen(c RoomCoord) bool { return m.seen.Has(c) }

// SeenCount returns how many distinct rooms have been loaded.
func (m *Map) SeenCount() int { return m.seen.Size() }

// Size returns the room size in tiles.
func (m *Map) Size() (int, int) { return m.cfg.RoomTiles, m.cfg.RoomTiles }

// TileSize returns the tile edge length in pixels.
func (m *Map) TileSize() float64 { return float64(m.cfg.TileSize) }

// PixelSize returns the room edge length in pixels.
func (m *Map) PixelSize() float64 { return float64(m.cfg.TileSize * m.cfg.RoomTiles) }

// HasRoom reports whether the world image contains the room.
func (m *Map) HasRoom(c RoomCoord) bool {
	b := m.src.Bounds()
	n := m.cfg.RoomTiles
	return c.X >= 0 && c.Y >= 0 &&
		b.Min.X+(c.X+1)*n <= b.Max.X &&
		b.Min.Y+(c.Y+1)*n <= b.Max.Y
}

// InBounds tests a pixel point against the room's extent, edges included.
func (m *Map) InBounds(x, y float64) bool {
	size := m.PixelSize()
	return x >= 0 && y >= 0 && x <= size && y <= size
}

// Tile returns the tile at (i, j), or nil off-grid.
func (m *Map) Tile(i, j int) *Tile {
	if !m.inGrid(i, j) {
		return nil
	}
	return m.tiles[i][j]
}

// IsWallAt reports whether (i, j) blocks. The world edge is solid.
func (m *Map) IsWallAt(i, j int) bool {
	if !m.inGrid(i, j) {
		return true
	}
	return m.tiles[i][j].IsWall()
}

// CellOf returns the tile containing a pixel point.
func (m *Map) CellOf(x, y float64) (int, int) {
	size := m.TileSize()
	return int(math.Floor(x / size)), int(math.Floor(y / size))
}

// Locks returns every lock tile in the room.
func (m *Map) Locks() []*Tile {
	var out []*Tile
	for _, col := range m.tiles {
		for _, t := range col {
			if t.Is(entity.TagLock) {
				out = append(out, t)
			}
		}
	}
	return out
}

func (m *Map) inGrid(i, j int) bool {
	return m.loaded && i >= 0 && j >= 0 && i < len(m.tiles) && j < len(m.tiles[i])
}

// decoded is one room cell before it becomes entities.
type decoded struct {
	entry   *gamedata.PaletteEntry
	variant *gamedata.TileVariant
}

// decode resolves every pixel of a room. It touches no state, so a bad room
// leaves the loaded one intact.
func (m *Map) decode(c RoomCoord) ([][]decoded, error) {
	if !m.HasRoom(c) {
		return nil, fmt.Errorf("room %s: %w", c, ErrNoRoom)
	}
	n := m.cfg.RoomTiles
	b := m.src.Bounds()
	cells := make([][]decoded, n)
	for i := 0; i < n; i++ {
		cells[i] = make([]decoded, n)
		for j := 0; j < n; j++ {
			px := m.src.At(b.Min.X+c.X*n+i, b.Min.Y+c.Y*n+j)
			entry, ok := m.palette.Lookup(px)
			if !ok {
				return nil, &DecodeError{Room: c, I: i, J: j, Color: gamedata.HexOf(gamedata.ColorOf(px))}
			}
			cells[i][j] = decoded{entry: entry, variant: m.palette.Tiles(entry).Pick(m.rng)}
		}
	}
	return cells, nil
}

// LoadRoom replaces the loaded room with the room at c.
//
// Every map element of the previous room is removed and rebuilt from the new
// room's pixels. Persistent entities are only spawned on a room's first
// visit; afterwards the ones anchored to c get their saved position back and
// all others are hidden. Positions of the room being left are saved first.
// The caller recomputes lighting before anything else reads the map.
func (m *Map) LoadRoom(ctx context.Context, reg *entity.Registry, c RoomCoord) (LoadReport, error) {
	tracer := telemetry.Tracer("world")
	_, span := tracer.Start(ctx, "room.load")
	defer span.End()

	report := LoadReport{Coord: c, FirstVisit: !m.seen.Has(c)}

	cells, err := m.decode(c)
	if err != nil {
		span.RecordError(err)
		m.log.WithError(err).WithField("room", c.String()).Error("Room decode failed")
		return report, err
	}

	size := m.TileSize()
	n := m.cfg.RoomTiles
	tiles := make([][]*Tile, n)
	var spawned []entity.Entity
	for i := 0; i < n; i++ {
		tiles[i] = make([]*Tile, n)
		for j := 0; j < n; j++ {
			d := cells[i][j]
			t := newTile(i, j, size, d.entry, d.variant)
			tiles[i][j] = t

			persistent := IsPersistentCode(d.entry.Code)
			if persistent && !report.FirstVisit {
				continue
			}
			e, err := m.spawner.Spawn(d.entry, t.X, t.Y)
			if err != nil {
				err = fmt.Errorf("room %s tile (%d,%d): %w", c, i, j, err)
				span.RecordError(err)
				return report, err
			}
			if e == nil {
				continue
			}
			if persistent {
				p, ok := e.(Persistent)
				if !ok {
					return report, fmt.Errorf("room %s tile (%d,%d): %s entity %T is not persistent", c, i, j, d.entry.Code, e)
				}
				*p.Anchor() = Anchor{Room: c, X: t.X, Y: t.Y}
			}
			spawned = append(spawned, e)
		}
	}

	// Nothing below can fail; the old room is only torn down now.
	if m.loaded {
		m.saveAnchors(reg)
	}
	reg.RemoveAll(entity.TagMapElement)
	for _, col := range tiles {
		for _, t := range col {
			reg.Add(t)
			report.Tiles++
		}
	}
	for _, e := range spawned {
		reg.Add(e)
		report.Spawned++
	}
	m.tiles = tiles

	m.current = c
	m.loaded = true
	m.seen.Put(c)
	report.Restored = m.restoreAnchors(reg)

	span.SetAttributes(
		attribute.String("room", c.String()),
		attribute.Bool("first_visit", report.FirstVisit),
		attribute.Int("tiles", report.Tiles),
		attribute.Int("spawned", report.Spawned),
		attribute.Int("restored", report.Restored),
	)
	m.log.WithFields(logrus.Fields{
		"room":        c.String(),
		"first_visit": report.FirstVisit,
		"spawned":     report.Spawned,
		"restored":    report.Restored,
	}).Info("Room loaded")

	return report, nil
}

// persistents returns every registered persistent entity.
func persistents(reg *entity.Registry) []Persistent {
	return entity.OfType[Persistent](reg.Get(entity.TagPersistent))
}

func (m *Map) saveAnchors(reg *entity.Registry) {
	for _, p := range persistents(reg) {
		a := p.Anchor()
		if a.Room != m.current {
			continue
		}
		b := p.Core()
		a.X, a.Y = b.X, b.Y
	}
}

func (m *Map) restoreAnchors(reg *entity.Registry) int {
	restored := 0
	for _, p := range persistents(reg) {
		a := p.Anchor()
		b := p.Core()
		if a.Room != m.current {
			b.Visible = false
			continue
		}
		b.SetPosition(a.X, a.Y)
		b.Visible = true
		restored++
	}
	return restored
}
