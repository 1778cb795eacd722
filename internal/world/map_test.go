package world

import (
	"context"
	"errors"
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/samdwyer/gloam/internal/entity"
	"github.com/samdwyer/gloam/internal/gamedata"
	"github.com/samdwyer/gloam/internal/logger"
)

var legend = map[rune]gamedata.Code{
	'.': gamedata.CodeBackground,
	'#': gamedata.CodeWall,
	'b': gamedata.CodeBlock,
	'B': gamedata.CodeBeamLight,
	'L': gamedata.CodeLockedWall,
	'S': gamedata.CodeSwitch,
}

// fixture is a minimal persistent entity.
type fixture struct {
	entity.Base
	anchor Anchor
}

func (f *fixture) Anchor() *Anchor { return &f.anchor }

// marker is a non-persistent companion.
type marker struct{ entity.Base }

type testSpawner struct{}

func (testSpawner) Spawn(entry *gamedata.PaletteEntry, x, y float64) (entity.Entity, error) {
	switch entry.Code {
	case gamedata.CodeBlock, gamedata.CodeBeamLight:
		return &fixture{Base: entity.NewBase(entity.KindBlock, x, y, 10, entity.TagPersistent|entity.TagWall)}, nil
	case gamedata.CodeSwitch:
		return &marker{Base: entity.NewBase(entity.KindSwitch, x, y, 10, entity.TagSwitch|entity.TagMapElement)}, nil
	}
	return nil, nil
}

var errSpawn = errors.New("spawn failed")

// failingSpawner fails on switches in a room's bottom row.
type failingSpawner struct{ testSpawner }

func (f failingSpawner) Spawn(entry *gamedata.PaletteEntry, x, y float64) (entity.Entity, error) {
	if entry.Code == gamedata.CodeSwitch && y >= 20 {
		return nil, errSpawn
	}
	return f.testSpawner.Spawn(entry, x, y)
}

// paint lays rooms out left to right; each room is a list of rows.
func paint(t *testing.T, palette *gamedata.Palette, rooms ...[]string) *image.RGBA {
	t.Helper()
	n := len(rooms[0])
	img := image.NewRGBA(image.Rect(0, 0, n*len(rooms), n))
	for r, rows := range rooms {
		for j, row := range rows {
			for i, ch := range row {
				var c color.RGBA
				if ch == '?' {
					c = color.RGBA{R: 0x12, G: 0x34, B: 0x56, A: 0xff}
				} else {
					code, ok := legend[ch]
					if !ok {
						t.Fatalf("no legend entry for %q", ch)
					}
					if c, ok = palette.ColorFor(code); !ok {
						t.Fatalf("palette has no colour for %s", code)
					}
				}
				img.Set(r*n+i, j, c)
			}
		}
	}
	return img
}

func newTestMap(t *testing.T, rooms ...[]string) (*Map, *entity.Registry) {
	t.Helper()
	return newTestMapWith(t, testSpawner{}, rooms...)
}

func newTestMapWith(t *testing.T, spawner Spawner, rooms ...[]string) (*Map, *entity.Registry) {
	t.Helper()
	palette, err := gamedata.LoadPalette()
	if err != nil {
		t.Fatalf("Failed to load palette: %v", err)
	}
	img := paint(t, palette, rooms...)
	m := NewMap(Config{TileSize: 10, RoomTiles: len(rooms[0])}, img, palette, spawner, rand.New(rand.NewSource(1)), logger.Discard())
	reg := entity.NewRegistry()
	reg.Add(m)
	return m, reg
}

func TestLoadRoomTiles(t *testing.T) {
	m, reg := newTestMap(t, []string{
		"###",
		"#.L",
		"#S#",
	})
	report, err := m.LoadRoom(context.Background(), reg, RoomCoord{})
	if err != nil {
		t.Fatalf("LoadRoom failed: %v", err)
	}
	if report.Tiles != 9 || report.Spawned != 1 || !report.FirstVisit {
		t.Errorf("report = %+v", report)
	}

	tests := []struct {
		i, j int
		want bool
	}{
		{0, 0, true},
		{1, 1, false},
		{2, 1, true},
		{1, 2, false},
		{-1, 0, true},
		{3, 1, true},
		{1, 3, true},
	}
	for _, tt := range tests {
		if got := m.IsWallAt(tt.i, tt.j); got != tt.want {
			t.Errorf("IsWallAt(%d,%d) = %v, want %v", tt.i, tt.j, got, tt.want)
		}
	}
	if m.Tile(5, 5) != nil {
		t.Error("Tile off-grid should be nil")
	}
	if got := m.Tile(2, 1).Code; got != gamedata.CodeLockedWall {
		t.Errorf("Tile(2,1).Code = %s", got)
	}
}

func TestLocks(t *testing.T) {
	m, reg := newTestMap(t, []string{
		"#L#",
		"...",
		"#L#",
	})
	if _, err := m.LoadRoom(context.Background(), reg, RoomCoord{}); err != nil {
		t.Fatalf("LoadRoom failed: %v", err)
	}
	locks := m.Locks()
	if len(locks) != 2 {
		t.Fatalf("Locks() = %d tiles, want 2", len(locks))
	}
	locks[0].SetLocked(false)
	if m.IsWallAt(1, 0) {
		t.Error("opened lock still blocks")
	}
	locks[0].SetLocked(true)
	if !m.IsWallAt(1, 0) {
		t.Error("closed lock does not block")
	}

	wall := m.Tile(0, 0)
	wall.SetLocked(false)
	if !wall.IsWall() {
		t.Error("SetLocked must not open ordinary walls")
	}
}

func TestHasRoom(t *testing.T) {
	m, _ := newTestMap(t, []string{"...", "...", "..."}, []string{"...", "...", "..."})
	tests := []struct {
		c    RoomCoord
		want bool
	}{
		{RoomCoord{0, 0}, true},
		{RoomCoord{1, 0}, true},
		{RoomCoord{2, 0}, false},
		{RoomCoord{0, 1}, false},
		{RoomCoord{-1, 0}, false},
	}
	for _, tt := range tests {
		if got := m.HasRoom(tt.c); got != tt.want {
			t.Errorf("HasRoom(%s) = %v, want %v", tt.c, got, tt.want)
		}
	}
}

func TestLoadRoomErrors(t *testing.T) {
	m, reg := newTestMap(t,
		[]string{"...", ".S.", "..."},
		[]string{"...", ".?.", "..."},
	)
	ctx := context.Background()
	if _, err := m.LoadRoom(ctx, reg, RoomCoord{}); err != nil {
		t.Fatalf("LoadRoom failed: %v", err)
	}
	before := reg.Len()

	_, err := m.LoadRoom(ctx, reg, RoomCoord{X: 1})
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if !errors.Is(err, ErrUnknownColor) {
		t.Error("DecodeError should wrap ErrUnknownColor")
	}
	if de.I != 1 || de.J != 1 || de.Room != (RoomCoord{X: 1}) {
		t.Errorf("DecodeError = %+v", de)
	}
	if m.Current() != (RoomCoord{}) || reg.Len() != before {
		t.Error("failed load must leave the current room untouched")
	}
	if m.Seen(RoomCoord{X: 1}) {
		t.Error("failed room must not be marked seen")
	}

	if _, err := m.LoadRoom(ctx, reg, RoomCoord{X: 5}); !errors.Is(err, ErrNoRoom) {
		t.Errorf("expected ErrNoRoom, got %v", err)
	}
}

func TestLoadRoomSpawnErrorKeepsRoom(t *testing.T) {
	m, reg := newTestMapWith(t, failingSpawner{},
		[]string{"#.#", ".S.", "#.#"},
		[]string{"...", "...", "S.."},
	)
	ctx := context.Background()
	if _, err := m.LoadRoom(ctx, reg, RoomCoord{}); err != nil {
		t.Fatalf("LoadRoom failed: %v", err)
	}
	elements := reg.Count(entity.TagMapElement)

	_, err := m.LoadRoom(ctx, reg, RoomCoord{X: 1})
	if !errors.Is(err, errSpawn) {
		t.Fatalf("expected spawn error, got %v", err)
	}
	if m.Current() != (RoomCoord{}) || m.Seen(RoomCoord{X: 1}) {
		t.Error("failed load must not switch rooms")
	}
	if n := reg.Count(entity.TagMapElement); n != elements {
		t.Errorf("map elements = %d, want %d", n, elements)
	}
	if n := reg.Count(entity.KindSwitch); n != 1 {
		t.Errorf("switch count = %d, want 1", n)
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := (i != 1 && j != 1)
			if got := m.IsWallAt(i, j); got != want {
				t.Errorf("IsWallAt(%d,%d) = %v, want %v", i, j, got, want)
			}
		}
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	m, reg := newTestMap(t,
		[]string{"...", ".b.", "..."},
		[]string{"...", "...", ".B."},
	)
	ctx := context.Background()
	if _, err := m.LoadRoom(ctx, reg, RoomCoord{}); err != nil {
		t.Fatalf("LoadRoom failed: %v", err)
	}
	blocks := entity.OfType[*fixture](reg.Get(entity.TagPersistent))
	if len(blocks) != 1 {
		t.Fatalf("expected 1 persistent entity, got %d", len(blocks))
	}
	block := blocks[0]
	if block.anchor.Room != (RoomCoord{}) {
		t.Errorf("anchor room = %s", block.anchor.Room)
	}
	block.SetPosition(20, 0)

	report, err := m.LoadRoom(ctx, reg, RoomCoord{X: 1})
	if err != nil {
		t.Fatalf("LoadRoom failed: %v", err)
	}
	if report.Spawned != 1 || report.Restored != 1 {
		t.Errorf("second room report = %+v", report)
	}
	if block.Visible {
		t.Error("block from another room should be hidden")
	}
	if block.anchor.X != 20 || block.anchor.Y != 0 {
		t.Errorf("anchor not saved: %+v", block.anchor)
	}

	block.SetPosition(999, 999)
	report, err = m.LoadRoom(ctx, reg, RoomCoord{})
	if err != nil {
		t.Fatalf("LoadRoom failed: %v", err)
	}
	if report.FirstVisit || report.Spawned != 0 || report.Restored != 1 {
		t.Errorf("revisit report = %+v", report)
	}
	if !block.Visible || block.X != 20 || block.Y != 0 {
		t.Errorf("block not restored: visible=%v at (%v,%v)", block.Visible, block.X, block.Y)
	}
	if n := reg.Count(entity.TagPersistent); n != 2 {
		t.Errorf("persistent count = %d, want 2", n)
	}
	if m.SeenCount() != 2 {
		t.Errorf("SeenCount = %d, want 2", m.SeenCount())
	}
}

func TestMapElementsRebuilt(t *testing.T) {
	m, reg := newTestMap(t,
		[]string{"...", ".S.", "..."},
		[]string{"...", "...", "..."},
	)
	ctx := context.Background()
	for _, c := range []RoomCoord{{}, {X: 1}, {}} {
		if _, err := m.LoadRoom(ctx, reg, c); err != nil {
			t.Fatalf("LoadRoom(%s) failed: %v", c, err)
		}
	}
	reg.Compact()
	if n := reg.Count(entity.KindSwitch); n != 1 {
		t.Errorf("switch count = %d, want 1", n)
	}
	if n := reg.Count(entity.KindTile); n != 9 {
		t.Errorf("tile count = %d, want 9", n)
	}
}

func TestCellOfAndBounds(t *testing.T) {
	m, _ := newTestMap(t, []string{"...", "...", "..."})
	if i, j := m.CellOf(15, -1); i != 1 || j != -1 {
		t.Errorf("CellOf(15,-1) = (%d,%d)", i, j)
	}
	tests := []struct {
		x, y float64
		want bool
	}{
		{0, 0, true},
		{30, 30, true},
		{30.5, 10, false},
		{-0.1, 10, false},
	}
	for _, tt := range tests {
		if got := m.InBounds(tt.x, tt.y); got != tt.want {
			t.Errorf("InBounds(%v,%v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}
