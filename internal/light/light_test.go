package light

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/samdwyer/gloam/internal/entity"
)

const tile = 20

type testGrid struct {
	w, h  int
	walls map[Segment]bool
}

func newTestGrid(w, h int, walls ...Segment) *testGrid {
	g := &testGrid{w: w, h: h, walls: make(map[Segment]bool)}
	for _, s := range walls {
		g.walls[s] = true
	}
	return g
}

func (g *testGrid) Size() (int, int)  { return g.w, g.h }
func (g *testGrid) TileSize() float64 { return tile }
func (g *testGrid) IsWallAt(i, j int) bool {
	if i < 0 || j < 0 || i >= g.w || j >= g.h {
		return true
	}
	return g.walls[Segment{I: i, J: j}]
}

type testSource struct {
	entity.Base
	em Emission
}

func (s *testSource) Emission() *Emission { return &s.em }

func beamAt(i, j, dx, dy int) *testSource {
	return &testSource{
		Base: entity.NewBase(entity.KindLightSource, float64(i*tile), float64(j*tile), tile,
			entity.TagLightSource|entity.TagWall),
		em: Emission{Kind: Beam, DX: dx, DY: dy, Intensity: -255, Falloff: 60},
	}
}

func radialAt(i, j, radius int) *testSource {
	return &testSource{
		Base: entity.NewBase(entity.KindLightSource, float64(i*tile), float64(j*tile), tile, entity.TagLightSource),
		em:   Emission{Kind: Radial, Intensity: -160, Radius: radius},
	}
}

func reflectorAt(i, j int) entity.Entity {
	b := entity.NewBase(entity.KindReflector, float64(i*tile), float64(j*tile), tile, entity.TagReflector)
	return &b
}

func newTestEngine() *Engine {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewEngine(Config{Interval: 5, Ceiling: 240}, log)
}

func recalc(e *Engine, reg *entity.Registry, g Grid, n int) {
	for k := 0; k < n; k++ {
		e.Recalculate(context.Background(), reg, g)
	}
}

func TestRotate(t *testing.T) {
	dx, dy := Rotate(1, 0)
	if dx != 0 || dy != -1 {
		t.Fatalf("Rotate(1,0) = (%d,%d), want (0,-1)", dx, dy)
	}
	for _, d := range [][2]int{{1, 0}, {0, 1}, {-1, 0}, {0, -1}} {
		x, y := d[0], d[1]
		for k := 0; k < 4; k++ {
			x, y = Rotate(x, y)
		}
		if x != d[0] || y != d[1] {
			t.Errorf("four rotations of %v gave (%d,%d)", d, x, y)
		}
	}
}

func TestAccumulateClamps(t *testing.T) {
	f := NewField(1, 1, 250)
	f.Accumulate(Field{{10}})
	if f[0][0] != Full {
		t.Errorf("overflow: got %d, want %d", f[0][0], Full)
	}
	f.Accumulate(Field{{-300}})
	if f[0][0] != 0 {
		t.Errorf("underflow: got %d, want 0", f[0][0])
	}
}

func TestFieldStaysClampedUnderOverlap(t *testing.T) {
	g := newTestGrid(15, 15)
	reg := entity.NewRegistry()
	reg.Add(beamAt(0, 7, 1, 0))
	reg.Add(beamAt(7, 14, 0, -1))
	reg.Add(radialAt(7, 7, 5))
	reg.Add(radialAt(6, 6, 5))

	e := newTestEngine()
	recalc(e, reg, g, 20)

	for i := 0; i < 15; i++ {
		for j := 0; j < 15; j++ {
			if v := e.LightAt(i, j); v < 0 || v > Full {
				t.Fatalf("LightAt(%d,%d) = %d, outside [0,%d]", i, j, v, Full)
			}
		}
	}
	if e.LightAt(7, 7) != 0 {
		t.Errorf("LightAt(7,7) = %d, want 0 under overlapping sources", e.LightAt(7, 7))
	}
}

func TestBeamReachesGridEdge(t *testing.T) {
	g := newTestGrid(15, 15)
	reg := entity.NewRegistry()
	reg.Add(beamAt(5, 0, 1, 0))
	e := newTestEngine()

	recalc(e, reg, g, 9)
	if n := len(e.Segments()); n != 9 {
		t.Fatalf("after 9 recalculations: %d segments, want 9", n)
	}

	recalc(e, reg, g, 3)
	segs := e.Segments()
	if len(segs) != 10 {
		t.Fatalf("after 12 recalculations: %d segments, want 10", len(segs))
	}
	if last := segs[len(segs)-1]; last != (Segment{I: 14, J: 0}) {
		t.Errorf("last segment = %v, want (14,0)", last)
	}
	if v := e.LightAt(14, 0); v != 0 {
		t.Errorf("LightAt(14,0) = %d, want 0", v)
	}
}

func TestBeamReachIsMonotonicAndBounded(t *testing.T) {
	g := newTestGrid(15, 15, Segment{I: 10, J: 3})
	reg := entity.NewRegistry()
	reg.Add(beamAt(5, 3, 1, 0))
	e := newTestEngine()

	prev := 0
	for k := 0; k < 20; k++ {
		recalc(e, reg, g, 1)
		n := len(e.Segments())
		if n < prev {
			t.Fatalf("recalculation %d: beam shrank from %d to %d", k, prev, n)
		}
		if n > 5 {
			t.Fatalf("recalculation %d: beam of %d passes the wall 5 tiles away", k, n)
		}
		prev = n
	}
	if prev != 5 {
		t.Errorf("settled beam = %d tiles, want 5", prev)
	}
}

func TestRefreshKeepsReach(t *testing.T) {
	g := newTestGrid(15, 15)
	reg := entity.NewRegistry()
	reg.Add(beamAt(2, 3, 1, 0))
	e := newTestEngine()
	recalc(e, reg, g, 3)

	g.walls[Segment{I: 4, J: 3}] = true
	e.Request()
	e.Refresh(context.Background(), reg, g)
	if n := len(e.Segments()); n != 2 {
		t.Errorf("segments after wall = %d, want 2", n)
	}
	if e.Dirty() {
		t.Error("Refresh left the field dirty")
	}

	delete(g.walls, Segment{I: 4, J: 3})
	e.Refresh(context.Background(), reg, g)
	if n := len(e.Segments()); n != 3 {
		t.Errorf("segments after refresh = %d, want 3", n)
	}
}

func TestBeamRestartsWhenMoved(t *testing.T) {
	g := newTestGrid(15, 15)
	reg := entity.NewRegistry()
	src := beamAt(0, 0, 1, 0)
	reg.Add(src)
	e := newTestEngine()
	recalc(e, reg, g, 8)

	src.SetPosition(0, tile)
	e.Restart(reg)
	if !e.Dirty() {
		t.Error("Restart did not request a recalculation")
	}
	recalc(e, reg, g, 1)
	if n := len(e.Segments()); n != 1 {
		t.Errorf("segments after restart = %d, want 1", n)
	}
}

func TestBeamReflects(t *testing.T) {
	g := newTestGrid(15, 15)
	reg := entity.NewRegistry()
	reg.Add(beamAt(2, 5, 1, 0))
	reg.Add(reflectorAt(6, 5))
	e := newTestEngine()
	recalc(e, reg, g, 30)

	want := []Segment{
		{2, 5}, {3, 5}, {4, 5}, {5, 5}, {6, 5},
		{6, 4}, {6, 3}, {6, 2}, {6, 1}, {6, 0},
	}
	got := e.Segments()
	if len(got) != len(want) {
		t.Fatalf("segments = %v, want %v", got, want)
	}
	for k := range want {
		if got[k] != want[k] {
			t.Errorf("segment %d = %v, want %v", k, got[k], want[k])
		}
	}
}

func TestBeamBlockedByAnotherBeamSource(t *testing.T) {
	g := newTestGrid(15, 15)
	reg := entity.NewRegistry()
	a := beamAt(2, 5, 1, 0)
	b := beamAt(6, 5, 0, 1)
	reg.Add(a)
	reg.Add(b)
	e := newTestEngine()
	recalc(e, reg, g, 30)

	var fromA, fromB []Segment
	for _, s := range e.Segments() {
		if s.J == 5 && s.I < 6 {
			fromA = append(fromA, s)
		} else {
			fromB = append(fromB, s)
		}
	}
	if len(fromA) != 4 {
		t.Errorf("first beam covers %v, want (2..5,5)", fromA)
	}
	// The second source is not blocked by its own wall tag.
	if len(fromB) != 10 || fromB[0] != (Segment{I: 6, J: 5}) {
		t.Errorf("second beam covers %v, want (6,5..14)", fromB)
	}
}

func TestInvisibleSourceContributesNothing(t *testing.T) {
	g := newTestGrid(15, 15)
	reg := entity.NewRegistry()
	beam := beamAt(5, 5, 1, 0)
	beam.Visible = false
	radial := radialAt(2, 2, 3)
	radial.Visible = false
	reg.Add(beam)
	reg.Add(radial)
	e := newTestEngine()
	recalc(e, reg, g, 10)

	if n := len(e.Segments()); n != 0 {
		t.Errorf("invisible beam produced %d segments", n)
	}
	for i := 0; i < 15; i++ {
		for j := 0; j < 15; j++ {
			if v := e.LightAt(i, j); v != Full {
				t.Fatalf("LightAt(%d,%d) = %d, want %d", i, j, v, Full)
			}
		}
	}
}

func TestRadialStopsAtWall(t *testing.T) {
	g := newTestGrid(15, 15, Segment{I: 7, J: 5})
	reg := entity.NewRegistry()
	reg.Add(radialAt(5, 5, 3))
	e := newTestEngine()
	recalc(e, reg, g, 1)

	lit := Full - 160
	for _, tc := range []struct {
		i, j int
		want int
	}{
		{5, 5, lit},
		{6, 5, lit},
		{7, 5, Full}, // the wall itself
		{8, 5, Full}, // shadowed
		{8, 4, lit},
		{2, 5, lit},
		{5, 9, Full}, // beyond the radius
	} {
		if got := e.LightAt(tc.i, tc.j); got != tc.want {
			t.Errorf("LightAt(%d,%d) = %d, want %d", tc.i, tc.j, got, tc.want)
		}
	}
}

func TestRadialAttenuationWhenEnabled(t *testing.T) {
	g := newTestGrid(15, 15)
	reg := entity.NewRegistry()
	src := radialAt(5, 5, 3)
	src.em.Attenuate = true
	reg.Add(src)
	e := newTestEngine()
	recalc(e, reg, g, 1)

	near, far := e.LightAt(6, 5), e.LightAt(8, 5)
	if !(near < far && far < Full) {
		t.Errorf("attenuated radial: near=%d far=%d, want near < far < %d", near, far, Full)
	}
}

func TestTickPolicy(t *testing.T) {
	g := newTestGrid(5, 5)
	reg := entity.NewRegistry()
	e := newTestEngine()
	ctx := context.Background()

	for _, tc := range []struct {
		tick    int
		request bool
		want    bool
	}{
		{1, false, true}, // first tick is always dirty
		{2, false, false},
		{3, true, true},
		{4, false, false},
		{5, false, true}, // interval
	} {
		if tc.request {
			e.Request()
		}
		if got := e.Tick(ctx, tc.tick, reg, g); got != tc.want {
			t.Errorf("Tick(%d) = %v, want %v", tc.tick, got, tc.want)
		}
	}
}

func TestLightAtOffGrid(t *testing.T) {
	e := newTestEngine()
	if v := e.LightAt(0, 0); v != Full {
		t.Errorf("LightAt before recalculation = %d, want %d", v, Full)
	}
	recalc(e, entity.NewRegistry(), newTestGrid(3, 3), 1)
	if v := e.LightAt(-1, 2); v != Full {
		t.Errorf("LightAt(-1,2) = %d, want %d", v, Full)
	}
}

func TestMaskLightsBeamAndLeavesDarkOpaque(t *testing.T) {
	g := newTestGrid(15, 15)
	reg := entity.NewRegistry()
	reg.Add(beamAt(5, 0, 1, 0))
	e := newTestEngine()
	recalc(e, reg, g, 12)

	m := e.Mask()
	if m == nil {
		t.Fatal("Mask() = nil after recalculation")
	}
	if m.W != 15*Scale || m.H != 15*Scale {
		t.Fatalf("mask is %dx%d", m.W, m.H)
	}
	// Centre of beam tile (10,0).
	if v := m.At(10*Scale+1, 1); v != 0 {
		t.Errorf("mask on beam = %d, want 0", v)
	}
	if v := m.At(0, m.H-1); v != 255 {
		t.Errorf("mask far from light = %d, want 255", v)
	}
	if v := m.At(-1, 0); v != 255 {
		t.Errorf("mask off edge = %d, want 255", v)
	}
}
