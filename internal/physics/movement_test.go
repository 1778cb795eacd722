package physics

import (
	"math/rand"
	"testing"
)

const tile = 20

// grid is a test room: '#' cells are walls, everything outside is solid.
type grid []string

func (g grid) wallAt(i, j int) bool {
	if j < 0 || j >= len(g) || i < 0 || i >= len(g[j]) {
		return true
	}
	return g[j][i] == '#'
}

func (g grid) solid(r Rect) bool {
	i0, i1 := int(floorDiv(r.X)), int(floorDiv(r.Right()-0.0001))
	j0, j1 := int(floorDiv(r.Y)), int(floorDiv(r.Bottom()-0.0001))
	for j := j0; j <= j1; j++ {
		for i := i0; i <= i1; i++ {
			if g.wallAt(i, j) && r.Overlaps(Rect{X: float64(i * tile), Y: float64(j * tile), W: tile, H: tile}) {
				return true
			}
		}
	}
	return false
}

func (g grid) solidAt(x, y float64) bool {
	return g.wallAt(int(floorDiv(x)), int(floorDiv(y)))
}

func floorDiv(v float64) float64 {
	q := v / tile
	if q < 0 && q != float64(int(q)) {
		return float64(int(q) - 1)
	}
	return float64(int(q))
}

var room = grid{
	"##########",
	"#........#",
	"#..##....#",
	"#........#",
	"#....#...#",
	"#...##...#",
	"#........#",
	"#.#......#",
	"#........#",
	"##########",
}

func TestOverlapsIsStrict(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 20, H: 20}
	tests := []struct {
		name string
		b    Rect
		want bool
	}{
		{"same box", Rect{X: 0, Y: 0, W: 20, H: 20}, true},
		{"shared right edge", Rect{X: 20, Y: 0, W: 20, H: 20}, false},
		{"shared bottom edge", Rect{X: 0, Y: 20, W: 20, H: 20}, false},
		{"one pixel in", Rect{X: 19, Y: 19, W: 20, H: 20}, true},
		{"far away", Rect{X: 100, Y: 100, W: 20, H: 20}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps(%v) = %v, want %v", tt.b, got, tt.want)
			}
		})
	}
}

func TestContainsPointIncludesEdges(t *testing.T) {
	r := Rect{X: 20, Y: 20, W: 20, H: 20}
	if !r.ContainsPoint(20, 40) {
		t.Error("corner should be contained")
	}
	if r.ContainsPoint(41, 30) {
		t.Error("point right of the box should not be contained")
	}
}

func TestMoveNeverLeavesBodyInWall(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	body := Rect{X: 20, Y: 20, W: tile, H: tile}

	for step := 0; step < 5000; step++ {
		dx := float64(rng.Intn(41) - 20)
		dy := float64(rng.Intn(41) - 20)
		body, _ = Move(body, dx, dy, room.solid)
		if room.solid(body) {
			t.Fatalf("step %d: body %v overlaps a wall after Move(%v, %v)", step, body, dx, dy)
		}
	}
}

func TestMoveSlidesAlongWall(t *testing.T) {
	// Standing against the left wall and pushing diagonally into it keeps the
	// vertical component.
	body := Rect{X: 20, Y: 60, W: tile, H: tile}
	got, res := Move(body, -5, 7, room.solid)
	if !res.HitX {
		t.Error("expected the x axis to be stopped")
	}
	if res.HitY {
		t.Error("y axis should be free")
	}
	if got.X != 20 || got.Y != 67 {
		t.Errorf("Move = (%v, %v), want (20, 67)", got.X, got.Y)
	}
}

func TestMoveStopsFlushAgainstWall(t *testing.T) {
	body := Rect{X: 120, Y: 140, W: tile, H: tile}
	got, res := Move(body, 0, 25, room.solid)
	if !res.HitY {
		t.Fatal("expected a vertical hit on the floor")
	}
	if got.Y != 160 {
		t.Errorf("Y = %v, want 160 (resting on the bottom wall at 180)", got.Y)
	}
}

func TestMoveZeroDeltaRetreatsPositive(t *testing.T) {
	// Overlapping the left wall by 3px with no motion pushes the body right.
	body := Rect{X: 17, Y: 60, W: tile, H: tile}
	got, res := Move(body, 0, 0, room.solid)
	if got.X != 20 || got.Y != 60 {
		t.Errorf("Move = (%v, %v), want (20, 60)", got.X, got.Y)
	}
	if !res.HitX {
		t.Error("expected the x axis to report the push out")
	}
}

func TestGrounded(t *testing.T) {
	tests := []struct {
		name string
		r    Rect
		want bool
	}{
		{"on floor", Rect{X: 40, Y: 160, W: tile, H: tile}, true},
		{"one pixel above floor", Rect{X: 40, Y: 158, W: tile, H: tile}, false},
		{"mid air", Rect{X: 140, Y: 60, W: tile, H: tile}, false},
		{"on block edge", Rect{X: 55, Y: 20, W: tile, H: tile}, true},
		// The strip is inset two pixels, so a body with only its first
		// pixel over the ledge is not grounded.
		{"overhang", Rect{X: 99, Y: 20, W: tile, H: tile}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Grounded(tt.r, room.solidAt); got != tt.want {
				t.Errorf("Grounded(%v) = %v, want %v", tt.r, got, tt.want)
			}
		})
	}
}

func TestFall(t *testing.T) {
	tests := []struct {
		name     string
		vy       float64
		grounded bool
		want     float64
	}{
		{"accelerates", 0, false, 2},
		{"clamped at terminal speed", 9, false, 10},
		{"grounded zeroes downward velocity", 6, true, 0},
		{"grounded keeps a jump", -15, true, -15},
		{"rising slows", -4, false, -2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fall(tt.vy, tt.grounded, 2, 10); got != tt.want {
				t.Errorf("Fall(%v, %v) = %v, want %v", tt.vy, tt.grounded, got, tt.want)
			}
		})
	}
}
