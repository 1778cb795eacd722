package physics

// SolidFunc reports whether a box overlaps anything impassable.
type SolidFunc func(r Rect) bool

// SolidPointFunc reports whether a point lies inside anything impassable.
type SolidPointFunc func(x, y float64) bool

// Result reports which axes were stopped by a wall during Move.
type Result struct {
	HitX bool
	HitY bool
}

// maxRetreat bounds the per-axis retreat loop so a box spawned deep inside
// solid geometry cannot hang the frame.
const maxRetreat = 4096

// Move applies dx then dy to r, resolving each axis on its own: after the
// step, r retreats one pixel at a time against the sign of the delta until it
// no longer overlaps a wall. A zero delta uses a retreat step of -1, which
// pushes the box toward positive coordinates.
// Diagonal motion therefore slides along wall faces instead of snagging on
// corners.
func Move(r Rect, dx, dy float64, solid SolidFunc) (Rect, Result) {
	var res Result

	r.X += dx
	step := retreatStep(dx)
	for i := 0; solid(r) && i < maxRetreat; i++ {
		r.X -= step
		res.HitX = true
	}

	r.Y += dy
	step = retreatStep(dy)
	for i := 0; solid(r) && i < maxRetreat; i++ {
		r.Y -= step
		res.HitY = true
	}

	return r, res
}

func retreatStep(d float64) float64 {
	switch {
	case d > 0:
		return 1
	default:
		return -1
	}
}

// Grounded samples a strip of points one pixel below the bottom edge of r,
// inset two pixels from each side, and reports whether any is solid.
func Grounded(r Rect, solidAt SolidPointFunc) bool {
	y := r.Bottom() + 1
	for x := r.X + 2; x < r.Right()-2; x++ {
		if solidAt(x, y) {
			return true
		}
	}
	return false
}

// Fall integrates gravity into a downward velocity. A grounded body has no
// vertical velocity left to integrate and stays at zero unless it is moving
// up (jumping). Fall speed never exceeds maxFall.
func Fall(vy float64, grounded bool, gravity, maxFall float64) float64 {
	if grounded {
		if vy > 0 {
			return 0
		}
		return vy
	}
	vy += gravity
	if vy > maxFall {
		vy = maxFall
	}
	return vy
}

// Sign returns -1, 0 or 1.
func Sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
