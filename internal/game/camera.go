package game

// Camera is the top-left corner of the visible part of the room. It eases
// towards its target by a lag factor each frame.
type Camera struct {
	X, Y float64

	lag   float64
	view  float64 // visible edge in pixels
	room  float64 // room edge in pixels
	snap  bool
	ready bool
}

// NewCamera creates a camera that jumps to its first target.
func NewCamera(lag, view, room float64) *Camera {
	return &Camera{lag: lag, view: view, room: room, snap: true}
}

// Snap makes the next Follow move all the way to the target, as after a
// room transition.
func (c *Camera) Snap() { c.snap = true }

// Follow centres the camera on (tx, ty), clamped so the view stays inside
// the room.
func (c *Camera) Follow(tx, ty float64) {
	gx, gy := c.clamp(tx-c.view/2), c.clamp(ty-c.view/2)
	f := c.lag
	if c.snap || !c.ready {
		f = 1
		c.snap = false
		c.ready = true
	}
	c.X += (gx - c.X) * f
	c.Y += (gy - c.Y) * f
}

func (c *Camera) clamp(v float64) float64 {
	return max(0, min(v, c.room-c.view))
}
