package entity

import "math/rand"

// Frame is one step of an animation.
type Frame struct {
	Glyph rune
	Ticks int
}

// Effects holds transient visual state. None of it feeds back into the
// simulation; it only changes how an entity is drawn.
type Effects struct {
	JiggleMag  float64
	JiggleLeft int
	JiggleDX   float64
	JiggleDY   float64

	FlashLeft int

	FadeDir   int // -1 fading out, +1 fading in, 0 idle
	FadeAlpha int // 255 opaque, 0 invisible
	FadeStep  int

	ZoomActive bool
	ZoomX      float64
	ZoomY      float64

	frames  []Frame
	frameAt int
}

// Jiggle shakes the entity for ticks ticks by up to mag pixels.
func (fx *Effects) Jiggle(mag float64, ticks int) {
	fx.JiggleMag = mag
	fx.JiggleLeft = ticks
}

// Jiggling reports whether a jiggle is in progress.
func (fx *Effects) Jiggling() bool { return fx.JiggleLeft > 0 }

// Flash starts a flash lasting ticks ticks. Re-triggering restarts it.
func (fx *Effects) Flash(ticks int) { fx.FlashLeft = ticks }

// Flashing reports whether a flash is in progress.
func (fx *Effects) Flashing() bool { return fx.FlashLeft > 0 }

// FlashVisible reports whether a flashing entity is drawn this tick.
func (fx *Effects) FlashVisible() bool {
	return fx.FlashLeft == 0 || (fx.FlashLeft/3)%2 == 0
}

// FadeOut starts fading to transparent by step alpha per tick.
func (fx *Effects) FadeOut(step int) {
	fx.FadeDir = -1
	fx.FadeStep = step
}

// FadeIn starts fading to opaque by step alpha per tick.
func (fx *Effects) FadeIn(step int) {
	fx.FadeDir = 1
	fx.FadeStep = step
}

// Fading reports whether a fade is in progress.
func (fx *Effects) Fading() bool { return fx.FadeDir != 0 }

// Alpha returns the current opacity.
func (fx *Effects) Alpha() int { return fx.FadeAlpha }

// ZoomTo points the zoom-to-target effect at (x, y).
func (fx *Effects) ZoomTo(x, y float64) {
	fx.ZoomActive = true
	fx.ZoomX = x
	fx.ZoomY = y
}

// StopZoom ends the zoom effect.
func (fx *Effects) StopZoom() { fx.ZoomActive = false }

// Play queues animation frames after any already queued.
func (fx *Effects) Play(frames ...Frame) {
	fx.frames = append(fx.frames, frames...)
}

// Frame returns the animation frame currently showing.
func (fx *Effects) Frame() (Frame, bool) {
	if len(fx.frames) == 0 {
		return Frame{}, false
	}
	return fx.frames[0], true
}

// Animating reports whether queued frames remain.
func (fx *Effects) Animating() bool { return len(fx.frames) > 0 }

// Tick advances every effect by one step.
func (fx *Effects) Tick(rng *rand.Rand) {
	if fx.JiggleLeft > 0 {
		fx.JiggleLeft--
		if fx.JiggleLeft == 0 || fx.JiggleMag <= 0 {
			fx.JiggleDX, fx.JiggleDY = 0, 0
		} else {
			fx.JiggleDX = (rng.Float64()*2 - 1) * fx.JiggleMag
			fx.JiggleDY = (rng.Float64()*2 - 1) * fx.JiggleMag
		}
	}

	if fx.FlashLeft > 0 {
		fx.FlashLeft--
	}

	if fx.FadeDir != 0 {
		fx.FadeAlpha += fx.FadeDir * fx.FadeStep
		if fx.FadeAlpha <= 0 {
			fx.FadeAlpha = 0
			fx.FadeDir = 0
		} else if fx.FadeAlpha >= 255 {
			fx.FadeAlpha = 255
			fx.FadeDir = 0
		}
	}

	if len(fx.frames) > 0 {
		fx.frameAt++
		if fx.frameAt >= fx.frames[0].Ticks {
			fx.frames = fx.frames[1:]
			fx.frameAt = 0
		}
	}
}
