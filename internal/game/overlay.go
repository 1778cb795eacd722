package game

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/gloam/internal/entity"
	"github.com/samdwyer/gloam/internal/input"
	"github.com/samdwyer/gloam/internal/light"
	"github.com/samdwyer/gloam/internal/physics"
	"github.com/samdwyer/gloam/internal/ui"
)

// Meter is anything a bar can read.
type Meter interface {
	GetHP() int
	GetMaxHP() int
}

type barPlacement int

const (
	barAbove barPlacement = iota // over the owner, in world space
	barHUD                       // fixed on screen
)

// Bar draws an owner's meter. It reads the value every frame and holds no
// copy of it; the owner removes the bar when it goes away.
type Bar struct {
	entity.Base
	owner     entity.Entity
	meter     Meter
	placement barPlacement
	label     string
	y         float64 // HUD position in pixels
	full      rune
	empty     rune
	fg        tcell.Color
}

func newBar(owner entity.Entity, meter Meter, placement barPlacement) *Bar {
	tags := entity.TagRenderable | entity.TagHealthBar
	if placement == barAbove {
		tags |= entity.TagRelative | entity.TagMapElement
	}
	return &Bar{
		Base:      entity.NewBase(entity.KindBar, 0, 0, 0, tags),
		owner:     owner,
		meter:     meter,
		placement: placement,
		full:      '•',
		empty:     '·',
		fg:        tcell.ColorRed,
	}
}

// newHUDBar pins a labelled bar to a screen position.
func newHUDBar(owner entity.Entity, meter Meter, label string, y float64, full rune, fg tcell.Color) *Bar {
	b := newBar(owner, meter, barHUD)
	b.label = label
	b.y = y
	b.full = full
	b.fg = fg
	return b
}

// Depth implements entity.Entity.
func (b *Bar) Depth() int { return barDepth }

// Text returns the bar as drawn.
func (b *Bar) Text() string {
	cur, maxv := b.meter.GetHP(), b.meter.GetMaxHP()
	cur = max(0, min(cur, maxv))
	return b.label + strings.Repeat(string(b.full), cur) + strings.Repeat(string(b.empty), maxv-cur)
}

// Render implements ui.Renderable.
func (b *Bar) Render(cv ui.Canvas, dx, dy float64) {
	if b.placement == barHUD {
		cv.Text(0, b.y, b.Text(), b.fg)
		return
	}
	o := b.owner.Core()
	if !o.Visible || b.meter.GetHP() >= b.meter.GetMaxHP() {
		return
	}
	cv.Text(o.X+dx, o.Y+dy-o.Size/2, b.Text(), b.fg)
}

// sanityMeter adapts the character's sanity to Meter.
type sanityMeter struct{ ch *Character }

func (m sanityMeter) GetHP() int    { return m.ch.Sanity.Level() }
func (m sanityMeter) GetMaxHP() int { return m.ch.Sanity.Max() }

// messageRate is the number of ticks per revealed character.
const messageRate = 3

// Message is a typewriter text box. Confirm reveals the rest of the text,
// or dismisses it once fully shown.
type Message struct {
	entity.Base
	text  []rune
	shown int
	y     float64
	start int
}

func newMessage(text string, y float64) *Message {
	runes := []rune(text)
	return &Message{
		Base: entity.NewBase(entity.KindText, 0, 0, 0,
			entity.TagRenderable|entity.TagUpdateable|entity.TagText),
		text:  runes,
		shown: min(1, len(runes)),
		y:     y,
		start: -1,
	}
}

// Depth implements entity.Entity.
func (m *Message) Depth() int { return messageDepth }

// Shown returns the revealed part of the text.
func (m *Message) Shown() string { return string(m.text[:m.shown]) }

// Done reports whether the whole text is revealed.
func (m *Message) Done() bool { return m.shown >= len(m.text) }

// Update implements Updater.
func (m *Message) Update(ctx *Context) {
	if m.start < 0 {
		m.start = ctx.Tick
		ctx.Input.Invalidate(input.Confirm)
	}
	if ctx.Input.JustReleased(input.Confirm) {
		if m.Done() {
			ctx.Reg.Remove(m)
			return
		}
		m.shown = len(m.text)
		return
	}
	if !m.Done() && (ctx.Tick-m.start)%messageRate == 0 && ctx.Tick != m.start {
		m.shown++
	}
}

// Render implements ui.Renderable.
func (m *Message) Render(cv ui.Canvas, _, _ float64) {
	cv.Text(0, m.y, m.Shown(), tcell.ColorWhite)
}

// LightMask draws the engine's soft mask over the room.
type LightMask struct {
	entity.Base
	engine *light.Engine
	tile   float64
}

func newLightMask(engine *light.Engine, tile float64) *LightMask {
	return &LightMask{
		Base: entity.NewBase(entity.KindLightMask, 0, 0, 0,
			entity.TagRenderable|entity.TagRelative|entity.TagLightMask),
		engine: engine,
		tile:   tile,
	}
}

// Depth implements entity.Entity.
func (l *LightMask) Depth() int { return maskDepth }

// Render implements ui.Renderable.
func (l *LightMask) Render(cv ui.Canvas, dx, dy float64) {
	m := l.engine.Mask()
	if m == nil {
		return
	}
	step := l.tile / light.Scale
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			cv.Shade(physics.Rect{X: float64(x)*step + dx, Y: float64(y)*step + dy, W: step, H: step}, m.At(x, y))
		}
	}
}
