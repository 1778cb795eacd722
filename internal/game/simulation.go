package game

import (
	"context"
	"fmt"
	"image"
	"math/rand"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/gloam/internal/entity"
	"github.com/samdwyer/gloam/internal/gamedata"
	"github.com/samdwyer/gloam/internal/input"
	"github.com/samdwyer/gloam/internal/light"
	"github.com/samdwyer/gloam/internal/sanity"
	"github.com/samdwyer/gloam/internal/telemetry"
	"github.com/samdwyer/gloam/internal/ui"
	"github.com/samdwyer/gloam/internal/world"
)

const introText = "Stay near the light. The dark eats at you."

// Simulation owns every piece of game state and advances it one frame at a
// time. It never touches the terminal.
type Simulation struct {
	cfg   Config
	log   logrus.FieldLogger
	rng   *rand.Rand
	reg   *entity.Registry
	world *world.Map
	light *light.Engine
	input input.State

	character *Character
	camera    *Camera
	state     State
	tick      int
	ctx       context.Context
	err       error
}

// Assets are the decoded data a simulation runs on.
type Assets struct {
	World   image.Image
	Palette *gamedata.Palette
	Enemies *gamedata.EnemyBook
}

// LoadAssets decodes the embedded world image, palette and enemy book.
func LoadAssets(cfg Config) (Assets, error) {
	img, err := gamedata.LoadImage(cfg.World)
	if err != nil {
		return Assets{}, err
	}
	palette, err := gamedata.LoadPalette()
	if err != nil {
		return Assets{}, err
	}
	book, err := gamedata.LoadEnemyBook()
	if err != nil {
		return Assets{}, err
	}
	return Assets{World: img, Palette: palette, Enemies: book}, nil
}

// NewSimulation builds the start room, places the character and computes
// the first light field.
func NewSimulation(ctx context.Context, cfg Config, assets Assets, log logrus.FieldLogger) (*Simulation, error) {
	ctx, span := telemetry.Tracer("game").Start(ctx, "game.init")
	defer span.End()

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s := &Simulation{
		cfg: cfg,
		log: log,
		rng: rand.New(rand.NewSource(seed)),
		reg: entity.NewRegistry(),
		ctx: ctx,
	}

	ts := float64(cfg.TileSize)
	s.world = world.NewMap(world.Config{TileSize: cfg.TileSize, RoomTiles: cfg.RoomTiles},
		assets.World, assets.Palette, &spawner{cfg: &s.cfg, book: assets.Enemies}, s.rng, log)
	s.reg.Add(s.world)

	s.light = light.NewEngine(light.Config{Interval: cfg.LightInterval, Ceiling: cfg.MaskCeiling}, log)
	s.reg.Add(newLightMask(s.light, ts))

	start := world.RoomCoord{X: cfg.StartRoom[0], Y: cfg.StartRoom[1]}
	if _, err := s.world.LoadRoom(ctx, s.reg, start); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("load start room: %w", err)
	}

	sx, sy := cfg.StartPosition[0], cfg.StartPosition[1]
	si, sj := s.world.CellOf(sx+ts/2, sy+ts/2)
	meter := sanity.New(sanity.Config{
		Max:           cfg.SanityMax,
		Threshold:     cfg.InsanityThreshold,
		RegenInterval: cfg.SanityRegenInterval,
		DrainInterval: cfg.SanityDrainInterval,
		FadeTicks:     cfg.FadeTicks,
	}, sanity.Tile{I: si, J: sj}, log)
	s.character = newCharacter(sx, sy, ts, cfg.CharacterHP, meter)
	s.reg.Add(s.character)
	s.reg.Add(newHUDBar(s.character, s.character, "HP  ", 0, '♥', tcell.ColorRed))
	s.reg.Add(newHUDBar(s.character, sanityMeter{s.character}, "SAN ", ts, '■', tcell.ColorPurple))
	s.reg.Add(newMessage(introText, float64(cfg.VisibleTiles-1)*ts))

	view := float64(cfg.VisibleTiles) * ts
	s.camera = NewCamera(cfg.CameraLag, view, s.world.PixelSize())
	cx, cy := s.character.Center()
	s.camera.Follow(cx, cy)

	s.light.Recalculate(ctx, s.reg, s.world)

	span.SetAttributes(
		attribute.Int64("seed", seed),
		attribute.String("room", start.String()),
		attribute.Float64("character.x", sx),
		attribute.Float64("character.y", sy),
	)
	log.WithFields(logrus.Fields{"seed": seed, "room": start.String()}).Info("Simulation ready")
	return s, nil
}

// Input returns the input state the driver feeds.
func (s *Simulation) Input() *input.State { return &s.input }

// Registry returns the entity registry.
func (s *Simulation) Registry() *entity.Registry { return s.reg }

// Map returns the room map.
func (s *Simulation) Map() *world.Map { return s.world }

// Light returns the illumination engine.
func (s *Simulation) Light() *light.Engine { return s.light }

// Character returns the player.
func (s *Simulation) Character() *Character { return s.character }

// Camera returns the camera.
func (s *Simulation) Camera() *Camera { return s.camera }

// State returns the game state.
func (s *Simulation) State() State { return s.state }

// Tick returns the number of completed frames.
func (s *Simulation) Tick() int { return s.tick }

// Step runs one frame: every updateable entity in depth order, then the
// light engine, the camera and end-of-frame bookkeeping. A room that fails
// to decode is returned as an error.
func (s *Simulation) Step() error {
	s.tick++
	ctx := s.newContext()

	if s.state == StatePlaying {
		updatables := s.reg.Get(entity.TagUpdateable)
		entity.SortByDepth(updatables)
		for _, e := range updatables {
			if !s.reg.Alive(e) {
				continue
			}
			if u, ok := e.(Updater); ok {
				u.Update(ctx)
			}
			if s.err != nil {
				break
			}
		}
	} else {
		s.character.Effects.Tick(s.rng)
	}

	if s.err == nil {
		s.light.Tick(s.ctx, s.tick, s.reg, s.world)
	}
	s.follow()
	s.reg.Compact()
	s.input.EndFrame()

	err := s.err
	s.err = nil
	return err
}

func (s *Simulation) newContext() *Context {
	return &Context{
		Ctx:    s.ctx,
		Tick:   s.tick,
		Input:  &s.input,
		Rng:    s.rng,
		Reg:    s.reg,
		Map:    s.world,
		Light:  s.light,
		Config: &s.cfg,
		Log:    s.log,
		sim:    s,
	}
}

func (s *Simulation) follow() {
	ch := s.character
	if ch.Effects.ZoomActive {
		s.camera.Follow(ch.Effects.ZoomX, ch.Effects.ZoomY)
		return
	}
	s.camera.Follow(ch.Center())
}

// changeRoom loads the neighbouring room and carries the character across
// to the opposite edge. Lighting is recalculated before anything reads it.
func (s *Simulation) changeRoom(dx, dy int) error {
	next := s.world.Current().Add(dx, dy)
	if _, err := s.world.LoadRoom(s.ctx, s.reg, next); err != nil {
		s.err = err
		return err
	}

	size := s.world.PixelSize()
	ch := s.character
	ch.SetPosition(ch.X-float64(dx)*size, ch.Y-float64(dy)*size)
	i, j := s.world.CellOf(ch.Center())
	ch.Sanity.SetSafeTile(sanity.Tile{I: i, J: j})

	s.light.Restart(s.reg)
	s.light.Recalculate(s.ctx, s.reg, s.world)
	s.camera.Snap()
	return nil
}

// Layers returns every visible renderable in depth order.
func (s *Simulation) Layers() []ui.Layer {
	items := s.reg.Get(entity.TagRenderable, entity.Visible)
	entity.SortByDepth(items)
	layers := make([]ui.Layer, 0, len(items))
	for _, e := range items {
		r, ok := e.(ui.Renderable)
		if !ok {
			continue
		}
		layers = append(layers, ui.Layer{Item: r, Relative: e.Core().Is(entity.TagRelative)})
	}
	return layers
}

// Status returns the lines shown under the view.
func (s *Simulation) Status() []string {
	lines := []string{fmt.Sprintf("room %s  tick %d  %s", s.world.Current(), s.tick, s.state)}
	if s.state == StateDead {
		lines = append(lines, "You died. Press q to quit.")
	}
	if s.cfg.Debug {
		i, j := s.world.CellOf(s.character.Center())
		lines = append(lines, fmt.Sprintf("tile (%d,%d) light %d sanity %d/%d %s entities %d",
			i, j, s.light.LightAt(i, j), s.character.Sanity.Level(), s.character.Sanity.Max(),
			s.character.Sanity.State(), s.reg.Len()))
	}
	return lines
}
