package game

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/samdwyer/gloam/internal/input"
	"github.com/samdwyer/gloam/internal/ui"
)

// Game drives a Simulation from the terminal at a fixed frame rate.
type Game struct {
	screen   *ui.Screen
	renderer *ui.Renderer
	keys     *ui.KeyMap
	sim      *Simulation
	log      logrus.FieldLogger
	fps      int
	running  bool
}

// New creates a new game instance on a fresh terminal screen.
func New(ctx context.Context, cfg Config, log logrus.FieldLogger) (*Game, error) {
	assets, err := LoadAssets(cfg)
	if err != nil {
		return nil, err
	}
	sim, err := NewSimulation(ctx, cfg, assets, log)
	if err != nil {
		return nil, err
	}

	screen, err := ui.NewScreen()
	if err != nil {
		return nil, err
	}

	cols, rows := cfg.VisibleTiles*2, cfg.VisibleTiles
	return &Game{
		screen:   screen,
		renderer: ui.NewRenderer(screen, cols, rows, float64(cfg.TileSize)),
		keys:     ui.NewKeyMap(cfg.KeyHoldTicks),
		sim:      sim,
		log:      log,
		fps:      cfg.FPS,
		running:  true,
	}, nil
}

// Run executes the main game loop until the player quits or the context is
// cancelled.
func (g *Game) Run(ctx context.Context) error {
	defer g.screen.Close()

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(g.fps))
	defer ticker.Stop()

	for g.running {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			g.handleEvent(ev)
		case <-ticker.C:
			if err := g.frame(); err != nil {
				return err
			}
		}
	}
	return nil
}

// frame advances the simulation one step and draws it.
func (g *Game) frame() error {
	g.keys.Expire(g.sim.Tick()+1, g.sim.Input())
	if err := g.sim.Step(); err != nil {
		g.log.WithError(err).Error("Simulation step failed")
		return err
	}
	cam := g.sim.Camera()
	g.renderer.Compose(g.sim.Layers(), cam.X, cam.Y)
	g.renderer.Present(g.sim.Status()...)
	return nil
}

// handleEvent processes a single terminal event.
func (g *Game) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		a, ok := g.keys.Handle(ev, g.sim.Tick()+1, g.sim.Input())
		if ok && a == input.Quit {
			g.running = false
		}
	case *tcell.EventResize:
		g.screen.Sync()
		if !g.renderer.Fits(len(g.sim.Status())) {
			w, h := g.screen.Size()
			g.log.WithFields(logrus.Fields{"width": w, "height": h}).Warn("Terminal too small for the viewport")
		}
	}
}
