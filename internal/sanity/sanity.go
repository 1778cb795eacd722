// Package sanity couples the ambient light under the player to a meter that
// drains in dangerous light and triggers a soft death when empty.
package sanity

import "github.com/sirupsen/logrus"

// State is the coupling's phase.
type State int

const (
	Safe State = iota
	Draining
	FadeOut
	FadeIn
)

func (s State) String() string {
	switch s {
	case Safe:
		return "safe"
	case Draining:
		return "draining"
	case FadeOut:
		return "fade_out"
	case FadeIn:
		return "fade_in"
	default:
		return "unknown"
	}
}

// Event is what a Step asks the caller to do.
type Event int

const (
	None Event = iota
	// SoftDeathStarted: begin fading the player out towards the safe tile.
	SoftDeathStarted
	// Teleport: the fade-out finished; move the player to the safe tile and
	// fade back in.
	Teleport
	// Recovered: the fade-in finished and play resumes.
	Recovered
)

func (e Event) String() string {
	switch e {
	case None:
		return "none"
	case SoftDeathStarted:
		return "soft_death_started"
	case Teleport:
		return "teleport"
	case Recovered:
		return "recovered"
	default:
		return "unknown"
	}
}

// Config tunes the meter.
type Config struct {
	Max           int
	Threshold     int // ambient level at or above which sanity drains
	RegenInterval int
	DrainInterval int
	FadeTicks     int
}

// Tile is a room grid coordinate.
type Tile struct {
	I, J int
}

// Coupling is the sanity meter and its soft-death transition.
type Coupling struct {
	cfg   Config
	log   logrus.FieldLogger
	level int
	state State
	fade  int
	safe  Tile
}

// New returns a full meter whose safe tile is start.
func New(cfg Config, start Tile, log logrus.FieldLogger) *Coupling {
	if cfg.RegenInterval < 1 {
		cfg.RegenInterval = 1
	}
	if cfg.DrainInterval < 1 {
		cfg.DrainInterval = 1
	}
	return &Coupling{
		cfg:   cfg,
		log:   log.WithField("component", "sanity"),
		level: cfg.Max,
		safe:  start,
	}
}

// Level returns the current sanity.
func (c *Coupling) Level() int { return c.level }

// Max returns the meter's capacity.
func (c *Coupling) Max() int { return c.cfg.Max }

// SetLevel sets sanity, clamped to [0, Max].
func (c *Coupling) SetLevel(v int) {
	c.level = max(0, min(v, c.cfg.Max))
}

// State returns the current phase.
func (c *Coupling) State() State { return c.state }

// Transitioning reports whether a soft death is in progress. Player control
// is suspended while it is.
func (c *Coupling) Transitioning() bool {
	return c.state == FadeOut || c.state == FadeIn
}

// SafeTile returns the last tile the player stood on in safe light.
func (c *Coupling) SafeTile() Tile { return c.safe }

// SetSafeTile overrides the safe tile, as when entering a new room.
func (c *Coupling) SetSafeTile(t Tile) { c.safe = t }

// Step advances the meter one tick given the ambient level under the
// player's tile.
func (c *Coupling) Step(tick, ambient int, at Tile) Event {
	switch c.state {
	case FadeOut:
		c.fade++
		if c.fade < c.cfg.FadeTicks {
			return None
		}
		c.state = FadeIn
		c.fade = 0
		c.level = c.cfg.Max
		c.log.WithFields(logrus.Fields{"i": c.safe.I, "j": c.safe.J}).Info("Returning to safe tile")
		return Teleport
	case FadeIn:
		c.fade++
		if c.fade < c.cfg.FadeTicks {
			return None
		}
		c.state = Safe
		c.fade = 0
		return Recovered
	}

	if ambient < c.cfg.Threshold {
		c.state = Safe
		c.safe = at
		if tick%c.cfg.RegenInterval == 0 && c.level < c.cfg.Max {
			c.level++
		}
		return None
	}

	c.state = Draining
	if tick%c.cfg.DrainInterval == 0 && c.level > 0 {
		c.level--
	}
	if c.level > 0 {
		return None
	}
	c.state = FadeOut
	c.fade = 0
	c.log.WithFields(logrus.Fields{"tick": tick, "ambient": ambient}).Warn("Sanity exhausted")
	return SoftDeathStarted
}
