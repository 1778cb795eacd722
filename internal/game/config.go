package game

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/samdwyer/gloam/internal/gamedata"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds game configuration options. Defaults come from the embedded
// config.yaml; GLOAM_* environment variables override a few of them.
type Config struct {
	World         string     `yaml:"world"`
	StartRoom     [2]int     `yaml:"start_room"`
	StartPosition [2]float64 `yaml:"start_position"`

	// Seed for random number generation. Used for reproducible tile variants.
	// A seed of 0 means a random seed will be generated.
	Seed  int64 `yaml:"seed"`
	FPS   int   `yaml:"fps"`
	Debug bool  `yaml:"debug"`

	TileSize     int `yaml:"tile_size"`
	RoomTiles    int `yaml:"room_tiles"`
	VisibleTiles int `yaml:"visible_tiles"`

	Gravity           float64 `yaml:"gravity"`
	MaxFall           float64 `yaml:"max_fall"`
	JumpSpeed         float64 `yaml:"jump_speed"`
	RunSpeed          float64 `yaml:"run_speed"`
	ShootCooldown     int     `yaml:"shoot_cooldown"`
	PlayerBulletSpeed float64 `yaml:"player_bullet_speed"`

	CharacterHP        int     `yaml:"character_hp"`
	MaxHealthIncrement int     `yaml:"max_health_increment"`
	HealAmount         int     `yaml:"heal_amount"`
	FlashTicks         int     `yaml:"flash_ticks"`
	JiggleTicks        int     `yaml:"jiggle_ticks"`
	JiggleMagnitude    float64 `yaml:"jiggle_magnitude"`

	InsanityThreshold   int `yaml:"insanity_threshold"`
	SanityMax           int `yaml:"sanity_max"`
	SanityRegenInterval int `yaml:"sanity_regen_interval"`
	SanityDrainInterval int `yaml:"sanity_drain_interval"`
	FadeTicks           int `yaml:"fade_ticks"`

	LightInterval   int `yaml:"light_interval"`
	MaskCeiling     int `yaml:"mask_ceiling"`
	BeamIntensity   int `yaml:"beam_intensity"`
	BeamFalloff     int `yaml:"beam_falloff"`
	RadialIntensity int `yaml:"radial_intensity"`
	RadialRadius    int `yaml:"radial_radius"`

	CameraLag    float64 `yaml:"camera_lag"`
	PushCooldown int     `yaml:"push_cooldown"`
	KeyHoldTicks int     `yaml:"key_hold_ticks"`
}

// DefaultConfig returns the embedded defaults without environment
// overrides.
func DefaultConfig() (Config, error) {
	var cfg Config
	if err := gamedata.LoadYAML("config.yaml", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig returns the embedded defaults with environment overrides
// applied, validated.
func LoadConfig() (Config, error) {
	cfg, err := DefaultConfig()
	if err != nil {
		return Config{}, err
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v, ok := lookup("GLOAM_SEED"); ok {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("GLOAM_SEED: %w", err)
		}
		c.Seed = seed
	}
	if v, ok := lookup("GLOAM_START_ROOM"); ok {
		x, y, found := strings.Cut(v, ",")
		if !found {
			return fmt.Errorf("GLOAM_START_ROOM: want \"x,y\", got %q", v)
		}
		rx, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return fmt.Errorf("GLOAM_START_ROOM: %w", err)
		}
		ry, err := strconv.Atoi(strings.TrimSpace(y))
		if err != nil {
			return fmt.Errorf("GLOAM_START_ROOM: %w", err)
		}
		c.StartRoom = [2]int{rx, ry}
	}
	if v, ok := lookup("GLOAM_FPS"); ok {
		fps, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("GLOAM_FPS: %w", err)
		}
		c.FPS = fps
	}
	if v, ok := lookup("GLOAM_DEBUG"); ok {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("GLOAM_DEBUG: %w", err)
		}
		c.Debug = debug
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

// Validate checks the values the simulation cannot run without.
func (c *Config) Validate() error {
	checks := []struct {
		ok  bool
		msg string
	}{
		{c.TileSize > 0 && c.TileSize%2 == 0, "tile_size must be a positive even number"},
		{c.RoomTiles > 0, "room_tiles must be positive"},
		{c.VisibleTiles > 0 && c.VisibleTiles <= c.RoomTiles, "visible_tiles must be in [1, room_tiles]"},
		{c.FPS > 0, "fps must be positive"},
		{c.MaxFall > 0, "max_fall must be positive"},
		{c.CharacterHP > 0, "character_hp must be positive"},
		{c.SanityMax > 0, "sanity_max must be positive"},
		{c.SanityRegenInterval > 0 && c.SanityDrainInterval > 0, "sanity intervals must be positive"},
		{c.FadeTicks > 0, "fade_ticks must be positive"},
		{c.LightInterval > 0, "light_interval must be positive"},
		{c.BeamIntensity < 0 && c.RadialIntensity < 0, "light intensities must be negative"},
		{c.BeamFalloff > 0, "beam_falloff must be positive"},
		{c.CameraLag > 0 && c.CameraLag <= 1, "camera_lag must be in (0, 1]"},
		{c.World != "", "world must name an image"},
	}
	for _, chk := range checks {
		if !chk.ok {
			return fmt.Errorf("%w: %s", ErrInvalidConfig, chk.msg)
		}
	}
	return nil
}

// fadeStep is the alpha change per tick that completes a fade in FadeTicks.
func (c *Config) fadeStep() int {
	return (255 + c.FadeTicks - 1) / c.FadeTicks
}
