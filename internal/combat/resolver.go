// Package combat resolves damage, knockback and pickups between the player,
// enemies and projectiles.
package combat

import "math"

// Combatant is the interface for anything that can be hurt or healed.
// Both the character and enemies implement it.
type Combatant interface {
	GetName() string
	IsAlive() bool

	GetHP() int
	GetMaxHP() int

	TakeDamage(amount int) int // Returns actual damage taken
	Heal(amount int) int       // Returns actual amount healed
	RaiseMaxHP(amount int)     // Grows the cap and fills the new capacity
}

// Health is an embeddable hit-point pool implementing the stat half of
// Combatant.
type Health struct {
	HP    int
	MaxHP int
}

// NewHealth returns a full pool.
func NewHealth(max int) Health {
	return Health{HP: max, MaxHP: max}
}

func (h *Health) IsAlive() bool { return h.HP > 0 }
func (h *Health) GetHP() int    { return h.HP }
func (h *Health) GetMaxHP() int { return h.MaxHP }

// TakeDamage lowers HP, never below zero.
func (h *Health) TakeDamage(amount int) int {
	if amount <= 0 {
		return 0
	}
	actual := min(amount, h.HP)
	h.HP -= actual
	return actual
}

// Heal raises HP, never above MaxHP.
func (h *Health) Heal(amount int) int {
	if amount <= 0 {
		return 0
	}
	actual := min(amount, h.MaxHP-h.HP)
	h.HP += actual
	return actual
}

// RaiseMaxHP grows the cap by amount and heals by the same amount.
func (h *Health) RaiseMaxHP(amount int) {
	if amount <= 0 {
		return
	}
	h.MaxHP += amount
	h.HP += amount
}

// Hit describes one blow.
type Hit struct {
	Damage int
	// DirX, DirY is the direction the blow travels. It need not be
	// normalized.
	DirX, DirY float64
	// Knockback is how far a survivor is shoved along the hit direction, in
	// pixels. Zero means no knockback.
	Knockback float64
}

// Result is the outcome of a resolved hit.
type Result struct {
	Damage int
	Killed bool
	// PushX, PushY is the knockback displacement to apply to a survivor.
	PushX, PushY float64
}

// Resolve applies hit to target. A dead target takes no further damage.
func Resolve(hit Hit, target Combatant) Result {
	if !target.IsAlive() {
		return Result{}
	}
	res := Result{Damage: target.TakeDamage(hit.Damage)}
	if !target.IsAlive() {
		res.Killed = true
		return res
	}
	if hit.Knockback > 0 {
		if l := math.Hypot(hit.DirX, hit.DirY); l > 0 {
			res.PushX = hit.DirX / l * hit.Knockback
			res.PushY = hit.DirY / l * hit.Knockback
		}
	}
	return res
}

// Drop is what a dead enemy leaves behind.
type Drop string

const (
	DropNone      Drop = ""
	DropHeal      Drop = "heal"
	DropMaxHealth Drop = "max_health"
)

// Valid reports whether d is a known drop.
func (d Drop) Valid() bool {
	switch d {
	case DropNone, DropHeal, DropMaxHealth:
		return true
	default:
		return false
	}
}

// Collect applies a drop to whoever picked it up. heal is the amount a heal
// restores; increment is how much a max-health drop raises the cap.
func Collect(d Drop, target Combatant, heal, increment int) int {
	switch d {
	case DropHeal:
		return target.Heal(heal)
	case DropMaxHealth:
		target.RaiseMaxHP(increment)
		return increment
	default:
		return 0
	}
}

// Aim returns the unit vector from (fx, fy) towards (tx, ty), or (0, 0) when
// the points coincide.
func Aim(fx, fy, tx, ty float64) (float64, float64) {
	dx, dy := tx-fx, ty-fy
	l := math.Hypot(dx, dy)
	if l == 0 {
		return 0, 0
	}
	return dx / l, dy / l
}
