package combat

import (
	"math"
	"testing"
)

// mockCombatant is a test implementation of the Combatant interface.
type mockCombatant struct {
	Health
	name string
}

func newMockCombatant(name string, hp int) *mockCombatant {
	return &mockCombatant{Health: NewHealth(hp), name: name}
}

func (m *mockCombatant) GetName() string { return m.name }

func TestHealthBounds(t *testing.T) {
	tests := []struct {
		name   string
		start  int
		damage int
		heal   int
		wantHP int
	}{
		{"damage within pool", 5, 2, 0, 3},
		{"damage past zero", 5, 9, 0, 0},
		{"heal capped", 5, 3, 10, 5},
		{"negative damage ignored", 5, -4, 0, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealth(tt.start)
			h.TakeDamage(tt.damage)
			h.Heal(tt.heal)
			if h.HP != tt.wantHP {
				t.Errorf("HP = %d, want %d", h.HP, tt.wantHP)
			}
		})
	}
}

func TestResolveKnockbackOnNonLethalHit(t *testing.T) {
	target := newMockCombatant("bouncer", 5)
	res := Resolve(Hit{Damage: 1, DirX: 3, DirY: 4, Knockback: 10}, target)

	if res.Killed {
		t.Fatal("non-lethal hit reported a kill")
	}
	if res.Damage != 1 || target.GetHP() != 4 {
		t.Errorf("damage = %d, hp = %d; want 1, 4", res.Damage, target.GetHP())
	}
	if math.Abs(res.PushX-6) > 1e-9 || math.Abs(res.PushY-8) > 1e-9 {
		t.Errorf("push = (%v,%v), want (6,8)", res.PushX, res.PushY)
	}
}

func TestResolveLethalHitHasNoKnockback(t *testing.T) {
	target := newMockCombatant("sentry", 1)
	res := Resolve(Hit{Damage: 3, DirX: 1, Knockback: 10}, target)

	if !res.Killed || res.Damage != 1 {
		t.Errorf("Resolve = %+v, want killed with 1 damage", res)
	}
	if res.PushX != 0 || res.PushY != 0 {
		t.Errorf("dead target pushed by (%v,%v)", res.PushX, res.PushY)
	}
}

func TestResolveDeadTargetIsIgnored(t *testing.T) {
	target := newMockCombatant("sweeper", 1)
	target.TakeDamage(1)
	if res := Resolve(Hit{Damage: 2}, target); res != (Result{}) {
		t.Errorf("Resolve on dead target = %+v", res)
	}
}

func TestCollect(t *testing.T) {
	c := newMockCombatant("character", 5)
	c.TakeDamage(3)

	if got := Collect(DropHeal, c, 1, 3); got != 1 || c.GetHP() != 3 {
		t.Errorf("heal drop: got %d, hp %d", got, c.GetHP())
	}
	Collect(DropMaxHealth, c, 1, 3)
	if c.GetMaxHP() != 8 || c.GetHP() != 6 {
		t.Errorf("max health drop: hp %d/%d, want 6/8", c.GetHP(), c.GetMaxHP())
	}
	if got := Collect(DropNone, c, 1, 3); got != 0 {
		t.Errorf("empty drop returned %d", got)
	}
}

func TestDropValid(t *testing.T) {
	for _, d := range []Drop{DropNone, DropHeal, DropMaxHealth} {
		if !d.Valid() {
			t.Errorf("%q should be valid", d)
		}
	}
	if Drop("gold").Valid() {
		t.Error(`"gold" should not be valid`)
	}
}

func TestAim(t *testing.T) {
	x, y := Aim(0, 0, 30, 40)
	if math.Abs(x-0.6) > 1e-9 || math.Abs(y-0.8) > 1e-9 {
		t.Errorf("Aim = (%v,%v), want (0.6,0.8)", x, y)
	}
	if x, y := Aim(5, 5, 5, 5); x != 0 || y != 0 {
		t.Errorf("Aim at self = (%v,%v)", x, y)
	}
}
