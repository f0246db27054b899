package models

// Dot is a damage-over-time entry. It ticks once per turn boundary of its
// owner and is dropped after the tick that brings Turns to zero.
type Dot struct {
	Source string `yaml:"source"`
	Damage int    `yaml:"damage"`
	Turns  int    `yaml:"turns"`
}

// Debuff is a timed flat reduction of attack or defense.
type Debuff struct {
	Source    string     `yaml:"source"`
	Kind      DebuffKind `yaml:"kind"`
	Magnitude int        `yaml:"magnitude"`
	Turns     int        `yaml:"turns"`
}

// CounterStrike is an armed reflect window.
type CounterStrike struct {
	Active     bool    `yaml:"active"`
	Multiplier float64 `yaml:"multiplier"`
	Turns      int     `yaml:"turns"`
}

// Stance is the opponent's defensive stance.
type Stance struct {
	Turns     int     `yaml:"turns"`
	Reduction float64 `yaml:"reduction"`
}

// Active reports whether the stance still reduces incoming damage.
func (s Stance) Active() bool { return s.Turns > 0 && s.Reduction > 0 }

// Charge holds one-shot flags armed by the opponent's charge action.
type Charge struct {
	DoubleNext bool `yaml:"double_next"`
	BonusDot   *Dot `yaml:"bonus_dot,omitempty"`
}

// StackCounters are the unlock and detonation counters. The player side uses
// the critical/extreme fields; the opponent carries the received stacks.
type StackCounters struct {
	YangCritical    int  `yaml:"yang_critical"`
	YinCritical     int  `yaml:"yin_critical"`
	ExtremeYang     int  `yaml:"extreme_yang"`
	ExtremeYin      int  `yaml:"extreme_yin"`
	YangUnlocked    bool `yaml:"yang_unlocked"`
	YinUnlocked     bool `yaml:"yin_unlocked"`
	YangPenetration int  `yaml:"yang_penetration"`
	YinCover        int  `yaml:"yin_cover"`
}

// Combatant is one side of the battle.
type Combatant struct {
	Side      Side   `yaml:"side"`
	Name      string `yaml:"name"`
	Health    int    `yaml:"health"`
	MaxHealth int    `yaml:"max_health"`

	// BaseAttack and BaseDefense are the opponent's standing stats. The player
	// recomputes Attack and Defense from its allocation every turn.
	BaseAttack  int `yaml:"base_attack"`
	BaseDefense int `yaml:"base_defense"`
	Attack      int `yaml:"attack"`
	Defense     int `yaml:"defense"`

	Counter               CounterStrike `yaml:"counter_strike"`
	NextTurnAttackDebuff  bool          `yaml:"next_turn_attack_debuff"`
	NextTurnDefenseDebuff bool          `yaml:"next_turn_defense_debuff"`

	Dots    []Dot         `yaml:"dots,omitempty"`
	Debuffs []Debuff      `yaml:"debuffs,omitempty"`
	Stacks  StackCounters `yaml:"stacks"`
	Stance  Stance        `yaml:"stance"`
	Charge  Charge        `yaml:"charge"`
}

// NewCombatant creates a combatant at full health.
func NewCombatant(side Side, name string, maxHealth, attack, defense int) *Combatant {
	return &Combatant{
		Side:        side,
		Name:        name,
		Health:      maxHealth,
		MaxHealth:   maxHealth,
		BaseAttack:  attack,
		BaseDefense: defense,
		Attack:      attack,
		Defense:     defense,
	}
}

// IsDead reports whether health reached zero.
func (c *Combatant) IsDead() bool {
	return c.Health <= 0
}

// SetHealth sets health clamped to [0, MaxHealth].
func (c *Combatant) SetHealth(hp int) {
	switch {
	case hp < 0:
		hp = 0
	case hp > c.MaxHealth:
		hp = c.MaxHealth
	}
	c.Health = hp
}

// TakeDamage lowers health and returns the amount actually removed.
func (c *Combatant) TakeDamage(amount int) int {
	if amount <= 0 {
		return 0
	}
	before := c.Health
	c.SetHealth(c.Health - amount)
	return before - c.Health
}

// Heal raises health and returns the amount actually restored.
func (c *Combatant) Heal(amount int) int {
	if amount <= 0 {
		return 0
	}
	before := c.Health
	c.SetHealth(c.Health + amount)
	return c.Health - before
}

// Clone returns a deep copy.
func (c *Combatant) Clone() Combatant {
	out := *c
	out.Dots = append([]Dot(nil), c.Dots...)
	out.Debuffs = append([]Debuff(nil), c.Debuffs...)
	if c.Charge.BonusDot != nil {
		dot := *c.Charge.BonusDot
		out.Charge.BonusDot = &dot
	}
	return out
}

// Allocation is the player's split of the qi pool for one turn.
type Allocation struct {
	Yang float64 `yaml:"yang"`
	Yin  float64 `yaml:"yin"`
}

// Diff is yang - yin.
func (a Allocation) Diff() float64 { return a.Yang - a.Yin }

// Spent is yang + yin.
func (a Allocation) Spent() float64 { return a.Yang + a.Yin }

// History is what the opponent remembers of the battle so far.
type History struct {
	HitsTaken   int    `yaml:"hits_taken"`
	DamageTaken []int  `yaml:"damage_taken,omitempty"`
	LastAction  Action `yaml:"last_action"`
}

// maxRecentDamage bounds History.DamageTaken.
const maxRecentDamage = 5

// RecordHit appends a damaging hit to the history.
func (h *History) RecordHit(amount int) {
	if amount <= 0 {
		return
	}
	h.HitsTaken++
	h.DamageTaken = append(h.DamageTaken, amount)
	if len(h.DamageTaken) > maxRecentDamage {
		h.DamageTaken = append([]int(nil), h.DamageTaken[len(h.DamageTaken)-maxRecentDamage:]...)
	}
}

// Clone returns a deep copy.
func (h History) Clone() History {
	h.DamageTaken = append([]int(nil), h.DamageTaken...)
	return h
}

// Snapshot is the full queryable state of a battle. Restoring a snapshot and
// replaying the same allocations reproduces the same battle.
type Snapshot struct {
	Variant      string       `yaml:"variant"`
	Round        int          `yaml:"round"`
	Phase        Phase        `yaml:"phase"`
	MaxPoints    float64      `yaml:"max_points"`
	Player       Combatant    `yaml:"player"`
	Enemy        Combatant    `yaml:"enemy"`
	HealCooldown int          `yaml:"heal_cooldown"`
	UltimateUsed bool         `yaml:"ultimate_used"`
	History      History      `yaml:"history"`
	Intent       Action       `yaml:"intent"`
	Winner       Side         `yaml:"winner"`
	HealthBonus  int          `yaml:"health_bonus,omitempty"`
	LastLog      string       `yaml:"last_log,omitempty"`
	Log          []string     `yaml:"log,omitempty"`
	Allocations  []Allocation `yaml:"allocations,omitempty"`
}

// Terminal reports whether the battle has ended.
func (s Snapshot) Terminal() bool { return s.Phase == PhaseBattleEnd }
