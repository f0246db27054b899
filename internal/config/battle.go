package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tatianab/qi-duel/internal/models"
	"github.com/tatianab/qi-duel/internal/polarity"
)

// Opponent variant names.
const (
	VariantDefault    = "default"
	VariantAggressive = "aggressive"
	VariantDefensive  = "defensive"
)

// Variants lists the known opponent variants.
var Variants = []string{VariantDefault, VariantAggressive, VariantDefensive}

// Battle is the immutable rule set of one battle.
type Battle struct {
	Player      Combatant   `yaml:"player"`
	Enemy       Combatant   `yaml:"enemy"`
	Pool        Pool        `yaml:"pool"`
	Multipliers Multipliers `yaml:"multipliers"`
	Effects     Effects     `yaml:"effects"`
	Opponent    Opponent    `yaml:"opponent"`
}

// Combatant holds the starting stats of one side. Health 0 means MaxHealth.
type Combatant struct {
	Name      string `yaml:"name"`
	MaxHealth int    `yaml:"max_health"`
	Health    int    `yaml:"health"`
	Attack    int    `yaml:"attack"`
	Defense   int    `yaml:"defense"`
}

// Pool sizes the qi points the player splits each turn.
type Pool struct {
	Base float64 `yaml:"base"`
	Cap  float64 `yaml:"cap"`
	// RetainUnused banks half of the unspent points into the pool at turn end.
	RetainUnused bool `yaml:"retain_unused"`
}

// Multipliers is the per-state attack/defense table.
type Multipliers struct {
	Balance        polarity.Multiplier `yaml:"balance"`
	CriticalYang   polarity.Multiplier `yaml:"critical_yang"`
	CriticalYin    polarity.Multiplier `yaml:"critical_yin"`
	YangProsperity polarity.Multiplier `yaml:"yang_prosperity"`
	YinProsperity  polarity.Multiplier `yaml:"yin_prosperity"`
	ExtremeYang    polarity.Multiplier `yaml:"extreme_yang"`
	ExtremeYin     polarity.Multiplier `yaml:"extreme_yin"`
	UltimateQi     polarity.Multiplier `yaml:"ultimate_qi"`
}

// Table converts the multipliers into a lookup table.
func (m Multipliers) Table() polarity.Table {
	return polarity.Table{
		polarity.Balance:        m.Balance,
		polarity.CriticalYang:   m.CriticalYang,
		polarity.CriticalYin:    m.CriticalYin,
		polarity.YangProsperity: m.YangProsperity,
		polarity.YinProsperity:  m.YinProsperity,
		polarity.ExtremeYang:    m.ExtremeYang,
		polarity.ExtremeYin:     m.ExtremeYin,
		polarity.UltimateQi:     m.UltimateQi,
	}
}

// Penetration and cover detonation modes.
const (
	PenetrationPerYang = "yang"
	PenetrationFlat    = "flat"
	CoverDefenseDown   = "defense_down"
	CoverAttackDown    = "attack_down"
)

// Effects holds every magnitude and duration of the secondary effects.
type Effects struct {
	BalanceHeal     int `yaml:"balance_heal"`
	BalanceCooldown int `yaml:"balance_cooldown"`

	ProsperityDotDivisor float64 `yaml:"prosperity_dot_divisor"`
	ProsperityDotTurns   int     `yaml:"prosperity_dot_turns"`

	CounterMultiplier        float64    `yaml:"counter_multiplier"`
	CounterTurns             int        `yaml:"counter_turns"`
	ExtremeCounterMultiplier float64    `yaml:"extreme_counter_multiplier"`
	ReflectFormula           string     `yaml:"reflect_formula"`
	CounterFailDot           models.Dot `yaml:"counter_fail_dot"`

	UnlockThreshold int `yaml:"unlock_threshold"`
	StackCap        int `yaml:"stack_cap"`

	// PenetrationMode "yang" detonates for stacks*yang, "flat" for
	// stacks*PenetrationBonus.
	PenetrationMode  string `yaml:"penetration_mode"`
	PenetrationBonus int    `yaml:"penetration_bonus"`

	// CoverMode selects the debuff Extreme Yin leaves on the opponent.
	CoverMode     string `yaml:"cover_mode"`
	CoverPerStack int    `yaml:"cover_per_stack"`
	CoverTurns    int    `yaml:"cover_turns"`

	UltimateHealth            int     `yaml:"ultimate_health"`
	UltimateDefenseFactor     float64 `yaml:"ultimate_defense_factor"`
	UltimateDefenseFloor      int     `yaml:"ultimate_defense_floor"`
	UltimateCounterTurns      int     `yaml:"ultimate_counter_turns"`
	UltimateCounterMultiplier float64 `yaml:"ultimate_counter_multiplier"`
}

// Opponent selects the variant and holds each variant's cadence table.
type Opponent struct {
	Variant    string  `yaml:"variant"`
	Default    Cadence `yaml:"default"`
	Aggressive Cadence `yaml:"aggressive"`
	Defensive  Cadence `yaml:"defensive"`
}

// Cadence returns the table for the selected variant.
func (o Opponent) Cadence() (Cadence, error) {
	switch o.Variant {
	case VariantDefault, "":
		return o.Default, nil
	case VariantAggressive:
		return o.Aggressive, nil
	case VariantDefensive:
		return o.Defensive, nil
	default:
		return Cadence{}, fmt.Errorf("unknown opponent variant %q", o.Variant)
	}
}

// Cadence drives one opponent variant. Charge fires when
// round > ChargeAfter and round % ChargeEvery == ChargeOffset; defend likewise,
// or on an odd number of hits taken when DefendOnOddHits is set.
type Cadence struct {
	ChargeEvery       int        `yaml:"charge_every"`
	ChargeOffset      int        `yaml:"charge_offset"`
	ChargeAfter       int        `yaml:"charge_after"`
	ChargeAttackBonus int        `yaml:"charge_attack_bonus"`
	ChargeDoubleNext  bool       `yaml:"charge_double_next"`
	ChargeBonusDot    models.Dot `yaml:"charge_bonus_dot"`

	DefendEvery     int        `yaml:"defend_every"`
	DefendOffset    int        `yaml:"defend_offset"`
	DefendOnOddHits bool       `yaml:"defend_on_odd_hits"`
	DefendReduction float64    `yaml:"defend_reduction"`
	DefendTurns     int        `yaml:"defend_turns"`
	DefendDot       models.Dot `yaml:"defend_dot"`
}

// DefaultBattle returns the standard rule set: 40 health on both sides and a
// qi pool of 7.
func DefaultBattle() Battle {
	return Battle{
		Player: Combatant{Name: "Adept", MaxHealth: 40},
		Enemy:  Combatant{Name: "Shade", MaxHealth: 40, Attack: 6, Defense: 2},
		Pool:   Pool{Base: 7, Cap: 10, RetainUnused: true},
		Multipliers: Multipliers{
			Balance:        polarity.Multiplier{Attack: 1.25, Defense: 1.25},
			CriticalYang:   polarity.Multiplier{Attack: 1.75, Defense: 1.25},
			CriticalYin:    polarity.Multiplier{Attack: 1.25, Defense: 1.75},
			YangProsperity: polarity.Multiplier{Attack: 2.75, Defense: 1.25},
			YinProsperity:  polarity.Multiplier{Attack: 1.0, Defense: 2.5},
			ExtremeYang:    polarity.Multiplier{Attack: 4.5, Defense: 0.5},
			ExtremeYin:     polarity.Multiplier{Attack: 1.0, Defense: 3.0},
			UltimateQi:     polarity.Multiplier{Attack: 1.0, Defense: 1.0},
		},
		Effects: Effects{
			BalanceHeal:               5,
			BalanceCooldown:           2,
			ProsperityDotDivisor:      2,
			ProsperityDotTurns:        2,
			CounterMultiplier:         1.0,
			CounterTurns:              1,
			ExtremeCounterMultiplier:  1.5,
			ReflectFormula:            "sum",
			CounterFailDot:            models.Dot{Source: "counter_backlash", Damage: 2, Turns: 2},
			UnlockThreshold:           3,
			StackCap:                  3,
			PenetrationMode:           PenetrationPerYang,
			PenetrationBonus:          4,
			CoverMode:                 CoverDefenseDown,
			CoverPerStack:             2,
			CoverTurns:                2,
			UltimateHealth:            1,
			UltimateDefenseFactor:     7,
			UltimateDefenseFloor:      15,
			UltimateCounterTurns:      3,
			UltimateCounterMultiplier: 1.0,
		},
		Opponent: Opponent{
			Variant: VariantDefault,
			Default: Cadence{
				ChargeEvery:       3,
				ChargeAttackBonus: 2,
				DefendEvery:       4,
				DefendOffset:      2,
				DefendReduction:   0.5,
				DefendTurns:       1,
			},
			Aggressive: Cadence{
				ChargeEvery:      4,
				ChargeOffset:     1,
				ChargeAfter:      1,
				ChargeDoubleNext: true,
				DefendEvery:      6,
				DefendReduction:  0.25,
				DefendTurns:      1,
			},
			Defensive: Cadence{
				ChargeEvery:     3,
				ChargeBonusDot:  models.Dot{Source: "venom", Damage: 2, Turns: 2},
				DefendOnOddHits: true,
				DefendReduction: 1.0,
				DefendTurns:     1,
				DefendDot:       models.Dot{Source: "thorns", Damage: 1, Turns: 2},
			},
		},
	}
}

// LoadBattle loads a battle file over the defaults.
// If the file doesn't exist, returns defaults.
func LoadBattle(path string) (Battle, error) {
	cfg := DefaultBattle()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the invariants the engine relies on.
func (b Battle) Validate() error {
	var errs []error
	for _, c := range []struct {
		side string
		cfg  Combatant
	}{{"player", b.Player}, {"enemy", b.Enemy}} {
		if c.cfg.MaxHealth <= 0 {
			errs = append(errs, fmt.Errorf("%s.max_health must be positive", c.side))
		}
		if c.cfg.Health < 0 || c.cfg.Health > c.cfg.MaxHealth {
			errs = append(errs, fmt.Errorf("%s.health must be within [0, max_health]", c.side))
		}
		if c.cfg.Attack < 0 || c.cfg.Defense < 0 {
			errs = append(errs, fmt.Errorf("%s attack and defense must be non-negative", c.side))
		}
	}

	if !(b.Pool.Base > 0) || math.IsInf(b.Pool.Base, 0) {
		errs = append(errs, errors.New("pool.base must be positive"))
	}
	if b.Pool.Cap < b.Pool.Base {
		errs = append(errs, errors.New("pool.cap must be at least pool.base"))
	}

	e := b.Effects
	if e.ProsperityDotDivisor <= 0 {
		errs = append(errs, errors.New("effects.prosperity_dot_divisor must be positive"))
	}
	switch e.PenetrationMode {
	case PenetrationPerYang, PenetrationFlat:
	default:
		errs = append(errs, fmt.Errorf("effects.penetration_mode %q is not %q or %q", e.PenetrationMode, PenetrationPerYang, PenetrationFlat))
	}
	switch e.CoverMode {
	case CoverDefenseDown, CoverAttackDown:
	default:
		errs = append(errs, fmt.Errorf("effects.cover_mode %q is not %q or %q", e.CoverMode, CoverDefenseDown, CoverAttackDown))
	}
	switch e.ReflectFormula {
	case "sum", "defense":
	default:
		errs = append(errs, fmt.Errorf("effects.reflect_formula %q is not sum or defense", e.ReflectFormula))
	}

	cadence, err := b.Opponent.Cadence()
	if err != nil {
		errs = append(errs, err)
	} else if cadence.DefendReduction < 0 || cadence.DefendReduction > 1 {
		errs = append(errs, errors.New("opponent defend_reduction must be within [0, 1]"))
	}

	return errors.Join(errs...)
}
