// Package opponent selects the enemy's action each round from a fixed
// cadence table. Each variant is its own Behavior.
package opponent

import (
	"fmt"

	"github.com/tatianab/qi-duel/internal/config"
	"github.com/tatianab/qi-duel/internal/models"
)

// Behavior is one opponent variant. ChooseAction must be a pure function of
// its arguments: the engine announces its result as the round's intent and
// later executes that same action.
type Behavior interface {
	Variant() string
	ChooseAction(round int, h models.History) models.Action
	ChargeEffect() ChargeEffect
	DefendEffect() DefendEffect
}

// ChargeEffect is what a charge does to the opponent.
type ChargeEffect struct {
	// AttackBonus is added permanently to base attack.
	AttackBonus int
	// DoubleNext doubles the next attack.
	DoubleNext bool
	// BonusDot is applied to the player by the next attack.
	BonusDot models.Dot
}

// DefendEffect is the stance a defend action enters.
type DefendEffect struct {
	Reduction float64
	Turns     int
	// Dot is applied to the player when the stance is entered.
	Dot models.Dot
}

// New returns the Behavior for a variant name.
func New(variant string, c config.Cadence) (Behavior, error) {
	s := schedule{c}
	switch variant {
	case config.VariantDefault, "":
		return &Standard{schedule: s}, nil
	case config.VariantAggressive:
		return &Charger{schedule: s}, nil
	case config.VariantDefensive:
		return &Denier{schedule: s}, nil
	default:
		return nil, fmt.Errorf("unknown opponent variant %q", variant)
	}
}

type schedule struct {
	c config.Cadence
}

func (s schedule) charges(round int) bool {
	return s.c.ChargeEvery > 0 && round > s.c.ChargeAfter && round%s.c.ChargeEvery == s.c.ChargeOffset
}

func (s schedule) defends(round int) bool {
	return s.c.DefendEvery > 0 && round%s.c.DefendEvery == s.c.DefendOffset
}

func (s schedule) ChargeEffect() ChargeEffect {
	return ChargeEffect{
		AttackBonus: s.c.ChargeAttackBonus,
		DoubleNext:  s.c.ChargeDoubleNext,
		BonusDot:    s.c.ChargeBonusDot,
	}
}

func (s schedule) DefendEffect() DefendEffect {
	return DefendEffect{
		Reduction: s.c.DefendReduction,
		Turns:     s.c.DefendTurns,
		Dot:       s.c.DefendDot,
	}
}

// Standard charges and defends on fixed rounds.
type Standard struct {
	schedule
}

func (b *Standard) Variant() string { return config.VariantDefault }

func (b *Standard) ChooseAction(round int, _ models.History) models.Action {
	switch {
	case b.charges(round):
		return models.ActionCharge
	case b.defends(round):
		return models.ActionDefend
	default:
		return models.ActionAttack
	}
}

// Charger charges to arm a doubled attack and never lets a defend round
// waste a charge it just built.
type Charger struct {
	schedule
}

func (b *Charger) Variant() string { return config.VariantAggressive }

func (b *Charger) ChooseAction(round int, h models.History) models.Action {
	switch {
	case b.charges(round):
		return models.ActionCharge
	case b.defends(round) && h.LastAction != models.ActionCharge:
		return models.ActionDefend
	default:
		return models.ActionAttack
	}
}

// Denier answers the damage it takes: after an odd number of hits it raises a
// stance, never twice in a row.
type Denier struct {
	schedule
}

func (b *Denier) Variant() string { return config.VariantDefensive }

func (b *Denier) ChooseAction(round int, h models.History) models.Action {
	switch {
	case b.charges(round):
		return models.ActionCharge
	case b.defends(round):
		return models.ActionDefend
	case b.c.DefendOnOddHits && h.HitsTaken%2 == 1 && h.LastAction != models.ActionDefend:
		return models.ActionDefend
	default:
		return models.ActionAttack
	}
}
