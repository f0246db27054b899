package engine

import (
	"math"

	"github.com/tatianab/qi-duel/internal/models"
	"github.com/tatianab/qi-duel/internal/polarity"
)

// Projection is the stats an allocation would produce this turn.
type Projection struct {
	Allocation models.Allocation
	State      polarity.State
	Multiplier polarity.Multiplier
	Attack     int
	Defense    int

	// Locked is set when State is an extreme state not yet unlocked. Attack
	// and Defense are then the unscaled allocation.
	Locked    bool
	Progress  int
	Threshold int

	// UltimateSpent is set when State is UltimateQi and it was already used.
	UltimateSpent bool
}

// Preview projects an allocation without changing the battle.
func (e *Engine) Preview(yang, yin float64) (Projection, error) {
	if e.Terminal() {
		return Projection{}, ErrAlreadyTerminal
	}
	alloc := models.Allocation{Yang: yang, Yin: yin}
	if err := e.validate(alloc); err != nil {
		return Projection{}, err
	}
	return e.project(alloc), nil
}

// project is shared by Preview and Commit so both always agree.
func (e *Engine) project(a models.Allocation) Projection {
	r := e.table.Lookup(a.Diff())
	p := Projection{Allocation: a, State: r.State, Multiplier: r.Multiplier}

	switch {
	case r.State.IsExtreme() && !e.stacks.Unlocked(e.player, r.State):
		p.Locked = true
		p.Progress = e.stacks.Progress(e.player, r.State)
		p.Threshold = e.stacks.Threshold()
		p.Multiplier = polarity.Neutral
	case r.State == polarity.UltimateQi && e.ultimateUsed:
		p.UltimateSpent = true
		p.Multiplier = polarity.Neutral
	}

	p.Attack, p.Defense = polarity.Scale(a.Yang, a.Yin, p.Multiplier)
	if p.Locked {
		return p
	}

	if e.player.NextTurnAttackDebuff {
		p.Attack /= 2
	}
	if e.player.NextTurnDefenseDebuff {
		p.Defense /= 2
	}
	// Ultimate Qi's forced defense overrides a pending defense halving.
	if r.State == polarity.UltimateQi && !p.UltimateSpent {
		fx := e.cfg.Effects
		p.Defense = max(polarity.Floor(math.Floor(fx.UltimateDefenseFactor*a.Yin)), fx.UltimateDefenseFloor)
	}
	return p
}
