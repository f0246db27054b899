package engine

import (
	"math"

	"github.com/tatianab/qi-duel/internal/config"
	"github.com/tatianab/qi-duel/internal/models"
	"github.com/tatianab/qi-duel/internal/polarity"
)

// playerTurn applies the projected stats, the state's secondary effect and
// the attack on the opponent.
func (e *Engine) playerTurn(a models.Allocation, p Projection) {
	pl, en := e.player, e.enemy

	// Last turn's halving is already in p.
	pl.NextTurnAttackDebuff = false
	pl.NextTurnDefenseDebuff = false
	pl.Attack, pl.Defense = p.Attack, p.Defense

	e.log.add("You channel %g yang / %g yin: %s (attack %d, defense %d).",
		a.Yang, a.Yin, p.State, p.Attack, p.Defense)
	e.emit(Event{Kind: EventStateChanged, Side: models.Player, State: p.State})

	bonus := e.applyStateEffect(a, p)

	dealt := en.TakeDamage(exchangeDamage(e.ledger.EffectiveAttack(pl), e.ledger.EffectiveDefense(en), en.Stance))
	if dealt > 0 {
		e.log.add("You strike %s for %d damage.", en.Name, dealt)
	} else {
		e.log.add("Your strike fails to pierce %s's guard.", en.Name)
	}
	if bonus > 0 {
		extra := en.TakeDamage(bonus)
		e.log.add("Penetration bursts for %d more damage.", extra)
		dealt += extra
	}
	e.history.RecordHit(dealt)
	e.emit(Event{Kind: EventDamageResolved, Side: models.Enemy, Amount: dealt})
}

// applyStateEffect runs the secondary effect of p.State and returns any
// direct damage that bypasses the opponent's defense.
func (e *Engine) applyStateEffect(a models.Allocation, p Projection) int {
	pl, en, fx := e.player, e.enemy, e.cfg.Effects

	switch p.State {
	case polarity.Balance:
		switch {
		case pl.Health >= pl.MaxHealth:
			e.log.add("Your qi is balanced, but you are already at full health.")
		case e.healCooldown > 0:
			e.log.add("Your qi is balanced. Healing recovers in %d round(s).", e.healCooldown)
		default:
			healed := pl.Heal(fx.BalanceHeal)
			e.healCooldown = fx.BalanceCooldown
			e.log.add("Balance restores %d health.", healed)
		}

	case polarity.CriticalYang, polarity.CriticalYin:
		extreme := polarity.ExtremeYang
		if p.State == polarity.CriticalYin {
			extreme = polarity.ExtremeYin
			e.counter.Arm(pl, fx.CounterMultiplier, fx.CounterTurns)
			e.log.add("You brace for a counter strike.")
		}
		if e.stacks.RecordCritical(pl, en, p.State) {
			e.log.add("%s unlocked!", extreme)
		} else if !e.stacks.Unlocked(pl, extreme) {
			e.log.add("%s: %d/%d.", extreme, e.stacks.Progress(pl, extreme), e.stacks.Threshold())
		}

	case polarity.YangProsperity:
		dot := models.Dot{
			Source: "yang_prosperity",
			Damage: polarity.Floor(math.Floor(a.Yang / fx.ProsperityDotDivisor)),
			Turns:  fx.ProsperityDotTurns,
		}
		if e.ledger.ApplyDot(en, dot) {
			e.log.add("%s burns for %d over %d turns.", en.Name, dot.Damage, dot.Turns)
		}

	case polarity.YinProsperity:
		e.counter.Arm(pl, fx.CounterMultiplier, fx.CounterTurns)
		e.log.add("You brace for a counter strike.")

	case polarity.ExtremeYang:
		n := e.stacks.Detonate(pl, en, p.State)
		pl.NextTurnAttackDebuff = true
		if n == 0 {
			e.log.add("Extreme Yang finds no penetration stacks.")
			return 0
		}
		per := polarity.Floor(a.Yang)
		if fx.PenetrationMode == config.PenetrationFlat {
			per = fx.PenetrationBonus
		}
		e.log.add("%d penetration stack(s) detonate.", n)
		return n * per

	case polarity.ExtremeYin:
		n := e.stacks.Detonate(pl, en, p.State)
		pl.NextTurnDefenseDebuff = true
		e.counter.Arm(pl, fx.ExtremeCounterMultiplier, fx.CounterTurns)
		if n == 0 {
			e.log.add("Extreme Yin finds no cover stacks.")
			return 0
		}
		kind := models.DefenseDown
		if fx.CoverMode == config.CoverAttackDown {
			kind = models.AttackDown
		}
		d := models.Debuff{Source: "yin_cover", Kind: kind, Magnitude: n * fx.CoverPerStack, Turns: fx.CoverTurns}
		if e.ledger.ApplyDebuff(en, d) {
			e.log.add("%d cover stack(s) collapse: %s %s -%d for %d turns.", n, en.Name, kind, d.Magnitude, d.Turns)
		}

	case polarity.UltimateQi:
		if p.UltimateSpent {
			e.log.add("Ultimate Qi has already been spent this battle.")
			return 0
		}
		e.ultimateUsed = true
		pl.SetHealth(fx.UltimateHealth)
		e.counter.Arm(pl, fx.UltimateCounterMultiplier, fx.UltimateCounterTurns)
		e.log.add("Ultimate Qi! Your life hangs by a thread, defense rises to %d.", p.Defense)

	default:
		e.log.add("Your qi scatters without effect.")
	}
	return 0
}

// exchangeDamage is attack minus defense, never negative, reduced by an
// active stance.
func exchangeDamage(attack, defense int, stance models.Stance) int {
	dmg := max(0, attack-defense)
	if stance.Active() {
		dmg = int(math.Floor(float64(dmg) * (1 - math.Min(stance.Reduction, 1))))
	}
	return dmg
}
