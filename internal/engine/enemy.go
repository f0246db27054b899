package engine

import (
	"github.com/tatianab/qi-duel/internal/models"
)

// enemyTurn executes the intent announced at the start of the round, then
// closes the player's counter window and ticks both ledgers.
func (e *Engine) enemyTurn() {
	pl, en := e.player, e.enemy
	e.emit(Event{Kind: EventTurnStarted, Side: models.Enemy})

	if en.Stance.Turns > 0 {
		en.Stance.Turns--
		if en.Stance.Turns == 0 {
			en.Stance = models.Stance{}
			e.log.add("%s lowers its guard.", en.Name)
		}
	}

	action := e.intent
	switch action {
	case models.ActionCharge:
		fx := e.policy.ChargeEffect()
		en.BaseAttack += fx.AttackBonus
		en.Attack = en.BaseAttack
		if fx.DoubleNext {
			en.Charge.DoubleNext = true
		}
		if fx.BonusDot.Damage > 0 && fx.BonusDot.Turns > 0 {
			dot := fx.BonusDot
			en.Charge.BonusDot = &dot
		}
		e.log.add("%s gathers power.", en.Name)

	case models.ActionDefend:
		fx := e.policy.DefendEffect()
		en.Stance = models.Stance{Turns: fx.Turns, Reduction: fx.Reduction}
		e.log.add("%s takes a defensive stance.", en.Name)
		if e.ledger.ApplyDot(pl, fx.Dot) {
			e.log.add("%s's %s: %d over %d turns.", en.Name, fx.Dot.Source, fx.Dot.Damage, fx.Dot.Turns)
		}

	default:
		e.enemyAttack()
	}
	e.history.LastAction = action

	if e.counter.EndOpposingTurn(pl) {
		e.log.add("Your counter stance fades.")
	}
	if pl.IsDead() || en.IsDead() {
		return
	}

	for _, c := range []*models.Combatant{en, pl} {
		r := e.ledger.Tick(c)
		if r.Damage > 0 {
			e.log.add("%s suffers %d damage over time.", c.Name, r.Damage)
			e.emit(Event{Kind: EventDamageResolved, Side: c.Side, Amount: r.Damage})
		}
	}
}

func (e *Engine) enemyAttack() {
	pl, en := e.player, e.enemy

	en.Attack = en.BaseAttack
	en.Defense = en.BaseDefense
	attack := e.ledger.EffectiveAttack(en)
	if en.Charge.DoubleNext {
		attack *= 2
		en.Charge.DoubleNext = false
	}

	if pl.Counter.Active {
		out := e.counter.Resolve(pl, en, attack)
		switch {
		case out.Reflected:
			e.log.add("Counter strike! %s takes %d reflected damage.", en.Name, out.Damage)
			e.emit(Event{Kind: EventDamageResolved, Side: models.Enemy, Amount: out.Damage})
		case out.FailDot.Damage > 0:
			e.log.add("Your counter fails and leaves you bleeding for %d over %d turns.", out.FailDot.Damage, out.FailDot.Turns)
		}
	}

	taken := pl.TakeDamage(max(0, attack-e.ledger.EffectiveDefense(pl)))
	if taken > 0 {
		e.log.add("%s hits you for %d damage.", en.Name, taken)
	} else {
		e.log.add("%s's attack glances off your guard.", en.Name)
	}
	e.emit(Event{Kind: EventDamageResolved, Side: models.Player, Amount: taken})

	if en.Charge.BonusDot != nil {
		dot := *en.Charge.BonusDot
		en.Charge.BonusDot = nil
		if e.ledger.ApplyDot(pl, dot) {
			e.log.add("%s's %s lingers: %d over %d turns.", en.Name, dot.Source, dot.Damage, dot.Turns)
		}
	}
}
