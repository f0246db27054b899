package engine

import (
	"math"

	"github.com/tatianab/qi-duel/internal/models"
)

// cleanup banks unused points into the pool.
func (e *Engine) cleanup(a models.Allocation) {
	pool := e.cfg.Pool
	if !pool.RetainUnused {
		return
	}
	gain := math.Floor((e.maxPoints - a.Spent()) / 2)
	if gain <= 0 || e.maxPoints >= pool.Cap {
		return
	}
	before := e.maxPoints
	e.maxPoints = math.Min(pool.Cap, e.maxPoints+gain)
	e.log.add("You retain %g qi. Pool is now %g.", e.maxPoints-before, e.maxPoints)
}

// startRound advances the round counter, ticks cooldowns, resets the
// player's per-turn stats and fixes the opponent's intent for the round.
func (e *Engine) startRound() {
	if e.round > 0 && e.healCooldown > 0 {
		e.healCooldown--
	}
	e.round++
	e.player.Attack, e.player.Defense = 0, 0

	e.intent = e.policy.ChooseAction(e.round, e.history)
	e.log.add("Round %d. %s intends to %s.", e.round, e.enemy.Name, e.intent)
	e.emit(Event{Kind: EventTurnStarted, Side: models.Player})
	e.emit(Event{Kind: EventIntentChanged, Action: e.intent})
}
