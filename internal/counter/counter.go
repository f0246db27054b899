// Package counter resolves the counter-strike stance: a timed window in which
// an opponent attack weaker than the defender's defense is reflected back.
package counter

import (
	"log/slog"
	"math"

	"github.com/tatianab/qi-duel/internal/ledger"
	"github.com/tatianab/qi-duel/internal/models"
)

// Formula selects how reflected damage is computed.
type Formula string

const (
	// FormulaSum reflects (attack + defense) * multiplier.
	FormulaSum Formula = "sum"
	// FormulaDefense reflects defense * multiplier.
	FormulaDefense Formula = "defense"
)

// Resolver arms, resolves and expires counter strikes.
type Resolver struct {
	ledger  *ledger.Ledger
	formula Formula
	failDot models.Dot
}

// New creates a Resolver. failDot is applied to the defender when a reflect fails.
func New(l *ledger.Ledger, formula Formula, failDot models.Dot) *Resolver {
	if formula == "" {
		formula = FormulaSum
	}
	return &Resolver{ledger: l, formula: formula, failDot: failDot}
}

// Arm opens a counter window on c. An already armed window keeps the longer
// duration and the stronger multiplier.
func (r *Resolver) Arm(c *models.Combatant, multiplier float64, turns int) {
	if turns <= 0 {
		return
	}
	if c.Counter.Active {
		c.Counter.Turns = max(c.Counter.Turns, turns)
		c.Counter.Multiplier = math.Max(c.Counter.Multiplier, multiplier)
	} else {
		c.Counter = models.CounterStrike{Active: true, Multiplier: multiplier, Turns: turns}
	}
	slog.Debug("counter strike armed",
		"side", c.Side,
		"multiplier", c.Counter.Multiplier,
		"turns", c.Counter.Turns)
}

// Outcome is the result of one opponent attack against an armed defender.
type Outcome struct {
	Triggered bool
	Reflected bool
	Damage    int
	FailDot   models.Dot
}

// Resolve checks the defender's window against an incoming attack. The reflect
// only fires when the attack is strictly below the defender's defense; an equal
// or stronger attack leaves a DOT on the defender instead.
func (r *Resolver) Resolve(defender, attacker *models.Combatant, opponentAttack int) Outcome {
	if !defender.Counter.Active {
		return Outcome{}
	}

	defense := r.ledger.EffectiveDefense(defender)
	if opponentAttack < defense {
		base := float64(defense)
		if r.formula == FormulaSum {
			base += float64(r.ledger.EffectiveAttack(defender))
		}
		dealt := attacker.TakeDamage(int(math.Floor(base * defender.Counter.Multiplier)))
		slog.Debug("counter strike reflected",
			"attack", opponentAttack,
			"defense", defense,
			"damage", dealt)
		return Outcome{Triggered: true, Reflected: true, Damage: dealt}
	}

	out := Outcome{Triggered: true}
	if r.ledger.ApplyDot(defender, r.failDot) {
		out.FailDot = r.failDot
	}
	slog.Debug("counter strike failed",
		"attack", opponentAttack,
		"defense", defense)
	return out
}

// EndOpposingTurn counts down c's window at the end of the opponent's turn and
// closes it when the duration runs out.
func (r *Resolver) EndOpposingTurn(c *models.Combatant) (expired bool) {
	if !c.Counter.Active {
		return false
	}
	c.Counter.Turns--
	if c.Counter.Turns > 0 {
		return false
	}
	c.Counter = models.CounterStrike{}
	return true
}
