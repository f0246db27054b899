// Package ledger tracks damage-over-time entries and timed debuffs on both
// combatants and expires them at turn boundaries.
package ledger

import (
	"log/slog"

	"github.com/tatianab/qi-duel/internal/models"
)

// Ledger applies and ticks timed effects. It keeps no state of its own: the
// entries live on the combatants so they are part of every snapshot.
type Ledger struct{}

// New creates a Ledger.
func New() *Ledger {
	return &Ledger{}
}

// ApplyDot appends a DOT to c. Entries with no damage or no duration are ignored.
func (l *Ledger) ApplyDot(c *models.Combatant, dot models.Dot) bool {
	if dot.Damage <= 0 || dot.Turns <= 0 {
		return false
	}
	c.Dots = append(c.Dots, dot)
	slog.Debug("dot applied",
		"side", c.Side,
		"source", dot.Source,
		"damage", dot.Damage,
		"turns", dot.Turns)
	return true
}

// ApplyDebuff appends a timed debuff to c.
func (l *Ledger) ApplyDebuff(c *models.Combatant, d models.Debuff) bool {
	if d.Magnitude <= 0 || d.Turns <= 0 {
		return false
	}
	c.Debuffs = append(c.Debuffs, d)
	slog.Debug("debuff applied",
		"side", c.Side,
		"kind", d.Kind,
		"magnitude", d.Magnitude,
		"turns", d.Turns)
	return true
}

// TickReport describes one turn boundary for one combatant.
type TickReport struct {
	Side           models.Side
	Damage         int
	DotTicks       int
	ExpiredDots    int
	ExpiredDebuffs int
}

// Tick applies every DOT once, decrements all durations and prunes the
// entries that reached zero. Pruning happens after the damage of this tick.
func (l *Ledger) Tick(c *models.Combatant) TickReport {
	report := TickReport{Side: c.Side}

	var dots []models.Dot
	for _, dot := range c.Dots {
		report.Damage += c.TakeDamage(dot.Damage)
		report.DotTicks++

		next := models.Dot{Source: dot.Source, Damage: dot.Damage, Turns: dot.Turns - 1}
		if next.Turns > 0 {
			dots = append(dots, next)
		} else {
			report.ExpiredDots++
		}
	}
	c.Dots = dots

	var debuffs []models.Debuff
	for _, d := range c.Debuffs {
		next := d
		next.Turns--
		if next.Turns > 0 {
			debuffs = append(debuffs, next)
		} else {
			report.ExpiredDebuffs++
		}
	}
	c.Debuffs = debuffs

	if report.DotTicks > 0 {
		slog.Debug("dot tick",
			"side", c.Side,
			"damage", report.Damage,
			"expired", report.ExpiredDots,
			"health", c.Health)
	}
	return report
}

// Modifier returns the summed magnitude of active debuffs of kind.
func (l *Ledger) Modifier(c *models.Combatant, kind models.DebuffKind) int {
	total := 0
	for _, d := range c.Debuffs {
		if d.Kind == kind {
			total += d.Magnitude
		}
	}
	return total
}

// EffectiveAttack is c.Attack minus attack-down debuffs, never negative.
func (l *Ledger) EffectiveAttack(c *models.Combatant) int {
	return max(0, c.Attack-l.Modifier(c, models.AttackDown))
}

// EffectiveDefense is c.Defense minus defense-down debuffs, never negative.
func (l *Ledger) EffectiveDefense(c *models.Combatant) int {
	return max(0, c.Defense-l.Modifier(c, models.DefenseDown))
}

// PendingDamage is the damage c's DOTs will deal at the next tick.
func (l *Ledger) PendingDamage(c *models.Combatant) int {
	total := 0
	for _, dot := range c.Dots {
		total += dot.Damage
	}
	return total
}
