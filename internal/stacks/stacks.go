// Package stacks counts critical triggers, unlocks the extreme states and
// detonates the stacks the critical states leave on the opponent.
package stacks

import (
	"log/slog"

	"github.com/tatianab/qi-duel/internal/models"
	"github.com/tatianab/qi-duel/internal/polarity"
)

// Tracker holds the unlock threshold and stack cap. Counters live on the
// combatants.
type Tracker struct {
	threshold int
	cap       int
}

// New creates a Tracker. Non-positive values fall back to 3.
func New(threshold, stackCap int) *Tracker {
	if threshold <= 0 {
		threshold = 3
	}
	if stackCap <= 0 {
		stackCap = 3
	}
	return &Tracker{threshold: threshold, cap: stackCap}
}

// Threshold is the number of critical triggers needed to unlock.
func (t *Tracker) Threshold() int { return t.threshold }

// RecordCritical counts a critical trigger by the player, grants the matching
// stack to the opponent and reports whether this trigger unlocked the extreme
// state.
func (t *Tracker) RecordCritical(player, opponent *models.Combatant, s polarity.State) (unlocked bool) {
	p := &player.Stacks
	o := &opponent.Stacks
	switch s {
	case polarity.CriticalYang:
		p.YangCritical++
		p.ExtremeYang = min(p.ExtremeYang+1, t.cap)
		o.YangPenetration = min(o.YangPenetration+1, t.cap)
		if !p.YangUnlocked && p.YangCritical >= t.threshold {
			p.YangUnlocked = true
			unlocked = true
		}
	case polarity.CriticalYin:
		p.YinCritical++
		p.ExtremeYin = min(p.ExtremeYin+1, t.cap)
		o.YinCover = min(o.YinCover+1, t.cap)
		if !p.YinUnlocked && p.YinCritical >= t.threshold {
			p.YinUnlocked = true
			unlocked = true
		}
	default:
		return false
	}
	if unlocked {
		slog.Debug("extreme state unlocked", "critical", s)
	}
	return unlocked
}

// Unlocked reports whether the player may resolve s. Non-extreme states are
// always available.
func (t *Tracker) Unlocked(player *models.Combatant, s polarity.State) bool {
	switch s {
	case polarity.ExtremeYang:
		return player.Stacks.YangUnlocked
	case polarity.ExtremeYin:
		return player.Stacks.YinUnlocked
	default:
		return true
	}
}

// Progress returns the critical count for the state gating s.
func (t *Tracker) Progress(player *models.Combatant, s polarity.State) int {
	switch s.CriticalFor() {
	case polarity.CriticalYang:
		return player.Stacks.YangCritical
	case polarity.CriticalYin:
		return player.Stacks.YinCritical
	default:
		return 0
	}
}

// Detonate consumes the opponent's stacks for extreme state s and resets the
// player's extreme stack. It returns the number of stacks consumed.
func (t *Tracker) Detonate(player, opponent *models.Combatant, s polarity.State) int {
	var n int
	switch s {
	case polarity.ExtremeYang:
		n = opponent.Stacks.YangPenetration
		opponent.Stacks.YangPenetration = 0
		player.Stacks.ExtremeYang = 0
	case polarity.ExtremeYin:
		n = opponent.Stacks.YinCover
		opponent.Stacks.YinCover = 0
		player.Stacks.ExtremeYin = 0
	}
	if n > 0 {
		slog.Debug("stacks detonated", "state", s, "stacks", n)
	}
	return n
}
