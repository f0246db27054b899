package strategist

import (
	"context"
	"errors"
	"math"

	"github.com/tatianab/qi-duel/internal/engine"
	"github.com/tatianab/qi-duel/internal/ledger"
	"github.com/tatianab/qi-duel/internal/models"
	"github.com/tatianab/qi-duel/internal/polarity"
)

// Score weights.
const (
	lethalScore    = 1000
	unlockProgress = 2
	takenWeight    = 1.0
)

// Greedy tries every whole-point allocation and keeps the one with the best
// one-round outlook: damage dealt minus damage expected back, plus progress
// toward locked extreme states. It never spends Ultimate Qi.
type Greedy struct {
	// Heal is the health a Balance turn restores when off cooldown.
	Heal int
}

func (g *Greedy) Name() string { return "greedy" }

func (g *Greedy) Choose(_ context.Context, s models.Snapshot, p Previewer) (models.Allocation, error) {
	l := ledger.New()
	enemy := s.Enemy.Clone()
	enemy.Attack, enemy.Defense = enemy.BaseAttack, enemy.BaseDefense
	enemyDefense := l.EffectiveDefense(&enemy)
	enemyAttack := l.EffectiveAttack(&enemy)
	if enemy.Charge.DoubleNext {
		enemyAttack *= 2
	}

	pool := int(math.Floor(s.MaxPoints))
	best, bestScore, found := models.Allocation{}, math.Inf(-1), false
	for yang := pool; yang >= 0; yang-- {
		for yin := pool - yang; yin >= 0; yin-- {
			proj, err := p.Preview(float64(yang), float64(yin))
			if err != nil || proj.Locked || proj.State == polarity.UltimateQi {
				continue
			}
			score := g.score(s, proj, enemyDefense, enemyAttack)
			if score > bestScore {
				best, bestScore, found = proj.Allocation, score, true
			}
		}
	}
	if !found {
		return models.Allocation{}, errors.New("greedy: no playable allocation")
	}
	return best, nil
}

func (g *Greedy) score(s models.Snapshot, p engine.Projection, enemyDefense, enemyAttack int) float64 {
	dealt := max(0, p.Attack-enemyDefense)
	if s.Enemy.Stance.Active() {
		dealt = int(math.Floor(float64(dealt) * (1 - math.Min(s.Enemy.Stance.Reduction, 1))))
	}
	if p.State == polarity.ExtremeYang {
		dealt += s.Enemy.Stacks.YangPenetration * polarity.Floor(p.Allocation.Yang)
	}
	if dealt >= s.Enemy.Health {
		return lethalScore + float64(dealt)
	}

	score := float64(dealt)
	if s.Intent == models.ActionAttack {
		score -= takenWeight * float64(max(0, enemyAttack-p.Defense))
	}

	switch p.State {
	case polarity.CriticalYang:
		if !s.Player.Stacks.YangUnlocked {
			score += unlockProgress
		}
	case polarity.CriticalYin:
		if !s.Player.Stacks.YinUnlocked {
			score += unlockProgress
		}
	case polarity.Balance:
		if s.HealCooldown == 0 && s.Player.Health < s.Player.MaxHealth {
			score += float64(min(g.Heal, s.Player.MaxHealth-s.Player.Health))
		}
	}
	return score
}
