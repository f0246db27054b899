package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatianab/qi-duel/internal/models"
)

func newEnemy() *models.Combatant {
	return models.NewCombatant(models.Enemy, "Shade", 40, 6, 2)
}

func TestApplyDot_IgnoresEmpty(t *testing.T) {
	l := New()
	c := newEnemy()

	assert.False(t, l.ApplyDot(c, models.Dot{Damage: 0, Turns: 2}))
	assert.False(t, l.ApplyDot(c, models.Dot{Damage: 3, Turns: 0}))
	assert.Empty(t, c.Dots)
}

func TestTick_AppliesThenPrunes(t *testing.T) {
	l := New()
	c := newEnemy()
	require.True(t, l.ApplyDot(c, models.Dot{Source: "prosperity", Damage: 3, Turns: 2}))

	r := l.Tick(c)
	assert.Equal(t, 3, r.Damage)
	assert.Equal(t, 0, r.ExpiredDots)
	assert.Equal(t, 37, c.Health)
	require.Len(t, c.Dots, 1)
	assert.Equal(t, 1, c.Dots[0].Turns)

	// The last tick still deals damage before the entry is removed.
	r = l.Tick(c)
	assert.Equal(t, 3, r.Damage)
	assert.Equal(t, 1, r.ExpiredDots)
	assert.Equal(t, 34, c.Health)
	assert.Nil(t, c.Dots)

	r = l.Tick(c)
	assert.Equal(t, 0, r.Damage)
	assert.Equal(t, 34, c.Health)
}

func TestTick_KeepsOrder(t *testing.T) {
	l := New()
	c := newEnemy()
	l.ApplyDot(c, models.Dot{Source: "a", Damage: 1, Turns: 1})
	l.ApplyDot(c, models.Dot{Source: "b", Damage: 2, Turns: 3})
	l.ApplyDot(c, models.Dot{Source: "c", Damage: 1, Turns: 2})

	r := l.Tick(c)
	assert.Equal(t, 4, r.Damage)
	assert.Equal(t, 3, r.DotTicks)
	require.Len(t, c.Dots, 2)
	assert.Equal(t, "b", c.Dots[0].Source)
	assert.Equal(t, "c", c.Dots[1].Source)
}

func TestTick_HealthNeverNegative(t *testing.T) {
	l := New()
	c := newEnemy()
	c.SetHealth(2)
	l.ApplyDot(c, models.Dot{Damage: 5, Turns: 1})

	r := l.Tick(c)
	assert.Equal(t, 2, r.Damage)
	assert.Equal(t, 0, c.Health)
}

func TestDebuffs(t *testing.T) {
	l := New()
	c := newEnemy()
	c.Defense = 5
	c.Attack = 6

	assert.False(t, l.ApplyDebuff(c, models.Debuff{Kind: models.DefenseDown, Magnitude: 0, Turns: 2}))
	require.True(t, l.ApplyDebuff(c, models.Debuff{Kind: models.DefenseDown, Magnitude: 4, Turns: 2}))
	require.True(t, l.ApplyDebuff(c, models.Debuff{Kind: models.DefenseDown, Magnitude: 4, Turns: 1}))
	require.True(t, l.ApplyDebuff(c, models.Debuff{Kind: models.AttackDown, Magnitude: 2, Turns: 1}))

	assert.Equal(t, 0, l.EffectiveDefense(c), "defense clamps at zero")
	assert.Equal(t, 4, l.EffectiveAttack(c))

	r := l.Tick(c)
	assert.Equal(t, 2, r.ExpiredDebuffs)
	assert.Equal(t, 1, l.EffectiveDefense(c))
	assert.Equal(t, 6, l.EffectiveAttack(c))

	l.Tick(c)
	assert.Nil(t, c.Debuffs)
	assert.Equal(t, 5, l.EffectiveDefense(c))
}

func TestPendingDamage(t *testing.T) {
	l := New()
	c := newEnemy()
	l.ApplyDot(c, models.Dot{Damage: 2, Turns: 2})
	l.ApplyDot(c, models.Dot{Damage: 3, Turns: 1})
	l.ApplyDebuff(c, models.Debuff{Kind: models.AttackDown, Magnitude: 1, Turns: 1})

	assert.Equal(t, 5, l.PendingDamage(c))

	l.Tick(c)
	assert.Equal(t, 2, l.PendingDamage(c))
	l.Tick(c)
	assert.Zero(t, l.PendingDamage(c))
}
