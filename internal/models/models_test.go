package models

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestCombatantHealthClamp(t *testing.T) {
	c := NewCombatant(Player, "Adept", 40, 0, 0)

	assert.Equal(t, 0, c.Heal(10), "heal at full health")
	assert.Equal(t, 40, c.Health)

	assert.Equal(t, 15, c.TakeDamage(15))
	assert.Equal(t, 25, c.Health)

	assert.Equal(t, 0, c.TakeDamage(-3), "negative damage is ignored")
	assert.Equal(t, 15, c.Heal(30))
	assert.Equal(t, 40, c.Health)

	assert.Equal(t, 40, c.TakeDamage(100))
	assert.Equal(t, 0, c.Health)
	assert.True(t, c.IsDead())

	c.SetHealth(-5)
	assert.Equal(t, 0, c.Health)
	c.SetHealth(99)
	assert.Equal(t, 40, c.Health)
}

func TestCombatantClone(t *testing.T) {
	c := NewCombatant(Enemy, "Shade", 40, 6, 2)
	c.Dots = []Dot{{Source: "prosperity", Damage: 2, Turns: 2}}
	c.Charge.BonusDot = &Dot{Source: "venom", Damage: 1, Turns: 2}

	clone := c.Clone()
	clone.Dots[0].Turns = 1
	clone.Charge.BonusDot.Damage = 9

	assert.Equal(t, 2, c.Dots[0].Turns)
	assert.Equal(t, 1, c.Charge.BonusDot.Damage)
}

func TestHistoryRecordHit(t *testing.T) {
	var h History
	h.RecordHit(0)
	assert.Equal(t, 0, h.HitsTaken, "zero damage is not a hit")

	for i := 1; i <= 7; i++ {
		h.RecordHit(i)
	}
	assert.Equal(t, 7, h.HitsTaken)
	assert.Equal(t, []int{3, 4, 5, 6, 7}, h.DamageTaken)
}

func TestEnumYAML(t *testing.T) {
	type doc struct {
		Side   Side       `yaml:"side"`
		Phase  Phase      `yaml:"phase"`
		Action Action     `yaml:"action"`
		Kind   DebuffKind `yaml:"kind"`
	}
	in := doc{Side: Enemy, Phase: PhaseOpponentAction, Action: ActionCharge, Kind: DefenseDown}

	data, err := yaml.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), "phase: opponent_action")

	var out doc
	require.NoError(t, yaml.Unmarshal(data, &out))
	assert.Equal(t, in, out)

	assert.Error(t, yaml.Unmarshal([]byte("side: spectator\n"), &out))
}

func TestSideOpponent(t *testing.T) {
	assert.Equal(t, Enemy, Player.Opponent())
	assert.Equal(t, Player, Enemy.Opponent())
	assert.Equal(t, NoSide, NoSide.Opponent())
}

func TestRecordSaveLoad(t *testing.T) {
	dir := t.TempDir()

	record := &Record{
		Name:        "duel-1",
		Variant:     "aggressive",
		Winner:      Player,
		Rounds:      3,
		Allocations: []Allocation{{Yang: 4, Yin: 3}, {Yang: 2, Yin: 5}},
		FinishedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Log:         []string{"Round 1", "Critical Yang!"},
	}
	require.NoError(t, record.Save(dir))

	got, err := LoadRecord(dir, "duel-1")
	require.NoError(t, err)
	assert.Equal(t, record, got)

	names, err := ListRecords(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"duel-1"}, names)
}

func TestRecordLoadWithoutLog(t *testing.T) {
	dir := t.TempDir()
	record := &Record{Name: "quiet", Winner: Enemy, Rounds: 1}
	require.NoError(t, record.Save(dir))
	require.NoError(t, os.Remove(filepath.Join(dir, "quiet", "log.yaml")))

	got, err := LoadRecord(dir, "quiet")
	require.NoError(t, err)
	assert.Nil(t, got.Log)
	assert.Equal(t, Enemy, got.Winner)
}

func TestListRecords_SkipsIncomplete(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "partial"), 0755))

	names, err := ListRecords(dir)
	require.NoError(t, err)
	assert.Empty(t, names)

	names, err = ListRecords(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestRecordSave_RequiresName(t *testing.T) {
	assert.Error(t, (&Record{}).Save(t.TempDir()))
}
