package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatianab/qi-duel/internal/config"
	"github.com/tatianab/qi-duel/internal/models"
	"github.com/tatianab/qi-duel/internal/strategist"
)

func send(m model, msg tea.Msg) model {
	next, _ := m.Update(msg)
	return next.(model)
}

func enter(m model, input string) model {
	m.textInput.SetValue(input)
	return send(m, tea.KeyMsg{Type: tea.KeyEnter})
}

func newTestModel(t *testing.T, mutate func(*config.Battle)) (model, string) {
	t.Helper()
	cfg := config.DefaultBattle()
	if mutate != nil {
		mutate(&cfg)
	}
	dir := t.TempDir()
	m := NewModel(cfg, dir, &strategist.Greedy{Heal: cfg.Effects.BalanceHeal})
	m = send(m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, dir
}

func TestStartAndCommit(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m = enter(m, "")
	require.Equal(t, statePlaying, m.state)
	assert.Contains(t, m.gameLog, "Round 1. Shade intends to attack.")

	m = enter(m, "4 3")
	assert.Equal(t, 2, m.engine.Round())
	assert.Contains(t, m.gameLog, "You strike Shade for 5 damage.")
	assert.Contains(t, m.View(), "Intent: defend")
}

func TestUnknownVariant(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m = enter(m, "boss")
	assert.Equal(t, stateChooseVariant, m.state)
	assert.Nil(t, m.engine)

	m = enter(m, "defensive")
	require.Equal(t, statePlaying, m.state)
	assert.Equal(t, "defensive", m.engine.Variant())
}

func TestRejectedAllocationsStayInRound(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m = enter(m, "")

	m = enter(m, "6 0")
	assert.Contains(t, m.gameLog, "locked")
	m = enter(m, "5 5")
	assert.Contains(t, m.gameLog, "invalid allocation")
	m = enter(m, "four three")
	assert.Contains(t, m.gameLog, "is not a number")
	assert.Equal(t, 1, m.engine.Round())
	assert.Equal(t, statePlaying, m.state)
}

func TestLivePreview(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m = enter(m, "")

	m.textInput.SetValue("4 ")
	m = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("3")})
	assert.Equal(t, "Critical Yang: attack 7, defense 3", m.preview)
	assert.Equal(t, 1, m.engine.Round(), "preview never commits")

	m.textInput.SetValue("6 ")
	m = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("0")})
	assert.Contains(t, m.preview, "Extreme Yang locked (0/3)")
}

func TestDotTrayShowsNextTick(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m = enter(m, "")
	assert.NotContains(t, m.View(), "Next tick")

	m = enter(m, "5 1")
	view := m.View()
	assert.Contains(t, view, "yang_prosperity: 2 dmg (1)")
	assert.Contains(t, view, "Next tick: -2")
}

func TestBattleEndSavesRecordAndNextLevel(t *testing.T) {
	m, dir := newTestModel(t, func(b *config.Battle) { b.Enemy.MaxHealth = 5 })
	m = enter(m, "")
	m = enter(m, "4 3")

	require.Equal(t, stateEnded, m.state)
	assert.Equal(t, models.Player, m.engine.Winner())
	require.NotEmpty(t, m.saved)
	assert.Contains(t, m.View(), "VICTORY")

	names, err := models.ListRecords(dir)
	require.NoError(t, err)
	require.Equal(t, []string{m.saved}, names)
	rec, err := models.LoadRecord(dir, m.saved)
	require.NoError(t, err)
	assert.Equal(t, []models.Allocation{{Yang: 4, Yin: 3}}, rec.Allocations)

	m = enter(m, "/next")
	require.Equal(t, statePlaying, m.state)
	assert.Equal(t, 1, m.level)
	assert.Equal(t, 45, m.engine.State().Player.MaxHealth)

	m = enter(m, "/restart")
	assert.Equal(t, stateChooseVariant, m.state)
	assert.Equal(t, 0, m.level)
}

func TestHint(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m = enter(m, "")

	cmd := m.hint()
	require.NotNil(t, cmd)
	msg := cmd()
	hint, ok := msg.(hintMsg)
	require.True(t, ok)
	require.NoError(t, hint.err)

	m = send(m, msg)
	assert.Contains(t, m.gameLog, "Hint: try")
	assert.Equal(t, 1, m.engine.Round())
}

func TestParseAllocation(t *testing.T) {
	tests := []struct {
		input     string
		yang, yin float64
		wantErr   bool
	}{
		{input: "4 3", yang: 4, yin: 3},
		{input: "4,3", yang: 4, yin: 3},
		{input: "2.5/1", yang: 2.5, yin: 1},
		{input: "  0   0 ", yang: 0, yin: 0},
		{input: "4", wantErr: true},
		{input: "4 3 1", wantErr: true},
		{input: "a 3", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			yang, yin, err := parseAllocation(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.yang, yang)
			assert.Equal(t, tt.yin, yin)
		})
	}
}
