package balance

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatianab/qi-duel/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "balance.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}

func TestWinRates(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	results := []Result{
		{Variant: "default", Strategist: "greedy", Winner: models.Player, Rounds: 6},
		{Variant: "default", Strategist: "greedy", Winner: models.Enemy, Rounds: 10},
		{Variant: "default", Strategist: "greedy", Winner: models.Player, Rounds: 8},
		{Variant: "aggressive", Strategist: "greedy", Winner: models.Enemy, Rounds: 4},
	}
	for _, r := range results {
		require.NoError(t, s.Insert(ctx, r))
	}

	rates, err := s.WinRates(ctx)
	require.NoError(t, err)
	require.Len(t, rates, 2)

	assert.Equal(t, "aggressive", rates[0].Variant)
	assert.Equal(t, 1, rates[0].Battles)
	assert.Equal(t, 0, rates[0].PlayerWins)
	assert.Zero(t, rates[0].Rate())

	assert.Equal(t, "default", rates[1].Variant)
	assert.Equal(t, 3, rates[1].Battles)
	assert.Equal(t, 2, rates[1].PlayerWins)
	assert.InDelta(t, 8.0, rates[1].AvgRounds, 1e-9)
	assert.InDelta(t, 2.0/3.0, rates[1].Rate(), 1e-9)
}

func TestWinRates_Empty(t *testing.T) {
	rates, err := openTestStore(t).WinRates(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rates)
}

func TestInsert_Validation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	assert.Error(t, s.Insert(ctx, Result{Strategist: "greedy"}))
	assert.Error(t, s.Insert(ctx, Result{Variant: "default"}))

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, s.Insert(canceled, Result{Variant: "default", Strategist: "greedy"}), context.Canceled)
}

func TestResultFromSnapshot(t *testing.T) {
	snap := models.Snapshot{
		Variant:      "defensive",
		Round:        7,
		Winner:       models.Player,
		Player:       models.Combatant{Health: 12},
		UltimateUsed: true,
	}
	r := ResultFromSnapshot(snap, "greedy")
	assert.Equal(t, Result{
		Variant:      "defensive",
		Strategist:   "greedy",
		Winner:       models.Player,
		Rounds:       7,
		PlayerHealth: 12,
		UltimateUsed: true,
	}, r)
}
