package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatianab/qi-duel/internal/polarity"
)

func TestDefaultBattle_Valid(t *testing.T) {
	b := DefaultBattle()
	require.NoError(t, b.Validate())
	assert.Equal(t, polarity.DefaultTable(), b.Multipliers.Table())
	assert.Equal(t, 7.0, b.Pool.Base)
}

func TestLoadBattle_MissingFileReturnsDefaults(t *testing.T) {
	b, err := LoadBattle(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultBattle(), b)
}

func TestLoadBattle_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "battle.yaml")
	data := `
enemy:
  max_health: 60
  attack: 9
pool:
  base: 8
multipliers:
  critical_yang:
    attack: 2
    defense: 1
opponent:
  variant: aggressive
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	b, err := LoadBattle(path)
	require.NoError(t, err)
	require.NoError(t, b.Validate())

	assert.Equal(t, 60, b.Enemy.MaxHealth)
	assert.Equal(t, 9, b.Enemy.Attack)
	assert.Equal(t, 2, b.Enemy.Defense, "unset fields keep defaults")
	assert.Equal(t, 8.0, b.Pool.Base)
	assert.Equal(t, polarity.Multiplier{Attack: 2, Defense: 1}, b.Multipliers.CriticalYang)

	cadence, err := b.Opponent.Cadence()
	require.NoError(t, err)
	assert.True(t, cadence.ChargeDoubleNext)
}

func TestLoadBattle_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "battle.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pool: [1, 2"), 0644))

	_, err := LoadBattle(path)
	assert.ErrorContains(t, err, "parsing config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Battle)
		want   string
	}{
		{"zero health", func(b *Battle) { b.Player.MaxHealth = 0 }, "player.max_health"},
		{"health above max", func(b *Battle) { b.Enemy.Health = 99 }, "enemy.health"},
		{"negative attack", func(b *Battle) { b.Enemy.Attack = -1 }, "enemy attack"},
		{"empty pool", func(b *Battle) { b.Pool.Base = 0 }, "pool.base"},
		{"cap below base", func(b *Battle) { b.Pool.Cap = 5 }, "pool.cap"},
		{"divisor", func(b *Battle) { b.Effects.ProsperityDotDivisor = 0 }, "prosperity_dot_divisor"},
		{"penetration mode", func(b *Battle) { b.Effects.PenetrationMode = "huge" }, "penetration_mode"},
		{"cover mode", func(b *Battle) { b.Effects.CoverMode = "none" }, "cover_mode"},
		{"reflect formula", func(b *Battle) { b.Effects.ReflectFormula = "mirror" }, "reflect_formula"},
		{"variant", func(b *Battle) { b.Opponent.Variant = "berserk" }, "unknown opponent variant"},
		{"reduction", func(b *Battle) { b.Opponent.Default.DefendReduction = 1.5 }, "defend_reduction"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := DefaultBattle()
			tt.mutate(&b)
			assert.ErrorContains(t, b.Validate(), tt.want)
		})
	}
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "k")
	t.Setenv("QIDUEL_VARIANT", VariantDefensive)
	t.Setenv("QIDUEL_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "k", cfg.GeminiAPIKey)
	assert.Equal(t, ".saves", cfg.SaveDir)
	assert.Equal(t, "info", cfg.LogLevel)

	b, err := cfg.Battle()
	require.NoError(t, err)
	assert.Equal(t, VariantDefensive, b.Opponent.Variant)
}

func TestShippedBattleFileMatchesDefaults(t *testing.T) {
	b, err := LoadBattle(filepath.Join("..", "..", "config", "battle.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultBattle(), b)
}

func TestConfigLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "info", want: slog.LevelInfo},
		{in: "DEBUG", want: slog.LevelDebug},
		{in: " warn ", want: slog.LevelWarn},
		{in: "loud", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c := &Config{LogLevel: tt.in}
			got, err := c.Level()
			if tt.wantErr {
				assert.Error(t, err)
				_, err = c.NewLogger(io.Discard)
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
