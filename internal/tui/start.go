package tui

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/tatianab/qi-duel/internal/config"
	"github.com/tatianab/qi-duel/internal/models"
	"github.com/tatianab/qi-duel/internal/strategist"
)

// Start loads the configuration from the environment, sends logs to the
// configured file and runs the client.
func Start() error {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	battle, err := cfg.Battle()
	if err != nil {
		return err
	}

	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()
	logger, err := cfg.NewLogger(logFile)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	models.SaveDir = cfg.SaveDir

	var adviser strategist.Strategist = &strategist.Greedy{Heal: battle.Effects.BalanceHeal}
	if cfg.GeminiAPIKey != "" {
		g, err := strategist.NewGemini(ctx, cfg.GeminiAPIKey, adviser)
		if err != nil {
			return fmt.Errorf("creating Gemini adviser: %w", err)
		}
		defer g.Close()
		adviser = g
	}

	return Run(battle, models.SaveDir, adviser)
}
