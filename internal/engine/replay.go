package engine

import (
	"fmt"

	"github.com/tatianab/qi-duel/internal/config"
	"github.com/tatianab/qi-duel/internal/models"
)

// Replay runs a recorded battle from the start and returns the resulting
// engine. The record's variant and health bonus take precedence over cfg and
// opts.
func Replay(cfg config.Battle, rec *models.Record, opts ...Option) (*Engine, error) {
	if rec.Variant != "" {
		cfg.Opponent.Variant = rec.Variant
	}
	opts = append(opts, WithHealthBonus(rec.HealthBonus))
	e, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	for i, a := range rec.Allocations {
		if _, err := e.Commit(a.Yang, a.Yin); err != nil {
			return e, fmt.Errorf("replay %s: round %d: %w", rec.Name, i+1, err)
		}
	}
	if rec.Winner != models.NoSide && e.Winner() != rec.Winner {
		return e, fmt.Errorf("replay %s: winner %s, recorded %s", rec.Name, e.Winner(), rec.Winner)
	}
	return e, nil
}

// Record captures a finished or abandoned battle for saving.
func (e *Engine) Record(name string) *models.Record {
	return &models.Record{
		Name:        name,
		Variant:     e.policy.Variant(),
		Winner:      e.winner,
		Rounds:      e.round,
		HealthBonus: e.healthBonus,
		Allocations: append([]models.Allocation(nil), e.allocations...),
		Log:         e.Log(),
	}
}
