// Package strategist chooses allocations on the player's behalf for simulated
// battles.
package strategist

import (
	"context"

	"github.com/tatianab/qi-duel/internal/engine"
	"github.com/tatianab/qi-duel/internal/models"
)

// Previewer projects an allocation without committing it. *engine.Engine
// satisfies it.
type Previewer interface {
	Preview(yang, yin float64) (engine.Projection, error)
}

// Strategist picks the next allocation from the current battle state.
type Strategist interface {
	Name() string
	Choose(ctx context.Context, s models.Snapshot, p Previewer) (models.Allocation, error)
}

// Scripted replays a fixed sequence of allocations, cycling when it runs out.
type Scripted struct {
	Steps []models.Allocation
}

func (s *Scripted) Name() string { return "scripted" }

func (s *Scripted) Choose(_ context.Context, snap models.Snapshot, _ Previewer) (models.Allocation, error) {
	if len(s.Steps) == 0 {
		return models.Allocation{}, nil
	}
	return s.Steps[(snap.Round-1)%len(s.Steps)], nil
}
