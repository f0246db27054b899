package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand/v2"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/tatianab/qi-duel/internal/balance"
	"github.com/tatianab/qi-duel/internal/config"
	"github.com/tatianab/qi-duel/internal/engine"
	"github.com/tatianab/qi-duel/internal/models"
	"github.com/tatianab/qi-duel/internal/strategist"
)

const maxRounds = 100

func main() {
	n := flag.Int("n", 50, "battles per variant")
	variant := flag.String("variant", "all", "opponent variant, or all")
	dbPath := flag.String("db", "balance.db", "SQLite file for results")
	useLLM := flag.Bool("llm", false, "let Gemini choose allocations")
	explore := flag.Float64("explore", 0.2, "chance per round of a random playable allocation")
	parallel := flag.Int("parallel", 4, "battles run at once")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	battle, err := cfg.Battle()
	if err != nil {
		log.Fatalf("Failed to load battle config: %v", err)
	}
	logger, err := cfg.NewLogger(os.Stderr)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	slog.SetDefault(logger)

	store, err := balance.Open(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open balance store: %v", err)
	}
	defer store.Close()

	var player strategist.Strategist = &strategist.Greedy{Heal: battle.Effects.BalanceHeal}
	if *useLLM {
		g, err := strategist.NewGemini(ctx, cfg.GeminiAPIKey, player)
		if err != nil {
			log.Fatalf("Failed to create player client: %v", err)
		}
		defer g.Close()
		player = g
		// One Gemini call per round is slow enough without fanning out.
		*parallel = 1
	}

	variants := config.Variants
	if *variant != "all" {
		variants = []string{*variant}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(*parallel)
	for _, v := range variants {
		for i := range *n {
			g.Go(func() error {
				b := battle
				b.Opponent.Variant = v
				chooser := player
				if *explore > 0 {
					chooser = &explorer{
						base: player,
						rng:  rand.New(rand.NewPCG(uint64(i), uint64(len(v)))),
						rate: *explore,
					}
				}
				snap, err := simulate(gctx, b, chooser)
				if err != nil {
					return fmt.Errorf("%s battle %d: %w", v, i, err)
				}
				return store.Insert(gctx, balance.ResultFromSnapshot(snap, chooser.Name()))
			})
		}
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("Simulation failed: %v", err)
	}

	rates, err := store.WinRates(ctx)
	if err != nil {
		log.Fatalf("Failed to read win rates: %v", err)
	}
	fmt.Println("--- Win rates ---")
	for _, r := range rates {
		fmt.Printf("%-10s %-18s battles=%-5d player wins=%5.1f%% avg rounds=%.1f\n",
			r.Variant, r.Strategist, r.Battles, r.Rate()*100, r.AvgRounds)
	}
}

func simulate(ctx context.Context, b config.Battle, player strategist.Strategist) (models.Snapshot, error) {
	eng, err := engine.New(b)
	if err != nil {
		return models.Snapshot{}, err
	}
	for eng.Round() <= maxRounds && !eng.Terminal() {
		if err := ctx.Err(); err != nil {
			return models.Snapshot{}, err
		}
		alloc, err := player.Choose(ctx, eng.State(), eng)
		if err != nil {
			return models.Snapshot{}, err
		}
		if _, err := eng.Commit(alloc.Yang, alloc.Yin); err != nil {
			return models.Snapshot{}, err
		}
	}
	return eng.State(), nil
}

// explorer plays a random whole-point allocation some of the time so repeated
// battles against a deterministic opponent differ.
type explorer struct {
	base strategist.Strategist
	rng  *rand.Rand
	rate float64
}

func (e *explorer) Name() string { return e.base.Name() + "+explore" }

func (e *explorer) Choose(ctx context.Context, s models.Snapshot, p strategist.Previewer) (models.Allocation, error) {
	if e.rng.Float64() >= e.rate {
		return e.base.Choose(ctx, s, p)
	}
	pool := int(s.MaxPoints)
	for range 20 {
		yang := e.rng.IntN(pool + 1)
		yin := e.rng.IntN(pool - yang + 1)
		proj, err := p.Preview(float64(yang), float64(yin))
		if err == nil && !proj.Locked {
			return proj.Allocation, nil
		}
	}
	return e.base.Choose(ctx, s, p)
}
