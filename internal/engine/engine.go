// Package engine runs one battle: it classifies the player's allocation,
// resolves the player's turn, executes the opponent's action and advances the
// round, all in one synchronous step per committed allocation.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/looplab/fsm"

	"github.com/tatianab/qi-duel/internal/config"
	"github.com/tatianab/qi-duel/internal/counter"
	"github.com/tatianab/qi-duel/internal/ledger"
	"github.com/tatianab/qi-duel/internal/models"
	"github.com/tatianab/qi-duel/internal/opponent"
	"github.com/tatianab/qi-duel/internal/polarity"
	"github.com/tatianab/qi-duel/internal/stacks"
)

// Phase transition events.
const (
	evResolve  = "resolve"
	evOpponent = "opponent"
	evCleanup  = "cleanup"
	evNext     = "next"
	evEnd      = "end"
)

// allocationSlack absorbs float error when checking yang + yin against the pool.
const allocationSlack = 1e-9

// Engine owns both combatants and the pool for one battle's lifetime.
// It is not safe for concurrent use.
type Engine struct {
	cfg      config.Battle
	table    polarity.Table
	ledger   *ledger.Ledger
	stacks   *stacks.Tracker
	counter  *counter.Resolver
	policy   opponent.Behavior
	phases   *fsm.FSM
	listener Listener

	round        int
	healthBonus  int
	maxPoints    float64
	player       *models.Combatant
	enemy        *models.Combatant
	healCooldown int
	ultimateUsed bool
	history      models.History
	intent       models.Action
	winner       models.Side
	allocations  []models.Allocation

	log     battleLog
	pending []Event
}

// Option configures an Engine.
type Option func(*options)

type options struct {
	listener    Listener
	healthBonus int
}

// WithListener registers a listener for battle events.
func WithListener(l Listener) Option {
	return func(o *options) { o.listener = l }
}

// WithHealthBonus raises the player's starting and maximum health, e.g. for
// health carried over from a previous battle.
func WithHealthBonus(n int) Option {
	return func(o *options) { o.healthBonus = n }
}

// New starts a battle at round 1.
func New(cfg config.Battle, opts ...Option) (*Engine, error) {
	e, o, err := build(cfg, opts)
	if err != nil {
		return nil, err
	}

	e.healthBonus = max(0, o.healthBonus)
	maxHealth := cfg.Player.MaxHealth + e.healthBonus
	e.player = models.NewCombatant(models.Player, cfg.Player.Name, maxHealth, cfg.Player.Attack, cfg.Player.Defense)
	if cfg.Player.Health > 0 {
		e.player.SetHealth(cfg.Player.Health + e.healthBonus)
	}
	e.enemy = models.NewCombatant(models.Enemy, cfg.Enemy.Name, cfg.Enemy.MaxHealth, cfg.Enemy.Attack, cfg.Enemy.Defense)
	if cfg.Enemy.Health > 0 {
		e.enemy.SetHealth(cfg.Enemy.Health)
	}
	e.maxPoints = cfg.Pool.Base

	e.log.add("%s faces %s.", e.player.Name, e.enemy.Name)
	e.startRound()

	slog.Info("battle started",
		"variant", e.policy.Variant(),
		"player_health", e.player.Health,
		"enemy_health", e.enemy.Health,
		"pool", e.maxPoints)
	return e, nil
}

// Restore rebuilds an engine from a snapshot taken between commits. The
// snapshot's variant takes precedence over cfg.
func Restore(cfg config.Battle, snap models.Snapshot, opts ...Option) (*Engine, error) {
	if snap.Phase != models.PhaseAllocation && snap.Phase != models.PhaseBattleEnd {
		return nil, fmt.Errorf("restore: snapshot taken mid-turn (phase %s)", snap.Phase)
	}
	if snap.Round < 1 {
		return nil, fmt.Errorf("restore: invalid round %d", snap.Round)
	}
	if snap.Variant != "" {
		cfg.Opponent.Variant = snap.Variant
	}
	e, _, err := build(cfg, opts)
	if err != nil {
		return nil, err
	}

	player, enemy := snap.Player.Clone(), snap.Enemy.Clone()
	e.player, e.enemy = &player, &enemy
	e.round = snap.Round
	e.healthBonus = snap.HealthBonus
	e.maxPoints = snap.MaxPoints
	e.healCooldown = snap.HealCooldown
	e.ultimateUsed = snap.UltimateUsed
	e.history = snap.History.Clone()
	e.intent = snap.Intent
	e.winner = snap.Winner
	e.allocations = append([]models.Allocation(nil), snap.Allocations...)
	e.log.last = snap.LastLog
	e.log.all = append([]string(nil), snap.Log...)
	e.phases.SetState(snap.Phase.String())
	return e, nil
}

func build(cfg config.Battle, opts []Option) (*Engine, options, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if err := cfg.Validate(); err != nil {
		return nil, o, fmt.Errorf("invalid battle config: %w", err)
	}
	cadence, err := cfg.Opponent.Cadence()
	if err != nil {
		return nil, o, err
	}
	policy, err := opponent.New(cfg.Opponent.Variant, cadence)
	if err != nil {
		return nil, o, err
	}

	l := ledger.New()
	e := &Engine{
		cfg:      cfg,
		table:    cfg.Multipliers.Table(),
		ledger:   l,
		stacks:   stacks.New(cfg.Effects.UnlockThreshold, cfg.Effects.StackCap),
		counter:  counter.New(l, counter.Formula(cfg.Effects.ReflectFormula), cfg.Effects.CounterFailDot),
		policy:   policy,
		listener: o.listener,
	}
	e.phases = newPhases()
	return e, o, nil
}

func newPhases() *fsm.FSM {
	return fsm.NewFSM(
		models.PhaseAllocation.String(),
		fsm.Events{
			{Name: evResolve, Src: []string{models.PhaseAllocation.String()}, Dst: models.PhaseResolution.String()},
			{Name: evOpponent, Src: []string{models.PhaseResolution.String()}, Dst: models.PhaseOpponentAction.String()},
			{Name: evCleanup, Src: []string{models.PhaseOpponentAction.String()}, Dst: models.PhaseCleanup.String()},
			{Name: evNext, Src: []string{models.PhaseCleanup.String()}, Dst: models.PhaseAllocation.String()},
			{Name: evEnd, Src: []string{
				models.PhaseResolution.String(),
				models.PhaseOpponentAction.String(),
				models.PhaseCleanup.String(),
			}, Dst: models.PhaseBattleEnd.String()},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, ev *fsm.Event) {
				slog.Debug("phase", "from", ev.Src, "to", ev.Dst)
			},
		},
	)
}

func (e *Engine) transition(event string) error {
	if err := e.phases.Event(context.Background(), event); err != nil {
		return fmt.Errorf("phase %s: %w", event, err)
	}
	return nil
}

// Phase returns the current phase. Between commits it is either
// PhaseAllocation or PhaseBattleEnd.
func (e *Engine) Phase() models.Phase {
	p, err := models.ParsePhase(e.phases.Current())
	if err != nil {
		return models.PhaseAllocation
	}
	return p
}

// Terminal reports whether the battle has ended.
func (e *Engine) Terminal() bool { return e.Phase() == models.PhaseBattleEnd }

// Winner is NoSide until the battle ends.
func (e *Engine) Winner() models.Side { return e.winner }

// Round is the current round, starting at 1.
func (e *Engine) Round() int { return e.round }

// Intent is the opponent's action for the current round.
func (e *Engine) Intent() models.Action { return e.intent }

// MaxPoints is the current pool size.
func (e *Engine) MaxPoints() float64 { return e.maxPoints }

// Variant is the opponent variant name.
func (e *Engine) Variant() string { return e.policy.Variant() }

// Log returns every line logged so far.
func (e *Engine) Log() []string {
	return append([]string(nil), e.log.all...)
}

// Drain returns the log lines and events produced outside a commit, such as
// the opening round's intent. Events are handed to the listener.
func (e *Engine) Drain() ([]string, []Event) {
	return e.log.take(), e.flush()
}

// State returns a deep copy of the whole battle state.
func (e *Engine) State() models.Snapshot {
	return models.Snapshot{
		Variant:      e.policy.Variant(),
		Round:        e.round,
		Phase:        e.Phase(),
		MaxPoints:    e.maxPoints,
		Player:       e.player.Clone(),
		Enemy:        e.enemy.Clone(),
		HealCooldown: e.healCooldown,
		UltimateUsed: e.ultimateUsed,
		History:      e.history.Clone(),
		Intent:       e.intent,
		Winner:       e.winner,
		HealthBonus:  e.healthBonus,
		LastLog:      e.log.last,
		Log:          e.Log(),
		Allocations:  append([]models.Allocation(nil), e.allocations...),
	}
}

// CommitResult describes one fully resolved round.
type CommitResult struct {
	Round      int
	Projection Projection
	Log        []string
	Events     []Event
	Player     models.Combatant
	Enemy      models.Combatant
	Winner     models.Side
	Terminal   bool
}

// Commit resolves one round with the given allocation. A rejected allocation
// leaves the battle untouched.
func (e *Engine) Commit(yang, yin float64) (CommitResult, error) {
	if e.Terminal() {
		return CommitResult{}, ErrAlreadyTerminal
	}
	alloc := models.Allocation{Yang: yang, Yin: yin}
	if err := e.validate(alloc); err != nil {
		return CommitResult{}, err
	}
	proj := e.project(alloc)
	if proj.Locked {
		return CommitResult{}, fmt.Errorf("%w: %s needs %d %s triggers, have %d",
			ErrLockedStateAttempt, proj.State, proj.Threshold, proj.State.CriticalFor(), proj.Progress)
	}

	round := e.round
	e.allocations = append(e.allocations, alloc)
	slog.Debug("commit", "round", round, "yang", yang, "yin", yin, "state", proj.State)

	if err := e.resolveRound(alloc, proj); err != nil {
		return CommitResult{}, err
	}

	return CommitResult{
		Round:      round,
		Projection: proj,
		Log:        e.log.take(),
		Events:     e.flush(),
		Player:     e.player.Clone(),
		Enemy:      e.enemy.Clone(),
		Winner:     e.winner,
		Terminal:   e.Terminal(),
	}, nil
}

func (e *Engine) resolveRound(alloc models.Allocation, proj Projection) error {
	if err := e.transition(evResolve); err != nil {
		return err
	}
	e.playerTurn(alloc, proj)
	if ended, err := e.checkEnd(models.Enemy); ended || err != nil {
		return err
	}

	if err := e.transition(evOpponent); err != nil {
		return err
	}
	e.enemyTurn()
	if ended, err := e.checkEnd(models.Player); ended || err != nil {
		return err
	}

	if err := e.transition(evCleanup); err != nil {
		return err
	}
	e.cleanup(alloc)
	if err := e.transition(evNext); err != nil {
		return err
	}
	e.startRound()
	return nil
}

func (e *Engine) validate(a models.Allocation) error {
	for _, v := range []float64{a.Yang, a.Yin} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: yang and yin must be non-negative numbers", ErrInvalidAllocation)
		}
	}
	if a.Spent() > e.maxPoints+allocationSlack {
		return fmt.Errorf("%w: spent %g of %g points", ErrInvalidAllocation, a.Spent(), e.maxPoints)
	}
	return nil
}

// checkEnd ends the battle when a side is down. If both are down the
// defender of the step that just resolved loses.
func (e *Engine) checkEnd(defender models.Side) (bool, error) {
	pd, ed := e.player.IsDead(), e.enemy.IsDead()
	var loser models.Side
	switch {
	case pd && ed:
		loser = defender
	case pd:
		loser = models.Player
	case ed:
		loser = models.Enemy
	default:
		return false, nil
	}

	e.winner = loser.Opponent()
	if err := e.transition(evEnd); err != nil {
		return true, err
	}
	e.intent = models.ActionNone
	if e.winner == models.Player {
		e.log.add("%s is defeated. You win!", e.enemy.Name)
	} else {
		e.log.add("You have fallen. %s wins.", e.enemy.Name)
	}
	e.emit(Event{Kind: EventBattleEnded, Side: e.winner})
	slog.Info("battle ended", "winner", e.winner, "round", e.round)
	return true, nil
}
