// Package balance stores simulated battle outcomes in SQLite and aggregates
// win rates per opponent variant.
package balance

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tatianab/qi-duel/internal/models"
)

//go:embed schema.sql
var schema string

// Result is one finished simulated battle.
type Result struct {
	Variant      string
	Strategist   string
	Winner       models.Side
	Rounds       int
	PlayerHealth int
	EnemyHealth  int
	UltimateUsed bool
	FinishedAt   time.Time
}

// ResultFromSnapshot summarizes a finished battle.
func ResultFromSnapshot(s models.Snapshot, strategist string) Result {
	return Result{
		Variant:      s.Variant,
		Strategist:   strategist,
		Winner:       s.Winner,
		Rounds:       s.Round,
		PlayerHealth: s.Player.Health,
		EnemyHealth:  s.Enemy.Health,
		UltimateUsed: s.UltimateUsed,
	}
}

// WinRate aggregates results for one variant and strategist.
type WinRate struct {
	Variant    string
	Strategist string
	Battles    int
	PlayerWins int
	AvgRounds  float64
}

// Rate is the player's share of wins.
func (w WinRate) Rate() float64 {
	if w.Battles == 0 {
		return 0
	}
	return float64(w.PlayerWins) / float64(w.Battles)
}

// Store persists results in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens the store at path and creates the schema. ":memory:" is allowed.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := path
	if path != ":memory:" {
		dsn = filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection serializes writers and keeps ":memory:" a single database.
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Insert records one result.
func (s *Store) Insert(ctx context.Context, r Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.Variant == "" {
		return fmt.Errorf("variant is required")
	}
	if r.Strategist == "" {
		return fmt.Errorf("strategist is required")
	}
	finishedAt := r.FinishedAt.UTC()
	if finishedAt.IsZero() {
		finishedAt = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO battles (
		   variant,
		   strategist,
		   winner,
		   rounds,
		   player_health,
		   enemy_health,
		   ultimate_used,
		   finished_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Variant,
		r.Strategist,
		r.Winner.String(),
		r.Rounds,
		r.PlayerHealth,
		r.EnemyHealth,
		r.UltimateUsed,
		finishedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert battle: %w", err)
	}
	return nil
}

// WinRates aggregates every stored result by variant and strategist.
func (s *Store) WinRates(ctx context.Context) ([]WinRate, error) {
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT variant,
		        strategist,
		        COUNT(*),
		        SUM(CASE WHEN winner = ? THEN 1 ELSE 0 END),
		        AVG(rounds)
		   FROM battles
		  GROUP BY variant, strategist
		  ORDER BY variant, strategist`,
		models.Player.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("query win rates: %w", err)
	}
	defer rows.Close()

	var out []WinRate
	for rows.Next() {
		var w WinRate
		if err := rows.Scan(&w.Variant, &w.Strategist, &w.Battles, &w.PlayerWins, &w.AvgRounds); err != nil {
			return nil, fmt.Errorf("scan win rate: %w", err)
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate win rates: %w", err)
	}
	return out, nil
}
