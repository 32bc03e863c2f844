// Package storage provides the in-memory results board for finished games.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
// The database lives in memory for the lifetime of the process and is never
// written to disk.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// defaultLimit is used when a query asks for a non-positive number of rows.
const defaultLimit = 10

// Store manages the SQLite connection holding the results board.
type Store struct {
	db *sql.DB
}

// Result is one finished game.
type Result struct {
	ID        int64
	RunID     string // Unique run identifier, assigned on save
	GameID    string
	Session   string // Player session that produced the result
	Score     int    // Final score including TimeBonus
	Won       bool
	Moves     int
	TimeLeft  int
	TimeBonus int
	CreatedAt time.Time
}

// Stats contains aggregated statistics for a game.
type Stats struct {
	GameID     string
	Games      int
	Wins       int
	BestScore  int
	AvgScore   float64
	AvgMoves   float64
	LastPlayed time.Time
}

// Open creates an empty in-memory results board.
func Open() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Every connection to :memory: is a separate database, so keep exactly one
	// and never let it expire.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL UNIQUE,
			game_id TEXT NOT NULL,
			session TEXT NOT NULL DEFAULT '',
			score INTEGER NOT NULL,
			won INTEGER NOT NULL DEFAULT 0,
			moves INTEGER NOT NULL DEFAULT 0,
			time_left INTEGER NOT NULL DEFAULT 0,
			time_bonus INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_results_top ON results(game_id, score DESC);
		CREATE INDEX IF NOT EXISTS idx_results_session ON results(session);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection and discards all results.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveResult records a finished game and returns it with ID, RunID and
// CreatedAt filled in.
func (s *Store) SaveResult(r Result) (Result, error) {
	if r.GameID == "" {
		return Result{}, errors.New("storage: result has no game id")
	}
	if r.RunID == "" {
		r.RunID = xid.New().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	res, err := s.db.Exec(
		`INSERT INTO results
		 (run_id, game_id, session, score, won, moves, time_left, time_bonus, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.GameID, r.Session, r.Score, r.Won, r.Moves, r.TimeLeft, r.TimeBonus,
		r.CreatedAt.UnixNano(),
	)
	if err != nil {
		return Result{}, fmt.Errorf("storage: cannot save result: %w", err)
	}

	r.ID, err = res.LastInsertId()
	if err != nil {
		return Result{}, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return r, nil
}

const resultColumns = `id, run_id, game_id, session, score, won, moves, time_left, time_bonus, created_at`

// TopResults retrieves the best N results for the given game.
// Ties keep the earlier result first.
func (s *Store) TopResults(gameID string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	return s.queryResults(
		`SELECT `+resultColumns+`
		 FROM results
		 WHERE game_id = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		gameID, limit,
	)
}

// SessionResults retrieves the most recent results of one session.
func (s *Store) SessionResults(session string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	return s.queryResults(
		`SELECT `+resultColumns+`
		 FROM results
		 WHERE session = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		session, limit,
	)
}

func (s *Store) queryResults(query string, args ...any) ([]Result, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query results: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var createdAt int64
		if err := rows.Scan(
			&r.ID, &r.RunID, &r.GameID, &r.Session, &r.Score, &r.Won,
			&r.Moves, &r.TimeLeft, &r.TimeBonus, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = time.Unix(0, createdAt)
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// BestScore returns the highest score for the given game.
// Returns 0 if no results exist.
func (s *Store) BestScore(gameID string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM results WHERE game_id = ?",
		gameID,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query best score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// Stats retrieves aggregated statistics for a specific game.
func (s *Store) Stats(gameID string) (Stats, error) {
	stats := Stats{GameID: gameID}

	var lastPlayed sql.NullInt64
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(won), 0), COALESCE(MAX(score), 0),
		        COALESCE(AVG(score), 0), COALESCE(AVG(moves), 0), MAX(created_at)
		 FROM results WHERE game_id = ?`,
		gameID,
	).Scan(&stats.Games, &stats.Wins, &stats.BestScore, &stats.AvgScore, &stats.AvgMoves, &lastPlayed)
	if err != nil {
		return Stats{}, fmt.Errorf("storage: cannot get game stats: %w", err)
	}

	if lastPlayed.Valid {
		stats.LastPlayed = time.Unix(0, lastPlayed.Int64)
	}
	return stats, nil
}

// Clear deletes all results for the given game.
func (s *Store) Clear(gameID string) error {
	_, err := s.db.Exec("DELETE FROM results WHERE game_id = ?", gameID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear results: %w", err)
	}
	return nil
}
