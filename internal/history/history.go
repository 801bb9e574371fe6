// Package history keeps an audit log of solved comparisons in SQLite.
// Solvers never read from it; every solve builds its tables from scratch.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/eugenenazirov/change-maker/internal/change"
)

const defaultLimit = 10

// Entry is one recorded comparison.
type Entry struct {
	ID              int64     `json:"id"`
	Target          int       `json:"target"`
	Denominations   []int     `json:"denominations"`
	OptimalCount    int       `json:"optimalCount"`
	OptimalCoins    []int     `json:"optimalCoins"`
	GreedyCount     int       `json:"greedyCount"`
	GreedyRemainder int       `json:"greedyRemainder"`
	CreatedAt       time.Time `json:"createdAt"`
}

// NewEntry captures a comparison at the given time.
func NewEntry(cmp change.Comparison, at time.Time) Entry {
	return Entry{
		Target:          cmp.Target,
		Denominations:   cmp.Denominations,
		OptimalCount:    cmp.Optimal.Count,
		OptimalCoins:    cmp.Optimal.Coins,
		GreedyCount:     cmp.Greedy.Count,
		GreedyRemainder: cmp.Greedy.Remainder,
		CreatedAt:       at.UTC(),
	}
}

// Store records comparisons and lists the most recent ones.
type Store interface {
	Record(ctx context.Context, entry Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
	Close() error
}

// Nop is a Store that drops every entry. It is used when no history path is configured.
type Nop struct{}

func (Nop) Record(context.Context, Entry) error { return nil }

func (Nop) Recent(context.Context, int) ([]Entry, error) { return []Entry{}, nil }

func (Nop) Close() error { return nil }

// SQLiteStore persists entries in a SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and ensures the schema exists.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS solves (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		target INTEGER NOT NULL,
		denominations TEXT NOT NULL,
		optimal_count INTEGER NOT NULL,
		optimal_coins TEXT NOT NULL,
		greedy_count INTEGER NOT NULL,
		greedy_remainder INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_solves_created_at ON solves(created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Record inserts one entry.
func (s *SQLiteStore) Record(ctx context.Context, entry Entry) error {
	denominations, err := json.Marshal(entry.Denominations)
	if err != nil {
		return fmt.Errorf("marshal denominations: %w", err)
	}
	coins, err := json.Marshal(entry.OptimalCoins)
	if err != nil {
		return fmt.Errorf("marshal optimal coins: %w", err)
	}

	query := `
		INSERT INTO solves (target, denominations, optimal_count, optimal_coins, greedy_count, greedy_remainder, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := s.db.ExecContext(ctx, query,
		entry.Target, string(denominations), entry.OptimalCount, string(coins),
		entry.GreedyCount, entry.GreedyRemainder, entry.CreatedAt.UTC(),
	); err != nil {
		return fmt.Errorf("insert solve: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first. A non-positive limit
// falls back to 10.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	query := `
		SELECT id, target, denominations, optimal_count, optimal_coins, greedy_count, greedy_remainder, created_at
		FROM solves
		ORDER BY id DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query solves: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var (
			entry         Entry
			denominations string
			coins         string
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.Target,
			&denominations,
			&entry.OptimalCount,
			&coins,
			&entry.GreedyCount,
			&entry.GreedyRemainder,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan solve: %w", err)
		}
		if err := json.Unmarshal([]byte(denominations), &entry.Denominations); err != nil {
			return nil, fmt.Errorf("decode denominations of solve %d: %w", entry.ID, err)
		}
		if err := json.Unmarshal([]byte(coins), &entry.OptimalCoins); err != nil {
			return nil, fmt.Errorf("decode coins of solve %d: %w", entry.ID, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate solves: %w", err)
	}

	return entries, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
