package save

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/tomz197/blackwall/internal/game"
)

// SQLiteStore keeps one save per player in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// Compile-time check that SQLiteStore implements Store.
var _ Store = (*SQLiteStore)(nil)

// RankedSave is one leaderboard row.
type RankedSave struct {
	Player    string
	Bank      float64
	UpdatedAt time.Time
}

// OpenSQLite opens (and if needed creates) the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// SQLite serializes writers; one connection avoids SQLITE_BUSY between sessions.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func createSchema(db *sql.DB) error {
	schemas := []string{
		`CREATE TABLE IF NOT EXISTS saves (
			player TEXT PRIMARY KEY,
			version INTEGER NOT NULL,
			payload TEXT NOT NULL,
			bank REAL NOT NULL DEFAULT 0,
			updated_at DATETIME NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_saves_bank ON saves(bank DESC);`,
	}
	for _, query := range schemas {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save upserts the snapshot for player.
func (s *SQLiteStore) Save(ctx context.Context, player string, snap game.Snapshot) error {
	var payload strings.Builder
	if err := Encode(&payload, snap); err != nil {
		return fmt.Errorf("failed to encode save: %w", err)
	}

	query := `
		INSERT INTO saves (player, version, payload, bank, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(player) DO UPDATE SET
			version = excluded.version,
			payload = excluded.payload,
			bank = excluded.bank,
			updated_at = excluded.updated_at
	`
	_, err := s.db.ExecContext(ctx, query, player, snap.Version, payload.String(), snap.Bank, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", player, err)
	}
	return nil
}

// Load returns the snapshot for player, ErrNotFound when there is none, or
// ErrVersionMismatch when it was written by another version.
func (s *SQLiteStore) Load(ctx context.Context, player string) (game.Snapshot, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM saves WHERE player = ?`, player).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return game.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return game.Snapshot{}, fmt.Errorf("failed to load %s: %w", player, err)
	}

	snap, err := Decode(strings.NewReader(payload))
	if err != nil {
		return game.Snapshot{}, fmt.Errorf("decode save of %s: %w", player, err)
	}
	return snap, nil
}

// Top returns the n richest current-version saves.
func (s *SQLiteStore) Top(ctx context.Context, n int) ([]RankedSave, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT player, bank, updated_at FROM saves WHERE version = ? ORDER BY bank DESC, player ASC LIMIT ?`,
		game.SaveVersion, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var out []RankedSave
	for rows.Next() {
		var r RankedSave
		if err := rows.Scan(&r.Player, &r.Bank, &r.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
