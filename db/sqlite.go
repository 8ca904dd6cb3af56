package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jsphweid/chordstave/model"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS scores (
	id         TEXT PRIMARY KEY,
	music_key  TEXT NOT NULL,
	time_sig   TEXT NOT NULL,
	mode       TEXT NOT NULL,
	num_chords INTEGER NOT NULL,
	svg        TEXT NOT NULL,
	warnings   TEXT NOT NULL DEFAULT '[]',
	created_at TEXT NOT NULL
);`

type SQLite struct {
	db *sql.DB
}

// NewSQLite opens the database at path, creating the schema if needed. The
// path can be ":memory:" for an in-memory database.
func NewSQLite(path string) (*SQLite, error) {
	if path == "" {
		return nil, errors.New("sqlite store needs a path")
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	// in-memory databases are per connection
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Save(ctx context.Context, score model.StoredScore) error {
	warnings, err := json.Marshal(score.Warnings)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO scores (id, music_key, time_sig, mode, num_chords, svg, warnings, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		score.Id, score.Key, score.Time, score.Mode, score.NumChords, score.SVG,
		string(warnings), score.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to save score %s: %w", score.Id, err)
	}
	return nil
}

func (s *SQLite) Load(ctx context.Context, id string) (model.StoredScore, error) {
	var (
		score     model.StoredScore
		warnings  string
		createdAt string
	)
	row := s.db.QueryRowContext(ctx,
		`SELECT id, music_key, time_sig, mode, num_chords, svg, warnings, created_at
		 FROM scores WHERE id = ?`, id)
	err := row.Scan(&score.Id, &score.Key, &score.Time, &score.Mode, &score.NumChords, &score.SVG, &warnings, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return score, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return score, fmt.Errorf("failed to load score %s: %w", id, err)
	}

	if err := json.Unmarshal([]byte(warnings), &score.Warnings); err != nil {
		return score, fmt.Errorf("score %s has corrupt warnings: %w", id, err)
	}
	score.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return score, fmt.Errorf("score %s has corrupt timestamp: %w", id, err)
	}
	return score, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
