// Package db mirrors telemetry records into SQLite for time-bucketed queries.
// The JSONL log stays the source of truth; the mirror can be rebuilt from it.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// pragmas are applied to every connection before the schema is touched.
var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA temp_store=MEMORY",
	"PRAGMA cache_size=-16000", // 16MB
}

const schema = `
CREATE TABLE IF NOT EXISTS inference_calls (
	record_id     TEXT PRIMARY KEY,
	timestamp     TEXT NOT NULL,
	model_id      TEXT NOT NULL,
	model_label   TEXT NOT NULL DEFAULT '',
	model_type    TEXT NOT NULL DEFAULT 'text',
	input_type    TEXT NOT NULL DEFAULT 'audio',
	success       INTEGER NOT NULL DEFAULT 0,
	error         TEXT,
	input_tokens  INTEGER DEFAULT 0,
	output_tokens INTEGER DEFAULT 0,
	total_tokens  INTEGER DEFAULT 0,
	latency_ms    INTEGER DEFAULT 0,
	cost_usd      REAL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_inference_calls_timestamp ON inference_calls(timestamp);
CREATE INDEX IF NOT EXISTS idx_inference_calls_model ON inference_calls(model_id);
`

// DB is the SQLite mirror. The embedded *sql.DB is exposed for tests and
// ad-hoc queries.
type DB struct {
	*sql.DB
	path string
}

// New opens or creates the mirror at path, creating parent directories,
// and brings its schema up to date.
func New(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db := &DB{DB: sqlDB, path: path}

	ctx := context.Background()
	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{"connect", db.PingContext},
		{"configure", db.configure},
		{"create schema", db.exec(schema)},
		{"migrate", db.migrate},
	}
	for _, step := range steps {
		if err := step.run(ctx); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("database %s failed: %w", step.name, err)
		}
	}

	return db, nil
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

func (db *DB) configure(ctx context.Context) error {
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("%s: %w", pragma, err)
		}
	}
	return nil
}

func (db *DB) exec(query string) func(context.Context) error {
	return func(ctx context.Context) error {
		_, err := db.ExecContext(ctx, query)
		return err
	}
}

// Close checkpoints the WAL and closes the connection.
func (db *DB) Close() error {
	_, _ = db.ExecContext(context.Background(), "PRAGMA wal_checkpoint(TRUNCATE)")
	return db.DB.Close()
}

// Vacuum rebuilds the database file to reclaim space.
func (db *DB) Vacuum(ctx context.Context) error {
	_, err := db.ExecContext(ctx, "VACUUM")
	return err
}
