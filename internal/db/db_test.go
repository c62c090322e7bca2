package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// newTestDB opens a fresh mirror in a temp dir. Callers close it.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "uranus.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return db
}

func TestNew_CreatesFileAndParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "mirror", "uranus.db")

	db, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer db.Close()

	if db.Path() != path {
		t.Errorf("Path() = %q, want %q", db.Path(), path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("database file missing: %v", err)
	}
}

func TestNew_SchemaAndPragmas(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	var name string
	if err := db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'inference_calls'").Scan(&name); err != nil {
		t.Fatalf("inference_calls table missing: %v", err)
	}

	var mode string
	if err := db.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatal(err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}

	version, err := db.SchemaVersion()
	if err != nil {
		t.Fatalf("SchemaVersion: %v", err)
	}
	if version != len(migrations) {
		t.Errorf("SchemaVersion() = %d, want %d", version, len(migrations))
	}
}

func TestNew_ReopenKeepsRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uranus.db")
	ctx := context.Background()

	db, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.ExecContext(ctx,
		"INSERT INTO inference_calls (record_id, timestamp, model_id) VALUES ('r1', '2026-01-02 03:04:05', 'm')"); err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db, err = New(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()

	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM inference_calls").Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("rows after reopen = %d, want 1", n)
	}
}

// Rows written before timestamps were normalized get rewritten by the
// first migration.
func TestMigrate_NormalizesTimestamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uranus.db")
	ctx := context.Background()

	db, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, q := range []string{
		"INSERT INTO inference_calls (record_id, timestamp, model_id) VALUES ('r1', '2025-01-02T03:04:05.678Z', 'm')",
		"PRAGMA user_version = 0",
	} {
		if _, err := db.ExecContext(ctx, q); err != nil {
			t.Fatalf("%s: %v", q, err)
		}
	}
	db.Close()

	db, err = New(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()

	var ts string
	if err := db.QueryRowContext(ctx, "SELECT timestamp FROM inference_calls WHERE record_id = 'r1'").Scan(&ts); err != nil {
		t.Fatal(err)
	}
	if ts != "2025-01-02 03:04:05" {
		t.Errorf("timestamp = %q, want 2025-01-02 03:04:05", ts)
	}
}

func TestVacuumAndClose(t *testing.T) {
	db := newTestDB(t)

	if err := db.Vacuum(context.Background()); err != nil {
		t.Errorf("Vacuum: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if _, err := db.QueryContext(context.Background(), "SELECT 1"); err == nil {
		t.Error("queries after Close should fail")
	}
}
