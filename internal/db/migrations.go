package db

import (
	"context"
	"fmt"
)

// migrations are applied in order; PRAGMA user_version records how many ran.
var migrations = []string{
	// RFC 3339 timestamps ("2025-01-02T03:04:05.678Z") do not compare with
	// datetime('now', ...); store them as "2025-01-02 03:04:05".
	`UPDATE inference_calls
	 SET timestamp = REPLACE(SUBSTR(timestamp, 1, 19), 'T', ' ')
	 WHERE timestamp LIKE '____-__-__T%'`,

	`CREATE INDEX IF NOT EXISTS idx_inference_calls_input_type ON inference_calls(input_type)`,
}

// migrate applies the migrations past PRAGMA user_version.
func (db *DB) migrate(ctx context.Context) error {
	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for i := version; i < len(migrations); i++ {
		if _, err := db.ExecContext(ctx, migrations[i]); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
		// PRAGMA does not accept bound parameters.
		if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			return fmt.Errorf("failed to record schema version: %w", err)
		}
	}

	return nil
}

// SchemaVersion returns the number of applied migrations.
func (db *DB) SchemaVersion() (int, error) {
	var version int
	err := db.QueryRowContext(context.Background(), "PRAGMA user_version").Scan(&version)
	return version, err
}
