package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/j-veylop/uranus/internal/logger"
	"github.com/j-veylop/uranus/internal/models"
)

const insertCallQuery = `
	INSERT OR IGNORE INTO inference_calls (
		record_id, timestamp, model_id, model_label, model_type, input_type,
		success, error, input_tokens, output_tokens, total_tokens, latency_ms, cost_usd
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// CallFromRecord flattens a telemetry record into a row.
func CallFromRecord(rec models.TelemetryRecord) models.InferenceCall {
	ts, err := time.Parse(time.RFC3339Nano, rec.Timestamp)
	if err != nil {
		ts = time.Now()
	}
	res := rec.Result
	return models.InferenceCall{
		Timestamp:    ts.UTC(),
		ID:           rec.ID,
		ModelID:      res.ModelID,
		ModelLabel:   res.ModelLabel,
		ModelType:    string(res.ModelType),
		InputType:    string(rec.Input.Type),
		Error:        res.Error,
		InputTokens:  res.Usage.InputTokens,
		OutputTokens: res.Usage.OutputTokens,
		TotalTokens:  res.Usage.TotalTokens,
		LatencyMs:    res.LatencyMs,
		CostUSD:      res.Usage.EstimatedCostUSD,
		Success:      res.Success,
	}
}

func insertCall(ctx context.Context, ex execer, call models.InferenceCall) error {
	_, err := ex.ExecContext(ctx, insertCallQuery,
		call.ID,
		call.Timestamp.UTC().Format(sqlTimeLayout),
		call.ModelID,
		call.ModelLabel,
		call.ModelType,
		call.InputType,
		call.Success,
		nullString(call.Error),
		call.InputTokens,
		call.OutputTokens,
		call.TotalTokens,
		call.LatencyMs,
		call.CostUSD,
	)
	return err
}

// InsertRecord mirrors one record. Records already present are ignored.
func (db *DB) InsertRecord(ctx context.Context, rec models.TelemetryRecord) error {
	if err := insertCall(ctx, db, CallFromRecord(rec)); err != nil {
		return fmt.Errorf("failed to insert inference call: %w", err)
	}
	return nil
}

// InsertRecords mirrors records in one transaction and returns how many
// rows were new.
func (db *DB) InsertRecords(ctx context.Context, recs []models.TelemetryRecord) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var before int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM inference_calls").Scan(&before); err != nil {
		return 0, fmt.Errorf("failed to count inference calls: %w", err)
	}

	for _, rec := range recs {
		if err := insertCall(ctx, tx, CallFromRecord(rec)); err != nil {
			return 0, fmt.Errorf("failed to insert inference call %s: %w", rec.ID, err)
		}
	}

	var after int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM inference_calls").Scan(&after); err != nil {
		return 0, fmt.Errorf("failed to count inference calls: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit inference calls: %w", err)
	}
	return after - before, nil
}

// GetRecentCalls returns the most recent inference calls.
func (db *DB) GetRecentCalls(limit int) ([]models.InferenceCall, error) {
	query := `
		SELECT record_id, timestamp, model_id, model_label, model_type, input_type,
			   success, error, input_tokens, output_tokens, total_tokens, latency_ms, cost_usd
		FROM inference_calls
		ORDER BY timestamp DESC, rowid DESC
		LIMIT ?
	`

	rows, err := db.QueryContext(context.Background(), query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent inference calls: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var calls []models.InferenceCall
	for rows.Next() {
		var call models.InferenceCall
		var ts string
		var errStr sql.NullString

		err := rows.Scan(
			&call.ID,
			&ts,
			&call.ModelID,
			&call.ModelLabel,
			&call.ModelType,
			&call.InputType,
			&call.Success,
			&errStr,
			&call.InputTokens,
			&call.OutputTokens,
			&call.TotalTokens,
			&call.LatencyMs,
			&call.CostUSD,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inference call: %w", err)
		}

		call.Timestamp, _ = time.Parse(sqlTimeLayout, ts)
		call.Error = errStr.String
		calls = append(calls, call)
	}

	return calls, rows.Err()
}

// GetHourlyStats returns statistics for the last hours, newest hour first.
func (db *DB) GetHourlyStats(hours int) ([]models.HourlyStats, error) {
	query := `
		SELECT
			strftime('%Y-%m-%d %H:00:00', timestamp) as hour,
			COUNT(*) as total_calls,
			COALESCE(SUM(total_tokens), 0) as total_tokens,
			COALESCE(SUM(cost_usd), 0) as cost,
			COALESCE(AVG(latency_ms), 0) as avg_latency,
			COALESCE(SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END), 0) as failed
		FROM inference_calls
		` + sqlSinceClause + `
		GROUP BY hour
		ORDER BY hour DESC
	`

	rows, err := db.QueryContext(context.Background(), query, fmt.Sprintf("-%d hours", hours))
	if err != nil {
		return nil, fmt.Errorf("failed to query hourly stats: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("failed to close rows", "error", err)
		}
	}()

	stats := make([]models.HourlyStats, 0)
	for rows.Next() {
		var s models.HourlyStats
		var hourStr string

		err := rows.Scan(
			&hourStr,
			&s.TotalCalls,
			&s.TotalTokens,
			&s.CostUSD,
			&s.AvgLatencyMs,
			&s.FailedCalls,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan hourly stats: %w", err)
		}

		s.Hour, _ = time.Parse(sqlTimeLayout, hourStr)
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

// GetTotalStats returns overall aggregated statistics.
func (db *DB) GetTotalStats() (*models.TotalStats, error) {
	query := `
		SELECT
			COUNT(*) as total_calls,
			COALESCE(SUM(input_tokens), 0) as total_input,
			COALESCE(SUM(output_tokens), 0) as total_output,
			COALESCE(SUM(cost_usd), 0) as cost,
			COALESCE(AVG(latency_ms), 0) as avg_latency,
			COALESCE(SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END), 0) as failed,
			COUNT(DISTINCT model_id) as unique_models
		FROM inference_calls
	`

	var stats models.TotalStats
	err := db.QueryRowContext(context.Background(), query).Scan(
		&stats.TotalCalls,
		&stats.TotalInputTokens,
		&stats.TotalOutputTokens,
		&stats.CostUSD,
		&stats.AvgLatencyMs,
		&stats.FailedCalls,
		&stats.UniqueModels,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query total stats: %w", err)
	}

	return &stats, nil
}

// Name identifies the mirror in sink logs.
func (db *DB) Name() string { return "sqlite" }

// Emit mirrors a freshly stored record.
func (db *DB) Emit(ctx context.Context, rec models.TelemetryRecord) error {
	return db.InsertRecord(ctx, rec)
}

// nullString returns a sql.NullString from a string.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
