// Package telemetry records inference outcomes in an append-only JSONL log
// and serves aggregated views over them.
package telemetry

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/j-veylop/uranus/internal/logger"
	"github.com/j-veylop/uranus/internal/models"
)

// ErrPersist is returned by Record when the log append failed. The record is
// still part of the in-memory index.
var ErrPersist = errors.New("telemetry persistence failed")

// TimestampLayout is the format of TelemetryRecord.Timestamp.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Store owns the in-memory record index and is the only writer of the log.
//
// Record appends to the index first and then to the log, holding writeMu for
// both steps so concurrent writers never interleave lines. Readers only take
// mu for the instant needed to copy the slice header; the index is append-only
// so a captured slice stays valid without further locking.
type Store struct {
	path  string
	sinks []Sink
	now   func() time.Time
	newID func() string

	writeMu sync.Mutex

	mu      sync.RWMutex
	records []models.TelemetryRecord
}

// Option configures a Store.
type Option func(*Store)

// WithSinks registers sinks that receive every stored record.
func WithSinks(sinks ...Sink) Option {
	return func(s *Store) {
		s.sinks = append(s.sinks, sinks...)
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDGenerator overrides the record id generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		s.newID = fn
	}
}

// NewStore creates an empty store backed by the log at path.
func NewStore(path string, opts ...Option) *Store {
	s := &Store{
		path:    path,
		now:     time.Now,
		newID:   uuid.NewString,
		records: make([]models.TelemetryRecord, 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the log file path.
func (s *Store) Path() string {
	return s.path
}

// AddSink registers an additional sink.
func (s *Store) AddSink(sink Sink) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.sinks = append(s.sinks, sink)
}

// Record stores one completed inference and returns the created record.
// A log failure is reported as ErrPersist; the record remains indexed.
func (s *Store) Record(ctx context.Context, input models.InputDescriptor, outcome models.InferenceOutcome) (models.TelemetryRecord, error) {
	// Stamping under writeMu keeps the index and the log in timestamp order.
	s.writeMu.Lock()
	rec := models.TelemetryRecord{
		ID:        s.newID(),
		Timestamp: s.now().UTC().Format(TimestampLayout),
		Input:     input,
		Result:    outcome,
	}

	line, err := json.Marshal(rec)
	if err != nil {
		s.writeMu.Unlock()
		return rec, fmt.Errorf("failed to encode telemetry record: %w", err)
	}
	line = append(line, '\n')

	s.mu.Lock()
	s.records = append(s.records, rec)
	s.mu.Unlock()

	err = s.appendLine(line)
	if err != nil {
		logger.Warn("telemetry append failed, retrying", "path", s.path, "error", err)
		err = s.appendLine(line)
	}
	sinks := s.sinks
	s.writeMu.Unlock()

	if err != nil {
		logger.Error("telemetry record not persisted", "id", rec.ID, "path", s.path, "error", err)
		return rec, fmt.Errorf("%w: %w", ErrPersist, err)
	}

	for _, sink := range sinks {
		if err := sink.Emit(ctx, rec); err != nil {
			logger.Warn("telemetry sink failed", "sink", sink.Name(), "id", rec.ID, "error", err)
		}
	}

	return rec, nil
}

func (s *Store) appendLine(line []byte) error {
	if dir := filepath.Dir(s.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create telemetry directory: %w", err)
		}
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return fmt.Errorf("failed to open telemetry log: %w", err)
	}

	if _, err := f.Write(line); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to append telemetry record: %w", err)
	}
	return f.Close()
}

// Load replaces the index with the records in the log, in file order, and
// returns how many were loaded. A missing log is an empty store. Lines that
// cannot be decoded are skipped with a warning.
func (s *Store) Load(ctx context.Context) (int, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("no existing telemetry log", "path", s.path)
			s.replace(make([]models.TelemetryRecord, 0))
			return 0, nil
		}
		return 0, fmt.Errorf("failed to open telemetry log: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Error("failed to close telemetry log", "error", err)
		}
	}()

	records, skipped, err := readRecords(ctx, f)
	if err != nil {
		return 0, err
	}

	s.replace(records)
	logger.Info("loaded telemetry records", "path", s.path, "count", len(records), "skipped", skipped)
	return len(records), nil
}

func readRecords(ctx context.Context, r io.Reader) ([]models.TelemetryRecord, int, error) {
	reader := bufio.NewReader(r)
	records := make([]models.TelemetryRecord, 0)
	skipped := 0

	for lineNo := 1; ; lineNo++ {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}

		line, readErr := reader.ReadBytes('\n')
		if len(bytes.TrimSpace(line)) > 0 {
			rec, err := decodeRecord(line)
			if err != nil {
				skipped++
				logger.Warn("skipping corrupt telemetry line", "line", lineNo, "error", err)
			} else {
				records = append(records, rec)
			}
		}

		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, 0, fmt.Errorf("failed to read telemetry log: %w", readErr)
		}
	}

	return records, skipped, nil
}

func (s *Store) replace(records []models.TelemetryRecord) {
	s.mu.Lock()
	s.records = records
	s.mu.Unlock()
}

// view returns the current index. Callers must not modify it.
func (s *Store) view() []models.TelemetryRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records[:len(s.records):len(s.records)]
}

// Records returns a copy of every record in insertion order.
func (s *Store) Records() []models.TelemetryRecord {
	v := s.view()
	out := make([]models.TelemetryRecord, len(v))
	copy(out, v)
	return out
}

// Len returns the number of indexed records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Recent returns up to n records, most recent first.
func (s *Store) Recent(n int) []models.TelemetryRecord {
	return Recent(s.view(), n)
}

// Snapshot aggregates the current index.
func (s *Store) Snapshot(f Filter) models.Snapshot {
	return Aggregate(s.view(), f)
}
