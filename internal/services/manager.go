// Package services provides service orchestration for the TUI.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"github.com/j-veylop/uranus/internal/config"
	"github.com/j-veylop/uranus/internal/db"
	"github.com/j-veylop/uranus/internal/logger"
	"github.com/j-veylop/uranus/internal/models"
	"github.com/j-veylop/uranus/internal/telemetry"
)

const (
	// alertSuccessRate is the success percentage below which an alert fires.
	alertSuccessRate = 80.0
	// alertMinRequests is the sample size needed before alerting.
	alertMinRequests = 5
)

// ErrNoMirror is returned by history queries when the SQLite mirror is off.
var ErrNoMirror = errors.New("SQLite mirror is disabled (DATABASE_PATH is empty)")

type (
	// TelemetryUpdatedEvent is emitted after the store was reloaded from the log.
	TelemetryUpdatedEvent struct {
		Records int
	}

	// AlertEvent is emitted when the success rate drops below the threshold.
	AlertEvent struct {
		Title string
		Body  string
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (TelemetryUpdatedEvent) isServiceEvent() {}
func (AlertEvent) isServiceEvent()            {}
func (ErrorEvent) isServiceEvent()            {}

// Notifier shows a desktop notification.
type Notifier func(title, body string) error

func desktopNotify(title, body string) error {
	return beeep.Notify(title, body, "")
}

// Option configures a Manager.
type Option func(*Manager)

// WithNotifier replaces the desktop notifier.
func WithNotifier(n Notifier) Option {
	return func(m *Manager) {
		m.notify = n
	}
}

// WithoutFollower disables watching the log for external writes.
func WithoutFollower() Option {
	return func(m *Manager) {
		m.follow = false
	}
}

// WithPollInterval also polls the log every d. Zero disables polling.
func WithPollInterval(d time.Duration) Option {
	return func(m *Manager) {
		m.pollInterval = d
	}
}

// Manager owns the dashboard's read side: the telemetry store, the optional
// SQLite mirror and the log follower that keeps them current.
type Manager struct {
	mu          sync.RWMutex
	store       *telemetry.Store
	database    *db.DB
	follower    *LogFollower
	subscribers []chan ServiceEvent

	notify       Notifier
	follow       bool
	pollInterval time.Duration

	alertMu      sync.Mutex
	belowAlertAt bool

	reloadMu  sync.Mutex
	closeOnce sync.Once
}

// NewManager loads the telemetry log, opens the mirror when configured and
// starts following the log.
func NewManager(cfg *config.Config, opts ...Option) (*Manager, error) {
	m := &Manager{
		store:  telemetry.NewStore(cfg.TelemetryLogPath),
		notify: desktopNotify,
		follow: true,
	}
	for _, opt := range opts {
		opt(m)
	}

	if _, err := m.store.Load(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to load telemetry: %w", err)
	}
	m.belowAlertAt = belowThreshold(m.store.Snapshot(telemetry.Filter{}).Totals)

	if cfg.MirrorEnabled() {
		database, err := db.New(cfg.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		m.database = database
		m.syncMirror(context.Background())
	}

	if m.follow {
		follower, err := NewLogFollower(cfg.TelemetryLogPath, m.onLogChanged, func(err error) {
			m.broadcast(ErrorEvent{Service: "follower", Error: err})
		})
		if err != nil {
			_ = m.closeDatabase()
			return nil, err
		}
		follower.Poll(m.pollInterval)
		m.follower = follower
	}

	return m, nil
}

func (m *Manager) onLogChanged() {
	if err := m.Reload(context.Background()); err != nil {
		logger.Warn("telemetry reload failed", "error", err)
	}
}

// Reload re-reads the log, mirrors new records and notifies subscribers.
func (m *Manager) Reload(ctx context.Context) error {
	m.reloadMu.Lock()
	defer m.reloadMu.Unlock()

	n, err := m.store.Load(ctx)
	if err != nil {
		m.broadcast(ErrorEvent{Service: "telemetry", Error: err})
		return err
	}

	m.syncMirror(ctx)
	m.checkSuccessRate(m.store.Snapshot(telemetry.Filter{}).Totals)
	m.broadcast(TelemetryUpdatedEvent{Records: n})
	return nil
}

// syncMirror copies records missing from the mirror. Failures only cost
// history, so they are logged and broadcast.
func (m *Manager) syncMirror(ctx context.Context) {
	if m.database == nil {
		return
	}
	added, err := m.database.InsertRecords(ctx, m.store.Records())
	if err != nil {
		logger.Warn("failed to sync telemetry mirror", "error", err)
		m.broadcast(ErrorEvent{Service: "mirror", Error: err})
		return
	}
	if added > 0 {
		logger.Debug("telemetry mirror synced", "added", added)
	}
}

func belowThreshold(t models.Totals) bool {
	if t.TotalRequests < alertMinRequests {
		return false
	}
	return successRate(t) < alertSuccessRate
}

func successRate(t models.Totals) float64 {
	if t.TotalRequests == 0 {
		return 100
	}
	return float64(t.SuccessfulRequests) / float64(t.TotalRequests) * 100
}

// checkSuccessRate alerts once when the rate crosses below the threshold.
func (m *Manager) checkSuccessRate(t models.Totals) {
	m.alertMu.Lock()
	below := belowThreshold(t)
	crossed := below && !m.belowAlertAt
	m.belowAlertAt = below
	m.alertMu.Unlock()

	if !crossed {
		return
	}

	alert := AlertEvent{
		Title: "Uranus: success rate dropped",
		Body: fmt.Sprintf("%.1f%% of %d requests succeeded (%d failed)",
			successRate(t), t.TotalRequests, t.FailedRequests),
	}
	if err := m.notify(alert.Title, alert.Body); err != nil {
		logger.Debug("desktop notification failed", "error", err)
	}
	m.broadcast(alert)
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, WaitForEvent(ch)
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Snapshot aggregates the current telemetry.
func (m *Manager) Snapshot(f telemetry.Filter) models.Snapshot {
	return m.store.Snapshot(f)
}

// Recent returns up to n records, most recent first.
func (m *Manager) Recent(n int) []models.TelemetryRecord {
	return m.store.Recent(n)
}

// HourlyStats returns mirror buckets for the time range.
func (m *Manager) HourlyStats(r models.TimeRange) ([]models.HourlyStats, error) {
	if m.database == nil {
		return nil, ErrNoMirror
	}
	return m.database.GetHourlyStats(r.Hours())
}

// TotalStats returns lifetime totals from the mirror.
func (m *Manager) TotalStats() (*models.TotalStats, error) {
	if m.database == nil {
		return nil, ErrNoMirror
	}
	return m.database.GetTotalStats()
}

// Store returns the telemetry store.
func (m *Manager) Store() *telemetry.Store {
	return m.store
}

// Database returns the mirror, or nil when disabled.
func (m *Manager) Database() *db.DB {
	return m.database
}

func (m *Manager) closeDatabase() error {
	if m.database == nil {
		return nil
	}
	return m.database.Close()
}

// Close stops following the log and closes the mirror.
func (m *Manager) Close() error {
	var errs []error
	m.closeOnce.Do(func() {
		if m.follower != nil {
			if err := m.follower.Close(); err != nil {
				errs = append(errs, err)
			}
		}

		m.mu.Lock()
		for _, sub := range m.subscribers {
			close(sub)
		}
		m.subscribers = nil
		m.mu.Unlock()

		if err := m.closeDatabase(); err != nil {
			errs = append(errs, err)
		}
	})
	return errors.Join(errs...)
}
