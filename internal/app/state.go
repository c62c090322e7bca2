// Package app is the root of the terminal dashboard: the Bubble Tea model
// that hosts the tabs and the State they share.
package app

import (
	"fmt"
	"sync"
	"time"

	"github.com/j-veylop/uranus/internal/models"
	"github.com/j-veylop/uranus/internal/telemetry"
)

// State is shared by the root model and the tabs.
type State struct {
	mu sync.RWMutex

	snapshot models.Snapshot
	filter   telemetry.Filter
	loaded   bool
	loading  bool

	lastUpdated time.Time

	notifications   toastStack
	notificationSeq int
}

// NewState creates an empty state that is waiting for its first load.
func NewState() *State {
	return &State{
		snapshot: models.Snapshot{
			ByModel:     []models.ModelRollup{},
			ByInputType: []models.InputTypeRollup{},
			Recent:      []models.TelemetryRecord{},
		},
	}
}

// SetSnapshot stores a freshly aggregated snapshot.
func (s *State) SetSnapshot(snap models.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snap
	s.loaded = true
	s.lastUpdated = time.Now()
}

// Snapshot returns the last snapshot.
func (s *State) Snapshot() models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// SetFilter changes the per-model filter used for the next load.
func (s *State) SetFilter(f telemetry.Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
}

// Filter returns the active per-model filter.
func (s *State) Filter() telemetry.Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// IsInitialLoading reports whether no snapshot has been loaded yet.
func (s *State) IsInitialLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.loaded
}

// SetLoading marks a reload in progress.
func (s *State) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

// IsLoading reports whether a reload is in progress.
func (s *State) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// LastUpdated returns when the snapshot was last replaced.
func (s *State) LastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdated
}

// AddNotification adds a toast and returns its ID. The oldest toasts are
// dropped beyond maxNotifications.
func (s *State) AddNotification(t NotificationType, message string, d time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	id := fmt.Sprintf("n-%d", s.notificationSeq)
	s.notifications = s.notifications.push(Notification{
		ID:        id,
		Type:      t,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  d,
	})
	return id
}

// RemoveNotification removes a toast by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = s.notifications.without(id)
}

// ClearExpiredNotifications drops toasts whose duration has passed.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = s.notifications.live(time.Now())
}

// GetNotifications returns a copy of the live toasts.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notifications.live(time.Now())
}

// SetLoadingNotification shows message in the single loading toast.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.notifications.index(LoadingNotificationID); i >= 0 {
		s.notifications[i].Message = message
		return
	}
	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
	})
}

// ClearLoadingNotification removes the loading toast.
func (s *State) ClearLoadingNotification() {
	s.RemoveNotification(LoadingNotificationID)
}
