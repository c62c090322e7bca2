package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/uranus/internal/services"
	"github.com/j-veylop/uranus/internal/telemetry"
)

const (
	// DefaultTickInterval is the default interval between ticks.
	DefaultTickInterval = 2 * time.Second

	// Toast lifetimes. Errors and warnings stay longest.
	DefaultNotificationDuration = 5 * time.Second
	QuickNotificationDuration   = 3 * time.Second
	LongNotificationDuration    = 10 * time.Second

	reloadTimeout = 10 * time.Second
)

// defaultTickCmd schedules the next TickMsg. Ticks expire toasts and let
// tabs notice a newer snapshot.
func defaultTickCmd() tea.Cmd {
	return tea.Tick(DefaultTickInterval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// loadSnapshotCmd aggregates the in-memory records with the given filter.
func loadSnapshotCmd(mgr *services.Manager, f telemetry.Filter) tea.Cmd {
	return func() tea.Msg {
		return SnapshotLoadedMsg{Snapshot: mgr.Snapshot(f)}
	}
}

// reloadCmd re-reads the telemetry log. The snapshot itself arrives through
// the TelemetryUpdatedEvent the manager broadcasts.
func reloadCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
		defer cancel()
		return ReloadDoneMsg{Error: mgr.Reload(ctx)}
	}
}

// subscribeToServicesCmd subscribes now and hands the channel to Update.
func subscribeToServicesCmd(mgr *services.Manager) tea.Cmd {
	ch, _ := mgr.Subscribe()
	return func() tea.Msg {
		return SubscriptionEventMsg{Channel: ch}
	}
}

// waitForServiceEventCmd blocks for one event. A closed channel ends the
// loop by returning nil.
func waitForServiceEventCmd(ch <-chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

// clearNotificationCmd removes notification id after delay.
func clearNotificationCmd(id string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return RemoveNotificationMsg{ID: id}
	})
}

func notifyCmd(t NotificationType, message string, d time.Duration) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{Type: t, Message: message, Duration: d}
	}
}

func notifySuccessCmd(message string) tea.Cmd {
	return notifyCmd(NotificationSuccess, message, DefaultNotificationDuration)
}

func notifyErrorCmd(message string) tea.Cmd {
	return notifyCmd(NotificationError, message, LongNotificationDuration)
}

func notifyWarningCmd(message string) tea.Cmd {
	return notifyCmd(NotificationWarning, message, LongNotificationDuration)
}

// Commands are the messages tabs may send to the root model.
type Commands struct{}

// NewCommands creates the tab-facing commands.
func NewCommands() *Commands {
	return &Commands{}
}

// ChangeFilter asks the root model to re-aggregate with f.
func (c *Commands) ChangeFilter(f telemetry.Filter) tea.Cmd {
	return func() tea.Msg {
		return FilterChangedMsg{Filter: f}
	}
}

// Notify shows a toast for the default duration of its type.
func (c *Commands) Notify(t NotificationType, message string) tea.Cmd {
	switch t {
	case NotificationSuccess:
		return notifySuccessCmd(message)
	case NotificationError:
		return notifyErrorCmd(message)
	case NotificationWarning:
		return notifyWarningCmd(message)
	default:
		return notifyCmd(t, message, QuickNotificationDuration)
	}
}

// NotifyError shows an error toast.
func (c *Commands) NotifyError(message string) tea.Cmd {
	return notifyErrorCmd(message)
}
