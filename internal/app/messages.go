package app

import (
	"time"

	"github.com/j-veylop/uranus/internal/models"
	"github.com/j-veylop/uranus/internal/services"
	"github.com/j-veylop/uranus/internal/telemetry"
)

// Messages handled by the root model. Tabs may return any of them from their
// own commands.
type (
	// TickMsg drives toast expiry and lets tabs poll State.
	TickMsg struct{ Time time.Time }

	SnapshotLoadedMsg struct{ Snapshot models.Snapshot }

	// ReloadDoneMsg ends a reload started with the refresh key.
	ReloadDoneMsg struct{ Error error }

	// FilterChangedMsg re-aggregates the snapshot with Filter.
	FilterChangedMsg struct{ Filter telemetry.Filter }

	AddNotificationMsg struct {
		Type     NotificationType
		Message  string
		Duration time.Duration
	}

	RemoveNotificationMsg struct{ ID string }

	TabSwitchMsg  struct{ Tab TabID }
	ToggleHelpMsg struct{}
)

// Service plumbing.
type (
	// SubscriptionEventMsg hands the root model its event channel once.
	SubscriptionEventMsg struct {
		Channel chan services.ServiceEvent
	}

	ServiceEventMsg struct {
		Event services.ServiceEvent
	}
)
