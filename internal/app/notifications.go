package app

import (
	"slices"
	"time"
)

// NotificationType selects a toast's color and prefix.
type NotificationType int

const (
	NotificationSuccess NotificationType = iota
	NotificationError
	NotificationWarning
	NotificationInfo
	// NotificationLoading shows the spinner and never expires.
	NotificationLoading
)

var notificationTypeNames = [...]string{"success", "error", "warning", "info", "loading"}

func (n NotificationType) String() string {
	if n < 0 || int(n) >= len(notificationTypeNames) {
		return "unknown"
	}
	return notificationTypeNames[n]
}

// LoadingNotificationID is the ID of the single loading toast.
const LoadingNotificationID = "__loading__"

// maxNotifications bounds the toast stack.
const maxNotifications = 10

// Notification is a toast. A zero Duration never expires.
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired reports whether the toast's duration has passed.
func (n *Notification) IsExpired() bool {
	return n.expiredAt(time.Now())
}

func (n *Notification) expiredAt(now time.Time) bool {
	return n.Duration > 0 && now.Sub(n.CreatedAt) > n.Duration
}

// toastStack is the ordered list of toasts, oldest first. Callers hold the
// State lock.
type toastStack []Notification

func (t toastStack) push(n Notification) toastStack {
	t = append(t, n)
	if len(t) > maxNotifications {
		t = slices.Clone(t[len(t)-maxNotifications:])
	}
	return t
}

func (t toastStack) index(id string) int {
	return slices.IndexFunc(t, func(n Notification) bool { return n.ID == id })
}

func (t toastStack) without(id string) toastStack {
	return slices.DeleteFunc(t, func(n Notification) bool { return n.ID == id })
}

// live returns the toasts that have not expired at now, as a new slice.
func (t toastStack) live(now time.Time) toastStack {
	out := make(toastStack, 0, len(t))
	for _, n := range t {
		if !n.expiredAt(now) {
			out = append(out, n)
		}
	}
	return out
}
