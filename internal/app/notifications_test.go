package app

import (
	"fmt"
	"testing"
	"time"
)

func TestState_AddAndRemoveNotification(t *testing.T) {
	s := NewState()

	id := s.AddNotification(NotificationInfo, "saved", time.Minute)
	if id != "n-1" {
		t.Errorf("id = %q, want n-1", id)
	}
	if notes := s.GetNotifications(); len(notes) != 1 || notes[0].Message != "saved" {
		t.Fatalf("notifications = %+v", notes)
	}

	s.RemoveNotification("missing")
	s.RemoveNotification(id)
	if notes := s.GetNotifications(); len(notes) != 0 {
		t.Errorf("notifications after remove = %+v", notes)
	}
}

func TestState_NotificationsAreBounded(t *testing.T) {
	s := NewState()
	for i := range maxNotifications + 5 {
		s.AddNotification(NotificationInfo, fmt.Sprintf("toast %d", i), time.Minute)
	}

	notes := s.GetNotifications()
	if len(notes) != maxNotifications {
		t.Fatalf("got %d notifications, want %d", len(notes), maxNotifications)
	}
	if notes[0].Message != "toast 5" {
		t.Errorf("oldest kept = %q, want toast 5", notes[0].Message)
	}
}

func TestState_ClearExpiredNotifications(t *testing.T) {
	s := NewState()
	now := time.Now()
	s.notifications = toastStack{
		{ID: "stale", CreatedAt: now.Add(-2 * time.Minute), Duration: time.Minute},
		{ID: "fresh", CreatedAt: now, Duration: time.Minute},
		{ID: "sticky", CreatedAt: now.Add(-time.Hour)},
	}

	s.ClearExpiredNotifications()

	if len(s.notifications) != 2 || s.notifications.index("stale") >= 0 {
		t.Errorf("notifications = %+v", s.notifications)
	}
}

func TestState_LoadingNotification(t *testing.T) {
	s := NewState()

	s.SetLoadingNotification("Loading telemetry...")
	s.SetLoadingNotification("Reloading telemetry...")

	notes := s.GetNotifications()
	if len(notes) != 1 {
		t.Fatalf("got %d notifications, want a single loading toast", len(notes))
	}
	if notes[0].ID != LoadingNotificationID || notes[0].Type != NotificationLoading {
		t.Errorf("toast = %+v", notes[0])
	}
	if notes[0].Message != "Reloading telemetry..." {
		t.Errorf("message = %q", notes[0].Message)
	}

	s.ClearLoadingNotification()
	if len(s.GetNotifications()) != 0 {
		t.Error("loading toast should be cleared")
	}
}

func TestNotification_IsExpired(t *testing.T) {
	now := time.Now()
	cases := map[string]struct {
		n    Notification
		want bool
	}{
		"no duration":   {Notification{CreatedAt: now.Add(-time.Hour)}, false},
		"within window": {Notification{CreatedAt: now, Duration: time.Minute}, false},
		"past window":   {Notification{CreatedAt: now.Add(-time.Hour), Duration: time.Minute}, true},
	}
	for name, tc := range cases {
		if got := tc.n.IsExpired(); got != tc.want {
			t.Errorf("%s: IsExpired = %v, want %v", name, got, tc.want)
		}
	}
}

func TestNotificationType_String(t *testing.T) {
	want := map[NotificationType]string{
		NotificationSuccess:   "success",
		NotificationError:     "error",
		NotificationWarning:   "warning",
		NotificationInfo:      "info",
		NotificationLoading:   "loading",
		NotificationType(-1):  "unknown",
		NotificationType(999): "unknown",
	}
	for typ, name := range want {
		if got := typ.String(); got != name {
			t.Errorf("NotificationType(%d).String() = %q, want %q", int(typ), got, name)
		}
	}
}
