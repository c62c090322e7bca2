package history

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/uranus/internal/app"
	"github.com/j-veylop/uranus/internal/config"
	"github.com/j-veylop/uranus/internal/models"
	"github.com/j-veylop/uranus/internal/services"
	"github.com/j-veylop/uranus/internal/telemetry"
)

func newTestManager(t *testing.T, mirror bool) *services.Manager {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{TelemetryLogPath: filepath.Join(dir, "telemetry.jsonl")}
	if mirror {
		cfg.DatabasePath = filepath.Join(dir, "uranus.db")
	}

	writer := telemetry.NewStore(cfg.TelemetryLogPath)
	for _, ok := range []bool{true, true, false} {
		outcome := models.InferenceOutcome{
			ModelID:    "gemini-2.5-flash",
			ModelLabel: "Gemini 2.5 Flash",
			ModelType:  models.ModelTypeText,
			LatencyMs:  300,
			Success:    ok,
			Usage:      models.InferenceUsage{TotalTokens: 42},
		}
		if !ok {
			outcome.Error = "model overloaded"
		}
		if _, err := writer.Record(context.Background(), models.AudioInput("audio/webm", 2048), outcome); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	mgr, err := services.NewManager(cfg,
		services.WithoutFollower(),
		services.WithNotifier(func(string, string) error { return nil }),
	)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	t.Cleanup(func() { _ = mgr.Close() })
	return mgr
}

func load(t *testing.T, m *Model) {
	t.Helper()
	m.Update(m.Init()())
	m.SetSize(160, 200)
}

func TestNew(t *testing.T) {
	m := New(app.NewState(), nil, app.NewCommands())
	if m == nil {
		t.Fatal("New returned nil")
	}
	if m.timeRange != models.TimeRange24Hours {
		t.Errorf("default range = %v, want 24 Hours", m.timeRange)
	}
}

func TestModel_WithoutServices(t *testing.T) {
	m := New(app.NewState(), nil, app.NewCommands())

	msg := m.Init()()
	if _, ok := msg.(historyErrorMsg); !ok {
		t.Fatalf("expected historyErrorMsg, got %T", msg)
	}

	_, cmd := m.Update(msg)
	if m.err == nil {
		t.Error("error should be kept for the view")
	}
	note, ok := cmd().(app.AddNotificationMsg)
	if !ok || note.Type != app.NotificationError {
		t.Errorf("expected error notification, got %+v", note)
	}

	m.SetSize(120, 60)
	if !strings.Contains(m.View(), "services not initialized") {
		t.Error("view should show the error")
	}
}

func TestModel_WithMirror(t *testing.T) {
	m := New(app.NewState(), newTestManager(t, true), app.NewCommands())
	load(t, m)

	if !m.mirror {
		t.Fatal("mirror should be reported as enabled")
	}
	if len(m.hourly) != 1 || m.hourly[0].TotalCalls != 3 || m.hourly[0].FailedCalls != 1 {
		t.Errorf("hourly = %+v, want one bucket of 3 calls with 1 failure", m.hourly)
	}
	if m.totals == nil || m.totals.TotalCalls != 3 {
		t.Errorf("totals = %+v", m.totals)
	}

	view := m.View()
	for _, want := range []string{"Requests per hour", "calls", "failed", "Latest requests", "Gemini 2.5 Flash", "model overloaded", "All time: 3 calls"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModel_WithoutMirror(t *testing.T) {
	m := New(app.NewState(), newTestManager(t, false), app.NewCommands())
	load(t, m)

	if m.err != nil {
		t.Fatalf("a disabled mirror is not an error: %v", m.err)
	}
	if len(m.recent) != 3 {
		t.Errorf("recent = %d, want 3", len(m.recent))
	}
	if !strings.Contains(m.View(), "SQLite mirror is disabled") {
		t.Error("view should explain the disabled mirror")
	}
}

func TestModel_ToggleRange(t *testing.T) {
	m := New(app.NewState(), newTestManager(t, true), app.NewCommands())
	load(t, m)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})
	if cmd == nil {
		t.Fatal("toggle should reload")
	}
	if m.timeRange != models.TimeRange7Days {
		t.Errorf("range = %v, want 7 Days", m.timeRange)
	}
	if m.hourly != nil {
		t.Error("buckets of the old range should be dropped")
	}

	msg := cmd().(historyLoadedMsg)
	if msg.timeRange != models.TimeRange7Days {
		t.Errorf("loaded range = %v", msg.timeRange)
	}
}

func TestModel_ReloadsWhenSnapshotChanges(t *testing.T) {
	state := app.NewState()
	m := New(state, newTestManager(t, false), app.NewCommands())
	load(t, m)

	if _, cmd := m.Update(app.TickMsg{Time: time.Now()}); cmd != nil {
		t.Error("nothing changed, no reload expected")
	}

	time.Sleep(time.Millisecond)
	state.SetSnapshot(models.Snapshot{})

	if _, cmd := m.Update(app.TickMsg{Time: time.Now()}); cmd == nil {
		t.Error("a newer snapshot should trigger a reload")
	}
	if _, cmd := m.Update(app.TickMsg{Time: time.Now()}); cmd != nil {
		t.Error("no second reload while loading")
	}
}

func TestFormatTimestamp(t *testing.T) {
	if got := formatTimestamp("2026-01-02T10:11:12.345Z"); got != "2026-01-02 10:11:12" {
		t.Errorf("formatTimestamp = %q", got)
	}
	if got := formatTimestamp("bad"); got != "bad" {
		t.Errorf("short input should pass through, got %q", got)
	}
	if got := clip("abcdef", 4); got != "abc…" {
		t.Errorf("clip = %q", got)
	}
}

func TestModel_Help(t *testing.T) {
	m := New(app.NewState(), nil, app.NewCommands())
	if len(m.ShortHelp()) == 0 || len(m.FullHelp()) == 0 {
		t.Error("help should list the range key")
	}
}
