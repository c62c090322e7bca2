// Package history provides the history tab: hourly charts from the SQLite
// mirror and the latest requests from the telemetry log.
package history

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/uranus/internal/app"
	"github.com/j-veylop/uranus/internal/models"
	"github.com/j-veylop/uranus/internal/services"
)

const recentRows = 20

var toggleRangeKey = key.NewBinding(
	key.WithKeys("t"),
	key.WithHelp("t", "toggle time range"),
)

// page is everything one load produces. hourly and totals stay empty when
// the mirror is disabled.
type page struct {
	mirror bool
	hourly []models.HourlyStats
	totals *models.TotalStats
	recent []models.TelemetryRecord
}

type historyLoadedMsg struct {
	timeRange models.TimeRange
	page
}

type historyErrorMsg struct {
	err error
}

// Model is the history tab.
type Model struct {
	page

	state    *app.State
	services *services.Manager
	commands *app.Commands
	viewport viewport.Model

	width, height int

	timeRange models.TimeRange
	loading   bool
	loadedAt  time.Time
	err       error
}

// New creates the history tab. svc may be nil.
func New(state *app.State, svc *services.Manager, commands *app.Commands) *Model {
	return &Model{
		state:     state,
		services:  svc,
		commands:  commands,
		viewport:  viewport.New(0, 0),
		timeRange: models.TimeRange24Hours,
	}
}

func (m *Model) Init() tea.Cmd {
	return m.load()
}

// load marks the tab busy and fetches the current range in the background.
func (m *Model) load() tea.Cmd {
	m.loading = true
	svc, r := m.services, m.timeRange

	return func() tea.Msg {
		if svc == nil {
			return historyErrorMsg{err: errors.New("services not initialized")}
		}
		p, err := fetch(svc, r)
		if err != nil {
			return historyErrorMsg{err: err}
		}
		return historyLoadedMsg{timeRange: r, page: p}
	}
}

func fetch(svc *services.Manager, r models.TimeRange) (page, error) {
	p := page{recent: svc.Recent(recentRows)}

	hourly, err := svc.HourlyStats(r)
	switch {
	case errors.Is(err, services.ErrNoMirror):
		return p, nil
	case err != nil:
		return p, err
	}

	totals, err := svc.TotalStats()
	if err != nil {
		return p, err
	}
	p.mirror, p.hourly, p.totals = true, hourly, totals
	return p, nil
}

func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		m.finishLoad(nil)
		// Buckets of a range the user already toggled away from are dropped.
		if msg.timeRange != m.timeRange {
			msg.hourly = nil
		}
		m.page = msg.page

	case historyErrorMsg:
		m.finishLoad(msg.err)
		return m, m.commands.NotifyError(fmt.Sprintf("History error: %v", msg.err))

	case app.SnapshotLoadedMsg, app.TickMsg:
		if m.stale() {
			return m, m.load()
		}

	case tea.KeyMsg:
		if key.Matches(msg, toggleRangeKey) {
			m.timeRange = m.timeRange.Next()
			m.hourly = nil
			return m, m.load()
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) finishLoad(err error) {
	m.loading = false
	m.loadedAt = time.Now()
	m.err = err
}

// stale reports whether the shared snapshot changed since the last load.
func (m *Model) stale() bool {
	return !m.loading && m.services != nil && m.state.LastUpdated().After(m.loadedAt)
}

func (m *Model) SetSize(width, height int) {
	m.width, m.height = width, height
	m.viewport.Width, m.viewport.Height = width, height
}

func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{toggleRangeKey}
}

func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{toggleRangeKey},
		{m.viewport.KeyMap.Up, m.viewport.KeyMap.Down},
	}
}
