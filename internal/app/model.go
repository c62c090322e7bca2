package app

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/uranus/internal/services"
	"github.com/j-veylop/uranus/internal/ui/styles"
)

// TabID identifies a tab.
type TabID int

const (
	TabDashboard TabID = iota
	TabHistory
	TabInfo
)

var tabNames = [...]string{"Dashboard", "History", "Info"}

// String returns the tab's display name.
func (t TabID) String() string {
	if t < 0 || int(t) >= len(tabNames) {
		return "Unknown"
	}
	return tabNames[t]
}

// Tab is implemented by every tab. Only the active tab receives messages.
type Tab interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Tab, tea.Cmd)
	View() string
	SetSize(width, height int)
	ShortHelp() []key.Binding
	FullHelp() [][]key.Binding
}

// chromeHeight is the number of rows taken by the navbar and help line.
const chromeHeight = 5

// Model is the root Bubble Tea model. It owns the shared State, routes
// service events into it and draws the navbar and toasts around the
// active tab.
type Model struct {
	activeTab TabID
	tabs      []Tab
	tabNames  []string

	state    *State
	services *services.Manager
	commands *Commands
	keymap   KeyMap
	spinner  spinner.Model

	width    int
	height   int
	showHelp bool
	ready    bool

	eventChannel chan services.ServiceEvent
}

// NewModel creates the root model. mgr may be nil, in which case the
// dashboard stays empty.
func NewModel(mgr *services.Manager) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	return &Model{
		activeTab: TabDashboard,
		tabNames:  tabNames[:],
		tabs:      make([]Tab, len(tabNames)),
		state:     NewState(),
		services:  mgr,
		commands:  NewCommands(),
		keymap:    DefaultKeyMap(),
		spinner:   s,
	}
}

// SetTabs installs the tabs in TabID order.
func (m *Model) SetTabs(tabs []Tab) {
	m.tabs = tabs
	if m.width > 0 && m.height > 0 {
		m.resizeTabs()
	}
}

// GetState returns the shared state handed to tabs.
func (m *Model) GetState() *State { return m.state }

// GetServices returns the service manager, or nil.
func (m *Model) GetServices() *services.Manager { return m.services }

// GetCommands returns the command helpers handed to tabs.
func (m *Model) GetCommands() *Commands { return m.commands }

// GetKeyMap returns the global key bindings.
func (m *Model) GetKeyMap() KeyMap { return m.keymap }

// GetActiveTab returns the active tab.
func (m *Model) GetActiveTab() TabID { return m.activeTab }

// IsReady reports whether the terminal size is known.
func (m *Model) IsReady() bool { return m.ready }

// Init starts the spinner and tick, subscribes to service events and loads
// the first snapshot.
func (m *Model) Init() tea.Cmd {
	m.state.SetLoadingNotification("Loading telemetry...")

	cmds := []tea.Cmd{m.spinner.Tick, defaultTickCmd()}
	if m.services != nil {
		cmds = append(cmds,
			subscribeToServicesCmd(m.services),
			loadSnapshotCmd(m.services, m.state.Filter()),
		)
	}
	for _, tab := range m.tabs {
		if tab != nil {
			cmds = append(cmds, tab.Init())
		}
	}

	return tea.Batch(cmds...)
}

// Update handles global messages, then forwards msg to the active tab.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.resizeTabs()

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKeyMsg(msg))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	default:
		cmds = append(cmds, m.handleAppMsg(msg)...)
	}

	if tab := m.currentTab(); tab != nil {
		var cmd tea.Cmd
		m.tabs[m.activeTab], cmd = tab.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleAppMsg(msg tea.Msg) []tea.Cmd {
	switch msg := msg.(type) {
	case TickMsg:
		m.state.ClearExpiredNotifications()
		return []tea.Cmd{defaultTickCmd()}

	case SubscriptionEventMsg:
		m.eventChannel = msg.Channel
		return []tea.Cmd{waitForServiceEventCmd(m.eventChannel)}

	case ServiceEventMsg:
		cmds := []tea.Cmd{m.handleServiceEvent(msg.Event)}
		if m.eventChannel != nil {
			cmds = append(cmds, waitForServiceEventCmd(m.eventChannel))
		}
		return cmds

	case SnapshotLoadedMsg:
		m.state.SetSnapshot(msg.Snapshot)
		m.state.ClearLoadingNotification()

	case ReloadDoneMsg:
		m.state.SetLoading(false)
		m.state.ClearLoadingNotification()
		if msg.Error != nil {
			return []tea.Cmd{notifyErrorCmd(fmt.Sprintf("Failed to reload telemetry: %v", msg.Error))}
		}
		return []tea.Cmd{notifySuccessCmd("Telemetry reloaded")}

	case FilterChangedMsg:
		m.state.SetFilter(msg.Filter)
		if m.services != nil {
			return []tea.Cmd{loadSnapshotCmd(m.services, msg.Filter)}
		}

	case AddNotificationMsg:
		id := m.state.AddNotification(msg.Type, msg.Message, msg.Duration)
		if msg.Duration > 0 {
			return []tea.Cmd{clearNotificationCmd(id, msg.Duration)}
		}

	case RemoveNotificationMsg:
		m.state.RemoveNotification(msg.ID)

	case TabSwitchMsg:
		m.switchTab(msg.Tab)

	case ToggleHelpMsg:
		m.showHelp = !m.showHelp
	}
	return nil
}

// handleServiceEvent turns a service event into a snapshot load or a toast.
func (m *Model) handleServiceEvent(event services.ServiceEvent) tea.Cmd {
	switch e := event.(type) {
	case services.TelemetryUpdatedEvent:
		if m.services != nil {
			return loadSnapshotCmd(m.services, m.state.Filter())
		}
	case services.AlertEvent:
		return notifyWarningCmd(fmt.Sprintf("%s: %s", e.Title, e.Body))
	case services.ErrorEvent:
		return notifyErrorCmd(fmt.Sprintf("[%s] %v", e.Service, e.Error))
	}
	return nil
}

// reload re-reads the log unless a reload is already running.
func (m *Model) reload() tea.Cmd {
	if m.services == nil || m.state.IsLoading() {
		return nil
	}
	m.state.SetLoading(true)
	m.state.SetLoadingNotification("Reloading telemetry...")
	return reloadCmd(m.services)
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	n := len(m.tabs)

	switch {
	case key.Matches(msg, m.keymap.Quit):
		return tea.Quit
	case key.Matches(msg, m.keymap.Help):
		m.showHelp = !m.showHelp
	case key.Matches(msg, m.keymap.Escape):
		m.showHelp = false
	case key.Matches(msg, m.keymap.Refresh):
		return m.reload()
	case key.Matches(msg, m.keymap.Tab1):
		m.switchTab(TabDashboard)
	case key.Matches(msg, m.keymap.Tab2):
		m.switchTab(TabHistory)
	case key.Matches(msg, m.keymap.Tab3):
		m.switchTab(TabInfo)
	case key.Matches(msg, m.keymap.NextTab) && !m.showHelp && n > 0:
		m.switchTab(TabID((int(m.activeTab) + 1) % n))
	case key.Matches(msg, m.keymap.PrevTab) && !m.showHelp && n > 0:
		m.switchTab(TabID((int(m.activeTab) - 1 + n) % n))
	}
	return nil
}

func (m *Model) currentTab() Tab {
	if int(m.activeTab) < len(m.tabs) {
		return m.tabs[m.activeTab]
	}
	return nil
}

func (m *Model) switchTab(id TabID) {
	m.activeTab = id
	m.resizeTabs()
}

func (m *Model) resizeTabs() {
	h := max(0, m.height-chromeHeight)
	for _, tab := range m.tabs {
		if tab != nil {
			tab.SetSize(m.width, h)
		}
	}
}
