// Package info provides the info tab: configuration, provider status and
// build metadata.
package info

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/uranus/internal/app"
	"github.com/j-veylop/uranus/internal/config"
)

// Model is a read-only, scrollable view of the running configuration.
type Model struct {
	state    *app.State
	config   *config.Config
	width    int
	height   int
	viewport viewport.Model
}

// New creates the info tab. cfg may be nil.
func New(state *app.State, cfg *config.Config) *Model {
	return &Model{
		state:    state,
		config:   cfg,
		viewport: viewport.New(0, 0),
	}
}

// Init has nothing to load; everything is rendered from state and config.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update scrolls the viewport on key presses.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); !ok {
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// SetSize sets the available size for the info tab.
func (m *Model) SetSize(width, height int) {
	m.width, m.height = width, height
	m.viewport.Width, m.viewport.Height = width, height
}

// ShortHelp returns the scroll bindings of the viewport.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.viewport.KeyMap.Up, m.viewport.KeyMap.Down}
}

// FullHelp returns the scroll bindings of the viewport.
func (m *Model) FullHelp() [][]key.Binding {
	km := m.viewport.KeyMap
	return [][]key.Binding{{km.Up, km.Down}, {km.PageUp, km.PageDown}}
}
