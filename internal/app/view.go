package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/uranus/internal/ui/styles"
)

// toastTop is the first screen row toasts are drawn on, below the navbar.
const toastTop = 2

// View renders the navbar, the active tab and any overlays.
func (m *Model) View() string {
	var b strings.Builder

	if m.width > 0 {
		b.WriteString(m.renderNavbar())
		b.WriteString("\n")
	}

	if !m.ready {
		b.WriteString(lipgloss.NewStyle().Padding(1, 2).Render(m.spinner.View() + " Loading..."))
		return b.String()
	}

	if tab := m.currentTab(); tab != nil {
		b.WriteString(tab.View())
	} else {
		b.WriteString(lipgloss.NewStyle().Padding(1, 2).Render(
			styles.HelpStyle.Render(fmt.Sprintf("No view registered for %s.", m.activeTab)),
		))
	}

	view := b.String()

	if m.showHelp {
		help := m.renderHelp()
		x := max((m.width-lipgloss.Width(help))/2, 0)
		y := max((m.height-lipgloss.Height(help))/2, 0)
		view = overlay(view, help, x, y)
	}

	if toasts := m.renderToasts(); toasts != "" {
		x := max(m.width-lipgloss.Width(toasts)-2, 0)
		view = overlay(view, toasts, x, toastTop)
	}

	return view
}

// overlay draws layer over base with its top-left corner at column x, row y.
// Cells of base outside the layer are kept.
func overlay(base, layer string, x, y int) string {
	lines := strings.Split(base, "\n")

	for i, row := range strings.Split(layer, "\n") {
		n := y + i
		for n >= len(lines) {
			lines = append(lines, "")
		}

		under := lines[n]
		left := ansi.Truncate(under, x, "")
		if w := lipgloss.Width(left); w < x {
			left += strings.Repeat(" ", x-w)
		}
		right := ansi.TruncateLeft(under, x+lipgloss.Width(row), "")

		lines[n] = left + row + right
	}

	return strings.Join(lines, "\n")
}

func (m *Model) renderNavbar() string {
	items := make([]string, 0, len(m.tabNames))
	for i, name := range m.tabNames {
		if TabID(i) == m.activeTab {
			items = append(items, styles.ActiveTabStyle.Render(fmt.Sprintf("[%d] %s", i+1, name)))
			continue
		}
		items = append(items, styles.InactiveTabStyle.Render(fmt.Sprintf(" %d  %s", i+1, name)))
	}

	return styles.TabBarStyle.Width(m.width).Render(lipgloss.JoinHorizontal(lipgloss.Top, items...))
}

// renderToasts stacks the live notifications, newest last.
func (m *Model) renderToasts() string {
	notes := m.state.GetNotifications()
	if len(notes) == 0 {
		return ""
	}

	toasts := make([]string, 0, len(notes))
	for _, n := range notes {
		style, prefix := m.toastDecoration(n.Type)
		toasts = append(toasts, styles.ToastStyle.Render(style.Render(prefix+" "+n.Message)))
	}
	return lipgloss.JoinVertical(lipgloss.Right, toasts...)
}

func (m *Model) toastDecoration(t NotificationType) (lipgloss.Style, string) {
	switch t {
	case NotificationSuccess:
		return styles.SuccessTextStyle, "[OK]"
	case NotificationError:
		return styles.ErrorTextStyle.Bold(true), "[ERR]"
	case NotificationWarning:
		return styles.WarningTextStyle, "[WARN]"
	case NotificationLoading:
		return styles.InfoTextStyle, m.spinner.View()
	default:
		return styles.InfoTextStyle, "[INFO]"
	}
}

var helpSections = []struct {
	title string
	rows  []string
}{
	{"Navigation", []string{
		"1-3        Switch tabs",
		"Tab        Next tab",
		"Shift+Tab  Previous tab",
	}},
	{"Actions", []string{
		"r          Reload telemetry log",
		"?          Toggle help",
		"q/Ctrl+C   Quit",
	}},
	{"Scrolling", []string{
		"j/k, ↑/↓   Scroll up/down",
	}},
}

func (m *Model) renderHelp() string {
	heading := lipgloss.NewStyle().Foreground(styles.Primary)

	lines := []string{styles.TitleStyle.UnsetMarginBottom().Render("Keyboard Shortcuts"), ""}
	for _, section := range helpSections {
		lines = append(lines, heading.Render(section.title))
		for _, row := range section.rows {
			lines = append(lines, "  "+row)
		}
		lines = append(lines, "")
	}

	if tab := m.currentTab(); tab != nil {
		if bindings := tab.ShortHelp(); len(bindings) > 0 {
			lines = append(lines, heading.Render(m.activeTab.String()+" Tab"))
			for _, b := range bindings {
				lines = append(lines, fmt.Sprintf("  %-10s %s", b.Help().Key, b.Help().Desc))
			}
			lines = append(lines, "")
		}
	}

	lines = append(lines, styles.HelpStyle.Render("Press ? or Esc to close"))
	return styles.HelpPanelStyle.Render(strings.Join(lines, "\n"))
}
