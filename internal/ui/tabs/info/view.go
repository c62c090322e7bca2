package info

import (
	"fmt"
	"runtime"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/uranus/internal/ui/styles"
	"github.com/j-veylop/uranus/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	sections := []string{
		m.renderTitle(),
		m.renderConfigCard(),
		m.renderProviderCard(),
		m.renderAboutCard(),
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Configuration and application information")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	return min(max(m.width-6, 50), 90)
}

func (m *Model) renderConfigCard() string {
	rows := []string{styles.CardTitleStyle.Render("Configuration")}

	if m.config == nil {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
		return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	}

	c := m.config
	rows = append(rows,
		m.renderConfigRow("Server", c.Addr()),
		m.renderConfigRow("Telemetry Log", c.TelemetryLogPath),
		m.renderConfigRow("Database", orDisabled(c.DatabasePath)),
		m.renderConfigRow("Saved Audio", c.SavedAudioPath),
		m.renderConfigRow("Static Files", c.StaticDir),
		m.renderConfigRow("Dashboard Log", c.DashboardLogPath),
		m.renderConfigRow("Log Level", c.LogLevel),
		m.renderConfigRow("Redis", orDisabled(c.RedisURL)),
		m.renderConfigRow("Metrics", enabled(c.MetricsEnabled)),
		m.renderConfigRow("Env File", orNone(c.EnvFile)),
	)

	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderProviderCard() string {
	rows := []string{styles.CardTitleStyle.Render("Model Provider")}

	if m.config == nil {
		return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	}

	c := m.config
	status := styles.SuccessTextStyle.Render("● configured")
	if err := c.ValidateProvider(); err != nil {
		status = styles.ErrorTextStyle.Render("○ " + err.Error())
	}

	rows = append(rows,
		m.renderConfigRow("Status", status),
		m.renderConfigRow("Vertex Project", orNone(c.VertexProject)),
		m.renderConfigRow("Vertex Location", c.VertexLocation),
		m.renderConfigRow("Vertex API Key", secret(c.VertexAPIKey)),
		m.renderConfigRow("Vision API Key", secret(c.VisionAPIKey)),
	)

	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderConfigRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(18).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

func (m *Model) renderAboutCard() string {
	rows := []string{
		styles.CardTitleStyle.Render("About Uranus"),
		m.renderConfigRow("Version", version.GetVersion()),
		m.renderConfigRow("Build Date", version.GetDate()),
		m.renderConfigRow("Git Commit", version.GetCommit()),
		m.renderConfigRow("Go Version", runtime.Version()),
		m.renderConfigRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)),
		"",
	}

	records := m.state.Snapshot().TotalRequests
	rows = append(rows, fmt.Sprintf("Records: %s", styles.InfoTextStyle.Render(fmt.Sprintf("%d", records))))

	if updated := m.state.LastUpdated(); !updated.IsZero() {
		rows = append(rows, styles.HelpStyle.Render("Last reload: "+updated.Format(time.TimeOnly)))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func orDisabled(v string) string {
	if v == "" {
		return "disabled"
	}
	return v
}

func orNone(v string) string {
	if v == "" {
		return "none"
	}
	return v
}

func enabled(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}

// secret shows whether a credential is set without revealing it.
func secret(v string) string {
	if v == "" {
		return "not set"
	}
	if len(v) <= 8 {
		return "set"
	}
	return "set (…" + v[len(v)-4:] + ")"
}
