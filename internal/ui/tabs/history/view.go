package history

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/uranus/internal/models"
	"github.com/j-veylop/uranus/internal/ui/components"
	"github.com/j-veylop/uranus/internal/ui/styles"
)

// View renders the history tab.
func (m *Model) View() string {
	cardWidth := max(m.width-6, 40)

	sections := []string{
		m.renderTitle(),
		m.renderHourly(cardWidth),
		m.renderRecent(cardWidth),
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("History")

	rangeLabel := lipgloss.NewStyle().Bold(true).Foreground(styles.Primary).Render(m.timeRange.String())
	subtitle := styles.HelpStyle.Render("Range: ") + rangeLabel + styles.HelpStyle.Render("  (press t to change)")
	if m.loading {
		subtitle += styles.HelpStyle.Render("  · loading...")
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func header(icon, title string) string {
	return fmt.Sprintf("%s %s",
		lipgloss.NewStyle().Foreground(styles.Primary).Render(icon),
		styles.CardTitleStyle.Render(title),
	)
}

func (m *Model) renderHourly(width int) string {
	rows := []string{header("◷", "Requests per hour")}

	switch {
	case m.err != nil:
		rows = append(rows, styles.ErrorTextStyle.Render("  "+m.err.Error()))
	case !m.mirror:
		rows = append(rows,
			styles.HelpStyle.Render("  SQLite mirror is disabled."),
			styles.InfoTextStyle.Render("  ╰─▶ Set DATABASE_PATH to chart hourly history."),
		)
	case len(m.hourly) == 0:
		rows = append(rows, styles.HelpStyle.Render(fmt.Sprintf("  No requests in the last %s", strings.ToLower(m.timeRange.String()))))
	default:
		rows = append(rows, m.renderHourlyCharts(width)...)
	}

	return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// renderHourlyCharts plots the buckets oldest first. The mirror returns them
// newest first.
func (m *Model) renderHourlyCharts(width int) []string {
	hourly := slices.Clone(m.hourly)
	slices.Reverse(hourly)

	total := make([]float64, len(hourly))
	failed := make([]float64, len(hourly))
	costs := make([]float64, len(hourly))
	latency := make([]float64, len(hourly))

	var sum models.HourlyStats
	for i, h := range hourly {
		total[i] = float64(h.TotalCalls)
		failed[i] = float64(h.FailedCalls)
		costs[i] = h.CostUSD
		latency[i] = h.AvgLatencyMs

		sum.TotalCalls += h.TotalCalls
		sum.FailedCalls += h.FailedCalls
		sum.TotalTokens += h.TotalTokens
		sum.CostUSD += h.CostUSD
	}

	chartWidth := max(width-16, 30)
	caption := fmt.Sprintf("%s → %s",
		hourly[0].Hour.Local().Format("Jan 2 15:04"),
		hourly[len(hourly)-1].Hour.Local().Format("Jan 2 15:04"),
	)

	rows := []string{
		components.RenderCallsChart(total, failed, chartWidth, 8, caption),
		"",
		"  " + components.RenderLegend([]components.LegendItem{
			{Label: "calls", Color: components.ChartCallsColor},
			{Label: "failed", Color: components.ChartFailedColor},
		}),
		"",
		fmt.Sprintf("  %s calls · %s failed · %s tokens · $%.4f",
			styles.StatValueStyle.Render(fmt.Sprintf("%d", sum.TotalCalls)),
			styles.ErrorTextStyle.Render(fmt.Sprintf("%d", sum.FailedCalls)),
			styles.StatValueStyle.Render(fmt.Sprintf("%d", sum.TotalTokens)),
			sum.CostUSD,
		),
		fmt.Sprintf("  cost    %s", components.RenderSparkline(costs, chartWidth)),
		fmt.Sprintf("  latency %s", components.RenderSparkline(latency, chartWidth)),
	}

	if m.totals != nil {
		rows = append(rows, "", styles.HelpStyle.Render(fmt.Sprintf(
			"  All time: %d calls across %d models, %.0fms average latency",
			m.totals.TotalCalls, m.totals.UniqueModels, m.totals.AvgLatencyMs,
		)))
	}

	return rows
}

func (m *Model) renderRecent(width int) string {
	rows := []string{header("≡", "Latest requests")}

	if len(m.recent) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  Nothing recorded yet"))
		return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	}

	rows = append(rows, styles.TableHeaderStyle.Render(fmt.Sprintf(
		"%-19s  %-24s %-12s %8s %7s  %s", "Time", "Model", "Input", "Latency", "Tokens", "Status")))

	for _, rec := range m.recent {
		status := styles.SuccessTextStyle.Render("ok")
		if !rec.Result.Success {
			status = styles.ErrorTextStyle.Render(clip(rec.Result.Error, max(width-90, 20)))
		}
		line := fmt.Sprintf("%-19s  %-24s %-12s %8s %7d  %s",
			formatTimestamp(rec.Timestamp),
			clip(rec.Result.ModelLabel, 24),
			rec.Input.Type.Label(),
			fmt.Sprintf("%dms", rec.Result.LatencyMs),
			rec.Result.Usage.TotalTokens,
			status,
		)
		rows = append(rows, styles.TableCellStyle.Render(line))
	}

	return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// formatTimestamp trims an ISO-8601 timestamp to "2006-01-02 15:04:05".
func formatTimestamp(ts string) string {
	if len(ts) < 19 {
		return ts
	}
	return strings.Replace(ts[:19], "T", " ", 1)
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
