package dashboard

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/uranus/internal/models"
	"github.com/j-veylop/uranus/internal/ui/components"
	"github.com/j-veylop/uranus/internal/ui/styles"
)

// View renders the dashboard component.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	snap := m.state.Snapshot()
	cardWidth := max(m.width-6, 40)

	sections := []string{
		m.renderTitle(),
		m.renderTotals(snap, cardWidth),
		m.renderByModel(snap, cardWidth),
		m.renderByInputType(snap, cardWidth),
		m.renderRecent(snap, cardWidth),
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Uranus")
	subtitle := styles.HelpStyle.Render(fmt.Sprintf(
		"Product description telemetry · showing %s", filterLabel(m.state.Filter()),
	))
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func cardHeader(icon, title string) string {
	return fmt.Sprintf("%s %s",
		lipgloss.NewStyle().Foreground(styles.Primary).Render(icon),
		styles.CardTitleStyle.Render(title),
	)
}

func stat(value, label string) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		value,
		styles.StatLabelStyle.Render(label),
	)
}

func (m *Model) renderTotals(snap models.Snapshot, width int) string {
	rate := snap.SuccessRate()
	gap := "    "

	row := lipgloss.JoinHorizontal(lipgloss.Top,
		stat(styles.StatValueStyle.Render(fmt.Sprintf("%d", snap.TotalRequests)), "requests"), gap,
		stat(styles.SuccessRateStyle(rate).Bold(true).Render(fmt.Sprintf("%.1f%%", rate)), "success"), gap,
		stat(styles.ErrorTextStyle.Bold(true).Render(fmt.Sprintf("%d", snap.FailedRequests)), "failed"), gap,
		stat(styles.StatValueStyle.Render(formatTokens(snap.Usage.TotalTokens)), "tokens"), gap,
		stat(styles.StatValueStyle.Render(formatCost(snap.Usage.EstimatedCostUSD)), "est. cost"),
	)

	detail := styles.HelpStyle.Render(fmt.Sprintf("%s in · %s out",
		formatTokens(snap.Usage.InputTokens), formatTokens(snap.Usage.OutputTokens)))

	if snap.TotalRequests == 0 {
		detail = styles.InfoTextStyle.Render("╰─▶ No requests yet. Run the server and describe a product.")
	}

	return styles.CardStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, cardHeader("◈", "Totals"), row, "", detail),
	)
}

func (m *Model) renderByModel(snap models.Snapshot, width int) string {
	rows := []string{cardHeader("◆", "By model")}

	if len(snap.ByModel) == 0 {
		rows = append(rows, styles.HelpStyle.Render(fmt.Sprintf("  No requests for %s", filterLabel(m.state.Filter()))))
		return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	}

	labelWidth := 0
	for _, r := range snap.ByModel {
		labelWidth = max(labelWidth, lipgloss.Width(r.ModelLabel))
	}

	header := fmt.Sprintf("%-*s  %-12s %6s %8s %9s %10s %8s",
		labelWidth, "Model", "Type", "Calls", "Success", "Tokens", "Cost", "Latency")
	rows = append(rows, styles.TableHeaderStyle.Render(header))

	costs := make([]float64, 0, len(snap.ByModel))
	labels := make([]string, 0, len(snap.ByModel))

	for _, r := range snap.ByModel {
		rate := percent(r.SuccessCount, r.Count)
		typeCell := styles.ModelTypeStyle(string(r.ModelType)).Render(fmt.Sprintf("%-12s", r.ModelType))
		line := fmt.Sprintf("%-*s  %s %6d %s %9s %10s %8s",
			labelWidth, r.ModelLabel,
			typeCell,
			r.Count,
			styles.SuccessRateStyle(rate).Render(fmt.Sprintf("%7.1f%%", rate)),
			formatTokens(r.TotalTokens),
			formatCost(r.EstimatedCostUSD),
			fmt.Sprintf("%dms", r.AverageLatencyMs),
		)
		rows = append(rows, styles.TableCellStyle.Render(line))

		costs = append(costs, r.EstimatedCostUSD)
		labels = append(labels, r.ModelLabel)
	}

	rows = append(rows, "", styles.StatLabelStyle.Render("Estimated cost by model"))
	rows = append(rows, components.RenderBarChart(costs, labels, width-8, "$%.4f"))

	return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderByInputType(snap models.Snapshot, width int) string {
	rows := []string{cardHeader("◇", "By input")}

	if len(snap.ByInputType) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No requests yet"))
		return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	}

	header := fmt.Sprintf("%-12s %6s %8s %9s %10s %8s", "Input", "Calls", "Success", "Tokens", "Cost", "Latency")
	rows = append(rows, styles.TableHeaderStyle.Render(header))

	for _, r := range snap.ByInputType {
		rate := percent(r.SuccessCount, r.Count)
		line := fmt.Sprintf("%-12s %6d %s %9s %10s %8s",
			r.InputTypeLabel,
			r.Count,
			styles.SuccessRateStyle(rate).Render(fmt.Sprintf("%7.1f%%", rate)),
			formatTokens(r.TotalTokens),
			formatCost(r.EstimatedCostUSD),
			fmt.Sprintf("%dms", r.AverageLatencyMs),
		)
		rows = append(rows, styles.TableCellStyle.Render(line))
	}

	return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// renderRecent charts the latency of the most recent requests, oldest on the
// left, with one outcome cell per request underneath.
func (m *Model) renderRecent(snap models.Snapshot, width int) string {
	rows := []string{cardHeader("◷", "Recent requests")}

	if len(snap.Recent) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  Nothing recorded yet"))
		return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	}

	recent := slices.Clone(snap.Recent)
	slices.Reverse(recent)

	latencies := make([]float64, len(recent))
	outcomes := make([]bool, len(recent))
	for i, rec := range recent {
		latencies[i] = float64(rec.Result.LatencyMs)
		outcomes[i] = rec.Result.Success
	}

	rows = append(rows,
		components.RenderLineChart(latencies, width-16, 6, "latency (ms)"),
		"",
		"  "+components.RenderOutcomeStrip(outcomes),
	)

	if last := snap.Recent[0]; !last.Result.Success {
		rows = append(rows, "", styles.ErrorTextStyle.Render(fmt.Sprintf(
			"  Last failure: %s · %s", last.Result.ModelLabel, truncate(last.Result.Error, width-30),
		)))
	}

	return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func percent(part, total int) float64 {
	if total == 0 {
		return 100
	}
	return float64(part) / float64(total) * 100
}

func formatTokens(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 10_000:
		return fmt.Sprintf("%.1fk", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}

func formatCost(usd float64) string {
	if usd > 0 && usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func truncate(s string, n int) string {
	n = max(n, 10)
	s = strings.TrimSpace(s)
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}
