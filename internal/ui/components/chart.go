// Package components provides reusable UI components for the TUI.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/j-veylop/uranus/internal/ui/styles"
)

// Chart series colors.
var (
	ChartCallsColor   = lipgloss.Color("#5FAFFF")
	ChartFailedColor  = lipgloss.Color("#FF5F87")
	ChartLatencyColor = lipgloss.Color("#87D7AF")
)

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

func clampChart(width, height int) (int, int) {
	return max(width, 20), max(height, 3)
}

// RenderLineChart creates a single-series ASCII line chart.
func RenderLineChart(data []float64, width, height int, caption string) string {
	if len(data) == 0 {
		return styles.HelpStyle.Render("No data available")
	}
	width, height = clampChart(width, height)

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(asciigraph.Green),
	)
}

// RenderCallsChart plots total and failed calls on one chart.
func RenderCallsChart(total, failed []float64, width, height int, caption string) string {
	if len(total) == 0 && len(failed) == 0 {
		return styles.HelpStyle.Render("No data available")
	}
	width, height = clampChart(width, height)

	n := max(len(total), len(failed))
	totalData := make([]float64, n)
	failedData := make([]float64, n)
	copy(totalData, total)
	copy(failedData, failed)

	return asciigraph.PlotMany([][]float64{totalData, failedData},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red),
	)
}

// RenderBarChart creates a horizontal bar chart. format renders each value.
func RenderBarChart(values []float64, labels []string, width int, format string) string {
	if len(values) == 0 {
		return ""
	}
	if format == "" {
		format = "%.1f"
	}

	maxVal := 0.0
	for _, v := range values {
		maxVal = max(maxVal, v)
	}
	if maxVal == 0 {
		maxVal = 1
	}

	maxLabelLen := 0
	for _, l := range labels {
		maxLabelLen = max(maxLabelLen, lipgloss.Width(l))
	}

	barWidth := max(width-maxLabelLen-12, 10)

	lines := make([]string, 0, len(values))
	for i, v := range values {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		pad := strings.Repeat(" ", maxLabelLen-lipgloss.Width(label))

		barLen := max(int((v/maxVal)*float64(barWidth)), 0)
		bar := lipgloss.NewStyle().Foreground(styles.Primary).Render(strings.Repeat("█", barLen))

		lines = append(lines, pad+label+" │"+bar+" "+fmt.Sprintf(format, v))
	}

	return strings.Join(lines, "\n")
}

// RenderSparkline creates a compact inline sparkline, sampling values to fit
// width.
func RenderSparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	maxVal := 0.0
	for _, v := range values {
		maxVal = max(maxVal, v)
	}
	if maxVal == 0 {
		maxVal = 1
	}

	step := max(float64(len(values))/float64(width), 1)

	var result strings.Builder
	for i := 0; i < width && int(float64(i)*step) < len(values); i++ {
		v := values[int(float64(i)*step)]
		idx := int((v / maxVal) * float64(len(sparkChars)-1))
		idx = min(max(idx, 0), len(sparkChars)-1)
		result.WriteRune(sparkChars[idx])
	}

	return result.String()
}

// RenderOutcomeStrip renders one cell per request, green for success and red
// for failure, oldest first.
func RenderOutcomeStrip(success []bool) string {
	ok := lipgloss.NewStyle().Foreground(styles.Success)
	bad := lipgloss.NewStyle().Foreground(styles.Error)

	var b strings.Builder
	for _, s := range success {
		if s {
			b.WriteString(ok.Render("▪"))
		} else {
			b.WriteString(bad.Render("▪"))
		}
	}
	return b.String()
}

// LegendItem represents a single legend entry.
type LegendItem struct {
	Label string
	Color lipgloss.Color
}

// RenderLegend creates a chart legend.
func RenderLegend(items []LegendItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		colorBox := lipgloss.NewStyle().Foreground(item.Color).Render("■")
		parts = append(parts, fmt.Sprintf("%s %s", colorBox, item.Label))
	}
	return strings.Join(parts, "  ")
}
