// Package styles defines the visual styling for the application.
package styles

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Primary = lipgloss.Color("75")  // Uranus blue
	Subtle  = lipgloss.Color("240") // Gray

	TextModel  = lipgloss.Color("141") // Lavender
	AudioModel = lipgloss.Color("214") // Amber

	Success = lipgloss.Color("42")
	Error   = lipgloss.Color("196")
	Warning = lipgloss.Color("220")
	Info    = lipgloss.Color("39")

	BgDark = lipgloss.Color("235")

	TextPrimary   = lipgloss.Color("252")
	TextSecondary = lipgloss.Color("245")
	TextMuted     = lipgloss.Color("240")
)

// Layout.
var (
	// DocStyle frames every tab.
	DocStyle = lipgloss.NewStyle().Margin(1, 2).Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(Primary).MarginBottom(1)

	// CardStyle is the bordered box each dashboard section is drawn in.
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Subtle).
			Padding(1, 2).
			MarginBottom(1)

	CardTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(Primary).MarginBottom(1)

	HelpStyle = lipgloss.NewStyle().Foreground(TextMuted)

	HelpPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(Primary).
			Padding(1, 3).
			Background(BgDark)
)

// Navigation and toasts drawn by the root model.
var (
	TabBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(Subtle)

	ActiveTabStyle   = lipgloss.NewStyle().Bold(true).Foreground(Primary).Padding(0, 2)
	InactiveTabStyle = lipgloss.NewStyle().Foreground(TextMuted).Padding(0, 2)

	ToastStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1).
			MarginBottom(1)
)

// Tables and numbers.
var (
	TableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(Primary)
	TableCellStyle   = lipgloss.NewStyle().Foreground(TextPrimary)
	StatValueStyle   = lipgloss.NewStyle().Bold(true).Foreground(TextPrimary)
	StatLabelStyle   = lipgloss.NewStyle().Foreground(TextSecondary)

	ErrorTextStyle   = lipgloss.NewStyle().Foreground(Error)
	SuccessTextStyle = lipgloss.NewStyle().Foreground(Success)
	WarningTextStyle = lipgloss.NewStyle().Foreground(Warning)
	InfoTextStyle    = lipgloss.NewStyle().Foreground(Info)
)

// SuccessRateStyle colors a success percentage: green from 95, yellow from
// the 80 alert threshold, red below.
func SuccessRateStyle(percent float64) lipgloss.Style {
	switch {
	case percent >= 95:
		return SuccessTextStyle
	case percent >= 80:
		return WarningTextStyle
	default:
		return ErrorTextStyle.Bold(true)
	}
}

// ModelTypeStyle returns the badge color for a model type.
func ModelTypeStyle(modelType string) lipgloss.Style {
	switch modelType {
	case "native-audio":
		return lipgloss.NewStyle().Foreground(AudioModel)
	case "text":
		return lipgloss.NewStyle().Foreground(TextModel)
	default:
		return lipgloss.NewStyle().Foreground(Subtle)
	}
}

// CenterBoth centers content in a width by height box.
func CenterBoth(content string, width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center).
		AlignVertical(lipgloss.Center).
		Render(content)
}
