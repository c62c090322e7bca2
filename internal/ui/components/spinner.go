package components

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/uranus/internal/ui/styles"
)

var spinnerCaption = lipgloss.NewStyle().Foreground(styles.TextSecondary)

// LoadingSpinner is a spinner followed by a caption.
type LoadingSpinner struct {
	spinner.Model
	Label string
}

// NewSpinner creates a loading spinner captioned with label.
func NewSpinner(label string) LoadingSpinner {
	return LoadingSpinner{
		Model: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(styles.Primary)),
		),
		Label: label,
	}
}

// Init starts the animation.
func (l LoadingSpinner) Init() tea.Cmd {
	return l.Tick
}

// Update advances the spinner on its own tick messages.
func (l LoadingSpinner) Update(msg tea.Msg) (LoadingSpinner, tea.Cmd) {
	var cmd tea.Cmd
	l.Model, cmd = l.Model.Update(msg)
	return l, cmd
}

func (l LoadingSpinner) View() string {
	return l.Model.View() + " " + spinnerCaption.Render(l.Label)
}

// RenderSpinnerCentered centers s in a width by height box.
func RenderSpinnerCentered(s LoadingSpinner, width, height int) string {
	return styles.CenterBoth(s.View(), width, height)
}
