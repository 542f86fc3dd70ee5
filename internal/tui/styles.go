package tui

import (
	"github.com/charmbracelet/lipgloss"

	"alfredoptarigan/ats-scanner/internal/presentation"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#4472C4")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9C0006")).
			Background(lipgloss.Color("#FFC7CE")).
			Padding(0, 1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1F4E79")).
			Background(lipgloss.Color("#DDEBF7")).
			Padding(0, 1)

	anomalyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#BF8F00"))

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4472C4")).
			Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	selectedCardStyle = cardStyle.BorderForeground(lipgloss.Color("#4472C4"))

	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4472C4"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	tierStyles = map[presentation.TierLevel]lipgloss.Style{
		presentation.TierHigh:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#006100")),
		presentation.TierMedium: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#9C5700")),
		presentation.TierLow:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#9C0006")),
	}
)
