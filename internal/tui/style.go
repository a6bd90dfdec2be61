package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/ruqinhu/youxi/internal/models"
)

// Styles used throughout the TUI.
var (
	styleTitle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Bold(true)

	stylePanel = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(lipgloss.Color("238")).
			PaddingRight(2)

	stylePanelHeading = lipgloss.NewStyle().
				Foreground(lipgloss.Color("214")).
				Bold(true).
				Underline(true)

	styleNarrative = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleDialogue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Italic(true)

	styleCombat = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	styleDungeon = lipgloss.NewStyle().
			Foreground(lipgloss.Color("85"))

	styleImageMark = lipgloss.NewStyle().
			Foreground(lipgloss.Color("75")).
			Italic(true)

	styleHelp = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	styleOverlay = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("135")).
			Padding(1, 2)

	styleFailed = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	stylePlatform = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	stylePlayer = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51")).
			Bold(true)
)

// styleFor picks the render style for a log entry kind.
func styleFor(kind models.LogKind) lipgloss.Style {
	switch kind {
	case models.LogDialogue:
		return styleDialogue
	case models.LogSystem:
		return styleSystem
	case models.LogCombat:
		return styleCombat
	case models.LogDungeon:
		return styleDungeon
	default:
		return styleNarrative
	}
}
