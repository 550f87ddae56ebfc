package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Header style for titles and section headers
	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1)

	StyleLabel = lipgloss.NewStyle().
			Foreground(ColorText).
			Bold(true)

	StyleSuccess = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	StyleError = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	StyleWarning = lipgloss.NewStyle().
			Foreground(ColorWarning)

	StyleMuted = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// Subtle style for hints and descriptions
	StyleSubtle = lipgloss.NewStyle().
			Foreground(ColorSubtle).
			Italic(true)

	// Card is one metric box in the results row
	StyleCard = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSubtle).
			Padding(0, 2).
			MarginRight(1)

	StyleCardValue = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Bold(true)

	StyleTableHeader = lipgloss.NewStyle().
				Foreground(ColorText).
				Background(ColorHighlight).
				Bold(true).
				Padding(0, 1)

	StyleTableCell = lipgloss.NewStyle().
			Foreground(ColorText).
			Padding(0, 1)

	StyleTableNumber = StyleTableCell.
				Foreground(ColorSecondary).
				Align(lipgloss.Right)
)

const logoASCII = `
                    _                   _
  __ _ _   _  ___ | |_ _____   _____ (_) ___ ___
 / _` + "`" + ` | | | |/ _ \| __/ _ \ \ / / _ \| |/ __/ _ \
| (_| | |_| | (_) | ||  __/\ V / (_) | | (_|  __/
 \__, |\__,_|\___/ \__\___| \_/ \___/|_|\___\___|
    |_|                                          `

// Logo returns the quotevoice ASCII art
func Logo() string {
	return StyleHeader.Render(strings.Trim(logoASCII, "\n"))
}
