package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Header style for titles and section headers
	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1)

	// Success style for positive feedback
	StyleSuccess = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// Error style for error messages
	StyleError = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	// Warning style for warnings
	StyleWarning = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// Muted style for secondary text
	StyleMuted = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// Subtle style for hints and descriptions
	StyleSubtle = lipgloss.NewStyle().
			Foreground(ColorSubtle).
			Italic(true)
)

const logoASCII = `
           _       _
 _ __ ___ (_)_ __ | |_
| '_ ` + "`" + ` _ \| | '_ \| __|
| | | | | | | | | | |_
|_| |_| |_|_|_| |_|\__|
`

// Logo returns the styled application banner.
func Logo() string {
	return StyleHeader.Render(logoASCII) + "\n" +
		StyleSubtle.Render("  meeting capture, transcription and notes")
}
